package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hm-edu/dyndns/client"
	"github.com/hm-edu/dyndns/config"
	"github.com/hm-edu/dyndns/ddns"
	"github.com/hm-edu/dyndns/resolver"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	debug     bool
	confirm   bool
	force     bool
	setup     bool
	configDir string

	// flag name -> viper key
	keyMapping = map[string]string{
		"api-url":         "api_url",
		"ip-url":          "ip_url",
		"nameserver":      "nameserver",
		"verify-delay":    "verify_delay",
		"connect-timeout": "connect_timeout",
		"timeout":         "timeout",
		"key-file":        "key_file",
		"gotify-file":     "gotify_file",
		"log-file":        "log_file",
	}
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dyndns",
	Short: "Point the A records of every zone in the account at the current public IP",
	Long: `dyndns resolves the public IPv4 address of this host, audits the A records of
all zones in the DNS hosting account and submits a single dynamic DNS bulk
update when any of them is outdated.

Without flags it runs silently and logs to the log file, suitable for cron.`,
	Args: cobra.NoArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		loadConfig(cmd)
		setupLogging(cmd != cmd.Root() || confirm || setup || debug)
	},
	Run: func(cmd *cobra.Command, args []string) {
		if setup {
			if err := runSetup(cmd.Context()); err != nil {
				slog.Error("Setup failed", slog.Any("error", err))
				os.Exit(1)
			}
			return
		}
		if err := runSync(cmd.Context()); err != nil {
			os.Exit(1)
		}
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug mode")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", config.DefaultDir(), "Directory holding the api key, gotify config and log file")
	rootCmd.PersistentFlags().String("api-url", client.BaseURL, "Base URL of the DNS hosting API")
	rootCmd.PersistentFlags().String("ip-url", resolver.DefaultURL, "Plaintext IPv4 echo service")
	rootCmd.PersistentFlags().Duration("connect-timeout", client.DefaultTimeouts.Connect, "Connect timeout of every request")
	rootCmd.PersistentFlags().Duration("timeout", client.DefaultTimeouts.Total, "Total timeout of every request")
	rootCmd.PersistentFlags().String("key-file", "", "API key file (default <config-dir>/api_key)")
	rootCmd.PersistentFlags().String("gotify-file", "", "Gotify config file (default <config-dir>/gotify.yaml)")
	rootCmd.PersistentFlags().String("log-file", "", "Log file (default <config-dir>/dyndns.log)")

	rootCmd.Flags().BoolVarP(&confirm, "confirm", "c", false, "Ask for confirmation before every step")
	rootCmd.Flags().BoolVarP(&force, "force", "f", false, "Submit the update even when all records are current")
	rootCmd.Flags().BoolVarP(&setup, "setup", "s", false, "Interactively store the api key and gotify settings")
	rootCmd.Flags().String("nameserver", "", "Nameserver to check propagation against after the update")
	rootCmd.Flags().Duration("verify-delay", ddns.DefaultVerifyDelay, "Wait between triggering the update and verifying it")
	rootCmd.MarkFlagsMutuallyExclusive("setup", "force")

	// Global viper env handling. Precedence is: flags > env > config.
	viper.SetEnvPrefix("DYNDNS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()
}

func loadConfig(cmd *cobra.Command) {
	viper.SetConfigType("yaml")
	viper.SetConfigName(config.ConfigName)
	viper.AddConfigPath(configDir)
	viper.AddConfigPath("/etc/dyndns/")

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if v, ok := keyMapping[f.Name]; ok {
			if err := viper.BindPFlag(v, f); err != nil {
				slog.Error("Failed to bind flag", slog.Any("error", err))
				os.Exit(1)
			}
		}
	})
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("Error reading config file", slog.Any("error", err))
			os.Exit(1)
		}
	}
}

func setupLogging(echo bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler, _, err := config.OpenLog(configPath("log_file", config.LogFileName), echo, level)
	if err != nil {
		slog.Error("Failed to open log file", slog.Any("error", err))
		os.Exit(1)
	}
	slog.SetDefault(slog.New(handler))
	if used := viper.ConfigFileUsed(); used != "" {
		slog.Debug("Using config file", slog.String("config", used))
	}
}

// configPath returns the viper value for key or name inside the config dir.
func configPath(key, name string) string {
	if p := viper.GetString(key); p != "" {
		return p
	}
	return filepath.Join(configDir, name)
}

func timeouts() client.Timeouts {
	return client.Timeouts{
		Connect: viper.GetDuration("connect_timeout"),
		Total:   viper.GetDuration("timeout"),
	}
}

func newProviderClient(apiKey string) (*client.Client, error) {
	return client.New(apiKey,
		client.WithBaseURL(viper.GetString("api_url")),
		client.WithTimeouts(timeouts()),
		client.WithDebug(debug))
}

func newResolver() *resolver.WebResolver {
	return resolver.New(viper.GetString("ip_url"),
		resolver.WithTimeouts(timeouts()),
		resolver.WithDebug(debug))
}

func verifyDelay() time.Duration {
	if !viper.IsSet("verify_delay") {
		return ddns.DefaultVerifyDelay
	}
	return viper.GetDuration("verify_delay")
}

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/hm-edu/dyndns/config"
	"github.com/spf13/cobra"
)

var zonesCmd = &cobra.Command{
	Use:   "zones",
	Short: "List the zones available to the api key",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		key, err := config.ReadKey(configPath("key_file", config.KeyFileName))
		if err != nil {
			slog.Error("api key is required; run dyndns --setup", slog.Any("error", err))
			os.Exit(1)
		}
		c, err := newProviderClient(key)
		if err != nil {
			slog.Error("Failed to create client", slog.Any("error", err))
			os.Exit(1)
		}
		zones, err := c.ListZones(cmd.Context())
		if err != nil {
			slog.Error("failed to list zones", slog.Any("error", err))
			os.Exit(1)
		}
		for _, z := range zones {
			fmt.Printf("%s\t%s\n", z.ID, z.Name)
		}
	},
}

var ipCmd = &cobra.Command{
	Use:   "ip",
	Short: "Print the public IPv4 address",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ip, err := newResolver().Resolve(cmd.Context())
		if err != nil {
			slog.Error("failed to resolve public ip", slog.Any("error", err))
			os.Exit(1)
		}
		fmt.Println(ip)
	},
}

func init() {
	rootCmd.AddCommand(zonesCmd)
	rootCmd.AddCommand(ipCmd)
}

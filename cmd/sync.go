package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hm-edu/dyndns/config"
	"github.com/hm-edu/dyndns/ddns"
	"github.com/hm-edu/dyndns/dns"
	"github.com/hm-edu/dyndns/notify"
	"github.com/hm-edu/dyndns/prompt"
	"github.com/spf13/viper"
)

func runSync(ctx context.Context) error {
	var notifier ddns.Notifier
	gotifyCfg, err := notify.LoadConfig(configPath("gotify_file", config.GotifyFileName))
	if err != nil {
		slog.Warn("Notifications disabled", slog.Any("error", err))
	} else if gotifyCfg.Enabled() {
		notifier = notify.NewGotify(gotifyCfg, timeouts())
	}

	key, err := config.ReadKey(configPath("key_file", config.KeyFileName))
	if err != nil {
		err = fmt.Errorf("loading api key (run with --setup to create it): %w", err)
		slog.Error("Run failed", slog.Any("error", err))
		if notifier != nil {
			if nerr := notifier.NotifyError(ctx, err); nerr != nil {
				slog.Warn("Failed to send error notification", slog.Any("error", nerr))
			}
		}
		return err
	}

	provider, err := newProviderClient(key)
	if err != nil {
		slog.Error("Failed to create client", slog.Any("error", err))
		return err
	}

	options := []ddns.Option{ddns.WithLogger(slog.Default())}
	if notifier != nil {
		options = append(options, ddns.WithNotifier(notifier))
	}
	if confirm {
		options = append(options, ddns.WithPrompter(prompt.NewTerminal()))
	}
	if ns := viper.GetString("nameserver"); ns != "" {
		options = append(options, ddns.WithChecker(dns.NewChecker(dns.Config{Nameserver: ns, Timeout: timeouts().Total})))
	}

	syncer, err := ddns.New(provider, newResolver(), ddns.RunConfig{
		Confirm:     confirm,
		Force:       force,
		VerifyDelay: verifyDelay(),
	}, options...)
	if err != nil {
		slog.Error("Failed to prepare run", slog.Any("error", err))
		return err
	}

	result, err := syncer.Run(ctx)
	if err != nil {
		return err
	}
	switch {
	case result.Cancelled:
		slog.Info("Nothing changed, run was cancelled")
	case result.Updated:
		slog.Info("Update finished",
			slog.String("ip", result.IP),
			slog.Int("domains", len(result.Domains)),
			slog.Int("mismatched", result.Verification.Mismatched))
	default:
		slog.Info("No update needed", slog.String("ip", result.IP))
	}
	return nil
}

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/hm-edu/dyndns/config"
	"github.com/hm-edu/dyndns/notify"
	"github.com/hm-edu/dyndns/prompt"
)

func runSetup(ctx context.Context) error {
	slog.Info("Running setup", slog.String("config_dir", configDir))
	p := prompt.NewTerminal()

	key, err := p.PromptCredential()
	if err != nil {
		return err
	}
	c, err := newProviderClient(key)
	if err != nil {
		return err
	}
	slog.Info("Verifying api key")
	zones, err := c.ListZones(ctx)
	if err != nil {
		return fmt.Errorf("unable to verify api key: %w", err)
	}
	slog.Info("API key verified", slog.Int("zones", len(zones)))

	keyFile := configPath("key_file", config.KeyFileName)
	if err := config.WriteKey(keyFile, key); err != nil {
		return err
	}
	slog.Info("API key written", slog.String("path", keyFile))

	if !p.Confirm("Configure Gotify notifications") {
		return nil
	}
	url, err := p.Prompt("Gotify URL")
	if err != nil {
		return err
	}
	token, err := p.Prompt("Gotify application token")
	if err != nil {
		return err
	}
	cfg := notify.Config{URL: url, Token: token}
	if !cfg.Enabled() {
		slog.Warn("Gotify URL or token empty, notifications stay disabled")
		return nil
	}
	gotifyFile := configPath("gotify_file", config.GotifyFileName)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}
	if err := notify.SaveConfig(gotifyFile, cfg); err != nil {
		return err
	}
	slog.Info("Gotify config written", slog.String("path", gotifyFile))
	return nil
}

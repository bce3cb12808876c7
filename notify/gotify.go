// Package notify delivers run reports to a Gotify server.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/hm-edu/dyndns/client"
	"github.com/hm-edu/dyndns/models"
	"gopkg.in/yaml.v3"
)

const (
	MessagePath = "/message"

	DefaultPriority = 5
	ErrorPriority   = 8

	markdownExtra = "extras[client::display][contentType]"
)

type Gotify struct {
	client   *resty.Client
	url      string
	token    string
	priority int
}

// LoadConfig reads a gotify YAML file. A missing file yields a disabled config.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading gotify config: %w", err)
	}
	cfg := Config{}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing gotify config: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path readable only by the owner.
func SaveConfig(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing gotify config: %w", err)
	}
	return os.Chmod(path, 0600)
}

func NewGotify(cfg Config, timeouts client.Timeouts) *Gotify {
	priority := cfg.Priority
	if priority <= 0 {
		priority = DefaultPriority
	}
	return &Gotify{
		client:   client.NewResty(timeouts, "tcp"),
		url:      strings.TrimSuffix(cfg.URL, "/"),
		token:    cfg.Token,
		priority: priority,
	}
}

func (g *Gotify) send(ctx context.Context, title, message string, priority int) error {
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParam("token", g.token).
		SetMultipartFormData(map[string]string{
			"title":       title,
			"message":     message,
			"priority":    strconv.Itoa(priority),
			markdownExtra: "text/markdown",
		}).
		Post(g.url + MessagePath)
	if err != nil {
		return fmt.Errorf("sending gotify message: %w", err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("sending gotify message: %w", &client.UnexpectedResponseCodeError{Code: resp.StatusCode(), Body: resp.Body()})
	}
	slog.Debug("Delivered gotify message", slog.String("title", title))
	return nil
}

func (g *Gotify) NotifySuccess(ctx context.Context, result *models.Result) error {
	return g.send(ctx, "DynDNS updated", SuccessMessage(result), g.priority)
}

func (g *Gotify) NotifyError(ctx context.Context, runErr error) error {
	return g.send(ctx, "DynDNS failed", ErrorMessage(runErr), max(g.priority, ErrorPriority))
}

// SuccessMessage renders the markdown body reporting an applied update.
func SuccessMessage(result *models.Result) string {
	mode := "automatic"
	if result.Forced {
		mode = "forced"
	}
	b := strings.Builder{}
	fmt.Fprintf(&b, "**New IP:** `%s`\n\n", result.IP)
	fmt.Fprintf(&b, "**Mode:** %s\n\n", mode)
	fmt.Fprintf(&b, "**Updated domains (%d):**\n\n", len(result.Domains))
	for _, d := range result.Domains {
		fmt.Fprintf(&b, "- %s\n", d)
	}
	if result.Verification.Mismatched > 0 {
		fmt.Fprintf(&b, "\n**Warning:** %d record(s) did not match after the update.\n", result.Verification.Mismatched)
	}
	return b.String()
}

func ErrorMessage(err error) string {
	return fmt.Sprintf("**Error:** %s", err)
}

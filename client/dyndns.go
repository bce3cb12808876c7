package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hm-edu/dyndns/models"
)

// CreateBulkUpdate registers a dynamic DNS bulk for the given domains. The
// change is not applied until TriggerUpdate is called with the returned handle.
func (c *Client) CreateBulkUpdate(ctx context.Context, request models.BulkUpdateRequest) (*models.BulkUpdateHandle, error) {
	if len(request.Domains) == 0 {
		return nil, errors.New("bulk update needs at least one domain")
	}
	body, err := jsonBody(c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", ApplicationJson).
		SetBody(request).
		Post(DynDNSPath))
	if err != nil {
		return nil, fmt.Errorf("creating bulk update: %w", err)
	}
	var handle models.BulkUpdateHandle
	if err := json.Unmarshal(body, &handle); err != nil {
		return nil, fmt.Errorf("failed to parse bulk update response json: %w", err)
	}
	if strings.TrimSpace(handle.UpdateURL) == "" {
		return nil, ErrMissingUpdateURL
	}
	slog.Info("Created bulk update", slog.String("bulk_id", handle.BulkID), slog.Int("domains", len(request.Domains)))
	return &handle, nil
}

// TriggerUpdate invokes the one-time update URL of a bulk handle.
func (c *Client) TriggerUpdate(ctx context.Context, handle *models.BulkUpdateHandle) error {
	if handle == nil || handle.UpdateURL == "" {
		return ErrMissingUpdateURL
	}
	resp, err := c.trigger.R().
		SetContext(ctx).
		Get(handle.UpdateURL)
	if err != nil {
		return fmt.Errorf("triggering bulk update: %w", err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("triggering bulk update: %w", &UnexpectedResponseCodeError{Code: resp.StatusCode(), Body: resp.Body()})
	}
	slog.Info("Triggered bulk update", slog.String("bulk_id", handle.BulkID), slog.Int("status", resp.StatusCode()))
	return nil
}

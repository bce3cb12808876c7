package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hm-edu/dyndns/models"
)

// ListZones returns every zone visible to the API key.
func (c *Client) ListZones(ctx context.Context) ([]models.Zone, error) {
	start := time.Now()
	body, err := jsonBody(c.client.R().
		SetContext(ctx).
		Get(ZonesPath))
	if err != nil {
		return nil, fmt.Errorf("listing zones: %w", err)
	}
	var zones []models.Zone
	if err := json.Unmarshal(body, &zones); err != nil {
		return nil, fmt.Errorf("failed to parse zones response json: %w", err)
	}
	if len(zones) == 0 {
		return nil, ErrNoZones
	}
	slog.Debug("Listed zones", slog.Int("count", len(zones)), since(start))
	return zones, nil
}

// GetZoneRecords fetches the A and AAAA records of a zone.
func (c *Client) GetZoneRecords(ctx context.Context, zoneID string) ([]models.Record, error) {
	start := time.Now()
	body, err := jsonBody(c.client.R().
		SetContext(ctx).
		SetPathParam("zoneId", zoneID).
		SetQueryParam("recordType", models.RecordTypeA+","+models.RecordTypeAAAA).
		Get(ZonePath))
	if err != nil {
		return nil, fmt.Errorf("fetching records of zone %s: %w", zoneID, err)
	}
	var zone models.ZoneRecords
	if err := json.Unmarshal(body, &zone); err != nil {
		return nil, fmt.Errorf("failed to parse records of zone %s: %w", zoneID, err)
	}
	slog.Debug("Fetched zone records", slog.String("zone", zoneID), slog.Int("count", len(zone.Records)), since(start))
	return zone.Records, nil
}

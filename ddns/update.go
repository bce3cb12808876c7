package ddns

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hm-edu/dyndns/models"
)

// Update submits one bulk update naming every domain and fires its update URL.
func (s *Syncer) Update(ctx context.Context, domains []string) (*models.BulkUpdateHandle, error) {
	if err := s.confirm(fmt.Sprintf("Create a bulk update for %d domain(s)", len(domains))); err != nil {
		return nil, err
	}
	handle, err := s.provider.CreateBulkUpdate(ctx, models.BulkUpdateRequest{
		Domains:     domains,
		Description: s.description(),
	})
	if err != nil {
		return nil, err
	}

	if err := s.confirm("Trigger the bulk update"); err != nil {
		return nil, err
	}
	if err := s.provider.TriggerUpdate(ctx, handle); err != nil {
		return nil, err
	}
	s.logger.Info("Bulk update scheduled", slog.String("bulk_id", handle.BulkID))
	return handle, nil
}

func (s *Syncer) description() string {
	return fmt.Sprintf("dyndns update %s (run %s)", s.now().UTC().Format(time.RFC3339), s.runID)
}

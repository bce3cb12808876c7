package ddns

import (
	"context"
	"log/slog"

	"github.com/hm-edu/dyndns/models"
)

// Verify waits for the provider to apply the bulk update and compares the A
// records again. Its findings are logged and never fail the run.
func (s *Syncer) Verify(ctx context.Context, zones []models.Zone, ip string, domains []string) models.Verification {
	v := models.Verification{}
	if s.cfg.VerifyDelay > 0 {
		s.logger.Info("Waiting before verification", slog.Duration("delay", s.cfg.VerifyDelay))
		if err := s.sleep(ctx, s.cfg.VerifyDelay); err != nil {
			s.logger.Warn("Verification skipped", slog.Any("error", err))
			return v
		}
	}

	for _, zone := range zones {
		records, err := s.provider.GetZoneRecords(ctx, zone.ID)
		if err != nil {
			s.logger.Warn("Failed to fetch records for verification", slog.String("zone", zone.Name), slog.Any("error", err))
			continue
		}
		for _, record := range filterA(records) {
			if record.Status(ip) == models.StatusCurrent {
				v.Matched++
				continue
			}
			v.Mismatched++
			v.Mismatches = append(v.Mismatches, models.RecordResult{
				Zone:    zone.Name,
				Name:    record.Name,
				Content: record.Content,
				Status:  models.StatusOutdated,
			})
			s.logger.Warn("Record still outdated", slog.String("name", record.Name), slog.String("content", record.Content))
		}
	}
	if v.Mismatched > 0 {
		s.logger.Warn("Verification found outdated records", slog.Int("matched", v.Matched), slog.Int("mismatched", v.Mismatched))
	} else {
		s.logger.Info("Verification passed", slog.Int("matched", v.Matched))
	}

	if s.checker != nil {
		if stale := s.checker.Check(ctx, domains, ip); len(stale) > 0 {
			s.logger.Warn("Update not yet visible in DNS", slog.Any("domains", stale))
		}
	}
	return v
}

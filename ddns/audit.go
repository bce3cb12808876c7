package ddns

import (
	"context"
	"log/slog"

	"github.com/hm-edu/dyndns/models"
)

// Audit classifies the A records of every zone against ip. Every A record name
// lands in the domain set whether or not it is outdated.
func (s *Syncer) Audit(ctx context.Context, zones []models.Zone, ip string) (*models.Audit, error) {
	audit := &models.Audit{Domains: models.DomainSet{}}
	for _, zone := range zones {
		records, err := s.provider.GetZoneRecords(ctx, zone.ID)
		if err != nil {
			return nil, err
		}
		a := filterA(records)
		if len(a) == 0 {
			s.logger.Warn("Zone has no A records, skipping", slog.String("zone", zone.Name))
			continue
		}
		for _, record := range a {
			status := record.Status(ip)
			if status == models.StatusOutdated {
				audit.Outdated++
			}
			s.logger.Info("Record "+string(status),
				slog.String("zone", zone.Name),
				slog.String("name", record.Name),
				slog.String("content", record.Content))
			audit.Domains.Add(record.Name)
			audit.Results = append(audit.Results, models.RecordResult{
				Zone:    zone.Name,
				Name:    record.Name,
				Content: record.Content,
				Status:  status,
			})
		}
	}
	s.logger.Info("Audit finished", slog.Int("domains", audit.Domains.Len()), slog.Int("outdated", audit.Outdated))
	return audit, nil
}

func filterA(records []models.Record) []models.Record {
	var a []models.Record
	for _, r := range records {
		if r.Type == models.RecordTypeA {
			a = append(a, r)
		}
	}
	return a
}

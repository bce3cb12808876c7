/*
Package ddns keeps the A records of every zone in a DNS hosting account
pointed at the current public IPv4 address.

A run resolves the address, lists the zones, audits their A records and, when
a record is stale or the run is forced, submits a single bulk update for every
A record name and triggers it. The result is verified against the provider and
optionally reported through a Notifier.
*/
package ddns

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hm-edu/dyndns/models"
)

const DefaultVerifyDelay = 5 * time.Second

// ErrCancelled is returned by a step the operator declined at the confirmation gate.
var ErrCancelled = errors.New("cancelled by operator")

type Resolver interface {
	Resolve(ctx context.Context) (string, error)
}

type Provider interface {
	ListZones(ctx context.Context) ([]models.Zone, error)
	GetZoneRecords(ctx context.Context, zoneID string) ([]models.Record, error)
	CreateBulkUpdate(ctx context.Context, request models.BulkUpdateRequest) (*models.BulkUpdateHandle, error)
	TriggerUpdate(ctx context.Context, handle *models.BulkUpdateHandle) error
}

type Notifier interface {
	NotifySuccess(ctx context.Context, result *models.Result) error
	NotifyError(ctx context.Context, err error) error
}

// PropagationChecker reports the domains a public resolver does not yet
// answer with ip.
type PropagationChecker interface {
	Check(ctx context.Context, domains []string, ip string) []string
}

type Prompter interface {
	Confirm(description string) bool
	PromptCredential() (string, error)
	Prompt(label string) (string, error)
}

// RunConfig is fixed for the lifetime of a Syncer.
type RunConfig struct {
	// Confirm asks the Prompter before every network step.
	Confirm bool
	// Force submits the bulk update even when every record is current.
	Force       bool
	VerifyDelay time.Duration
}

type Syncer struct {
	provider Provider
	resolver Resolver
	notifier Notifier
	checker  PropagationChecker
	prompter Prompter
	cfg      RunConfig
	logger   *slog.Logger
	runID    string
	now      func() time.Time
	sleep    func(context.Context, time.Duration) error
}

type Option func(*Syncer)

func WithNotifier(n Notifier) Option {
	return func(s *Syncer) {
		s.notifier = n
	}
}

func WithChecker(c PropagationChecker) Option {
	return func(s *Syncer) {
		s.checker = c
	}
}

func WithPrompter(p Prompter) Option {
	return func(s *Syncer) {
		s.prompter = p
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Syncer) {
		s.logger = logger
	}
}

func New(provider Provider, resolver Resolver, cfg RunConfig, options ...Option) (*Syncer, error) {
	if provider == nil {
		return nil, errors.New("ddns.New: provider is required")
	}
	if resolver == nil {
		return nil, errors.New("ddns.New: resolver is required")
	}
	s := &Syncer{
		provider: provider,
		resolver: resolver,
		cfg:      cfg,
		runID:    uuid.NewString(),
		now:      time.Now,
		sleep:    sleepContext,
	}
	for _, option := range options {
		option(s)
	}
	if cfg.Confirm && s.prompter == nil {
		return nil, errors.New("ddns.New: confirm mode requires a prompter")
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With(slog.String("run", s.runID))
	return s, nil
}

// Run executes the whole pipeline once. A declined confirmation ends the run
// without error and marks the result as cancelled.
func (s *Syncer) Run(ctx context.Context) (*models.Result, error) {
	result := &models.Result{Forced: s.cfg.Force}
	err := s.run(ctx, result)
	if errors.Is(err, ErrCancelled) {
		s.logger.Info("Run cancelled")
		result.Cancelled = true
		return result, nil
	}
	if err != nil {
		s.logger.Error("Run failed", slog.Any("error", err))
		s.notifyError(ctx, err)
		return result, err
	}
	return result, nil
}

func (s *Syncer) run(ctx context.Context, result *models.Result) error {
	if err := s.confirm("Resolve the public IP address"); err != nil {
		return err
	}
	ip, err := s.resolver.Resolve(ctx)
	if err != nil {
		return fmt.Errorf("resolving public ip: %w", err)
	}
	result.IP = ip
	s.logger.Info("Resolved public IP", slog.String("ip", ip))

	if err := s.confirm("List the zones of the account"); err != nil {
		return err
	}
	zones, err := s.provider.ListZones(ctx)
	if err != nil {
		return err
	}
	result.Zones = zones
	s.logger.Info("Found zones", slog.Int("count", len(zones)))

	if err := s.confirm(fmt.Sprintf("Audit the A records of %d zone(s)", len(zones))); err != nil {
		return err
	}
	audit, err := s.Audit(ctx, zones, ip)
	if err != nil {
		return err
	}
	result.Domains = audit.Domains.Sorted()
	result.Outdated = audit.Outdated

	if audit.Domains.Len() == 0 {
		s.logger.Info("No A records found, nothing to do")
		return nil
	}
	if !NeedsUpdate(audit.Outdated, s.cfg.Force) {
		s.logger.Info("All records are current", slog.Int("domains", audit.Domains.Len()))
		return nil
	}
	s.logger.Info("Updating records",
		slog.Int("outdated", audit.Outdated),
		slog.Int("domains", audit.Domains.Len()),
		slog.Bool("forced", s.cfg.Force))

	handle, err := s.Update(ctx, result.Domains)
	if err != nil {
		return err
	}
	result.Updated = true
	result.BulkID = handle.BulkID

	if err := s.confirm("Verify the updated records"); err != nil {
		return err
	}
	result.Verification = s.Verify(ctx, zones, ip, result.Domains)

	if s.notifier == nil {
		return nil
	}
	if err := s.confirm("Send the success notification"); err != nil {
		return err
	}
	if err := s.notifier.NotifySuccess(ctx, result); err != nil {
		s.logger.Warn("Failed to send notification", slog.Any("error", err))
	}
	return nil
}

// NeedsUpdate reports whether a bulk update has to be submitted.
func NeedsUpdate(outdated int, force bool) bool {
	return outdated > 0 || force
}

func (s *Syncer) confirm(description string) error {
	if !s.cfg.Confirm {
		return nil
	}
	if !s.prompter.Confirm(description) {
		return ErrCancelled
	}
	return nil
}

func (s *Syncer) notifyError(ctx context.Context, runErr error) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyError(context.WithoutCancel(ctx), runErr); err != nil {
		s.logger.Warn("Failed to send error notification", slog.Any("error", err))
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

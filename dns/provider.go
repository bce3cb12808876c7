// Package dns checks whether record changes are visible on a public resolver.
package dns

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"slices"
	"time"

	"github.com/miekg/dns"
)

const defaultTimeout = 5 * time.Second

type Checker struct {
	client     *dns.Client
	nameserver string
}

func NewChecker(cfg Config) *Checker {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	nameserver := cfg.Nameserver
	if _, _, err := net.SplitHostPort(nameserver); err != nil {
		nameserver = net.JoinHostPort(nameserver, "53")
	}
	return &Checker{
		client:     &dns.Client{Net: cfg.Net, Timeout: cfg.Timeout},
		nameserver: nameserver,
	}
}

// LookupA returns the IPv4 addresses the nameserver currently answers for domain.
func (c *Checker) LookupA(ctx context.Context, domain string) ([]string, error) {
	m := dns.Msg{}
	m.SetQuestion(dns.Fqdn(domain), dns.TypeA)
	m.RecursionDesired = true
	r, _, err := c.client.ExchangeContext(ctx, &m, c.nameserver)
	if err != nil {
		return nil, err
	}
	if r.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("bad return code: %s", dns.RcodeToString[r.Rcode])
	}

	var ips []string
	for _, ans := range r.Answer {
		switch v := ans.(type) {
		case *dns.A:
			ips = append(ips, v.A.String())
		}
	}
	return ips, nil
}

// Check queries every domain and returns those not resolving to ip. Lookup
// failures count as mismatches.
func (c *Checker) Check(ctx context.Context, domains []string, ip string) []string {
	var stale []string
	for _, domain := range domains {
		ips, err := c.LookupA(ctx, domain)
		if err != nil {
			slog.Warn("DNS lookup failed", slog.String("domain", domain), slog.String("nameserver", c.nameserver), slog.Any("error", err))
			stale = append(stale, domain)
			continue
		}
		if !slices.Contains(ips, ip) {
			slog.Warn("Nameserver does not serve the new address yet", slog.String("domain", domain), slog.Any("answers", ips))
			stale = append(stale, domain)
		}
	}
	return stale
}

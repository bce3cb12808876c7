// Package resolver discovers the public IPv4 address of this host through a
// plaintext IP echo service.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"regexp"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/hm-edu/dyndns/client"
)

const DefaultURL = "https://ipinfo.io/ip"

var (
	ErrInvalidIP = errors.New("response is not an IPv4 address")

	dottedQuad = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`)
)

type WebResolver struct {
	client *resty.Client
	url    string
}

type Option func(*options)

type options struct {
	debug    bool
	timeouts client.Timeouts
}

func WithDebug(debug bool) Option {
	return func(o *options) {
		o.debug = debug
	}
}

func WithTimeouts(timeouts client.Timeouts) Option {
	return func(o *options) {
		o.timeouts = timeouts
	}
}

// New returns a resolver querying url. An empty url selects DefaultURL.
func New(url string, opts ...Option) *WebResolver {
	o := options{timeouts: client.DefaultTimeouts}
	for _, opt := range opts {
		opt(&o)
	}
	if url == "" {
		url = DefaultURL
	}
	return &WebResolver{
		client: client.NewResty(o.timeouts, "tcp4").SetDebug(o.debug),
		url:    url,
	}
}

func (r *WebResolver) Resolve(ctx context.Context) (string, error) {
	resp, err := r.client.R().
		SetContext(ctx).
		Get(r.url)
	if err != nil {
		return "", fmt.Errorf("querying %s: %w", r.url, err)
	}
	if !resp.IsSuccess() {
		return "", fmt.Errorf("querying %s: %w", r.url, &client.UnexpectedResponseCodeError{Code: resp.StatusCode(), Body: resp.Body()})
	}
	ip := strings.TrimSpace(resp.String())
	if ip == "" {
		return "", fmt.Errorf("querying %s: %w", r.url, client.ErrEmptyResponse)
	}
	if err := Validate(ip); err != nil {
		return "", err
	}
	return ip, nil
}

// Validate accepts only dotted-quad IPv4 literals.
func Validate(ip string) error {
	if !dottedQuad.MatchString(ip) {
		return fmt.Errorf("%w: %q", ErrInvalidIP, ip)
	}
	if _, err := netip.ParseAddr(ip); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidIP, ip, err)
	}
	return nil
}

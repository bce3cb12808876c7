package client

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	BaseURL = "https://api.hosting.ionos.com/dns/v1"

	ZonesPath  = "/zones"
	ZonePath   = "/zones/{zoneId}"
	DynDNSPath = "/dyndns"

	ApplicationJson = "application/json"

	headerAPIKey = "X-API-Key"
)

var (
	ErrEmptyResponse    = errors.New("empty response body")
	ErrNoZones          = errors.New("no zones found for this api key")
	ErrMissingUpdateURL = errors.New("bulk update response carries no updateUrl")
)

type Client struct {
	client   *resty.Client
	trigger  *resty.Client
	baseURL  string
	debug    bool
	timeouts Timeouts
}

type Option func(*Client)

type UnexpectedResponseCodeError struct {
	Code int
	Body []byte
}

func (e *UnexpectedResponseCodeError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("unexpected response code: %d", e.Code)
	}
	return fmt.Sprintf("unexpected response code: %d: %s", e.Code, strings.TrimSpace(string(e.Body)))
}

type UnexpectedResponseContentTypeError struct {
	ContentType string
	Body        []byte
}

func (e *UnexpectedResponseContentTypeError) Error() string {
	return fmt.Sprintf("unexpected response content type: %s", e.ContentType)
}

// New builds a provider client authenticating every request with apiKey.
func New(apiKey string, options ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("api key is required")
	}
	c := Client{
		baseURL:  BaseURL,
		timeouts: DefaultTimeouts,
	}
	for _, option := range options {
		option(&c)
	}
	c.client = NewResty(c.timeouts, "tcp").
		SetBaseURL(strings.TrimSuffix(c.baseURL, "/")).
		SetHeader(headerAPIKey, apiKey).
		SetHeader("Accept", ApplicationJson).
		SetDebug(c.debug)
	// The update URL is a capability on its own and must not see the key.
	c.trigger = NewResty(c.timeouts, "tcp").SetDebug(c.debug)
	slog.Debug("Prepared provider client", slog.String("base_url", c.baseURL))
	return &c, nil
}

func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

func WithTimeouts(timeouts Timeouts) Option {
	return func(c *Client) {
		c.timeouts = timeouts.orDefault()
	}
}

// jsonBody validates a provider response and returns its raw body.
func jsonBody(resp *resty.Response, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, errors.New("response is nil")
	}
	body := resp.Body()
	if !resp.IsSuccess() {
		return nil, &UnexpectedResponseCodeError{Code: resp.StatusCode(), Body: body}
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, ErrEmptyResponse
	}
	if !strings.Contains(strings.ToLower(resp.Header().Get("Content-Type")), ApplicationJson) {
		return nil, &UnexpectedResponseContentTypeError{ContentType: resp.Header().Get("Content-Type"), Body: body}
	}
	return body, nil
}

func since(start time.Time) slog.Attr {
	return slog.Duration("took", time.Since(start))
}

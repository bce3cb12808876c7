package client

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Timeouts bounds every outbound call. Connect limits the TCP handshake,
// Total limits the whole exchange including reading the body.
type Timeouts struct {
	Connect time.Duration
	Total   time.Duration
}

var DefaultTimeouts = Timeouts{
	Connect: 10 * time.Second,
	Total:   30 * time.Second,
}

func (t Timeouts) orDefault() Timeouts {
	if t.Connect <= 0 {
		t.Connect = DefaultTimeouts.Connect
	}
	if t.Total <= 0 {
		t.Total = DefaultTimeouts.Total
	}
	return t
}

// NewResty returns a resty client without retries whose dialer is pinned to
// network ("tcp", "tcp4" or "tcp6").
func NewResty(timeouts Timeouts, network string) *resty.Client {
	timeouts = timeouts.orDefault()
	dialer := &net.Dialer{Timeout: timeouts.Connect}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = func(ctx context.Context, _, addr string) (net.Conn, error) {
		return dialer.DialContext(ctx, network, addr)
	}
	transport.TLSHandshakeTimeout = timeouts.Connect
	return resty.New().
		SetTransport(transport).
		SetTimeout(timeouts.Total).
		SetRetryCount(0)
}

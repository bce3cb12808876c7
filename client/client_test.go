package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/hm-edu/dyndns/models"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New("prefix.secret", WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

func TestNew_MissingAPIKey(t *testing.T) {
	if _, err := New("  "); err == nil {
		t.Fatal("expected error for empty api key, got nil")
	}
}

func TestListZones(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/zones" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("X-API-Key"); got != "prefix.secret" {
			t.Errorf("expected api key header, got %q", got)
		}
		writeJSON(w, http.StatusOK, `[{"id":"1","name":"a.com","type":"NATIVE"},{"id":"2","name":"b.com","type":"NATIVE"}]`)
	}))

	zones, err := c.ListZones(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []models.Zone{{ID: "1", Name: "a.com", Type: "NATIVE"}, {ID: "2", Name: "b.com", Type: "NATIVE"}}
	if !slices.Equal(zones, want) {
		t.Errorf("got %+v, want %+v", zones, want)
	}
}

func TestListZonesFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		ctype   string
		wantErr error
	}{
		{"empty list", http.StatusOK, `[]`, "application/json", ErrNoZones},
		{"empty body", http.StatusOK, ``, "application/json", ErrEmptyResponse},
		{"unauthorized", http.StatusUnauthorized, `[{"code":"UNAUTHORIZED"}]`, "application/json", nil},
		{"html", http.StatusOK, `<html></html>`, "text/html", nil},
		{"garbage", http.StatusOK, `{not json`, "application/json", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.ctype)
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			_, err := c.ListZones(context.Background())
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestListZonesStatusCode(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `{"message":"boom"}`)
	}))
	_, err := c.ListZones(context.Background())
	var codeErr *UnexpectedResponseCodeError
	if !errors.As(err, &codeErr) {
		t.Fatalf("expected UnexpectedResponseCodeError, got %v", err)
	}
	if codeErr.Code != http.StatusInternalServerError {
		t.Errorf("expected code 500, got %d", codeErr.Code)
	}
}

func TestGetZoneRecords(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/zones/zone-1" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("recordType"); got != "A,AAAA" {
			t.Errorf("expected recordType filter A,AAAA, got %q", got)
		}
		writeJSON(w, http.StatusOK, `{"id":"zone-1","name":"a.com","records":[
			{"id":"r1","name":"a.com","type":"A","content":"1.1.1.1","ttl":3600},
			{"id":"r2","name":"a.com","type":"AAAA","content":"::1","ttl":3600}]}`)
	}))

	records, err := c.GetZoneRecords(context.Background(), "zone-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Name != "a.com" || records[0].Content != "1.1.1.1" || records[0].Type != "A" {
		t.Errorf("unexpected first record %+v", records[0])
	}
}

func TestCreateBulkUpdate(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/dyndns" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req models.BulkUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		if !slices.Equal(req.Domains, []string{"a.com", "b.com"}) {
			t.Errorf("unexpected domains %v", req.Domains)
		}
		if req.Description != "test" {
			t.Errorf("unexpected description %q", req.Description)
		}
		writeJSON(w, http.StatusOK, `{"bulkId":"bulk-1","updateUrl":"https://ipv4.example.com/dyndns/v1/dyndns?q=abc"}`)
	}))

	handle, err := c.CreateBulkUpdate(context.Background(), models.BulkUpdateRequest{Domains: []string{"a.com", "b.com"}, Description: "test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if handle.BulkID != "bulk-1" || handle.UpdateURL != "https://ipv4.example.com/dyndns/v1/dyndns?q=abc" {
		t.Errorf("unexpected handle %+v", handle)
	}
}

func TestCreateBulkUpdateMissingURL(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"bulkId":"bulk-1"}`)
	}))
	_, err := c.CreateBulkUpdate(context.Background(), models.BulkUpdateRequest{Domains: []string{"a.com"}})
	if !errors.Is(err, ErrMissingUpdateURL) {
		t.Fatalf("expected ErrMissingUpdateURL, got %v", err)
	}
}

func TestTriggerUpdate(t *testing.T) {
	var hits int
	trigger := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.Header.Get("X-API-Key") != "" {
			t.Error("update url must not receive the api key")
		}
		if r.URL.Query().Get("q") != "abc" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
	}))
	defer trigger.Close()

	c, err := New("prefix.secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = c.TriggerUpdate(context.Background(), &models.BulkUpdateHandle{BulkID: "bulk-1", UpdateURL: trigger.URL + "/dyndns?q=abc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits != 1 {
		t.Errorf("expected 1 hit, got %d", hits)
	}
}

func TestTriggerUpdateFailure(t *testing.T) {
	trigger := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer trigger.Close()

	c, err := New("prefix.secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = c.TriggerUpdate(context.Background(), &models.BulkUpdateHandle{UpdateURL: trigger.URL})
	var codeErr *UnexpectedResponseCodeError
	if !errors.As(err, &codeErr) || codeErr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 UnexpectedResponseCodeError, got %v", err)
	}
}

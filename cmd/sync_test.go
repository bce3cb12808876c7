package cmd

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/hm-edu/dyndns/config"
	"github.com/hm-edu/dyndns/models"
	"github.com/hm-edu/dyndns/notify"
	"github.com/spf13/viper"
)

type fakeAPI struct {
	mu       sync.Mutex
	content  string
	bulks    [][]string
	triggers int
	notified int
}

func (f *fakeAPI) handler(t *testing.T, self *string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /zones", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"id":"1","name":"a.com"},{"id":"2","name":"b.com"}]`)
	})
	mux.HandleFunc("GET /zones/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		content := "1.1.1.1"
		if r.PathValue("id") == "2" {
			content = f.content
		}
		name := map[string]string{"1": "a.com", "2": "b.com"}[r.PathValue("id")]
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.ZoneRecords{ //nolint:errcheck
			ID:      r.PathValue("id"),
			Records: []models.Record{{Name: name, Type: "A", Content: content}},
		})
	})
	mux.HandleFunc("POST /dyndns", func(w http.ResponseWriter, r *http.Request) {
		var req models.BulkUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode bulk request: %v", err)
		}
		f.mu.Lock()
		f.bulks = append(f.bulks, req.Domains)
		f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.BulkUpdateHandle{BulkID: "b1", UpdateURL: *self + "/update"}) //nolint:errcheck
	})
	mux.HandleFunc("GET /update", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.triggers++
		f.content = "1.1.1.1"
		f.mu.Unlock()
	})
	mux.HandleFunc("POST /message", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.notified++
		f.mu.Unlock()
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("GET /ip", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "1.1.1.1\n")
	})
	return mux
}

func prepare(t *testing.T, api *fakeAPI) string {
	t.Helper()
	var url string
	srv := httptest.NewServer(api.handler(t, &url))
	t.Cleanup(srv.Close)
	url = srv.URL

	configDir = t.TempDir()
	confirm, force = false, false
	viper.Set("api_url", srv.URL)
	viper.Set("ip_url", srv.URL+"/ip")
	viper.Set("verify_delay", time.Duration(0))
	viper.Set("connect_timeout", time.Second)
	viper.Set("timeout", 5*time.Second)
	t.Cleanup(viper.Reset)
	return srv.URL
}

func TestRunSyncUpdatesOutdatedRecords(t *testing.T) {
	api := &fakeAPI{content: "9.9.9.9"}
	url := prepare(t, api)
	if err := config.WriteKey(filepath.Join(configDir, config.KeyFileName), "prefix.secret"); err != nil {
		t.Fatal(err)
	}
	if err := notify.SaveConfig(filepath.Join(configDir, config.GotifyFileName), notify.Config{URL: url, Token: "tok"}); err != nil {
		t.Fatal(err)
	}

	if err := runSync(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(api.bulks) != 1 || !slices.Equal(api.bulks[0], []string{"a.com", "b.com"}) {
		t.Errorf("expected one bulk for [a.com b.com], got %v", api.bulks)
	}
	if api.triggers != 1 {
		t.Errorf("expected one trigger, got %d", api.triggers)
	}
	if api.notified != 1 {
		t.Errorf("expected one notification attempt, got %d", api.notified)
	}
}

func TestRunSyncNoop(t *testing.T) {
	api := &fakeAPI{content: "1.1.1.1"}
	prepare(t, api)
	if err := config.WriteKey(filepath.Join(configDir, config.KeyFileName), "prefix.secret"); err != nil {
		t.Fatal(err)
	}

	if err := runSync(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(api.bulks) != 0 || api.triggers != 0 {
		t.Errorf("expected no mutating calls, got %d bulks and %d triggers", len(api.bulks), api.triggers)
	}
}

func TestRunSyncMissingKey(t *testing.T) {
	api := &fakeAPI{content: "9.9.9.9"}
	url := prepare(t, api)
	if err := notify.SaveConfig(filepath.Join(configDir, config.GotifyFileName), notify.Config{URL: url, Token: "tok"}); err != nil {
		t.Fatal(err)
	}

	if err := runSync(context.Background()); err == nil {
		t.Fatal("expected error without api key, got nil")
	}
	if api.notified != 1 {
		t.Errorf("expected an error notification attempt, got %d", api.notified)
	}
	if len(api.bulks) != 0 {
		t.Error("no bulk update expected without api key")
	}
}

func TestConfigPath(t *testing.T) {
	configDir = "/tmp/dyndns-test"
	t.Cleanup(viper.Reset)

	if got := configPath("key_file", config.KeyFileName); got != "/tmp/dyndns-test/api_key" {
		t.Errorf("unexpected default path %q", got)
	}
	viper.Set("key_file", "/run/secrets/dyndns")
	if got := configPath("key_file", config.KeyFileName); got != "/run/secrets/dyndns" {
		t.Errorf("unexpected override path %q", got)
	}
}

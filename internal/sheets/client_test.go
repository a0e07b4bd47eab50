package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestValueRange_Tab(t *testing.T) {
	tests := []struct {
		rng  string
		want string
	}{
		{"Content!A1:K", "Content"},
		{"Outreach!A:L", "Outreach"},
		{"Termine", "Termine"},
		{"", ""},
	}
	for _, tt := range tests {
		vr := ValueRange{Range: tt.rng}
		if got := vr.Tab(); got != tt.want {
			t.Errorf("Tab(%q) = %q, want %q", tt.rng, got, tt.want)
		}
	}
}

func TestHTTPClient_Values(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v4/spreadsheets/sheet-1/values/Content!A1:K" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "secret" {
			t.Errorf("missing key param, got %q", r.URL.Query().Get("key"))
		}
		json.NewEncoder(w).Encode(ValueRange{
			Range:  "Content!A1:K",
			Values: [][]any{{"Date", "Connections"}, {"01.01.2025", "10"}},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, APIKey: "secret"})
	vr, err := c.Values(context.Background(), "sheet-1", "Content!A1:K")
	if err != nil {
		t.Fatalf("Values() error: %v", err)
	}
	if vr.Tab() != "Content" || len(vr.Values) != 2 {
		t.Errorf("unexpected value range: %+v", vr)
	}
}

func TestHTTPClient_BatchValues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query()["ranges"]; len(got) != 2 {
			t.Errorf("ranges params = %v, want 2 entries", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"valueRanges": []ValueRange{
				{Range: "Content!A1:K"},
				{Range: "Outreach!A1:L"},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	ranges, err := c.BatchValues(context.Background(), "sheet-1", []string{"Content!A1:K", "Outreach!A1:L"})
	if err != nil {
		t.Fatalf("BatchValues() error: %v", err)
	}
	if len(ranges) != 2 || ranges[1].Tab() != "Outreach" {
		t.Errorf("unexpected ranges: %+v", ranges)
	}
}

func TestHTTPClient_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"Unauthorized", http.StatusUnauthorized},
		{"Forbidden", http.StatusForbidden},
		{"Quota", http.StatusTooManyRequests},
		{"NotFound", http.StatusNotFound},
		{"ServerError", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := NewClient(Config{BaseURL: srv.URL})
			_, err := c.Values(context.Background(), "sheet-1", "Content!A1:K")
			if !errors.Is(err, ErrUnavailable) {
				t.Errorf("status %d: error %v does not wrap ErrUnavailable", tt.status, err)
			}
		})
	}
}

func TestHTTPClient_ConnectionRefused(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1"})
	_, err := c.Values(context.Background(), "sheet-1", "Content!A1:K")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("connection error %v does not wrap ErrUnavailable", err)
	}
}

func writeFixture(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "values.json")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFileSource(t *testing.T) {
	path := writeFixture(t, `{"valueRanges": [
		{"range": "Content!A1:K", "values": [["Date", "Connections"], ["01.01.2025", "10"]]},
		{"range": "Outreach!A1:L", "values": [["Date", "Calls"]]}
	]}`)

	src := NewFileSource(path)

	vr, err := src.Values(context.Background(), "ignored", "Content!A1:K")
	if err != nil {
		t.Fatalf("Values() error: %v", err)
	}
	if len(vr.Values) != 2 {
		t.Errorf("values rows = %d, want 2", len(vr.Values))
	}

	// Matching is by tab, not the literal range string.
	if _, err := src.Values(context.Background(), "ignored", "Content!A:ZZ"); err != nil {
		t.Errorf("tab-based match failed: %v", err)
	}

	if _, err := src.Values(context.Background(), "ignored", "Missing!A1:B"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("missing tab error = %v, want ErrUnavailable", err)
	}

	batch, err := src.BatchValues(context.Background(), "ignored", []string{"Outreach!A1:L", "Content!A1:K"})
	if err != nil {
		t.Fatalf("BatchValues() error: %v", err)
	}
	if len(batch) != 2 || batch[0].Tab() != "Outreach" {
		t.Errorf("batch order = %+v, want requested order", batch)
	}
}

func TestFileSource_MissingFile(t *testing.T) {
	src := NewFileSource("/does/not/exist.json")
	_, err := src.Values(context.Background(), "ignored", "Content!A1:K")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("missing file error = %v, want ErrUnavailable", err)
	}
}

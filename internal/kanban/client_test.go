package kanban

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestConfig_Enabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{"Full", Config{BaseURL: "http://tracker", BoardID: "b1"}, true},
		{"NoBaseURL", Config{BoardID: "b1"}, false},
		{"NoBoard", Config{BaseURL: "http://tracker"}, false},
		{"Empty", Config{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Enabled(); got != tt.want {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestListCards(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.URL.Path != "/1/boards/b1/cards" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("token") != "tok" {
			t.Errorf("missing token param")
		}
		json.NewEncoder(w).Encode(map[string]any{
			"cards": []Card{
				{ID: "c1", Title: "Call", Closed: true, ClosedAt: "11/17/2025"},
				{ID: "c2", Title: "Open task"},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Token: "tok", BoardID: "b1", RequestDelay: time.Millisecond})

	cards, err := c.ListCards(context.Background(), "b1")
	if err != nil {
		t.Fatalf("ListCards() error: %v", err)
	}
	if len(cards) != 2 || cards[0].ID != "c1" || !cards[0].Closed {
		t.Errorf("unexpected cards: %+v", cards)
	}

	// Second read within the memo TTL must not hit the server again.
	if _, err := c.ListCards(context.Background(), "b1"); err != nil {
		t.Fatalf("ListCards() second call error: %v", err)
	}
	if requests.Load() != 1 {
		t.Errorf("requests = %d, want 1 (memoized)", requests.Load())
	}
}

func TestListCards_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"Unauthorized", http.StatusUnauthorized},
		{"RateLimited", http.StatusTooManyRequests},
		{"NotFound", http.StatusNotFound},
		{"ServerError", http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := NewClient(Config{BaseURL: srv.URL, BoardID: "b1", RequestDelay: time.Millisecond})
			_, err := c.ListCards(context.Background(), "b1")
			if !errors.Is(err, ErrUnavailable) {
				t.Errorf("status %d: error %v does not wrap ErrUnavailable", tt.status, err)
			}
		})
	}
}

func TestGetBoard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/1/boards/b1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{"id": "b1", "name": "Acquisition"})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, BoardID: "b1", RequestDelay: time.Millisecond})
	board, err := c.GetBoard(context.Background(), "b1")
	if err != nil {
		t.Fatalf("GetBoard() error: %v", err)
	}
	if board["name"] != "Acquisition" {
		t.Errorf("board = %v", board)
	}
}

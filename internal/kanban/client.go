// Package kanban reads completed-card activity from the task tracker board
// so it can feed the weekly aggregation alongside the spreadsheet tabs.
package kanban

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable classifies transient tracker failures for the 502-class
// boundary mapping and the stale-cache fallback.
var ErrUnavailable = errors.New("tracker upstream unavailable")

// Card is the subset of tracker card data the dashboard needs. The legacy
// tracker renders dates as MM/DD/YYYY strings.
type Card struct {
	ID       string `json:"id"`
	Title    string `json:"name"`
	List     string `json:"list"`
	Closed   bool   `json:"closed"`
	ClosedAt string `json:"closedAt"`
}

// Client is the interface for the task tracker API.
type Client interface {
	ListCards(ctx context.Context, boardID string) ([]Card, error)
	GetBoard(ctx context.Context, boardID string) (map[string]any, error)
}

// Config holds the tracker connection settings.
type Config struct {
	BaseURL      string
	Token        string
	BoardID      string
	RequestDelay time.Duration
}

// Enabled reports whether a tracker source is configured at all.
func (c Config) Enabled() bool {
	return c.BaseURL != "" && c.BoardID != ""
}

// NewClient creates a tracker client from the configuration.
func NewClient(cfg Config) Client {
	return newHTTPClient(cfg)
}

package sheets

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable classifies transient upstream failures (network, quota,
// auth) so the boundary can map them to a 502-class response and the cache
// can fall back to stale payloads.
var ErrUnavailable = errors.New("sheets upstream unavailable")

// ValueRange is one tab's worth of values as returned by the values API.
// Row 0 is the header row; cells arrive as strings or numbers.
type ValueRange struct {
	Range  string  `json:"range"`
	Values [][]any `json:"values"`
}

// Tab returns the tab name portion of the range ("Content!A1:K" -> "Content").
func (v ValueRange) Tab() string {
	for i := 0; i < len(v.Range); i++ {
		if v.Range[i] == '!' {
			return v.Range[:i]
		}
	}
	return v.Range
}

// Client reads tabular values from a spreadsheet source. The core does not
// care whether that is an HTTP values API or a static file.
type Client interface {
	Values(ctx context.Context, spreadsheetID, readRange string) (*ValueRange, error)
	BatchValues(ctx context.Context, spreadsheetID string, ranges []string) ([]ValueRange, error)
}

// Config holds the connection settings for the values API.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NewClient creates a values API client from the configuration.
func NewClient(cfg Config) Client {
	return newHTTPClient(cfg)
}

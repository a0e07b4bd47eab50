package kanban

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type httpClient struct {
	cfg         Config
	client      *http.Client
	lastRequest time.Time

	// Short-lived response memoization, enough to absorb repeated board
	// reads within one aggregation pass.
	mu    sync.Mutex
	cache map[string]memoEntry
}

type memoEntry struct {
	value      any
	expiration time.Time
}

func newHTTPClient(cfg Config) *httpClient {
	if cfg.RequestDelay == 0 {
		cfg.RequestDelay = time.Second
	}
	return &httpClient{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		cache:  make(map[string]memoEntry),
	}
}

func (c *httpClient) fromMemo(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.cache[key]
	if !ok || time.Now().After(e.expiration) {
		delete(c.cache, key)
		return nil, false
	}
	log.Debug().Str("key", key).Msg("Tracker memo hit")
	return e.value, true
}

func (c *httpClient) memoize(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = memoEntry{value: value, expiration: time.Now().Add(ttl)}
}

func (c *httpClient) throttle() {
	elapsed := time.Since(c.lastRequest)
	if elapsed < c.cfg.RequestDelay {
		wait := c.cfg.RequestDelay - elapsed
		log.Debug().Dur("wait", wait).Msg("Throttling tracker request")
		time.Sleep(wait)
	}
	c.lastRequest = time.Now()
}

func (c *httpClient) ListCards(ctx context.Context, boardID string) ([]Card, error) {
	cacheKey := "cards:" + boardID
	if val, ok := c.fromMemo(cacheKey); ok {
		return val.([]Card), nil
	}

	c.throttle()

	endpoint := fmt.Sprintf("%s/1/boards/%s/cards?%s",
		c.cfg.BaseURL, url.PathEscape(boardID), c.authParams().Encode())

	var result struct {
		Cards []Card `json:"cards"`
	}
	if err := c.get(ctx, endpoint, &result); err != nil {
		return nil, fmt.Errorf("failed to list cards for board %s: %w", boardID, err)
	}

	c.memoize(cacheKey, result.Cards, 2*time.Minute)
	return result.Cards, nil
}

func (c *httpClient) GetBoard(ctx context.Context, boardID string) (map[string]any, error) {
	cacheKey := "board:" + boardID
	if val, ok := c.fromMemo(cacheKey); ok {
		return val.(map[string]any), nil
	}

	c.throttle()

	endpoint := fmt.Sprintf("%s/1/boards/%s?%s",
		c.cfg.BaseURL, url.PathEscape(boardID), c.authParams().Encode())

	var board map[string]any
	if err := c.get(ctx, endpoint, &board); err != nil {
		return nil, fmt.Errorf("failed to get board %s: %w", boardID, err)
	}

	c.memoize(cacheKey, board, 5*time.Minute)
	return board, nil
}

func (c *httpClient) authParams() url.Values {
	params := url.Values{}
	if c.cfg.Token != "" {
		params.Set("token", c.cfg.Token)
	}
	return params
}

func (c *httpClient) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: authentication rejected (%d), check the tracker token", ErrUnavailable, resp.StatusCode)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: tracker rate limit exceeded (429)", ErrUnavailable)
		case http.StatusNotFound:
			return fmt.Errorf("%w: board not found (404)", ErrUnavailable)
		default:
			return fmt.Errorf("%w: tracker API returned status %d", ErrUnavailable, resp.StatusCode)
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode tracker response: %w", err)
	}
	return nil
}

package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

type httpClient struct {
	cfg    Config
	client *http.Client
}

func newHTTPClient(cfg Config) *httpClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &httpClient{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

func (c *httpClient) Values(ctx context.Context, spreadsheetID, readRange string) (*ValueRange, error) {
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s",
		c.cfg.BaseURL, url.PathEscape(spreadsheetID), url.PathEscape(readRange))

	var result ValueRange
	if err := c.get(ctx, endpoint, nil, &result); err != nil {
		return nil, err
	}
	if result.Range == "" {
		result.Range = readRange
	}
	return &result, nil
}

func (c *httpClient) BatchValues(ctx context.Context, spreadsheetID string, ranges []string) ([]ValueRange, error) {
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values:batchGet",
		c.cfg.BaseURL, url.PathEscape(spreadsheetID))

	params := url.Values{}
	for _, r := range ranges {
		params.Add("ranges", r)
	}

	var result struct {
		ValueRanges []ValueRange `json:"valueRanges"`
	}
	if err := c.get(ctx, endpoint, params, &result); err != nil {
		return nil, err
	}
	return result.ValueRanges, nil
}

func (c *httpClient) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	if c.cfg.APIKey != "" {
		params.Set("key", c.cfg.APIKey)
	}
	full := endpoint
	if len(params) > 0 {
		full = endpoint + "?" + params.Encode()
	}

	log.Debug().Str("url", endpoint).Msg("Requesting sheet values")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
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
			return fmt.Errorf("%w: authentication rejected (%d), check the API key", ErrUnavailable, resp.StatusCode)
		case http.StatusTooManyRequests:
			if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
				return fmt.Errorf("%w: quota exceeded (429), retry after %s seconds", ErrUnavailable, retryAfter)
			}
			return fmt.Errorf("%w: quota exceeded (429)", ErrUnavailable)
		case http.StatusNotFound:
			return fmt.Errorf("%w: spreadsheet or range not found (404)", ErrUnavailable)
		default:
			return fmt.Errorf("%w: values API returned status %d", ErrUnavailable, resp.StatusCode)
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode values response: %w", err)
	}
	return nil
}

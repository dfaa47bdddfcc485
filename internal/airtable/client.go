package airtable

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const listPageSize = 100

// Record is one Airtable row. Fields carries the raw column values keyed by
// column name; absent columns are simply missing from the map.
type Record struct {
	ID          string                 `json:"id"`
	CreatedTime time.Time              `json:"createdTime"`
	Fields      map[string]interface{} `json:"fields"`
}

type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client for requests to the Airtable REST API.
type Client struct {
	baseURL    string
	apiKey     string
	baseID     string
	table      string
	httpClient *http.Client
	logger     *zap.Logger
}

func New(baseURL, apiKey, baseID, table string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		baseID:  baseID,
		table:   table,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: logger,
	}
}

// ListRecords fetches every record whose {Created Time} falls inside the
// inclusive [from, to] window, following offset pagination until exhausted.
// Records come back in Airtable's listing order.
func (c *Client) ListRecords(ctx context.Context, from, to time.Time) ([]Record, error) {
	formula := fmt.Sprintf(
		`AND(DATETIME_PARSE({Created Time}) >= DATETIME_PARSE("%s"), DATETIME_PARSE({Created Time}) <= DATETIME_PARSE("%s"))`,
		from.UTC().Format(time.RFC3339),
		to.UTC().Format(time.RFC3339),
	)

	var records []Record
	offset := ""
	for {
		params := url.Values{}
		params.Set("filterByFormula", formula)
		params.Set("pageSize", fmt.Sprintf("%d", listPageSize))
		if offset != "" {
			params.Set("offset", offset)
		}

		body, err := c.get(ctx, fmt.Sprintf("/%s/%s", c.baseID, url.PathEscape(c.table)), params)
		if err != nil {
			return nil, err
		}

		var page listResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("unmarshal records page: %w", err)
		}

		records = append(records, page.Records...)
		if page.Offset == "" {
			break
		}
		offset = page.Offset
	}

	c.logger.Info("fetched airtable records",
		zap.Int("count", len(records)),
		zap.Time("from", from),
		zap.Time("to", to),
	)
	return records, nil
}

// get performs one GET with retries and rate-limit backoff.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	fullURL := c.baseURL + path
	if params != nil {
		fullURL += "?" + params.Encode()
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * time.Second
			c.logger.Debug("retrying request",
				zap.String("url", fullURL),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
			)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response body: %w", err)
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return body, nil
		}

		c.logger.Error("airtable API error",
			zap.String("url", fullURL),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)),
		)

		switch resp.StatusCode {
		case http.StatusTooManyRequests:
			c.logger.Warn("rate limit hit, backing off")
			select {
			case <-time.After(5 * time.Second):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("rate limit exceeded")
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, fmt.Errorf("airtable auth failed: status %d", resp.StatusCode)
		case http.StatusUnprocessableEntity:
			var apiErr errorResponse
			if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
				return nil, fmt.Errorf("airtable rejected request: %s", apiErr.Error.Message)
			}
			return nil, fmt.Errorf("airtable rejected request: %s", string(body))
		default:
			lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
	}

	return nil, fmt.Errorf("request failed after retries: %w", lastErr)
}

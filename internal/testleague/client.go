package testleague

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/okian/riichi/internal/adapters/repository"
	"github.com/okian/riichi/internal/domain/model"
)

const maxErrorBody = 512

// Client talks to the league HTTP API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client with the given request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Leaderboard fetches the first limit standings; limit 0 uses the server
// default.
func (c *Client) Leaderboard(ctx context.Context, limit int) ([]model.Standing, error) {
	url := c.baseURL + "/leaderboard"
	if limit > 0 {
		url += "?limit=" + strconv.Itoa(limit)
	}
	var out []model.Standing
	if err := c.do(ctx, http.MethodGet, url, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Refresh asks the server to replay the log, bypassing its source cache.
func (c *Client) Refresh(ctx context.Context) (repository.RunInfo, error) {
	var out repository.RunInfo
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/refresh?force=true", &out); err != nil {
		return repository.RunInfo{}, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, method, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: %s %s: %d %s", ErrUnexpectedStatus, method, url, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

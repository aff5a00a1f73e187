package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/claude/neptune/internal/models"
	"github.com/claude/neptune/internal/store"
)

// HTTPClient implements DataSource by calling the arena REST API. Used for
// remote MCP mode where the binary runs locally (stdio) but state lives on
// a running arena server.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: *HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL. The
// API key may be empty; the tools only touch read endpoints.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// get fetches path and decodes the JSON response into v. A 404 with
// missing=true is not an error; it reports "nothing in flight".
func (c *HTTPClient) get(ctx context.Context, path string, v any) (missing bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return false, fmt.Errorf("httpclient: create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("httpclient: read body: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return true, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return false, fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return false, nil
}

func (c *HTTPClient) Profile(ctx context.Context) (store.ProfileSnapshot, error) {
	var snap store.ProfileSnapshot
	_, err := c.get(ctx, "/api/v1/profile", &snap)
	return snap, err
}

func (c *HTTPClient) CurrentWorkout(ctx context.Context) (*store.WorkoutSnapshot, error) {
	var snap store.WorkoutSnapshot
	missing, err := c.get(ctx, "/api/v1/workout", &snap)
	if err != nil || missing {
		return nil, err
	}
	return &snap, nil
}

func (c *HTTPClient) WorkoutHistory(ctx context.Context) ([]models.WorkoutSession, error) {
	var history []models.WorkoutSession
	_, err := c.get(ctx, "/api/v1/workouts", &history)
	return history, err
}

func (c *HTTPClient) CurrentBattle(ctx context.Context) (*store.BattleSnapshot, error) {
	var snap store.BattleSnapshot
	missing, err := c.get(ctx, "/api/v1/battle", &snap)
	if err != nil || missing {
		return nil, err
	}
	return &snap, nil
}

func (c *HTTPClient) BattleHistory(ctx context.Context) ([]models.BattleSession, error) {
	var history []models.BattleSession
	_, err := c.get(ctx, "/api/v1/battles", &history)
	return history, err
}

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/repquest/internal/models"
	"github.com/claude/repquest/internal/storage"
)

// HTTPClient implements DataSource by calling the RepQuest REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the server (typically reached over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: *HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func (c *HTTPClient) GetUserProfile(ctx context.Context) (*models.UserProfile, error) {
	body, err := c.get(ctx, "/api/v1/profile", nil)
	if err != nil {
		return nil, err
	}
	var wrapper struct {
		Profile *models.UserProfile `json:"profile"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil, fmt.Errorf("httpclient: decode profile: %w", err)
	}
	return wrapper.Profile, nil
}

func (c *HTTPClient) GetWorkoutHistory(ctx context.Context) ([]models.WorkoutSession, error) {
	body, err := c.get(ctx, "/api/v1/history", nil)
	if err != nil {
		return nil, err
	}
	var sessions []models.WorkoutSession
	if err := json.Unmarshal(body, &sessions); err != nil {
		return nil, fmt.Errorf("httpclient: decode history: %w", err)
	}
	return sessions, nil
}

func (c *HTTPClient) GetSessionSets(ctx context.Context, sessionID string) ([]models.SessionSet, error) {
	body, err := c.get(ctx, "/api/v1/history/"+url.PathEscape(sessionID)+"/sets", nil)
	if err != nil {
		return nil, err
	}
	var sets []models.SessionSet
	if err := json.Unmarshal(body, &sets); err != nil {
		return nil, fmt.Errorf("httpclient: decode sets: %w", err)
	}
	return sets, nil
}

func (c *HTTPClient) GetVolumeStats(ctx context.Context, filter storage.VolumeFilter) (*storage.VolumeStats, error) {
	params := url.Values{"filter": {string(filter)}}
	body, err := c.get(ctx, "/api/v1/stats/volume", params)
	if err != nil {
		return nil, err
	}
	var stats storage.VolumeStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("httpclient: decode stats: %w", err)
	}
	return &stats, nil
}

func (c *HTTPClient) GetExercises(ctx context.Context) ([]models.Exercise, error) {
	body, err := c.get(ctx, "/api/v1/exercises", nil)
	if err != nil {
		return nil, err
	}
	var exercises []models.Exercise
	if err := json.Unmarshal(body, &exercises); err != nil {
		return nil, fmt.Errorf("httpclient: decode exercises: %w", err)
	}
	return exercises, nil
}

func (c *HTTPClient) GetWorkouts(ctx context.Context) ([]models.Workout, error) {
	body, err := c.get(ctx, "/api/v1/workouts", nil)
	if err != nil {
		return nil, err
	}
	var wrapper struct {
		Workouts []models.Workout `json:"workouts"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil, fmt.Errorf("httpclient: decode workouts: %w", err)
	}
	return wrapper.Workouts, nil
}

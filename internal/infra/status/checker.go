package status

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"timetable_collector/internal/domain/runstate"
)

const fetchTimeout = 15 * time.Second

// Checker polls the shared status record published by other runners.
type Checker struct {
	url        string
	httpClient *http.Client
}

func NewChecker(url string) *Checker {
	return &Checker{
		url:        url,
		httpClient: &http.Client{Timeout: fetchTimeout},
	}
}

// Fetch retrieves the current shared record. Any transport, status or
// decode problem comes back as an error; callers treat that as "no
// information available" and fail open.
func (c *Checker) Fetch(ctx context.Context) (*runstate.ReportedState, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build status request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch shared status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch shared status: unexpected status %d", resp.StatusCode)
	}

	var record runstate.ReportedState
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("decode shared status: %w", err)
	}
	return &record, nil
}

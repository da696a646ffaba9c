package seeddata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// HTTPClient wraps http.Client with a request timeout
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// triggerAndVerify drives one scoring run through the service API and
// checks the resulting ranking.
func triggerAndVerify(ctx context.Context, config *Config, stats *Stats) error {
	client := newHTTPClient(config.Timeout)

	if err := checkServiceHealth(ctx, client, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	ack, err := triggerRun(ctx, client, config)
	if err != nil {
		return fmt.Errorf("run trigger failed: %w", err)
	}
	stats.RunTriggered = true
	stats.RunDuplicate = ack.Duplicate

	run, err := waitForRun(ctx, client, config, ack)
	if err != nil {
		return fmt.Errorf("run did not finish: %w", err)
	}
	stats.EmployeesScored = run.EmployeesScored

	rankings, err := fetchRankings(ctx, client, config)
	if err != nil {
		return fmt.Errorf("ranking retrieval failed: %w", err)
	}
	stats.RankingsRetrieved = len(rankings)

	if err := verifyRankings(run, rankings, config.Verbose); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient, config *Config) error {
	log.Println("🔍 Checking service health...")

	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if _, err := readResponseBody(resp); err != nil {
		return fmt.Errorf("failed to read health response: %w", err)
	}

	// Accept any 200 response as healthy (the plain endpoint answers with Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	log.Println("✅ Service is healthy")
	return nil
}

// triggerRun posts a scoring run request for the configured year.
func triggerRun(ctx context.Context, client *HTTPClient, config *Config) (*RunAck, error) {
	log.Printf("🚀 Triggering scoring run for year %d...", config.Year)

	body := map[string]interface{}{"evaluation_year": config.Year}
	resp, err := client.Post(ctx, config.BaseURL+"/runs", body)
	if err != nil {
		return nil, fmt.Errorf("failed to post run request: %w", err)
	}
	data, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read run response: %w", err)
	}

	switch resp.StatusCode {
	case StatusAccepted, StatusOK:
		var ack RunAck
		if err := json.Unmarshal(data, &ack); err != nil {
			return nil, fmt.Errorf("failed to decode run response: %w", err)
		}
		if ack.Duplicate {
			log.Printf("⚠️  Request %s was already seen, waiting on the earlier run", ack.RequestID)
		}
		return &ack, nil
	case StatusConflict:
		return nil, fmt.Errorf("another scoring run is already in flight")
	default:
		return nil, fmt.Errorf("run request failed with status %d: %s", resp.StatusCode, string(data))
	}
}

// waitForRun polls the latest-run endpoint until the acknowledged run shows
// up or the wait timeout expires.
func waitForRun(ctx context.Context, client *HTTPClient, config *Config, ack *RunAck) (*RunSummary, error) {
	log.Println("⏳ Waiting for the scoring run to finish...")

	deadline := time.Now().Add(RunWaitTimeout)
	for {
		run, err := fetchLatestRun(ctx, client, config)
		if err == nil && runMatchesAck(run, ack) {
			log.Printf("✅ Run %s finished: %d employees scored in %dms",
				run.RunID, run.EmployeesScored, run.DurationMs)
			return run, nil
		}
		if time.Now().After(deadline) {
			if err != nil {
				return nil, fmt.Errorf("gave up after %s: %w", RunWaitTimeout, err)
			}
			return nil, fmt.Errorf("gave up after %s: latest run %s is not ours", RunWaitTimeout, run.RunID)
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled while waiting for run: %w", ctx.Err())
		case <-time.After(RunPollInterval):
		}
	}
}

// runMatchesAck reports whether a published run summary belongs to the
// acknowledged request. Duplicate acks carry no run ID, so those fall back
// to the request ID.
func runMatchesAck(run *RunSummary, ack *RunAck) bool {
	if ack.RunID != "" {
		return run.RunID == ack.RunID
	}
	return run.RequestID == ack.RequestID
}

// fetchLatestRun retrieves the most recent run summary.
func fetchLatestRun(ctx context.Context, client *HTTPClient, config *Config) (*RunSummary, error) {
	resp, err := client.Get(ctx, config.BaseURL+"/runs/latest")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest run: %w", err)
	}
	data, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read latest run: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("latest run returned status %d", resp.StatusCode)
	}

	var run RunSummary
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to decode latest run: %w", err)
	}
	return &run, nil
}

// fetchRankings retrieves the top ranking entries.
func fetchRankings(ctx context.Context, client *HTTPClient, config *Config) ([]RankedEntry, error) {
	log.Printf("📥 Fetching top %d rankings...", config.TopN)

	url := fmt.Sprintf("%s/rankings?limit=%d", config.BaseURL, config.TopN)
	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rankings: %w", err)
	}
	data, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read rankings: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("rankings returned status %d: %s", resp.StatusCode, string(data))
	}

	var entries []RankedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode rankings: %w", err)
	}
	return entries, nil
}

package testfeed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
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

// submitSnapshots submits snapshots concurrently using worker pools
func submitSnapshots(ctx context.Context, config *Config, snapshots []Snapshot, stats *Stats) error {
	log.Printf("submitting %d snapshots with %d workers...", len(snapshots), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/snapshots"

	// Resend a slice of the snapshots verbatim to exercise the dedupe
	// path.
	feed := make([]Snapshot, 0, len(snapshots)+len(snapshots)*config.ResendRatio/PercentageMultiplier)
	feed = append(feed, snapshots...)
	for i := 0; i < len(snapshots)*config.ResendRatio/PercentageMultiplier; i++ {
		feed = append(feed, snapshots[i])
	}

	var (
		successful int64
		duplicate  int64
		failed     int64
		submitted  int64
	)

	snapChan := make(chan Snapshot, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for snap := range snapChan {
				select {
				case <-ctx.Done():
					return
				default:
					result := submitSingleSnapshot(ctx, client, url, snap)

					atomic.AddInt64(&submitted, 1)
					switch result {
					case "success":
						atomic.AddInt64(&successful, 1)
					case "duplicate":
						atomic.AddInt64(&duplicate, 1)
					case "failed":
						atomic.AddInt64(&failed, 1)
					}

					if config.Verbose {
						log.Printf("progress: %d/%d submitted (success: %d, duplicate: %d, failed: %d)",
							atomic.LoadInt64(&submitted), len(feed),
							atomic.LoadInt64(&successful),
							atomic.LoadInt64(&duplicate),
							atomic.LoadInt64(&failed))
					}
				}
			}
		}()
	}

	go func() {
		defer close(snapChan)
		for _, snap := range feed {
			select {
			case <-ctx.Done():
				return
			case snapChan <- snap:
			}
		}
	}()

	wg.Wait()

	stats.SnapshotsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.SnapshotsSuccessful = int(atomic.LoadInt64(&successful))
	stats.SnapshotsDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.SnapshotsFailed = int(atomic.LoadInt64(&failed))

	log.Printf("snapshot submission completed: successful=%d duplicate=%d failed=%d",
		stats.SnapshotsSuccessful, stats.SnapshotsDuplicate, stats.SnapshotsFailed)

	return nil
}

// submitSingleSnapshot submits a single snapshot and returns the result
func submitSingleSnapshot(ctx context.Context, client *HTTPClient, url string, snap Snapshot) string {
	resp, err := client.Post(ctx, url, snap)
	if err != nil {
		return "failed"
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return "failed"
	}

	switch resp.StatusCode {
	case StatusAccepted:
		return "success"
	case StatusOK:
		var ack AckResponse
		if err := json.Unmarshal(body, &ack); err == nil && ack.Duplicate {
			return "duplicate"
		}
		return "duplicate"
	default:
		return "failed"
	}
}

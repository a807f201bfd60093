package testfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/matchline/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	snapshotPermission  = 0600
)

// Run executes the complete feed test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting matchline feed test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("matches", config.NumMatches),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate snapshots
	snapshots, err := generateSnapshots(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("snapshot generation failed: %w", err)
	}

	// Step 3: Submit snapshots concurrently
	if err := submitSnapshots(ctx, config, snapshots, stats); err != nil {
		return fmt.Errorf("snapshot submission failed: %w", err)
	}

	// Step 4: Wait for processing
	logger.Get().Info(ctx, "waiting for snapshots to be processed")
	time.Sleep(ProcessingDelay)

	// Step 5: Retrieve timelines
	timelines, err := retrieveTimelines(ctx, config, snapshots, stats)
	if err != nil {
		return fmt.Errorf("timeline retrieval failed: %w", err)
	}

	// Step 6: Verify results
	if err := verifyTimelines(config, timelines, stats); err != nil {
		return fmt.Errorf("timeline verification failed: %w", err)
	}

	// Step 7: Save snapshots to file
	if err := saveSnapshotsToFile(ctx, config, snapshots); err != nil {
		logger.Get().Warn(ctx, "failed to save snapshots to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "feed test completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveSnapshotsToFile saves the generated snapshots to a JSON file.
func saveSnapshotsToFile(ctx context.Context, config *Config, snapshots []Snapshot) error {
	if len(snapshots) == 0 {
		return fmt.Errorf("no snapshots to save")
	}

	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_snapshots_" + timestamp + ".json"
	}

	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(snapshots, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshots: %w", err)
	}
	if err := os.WriteFile(filename, data, snapshotPermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Get().Info(ctx, "snapshots saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final test statistics.
func displayFinalStats(stats *Stats) {
	var successRate, snapshotsPerSecond float64

	if stats.SnapshotsSubmitted > 0 {
		successRate = float64(stats.SnapshotsSuccessful) / float64(stats.SnapshotsSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		snapshotsPerSecond = float64(stats.SnapshotsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("snapshotsGenerated", stats.SnapshotsGenerated),
		logger.Int("snapshotsSubmitted", stats.SnapshotsSubmitted),
		logger.Int("snapshotsSuccessful", stats.SnapshotsSuccessful),
		logger.Int("snapshotsDuplicate", stats.SnapshotsDuplicate),
		logger.Int("snapshotsFailed", stats.SnapshotsFailed),
		logger.Int("timelinesRetrieved", stats.TimelinesRetrieved),
		logger.Int("timelinesVerified", stats.TimelinesVerified),
		logger.Int("orderingViolations", stats.OrderingViolations),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("snapshotsPerSecond", snapshotsPerSecond))
}

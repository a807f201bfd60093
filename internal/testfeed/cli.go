package testfeed

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/okian/matchline/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "feed_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the feed test tool.
func ShowHelp() {
	os.Stdout.WriteString(`Matchline Feed Test Tool
========================

A concurrent tool for testing the matchline snapshot processing system.

Usage:
  go run cmd/test-feed/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9090")
  -matches int
        Number of matches to generate and submit (default 100)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -resend int
        Percent of snapshots resent verbatim to exercise dedupe (default 10)
  -output string
        Output file for generated snapshots (default: generated_snapshots_TIMESTAMP.json)
  -log string
        Log file for test output (default: feed_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Test with default settings
  go run cmd/test-feed/main.go

  # Test with custom parameters
  go run cmd/test-feed/main.go -matches 500 -workers 16 -url http://localhost:8080

  # Test with verbose output
  go run cmd/test-feed/main.go -verbose -matches 50
`)
}

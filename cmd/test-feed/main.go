package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/matchline/internal/testfeed"
)

// Default configuration constants.
const (
	defaultNumMatches  = 100
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultResendRatio = 10
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:9090", "Base URL of the service")
		numMatches  = flag.Int("matches", defaultNumMatches, "Number of matches to generate and submit")
		workers     = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		resendRatio = flag.Int("resend", defaultResendRatio, "Percent of snapshots resent verbatim to exercise dedupe")
		outputFile  = flag.String("output", "", "Output file for generated snapshots (default: generated_snapshots_TIMESTAMP.json)")
		logFile     = flag.String("log", "", "Log file for test output (default: feed_log_TIMESTAMP.log)")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		testfeed.ShowHelp()
		return
	}

	// Setup logging
	if err := testfeed.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	// Create test configuration
	config := &testfeed.Config{
		BaseURL:     *baseURL,
		NumMatches:  *numMatches,
		Workers:     *workers,
		Timeout:     *timeout,
		OutputFile:  *outputFile,
		LogFile:     *logFile,
		Verbose:     *verbose,
		ResendRatio: *resendRatio,
	}

	// Run the test
	if err := testfeed.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Test failed: " + err.Error() + "\n")
		return
	}
}

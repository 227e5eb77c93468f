// Package loadtest drives a running gesture service with concurrent
// prediction requests and checks its counters against the client tally.
package loadtest

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/okian/gesture/pkg/logger"
)

// Log rotation for the test log file.
const (
	logMaxSizeMB  = 50
	logMaxBackups = 1
	logMaxAgeDays = 7
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string, verbose bool) error {
	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "loadtest_" + timestamp + ".log"
	}

	if err := logger.Init(logger.WithFile(logFile, logMaxSizeMB, logMaxBackups, logMaxAgeDays)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the load test tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Gesture Load Test Tool
======================

A concurrent tool for exercising the hand gesture inference service.

Usage:
  go run ./cmd/loadtest [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8000")
  -requests int
        Number of prediction requests to send (default 10000)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -landmarks int
        Landmarks per request; 0 reads landmark_count from /info (default 0)
  -invalid-ratio float
        Share of requests built to be rejected with 400 (default 0.1)
  -output string
        Output file for generated requests (default: not saved)
  -log string
        Log file for test output (default: loadtest_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Test with default settings
  go run ./cmd/loadtest

  # Only valid requests, more workers
  go run ./cmd/loadtest -requests 50000 -workers 16 -invalid-ratio 0

  # Keep the generated bodies for replay
  go run ./cmd/loadtest -requests 1000 -output requests.json
`)
}

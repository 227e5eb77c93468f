package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/gesture/internal/loadtest"
	"github.com/okian/gesture/pkg/logger"
)

// Default configuration constants.
const (
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL      = flag.String("url", loadtest.DefaultBaseURL, "Base URL of the service")
		numRequests  = flag.Int("requests", loadtest.DefaultRequests, "Number of prediction requests to send")
		workers      = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout      = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		landmarks    = flag.Int("landmarks", 0, "Landmarks per request (0: read from /info)")
		invalidRatio = flag.Float64("invalid-ratio", loadtest.DefaultInvalidRatio, "Share of requests built to be rejected")
		outputFile   = flag.String("output", "", "Output file for generated requests")
		logFile      = flag.String("log", "", "Log file for test output (default: loadtest_TIMESTAMP.log)")
		verbose      = flag.Bool("verbose", false, "Enable verbose logging")
		help         = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		loadtest.ShowHelp(os.Stdout)
		return
	}

	// Setup logging
	if err := loadtest.SetupLogging(*logFile, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Create context with timeout, cancelled early on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, defaultTestTimeout)

	config := &loadtest.Config{
		BaseURL:      *baseURL,
		NumRequests:  *numRequests,
		Workers:      *workers,
		Timeout:      *timeout,
		Landmarks:    *landmarks,
		InvalidRatio: *invalidRatio,
		OutputFile:   *outputFile,
		LogFile:      *logFile,
		Verbose:      *verbose,
	}

	_, err := loadtest.Run(ctx, config)
	cancel()
	stop()
	_ = logger.Sync()
	if err != nil {
		os.Stderr.WriteString("Test failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}

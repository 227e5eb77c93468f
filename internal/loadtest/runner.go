package loadtest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/gesture/internal/domain/types"
	"github.com/okian/gesture/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

// Run executes the complete load test and returns its report. The report is
// also returned alongside a verification error.
func Run(ctx context.Context, config *Config) (*Report, error) {
	report := &Report{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting gesture load test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("requests", config.NumRequests),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Float64("invalidRatio", config.InvalidRatio),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	client := newHTTPClient(config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client, config); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Learn the landmark count
	landmarks, err := resolveLandmarks(ctx, client, config)
	if err != nil {
		return nil, fmt.Errorf("model info retrieval failed: %w", err)
	}

	// Step 3: Baseline counters
	before, err := fetchStats(ctx, client, config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("stats retrieval failed: %w", err)
	}

	// Step 4: Generate requests
	requests, err := generateRequests(ctx, config, landmarks)
	if err != nil {
		return nil, fmt.Errorf("request generation failed: %w", err)
	}
	report.RequestsGenerated = len(requests)
	for _, r := range requests {
		if !r.Valid {
			report.RequestsInvalid++
		}
	}

	// Step 5: Submit requests concurrently
	if err := submitRequests(ctx, config, requests, report); err != nil {
		return nil, fmt.Errorf("request submission failed: %w", err)
	}

	// Step 6: Verify counters
	verifyErr := verifyResults(ctx, config, before, report)

	// Step 7: Save requests to file
	if config.OutputFile != "" {
		if err := saveRequestsToFile(ctx, config.OutputFile, requests); err != nil {
			logger.Get().Warn(ctx, "failed to save requests to file", logger.Error(err))
		}
	}

	// Final statistics
	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)

	displayFinalStats(ctx, report)

	if verifyErr != nil {
		return report, fmt.Errorf("result verification failed: %w", verifyErr)
	}
	logger.Get().Info(ctx, "test completed successfully")
	return report, nil
}

// checkServiceHealth verifies the service is up and has its artifacts loaded.
func checkServiceHealth(ctx context.Context, client *HTTPClient, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// resolveLandmarks returns the configured landmark count, or asks /info.
func resolveLandmarks(ctx context.Context, client *HTTPClient, config *Config) (int, error) {
	if config.Landmarks > 0 {
		return config.Landmarks, nil
	}
	var info types.ModelInfo
	if err := client.getJSON(ctx, config.BaseURL+"/info", &info); err != nil {
		return 0, err
	}
	if info.LandmarkCount <= 0 {
		return 0, fmt.Errorf("service reports landmark count %d", info.LandmarkCount)
	}
	return info.LandmarkCount, nil
}

// saveRequestsToFile writes the generated requests as a JSON array.
func saveRequestsToFile(ctx context.Context, filename string, requests []Request) error {
	if len(requests) == 0 {
		return fmt.Errorf("no requests to save")
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(requests, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal requests: %w", err)
	}
	if err := os.WriteFile(filename, append(data, '\n'), filePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Get().Info(ctx, "requests saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the final test statistics.
func displayFinalStats(ctx context.Context, report *Report) {
	var successRate, requestsPerSecond float64

	if report.RequestsSubmitted > 0 {
		successRate = float64(report.Successful) / float64(report.RequestsSubmitted) * PercentageMultiplier
	}

	if report.Duration > 0 {
		requestsPerSecond = float64(report.RequestsSubmitted) / report.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("requestsGenerated", report.RequestsGenerated),
		logger.Int("requestsInvalid", report.RequestsInvalid),
		logger.Int("requestsSubmitted", report.RequestsSubmitted),
		logger.Int("successful", report.Successful),
		logger.Int("rejected", report.Rejected),
		logger.Int("failed", report.Failed),
		logger.Int("mismatched", report.Mismatched),
		logger.Any("countedByService", report.CountedByService),
		logger.String("duration", report.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("requestsPerSecond", requestsPerSecond))
}

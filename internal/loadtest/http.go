package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/gesture/internal/domain/types"
	"github.com/okian/gesture/pkg/logger"
	"golang.org/x/sync/errgroup"
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
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body, tagged with requestID.
func (c *HTTPClient) Post(ctx context.Context, url, requestID string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if requestID != "" {
		req.Header.Set(requestIDHeader, requestID)
	}
	return c.client.Do(req)
}

// getJSON fetches url and decodes a 200 response into v.
func (c *HTTPClient) getJSON(ctx context.Context, url string, v interface{}) error {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return fmt.Errorf("GET %s: status %d: %s", url, resp.StatusCode, bytes.TrimSpace(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("GET %s: decode: %w", url, err)
	}
	return nil
}

// result is the outcome of one submitted request.
type result struct {
	outcome  string
	action   string
	mismatch bool
}

// submitRequests sends requests concurrently, at most config.Workers at a time.
func submitRequests(ctx context.Context, config *Config, requests []Request, report *Report) error {
	logger.Get().Info(ctx, "submitting prediction requests",
		logger.Int("requests", len(requests)),
		logger.Int("workers", config.Workers))

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/predict"

	var (
		submitted  int64
		successful int64
		rejected   int64
		failed     int64
		mismatched int64
		mu         sync.Mutex
		actions    = map[string]int{}
	)

	// Progress reporting
	var lastReport atomic.Int64
	reportInterval := time.Second

	g, gctx := errgroup.WithContext(ctx)
	workers := config.Workers
	if workers <= 0 {
		workers = 1
	}
	g.SetLimit(workers)

	for _, req := range requests {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res := submitSingleRequest(gctx, client, url, req)

			atomic.AddInt64(&submitted, 1)
			switch res.outcome {
			case outcomeSuccess:
				atomic.AddInt64(&successful, 1)
				mu.Lock()
				actions[res.action]++
				mu.Unlock()
			case outcomeRejected:
				atomic.AddInt64(&rejected, 1)
			default:
				atomic.AddInt64(&failed, 1)
			}
			if res.mismatch {
				atomic.AddInt64(&mismatched, 1)
				if config.Verbose {
					logger.Get().Warn(gctx, "unexpected outcome",
						logger.String("id", req.ID),
						logger.Any("valid", req.Valid),
						logger.String("outcome", res.outcome))
				}
			}

			now := time.Now().UnixNano()
			last := lastReport.Load()
			if now-last >= int64(reportInterval) && lastReport.CompareAndSwap(last, now) {
				logger.Get().Info(gctx, "progress",
					logger.Int("submitted", int(atomic.LoadInt64(&submitted))),
					logger.Int("total", len(requests)),
					logger.Int("successful", int(atomic.LoadInt64(&successful))),
					logger.Int("rejected", int(atomic.LoadInt64(&rejected))),
					logger.Int("failed", int(atomic.LoadInt64(&failed))))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	report.RequestsSubmitted = int(submitted)
	report.Successful = int(successful)
	report.Rejected = int(rejected)
	report.Failed = int(failed)
	report.Mismatched = int(mismatched)
	report.Actions = actions

	logger.Get().Info(ctx, "request submission completed",
		logger.Int("successful", report.Successful),
		logger.Int("rejected", report.Rejected),
		logger.Int("failed", report.Failed),
		logger.Int("mismatched", report.Mismatched))
	return ctx.Err()
}

// submitSingleRequest posts one request and classifies the response.
func submitSingleRequest(ctx context.Context, client *HTTPClient, url string, req Request) result {
	resp, err := client.Post(ctx, url, req.ID, predictBody{Landmarks: req.Landmarks})
	if err != nil {
		return result{outcome: outcomeFailed}
	}
	defer func() { _ = resp.Body.Close() }()

	var res result
	switch resp.StatusCode {
	case http.StatusOK:
		var p types.Prediction
		if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
			return result{outcome: outcomeFailed}
		}
		res = result{outcome: outcomeSuccess, action: p.Action, mismatch: !req.Valid}
	case http.StatusBadRequest:
		res = result{outcome: outcomeRejected, mismatch: req.Valid}
	default:
		return result{outcome: outcomeFailed}
	}

	// The service echoes our correlation id.
	if got := resp.Header.Get(requestIDHeader); got != "" && got != req.ID {
		res.mismatch = true
	}
	return res
}

package loadtest

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/okian/gesture/internal/domain/types"
	"github.com/okian/gesture/pkg/logger"
)

// ErrVerification is returned when the service disagrees with the client tally.
var ErrVerification = errors.New("verification failed")

// fetchStats reads GET /stats.
func fetchStats(ctx context.Context, client *HTTPClient, baseURL string) (types.Stats, error) {
	var stats types.Stats
	if err := client.getJSON(ctx, baseURL+"/stats", &stats); err != nil {
		return types.Stats{}, err
	}
	return stats, nil
}

// verifyResults checks that the service counted exactly the requests it
// accepted. before is the /stats snapshot taken prior to submission.
func verifyResults(ctx context.Context, config *Config, before types.Stats, report *Report) error {
	logger.Get().Info(ctx, "verifying results")

	after, err := fetchStats(ctx, newHTTPClient(config.Timeout), config.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to fetch stats: %w", err)
	}

	counted := after.TotalPredictions - before.TotalPredictions
	report.CountedByService = counted

	var problems []error
	if counted != int64(report.Successful) {
		problems = append(problems, fmt.Errorf("service counted %d predictions, client saw %d successes", counted, report.Successful))
	}
	if report.Mismatched > 0 {
		problems = append(problems, fmt.Errorf("%d requests were accepted or rejected unexpectedly", report.Mismatched))
	}
	if report.Failed > 0 {
		problems = append(problems, fmt.Errorf("%d requests failed", report.Failed))
	}

	displayActions(ctx, report.Actions)

	if len(problems) > 0 {
		return fmt.Errorf("%w: %w", ErrVerification, errors.Join(problems...))
	}
	logger.Get().Info(ctx, "result verification completed", logger.Any("counted", counted))
	return nil
}

// displayActions logs the action tally, most frequent first.
func displayActions(ctx context.Context, actions map[string]int) {
	names := make([]string, 0, len(actions))
	for name := range actions {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if actions[names[i]] != actions[names[j]] {
			return actions[names[i]] > actions[names[j]]
		}
		return names[i] < names[j]
	})
	for _, name := range names {
		logger.Get().Info(ctx, "action", logger.String("name", name), logger.Int("count", actions[name]))
	}
}

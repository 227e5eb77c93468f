package loadtest

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"

	"github.com/google/uuid"
	"github.com/okian/gesture/pkg/logger"
)

// randomFloatDivisor sets the resolution of generated coordinates.
const randomFloatDivisor = 1000000

// Invalid request shapes, cycled through in order.
const (
	invalidShort = iota
	invalidArity
	invalidEmpty
	invalidKinds
)

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// invalidCount is the number of requests a ratio asks to be rejected.
func invalidCount(total int, ratio float64) int {
	if ratio <= 0 || total <= 0 {
		return 0
	}
	if ratio >= 1 {
		return total
	}
	return int(math.Round(ratio * float64(total)))
}

// isInvalid spreads count invalid slots evenly across total positions.
func isInvalid(i, total, count int) bool {
	return (i+1)*count/total > i*count/total
}

// generateRequests builds config.NumRequests bodies for landmarks points each.
func generateRequests(ctx context.Context, config *Config, landmarks int) ([]Request, error) {
	if config.NumRequests <= 0 {
		return nil, fmt.Errorf("number of requests must be positive, got %d", config.NumRequests)
	}
	if landmarks <= 0 {
		return nil, fmt.Errorf("landmark count must be positive, got %d", landmarks)
	}

	bad := invalidCount(config.NumRequests, config.InvalidRatio)
	logger.Get().Info(ctx, "generating prediction requests",
		logger.Int("requests", config.NumRequests),
		logger.Int("invalid", bad),
		logger.Int("landmarks", landmarks))

	requests := make([]Request, config.NumRequests)
	kind := 0
	for i := range requests {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		req := Request{ID: uuid.NewString(), Valid: true}
		if isInvalid(i, config.NumRequests, bad) {
			req.Valid = false
			req.Landmarks = invalidLandmarks(kind%invalidKinds, landmarks)
			kind++
		} else {
			req.Landmarks = randomLandmarks(landmarks)
		}
		requests[i] = req
	}
	return requests, nil
}

// randomLandmarks returns n (x, y) points in the unit square.
func randomLandmarks(n int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		out[i] = []float64{getRandomFloat(), getRandomFloat()}
	}
	return out
}

// invalidLandmarks returns a body the service must reject.
func invalidLandmarks(kind, n int) [][]float64 {
	switch kind {
	case invalidShort:
		if n > 1 {
			return randomLandmarks(n - 1)
		}
		return randomLandmarks(n + 1)
	case invalidArity:
		out := randomLandmarks(n)
		out[0] = append(out[0], getRandomFloat())
		return out
	default:
		return [][]float64{}
	}
}

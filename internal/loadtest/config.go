package loadtest

import "time"

// Config holds configuration for a load test run
type Config struct {
	BaseURL      string        // Base URL of the service
	NumRequests  int           // Number of prediction requests to send
	Workers      int           // Number of concurrent workers
	Timeout      time.Duration // HTTP request timeout
	Landmarks    int           // Landmarks per request; 0 asks /info
	InvalidRatio float64       // Share of requests built to be rejected
	OutputFile   string        // Output file for generated requests
	LogFile      string        // Log file for test output
	Verbose      bool          // Enable verbose logging
}

// Request is one generated POST /predict body.
type Request struct {
	ID        string      `json:"id"`
	Landmarks [][]float64 `json:"landmarks"`
	Valid     bool        `json:"valid"`
}

// predictBody is what goes on the wire.
type predictBody struct {
	Landmarks [][]float64 `json:"landmarks"`
}

// Report holds run statistics
type Report struct {
	RequestsGenerated int
	RequestsInvalid   int
	RequestsSubmitted int
	Successful        int
	Rejected          int
	Failed            int
	Mismatched        int
	Actions           map[string]int
	CountedByService  int64
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}

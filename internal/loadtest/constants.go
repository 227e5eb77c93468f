package loadtest

// Default configuration constants.
const (
	DefaultBaseURL      = "http://localhost:8000"
	DefaultRequests     = 10000
	DefaultInvalidRatio = 0.1
)

// Runner configuration constants.
const (
	PercentageMultiplier = 100
	requestIDHeader      = "X-Request-ID"
	maxErrorBodyBytes    = 4096
)

// Request outcomes.
const (
	outcomeSuccess  = "success"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)

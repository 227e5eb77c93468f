// Package types contains common types used across the application
package types

// Prediction is the outcome of one /predict call.
type Prediction struct {
	PredictedClassIndex int    `json:"predicted_class_index"`
	Action              string `json:"action"`
}

// ModelInfo describes the service and its loaded artifacts.
type ModelInfo struct {
	Title          string         `json:"title"`
	Version        string         `json:"version"`
	Ready          bool           `json:"ready"`
	ClassifierKind string         `json:"classifier_kind,omitempty"`
	Kernel         string         `json:"kernel,omitempty"`
	FeatureDim     int            `json:"feature_dim,omitempty"`
	LandmarkCount  int            `json:"landmark_count"`
	Classes        []int          `json:"classes,omitempty"`
	Labels         map[int]string `json:"labels,omitempty"`
	Actions        map[int]string `json:"actions"`
}

// Stats is a snapshot of service counters.
type Stats struct {
	Ready            bool             `json:"ready"`
	LandmarkCount    int              `json:"landmark_count"`
	FeatureDim       int              `json:"feature_dim"`
	TotalPredictions int64            `json:"total_predictions"`
	ByClass          map[string]int64 `json:"by_class"`
	CacheSize        int              `json:"cache_size"`
	CacheLen         int              `json:"cache_len"`
	CacheHits        int64            `json:"cache_hits"`
	CacheMisses      int64            `json:"cache_misses"`
	UptimeSeconds    float64          `json:"uptime_seconds"`
}

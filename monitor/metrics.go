package monitor

import "time"

type RequestMetrics struct {
	Op         string        `json:"op"`
	TokensIn   int           `json:"tokens_in"`
	TokensOut  int           `json:"tokens_out"`
	Duration   time.Duration `json:"duration"`
	Success    bool          `json:"success"`
	Error      string        `json:"error,omitempty"`
	RecordedAt time.Time     `json:"recorded_at"`
}

type OpSummary struct {
	Count       int           `json:"count"`
	Failures    int           `json:"failures"`
	TotalTokens int           `json:"total_tokens"`
	AvgDuration time.Duration `json:"avg_duration"`
}

type ServiceMetrics struct {
	TotalRequests int                  `json:"total_requests"`
	TotalTokens   int                  `json:"total_tokens"`
	Ops           map[string]OpSummary `json:"ops"`
	StartTime     time.Time            `json:"start_time"`
	GeneratedAt   time.Time            `json:"generated_at"`
}

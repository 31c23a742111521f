package monitor

import (
	"sync"
	"time"
)

type Collector interface {
	Record(metrics RequestMetrics)
	Summary() ServiceMetrics
}

type InMemoryCollector struct {
	mu        sync.RWMutex
	requests  []RequestMetrics
	startTime time.Time
}

func NewInMemoryCollector() *InMemoryCollector {
	return &InMemoryCollector{
		startTime: time.Now(),
	}
}

func (c *InMemoryCollector) Record(metrics RequestMetrics) {
	if metrics.RecordedAt.IsZero() {
		metrics.RecordedAt = time.Now()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, metrics)
}

func (c *InMemoryCollector) Summary() ServiceMetrics {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ops := make(map[string]OpSummary)
	var totalTokens int
	durations := make(map[string]time.Duration)

	for _, m := range c.requests {
		s := ops[m.Op]
		s.Count++
		if !m.Success {
			s.Failures++
		}
		s.TotalTokens += m.TokensIn + m.TokensOut
		durations[m.Op] += m.Duration
		ops[m.Op] = s
		totalTokens += m.TokensIn + m.TokensOut
	}

	for op, s := range ops {
		s.AvgDuration = durations[op] / time.Duration(s.Count)
		ops[op] = s
	}

	return ServiceMetrics{
		TotalRequests: len(c.requests),
		TotalTokens:   totalTokens,
		Ops:           ops,
		StartTime:     c.startTime,
		GeneratedAt:   time.Now(),
	}
}

func (c *InMemoryCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = nil
	c.startTime = time.Now()
}

type NoOpCollector struct{}

func NewNoOpCollector() *NoOpCollector {
	return &NoOpCollector{}
}

func (c *NoOpCollector) Record(metrics RequestMetrics) {}

func (c *NoOpCollector) Summary() ServiceMetrics {
	return ServiceMetrics{}
}

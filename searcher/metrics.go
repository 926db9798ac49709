package searcher

import (
	"sync/atomic"
	"time"
)

// MoveMetrics summarizes one search: how long it ran, how many iterations
// and rollouts it completed, and whether the previous tree was reused.
type MoveMetrics struct {
	StartTime  time.Time
	Duration   time.Duration
	Iterations int64
	Rollouts   int64
	TreeReused bool
}

type MetricsCollector interface {
	Start()
	AddIteration()
	AddRollouts(n int)
	SetTreeReused(reused bool)
	Complete() MoveMetrics
}

type metricsCollector struct {
	startTime  time.Time
	iterations atomic.Int64
	rollouts   atomic.Int64
	treeReused atomic.Bool
}

func NewMetricsCollector() MetricsCollector {
	return &metricsCollector{}
}

func (m *metricsCollector) Start() {
	m.startTime = time.Now()
	m.iterations.Store(0)
	m.rollouts.Store(0)
	m.treeReused.Store(false)
}

func (m *metricsCollector) AddIteration() {
	m.iterations.Add(1)
}

func (m *metricsCollector) AddRollouts(n int) {
	m.rollouts.Add(int64(n))
}

func (m *metricsCollector) SetTreeReused(reused bool) {
	m.treeReused.Store(reused)
}

func (m *metricsCollector) Complete() MoveMetrics {
	return MoveMetrics{
		StartTime:  m.startTime,
		Duration:   time.Since(m.startTime),
		Iterations: m.iterations.Load(),
		Rollouts:   m.rollouts.Load(),
		TreeReused: m.treeReused.Load(),
	}
}

type noMetricsCollector struct{}

func NewNoMetricsCollector() MetricsCollector {
	return &noMetricsCollector{}
}

func (m *noMetricsCollector) Start()                {}
func (m *noMetricsCollector) AddIteration()         {}
func (m *noMetricsCollector) AddRollouts(int)       {}
func (m *noMetricsCollector) SetTreeReused(bool)    {}
func (m *noMetricsCollector) Complete() MoveMetrics { return MoveMetrics{} }

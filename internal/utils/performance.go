package utils

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// SlowOperation is the duration above which timers warn.
const SlowOperation = 30 * time.Second

// Timer measures one operation, such as formulating or solving a problem.
type Timer struct {
	start   time.Time
	name    string
	log     zerolog.Logger
	enabled bool
}

// NewTimer creates a new timer with the given name
func NewTimer(name string, log zerolog.Logger) *Timer {
	return &Timer{
		start:   time.Now(),
		name:    name,
		log:     log,
		enabled: true,
	}
}

// Stop stops the timer and logs the duration
func (t *Timer) Stop() time.Duration {
	return t.StopWithContext(nil)
}

// StopWithContext stops the timer and logs with additional fields
func (t *Timer) StopWithContext(fields map[string]interface{}) time.Duration {
	if !t.enabled {
		return 0
	}

	duration := time.Since(t.start)

	event := t.log.Debug().
		Str("operation", t.name).
		Dur("duration_ms", duration).
		Float64("duration_seconds", duration.Seconds())

	for key, value := range fields {
		switch v := value.(type) {
		case string:
			event = event.Str(key, v)
		case int:
			event = event.Int(key, v)
		case int64:
			event = event.Int64(key, v)
		case float64:
			event = event.Float64(key, v)
		case bool:
			event = event.Bool(key, v)
		default:
			event = event.Interface(key, v)
		}
	}
	event.Msg("Performance measurement")

	if duration > SlowOperation {
		t.log.Warn().
			Str("operation", t.name).
			Dur("duration", duration).
			Msg("Slow operation detected (>30s)")
	}

	return duration
}

// Disable disables the timer
func (t *Timer) Disable() {
	t.enabled = false
}

// OperationTimer provides a defer-friendly way to measure operation duration
//
// Usage:
//
//	func Formulate() {
//	    defer utils.OperationTimer("formulate", log)()
//	}
func OperationTimer(operation string, log zerolog.Logger) func() {
	start := time.Now()

	return func() {
		duration := time.Since(start)

		log.Debug().
			Str("operation", operation).
			Dur("duration_ms", duration).
			Msg("Operation completed")

		if duration > SlowOperation {
			log.Warn().
				Str("operation", operation).
				Dur("duration", duration).
				Msg("Slow operation detected")
		}
	}
}

// PerformanceMetrics aggregates durations of a repeated operation. It is
// safe for concurrent use.
type PerformanceMetrics struct {
	OperationName string
	CallCount     int64
	TotalDuration time.Duration
	MinDuration   time.Duration
	MaxDuration   time.Duration
	AvgDuration   time.Duration

	mu sync.Mutex
}

// NewPerformanceMetrics creates an empty aggregate.
func NewPerformanceMetrics(name string) *PerformanceMetrics {
	return &PerformanceMetrics{OperationName: name}
}

// Record adds one observation.
func (pm *PerformanceMetrics) Record(d time.Duration) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if pm.CallCount == 0 || d < pm.MinDuration {
		pm.MinDuration = d
	}
	if d > pm.MaxDuration {
		pm.MaxDuration = d
	}
	pm.CallCount++
	pm.TotalDuration += d
	pm.AvgDuration = pm.TotalDuration / time.Duration(pm.CallCount)
}

// LogMetrics logs the aggregated performance metrics
func (pm *PerformanceMetrics) LogMetrics(log zerolog.Logger) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if pm.CallCount == 0 {
		return
	}

	log.Info().
		Str("operation", pm.OperationName).
		Int64("call_count", pm.CallCount).
		Dur("total_duration", pm.TotalDuration).
		Dur("avg_duration", pm.AvgDuration).
		Dur("min_duration", pm.MinDuration).
		Dur("max_duration", pm.MaxDuration).
		Msg("Performance metrics summary")
}

package monitoring

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/montanaflynn/stats"
)

const maxSamples = 1000

// Metrics holds application metrics
type Metrics struct {
	RequestCount    int64
	ErrorCount      int64
	PredictionCount int64
	AcceptCount     int64
	PredictionFails int64
	ValidationFails int64
	ClassifierCalls int64
	StartTime       time.Time

	// last maxSamples durations, in milliseconds
	responseTimes   []float64
	predictionTimes []float64
	samplesMutex    sync.RWMutex

	RequestCountByStatus map[int]int64
	StatusMutex          sync.RWMutex

	RateLimitBlocks        int64
	RateLimitRedisErrors   int64
	RateLimitFallbackCount int64
}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime:            time.Now(),
		responseTimes:        make([]float64, 0, maxSamples),
		predictionTimes:      make([]float64, 0, maxSamples),
		RequestCountByStatus: make(map[int]int64),
	}
}

func (m *Metrics) IncrementRequest() {
	atomic.AddInt64(&m.RequestCount, 1)
}

func (m *Metrics) IncrementError() {
	atomic.AddInt64(&m.ErrorCount, 1)
}

// RecordPrediction counts one successful interaction and the classifier
// calls it made
func (m *Metrics) RecordPrediction(accept bool, classifierCalls int, duration time.Duration) {
	atomic.AddInt64(&m.PredictionCount, 1)
	atomic.AddInt64(&m.ClassifierCalls, int64(classifierCalls))
	if accept {
		atomic.AddInt64(&m.AcceptCount, 1)
	}

	m.samplesMutex.Lock()
	m.predictionTimes = appendSample(m.predictionTimes, duration)
	m.samplesMutex.Unlock()
}

func (m *Metrics) IncrementPredictionFailure() {
	atomic.AddInt64(&m.PredictionFails, 1)
}

func (m *Metrics) IncrementValidationFailure() {
	atomic.AddInt64(&m.ValidationFails, 1)
}

// RecordResponseTime records a request duration for percentiles
func (m *Metrics) RecordResponseTime(duration time.Duration) {
	m.samplesMutex.Lock()
	m.responseTimes = appendSample(m.responseTimes, duration)
	m.samplesMutex.Unlock()
}

func appendSample(samples []float64, d time.Duration) []float64 {
	samples = append(samples, float64(d)/float64(time.Millisecond))
	if len(samples) > maxSamples {
		samples = samples[1:]
	}
	return samples
}

// RecordRequestByStatus records request count by HTTP status code
func (m *Metrics) RecordRequestByStatus(statusCode int) {
	m.StatusMutex.Lock()
	defer m.StatusMutex.Unlock()
	m.RequestCountByStatus[statusCode]++
}

func (m *Metrics) IncrementRateLimitBlock() {
	atomic.AddInt64(&m.RateLimitBlocks, 1)
}

func (m *Metrics) IncrementRateLimitRedisError() {
	atomic.AddInt64(&m.RateLimitRedisErrors, 1)
}

func (m *Metrics) IncrementRateLimitFallback() {
	atomic.AddInt64(&m.RateLimitFallbackCount, 1)
}

// Summary describes a window of duration samples in milliseconds
type Summary struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean_ms"`
	P50   float64 `json:"p50_ms"`
	P95   float64 `json:"p95_ms"`
	P99   float64 `json:"p99_ms"`
}

func summarize(samples []float64) Summary {
	s := Summary{Count: len(samples)}
	if len(samples) == 0 {
		return s
	}
	data := stats.Float64Data(samples)
	// errors only occur on empty input
	s.Mean, _ = data.Mean()
	s.P50, _ = data.Percentile(50)
	s.P95, _ = data.Percentile(95)
	s.P99, _ = data.Percentile(99)
	return s
}

// ResponseTimes summarizes recent request durations
func (m *Metrics) ResponseTimes() Summary {
	m.samplesMutex.RLock()
	defer m.samplesMutex.RUnlock()
	return summarize(m.responseTimes)
}

// PredictionTimes summarizes recent interaction durations
func (m *Metrics) PredictionTimes() Summary {
	m.samplesMutex.RLock()
	defer m.samplesMutex.RUnlock()
	return summarize(m.predictionTimes)
}

// GetStatusCodeDistribution returns request count by status code
func (m *Metrics) GetStatusCodeDistribution() map[int]int64 {
	m.StatusMutex.RLock()
	defer m.StatusMutex.RUnlock()

	distribution := make(map[int]int64, len(m.RequestCountByStatus))
	for code, count := range m.RequestCountByStatus {
		distribution[code] = count
	}
	return distribution
}

// GetStats returns current metrics statistics
func (m *Metrics) GetStats() map[string]interface{} {
	requests := atomic.LoadInt64(&m.RequestCount)
	errors := atomic.LoadInt64(&m.ErrorCount)
	predictions := atomic.LoadInt64(&m.PredictionCount)
	accepts := atomic.LoadInt64(&m.AcceptCount)

	errorRate := float64(0)
	if requests > 0 {
		errorRate = float64(errors) / float64(requests) * 100
	}
	acceptRate := float64(0)
	if predictions > 0 {
		acceptRate = float64(accepts) / float64(predictions) * 100
	}

	return map[string]interface{}{
		"uptime_seconds":           time.Since(m.StartTime).Seconds(),
		"start_time":               m.StartTime.Format(time.RFC3339),
		"total_requests":           requests,
		"error_count":              errors,
		"error_rate_percent":       errorRate,
		"predictions":              predictions,
		"accept_rate_percent":      acceptRate,
		"prediction_failures":      atomic.LoadInt64(&m.PredictionFails),
		"validation_failures":      atomic.LoadInt64(&m.ValidationFails),
		"classifier_calls":         atomic.LoadInt64(&m.ClassifierCalls),
		"response_times":           m.ResponseTimes(),
		"prediction_times":         m.PredictionTimes(),
		"status_code_distribution": m.GetStatusCodeDistribution(),
		"rate_limit": map[string]int64{
			"blocks":         atomic.LoadInt64(&m.RateLimitBlocks),
			"redis_errors":   atomic.LoadInt64(&m.RateLimitRedisErrors),
			"fallback_count": atomic.LoadInt64(&m.RateLimitFallbackCount),
		},
	}
}

// Reset resets all metrics (useful for testing)
func (m *Metrics) Reset() {
	for _, c := range []*int64{
		&m.RequestCount, &m.ErrorCount, &m.PredictionCount, &m.AcceptCount,
		&m.PredictionFails, &m.ValidationFails, &m.ClassifierCalls,
		&m.RateLimitBlocks, &m.RateLimitRedisErrors, &m.RateLimitFallbackCount,
	} {
		atomic.StoreInt64(c, 0)
	}

	m.samplesMutex.Lock()
	m.responseTimes = m.responseTimes[:0]
	m.predictionTimes = m.predictionTimes[:0]
	m.samplesMutex.Unlock()

	m.StatusMutex.Lock()
	m.RequestCountByStatus = make(map[int]int64)
	m.StatusMutex.Unlock()

	m.StartTime = time.Now()
}

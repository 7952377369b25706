package monitoring

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// PerformanceMonitor tracks simulation tick metrics. It satisfies
// game.TickObserver and is safe to read from another goroutine.
type PerformanceMonitor struct {
	// Tick metrics
	tickCount atomic.Uint64
	tickTime  atomic.Uint64 // nanoseconds, last tick
	totalTime atomic.Uint64 // nanoseconds, all ticks

	// Simulation metrics
	liveUnits     atomic.Int32
	peakLiveUnits atomic.Int32
	attacks       atomic.Uint64

	// Statistics
	mutex       sync.RWMutex
	avgTickTime float64
	maxTickTime time.Duration
	startTime   time.Time

	slowTick time.Duration
}

// NewPerformanceMonitor creates a monitor that flags ticks slower than slowTick.
func NewPerformanceMonitor(slowTick time.Duration) *PerformanceMonitor {
	if slowTick <= 0 {
		slowTick = time.Second / 60
	}
	return &PerformanceMonitor{
		startTime: time.Now(),
		slowTick:  slowTick,
	}
}

// ObserveTick records one completed simulation tick.
func (pm *PerformanceMonitor) ObserveTick(elapsed time.Duration, liveUnits int, attacks uint64) {
	ns := uint64(elapsed.Nanoseconds())
	pm.tickTime.Store(ns)
	total := pm.totalTime.Add(ns)
	count := pm.tickCount.Add(1)

	pm.liveUnits.Store(int32(liveUnits))
	for {
		peak := pm.peakLiveUnits.Load()
		if int32(liveUnits) <= peak || pm.peakLiveUnits.CompareAndSwap(peak, int32(liveUnits)) {
			break
		}
	}
	pm.attacks.Add(attacks)

	pm.mutex.Lock()
	pm.avgTickTime = float64(total) / float64(count)
	if elapsed > pm.maxTickTime {
		pm.maxTickTime = elapsed
	}
	pm.mutex.Unlock()
}

// TickMetrics is a snapshot of the monitor.
type TickMetrics struct {
	Ticks         uint64
	LastTick      time.Duration
	AverageTick   time.Duration
	MaxTick       time.Duration
	LiveUnits     int
	PeakLiveUnits int
	Attacks       uint64
	MemoryUsageMB uint64
}

// GetCurrentMetrics returns current performance metrics
func (pm *PerformanceMonitor) GetCurrentMetrics() TickMetrics {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return TickMetrics{
		Ticks:         pm.tickCount.Load(),
		LastTick:      time.Duration(pm.tickTime.Load()),
		AverageTick:   time.Duration(pm.avgTickTime),
		MaxTick:       pm.maxTickTime,
		LiveUnits:     int(pm.liveUnits.Load()),
		PeakLiveUnits: int(pm.peakLiveUnits.Load()),
		Attacks:       pm.attacks.Load(),
		MemoryUsageMB: memStats.Alloc / 1024 / 1024,
	}
}

// GetDetailedStats returns metrics as loggable key/value pairs.
func (pm *PerformanceMonitor) GetDetailedStats() map[string]interface{} {
	m := pm.GetCurrentMetrics()
	pm.mutex.RLock()
	uptime := time.Since(pm.startTime)
	pm.mutex.RUnlock()

	return map[string]interface{}{
		"uptime_seconds":   uptime.Seconds(),
		"tick_count":       m.Ticks,
		"last_tick_us":     m.LastTick.Microseconds(),
		"avg_tick_us":      m.AverageTick.Microseconds(),
		"max_tick_us":      m.MaxTick.Microseconds(),
		"live_units":       m.LiveUnits,
		"peak_live_units":  m.PeakLiveUnits,
		"attacks_resolved": m.Attacks,
		"memory_alloc_mb":  m.MemoryUsageMB,
		"goroutines":       runtime.NumGoroutine(),
	}
}

// PerformanceAlert represents a performance warning
type PerformanceAlert struct {
	Type      string
	Message   string
	Value     float64
	Threshold float64
	Timestamp time.Time
}

// CheckPerformanceAlerts reports a slow last tick and high memory use.
func (pm *PerformanceMonitor) CheckPerformanceAlerts() []PerformanceAlert {
	alerts := make([]PerformanceAlert, 0)
	currentTime := time.Now()

	last := time.Duration(pm.tickTime.Load())
	if last > pm.slowTick {
		alerts = append(alerts, PerformanceAlert{
			Type:      "slow_tick",
			Message:   "Last simulation tick exceeded its frame budget",
			Value:     float64(last.Microseconds()),
			Threshold: float64(pm.slowTick.Microseconds()),
			Timestamp: currentTime,
		})
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	memoryMB := float64(memStats.Alloc) / 1024 / 1024
	if memoryMB > 500 {
		alerts = append(alerts, PerformanceAlert{
			Type:      "high_memory",
			Message:   "Memory usage is above 500MB",
			Value:     memoryMB,
			Threshold: 500,
			Timestamp: currentTime,
		})
	}

	return alerts
}

// Reset resets all performance counters
func (pm *PerformanceMonitor) Reset() {
	pm.tickCount.Store(0)
	pm.tickTime.Store(0)
	pm.totalTime.Store(0)
	pm.liveUnits.Store(0)
	pm.peakLiveUnits.Store(0)
	pm.attacks.Store(0)

	pm.mutex.Lock()
	pm.avgTickTime = 0
	pm.maxTickTime = 0
	pm.startTime = time.Now()
	pm.mutex.Unlock()
}

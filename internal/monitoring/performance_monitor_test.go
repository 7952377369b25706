package monitoring

import (
	"sync"
	"testing"
	"time"
)

func TestNewPerformanceMonitor(t *testing.T) {
	pm := NewPerformanceMonitor(0)

	if pm == nil {
		t.Fatal("NewPerformanceMonitor returned nil")
	}
	if pm.slowTick != time.Second/60 {
		t.Errorf("Expected default slow tick of one 60 TPS frame, got %v", pm.slowTick)
	}
	if time.Since(pm.startTime) > time.Second {
		t.Error("Start time should be recent")
	}
}

func TestObserveTickAggregates(t *testing.T) {
	pm := NewPerformanceMonitor(time.Millisecond)

	pm.ObserveTick(2*time.Millisecond, 4, 1)
	pm.ObserveTick(4*time.Millisecond, 9, 3)
	pm.ObserveTick(3*time.Millisecond, 2, 0)

	m := pm.GetCurrentMetrics()
	if m.Ticks != 3 {
		t.Errorf("Expected 3 ticks, got %d", m.Ticks)
	}
	if m.LastTick != 3*time.Millisecond {
		t.Errorf("Expected last tick 3ms, got %v", m.LastTick)
	}
	if m.AverageTick != 3*time.Millisecond {
		t.Errorf("Expected average tick 3ms, got %v", m.AverageTick)
	}
	if m.MaxTick != 4*time.Millisecond {
		t.Errorf("Expected max tick 4ms, got %v", m.MaxTick)
	}
	if m.LiveUnits != 2 || m.PeakLiveUnits != 9 {
		t.Errorf("Expected live 2 / peak 9, got %d / %d", m.LiveUnits, m.PeakLiveUnits)
	}
	if m.Attacks != 4 {
		t.Errorf("Expected 4 attacks, got %d", m.Attacks)
	}
}

func TestSlowTickAlert(t *testing.T) {
	pm := NewPerformanceMonitor(time.Millisecond)

	pm.ObserveTick(500*time.Microsecond, 1, 0)
	for _, a := range pm.CheckPerformanceAlerts() {
		if a.Type == "slow_tick" {
			t.Fatal("fast tick should not raise an alert")
		}
	}

	pm.ObserveTick(5*time.Millisecond, 1, 0)
	found := false
	for _, a := range pm.CheckPerformanceAlerts() {
		if a.Type == "slow_tick" {
			found = true
		}
	}
	if !found {
		t.Error("Expected slow_tick alert")
	}
}

func TestConcurrentObserveAndRead(t *testing.T) {
	pm := NewPerformanceMonitor(time.Millisecond)
	var wg sync.WaitGroup

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 250; j++ {
				pm.ObserveTick(time.Microsecond, n*10+j%10, 1)
			}
		}(i)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 100; j++ {
			_ = pm.GetDetailedStats()
		}
	}()
	wg.Wait()

	m := pm.GetCurrentMetrics()
	if m.Ticks != 1000 {
		t.Errorf("Expected 1000 ticks, got %d", m.Ticks)
	}
	if m.Attacks != 1000 {
		t.Errorf("Expected 1000 attacks, got %d", m.Attacks)
	}
	if m.PeakLiveUnits != 39 {
		t.Errorf("Expected peak 39, got %d", m.PeakLiveUnits)
	}
}

func TestReset(t *testing.T) {
	pm := NewPerformanceMonitor(time.Millisecond)
	pm.ObserveTick(time.Millisecond, 3, 2)

	pm.Reset()

	m := pm.GetCurrentMetrics()
	if m.Ticks != 0 || m.Attacks != 0 || m.PeakLiveUnits != 0 || m.AverageTick != 0 {
		t.Errorf("Expected zeroed metrics after reset, got %+v", m)
	}
}

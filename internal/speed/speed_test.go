package speed

import (
	"math"
	"testing"
	"time"
)

const tolerance = 1e-6

func almostEqual(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= tolerance*math.Max(math.Abs(a), math.Abs(b))
}

func feedAndCheck(t *testing.T, m Meter, steps []struct {
	elapsed time.Duration
	n       int
	want    float64
}) {
	t.Helper()
	for i, step := range steps {
		m.Add(step.elapsed, step.n)
		if got := m.Speed(); !almostEqual(got, step.want) {
			t.Errorf("step %d: Speed() = %v, want %v", i, got, step.want)
		}
	}
}

func TestInstant(t *testing.T) {
	m := NewInstant()
	if got := m.Speed(); got != 0 {
		t.Errorf("empty Speed() = %v, want 0", got)
	}
	feedAndCheck(t, m, []struct {
		elapsed time.Duration
		n       int
		want    float64
	}{
		{100 * time.Millisecond, 10, 100},
		{150 * time.Millisecond, 30, 200},
		{time.Second, 0, 0},
		{time.Second, 0, 0},
	})
}

func TestRing(t *testing.T) {
	m := NewRing(4)
	if got := m.Speed(); got != 0 {
		t.Errorf("empty Speed() = %v, want 0", got)
	}
	feedAndCheck(t, m, []struct {
		elapsed time.Duration
		n       int
		want    float64
	}{
		{100 * time.Millisecond, 10, 100},
		{150 * time.Millisecond, 30, 160},
		{time.Second, 0, 32},
		{time.Second, 0, 17.777778},
		{time.Second, 0, 9.523810},
		{time.Second, 0, 0},
		{time.Second, 0, 0},
	})
}

func TestRingWindowEviction(t *testing.T) {
	// Fed more samples than its capacity, the ring must reflect only the
	// most recent ones.
	for _, capacity := range []int{1, 2, 5, 16} {
		m := NewRing(capacity)
		for i := 0; i < capacity*3; i++ {
			m.Add(time.Second, 1)
		}
		if got := m.Speed(); !almostEqual(got, 1) {
			t.Errorf("capacity %d: Speed() = %v, want 1", capacity, got)
		}
		// One burst sample; its weight tells us how many samples remain.
		m.Add(time.Second, 1+capacity)
		want := float64(2*capacity) * 1000 / float64(capacity*1000)
		if got := m.Speed(); !almostEqual(got, want) {
			t.Errorf("capacity %d after burst: Speed() = %v, want %v", capacity, got, want)
		}
	}
}

func TestSmoothed(t *testing.T) {
	m := NewSmoothed(0.5)
	steps := []struct {
		elapsed time.Duration
		n       int
		want    float64
	}{
		{100 * time.Millisecond, 10, 50},
		{150 * time.Millisecond, 30, 125},
	}
	for want := 62.5; want > 0.12; want /= 2 {
		steps = append(steps, struct {
			elapsed time.Duration
			n       int
			want    float64
		}{time.Second, 0, want})
	}
	feedAndCheck(t, m, steps)
}

func TestSmoothedGuards(t *testing.T) {
	m := NewSmoothed(0.5)
	m.Add(100*time.Millisecond, 10)
	if got := m.Speed(); got != 50 {
		t.Fatalf("Speed() = %v, want 50", got)
	}

	// Zero elapsed time must not alter the estimate.
	m.Add(0, 100)
	if got := m.Speed(); got != 50 {
		t.Errorf("after zero-elapsed Add: Speed() = %v, want 50", got)
	}

	// Sub-millisecond elapsed truncates to zero milliseconds; also skipped.
	m.Add(500*time.Microsecond, 100)
	if got := m.Speed(); got != 50 {
		t.Errorf("after sub-ms Add: Speed() = %v, want 50", got)
	}
}

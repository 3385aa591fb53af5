// Package speed implements throughput estimation over (elapsed, count)
// samples. Three estimators share the Meter interface: Instant keeps no
// history, Ring averages over a fixed window of samples, and Smoothed applies
// exponential smoothing.
package speed

import (
	"log"
	"math"
	"time"
)

// Meter estimates a rate in events per second from periodic measurements.
type Meter interface {
	// Add records that n events happened over the given elapsed time.
	Add(elapsed time.Duration, n int)
	// Speed returns the current estimate in events per second.
	Speed() float64
}

// Instant reports the rate of the most recent measurement only.
type Instant struct {
	speed float64
}

// NewInstant returns a Meter with no memory of past measurements.
func NewInstant() *Instant {
	return &Instant{}
}

func (m *Instant) Add(elapsed time.Duration, n int) {
	m.speed = float64(n) * 1000 / float64(elapsed.Milliseconds())
}

func (m *Instant) Speed() float64 {
	return m.speed
}

type measurement struct {
	elapsed time.Duration
	n       int
}

// Ring averages over the last capacity measurements, evicting the oldest
// when full. Its speed is zero until the first measurement arrives.
type Ring struct {
	measurements []measurement
	head         int
	size         int
}

// NewRing returns a Meter averaging over a window of capacity measurements.
// Capacity must be positive.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		panic("speed: ring capacity must be positive")
	}
	return &Ring{measurements: make([]measurement, capacity)}
}

func (m *Ring) Add(elapsed time.Duration, n int) {
	m.measurements[m.head] = measurement{elapsed: elapsed, n: n}
	m.head = (m.head + 1) % len(m.measurements)
	if m.size < len(m.measurements) {
		m.size++
	}
}

func (m *Ring) Speed() float64 {
	if m.size == 0 {
		return 0
	}
	var elapsed time.Duration
	var n int
	for _, sample := range m.measurements[:m.size] {
		elapsed += sample.elapsed
		n += sample.n
	}
	return float64(n) * 1000 / float64(elapsed.Milliseconds())
}

// Smoothed keeps one exponentially smoothed rate. Each measurement moves the
// estimate towards the instant rate by the configured factor.
type Smoothed struct {
	speed  float64
	factor float64
}

// NewSmoothed returns a Meter with the given smoothing factor in (0, 1];
// higher factors weigh recent measurements more.
func NewSmoothed(factor float64) *Smoothed {
	return &Smoothed{factor: factor}
}

func (m *Smoothed) Add(elapsed time.Duration, n int) {
	ms := elapsed.Milliseconds()
	if ms == 0 {
		return
	}
	// The estimate feeds back into itself, so a single NaN or Inf would
	// poison every future value. Drop the measurement instead.
	instant := float64(n) * 1000 / float64(ms)
	if math.IsNaN(instant) || math.IsInf(instant, 0) {
		log.Printf("speed: discarding non-finite measurement (%d events over %v)", n, elapsed)
		return
	}
	m.speed = m.factor*instant + (1-m.factor)*m.speed
}

func (m *Smoothed) Speed() float64 {
	return m.speed
}

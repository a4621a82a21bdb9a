package network

import (
	"sync"
	"time"
)

const (
	rttAlpha = 0.125
	rttBeta  = 0.25
	rttK     = 4

	// MinRTO and MaxRTO bound the retransmission timeout. The lower bound is
	// far below the usual one second; a match runs on a LAN or close to it.
	MinRTO = 50 * time.Millisecond
	MaxRTO = 5 * time.Second

	rttGranularity = time.Millisecond
)

// RTTEstimator smooths ping round trips (RFC 6298). It is safe for concurrent
// use: echoes arrive on network goroutines while the tick reads the estimate.
type RTTEstimator struct {
	mu      sync.Mutex
	srtt    time.Duration
	rttvar  time.Duration
	rto     time.Duration
	last    time.Duration
	samples int
}

func NewRTTEstimator() *RTTEstimator {
	return &RTTEstimator{rto: time.Second}
}

// Observe feeds one round-trip sample. Negative samples, from clock jumps,
// are ignored.
func (e *RTTEstimator) Observe(sample time.Duration) {
	if sample < 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.samples == 0 {
		e.srtt = sample
		e.rttvar = sample / 2
	} else {
		diff := e.srtt - sample
		if diff < 0 {
			diff = -diff
		}
		e.rttvar = time.Duration((1-rttBeta)*float64(e.rttvar) + rttBeta*float64(diff))
		e.srtt = time.Duration((1-rttAlpha)*float64(e.srtt) + rttAlpha*float64(sample))
	}
	e.last = sample
	e.samples++
	e.rto = clampRTO(e.srtt + max(rttGranularity, rttK*e.rttvar))
}

func (e *RTTEstimator) SRTT() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.srtt
}

func (e *RTTEstimator) RTTVar() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rttvar
}

// RTO is one second until the first sample.
func (e *RTTEstimator) RTO() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rto
}

func (e *RTTEstimator) Last() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

func (e *RTTEstimator) Samples() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.samples
}

// FramesInFlight converts the smoothed round trip into simulation frames,
// rounded up.
func (e *RTTEstimator) FramesInFlight(period time.Duration) int {
	srtt := e.SRTT()
	if period <= 0 || srtt <= 0 {
		return 0
	}
	return int((srtt + period - 1) / period)
}

func clampRTO(d time.Duration) time.Duration {
	return min(max(d, MinRTO), MaxRTO)
}

package compare

import (
	"fmt"
	"runtime/debug"
	"sync"

	"pdf-compare/internal/domain"
)

// ResidencyStats is a snapshot of raster residency for one comparison call.
type ResidencyStats struct {
	Pages     int   `json:"pages"`
	PeakPages int   `json:"peak_pages"`
	Bytes     int64 `json:"bytes"`
	PeakBytes int64 `json:"peak_bytes"`
}

// Residency tracks full-resolution raster pages alive during a comparison and
// enforces the byte ceiling. A zero ceiling disables the check.
type Residency struct {
	mu      sync.Mutex
	ceiling int64
	stats   ResidencyStats
}

// NewResidency creates a tracker with the given byte ceiling.
func NewResidency(ceiling int64) *Residency {
	return &Residency{ceiling: ceiling}
}

func (r *Residency) acquire(n int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ceiling > 0 && r.stats.Bytes+n > r.ceiling {
		return fmt.Errorf("%w: %d bytes resident, %d requested, ceiling %d",
			domain.ErrResourceExhausted, r.stats.Bytes, n, r.ceiling)
	}
	r.stats.Pages++
	r.stats.Bytes += n
	r.updatePeak()
	return nil
}

func (r *Residency) resize(from, to int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delta := to - from
	if r.ceiling > 0 && delta > 0 && r.stats.Bytes+delta > r.ceiling {
		return fmt.Errorf("%w: resampling needs %d more bytes, ceiling %d",
			domain.ErrResourceExhausted, delta, r.ceiling)
	}
	r.stats.Bytes += delta
	r.updatePeak()
	return nil
}

func (r *Residency) release(n int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.Pages--
	r.stats.Bytes -= n
}

func (r *Residency) updatePeak() {
	if r.stats.Pages > r.stats.PeakPages {
		r.stats.PeakPages = r.stats.Pages
	}
	if r.stats.Bytes > r.stats.PeakBytes {
		r.stats.PeakBytes = r.stats.Bytes
	}
}

// Stats returns the current snapshot.
func (r *Residency) Stats() ResidencyStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// MemoryGuard elevates the runtime soft memory limit while at least one
// comparison holds it, and restores the previous limit when the last holder
// releases.
type MemoryGuard struct {
	mu       sync.Mutex
	limit    int64
	holders  int
	previous int64
	setLimit func(int64) int64
}

// NewMemoryGuard returns a guard that raises the soft limit to limit bytes.
// A non-positive limit makes Acquire a no-op.
func NewMemoryGuard(limit int64) *MemoryGuard {
	return &MemoryGuard{limit: limit, setLimit: debug.SetMemoryLimit}
}

// Acquire elevates the limit and returns the function that restores it.
// The returned function is safe to call more than once.
func (g *MemoryGuard) Acquire() func() {
	if g == nil || g.limit <= 0 {
		return func() {}
	}

	g.mu.Lock()
	if g.holders == 0 {
		// A negative input only reads the current limit.
		g.previous = g.setLimit(-1)
		if g.limit > g.previous {
			g.setLimit(g.limit)
		}
	}
	g.holders++
	g.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(g.release)
	}
}

func (g *MemoryGuard) release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.holders--
	if g.holders == 0 {
		g.setLimit(g.previous)
	}
}

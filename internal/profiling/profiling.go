package profiling

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"asciicube/internal/logging"
)

// Recorder accumulates per-frame pass timings. One Recorder belongs to one
// render loop; the zero value is not usable, call NewRecorder.
type Recorder struct {
	mu          sync.Mutex
	frameTotals map[string]time.Duration
	budget      time.Duration
	frames      uint64
	slowFrames  uint64
}

// NewRecorder returns a recorder that warns when a frame exceeds budget.
// A zero budget disables the warning.
func NewRecorder(budget time.Duration) *Recorder {
	return &Recorder{frameTotals: make(map[string]time.Duration), budget: budget}
}

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer rec.Track("scene")()
func (r *Recorder) Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		r.mu.Lock()
		r.frameTotals[name] += d
		r.mu.Unlock()
	}
}

// EndFrame closes the current frame: it logs a warning when the frame ran
// over budget and clears the totals for the next one.
func (r *Recorder) EndFrame() {
	r.mu.Lock()
	var total time.Duration
	for _, d := range r.frameTotals {
		total += d
	}
	r.frames++
	slow := r.budget > 0 && total > r.budget
	if slow {
		r.slowFrames++
	}
	r.mu.Unlock()

	if slow {
		logging.Logger().Warn("slow frame", "total", total, "budget", r.budget, "passes", r.TopN(3))
	}
	r.Reset()
}

// Reset clears current per-frame totals.
func (r *Recorder) Reset() {
	r.mu.Lock()
	clear(r.frameTotals)
	r.mu.Unlock()
}

// Frames returns the number of completed frames and how many ran over budget.
func (r *Recorder) Frames() (total, slow uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames, r.slowFrames
}

// Snapshot returns a copy of current per-frame totals.
func (r *Recorder) Snapshot() map[string]time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]time.Duration, len(r.frameTotals))
	for k, v := range r.frameTotals {
		out[k] = v
	}
	return out
}

// TopN formats top N durations from the current frame totals.
// Example: "composite:4.2ms, scene:2.1ms"
func (r *Recorder) TopN(n int) string {
	ss := r.Snapshot()
	type pair struct {
		name string
		dur  time.Duration
	}
	list := make([]pair, 0, len(ss))
	for k, v := range ss {
		list = append(list, pair{name: k, dur: v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].dur == list[j].dur {
			return list[i].name < list[j].name
		}
		return list[i].dur > list[j].dur
	})
	if n > len(list) {
		n = len(list)
	}
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		parts = append(parts, list[i].name+":"+formatMs(list[i].dur))
	}
	return strings.Join(parts, ", ")
}

// formatMs keeps one decimal and drops a trailing ".0".
func formatMs(d time.Duration) string {
	ms := float64(d.Microseconds()) / 1000.0
	s := fmt.Sprintf("%.1f", ms)
	return strings.TrimSuffix(s, ".0") + "ms"
}

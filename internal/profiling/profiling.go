package profiling

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// Lightweight per-stage CPU profiler for generation runs.

var (
	mu     sync.Mutex
	totals = make(map[string]Stage)
)

// Stage accumulates the time spent in one named stage.
type Stage struct {
	Total time.Duration
	Calls int
}

// Mean is the average duration of one call.
func (s Stage) Mean() time.Duration {
	if s.Calls == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Calls)
}

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer profiling.Track("package.Stage")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		s := totals[name]
		s.Total += d
		s.Calls++
		totals[name] = s
		mu.Unlock()
	}
}

// Reset clears all stage totals.
func Reset() {
	mu.Lock()
	clear(totals)
	mu.Unlock()
}

// Snapshot returns a copy of the current stage totals.
func Snapshot() map[string]Stage {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]Stage, len(totals))
	for k, v := range totals {
		out[k] = v
	}
	return out
}

// TopN formats the N stages with the largest totals.
// Example: "meshing.Batch:42.1ms/8, voxel.Build:20ms/8"
func TopN(n int) string {
	ss := Snapshot()
	type pair struct {
		name  string
		stage Stage
	}
	list := make([]pair, 0, len(ss))
	for k, v := range ss {
		list = append(list, pair{name: k, stage: v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].stage.Total != list[j].stage.Total {
			return list[i].stage.Total > list[j].stage.Total
		}
		return list[i].name < list[j].name
	})
	if n > len(list) {
		n = len(list)
	}
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ms := float64(list[i].stage.Total.Microseconds()) / 1000.0
		parts = append(parts, list[i].name+":"+formatMs(ms)+"/"+itoa(int64(list[i].stage.Calls)))
	}
	return strings.Join(parts, ", ")
}

func formatMs(ms float64) string {
	// keep one decimal for readability
	return trimTrailingZerosF(ms) + "ms"
}

func trimTrailingZerosF(f float64) string {
	whole := int64(f)
	frac := int64((f-float64(whole))*10.0 + 0.0001)
	if frac <= 0 {
		return itoa(whole)
	}
	return itoa(whole) + "." + itoa(frac)
}

func itoa(i int64) string {
	if i == 0 {
		return "0"
	}
	neg := false
	if i < 0 {
		neg = true
		i = -i
	}
	buf := make([]byte, 0, 20)
	for i > 0 {
		buf = append(buf, byte('0'+i%10))
		i /= 10
	}
	for l, r := 0, len(buf)-1; l < r; l, r = l+1, r-1 {
		buf[l], buf[r] = buf[r], buf[l]
	}
	if neg {
		return "-" + string(buf)
	}
	return string(buf)
}

package profiling

import (
	"strings"
	"testing"
	"time"
)

func TestTrackAccumulates(t *testing.T) {
	Reset()
	for i := 0; i < 3; i++ {
		Track("test.stage")()
	}
	s := Snapshot()["test.stage"]
	if s.Calls != 3 {
		t.Fatalf("calls = %d, want 3", s.Calls)
	}
	if s.Mean() > s.Total {
		t.Fatalf("mean %v exceeds total %v", s.Mean(), s.Total)
	}
	Reset()
	if len(Snapshot()) != 0 {
		t.Fatal("Reset left stages behind")
	}
}

func TestTopNOrder(t *testing.T) {
	Reset()
	defer Reset()
	mu.Lock()
	totals["slow"] = Stage{Total: 3 * time.Millisecond, Calls: 2}
	totals["fast"] = Stage{Total: 1500 * time.Microsecond, Calls: 1}
	totals["idle"] = Stage{}
	mu.Unlock()

	got := TopN(2)
	if got != "slow:3ms/2, fast:1.5ms/1" {
		t.Fatalf("TopN(2) = %q", got)
	}
	if n := strings.Count(TopN(10), ","); n != 2 {
		t.Fatalf("TopN(10) listed %d separators, want 2", n)
	}
}

func TestItoa(t *testing.T) {
	for in, want := range map[int64]string{0: "0", 7: "7", -42: "-42", 1234567: "1234567"} {
		if got := itoa(in); got != want {
			t.Errorf("itoa(%d) = %q, want %q", in, got, want)
		}
	}
}

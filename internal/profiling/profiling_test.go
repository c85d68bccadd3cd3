package profiling

import (
	"testing"
	"time"
)

func TestTopNOrdersByDuration(t *testing.T) {
	r := NewRecorder(0)
	r.frameTotals["scene"] = 2100 * time.Microsecond
	r.frameTotals["composite"] = 4200 * time.Microsecond
	r.frameTotals["present"] = 3 * time.Millisecond

	if got, want := r.TopN(2), "composite:4.2ms, present:3ms"; got != want {
		t.Errorf("TopN(2) = %q, want %q", got, want)
	}
	if got := r.TopN(10); got != "composite:4.2ms, present:3ms, scene:2.1ms" {
		t.Errorf("TopN(10) = %q", got)
	}
}

func TestTrackAccumulates(t *testing.T) {
	r := NewRecorder(0)
	for i := 0; i < 3; i++ {
		stop := r.Track("scene")
		stop()
	}
	if _, ok := r.Snapshot()["scene"]; !ok {
		t.Fatalf("Track did not record scene")
	}
	r.EndFrame()
	if len(r.Snapshot()) != 0 {
		t.Errorf("EndFrame did not clear totals")
	}
	if total, slow := r.Frames(); total != 1 || slow != 0 {
		t.Errorf("Frames() = %d, %d, want 1, 0", total, slow)
	}
}

func TestSlowFrameCounted(t *testing.T) {
	r := NewRecorder(time.Millisecond)
	r.frameTotals["composite"] = 5 * time.Millisecond
	r.EndFrame()
	if _, slow := r.Frames(); slow != 1 {
		t.Errorf("slow frames = %d, want 1", slow)
	}
}

package layout

import (
	"testing"

	"github.com/matzehuels/seqline/pkg/diagram"
	"github.com/matzehuels/seqline/pkg/theme"
)

func TestHeightTrackerDefaults(t *testing.T) {
	th := theme.Default()
	tr := NewHeightTracker(th)

	n := node("n1", "A", "B", 0)
	if got := tr.HeightOf(&n); got != th.HeightFor(diagram.NodeEndpoint) {
		t.Errorf("HeightOf unmeasured = %v, want type default %v", got, th.HeightFor(diagram.NodeEndpoint))
	}

	tr.Measure("n1", 90)
	if got := tr.HeightOf(&n); got != 90 {
		t.Errorf("HeightOf measured = %v, want 90", got)
	}
}

func TestHeightTrackerBarrier(t *testing.T) {
	tr := NewHeightTracker(theme.Default())
	tr.Expect([]string{"n1", "n2"})

	if barrier := tr.Measure("n1", 50); barrier {
		t.Error("barrier must not fire while measurements are pending")
	}
	if tr.AllMeasured() {
		t.Error("AllMeasured should be false with n2 pending")
	}

	if barrier := tr.Measure("n2", 60); !barrier {
		t.Error("barrier must fire on the completing measurement")
	}

	// Steady state: further measurements never re-fire the barrier.
	if barrier := tr.Measure("n1", 55); barrier {
		t.Error("barrier is one-shot")
	}
	tr.Expect([]string{"n1", "n2", "n3"})
	if barrier := tr.Measure("n3", 40); barrier {
		t.Error("a new expectation set must not re-arm the barrier")
	}
}

func TestHeightTrackerIgnoresNonPositive(t *testing.T) {
	tr := NewHeightTracker(theme.Default())
	tr.Expect([]string{"n1"})
	if barrier := tr.Measure("n1", 0); barrier {
		t.Error("zero height must be ignored")
	}
	if tr.AllMeasured() {
		t.Error("ignored measurement should not count")
	}
}

func TestHeightTrackerForget(t *testing.T) {
	tr := NewHeightTracker(theme.Default())
	tr.Expect([]string{"n1"})
	tr.Measure("n1", 80)
	tr.Forget("n1")

	n := node("n1", "A", "B", 0)
	if got := tr.HeightOf(&n); got == 80 {
		t.Error("Forget should drop the measurement")
	}
}

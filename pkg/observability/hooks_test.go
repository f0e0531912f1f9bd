package observability

import (
	"context"
	"testing"
	"time"
)

type countingLayoutHooks struct {
	NoopLayoutHooks
	starts, completes int
}

func (c *countingLayoutHooks) OnLayoutStart(context.Context, int) { c.starts++ }
func (c *countingLayoutHooks) OnLayoutComplete(context.Context, int, int, bool, time.Duration) {
	c.completes++
}

func TestDefaultHooksAreNoop(t *testing.T) {
	Reset()
	ctx := context.Background()

	// Must not panic.
	Layout().OnLayoutStart(ctx, 10)
	Layout().OnLayoutComplete(ctx, 10, 3, false, time.Millisecond)
	Drag().OnDragStart(ctx, "node", "n1")
	Drag().OnDragRevert(ctx, "anchor", "a1", "outside threshold")
	Store().OnLoad(ctx, "memory", "doc-1", true)
	Store().OnError(ctx, "redis", "save", context.DeadlineExceeded)
}

func TestSetAndResetHooks(t *testing.T) {
	t.Cleanup(Reset)

	h := &countingLayoutHooks{}
	SetLayoutHooks(h)

	Layout().OnLayoutStart(context.Background(), 5)
	Layout().OnLayoutComplete(context.Background(), 5, 2, false, time.Millisecond)

	if h.starts != 1 || h.completes != 1 {
		t.Errorf("hook counts = %d/%d, want 1/1", h.starts, h.completes)
	}

	Reset()
	Layout().OnLayoutStart(context.Background(), 5)
	if h.starts != 1 {
		t.Error("Reset should restore the no-op hooks")
	}
}

func TestSetNilKeepsCurrent(t *testing.T) {
	t.Cleanup(Reset)

	h := &countingLayoutHooks{}
	SetLayoutHooks(h)
	SetLayoutHooks(nil)

	Layout().OnLayoutStart(context.Background(), 1)
	if h.starts != 1 {
		t.Error("SetLayoutHooks(nil) should keep the registered hooks")
	}
}

package limiter

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiterEnforcesLimit(t *testing.T) {
	l := NewMemory(3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "alice")
		if err != nil || !ok {
			t.Fatalf("request %d: allowed=%v err=%v", i, ok, err)
		}
	}
	if ok, _ := l.Allow(ctx, "alice"); ok {
		t.Error("fourth request allowed")
	}
	// A different client has its own budget.
	if ok, _ := l.Allow(ctx, "bob"); !ok {
		t.Error("other client blocked")
	}
}

func TestMemoryLimiterResetsEachWindow(t *testing.T) {
	l := NewMemory(1)
	now := time.Unix(60, 0)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	if ok, _ := l.Allow(ctx, "alice"); !ok {
		t.Fatal("first request blocked")
	}
	if ok, _ := l.Allow(ctx, "alice"); ok {
		t.Fatal("second request in window allowed")
	}

	now = now.Add(window)
	if ok, _ := l.Allow(ctx, "alice"); !ok {
		t.Error("request after window rollover blocked")
	}
}

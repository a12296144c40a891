package pfreport

import (
	"testing"
	"time"
)

// fakeClock drives a RateLimiter deterministically: sleeping advances time.
type fakeClock struct {
	t     time.Time
	slept []time.Duration
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) sleep(d time.Duration) {
	c.slept = append(c.slept, d)
	c.t = c.t.Add(d)
}

func newTestLimiter(limit int, window time.Duration) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	r := NewRateLimiter(limit, window)
	r.now = clock.now
	r.sleep = clock.sleep
	return r, clock
}

func TestRateLimiterUnderLimit(t *testing.T) {
	r, clock := newTestLimiter(5, time.Minute)
	for i := 0; i < 5; i++ {
		r.Acquire()
	}
	if len(clock.slept) != 0 {
		t.Errorf("Acquire() slept %v while under the limit", clock.slept)
	}
}

func TestRateLimiterBlocksAtLimit(t *testing.T) {
	r, clock := newTestLimiter(2, time.Second)
	r.Acquire()
	clock.t = clock.t.Add(100 * time.Millisecond)
	r.Acquire()
	r.Acquire() // third call must wait for the first to expire

	if len(clock.slept) != 1 {
		t.Fatalf("slept %d times, want 1", len(clock.slept))
	}
	// first call was 100ms in the past, so the wait is 900ms plus margin
	want := 900*time.Millisecond + acquireMargin
	if clock.slept[0] != want {
		t.Errorf("slept %v, want %v", clock.slept[0], want)
	}
	if len(r.stamps) != 2 {
		t.Errorf("stamps after re-prune = %d, want 2", len(r.stamps))
	}
}

func TestRateLimiterExpiredWindowDoesNotBlock(t *testing.T) {
	r, clock := newTestLimiter(1, time.Second)
	r.Acquire()
	clock.t = clock.t.Add(2 * time.Second)
	r.Acquire()
	if len(clock.slept) != 0 {
		t.Errorf("Acquire() slept %v after the window expired", clock.slept)
	}
}

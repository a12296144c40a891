package pfreport

import "time"

// acquireMargin is added to every computed wait so a call never lands
// exactly on the window edge of a strict server-side quota.
const acquireMargin = 50 * time.Millisecond

// RateLimiter bounds outbound calls to at most limit per sliding window.
// It is meant for a single sequential caller and is not safe for
// concurrent use.
type RateLimiter struct {
	limit  int
	window time.Duration

	now   func() time.Time
	sleep func(time.Duration)

	stamps []time.Time // ascending times of recent acquisitions
}

// NewRateLimiter returns a limiter allowing limit calls per window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:  limit,
		window: window,
		now:    time.Now,
		sleep:  time.Sleep,
	}
}

// Acquire blocks until one more call is allowed, then records it.
func (r *RateLimiter) Acquire() {
	r.prune(r.now())
	if len(r.stamps) >= r.limit {
		wait := r.window - r.now().Sub(r.stamps[0]) + acquireMargin
		if wait > 0 {
			r.sleep(wait)
		}
		r.prune(r.now())
	}
	r.stamps = append(r.stamps, r.now())
}

// prune drops timestamps that fell out of the window.
func (r *RateLimiter) prune(now time.Time) {
	keep := r.stamps[:0]
	for _, t := range r.stamps {
		if now.Sub(t) < r.window {
			keep = append(keep, t)
		}
	}
	r.stamps = keep
}

// Package ratelimit throttles state-changing requests per client IP with an
// in-memory sliding window. It is per process.
package ratelimit

import (
	"sync"
	"time"
)

// Result is the outcome of one Allow call.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter int
}

type slidingWindow struct {
	timestamps []time.Time
}

// Store keeps one sliding window per key.
type Store struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*slidingWindow
}

func NewStore(limit int, window time.Duration) *Store {
	return &Store{
		limit:   limit,
		window:  window,
		now:     time.Now,
		buckets: make(map[string]*slidingWindow),
	}
}

// Allow records a request for key when the window has room.
func (s *Store) Allow(key string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sw := s.buckets[key]
	if sw == nil {
		sw = &slidingWindow{}
		s.buckets[key] = sw
	}
	sw.cleanup(now.Add(-s.window))

	if len(sw.timestamps) < s.limit {
		sw.timestamps = append(sw.timestamps, now)
		return Result{
			Allowed:   true,
			Limit:     s.limit,
			Remaining: s.limit - len(sw.timestamps),
			ResetAt:   sw.timestamps[0].Add(s.window),
		}
	}

	resetAt := sw.timestamps[0].Add(s.window)
	retryAfter := int(resetAt.Sub(now).Round(time.Second) / time.Second)
	if retryAfter < 1 {
		retryAfter = 1
	}
	return Result{
		Allowed:    false,
		Limit:      s.limit,
		ResetAt:    resetAt,
		RetryAfter: retryAfter,
	}
}

// Sweep drops windows with no requests left in them.
func (s *Store) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-s.window)
	for key, sw := range s.buckets {
		sw.cleanup(cutoff)
		if len(sw.timestamps) == 0 {
			delete(s.buckets, key)
		}
	}
}

func (sw *slidingWindow) cleanup(cutoff time.Time) {
	i := 0
	for ; i < len(sw.timestamps); i++ {
		if sw.timestamps[i].After(cutoff) {
			break
		}
	}
	sw.timestamps = sw.timestamps[i:]
}

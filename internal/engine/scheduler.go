package engine

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// FrameFunc runs one frame. now is the time the frame fired.
type FrameFunc func(now time.Time)

// Scheduler delivers a requested frame once, at the next display refresh.
// cancel withdraws that request if it has not fired yet; it never affects a
// later request.
type Scheduler interface {
	Request(fn FrameFunc) (cancel func())
}

// ManualScheduler holds at most one pending frame until Fire is called. The
// gui and tui frontends fire it from their own main loops; tests fire it by hand.
type ManualScheduler struct {
	pending FrameFunc
	seq     uint64
}

func (s *ManualScheduler) Request(fn FrameFunc) func() {
	s.seq++
	id := s.seq
	s.pending = fn
	return func() {
		if s.seq == id {
			s.pending = nil
		}
	}
}

func (s *ManualScheduler) Pending() bool { return s.pending != nil }

// Fire runs the pending frame, if any.
func (s *ManualScheduler) Fire(now time.Time) bool {
	fn := s.pending
	s.pending = nil
	if fn == nil {
		return false
	}
	fn(now)
	return true
}

// PacedScheduler fires pending frames at a fixed rate on the goroutine that
// calls Run.
type PacedScheduler struct {
	ManualScheduler
	limiter *rate.Limiter
}

func NewPacedScheduler(fps int) *PacedScheduler {
	if fps <= 0 {
		fps = 60
	}
	return &PacedScheduler{limiter: rate.NewLimiter(rate.Every(time.Second/time.Duration(fps)), 1)}
}

// Run fires frames until none is pending or ctx is done.
func (s *PacedScheduler) Run(ctx context.Context) error {
	for s.Pending() {
		r := s.limiter.Reserve()
		timer := time.NewTimer(r.Delay())
		select {
		case <-ctx.Done():
			timer.Stop()
			r.Cancel()
			return ctx.Err()
		case now := <-timer.C:
			s.Fire(now)
		}
	}
	return nil
}

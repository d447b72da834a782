package ripple

import (
	"sync"
	"time"

	"github.com/zoobzio/clockz"
)

// alarm is the single restartable timer owned by a rate controller. Every
// method must be called with the owner's lock held.
//
// Each arm starts a goroutine that waits on the timer or on its own cancel
// channel. The generation counter lets the owner ignore a fire that raced with
// a later arm or stop.
type alarm struct {
	clock  clockz.Clock
	timer  clockz.Timer
	cancel chan struct{}
	gen    uint64
}

// arm replaces any running timer with one that calls fire after d.
func (a *alarm) arm(d time.Duration, fire func(gen uint64)) {
	a.stop()
	gen := a.gen
	timer := a.clock.NewTimer(d)
	cancel := make(chan struct{})
	a.timer = timer
	a.cancel = cancel

	go func() {
		select {
		case <-timer.C():
			fire(gen)
		case <-cancel:
		}
	}()
}

// stop cancels the running timer, if any, and invalidates outstanding fires.
func (a *alarm) stop() {
	a.gen++
	if a.timer == nil {
		return
	}
	a.timer.Stop()
	close(a.cancel)
	a.timer = nil
	a.cancel = nil
}

// current reports whether gen belongs to the most recent arm.
func (a *alarm) current(gen uint64) bool {
	return a.timer != nil && a.gen == gen
}

// fired clears the timer after a current fire was accepted.
func (a *alarm) fired() {
	a.timer = nil
	a.cancel = nil
}

// sequencer hands out emission tickets and runs emissions strictly in ticket
// order. A ticket is taken under the owner's lock; the emission itself runs
// without it, so watchers may call back into the owner.
type sequencer struct {
	mu      sync.Mutex
	cond    *sync.Cond
	issued  uint64
	serving uint64
}

// ticketLocked reserves the next emission slot. Must be called with the
// owner's lock held.
func (s *sequencer) ticketLocked() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.issued
	s.issued++
	return t
}

// run waits for ticket's turn, then calls fn.
func (s *sequencer) run(ticket uint64, fn func()) {
	s.mu.Lock()
	if s.cond == nil {
		s.cond = sync.NewCond(&s.mu)
	}
	for s.serving != ticket {
		s.cond.Wait()
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.serving++
		s.cond.Broadcast()
		s.mu.Unlock()
	}()
	fn()
}

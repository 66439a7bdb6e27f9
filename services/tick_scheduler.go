// services/tick_scheduler.go
package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
)

const (
	SchedulerModeContinuous = "continuous"
	SchedulerModeCron       = "cron"
)

var ErrSchedulerRunning = errors.New("tick scheduler already running")

// TickStore is the persistence surface the scheduler drives. TickMatch must
// perform a locked read-modify-write so a tick and a concurrent dashboard
// command cannot interleave into a half-applied row.
type TickStore interface {
	ListRunningMatchIDs() ([]string, error)
	TickMatch(id string) error
}

// TickScheduler advances every running match clock by one second, once per
// real second. It runs in one of two modes:
//
//   - continuous: an in-process 1s job for the lifetime of the server
//   - cron: an external scheduler hits the catch-up endpoint periodically
//     and the deficit is replayed tick by tick with ~1s pacing, so matches
//     that finish mid-interval still hit the auto-stop rule and viewers see
//     the clock move during the replay
//
// Both modes produce the same state for the same elapsed real time.
type TickScheduler struct {
	store        TickStore
	clock        clockwork.Clock
	wakeInterval int // seconds between external wakes in cron mode

	started atomic.Bool
	sched   gocron.Scheduler

	mu       sync.Mutex
	lastWake time.Time

	matchLocks sync.Map // match id → *sync.Mutex
}

func NewTickScheduler(store TickStore, wakeIntervalSeconds int) *TickScheduler {
	if wakeIntervalSeconds <= 0 {
		wakeIntervalSeconds = 60
	}
	return &TickScheduler{
		store:        store,
		clock:        clockwork.NewRealClock(),
		wakeInterval: wakeIntervalSeconds,
	}
}

// WithClock swaps the pacing clock. Tests pass a clockwork fake.
func (s *TickScheduler) WithClock(clock clockwork.Clock) *TickScheduler {
	s.clock = clock
	return s
}

// Start launches the continuous 1s job. Starting twice is refused — a second
// concurrent driver would tick every match twice per second.
func (s *TickScheduler) Start() error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrSchedulerRunning
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		s.started.Store(false)
		return err
	}

	if _, err := sched.NewJob(
		gocron.DurationJob(1*time.Second),
		gocron.NewTask(s.TickCycle),
	); err != nil {
		s.started.Store(false)
		return err
	}

	s.sched = sched
	sched.Start()
	log.Println("✅ Tick scheduler running (continuous, 1s)")
	return nil
}

func (s *TickScheduler) Stop() {
	if !s.started.CompareAndSwap(true, false) {
		return
	}
	if s.sched != nil {
		if err := s.sched.Shutdown(); err != nil {
			log.Printf("⚠️ Tick scheduler shutdown: %v", err)
		}
		s.sched = nil
	}
}

// TickCycle runs one sweep: snapshot the running set, then advance each
// match by one second. A running flag toggled mid-cycle takes effect on the
// next cycle. Store errors are logged and the match is retried next cycle —
// at most one second of advancement is deferred, never lost twice.
func (s *TickScheduler) TickCycle() {
	ids, err := s.store.ListRunningMatchIDs()
	if err != nil {
		log.Printf("❌ [TICK] loading running matches: %v", err)
		return
	}

	for _, id := range ids {
		lock := s.lockFor(id)
		lock.Lock()
		if err := s.store.TickMatch(id); err != nil {
			log.Printf("❌ [TICK] match %s: %v", id, err)
		}
		lock.Unlock()
	}
}

// RunCatchup replays the seconds elapsed since the previous wake, one tick
// cycle per second with ~1s pacing between iterations. Called from the
// internal catch-up endpoint in cron mode.
func (s *TickScheduler) RunCatchup(ctx context.Context) int {
	// A catch-up on top of a live continuous driver would double-tick
	// every running match.
	if s.started.Load() {
		log.Println("⚠️ [TICK] catch-up ignored: continuous driver is running")
		return 0
	}

	n := s.catchupTicks(s.clock.Now())

	for i := 0; i < n; i++ {
		s.TickCycle()
		if i == n-1 {
			break
		}
		select {
		case <-ctx.Done():
			log.Printf("⚠️ [TICK] catch-up cancelled after %d/%d ticks", i+1, n)
			return i + 1
		case <-s.clock.After(1 * time.Second):
		}
	}
	return n
}

// catchupTicks computes how many one-second ticks this wake owes: the whole
// seconds since the previous wake, floored at the configured wake interval
// (first wake included) and capped at five intervals so a long outage cannot
// pin the request for minutes. lastWake is claimed up front so an
// overlapping wake does not replay the same window twice.
func (s *TickScheduler) catchupTicks(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.wakeInterval
	if !s.lastWake.IsZero() {
		if elapsed := int(now.Sub(s.lastWake) / time.Second); elapsed > n {
			n = elapsed
		}
	}
	if max := 5 * s.wakeInterval; n > max {
		n = max
	}
	s.lastWake = now
	return n
}

func (s *TickScheduler) lockFor(id string) *sync.Mutex {
	v, _ := s.matchLocks.LoadOrStore(id, &sync.Mutex{})
	return v.(*sync.Mutex)
}

package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scoreboard-system/models"
)

// fakeTickStore applies the engine transform in memory, serializing per call
// the way the real store serializes with row locks.
type fakeTickStore struct {
	mu      sync.Mutex
	matches map[string]*models.Match
	failIDs map[string]bool
}

func newFakeTickStore(matches ...*models.Match) *fakeTickStore {
	f := &fakeTickStore{
		matches: make(map[string]*models.Match),
		failIDs: make(map[string]bool),
	}
	for _, m := range matches {
		f.matches[m.ID] = m
	}
	return f
}

func (f *fakeTickStore) ListRunningMatchIDs() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []string
	for id, m := range f.matches {
		if m.IsTimerRunning && m.IsActive {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeTickStore) TickMatch(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failIDs[id] {
		return errors.New("store unavailable")
	}
	m, ok := f.matches[id]
	if !ok {
		return errors.New("match not found")
	}
	if !m.IsTimerRunning {
		return nil
	}
	AdvanceOneTick(m)
	return nil
}

func runningMatch(id string, current, duration int) *models.Match {
	return &models.Match{
		ID:             id,
		TimerDuration:  duration,
		CurrentTime:    current,
		IsTimerRunning: true,
		CurrentHalf:    1,
		IsActive:       true,
	}
}

func TestTickCycleAdvancesOnlyRunningMatches(t *testing.T) {
	stopped := runningMatch("stopped", 300, 1200)
	stopped.IsTimerRunning = false
	store := newFakeTickStore(
		runningMatch("a", 0, 1200),
		runningMatch("b", 1199, 1200),
		stopped,
	)

	s := NewTickScheduler(store, 60)
	s.TickCycle()

	assert.Equal(t, 1, store.matches["a"].CurrentTime)
	assert.Equal(t, 1200, store.matches["b"].CurrentTime)
	assert.False(t, store.matches["b"].IsTimerRunning, "reaching the cap stops the clock")
	assert.Equal(t, 300, store.matches["stopped"].CurrentTime)
}

func TestTickCycleSurvivesStoreErrors(t *testing.T) {
	store := newFakeTickStore(
		runningMatch("healthy", 10, 1200),
		runningMatch("broken", 10, 1200),
	)
	store.failIDs["broken"] = true

	s := NewTickScheduler(store, 60)
	s.TickCycle()

	// The broken match just misses one second; the healthy one still ticks.
	assert.Equal(t, 11, store.matches["healthy"].CurrentTime)
	assert.Equal(t, 10, store.matches["broken"].CurrentTime)
}

func TestStartIsIdempotent(t *testing.T) {
	store := newFakeTickStore()
	s := NewTickScheduler(store, 60)

	require.NoError(t, s.Start())
	require.ErrorIs(t, s.Start(), ErrSchedulerRunning)

	s.Stop()
	s.Stop() // double stop is a no-op too

	require.NoError(t, s.Start())
	s.Stop()
}

// Continuous mode and coarse-wake catch-up must land on identical state for
// the same elapsed real time.
func TestContinuousAndCatchupConverge(t *testing.T) {
	const wake = 60

	seed := func() []*models.Match {
		return []*models.Match{
			runningMatch("fresh", 0, 1200),
			runningMatch("mid", 700, 1200),
			runningMatch("finishing", 1190, 1200), // stops mid-interval
			runningMatch("short", 55, wake),       // caps exactly during replay
		}
	}

	continuous := newFakeTickStore(seed()...)
	cs := NewTickScheduler(continuous, wake)
	for i := 0; i < wake; i++ {
		cs.TickCycle()
	}

	coarse := newFakeTickStore(seed()...)
	fc := clockwork.NewFakeClock()
	ws := NewTickScheduler(coarse, wake).WithClock(fc)

	done := make(chan int)
	go func() {
		done <- ws.RunCatchup(context.Background())
	}()
	for i := 0; i < wake-1; i++ {
		fc.BlockUntil(1)
		fc.Advance(1 * time.Second)
	}
	require.Equal(t, wake, <-done)

	for id, want := range continuous.matches {
		got := coarse.matches[id]
		assert.Equal(t, want.CurrentTime, got.CurrentTime, "match %s", id)
		assert.Equal(t, want.IsTimerRunning, got.IsTimerRunning, "match %s", id)
	}

	// Spot checks: auto-stop applied mid-replay, not skipped by a jump.
	assert.Equal(t, 1200, coarse.matches["finishing"].CurrentTime)
	assert.False(t, coarse.matches["finishing"].IsTimerRunning)
	assert.Equal(t, wake, coarse.matches["short"].CurrentTime)
	assert.False(t, coarse.matches["short"].IsTimerRunning)
}

func TestCatchupTickCount(t *testing.T) {
	store := newFakeTickStore()
	fc := clockwork.NewFakeClock()
	s := NewTickScheduler(store, 60).WithClock(fc)

	// First wake owes exactly one interval.
	assert.Equal(t, 60, s.catchupTicks(fc.Now()))

	// A late wake owes the real elapsed seconds.
	assert.Equal(t, 90, s.catchupTicks(fc.Now().Add(90*time.Second)))

	// A very late wake is capped at five intervals.
	assert.Equal(t, 300, s.catchupTicks(fc.Now().Add(2*time.Hour)))
}

func TestCatchupCancellation(t *testing.T) {
	store := newFakeTickStore(runningMatch("a", 0, 1200))
	fc := clockwork.NewFakeClock()
	s := NewTickScheduler(store, 60).WithClock(fc)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan int)
	go func() {
		done <- s.RunCatchup(ctx)
	}()

	fc.BlockUntil(1)
	fc.Advance(1 * time.Second)
	fc.BlockUntil(1)
	cancel()

	ticks := <-done
	assert.Less(t, ticks, 60)
	assert.GreaterOrEqual(t, ticks, 2)
	assert.Equal(t, store.matches["a"].CurrentTime, ticks)
}

package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scoreboard-system/models"
)

func newTestMatch(duration int) *models.Match {
	return &models.Match{
		ID:            "m1",
		Team1Name:     "Home",
		Team2Name:     "Away",
		TimerDuration: duration,
		CurrentHalf:   1,
	}
}

func TestAdvanceOneTick(t *testing.T) {
	tests := []struct {
		name        string
		current     int
		duration    int
		running     bool
		wantTime    int
		wantRunning bool
	}{
		{"stopped timer is untouched", 100, 1200, false, 100, false},
		{"running timer gains one second", 100, 1200, true, 101, true},
		{"last second stops the timer", 1199, 1200, true, 1200, false},
		{"at cap while running re-stops", 1200, 1200, true, 1200, false},
		{"zero start", 0, 900, true, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMatch(tt.duration)
			m.CurrentTime = tt.current
			m.IsTimerRunning = tt.running

			AdvanceOneTick(m)

			assert.Equal(t, tt.wantTime, m.CurrentTime)
			assert.Equal(t, tt.wantRunning, m.IsTimerRunning)
		})
	}
}

// k ticks advance the clock by min(k, duration-current) and the running flag
// drops exactly when the cap is reached.
func TestAdvanceOneTickRepeated(t *testing.T) {
	for _, start := range []int{0, 500, 1195} {
		m := newTestMatch(1200)
		m.CurrentTime = start
		m.IsTimerRunning = true

		k := 10
		for i := 0; i < k; i++ {
			AdvanceOneTick(m)
		}

		expected := start + k
		if expected > 1200 {
			expected = 1200
		}
		require.Equal(t, expected, m.CurrentTime, "start=%d", start)
		require.Equal(t, expected < 1200, m.IsTimerRunning, "start=%d", start)
		require.GreaterOrEqual(t, m.CurrentTime, 0)
		require.LessOrEqual(t, m.CurrentTime, m.TimerDuration)
	}
}

func TestSetRunning(t *testing.T) {
	m := newTestMatch(900)
	m.CurrentTime = 900

	// Resuming at the cap is allowed; the next tick re-stops it.
	SetRunning(m, true)
	assert.True(t, m.IsTimerRunning)

	AdvanceOneTick(m)
	assert.Equal(t, 900, m.CurrentTime)
	assert.False(t, m.IsTimerRunning)
}

func TestResetTimerIdempotent(t *testing.T) {
	m := newTestMatch(1800)
	m.CurrentTime = 754
	m.IsTimerRunning = true
	m.CurrentHalf = 2
	m.HalfTimeOffset = 1800

	ResetTimer(m)
	once := *m
	ResetTimer(m)

	assert.Equal(t, once, *m)
	assert.Equal(t, 0, m.CurrentTime)
	assert.False(t, m.IsTimerRunning)
	// Half and offset survive a reset.
	assert.Equal(t, 2, m.CurrentHalf)
	assert.Equal(t, 1800, m.HalfTimeOffset)
}

func TestAdjustTimer(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		delta    int
		expected int
	}{
		{"plus ten", 100, 10, 110},
		{"minus sixty clamps at zero", 30, -60, 0},
		{"plus past cap clamps at duration", 1195, 60, 1200},
		{"minus ten", 100, -10, 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMatch(1200)
			m.CurrentTime = tt.current
			m.IsTimerRunning = true

			AdjustTimer(m, tt.delta)

			assert.Equal(t, tt.expected, m.CurrentTime)
			assert.True(t, m.IsTimerRunning, "adjust must not touch the running flag")
		})
	}
}

func TestSwitchHalf(t *testing.T) {
	m := newTestMatch(2700)
	m.CurrentTime = 2700
	m.IsTimerRunning = true

	SwitchHalf(m, 2)

	assert.Equal(t, 0, m.CurrentTime)
	assert.False(t, m.IsTimerRunning)
	assert.Equal(t, 2, m.CurrentHalf)
	assert.Equal(t, 2700, m.HalfTimeOffset)
	// Second half opens showing the full first half on the clock.
	assert.Equal(t, 2700, DisplayTime(m))

	SwitchHalf(m, 1)

	assert.Equal(t, 0, m.CurrentTime)
	assert.Equal(t, 1, m.CurrentHalf)
	assert.Equal(t, 0, m.HalfTimeOffset)
	assert.Equal(t, 0, DisplayTime(m))
}

func TestDisplayTime(t *testing.T) {
	m := newTestMatch(1200)
	m.CurrentTime = 345
	assert.Equal(t, 345, DisplayTime(m))

	m.CurrentHalf = 2
	m.HalfTimeOffset = 1200
	assert.Equal(t, 1545, DisplayTime(m))
}

func TestClampTime(t *testing.T) {
	assert.Equal(t, 0, ClampTime(-5, 1200))
	assert.Equal(t, 1200, ClampTime(5000, 1200))
	assert.Equal(t, 600, ClampTime(600, 1200))
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0, ClampScore(-1))
	assert.Equal(t, 3, ClampScore(3))
}

// services/timer_engine.go
package services

import "scoreboard-system/models"

// The match timer is a small state machine over four persisted fields:
// current_time, is_timer_running, current_half and half_time_offset.
// Every mutation — whether it comes from the tick sweep or from a dashboard
// command — goes through the transforms below, so the clamp and auto-stop
// rules are written exactly once. All transforms are total: any stored
// state maps to a valid next state.

// AdvanceOneTick moves a running clock forward by one second. The clock is
// capped at TimerDuration; reaching the cap stops the timer. This is the
// only place automatic stop happens. Stopped matches pass through unchanged.
func AdvanceOneTick(m *models.Match) {
	if !m.IsTimerRunning {
		return
	}
	next := m.CurrentTime + 1
	if next >= m.TimerDuration {
		m.CurrentTime = m.TimerDuration
		m.IsTimerRunning = false
		return
	}
	m.CurrentTime = next
}

// SetRunning flips the running flag unconditionally. Resuming a clock that
// already sits at the cap is allowed — the next tick re-stops it.
func SetRunning(m *models.Match, running bool) {
	m.IsTimerRunning = running
}

// ResetTimer zeroes the within-half clock and stops it. Half and offset are
// untouched.
func ResetTimer(m *models.Match) {
	m.CurrentTime = 0
	m.IsTimerRunning = false
}

// AdjustTimer nudges the clock by delta seconds (the dashboard's ±10s/±60s
// buttons), clamped into [0, TimerDuration]. The running flag is untouched.
func AdjustTimer(m *models.Match, delta int) {
	m.CurrentTime = ClampTime(m.CurrentTime+delta, m.TimerDuration)
}

// SwitchHalf resets the within-half clock for the target half. For half 2
// the offset carries the full first half forward, so display time keeps
// counting up without CurrentTime ever exceeding TimerDuration.
func SwitchHalf(m *models.Match, targetHalf int) {
	m.CurrentTime = 0
	m.IsTimerRunning = false
	if targetHalf == 2 {
		m.HalfTimeOffset = m.TimerDuration
	} else {
		m.HalfTimeOffset = 0
	}
	m.CurrentHalf = targetHalf
}

// DisplayTime is the clock value viewers see: within-half seconds, plus the
// half-time offset during the second half.
func DisplayTime(m *models.Match) int {
	if m.CurrentHalf == 2 {
		return m.CurrentTime + m.HalfTimeOffset
	}
	return m.CurrentTime
}

// ClampTime bounds a caller-supplied clock value into [0, duration].
func ClampTime(seconds, duration int) int {
	if seconds < 0 {
		return 0
	}
	if seconds > duration {
		return duration
	}
	return seconds
}

// ClampScore bounds a caller-supplied score at zero.
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	return score
}

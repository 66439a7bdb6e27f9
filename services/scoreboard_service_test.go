package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scoreboard-system/models"
)

func TestFormatDisplayTime(t *testing.T) {
	tests := []struct {
		seconds  int
		expected string
	}{
		{0, "00:00"},
		{59, "00:59"},
		{60, "01:00"},
		{754, "12:34"},
		{2700, "45:00"},
		{5400, "90:00"}, // minutes keep growing past 59
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatDisplayTime(tt.seconds))
	}
}

func overlayMatch() *models.Match {
	return &models.Match{
		ID:            "m1",
		Team1Name:     "Lions",
		Team2Name:     "Tigers United",
		Team1Score:    2,
		Team2Score:    1,
		TimerDuration: 2700,
		CurrentTime:   754,
		CurrentHalf:   1,
		IsVisible:     true,
		IsActive:      true,
		DesignTheme:   models.ThemeClassic,
	}
}

func TestRenderScoreboardVisible(t *testing.T) {
	m := overlayMatch()

	html, err := RenderScoreboard(m)
	require.NoError(t, err)

	assert.Contains(t, html, "12:34")
	assert.Contains(t, html, "LIO")
	assert.Contains(t, html, "TIG")
	assert.Contains(t, html, ">2<")
	assert.Contains(t, html, ">1<")
	assert.Contains(t, html, "1T")
	assert.NotContains(t, html, "animation: pulse", "stopped clock must not pulse")
	assert.NotContains(t, html, "ZgotmplZ", "theme CSS must survive template sanitization")
}

func TestRenderScoreboardSecondHalfUsesOffset(t *testing.T) {
	m := overlayMatch()
	m.CurrentHalf = 2
	m.HalfTimeOffset = 2700
	m.CurrentTime = 0
	m.IsTimerRunning = true

	html, err := RenderScoreboard(m)
	require.NoError(t, err)

	// Second half opens showing the full first half.
	assert.Contains(t, html, "45:00")
	assert.Contains(t, html, "2T")
	assert.Contains(t, html, "animation: pulse")
}

func TestRenderScoreboardHidden(t *testing.T) {
	m := overlayMatch()
	m.IsVisible = false

	html, err := RenderScoreboard(m)
	require.NoError(t, err)

	// Hidden overlay is a blank page that keeps polling.
	assert.NotContains(t, html, "Lions")
	assert.Contains(t, html, "window.location.reload()")
}

func TestRenderScoreboardDarkTheme(t *testing.T) {
	m := overlayMatch()
	m.DesignTheme = models.ThemeDark

	html, err := RenderScoreboard(m)
	require.NoError(t, err)
	assert.Contains(t, html, "#030712")
	assert.NotContains(t, html, "#f97316")
}

func TestRenderScoreboardLogoFallback(t *testing.T) {
	m := overlayMatch()
	logo := "https://cdn.example.com/logos/lions.png"
	m.Team1LogoURL = &logo

	html, err := RenderScoreboard(m)
	require.NoError(t, err)
	assert.Contains(t, html, logo)
	// Team 2 has no logo: abbreviation badge instead.
	assert.Contains(t, html, `team-logo-text">TIG`)
}

func TestMakeMatchSlug(t *testing.T) {
	s := MakeMatchSlug("Динамо Київ", "FC Lions!")
	assert.Regexp(t, `^[a-z0-9-]+-[0-9a-f]{8}$`, s)
	assert.Contains(t, s, "-vs-")

	// Slugs must differ even for identical team names.
	assert.NotEqual(t, MakeMatchSlug("A", "B"), MakeMatchSlug("A", "B"))
}

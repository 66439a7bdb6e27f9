// services/scoreboard_service.go
package services

import (
	"errors"
	"fmt"
	"html/template"
	"log"
	"strings"

	"scoreboard-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ScoreboardService renders the public broadcast overlay. It is polling
// based by contract: the page reloads itself, no push channel.
type ScoreboardService struct {
	DB *gorm.DB
}

func NewScoreboardService(db *gorm.DB) *ScoreboardService {
	return &ScoreboardService{DB: db}
}

// GetScoreboard serves the overlay by ?match_id= (legacy embeds) or by the
// /scoreboard/:slug route. No auth — the overlay is public.
func (s *ScoreboardService) GetScoreboard(c *fiber.Ctx) error {
	var match models.Match
	var err error

	if slugParam := c.Params("slug"); slugParam != "" {
		err = s.DB.First(&match, "slug = ? AND is_active = true", slugParam).Error
	} else if matchID := c.Query("match_id"); matchID != "" {
		err = s.DB.First(&match, "id = ? AND is_active = true", matchID).Error
	} else {
		return c.Status(fiber.StatusBadRequest).Type("html").SendString("<h1>Match ID required</h1>")
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).Type("html").SendString("<h1>Match not found</h1>")
		}
		log.Printf("❌ Scoreboard load failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).Type("html").SendString("<h1>Error loading scoreboard</h1>")
	}

	html, err := RenderScoreboard(&match)
	if err != nil {
		log.Printf("❌ Scoreboard render failed for %s: %v", match.ID, err)
		return c.Status(fiber.StatusInternalServerError).Type("html").SendString("<h1>Error loading scoreboard</h1>")
	}
	return c.Type("html").SendString(html)
}

// FormatDisplayTime renders seconds as MM:SS (minutes keep growing past 99).
func FormatDisplayTime(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// teamAbbrev is the three-letter tag shown next to the logo.
func teamAbbrev(name string) string {
	r := []rune(strings.ToUpper(name))
	if len(r) > 3 {
		r = r[:3]
	}
	return string(r)
}

// template.CSS: gradient values would otherwise be rejected by the
// html/template CSS sanitizer. All values here are our own constants.
type overlayTheme struct {
	Background      template.CSS
	Border          template.CSS
	TimerBackground template.CSS
	TimerColor      template.CSS
	ScoreBackground template.CSS
	ScoreColor      template.CSS
	HalfBackground  template.CSS
}

var overlayThemes = map[string]overlayTheme{
	models.ThemeClassic: {
		Background:      "linear-gradient(135deg, #1f2937, #374151, #1f2937)",
		Border:          "rgba(255, 255, 255, 0.2)",
		TimerBackground: "#f97316",
		TimerColor:      "black",
		ScoreBackground: "white",
		ScoreColor:      "black",
		HalfBackground:  "#2563eb",
	},
	models.ThemeDark: {
		Background:      "linear-gradient(135deg, #030712, #111827, #030712)",
		Border:          "rgba(255, 255, 255, 0.08)",
		TimerBackground: "#111827",
		TimerColor:      "#f9fafb",
		ScoreBackground: "#1f2937",
		ScoreColor:      "#f9fafb",
		HalfBackground:  "#0f172a",
	},
}

type overlayData struct {
	Match        *models.Match
	Theme        overlayTheme
	DisplayTime  string
	Team1Abbrev  string
	Team2Abbrev  string
	Team1LogoURL string
	Team2LogoURL string
	HalfLabel    string
}

// RenderScoreboard builds the overlay HTML for one match. A hidden match
// renders a blank transparent page that keeps polling, so flipping
// visibility on the dashboard brings the overlay back without re-embedding.
func RenderScoreboard(m *models.Match) (string, error) {
	if !m.IsVisible {
		return hiddenOverlayHTML, nil
	}

	theme, ok := overlayThemes[m.DesignTheme]
	if !ok {
		theme = overlayThemes[models.ThemeClassic]
	}

	halfLabel := "1T"
	if m.CurrentHalf == 2 {
		halfLabel = "2T"
	}

	data := overlayData{
		Match:       m,
		Theme:       theme,
		DisplayTime: FormatDisplayTime(DisplayTime(m)),
		Team1Abbrev: teamAbbrev(m.Team1Name),
		Team2Abbrev: teamAbbrev(m.Team2Name),
		HalfLabel:   halfLabel,
	}
	if m.Team1LogoURL != nil {
		data.Team1LogoURL = *m.Team1LogoURL
	}
	if m.Team2LogoURL != nil {
		data.Team2LogoURL = *m.Team2LogoURL
	}

	var buf strings.Builder
	err := overlayTemplate.Execute(&buf, data)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

const hiddenOverlayHTML = `<!DOCTYPE html>
<html lang="uk">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Табло</title>
  <style>body { margin: 0; padding: 0; background: transparent; }</style>
</head>
<body>
  <script>setTimeout(() => window.location.reload(), 1000);</script>
</body>
</html>`

var overlayTemplate = template.Must(template.New("scoreboard").Parse(`<!DOCTYPE html>
<html lang="uk">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Табло</title>
  <style>
    body {
      margin: 0;
      padding: 0;
      background: transparent;
      font-family: 'Arial Black', 'Arial', sans-serif;
      font-weight: bold;
    }
    .scoreboard-container {
      position: fixed;
      top: 24px;
      left: 24px;
      z-index: 9999;
    }
    .scoreboard {
      display: flex;
      align-items: center;
      background: {{.Theme.Background}};
      border-radius: 50px;
      border: 2px solid {{.Theme.Border}};
      box-shadow: 0 20px 40px rgba(0, 0, 0, 0.5);
      overflow: hidden;
      font-size: 14px;
    }
    .timer-section {
      background: {{.Theme.TimerBackground}};
      padding: 8px 16px;
    }
    .timer {
      color: {{.Theme.TimerColor}};
      font-size: 20px;
      font-family: 'Courier New', monospace;
      {{if .Match.IsTimerRunning}}animation: pulse 1s infinite;{{end}}
    }
    .team-section {
      display: flex;
      align-items: center;
      gap: 12px;
      padding: 8px 16px;
    }
    .team-logo {
      width: 32px;
      height: 32px;
      border-radius: 50%;
      background: rgba(255, 255, 255, 0.2);
      display: flex;
      align-items: center;
      justify-content: center;
      overflow: hidden;
    }
    .team-logo img { width: 100%; height: 100%; object-fit: cover; }
    .team-logo-text { color: white; font-size: 10px; }
    .team-name { color: white; font-size: 18px; letter-spacing: 1px; }
    .score-section { display: flex; align-items: center; gap: 4px; padding: 0 12px; }
    .score {
      background: {{.Theme.ScoreBackground}};
      color: {{.Theme.ScoreColor}};
      font-size: 20px;
      padding: 4px 12px;
      border-radius: 4px;
    }
    .score-divider { color: white; font-size: 18px; }
    .half-section { background: {{.Theme.HalfBackground}}; padding: 8px 12px; }
    .half-indicator { color: white; font-size: 14px; }
    @keyframes pulse {
      0%, 100% { opacity: 1; }
      50% { opacity: 0.7; }
    }
  </style>
</head>
<body>
  <div class="scoreboard-container">
    <div class="scoreboard">
      <div class="timer-section">
        <div class="timer">{{.DisplayTime}}</div>
      </div>
      <div class="team-section">
        <div class="team-logo">
          {{if .Team1LogoURL}}<img src="{{.Team1LogoURL}}" alt="{{.Match.Team1Name}}">{{else}}<div class="team-logo-text">{{.Team1Abbrev}}</div>{{end}}
        </div>
        <div class="team-name">{{.Team1Abbrev}}</div>
      </div>
      <div class="score-section">
        <div class="score">{{.Match.Team1Score}}</div>
        <div class="score-divider">-</div>
        <div class="score">{{.Match.Team2Score}}</div>
      </div>
      <div class="team-section">
        <div class="team-name">{{.Team2Abbrev}}</div>
        <div class="team-logo">
          {{if .Team2LogoURL}}<img src="{{.Team2LogoURL}}" alt="{{.Match.Team2Name}}">{{else}}<div class="team-logo-text">{{.Team2Abbrev}}</div>{{end}}
        </div>
      </div>
      <div class="half-section">
        <div class="half-indicator">{{.HalfLabel}}</div>
      </div>
    </div>
  </div>
  <script>
    setInterval(() => { window.location.reload(); }, 3000);
  </script>
</body>
</html>`))

// services/match_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"scoreboard-system/models"
	"scoreboard-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MatchService struct {
	DB *gorm.DB
}

func NewMatchService(db *gorm.DB) *MatchService {
	return &MatchService{DB: db}
}

type createMatchRequest struct {
	Team1Name     string `json:"team1_name"`
	Team2Name     string `json:"team2_name"`
	TimerDuration int    `json:"timer_duration"`
	DesignTheme   string `json:"design_theme"`
}

// CreateMatch creates a scoreboard for the authenticated user. Requires a
// confirmed payment. New matches start 0:0, half 1, clock at zero, stopped.
func (s *MatchService) CreateMatch(c *fiber.Ctx) error {
	user := CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}
	if !user.IsPaymentConfirmed {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "payment must be confirmed before creating a scoreboard"})
	}

	var req createMatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	req.Team1Name = strings.TrimSpace(req.Team1Name)
	req.Team2Name = strings.TrimSpace(req.Team2Name)
	if req.Team1Name == "" || req.Team2Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "team1_name and team2_name are required"})
	}
	if req.TimerDuration < 60 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "timer_duration must be at least 60 seconds"})
	}
	if req.DesignTheme == "" {
		req.DesignTheme = models.ThemeClassic
	}
	if req.DesignTheme != models.ThemeClassic && req.DesignTheme != models.ThemeDark {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "design_theme must be 'classic' or 'dark'"})
	}

	match := &models.Match{
		ID:            uuid.NewString(),
		UserID:        user.ID,
		Slug:          MakeMatchSlug(req.Team1Name, req.Team2Name),
		Team1Name:     req.Team1Name,
		Team2Name:     req.Team2Name,
		TimerDuration: req.TimerDuration,
		CurrentHalf:   1,
		IsVisible:     true,
		IsActive:      true,
		DesignTheme:   req.DesignTheme,
	}

	if err := s.DB.Create(match).Error; err != nil {
		log.Printf("❌ Failed to create match for user %s: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create match"})
	}

	log.Printf("✅ Match created: %s (%s vs %s)", match.ID, match.Team1Name, match.Team2Name)
	return c.Status(fiber.StatusCreated).JSON(match)
}

// MakeMatchSlug builds the public overlay slug, e.g. "lions-vs-tigers-3f2a91c0".
func MakeMatchSlug(team1, team2 string) string {
	return slug.Make(team1+" vs "+team2) + "-" + uuid.NewString()[:8]
}

// GetMyMatches returns the caller's active scoreboards, newest first.
func (s *MatchService) GetMyMatches(c *fiber.Ctx) error {
	user := CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}

	var matches []models.Match
	if err := s.DB.
		Where("user_id = ? AND is_active = true", user.ID).
		Order("created_at DESC").
		Find(&matches).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load matches"})
	}

	return c.JSON(matches)
}

// GetMatch returns a single active match. No auth: the overlay poller uses
// this too. Visibility filtering happens at render time, not here.
func (s *MatchService) GetMatch(c *fiber.Ctx) error {
	var match models.Match
	if err := s.DB.First(&match, "id = ? AND is_active = true", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "match not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load match"})
	}
	return c.JSON(&match)
}

type scoreRequest struct {
	Team1Score int `json:"team1_score"`
	Team2Score int `json:"team2_score"`
}

// UpdateScore overwrites both scores. Values are clamped at zero server-side.
func (s *MatchService) UpdateScore(c *fiber.Ctx) error {
	var req scoreRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	return s.updateOwnedMatch(c, func(m *models.Match) error {
		m.Team1Score = ClampScore(req.Team1Score)
		m.Team2Score = ClampScore(req.Team2Score)
		return nil
	}, "team1_score", "team2_score")
}

type timerRequest struct {
	CurrentTime    int  `json:"current_time"`
	IsTimerRunning bool `json:"is_timer_running"`
}

// UpdateTimer overwrites the clock and running flag. The clock value is
// clamped into [0, timer_duration] before persisting — this path bypasses
// the tick transform, so the bound is enforced here.
func (s *MatchService) UpdateTimer(c *fiber.Ctx) error {
	var req timerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	return s.updateOwnedMatch(c, func(m *models.Match) error {
		m.CurrentTime = ClampTime(req.CurrentTime, m.TimerDuration)
		m.IsTimerRunning = req.IsTimerRunning
		return nil
	}, "current_time", "is_timer_running")
}

// ResetMatchTimer zeroes the within-half clock and stops it.
func (s *MatchService) ResetMatchTimer(c *fiber.Ctx) error {
	return s.updateOwnedMatch(c, func(m *models.Match) error {
		ResetTimer(m)
		return nil
	}, "current_time", "is_timer_running")
}

type adjustRequest struct {
	DeltaSeconds int `json:"delta_seconds"`
}

// AdjustMatchTimer nudges the clock by a signed delta (±10s/±60s buttons),
// clamped into [0, timer_duration].
func (s *MatchService) AdjustMatchTimer(c *fiber.Ctx) error {
	var req adjustRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	return s.updateOwnedMatch(c, func(m *models.Match) error {
		AdjustTimer(m, req.DeltaSeconds)
		return nil
	}, "current_time")
}

type halfRequest struct {
	CurrentHalf    int  `json:"current_half"`
	CurrentTime    int  `json:"current_time"`
	HalfTimeOffset int  `json:"half_time_offset"`
	IsTimerRunning bool `json:"is_timer_running"`
}

// UpdateHalf switches the match to the requested half. The wire body still
// carries the dashboard's precomputed fields for compatibility, but the
// state is recomputed server-side through the half-switch transform.
func (s *MatchService) UpdateHalf(c *fiber.Ctx) error {
	var req halfRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.CurrentHalf != 1 && req.CurrentHalf != 2 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "current_half must be 1 or 2"})
	}

	return s.updateOwnedMatch(c, func(m *models.Match) error {
		SwitchHalf(m, req.CurrentHalf)
		return nil
	}, "current_half", "current_time", "half_time_offset", "is_timer_running")
}

type visibilityRequest struct {
	IsVisible bool `json:"is_visible"`
}

func (s *MatchService) UpdateVisibility(c *fiber.Ctx) error {
	var req visibilityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	return s.updateOwnedMatch(c, func(m *models.Match) error {
		m.IsVisible = req.IsVisible
		return nil
	}, "is_visible")
}

type teamRequest struct {
	Team1Name    *string `json:"team1_name"`
	Team2Name    *string `json:"team2_name"`
	Team1LogoURL *string `json:"team1_logo_url"`
	Team2LogoURL *string `json:"team2_logo_url"`
}

// UpdateTeam updates team names and logos. Accepts JSON with the whitelisted
// fields, or multipart with team1_logo/team2_logo image files which are
// uploaded to R2 and stored as URLs.
func (s *MatchService) UpdateTeam(c *fiber.Ctx) error {
	var req teamRequest

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		if v := strings.TrimSpace(c.FormValue("team1_name")); v != "" {
			req.Team1Name = &v
		}
		if v := strings.TrimSpace(c.FormValue("team2_name")); v != "" {
			req.Team2Name = &v
		}
		for i, field := range []string{"team1_logo", "team2_logo"} {
			logo, err := c.FormFile(field)
			if err != nil || logo.Size == 0 {
				continue
			}
			ext := filepath.Ext(logo.Filename)
			if ext == "" {
				ext = ".png"
			}
			key := "logos/" + uuid.NewString() + ext
			url, err := utils.UploadFileToR2(logo, key)
			if err != nil {
				log.Printf("❌ Failed to upload %s: %v", field, err)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fmt.Sprintf("failed to upload %s", field)})
			}
			if i == 0 {
				req.Team1LogoURL = &url
			} else {
				req.Team2LogoURL = &url
			}
		}
	} else if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	var columns []string
	if req.Team1Name != nil {
		columns = append(columns, "team1_name")
	}
	if req.Team2Name != nil {
		columns = append(columns, "team2_name")
	}
	if req.Team1LogoURL != nil {
		columns = append(columns, "team1_logo_url")
	}
	if req.Team2LogoURL != nil {
		columns = append(columns, "team2_logo_url")
	}
	if len(columns) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no fields to update"})
	}

	return s.updateOwnedMatch(c, func(m *models.Match) error {
		if req.Team1Name != nil {
			m.Team1Name = *req.Team1Name
		}
		if req.Team2Name != nil {
			m.Team2Name = *req.Team2Name
		}
		if req.Team1LogoURL != nil {
			m.Team1LogoURL = req.Team1LogoURL
		}
		if req.Team2LogoURL != nil {
			m.Team2LogoURL = req.Team2LogoURL
		}
		return nil
	}, columns...)
}

type settingsRequest struct {
	TimerDuration int `json:"timer_duration"`
}

// UpdateSettings changes the half length, even mid-match. The within-half
// clock is re-clamped so it never exceeds the new duration.
func (s *MatchService) UpdateSettings(c *fiber.Ctx) error {
	var req settingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.TimerDuration < 60 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "timer_duration must be at least 60 seconds"})
	}

	return s.updateOwnedMatch(c, func(m *models.Match) error {
		m.TimerDuration = req.TimerDuration
		m.CurrentTime = ClampTime(m.CurrentTime, m.TimerDuration)
		return nil
	}, "timer_duration", "current_time")
}

// updateOwnedMatch runs apply under a SELECT ... FOR UPDATE transaction so a
// control command and a concurrent tick for the same match are linearized:
// no half-applied rows. Only the named columns are written back.
func (s *MatchService) updateOwnedMatch(c *fiber.Ctx, apply func(*models.Match) error, columns ...string) error {
	user := CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}
	matchID := c.Params("id")

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var match models.Match
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&match, "id = ? AND is_active = true", matchID).Error; err != nil {
			return err
		}
		if match.UserID != user.ID {
			return errNotOwner
		}
		if err := apply(&match); err != nil {
			return err
		}
		return tx.Model(&models.Match{}).
			Where("id = ?", match.ID).
			Select(columns).
			Updates(&match).Error
	})

	switch {
	case err == nil:
		return c.JSON(fiber.Map{"success": true})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "match not found"})
	case errors.Is(err, errNotOwner):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "not your match"})
	default:
		log.Printf("❌ Match update failed (%s): %v", matchID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update match"})
	}
}

var errNotOwner = errors.New("caller does not own this match")

// ListRunningMatchIDs snapshots the matches the tick scheduler must advance
// this cycle.
func (s *MatchService) ListRunningMatchIDs() ([]string, error) {
	var ids []string
	err := s.DB.Model(&models.Match{}).
		Where("is_timer_running = true AND is_active = true").
		Pluck("id", &ids).Error
	return ids, err
}

// TickMatch advances one match by one second under a row lock. A running
// flag flipped after the cycle snapshot makes this a no-op — the toggle
// takes effect on the next cycle, never retroactively.
func (s *MatchService) TickMatch(id string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var match models.Match
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&match, "id = ? AND is_active = true", id).Error; err != nil {
			return err
		}
		if !match.IsTimerRunning {
			return nil
		}
		AdvanceOneTick(&match)
		return tx.Model(&models.Match{}).
			Where("id = ?", match.ID).
			Select("current_time", "is_timer_running").
			Updates(&match).Error
	})
}

// GetAllMatches is the admin list: every active match joined with its owner.
func (s *MatchService) GetAllMatches(c *fiber.Ctx) error {
	var rows []models.MatchWithOwner
	err := s.DB.Model(&models.Match{}).
		Select("matches.*, users.name AS user_name, users.email AS user_email").
		Joins("JOIN users ON users.id = matches.user_id").
		Where("matches.is_active = true").
		Order("matches.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load matches"})
	}
	return c.JSON(rows)
}

// DeleteMatch soft-deletes: the row stays for history, the overlay and all
// lists stop seeing it.
func (s *MatchService) DeleteMatch(c *fiber.Ctx) error {
	res := s.DB.Model(&models.Match{}).
		Where("id = ? AND is_active = true", c.Params("id")).
		Update("is_active", false)
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete match"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "match not found"})
	}
	return c.JSON(fiber.Map{"success": true})
}

// services/admin_service.go
package services

import (
	"crypto/subtle"
	"log"
	"os"
	"time"

	"scoreboard-system/models"

	"github.com/go-co-op/gocron/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AdminSessionCookieName = "admin_session_token"
	adminSessionTTL        = 24 * time.Hour
)

// AdminService handles the admin panel's cookie auth. Credentials come from
// env; sessions live in the database so they survive restarts.
type AdminService struct {
	DB            *gorm.DB
	adminEmail    string
	adminPassword string
}

func NewAdminService(db *gorm.DB) *AdminService {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("❌ ADMIN_EMAIL and ADMIN_PASSWORD environment variables are required")
	}
	return &AdminService{DB: db, adminEmail: email, adminPassword: password}
}

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login validates the admin credentials and issues a 24h DB-backed session.
func (s *AdminService) Login(c *fiber.Ctx) error {
	var req adminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	emailOK := subtle.ConstantTimeCompare([]byte(req.Email), []byte(s.adminEmail)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.adminPassword)) == 1
	if !emailOK || !passwordOK {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
	}

	s.CleanExpiredSessions()

	session := &models.AdminSession{
		ID:           uuid.NewString(),
		AdminEmail:   req.Email,
		SessionToken: uuid.NewString(),
		ExpiresAt:    time.Now().Add(adminSessionTTL),
	}
	if err := s.DB.Create(session).Error; err != nil {
		log.Printf("❌ Failed to create admin session: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "login failed"})
	}

	c.Cookie(&fiber.Cookie{
		Name:     AdminSessionCookieName,
		Value:    session.SessionToken,
		Path:     "/",
		MaxAge:   int(adminSessionTTL.Seconds()),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
	})

	log.Printf("✅ Admin login: %s", req.Email)
	return c.JSON(fiber.Map{"success": true})
}

// Check is a cheap authenticated ping for the admin SPA.
func (s *AdminService) Check(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "authenticated": true})
}

// Logout deletes the session row and clears the cookie.
func (s *AdminService) Logout(c *fiber.Ctx) error {
	if token := c.Cookies(AdminSessionCookieName); token != "" {
		if err := s.DB.Delete(&models.AdminSession{}, "session_token = ?", token).Error; err != nil {
			log.Printf("⚠️ Admin session delete failed: %v", err)
		}
	}
	c.Cookie(&fiber.Cookie{
		Name:     AdminSessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
	})
	return c.JSON(fiber.Map{"success": true})
}

// ValidateSession resolves a cookie token to the admin email, or "" when the
// token is unknown or expired.
func (s *AdminService) ValidateSession(token string) string {
	var session models.AdminSession
	err := s.DB.First(&session, "session_token = ? AND expires_at > ?", token, time.Now()).Error
	if err != nil {
		return ""
	}
	return session.AdminEmail
}

// CleanExpiredSessions removes stale session rows.
func (s *AdminService) CleanExpiredSessions() {
	res := s.DB.Delete(&models.AdminSession{}, "expires_at <= ?", time.Now())
	if res.Error != nil {
		log.Printf("⚠️ Admin session cleanup failed: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("🧹 Removed %d expired admin session(s)", res.RowsAffected)
	}
}

// StartSessionCleanup runs the cleanup every minute for the process lifetime.
func (s *AdminService) StartSessionCleanup() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(s.CleanExpiredSessions),
	)
}

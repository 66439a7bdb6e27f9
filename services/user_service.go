// services/user_service.go
package services

import (
	"errors"
	"log"
	"time"

	"scoreboard-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const SessionCookieName = "session_token"

type UserService struct {
	DB       *gorm.DB
	Identity *IdentityClient
}

func NewUserService(db *gorm.DB, identity *IdentityClient) *UserService {
	return &UserService{DB: db, Identity: identity}
}

// CurrentUser reads the local user the auth middleware attached to the
// request. Nil when the request is unauthenticated.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}

// GetOAuthRedirectURL starts the login flow against the identity service.
func (s *UserService) GetOAuthRedirectURL(c *fiber.Ctx) error {
	redirectURL, err := s.Identity.GetOAuthRedirectURL("google")
	if err != nil {
		log.Printf("❌ OAuth redirect URL failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "identity service unavailable"})
	}
	return c.JSON(fiber.Map{"redirect_url": redirectURL})
}

type sessionRequest struct {
	Code string `json:"code"`
}

// CreateSession exchanges the OAuth callback code for a session token and
// sets the 60-day session cookie.
func (s *UserService) CreateSession(c *fiber.Ctx) error {
	var req sessionRequest
	if err := c.BodyParser(&req); err != nil || req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no authorization code provided"})
	}

	token, err := s.Identity.ExchangeCodeForSessionToken(req.Code)
	if err != nil {
		log.Printf("❌ Session exchange failed: %v", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "could not establish session"})
	}

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   60 * 24 * 60 * 60, // 60 days
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
	})
	return c.JSON(fiber.Map{"success": true})
}

// GetMe returns the caller's local user row (fresh-upserted by the auth
// middleware on every authenticated request).
func (s *UserService) GetMe(c *fiber.Ctx) error {
	user := CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}
	return c.JSON(user)
}

// Logout invalidates the identity-service session and clears the cookie.
func (s *UserService) Logout(c *fiber.Ctx) error {
	if token := c.Cookies(SessionCookieName); token != "" {
		if err := s.Identity.DeleteSession(token); err != nil {
			log.Printf("⚠️ Session delete failed: %v", err)
		}
	}
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
	})
	return c.JSON(fiber.Map{"success": true})
}

// UpsertFromProfile creates or refreshes the local snapshot for an identity
// service profile. The payment gate is local state and is never overwritten.
func (s *UserService) UpsertFromProfile(profile *models.RemoteProfile) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, "external_user_id = ?", profile.ID).Error
	switch {
	case err == nil:
		if user.Email != profile.Email || user.Name != profile.Name {
			user.Email = profile.Email
			user.Name = profile.Name
			if err := s.DB.Model(&user).Select("email", "name").Updates(&user).Error; err != nil {
				return nil, err
			}
		}
		return &user, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			ID:             uuid.NewString(),
			ExternalUserID: profile.ID,
			Email:          profile.Email,
			Name:           profile.Name,
		}
		if user.Name == "" {
			user.Name = profile.Email
		}
		if err := s.DB.Create(&user).Error; err != nil {
			return nil, err
		}
		log.Printf("✅ New user registered: %s (%s)", user.Name, user.ExternalUserID)
		return &user, nil
	default:
		return nil, err
	}
}

// GetAllUsers is the admin user list, newest first.
func (s *UserService) GetAllUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := s.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load users"})
	}
	return c.JSON(users)
}

type toggleRequest struct {
	Activate bool `json:"activate"`
}

// ToggleUserActivation flips the payment-confirmed gate for a user (admin
// manual override, e.g. cash payments outside the payment records).
func (s *UserService) ToggleUserActivation(c *fiber.Ctx) error {
	var req toggleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	res := s.DB.Model(&models.User{}).
		Where("id = ?", c.Params("id")).
		Updates(map[string]interface{}{
			"is_payment_confirmed": req.Activate,
			"updated_at":           time.Now(),
		})
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update user"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
	}
	return c.JSON(fiber.Map{"success": true})
}

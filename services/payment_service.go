// services/payment_service.go
package services

import (
	"errors"
	"log"
	"os"
	"strconv"

	"scoreboard-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultPaymentAmount = 100

type PaymentService struct {
	DB     *gorm.DB
	Amount float64
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	amount := float64(defaultPaymentAmount)
	if v := os.Getenv("PAYMENT_AMOUNT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			amount = f
		}
	}
	return &PaymentService{DB: db, Amount: amount}
}

// CreatePayment opens a pending payment for the caller. Payments are manual:
// the user pays offline and an admin confirms the record.
func (s *PaymentService) CreatePayment(c *fiber.Ctx) error {
	user := CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}

	payment := &models.Payment{
		ID:     uuid.NewString(),
		UserID: user.ID,
		Amount: s.Amount,
		Status: models.PaymentPending,
	}
	if err := s.DB.Create(payment).Error; err != nil {
		log.Printf("❌ Failed to create payment for user %s: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create payment"})
	}
	return c.Status(fiber.StatusCreated).JSON(payment)
}

// GetMyPayments lists the caller's payments, newest first.
func (s *PaymentService) GetMyPayments(c *fiber.Ctx) error {
	user := CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}

	var payments []models.Payment
	if err := s.DB.Where("user_id = ?", user.ID).Order("created_at DESC").Find(&payments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load payments"})
	}
	return c.JSON(payments)
}

// GetAllPayments is the admin view: every payment joined with payer info.
func (s *PaymentService) GetAllPayments(c *fiber.Ctx) error {
	var rows []models.PaymentWithUser
	err := s.DB.Model(&models.Payment{}).
		Select("payments.*, users.name AS user_name, users.email AS user_email").
		Joins("JOIN users ON users.id = payments.user_id").
		Order("payments.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load payments"})
	}
	return c.JSON(rows)
}

// ConfirmPayment marks a payment confirmed and unlocks match creation for
// its user. Both writes happen in one transaction: a confirmed payment with
// a still-locked user would strand the account.
func (s *PaymentService) ConfirmPayment(c *fiber.Ctx) error {
	adminEmail, _ := c.Locals("admin_email").(string)

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.First(&payment, "id = ?", c.Params("id")).Error; err != nil {
			return err
		}

		payment.Status = models.PaymentConfirmed
		payment.ConfirmedByAdminID = &adminEmail
		if err := tx.Model(&payment).Select("status", "confirmed_by_admin_id").Updates(&payment).Error; err != nil {
			return err
		}

		return tx.Model(&models.User{}).
			Where("id = ?", payment.UserID).
			Update("is_payment_confirmed", true).Error
	})

	switch {
	case err == nil:
		log.Printf("✅ Payment %s confirmed by %s", c.Params("id"), adminEmail)
		return c.JSON(fiber.Map{"success": true})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "payment not found"})
	default:
		log.Printf("❌ Payment confirmation failed (%s): %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to confirm payment"})
	}
}

// RejectPayment marks a payment rejected without touching the user gate.
func (s *PaymentService) RejectPayment(c *fiber.Ctx) error {
	res := s.DB.Model(&models.Payment{}).
		Where("id = ? AND status = ?", c.Params("id"), models.PaymentPending).
		Update("status", models.PaymentRejected)
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to reject payment"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "pending payment not found"})
	}
	return c.JSON(fiber.Map{"success": true})
}

package models

const (
	PaymentPending   = "pending"
	PaymentConfirmed = "confirmed"
	PaymentRejected  = "rejected"
)

// Payment is a manual payment record. Confirmation is an admin action that
// also flips the owning user's IsPaymentConfirmed flag.
type Payment struct {
	ID     string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID string  `gorm:"index;not null" json:"user_id"`
	Amount float64 `gorm:"not null" json:"amount"`
	Status string  `gorm:"type:varchar(16);default:'pending';check:status IN ('pending','confirmed','rejected')" json:"status"`

	PaymentMethod      *string `json:"payment_method,omitempty"`
	TransactionID      *string `json:"transaction_id,omitempty"`
	ConfirmedByAdminID *string `json:"confirmed_by_admin_id,omitempty"`

	Timestamps
}

// PaymentWithUser is the admin list view row (payment joined with payer info).
type PaymentWithUser struct {
	Payment
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

package models

import "time"

// User is a local snapshot of an account from the external identity service.
// IsPaymentConfirmed is the local gate that unlocks match creation; it is
// flipped by the admin payment-confirmation flow, never by the sync worker.
type User struct {
	ID             string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex;not null" json:"external_user_id"` // identity service's user id
	Email          string `gorm:"index;not null" json:"email"`
	Name           string `gorm:"not null" json:"name"`

	IsAdmin            bool `gorm:"default:false" json:"is_admin"`
	IsPaymentConfirmed bool `gorm:"default:false" json:"is_payment_confirmed"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// RemoteProfile matches the JSON the identity service returns for a profile.
// Used by the sync worker and the /users/me upsert.
type RemoteProfile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
}

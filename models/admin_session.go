package models

import "time"

// AdminSession backs the admin panel's cookie auth. Sessions live 24h;
// expired rows are swept by the scheduler's cleanup job and on login.
type AdminSession struct {
	ID           string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	AdminEmail   string    `gorm:"index;not null" json:"admin_email"`
	SessionToken string    `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt    time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}

package models

const (
	ThemeClassic = "classic"
	ThemeDark    = "dark"
)

// Standard half lengths offered by the dashboard (seconds).
var AllowedTimerDurations = []int{900, 1200, 1800, 2700, 3600}

// Match is one scoreboard instance: two teams, a score line and the
// server-driven half clock. Soft-deleted via IsActive, never hard-deleted.
type Match struct {
	ID     string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID string `gorm:"index;not null" json:"user_id"`
	Slug   string `gorm:"uniqueIndex;not null" json:"slug"` // public overlay URL part

	Team1Name    string  `gorm:"not null" json:"team1_name"`
	Team2Name    string  `gorm:"not null" json:"team2_name"`
	Team1LogoURL *string `json:"team1_logo_url,omitempty"`
	Team2LogoURL *string `json:"team2_logo_url,omitempty"`

	Team1Score int `gorm:"default:0" json:"team1_score"`
	Team2Score int `gorm:"default:0" json:"team2_score"`

	// Timer state. CurrentTime is seconds elapsed within the current half,
	// always in [0, TimerDuration]. HalfTimeOffset is added to CurrentTime
	// when rendering display time in half 2.
	TimerDuration  int  `gorm:"not null" json:"timer_duration"`
	CurrentTime    int  `gorm:"column:current_time;default:0" json:"current_time"`
	IsTimerRunning bool `gorm:"default:false" json:"is_timer_running"`
	CurrentHalf    int  `gorm:"default:1" json:"current_half"`
	HalfTimeOffset int  `gorm:"default:0" json:"half_time_offset"`

	IsVisible   bool   `gorm:"default:true" json:"is_visible"`
	IsActive    bool   `gorm:"default:true;index" json:"is_active"`
	DesignTheme string `gorm:"type:varchar(16);default:'classic';check:design_theme IN ('classic','dark')" json:"design_theme"`

	Timestamps
}

// MatchWithOwner is the admin list view row (match joined with owner info).
type MatchWithOwner struct {
	Match
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

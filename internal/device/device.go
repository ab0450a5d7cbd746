package device

import (
	"time"
)

// DeviceRegistration maps a user to one push delivery target. Token values
// are unique across users at rest; at most one row may be active per user
// at any time, and a token may migrate ownership when a device is handed
// off.
type DeviceRegistration struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	UserID      int64     `json:"user_id" gorm:"column:user_id;not null"`
	Token       string    `json:"token" gorm:"column:token;uniqueIndex;not null"`
	Platform    string    `json:"platform" gorm:"column:platform"`
	DeviceModel string    `json:"device_model" gorm:"column:device_model"`
	AppVersion  string    `json:"app_version" gorm:"column:app_version"`
	IsActive    bool      `json:"is_active" gorm:"column:is_active;default:true"`
	LastUsedAt  time.Time `json:"last_used_at" gorm:"column:last_used_at"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (DeviceRegistration) TableName() string {
	return "device_registrations"
}

// Metadata is the device description sent along with a registration.
type Metadata struct {
	Platform    string `json:"platform"`
	DeviceModel string `json:"device_model"`
	AppVersion  string `json:"app_version"`
}

type RepositoryAPI interface {
	// FindByToken returns nil without error when the token is unknown.
	FindByToken(token string) (*DeviceRegistration, error)
	DeactivateAllForUser(userID int64) error
	Create(reg *DeviceRegistration) error
	Save(reg *DeviceRegistration) error
	ActiveTokensForUsers(userIDs []int64) (map[int64][]string, error)
}

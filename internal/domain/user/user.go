package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email       string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password    string    `gorm:"not null;column:password" json:"-"`
	FirstName   string    `gorm:"not null;column:first_name" json:"first_name"`
	LastName    string    `gorm:"not null;column:last_name" json:"last_name"`
	AvatarColor string    `gorm:"column:avatar_color" json:"avatar_color"`

	// AvatarDataURL holds the rendered initials avatar as a data: URL.
	AvatarDataURL string `gorm:"column:avatar_data_url;type:text" json:"avatar_data_url"`

	PreferredTheme string `gorm:"column:preferred_theme" json:"preferred_theme"`

	// WebhookURL, when set, receives streak milestone events.
	WebhookURL string `gorm:"column:webhook_url" json:"webhook_url,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string { return "user" }

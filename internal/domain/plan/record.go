package plan

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PlanDocument is the durable row backing one user's plan state. The payload
// stays a single JSON column so the whole document is loaded and replaced
// wholesale, never patched field by field.
type PlanDocument struct {
	UserID    uuid.UUID      `gorm:"type:uuid;primaryKey" json:"user_id"`
	Doc       datatypes.JSON `gorm:"column:doc;type:jsonb;not null" json:"doc"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (PlanDocument) TableName() string { return "plan_document" }

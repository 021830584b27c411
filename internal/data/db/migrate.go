package db

import (
	types "github.com/yungbote/plancast-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Identity + auth
		&types.User{},
		&types.UserToken{},

		// Plan documents
		&types.PlanDocument{},
	)
}

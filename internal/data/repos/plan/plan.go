package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/plancast-backend/internal/domain"
	"github.com/yungbote/plancast-backend/internal/platform/logger"
)

// pgUndefinedTable is the SQLSTATE for "relation does not exist". A missing
// table means "no data yet", never a hard failure for the caller.
const pgUndefinedTable = "42P01"

type PlanRepo interface {
	// Get returns the stored document for a user, or found=false when the
	// row (or the whole table) is absent.
	Get(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (doc types.Document, found bool, err error)
	// Upsert replaces the user's document wholesale. Last write wins.
	Upsert(ctx context.Context, tx *gorm.DB, userID uuid.UUID, doc types.Document) error
	Delete(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
}

type planRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlanRepo(db *gorm.DB, baseLog *logger.Logger) PlanRepo {
	repoLog := baseLog.With("repo", "PlanRepo")
	return &planRepo{db: db, log: repoLog}
}

func (pr *planRepo) Get(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (types.Document, bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var row types.PlanDocument
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || isUndefinedTable(err) {
			return types.Document{}, false, nil
		}
		return types.Document{}, false, err
	}

	var doc types.Document
	if err := json.Unmarshal(row.Doc, &doc); err != nil {
		return types.Document{}, false, fmt.Errorf("corrupt plan document for user: %w", err)
	}
	doc.Normalize()
	return doc, true, nil
}

func (pr *planRepo) Upsert(ctx context.Context, tx *gorm.DB, userID uuid.UUID, doc types.Document) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	row := types.PlanDocument{
		UserID:    userID,
		Doc:       datatypes.JSON(raw),
		UpdatedAt: time.Now().UTC(),
	}

	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"doc", "updated_at"}),
		}).
		Create(&row).Error
}

func (pr *planRepo) Delete(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&types.PlanDocument{}).Error
	if err != nil && isUndefinedTable(err) {
		return nil
	}
	return err
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable
}

package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pulsefit/pulsefit-backend/internal/logger"
	"github.com/pulsefit/pulsefit-backend/internal/types"
)

type AICallLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, logs []*types.AICallLog) error
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]types.AICallLog, error)
}

type aiCallLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAICallLogRepo(db *gorm.DB, baseLog *logger.Logger) AICallLogRepo {
	return &aiCallLogRepo{db: db, log: baseLog.With("repo", "AICallLogRepo")}
}

func (r *aiCallLogRepo) useDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *aiCallLogRepo) Create(ctx context.Context, tx *gorm.DB, logs []*types.AICallLog) error {
	if len(logs) == 0 {
		return nil
	}
	db := r.useDB(tx).WithContext(ctx)
	if err := db.Create(&logs).Error; err != nil {
		r.log.Error("failed to create ai call logs", "count", len(logs), "error", err)
		return err
	}
	return nil
}

func (r *aiCallLogRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]types.AICallLog, error) {
	db := r.useDB(tx).WithContext(ctx)
	if limit <= 0 {
		limit = 50
	}
	var logs []types.AICallLog
	err := db.Order("created_at DESC").Limit(limit).
		Find(&logs, "user_id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

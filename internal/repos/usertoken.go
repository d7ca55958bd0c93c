package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pulsefit/pulsefit-backend/internal/logger"
	"github.com/pulsefit/pulsefit-backend/internal/types"
)

type UserTokenRepo interface {
	Create(ctx context.Context, tx *gorm.DB, tokens []*types.UserToken) error
	GetByRefreshToken(ctx context.Context, tx *gorm.DB, refreshToken string) (*types.UserToken, error)
	DeleteByRefreshToken(ctx context.Context, tx *gorm.DB, refreshToken string) error
	DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
	DeleteExpired(ctx context.Context, tx *gorm.DB) error
}

type userTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return &userTokenRepo{db: db, log: baseLog.With("repo", "UserTokenRepo")}
}

func (r *userTokenRepo) useDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *userTokenRepo) Create(ctx context.Context, tx *gorm.DB, tokens []*types.UserToken) error {
	if len(tokens) == 0 {
		return nil
	}
	db := r.useDB(tx).WithContext(ctx)
	if err := db.Create(&tokens).Error; err != nil {
		r.log.Error("failed to create user tokens", "count", len(tokens), "error", err)
		return err
	}
	return nil
}

func (r *userTokenRepo) GetByRefreshToken(ctx context.Context, tx *gorm.DB, refreshToken string) (*types.UserToken, error) {
	db := r.useDB(tx).WithContext(ctx)
	var token types.UserToken
	if err := db.First(&token, "refresh_token = ?", refreshToken).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *userTokenRepo) DeleteByRefreshToken(ctx context.Context, tx *gorm.DB, refreshToken string) error {
	db := r.useDB(tx).WithContext(ctx)
	return db.Delete(&types.UserToken{}, "refresh_token = ?", refreshToken).Error
}

func (r *userTokenRepo) DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	db := r.useDB(tx).WithContext(ctx)
	return db.Delete(&types.UserToken{}, "user_id = ?", userID).Error
}

func (r *userTokenRepo) DeleteExpired(ctx context.Context, tx *gorm.DB) error {
	db := r.useDB(tx).WithContext(ctx)
	return db.Delete(&types.UserToken{}, "expires_at < CURRENT_TIMESTAMP").Error
}

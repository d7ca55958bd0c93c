package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pulsefit/pulsefit-backend/internal/logger"
	"github.com/pulsefit/pulsefit-backend/internal/repos"
	"github.com/pulsefit/pulsefit-backend/internal/svcerr"
	"github.com/pulsefit/pulsefit-backend/internal/types"
	"github.com/pulsefit/pulsefit-backend/internal/utils"
)

type AuthResult struct {
	User         *types.User `json:"user"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresAt    time.Time   `json:"expires_at"`
}

type AuthService interface {
	Register(ctx context.Context, email, password, fullName string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, refreshToken string) error
	ParseAccessToken(tokenString string) (uuid.UUID, error)
}

type authService struct {
	db            *gorm.DB
	userRepo      repos.UserRepo
	tokenRepo     repos.UserTokenRepo
	jwtSecret     []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	signingMethod jwt.SigningMethod
	log           *logger.Logger
}

func NewAuthService(db *gorm.DB, userRepo repos.UserRepo, tokenRepo repos.UserTokenRepo, baseLog *logger.Logger) AuthService {
	log := baseLog.With("service", "AuthService")
	return &authService{
		db:            db,
		userRepo:      userRepo,
		tokenRepo:     tokenRepo,
		jwtSecret:     []byte(utils.GetEnv("JWT_SECRET", "dev-secret-change-me", log)),
		accessTTL:     time.Duration(utils.GetEnvAsInt("JWT_ACCESS_TTL_MIN", 60, log)) * time.Minute,
		refreshTTL:    time.Duration(utils.GetEnvAsInt("JWT_REFRESH_TTL_HOURS", 24*30, log)) * time.Hour,
		signingMethod: jwt.SigningMethodHS256,
		log:           log,
	}
}

type accessClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

func (s *authService) Register(ctx context.Context, email, password, fullName string) (*AuthResult, error) {
	email = utils.NormalizeEmail(email)
	fullName = utils.NormalizeInput(fullName)
	if email == "" || password == "" || fullName == "" {
		return nil, svcerr.ErrInvalidInput.WithMessage("email, password, and full name are required")
	}

	if _, err := s.userRepo.GetByEmail(ctx, nil, email); err == nil {
		return nil, svcerr.ErrInvalidInput.WithMessage("email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcerr.ErrInternal.WithCause(err)
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, svcerr.ErrInternal.WithCause(err)
	}

	user := &types.User{
		ID:       uuid.New(),
		Email:    email,
		Password: hashed,
		FullName: fullName,
	}

	var result *AuthResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.Create(ctx, tx, []*types.User{user}); err != nil {
			return err
		}
		var txErr error
		result, txErr = s.issueTokens(ctx, tx, user)
		return txErr
	})
	if err != nil {
		return nil, svcerr.ErrInternal.WithCause(err)
	}

	s.log.Info("user registered", "user_id", user.ID)
	return result, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = utils.NormalizeEmail(email)

	user, err := s.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svcerr.ErrUnauthorized.WithMessage("invalid credentials")
		}
		return nil, svcerr.ErrInternal.WithCause(err)
	}
	if err := utils.CheckPassword(user.Password, password); err != nil {
		return nil, svcerr.ErrUnauthorized.WithMessage("invalid credentials")
	}

	result, err := s.issueTokens(ctx, nil, user)
	if err != nil {
		return nil, svcerr.ErrInternal.WithCause(err)
	}

	s.log.Info("user logged in", "user_id", user.ID)
	return result, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	stored, err := s.tokenRepo.GetByRefreshToken(ctx, nil, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svcerr.ErrUnauthorized.WithMessage("invalid refresh token")
		}
		return nil, svcerr.ErrInternal.WithCause(err)
	}
	if time.Now().After(stored.ExpiresAt) {
		_ = s.tokenRepo.DeleteByRefreshToken(ctx, nil, refreshToken)
		return nil, svcerr.ErrUnauthorized.WithMessage("refresh token expired")
	}

	user, err := s.userRepo.GetByID(ctx, nil, stored.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svcerr.ErrUserNotFound
		}
		return nil, svcerr.ErrInternal.WithCause(err)
	}

	var result *AuthResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.tokenRepo.DeleteByRefreshToken(ctx, tx, refreshToken); err != nil {
			return err
		}
		var txErr error
		result, txErr = s.issueTokens(ctx, tx, user)
		return txErr
	})
	if err != nil {
		return nil, svcerr.ErrInternal.WithCause(err)
	}
	return result, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.tokenRepo.DeleteByRefreshToken(ctx, nil, refreshToken); err != nil {
		return svcerr.ErrInternal.WithCause(err)
	}
	return nil
}

func (s *authService) ParseAccessToken(tokenString string) (uuid.UUID, error) {
	var claims accessClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != s.signingMethod {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, svcerr.ErrUnauthorized.WithMessage("invalid access token")
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, svcerr.ErrUnauthorized.WithMessage("invalid access token")
	}
	return userID, nil
}

func (s *authService) issueTokens(ctx context.Context, tx *gorm.DB, user *types.User) (*AuthResult, error) {
	now := time.Now()
	expiresAt := now.Add(s.accessTTL)

	claims := accessClaims{
		UserID: user.ID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	accessToken, err := jwt.NewWithClaims(s.signingMethod, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	refreshToken := uuid.NewString()
	record := &types.UserToken{
		ID:           uuid.New(),
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    now.Add(s.refreshTTL),
	}
	if err := s.tokenRepo.Create(ctx, tx, []*types.UserToken{record}); err != nil {
		return nil, err
	}

	return &AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}

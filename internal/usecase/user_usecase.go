package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/entity"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/cache"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/events"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 8
	DefaultTokenTTL   = 24 * time.Hour
)

// Claims are carried in every access token.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type AuthResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *entity.User `json:"user"`
}

type Profile struct {
	User  *entity.User        `json:"user"`
	Stats entity.ProfileStats `json:"stats"`
}

type UserUseCase struct {
	userRepo      repository.UserRepository
	bookmarkRepo  repository.BookmarkRepository
	historyRepo   repository.HistoryRepository
	cacheRepo     cache.CacheRepository
	natsPublisher events.Publisher
	cfg           AuthConfig
	logger        *zap.Logger
	now           func() time.Time
}

func NewUserUseCase(
	ur repository.UserRepository,
	br repository.BookmarkRepository,
	hr repository.HistoryRepository,
	cacheRepo cache.CacheRepository,
	np events.Publisher,
	cfg AuthConfig,
	log *zap.Logger,
) *UserUseCase {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}
	return &UserUseCase{
		userRepo:      ur,
		bookmarkRepo:  br,
		historyRepo:   hr,
		cacheRepo:     cacheRepo,
		natsPublisher: np,
		cfg:           cfg,
		logger:        log,
		now:           time.Now,
	}
}

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

func (uc *UserUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	var problems []string
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		problems = append(problems, "A valid email is required")
	}
	if len(input.Password) < MinPasswordLength {
		problems = append(problems, fmt.Sprintf("Password too short (minimum %d characters)", MinPasswordLength))
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("UserUseCase.Register: %w", validationFailed(problems...))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("UserUseCase.Register: failed to hash password: %w", err)
	}

	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		displayName = strings.SplitN(email, "@", 2)[0]
	}
	now := uc.now()
	user := &entity.User{
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: string(hash),
		Role:         entity.RoleReader,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	id, err := uc.userRepo.Create(ctx, user)
	if err != nil {
		if !errors.Is(err, repository.ErrDuplicate) {
			uc.logger.Error("Failed to create user in repository", zap.Error(err), zap.String("email", email))
		}
		return nil, fmt.Errorf("UserUseCase.Register: failed to create user: %w", err)
	}
	user.ID = id

	if uc.natsPublisher != nil {
		if errPub := uc.natsPublisher.PublishUserRegistered(ctx, user); errPub != nil {
			uc.logger.Warn("Failed to publish NATS event for user registered", zap.Error(errPub), zap.String("user_id", id))
		}
	}

	return uc.issue(user)
}

func (uc *UserUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		uc.logger.Error("Failed to load user for login", zap.Error(err))
		return nil, fmt.Errorf("UserUseCase.Login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	// Account state is only revealed to callers that know the password.
	if !user.IsActive {
		return nil, ErrUnauthorized
	}
	return uc.issue(user)
}

func (uc *UserUseCase) issue(user *entity.User) (*AuthResult, error) {
	now := uc.now()
	expiresAt := now.Add(uc.cfg.TokenTTL)
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(uc.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("UserUseCase: failed to sign token: %w", err)
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// ParseToken validates signature and expiry and rejects revoked tokens.
func (uc *UserUseCase) ParseToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(uc.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(uc.now))
	if err != nil || !token.Valid || claims.UserID == "" {
		return nil, ErrUnauthorized
	}

	if uc.cacheRepo != nil && claims.ID != "" {
		_, err := uc.cacheRepo.Get(ctx, cache.RevokedKey(claims.ID))
		switch {
		case err == nil:
			return nil, ErrUnauthorized
		case !errors.Is(err, cache.ErrNotFound):
			uc.logger.Warn("Failed to check token revocation", zap.Error(err))
		}
	}
	return claims, nil
}

// Logout revokes the token until it would have expired anyway.
func (uc *UserUseCase) Logout(ctx context.Context, claims *Claims) error {
	if uc.cacheRepo == nil || claims == nil || claims.ID == "" {
		return nil
	}
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Time.Sub(uc.now())
	}
	if ttl <= 0 {
		return nil
	}
	if err := uc.cacheRepo.Set(ctx, cache.RevokedKey(claims.ID), []byte(claims.UserID), ttl); err != nil {
		uc.logger.Error("Failed to revoke token", zap.Error(err), zap.String("user_id", claims.UserID))
		return fmt.Errorf("UserUseCase.Logout: %w", err)
	}
	return nil
}

func (uc *UserUseCase) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("UserUseCase.GetProfile: %w", err)
	}

	profile := &Profile{User: user}
	if profile.Stats.Bookmarks, err = uc.bookmarkRepo.CountByUser(ctx, userID); err != nil {
		uc.logger.Warn("Failed to count bookmarks for profile", zap.Error(err), zap.String("user_id", userID))
	}
	if profile.Stats.History, err = uc.historyRepo.CountByUser(ctx, userID); err != nil {
		uc.logger.Warn("Failed to count history for profile", zap.Error(err), zap.String("user_id", userID))
	}
	return profile, nil
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID, displayName string) (*entity.User, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, fmt.Errorf("UserUseCase.UpdateProfile: %w", validationFailed("Display name is required"))
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("UserUseCase.UpdateProfile: %w", err)
	}
	if user.DisplayName == displayName {
		return user, nil
	}
	user.DisplayName = displayName
	user.UpdatedAt = uc.now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		uc.logger.Error("Failed to update profile", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("UserUseCase.UpdateProfile: %w", err)
	}
	return user, nil
}

func (uc *UserUseCase) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return fmt.Errorf("UserUseCase.ChangePassword: %w",
			validationFailed(fmt.Sprintf("Password too short (minimum %d characters)", MinPasswordLength)))
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("UserUseCase.ChangePassword: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("UserUseCase.ChangePassword: failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = uc.now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		uc.logger.Error("Failed to update password", zap.Error(err), zap.String("user_id", userID))
		return fmt.Errorf("UserUseCase.ChangePassword: %w", err)
	}
	return nil
}

// Package auth содержит логику регистрации, входа и проверки токенов.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/nutrition-app/internal/lib/jwt"
	"github.com/magabrotheeeer/nutrition-app/internal/lib/password"
	"github.com/magabrotheeeer/nutrition-app/internal/models"
	"github.com/magabrotheeeer/nutrition-app/internal/storage/repository"
	"github.com/magabrotheeeer/nutrition-app/internal/store"
)

var (
	// ErrUserExists пользователь с таким email уже есть.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials неверный email или пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenRevoked токен отозван при выходе.
	ErrTokenRevoked = errors.New("token revoked")
	// ErrInvalidToken токен не прошёл проверку.
	ErrInvalidToken = errors.New("invalid token")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя с начальным профилем и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User, profile models.Profile) (string, error)

	// GetUserByEmail возвращает пользователя по email или repository.ErrNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// TokenRevoker хранит список отозванных токенов.
type TokenRevoker interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// LoginResult результат успешного входа.
type LoginResult struct {
	Token   string
	Role    string
	UserUID string
}

// Service отвечает за регистрацию, авторизацию и валидацию JWT.
type Service struct {
	log      *slog.Logger
	users    UserRepository
	revoked  TokenRevoker
	jwtMaker jwt.Maker
	now      func() time.Time
}

// NewService создает новый экземпляр Service.
func NewService(log *slog.Logger, users UserRepository, revoked TokenRevoker, jwtMaker jwt.Maker) *Service {
	return &Service{
		log:      log,
		users:    users,
		revoked:  revoked,
		jwtMaker: jwtMaker,
		now:      time.Now,
	}
}

// Register создает пользователя с ролью "user" и профилем по умолчанию.
func (s *Service) Register(ctx context.Context, email, username, rawPassword string) (string, error) {
	const op = "services.auth.Register"

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	email = normalizeEmail(email)

	profile := store.DefaultProfile()
	profile.Common.Username = username
	profile.Common.Email = email

	uid, err := s.users.RegisterUser(ctx, models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hashed,
		Role:         models.RoleUser,
	}, profile)
	if errors.Is(err, repository.ErrUserExists) {
		return "", ErrUserExists
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return uid, nil
}

// Login проверяет пароль пользователя и выдаёт JWT.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (*LoginResult, error) {
	const op = "services.auth.Login"

	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	token, err := s.jwtMaker.GenerateToken(user.Username, user.Role, user.UUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &LoginResult{Token: token, Role: user.Role, UserUID: user.UUID}, nil
}

// ValidateToken проверяет JWT и возвращает информацию о пользователе.
func (s *Service) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	const op = "services.auth.ValidateToken"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	revoked, err := s.revoked.IsRevoked(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return &models.User{
		Username: claims.Username,
		Role:     claims.Role,
		UUID:     claims.UserUID,
	}, nil
}

// Logout отзывает токен до окончания срока его действия.
func (s *Service) Logout(ctx context.Context, token string) error {
	const op = "services.auth.Logout"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return ErrInvalidToken
	}
	ttl := time.Hour
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(s.now())
	}
	if err := s.revoked.Revoke(ctx, token, ttl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("token revoked", slog.String("user_uid", claims.UserUID))
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Package server реализует gRPC-сервер для авторизационного сервиса.
//
// AuthServer обрабатывает запросы регистрации, входа, проверки и отзыва JWT.
// Логирует операции и ошибки, делегирует бизнес-логику сервису авторизации.
package server

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/magabrotheeeer/nutrition-app/internal/grpc/authpb"
	"github.com/magabrotheeeer/nutrition-app/internal/lib/sl"
	"github.com/magabrotheeeer/nutrition-app/internal/models"
	"github.com/magabrotheeeer/nutrition-app/internal/services/auth"
)

// AuthServiceInterface бизнес-логика авторизации.
type AuthServiceInterface interface {
	Register(ctx context.Context, email, username, password string) (string, error)
	Login(ctx context.Context, email, password string) (*auth.LoginResult, error)
	ValidateToken(ctx context.Context, token string) (*models.User, error)
	Logout(ctx context.Context, token string) error
}

// AuthServer реализует gRPC-сервис авторизации.
type AuthServer struct {
	authpb.UnimplementedAuthServiceServer
	authService AuthServiceInterface
	log         *slog.Logger
}

// NewAuthServer создает новый экземпляр AuthServer.
func NewAuthServer(authService AuthServiceInterface, logger *slog.Logger) *AuthServer {
	return &AuthServer{
		authService: authService,
		log:         logger,
	}
}

// Register создает нового пользователя.
func (s *AuthServer) Register(ctx context.Context, req *authpb.RegisterRequest) (*authpb.RegisterResponse, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, status.Error(codes.InvalidArgument, "email and password are required")
	}
	s.log.Info("register request", slog.String("email", req.Email))

	uid, err := s.authService.Register(ctx, req.Email, req.Username, req.Password)
	if errors.Is(err, auth.ErrUserExists) {
		return nil, status.Error(codes.AlreadyExists, "user already exists")
	}
	if err != nil {
		s.log.Error("register failed", slog.String("email", req.Email), sl.Err(err))
		return nil, status.Error(codes.Internal, "registration failed")
	}
	return &authpb.RegisterResponse{
		UserUID: uid,
		Message: "user created successfully",
	}, nil
}

// Login проверяет пользователя и генерирует JWT.
func (s *AuthServer) Login(ctx context.Context, req *authpb.LoginRequest) (*authpb.LoginResponse, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, status.Error(codes.InvalidArgument, "email and password are required")
	}
	s.log.Info("login request", slog.String("email", req.Email))

	res, err := s.authService.Login(ctx, req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return nil, status.Error(codes.Unauthenticated, "invalid credentials")
	}
	if err != nil {
		s.log.Error("login failed", slog.String("email", req.Email), sl.Err(err))
		return nil, status.Error(codes.Internal, "login failed")
	}
	return &authpb.LoginResponse{
		Token:   res.Token,
		Role:    res.Role,
		UserUID: res.UserUID,
	}, nil
}

// ValidateToken проверяет валидность JWT и возвращает данные пользователя.
func (s *AuthServer) ValidateToken(ctx context.Context, req *authpb.ValidateTokenRequest) (*authpb.ValidateTokenResponse, error) {
	if req.Token == "" {
		return nil, status.Error(codes.InvalidArgument, "token is required")
	}

	user, err := s.authService.ValidateToken(ctx, req.Token)
	switch {
	case errors.Is(err, auth.ErrTokenRevoked):
		return nil, status.Error(codes.Unauthenticated, "token revoked")
	case errors.Is(err, auth.ErrInvalidToken):
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	case err != nil:
		s.log.Error("validate token failed", sl.Err(err))
		return nil, status.Error(codes.Internal, "token validation failed")
	}
	return &authpb.ValidateTokenResponse{
		Username: user.Username,
		Role:     user.Role,
		UserUID:  user.UUID,
		Valid:    true,
	}, nil
}

// Logout отзывает токен.
func (s *AuthServer) Logout(ctx context.Context, req *authpb.LogoutRequest) (*authpb.LogoutResponse, error) {
	if req.Token == "" {
		return nil, status.Error(codes.InvalidArgument, "token is required")
	}
	err := s.authService.Logout(ctx, req.Token)
	if errors.Is(err, auth.ErrInvalidToken) {
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}
	if err != nil {
		s.log.Error("logout failed", sl.Err(err))
		return nil, status.Error(codes.Internal, "logout failed")
	}
	return &authpb.LogoutResponse{Success: true}, nil
}

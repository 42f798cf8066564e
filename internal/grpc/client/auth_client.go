// Package client содержит gRPC-клиента сервиса авторизации.
package client

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/magabrotheeeer/nutrition-app/internal/grpc/authpb"
	"github.com/magabrotheeeer/nutrition-app/internal/services/auth"
)

// ErrInvalidArgument сервис отклонил запрос как некорректный.
var ErrInvalidArgument = errors.New("invalid argument")

// AuthClient клиент сервиса авторизации. Ошибки gRPC переводятся
// в ошибки пакета services/auth.
type AuthClient struct {
	conn   *grpc.ClientConn
	client *authpb.AuthServiceClient
}

// NewAuthClient создаёт клиента для адреса addr.
func NewAuthClient(addr string, opts ...grpc.DialOption) (*AuthClient, error) {
	const op = "grpc.client.NewAuthClient"

	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &AuthClient{conn: conn, client: authpb.NewAuthServiceClient(conn)}, nil
}

// Close закрывает соединение.
func (a *AuthClient) Close() error {
	return a.conn.Close()
}

// Register регистрирует пользователя и возвращает его UID.
func (a *AuthClient) Register(ctx context.Context, email, username, password string) (string, error) {
	resp, err := a.client.Register(ctx, &authpb.RegisterRequest{
		Email:    email,
		Username: username,
		Password: password,
	})
	if err != nil {
		return "", translate(err, auth.ErrInvalidCredentials)
	}
	return resp.UserUID, nil
}

// Login выполняет вход.
func (a *AuthClient) Login(ctx context.Context, email, password string) (*auth.LoginResult, error) {
	resp, err := a.client.Login(ctx, &authpb.LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, translate(err, auth.ErrInvalidCredentials)
	}
	return &auth.LoginResult{Token: resp.Token, Role: resp.Role, UserUID: resp.UserUID}, nil
}

// ValidateToken проверяет токен и возвращает данные его владельца.
func (a *AuthClient) ValidateToken(ctx context.Context, token string) (*authpb.ValidateTokenResponse, error) {
	resp, err := a.client.ValidateToken(ctx, &authpb.ValidateTokenRequest{Token: token})
	if err != nil {
		return nil, translate(err, auth.ErrInvalidToken)
	}
	return resp, nil
}

// Logout отзывает токен.
func (a *AuthClient) Logout(ctx context.Context, token string) error {
	if _, err := a.client.Logout(ctx, &authpb.LogoutRequest{Token: token}); err != nil {
		return translate(err, auth.ErrInvalidToken)
	}
	return nil
}

func translate(err error, unauthenticated error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.AlreadyExists:
		return auth.ErrUserExists
	case codes.Unauthenticated:
		return unauthenticated
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidArgument, st.Message())
	default:
		return err
	}
}

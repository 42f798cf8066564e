// Package apiclient HTTP-клиент API для CLI. Реализует store.Syncer.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/magabrotheeeer/nutrition-app/internal/models"
)

var (
	// ErrUnauthorized токен отсутствует, истёк или отозван.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrPremiumRequired действие доступно только с премиум-доступом.
	ErrPremiumRequired = errors.New("premium access required")
	// ErrNotFound ресурс не найден.
	ErrNotFound = errors.New("not found")
	// ErrConflict ресурс уже существует.
	ErrConflict = errors.New("conflict")
)

// APIError ответ API со статусом ошибки.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Unwrap сопоставляет статус ответа с ошибками пакета.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrPremiumRequired
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	}
	return nil
}

// ProfileView профиль с производными значениями, как его отдаёт API.
type ProfileView struct {
	Profile              models.Profile `json:"profile"`
	BMI                  float64        `json:"bmi"`
	Premium              bool           `json:"premium"`
	InTrial              bool           `json:"in_trial"`
	Features             []string       `json:"features"`
	SubscriptionDaysLeft int            `json:"subscription_days_left"`
}

// LoginResult результат входа.
type LoginResult struct {
	Token   string `json:"token"`
	Role    string `json:"role"`
	UserUID string `json:"user_uid"`
}

// Payment платёж, созданный у провайдера.
type Payment struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Paid   bool   `json:"paid"`
}

// PurchaseStatus состояние покупки.
type PurchaseStatus struct {
	Type          models.PurchaseType `json:"type"`
	PurchasedAt   *time.Time          `json:"purchased_at,omitempty"`
	TransactionID string              `json:"transaction_id,omitempty"`
	Premium       bool                `json:"premium"`
	Features      []string            `json:"features"`
}

// Health ответ проверки доступности.
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type envelope struct {
	Status string          `json:"status"`
	Error  string          `json:"error"`
	Data   json.RawMessage `json:"data"`
}

// Client клиент HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New создает клиента для API по адресу baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}

// Health проверяет доступность API и возвращает его версию.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	const op = "apiclient.Health"
	var out Health
	if err := c.do(ctx, http.MethodGet, "/health", "", nil, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &out, nil
}

// Register регистрирует пользователя и возвращает его UID.
func (c *Client) Register(ctx context.Context, email, username, password string) (string, error) {
	const op = "apiclient.Register"
	var out struct {
		UserUID string `json:"user_uid"`
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/register", "", map[string]string{
		"email":    email,
		"username": username,
		"password": password,
	}, &out)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return out.UserUID, nil
}

// Login выполняет вход.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	const op = "apiclient.Login"
	var out LoginResult
	err := c.do(ctx, http.MethodPost, "/api/v1/login", "", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &out, nil
}

// Logout отзывает токен.
func (c *Client) Logout(ctx context.Context, token string) error {
	const op = "apiclient.Logout"
	if err := c.do(ctx, http.MethodPost, "/api/v1/logout", token, nil, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetProfile читает профиль из удалённой таблицы.
func (c *Client) GetProfile(ctx context.Context, token string) (*ProfileView, error) {
	return c.profileCall(ctx, "apiclient.GetProfile", http.MethodGet, "/api/v1/profile", token, nil)
}

// PushProfile зеркалирует снимок профиля в удалённую таблицу.
func (c *Client) PushProfile(ctx context.Context, token string, profile models.Profile) error {
	_, err := c.profileCall(ctx, "apiclient.PushProfile", http.MethodPut, "/api/v1/profile", token, profile)
	return err
}

// CalculateMacros пересчитывает макронутриенты на сервере.
func (c *Client) CalculateMacros(ctx context.Context, token string) (*ProfileView, error) {
	return c.profileCall(ctx, "apiclient.CalculateMacros", http.MethodPost, "/api/v1/profile/macros/calculate", token, nil)
}

// UpdateMacros задаёт макронутриенты вручную. Требует премиум-доступа.
func (c *Client) UpdateMacros(ctx context.Context, token string, patch models.MacrosPatch) (*ProfileView, error) {
	return c.profileCall(ctx, "apiclient.UpdateMacros", http.MethodPatch, "/api/v1/profile/macros", token, patch)
}

// ActivateSubscription активирует подписку на сервере.
func (c *Client) ActivateSubscription(ctx context.Context, token string) (*ProfileView, error) {
	return c.profileCall(ctx, "apiclient.ActivateSubscription", http.MethodPost, "/api/v1/subscription/activate", token, nil)
}

// CancelSubscription отменяет подписку на сервере.
func (c *Client) CancelSubscription(ctx context.Context, token string) (*ProfileView, error) {
	return c.profileCall(ctx, "apiclient.CancelSubscription", http.MethodPost, "/api/v1/subscription/cancel", token, nil)
}

func (c *Client) profileCall(ctx context.Context, op, method, path, token string, body any) (*ProfileView, error) {
	var out ProfileView
	if err := c.do(ctx, method, path, token, body, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &out, nil
}

// CreatePurchase создаёт платёж за пожизненный доступ.
func (c *Client) CreatePurchase(ctx context.Context, token, paymentToken string) (*Payment, error) {
	const op = "apiclient.CreatePurchase"
	var out Payment
	err := c.do(ctx, http.MethodPost, "/api/v1/purchase", token, map[string]string{
		"payment_token": paymentToken,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &out, nil
}

// PurchaseStatus возвращает состояние покупки.
func (c *Client) PurchaseStatus(ctx context.Context, token string) (*PurchaseStatus, error) {
	const op = "apiclient.PurchaseStatus"
	var out PurchaseStatus
	if err := c.do(ctx, http.MethodGet, "/api/v1/purchase", token, nil, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &out, nil
}

// Payments возвращает историю платежей.
func (c *Client) Payments(ctx context.Context, token string) ([]models.Payment, error) {
	const op = "apiclient.Payments"
	var out []models.Payment
	if err := c.do(ctx, http.MethodGet, "/api/v1/payments", token, nil, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

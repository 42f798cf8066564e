package authpb

import "google.golang.org/protobuf/types/known/structpb"

// RegisterRequest запрос регистрации.
type RegisterRequest struct {
	Email    string
	Username string
	Password string
}

func (m *RegisterRequest) fields() map[string]*structpb.Value {
	return map[string]*structpb.Value{
		"email":    structpb.NewStringValue(m.Email),
		"username": structpb.NewStringValue(m.Username),
		"password": structpb.NewStringValue(m.Password),
	}
}

func (m *RegisterRequest) setFields(f map[string]*structpb.Value) {
	m.Email, m.Username, m.Password = str(f, "email"), str(f, "username"), str(f, "password")
}

// RegisterResponse ответ на регистрацию.
type RegisterResponse struct {
	UserUID string
	Message string
}

func (m *RegisterResponse) fields() map[string]*structpb.Value {
	return map[string]*structpb.Value{
		"user_uid": structpb.NewStringValue(m.UserUID),
		"message":  structpb.NewStringValue(m.Message),
	}
}

func (m *RegisterResponse) setFields(f map[string]*structpb.Value) {
	m.UserUID, m.Message = str(f, "user_uid"), str(f, "message")
}

// LoginRequest запрос входа.
type LoginRequest struct {
	Email    string
	Password string
}

func (m *LoginRequest) fields() map[string]*structpb.Value {
	return map[string]*structpb.Value{
		"email":    structpb.NewStringValue(m.Email),
		"password": structpb.NewStringValue(m.Password),
	}
}

func (m *LoginRequest) setFields(f map[string]*structpb.Value) {
	m.Email, m.Password = str(f, "email"), str(f, "password")
}

// LoginResponse ответ на вход.
type LoginResponse struct {
	Token   string
	Role    string
	UserUID string
}

func (m *LoginResponse) fields() map[string]*structpb.Value {
	return map[string]*structpb.Value{
		"token":    structpb.NewStringValue(m.Token),
		"role":     structpb.NewStringValue(m.Role),
		"user_uid": structpb.NewStringValue(m.UserUID),
	}
}

func (m *LoginResponse) setFields(f map[string]*structpb.Value) {
	m.Token, m.Role, m.UserUID = str(f, "token"), str(f, "role"), str(f, "user_uid")
}

// ValidateTokenRequest запрос проверки токена.
type ValidateTokenRequest struct {
	Token string
}

func (m *ValidateTokenRequest) fields() map[string]*structpb.Value {
	return map[string]*structpb.Value{"token": structpb.NewStringValue(m.Token)}
}

func (m *ValidateTokenRequest) setFields(f map[string]*structpb.Value) {
	m.Token = str(f, "token")
}

// ValidateTokenResponse данные владельца токена.
type ValidateTokenResponse struct {
	Username string
	Role     string
	UserUID  string
	Valid    bool
}

func (m *ValidateTokenResponse) fields() map[string]*structpb.Value {
	return map[string]*structpb.Value{
		"username": structpb.NewStringValue(m.Username),
		"role":     structpb.NewStringValue(m.Role),
		"user_uid": structpb.NewStringValue(m.UserUID),
		"valid":    structpb.NewBoolValue(m.Valid),
	}
}

func (m *ValidateTokenResponse) setFields(f map[string]*structpb.Value) {
	m.Username, m.Role, m.UserUID = str(f, "username"), str(f, "role"), str(f, "user_uid")
	m.Valid = flag(f, "valid")
}

// LogoutRequest запрос отзыва токена.
type LogoutRequest struct {
	Token string
}

func (m *LogoutRequest) fields() map[string]*structpb.Value {
	return map[string]*structpb.Value{"token": structpb.NewStringValue(m.Token)}
}

func (m *LogoutRequest) setFields(f map[string]*structpb.Value) {
	m.Token = str(f, "token")
}

// LogoutResponse ответ на отзыв токена.
type LogoutResponse struct {
	Success bool
}

func (m *LogoutResponse) fields() map[string]*structpb.Value {
	return map[string]*structpb.Value{"success": structpb.NewBoolValue(m.Success)}
}

func (m *LogoutResponse) setFields(f map[string]*structpb.Value) {
	m.Success = flag(f, "success")
}

// Package models содержит доменные модели сервиса питания: учётную запись
// пользователя, профиль с телом и макронутриентами, подписку, покупку и платежи.
// Структуры используются в бизнес‑логике, хранилищах и при сериализации снимка
// состояния клиента.
package models

import "time"

// Роли пользователей.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	UUID         string    // Уникальный идентификатор пользователя
	Email        string    // Электронная почта (уникальная, используется для входа)
	Username     string    // Отображаемое имя
	PasswordHash string    // Хэш пароля пользователя
	Role         string    // Роль пользователя, admin или user
	Icon         int       // Индекс иконки профиля
	CreatedAt    time.Time // Дата регистрации
}

// Session описывает авторизованную сессию клиента.
type Session struct {
	UserUID string `json:"user_uid"`
	Email   string `json:"email"`
	Token   string `json:"token"`
}

// Valid сообщает, что сессия содержит токен доступа.
func (s *Session) Valid() bool {
	return s != nil && s.Token != ""
}

// Package localstore реализует key-value хранилище на устройстве клиента
// поверх файла SQLite. В нём хранится сериализованный снимок профиля и сессия.
package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	// Регистрация драйвера sqlite3 для database/sql.
	_ "github.com/mattn/go-sqlite3"
)

// Storage key-value хранилище.
type Storage struct {
	db *sql.DB
}

// InMemory DSN для тестов и одноразовых запусков.
const InMemory = "file::memory:?cache=shared"

// New открывает (или создаёт) файл хранилища и готовит схему.
func New(path string) (*Storage, error) {
	const op = "localstore.New"

	if path != InMemory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

// Get возвращает значение по ключу. Второй результат false, если ключа нет.
func (s *Storage) Get(ctx context.Context, key string) (string, bool, error) {
	const op = "localstore.Get"

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	return value, true, nil
}

// Set сохраняет значение по ключу, перезаписывая предыдущее.
func (s *Storage) Set(ctx context.Context, key, value string) error {
	const op = "localstore.Set"

	_, err := s.db.ExecContext(ctx, `INSERT INTO kv (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Delete удаляет ключ. Отсутствие ключа не является ошибкой.
func (s *Storage) Delete(ctx context.Context, key string) error {
	const op = "localstore.Delete"

	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает соединение.
func (s *Storage) Close() error {
	return s.db.Close()
}

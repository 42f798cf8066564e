package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/nutrition-app/internal/config"
)

func TestMaskingHandler(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("prod", &buf)

	log.Info("login",
		slog.String("email", "a@b.c"),
		slog.String("password", "hunter22"),
		slog.Group("request", slog.String("Token", "jwt")),
	)

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "a@b.c", got["email"])
	assert.Equal(t, "***", got["password"])
	assert.Equal(t, map[string]any{"Token": "***"}, got["request"])
}

func TestMaskingHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("prod", &buf).With(slog.String("secret", "s3"))

	log.Info("msg")

	assert.NotContains(t, buf.String(), "s3")
	assert.Contains(t, buf.String(), `"secret":"***"`)
}

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter("prod", &buf).Debug("hidden")
	assert.Empty(t, buf.String())

	buf.Reset()
	NewWithWriter("local", &buf).Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestNewFile_WritesToRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "nutrition.log")
	log := NewFile("prod", config.Logger{LogFile: path, LogMaxSizeMB: 1})

	log.Info("sync failed", slog.String("token", "jwt"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sync failed")
	assert.NotContains(t, string(data), "jwt")
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("EDITOR_QUIET_WINDOW", "")
	t.Setenv("AI_WEEKLY_LIMIT_PRO", "")

	cfg := Load()

	assert.Equal(t, "dev", cfg.Env)
	assert.True(t, cfg.IsDevLike())
	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.Equal(t, time.Second, cfg.QuietWindow)
	assert.Equal(t, 50, cfg.AIWeeklyLimitPro)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("EDITOR_QUIET_WINDOW", "750ms")
	t.Setenv("AI_WEEKLY_LIMIT_PRO_PLUS", "not-a-number")
	t.Setenv("CORS_ALLOW_ORIGINS", " https://a.example , ,https://b.example")

	cfg := Load()

	assert.Equal(t, "production", cfg.Env)
	assert.False(t, cfg.IsDevLike())
	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, 750*time.Millisecond, cfg.QuietWindow)
	assert.Equal(t, 200, cfg.AIWeeklyLimitPlus)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigin)
}

func TestLoadEnvFilesDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("RB_TEST_FROM_FILE=file\nRB_TEST_PRESET=file\n"), 0o600))

	t.Setenv("RB_TEST_PRESET", "env")
	t.Cleanup(func() { _ = os.Unsetenv("RB_TEST_FROM_FILE") })

	loadEnvFiles(filepath.Join(dir, "missing.env"), path)

	assert.Equal(t, "file", os.Getenv("RB_TEST_FROM_FILE"))
	assert.Equal(t, "env", os.Getenv("RB_TEST_PRESET"))
}

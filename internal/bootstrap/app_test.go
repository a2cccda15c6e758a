package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/llm"
	"resume-builder/internal/llm/openai"
	"resume-builder/internal/shared/config"
)

func TestBuildFallsBackToMemoryInDev(t *testing.T) {
	app, err := Build(t.Context(), config.Config{
		Env:               "dev",
		LocalStoreDir:     t.TempDir(),
		LLMProvider:       "none",
		AIWeeklyLimitPro:  7,
		AIWeeklyLimitPlus: 0,
	}, Options{})
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.DB)
	assert.IsType(t, llm.PlaceholderClient{}, app.LLM)
	assert.Equal(t, 7, app.Usage.Limits.Pro)
	assert.Equal(t, 200, app.Usage.Limits.ProPlus)

	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestBuildRequiresDatabaseInProduction(t *testing.T) {
	_, err := Build(t.Context(), config.Config{Env: "production"}, Options{})
	assert.Error(t, err)
}

func TestBuildPicksOpenAIWhenKeyed(t *testing.T) {
	app, err := Build(t.Context(), config.Config{
		Env:           "dev",
		LocalStoreDir: t.TempDir(),
		LLMProvider:   "openai",
		OpenAIAPIKey:  "sk-test",
		LLMModel:      "gpt-4o-mini",
	}, Options{SkipRouter: true})
	require.NoError(t, err)
	defer app.Close()

	assert.IsType(t, &openai.Client{}, app.LLM)
	assert.Nil(t, app.Router)
}

func TestBuildRejectsS3WithoutBucket(t *testing.T) {
	_, err := Build(t.Context(), config.Config{Env: "dev", ObjectStoreType: "s3"}, Options{})
	assert.Error(t, err)
}

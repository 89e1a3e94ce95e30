package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/tutorloop/internal/llm"
)

// isolate runs the test in an empty directory with no provider keys set,
// so neither a developer's .env nor their shell leaks into Load.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	for name := range envKeys {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	return dir
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Lesson, cfg.Lesson)
	assert.Equal(t, llm.ProviderAnthropic, cfg.LLM.Provider)
	assert.Equal(t, 45*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "tutor.yaml")
	writeFile(t, path, `
lesson:
  topic: volcanoes
  total_questions: 3
llm:
  provider: mock
  timeout: 5s
  retry:
    max_attempts: 1
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "volcanoes", cfg.Lesson.Topic)
	assert.Equal(t, 3, cfg.Lesson.TotalQuestions)
	assert.Equal(t, llm.ProviderMock, cfg.LLM.Provider)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 1, cfg.LLM.Retry.MaxAttempts)
	assert.Equal(t, 10*time.Second, cfg.LLM.Retry.MaxWait, "unset nested fields keep defaults")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_DefaultPathFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "xdg", "tutorloop", "config.yaml"), "lesson:\n  audience: adults\n")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "adults", cfg.Lesson.Audience)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "tutor.yaml")
	writeFile(t, path, "lesson:\n  topic: volcanoes\n  total_questions: 3\n")

	t.Setenv("TUTORLOOP_LESSON_TOPIC", "glaciers")
	t.Setenv("TUTORLOOP_LESSON_TOTAL_QUESTIONS", "7")
	t.Setenv("TUTORLOOP_LLM_PROVIDER", "openai")
	t.Setenv("TUTORLOOP_LLM_OPENAI_API_KEY", "sk-test")
	t.Setenv("TUTORLOOP_LLM_OPENAI_MODEL", "gpt-mini")
	t.Setenv("TUTORLOOP_LLM_TIMEOUT", "12s")
	t.Setenv("TUTORLOOP_SERVER_MAX_SESSIONS", "5")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "glaciers", cfg.Lesson.Topic)
	assert.Equal(t, 7, cfg.Lesson.TotalQuestions)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "sk-test", cfg.LLM.OpenAI.APIKey)
	assert.Equal(t, "gpt-mini", cfg.LLM.OpenAI.Model)
	assert.Equal(t, 12*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 5, cfg.Server.MaxSessions)
	require.NoError(t, cfg.LLM.Validate())
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".env"), "TUTORLOOP_LESSON_TOPIC=tides\n")
	t.Cleanup(func() { os.Unsetenv("TUTORLOOP_LESSON_TOPIC") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "tides", cfg.Lesson.Topic)
}

func TestLoad_DiscoversVendorKey(t *testing.T) {
	isolate(t)
	t.Setenv("OPENAI_API_KEY", "sk-vendor")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "sk-vendor", cfg.LLM.OpenAI.APIKey)
}

func TestLoad_Errors(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err, "explicit path must exist")

	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "lesson: [unclosed\n")
	_, err = Load(bad)
	assert.Error(t, err)

	zero := filepath.Join(dir, "zero.yaml")
	writeFile(t, zero, "lesson:\n  total_questions: 0\n")
	_, err = Load(zero)
	assert.ErrorContains(t, err, "total questions")

	_, err = Load(dir)
	assert.ErrorContains(t, err, "directory")
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "llm.anthropic.api_key", envKey("TUTORLOOP_LLM_ANTHROPIC_API_KEY"))
	assert.Equal(t, "llm.openrouter.base_url", envKey("TUTORLOOP_LLM_OPENROUTER_BASE_URL"))
	assert.Equal(t, "lesson.total_questions", envKey("TUTORLOOP_LESSON_TOTAL_QUESTIONS"))
	assert.Equal(t, "", envKey("TUTORLOOP_UNKNOWN"))
}

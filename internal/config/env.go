package config

import "strings"

// envKeys maps environment variables to config keys. Field names contain
// underscores, so the mapping can't be derived by splitting.
var envKeys = map[string]string{
	"TUTORLOOP_DB": "db",

	"TUTORLOOP_LLM_PROVIDER":    "llm.provider",
	"TUTORLOOP_LLM_TIMEOUT":     "llm.timeout",
	"TUTORLOOP_LLM_MAX_TOKENS":  "llm.max_tokens",
	"TUTORLOOP_LLM_TEMPERATURE": "llm.temperature",

	"TUTORLOOP_LLM_RETRY_MAX_ATTEMPTS": "llm.retry.max_attempts",
	"TUTORLOOP_LLM_RETRY_INITIAL_WAIT": "llm.retry.initial_wait",
	"TUTORLOOP_LLM_RETRY_MAX_WAIT":     "llm.retry.max_wait",

	"TUTORLOOP_LESSON_TOPIC":           "lesson.topic",
	"TUTORLOOP_LESSON_AUDIENCE":        "lesson.audience",
	"TUTORLOOP_LESSON_TOTAL_QUESTIONS": "lesson.total_questions",

	"TUTORLOOP_LOG_LEVEL":  "log.level",
	"TUTORLOOP_LOG_FORMAT": "log.format",
	"TUTORLOOP_LOG_FILE":   "log.file",

	"TUTORLOOP_SERVER_ADDR":         "server.addr",
	"TUTORLOOP_SERVER_MAX_SESSIONS": "server.max_sessions",
}

func init() {
	for _, backend := range []string{"anthropic", "openai", "gemini", "openrouter"} {
		for _, field := range []string{"api_key", "model", "base_url"} {
			name := envPrefix + strings.ToUpper("llm_"+backend+"_"+field)
			envKeys[name] = "llm." + backend + "." + field
		}
	}
}

// envKey is the koanf env transformer. Unknown variables map to "" and are
// skipped.
func envKey(name string) string {
	return envKeys[name]
}

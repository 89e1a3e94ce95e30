package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/tutorloop/internal/config"
	"github.com/abhisek/tutorloop/internal/content"
	"github.com/abhisek/tutorloop/internal/gateway"
	"github.com/abhisek/tutorloop/internal/llm"
	"github.com/abhisek/tutorloop/internal/logging"
	"github.com/abhisek/tutorloop/internal/phase"
	"github.com/abhisek/tutorloop/internal/store"
)

// environment holds what every command that runs lessons needs.
type environment struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   *store.Store
	closers []func() error
}

// Close releases the store and flushes the logger.
func (e *environment) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		errs = append(errs, e.closers[i]())
	}
	return errors.Join(errs...)
}

// loadConfig reads the config file and applies the persistent flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		cfg.DB = db
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
		if err := cfg.Log.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// resolveDBPath returns the configured database path, or the default XDG
// path, making sure its directory exists.
func resolveDBPath(cfg *config.Config) (string, error) {
	if cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

// openStore opens the event store for the read-only inspection commands.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// setup loads the config and opens the logger and the store.
func setup(cmd *cobra.Command) (*environment, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := applyLessonFlags(cmd, cfg); err != nil {
		return nil, err
	}

	logger, syncLog, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	env := &environment{cfg: cfg, logger: logger}
	env.closers = append(env.closers, syncLog)

	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		_ = env.Close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		_ = env.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	env.store = st
	env.closers = append(env.closers, st.Close)
	return env, nil
}

// generator builds the content generator on top of the configured provider.
// offline forces the built-in demo content.
func (e *environment) generator(cmd *cobra.Command, offline bool) (content.Generator, error) {
	llmCfg := e.cfg.LLM
	if offline {
		llmCfg.Provider = llm.ProviderMock
	}
	provider, err := llm.NewProvider(cmd.Context(), llmCfg, llm.Options{
		Events:        e.store.EventRepo(),
		Logger:        e.logger,
		MockResponder: content.DemoResponder,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM provider not configured: %w (use --offline for demo content)", err)
	}
	e.logger.Info("llm provider ready", zap.String("provider", llmCfg.Provider))

	return content.NewGenerator(provider, content.Config{
		MaxTokens:   llmCfg.MaxTokens,
		Temperature: llmCfg.Temperature,
	}), nil
}

// lesson returns the gateway config for new sessions.
func (e *environment) lesson() gateway.Config {
	return gateway.Config{
		Lesson:   phase.Config{TotalQuestions: e.cfg.Lesson.TotalQuestions},
		Topic:    e.cfg.Lesson.Topic,
		Audience: e.cfg.Lesson.Audience,
	}
}

// gatewayOptions wires the audit store and logger into a session.
func (e *environment) gatewayOptions(sessionID string, observer gateway.Observer) gateway.Options {
	return gateway.Options{
		SessionID: sessionID,
		Recorder:  e.store.EventRepo(),
		Observer:  observer,
		Logger:    e.logger,
	}
}

func addLessonFlags(cmd *cobra.Command) {
	cmd.Flags().String("topic", "", "Lesson topic")
	cmd.Flags().String("audience", "", "Who the lesson is for, e.g. \"grade 3\"")
	cmd.Flags().Int("questions", 0, "Number of questions in the lesson")
	cmd.Flags().Bool("offline", false, "Use built-in demo content instead of an LLM")
}

// applyLessonFlags overrides the lesson config with flags that were set.
func applyLessonFlags(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Lookup("topic") == nil {
		return nil
	}
	if v, _ := cmd.Flags().GetString("topic"); v != "" {
		cfg.Lesson.Topic = v
	}
	if v, _ := cmd.Flags().GetString("audience"); v != "" {
		cfg.Lesson.Audience = v
	}
	if cmd.Flags().Changed("questions") {
		cfg.Lesson.TotalQuestions, _ = cmd.Flags().GetInt("questions")
	}
	return cfg.Validate()
}

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kenroads/ntsabuddy/internal/config"
	"github.com/kenroads/ntsabuddy/internal/llm"
	"github.com/kenroads/ntsabuddy/internal/logger"
	"github.com/kenroads/ntsabuddy/internal/store"
	"github.com/kenroads/ntsabuddy/internal/tutor"
)

// deps is everything a study front end needs.
type deps struct {
	cfg      *config.Config
	log      *zap.Logger
	store    *store.Store
	provider llm.Provider
	tutor    *tutor.Fallback
}

// status is the header label: the model in use, or offline.
func (d *deps) status() string {
	if d.cfg.Offline {
		return "offline"
	}
	return d.provider.ModelID()
}

func (d *deps) Close() {
	_ = d.log.Sync()
	_ = d.store.Close()
}

// setup loads config and opens the store, logger and provider chain. When
// logToFile is set and no log path is configured, logs go next to the
// database so they never draw over the TUI.
func setup(cmd *cobra.Command, logToFile bool) (*deps, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}

	logPath := cfg.Log.Path
	if logPath == "" && logToFile {
		logPath = filepath.Join(filepath.Dir(dbPath), "ntsabuddy.log")
	}
	log, err := logger.New(cfg, logPath)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	provider, err := llm.NewProvider(cmd.Context(), cfg.LLM, st.EventRepo(), log)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("init model provider: %w", err)
	}
	if cfg.Offline {
		log.Warn("no API key found; running offline with fallback content")
	}

	tcfg := tutorConfig(cfg)
	return &deps{
		cfg:      cfg,
		log:      log,
		store:    st,
		provider: provider,
		tutor:    tutor.NewFallback(tutor.New(provider, tcfg), log, tcfg.Timeout),
	}, nil
}

func tutorConfig(cfg *config.Config) tutor.Config {
	tc := tutor.DefaultConfig()
	if cfg.Quiz.Questions > 0 {
		tc.Questions = cfg.Quiz.Questions
	}
	if cfg.Quiz.MaxTokens > 0 {
		tc.MaxTokens = cfg.Quiz.MaxTokens
	}
	tc.Temperature = cfg.Quiz.Temperature
	tc.Timeout = cfg.LLM.Timeout
	return tc
}

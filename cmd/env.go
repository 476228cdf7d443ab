package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/phrasely/internal/config"
	"github.com/abhisek/phrasely/internal/logging"
	"github.com/abhisek/phrasely/internal/mastery"
	"github.com/abhisek/phrasely/internal/spacedrep"
	"github.com/abhisek/phrasely/internal/store"
)

// env bundles what every command needs: settings, logger, store and the
// scheduling engine built from the configured policy.
type env struct {
	cfg     config.Config
	logger  *logging.Logger
	store   *store.Store
	policy  spacedrep.Policy
	machine *mastery.Machine
}

// openEnv loads configuration and opens the store. With tui set, logs go
// to the configured log file (or nowhere) so they don't draw over the
// review screen.
func openEnv(cmd *cobra.Command, tui bool) (*env, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}

	logger, err := newLogger(cfg, tui)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}
	machine, err := mastery.NewMachine(policy)
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(cmd, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	st.SetLogger(logger)
	logger.Debug("store opened", "path", dbPath)

	return &env{cfg: cfg, logger: logger, store: st, policy: policy, machine: machine}, nil
}

func newLogger(cfg config.Config, tui bool) (*logging.Logger, error) {
	switch {
	case cfg.LogFile != "":
		return logging.NewFile(cfg.LogLevel, cfg.LogFile)
	case tui:
		return logging.Nop(), nil
	default:
		return logging.New(cfg.LogLevel, cfg.LogMode)
	}
}

func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		e.logger.Warn("close store", "error", err)
	}
	e.logger.Sync()
}

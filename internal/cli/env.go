package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/jispell/internal/anchor"
	"github.com/roach88/jispell/internal/config"
	"github.com/roach88/jispell/internal/engine"
	"github.com/roach88/jispell/internal/glyph"
	"github.com/roach88/jispell/internal/store"
)

// env is what a command needs after flags are parsed: the effective
// config, the optional database and the anchor resolver over it.
type env struct {
	cfg      config.Config
	store    *store.Store // nil without --db / database
	resolver *anchor.Resolver
}

func openEnv(cmd *cobra.Command, opts *RootOptions) (*env, error) {
	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	e := &env{cfg: cfg}
	var anchors anchor.Store
	if cfg.Database != "" {
		slog.Debug("opening database", "path", cfg.Database)
		st, err := store.Open(cfg.Database)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to open database", err)
		}
		e.store = st
		anchors = st.Anchors(cfg.Profile)
	}
	e.resolver = anchor.NewResolver(anchors)
	return e, nil
}

// requireStore fails commands that only make sense against a database.
func (e *env) requireStore() error {
	if e.store == nil {
		return NewExitError(ExitCommandError, "no database: pass --db or set database in the config")
	}
	return nil
}

func (e *env) engine(gen engine.SessionGenerator, opts ...engine.EngineOption) (*engine.Engine, error) {
	eng, err := engine.FromConfig(e.cfg, e.resolver, gen, opts...)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to build engine", err)
	}
	return eng, nil
}

// glyphs returns the configured glyph table or the built-in one.
func (e *env) glyphs() (*glyph.Table, error) {
	if e.cfg.Glyphs == "" {
		return glyph.Default(), nil
	}
	tbl, err := glyph.Load(e.cfg.Glyphs)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load glyph table", err)
	}
	return tbl, nil
}

func (e *env) Close() {
	if e.store == nil {
		return
	}
	if err := e.store.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

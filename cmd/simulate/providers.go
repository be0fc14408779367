package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/event"
	"github.com/cory-johannsen/skirmish/internal/game/npc"
	"github.com/cory-johannsen/skirmish/internal/observability"
	"github.com/cory-johannsen/skirmish/internal/scripting"
	"github.com/cory-johannsen/skirmish/internal/simulation"
	"github.com/cory-johannsen/skirmish/internal/storage/postgres"
)

// app holds everything main needs once wiring is complete.
type app struct {
	Logger  *zap.Logger
	Catalog *npc.Catalog
	Engine  *combat.Engine
	Runner  *simulation.Runner
}

func provideLogger(cfg config.Config) (*zap.Logger, func(), error) {
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing logger: %w", err)
	}
	return logger, func() { _ = logger.Sync() }, nil
}

// provideSource picks a seeded source for reproducible runs, crypto otherwise.
func provideSource(cfg config.Config, logger *zap.Logger) dice.Source {
	var src dice.Source
	if cfg.Combat.Seed != 0 {
		src = dice.NewSeededSource(cfg.Combat.Seed)
		logger.Info("using seeded randomness", zap.Uint64("seed", cfg.Combat.Seed))
	} else {
		src = dice.NewCryptoSource()
	}
	if cfg.Combat.LogDraws {
		src = dice.NewLoggedSource(src, logger)
	}
	return src
}

func provideScripts(cfg config.Config, logger *zap.Logger) (*scripting.Manager, func(), error) {
	mgr := scripting.NewManager(logger)
	if cfg.Content.ScriptsDir == "" {
		logger.Info("scripting disabled")
		return mgr, mgr.Close, nil
	}
	start := time.Now()
	if err := mgr.LoadTree(cfg.Content.ScriptsDir, cfg.Content.ScriptInstructionLimit); err != nil {
		mgr.Close()
		return nil, nil, fmt.Errorf("loading scripts: %w", err)
	}
	logger.Info("scripts loaded",
		zap.Strings("scopes", mgr.Scopes()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return mgr, mgr.Close, nil
}

// provideBus logs every event and forwards it to the script hooks.
func provideBus(logger *zap.Logger, scripts *scripting.Manager) *event.Bus {
	bus := event.NewBus(logger)
	bus.SubscribeAll(event.Logged(logger))
	bus.SubscribeAll(scripts.Handle)
	return bus
}

func provideRates(cfg config.Config) npc.RarityRates {
	return cfg.Combat.DropRates
}

func provideCatalog(cfg config.Config, logger *zap.Logger) (*npc.Catalog, error) {
	templates, err := npc.LoadTemplates(cfg.Content.CreaturesDir)
	if err != nil {
		return nil, fmt.Errorf("loading creatures: %w", err)
	}
	catalog, err := npc.NewCatalog(templates)
	if err != nil {
		return nil, err
	}
	logger.Info("creatures loaded", zap.Int("count", catalog.Len()))
	return catalog, nil
}

// provideRecorder connects to PostgreSQL when persistence is enabled.
func provideRecorder(ctx context.Context, cfg config.Config, logger *zap.Logger) (simulation.Recorder, func(), error) {
	if !cfg.Database.Enabled {
		return simulation.NopRecorder{}, func() {}, nil
	}
	start := time.Now()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	logger.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.Duration("elapsed", time.Since(start)),
	)
	return postgres.NewEncounterRepository(pool.DB()), pool.Close, nil
}

func provideRunnerOptions(cfg config.Config) simulation.Options {
	return simulation.Options{
		FleeBelowPercent: cfg.Simulation.FleeBelowPercent,
		MaxTurns:         cfg.Simulation.MaxTurns,
	}
}

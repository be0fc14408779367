//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/event"
	"github.com/cory-johannsen/skirmish/internal/simulation"
)

func initializeApp(ctx context.Context, cfg config.Config) (*app, func(), error) {
	wire.Build(
		provideLogger,
		provideSource,
		provideScripts,
		provideBus,
		wire.Bind(new(combat.Sink), new(*event.Bus)),
		provideRates,
		combat.NewEngine,
		provideRecorder,
		provideRunnerOptions,
		simulation.NewRunner,
		provideCatalog,
		wire.Struct(new(app), "*"),
	)
	return nil, nil, nil
}

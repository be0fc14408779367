// Package main runs simulated fights between a preset character and a creature
// and prints a summary of the results.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/character"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/simulation"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	playerPath := flag.String("player", "content/characters/novice.yaml", "path to a character preset YAML file")
	creatureID := flag.String("creature", "goblin", "id of the creature to fight")
	fights := flag.Int("fights", 1, "number of fights to run")
	styleName := flag.String("style", "", "combat style; empty uses simulation.style from the config")
	flag.Parse()

	if *fights < 1 {
		log.Fatalf("-fights must be >= 1, got %d", *fights)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *styleName != "" {
		cfg.Simulation.Style = *styleName
	}
	style, err := combat.ParseStyle(cfg.Simulation.Style)
	if err != nil {
		log.Fatalf("%v", err)
	}

	a, cleanup, err := initializeApp(ctx, cfg)
	if err != nil {
		log.Fatalf("initializing: %v", err)
	}
	defer cleanup()
	logger := a.Logger

	player, err := character.LoadPreset(*playerPath)
	if err != nil {
		logger.Fatal("loading character", zap.Error(err))
	}
	creature, ok := a.Catalog.Get(*creatureID)
	if !ok {
		logger.Fatal("unknown creature",
			zap.String("creature", *creatureID),
			zap.Strings("known", a.Catalog.IDs()),
		)
	}

	logger.Info("simulation starting",
		zap.String("player", player.Name),
		zap.Int("combat_level", player.CombatLevel()),
		zap.String("creature", creature.ID),
		zap.Stringer("style", style),
		zap.Int("fights", *fights),
	)

	sum, err := a.Runner.Series(ctx, player, creature, style, *fights)
	printSummary(os.Stdout, player, creature.Name, sum)
	if err != nil && !errors.Is(err, simulation.ErrTurnLimit) {
		logger.Error("simulation stopped", zap.Error(err))
	}
	logger.Info("simulation finished",
		zap.Int("active_sessions", a.Engine.Active()),
		zap.Duration("elapsed", time.Since(start)),
	)
}

func printSummary(w io.Writer, player *character.Character, creature string, sum simulation.Summary) {
	fmt.Fprintf(w, "%s vs %s: %d fights\n", player.Name, creature, sum.Fights)
	fmt.Fprintf(w, "  victories %d  deaths %d  fled %d  turns %d\n", sum.Victories, sum.Deaths, sum.Fled, sum.Turns)
	fmt.Fprintf(w, "  experience %d\n", sum.TotalExperience)
	for _, up := range sum.LevelUps {
		fmt.Fprintf(w, "  level up: %s %d\n", up.Skill, up.Level)
	}
	for _, id := range sum.ItemIDs() {
		fmt.Fprintf(w, "  drop: %s x%d\n", id, sum.Items[id])
	}
	if task := player.SlayerTask(); task != nil {
		fmt.Fprintf(w, "  slayer task: %s %d/%d remaining\n", task.Category, task.Remaining, task.Total)
	}
}

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/character"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/simulation"
)

func TestPrintSummary(t *testing.T) {
	player := character.New("tester")
	player.Task = character.NewSlayerTask("Goblins", 10)
	player.Task.Remaining = 7

	sum := simulation.Summary{
		Fights:          3,
		Victories:       2,
		Deaths:          1,
		Turns:           12,
		TotalExperience: 40,
		Items:           map[string]int{"coins": 9, "bones": 2},
		LevelUps:        []simulation.LevelUpRecord{{Skill: "Attack", Level: 2}},
	}

	var buf bytes.Buffer
	printSummary(&buf, player, "Goblin", sum)
	out := buf.String()

	assert.Contains(t, out, "tester vs Goblin: 3 fights")
	assert.Contains(t, out, "victories 2  deaths 1  fled 0  turns 12")
	assert.Contains(t, out, "level up: Attack 2")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("drop: bones x2")), bytes.Index(buf.Bytes(), []byte("drop: coins x9")))
	assert.Contains(t, out, "slayer task: Goblins 7/10 remaining")
}

func TestProvideSource_SeededIsReproducible(t *testing.T) {
	cfg := config.Config{Combat: config.CombatConfig{Seed: 99}}
	a := provideSource(cfg, zap.NewNop())
	b := provideSource(cfg, zap.NewNop())
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Intn(100), b.Intn(100))
	}
}

func TestProvideSource_LogDrawsWraps(t *testing.T) {
	cfg := config.Config{Combat: config.CombatConfig{Seed: 1, LogDraws: true}}
	_, ok := provideSource(cfg, zap.NewNop()).(*dice.LoggedSource)
	assert.True(t, ok)
}

func TestProvideRecorder_DisabledIsNop(t *testing.T) {
	rec, cleanup, err := provideRecorder(t.Context(), config.Config{}, zap.NewNop())
	require.NoError(t, err)
	defer cleanup()
	assert.IsType(t, simulation.NopRecorder{}, rec)
}

func TestInitializeApp_LoadsRepositoryContent(t *testing.T) {
	v := config.Defaults()
	v.Set("content.creatures_dir", "../../content/creatures")
	v.Set("content.scripts_dir", "../../content/scripts")
	v.Set("logging.level", "error")
	cfg, err := config.LoadFromViper(v)
	require.NoError(t, err)

	a, cleanup, err := initializeApp(t.Context(), cfg)
	require.NoError(t, err)
	defer cleanup()

	_, ok := a.Catalog.Get("goblin")
	assert.True(t, ok)

	player, err := character.LoadPreset("../../content/characters/novice.yaml")
	require.NoError(t, err)
	creature, _ := a.Catalog.Get("cow")
	sum, err := a.Runner.Series(t.Context(), player, creature, combat.Controlled, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Fights)
	assert.Equal(t, 0, a.Engine.Active())
}

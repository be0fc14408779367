package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/character"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/dice/dicetest"
	"github.com/cory-johannsen/skirmish/internal/game/event"
	"github.com/cory-johannsen/skirmish/internal/game/npc"
	"github.com/cory-johannsen/skirmish/internal/game/skill"
)

type recorder struct {
	events []event.Event
}

func (r *recorder) Publish(ev event.Event) { r.events = append(r.events, ev) }

func (r *recorder) kinds() []event.Kind {
	out := make([]event.Kind, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Kind())
	}
	return out
}

func newEngine(src dice.Source, rec *recorder) *combat.Engine {
	return combat.NewEngine(src, rec, npc.DefaultRarityRates(), zap.NewNop())
}

// dummy has 20 HP and a defence roll of exactly 50.
func dummy() *npc.Template {
	return &npc.Template{
		ID:            "dummy",
		Name:          "Training Dummy",
		Hitpoints:     20,
		AttackLevel:   1,
		StrengthLevel: 1,
		DefenceLevel:  1,
		DefenceBonus:  npc.StyleBonuses{Crush: -59},
		Attacks:       []npc.Attack{{Style: npc.StyleCrush, MaxHit: 1}},
	}
}

// scenarioPlayer has an attack roll of 100 and a max hit of 10.
func scenarioPlayer() *character.Character {
	p := character.New("hero")
	p.SetLevel(skill.Strength, 87)
	p.Equipment.Attack = -54
	return p
}

func TestExecuteTurn_HitAwardsStyleExperience(t *testing.T) {
	rec := &recorder{}
	src := dicetest.NewScripted(5).WithFloats(0.0, 0.99)
	eng := newEngine(src, rec)
	p := scenarioPlayer()
	s, err := eng.Start(p, dummy())
	require.NoError(t, err)

	res, err := eng.ExecuteTurn(s, combat.Accurate)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Turn)
	assert.Equal(t, 100, res.Player.AttackRoll)
	assert.Equal(t, 50, res.Player.DefenceRoll)
	assert.True(t, res.Player.Hit)
	assert.Equal(t, 10, res.Player.MaxHit)
	assert.Equal(t, 5, res.Player.Damage)
	assert.Equal(t, combat.Experience{Attack: 20, Hitpoints: 6}, res.Player.Experience)
	assert.Equal(t, 15, s.CreatureHP())
	assert.False(t, res.Complete)

	require.NotNil(t, res.Creature)
	assert.True(t, res.Creature.Attacked)
	assert.False(t, res.Creature.Hit)

	assert.Equal(t, 20, p.SkillLevel(skill.Attack).Experience())
	assert.Equal(t, []event.Kind{event.KindExperienceGained, event.KindExperienceGained}, rec.kinds())
	gained := rec.events[0].(combat.ExperienceGained)
	assert.Equal(t, skill.Attack, gained.Skill)
	assert.Equal(t, 20, gained.Amount)
	assert.Equal(t, 20, gained.Total)

	rewards := s.Rewards()
	assert.Equal(t, 26, rewards.Total)
	assert.Equal(t, 6, rewards.Experience[skill.Hitpoints])
}

func TestExecuteTurn_MissAwardsNothing(t *testing.T) {
	rec := &recorder{}
	src := dicetest.NewScripted(1).WithFloats(0.999, 0.0)
	eng := newEngine(src, rec)
	p := scenarioPlayer()
	s, err := eng.Start(p, dummy())
	require.NoError(t, err)

	res, err := eng.ExecuteTurn(s, combat.Aggressive)
	require.NoError(t, err)
	assert.False(t, res.Player.Hit)
	assert.Equal(t, 0, res.Player.Damage)
	assert.Equal(t, 20, s.CreatureHP())
	require.NotNil(t, res.Creature)
	assert.True(t, res.Creature.Hit)
	assert.Equal(t, 1, res.Creature.Damage)
	assert.Equal(t, p.MaxHP()-1, p.Health())
	assert.Empty(t, rec.events)
}

func TestExecuteTurn_KillingBlowSkipsCounterAttack(t *testing.T) {
	rec := &recorder{}
	src := dicetest.NewScripted(10).WithFloats(0.0)
	eng := newEngine(src, rec)
	creature := dummy()
	creature.Hitpoints = 4
	s, err := eng.Start(scenarioPlayer(), creature)
	require.NoError(t, err)

	res, err := eng.ExecuteTurn(s, combat.Defensive)
	require.NoError(t, err)
	assert.Nil(t, res.Creature)
	assert.True(t, res.Complete)
	assert.True(t, s.PlayerWon())
	assert.Equal(t, 4, res.Player.Damage, "damage is capped at remaining hitpoints")
	assert.Equal(t, 16, res.Player.Experience.Defence)
	assert.Equal(t, 1, src.FloatCalls())
}

func TestExecuteTurn_CreatureWithoutAttacks(t *testing.T) {
	src := dicetest.NewScripted().WithFloats(0.999)
	eng := newEngine(src, &recorder{})
	creature := dummy()
	creature.Attacks = nil
	p := scenarioPlayer()
	s, err := eng.Start(p, creature)
	require.NoError(t, err)

	res, err := eng.ExecuteTurn(s, combat.Controlled)
	require.NoError(t, err)
	require.NotNil(t, res.Creature)
	assert.False(t, res.Creature.Attacked)
	assert.Equal(t, 0, res.Creature.Damage)
	assert.Equal(t, p.MaxHP(), p.Health())
	assert.Equal(t, 1, src.FloatCalls())
}

func TestExecuteTurn_Errors(t *testing.T) {
	eng := newEngine(dicetest.NewScripted(), &recorder{})
	s, err := eng.Start(scenarioPlayer(), dummy())
	require.NoError(t, err)

	_, err = eng.ExecuteTurn(s, combat.StyleUnknown)
	assert.ErrorIs(t, err, combat.ErrInvalidStyle)
	assert.Equal(t, 0, s.Turn())

	s.DamageCreature(20)
	_, err = eng.ExecuteTurn(s, combat.Accurate)
	assert.ErrorIs(t, err, combat.ErrSessionComplete)
}

func TestExecuteTurn_LevelUpPublished(t *testing.T) {
	rec := &recorder{}
	src := dicetest.NewScripted(10).WithFloats(0.0, 0.999)
	eng := newEngine(src, rec)
	p := scenarioPlayer()
	p.Skills[skill.Attack] = skill.FromExperience(80)
	s, err := eng.Start(p, dummy())
	require.NoError(t, err)

	_, err = eng.ExecuteTurn(s, combat.Accurate)
	require.NoError(t, err)
	assert.Equal(t, 2, p.SkillLevel(skill.Attack).Level())

	var ups []combat.LevelUpEvent
	for _, ev := range rec.events {
		if up, ok := ev.(combat.LevelUpEvent); ok {
			ups = append(ups, up)
		}
	}
	require.Len(t, ups, 1)
	assert.Equal(t, skill.Attack, ups[0].Skill)
	assert.Equal(t, 2, ups[0].Level)
	assert.Equal(t, []combat.LevelUp{{Skill: skill.Attack, Level: 2}}, s.Rewards().LevelUps)
}

func TestProcessOutcome_VictoryRollsDrops(t *testing.T) {
	rec := &recorder{}
	src := dicetest.NewScripted(0, 1)
	eng := newEngine(src, rec)
	creature := dummy()
	creature.Drops = &npc.DropTable{Entries: []npc.DropEntry{
		{ItemID: "bones", Rarity: npc.RarityAlways, MinQty: 1, MaxQty: 3},
	}}
	s, err := eng.Start(scenarioPlayer(), creature)
	require.NoError(t, err)
	assert.Equal(t, 1, eng.Active())

	s.DamageCreature(20)
	out, err := eng.ProcessOutcome(s)
	require.NoError(t, err)

	assert.Equal(t, combat.Victory, out.Outcome)
	assert.Equal(t, s.ID(), out.SessionID)
	require.Len(t, out.Drops, 1)
	assert.Equal(t, "bones", out.Drops[0].ItemID)
	assert.Equal(t, 2, out.Drops[0].Quantity)
	assert.Nil(t, out.Slayer)

	require.Equal(t, []event.Kind{event.KindCombatEnded}, rec.kinds())
	assert.Equal(t, combat.Victory, rec.events[0].(combat.CombatEnded).Outcome)
	assert.Equal(t, 0, eng.Active())

	_, err = eng.ProcessOutcome(s)
	assert.ErrorIs(t, err, combat.ErrOutcomeProcessed)
}

func TestProcessOutcome_NoDropTableIsEmpty(t *testing.T) {
	eng := newEngine(dicetest.NewScripted(), &recorder{})
	s, err := eng.Start(scenarioPlayer(), dummy())
	require.NoError(t, err)
	s.DamageCreature(20)

	out, err := eng.ProcessOutcome(s)
	require.NoError(t, err)
	assert.NotNil(t, out.Drops)
	assert.Empty(t, out.Drops)
}

func TestProcessOutcome_DeathEventOrder(t *testing.T) {
	rec := &recorder{}
	eng := newEngine(dicetest.NewScripted(), rec)
	p := scenarioPlayer()
	s, err := eng.Start(p, dummy())
	require.NoError(t, err)

	s.DamagePlayer(p.Health())
	out, err := eng.ProcessOutcome(s)
	require.NoError(t, err)

	assert.Equal(t, combat.Death, out.Outcome)
	assert.Empty(t, out.Drops)
	assert.Equal(t, []event.Kind{event.KindPlayerDied, event.KindCombatEnded}, rec.kinds())
	assert.Equal(t, combat.Death, rec.events[1].(combat.CombatEnded).Outcome)
}

func TestProcessOutcome_SlayerTaskCompletes(t *testing.T) {
	rec := &recorder{}
	eng := newEngine(dicetest.NewScripted(), rec)
	p := scenarioPlayer()
	p.Task = character.NewSlayerTask("Goblins", 1)
	s, err := eng.Start(p, goblin(5))
	require.NoError(t, err)

	s.DamageCreature(5)
	out, err := eng.ProcessOutcome(s)
	require.NoError(t, err)

	require.NotNil(t, out.Slayer)
	assert.Equal(t, 0, out.Slayer.Remaining)
	assert.True(t, out.Slayer.Completed)
	assert.Equal(t, 5, out.Slayer.Experience)
	assert.Equal(t, 0, p.Task.Remaining)
	assert.Equal(t, 5, p.SkillLevel(skill.Slayer).Experience())
	assert.Equal(t, []event.Kind{
		event.KindCombatEnded,
		event.KindExperienceGained,
		event.KindSlayerTaskCompleted,
	}, rec.kinds())
	assert.Equal(t, "Goblins", rec.events[2].(combat.SlayerTaskCompleted).Category)
}

func TestProcessOutcome_SlayerTaskOtherCategoryUntouched(t *testing.T) {
	eng := newEngine(dicetest.NewScripted(), &recorder{})
	p := scenarioPlayer()
	p.Task = character.NewSlayerTask("Cows", 3)
	s, err := eng.Start(p, goblin(5))
	require.NoError(t, err)
	s.DamageCreature(5)

	out, err := eng.ProcessOutcome(s)
	require.NoError(t, err)
	assert.Nil(t, out.Slayer)
	assert.Equal(t, 3, p.Task.Remaining)
}

func TestProcessOutcome_Rejections(t *testing.T) {
	eng := newEngine(dicetest.NewScripted(0), &recorder{})
	s, err := eng.Start(scenarioPlayer(), dummy())
	require.NoError(t, err)

	_, err = eng.ProcessOutcome(s)
	assert.ErrorIs(t, err, combat.ErrSessionNotComplete)

	require.True(t, eng.Flee(s))
	_, err = eng.ProcessOutcome(s)
	assert.ErrorIs(t, err, combat.ErrSessionFled)
	assert.Equal(t, 0, eng.Active())
}

func TestStart_Preconditions(t *testing.T) {
	eng := newEngine(dicetest.NewScripted(), &recorder{})

	gated := goblin(5)
	gated.Slayer.LevelRequired = 15
	_, err := eng.Start(scenarioPlayer(), gated)
	assert.ErrorIs(t, err, combat.ErrSlayerLevelTooLow)

	p := scenarioPlayer()
	p.SetLevel(skill.Slayer, 15)
	s, err := eng.Start(p, gated)
	require.NoError(t, err)
	got, ok := eng.Get(s.ID())
	assert.True(t, ok)
	assert.Same(t, s, got)

	dead := scenarioPlayer()
	dead.TakeDamage(dead.Health())
	_, err = eng.Start(dead, dummy())
	assert.ErrorIs(t, err, combat.ErrPlayerDead)
}

func TestNewEngine_NilSinkDiscards(t *testing.T) {
	eng := combat.NewEngine(dicetest.NewScripted(), nil, npc.DefaultRarityRates(), zap.NewNop())
	s, err := eng.Start(scenarioPlayer(), dummy())
	require.NoError(t, err)
	s.DamageCreature(20)
	_, err = eng.ProcessOutcome(s)
	assert.NoError(t, err)
}

// Property: a fight driven to completion with a seeded source always ends in
// exactly one terminal state and processes cleanly.
func TestProperty_FightTerminates(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		style := rapid.SampledFrom(combat.Styles).Draw(rt, "style")
		rec := &recorder{}
		eng := newEngine(dice.NewSeededSource(seed), rec)
		p := character.New("hero")
		creature := goblin(rapid.IntRange(1, 30).Draw(rt, "hp"))

		s, err := eng.Start(p, creature)
		require.NoError(rt, err)
		for turns := 0; !s.IsComplete(); turns++ {
			require.Less(rt, turns, 10_000)
			_, err := eng.ExecuteTurn(s, style)
			require.NoError(rt, err)
		}
		assert.NotEqual(rt, s.PlayerWon(), s.PlayerDied())

		out, err := eng.ProcessOutcome(s)
		require.NoError(rt, err)
		assert.Equal(rt, s.Rewards().Total, out.Rewards.Total)
		last := rec.events[len(rec.events)-1]
		if s.PlayerWon() {
			assert.Equal(rt, combat.Victory, out.Outcome)
		} else {
			assert.Equal(rt, event.KindCombatEnded, last.Kind())
		}
	})
}

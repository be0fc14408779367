// Package simulation drives combat sessions the way an interactive caller
// would: one turn at a time, fleeing when health runs low, and processing the
// outcome once a fight ends by damage.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/character"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/npc"
	"github.com/cory-johannsen/skirmish/internal/observability"
)

// ErrTurnLimit is returned when a fight runs past Options.MaxTurns.
var ErrTurnLimit = errors.New("simulation: turn limit reached")

// Options controls the runner's decisions.
type Options struct {
	// FleeBelowPercent triggers a flee attempt each turn the player's health is
	// below this percentage of maximum. 0 disables fleeing.
	FleeBelowPercent int
	// MaxTurns aborts a fight after this many turns.
	MaxTurns int
}

// Runner plays encounters against a combat.Engine and records their reports.
type Runner struct {
	engine   *combat.Engine
	recorder Recorder
	opts     Options
	logger   *zap.Logger
	now      func() time.Time
}

// NewRunner creates a Runner. A nil recorder discards reports.
//
// Precondition: engine and logger must be non-nil; opts.MaxTurns >= 1.
// Postcondition: Returns a non-nil Runner.
func NewRunner(engine *combat.Engine, recorder Recorder, opts Options, logger *zap.Logger) *Runner {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &Runner{
		engine:   engine,
		recorder: recorder,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}

// shouldFlee reports whether the player's health is under the flee threshold.
func (r *Runner) shouldFlee(p *character.Character) bool {
	if r.opts.FleeBelowPercent <= 0 {
		return false
	}
	return p.Health()*100 < r.opts.FleeBelowPercent*p.MaxHP()
}

// Fight runs one encounter to completion. Each turn the player first tries to
// flee if under the threshold; a failed attempt is followed by a normal turn.
// Damage-completed fights have their outcome processed. The report is recorded
// before it is returned.
//
// Precondition: player and creature must be non-nil; style must be valid.
// Postcondition: On ErrTurnLimit the returned report has ResultAborted and the
// session is removed from the engine.
func (r *Runner) Fight(ctx context.Context, player *character.Character, creature *npc.Template, style combat.Style) (*Report, error) {
	s, err := r.engine.Start(player, creature)
	if err != nil {
		return nil, fmt.Errorf("starting fight against %s: %w", creature.ID, err)
	}
	log := observability.ForEncounter(r.logger, s.ID(), creature.ID)

	rep := &Report{
		ID:         uuid.New().String(),
		SessionID:  s.ID(),
		Player:     player.Name,
		CreatureID: creature.ID,
		Style:      style.String(),
		HPStart:    player.Health(),
		Drops:      []npc.Drop{},
		StartedAt:  r.now(),
	}

	for !s.IsComplete() {
		if err := ctx.Err(); err != nil {
			r.engine.End(s.ID())
			return nil, err
		}
		if s.Turn() >= r.opts.MaxTurns {
			r.engine.End(s.ID())
			r.finish(rep, s, ResultAborted)
			log.Warn("fight aborted", zap.Int("turns", s.Turn()))
			return rep, fmt.Errorf("%w: %d turns against %s", ErrTurnLimit, s.Turn(), creature.ID)
		}
		if r.shouldFlee(player) && r.engine.Flee(s) {
			break
		}
		res, err := r.engine.ExecuteTurn(s, style)
		if err != nil {
			r.engine.End(s.ID())
			return nil, fmt.Errorf("executing turn %d: %w", s.Turn()+1, err)
		}
		rep.DamageDealt += res.Player.Damage
		if res.Creature != nil {
			rep.DamageTaken += res.Creature.Damage
		}
	}

	if s.PlayerFled() {
		r.finish(rep, s, ResultFled)
	} else {
		out, err := r.engine.ProcessOutcome(s)
		if err != nil {
			return nil, fmt.Errorf("processing outcome: %w", err)
		}
		result := ResultVictory
		if out.Outcome == combat.Death {
			result = ResultDeath
		}
		rep.Slayer = out.Slayer
		rep.Drops = out.Drops
		r.finish(rep, s, result)
	}

	log.Info("fight finished",
		zap.String("result", string(rep.Result)),
		zap.Int("turns", rep.Turns),
		zap.Int("experience", rep.TotalExperience),
	)
	if err := r.recorder.Record(ctx, rep); err != nil {
		return rep, fmt.Errorf("recording encounter: %w", err)
	}
	return rep, nil
}

func (r *Runner) finish(rep *Report, s *combat.Session, result Result) {
	rep.Result = result
	rep.Turns = s.Turn()
	rep.HPEnd = s.Player().Health()
	rep.applyRewards(s.Rewards())
	rep.EndedAt = r.now()
}

// Series runs n fights in a row, healing the player to full before each. It
// stops at the first error.
//
// Precondition: n >= 1.
func (r *Runner) Series(ctx context.Context, player *character.Character, creature *npc.Template, style combat.Style, n int) (Summary, error) {
	var sum Summary
	for i := 0; i < n; i++ {
		player.Heal(player.MaxHP())
		rep, err := r.Fight(ctx, player, creature, style)
		if rep != nil {
			sum.Add(rep)
		}
		if err != nil {
			return sum, fmt.Errorf("fight %d: %w", i+1, err)
		}
	}
	return sum, nil
}

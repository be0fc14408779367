package combat

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/character"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/npc"
	"github.com/cory-johannsen/skirmish/internal/game/skill"
)

// SlayerProgress describes what a victory did to the player's slayer task.
type SlayerProgress struct {
	Category   string `json:"category"`
	Remaining  int    `json:"remaining"`
	Total      int    `json:"total"`
	Experience int    `json:"experience"`
	Completed  bool   `json:"completed"`
}

// OutcomeResult is the record of a processed win or loss.
type OutcomeResult struct {
	SessionID string
	Outcome   Outcome
	Turns     int
	// Slayer is nil when no matching slayer task was progressed.
	Slayer *SlayerProgress
	// Drops is empty, never nil, when nothing dropped.
	Drops   []npc.Drop
	Rewards Rewards
}

// Engine resolves turns and outcomes for combat sessions and tracks the ones in progress.
// Registry methods are safe for concurrent use; an individual Session is not.
type Engine struct {
	calc   *Calculator
	src    dice.Source
	sink   Sink
	rates  npc.RarityRates
	logger *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewEngine creates an Engine drawing all randomness from src and publishing to sink.
// A nil sink discards events.
//
// Precondition: src and logger must be non-nil; rates must be valid.
// Postcondition: Returns a non-nil Engine with no active sessions.
func NewEngine(src dice.Source, sink Sink, rates npc.RarityRates, logger *zap.Logger) *Engine {
	if sink == nil {
		sink = nopSink{}
	}
	return &Engine{
		calc:     NewCalculator(src),
		src:      src,
		sink:     sink,
		rates:    rates,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Start opens a new session between player and creature.
//
// Precondition: player and creature must be non-nil.
// Postcondition: Returns a registered session, or ErrPlayerDead or ErrSlayerLevelTooLow.
func (e *Engine) Start(player Player, creature *npc.Template) (*Session, error) {
	if player.Health() <= 0 {
		return nil, ErrPlayerDead
	}
	if req := creature.Slayer.LevelRequired; req > 0 {
		if have := player.SkillLevel(skill.Slayer).Level(); have < req {
			return nil, fmt.Errorf("%w: %s requires %d, have %d", ErrSlayerLevelTooLow, creature.ID, req, have)
		}
	}

	s := NewSession(player, creature, e.src)
	e.mu.Lock()
	e.sessions[s.ID()] = s
	e.mu.Unlock()

	e.logger.Info("combat started",
		zap.String("session", s.ID()),
		zap.String("creature", creature.ID),
		zap.Int("creature_hp", creature.Hitpoints),
		zap.Int("player_hp", player.Health()),
	)
	return s, nil
}

// Get returns the active session with id.
func (e *Engine) Get(id string) (*Session, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s, ok := e.sessions[id]
	return s, ok
}

// Active returns the number of registered sessions.
func (e *Engine) Active() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.sessions)
}

// End removes the session with id from the registry. Unknown ids are ignored.
func (e *Engine) End(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.sessions, id)
}

// ExecuteTurn advances the session one turn: the player attacks, experience is
// awarded, and if the creature survives it attacks back.
//
// Precondition: s must be non-nil.
// Postcondition: Returns ErrSessionComplete without any effect when s is already
// complete, or ErrInvalidStyle when style is not valid.
func (e *Engine) ExecuteTurn(s *Session, style Style) (TurnResult, error) {
	if s.IsComplete() {
		return TurnResult{}, ErrSessionComplete
	}
	if !style.Valid() {
		return TurnResult{}, fmt.Errorf("%w: %d", ErrInvalidStyle, int(style))
	}

	s.AdvanceTurn()
	res := TurnResult{Turn: s.Turn()}
	res.Player = resolvePlayerAttack(s, e.calc, style)
	e.award(s, res.Player.Experience.BySkill())

	if !s.PlayerWon() {
		ca := resolveCreatureAttack(s, e.calc)
		res.Creature = &ca
	}
	res.Complete = s.IsComplete()

	fields := []zap.Field{
		zap.String("session", s.ID()),
		zap.Int("turn", res.Turn),
		zap.Bool("player_hit", res.Player.Hit),
		zap.Int("player_damage", res.Player.Damage),
		zap.Int("creature_hp", s.CreatureHP()),
		zap.Int("player_hp", s.player.Health()),
	}
	if res.Creature != nil {
		fields = append(fields,
			zap.Bool("creature_hit", res.Creature.Hit),
			zap.Int("creature_damage", res.Creature.Damage),
		)
	}
	e.logger.Debug("combat turn", fields...)
	return res, nil
}

// Flee makes one flee attempt and, if it succeeds, removes s from the registry.
//
// Precondition: s must be non-nil.
func (e *Engine) Flee(s *Session) bool {
	fled := s.AttemptFlee()
	if fled {
		e.End(s.ID())
		e.logger.Info("player fled",
			zap.String("session", s.ID()),
			zap.Int("turn", s.Turn()),
		)
	}
	return fled
}

// ProcessOutcome publishes the terminal events for a finished session and, on
// victory, progresses the slayer task and rolls drops. The session is then
// removed from the registry. Each session may be processed once.
//
// Precondition: s must be non-nil.
// Postcondition: Returns ErrSessionNotComplete, ErrSessionFled, or
// ErrOutcomeProcessed without side effects when processing is not allowed.
func (e *Engine) ProcessOutcome(s *Session) (OutcomeResult, error) {
	switch {
	case !s.IsComplete():
		return OutcomeResult{}, ErrSessionNotComplete
	case s.PlayerFled():
		return OutcomeResult{}, ErrSessionFled
	case s.processed:
		return OutcomeResult{}, ErrOutcomeProcessed
	}
	s.processed = true
	defer e.End(s.ID())

	res := OutcomeResult{
		SessionID: s.ID(),
		Turns:     s.Turn(),
		Drops:     []npc.Drop{},
	}
	ended := CombatEnded{SessionID: s.ID(), CreatureID: s.creature.ID, Turns: s.Turn()}

	if s.PlayerDied() {
		res.Outcome = Death
		ended.Outcome = Death
		e.sink.Publish(PlayerDied{SessionID: s.ID(), CreatureID: s.creature.ID})
		e.sink.Publish(ended)
		res.Rewards = s.Rewards()
		e.logger.Info("combat lost",
			zap.String("session", s.ID()),
			zap.String("creature", s.creature.ID),
			zap.Int("turns", s.Turn()),
		)
		return res, nil
	}

	res.Outcome = Victory
	ended.Outcome = Victory
	e.sink.Publish(ended)
	res.Slayer = e.progressSlayer(s)
	if drops := s.creature.Drops.Roll(e.src, e.rates); len(drops) > 0 {
		res.Drops = drops
	}
	res.Rewards = s.Rewards()

	e.logger.Info("combat won",
		zap.String("session", s.ID()),
		zap.String("creature", s.creature.ID),
		zap.Int("turns", s.Turn()),
		zap.Int("experience", res.Rewards.Total),
		zap.Int("drops", len(res.Drops)),
	)
	return res, nil
}

// progressSlayer records the kill against a matching slayer task and awards
// the creature's slayer experience.
func (e *Engine) progressSlayer(s *Session) *SlayerProgress {
	task := s.player.SlayerTask()
	info := s.creature.Slayer
	if task == nil || task.Complete() || info.Experience <= 0 || !task.Matches(info.Category) {
		return nil
	}
	completed := task.RecordKill()
	e.award(s, []SkillAmount{{Skill: skill.Slayer, Amount: info.Experience}})
	if completed {
		e.sink.Publish(SlayerTaskCompleted{SessionID: s.ID(), Category: task.Category, Total: task.Total})
	}
	return slayerProgress(task, info.Experience, completed)
}

func slayerProgress(task *character.SlayerTask, xp int, completed bool) *SlayerProgress {
	return &SlayerProgress{
		Category:   task.Category,
		Remaining:  task.Remaining,
		Total:      task.Total,
		Experience: xp,
		Completed:  completed,
	}
}

// award grants each amount to the player, records it on the session, and
// publishes ExperienceGained plus LevelUpEvent when a level boundary is crossed.
func (e *Engine) award(s *Session, amounts []SkillAmount) {
	for _, a := range amounts {
		before, after := s.player.AddExperience(a.Skill, a.Amount)
		gained := after.Experience() - before.Experience()
		if gained <= 0 {
			continue
		}
		s.rewards.add(a.Skill, gained)
		e.sink.Publish(ExperienceGained{
			SessionID: s.ID(),
			Skill:     a.Skill,
			Amount:    gained,
			Total:     after.Experience(),
		})
		if after.Level() > before.Level() {
			s.rewards.LevelUps = append(s.rewards.LevelUps, LevelUp{Skill: a.Skill, Level: after.Level()})
			e.sink.Publish(LevelUpEvent{SessionID: s.ID(), Skill: a.Skill, Level: after.Level()})
			e.logger.Info("level up",
				zap.String("session", s.ID()),
				zap.Stringer("skill", a.Skill),
				zap.Int("level", after.Level()),
			)
		}
	}
}

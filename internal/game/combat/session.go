package combat

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/npc"
	"github.com/cory-johannsen/skirmish/internal/game/skill"
)

// Flee chance bounds, in percent.
const (
	fleeBaseChance    = 25
	fleeChancePerTurn = 5
	fleeMaxChance     = 75
)

// FleeChance returns the percent chance that a flee attempt succeeds on turn.
//
// Postcondition: Returns min(75, 25 + 5×turn).
func FleeChance(turn int) int {
	chance := fleeBaseChance + fleeChancePerTurn*turn
	if chance > fleeMaxChance {
		return fleeMaxChance
	}
	return chance
}

// LevelUp records a skill reaching a new level during a session.
type LevelUp struct {
	Skill skill.Skill
	Level int
}

// Rewards accumulates what the player earned over a session.
type Rewards struct {
	// Experience is the total experience per skill.
	Experience map[skill.Skill]int
	// Total is the sum of Experience.
	Total int
	// LevelUps lists level gains in the order they happened.
	LevelUps []LevelUp
}

func (r *Rewards) add(s skill.Skill, amount int) {
	if r.Experience == nil {
		r.Experience = make(map[skill.Skill]int)
	}
	r.Experience[s] += amount
	r.Total += amount
}

func (r Rewards) clone() Rewards {
	out := Rewards{Total: r.Total}
	if r.Experience != nil {
		out.Experience = make(map[skill.Skill]int, len(r.Experience))
		for k, v := range r.Experience {
			out.Experience[k] = v
		}
	}
	out.LevelUps = append([]LevelUp(nil), r.LevelUps...)
	return out
}

// Session is the state of one encounter between a player and a single creature.
// It is not safe for concurrent use.
//
// Invariant: at most one of PlayerWon, PlayerDied, PlayerFled is true, and once
// one is true the session never changes again.
type Session struct {
	id       string
	player   Player
	creature *npc.Template
	src      dice.Source

	creatureHP int
	turn       int
	won        bool
	died       bool
	fled       bool
	processed  bool
	rewards    Rewards
}

// NewSession creates a fresh session at turn 0 with the creature at full hitpoints.
//
// Precondition: player, creature, and src must be non-nil.
// Postcondition: IsComplete() == false; CreatureHP() == creature.Hitpoints.
func NewSession(player Player, creature *npc.Template, src dice.Source) *Session {
	if player == nil || creature == nil || src == nil {
		panic("combat: NewSession called with nil player, creature, or source")
	}
	return &Session{
		id:         uuid.New().String(),
		player:     player,
		creature:   creature,
		src:        src,
		creatureHP: creature.Hitpoints,
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Player returns the participating player.
func (s *Session) Player() Player { return s.player }

// Creature returns the creature definition being fought.
func (s *Session) Creature() *npc.Template { return s.creature }

// CreatureHP returns the creature's remaining hitpoints.
func (s *Session) CreatureHP() int { return s.creatureHP }

// Turn returns the number of turns started so far.
func (s *Session) Turn() int { return s.turn }

// PlayerWon reports whether the creature was reduced to zero hitpoints.
func (s *Session) PlayerWon() bool { return s.won }

// PlayerDied reports whether the player was reduced to zero health.
func (s *Session) PlayerDied() bool { return s.died }

// PlayerFled reports whether the player escaped.
func (s *Session) PlayerFled() bool { return s.fled }

// IsComplete reports whether the session has ended by any means.
func (s *Session) IsComplete() bool { return s.won || s.died || s.fled }

// Rewards returns a copy of the experience and level gains accumulated so far.
func (s *Session) Rewards() Rewards { return s.rewards.clone() }

// DamageCreature reduces the creature's hitpoints, flooring at zero. Reaching
// zero marks the player as the winner. No-op once the session is complete.
//
// Precondition: amount >= 0.
func (s *Session) DamageCreature(amount int) {
	requireNonNegative("amount", amount)
	if s.IsComplete() {
		return
	}
	s.creatureHP -= amount
	if s.creatureHP <= 0 {
		s.creatureHP = 0
		s.won = true
	}
}

// DamagePlayer applies damage to the player. Reaching zero health marks the
// player as dead. No-op once the session is complete.
//
// Precondition: amount >= 0.
func (s *Session) DamagePlayer(amount int) {
	requireNonNegative("amount", amount)
	if s.IsComplete() {
		return
	}
	s.player.TakeDamage(amount)
	if s.player.Health() <= 0 {
		s.died = true
	}
}

// AdvanceTurn increments the turn counter. No-op once the session is complete.
func (s *Session) AdvanceTurn() {
	if s.IsComplete() {
		return
	}
	s.turn++
}

// AttemptFlee draws once from the source and ends the session as fled when the
// draw falls under FleeChance(Turn()). On a complete session no draw is made
// and the current fled flag is returned.
//
// Postcondition: Returns true iff the session is now ended by fleeing.
func (s *Session) AttemptFlee() bool {
	if s.IsComplete() {
		return s.fled
	}
	if s.src.Intn(100) < FleeChance(s.turn) {
		s.fled = true
	}
	return s.fled
}

// Package combat implements turn-based player-versus-creature combat:
// the accuracy and damage formulas, the per-encounter Session state machine,
// and the Engine that resolves turns and outcomes.
package combat

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cory-johannsen/skirmish/internal/game/character"
	"github.com/cory-johannsen/skirmish/internal/game/event"
	"github.com/cory-johannsen/skirmish/internal/game/skill"
)

var (
	// ErrSessionComplete is returned when a turn is requested on a finished session.
	ErrSessionComplete = errors.New("combat: session is already complete")
	// ErrSessionNotComplete is returned when outcome processing is requested too early.
	ErrSessionNotComplete = errors.New("combat: session is not complete")
	// ErrSessionFled is returned when outcome processing is requested after a flee.
	ErrSessionFled = errors.New("combat: session ended by fleeing")
	// ErrOutcomeProcessed is returned when outcome processing is requested twice.
	ErrOutcomeProcessed = errors.New("combat: outcome already processed")
	// ErrSlayerLevelTooLow is returned when the player may not fight the creature yet.
	ErrSlayerLevelTooLow = errors.New("combat: slayer level too low")
	// ErrPlayerDead is returned when a player with no health tries to start combat.
	ErrPlayerDead = errors.New("combat: player has no health")
	// ErrInvalidStyle is returned for the zero or an unrecognised Style.
	ErrInvalidStyle = errors.New("combat: invalid combat style")
)

// Style is the player's combat stance; it decides which skills receive
// experience for damage dealt. The zero value (StyleUnknown) is intentionally invalid.
type Style int

const (
	StyleUnknown Style = iota
	Accurate
	Aggressive
	Defensive
	Controlled
)

// Styles lists every valid Style.
var Styles = []Style{Accurate, Aggressive, Defensive, Controlled}

// String returns the lowercase style name.
func (s Style) String() string {
	switch s {
	case Accurate:
		return "accurate"
	case Aggressive:
		return "aggressive"
	case Defensive:
		return "defensive"
	case Controlled:
		return "controlled"
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of Styles.
func (s Style) Valid() bool {
	return s >= Accurate && s <= Controlled
}

// ParseStyle converts a style name into a Style, case-insensitively.
func ParseStyle(name string) (Style, error) {
	for _, s := range Styles {
		if strings.EqualFold(s.String(), name) {
			return s, nil
		}
	}
	return StyleUnknown, fmt.Errorf("%w: %q", ErrInvalidStyle, name)
}

// Outcome is the terminal result of a session that ended by damage.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	Victory
	Death
)

// String returns a human-readable outcome label.
func (o Outcome) String() string {
	switch o {
	case Victory:
		return "victory"
	case Death:
		return "death"
	default:
		return "unknown"
	}
}

// Player is the player entity consumed by combat. The session and engine
// never own the player; they only read its stats and apply damage and experience.
type Player interface {
	// Health returns current health; 0 means dead.
	Health() int
	// TakeDamage reduces health by amount, flooring at zero.
	TakeDamage(amount int)
	// SkillLevel returns the current level value of s.
	SkillLevel(s skill.Skill) skill.Level
	// AddExperience grants amount experience in s and returns the levels before and after.
	AddExperience(s skill.Skill, amount int) (before, after skill.Level)
	// EquipmentBonuses returns the player's aggregate equipment bonuses.
	EquipmentBonuses() character.Bonuses
	// SlayerTask returns the active slayer task, or nil. Combat may mutate it.
	SlayerTask() *character.SlayerTask
}

var _ Player = (*character.Character)(nil)

// Sink receives the events combat produces.
type Sink interface {
	Publish(ev event.Event)
}

type nopSink struct{}

func (nopSink) Publish(event.Event) {}

// Experience is a per-skill experience award.
type Experience struct {
	Attack    int
	Strength  int
	Defence   int
	Hitpoints int
}

// Total returns the sum of all four components.
func (x Experience) Total() int {
	return x.Attack + x.Strength + x.Defence + x.Hitpoints
}

// SkillAmount pairs a skill with an experience amount.
type SkillAmount struct {
	Skill  skill.Skill
	Amount int
}

// BySkill returns the non-zero components in Attack, Strength, Defence, Hitpoints order.
func (x Experience) BySkill() []SkillAmount {
	var out []SkillAmount
	for _, sa := range []SkillAmount{
		{skill.Attack, x.Attack},
		{skill.Strength, x.Strength},
		{skill.Defence, x.Defence},
		{skill.Hitpoints, x.Hitpoints},
	} {
		if sa.Amount > 0 {
			out = append(out, sa)
		}
	}
	return out
}

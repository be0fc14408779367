package combat

import (
	"github.com/cory-johannsen/skirmish/internal/game/event"
	"github.com/cory-johannsen/skirmish/internal/game/skill"
)

// ExperienceGained is published for every non-zero experience award.
type ExperienceGained struct {
	SessionID string
	Skill     skill.Skill
	Amount    int
	// Total is the skill's experience after the award.
	Total int
}

// Kind implements event.Event.
func (ExperienceGained) Kind() event.Kind { return event.KindExperienceGained }

// LevelUpEvent is published when an award moves a skill to a higher level.
type LevelUpEvent struct {
	SessionID string
	Skill     skill.Skill
	Level     int
}

// Kind implements event.Event.
func (LevelUpEvent) Kind() event.Kind { return event.KindLevelUp }

// CombatEnded is published once per processed outcome.
type CombatEnded struct {
	SessionID  string
	Outcome    Outcome
	CreatureID string
	Turns      int
}

// Kind implements event.Event.
func (CombatEnded) Kind() event.Kind { return event.KindCombatEnded }

// PlayerDied is published before CombatEnded when the player loses.
type PlayerDied struct {
	SessionID  string
	CreatureID string
}

// Kind implements event.Event.
func (PlayerDied) Kind() event.Kind { return event.KindPlayerDied }

// SlayerTaskCompleted is published when a kill brings a slayer task to zero remaining.
type SlayerTaskCompleted struct {
	SessionID string
	Category  string
	Total     int
}

// Kind implements event.Event.
func (SlayerTaskCompleted) Kind() event.Kind { return event.KindSlayerTaskCompleted }

package skill

import (
	"fmt"
	"strings"
)

// Skill identifies one trainable skill.
// The zero value (Unknown) is intentionally invalid.
type Skill int

const (
	Unknown Skill = iota
	Attack
	Strength
	Defence
	Hitpoints
	Slayer
)

// All lists every valid skill in display order.
var All = []Skill{Attack, Strength, Defence, Hitpoints, Slayer}

// String returns the display name of the skill.
func (s Skill) String() string {
	switch s {
	case Attack:
		return "Attack"
	case Strength:
		return "Strength"
	case Defence:
		return "Defence"
	case Hitpoints:
		return "Hitpoints"
	case Slayer:
		return "Slayer"
	default:
		return "unknown"
	}
}

// Parse returns the Skill named name, case-insensitively.
//
// Postcondition: Returns a valid Skill or an error naming the input.
func Parse(name string) (Skill, error) {
	for _, s := range All {
		if strings.EqualFold(s.String(), name) {
			return s, nil
		}
	}
	return Unknown, fmt.Errorf("skill: unknown skill %q", name)
}

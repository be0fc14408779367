package npc

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// AttackStyle is the damage style of an attack. The set is closed.
// The zero value (StyleUnknown) is intentionally invalid.
type AttackStyle int

const (
	StyleUnknown AttackStyle = iota
	StyleStab
	StyleSlash
	StyleCrush
	StyleMagic
	StyleRanged
)

// String returns the lowercase style name.
func (s AttackStyle) String() string {
	switch s {
	case StyleStab:
		return "stab"
	case StyleSlash:
		return "slash"
	case StyleCrush:
		return "crush"
	case StyleMagic:
		return "magic"
	case StyleRanged:
		return "ranged"
	default:
		return "unknown"
	}
}

// ParseAttackStyle converts a style name into an AttackStyle, case-insensitively.
func ParseAttackStyle(name string) (AttackStyle, error) {
	for _, s := range []AttackStyle{StyleStab, StyleSlash, StyleCrush, StyleMagic, StyleRanged} {
		if strings.EqualFold(s.String(), name) {
			return s, nil
		}
	}
	return StyleUnknown, fmt.Errorf("unknown attack style %q", name)
}

// UnmarshalYAML decodes a style name.
func (s *AttackStyle) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseAttackStyle(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*s = parsed
	return nil
}

// MarshalYAML encodes the style by name.
func (s AttackStyle) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// StyleBonuses holds one bonus value per attack style.
type StyleBonuses struct {
	Stab   int `yaml:"stab"`
	Slash  int `yaml:"slash"`
	Crush  int `yaml:"crush"`
	Magic  int `yaml:"magic"`
	Ranged int `yaml:"ranged"`
}

// For returns the bonus matching style; StyleUnknown yields 0.
func (b StyleBonuses) For(style AttackStyle) int {
	switch style {
	case StyleStab:
		return b.Stab
	case StyleSlash:
		return b.Slash
	case StyleCrush:
		return b.Crush
	case StyleMagic:
		return b.Magic
	case StyleRanged:
		return b.Ranged
	default:
		return 0
	}
}

// Attack is one configured creature attack with a fixed maximum hit.
type Attack struct {
	Style  AttackStyle `yaml:"style"`
	MaxHit int         `yaml:"max_hit"`
}

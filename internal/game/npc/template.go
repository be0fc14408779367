// Package npc provides creature definitions and their drop tables.
package npc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SlayerInfo describes how a creature counts towards slayer assignments.
type SlayerInfo struct {
	// Category is the assignment category, e.g. "Goblins". Empty = not assignable.
	Category string `yaml:"category"`
	// Experience is the slayer experience granted per qualifying kill.
	Experience int `yaml:"experience"`
	// LevelRequired is the slayer level needed to fight the creature; 0 or 1 = none.
	LevelRequired int `yaml:"level_required"`
}

// Template defines a creature loaded from YAML.
type Template struct {
	ID            string       `yaml:"id"`
	Name          string       `yaml:"name"`
	Description   string       `yaml:"description"`
	CombatLevel   int          `yaml:"combat_level"`
	Hitpoints     int          `yaml:"hitpoints"`
	AttackLevel   int          `yaml:"attack_level"`
	StrengthLevel int          `yaml:"strength_level"`
	DefenceLevel  int          `yaml:"defence_level"`
	AttackBonus   StyleBonuses `yaml:"attack_bonus"`
	DefenceBonus  StyleBonuses `yaml:"defence_bonus"`
	StrengthBonus int          `yaml:"strength_bonus"`
	Attacks       []Attack     `yaml:"attacks"`
	Slayer        SlayerInfo   `yaml:"slayer"`
	Drops         *DropTable   `yaml:"drops"`
}

// PrimaryAttack returns the first configured attack.
//
// Postcondition: Returns (attack, true) when at least one attack is configured,
// or (zero Attack, false) otherwise.
func (t *Template) PrimaryAttack() (Attack, bool) {
	if len(t.Attacks) == 0 {
		return Attack{}, false
	}
	return t.Attacks[0], true
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, Hitpoints >= 1,
// levels are >= 1, every attack has a valid style and MaxHit >= 0, slayer
// values are non-negative and the drop table (if any) is valid.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("npc template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("npc template %q: name must not be empty", t.ID)
	}
	if t.Hitpoints < 1 {
		return fmt.Errorf("npc template %q: hitpoints must be >= 1", t.ID)
	}
	levels := []struct {
		field string
		value int
	}{
		{"attack_level", t.AttackLevel},
		{"strength_level", t.StrengthLevel},
		{"defence_level", t.DefenceLevel},
	}
	for _, l := range levels {
		if l.value < 1 {
			return fmt.Errorf("npc template %q: %s must be >= 1, got %d", t.ID, l.field, l.value)
		}
	}
	for i, a := range t.Attacks {
		if a.Style == StyleUnknown {
			return fmt.Errorf("npc template %q: attacks[%d] must have a style", t.ID, i)
		}
		if a.MaxHit < 0 {
			return fmt.Errorf("npc template %q: attacks[%d] max_hit must be >= 0, got %d", t.ID, i, a.MaxHit)
		}
	}
	if t.Slayer.Experience < 0 {
		return fmt.Errorf("npc template %q: slayer.experience must be >= 0", t.ID)
	}
	if t.Slayer.LevelRequired < 0 || t.Slayer.LevelRequired > 99 {
		return fmt.Errorf("npc template %q: slayer.level_required must be 0-99", t.ID)
	}
	if t.Drops != nil {
		if err := t.Drops.Validate(); err != nil {
			return fmt.Errorf("npc template %q: %w", t.ID, err)
		}
	}
	return nil
}

// LoadTemplateFromBytes parses a single creature template from raw YAML bytes.
//
// Precondition: data must be valid YAML for a single Template.
// Postcondition: Returns a validated *Template, or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed templates.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse or validate
// failure; on error, the partial result is discarded.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading npc dir %q: %w", dir, err)
	}

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}

		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}

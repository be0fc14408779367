package character

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/skirmish/internal/game/skill"
)

// TaskPreset describes a slayer assignment in a preset file.
type TaskPreset struct {
	Category string `yaml:"category"`
	Count    int    `yaml:"count"`
}

// Preset is the YAML form of a ready-made character.
type Preset struct {
	Name      string         `yaml:"name"`
	Levels    map[string]int `yaml:"levels"`
	Equipment Bonuses        `yaml:"equipment"`
	Task      *TaskPreset    `yaml:"slayer_task"`
}

// Build constructs a Character from p. Skills not listed in Levels keep the
// defaults of New; the character starts at full health.
//
// Precondition: p.Name must be non-empty.
// Postcondition: Returns a Character or a non-nil error naming the first invalid field.
func (p Preset) Build() (*Character, error) {
	if p.Name == "" {
		return nil, errors.New("character preset: name must not be empty")
	}
	c := New(p.Name)
	for name, lvl := range p.Levels {
		s, err := skill.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("character preset %q: %w", p.Name, err)
		}
		if lvl < skill.MinLevel || lvl > skill.MaxLevel {
			return nil, fmt.Errorf("character preset %q: level for %s must be %d-%d, got %d",
				p.Name, s, skill.MinLevel, skill.MaxLevel, lvl)
		}
		c.SetLevel(s, lvl)
	}
	c.Equipment = p.Equipment
	if p.Task != nil {
		if p.Task.Category == "" {
			return nil, fmt.Errorf("character preset %q: slayer_task.category must not be empty", p.Name)
		}
		if p.Task.Count < 1 {
			return nil, fmt.Errorf("character preset %q: slayer_task.count must be >= 1, got %d", p.Name, p.Task.Count)
		}
		c.Task = NewSlayerTask(p.Task.Category, p.Task.Count)
	}
	c.CurrentHP = c.MaxHP()
	return c, nil
}

// LoadPresetFromBytes parses and builds a character from YAML.
//
// Postcondition: Returns a built Character or a parse/validation error.
func LoadPresetFromBytes(data []byte) (*Character, error) {
	var p Preset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing character preset YAML: %w", err)
	}
	return p.Build()
}

// LoadPreset reads and builds the character preset at path.
func LoadPreset(path string) (*Character, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading character preset %q: %w", path, err)
	}
	return LoadPresetFromBytes(data)
}

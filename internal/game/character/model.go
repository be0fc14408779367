// Package character defines the player character consumed by the combat core.
package character

import (
	"strings"

	"github.com/cory-johannsen/skirmish/internal/game/skill"
)

// StartingHitpointsLevel is the Hitpoints level every new character begins with.
const StartingHitpointsLevel = 10

// Bonuses holds the aggregate equipment bonuses a character fights with.
type Bonuses struct {
	Attack   int `yaml:"attack"`
	Strength int `yaml:"strength"`
	Defence  int `yaml:"defence"`
}

// SlayerTask is an assigned quota of kills against one creature category.
//
// Invariant: 0 <= Remaining <= Total.
type SlayerTask struct {
	Category  string
	Remaining int
	Total     int
}

// NewSlayerTask returns a task requiring count kills of category.
//
// Precondition: category must be non-empty; count >= 1.
func NewSlayerTask(category string, count int) *SlayerTask {
	return &SlayerTask{Category: category, Remaining: count, Total: count}
}

// Matches reports whether category qualifies for this task (case-insensitive).
func (t *SlayerTask) Matches(category string) bool {
	return category != "" && strings.EqualFold(t.Category, category)
}

// Complete reports whether no kills remain.
func (t *SlayerTask) Complete() bool { return t.Remaining <= 0 }

// RecordKill decrements Remaining, never below zero.
//
// Postcondition: Returns true iff this kill completed the task.
func (t *SlayerTask) RecordKill() bool {
	if t.Remaining <= 0 {
		return false
	}
	t.Remaining--
	return t.Remaining == 0
}

// Character is a player character's combat-relevant state.
type Character struct {
	Name      string
	CurrentHP int
	Skills    map[skill.Skill]skill.Level
	Equipment Bonuses
	// Task is the active slayer assignment; nil means none.
	Task *SlayerTask
}

// New returns a fresh character: every skill at level 1 except Hitpoints at
// StartingHitpointsLevel, at full health.
//
// Precondition: name must be non-empty.
func New(name string) *Character {
	c := &Character{
		Name:   name,
		Skills: make(map[skill.Skill]skill.Level, len(skill.All)),
	}
	for _, s := range skill.All {
		c.Skills[s] = skill.NewLevel(1)
	}
	c.Skills[skill.Hitpoints] = skill.NewLevel(StartingHitpointsLevel)
	c.CurrentHP = c.MaxHP()
	return c
}

// SetLevel sets s to the minimum experience of level; used to build test and
// preset characters.
func (c *Character) SetLevel(s skill.Skill, level int) {
	if c.Skills == nil {
		c.Skills = make(map[skill.Skill]skill.Level)
	}
	c.Skills[s] = skill.NewLevel(level)
}

// MaxHP returns the character's maximum health, equal to its Hitpoints level.
func (c *Character) MaxHP() int {
	return c.SkillLevel(skill.Hitpoints).Level()
}

// Health returns current health.
func (c *Character) Health() int { return c.CurrentHP }

// TakeDamage reduces CurrentHP by amount, flooring at zero.
//
// Precondition: amount >= 0.
// Postcondition: CurrentHP >= 0.
func (c *Character) TakeDamage(amount int) {
	if amount < 0 {
		panic("character: TakeDamage called with negative amount")
	}
	c.CurrentHP -= amount
	if c.CurrentHP < 0 {
		c.CurrentHP = 0
	}
}

// Heal restores amount health, capped at MaxHP.
//
// Precondition: amount >= 0.
func (c *Character) Heal(amount int) {
	if amount < 0 {
		panic("character: Heal called with negative amount")
	}
	c.CurrentHP += amount
	if max := c.MaxHP(); c.CurrentHP > max {
		c.CurrentHP = max
	}
}

// SkillLevel returns the current level value for s; untrained skills report level 1.
func (c *Character) SkillLevel(s skill.Skill) skill.Level {
	if l, ok := c.Skills[s]; ok {
		return l
	}
	return skill.NewLevel(1)
}

// AddExperience grants amount experience in s.
//
// Postcondition: Returns the level values before and after the award.
func (c *Character) AddExperience(s skill.Skill, amount int) (before, after skill.Level) {
	before = c.SkillLevel(s)
	after = before.Add(amount)
	if c.Skills == nil {
		c.Skills = make(map[skill.Skill]skill.Level)
	}
	c.Skills[s] = after
	return before, after
}

// EquipmentBonuses returns the character's equipment bonuses.
func (c *Character) EquipmentBonuses() Bonuses { return c.Equipment }

// SlayerTask returns the active slayer task, or nil.
func (c *Character) SlayerTask() *SlayerTask { return c.Task }

// CombatLevel returns a simplified combat level derived from the melee skills.
//
// Postcondition: Returns >= 3.
func (c *Character) CombatLevel() int {
	base := (c.SkillLevel(skill.Defence).Level() + c.SkillLevel(skill.Hitpoints).Level()) * 100 / 4
	melee := (c.SkillLevel(skill.Attack).Level() + c.SkillLevel(skill.Strength).Level()) * 325 / 10
	lvl := (base + melee) / 100
	if lvl < 3 {
		return 3
	}
	return lvl
}

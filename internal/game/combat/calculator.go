package combat

import (
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/npc"
)

// baseAccuracy is the fixed stance bonus folded into every accuracy and defence roll.
const baseAccuracy = 9

// requireNonNegative panics when v is negative; negative levels and damage are
// integration errors, not combat results.
func requireNonNegative(name string, v int) {
	if v < 0 {
		panic("combat: precondition violated: " + name + " must be >= 0")
	}
}

// AttackRoll returns the accuracy roll (level+9) × (styleBonus+64), floored at 0.
//
// Precondition: level >= 0.
func AttackRoll(level, styleBonus int) int {
	requireNonNegative("level", level)
	return roll(level, styleBonus)
}

// DefenceRoll returns the defence roll (level+9) × (defenceBonus+64), floored at 0.
//
// Precondition: level >= 0.
func DefenceRoll(level, defenceBonus int) int {
	requireNonNegative("level", level)
	return roll(level, defenceBonus)
}

func roll(level, bonus int) int {
	r := (level + baseAccuracy) * (bonus + 64)
	if r < 0 {
		return 0
	}
	return r
}

// CreatureAttackRoll returns the creature's accuracy roll using its attack level
// and the attack bonus matching the style of its first attack. A creature with
// no attacks uses a zero bonus.
//
// Precondition: c must be non-nil.
func CreatureAttackRoll(c *npc.Template) int {
	bonus := 0
	if a, ok := c.PrimaryAttack(); ok {
		bonus = c.AttackBonus.For(a.Style)
	}
	return AttackRoll(c.AttackLevel, bonus)
}

// CreatureDefenceRoll returns the creature's defence roll using its defence
// level and its crush defence bonus as the representative defensive statistic.
//
// Precondition: c must be non-nil.
func CreatureDefenceRoll(c *npc.Template) int {
	return DefenceRoll(c.DefenceLevel, c.DefenceBonus.For(npc.StyleCrush))
}

// HitChance returns the probability in [0, 1] that an attack with attackRoll
// lands against defenceRoll.
//
// Precondition: attackRoll >= 0; defenceRoll >= 0.
func HitChance(attackRoll, defenceRoll int) float64 {
	requireNonNegative("attackRoll", attackRoll)
	requireNonNegative("defenceRoll", defenceRoll)
	a, d := float64(attackRoll), float64(defenceRoll)
	if attackRoll > defenceRoll {
		return 1 - (d+2)/(2*(a+1))
	}
	return a / (2 * (d + 1))
}

// MaxHit returns the maximum damage for a strength level and strength bonus:
// floor(((level+8) × (bonus+64) + 320) / 640), at least 1.
//
// Precondition: strengthLevel >= 0.
// Postcondition: Returns >= 1.
func MaxHit(strengthLevel, strengthBonus int) int {
	requireNonNegative("strengthLevel", strengthLevel)
	effective := strengthLevel + 8
	hit := (effective*(strengthBonus+64) + 320) / 640
	if hit < 1 {
		return 1
	}
	return hit
}

// ExperienceForDamage returns the experience earned for dealing damage in style.
// Four experience per damage goes to the style's skill (split three ways for
// Controlled); Hitpoints always receives floor(damage × 1.33).
//
// Precondition: damage >= 0.
// Postcondition: Total() == Attack + Strength + Defence + Hitpoints; zero damage
// or an invalid style yields no combat-skill experience.
func ExperienceForDamage(damage int, style Style) Experience {
	requireNonNegative("damage", damage)
	if damage == 0 {
		return Experience{}
	}
	base := damage * 4
	x := Experience{Hitpoints: damage * 133 / 100}
	switch style {
	case Accurate:
		x.Attack = base
	case Aggressive:
		x.Strength = base
	case Defensive:
		x.Defence = base
	case Controlled:
		share := base / 3
		x.Attack, x.Strength, x.Defence = share, share, share
	}
	return x
}

// Calculator performs the randomised parts of combat resolution.
// It holds no state besides its randomness source.
type Calculator struct {
	src dice.Source
}

// NewCalculator creates a Calculator drawing from src.
//
// Precondition: src must be non-nil.
func NewCalculator(src dice.Source) *Calculator {
	return &Calculator{src: src}
}

// DoesHit draws one uniform value and reports whether it falls below HitChance.
func (c *Calculator) DoesHit(attackRoll, defenceRoll int) bool {
	return c.src.Float64() < HitChance(attackRoll, defenceRoll)
}

// RollDamage returns a uniform integer in [0, maxHit].
//
// Precondition: maxHit >= 0.
// Postcondition: RollDamage(0) == 0 and consumes no randomness.
func (c *Calculator) RollDamage(maxHit int) int {
	requireNonNegative("maxHit", maxHit)
	if maxHit == 0 {
		return 0
	}
	return dice.Between(c.src, 0, maxHit)
}

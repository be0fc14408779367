package combat

import (
	"github.com/cory-johannsen/skirmish/internal/game/npc"
	"github.com/cory-johannsen/skirmish/internal/game/skill"
)

// PlayerAttackResult holds the outcome of the player's half of a turn.
type PlayerAttackResult struct {
	AttackRoll  int
	DefenceRoll int
	Hit         bool
	// MaxHit is zero when the attack missed.
	MaxHit int
	// Damage is the damage actually applied, never more than the creature had left.
	Damage     int
	Experience Experience
}

// CreatureAttackResult holds the outcome of the creature's half of a turn.
type CreatureAttackResult struct {
	// Attacked is false when the creature has no attacks defined.
	Attacked    bool
	Style       npc.AttackStyle
	AttackRoll  int
	DefenceRoll int
	Hit         bool
	// Damage is the health the player actually lost.
	Damage int
}

// TurnResult is the full record of one executed turn.
type TurnResult struct {
	Turn   int
	Player PlayerAttackResult
	// Creature is nil when the creature died before it could act.
	Creature *CreatureAttackResult
	Complete bool
}

// resolvePlayerAttack rolls the player's attack against the creature and
// applies damage to the session.
//
// Postcondition: on a hit, result.Damage <= creature HP before the attack.
func resolvePlayerAttack(s *Session, calc *Calculator, style Style) PlayerAttackResult {
	bonuses := s.player.EquipmentBonuses()
	r := PlayerAttackResult{
		AttackRoll:  AttackRoll(s.player.SkillLevel(skill.Attack).Level(), bonuses.Attack),
		DefenceRoll: CreatureDefenceRoll(s.creature),
	}
	if !calc.DoesHit(r.AttackRoll, r.DefenceRoll) {
		return r
	}
	r.Hit = true
	r.MaxHit = MaxHit(s.player.SkillLevel(skill.Strength).Level(), bonuses.Strength)
	dmg := calc.RollDamage(r.MaxHit)
	if dmg > s.creatureHP {
		dmg = s.creatureHP
	}
	s.DamageCreature(dmg)
	r.Damage = dmg
	r.Experience = ExperienceForDamage(dmg, style)
	return r
}

// resolveCreatureAttack rolls the creature's primary attack against the player.
func resolveCreatureAttack(s *Session, calc *Calculator) CreatureAttackResult {
	attack, ok := s.creature.PrimaryAttack()
	if !ok {
		return CreatureAttackResult{}
	}
	r := CreatureAttackResult{
		Attacked:    true,
		Style:       attack.Style,
		AttackRoll:  CreatureAttackRoll(s.creature),
		DefenceRoll: DefenceRoll(s.player.SkillLevel(skill.Defence).Level(), s.player.EquipmentBonuses().Defence),
	}
	if !calc.DoesHit(r.AttackRoll, r.DefenceRoll) {
		return r
	}
	r.Hit = true
	before := s.player.Health()
	s.DamagePlayer(calc.RollDamage(attack.MaxHit))
	r.Damage = before - s.player.Health()
	return r
}

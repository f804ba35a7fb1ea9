// Package engine holds the pure combat rules: damage math, healing and
// skill resolution. It mutates heroes only where the rule itself is the
// mutation (resource spend, cooldown arming); turn bookkeeping belongs
// to the service layer.
package engine

import (
	"math"

	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/dice"
	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/game"
)

// DamageResult describes one resolved attack roll.
type DamageResult struct {
	Damage   int
	Effect   game.EffectType
	Absorbed bool
}

// CalculateDamage resolves a basic attack from source against target.
// Boosted attack at or under the target's defense is fully absorbed.
func CalculateDamage(r *dice.Roller, source, target *game.Hero) DamageResult {
	boosted := source.Attack + r.RollRange(source.AttackBoost.Min, source.AttackBoost.Max)
	if boosted <= target.Defense {
		return DamageResult{Damage: 0, Effect: game.EffectDamage, Absorbed: true}
	}
	dmg, effect := resolveRandomOutcome(r, source)
	return DamageResult{Damage: dmg, Effect: effect}
}

// resolveRandomOutcome rolls base damage and applies the weighted
// on-hit effect. Multiplicative reductions floor toward zero and the
// result is never negative.
func resolveRandomOutcome(r *dice.Roller, source *game.Hero) (int, game.EffectType) {
	base := r.RollRange(source.Damage.Min, source.Damage.Max)
	effect := r.PickEffect(source.RandomEffects)
	dmg := base
	switch effect {
	case game.EffectCriticDamage:
		dmg = int(math.Floor(float64(base) * (1.2 + 0.6*r.Float64())))
	case game.EffectEvade:
		dmg = int(math.Floor(float64(base) * 0.8))
	case game.EffectResist:
		dmg = int(math.Floor(float64(base) * 0.6))
	case game.EffectEscape:
		dmg = int(math.Floor(float64(base) * 0.4))
	case game.EffectNegate:
		dmg = 0
	}
	if dmg < 0 {
		dmg = 0
	}
	return dmg, effect
}

// ApplyHeal adds amount to the hero's health, capped at its maximum,
// and returns the health actually restored.
func ApplyHeal(h *game.Hero, amount int) int {
	if amount <= 0 {
		return 0
	}
	before := h.Health
	h.Health += amount
	if h.Health > h.MaxHealth {
		h.Health = h.MaxHealth
	}
	return h.Health - before
}

// ApplyDamage subtracts damage from the hero's health, flooring at
// zero, and reports whether the hit was a knockout.
func ApplyDamage(h *game.Hero, damage int) (dealt int, ko bool) {
	if damage <= 0 {
		return 0, false
	}
	before := h.Health
	h.Health -= damage
	if h.Health < 0 {
		h.Health = 0
	}
	return before - h.Health, before > 0 && h.Health == 0
}

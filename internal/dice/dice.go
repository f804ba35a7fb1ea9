// Package dice provides the randomness primitives for combat rolls:
// uniform range rolls, weighted outcome selection and dice-notation
// parsing ("2d4+3").
package dice

import (
	"math/rand"
	"strconv"
	"strings"

	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/game"
)

// Roller wraps a rand source so tests can inject a seeded one.
type Roller struct {
	rng *rand.Rand
}

// New returns a roller backed by the given seed.
func New(seed int64) *Roller {
	return &Roller{rng: rand.New(rand.NewSource(seed))}
}

// RollRange returns a uniform integer in [min, max] inclusive. Zero
// width ranges return the boundary; reversed bounds are normalized.
func (r *Roller) RollRange(min, max int) int {
	if min > max {
		min, max = max, min
	}
	if min == max {
		return min
	}
	return min + r.rng.Intn(max-min+1)
}

// RollDie rolls one die with the given number of sides.
func (r *Roller) RollDie(sides int) int {
	if sides <= 1 {
		return sides
	}
	return 1 + r.rng.Intn(sides)
}

// Float64 exposes a uniform float in [0, 1) for multiplier rolls.
func (r *Roller) Float64() float64 {
	return r.rng.Float64()
}

// PickEffect selects one weighted outcome from a hero's random-effect
// table. Probability mass not covered by the listed percentages falls
// through to the plain DAMAGE outcome.
func (r *Roller) PickEffect(effects []game.RandomEffect) game.EffectType {
	roll := r.rng.Intn(100)
	acc := 0
	for _, e := range effects {
		acc += e.Percent
		if roll < acc {
			return e.Type
		}
	}
	return game.EffectDamage
}

// RollNotation evaluates dice notation such as "1d6", "2d4+3" or
// "10 + 1d8". Empty and malformed parts contribute zero.
func (r *Roller) RollNotation(notation string) int {
	if notation == "" {
		return 0
	}
	total := 0
	for _, part := range strings.Split(notation, "+") {
		part = strings.TrimSpace(part)
		if count, sides, ok := strings.Cut(part, "d"); ok {
			n, _ := strconv.Atoi(strings.TrimSpace(count))
			s, _ := strconv.Atoi(strings.TrimSpace(sides))
			for i := 0; i < n; i++ {
				total += r.RollDie(s)
			}
			continue
		}
		n, _ := strconv.Atoi(part)
		total += n
	}
	return total
}

package engine

import (
	"errors"
	"fmt"

	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/dice"
	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/game"
)

var (
	ErrUnknownSkill      = errors.New("unknown skill identifier")
	ErrSkillNotEquipped  = errors.New("skill not equipped by this hero")
	ErrInsufficientPower = errors.New("not enough power for this skill")
	ErrSkillOnCooldown   = errors.New("skill is on cooldown")
)

// SkillOutcome is the structured result of resolving a special or
// master skill. Temporary deltas last until the caster's next turn;
// heals are applied immediately by the orchestrator.
type SkillOutcome struct {
	TempAttack  int
	TempDefense int
	FlatDamage  int
	HealGroup   int
	HealTarget  int
	SetToFull   bool
	PowerSpent  int
	Label       string
	HealType    bool
}

// HasBuff reports whether the outcome carries any temporary stat delta.
func (o SkillOutcome) HasBuff() bool {
	return o.TempAttack != 0 || o.TempDefense != 0 || o.FlatDamage != 0
}

type specialSkill struct {
	powerCost int
	cooldown  int
	resolve   func(r *dice.Roller, source *game.Player) SkillOutcome
}

type masterSkill struct {
	cooldown int
	resolve  func(r *dice.Roller, source *game.Player) SkillOutcome
}

// The lookup tables form the closed skill enumeration: every identifier
// maps to exactly one outcome producer.
var specialSkills = map[game.SpecialSkillID]specialSkill{
	game.GolpeEscudo: {powerCost: 4, cooldown: 2, resolve: func(r *dice.Roller, source *game.Player) SkillOutcome {
		return SkillOutcome{TempDefense: 2, Label: "Golpe escudo (+2 DEF)"}
	}},
	game.EmbateSangriento: {powerCost: 4, cooldown: 2, resolve: func(r *dice.Roller, source *game.Player) SkillOutcome {
		return SkillOutcome{FlatDamage: 2, Label: "Embate sangriento (+2 DMG)"}
	}},
	game.MisilesDeMagma: {powerCost: 5, cooldown: 3, resolve: func(r *dice.Roller, source *game.Player) SkillOutcome {
		return SkillOutcome{FlatDamage: 3, Label: "Misiles de magma (+3 DMG)"}
	}},
	game.VorticeDeHielo: {powerCost: 5, cooldown: 3, resolve: func(r *dice.Roller, source *game.Player) SkillOutcome {
		return SkillOutcome{TempAttack: -2, Label: "Vórtice de hielo (-2 ATQ al oponente)"}
	}},
	game.AgujaFunesta: {powerCost: 4, cooldown: 2, resolve: func(r *dice.Roller, source *game.Player) SkillOutcome {
		return SkillOutcome{FlatDamage: 2, TempAttack: 1, Label: "Aguja funesta (+2 DMG, +1 ATQ)"}
	}},
	game.CortadaSuprema: {powerCost: 4, cooldown: 2, resolve: func(r *dice.Roller, source *game.Player) SkillOutcome {
		return SkillOutcome{TempAttack: 2, Label: "Cortada suprema (+2 ATQ)"}
	}},
	game.ToqueDeLaVida: {powerCost: 5, cooldown: 3, resolve: func(r *dice.Roller, source *game.Player) SkillOutcome {
		heal := r.RollNotation("2d4")
		return SkillOutcome{HealTarget: heal, HealType: true, Label: fmt.Sprintf("Toque de la vida (+%d HP)", heal)}
	}},
	game.VinculoNatural: {powerCost: 5, cooldown: 3, resolve: func(r *dice.Roller, source *game.Player) SkillOutcome {
		heal := r.RollNotation("1d8")
		return SkillOutcome{HealTarget: heal, HealGroup: 1, HealType: true, Label: fmt.Sprintf("Vínculo natural (+%d HP, +1 HP grupo)", heal)}
	}},
}

var masterSkills = map[game.MasterSkillID]masterSkill{
	game.GolpeDefensa: {cooldown: 3, resolve: func(r *dice.Roller, source *game.Player) SkillOutcome {
		return SkillOutcome{TempAttack: 1, Label: "Golpe de defensa (+1 ATQ)"}
	}},
	game.SegundoImpulso: {cooldown: 3, resolve: func(r *dice.Roller, source *game.Player) SkillOutcome {
		heal := r.RollNotation("1d4")
		if source.Hero.Type == game.WeaponsPal {
			heal += 3
		}
		return SkillOutcome{HealTarget: heal, HealType: true, Label: fmt.Sprintf("Segundo impulso (+%d HP)", heal)}
	}},
	game.LuzCegadora: {cooldown: 3, resolve: func(r *dice.Roller, source *game.Player) SkillOutcome {
		return SkillOutcome{HealGroup: 1, HealType: true, Label: "Luz cegadora (+1 HP para todos)"}
	}},
	game.FrioConcentrado: {cooldown: 3, resolve: func(r *dice.Roller, source *game.Player) SkillOutcome {
		return SkillOutcome{TempAttack: -1, Label: "Frío concentrado (-1 ATQ al oponente)"}
	}},
	game.TomaLleva: {cooldown: 3, resolve: func(r *dice.Roller, source *game.Player) SkillOutcome {
		return SkillOutcome{TempAttack: 1, Label: "Toma y lleva (+1 ATQ)"}
	}},
	game.Intimidacion: {cooldown: 3, resolve: func(r *dice.Roller, source *game.Player) SkillOutcome {
		return SkillOutcome{FlatDamage: 1, Label: "Intimidación sangrienta (+1 DMG)"}
	}},
	game.TeChangua: {cooldown: 3, resolve: func(r *dice.Roller, source *game.Player) SkillOutcome {
		heal := r.RollNotation("1d4")
		return SkillOutcome{HealGroup: heal, HealType: true, Label: fmt.Sprintf("Té changua (+%d HP para todos)", heal)}
	}},
	game.Reanimador3000: {cooldown: 4, resolve: func(r *dice.Roller, source *game.Player) SkillOutcome {
		return SkillOutcome{SetToFull: true, HealType: true, Label: "Reanimador 3000 (salud completa)"}
	}},
}

// ResolveSpecial validates that the caster has the skill equipped,
// checks power and cooldown, and on success commits the power spend
// and arms the cooldown before returning the outcome.
func ResolveSpecial(r *dice.Roller, source *game.Player, id game.SpecialSkillID) (SkillOutcome, error) {
	sk, ok := specialSkills[id]
	if !ok {
		return SkillOutcome{}, ErrUnknownSkill
	}
	if source.Hero.SpecialSlot.Special != id {
		return SkillOutcome{}, ErrSkillNotEquipped
	}
	if source.Hero.SpecialSlot.CooldownLeft > 0 {
		return SkillOutcome{}, ErrSkillOnCooldown
	}
	if source.Hero.Power < sk.powerCost {
		return SkillOutcome{}, ErrInsufficientPower
	}
	outcome := sk.resolve(r, source)
	source.Hero.Power -= sk.powerCost
	source.Hero.SpecialSlot.CooldownLeft = sk.cooldown
	outcome.PowerSpent = sk.powerCost
	return outcome, nil
}

// ResolveMaster validates that the caster has the master skill
// equipped and that it is off cooldown, arming the cooldown on
// success. Master skills spend no power.
func ResolveMaster(r *dice.Roller, source *game.Player, id game.MasterSkillID) (SkillOutcome, error) {
	sk, ok := masterSkills[id]
	if !ok {
		return SkillOutcome{}, ErrUnknownSkill
	}
	if source.Hero.MasterSlot.Master != id {
		return SkillOutcome{}, ErrSkillNotEquipped
	}
	if source.Hero.MasterSlot.CooldownLeft > 0 {
		return SkillOutcome{}, ErrSkillOnCooldown
	}
	outcome := sk.resolve(r, source)
	source.Hero.MasterSlot.CooldownLeft = sk.cooldown
	return outcome, nil
}

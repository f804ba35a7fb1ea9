package game

// ApplyBuff puts a temporary buff on the hero. Any buff already present
// is reversed first: buffs never stack. The deltas are applied
// additively and flagged for removal right before the owner's next
// turn, which models "lasts exactly until your next turn" without a
// duration counter.
func (h *Hero) ApplyBuff(attack, defense, damage int, label string) {
	h.ReleaseBuff()
	h.Attack += attack
	h.Defense += defense
	h.Damage.Min += damage
	h.Damage.Max += damage
	h.Buff = &HeroBuff{
		Attack:         attack,
		Defense:        defense,
		Damage:         damage,
		Label:          label,
		PendingRemoval: true,
	}
}

// ReleaseBuff reverses the recorded deltas exactly and clears the buff.
// A hero without a buff is left untouched.
func (h *Hero) ReleaseBuff() {
	if h.Buff == nil {
		return
	}
	h.Attack -= h.Buff.Attack
	h.Defense -= h.Buff.Defense
	h.Damage.Min -= h.Buff.Damage
	h.Damage.Max -= h.Buff.Damage
	h.Buff = nil
}

// RegeneratePower restores up to two power points, capped at the given
// maximum. It returns the amount actually regained.
func (h *Hero) RegeneratePower(max int) int {
	if !h.Alive() || h.Power >= max {
		return 0
	}
	regained := 2
	if h.Power+regained > max {
		regained = max - h.Power
	}
	h.Power += regained
	return regained
}

// TickCooldowns decrements the hero's skill cooldowns by one turn.
func (h *Hero) TickCooldowns() {
	if h.SpecialSlot.CooldownLeft > 0 {
		h.SpecialSlot.CooldownLeft--
	}
	if h.MasterSlot.CooldownLeft > 0 {
		h.MasterSlot.CooldownLeft--
	}
}

package game

// HeroType identifies one of the playable hero archetypes.
type HeroType string

const (
	Tank         HeroType = "TANK"
	WeaponsPal   HeroType = "WEAPONS_PAL"
	FireMage     HeroType = "FIRE_MAGE"
	IceMage      HeroType = "ICE_MAGE"
	PoisonRogue  HeroType = "POISON_ROGUE"
	MacheteRogue HeroType = "MACHETE_ROGUE"
	Shaman       HeroType = "SHAMAN"
	Medic        HeroType = "MEDIC"
)

// EffectType labels the weighted on-hit outcomes a hero can roll.
type EffectType string

const (
	EffectDamage       EffectType = "DAMAGE"
	EffectCriticDamage EffectType = "CRITIC_DAMAGE"
	EffectEvade        EffectType = "EVADE"
	EffectResist       EffectType = "RESIST"
	EffectEscape       EffectType = "ESCAPE"
	EffectNegate       EffectType = "NEGATE"
)

// RandomEffect is one weighted entry of a hero's on-hit outcome table.
type RandomEffect struct {
	Type    EffectType `json:"type"`
	Percent int        `json:"percent"`
}

// StatRange is a closed integer interval used for damage and attack boost rolls.
type StatRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// HeroBuff records the deltas of a temporary buff so they can be
// reversed exactly. Damage shifts both ends of the damage range.
type HeroBuff struct {
	Attack         int    `json:"attack"`
	Defense        int    `json:"defense"`
	Damage         int    `json:"damage"`
	Label          string `json:"label"`
	PendingRemoval bool   `json:"pending_removal"`
}

// SkillSlot tracks the per-battle cooldown state of one equipped skill.
type SkillSlot struct {
	Special      SpecialSkillID `json:"special,omitempty"`
	Master       MasterSkillID  `json:"master,omitempty"`
	CooldownLeft int            `json:"cooldown_left"`
}

// Hero is the mutable combat unit owned by a player.
type Hero struct {
	Type          HeroType       `json:"hero_type"`
	Level         int            `json:"level"`
	Health        int            `json:"health"`
	MaxHealth     int            `json:"max_health"`
	Attack        int            `json:"attack"`
	Defense       int            `json:"defense"`
	Power         int            `json:"power"`
	Damage        StatRange      `json:"damage"`
	AttackBoost   StatRange      `json:"attack_boost"`
	RandomEffects []RandomEffect `json:"random_effects"`
	SpecialSlot   SkillSlot      `json:"special_slot"`
	MasterSlot    SkillSlot      `json:"master_slot"`
	Buff          *HeroBuff      `json:"buff,omitempty"`
}

// Alive reports whether the hero can still act.
func (h *Hero) Alive() bool { return h.Health > 0 }

// Player is identified by its unique username, stable across reconnects.
type Player struct {
	Username  string `json:"username"`
	HeroLevel int    `json:"hero_level"`
	Ready     bool   `json:"ready"`
	Hero      Hero   `json:"hero_stats"`
}

// TeamID is "A" or "B".
type TeamID string

const (
	TeamA TeamID = "A"
	TeamB TeamID = "B"
)

// WinnerDraw marks a battle that ended without a winning team.
const WinnerDraw = "DRAW"

type Team struct {
	ID      TeamID    `json:"id"`
	Players []*Player `json:"players"`
}

// FindPlayer returns the team member with the given username, or nil.
func (t *Team) FindPlayer(username string) *Player {
	for _, p := range t.Players {
		if p.Username == username {
			return p
		}
	}
	return nil
}

// Alive reports whether at least one team member's hero is still standing.
func (t *Team) Alive() bool {
	for _, p := range t.Players {
		if p.Hero.Alive() {
			return true
		}
	}
	return false
}

// TotalHealth sums the remaining health of the whole team. Used for the
// battle-timeout tiebreak.
func (t *Team) TotalHealth() int {
	total := 0
	for _, p := range t.Players {
		total += p.Hero.Health
	}
	return total
}

// ActionType enumerates the three kinds of player actions.
type ActionType string

const (
	ActionBasicAttack  ActionType = "BASIC_ATTACK"
	ActionSpecialSkill ActionType = "SPECIAL_SKILL"
	ActionMasterSkill  ActionType = "MASTER_SKILL"
)

// Action is the value object submitted by a player (or synthesized by
// the turn timer, with empty source/target fields).
type Action struct {
	Source  string     `json:"source"`
	Target  string     `json:"target"`
	Type    ActionType `json:"type"`
	SkillID string     `json:"skill_id,omitempty"`
}

// GameMode mirrors the room configuration.
type GameMode string

const (
	Mode1v1 GameMode = "1v1"
	Mode2v2 GameMode = "2v2"
	Mode3v3 GameMode = "3v3"
)

// TeamSize returns how many players each side seats.
func (m GameMode) TeamSize() int {
	switch m {
	case Mode2v2:
		return 2
	case Mode3v3:
		return 3
	default:
		return 1
	}
}

// Valid reports whether the mode is one of the supported formats.
func (m GameMode) Valid() bool {
	return m == Mode1v1 || m == Mode2v2 || m == Mode3v3
}

// Room is the read-only snapshot of the lobby collaborator the battle is
// built from.
type Room struct {
	ID    string    `json:"id"`
	Mode  GameMode  `json:"mode"`
	TeamA []*Player `json:"team_a"`
	TeamB []*Player `json:"team_b"`
}

// AllReady reports whether every seated player has signaled ready.
func (r *Room) AllReady() bool {
	if len(r.TeamA) == 0 || len(r.TeamB) == 0 {
		return false
	}
	for _, p := range append(append([]*Player{}, r.TeamA...), r.TeamB...) {
		if !p.Ready {
			return false
		}
	}
	return true
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/game"
)

// StakePolicy selects how staked credits are settled at battle end:
// refunded to winners, charged to losers, or ignored.
type StakePolicy string

const (
	StakeNone          StakePolicy = "none"
	StakeRefundWinners StakePolicy = "refund-winners"
	StakeChargeLosers  StakePolicy = "charge-losers"
)

type heroEntry struct {
	HeroType      string              `json:"hero_type"`
	Health        int                 `json:"health"`
	Attack        int                 `json:"attack"`
	Defense       int                 `json:"defense"`
	Power         int                 `json:"power"`
	Damage        game.StatRange      `json:"damage"`
	AttackBoost   game.StatRange      `json:"attack_boost"`
	RandomEffects []game.RandomEffect `json:"random_effects"`
	SpecialSkill  string              `json:"special_skill"`
	MasterSkill   string              `json:"master_skill"`
}

type rawConfig struct {
	HeroList []heroEntry `json:"hero_list"`
	Server   *struct {
		Address string `json:"address"`
	} `json:"server"`
	TurnSeconds   int    `json:"turn_seconds"`
	BattleSeconds int    `json:"battle_seconds"`
	StakePolicy   string `json:"stake_policy"`
	Inventory     *struct {
		URL    string `json:"url"`
		APIKey string `json:"api_key"`
	} `json:"inventory"`
}

// LoadedConfig is the validated runtime configuration.
type LoadedConfig struct {
	Heroes          map[game.HeroType]game.Hero
	ServerAddress   string
	TurnDuration    time.Duration
	BattleDuration  time.Duration
	StakePolicy     StakePolicy
	InventoryURL    string
	InventoryAPIKey string
}

// LoadConfig reads the configuration file at path. It requires the key
// `hero_list` with one entry per playable hero type.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if len(rc.HeroList) == 0 {
		return nil, fmt.Errorf("config file %s: hero_list is empty (provide a 'hero_list' array)", path)
	}

	heroes := make(map[game.HeroType]game.Hero, len(rc.HeroList))
	for _, h := range rc.HeroList {
		if h.HeroType == "" {
			return nil, fmt.Errorf("config file %s: hero entry missing 'hero_type'", path)
		}
		ht := game.HeroType(h.HeroType)
		if _, exists := heroes[ht]; exists {
			return nil, fmt.Errorf("config file %s: duplicate hero_type '%s'", path, h.HeroType)
		}
		if h.Health <= 0 {
			return nil, fmt.Errorf("config file %s: hero '%s' needs positive health", path, h.HeroType)
		}
		if h.Damage.Min > h.Damage.Max || h.AttackBoost.Min > h.AttackBoost.Max {
			return nil, fmt.Errorf("config file %s: hero '%s' has a reversed stat range", path, h.HeroType)
		}
		totalPct := 0
		for _, e := range h.RandomEffects {
			if e.Percent < 0 {
				return nil, fmt.Errorf("config file %s: hero '%s' has a negative effect percent", path, h.HeroType)
			}
			totalPct += e.Percent
		}
		if totalPct > 100 {
			return nil, fmt.Errorf("config file %s: hero '%s' random effects exceed 100%%", path, h.HeroType)
		}
		heroes[ht] = game.Hero{
			Type:          ht,
			Health:        h.Health,
			MaxHealth:     h.Health,
			Attack:        h.Attack,
			Defense:       h.Defense,
			Power:         h.Power,
			Damage:        h.Damage,
			AttackBoost:   h.AttackBoost,
			RandomEffects: h.RandomEffects,
			SpecialSlot:   game.SkillSlot{Special: game.SpecialSkillID(h.SpecialSkill)},
			MasterSlot:    game.SkillSlot{Master: game.MasterSkillID(h.MasterSkill)},
		}
	}

	addr := ":8080"
	if rc.Server != nil && rc.Server.Address != "" {
		addr = rc.Server.Address
	}
	turn := 30 * time.Second
	if rc.TurnSeconds > 0 {
		turn = time.Duration(rc.TurnSeconds) * time.Second
	}
	battle := 10 * time.Minute
	if rc.BattleSeconds > 0 {
		battle = time.Duration(rc.BattleSeconds) * time.Second
	}

	policy := StakeNone
	switch StakePolicy(rc.StakePolicy) {
	case StakeNone, "":
	case StakeRefundWinners:
		policy = StakeRefundWinners
	case StakeChargeLosers:
		policy = StakeChargeLosers
	default:
		return nil, fmt.Errorf("config file %s: unknown stake_policy '%s'", path, rc.StakePolicy)
	}

	cfg := &LoadedConfig{
		Heroes:         heroes,
		ServerAddress:  addr,
		TurnDuration:   turn,
		BattleDuration: battle,
		StakePolicy:    policy,
	}
	if rc.Inventory != nil {
		cfg.InventoryURL = rc.Inventory.URL
		cfg.InventoryAPIKey = rc.Inventory.APIKey
	}
	return cfg, nil
}

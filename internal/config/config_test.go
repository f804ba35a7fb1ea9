package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/game"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nexus_config.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const validConfig = `{
  "hero_list": [
    {
      "hero_type": "TANK",
      "health": 20,
      "attack": 8,
      "defense": 5,
      "power": 6,
      "damage": {"min": 1, "max": 4},
      "attack_boost": {"min": 1, "max": 4},
      "random_effects": [
        {"type": "CRITIC_DAMAGE", "percent": 10},
        {"type": "EVADE", "percent": 10}
      ],
      "special_skill": "GOLPE_ESCUDO",
      "master_skill": "GOLPE_DEFENSA"
    }
  ],
  "server": {"address": ":9090"},
  "turn_seconds": 45,
  "stake_policy": "refund-winners"
}`

func TestLoadConfig_Valid(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hero, ok := cfg.Heroes[game.Tank]
	if !ok {
		t.Fatalf("TANK hero missing from roster")
	}
	if hero.MaxHealth != 20 {
		t.Fatalf("max health must mirror base health: %+v", hero)
	}
	if hero.SpecialSlot.Special != game.GolpeEscudo {
		t.Fatalf("special skill not bound: %+v", hero.SpecialSlot)
	}
	if cfg.ServerAddress != ":9090" {
		t.Fatalf("server address not honored: %s", cfg.ServerAddress)
	}
	if cfg.TurnDuration != 45*time.Second {
		t.Fatalf("turn duration not honored: %s", cfg.TurnDuration)
	}
	if cfg.BattleDuration != 10*time.Minute {
		t.Fatalf("battle duration must default to 10m: %s", cfg.BattleDuration)
	}
	if cfg.StakePolicy != StakeRefundWinners {
		t.Fatalf("stake policy not honored: %s", cfg.StakePolicy)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadConfig_DuplicateHero(t *testing.T) {
	body := `{"hero_list": [
		{"hero_type": "TANK", "health": 20, "damage": {"min": 1, "max": 4}, "attack_boost": {"min": 1, "max": 2}},
		{"hero_type": "TANK", "health": 20, "damage": {"min": 1, "max": 4}, "attack_boost": {"min": 1, "max": 2}}
	]}`
	if _, err := LoadConfig(writeConfig(t, body)); err == nil {
		t.Fatalf("expected duplicate hero error")
	}
}

func TestLoadConfig_ReversedRange(t *testing.T) {
	body := `{"hero_list": [
		{"hero_type": "TANK", "health": 20, "damage": {"min": 5, "max": 2}, "attack_boost": {"min": 1, "max": 2}}
	]}`
	if _, err := LoadConfig(writeConfig(t, body)); err == nil {
		t.Fatalf("expected reversed range error")
	}
}

func TestLoadConfig_EffectsOver100(t *testing.T) {
	body := `{"hero_list": [
		{"hero_type": "TANK", "health": 20, "damage": {"min": 1, "max": 4}, "attack_boost": {"min": 1, "max": 2},
		 "random_effects": [{"type": "EVADE", "percent": 70}, {"type": "RESIST", "percent": 40}]}
	]}`
	if _, err := LoadConfig(writeConfig(t, body)); err == nil {
		t.Fatalf("expected effect percent error")
	}
}

func TestLoadConfig_UnknownStakePolicy(t *testing.T) {
	body := `{"hero_list": [
		{"hero_type": "TANK", "health": 20, "damage": {"min": 1, "max": 4}, "attack_boost": {"min": 1, "max": 2}}
	], "stake_policy": "double-or-nothing"}`
	if _, err := LoadConfig(writeConfig(t, body)); err == nil {
		t.Fatalf("expected stake policy error")
	}
}

package api

import (
	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/game"
	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/service"
	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/storage"
)

// BattleHandler groups all room and battle HTTP handlers.
type BattleHandler struct {
	rooms   storage.RoomRepository
	battles *service.BattleService
	rewards *service.RewardService
	heroes  map[game.HeroType]game.Hero
}

// NewBattleHandler creates a new BattleHandler with the given stores,
// orchestration service and the configured hero roster.
func NewBattleHandler(rooms storage.RoomRepository, battles *service.BattleService, rewards *service.RewardService, heroes map[game.HeroType]game.Hero) *BattleHandler {
	return &BattleHandler{rooms: rooms, battles: battles, rewards: rewards, heroes: heroes}
}

package storage

import "github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/game"

// BattleRepository stores live battles keyed by battle id. The
// transport layer addresses battles by the room that spawned them, so
// the store also maintains a room-id lookup.
type BattleRepository interface {
	FindByID(battleID string) (*game.Battle, bool)
	FindByRoomID(roomID string) (*game.Battle, bool)
	Save(b *game.Battle)
	Delete(battleID string)
}

// RoomRepository stores lobby rooms.
type RoomRepository interface {
	FindByID(roomID string) (*game.Room, bool)
	Save(r *game.Room)
	Delete(roomID string)
}

// RewardsRepository is the persistent ledger of delivered rewards.
type RewardsRepository interface {
	SaveAward(rec *RewardRecord) error
	DeleteAwards(battleID string) error
	GetAwards(battleID string) ([]RewardRecord, error)
}

// HistoryRepository archives finished battles.
type HistoryRepository interface {
	SaveBattleRecord(rec *BattleRecord) error
	GetBattleRecord(battleID string) (*BattleRecord, error)
}

package storage

import (
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// RewardRecord is one delivered (or attempted) reward payout line.
type RewardRecord struct {
	gorm.Model
	BattleID       string `json:"battle_id" gorm:"index"`
	PlayerRewarded string `json:"player_rewarded"`
	Credits        int    `json:"credits"`
	Exp            int    `json:"exp"`
	OriginPlayer   string `json:"origin_player"`
	ItemName       string `json:"item_name"`
	Delivered      bool   `json:"delivered"`
}

func (RewardRecord) TableName() string { return "reward_ledger" }

// BattleRecord archives the terminal state of a finished battle.
type BattleRecord struct {
	gorm.Model
	BattleID   string    `json:"battle_id" gorm:"uniqueIndex"`
	RoomID     string    `json:"room_id"`
	Mode       string    `json:"mode"`
	Winner     string    `json:"winner"`
	EndedBy    string    `json:"ended_by"` // elimination | turn_timeout | battle_timeout | disconnection
	Turns      int       `json:"turns"`
	FinishedAt time.Time `json:"finished_at"`
}

func (BattleRecord) TableName() string { return "battle_history" }

// OpenAndMigrate opens the SQLite database and keeps the schema
// updated via AutoMigrate.
func OpenAndMigrate(dataSourceName string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&RewardRecord{}, &BattleRecord{}); err != nil {
		return nil, err
	}
	return db, nil
}

package storage

import "gorm.io/gorm"

type sqliteRepository struct {
	db *gorm.DB
}

// NewSQLiteRepository wraps a gorm DB as the persistent rewards ledger
// and battle-history archive.
func NewSQLiteRepository(db *gorm.DB) *sqliteRepository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) SaveAward(rec *RewardRecord) error {
	return r.db.Create(rec).Error
}

// DeleteAwards removes all ledger lines for a battle. Deleting for an
// unknown battle id is a no-op.
func (r *sqliteRepository) DeleteAwards(battleID string) error {
	return r.db.Where("battle_id = ?", battleID).Delete(&RewardRecord{}).Error
}

func (r *sqliteRepository) GetAwards(battleID string) ([]RewardRecord, error) {
	var recs []RewardRecord
	if err := r.db.Where("battle_id = ?", battleID).Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *sqliteRepository) SaveBattleRecord(rec *BattleRecord) error {
	return r.db.Create(rec).Error
}

func (r *sqliteRepository) GetBattleRecord(battleID string) (*BattleRecord, error) {
	var rec BattleRecord
	if err := r.db.Where("battle_id = ?", battleID).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

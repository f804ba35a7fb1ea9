package storage

import (
	"sync"

	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/game"
)

// MemoryBattleRepository is the injected in-memory battle store. One
// instance owns the battle map; nothing else holds process-wide state.
type MemoryBattleRepository struct {
	mu      sync.RWMutex
	battles map[string]*game.Battle
	byRoom  map[string]string
}

func NewMemoryBattleRepository() *MemoryBattleRepository {
	return &MemoryBattleRepository{
		battles: make(map[string]*game.Battle),
		byRoom:  make(map[string]string),
	}
}

func (r *MemoryBattleRepository) FindByID(battleID string) (*game.Battle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.battles[battleID]
	return b, ok
}

func (r *MemoryBattleRepository) FindByRoomID(roomID string) (*game.Battle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byRoom[roomID]
	if !ok {
		return nil, false
	}
	b, ok := r.battles[id]
	return b, ok
}

func (r *MemoryBattleRepository) Save(b *game.Battle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.battles[b.ID] = b
	r.byRoom[b.RoomID] = b.ID
}

// Delete is a no-op for absent ids.
func (r *MemoryBattleRepository) Delete(battleID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.battles[battleID]; ok {
		if r.byRoom[b.RoomID] == battleID {
			delete(r.byRoom, b.RoomID)
		}
		delete(r.battles, battleID)
	}
}

// MemoryRoomRepository is the in-memory lobby store.
type MemoryRoomRepository struct {
	mu    sync.RWMutex
	rooms map[string]*game.Room
}

func NewMemoryRoomRepository() *MemoryRoomRepository {
	return &MemoryRoomRepository{rooms: make(map[string]*game.Room)}
}

func (r *MemoryRoomRepository) FindByID(roomID string) (*game.Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[roomID]
	return room, ok
}

func (r *MemoryRoomRepository) Save(room *game.Room) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms[room.ID] = room
}

func (r *MemoryRoomRepository) Delete(roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rooms, roomID)
}

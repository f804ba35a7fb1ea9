package game

import (
	"errors"
	"time"
)

// BattleState is the battle lifecycle.
type BattleState string

const (
	StateWaiting    BattleState = "WAITING"
	StateInProgress BattleState = "IN_PROGRESS"
	StateFinished   BattleState = "FINISHED"
)

// ErrEmptyTurnOrder indicates a battle constructed without participants.
// This is a construction bug, not a recoverable condition.
var ErrEmptyTurnOrder = errors.New("battle has an empty turn order")

// BattleLogEntry is one append-only line of the combat log.
type BattleLogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Attacker  string    `json:"attacker"`
	Target    string    `json:"target"`
	Value     int       `json:"value"`
	Effect    string    `json:"effect,omitempty"`
}

// Battle is the aggregate root for one running combat session.
// The turn order is fixed at construction: disconnected players are
// skipped by the orchestration layer, never removed from the order.
type Battle struct {
	ID               string           `json:"id"`
	RoomID           string           `json:"room_id"`
	Teams            [2]*Team         `json:"teams"`
	TurnOrder        []string         `json:"turn_order"`
	CurrentTurnIndex int              `json:"current_turn_index"`
	State            BattleState      `json:"state"`
	Winner           string           `json:"winner,omitempty"`
	Ended            bool             `json:"ended"`
	Log              []BattleLogEntry `json:"log"`
	InitialPowers    map[string]int   `json:"initial_powers"`
}

// NewBattle builds a WAITING battle and snapshots every participant's
// starting power (the regeneration cap for the whole battle).
func NewBattle(id, roomID string, teamA, teamB *Team, turnOrder []string) *Battle {
	b := &Battle{
		ID:            id,
		RoomID:        roomID,
		Teams:         [2]*Team{teamA, teamB},
		TurnOrder:     turnOrder,
		State:         StateWaiting,
		Log:           make([]BattleLogEntry, 0, 32),
		InitialPowers: make(map[string]int),
	}
	for _, t := range b.Teams {
		for _, p := range t.Players {
			b.InitialPowers[p.Username] = p.Hero.Power
		}
	}
	return b
}

// StartBattle moves the battle to IN_PROGRESS with the first actor up.
func (b *Battle) StartBattle() {
	b.State = StateInProgress
	b.CurrentTurnIndex = 0
}

// GetCurrentActor returns the username owed the current turn.
func (b *Battle) GetCurrentActor() (string, error) {
	if len(b.TurnOrder) == 0 {
		return "", ErrEmptyTurnOrder
	}
	return b.TurnOrder[b.CurrentTurnIndex%len(b.TurnOrder)], nil
}

// AdvanceTurn increments the turn index. Skipping incapacitated actors
// is the orchestration layer's job.
func (b *Battle) AdvanceTurn() {
	b.CurrentTurnIndex++
}

// FindPlayer searches both teams for the given username.
func (b *Battle) FindPlayer(username string) *Player {
	for _, t := range b.Teams {
		if p := t.FindPlayer(username); p != nil {
			return p
		}
	}
	return nil
}

// TeamOf returns the team the username belongs to, or nil.
func (b *Battle) TeamOf(username string) *Team {
	for _, t := range b.Teams {
		if t.FindPlayer(username) != nil {
			return t
		}
	}
	return nil
}

// OpposingTeam returns the other team relative to the given team id.
func (b *Battle) OpposingTeam(id TeamID) *Team {
	for _, t := range b.Teams {
		if t.ID != id {
			return t
		}
	}
	return nil
}

// EndBattle records the winner and freezes the battle. Callers must
// guard with Ended: calling this twice is a caller error.
func (b *Battle) EndBattle(winner string) {
	b.Winner = winner
	b.Ended = true
	b.State = StateFinished
}

// AppendLog records one combat log line. Entries are never mutated or
// removed once written.
func (b *Battle) AppendLog(attacker, target string, value int, effect string) {
	b.Log = append(b.Log, BattleLogEntry{
		Timestamp: time.Now().UTC(),
		Attacker:  attacker,
		Target:    target,
		Value:     value,
		Effect:    effect,
	})
}

// Participants lists every username on both teams.
func (b *Battle) Participants() []string {
	names := make([]string, 0, len(b.TurnOrder))
	for _, t := range b.Teams {
		for _, p := range t.Players {
			names = append(names, p.Username)
		}
	}
	return names
}

package service

import (
	"sync"
	"time"
)

// timerCallbacks is implemented by the battle service. Both callbacks
// re-validate battle state before mutating anything: a timer can fire
// at the same moment a player action or a disconnect ends the battle.
// The turn timeout carries the turn index it was armed for, since
// Stop cannot cancel a callback that already fired and is waiting on
// the service lock.
type timerCallbacks interface {
	OnTurnTimeout(battleID string, turnIndex int)
	OnBattleTimeout(battleID string)
}

type battleTimers struct {
	turn   *time.Timer
	battle *time.Timer
}

// TimerSupervisor owns the per-battle turn and battle timers. All
// timer state lives in one injected instance; ending a battle cancels
// both timers synchronously so no stale callback fires against an
// evicted battle.
type TimerSupervisor struct {
	mu             sync.Mutex
	turnDuration   time.Duration
	battleDuration time.Duration
	cb             timerCallbacks
	timers         map[string]*battleTimers
}

func NewTimerSupervisor(turnDuration, battleDuration time.Duration, cb timerCallbacks) *TimerSupervisor {
	return &TimerSupervisor{
		turnDuration:   turnDuration,
		battleDuration: battleDuration,
		cb:             cb,
		timers:         make(map[string]*battleTimers),
	}
}

// StartBattle arms the whole-battle timer (fires once) and the turn
// timer for turnIndex.
func (s *TimerSupervisor) StartBattle(battleID string, turnIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked(battleID)
	s.timers[battleID] = &battleTimers{
		turn:   time.AfterFunc(s.turnDuration, func() { s.cb.OnTurnTimeout(battleID, turnIndex) }),
		battle: time.AfterFunc(s.battleDuration, func() { s.cb.OnBattleTimeout(battleID) }),
	}
}

// ResetTurnTimer stops the previous turn timer before arming one for
// turnIndex. Resetting after CancelAll is a no-op: a finished battle
// never regains a timer.
func (s *TimerSupervisor) ResetTurnTimer(battleID string, turnIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.timers[battleID]
	if !ok {
		return
	}
	t.turn.Stop()
	t.turn = time.AfterFunc(s.turnDuration, func() { s.cb.OnTurnTimeout(battleID, turnIndex) })
}

// CancelAll clears both timers for a battle id. Safe to call for
// unknown ids.
func (s *TimerSupervisor) CancelAll(battleID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked(battleID)
}

func (s *TimerSupervisor) cancelLocked(battleID string) {
	t, ok := s.timers[battleID]
	if !ok {
		return
	}
	t.turn.Stop()
	t.battle.Stop()
	delete(s.timers, battleID)
}

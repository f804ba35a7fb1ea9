package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/constants"
	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/dedupe"
	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/dice"
	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/engine"
	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/game"
	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/logging"
	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/storage"
)

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrBattleNotFound     = errors.New("battle not found")
	ErrBattleFinished     = errors.New("battle already finished")
	ErrNotAllPlayersReady = errors.New("not all players are ready")
	ErrWrongTurn          = errors.New("not this player's turn")
	ErrInvalidParticipant = errors.New("invalid source or target player")

	// ErrNoLivingActor indicates the turn-advance loop exhausted the
	// whole order without finding a living hero. Construction bug:
	// the acting player is alive, so this cannot happen in a
	// consistent battle.
	ErrNoLivingActor = errors.New("no living actor remains in turn order")
)

// How a battle reached its terminal state; recorded in battle history.
const (
	endedByElimination   = "elimination"
	endedByBattleTimeout = "battle_timeout"
	endedByDisconnection = "disconnection"
)

// ActionResult is the projection returned to the transport layer for
// broadcast after a successfully processed action.
type ActionResult struct {
	Action         game.Action  `json:"action"`
	Damage         int          `json:"damage"`
	Healed         int          `json:"healed"`
	Effect         string       `json:"effect,omitempty"`
	KO             bool         `json:"ko"`
	SourceHero     game.Hero    `json:"source_hero"`
	TargetHero     game.Hero    `json:"target_hero"`
	NextTurnPlayer string       `json:"next_turn_player,omitempty"`
	Finished       bool         `json:"finished"`
	Winner         string       `json:"winner,omitempty"`
	Battle         *game.Battle `json:"battle"`
}

// BattleService is the single mutation path for battles. The mutex
// enforces the single-writer discipline: human actions, timer-driven
// forced actions and disconnect handling all serialize here, so no two
// mutations ever interleave on the same battle.
type BattleService struct {
	mu      sync.Mutex
	rooms   storage.RoomRepository
	battles storage.BattleRepository
	rewards *RewardService
	history storage.HistoryRepository
	timers  *TimerSupervisor
	roller  *dice.Roller
}

func NewBattleService(rooms storage.RoomRepository, battles storage.BattleRepository, rewards *RewardService, history storage.HistoryRepository, roller *dice.Roller) *BattleService {
	return &BattleService{
		rooms:   rooms,
		battles: battles,
		rewards: rewards,
		history: history,
		roller:  roller,
	}
}

// AttachTimers wires the supervisor after construction (the supervisor
// needs the service as its callback target).
func (s *BattleService) AttachTimers(t *TimerSupervisor) { s.timers = t }

// CreateBattleFromRoom builds a battle from a fully ready room, starts
// it and arms its timers.
func (s *BattleService) CreateBattleFromRoom(roomID string) (*game.Battle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms.FindByID(roomID)
	if !ok {
		return nil, ErrRoomNotFound
	}
	if !room.AllReady() {
		return nil, ErrNotAllPlayersReady
	}
	if existing, ok := s.battles.FindByRoomID(roomID); ok && !existing.Ended {
		return existing, nil
	}

	teamA := &game.Team{ID: game.TeamA, Players: room.TeamA}
	teamB := &game.Team{ID: game.TeamB, Players: room.TeamB}
	b := game.NewBattle(uuid.NewString(), roomID, teamA, teamB, generateTurnOrder(teamA, teamB))
	b.StartBattle()
	s.battles.Save(b)
	if s.timers != nil {
		s.timers.StartBattle(b.ID, b.CurrentTurnIndex)
	}
	logging.Info("battle started", logging.Fields{
		constants.LogFieldBattleID: b.ID,
		constants.LogFieldRoomID:   roomID,
	})
	return b, nil
}

// generateTurnOrder interleaves the two teams, a random team acting
// first. The order is fixed for the battle's lifetime.
func generateTurnOrder(teamA, teamB *game.Team) []string {
	first, second := teamA, teamB
	if rand.Intn(2) == 0 {
		first, second = teamB, teamA
	}
	maxLen := len(first.Players)
	if len(second.Players) > maxLen {
		maxLen = len(second.Players)
	}
	order := make([]string, 0, len(first.Players)+len(second.Players))
	for i := 0; i < maxLen; i++ {
		if i < len(first.Players) {
			order = append(order, first.Players[i].Username)
		}
		if i < len(second.Players) {
			order = append(order, second.Players[i].Username)
		}
	}
	return order
}

// GetBattle returns the live battle for a room.
func (s *BattleService) GetBattle(roomID string) (*game.Battle, error) {
	b, ok := s.battles.FindByRoomID(roomID)
	if !ok {
		return nil, ErrBattleNotFound
	}
	return b, nil
}

// HandleAction processes one validated action against the room's
// battle: turn ownership, dispatch, damage application, KO detection,
// turn advance, log append, persist, projection. All validation
// happens before any mutation so rejected actions leave the battle
// untouched; turn-start bookkeeping (buff expiry, cooldown ticks) runs
// when the turn lands on a player, not when they submit.
func (s *BattleService) HandleAction(roomID string, action game.Action) (*ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handleActionLocked(roomID, action)
}

func (s *BattleService) handleActionLocked(roomID string, action game.Action) (*ActionResult, error) {
	b, ok := s.battles.FindByRoomID(roomID)
	if !ok {
		return nil, ErrBattleNotFound
	}
	if b.Ended || b.State != game.StateInProgress {
		return nil, ErrBattleFinished
	}
	actor, err := b.GetCurrentActor()
	if err != nil {
		return nil, fmt.Errorf("battle %s: %w", b.ID, err)
	}

	// A timer-generated forced action arrives with empty actor fields
	// and is completed here so the same validation applies to it.
	if action.Source == "" {
		action.Source = actor
		if action.Type == "" {
			action.Type = game.ActionBasicAttack
		}
	}
	if action.Target == "" {
		action.Target = firstLivingOpponent(b, action.Source)
	}

	if action.Source != actor {
		return nil, ErrWrongTurn
	}
	source := b.FindPlayer(action.Source)
	target := b.FindPlayer(action.Target)
	if source == nil || target == nil {
		return nil, ErrInvalidParticipant
	}

	result := &ActionResult{Action: action, Battle: b}
	damage := 0
	var outcome engine.SkillOutcome

	switch action.Type {
	case game.ActionBasicAttack:
		res := engine.CalculateDamage(s.roller, &source.Hero, &target.Hero)
		damage = res.Damage
		result.Effect = string(res.Effect)
	case game.ActionSpecialSkill:
		outcome, err = engine.ResolveSpecial(s.roller, source, game.SpecialSkillID(action.SkillID))
	case game.ActionMasterSkill:
		outcome, err = engine.ResolveMaster(s.roller, source, game.MasterSkillID(action.SkillID))
	default:
		return nil, ErrInvalidParticipant
	}
	if err != nil {
		// Resource and unknown-skill errors: nothing was mutated,
		// the skill was not consumed.
		return nil, err
	}

	if action.Type != game.ActionBasicAttack {
		result.Effect = outcome.Label
		result.Healed = s.applySkillOutcome(b, source, target, outcome)
		// Every non-heal skill still triggers the follow-up basic
		// attack roll.
		if !outcome.HealType {
			res := engine.CalculateDamage(s.roller, &source.Hero, &target.Hero)
			damage = res.Damage
		}
	}

	dealt, ko := engine.ApplyDamage(&target.Hero, damage)
	result.Damage = dealt
	result.KO = ko

	logValue := dealt
	if result.Healed > 0 && dealt == 0 {
		logValue = result.Healed
	}
	b.AppendLog(action.Source, action.Target, logValue, result.Effect)

	if ko {
		go s.rewards.AwardKillExp(context.Background(), b.ID, source.Username, target.Username, "")
		targetTeam := b.TeamOf(target.Username)
		if targetTeam != nil && !targetTeam.Alive() {
			winner := b.OpposingTeam(targetTeam.ID)
			b.EndBattle(string(winner.ID))
			s.finishBattle(b, endedByElimination, nil)
			s.battles.Save(b)
			result.Finished = true
			result.Winner = b.Winner
			result.SourceHero = source.Hero
			result.TargetHero = target.Hero
			return result, nil
		}
	}

	// Power regenerates for the player who just acted, capped at the
	// battle-start snapshot.
	source.Hero.RegeneratePower(b.InitialPowers[source.Username])

	if err := s.advanceToLivingActor(b); err != nil {
		return nil, err
	}

	s.battles.Save(b)
	if s.timers != nil {
		s.timers.ResetTurnTimer(b.ID, b.CurrentTurnIndex)
	}

	next, _ := b.GetCurrentActor()
	result.NextTurnPlayer = next
	result.SourceHero = source.Hero
	result.TargetHero = target.Hero
	return result, nil
}

// advanceToLivingActor advances the turn at least once, then keeps
// skipping KO'd heroes. Turn-start bookkeeping for the actor the turn
// lands on happens here: the buff that lasted until their turn is
// released and their skill cooldowns tick down.
func (s *BattleService) advanceToLivingActor(b *game.Battle) error {
	b.AdvanceTurn()
	for i := 0; i < len(b.TurnOrder); i++ {
		actor, err := b.GetCurrentActor()
		if err != nil {
			return fmt.Errorf("battle %s: %w", b.ID, err)
		}
		p := b.FindPlayer(actor)
		if p != nil && p.Hero.Alive() {
			if p.Hero.Buff != nil && p.Hero.Buff.PendingRemoval {
				p.Hero.ReleaseBuff()
			}
			p.Hero.TickCooldowns()
			return nil
		}
		b.AdvanceTurn()
	}
	return fmt.Errorf("battle %s: %w", b.ID, ErrNoLivingActor)
}

// applySkillOutcome applies heals and temporary buffs from a resolved
// skill. Negative stat deltas land on the target (debuffs); positive
// ones buff the caster. Returns total health restored.
func (s *BattleService) applySkillOutcome(b *game.Battle, source, target *game.Player, outcome engine.SkillOutcome) int {
	healed := 0
	if outcome.SetToFull {
		healed += engine.ApplyHeal(&target.Hero, target.Hero.MaxHealth-target.Hero.Health)
	}
	if outcome.HealTarget > 0 {
		healed += engine.ApplyHeal(&target.Hero, outcome.HealTarget)
	}
	if outcome.HealGroup > 0 {
		for _, p := range b.TeamOf(source.Username).Players {
			if p.Hero.Alive() {
				healed += engine.ApplyHeal(&p.Hero, outcome.HealGroup)
			}
		}
	}
	if outcome.HasBuff() {
		recipient := &source.Hero
		if outcome.TempAttack < 0 || outcome.TempDefense < 0 {
			recipient = &target.Hero
		}
		recipient.ApplyBuff(outcome.TempAttack, outcome.TempDefense, outcome.FlatDamage, outcome.Label)
	}
	return healed
}

// firstLivingOpponent picks the forced-action target: the first member
// of the opposing team still standing.
func firstLivingOpponent(b *game.Battle, username string) string {
	team := b.TeamOf(username)
	if team == nil {
		return ""
	}
	opp := b.OpposingTeam(team.ID)
	if opp == nil {
		return ""
	}
	for _, p := range opp.Players {
		if p.Hero.Alive() {
			return p.Username
		}
	}
	return ""
}

// OnTurnTimeout fires when a player let the turn clock run out: a
// synthetic basic attack is funneled through the normal action path so
// every turn-ownership and state check applies to it too. turnIndex is
// the turn the timer was armed for; a callback that was already in
// flight when a real action advanced the battle sees a moved index and
// is dropped instead of consuming the next player's turn.
func (s *BattleService) OnTurnTimeout(battleID string, turnIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.battles.FindByID(battleID)
	if !ok || b.Ended {
		return
	}
	if b.CurrentTurnIndex != turnIndex {
		return
	}
	if _, err := s.handleActionLocked(b.RoomID, game.Action{Type: game.ActionBasicAttack}); err != nil {
		if !errors.Is(err, ErrBattleFinished) && !errors.Is(err, ErrBattleNotFound) {
			logging.Error("forced action failed", err, logging.Fields{constants.LogFieldBattleID: battleID})
		}
	}
}

// OnBattleTimeout ends an overlong battle with the health tiebreak:
// the team with more total health wins, equal totals are a draw.
func (s *BattleService) OnBattleTimeout(battleID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.battles.FindByID(battleID)
	if !ok || b.Ended {
		return
	}
	healthA := b.Teams[0].TotalHealth()
	healthB := b.Teams[1].TotalHealth()
	winner := game.WinnerDraw
	switch {
	case healthA > healthB:
		winner = string(b.Teams[0].ID)
	case healthB > healthA:
		winner = string(b.Teams[1].ID)
	}
	b.EndBattle(winner)
	s.finishBattle(b, endedByBattleTimeout, nil)
	s.battles.Save(b)
}

// EndBattleByDisconnection force-ends a battle when a participant's
// socket drops. No combat resolution happens; the opponent team is
// awarded the win and the disconnected username is excluded from
// rewards. A battle that already reached a terminal state is left
// alone.
func (s *BattleService) EndBattleByDisconnection(roomID string, winnerTeam game.TeamID, disconnected string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.battles.FindByRoomID(roomID)
	if !ok {
		return ErrBattleNotFound
	}
	if b.Ended || b.State == game.StateFinished {
		return nil
	}
	b.EndBattle(string(winnerTeam))
	s.finishBattle(b, endedByDisconnection, map[string]bool{disconnected: true})
	s.battles.Save(b)
	logging.Info("battle ended by disconnection", logging.Fields{
		constants.LogFieldBattleID: b.ID,
		constants.LogFieldPlayer:   disconnected,
		constants.LogFieldWinner:   b.Winner,
	})
	return nil
}

// CleanupRoomBattle evicts a room's battle and cancels its timers.
// Calling it for a room without a battle is a no-op.
func (s *BattleService) CleanupRoomBattle(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.battles.FindByRoomID(roomID)
	if !ok {
		return
	}
	if s.timers != nil {
		s.timers.CancelAll(b.ID)
	}
	s.battles.Delete(b.ID)
}

// finishBattle runs the shared terminal path: cancel both timers
// synchronously, then distribute rewards, archive the battle and evict
// it asynchronously. The singleflight group guarantees one payout job
// per battle even when KO, timeout and disconnect race. Reward
// failures are logged and never undo the terminal state.
func (s *BattleService) finishBattle(b *game.Battle, endedBy string, excluded map[string]bool) {
	if s.timers != nil {
		s.timers.CancelAll(b.ID)
	}

	active := make(map[string]bool)
	for _, username := range b.Participants() {
		if !excluded[username] {
			active[username] = true
		}
	}
	mode := game.Mode1v1
	if room, ok := s.rooms.FindByID(b.RoomID); ok {
		mode = room.Mode
	}

	go func() {
		_, _, _ = dedupe.RewardGroup.Do(b.ID, func() (interface{}, error) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			s.rewards.AwardBattleEnd(ctx, b, mode, active)
			if err := s.history.SaveBattleRecord(&storage.BattleRecord{
				BattleID:   b.ID,
				RoomID:     b.RoomID,
				Mode:       string(mode),
				Winner:     b.Winner,
				EndedBy:    endedBy,
				Turns:      b.CurrentTurnIndex,
				FinishedAt: time.Now().UTC(),
			}); err != nil {
				logging.Error("failed to archive battle", err, logging.Fields{constants.LogFieldBattleID: b.ID})
			}
			s.battles.Delete(b.ID)
			return nil, nil
		})
	}()
}

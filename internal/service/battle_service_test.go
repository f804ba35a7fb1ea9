package service

import (
	"errors"
	"sync"
	"testing"

	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/dice"
	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/engine"
	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/game"
	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/storage"
)

type mockLedger struct {
	mu      sync.Mutex
	records []storage.RewardRecord
}

func (m *mockLedger) SaveAward(rec *storage.RewardRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, *rec)
	return nil
}

func (m *mockLedger) DeleteAwards(battleID string) error { return nil }

func (m *mockLedger) GetAwards(battleID string) ([]storage.RewardRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]storage.RewardRecord(nil), m.records...), nil
}

type mockHistory struct {
	mu      sync.Mutex
	records []storage.BattleRecord
}

func (m *mockHistory) SaveBattleRecord(rec *storage.BattleRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, *rec)
	return nil
}

func (m *mockHistory) GetBattleRecord(battleID string) (*storage.BattleRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.records {
		if m.records[i].BattleID == battleID {
			return &m.records[i], nil
		}
	}
	return nil, errors.New("not found")
}

func testHero(power int) game.Hero {
	return game.Hero{
		Type:        game.WeaponsPal,
		Health:      20,
		MaxHealth:   20,
		Attack:      10,
		Defense:     0,
		Power:       power,
		Damage:      game.StatRange{Min: 3, Max: 6},
		AttackBoost: game.StatRange{Min: 1, Max: 4},
		SpecialSlot: game.SkillSlot{Special: game.CortadaSuprema},
		MasterSlot:  game.SkillSlot{Master: game.GolpeDefensa},
	}
}

func newTestService() (*BattleService, storage.BattleRepository, storage.RoomRepository) {
	rooms := storage.NewMemoryRoomRepository()
	battles := storage.NewMemoryBattleRepository()
	rewards := NewRewardService(&mockLedger{}, nil, "none")
	svc := NewBattleService(rooms, battles, rewards, &mockHistory{}, dice.New(1))
	return svc, battles, rooms
}

func seedBattle(battles storage.BattleRepository, usernames ...string) *game.Battle {
	half := len(usernames) / 2
	teamA := &game.Team{ID: game.TeamA}
	teamB := &game.Team{ID: game.TeamB}
	order := make([]string, 0, len(usernames))
	for i := 0; i < half; i++ {
		teamA.Players = append(teamA.Players, &game.Player{Username: usernames[i], Hero: testHero(6)})
		teamB.Players = append(teamB.Players, &game.Player{Username: usernames[half+i], Hero: testHero(6)})
		order = append(order, usernames[i], usernames[half+i])
	}
	b := game.NewBattle("battle-1", "ROOM1234", teamA, teamB, order)
	b.StartBattle()
	battles.Save(b)
	return b
}

func TestHandleAction_BasicAttackAdvancesTurn(t *testing.T) {
	svc, battles, _ := newTestService()
	b := seedBattle(battles, "alice", "bob")

	result, err := svc.HandleAction("ROOM1234", game.Action{
		Source: "alice", Target: "bob", Type: game.ActionBasicAttack,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Damage < 3 || result.Damage > 6 {
		t.Fatalf("undefended plain hit must land base damage, got %d", result.Damage)
	}
	if result.NextTurnPlayer != "bob" {
		t.Fatalf("turn must pass to bob, got %q", result.NextTurnPlayer)
	}
	if bob := b.FindPlayer("bob"); bob.Hero.Health != 20-result.Damage {
		t.Fatalf("target health wrong: %d", bob.Hero.Health)
	}
	if len(b.Log) != 1 {
		t.Fatalf("expected one log line, got %d", len(b.Log))
	}
}

func TestHandleAction_WrongTurn(t *testing.T) {
	svc, battles, _ := newTestService()
	b := seedBattle(battles, "alice", "bob")

	_, err := svc.HandleAction("ROOM1234", game.Action{
		Source: "bob", Target: "alice", Type: game.ActionBasicAttack,
	})
	if !errors.Is(err, ErrWrongTurn) {
		t.Fatalf("expected ErrWrongTurn, got %v", err)
	}
	if actor, _ := b.GetCurrentActor(); actor != "alice" {
		t.Fatalf("rejected action must not advance the turn, actor=%q", actor)
	}
	if alice := b.FindPlayer("alice"); alice.Hero.Health != 20 {
		t.Fatalf("rejected action must not mutate heroes")
	}
}

func TestHandleAction_UnknownRoom(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.HandleAction("NOPE", game.Action{Source: "alice", Type: game.ActionBasicAttack})
	if !errors.Is(err, ErrBattleNotFound) {
		t.Fatalf("expected ErrBattleNotFound, got %v", err)
	}
}

func TestHandleAction_FinishedBattle(t *testing.T) {
	svc, battles, _ := newTestService()
	b := seedBattle(battles, "alice", "bob")
	b.EndBattle(string(game.TeamA))
	battles.Save(b)

	_, err := svc.HandleAction("ROOM1234", game.Action{Source: "alice", Type: game.ActionBasicAttack})
	if !errors.Is(err, ErrBattleFinished) {
		t.Fatalf("expected ErrBattleFinished, got %v", err)
	}
}

func TestHandleAction_InsufficientPowerLeavesTurn(t *testing.T) {
	svc, battles, _ := newTestService()
	b := seedBattle(battles, "alice", "bob")
	alice := b.FindPlayer("alice")
	alice.Hero.Power = 0

	_, err := svc.HandleAction("ROOM1234", game.Action{
		Source: "alice", Target: "bob", Type: game.ActionSpecialSkill, SkillID: string(game.CortadaSuprema),
	})
	if !errors.Is(err, engine.ErrInsufficientPower) {
		t.Fatalf("expected ErrInsufficientPower, got %v", err)
	}
	if actor, _ := b.GetCurrentActor(); actor != "alice" {
		t.Fatalf("failed skill must not consume the turn, actor=%q", actor)
	}
	if bob := b.FindPlayer("bob"); bob.Hero.Health != 20 {
		t.Fatalf("failed skill must not touch the target")
	}
}

func TestHandleAction_CooldownRejectionLeavesState(t *testing.T) {
	svc, battles, _ := newTestService()
	b := seedBattle(battles, "alice", "bob")
	alice := b.FindPlayer("alice")
	alice.Hero.SpecialSlot.CooldownLeft = 2

	action := game.Action{
		Source: "alice", Target: "bob", Type: game.ActionSpecialSkill, SkillID: string(game.CortadaSuprema),
	}
	_, err := svc.HandleAction("ROOM1234", action)
	if !errors.Is(err, engine.ErrSkillOnCooldown) {
		t.Fatalf("expected ErrSkillOnCooldown, got %v", err)
	}
	if alice.Hero.SpecialSlot.CooldownLeft != 2 {
		t.Fatalf("rejected skill must not tick the cooldown, got %d", alice.Hero.SpecialSlot.CooldownLeft)
	}
	if alice.Hero.Power != 6 {
		t.Fatalf("rejected skill must not spend power, got %d", alice.Hero.Power)
	}
	if actor, _ := b.GetCurrentActor(); actor != "alice" {
		t.Fatalf("rejected skill must not consume the turn, actor=%q", actor)
	}

	// Resubmitting cannot grind the cooldown down within the same turn.
	if _, err := svc.HandleAction("ROOM1234", action); !errors.Is(err, engine.ErrSkillOnCooldown) {
		t.Fatalf("repeat submission must still be rejected, got %v", err)
	}
	if alice.Hero.SpecialSlot.CooldownLeft != 2 {
		t.Fatalf("cooldown moved on repeat submission, got %d", alice.Hero.SpecialSlot.CooldownLeft)
	}
}

func TestHandleAction_UnequippedSkillRejected(t *testing.T) {
	svc, battles, _ := newTestService()
	b := seedBattle(battles, "alice", "bob")
	alice := b.FindPlayer("alice")

	_, err := svc.HandleAction("ROOM1234", game.Action{
		Source: "alice", Target: "bob", Type: game.ActionSpecialSkill, SkillID: string(game.MisilesDeMagma),
	})
	if !errors.Is(err, engine.ErrSkillNotEquipped) {
		t.Fatalf("expected ErrSkillNotEquipped, got %v", err)
	}
	if alice.Hero.Power != 6 || alice.Hero.SpecialSlot.CooldownLeft != 0 {
		t.Fatalf("rejected skill must not consume anything: power=%d cooldown=%d", alice.Hero.Power, alice.Hero.SpecialSlot.CooldownLeft)
	}
	if actor, _ := b.GetCurrentActor(); actor != "alice" {
		t.Fatalf("rejected skill must not consume the turn, actor=%q", actor)
	}

	if _, err := svc.HandleAction("ROOM1234", game.Action{
		Source: "alice", Target: "bob", Type: game.ActionMasterSkill, SkillID: string(game.TeChangua),
	}); !errors.Is(err, engine.ErrSkillNotEquipped) {
		t.Fatalf("expected ErrSkillNotEquipped for master skill, got %v", err)
	}
}

func TestHandleAction_ForcedActionFillsActor(t *testing.T) {
	svc, battles, _ := newTestService()
	seedBattle(battles, "alice", "bob")

	result, err := svc.HandleAction("ROOM1234", game.Action{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Action.Source != "alice" || result.Action.Target != "bob" {
		t.Fatalf("forced action must fill actor fields: %+v", result.Action)
	}
	if result.Action.Type != game.ActionBasicAttack {
		t.Fatalf("forced action must be a basic attack, got %s", result.Action.Type)
	}
}

func TestHandleAction_KOEndsBattle(t *testing.T) {
	svc, battles, _ := newTestService()
	b := seedBattle(battles, "alice", "bob")
	bob := b.FindPlayer("bob")
	bob.Hero.Health = 1

	result, err := svc.HandleAction("ROOM1234", game.Action{
		Source: "alice", Target: "bob", Type: game.ActionBasicAttack,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.KO || !result.Finished {
		t.Fatalf("lethal hit must finish the battle: ko=%v finished=%v", result.KO, result.Finished)
	}
	if result.Winner != string(game.TeamA) {
		t.Fatalf("winner must be team A, got %q", result.Winner)
	}
	if !b.Ended || b.State != game.StateFinished {
		t.Fatalf("battle must be terminal")
	}
}

func TestHandleAction_SkipsDeadActors(t *testing.T) {
	svc, battles, _ := newTestService()
	b := seedBattle(battles, "alice", "carol", "bob", "dave")
	// Order is alice, bob, carol, dave. Knock bob out so the turn
	// passes straight from alice to carol.
	b.FindPlayer("bob").Hero.Health = 0

	result, err := svc.HandleAction("ROOM1234", game.Action{
		Source: "alice", Target: "dave", Type: game.ActionBasicAttack,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.NextTurnPlayer != "carol" {
		t.Fatalf("dead actor must be skipped, next=%q", result.NextTurnPlayer)
	}
}

func TestHandleAction_BuffLifecycle(t *testing.T) {
	svc, battles, _ := newTestService()
	b := seedBattle(battles, "alice", "bob")
	alice := b.FindPlayer("alice")

	// Alice buffs herself: +2 ATK until her next turn.
	result, err := svc.HandleAction("ROOM1234", game.Action{
		Source: "alice", Target: "bob", Type: game.ActionSpecialSkill, SkillID: string(game.CortadaSuprema),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if alice.Hero.Attack != 12 || alice.Hero.Buff == nil {
		t.Fatalf("buff not applied: atk=%d buff=%+v", alice.Hero.Attack, alice.Hero.Buff)
	}
	// Non-heal skill still rolls the follow-up attack.
	if result.Damage < 3 {
		t.Fatalf("skill action must carry the follow-up hit, damage=%d", result.Damage)
	}
	// Power: 6 - 4 cost + 2 regen = 4.
	if alice.Hero.Power != 4 {
		t.Fatalf("power after spend and regen: got %d, want 4", alice.Hero.Power)
	}

	if _, err := svc.HandleAction("ROOM1234", game.Action{
		Source: "bob", Target: "alice", Type: game.ActionBasicAttack,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The buff is released and cooldowns tick when alice's turn comes
	// around again.
	if alice.Hero.Buff != nil || alice.Hero.Attack != 10 {
		t.Fatalf("buff must expire before owner's next turn: atk=%d buff=%+v", alice.Hero.Attack, alice.Hero.Buff)
	}
	if alice.Hero.SpecialSlot.CooldownLeft != 1 {
		t.Fatalf("cooldown must tick at the owner's turn start, got %d", alice.Hero.SpecialSlot.CooldownLeft)
	}
}

func TestHandleAction_DebuffLandsOnTarget(t *testing.T) {
	svc, battles, _ := newTestService()
	b := seedBattle(battles, "alice", "bob")
	b.FindPlayer("alice").Hero.SpecialSlot.Special = game.VorticeDeHielo
	bob := b.FindPlayer("bob")

	_, err := svc.HandleAction("ROOM1234", game.Action{
		Source: "alice", Target: "bob", Type: game.ActionSpecialSkill, SkillID: string(game.VorticeDeHielo),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bob.Hero.Attack != 8 || bob.Hero.Buff == nil {
		t.Fatalf("debuff must land on the target: atk=%d buff=%+v", bob.Hero.Attack, bob.Hero.Buff)
	}
}

func TestHandleAction_HealSkillSkipsAttack(t *testing.T) {
	svc, battles, _ := newTestService()
	b := seedBattle(battles, "alice", "bob")
	alice := b.FindPlayer("alice")
	alice.Hero.Type = game.Medic
	alice.Hero.Health = 10
	alice.Hero.MasterSlot.Master = game.Reanimador3000
	bob := b.FindPlayer("bob")

	result, err := svc.HandleAction("ROOM1234", game.Action{
		Source: "alice", Target: "alice", Type: game.ActionMasterSkill, SkillID: string(game.Reanimador3000),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if alice.Hero.Health != 20 {
		t.Fatalf("REANIMADOR_3000 must restore full health, got %d", alice.Hero.Health)
	}
	if result.Damage != 0 || bob.Hero.Health != 20 {
		t.Fatalf("heal skills must not trigger the follow-up attack")
	}
	if result.Healed != 10 {
		t.Fatalf("healed amount wrong: got %d, want 10", result.Healed)
	}
}

func TestEndBattleByDisconnection(t *testing.T) {
	svc, battles, _ := newTestService()
	b := seedBattle(battles, "alice", "bob")

	if err := svc.EndBattleByDisconnection("ROOM1234", game.TeamB, "alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !b.Ended || b.Winner != string(game.TeamB) {
		t.Fatalf("disconnection must end the battle for the remaining team: %+v", b)
	}

	// A second disconnect on a terminal battle changes nothing.
	err := svc.EndBattleByDisconnection("ROOM1234", game.TeamA, "bob")
	if err != nil && !errors.Is(err, ErrBattleNotFound) {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Winner != string(game.TeamB) {
		t.Fatalf("terminal state must not be overwritten, winner=%q", b.Winner)
	}
}

func TestOnTurnTimeout_StaleTimerIgnored(t *testing.T) {
	svc, battles, _ := newTestService()
	b := seedBattle(battles, "alice", "bob")

	if _, err := svc.HandleAction("ROOM1234", game.Action{
		Source: "alice", Target: "bob", Type: game.ActionBasicAttack,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A timer armed for alice's turn fires after her action already
	// advanced the battle: it must not consume bob's turn.
	svc.OnTurnTimeout(b.ID, 0)
	if actor, _ := b.GetCurrentActor(); actor != "bob" {
		t.Fatalf("stale timeout must not consume the next turn, actor=%q", actor)
	}
	if len(b.Log) != 1 {
		t.Fatalf("stale timeout must not act, log=%d", len(b.Log))
	}

	// A timeout carrying the current turn index forces bob's attack.
	svc.OnTurnTimeout(b.ID, b.CurrentTurnIndex)
	if actor, _ := b.GetCurrentActor(); actor != "alice" {
		t.Fatalf("live timeout must force the action, actor=%q", actor)
	}
	if len(b.Log) != 2 {
		t.Fatalf("live timeout must act exactly once, log=%d", len(b.Log))
	}
}

func TestOnBattleTimeout_HealthTiebreak(t *testing.T) {
	svc, battles, _ := newTestService()
	b := seedBattle(battles, "alice", "bob")
	b.FindPlayer("bob").Hero.Health = 5

	svc.OnBattleTimeout(b.ID)
	if !b.Ended || b.Winner != string(game.TeamA) {
		t.Fatalf("higher total health must win the timeout, winner=%q", b.Winner)
	}
}

func TestOnBattleTimeout_EqualHealthIsDraw(t *testing.T) {
	svc, battles, _ := newTestService()
	b := seedBattle(battles, "alice", "bob")

	svc.OnBattleTimeout(b.ID)
	if b.Winner != game.WinnerDraw {
		t.Fatalf("equal totals must end in a draw, winner=%q", b.Winner)
	}
}

func TestCreateBattleFromRoom(t *testing.T) {
	svc, _, rooms := newTestService()
	room := &game.Room{
		ID:    "ROOM1234",
		Mode:  game.Mode1v1,
		TeamA: []*game.Player{{Username: "alice", Ready: true, Hero: testHero(6)}},
		TeamB: []*game.Player{{Username: "bob", Ready: true, Hero: testHero(6)}},
	}
	rooms.Save(room)

	b, err := svc.CreateBattleFromRoom("ROOM1234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.State != game.StateInProgress {
		t.Fatalf("battle must start IN_PROGRESS, got %s", b.State)
	}
	if len(b.TurnOrder) != 2 {
		t.Fatalf("turn order must seat both players, got %v", b.TurnOrder)
	}

	// Creating again for the same room returns the running battle.
	again, err := svc.CreateBattleFromRoom("ROOM1234")
	if err != nil || again.ID != b.ID {
		t.Fatalf("second create must return the existing battle: %v", err)
	}
}

func TestCreateBattleFromRoom_NotReady(t *testing.T) {
	svc, _, rooms := newTestService()
	rooms.Save(&game.Room{
		ID:    "ROOM1234",
		Mode:  game.Mode1v1,
		TeamA: []*game.Player{{Username: "alice", Ready: true, Hero: testHero(6)}},
		TeamB: []*game.Player{{Username: "bob", Hero: testHero(6)}},
	})

	if _, err := svc.CreateBattleFromRoom("ROOM1234"); !errors.Is(err, ErrNotAllPlayersReady) {
		t.Fatalf("expected ErrNotAllPlayersReady, got %v", err)
	}
}

func TestGenerateTurnOrder_Interleaves(t *testing.T) {
	teamA := &game.Team{ID: game.TeamA, Players: []*game.Player{{Username: "a1"}, {Username: "a2"}}}
	teamB := &game.Team{ID: game.TeamB, Players: []*game.Player{{Username: "b1"}, {Username: "b2"}}}

	order := generateTurnOrder(teamA, teamB)
	if len(order) != 4 {
		t.Fatalf("order must seat everyone, got %v", order)
	}
	// Whoever goes first, teams must alternate.
	if order[0] == "a1" {
		want := []string{"a1", "b1", "a2", "b2"}
		for i := range want {
			if order[i] != want[i] {
				t.Fatalf("order not interleaved: %v", order)
			}
		}
	} else {
		want := []string{"b1", "a1", "b2", "a2"}
		for i := range want {
			if order[i] != want[i] {
				t.Fatalf("order not interleaved: %v", order)
			}
		}
	}
}

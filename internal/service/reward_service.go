package service

import (
	"context"
	"math"
	"math/rand"

	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/config"
	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/constants"
	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/game"
	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/inventory"
	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/logging"
	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/storage"
)

// RewardService delivers credits and EXP through the external
// inventory service and records every payout in the persistent ledger.
// Delivery is best-effort: failures are logged and never block or roll
// back battle termination.
type RewardService struct {
	ledger storage.RewardsRepository
	client *inventory.Client
	stake  config.StakePolicy
}

func NewRewardService(ledger storage.RewardsRepository, client *inventory.Client, stake config.StakePolicy) *RewardService {
	return &RewardService{ledger: ledger, client: client, stake: stake}
}

// The stake is one posted credit per participant. Which side of the
// ledger settles it is a policy decision, not a rule.
const stakeCredits = 1

// AwardBattleEnd pays every eligible participant. Winners receive 2
// credits in 1v1 and 4 in group modes; everyone else receives the
// participation credit. A DRAW pays the participation credit to all.
// Usernames missing from active (disconnected or inactive players) are
// excluded from payment entirely.
func (s *RewardService) AwardBattleEnd(ctx context.Context, b *game.Battle, mode game.GameMode, active map[string]bool) {
	winnerCredits := 4
	if mode == game.Mode1v1 {
		winnerCredits = 2
	}

	winners := make(map[string]bool)
	if b.Winner != "" && b.Winner != game.WinnerDraw {
		for _, t := range b.Teams {
			if string(t.ID) != b.Winner {
				continue
			}
			for _, p := range t.Players {
				winners[p.Username] = true
			}
		}
	}

	for _, username := range b.Participants() {
		if !active[username] {
			continue
		}
		credits := 1
		if winners[username] {
			credits = winnerCredits
			if s.stake == config.StakeRefundWinners {
				credits += stakeCredits
			}
		} else if s.stake == config.StakeChargeLosers && b.Winner != game.WinnerDraw {
			credits -= stakeCredits
			if credits < 0 {
				credits = 0
			}
		}
		s.deliver(ctx, b.ID, inventory.RewardPayload{
			Rewards: inventory.Rewards{PlayerRewarded: username, Credits: credits},
			WonItem: []inventory.WonItem{{}},
		})
	}
}

// AwardKillExp grants the KO EXP roll to the killer: round(10 × 1.2^d)
// with d = 1d8.
func (s *RewardService) AwardKillExp(ctx context.Context, battleID, killer, victim, itemName string) int {
	d := 1 + rand.Intn(8)
	exp := int(math.Round(10 * math.Pow(1.2, float64(d))))
	s.deliver(ctx, battleID, inventory.RewardPayload{
		Rewards: inventory.Rewards{PlayerRewarded: killer, Exp: exp},
		WonItem: []inventory.WonItem{{OriginPlayer: victim, ItemName: itemName}},
	})
	return exp
}

// GetAwards exposes the ledger lines recorded for a battle.
func (s *RewardService) GetAwards(battleID string) ([]storage.RewardRecord, error) {
	return s.ledger.GetAwards(battleID)
}

// DeleteAwards drops the ledger lines for a battle. Unknown ids are a
// no-op.
func (s *RewardService) DeleteAwards(battleID string) error {
	return s.ledger.DeleteAwards(battleID)
}

func (s *RewardService) deliver(ctx context.Context, battleID string, payload inventory.RewardPayload) {
	var err error
	if s.client != nil {
		err = s.client.SendReward(ctx, payload)
	}
	if err != nil {
		logging.Error("reward delivery failed", err, logging.Fields{
			constants.LogFieldBattleID: battleID,
			constants.LogFieldPlayer:   payload.Rewards.PlayerRewarded,
		})
	}
	rec := &storage.RewardRecord{
		BattleID:       battleID,
		PlayerRewarded: payload.Rewards.PlayerRewarded,
		Credits:        payload.Rewards.Credits,
		Exp:            payload.Rewards.Exp,
		Delivered:      s.client != nil && err == nil,
	}
	if len(payload.WonItem) > 0 {
		rec.OriginPlayer = payload.WonItem[0].OriginPlayer
		rec.ItemName = payload.WonItem[0].ItemName
	}
	if lerr := s.ledger.SaveAward(rec); lerr != nil {
		logging.Error("failed to record reward in ledger", lerr, logging.Fields{constants.LogFieldBattleID: battleID})
	}
}

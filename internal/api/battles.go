package api

import (
	"errors"
	"net/http"

	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/constants"
	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/engine"
	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/game"
	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/logging"
	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/service"

	"github.com/gin-gonic/gin"
)

// GetBattle returns the live battle state for a room.
func (h *BattleHandler) GetBattle(c *gin.Context) {
	room, ok := h.findRoom(c)
	if !ok {
		return
	}
	b, err := h.battles.GetBattle(room.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
		return
	}
	c.JSON(http.StatusOK, b)
}

// SubmitAction validates and applies one player action.
func (h *BattleHandler) SubmitAction(c *gin.Context) {
	room, ok := h.findRoom(c)
	if !ok {
		return
	}
	var action game.Action
	if err := c.ShouldBindJSON(&action); err != nil || action.Source == "" || action.Type == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	result, err := h.battles.HandleAction(room.ID, action)
	if err != nil {
		status, msg := actionErrorStatus(err)
		if status == http.StatusInternalServerError {
			logging.Error("failed to handle action", err, logging.Fields{
				constants.LogFieldRoomID: room.ID,
				constants.LogFieldPlayer: action.Source,
				constants.LogFieldAction: string(action.Type),
			})
		}
		c.JSON(status, gin.H{constants.JSONKeyError: msg})
		return
	}
	c.JSON(http.StatusOK, result)
}

type DisconnectPayload struct {
	Username string `json:"username"`
}

// Disconnect force-ends a battle because a participant dropped. The
// remaining team wins by abandonment.
func (h *BattleHandler) Disconnect(c *gin.Context) {
	room, ok := h.findRoom(c)
	if !ok {
		return
	}
	var req DisconnectPayload
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	b, err := h.battles.GetBattle(room.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
		return
	}
	team := b.TeamOf(req.Username)
	if team == nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrPlayerNotInRoom})
		return
	}
	winner := b.OpposingTeam(team.ID)
	if err := h.battles.EndBattleByDisconnection(room.ID, winner.ID, req.Username); err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		constants.JSONKeyMessage: "Battle ended by disconnection",
		"winner":                 winner.ID,
	})
}

// BattleLog returns the append-only action log of a battle.
func (h *BattleHandler) BattleLog(c *gin.Context) {
	room, ok := h.findRoom(c)
	if !ok {
		return
	}
	b, err := h.battles.GetBattle(room.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
		return
	}
	c.JSON(http.StatusOK, gin.H{"log": b.Log})
}

// GetRewards returns the persisted reward ledger lines for a battle.
func (h *BattleHandler) GetRewards(c *gin.Context) {
	battleID := c.Param("battleID")
	if battleID == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	records, err := h.rewards.GetAwards(battleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchRewards})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rewards": records})
}

// DeleteRewards drops the recorded ledger lines for a battle, used by
// operators after a payout dispute is settled manually.
func (h *BattleHandler) DeleteRewards(c *gin.Context) {
	battleID := c.Param("battleID")
	if battleID == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if err := h.rewards.DeleteAwards(battleID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchRewards})
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "Rewards deleted"})
}

// actionErrorStatus maps service sentinel errors onto HTTP statuses and
// client-facing messages.
func actionErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrBattleNotFound):
		return http.StatusNotFound, constants.ErrBattleNotFound
	case errors.Is(err, service.ErrBattleFinished):
		return http.StatusConflict, constants.ErrBattleFinished
	case errors.Is(err, service.ErrWrongTurn):
		return http.StatusConflict, constants.ErrWrongTurn
	case errors.Is(err, service.ErrInvalidParticipant):
		return http.StatusBadRequest, constants.ErrInvalidParticipant
	case errors.Is(err, engine.ErrUnknownSkill):
		return http.StatusBadRequest, constants.ErrInvalidRequest
	case errors.Is(err, engine.ErrSkillNotEquipped):
		return http.StatusBadRequest, constants.ErrSkillNotEquipped
	case errors.Is(err, engine.ErrInsufficientPower):
		return http.StatusConflict, constants.ErrInsufficientPower
	case errors.Is(err, engine.ErrSkillOnCooldown):
		return http.StatusConflict, constants.ErrSkillOnCooldown
	default:
		return http.StatusInternalServerError, constants.ErrFailedHandleAction
	}
}

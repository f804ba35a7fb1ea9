package api

import (
	"net/http"

	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/constants"
	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/game"
	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/logging"

	"github.com/gin-gonic/gin"
)

type CreateRoomPayload struct {
	Mode      string `json:"mode"`
	Username  string `json:"username"`
	HeroType  string `json:"hero_type"`
	HeroLevel int    `json:"hero_level"`
}

// CreateRoom opens a new room with the creator seated on team A.
func (h *BattleHandler) CreateRoom(c *gin.Context) {
	var req CreateRoomPayload
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	mode := game.GameMode(req.Mode)
	if !mode.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidGameMode})
		return
	}
	player, ok := h.buildPlayer(req.Username, req.HeroType, req.HeroLevel)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidHeroType})
		return
	}

	room := &game.Room{
		ID:    generateRoomCode(),
		Mode:  mode,
		TeamA: []*game.Player{player},
	}
	h.rooms.Save(room)
	logging.Info("room created", logging.Fields{
		constants.LogFieldRoomID: room.ID,
		constants.LogFieldPlayer: req.Username,
	})

	c.JSON(http.StatusCreated, gin.H{
		"room_id": room.ID,
		"mode":    room.Mode,
	})
}

// GetRoom returns the current lobby state.
func (h *BattleHandler) GetRoom(c *gin.Context) {
	room, ok := h.findRoom(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, room)
}

type JoinRoomPayload struct {
	Username  string `json:"username"`
	HeroType  string `json:"hero_type"`
	HeroLevel int    `json:"hero_level"`
	Team      string `json:"team,omitempty"`
}

// JoinRoom seats a player on the requested team, or the emptier one
// when no preference is given.
func (h *BattleHandler) JoinRoom(c *gin.Context) {
	room, ok := h.findRoom(c)
	if !ok {
		return
	}
	var req JoinRoomPayload
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if findSeat(room, req.Username) != nil {
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrAlreadyInRoom})
		return
	}
	player, built := h.buildPlayer(req.Username, req.HeroType, req.HeroLevel)
	if !built {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidHeroType})
		return
	}

	size := room.Mode.TeamSize()
	team := game.TeamID(req.Team)
	if team != game.TeamA && team != game.TeamB {
		team = game.TeamA
		if len(room.TeamA) > len(room.TeamB) {
			team = game.TeamB
		}
	}
	switch {
	case team == game.TeamA && len(room.TeamA) < size:
		room.TeamA = append(room.TeamA, player)
	case team == game.TeamB && len(room.TeamB) < size:
		room.TeamB = append(room.TeamB, player)
	default:
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrRoomFull})
		return
	}
	h.rooms.Save(room)

	c.JSON(http.StatusOK, gin.H{
		"room_id":              room.ID,
		constants.JSONKeyTeam:  team,
		constants.JSONKeyState: room,
	})
}

type LeaveRoomPayload struct {
	Username string `json:"username"`
}

// LeaveRoom removes a player from the lobby. Leaving after the battle
// started goes through the disconnect endpoint instead.
func (h *BattleHandler) LeaveRoom(c *gin.Context) {
	room, ok := h.findRoom(c)
	if !ok {
		return
	}
	var req LeaveRoomPayload
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if _, err := h.battles.GetBattle(room.ID); err == nil {
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrBattleInProgress})
		return
	}
	if findSeat(room, req.Username) == nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrPlayerNotInRoom})
		return
	}
	room.TeamA = removeSeat(room.TeamA, req.Username)
	room.TeamB = removeSeat(room.TeamB, req.Username)
	if len(room.TeamA) == 0 && len(room.TeamB) == 0 {
		h.rooms.Delete(room.ID)
		c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "Room closed"})
		return
	}
	h.rooms.Save(room)
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "Player removed"})
}

type ReadyPayload struct {
	Username string `json:"username"`
}

// ReadyUp marks a player as ready. The last ready-up starts the battle
// and returns it in the response so clients can transition immediately.
func (h *BattleHandler) ReadyUp(c *gin.Context) {
	room, ok := h.findRoom(c)
	if !ok {
		return
	}
	var req ReadyPayload
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	seat := findSeat(room, req.Username)
	if seat == nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrPlayerNotInRoom})
		return
	}
	seat.Ready = true
	h.rooms.Save(room)

	if !room.AllReady() {
		c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "Waiting for other players"})
		return
	}
	b, err := h.battles.CreateBattleFromRoom(room.ID)
	if err != nil {
		logging.Error("failed to create battle", err, logging.Fields{constants.LogFieldRoomID: room.ID})
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateBattle})
		return
	}
	c.JSON(http.StatusOK, gin.H{"battle": b})
}

// buildPlayer clones a hero from the configured roster for a new seat.
func (h *BattleHandler) buildPlayer(username, heroType string, level int) (*game.Player, bool) {
	hero, ok := h.heroes[game.HeroType(heroType)]
	if !ok {
		return nil, false
	}
	if level < 1 {
		level = 1
	}
	hero.Level = level
	// The roster hero holds value-typed slices shared between seats;
	// copy the effect table so per-battle state never aliases it.
	hero.RandomEffects = append([]game.RandomEffect(nil), hero.RandomEffects...)
	return &game.Player{Username: username, HeroLevel: level, Hero: hero}, true
}

func (h *BattleHandler) findRoom(c *gin.Context) (*game.Room, bool) {
	code := normalizeRoomCode(c.Param("roomID"))
	if code == "" || !roomCodeRegex.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return nil, false
	}
	room, ok := h.rooms.FindByID(code)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrRoomNotFound})
		return nil, false
	}
	return room, true
}

func findSeat(room *game.Room, username string) *game.Player {
	for _, p := range room.TeamA {
		if p.Username == username {
			return p
		}
	}
	for _, p := range room.TeamB {
		if p.Username == username {
			return p
		}
	}
	return nil
}

func removeSeat(players []*game.Player, username string) []*game.Player {
	filtered := make([]*game.Player, 0, len(players))
	for _, p := range players {
		if p.Username != username {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

package constants

// Centralized constants for env keys, routes, JSON keys and log fields.
const (
	// Environment variable keys
	EnvConfigPath      = "NEXUS_CONFIG"
	EnvDBPath          = "NEXUS_DB"
	EnvInventoryURL    = "NEXUS_INVENTORY_URL"
	EnvInventoryAPIKey = "NEXUS_INVENTORY_API_KEY"

	// HTTP headers and content types
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"

	ContentTypeJSON = "application/json"

	// Authorization prefix
	BearerPrefix = "Bearer "
)

// Routes used by the backend router
const (
	RouteAPIPrefix = "/api"

	RouteHealth  = "/health"
	RouteVersion = "/version"

	RouteRooms           = "/rooms"
	RouteRoomByID        = "/rooms/:roomID"
	RouteRoomJoin        = "/rooms/:roomID/join"
	RouteRoomLeave       = "/rooms/:roomID/leave"
	RouteRoomReady       = "/rooms/:roomID/ready"
	RouteBattleByRoom    = "/rooms/:roomID/battle"
	RouteBattleAction    = "/rooms/:roomID/battle/action"
	RouteBattleLeave     = "/rooms/:roomID/battle/disconnect"
	RouteBattleLog       = "/rooms/:roomID/battle/log"
	RouteRewardsByBattle = "/rewards/:battleID"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyStatus  = "status"
	JSONKeyTeam    = "team"
	JSONKeyState   = "room"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest     = "Invalid request"
	ErrRoomNotFound       = "Room not found"
	ErrBattleNotFound     = "Battle not found"
	ErrRoomFull           = "Room is full"
	ErrPlayerNotInRoom    = "Player not in this room"
	ErrNotAllPlayersReady = "Not all players are ready"
	ErrWrongTurn          = "Not your turn"
	ErrInvalidParticipant = "Invalid source or target player"
	ErrInsufficientPower  = "Not enough power for this skill"
	ErrSkillOnCooldown    = "Skill is on cooldown"
	ErrSkillNotEquipped   = "Skill not equipped by this hero"
	ErrBattleFinished     = "Battle already finished"
	ErrInvalidHeroType    = "Unknown hero type"
	ErrInvalidGameMode    = "Unknown game mode"
	ErrAlreadyInRoom      = "Player already seated in this room"
	ErrBattleInProgress   = "Battle already in progress"
	ErrFailedHandleAction = "Failed to handle action"
	ErrFailedCreateBattle = "Failed to create battle"
	ErrFailedFetchRewards = "Failed to fetch rewards"
)

// Logging field names
const (
	LogFieldBattleID = "battle_id"
	LogFieldRoomID   = "room_id"
	LogFieldPlayer   = "player"
	LogFieldTeam     = "team"
	LogFieldWinner   = "winner"
	LogFieldAction   = "action"
	LogFieldSkill    = "skill"
	LogFieldAddr     = "addr"
)

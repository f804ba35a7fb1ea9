package main

import (
	"os"
	"time"

	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/api"
	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/constants"
	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/dice"
	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/logging"
	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/service"
	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	// Path may be provided via NEXUS_CONFIG or defaults to
	// ./nexus_config.json in the current working directory.
	configPath := os.Getenv(constants.EnvConfigPath)
	if configPath == "" {
		configPath = "./nexus_config.json"
	}
	cfg := loadConfigOrExit(configPath)

	// Allow the DB path to be configured via NEXUS_DB. Default to a
	// data/ directory inside the module for local development.
	dbPath := os.Getenv(constants.EnvDBPath)
	if dbPath == "" {
		dbPath = "./data/nexus.db"
	}
	db := openDatabaseOrExit(dbPath)

	ledger := storage.NewSQLiteRepository(db)
	rooms := storage.NewMemoryRoomRepository()
	battles := storage.NewMemoryBattleRepository()

	rewards := service.NewRewardService(ledger, newInventoryClient(cfg), cfg.StakePolicy)
	roller := dice.New(time.Now().UnixNano())
	battleService := service.NewBattleService(rooms, battles, rewards, ledger, roller)
	timers := service.NewTimerSupervisor(cfg.TurnDuration, cfg.BattleDuration, battleService)
	battleService.AttachTimers(timers)

	handler := api.NewBattleHandler(rooms, battleService, rewards, cfg.Heroes)

	router := gin.Default()

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		apiRoutes.GET(constants.RouteHealth, api.Health)
		apiRoutes.GET(constants.RouteVersion, api.Version)

		apiRoutes.POST(constants.RouteRooms, handler.CreateRoom)
		apiRoutes.GET(constants.RouteRoomByID, handler.GetRoom)
		apiRoutes.POST(constants.RouteRoomJoin, handler.JoinRoom)
		apiRoutes.POST(constants.RouteRoomLeave, handler.LeaveRoom)
		apiRoutes.POST(constants.RouteRoomReady, handler.ReadyUp)

		apiRoutes.GET(constants.RouteBattleByRoom, handler.GetBattle)
		apiRoutes.POST(constants.RouteBattleAction, handler.SubmitAction)
		apiRoutes.POST(constants.RouteBattleLeave, handler.Disconnect)
		apiRoutes.GET(constants.RouteBattleLog, handler.BattleLog)
		apiRoutes.GET(constants.RouteRewardsByBattle, handler.GetRewards)
		apiRoutes.DELETE(constants.RouteRewardsByBattle, handler.DeleteRewards)
	}

	addr := cfg.ServerAddress
	logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr})
	if err := router.Run(addr); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}

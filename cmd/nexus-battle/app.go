package main

import (
	"os"

	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/config"
	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/constants"
	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/inventory"
	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/logging"
	"github.com/JPabloCarvajal/NEXUS-BATTLE-IV/internal/storage"

	"gorm.io/gorm"
)

func loadConfigOrExit(path string) *config.LoadedConfig {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logging.Fatal("Missing or invalid battle configuration", err, logging.Fields{"config_path": path})
	}
	return cfg
}

func openDatabaseOrExit(dbPath string) *gorm.DB {
	db, err := storage.OpenAndMigrate(dbPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}
	return db
}

// newInventoryClient builds the reward delivery client. Environment
// variables override the values from the config file so deployments
// can rotate keys without editing config.
func newInventoryClient(cfg *config.LoadedConfig) *inventory.Client {
	url := os.Getenv(constants.EnvInventoryURL)
	if url == "" {
		url = cfg.InventoryURL
	}
	apiKey := os.Getenv(constants.EnvInventoryAPIKey)
	if apiKey == "" {
		apiKey = cfg.InventoryAPIKey
	}
	if url == "" {
		logging.Warn("inventory service not configured; rewards will only be recorded locally", nil)
		return nil
	}
	return inventory.NewClient(url, apiKey)
}

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"winsfinder/internal/contract"
	"winsfinder/internal/winstore"
	"winsfinder/schema"
)

// storeSetup loads minimal configuration needed for store operations.
// This is used by commands that need store access without full shared setup.
func storeSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get store-related config values
	backend := schema.DatabaseBackend(viper.GetString("store-backend"))
	connStr := viper.GetString("store-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	if err := winstore.InitStore(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr

	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for store commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize the store or create
// tables, allowing migrations to run on a fresh database.
func storeMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backendStr := viper.GetString("store-backend")
	connStr := viper.GetString("store-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetStoreDBFilePath()
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr

	return nil
}

// storeMigrateSetupWrapper wraps storeMigrateSetup to provide PreRunE for the migrate command.
func storeMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeMigrateSetup()
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization (storeSetup) instead of
// the full sharedSetup used by analysis commands. This avoids credential
// checks and service wiring for simple store operations.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the raw activity cache (reduces API calls)",
	Long: `Manage the raw activity cache that avoids repeated service API calls.

Winsfinder caches raw service responses per timeframe to stay within
API rate limits and speed up repeated analyses of the same week.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show cache statistics and connection info
  clear   - Remove all stored data
  sweep   - Delete cache entries older than the retention window
  migrate - Run database schema migrations

Examples:
  # Check cache status
  winsfinder cache status

  # Clear everything after changing accounts
  winsfinder cache clear`,
}

// cacheStatusCmd shows store status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show detailed information about the raw activity cache.

Displays:
- Backend type and connection status
- Number of cached entries per service and data type

Examples:
  # Check cache status
  winsfinder cache status`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := winstore.Manager.GetActivityStore()
		if store == nil {
			contract.LogFatal("Activity store is not initialized", fmt.Errorf("store is nil"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		if err := winstore.PrintStoreStatus(status); err != nil {
			contract.LogFatal("Failed to print store status", err)
		}
	},
}

// cacheClearCmd clears the store.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored activity data, preferences and history",
	Long: `Delete all stored data from the configured backend.

Use this when:
- Switching to a different set of service accounts
- The cache may be stale or corrupted
- Testing collection without cache

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the winsfinder tables

Examples:
  # Clear SQLite store (default)
  winsfinder cache clear

  # Clear MySQL store (set connection string via env variable)
  WINSFINDER_STORE_BACKEND=mysql WINSFINDER_STORE_DB_CONNECT="..." winsfinder cache clear`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := winstore.ClearStore(cfg.StoreBackend, contract.GetStoreDBFilePath(), cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Store cleared successfully.")
	},
}

// cacheSweepCmd deletes stale cache entries.
var cacheSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete cache entries older than the retention window",
	Long: `Remove raw activity cache entries fetched more than the retention
window ago. Preferences and wins history are never swept.

Examples:
  # Sweep entries older than the default retention window
  winsfinder cache sweep`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := winstore.Manager.GetActivityStore()
		if store == nil {
			contract.LogFatal("Activity store is not initialized", fmt.Errorf("store is nil"))
		}
		removed, err := store.SweepCache(contract.DefaultSweepDays * 24 * time.Hour)
		if err != nil {
			contract.LogFatal("Failed to sweep cache", err)
		}
		fmt.Printf("Removed %d cache entries older than %d days.\n", removed, contract.DefaultSweepDays)
	},
}

// cacheMigrateCmd runs database migrations for the activity store.
var cacheMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations",
	Long: `Apply database schema migrations to the activity store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  winsfinder cache migrate

  # Migrate to specific version
  winsfinder cache migrate --target-version 1

  # Rollback everything
  winsfinder cache migrate --target-version 0`,
	PreRunE: storeMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := winstore.MigrateStore(cfg.StoreBackend, cfg.StoreDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to migrate store", err)
		}
	},
}

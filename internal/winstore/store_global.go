package winstore

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"winsfinder/internal/contract"
	"winsfinder/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// StoreManager holds the activity store behind a lock so that MCP
// handlers and CLI commands can share one connection.
type StoreManager struct {
	sync.RWMutex
	activity contract.ActivityStore
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// GetActivityStore returns the current activity store, or nil when
// persistence is not initialized.
func (m *StoreManager) GetActivityStore() contract.ActivityStore {
	m.RLock()
	defer m.RUnlock()
	return m.activity
}

// GetDBFilePath returns the path to the SQLite DB file for activity storage.
func GetDBFilePath() string {
	return contract.GetStoreDBFilePath()
}

// InitStore initializes the global store manager.
// backend can be empty to disable persistence entirely.
func InitStore(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		// This function body runs exactly once, even with concurrent calls.
		var activityStore contract.ActivityStore
		if backend != "" {
			var err error
			activityStore, err = NewWinsStore(backend, connStr)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize activity store: %w", err)
				return
			}
		}

		Manager.Lock()
		Manager.activity = activityStore
		Manager.Unlock()
	})

	// After once.Do, initErr will contain any error from the initialization block.
	return initErr
}

// CloseStore should be called on application shutdown.
func CloseStore() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.activity != nil {
			_ = Manager.activity.Close()
		}
	})
}

// ClearStore clears persisted activity data for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the tables.
// For NoneBackend, it does nothing.
func ClearStore(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend:
		return dropStoreTables("mysql", connStr)

	case schema.PostgreSQLBackend:
		return dropStoreTables("pgx", connStr)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported store backend for clearing: %s", backend)
	}
}

// dropStoreTables connects to the SQL database and drops all store tables.
func dropStoreTables(driverName, connStr string) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	tables := []string{rawActivityTable, preferencesTable, winsHistoryTable, correlationsTable}
	for _, table := range tables {
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s", table)
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	return nil
}

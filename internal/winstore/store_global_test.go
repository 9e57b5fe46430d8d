package winstore

import (
	"os"
	"sync"
	"testing"

	"winsfinder/schema"
)

func TestStoreLifecycle(t *testing.T) {
	t.Run("single setup", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		testDBPath := GetDBFilePath()
		initOnce = sync.Once{}  // Reset for test
		closeOnce = sync.Once{} // Reset for test

		// Test initialization with SQLite backend
		err := InitStore(schema.SQLiteBackend, "")
		if err != nil {
			t.Fatalf("Failed to initialize store: %v", err)
		}

		// Test that Manager is accessible
		if Manager == nil {
			t.Fatal("Manager is nil")
		}

		// Test that the store is accessible
		if Manager.GetActivityStore() == nil {
			t.Fatal("Activity store is nil")
		}

		// Test cleanup
		CloseStore()

		// Verify database file was created
		if _, err := os.Stat(testDBPath); os.IsNotExist(err) {
			t.Fatal("Database file was not created")
		}
	})

	t.Run("idempotent setup", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		initOnce = sync.Once{}  // Reset for test
		closeOnce = sync.Once{} // Reset for test

		// Multiple initializations should be safe (sync.Once)
		err1 := InitStore(schema.SQLiteBackend, "")
		err2 := InitStore(schema.SQLiteBackend, "")
		err3 := InitStore(schema.SQLiteBackend, "")

		if err1 != nil {
			t.Fatalf("First init failed: %v", err1)
		}
		if err2 != nil {
			t.Fatalf("Second init failed: %v", err2)
		}
		if err3 != nil {
			t.Fatalf("Third init failed: %v", err3)
		}

		// Multiple closes should be safe (sync.Once)
		CloseStore()
		CloseStore()
		CloseStore()
	})

	t.Run("disabled persistence", func(t *testing.T) {
		initOnce = sync.Once{}  // Reset for test
		closeOnce = sync.Once{} // Reset for test

		// An empty backend disables persistence entirely
		err := InitStore("", "")
		if err != nil {
			t.Fatalf("Failed to initialize with persistence disabled: %v", err)
		}

		if Manager.GetActivityStore() != nil {
			t.Fatal("Activity store should be nil when persistence is disabled")
		}

		CloseStore()
	})
}

func TestClearStoreSQLite(t *testing.T) {
	dir := t.TempDir()
	dbPath := dir + "/winsfinder-test.db"
	if err := os.WriteFile(dbPath, []byte("stale"), 0o644); err != nil {
		t.Fatalf("Failed to seed db file: %v", err)
	}

	if err := ClearStore(schema.SQLiteBackend, dbPath, ""); err != nil {
		t.Fatalf("ClearStore failed: %v", err)
	}
	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Fatal("Database file was not removed")
	}

	// Clearing an already-missing file is not an error
	if err := ClearStore(schema.SQLiteBackend, dbPath, ""); err != nil {
		t.Fatalf("ClearStore on missing file failed: %v", err)
	}

	// Missing path is rejected
	if err := ClearStore(schema.SQLiteBackend, "", ""); err == nil {
		t.Fatal("Expected error for empty dbFilePath")
	}
}

func TestClearStoreNoneBackend(t *testing.T) {
	if err := ClearStore(schema.NoneBackend, "", ""); err != nil {
		t.Fatalf("ClearStore with none backend failed: %v", err)
	}
	if err := ClearStore("bogus", "", ""); err == nil {
		t.Fatal("Expected error for unsupported backend")
	}
}

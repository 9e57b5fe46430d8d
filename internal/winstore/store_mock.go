package winstore

import (
	"encoding/json"
	"time"

	"github.com/stretchr/testify/mock"

	"winsfinder/internal/contract"
	"winsfinder/schema"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetActivityStore implements the StoreManager interface.
func (m *MockStoreManager) GetActivityStore() contract.ActivityStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.ActivityStore)
	return store
}

// MockActivityStore is a mock implementation of ActivityStore for testing.
type MockActivityStore struct {
	mock.Mock
}

var _ contract.ActivityStore = &MockActivityStore{} // Compile-time check

// PutCache implements the ActivityStore interface.
func (m *MockActivityStore) PutCache(source schema.Service, dataType string, bundle *schema.ActivityBundle, start, end time.Time) (int64, error) {
	args := m.Called(source, dataType, bundle, start, end)
	return args.Get(0).(int64), args.Error(1)
}

// GetCache implements the ActivityStore interface.
func (m *MockActivityStore) GetCache(source schema.Service, dataType string, start, end time.Time, maxAge time.Duration) (*schema.ActivityBundle, bool, error) {
	args := m.Called(source, dataType, start, end, maxAge)
	bundle, _ := args.Get(0).(*schema.ActivityBundle)
	return bundle, args.Bool(1), args.Error(2)
}

// PutPreference implements the ActivityStore interface.
func (m *MockActivityStore) PutPreference(key string, value any) error {
	args := m.Called(key, value)
	return args.Error(0)
}

// GetPreference implements the ActivityStore interface.
func (m *MockActivityStore) GetPreference(key string) (json.RawMessage, bool, error) {
	args := m.Called(key)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Bool(1), args.Error(2)
}

// SaveHistory implements the ActivityStore interface.
func (m *MockActivityStore) SaveHistory(weekStart time.Time, report *schema.WinsReport) (int64, error) {
	args := m.Called(weekStart, report)
	return args.Get(0).(int64), args.Error(1)
}

// GetAllHistory implements the ActivityStore interface.
func (m *MockActivityStore) GetAllHistory() ([]schema.HistoryRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.HistoryRecord)
	return records, args.Error(1)
}

// SaveCorrelation implements the ActivityStore interface.
func (m *MockActivityStore) SaveCorrelation(primarySource schema.Service, primaryID string, related []schema.ActivityEvent, confidence float64, corrType schema.CorrelationType) (int64, error) {
	args := m.Called(primarySource, primaryID, related, confidence, corrType)
	return args.Get(0).(int64), args.Error(1)
}

// CacheStats implements the ActivityStore interface.
func (m *MockActivityStore) CacheStats() (map[string]schema.CacheStat, error) {
	args := m.Called()
	stats, _ := args.Get(0).(map[string]schema.CacheStat)
	return stats, args.Error(1)
}

// SweepCache implements the ActivityStore interface.
func (m *MockActivityStore) SweepCache(olderThan time.Duration) (int64, error) {
	args := m.Called(olderThan)
	return args.Get(0).(int64), args.Error(1)
}

// GetStatus implements the ActivityStore interface.
func (m *MockActivityStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the ActivityStore interface.
func (m *MockActivityStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

package settings

import (
	"sync"

	"github.com/haukened/safe-block/internal/safeblock/common/clock"
	"github.com/haukened/safe-block/internal/safeblock/domain"
)

// memoryRepository keeps the record in process memory. Used when no database
// path is configured and as a lightweight collaborator in tests.
type memoryRepository struct {
	mu      sync.Mutex
	clk     clock.Clock
	current *domain.Settings
	version uint64
	updated int64
}

// NewMemory returns an empty in-memory Repository.
func NewMemory(clk clock.Clock) Repository {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &memoryRepository{clk: clk}
}

func (m *memoryRepository) Load() (domain.Settings, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return domain.Settings{}, false, nil
	}
	return m.current.Clone(), true, nil
}

func (m *memoryRepository) Save(s domain.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := s.Clone()
	m.current = &c
	m.version++
	m.updated = m.clk.Now().Unix()
	return nil
}

func (m *memoryRepository) Delete() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil
	m.version = 0
	m.updated = 0
	return nil
}

func (m *memoryRepository) Stats() StoreStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return StoreStats{Present: m.current != nil, Version: m.version, UpdatedUnix: m.updated}
}

func (m *memoryRepository) Close() error { return nil }

package settings

import "github.com/haukened/safe-block/internal/safeblock/domain"

// StoreStats captures metadata about the persisted record.
type StoreStats struct {
	Present     bool   // a settings record exists
	Version     uint64 // incremented on every successful Save
	UpdatedUnix int64  // seconds since epoch of the last Save
}

// Repository is the persistence collaborator for the settings aggregate.
// - Load: the stored record, ok=false when none exists (first install)
// - Save: durably replace the record; only a nil return counts as committed
// - Delete: discard the record (uninstall/reset)
type Repository interface {
	Load() (domain.Settings, bool, error)
	Save(s domain.Settings) error
	Delete() error
	Stats() StoreStats
	Close() error
}

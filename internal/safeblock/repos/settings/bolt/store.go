package bolt

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bbolt "go.etcd.io/bbolt"
	bberrors "go.etcd.io/bbolt/errors"

	"github.com/haukened/safe-block/internal/safeblock/common/clock"
	"github.com/haukened/safe-block/internal/safeblock/domain"
	"github.com/haukened/safe-block/internal/safeblock/repos/settings"
)

var (
	bucketSettings = []byte("settings")
	bucketMeta     = []byte("meta")

	keyCurrent = []byte("current")
	keyVersion = []byte("version")
	keyUpdated = []byte("updated")
)

// boltStore implements settings.Repository using bbolt. The record is stored
// as JSON matching the documented persisted-settings schema.
type boltStore struct {
	db  *bbolt.DB
	clk clock.Clock
}

// bucketCreator is the subset of *bbolt.Tx used to create buckets.
type bucketCreator interface {
	CreateBucketIfNotExists(name []byte) (*bbolt.Bucket, error)
}

// bucketDeleter is the subset of *bbolt.Tx used to drop buckets.
type bucketDeleter interface {
	DeleteBucket(name []byte) error
}

// ensureBuckets creates every bucket the store relies on.
func ensureBuckets(tx bucketCreator) error {
	for _, name := range [][]byte{bucketSettings, bucketMeta} {
		if _, err := tx.CreateBucketIfNotExists(name); err != nil {
			return fmt.Errorf("create bucket %s: %w", name, err)
		}
	}
	return nil
}

// deleteBuckets drops the named buckets, ignoring ones that do not exist.
func deleteBuckets(tx bucketDeleter, names ...[]byte) error {
	for _, name := range names {
		if err := tx.DeleteBucket(name); err != nil && !errors.Is(err, bberrors.ErrBucketNotFound) {
			return fmt.Errorf("delete bucket %s: %w", name, err)
		}
	}
	return nil
}

// Seams for tests.
var (
	ensureBucketsFn = ensureBuckets
	deleteBucketsFn = deleteBuckets
)

// New opens (or creates) a Bolt database at path and ensures buckets exist.
func New(path string, clk clock.Clock) (settings.Repository, error) {
	if clk == nil {
		clk = clock.RealClock{}
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		return ensureBucketsFn(tx)
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &boltStore{db: db, clk: clk}, nil
}

func (s *boltStore) Close() error { return s.db.Close() }

// Load decodes the stored record. ok is false when no record exists.
func (s *boltStore) Load() (domain.Settings, bool, error) {
	var (
		out domain.Settings
		ok  bool
	)
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSettings)
		if b == nil {
			return nil
		}
		v := b.Get(keyCurrent)
		if v == nil {
			return nil
		}
		rec, err := decodeSettings(v)
		if err != nil {
			return err
		}
		out, ok = rec, true
		return nil
	})
	if err != nil {
		return domain.Settings{}, false, err
	}
	return out, ok, nil
}

// Save replaces the record and bumps the meta version in one transaction, so
// a failed write leaves the previous record intact.
func (s *boltStore) Save(rec domain.Settings) error {
	payload, err := encodeSettings(rec)
	if err != nil {
		return err
	}
	now := s.clk.Now().Unix()
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := ensureBucketsFn(tx); err != nil {
			return err
		}
		if err := tx.Bucket(bucketSettings).Put(keyCurrent, payload); err != nil {
			return err
		}
		meta := tx.Bucket(bucketMeta)
		version := readUint64(meta.Get(keyVersion)) + 1
		return writeMeta(meta, version, now)
	})
}

// Delete drops the record and its metadata, then recreates empty buckets.
func (s *boltStore) Delete() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := deleteBucketsFn(tx, bucketSettings, bucketMeta); err != nil {
			return err
		}
		return ensureBucketsFn(tx)
	})
}

func (s *boltStore) Stats() settings.StoreStats {
	st := settings.StoreStats{}
	_ = s.db.View(func(tx *bbolt.Tx) error {
		if b := tx.Bucket(bucketSettings); b != nil {
			st.Present = b.Get(keyCurrent) != nil
		}
		if b := tx.Bucket(bucketMeta); b != nil {
			st.Version = readUint64(b.Get(keyVersion))
			st.UpdatedUnix = int64(readUint64(b.Get(keyUpdated)))
		}
		return nil
	})
	return st
}

// metaWriter is the subset of *bbolt.Bucket used to write metadata.
type metaWriter interface {
	Put(key, value []byte) error
}

func writeMeta(b metaWriter, version uint64, updatedUnix int64) error {
	vbuf := make([]byte, 8)
	ubuf := make([]byte, 8)
	binary.BigEndian.PutUint64(vbuf, version)
	binary.BigEndian.PutUint64(ubuf, uint64(updatedUnix))
	if err := b.Put(keyVersion, vbuf); err != nil {
		return err
	}
	return b.Put(keyUpdated, ubuf)
}

func readUint64(v []byte) uint64 {
	if len(v) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(v)
}

// record mirrors the persisted schema; CustomBlockedURLs may be null on disk.
type record struct {
	PasswordHash      *string  `json:"passwordHash"`
	BlockAdultSites   bool     `json:"blockAdultSites"`
	CustomBlockedURLs []string `json:"customBlockedUrls"`
	SetupComplete     bool     `json:"setupComplete"`
}

func encodeSettings(s domain.Settings) ([]byte, error) {
	rec := record{
		PasswordHash:      s.PasswordHash,
		BlockAdultSites:   s.BlockAdultSites,
		CustomBlockedURLs: s.CustomBlockedURLs,
		SetupComplete:     s.SetupComplete,
	}
	if rec.CustomBlockedURLs == nil {
		rec.CustomBlockedURLs = []string{}
	}
	return json.Marshal(rec)
}

func decodeSettings(v []byte) (domain.Settings, error) {
	var rec record
	if err := json.Unmarshal(v, &rec); err != nil {
		return domain.Settings{}, fmt.Errorf("decode settings record: %w", err)
	}
	out := domain.Settings{
		PasswordHash:      rec.PasswordHash,
		BlockAdultSites:   rec.BlockAdultSites,
		CustomBlockedURLs: rec.CustomBlockedURLs,
		SetupComplete:     rec.SetupComplete,
	}
	if out.CustomBlockedURLs == nil {
		out.CustomBlockedURLs = []string{}
	}
	return out, nil
}

var _ settings.Repository = (*boltStore)(nil)

package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rigmend/rigmend/pkg/types"
	bolt "go.etcd.io/bbolt"
)

var (
	// Bucket names, one per aggregate
	bucketConfig    = []byte("config")
	bucketBaselines = []byte("baselines")
	bucketActionLog = []byte("action_log")

	// Each aggregate is stored wholesale under a single key
	keyCurrent = []byte("current")
)

// BoltStore implements Store using BoltDB
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore creates a new BoltDB-backed store
func NewBoltStore(dataDir string) (*BoltStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "rigmend.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Create buckets
	err = db.Update(func(tx *bolt.Tx) error {
		buckets := [][]byte{
			bucketConfig,
			bucketBaselines,
			bucketActionLog,
		}

		for _, bucket := range buckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})

	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// Close closes the database
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) put(bucket []byte, v any) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		return b.Put(keyCurrent, data)
	})
}

func (s *BoltStore) get(bucket []byte, v any) error {
	return s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		data := b.Get(keyCurrent)
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, v)
	})
}

// Config aggregate
func (s *BoltStore) SaveConfig(cfg types.Config) error {
	return s.put(bucketConfig, cfg)
}

func (s *BoltStore) LoadConfig() (types.Config, error) {
	var cfg types.Config
	if err := s.get(bucketConfig, &cfg); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// Baselines aggregate
func (s *BoltStore) SaveBaselines(samples map[string][]types.Sample) error {
	return s.put(bucketBaselines, samples)
}

func (s *BoltStore) LoadBaselines() (map[string][]types.Sample, error) {
	var samples map[string][]types.Sample
	if err := s.get(bucketBaselines, &samples); err != nil {
		return nil, err
	}
	return samples, nil
}

// Action log aggregate
func (s *BoltStore) SaveActionLog(entries []types.ActionEntry) error {
	return s.put(bucketActionLog, entries)
}

func (s *BoltStore) LoadActionLog() ([]types.ActionEntry, error) {
	var entries []types.ActionEntry
	if err := s.get(bucketActionLog, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

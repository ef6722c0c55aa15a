// Package store persists trained model checkpoints and cached embedding
// vectors in a single BoltDB file under the data directory.
package store

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"addrvec/internal/adapter/nn"
)

var (
	bucketCheckpoints = []byte("checkpoints")
	bucketVectors     = []byte("vectors")
	bucketMeta        = []byte("meta")
	keySchemaVersion  = []byte("schema_version")
)

// schemaVersion guards against opening a database written by an
// incompatible build.
const schemaVersion = 1

// LatestCheckpoint is the conventional name the train command saves under.
const LatestCheckpoint = "latest"

// BoltStore owns the model database.
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore opens (or creates) the model database at path.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open model db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketCheckpoints, bucketVectors, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}

		meta := tx.Bucket(bucketMeta)
		if existing := meta.Get(keySchemaVersion); existing != nil {
			var v int
			if err := json.Unmarshal(existing, &v); err != nil || v != schemaVersion {
				return fmt.Errorf("model db schema version %s is not %d; delete the .addrvec directory and retrain", existing, schemaVersion)
			}
			return nil
		}
		data, _ := json.Marshal(schemaVersion)
		return meta.Put(keySchemaVersion, data)
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// DB exposes the underlying handle so the vector store can share the file.
func (s *BoltStore) DB() *bbolt.DB {
	return s.db
}

// Close closes the database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Checkpoint is a trained encoder frozen at a point in time.
type Checkpoint struct {
	SavedAt   int64      `json:"saved_at"`
	Config    nn.Config  `json:"config"`
	Weights   *nn.Params `json:"weights"`
	Epochs    int        `json:"epochs"`
	FinalLoss float64    `json:"final_loss"`
}

// SaveCheckpoint stores a checkpoint under the given name, overwriting any
// previous one.
func (s *BoltStore) SaveCheckpoint(name string, cp Checkpoint) error {
	if cp.SavedAt == 0 {
		cp.SavedAt = time.Now().Unix()
	}
	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketCheckpoints).Put([]byte(name), data)
	})
}

// LoadCheckpoint fetches a checkpoint by name.
func (s *BoltStore) LoadCheckpoint(name string) (Checkpoint, error) {
	var cp Checkpoint
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketCheckpoints).Get([]byte(name))
		if data == nil {
			return fmt.Errorf("checkpoint not found: %s", name)
		}
		return json.Unmarshal(data, &cp)
	})
	return cp, err
}

// ListCheckpoints returns the stored checkpoint names.
func (s *BoltStore) ListCheckpoints() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketCheckpoints).ForEach(func(k, v []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

package persist

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	bolt "go.etcd.io/bbolt"
)

// bucketName holds every setting in a Bolt database.
var bucketName = []byte("settings")

// Bolt persists the table in a single bucket of a Bolt database. The
// database is opened for each operation and closed afterwards, so no lock
// is held on the file between saves.
type Bolt struct {
	path    string
	timeout time.Duration
}

// NewBolt returns a Bolt backend for the database at path.
func NewBolt(path string) *Bolt {
	return &Bolt{path: path, timeout: time.Second}
}

// Path returns the database path.
func (b *Bolt) Path() string {
	return b.path
}

func (b *Bolt) open() (*bolt.DB, error) {
	db, err := bolt.Open(b.path, 0o600, &bolt.Options{Timeout: b.timeout})
	if err != nil {
		return nil, fmt.Errorf("opening bolt database %s: %w", b.path, err)
	}
	return db, nil
}

// Load reads every key of the settings bucket.
func (b *Bolt) Load() (map[string]string, error) {
	if _, err := os.Stat(b.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotExist, b.path)
		}
		return nil, err
	}

	db, err := b.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	table := make(map[string]string)
	err = db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketName)
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(k, v []byte) error {
			table[string(k)] = string(v)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return table, nil
}

// Save replaces the settings bucket with table in one transaction.
func (b *Bolt) Save(table map[string]string) error {
	db, err := b.open()
	if err != nil {
		return err
	}
	defer db.Close()

	return db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketName); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		bucket, err := tx.CreateBucket(bucketName)
		if err != nil {
			return err
		}
		for k, v := range table {
			if err := bucket.Put([]byte(k), []byte(v)); err != nil {
				return fmt.Errorf("storing %q: %w", k, err)
			}
		}
		return nil
	})
}

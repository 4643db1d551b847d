// Package imagestore persists uploaded image payloads in an embedded bbolt
// database. Each payload is stored under a generated unique id; entries are
// never updated or deleted. The database file survives process restarts, so
// previously uploaded images can be re-displayed without re-upload.
package imagestore

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

const dataURIPrefix = "data:image"

var bucketImages = []byte("images")

// IDGenerator produces fresh unique identifiers. Injected so tests can
// supply deterministic ids.
type IDGenerator func() string

// Store is a bbolt-backed image payload store.
type Store struct {
	db    *bolt.DB
	newID IDGenerator
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator overrides the default uuid generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Store) { s.newID = gen }
}

// Open opens (or creates) the image database at path.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open image store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketImages)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init image store: %w", err)
	}

	s := &Store{db: db, newID: uuid.NewString}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save durably persists a Base64 image payload under a fresh unique id and
// returns the id.
func (s *Store) Save(payload string) (string, error) {
	id := s.newID()
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketImages).Put([]byte(id), []byte(payload))
	})
	if err != nil {
		return "", fmt.Errorf("save image %s: %w", id, err)
	}
	return id, nil
}

// Load retrieves a previously saved payload. A missing id is signalled by
// ok=false, not an error. Payloads lacking the image data-URI prefix are
// normalized on read.
func (s *Store) Load(id string) (payload string, ok bool, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketImages).Get([]byte(id))
		if v == nil {
			return nil
		}
		ok = true
		payload = string(v)
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("load image %s: %w", id, err)
	}
	if !ok {
		return "", false, nil
	}
	return NormalizeDataURI(payload), true, nil
}

// NormalizeDataURI prepends a PNG data-URI header to bare Base64 payloads.
// Payloads that already carry an image data-URI prefix pass through
// unchanged.
func NormalizeDataURI(payload string) string {
	if strings.HasPrefix(payload, dataURIPrefix) {
		return payload
	}
	return "data:image/png;base64," + payload
}

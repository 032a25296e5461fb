// Package cache implements the client's persistent encrypted content cache.
//
// Blobs stay encrypted at rest; the cache never sees a key or a plaintext
// byte. Each resource occupies one blob entry plus one metadata entry, written
// in a single transaction so a crash never leaves one without the other.
package cache

import (
	"encoding/json"
	"errors"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"

	apperrors "github.com/eduvault/eduvault/internal/errors"
)

// Cache errors.
var (
	// ErrResourceNotCached indicates no cached entry exists for the resource.
	// The caller should prompt a re-download rather than fetching silently.
	ErrResourceNotCached = apperrors.Wrap(apperrors.ErrNotFound, "resource not cached")

	// ErrStorageQuotaExceeded indicates the platform denied the write. No
	// partial entry is left behind.
	ErrStorageQuotaExceeded = apperrors.New("storage quota exceeded")
)

// Metadata describes one cached resource. Status is never stored; it is
// derived from ExpiresAt at read time.
type Metadata struct {
	ResourceID    string    `json:"resource_id"`
	Title         string    `json:"title"`
	ResourceType  string    `json:"resource_type"`
	FileSizeBytes int64     `json:"file_size_bytes"`
	DownloadedAt  time.Time `json:"downloaded_at"`
	ExpiresAt     time.Time `json:"expires_at"`
	LastAccessed  time.Time `json:"last_accessed"`
}

// Store is a badger-backed cache keyed by resource id.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the cache at dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open cache")
	}
	return &Store{db: db}, nil
}

// Close closes the underlying store.
func (s *Store) Close() error {
	return s.db.Close()
}

func blobKey(resourceID string) []byte {
	return []byte("blob:" + resourceID)
}

func metaKey(resourceID string) []byte {
	return []byte("meta:" + resourceID)
}

// isQuotaError reports whether a write failed for lack of space: a badger
// transaction over its size limit, a full disk, or an exhausted disk quota.
func isQuotaError(err error) bool {
	return errors.Is(err, badger.ErrTxnTooBig) ||
		errors.Is(err, syscall.ENOSPC) ||
		errors.Is(err, syscall.EDQUOT)
}

// Put stores the blob and its metadata atomically, overwriting any existing
// entry. On failure nothing is written.
func (s *Store) Put(resourceID string, blob []byte, meta Metadata) error {
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode cache metadata")
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(blobKey(resourceID), blob); err != nil {
			return err
		}
		return txn.Set(metaKey(resourceID), metaBytes)
	})
	if err != nil {
		if isQuotaError(err) {
			return ErrStorageQuotaExceeded
		}
		return apperrors.Wrap(err, "failed to write cache entry")
	}
	return nil
}

// Get returns the cached blob. Never returns partially written data: the
// entry either committed fully or does not exist.
func (s *Store) Get(resourceID string) ([]byte, error) {
	var blob []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(blobKey(resourceID))
		if err != nil {
			return err
		}
		blob, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrResourceNotCached
		}
		return nil, apperrors.Wrap(err, "failed to read cache entry")
	}
	return blob, nil
}

// GetMetadata returns the metadata for a cached resource.
func (s *Store) GetMetadata(resourceID string) (*Metadata, error) {
	var meta Metadata
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(metaKey(resourceID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &meta)
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrResourceNotCached
		}
		return nil, apperrors.Wrap(err, "failed to read cache metadata")
	}
	return &meta, nil
}

// SetMetadata overwrites the metadata for a cached resource.
func (s *Store) SetMetadata(resourceID string, meta Metadata) error {
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode cache metadata")
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(metaKey(resourceID), metaBytes)
	})
	if err != nil {
		if isQuotaError(err) {
			return ErrStorageQuotaExceeded
		}
		return apperrors.Wrap(err, "failed to write cache metadata")
	}
	return nil
}

// Delete removes the blob and metadata atomically. Deleting a nonexistent
// entry is not an error.
func (s *Store) Delete(resourceID string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(blobKey(resourceID)); err != nil {
			return err
		}
		return txn.Delete(metaKey(resourceID))
	})
	if err != nil {
		return apperrors.Wrap(err, "failed to delete cache entry")
	}
	return nil
}

// List returns the metadata of every cached resource.
func (s *Store) List() ([]*Metadata, error) {
	var entries []*Metadata

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte("meta:")

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var meta Metadata
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &meta)
			})
			if err != nil {
				return err
			}
			entries = append(entries, &meta)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list cache entries")
	}
	return entries, nil
}

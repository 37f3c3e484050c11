package storage

import "errors"

// ErrNotFound is returned by Get when no value exists for the key.
var ErrNotFound = errors.New("storage: key not found")

// Store is a key-value store keyed by relative slash-separated paths
// (e.g. "syllabus/syllabus_grade3_math.json"). Writes are last-write-wins
// with no locking; concurrent writers targeting the same key race, which
// is the documented behavior of the flat-file backend.
type Store interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Exists(key string) bool
	List(prefix string) ([]string, error)
	Delete(key string) error
}

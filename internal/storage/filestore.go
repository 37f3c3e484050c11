package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Namespaces under the data directory.
const (
	NamespaceSyllabus   = "syllabus"
	NamespaceWorksheets = "worksheets"
	NamespaceResults    = "results"
)

// FileStore implements Store on a directory tree. The constructor
// bootstraps the namespace directories so pipelines never have to.
type FileStore struct {
	root string
}

// NewFileStore creates the data directory and its namespaces if needed.
func NewFileStore(root string) (*FileStore, error) {
	for _, ns := range []string{NamespaceSyllabus, NamespaceWorksheets, NamespaceResults} {
		if err := os.MkdirAll(filepath.Join(root, ns), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory %s: %w", ns, err)
		}
	}
	return &FileStore{root: root}, nil
}

func (s *FileStore) path(key string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(key))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("storage: invalid key %q", key)
	}
	return filepath.Join(s.root, cleaned), nil
}

func (s *FileStore) Get(key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	return data, err
}

func (s *FileStore) Put(key string, value []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p, value, 0o644)
}

func (s *FileStore) Exists(key string) bool {
	p, err := s.path(key)
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return err == nil
}

// List returns the keys directly under the given namespace prefix,
// sorted by name.
func (s *FileStore) List(prefix string) ([]string, error) {
	p, err := s.path(prefix)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(p)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var keys []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		keys = append(keys, prefix+"/"+entry.Name())
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *FileStore) Delete(key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	err = os.Remove(p)
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	return err
}

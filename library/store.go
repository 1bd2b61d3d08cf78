// Package library keeps per-course document collections in human readable
// JSON records, one file per course, rewritten wholesale on every mutation.
package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// ErrCorruptCollection reports a collection record that exists but cannot be
// decoded.
var ErrCorruptCollection = errors.New("corrupt collection record")

// Store owns the collections under a root directory. Access from multiple
// goroutines in one process is safe; concurrent writers in separate processes
// are not supported and will lose updates.
type Store struct {
	root string

	mu    sync.Mutex
	cache map[string][]Document
}

func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating library root: %w", err)
	}

	return &Store{root: root, cache: make(map[string][]Document)}, nil
}

// Add appends a document to the collection, assigning the next dense ID.
// The stored document is returned; an empty Type falls back to DefaultType.
func (s *Store) Add(key string, doc Document) (Document, error) {
	if err := checkKey(key); err != nil {
		return Document{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.loadLocked(key)
	if err != nil {
		return Document{}, err
	}

	doc.ID = len(docs) + 1
	if doc.Type == "" {
		doc.Type = DefaultType
	}

	s.cache[key] = append(docs, doc)
	if err := s.saveLocked(key); err != nil {
		s.cache[key] = docs
		return Document{}, err
	}

	return doc, nil
}

// AddChunks appends every chunk as its own document titled
// "{title} - Part {n}", preserving chunk order. It returns the stored
// documents.
func (s *Store) AddChunks(key string, chunks iter.Seq[string], title string) ([]Document, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.loadLocked(key)
	if err != nil {
		return nil, err
	}

	prev := docs
	var added []Document
	for chunk := range chunks {
		doc := Document{
			ID:      len(docs) + 1,
			Title:   fmt.Sprintf("%s - Part %d", title, len(added)+1),
			Content: chunk,
			Author:  chunkAuthor,
			Type:    chunkType,
		}
		docs = append(docs, doc)
		added = append(added, doc)
	}
	if len(added) == 0 {
		return nil, nil
	}

	s.cache[key] = docs
	if err := s.saveLocked(key); err != nil {
		s.cache[key] = prev
		return nil, err
	}

	return added, nil
}

// Load returns the collection for key: the cached copy if present, otherwise
// the on-disk record, otherwise an empty collection. A missing record is not
// an error.
func (s *Store) Load(key string) ([]Document, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.loadLocked(key)
	if err != nil {
		return nil, err
	}

	return slices.Clone(docs), nil
}

// Drop removes the collection from memory and disk. Dropping an absent
// collection is a no-op.
func (s *Store) Drop(key string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.cache, key)
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing collection %q: %w", key, err)
	}

	return nil
}

func (s *Store) loadLocked(key string) ([]Document, error) {
	if docs, ok := s.cache[key]; ok {
		return docs, nil
	}

	buf, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		s.cache[key] = []Document{}
		return s.cache[key], nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading collection %q: %w", key, err)
	}

	var docs []Document
	if err := json.Unmarshal(buf, &docs); err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrCorruptCollection, key, err)
	}

	s.cache[key] = docs
	return docs, nil
}

func (s *Store) saveLocked(key string) error {
	buf, err := json.MarshalIndent(s.cache[key], "", "  ")
	if err != nil {
		return fmt.Errorf("encoding collection %q: %w", key, err)
	}

	if err := os.WriteFile(s.path(key), buf, 0o644); err != nil {
		return fmt.Errorf("writing collection %q: %w", key, err)
	}

	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.root, key+".json")
}

func checkKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return fmt.Errorf("invalid collection key %q", key)
	}

	return nil
}

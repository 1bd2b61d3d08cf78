// Package materials mirrors a folder of course files into library
// collections: one subdirectory per course, rebuilt whenever its contents
// drift.
package materials

import (
	"context"
	"fmt"
	"hash/crc32"
	"iter"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yuezhaodesign/Inkspire/library"
)

type libraryStore interface {
	AddChunks(key string, chunks iter.Seq[string], title string) ([]library.Document, error)
	Drop(key string) error
}

type fileLoader interface {
	Supported(path string) bool
	Load(path string) (string, error)
}

type chunkifier interface {
	All(text string) iter.Seq[string]
}

// Registry keeps library collections in step with the materials folder.
// A changed, added or removed file triggers a rebuild of that course's whole
// collection, keeping document IDs dense.
type Registry struct {
	log      *slog.Logger
	root     string
	store    libraryStore
	loader   fileLoader
	chunker  chunkifier
	debounce time.Duration

	mu    sync.Mutex
	state map[string]courseState
}

// courseState maps file names to content checksums.
type courseState map[string]uint32

type fileDoc struct {
	name string
	crc  uint32
	text string
}

func NewRegistry(root string, store libraryStore, loader fileLoader, chunker chunkifier, debounce time.Duration, log *slog.Logger) *Registry {
	return &Registry{
		log:      log,
		root:     root,
		store:    store,
		loader:   loader,
		chunker:  chunker,
		debounce: debounce,
		state:    make(map[string]courseState),
	}
}

// Sync reconciles every course folder with its collection. Unsupported files
// are skipped with a warning; unreadable files fail the sync.
func (r *Registry) Sync(ctx context.Context) error {
	courses, err := r.scan()
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, course := range slices.Sorted(maps.Keys(courses)) {
		if err := ctx.Err(); err != nil {
			return err
		}

		docs := courses[course]
		cur := make(courseState, len(docs))
		for _, d := range docs {
			cur[d.name] = d.crc
		}

		if prev, ok := r.state[course]; ok && maps.Equal(prev, cur) {
			continue
		}

		if err := r.rebuild(course, docs); err != nil {
			return err
		}
		r.state[course] = cur
	}

	for course := range r.state {
		if _, ok := courses[course]; ok {
			continue
		}

		if err := r.store.Drop(course); err != nil {
			return fmt.Errorf("dropping removed course %s: %w", course, err)
		}
		delete(r.state, course)
		r.log.Info("dropped course collection", "course", course)
	}

	return nil
}

// Watch reconciles on file system changes, merging event bursts into one
// sync per quiet period. It returns once the watcher is running; cancel the
// context to stop it.
func (r *Registry) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	if err := watcher.Add(r.root); err != nil {
		watcher.Close()
		return fmt.Errorf("watching %s: %w", r.root, err)
	}

	entries, err := os.ReadDir(r.root)
	if err != nil {
		watcher.Close()
		return fmt.Errorf("listing %s: %w", r.root, err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if err := watcher.Add(filepath.Join(r.root, e.Name())); err != nil {
			watcher.Close()
			return fmt.Errorf("watching course folder %s: %w", e.Name(), err)
		}
	}

	go r.watchLoop(ctx, watcher)

	return nil
}

func (r *Registry) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()

	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			// New course folders need their own watch.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						r.log.Warn("watching new course folder", "dir", event.Name, "error", err)
					}
				}
			}

			if timer == nil {
				timer = time.NewTimer(r.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(r.debounce)
			}
			pending = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			r.log.Error("watch error", "error", err)

		case <-pending:
			pending = nil
			if err := r.Sync(ctx); err != nil {
				r.log.Error("materials sync failed", "error", err)
			}
		}
	}
}

func (r *Registry) scan() (map[string][]fileDoc, error) {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		return nil, fmt.Errorf("scanning materials root: %w", err)
	}

	res := make(map[string][]fileDoc)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}

		course := e.Name()
		files, err := os.ReadDir(filepath.Join(r.root, course))
		if err != nil {
			return nil, fmt.Errorf("scanning course folder %s: %w", course, err)
		}

		docs := make([]fileDoc, 0, len(files))
		for _, f := range files {
			if f.IsDir() {
				continue
			}

			path := filepath.Join(r.root, course, f.Name())
			if !r.loader.Supported(path) {
				r.log.Warn("unsupported file", "file", path)
				continue
			}

			text, err := r.loader.Load(path)
			if err != nil {
				return nil, fmt.Errorf("loading %s: %w", path, err)
			}

			docs = append(docs, fileDoc{
				name: f.Name(),
				crc:  crc32.Checksum([]byte(text), crc32.IEEETable),
				text: text,
			})
		}

		res[course] = docs
	}

	return res, nil
}

func (r *Registry) rebuild(course string, docs []fileDoc) error {
	if err := r.store.Drop(course); err != nil {
		return fmt.Errorf("rebuilding course %s: %w", course, err)
	}

	for _, d := range docs {
		title := strings.TrimSuffix(d.name, filepath.Ext(d.name))
		if _, err := r.store.AddChunks(course, r.chunker.All(d.text), title); err != nil {
			return fmt.Errorf("storing %s for course %s: %w", d.name, course, err)
		}
	}

	r.log.Info("synced course materials", "course", course, "files", len(docs))

	return nil
}

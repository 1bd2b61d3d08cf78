package materials

import (
	"context"
	"errors"
	"io"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuezhaodesign/Inkspire/chunkify"
	"github.com/yuezhaodesign/Inkspire/library"
	"github.com/yuezhaodesign/Inkspire/readers"
)

type chunkBatch struct {
	course string
	title  string
	texts  []string
}

type fakeLibrary struct {
	mu    sync.Mutex
	drops []string
	adds  []chunkBatch
}

func (f *fakeLibrary) AddChunks(key string, chunks iter.Seq[string], title string) ([]library.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	batch := chunkBatch{course: key, title: title, texts: slices.Collect(chunks)}
	f.adds = append(f.adds, batch)

	docs := make([]library.Document, 0, len(batch.texts))
	for i, text := range batch.texts {
		docs = append(docs, library.Document{ID: i + 1, Title: title, Content: text})
	}
	return docs, nil
}

func (f *fakeLibrary) Drop(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.drops = append(f.drops, key)
	return nil
}

func (f *fakeLibrary) snapshot() (drops []string, adds []chunkBatch) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return slices.Clone(f.drops), slices.Clone(f.adds)
}

func (f *fakeLibrary) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.drops = nil
	f.adds = nil
}

type failingLoader struct {
	fail string
}

func (l *failingLoader) Supported(path string) bool { return true }

func (l *failingLoader) Load(path string) (string, error) {
	if filepath.Base(path) == l.fail {
		return "", errors.New("boom")
	}
	return "ok", nil
}

func newTestRegistry(t *testing.T, root string, store libraryStore, debounce time.Duration) *Registry {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRegistry(root, store, readers.NewLoader(), chunkify.Default(), debounce, log)
}

func writeFile(t *testing.T, path string, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func Test_Sync(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "eng101", "a.txt"), "alpha text")
	writeFile(t, filepath.Join(root, "eng101", "b.md"), "beta text")
	writeFile(t, filepath.Join(root, "eng101", "skip.bin"), "not supported")
	writeFile(t, filepath.Join(root, "bio202", "c.txt"), "gamma text")
	writeFile(t, filepath.Join(root, "loose.txt"), "not inside a course")

	store := &fakeLibrary{}
	reg := newTestRegistry(t, root, store, 0)

	require.NoError(t, reg.Sync(context.Background()))

	drops, adds := store.snapshot()
	assert.ElementsMatch(t, []string{"eng101", "bio202"}, drops)
	require.Len(t, adds, 3)
	assert.Equal(t, chunkBatch{course: "bio202", title: "c", texts: []string{"gamma text"}}, adds[0])
	assert.Equal(t, chunkBatch{course: "eng101", title: "a", texts: []string{"alpha text"}}, adds[1])
	assert.Equal(t, chunkBatch{course: "eng101", title: "b", texts: []string{"beta text"}}, adds[2])

	// Nothing changed, so a second pass should not touch the store.
	store.reset()
	require.NoError(t, reg.Sync(context.Background()))

	drops, adds = store.snapshot()
	assert.Empty(t, drops)
	assert.Empty(t, adds)
}

func Test_Sync_rebuildsDriftedCourse(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "eng101", "a.txt"), "alpha text")
	writeFile(t, filepath.Join(root, "bio202", "c.txt"), "gamma text")

	store := &fakeLibrary{}
	reg := newTestRegistry(t, root, store, 0)
	require.NoError(t, reg.Sync(context.Background()))

	store.reset()
	writeFile(t, filepath.Join(root, "eng101", "a.txt"), "alpha rewritten")
	require.NoError(t, reg.Sync(context.Background()))

	drops, adds := store.snapshot()
	assert.Equal(t, []string{"eng101"}, drops)
	require.Len(t, adds, 1)
	assert.Equal(t, chunkBatch{course: "eng101", title: "a", texts: []string{"alpha rewritten"}}, adds[0])
}

func Test_Sync_rebuildsOnAddedFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "eng101", "a.txt"), "alpha text")

	store := &fakeLibrary{}
	reg := newTestRegistry(t, root, store, 0)
	require.NoError(t, reg.Sync(context.Background()))

	store.reset()
	writeFile(t, filepath.Join(root, "eng101", "b.txt"), "beta text")
	require.NoError(t, reg.Sync(context.Background()))

	drops, adds := store.snapshot()
	assert.Equal(t, []string{"eng101"}, drops)
	require.Len(t, adds, 2)
	assert.Equal(t, "a", adds[0].title)
	assert.Equal(t, "b", adds[1].title)
}

func Test_Sync_dropsRemovedCourse(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "eng101", "a.txt"), "alpha text")
	writeFile(t, filepath.Join(root, "bio202", "c.txt"), "gamma text")

	store := &fakeLibrary{}
	reg := newTestRegistry(t, root, store, 0)
	require.NoError(t, reg.Sync(context.Background()))

	store.reset()
	require.NoError(t, os.RemoveAll(filepath.Join(root, "bio202")))
	require.NoError(t, reg.Sync(context.Background()))

	drops, adds := store.snapshot()
	assert.Equal(t, []string{"bio202"}, drops)
	assert.Empty(t, adds)

	store.reset()
	require.NoError(t, reg.Sync(context.Background()))

	drops, adds = store.snapshot()
	assert.Empty(t, drops)
	assert.Empty(t, adds)
}

func Test_Sync_failsOnUnreadableFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "eng101", "a.txt"), "alpha text")
	writeFile(t, filepath.Join(root, "eng101", "bad.txt"), "will not load")

	store := &fakeLibrary{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := NewRegistry(root, store, &failingLoader{fail: "bad.txt"}, chunkify.Default(), 0, log)

	err := reg.Sync(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.txt")

	drops, adds := store.snapshot()
	assert.Empty(t, drops)
	assert.Empty(t, adds)
}

func Test_Watch(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "eng101", "a.txt"), "alpha text")

	store := &fakeLibrary{}
	reg := newTestRegistry(t, root, store, 50*time.Millisecond)
	require.NoError(t, reg.Sync(context.Background()))
	store.reset()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, reg.Watch(ctx))

	writeFile(t, filepath.Join(root, "eng101", "b.txt"), "beta text")

	assert.Eventually(t, func() bool {
		_, adds := store.snapshot()
		return len(adds) == 2
	}, 2*time.Second, 20*time.Millisecond)

	_, adds := store.snapshot()
	assert.Equal(t, "a", adds[0].title)
	assert.Equal(t, "b", adds[1].title)
}

func Test_Watch_picksUpNewCourseFolder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "eng101", "a.txt"), "alpha text")

	store := &fakeLibrary{}
	reg := newTestRegistry(t, root, store, 50*time.Millisecond)
	require.NoError(t, reg.Sync(context.Background()))
	store.reset()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, reg.Watch(ctx))

	writeFile(t, filepath.Join(root, "new101", "n.txt"), "fresh course")

	assert.Eventually(t, func() bool {
		_, adds := store.snapshot()
		for _, a := range adds {
			if a.course == "new101" {
				return true
			}
		}
		return false
	}, 2*time.Second, 20*time.Millisecond)
}

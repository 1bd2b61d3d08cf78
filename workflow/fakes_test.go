package workflow

import (
	"context"
	"io"
	"iter"
	"log/slog"

	"github.com/yuezhaodesign/Inkspire/library"
	"github.com/yuezhaodesign/Inkspire/retrieval"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// scriptedGen hands out canned outputs in call order and records every
// prompt it saw.
type scriptedGen struct {
	outputs []string
	prompts []string
	err     error
}

func (g *scriptedGen) Generate(_ context.Context, prompt string) (string, error) {
	if g.err != nil {
		return "", g.err
	}

	g.prompts = append(g.prompts, prompt)
	if len(g.outputs) == 0 {
		return "scripted output", nil
	}

	out := g.outputs[0]
	g.outputs = g.outputs[1:]
	return out, nil
}

type fakeSearcher struct {
	results []retrieval.Result
	err     error
	queries []string
}

func (f *fakeSearcher) Search(_ context.Context, _, query string, k int) ([]retrieval.Result, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.results) > k {
		return f.results[:k], nil
	}

	return f.results, nil
}

type storedDoc struct {
	course string
	doc    library.Document
}

type chunkAdd struct {
	course string
	title  string
	chunks []string
}

type fakeStore struct {
	added     []storedDoc
	chunkAdds []chunkAdd
	dropped   []string
	addErr    error
}

func (f *fakeStore) Add(key string, doc library.Document) (library.Document, error) {
	if f.addErr != nil {
		return library.Document{}, f.addErr
	}

	doc.ID = len(f.added) + 1
	f.added = append(f.added, storedDoc{course: key, doc: doc})
	return doc, nil
}

func (f *fakeStore) AddChunks(key string, chunks iter.Seq[string], title string) ([]library.Document, error) {
	if f.addErr != nil {
		return nil, f.addErr
	}

	ca := chunkAdd{course: key, title: title}
	var docs []library.Document
	for c := range chunks {
		ca.chunks = append(ca.chunks, c)
		docs = append(docs, library.Document{ID: len(docs) + 1, Title: title, Content: c})
	}

	f.chunkAdds = append(f.chunkAdds, ca)
	return docs, nil
}

func (f *fakeStore) Drop(key string) error {
	f.dropped = append(f.dropped, key)
	return nil
}

func (f *fakeStore) Load(key string) ([]library.Document, error) {
	var docs []library.Document
	for _, d := range f.added {
		if d.course == key {
			docs = append(docs, d.doc)
		}
	}

	return docs, nil
}

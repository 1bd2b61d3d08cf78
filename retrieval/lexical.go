package retrieval

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/yuezhaodesign/Inkspire/library"
)

type collectionLoader interface {
	Load(key string) ([]library.Document, error)
}

// Lexical ranks course documents by the number of distinct terms they share
// with the query. No embeddings, no external services.
type Lexical struct {
	lib collectionLoader
}

func NewLexical(lib collectionLoader) *Lexical {
	return &Lexical{lib: lib}
}

func (l *Lexical) Search(_ context.Context, course, query string, k int) ([]Result, error) {
	if k <= 0 {
		k = DefaultResults
	}

	docs, err := l.lib.Load(course)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailed, err)
	}

	queryTerms := termSet(query)

	res := make([]Result, 0, len(docs))
	for _, doc := range docs {
		score := overlap(queryTerms, termSet(doc.Title+" "+doc.Content))
		if score == 0 {
			continue
		}

		res = append(res, Result{Document: doc, Score: float64(score)})
	}

	slices.SortStableFunc(res, func(a, b Result) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(res) > k {
		res = res[:k]
	}

	return res, nil
}

func termSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		set[w] = struct{}{}
	}

	return set
}

func overlap(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}

	n := 0
	for w := range a {
		if _, ok := b[w]; ok {
			n++
		}
	}

	return n
}

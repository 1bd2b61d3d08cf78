package retrieval

import (
	"context"
	"fmt"

	chroma "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"

	"github.com/yuezhaodesign/Inkspire/library"
)

// Metadata attribute keys attached to every indexed document.
const (
	MetaCourse = "course"
	MetaTitle  = "title"
	MetaDocID  = "doc_id"
	MetaAuthor = "author"
	MetaType   = "type"
)

type VectorIndexConfig struct {
	BaseURL       string
	Collection    string
	EmbeddingFunc embeddings.EmbeddingFunction
	Results       int
	RequestSize   int
	Reset         bool
}

// VectorIndex serves ranked retrieval from a Chroma collection shared by all
// courses, with per-course filtering through metadata.
type VectorIndex struct {
	col         chroma.Collection
	results     int
	requestSize int
}

func NewVectorIndex(ctx context.Context, cfg VectorIndexConfig) (*VectorIndex, error) {
	client, err := chroma.NewHTTPClient(chroma.WithBaseURL(cfg.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("creating chroma client: %w", err)
	}

	if cfg.Reset {
		if err := client.DeleteCollection(ctx, cfg.Collection); err != nil {
			return nil, fmt.Errorf("resetting collection %s: %w", cfg.Collection, err)
		}
	}

	col, err := client.GetOrCreateCollection(ctx, cfg.Collection,
		chroma.WithEmbeddingFunctionCreate(cfg.EmbeddingFunc))
	if err != nil {
		return nil, fmt.Errorf("opening collection %s: %w", cfg.Collection, err)
	}

	return &VectorIndex{
		col:         col,
		results:     cfg.Results,
		requestSize: cfg.RequestSize,
	}, nil
}

// Index embeds and stores the documents under the given course. Requests are
// split into buckets so no single call exceeds the configured payload size.
func (x *VectorIndex) Index(ctx context.Context, course string, docs []library.Document) error {
	for _, bucket := range buckets(docs, x.requestSize) {
		texts := make([]string, 0, len(bucket))
		metas := make([]chroma.DocumentMetadata, 0, len(bucket))
		for _, doc := range bucket {
			texts = append(texts, doc.Content)
			metas = append(metas, chroma.NewDocumentMetadata(
				chroma.NewStringAttribute(MetaCourse, course),
				chroma.NewStringAttribute(MetaTitle, doc.Title),
				chroma.NewStringAttribute(MetaAuthor, doc.Author),
				chroma.NewStringAttribute(MetaType, doc.Type),
				chroma.NewIntAttribute(MetaDocID, int64(doc.ID)),
			))
		}

		err := x.col.Add(ctx,
			chroma.WithTexts(texts...),
			chroma.WithIDGenerator(chroma.NewULIDGenerator()),
			chroma.WithMetadatas(metas...),
		)
		if err != nil {
			return fmt.Errorf("indexing %d documents for %s: %w", len(bucket), course, err)
		}
	}

	return nil
}

func (x *VectorIndex) Search(ctx context.Context, course, query string, k int) ([]Result, error) {
	if k <= 0 {
		k = x.results
	}
	if k <= 0 {
		k = DefaultResults
	}

	r, err := x.col.Query(ctx,
		chroma.WithQueryTexts(query),
		chroma.WithNResults(k),
		chroma.WithWhereQuery(chroma.EqString(MetaCourse, course)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailed, err)
	}

	docs := r.GetDocumentsGroups()[0]
	metadatas := r.GetMetadatasGroups()[0]
	distances := r.GetDistancesGroups()[0]

	res := make([]Result, 0, len(docs))
	for i := range len(docs) {
		title, _ := metadatas[i].GetString(MetaTitle)
		author, _ := metadatas[i].GetString(MetaAuthor)
		kind, _ := metadatas[i].GetString(MetaType)
		id, _ := metadatas[i].GetInt(MetaDocID)

		res = append(res, Result{
			Document: library.Document{
				ID:      int(id),
				Title:   title,
				Content: docs[i].ContentString(),
				Author:  author,
				Type:    kind,
			},
			// Chroma reports distances; flip the sign so higher stays better.
			Score: -float64(distances[i]),
		})
	}

	return res, nil
}

// Drop removes every embedded document belonging to the course.
func (x *VectorIndex) Drop(ctx context.Context, course string) error {
	err := x.col.Delete(ctx, chroma.WithWhereDelete(chroma.EqString(MetaCourse, course)))
	if err != nil {
		return fmt.Errorf("dropping course %s: %w", course, err)
	}

	return nil
}

// buckets groups documents so the summed content size per group stays under
// limit. A single oversized document still gets its own group.
func buckets(docs []library.Document, limit int) [][]library.Document {
	if len(docs) == 0 {
		return nil
	}
	if limit <= 0 {
		return [][]library.Document{docs}
	}

	var (
		res  [][]library.Document
		cur  []library.Document
		size int
	)
	for _, doc := range docs {
		if len(cur) > 0 && size+len(doc.Content) > limit {
			res = append(res, cur)
			cur = nil
			size = 0
		}

		cur = append(cur, doc)
		size += len(doc.Content)
	}

	return append(res, cur)
}

package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	chroma "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuezhaodesign/Inkspire/library"
)

// fakeCollection applies the options each call carries into an inspectable op
// and serves a canned query result. Methods the index never uses panic.
type fakeCollection struct {
	addOps    []*chroma.CollectionUpdateOp
	queryOps  []*chroma.CollectionQueryOp
	deleteOps []*chroma.CollectionDeleteOp

	queryRes chroma.QueryResult
	queryErr error
}

func (f *fakeCollection) Add(_ context.Context, opts ...chroma.CollectionUpdateOption) error {
	op, err := chroma.NewCollectionUpdateOp(opts...)
	if err != nil {
		return err
	}

	f.addOps = append(f.addOps, op)
	return nil
}

func (f *fakeCollection) Query(_ context.Context, opts ...chroma.CollectionQueryOption) (chroma.QueryResult, error) {
	op, err := chroma.NewCollectionQueryOp(opts...)
	if err != nil {
		return nil, err
	}

	f.queryOps = append(f.queryOps, op)
	if f.queryErr != nil {
		return nil, f.queryErr
	}

	return f.queryRes, nil
}

func (f *fakeCollection) Delete(_ context.Context, opts ...chroma.CollectionDeleteOption) error {
	op, err := chroma.NewCollectionDeleteOp(opts...)
	if err != nil {
		return err
	}

	f.deleteOps = append(f.deleteOps, op)
	return nil
}

func (f *fakeCollection) Name() string { panic("not implemented") }

func (f *fakeCollection) ID() string { panic("not implemented") }

func (f *fakeCollection) Tenant() chroma.Tenant { panic("not implemented") }

func (f *fakeCollection) Database() chroma.Database { panic("not implemented") }

func (f *fakeCollection) Metadata() chroma.CollectionMetadata { panic("not implemented") }

func (f *fakeCollection) Configuration() chroma.CollectionConfiguration {
	panic("not implemented")
}

func (f *fakeCollection) Upsert(context.Context, ...chroma.CollectionUpdateOption) error {
	panic("not implemented")
}

func (f *fakeCollection) Update(context.Context, ...chroma.CollectionUpdateOption) error {
	panic("not implemented")
}

func (f *fakeCollection) Count(context.Context) (int, error) { panic("not implemented") }

func (f *fakeCollection) ModifyName(context.Context, string) error { panic("not implemented") }

func (f *fakeCollection) ModifyMetadata(context.Context, chroma.CollectionMetadata) error {
	panic("not implemented")
}

func (f *fakeCollection) ModifyConfiguration(context.Context, chroma.CollectionConfiguration) error {
	panic("not implemented")
}

func (f *fakeCollection) Get(context.Context, ...chroma.CollectionGetOption) (chroma.GetResult, error) {
	panic("not implemented")
}

func (f *fakeCollection) Close() error { panic("not implemented") }

func Test_VectorIndex_Index(t *testing.T) {
	col := &fakeCollection{}
	x := &VectorIndex{col: col, results: 4}

	docs := []library.Document{
		{ID: 1, Title: "Mammal Facts", Content: "mammals are warm blooded", Author: "Course Materials", Type: "reference"},
		{ID: 2, Title: "Bird Facts", Content: "birds lay eggs", Author: "Course Materials", Type: "reference"},
	}

	require.NoError(t, x.Index(context.Background(), "bio-101", docs))
	require.Len(t, col.addOps, 1)

	op := col.addOps[0]
	require.Len(t, op.Documents, 2)
	assert.Equal(t, "mammals are warm blooded", op.Documents[0].ContentString())
	assert.Equal(t, "birds lay eggs", op.Documents[1].ContentString())
	assert.NotNil(t, op.IDGenerator)

	require.Len(t, op.Metadatas, 2)
	course, _ := op.Metadatas[0].GetString(MetaCourse)
	title, _ := op.Metadatas[0].GetString(MetaTitle)
	author, _ := op.Metadatas[0].GetString(MetaAuthor)
	kind, _ := op.Metadatas[0].GetString(MetaType)
	id, _ := op.Metadatas[0].GetInt(MetaDocID)
	assert.Equal(t, "bio-101", course)
	assert.Equal(t, "Mammal Facts", title)
	assert.Equal(t, "Course Materials", author)
	assert.Equal(t, "reference", kind)
	assert.Equal(t, int64(1), id)
}

func Test_VectorIndex_Index_splitsToBuckets(t *testing.T) {
	col := &fakeCollection{}
	x := &VectorIndex{col: col, results: 1, requestSize: 13}

	words := []string{"Bananas", "are", "berries", "but", "strawberries", "aren't"}
	docs := make([]library.Document, 0, len(words))
	for i, w := range words {
		docs = append(docs, library.Document{ID: i + 1, Title: "Facts", Content: w})
	}

	require.NoError(t, x.Index(context.Background(), "bio-101", docs))
	require.Len(t, col.addOps, 4)

	sizes := make([]int, 0, len(col.addOps))
	for _, op := range col.addOps {
		sizes = append(sizes, len(op.Documents))
	}
	assert.Equal(t, []int{2, 2, 1, 1}, sizes)
}

func Test_VectorIndex_Search(t *testing.T) {
	col := &fakeCollection{
		queryRes: &chroma.QueryResultImpl{
			DocumentsLists: []chroma.Documents{{chroma.NewTextDocument("mammals are warm blooded")}},
			MetadatasLists: []chroma.DocumentMetadatas{{chroma.NewDocumentMetadata(
				chroma.NewStringAttribute(MetaCourse, "bio-101"),
				chroma.NewStringAttribute(MetaTitle, "Mammal Facts"),
				chroma.NewStringAttribute(MetaAuthor, "Course Materials"),
				chroma.NewStringAttribute(MetaType, "reference"),
				chroma.NewIntAttribute(MetaDocID, 7),
			)}},
			DistancesLists: []embeddings.Distances{{embeddings.Distance(0.25)}},
		},
	}
	x := &VectorIndex{col: col, results: 4}

	res, err := x.Search(context.Background(), "bio-101", "warm blooded animals", 2)
	require.NoError(t, err)

	assert.Equal(t, []Result{{
		Document: library.Document{
			ID:      7,
			Title:   "Mammal Facts",
			Content: "mammals are warm blooded",
			Author:  "Course Materials",
			Type:    "reference",
		},
		Score: -0.25,
	}}, res)

	require.Len(t, col.queryOps, 1)
	op := col.queryOps[0]
	assert.Equal(t, []string{"warm blooded animals"}, op.QueryTexts)
	assert.Equal(t, 2, op.NResults)
	assert.Equal(t, chroma.EqString(MetaCourse, "bio-101"), op.Where)
}

func Test_VectorIndex_Search_defaultLimit(t *testing.T) {
	col := &fakeCollection{queryRes: &chroma.QueryResultImpl{
		DocumentsLists: []chroma.Documents{{}},
		MetadatasLists: []chroma.DocumentMetadatas{{}},
		DistancesLists: []embeddings.Distances{{}},
	}}

	x := &VectorIndex{col: col, results: 4}
	_, err := x.Search(context.Background(), "bio-101", "anything", 0)
	require.NoError(t, err)

	x = &VectorIndex{col: col}
	_, err = x.Search(context.Background(), "bio-101", "anything", -1)
	require.NoError(t, err)

	require.Len(t, col.queryOps, 2)
	assert.Equal(t, 4, col.queryOps[0].NResults)
	assert.Equal(t, DefaultResults, col.queryOps[1].NResults)
}

func Test_VectorIndex_Search_failure(t *testing.T) {
	col := &fakeCollection{queryErr: errors.New("connection refused")}
	x := &VectorIndex{col: col, results: 4}

	_, err := x.Search(context.Background(), "bio-101", "anything", 1)
	assert.ErrorIs(t, err, ErrFailed)
}

func Test_VectorIndex_Drop(t *testing.T) {
	col := &fakeCollection{}
	x := &VectorIndex{col: col, results: 1}

	require.NoError(t, x.Drop(context.Background(), "bio-101"))

	require.Len(t, col.deleteOps, 1)
	assert.Equal(t, chroma.EqString(MetaCourse, "bio-101"), col.deleteOps[0].Where)
}

func Test_buckets(t *testing.T) {
	doc := func(id int, size int) library.Document {
		return library.Document{ID: id, Content: strings.Repeat("x", size)}
	}

	var cases = []struct {
		docs  []library.Document
		limit int
		want  [][]int
	}{
		{docs: nil, limit: 10, want: nil},
		{docs: []library.Document{doc(1, 4)}, limit: 10, want: [][]int{{1}}},
		{docs: []library.Document{doc(1, 4), doc(2, 4), doc(3, 4)}, limit: 8, want: [][]int{{1, 2}, {3}}},
		{docs: []library.Document{doc(1, 20)}, limit: 8, want: [][]int{{1}}},
		{docs: []library.Document{doc(1, 4), doc(2, 20), doc(3, 4)}, limit: 8, want: [][]int{{1}, {2}, {3}}},
		{docs: []library.Document{doc(1, 4), doc(2, 4)}, limit: 0, want: [][]int{{1, 2}}},
	}

	for i, c := range cases {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			got := buckets(c.docs, c.limit)

			ids := make([][]int, 0, len(got))
			for _, bucket := range got {
				b := make([]int, 0, len(bucket))
				for _, d := range bucket {
					b = append(b, d.ID)
				}
				ids = append(ids, b)
			}

			if c.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, c.want, ids)
		})
	}
}

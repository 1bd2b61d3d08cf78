package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/yuezhaodesign/Inkspire/library"
)

// Secondary readings are split finer than uploaded course materials.
const (
	SecondaryChunkSize    = 900
	SecondaryChunkOverlap = 120

	// PairResults is the ranked list size for secondary-reading retrieval.
	PairResults = 8

	// SecondaryReadingType marks library documents ingested for one pair run.
	SecondaryReadingType = "secondary_reading"

	// excerptPreview bounds each excerpt in the annotator's context block.
	excerptPreview = 700
)

type pairStore interface {
	Add(key string, doc library.Document) (library.Document, error)
	Drop(key string) error
}

// PairInput starts a pair workflow run. ReadingA is scaffolded whole, never
// chunked; ReadingB items are chunked and retrieved from.
type PairInput struct {
	ReadingA   Reading
	ReadingB   []Reading
	Objectives []string
}

// PairWorkflow scaffolds a primary reading with per-sentence annotations,
// grounding them in secondary readings and the teacher's objectives.
type PairWorkflow struct {
	pipeline *Pipeline
	store    pairStore
	log      *slog.Logger
}

func NewPairWorkflow(gen Generator, search Searcher, store pairStore, chunker chunkifier, results int, log *slog.Logger) *PairWorkflow {
	if results <= 0 {
		results = PairResults
	}

	return &PairWorkflow{
		pipeline: NewPipeline(log,
			&Outliner{gen: gen},
			&Annotator{gen: gen, search: search, store: store, chunker: chunker, results: results, log: log},
			&Reviewer{gen: gen},
		),
		store: store,
		log:   log,
	}
}

// Run executes the pair pipeline against a collection that lives only for
// this run.
func (w *PairWorkflow) Run(ctx context.Context, in PairInput) (State, error) {
	course := "pair-" + uuid.NewString()
	defer func() {
		if err := w.store.Drop(course); err != nil {
			w.log.Warn("dropping pair collection", "course", course, "error", err)
		}
	}()

	return w.pipeline.Run(ctx, State{
		CourseID:   course,
		ReadingA:   in.ReadingA,
		ReadingB:   in.ReadingB,
		Objectives: in.Objectives,
	})
}

// Outliner extracts keywords and key sentences from the whole primary
// reading.
type Outliner struct {
	gen Generator
}

func (o *Outliner) Name() string { return "A_extract" }

func (o *Outliner) Run(ctx context.Context, s State) (Delta, error) {
	keywords, err := o.gen.Generate(ctx, keywordsPrompt(s.ReadingA))
	if err != nil {
		return Delta{}, err
	}

	keySentences, err := o.gen.Generate(ctx, keySentencesPrompt(s.ReadingA))
	if err != nil {
		return Delta{}, err
	}

	return Delta{Keywords: keywords, KeySentences: keySentences}, nil
}

// Annotator ingests the secondary readings, retrieves context for the
// keywords and objectives, and pairs every key sentence with a teacher
// prompt and an RA-tagged question.
type Annotator struct {
	gen     Generator
	search  Searcher
	store   pairStore
	chunker chunkifier
	results int
	log     *slog.Logger
}

func (a *Annotator) Name() string { return "B_generate" }

func (a *Annotator) Run(ctx context.Context, s State) (Delta, error) {
	for _, r := range s.ReadingB {
		for chunk := range a.chunker.All(r.Content) {
			_, err := a.store.Add(s.CourseID, library.Document{
				Title:   r.Title,
				Content: chunk,
				Author:  r.Author,
				Type:    SecondaryReadingType,
			})
			if err != nil {
				return Delta{}, fmt.Errorf("ingesting secondary reading %q: %w", r.Title, err)
			}
		}
	}

	query := strings.TrimSpace(s.Keywords + " " + strings.Join(s.Objectives, " | "))
	ragContext := a.ragContext(ctx, s.CourseID, query)

	annotations, err := a.gen.Generate(ctx, annotatePrompt(s.KeySentences, s.Objectives, ragContext))
	if err != nil {
		return Delta{}, err
	}

	return Delta{RelevantContext: ragContext, Annotations: annotations}, nil
}

func (a *Annotator) ragContext(ctx context.Context, course, query string) string {
	results, err := a.search.Search(ctx, course, query, a.results)
	if err != nil {
		a.log.Error("retrieving secondary context", "course", course, "error", err)
		return NoExternalContext
	}
	if len(results) == 0 {
		return NoExternalContext
	}

	pieces := make([]string, 0, len(results))
	for _, r := range results {
		pieces = append(pieces, fmt.Sprintf("Title: %s\nSource: %s\nExcerpt: %s...",
			r.Document.Title, r.Document.Author, truncate(r.Document.Content, excerptPreview)))
	}

	return strings.Join(pieces, "\n\n---\n\n")
}

// Reviewer critiques the annotations for objective alignment, fidelity to
// the primary reading and RA balance.
type Reviewer struct {
	gen Generator
}

func (r *Reviewer) Name() string { return "C_quality" }

func (r *Reviewer) Run(ctx context.Context, s State) (Delta, error) {
	review, err := r.gen.Generate(ctx, reviewPrompt(s.Objectives, s.Annotations))
	if err != nil {
		return Delta{}, err
	}

	return Delta{Evaluation: review}, nil
}

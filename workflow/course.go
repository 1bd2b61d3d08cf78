package workflow

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yuezhaodesign/Inkspire/library"
	"github.com/yuezhaodesign/Inkspire/retrieval"
)

// contextPreview bounds each retrieved document excerpt in the extractor's
// context block.
const contextPreview = 300

type documentLoader interface {
	Load(path string) (string, error)
}

type chunkStorer interface {
	AddChunks(key string, chunks iter.Seq[string], title string) ([]library.Document, error)
}

// CourseInput starts a course workflow run. Either Input text or FilePath
// must be set; an empty CourseID falls back to "upload_<stem>" for file runs
// and DefaultCourse otherwise.
type CourseInput struct {
	Input    string
	CourseID string
	FilePath string
}

// CourseWorkflow generates RA questions, teacher prompts and an evaluation
// from one reading, grounded in the course library.
type CourseWorkflow struct {
	pipeline *Pipeline
}

func NewCourseWorkflow(gen Generator, search Searcher, store chunkStorer, loader documentLoader, chunker chunkifier, results int, log *slog.Logger) *CourseWorkflow {
	if results <= 0 {
		results = retrieval.DefaultResults
	}

	return &CourseWorkflow{
		pipeline: NewPipeline(log,
			&Extractor{gen: gen, search: search, store: store, loader: loader, chunker: chunker, results: results, log: log},
			&Scaffolder{gen: gen, log: log},
			&QualityChecker{gen: gen, log: log},
		),
	}
}

func (w *CourseWorkflow) Run(ctx context.Context, in CourseInput) (State, error) {
	course := in.CourseID
	if course == "" {
		if in.FilePath != "" {
			course = "upload_" + stem(in.FilePath)
		} else {
			course = DefaultCourse
		}
	}

	input := in.Input
	if input == "" && in.FilePath != "" {
		input = "Analyze the uploaded document and generate Reading Apprenticeship questions."
	}

	return w.pipeline.Run(ctx, State{Input: input, CourseID: course, FilePath: in.FilePath})
}

// Extractor optionally ingests an uploaded document into the course library,
// extracts the main ideas and gathers relevant course context.
type Extractor struct {
	gen     Generator
	search  Searcher
	store   chunkStorer
	loader  documentLoader
	chunker chunkifier
	results int
	log     *slog.Logger
}

func (e *Extractor) Name() string { return "extractor" }

func (e *Extractor) Run(ctx context.Context, s State) (Delta, error) {
	d := Delta{}
	input := s.Input

	if s.FilePath != "" {
		text, err := e.loader.Load(s.FilePath)
		if err != nil {
			return Delta{}, fmt.Errorf("processing uploaded file %s: %w", s.FilePath, err)
		}

		chunks := e.chunker.Chunkify(text)
		title := "Uploaded: " + filepath.Base(s.FilePath)
		if _, err := e.store.AddChunks(s.CourseID, slices.Values(chunks), title); err != nil {
			return Delta{}, fmt.Errorf("storing document chunks: %w", err)
		}

		input = strings.Join(chunks[:min(3, len(chunks))], " ")
		d.Input = input
		d.DocumentChunks = chunks
		e.log.Info("processed uploaded file", "file", s.FilePath, "chunks", len(chunks))
	}

	extracted, err := e.gen.Generate(ctx, extractPrompt(input))
	if err != nil {
		return Delta{}, err
	}
	d.ExtractedInfo = extracted

	d.RelevantContext = e.relevantContext(ctx, s.CourseID, extracted)

	return d, nil
}

func (e *Extractor) relevantContext(ctx context.Context, course, query string) string {
	results, err := e.search.Search(ctx, course, query, e.results)
	if err != nil {
		e.log.Error("retrieving context", "course", course, "error", err)
		return MaterialsUnavailable
	}
	if len(results) == 0 {
		return NoMaterialsFound
	}

	pieces := make([]string, 0, len(results))
	for _, r := range results {
		pieces = append(pieces, fmt.Sprintf("Title: %s\nAuthor: %s\nContent: %s...",
			r.Document.Title, r.Document.Author, truncate(r.Document.Content, contextPreview)))
	}
	e.log.Info("found relevant documents", "course", course, "count", len(results))

	return strings.Join(pieces, "\n\n---\n\n")
}

// Scaffolder turns the extracted information into four RA-dimension questions
// with a teacher prompt for each.
type Scaffolder struct {
	gen Generator
	log *slog.Logger
}

func (s *Scaffolder) Name() string { return "scaffold_prompt" }

func (s *Scaffolder) Run(ctx context.Context, st State) (Delta, error) {
	contextSection := ""
	if st.RelevantContext != "" && st.RelevantContext != NoMaterialsFound {
		contextSection = fmt.Sprintf("\n\nRelevant Course Materials:\n%s\n", st.RelevantContext)
	}

	out, err := s.gen.Generate(ctx, scaffoldPrompt(st.ExtractedInfo, contextSection))
	if err != nil {
		return Delta{}, err
	}

	questions, prompts, ok := splitQuestionsPrompts(out)
	if !ok {
		s.log.Warn("scaffold output missing prompts marker")
	}

	return Delta{Questions: questions, Prompts: prompts}, nil
}

// splitQuestionsPrompts divides the scaffold output at the "Prompts:" marker.
// Output without the marker is kept whole as questions, with a fallback
// prompts literal.
func splitQuestionsPrompts(out string) (questions, prompts string, ok bool) {
	before, after, found := strings.Cut(out, "Prompts:")
	if !found {
		return out, PromptsNotFormatted, false
	}

	questions = strings.TrimSpace(strings.ReplaceAll(before, "Questions:", ""))
	return questions, strings.TrimSpace(after), true
}

// QualityChecker reviews the generated questions and prompts against the RA
// framework.
type QualityChecker struct {
	gen Generator
	log *slog.Logger
}

func (q *QualityChecker) Name() string { return "quality" }

func (q *QualityChecker) Run(ctx context.Context, s State) (Delta, error) {
	out, err := q.gen.Generate(ctx, qualityPrompt(s.Questions, s.Prompts))
	if err != nil {
		return Delta{}, err
	}
	q.log.Info("quality evaluation completed")

	return Delta{Evaluation: out}, nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

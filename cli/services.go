package cli

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/amikos-tech/chroma-go/pkg/embeddings"
	gemini "github.com/amikos-tech/chroma-go/pkg/embeddings/gemini"
	openai "github.com/amikos-tech/chroma-go/pkg/embeddings/openai"
	"github.com/spf13/cobra"

	"github.com/yuezhaodesign/Inkspire/chunkify"
	"github.com/yuezhaodesign/Inkspire/config"
	"github.com/yuezhaodesign/Inkspire/genai"
	"github.com/yuezhaodesign/Inkspire/library"
	"github.com/yuezhaodesign/Inkspire/retrieval"
	"github.com/yuezhaodesign/Inkspire/workflow"
)

type libraryStore interface {
	Add(key string, doc library.Document) (library.Document, error)
	AddChunks(key string, chunks iter.Seq[string], title string) ([]library.Document, error)
	Load(key string) ([]library.Document, error)
	Drop(key string) error
}

// indexedLibrary mirrors every library write into the vector index so the
// JSON store and Chroma hold the same documents.
type indexedLibrary struct {
	*library.Store
	index *retrieval.VectorIndex
}

func (s *indexedLibrary) Add(key string, doc library.Document) (library.Document, error) {
	stored, err := s.Store.Add(key, doc)
	if err != nil {
		return stored, err
	}

	if err := s.index.Index(context.Background(), key, []library.Document{stored}); err != nil {
		return stored, err
	}
	return stored, nil
}

func (s *indexedLibrary) AddChunks(key string, chunks iter.Seq[string], title string) ([]library.Document, error) {
	added, err := s.Store.AddChunks(key, chunks, title)
	if err != nil || len(added) == 0 {
		return added, err
	}

	if err := s.index.Index(context.Background(), key, added); err != nil {
		return added, err
	}
	return added, nil
}

func (s *indexedLibrary) Drop(key string) error {
	if err := s.index.Drop(context.Background(), key); err != nil {
		return err
	}
	return s.Store.Drop(key)
}

func newRetrieval() (libraryStore, workflow.Searcher, error) {
	if cfg.Chroma == nil {
		return lib, retrieval.NewLexical(lib), nil
	}

	ef, err := createEmbeddingFunction(cfg.Chroma)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	index, err := retrieval.NewVectorIndex(ctx, retrieval.VectorIndexConfig{
		BaseURL:       cfg.Chroma.Addr,
		Collection:    cfg.Chroma.Collection,
		EmbeddingFunc: ef,
		Results:       cfg.Results,
		RequestSize:   cfg.Chroma.RequestSize,
		Reset:         reset,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize Chroma index: %w", err)
	}

	return &indexedLibrary{Store: lib, index: index}, index, nil
}

func createEmbeddingFunction(cfg *config.Chroma) (embeddings.EmbeddingFunction, error) {
	if cfg.OpenAI != nil {
		ef, err := openai.NewOpenAIEmbeddingFunction(
			cfg.OpenAI.ApiKey,
			openai.WithModel(openai.EmbeddingModel(cfg.OpenAI.Model)))
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI embedding function: %w", err)
		}

		return ef, nil
	}

	if cfg.Gemini != nil {
		ef, err := gemini.NewGeminiEmbeddingFunction(
			gemini.WithAPIKey(cfg.Gemini.ApiKey),
			gemini.WithDefaultModel(embeddings.EmbeddingModel(cfg.Gemini.Model)))
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini embedding function: %w", err)
		}

		return ef, nil
	}

	return nil, errors.New("invalid embeddings provider configuration")
}

func ensureGenerator() (workflow.Generator, error) {
	if generator != nil {
		return generator, nil
	}
	if cfg.Generation.ApiKey == "" {
		return nil, errors.New("set GOOGLE_API_KEY in your environment and re-run")
	}

	generator = genai.NewClient(genai.Config{
		BaseURL:     cfg.Generation.BaseURL,
		Model:       cfg.Generation.Model,
		APIKey:      cfg.Generation.ApiKey,
		Temperature: cfg.Generation.Temperature,
	}, logger)

	return generator, nil
}

func newCourseWorkflow() (*workflow.CourseWorkflow, error) {
	gen, err := ensureGenerator()
	if err != nil {
		return nil, err
	}

	return workflow.NewCourseWorkflow(gen, searcher, store, loader, chunker, cfg.Results, logger), nil
}

func newPairWorkflow() (*workflow.PairWorkflow, error) {
	gen, err := ensureGenerator()
	if err != nil {
		return nil, err
	}

	pairChunker, err := chunkify.New(workflow.SecondaryChunkSize, workflow.SecondaryChunkOverlap)
	if err != nil {
		return nil, err
	}

	return workflow.NewPairWorkflow(gen, searcher, store, pairChunker, workflow.PairResults, logger), nil
}

func printSection(cmd *cobra.Command, name, body string) {
	cmd.Printf("\n=== %s ===\n%s\n", name, body)
}

func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}

	return string(runes[:n])
}

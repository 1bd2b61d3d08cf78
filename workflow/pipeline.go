package workflow

import (
	"context"
	"fmt"
	"iter"
	"log/slog"

	"github.com/yuezhaodesign/Inkspire/retrieval"
)

// Generator produces a completion for a prompt. Any error aborts the run.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Searcher serves ranked retrieval over a course collection. Implementations
// may be lexical or vector backed; failures degrade, they do not abort.
type Searcher interface {
	Search(ctx context.Context, course, query string, k int) ([]retrieval.Result, error)
}

type chunkifier interface {
	Chunkify(text string) []string
	All(text string) iter.Seq[string]
}

// Stage is one step of a pipeline. It reads the state and publishes its
// results as a Delta; it must not retain the state.
type Stage interface {
	Name() string
	Run(ctx context.Context, s State) (Delta, error)
}

// Pipeline folds stage deltas into the state in a fixed order. The first
// failing stage terminates the run; no partial state escapes.
type Pipeline struct {
	stages []Stage
	log    *slog.Logger
}

func NewPipeline(log *slog.Logger, stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages, log: log}
}

func (p *Pipeline) Run(ctx context.Context, s State) (State, error) {
	for _, stage := range p.stages {
		delta, err := stage.Run(ctx, s)
		if err != nil {
			return State{}, fmt.Errorf("stage %s: %w", stage.Name(), err)
		}

		s = s.merge(delta)
		p.log.Debug("stage completed", "stage", stage.Name())
	}

	return s, nil
}

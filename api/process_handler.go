package api

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"github.com/yuezhaodesign/Inkspire/workflow"
)

// MaxUploadBytes caps uploaded readings at 10 MiB.
const MaxUploadBytes = 10 << 20

type workflowRunner interface {
	Run(ctx context.Context, in workflow.CourseInput) (workflow.State, error)
}

type uploadChecker interface {
	Supported(path string) bool
}

type ProcessHandler struct {
	runner   workflowRunner
	loader   uploadChecker
	maxBytes int64
	log      *slog.Logger
}

func NewProcessHandler(runner workflowRunner, loader uploadChecker, log *slog.Logger) *ProcessHandler {
	return &ProcessHandler{
		runner:   runner,
		loader:   loader,
		maxBytes: MaxUploadBytes,
		log:      log,
	}
}

type ProcessResponse struct {
	ExtractedInfo   string `json:"extracted_info"`
	RelevantContext string `json:"relevant_context"`
	Questions       string `json:"questions"`
	Prompts         string `json:"prompts"`
	Evaluation      string `json:"evaluation"`
}

// HandleProcessFile runs the scaffolding workflow over an uploaded reading
// and returns the generated artifacts.
func (h *ProcessHandler) HandleProcessFile(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return ErrBadRequest()
	}

	if fileHeader.Size > h.maxBytes {
		return ErrFileTooLarge()
	}
	if !h.loader.Supported(fileHeader.Filename) {
		return ErrUnsupportedFile()
	}

	dir, err := os.MkdirTemp("", "inkspire-upload-*")
	if err != nil {
		return fmt.Errorf("creating upload dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, filepath.Base(fileHeader.Filename))
	if err := c.SaveFile(fileHeader, path); err != nil {
		return fmt.Errorf("saving upload: %w", err)
	}

	state, err := h.runner.Run(c.UserContext(), workflow.CourseInput{FilePath: path})
	if err != nil {
		return fmt.Errorf("processing %s: %w", fileHeader.Filename, err)
	}

	return c.JSON(ProcessResponse{
		ExtractedInfo:   state.ExtractedInfo,
		RelevantContext: state.RelevantContext,
		Questions:       state.Questions,
		Prompts:         state.Prompts,
		Evaluation:      state.Evaluation,
	})
}

package api

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/yuezhaodesign/Inkspire/library"
	"github.com/yuezhaodesign/Inkspire/retrieval"
)

type documentStore interface {
	Add(key string, doc library.Document) (library.Document, error)
}

type resultSearcher interface {
	Search(ctx context.Context, course, query string, k int) ([]retrieval.Result, error)
}

type CourseHandler struct {
	lib      documentStore
	searcher resultSearcher
	log      *slog.Logger
}

func NewCourseHandler(lib documentStore, searcher resultSearcher, log *slog.Logger) *CourseHandler {
	return &CourseHandler{
		lib:      lib,
		searcher: searcher,
		log:      log,
	}
}

func (h *CourseHandler) HandleAddDocument(c *fiber.Ctx) error {
	course := c.Params("course")

	var params DocumentParams
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}
	if fields := checkParams(&params); len(fields) > 0 {
		return NewValidationError(fields)
	}

	doc, err := h.lib.Add(course, library.Document{
		Title:   params.Title,
		Content: params.Content,
		Author:  params.Author,
		Type:    params.Type,
	})
	if err != nil {
		return fmt.Errorf("adding document to course %s: %w", course, err)
	}

	h.log.Info("document added", "course", course, "id", doc.ID, "title", doc.Title)
	return c.Status(fiber.StatusCreated).JSON(doc)
}

type SearchHit struct {
	Document library.Document `json:"document"`
	Score    float64          `json:"score"`
}

type SearchResponse struct {
	Course  string      `json:"course"`
	Query   string      `json:"query"`
	Results []SearchHit `json:"results"`
}

func (h *CourseHandler) HandleSearch(c *fiber.Ctx) error {
	course := c.Params("course")

	query := c.Query("q")
	if query == "" {
		return NewError(fiber.StatusBadRequest, "missing q parameter")
	}
	k := c.QueryInt("k")

	results, err := h.searcher.Search(c.UserContext(), course, query, k)
	if err != nil {
		return fmt.Errorf("searching course %s: %w", course, err)
	}

	hits := make([]SearchHit, len(results))
	for i, r := range results {
		hits[i] = SearchHit{Document: r.Document, Score: r.Score}
	}

	return c.JSON(SearchResponse{Course: course, Query: query, Results: hits})
}

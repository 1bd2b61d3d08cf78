// Package api exposes the scaffolding workflow and course library over HTTP
// for the web frontend.
package api

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// FrontendOrigin is the dev server the web UI is served from.
const FrontendOrigin = "http://localhost:3000"

type Server struct {
	addr string
	log  *slog.Logger
	app  *fiber.App
}

func NewServer(addr string, runner workflowRunner, lib documentStore, searcher resultSearcher, loader uploadChecker, log *slog.Logger) *Server {
	app := fiber.New(fiber.Config{
		ErrorHandler: NewErrorHandler(log),
		// Room for the multipart envelope around a full-size upload.
		BodyLimit: MaxUploadBytes + 1<<20,
	})

	app.Use(RequestID())
	app.Use(RequestLogger(log))
	app.Use(cors.New(cors.Config{AllowOrigins: FrontendOrigin}))

	var (
		check   = NewCheckHandler()
		process = NewProcessHandler(runner, loader, log)
		courses = NewCourseHandler(lib, searcher, log)
		group   = app.Group("/courses/:course")
	)

	app.Get("/health", check.HandleHealthy)
	app.Post("/process-file", process.HandleProcessFile)
	group.Post("/documents", courses.HandleAddDocument)
	group.Get("/search", courses.HandleSearch)

	return &Server{
		addr: addr,
		log:  log,
		app:  app,
	}
}

func (s *Server) Run() error {
	s.log.Info("http server listening", "addr", s.addr)
	return s.app.Listen(s.addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("http server stopping")
	return s.app.ShutdownWithContext(ctx)
}

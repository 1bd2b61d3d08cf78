// Package mcpserver exposes the course library and scaffolding workflow as
// MCP tools for agent clients.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/yuezhaodesign/Inkspire/retrieval"
	"github.com/yuezhaodesign/Inkspire/workflow"
)

const (
	serverName    = "Inkspire"
	serverVersion = "0.1.0"
)

type librarySearcher interface {
	Search(ctx context.Context, course, query string, k int) ([]retrieval.Result, error)
}

type scaffolder interface {
	Run(ctx context.Context, in workflow.CourseInput) (workflow.State, error)
}

func New(searcher librarySearcher, runner scaffolder, results int) *server.MCPServer {
	if results <= 0 {
		results = retrieval.DefaultResults
	}

	searchTool := mcp.NewTool("search_library",
		mcp.WithDescription("Search a course library for materials relevant to a query"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query"),
		),
		mcp.WithString("course",
			mcp.Description("Course library to search; defaults to the shared library"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results"),
		))

	scaffoldTool := mcp.NewTool("scaffold_reading",
		mcp.WithDescription("Generate Reading Apprenticeship questions, teacher prompts and an evaluation for a reading"),
		mcp.WithString("input",
			mcp.Required(),
			mcp.Description("Reading text or description to scaffold"),
		),
		mcp.WithString("course",
			mcp.Description("Course library that grounds the scaffolding"),
		))

	srv := server.NewMCPServer(serverName, serverVersion, server.WithToolCapabilities(false))
	srv.AddTool(searchTool, searchHandler(searcher, results))
	srv.AddTool(scaffoldTool, scaffoldHandler(runner))

	return srv
}

func searchHandler(searcher librarySearcher, results int) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		q, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		course := request.GetString("course", workflow.DefaultCourse)
		limit := request.GetInt("limit", results)

		res, err := searcher.Search(ctx, course, q, limit)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if len(res) == 0 {
			return mcp.NewToolResultText(workflow.NoMaterialsFound), nil
		}

		var response string
		for _, r := range res {
			raw, err := json.Marshal(struct {
				Score  float64 `json:"score"`
				Title  string  `json:"title"`
				Author string  `json:"author"`
				Text   string  `json:"text"`
			}{
				Score:  r.Score,
				Title:  r.Document.Title,
				Author: r.Document.Author,
				Text:   r.Document.Content,
			})
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			response += fmt.Sprintf("%s\n", string(raw))
		}

		return mcp.NewToolResultText(response), nil
	}
}

func scaffoldHandler(runner scaffolder) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		input, err := request.RequireString("input")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		course := request.GetString("course", "")

		state, err := runner.Run(ctx, workflow.CourseInput{Input: input, CourseID: course})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		raw, err := json.Marshal(struct {
			ExtractedInfo   string `json:"extracted_info"`
			RelevantContext string `json:"relevant_context"`
			Questions       string `json:"questions"`
			Prompts         string `json:"prompts"`
			Evaluation      string `json:"evaluation"`
		}{
			ExtractedInfo:   state.ExtractedInfo,
			RelevantContext: state.RelevantContext,
			Questions:       state.Questions,
			Prompts:         state.Prompts,
			Evaluation:      state.Evaluation,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(string(raw)), nil
	}
}

// Package mcp provides a Model Context Protocol server for chatsift.
//
// It exposes transcript analysis (list_categories, analyze_transcript,
// transcript_stats, extract_urls) as MCP tools over stdio, so clients
// like Claude Desktop and Cursor can mine local WhatsApp exports
// without shelling out to the CLI.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hurttlocker/chatsift/internal/extract"
	"github.com/hurttlocker/chatsift/internal/transcript"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewServer creates a configured MCP server with all chatsift tools.
// Every tool reads a transcript fresh from disk on each call, so there
// is no shared state to guard.
func NewServer(version string) *server.MCPServer {
	ver := version
	if ver == "" {
		ver = "dev"
	}

	s := server.NewMCPServer(
		"chatsift",
		ver,
		server.WithToolCapabilities(false),
	)

	registerListCategoriesTool(s)
	registerAnalyzeTool(s)
	registerStatsTool(s)
	registerURLsTool(s)

	return s
}

// --- Tools ---

func registerListCategoriesTool(s *server.MCPServer) {
	tool := mcp.NewTool("list_categories",
		mcp.WithDescription("List the extraction categories chatsift understands. Returns a JSON object mapping category name to a one-line description."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		categories := make(map[string]string)
		for _, rule := range extract.DefaultRegistry.Rules() {
			categories[rule.Name()] = rule.Description()
		}

		data, _ := json.MarshalIndent(categories, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerAnalyzeTool(s *server.MCPServer) {
	tool := mcp.NewTool("analyze_transcript",
		mcp.WithDescription("Extract candidate records from a WhatsApp chat export on disk. Runs the pattern rules for one category and returns matching messages with sender, date, and time."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the exported chat .txt file"),
		),
		mcp.WithString("category",
			mcp.Required(),
			mcp.Description("Extraction category (see list_categories)"),
		),
		mcp.WithNumber("days",
			mcp.Description("Only analyze messages from the last N days, counted back from the newest message in the chat. Absent or 0 = all messages."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of candidates to return (default: all)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := req.RequireString("path")
		if err != nil {
			return mcp.NewToolResultError("path is required"), nil
		}
		category, err := req.RequireString("category")
		if err != nil {
			return mcp.NewToolResultError("category is required"), nil
		}

		messages, err := transcript.ParseFile(path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("reading transcript: %v", err)), nil
		}

		if days, err := req.RequireFloat("days"); err == nil && days > 0 {
			messages = transcript.FilterDays(messages, int(days))
		}

		candidates, err := extract.New(messages).Extract(category)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		totalFound := len(candidates)
		if limitVal, err := req.RequireFloat("limit"); err == nil {
			if limit := int(limitVal); limit > 0 && limit < len(candidates) {
				candidates = candidates[:limit]
			}
		}

		result := map[string]interface{}{
			"category":       category,
			"total_messages": len(messages),
			"total_found":    totalFound,
			"candidates":     candidates,
		}
		data, _ := json.MarshalIndent(result, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerStatsTool(s *server.MCPServer) {
	tool := mcp.NewTool("transcript_stats",
		mcp.WithDescription("Summarize a WhatsApp chat export: message and sender counts, date range, active days, and per-sender / per-date totals."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the exported chat .txt file"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := req.RequireString("path")
		if err != nil {
			return mcp.NewToolResultError("path is required"), nil
		}

		messages, err := transcript.ParseFile(path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("reading transcript: %v", err)), nil
		}

		stats := transcript.Summarize(messages)
		data, _ := json.MarshalIndent(stats, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerURLsTool(s *server.MCPServer) {
	tool := mcp.NewTool("extract_urls",
		mcp.WithDescription("Pull every shared link out of a WhatsApp chat export, with who posted it, when, and the message text around it."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the exported chat .txt file"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := req.RequireString("path")
		if err != nil {
			return mcp.NewToolResultError("path is required"), nil
		}

		messages, err := transcript.ParseFile(path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("reading transcript: %v", err)), nil
		}

		candidates, err := extract.New(messages).Extract("urls")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result := map[string]interface{}{
			"total_found": len(candidates),
			"urls":        candidates,
		}
		data, _ := json.MarshalIndent(result, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

// tools_review.go implements the three review tools. Each handler
// follows the same shape: bound the call with the configured timeout,
// build a fresh reporter (validating configuration and authenticating),
// run the report, audit-log the call, and hand the text back.
//
// Report-level "nothing found" sentences are ordinary text results;
// only configuration and connectivity failures become error results.

package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/glrev/glrev/internal/log"
	"github.com/glrev/glrev/internal/review"
	"github.com/glrev/glrev/internal/service"
)

// registerTools exposes the review reports as MCP tools.
func registerTools(s *server.MCPServer, h *handlers) {
	s.AddTool(
		mcp.NewTool("get_pipeline_failed_jobs",
			mcp.WithDescription("GitLabパイプラインで失敗したジョブのコンソール出力を取得"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		h.failedJobs,
	)

	s.AddTool(
		mcp.NewTool("get_review_changes",
			mcp.WithDescription("GitLab MRで修正したファイルの差分を取得"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		h.reviewChanges,
	)

	s.AddTool(
		mcp.NewTool("get_review_comments",
			mcp.WithDescription("GitLab MRの未解決の指摘事項（コメント）を取得"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		h.reviewComments,
	)
}

func (h *handlers) failedJobs(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.report(ctx, "mcp:get_pipeline_failed_jobs", (*review.Reporter).FailedJobsReport)
}

func (h *handlers) reviewChanges(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.report(ctx, "mcp:get_review_changes", (*review.Reporter).ChangesReport)
}

func (h *handlers) reviewComments(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.report(ctx, "mcp:get_review_comments", (*review.Reporter).CommentsReport)
}

// report runs one report end to end with a fresh reporter.
func (h *handlers) report(ctx context.Context, source string,
	run func(*review.Reporter, context.Context) (string, error)) (*mcp.CallToolResult, error) {

	ctx, cancel := context.WithTimeout(ctx, h.cfg.Timeout())
	defer cancel()

	ev := log.Event(source, "report")

	reporter, err := service.New(ctx, h.cfg)
	if err != nil {
		ev.Write(err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	text, err := run(reporter, ctx)
	ev.Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

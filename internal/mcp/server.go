// Package mcp implements the Model Context Protocol server that exposes
// the glrev review reports as tools for an AI assistant. The three
// tools take no arguments: all context comes from the configured local
// repository and the merge request of its current branch.
package mcp

import (
	"context"
	"errors"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/glrev/glrev/internal/config"
)

// Version is advertised to clients for capability negotiation.
const Version = "1.0.0"

// Serve starts the MCP server over stdio. stdout carries JSON-RPC, so
// all logging goes to stderr.
//
// The server starts even when configuration is incomplete: tool calls
// then return the configuration error as their result, which gives the
// assistant (and the user reading its output) a message naming the
// missing setting instead of a dead server.
func Serve(cfg *config.Config) error {
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	h := &handlers{cfg: cfg}

	s := server.NewMCPServer(
		"glrev",
		Version,
		server.WithToolCapabilities(true),
	)
	registerTools(s, h)

	log.Info().Str("version", Version).Str("transport", "stdio").Msg("glrev MCP server ready")

	err := server.ServeStdio(s)
	if errors.Is(err, context.Canceled) {
		log.Info().Msg("server stopped")
		return nil
	}
	return err
}

// handlers carries the configuration shared by all tool handlers.
// Each call builds its own repository handle and GitLab session.
type handlers struct {
	cfg *config.Config
}

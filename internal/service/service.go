// Package service wires configuration into a ready-to-use
// review.Reporter: it validates settings, opens the local repository,
// derives the project name from the origin remote when none is
// configured, and authenticates a fresh GitLab session.
//
// Both the CLI and the MCP server call New once per invocation, so
// every tool call re-authenticates and sees current state.
package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/glrev/glrev/internal/config"
	"github.com/glrev/glrev/internal/gitrepo"
	"github.com/glrev/glrev/internal/glclient"
	"github.com/glrev/glrev/internal/review"
)

// New builds a Reporter for one invocation. Configuration and
// connectivity failures are returned as errors before any report runs.
func New(ctx context.Context, cfg *config.Config) (*review.Reporter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	repo, err := gitrepo.Open(ctx, cfg.RepoPath)
	if err != nil {
		return nil, err
	}

	project := cfg.Project
	if project == "" {
		remote, err := repo.OriginURL(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s is not set and the origin remote could not be read: %w",
				config.EnvProject, err)
		}
		project = gitrepo.ProjectName(remote)
		log.Debug().Str("remote", remote).Str("project", project).Msg("project derived from origin remote")
	}

	host, err := glclient.Connect(ctx, cfg, project)
	if err != nil {
		return nil, err
	}

	return review.NewReporter(repo, host), nil
}

// Package glclient is the remote side of glrev: a thin session over the
// GitLab API that authenticates, pins one project, and exposes the read
// operations the review reports need. Raw API records are converted to
// the review package's domain types at this boundary so malformed
// responses fail here, not deep inside report logic.
//
// A session is cheap and is opened fresh for every tool invocation;
// nothing is cached across calls.
package glclient

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	gitlab "gitlab.com/gitlab-org/api/client-go"

	"github.com/glrev/glrev/internal/config"
	"github.com/glrev/glrev/internal/review"
)

// stateOrder is the fixed priority in which merge request states are
// searched. A closed MR is still found when no opened one exists.
var stateOrder = []string{"opened", "merged", "closed"}

// Client is an authenticated session scoped to a single project.
type Client struct {
	gl      *gitlab.Client
	project *gitlab.Project
}

// Connect authenticates against the first reachable candidate endpoint
// and resolves the project. When every endpoint fails the individual
// failure reasons are aggregated into the returned error.
func Connect(ctx context.Context, cfg *config.Config, projectName string) (*Client, error) {
	var errs []error
	for _, baseURL := range cfg.URLs() {
		gl, err := gitlab.NewClient(cfg.Token, gitlab.WithBaseURL(baseURL))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", baseURL, err))
			continue
		}
		if _, _, err := gl.Users.CurrentUser(gitlab.WithContext(ctx)); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", baseURL, err))
			continue
		}

		log.Debug().Str("url", baseURL).Msg("authenticated to GitLab")

		project, err := resolveProject(ctx, gl, projectName)
		if err != nil {
			return nil, err
		}
		return &Client{gl: gl, project: project}, nil
	}
	return nil, fmt.Errorf("connecting to GitLab failed for all endpoints: %w", errors.Join(errs...))
}

// resolveProject fetches the project by ID or path, falling back to a
// name search when the direct lookup fails.
func resolveProject(ctx context.Context, gl *gitlab.Client, name string) (*gitlab.Project, error) {
	project, _, err := gl.Projects.GetProject(name, nil, gitlab.WithContext(ctx))
	if err == nil {
		return project, nil
	}

	projects, _, searchErr := gl.Projects.ListProjects(&gitlab.ListProjectsOptions{
		Search: gitlab.Ptr(name),
	}, gitlab.WithContext(ctx))
	if searchErr != nil {
		return nil, fmt.Errorf("looking up project %q: %w", name, errors.Join(err, searchErr))
	}
	if len(projects) == 0 {
		return nil, fmt.Errorf("project %q not found: %w", name, err)
	}
	return projects[0], nil
}

// Project returns the resolved project's path with namespace.
func (c *Client) Project() string {
	return c.project.PathWithNamespace
}

// MergeRequestForBranch finds the merge request whose source branch is
// branch, trying states in fixed priority order and taking the first
// (host-default-ordered) hit. The hit is re-fetched in full so the
// snapshot carries diff_refs and the head pipeline.
func (c *Client) MergeRequestForBranch(ctx context.Context, branch string) (*review.MergeRequest, error) {
	for _, state := range stateOrder {
		mrs, _, err := c.gl.MergeRequests.ListProjectMergeRequests(c.project.ID, &gitlab.ListProjectMergeRequestsOptions{
			SourceBranch: gitlab.Ptr(branch),
			State:        gitlab.Ptr(state),
		}, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("listing %s merge requests for branch %s: %w", state, branch, err)
		}
		if len(mrs) == 0 {
			continue
		}
		log.Debug().Str("branch", branch).Str("state", state).Int("iid", mrs[0].IID).Msg("merge request resolved")
		return c.mergeRequest(ctx, mrs[0].IID)
	}
	return nil, review.ErrNoMergeRequest
}

// mergeRequest fetches the full merge request record and converts it.
func (c *Client) mergeRequest(ctx context.Context, iid int) (*review.MergeRequest, error) {
	mr, _, err := c.gl.MergeRequests.GetMergeRequest(c.project.ID, iid, nil, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetching merge request !%d: %w", iid, err)
	}

	out := &review.MergeRequest{
		IID:          mr.IID,
		SourceBranch: mr.SourceBranch,
		State:        mr.State,
	}
	// diff_refs is an inline struct, so presence shows up as non-empty
	// shas. An MR can carry diff_refs with an empty base_sha; both cases
	// get their own user-facing message downstream.
	if mr.DiffRefs.BaseSha != "" || mr.DiffRefs.HeadSha != "" || mr.DiffRefs.StartSha != "" {
		out.HasDiffRefs = true
		out.BaseSHA = mr.DiffRefs.BaseSha
	}
	if mr.HeadPipeline != nil {
		out.PipelineID = mr.HeadPipeline.ID
	}
	return out, nil
}

// FailedJobs returns the failed jobs of the MR's most recent pipeline,
// each with its console trace. An MR without pipelines, or whose latest
// pipeline has no failures, yields an empty slice. A single trace fetch
// failure is recorded inline on that job rather than aborting the rest.
func (c *Client) FailedJobs(ctx context.Context, mrIID int) ([]review.JobFailure, error) {
	pipelines, _, err := c.gl.MergeRequests.ListMergeRequestPipelines(c.project.ID, mrIID, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("listing pipelines of merge request !%d: %w", mrIID, err)
	}
	if len(pipelines) == 0 {
		log.Debug().Int("mr", mrIID).Msg("merge request has no pipelines")
		return nil, nil
	}

	// The API returns pipelines newest first.
	latest := pipelines[0]
	jobs, _, err := c.gl.Jobs.ListPipelineJobs(c.project.ID, latest.ID, &gitlab.ListJobsOptions{}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("listing jobs of pipeline %d: %w", latest.ID, err)
	}

	var failures []review.JobFailure
	for _, job := range jobs {
		if job.Status != "failed" {
			continue
		}
		f := review.JobFailure{Name: job.Name, Status: job.Status}
		trace, err := c.jobTrace(ctx, job.ID)
		if err != nil {
			f.Trace = fmt.Sprintf("ジョブログの取得に失敗しました: %s", err)
		} else {
			f.Trace = trace
		}
		failures = append(failures, f)
	}
	log.Debug().Int("mr", mrIID).Int("pipeline", latest.ID).Int("failed", len(failures)).Msg("pipeline jobs inspected")
	return failures, nil
}

// jobTrace fetches a job's console output.
func (c *Client) jobTrace(ctx context.Context, jobID int) (string, error) {
	reader, _, err := c.gl.Jobs.GetTraceFile(c.project.ID, jobID, gitlab.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("fetching trace of job %d: %w", jobID, err)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("reading trace of job %d: %w", jobID, err)
	}
	return string(data), nil
}

// Discussions returns every discussion thread on the merge request,
// following pagination, converted to domain threads.
func (c *Client) Discussions(ctx context.Context, mrIID int) ([]review.Thread, error) {
	opts := &gitlab.ListMergeRequestDiscussionsOptions{PerPage: 100}

	var threads []review.Thread
	for {
		discussions, resp, err := c.gl.Discussions.ListMergeRequestDiscussions(c.project.ID, mrIID, opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("listing discussions of merge request !%d: %w", mrIID, err)
		}
		for _, d := range discussions {
			threads = append(threads, convertDiscussion(d))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return threads, nil
}

// convertDiscussion maps an API discussion onto a domain thread,
// preserving note order.
func convertDiscussion(d *gitlab.Discussion) review.Thread {
	t := review.Thread{Notes: make([]review.Note, 0, len(d.Notes))}
	for _, n := range d.Notes {
		note := review.Note{
			System:     n.System,
			Resolvable: n.Resolvable,
			Resolved:   n.Resolved,
			Author:     n.Author.Name,
			Body:       n.Body,
		}
		if n.Position != nil {
			note.Path = n.Position.NewPath
			note.Line = n.Position.NewLine
		}
		t.Notes = append(t.Notes, note)
	}
	return t
}

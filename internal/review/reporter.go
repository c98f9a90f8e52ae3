// reporter.go is the façade behind the three glrev tools. Each report
// follows the same template: resolve the current branch, resolve the
// merge request for it, delegate to the filtering/formatting logic, and
// wrap a non-empty result in a fixed instructional preamble aimed at an
// AI reader. Every empty or absent outcome has its own user-facing
// sentence; none of them is an error.

package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// MsgNoMergeRequest is printed when the current branch has no merge
// request in any state.
const MsgNoMergeRequest = "現在のブランチに関連するMerge Requestが見つかりません。"

// MsgNoFailedJobs is printed when the latest pipeline has no failed
// jobs, or the MR has no pipelines at all.
const MsgNoFailedJobs = "パイプラインで失敗したジョブが見つかりません。"

// Instructional preambles wrapped around non-empty reports.
const (
	preambleFailedJobs = "\nパイプラインで以下のエラーが出ています。\nプロダクトコードの修正で対応が可能な場合は修正を行ってください。\n\n%s\n"
	preambleChanges    = "\n以下の変更について @Codebase を考慮してレビューし、コードの問題点や改善点を出してください。\n\n%s\n"
	preambleComments   = "\n以下の指摘事項に対応してください。対応後は今後へのアドバイスを出力してください。\n\n%s\n"
)

// Reporter ties the local repository and the remote host together into
// the three review reports. It holds no per-call state; callers create
// one per invocation with freshly opened collaborators.
type Reporter struct {
	repo Repo
	host Host
}

// NewReporter returns a Reporter over the given collaborators.
func NewReporter(repo Repo, host Host) *Reporter {
	return &Reporter{repo: repo, host: host}
}

// CurrentBranch returns the local repository's current branch name.
func (r *Reporter) CurrentBranch(ctx context.Context) (string, error) {
	return r.repo.CurrentBranch(ctx)
}

// CurrentMergeRequest resolves the merge request associated with the
// current local branch. Returns ErrNoMergeRequest when there is none.
func (r *Reporter) CurrentMergeRequest(ctx context.Context) (*MergeRequest, error) {
	branch, err := r.repo.CurrentBranch(ctx)
	if err != nil {
		return nil, err
	}
	return r.host.MergeRequestForBranch(ctx, branch)
}

// FailedJobsReport reports the console output of failed jobs in the
// current MR's latest pipeline.
//
// "No pipelines" and "no failed jobs" render the same sentence on
// purpose; the distinction is only surfaced in debug logs.
func (r *Reporter) FailedJobsReport(ctx context.Context) (string, error) {
	mr, err := r.CurrentMergeRequest(ctx)
	if errors.Is(err, ErrNoMergeRequest) {
		return MsgNoMergeRequest, nil
	}
	if err != nil {
		return "", err
	}

	jobs, err := r.host.FailedJobs(ctx, mr.IID)
	if err != nil {
		return "", fmt.Errorf("fetching failed jobs for MR #%d: %w", mr.IID, err)
	}
	log.Debug().Int("mr", mr.IID).Int("failed_jobs", len(jobs)).Msg("failed-job report")

	if len(jobs) == 0 {
		return MsgNoFailedJobs, nil
	}
	return fmt.Sprintf(preambleFailedJobs, FormatJobFailures(jobs)), nil
}

// ChangesReport reports the diff between the current MR's base commit
// and the local working tree, one fenced block per changed file.
func (r *Reporter) ChangesReport(ctx context.Context) (string, error) {
	mr, err := r.CurrentMergeRequest(ctx)
	if errors.Is(err, ErrNoMergeRequest) {
		return MsgNoMergeRequest, nil
	}
	if err != nil {
		return "", err
	}

	if !mr.HasDiffRefs {
		return fmt.Sprintf("MR #%d の差分情報が取得できません。", mr.IID), nil
	}
	if mr.BaseSHA == "" {
		return fmt.Sprintf("MR #%d のベースコミットが特定できません。", mr.IID), nil
	}

	files, err := Changes(ctx, r.repo, mr.BaseSHA)
	if err != nil {
		// An unreadable local diff is reported, not raised: the MR and
		// its base were resolved fine, only the local side failed.
		return fmt.Sprintf("ローカルリポジトリからの差分取得に失敗しました: %s", err), nil
	}
	if len(files) == 0 {
		return fmt.Sprintf("MR #%d (ベースコミット: %s) からの変更はありません。", mr.IID, mr.BaseSHA), nil
	}
	return fmt.Sprintf(preambleChanges, FormatChanges(files)), nil
}

// CommentsReport reports the unresolved, file-anchored review comments
// on the current MR.
func (r *Reporter) CommentsReport(ctx context.Context) (string, error) {
	mr, err := r.CurrentMergeRequest(ctx)
	if errors.Is(err, ErrNoMergeRequest) {
		return MsgNoMergeRequest, nil
	}
	if err != nil {
		return "", err
	}

	threads, err := r.host.Discussions(ctx, mr.IID)
	if err != nil {
		return "", fmt.Errorf("fetching discussions for MR #%d: %w", mr.IID, err)
	}
	if len(threads) == 0 {
		return fmt.Sprintf("MR #%d へのコメントはありません。", mr.IID), nil
	}

	comments := FilterComments(threads)
	if len(comments) == 0 {
		return fmt.Sprintf("MR #%d への未解決の指摘事項はありません。", mr.IID), nil
	}
	return fmt.Sprintf(preambleComments, FormatComments(comments)), nil
}

// changes.go assembles the change report: the files that differ between
// an MR's base commit and the local working tree, each with a unified
// diff. Local edits that were never pushed are deliberately included -
// the report describes what the reviewer would see if the developer
// pushed right now.

package review

import (
	"context"
	"fmt"
	"strings"
)

// classify maps a git name-status code to a change kind. Rename codes
// carry a similarity score ("R100"), hence the prefix match.
func classify(code string) ChangeKind {
	switch {
	case strings.HasPrefix(code, "A"):
		return KindAdded
	case strings.HasPrefix(code, "D"):
		return KindDeleted
	case strings.HasPrefix(code, "R"):
		return KindRenamed
	default:
		return KindModified
	}
}

// Changes enumerates files changed between base and the current working
// state and computes each file's unified diff. A nil, nil return means
// the working tree is identical to base. A single file's diff failure
// is recorded on that entry and does not abort the remaining files.
func Changes(ctx context.Context, repo Repo, base string) ([]ChangedFile, error) {
	entries, err := repo.NameStatusDiff(ctx, base)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	files := make([]ChangedFile, 0, len(entries))
	for _, e := range entries {
		f := ChangedFile{Path: e.Path, Kind: classify(e.Code)}
		diff, err := repo.FileDiff(ctx, base, e.Path)
		if err != nil {
			f.Err = err
		} else {
			f.Diff = diff
		}
		files = append(files, f)
	}
	return files, nil
}

// FormatChanges renders changed files as per-file fenced diff blocks
// separated by blank lines. Files whose diff failed get a plain fenced
// block carrying the failure cause instead.
func FormatChanges(files []ChangedFile) string {
	blocks := make([]string, 0, len(files))
	for _, f := range files {
		if f.Err != nil {
			blocks = append(blocks, fmt.Sprintf(
				"# ファイル: %s (%s)\n```\n差分の取得に失敗しました: %s\n```",
				f.Path, f.Kind.Label(), f.Err))
			continue
		}
		blocks = append(blocks, fmt.Sprintf(
			"# ファイル: %s (%s)\n```diff\n%s\n```",
			f.Path, f.Kind.Label(), f.Diff))
	}
	return strings.Join(blocks, "\n\n")
}

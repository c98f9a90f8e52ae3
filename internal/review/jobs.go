// jobs.go renders failed CI jobs as name / status / trace blocks.

package review

import (
	"fmt"
	"strings"
)

// FormatJobFailures renders failed jobs as blocks separated by blank
// lines, each carrying the job name, its status and the fenced console
// trace.
func FormatJobFailures(jobs []JobFailure) string {
	blocks := make([]string, 0, len(jobs))
	for _, j := range jobs {
		blocks = append(blocks, fmt.Sprintf(
			"# ジョブ: %s\n- ステータス: %s\n- 出力:\n```\n%s\n```",
			j.Name, j.Status, j.Trace))
	}
	return strings.Join(blocks, "\n\n")
}

// comments.go filters discussion threads down to the comments a
// developer still has to act on, and renders them.
//
// A note is actionable when it was written by a person (not a system
// event), has not been resolved, and is anchored to a file. A thread
// contributes all of its actionable notes or nothing: a thread whose
// notes are all resolved or unanchored is dropped entirely rather than
// emitted as an empty header.

package review

import (
	"fmt"
	"strings"
)

// UnknownAuthor is the rendered author name when the host returned no
// author metadata for a note.
const UnknownAuthor = "不明なユーザー"

// Actionable reports whether a note still needs attention: not
// system-generated, not resolved, and anchored to a file.
func Actionable(n Note) bool {
	if n.System {
		return false
	}
	if n.Resolvable && n.Resolved {
		return false
	}
	return n.Path != ""
}

// FilterComments extracts every actionable note from threads, in the
// original thread and note order. Empty input yields empty output.
func FilterComments(threads []Thread) []Comment {
	var comments []Comment
	for _, t := range threads {
		for _, n := range t.Notes {
			if !Actionable(n) {
				continue
			}
			author := n.Author
			if author == "" {
				author = UnknownAuthor
			}
			comments = append(comments, Comment{
				Path:   n.Path,
				Line:   n.Line,
				Author: author,
				Body:   n.Body,
			})
		}
	}
	return comments
}

// FormatComments renders comments as blocks separated by "---" rules.
func FormatComments(comments []Comment) string {
	blocks := make([]string, 0, len(comments))
	for _, c := range comments {
		location := fmt.Sprintf("(ファイル: %s)", c.Path)
		if c.Line > 0 {
			location = fmt.Sprintf("(ファイル: %s, 行: %d)", c.Path, c.Line)
		}
		blocks = append(blocks, fmt.Sprintf(
			"# 対象: %s\n- コメント者: %s\n- コメント:\n```\n%s\n```",
			location, c.Author, c.Body))
	}
	return strings.Join(blocks, "\n---\n")
}

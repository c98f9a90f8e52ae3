package review

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glrev/glrev/internal/gitrepo"
)

// fakeRepo is an in-memory Repo for testing the change assembly logic.
type fakeRepo struct {
	branch    string
	branchErr error

	entries    []gitrepo.Entry
	entriesErr error

	diffs    map[string]string
	diffErrs map[string]error
}

func (f *fakeRepo) CurrentBranch(ctx context.Context) (string, error) {
	return f.branch, f.branchErr
}

func (f *fakeRepo) NameStatusDiff(ctx context.Context, base string) ([]gitrepo.Entry, error) {
	return f.entries, f.entriesErr
}

func (f *fakeRepo) FileDiff(ctx context.Context, base, path string) (string, error) {
	if err, ok := f.diffErrs[path]; ok {
		return "", err
	}
	return f.diffs[path], nil
}

func TestClassify(t *testing.T) {
	tests := []struct {
		code string
		want ChangeKind
	}{
		{"A", KindAdded},
		{"D", KindDeleted},
		{"R100", KindRenamed},
		{"R87", KindRenamed},
		{"M", KindModified},
		{"T", KindModified},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classify(tt.code), "code %q", tt.code)
	}
}

func TestChangeKindLabel(t *testing.T) {
	assert.Equal(t, "新規追加", KindAdded.Label())
	assert.Equal(t, "削除", KindDeleted.Label())
	assert.Equal(t, "名前変更", KindRenamed.Label())
	assert.Equal(t, "変更", KindModified.Label())
}

func TestChanges(t *testing.T) {
	ctx := context.Background()

	t.Run("identical tree yields nil", func(t *testing.T) {
		files, err := Changes(ctx, &fakeRepo{}, "abc123")
		require.NoError(t, err)
		assert.Nil(t, files)
	})

	t.Run("enumeration failure is returned", func(t *testing.T) {
		repo := &fakeRepo{entriesErr: errors.New("bad object abc123")}
		_, err := Changes(ctx, repo, "abc123")
		assert.ErrorContains(t, err, "bad object")
	})

	t.Run("entries keep order and classification", func(t *testing.T) {
		repo := &fakeRepo{
			entries: []gitrepo.Entry{
				{Code: "M", Path: "main.go"},
				{Code: "A", Path: "new.go"},
				{Code: "D", Path: "old.go"},
				{Code: "R100", Path: "renamed.go"},
			},
			diffs: map[string]string{
				"main.go":    "-a\n+b",
				"new.go":     "+n",
				"old.go":     "-o",
				"renamed.go": "",
			},
		}

		files, err := Changes(ctx, repo, "abc123")
		require.NoError(t, err)
		require.Len(t, files, 4)
		assert.Equal(t, ChangedFile{Path: "main.go", Kind: KindModified, Diff: "-a\n+b"}, files[0])
		assert.Equal(t, KindAdded, files[1].Kind)
		assert.Equal(t, KindDeleted, files[2].Kind)
		assert.Equal(t, KindRenamed, files[3].Kind)
	})

	t.Run("one broken file does not hide the rest", func(t *testing.T) {
		repo := &fakeRepo{
			entries: []gitrepo.Entry{
				{Code: "M", Path: "good.go"},
				{Code: "M", Path: "bad.go"},
				{Code: "M", Path: "also_good.go"},
			},
			diffs:    map[string]string{"good.go": "+g", "also_good.go": "+a"},
			diffErrs: map[string]error{"bad.go": errors.New("binary file")},
		}

		files, err := Changes(ctx, repo, "abc123")
		require.NoError(t, err)
		require.Len(t, files, 3)
		assert.NoError(t, files[0].Err)
		assert.ErrorContains(t, files[1].Err, "binary file")
		assert.Equal(t, "+a", files[2].Diff)
	})
}

func TestFormatChanges(t *testing.T) {
	t.Run("diff blocks are fenced per file", func(t *testing.T) {
		got := FormatChanges([]ChangedFile{
			{Path: "main.go", Kind: KindModified, Diff: "-a\n+b"},
			{Path: "new.go", Kind: KindAdded, Diff: "+n"},
		})
		assert.Contains(t, got, "# ファイル: main.go (変更)\n```diff\n-a\n+b\n```")
		assert.Contains(t, got, "# ファイル: new.go (新規追加)\n```diff\n+n\n```")
		assert.Contains(t, got, "\n\n# ファイル: new.go")
	})

	t.Run("failed entry renders the cause", func(t *testing.T) {
		got := FormatChanges([]ChangedFile{
			{Path: "bad.go", Kind: KindModified, Err: errors.New("binary file")},
		})
		assert.Contains(t, got, "# ファイル: bad.go (変更)")
		assert.Contains(t, got, "差分の取得に失敗しました: binary file")
		assert.NotContains(t, got, "```diff")
	})
}

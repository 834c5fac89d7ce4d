package content_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bitlatte/pinpage/internal/content"
	"github.com/Bitlatte/pinpage/internal/markdown"
	"github.com/Bitlatte/pinpage/internal/model"
)

func newLoader(t *testing.T, dir string) *content.Loader {
	t.Helper()
	r, err := markdown.New("goldmark")
	require.NoError(t, err)
	return &content.Loader{Dir: dir, Renderer: r}
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func TestParse_Frontmatter(t *testing.T) {
	t.Parallel()

	l := newLoader(t, t.TempDir())
	src := `---
title: "EF Core change tracking"
date: "2023-05-04 10:30:00"
pin: true
image: /img/cover.png
summary: How the tracker snapshots entities.
---
Tracking entities in **EF Core** is cheap.
`
	post, err := l.Parse("posts/ef-core.md", []byte(src))
	require.NoError(t, err)

	assert.Equal(t, "EF Core change tracking", post.Title)
	assert.Equal(t, time.Date(2023, 5, 4, 10, 30, 0, 0, time.UTC), post.Date)
	assert.True(t, post.Pin)
	assert.True(t, post.HasImage())
	assert.Equal(t, "/img/cover.png", post.Image)
	assert.Equal(t, "How the tracker snapshots entities.", post.Summary)
	assert.Equal(t, "/posts/ef-core/", post.URL)
	assert.Contains(t, string(post.ContentHTML), "<strong>EF Core</strong>")
	assert.Equal(t, 7, post.WordCount)
}

func TestParse_DateForms(t *testing.T) {
	t.Parallel()

	plus8 := time.FixedZone("", 8*60*60)
	tests := []struct {
		name string
		src  string
		want time.Time
	}{
		{
			name: "jekyll with zone offset",
			src:  "---\ndate: \"2023-05-04 10:30:00 +0800\"\n---\nbody\n",
			want: time.Date(2023, 5, 4, 10, 30, 0, 0, plus8),
		},
		{
			name: "rfc3339",
			src:  "---\ndate: \"2023-05-04T10:30:00+08:00\"\n---\nbody\n",
			want: time.Date(2023, 5, 4, 10, 30, 0, 0, plus8),
		},
		{
			name: "unquoted yaml day",
			src:  "---\ndate: 2023-05-04\n---\nbody\n",
			want: time.Date(2023, 5, 4, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "toml datetime",
			src:  "+++\ntitle = \"Toml\"\ndate = 2023-05-04T10:30:00Z\n+++\nbody\n",
			want: time.Date(2023, 5, 4, 10, 30, 0, 0, time.UTC),
		},
	}
	l := newLoader(t, t.TempDir())
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			post, err := l.Parse("dated.md", []byte(tt.src))
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(post.Date), "got %s, want %s", post.Date, tt.want)
		})
	}
}

func TestParse_UnparseableDateLeftZero(t *testing.T) {
	t.Parallel()

	post, err := newLoader(t, t.TempDir()).Parse("odd.md", []byte("---\ndate: \"next tuesday\"\n---\nbody\n"))
	require.NoError(t, err)
	assert.True(t, post.Date.IsZero())
}

func TestParse_NoFrontmatter(t *testing.T) {
	t.Parallel()

	l := newLoader(t, t.TempDir())
	post, err := l.Parse("2021-12-24-my_first-post.md", []byte("just text\n"))
	require.NoError(t, err)

	assert.Equal(t, "My First Post", post.Title)
	assert.Equal(t, time.Date(2021, 12, 24, 0, 0, 0, 0, time.UTC), post.Date)
	assert.Equal(t, "/my_first-post/", post.URL)
	assert.False(t, post.Pin)
	assert.False(t, post.HasImage())
}

func TestParse_PinAsStringAndPermalinkOverride(t *testing.T) {
	t.Parallel()

	l := newLoader(t, t.TempDir())
	src := "---\npin: \"yes\"\npermalink: /about\n---\nbody\n"
	post, err := l.Parse("about.md", []byte(src))
	require.NoError(t, err)
	assert.True(t, post.Pin)
	assert.Equal(t, "/about/", post.URL)
}

func TestLoad_SortsAndSkipsDrafts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "old.md"), "---\ntitle: Old\ndate: \"2020-01-01\"\n---\nold\n")
	writeFile(t, filepath.Join(dir, "new.md"), "---\ntitle: New\ndate: \"2024-01-01\"\n---\nnew\n")
	writeFile(t, filepath.Join(dir, "nodate.md"), "---\ntitle: Undated\n---\nx\n")
	writeFile(t, filepath.Join(dir, "draft.md"), "---\ntitle: Draft\ndraft: true\ndate: \"2025-01-01\"\n---\nx\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")

	l := newLoader(t, dir)
	posts, err := l.Load(context.Background())
	require.NoError(t, err)

	var got []string
	for _, p := range posts {
		got = append(got, p.Title)
	}
	assert.Equal(t, []string{"New", "Old", "Undated"}, got)

	l.Drafts = true
	posts, err = l.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 4)
	assert.Equal(t, "Draft", posts[0].Title)
}

func TestLoad_MissingDir(t *testing.T) {
	t.Parallel()

	l := newLoader(t, filepath.Join(t.TempDir(), "missing"))
	_, err := l.Load(context.Background())
	require.Error(t, err)
}

func TestLoad_Cancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "a\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newLoader(t, dir).Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSortPosts_TiesByTitle(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	posts := []*model.Post{{Title: "b", Date: day}, {Title: "a", Date: day}, {Title: "z"}}
	content.SortPosts(posts)
	assert.Equal(t, "a", posts[0].Title)
	assert.Equal(t, "b", posts[1].Title)
	assert.Equal(t, "z", posts[2].Title)
}

func TestCountWords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"one two  three", 3},
		{"使用 EF Core", 4},
		{"你好世界", 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, content.CountWords(tt.in), tt.in)
	}
}

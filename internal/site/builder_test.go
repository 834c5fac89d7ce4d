package site_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bitlatte/pinpage/internal/config"
	"github.com/Bitlatte/pinpage/internal/render"
	"github.com/Bitlatte/pinpage/internal/site"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// newSite lays out a content tree with two pinned and five dated posts.
func newSite(t *testing.T) config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.SiteTitle = "Notes"
	cfg.ContentDir = filepath.Join(root, "content")
	cfg.LayoutsDir = filepath.Join(root, "layouts")
	cfg.StaticDir = filepath.Join(root, "static")
	cfg.OutputDir = filepath.Join(root, "public")
	cfg.Paginate = 3

	writeFile(t, filepath.Join(cfg.ContentDir, "welcome.md"),
		"---\ntitle: Welcome\ndate: \"2020-01-01\"\npin: true\n---\nStart here.\n")
	writeFile(t, filepath.Join(cfg.ContentDir, "rules.md"),
		"---\ntitle: Rules\ndate: \"2019-01-01\"\npin: true\n---\nBe nice.\n")
	for i := 1; i <= 5; i++ {
		writeFile(t, filepath.Join(cfg.ContentDir, "posts", fmt.Sprintf("2024-01-0%d-entry-%d.md", i, i)),
			fmt.Sprintf("---\ntitle: Entry %d\n---\nBody of entry %d.\n", i, i))
	}
	writeFile(t, filepath.Join(cfg.StaticDir, "css", "site.css"), "body{}")
	return cfg
}

func TestBuild_WritesPostsAndPaginatedHome(t *testing.T) {
	t.Parallel()

	cfg := newSite(t)
	stale := filepath.Join(cfg.OutputDir, "stale.html")
	writeFile(t, stale, "old")

	b := site.NewBuilder(cfg, render.WithClock(func() time.Time {
		return time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	}))
	summary, err := b.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 7, summary.Posts)
	assert.Equal(t, 2, summary.Pinned)
	assert.Equal(t, 3, summary.HomePages)
	assert.Len(t, summary.Files, 10)

	assert.NoFileExists(t, stale)
	assert.Equal(t, "body{}", readFile(t, filepath.Join(cfg.OutputDir, "css", "site.css")))
	assert.Contains(t, readFile(t, filepath.Join(cfg.OutputDir, "posts", "entry-3", "index.html")), "Body of entry 3.")

	home := readFile(t, filepath.Join(cfg.OutputDir, "index.html"))
	assert.Contains(t, home, "Welcome")
	assert.Contains(t, home, "Rules")
	assert.Contains(t, home, "Entry 5")
	assert.NotContains(t, home, "Entry 4")
	assert.Less(t, strings.Index(home, "Rules"), strings.Index(home, "Entry 5"))

	page2 := readFile(t, filepath.Join(cfg.OutputDir, "page2", "index.html"))
	for _, title := range []string{"Entry 4", "Entry 3", "Entry 2"} {
		assert.Contains(t, page2, title)
	}
	assert.NotContains(t, page2, "Welcome")

	page3 := readFile(t, filepath.Join(cfg.OutputDir, "page3", "index.html"))
	assert.Contains(t, page3, "Entry 1")
	assert.NotContains(t, page3, `class="next"`)
}

func TestLoadSite_PartitionsPinned(t *testing.T) {
	t.Parallel()

	b := site.NewBuilder(newSite(t))
	data, err := b.LoadSite(context.Background())
	require.NoError(t, err)

	require.Len(t, data.Pinned, 2)
	assert.Equal(t, "Welcome", data.Pinned[0].Title)
	assert.Equal(t, "Rules", data.Pinned[1].Title)
	require.Len(t, data.Defaults, 5)
	assert.Equal(t, "Entry 5", data.Defaults[0].Title)
}

func TestBuild_CustomLayoutsDir(t *testing.T) {
	t.Parallel()

	cfg := newSite(t)
	writeFile(t, filepath.Join(cfg.LayoutsDir, "base.html"), `{{template "content" .}}`)
	writeFile(t, filepath.Join(cfg.LayoutsDir, "home.html"),
		`{{define "content"}}{{range .Paginator.Posts}}{{.Title}};{{end}}{{end}}`)
	writeFile(t, filepath.Join(cfg.LayoutsDir, "post.html"), `{{define "content"}}{{.Post.Title}}{{end}}`)

	_, err := site.NewBuilder(cfg).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Welcome;Rules;Entry 5;", readFile(t, filepath.Join(cfg.OutputDir, "index.html")))
	assert.Equal(t, "Entry 4;Entry 3;Entry 2;", readFile(t, filepath.Join(cfg.OutputDir, "page2", "index.html")))
}

func TestBuild_PostAskingForHomeLayout(t *testing.T) {
	t.Parallel()

	cfg := newSite(t)
	writeFile(t, filepath.Join(cfg.ContentDir, "about.md"), "---\ntitle: About\nlayout: home\n---\nWho writes this.\n")

	_, err := site.NewBuilder(cfg).Build(context.Background())
	require.NoError(t, err)
	assert.Contains(t, readFile(t, filepath.Join(cfg.OutputDir, "about", "index.html")), "Who writes this.")
}

func TestBuild_MissingContentDir(t *testing.T) {
	t.Parallel()

	cfg := newSite(t)
	cfg.ContentDir = filepath.Join(t.TempDir(), "nothing")
	_, err := site.NewBuilder(cfg).Build(context.Background())
	require.Error(t, err)
}

func TestBuild_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := site.NewBuilder(newSite(t)).Build(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

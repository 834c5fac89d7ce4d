// Package site runs the build: load posts, render post pages and the
// paginated home listing, copy static assets.
package site

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Bitlatte/pinpage/internal/compose"
	"github.com/Bitlatte/pinpage/internal/config"
	"github.com/Bitlatte/pinpage/internal/content"
	"github.com/Bitlatte/pinpage/internal/logging"
	"github.com/Bitlatte/pinpage/internal/markdown"
	"github.com/Bitlatte/pinpage/internal/model"
	"github.com/Bitlatte/pinpage/internal/render"
)

// Summary reports what a build produced.
type Summary struct {
	Posts     int
	Pinned    int
	HomePages int
	Files     []string
}

// Builder builds a site from a configuration.
type Builder struct {
	Config  config.Config
	Options []render.Option
}

// NewBuilder returns a Builder for cfg.
func NewBuilder(cfg config.Config, opts ...render.Option) *Builder {
	return &Builder{Config: cfg, Options: opts}
}

// LoadSite reads and partitions every post without writing anything.
func (b *Builder) LoadSite(ctx context.Context) (*model.SiteData, error) {
	md, err := markdown.New(b.Config.Markdown)
	if err != nil {
		return nil, err
	}
	loader := &content.Loader{Dir: b.Config.ContentDir, Renderer: md, Drafts: b.Config.Drafts}
	posts, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	pinned, defaults := compose.Split(posts)
	return &model.SiteData{
		Title:    b.Config.SiteTitle,
		BaseURL:  b.Config.BaseURL,
		Posts:    posts,
		Pinned:   pinned,
		Defaults: defaults,
	}, nil
}

// PagePath returns the URL path of a home listing page.
func (b *Builder) PagePath(page int) string {
	return compose.PagePath(b.Config.PaginatePath, page)
}

// Build cleans the output directory and writes the whole site into it.
func (b *Builder) Build(ctx context.Context) (*Summary, error) {
	cfg := b.Config
	log := logging.L()
	log.Info().Str("output", cfg.OutputDir).Str("baseURL", cfg.BaseURL).Str("title", cfg.SiteTitle).Msg("starting build")

	site, err := b.LoadSite(ctx)
	if err != nil {
		return nil, err
	}
	log.Info().Int("posts", len(site.Posts)).Int("pinned", len(site.Pinned)).Msg("content loaded")

	renderer, err := render.New(cfg, b.Options...)
	if err != nil {
		return nil, err
	}

	if err := prepareOutputDir(cfg.OutputDir); err != nil {
		return nil, err
	}
	if _, err := os.Stat(cfg.StaticDir); err == nil {
		if err := copyDirContents(cfg.StaticDir, cfg.OutputDir); err != nil {
			return nil, fmt.Errorf("failed to copy static assets: %w", err)
		}
		log.Debug().Str("dir", cfg.StaticDir).Msg("static assets copied")
	} else {
		log.Debug().Str("dir", cfg.StaticDir).Msg("static directory not found, skipping copy")
	}

	summary := &Summary{Posts: len(site.Posts), Pinned: len(site.Pinned)}

	for _, post := range site.Posts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out := outputPath(cfg.OutputDir, post.URL)
		if err := writePage(out, func(f *os.File) error { return renderer.Post(f, site, post) }); err != nil {
			return nil, fmt.Errorf("post %q: %w", post.SourcePath, err)
		}
		summary.Files = append(summary.Files, out)
		log.Debug().Str("path", out).Msg("generated post")
	}

	for _, pg := range compose.Paginate(cfg.Paginate, site.Pinned, site.Defaults, b.PagePath) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out := outputPath(cfg.OutputDir, b.PagePath(pg.Page))
		if err := writePage(out, func(f *os.File) error { return renderer.Home(f, site, pg) }); err != nil {
			return nil, fmt.Errorf("home page %d: %w", pg.Page, err)
		}
		summary.Files = append(summary.Files, out)
		summary.HomePages++
	}

	log.Info().Int("posts", summary.Posts).Int("homePages", summary.HomePages).Msg("build completed")
	return summary, nil
}

func prepareOutputDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove output directory %q: %w", dir, err)
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output directory %q: %w", dir, err)
	}
	return nil
}

// outputPath maps a URL path to a file: directories get index.html.
func outputPath(outputDir, urlPath string) string {
	rel := filepath.FromSlash(strings.TrimPrefix(urlPath, "/"))
	if strings.HasSuffix(urlPath, ".html") {
		return filepath.Join(outputDir, rel)
	}
	return filepath.Join(outputDir, rel, "index.html")
}

func writePage(path string, fn func(*os.File) error) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directory for %q: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %q: %w", path, err)
	}
	return nil
}

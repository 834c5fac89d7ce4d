// Package render turns posts and paginators into HTML pages.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/Bitlatte/pinpage/internal/config"
	"github.com/Bitlatte/pinpage/internal/logging"
	"github.com/Bitlatte/pinpage/internal/model"
)

//go:embed theme
var themeFS embed.FS

const (
	BaseLayout = "base.html"
	HomeLayout = "home.html"
	PostLayout = "post.html"

	partialsDir = "partials"
)

// Renderer executes page layouts. Every layout is parsed together with
// base.html and the partials, and is executed through base.html.
type Renderer struct {
	cfg     config.Config
	now     func() time.Time
	layouts map[string]*template.Template
}

// Option customises a Renderer.
type Option func(*Renderer)

// WithClock fixes the time used for relative dates.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) { r.now = now }
}

// New parses layouts from cfg.LayoutsDir, or from the built-in theme when
// that directory does not exist.
func New(cfg config.Config, opts ...Option) (*Renderer, error) {
	var layouts fs.FS
	if info, err := os.Stat(cfg.LayoutsDir); err == nil && info.IsDir() {
		layouts = os.DirFS(cfg.LayoutsDir)
	} else {
		logging.L().Debug().Str("dir", cfg.LayoutsDir).Msg("layouts directory not found, using built-in theme")
		sub, err := fs.Sub(themeFS, "theme")
		if err != nil {
			return nil, fmt.Errorf("built-in theme: %w", err)
		}
		layouts = sub
	}
	return NewFromFS(cfg, layouts, opts...)
}

// NewFromFS parses layouts from fsys.
func NewFromFS(cfg config.Config, fsys fs.FS, opts ...Option) (*Renderer, error) {
	r := &Renderer{cfg: cfg, now: time.Now, layouts: make(map[string]*template.Template)}
	for _, opt := range opts {
		opt(r)
	}

	if _, err := fs.Stat(fsys, BaseLayout); err != nil {
		return nil, fmt.Errorf("%s not found in layouts: %w", BaseLayout, err)
	}
	base, err := template.New(BaseLayout).Funcs(r.funcs()).ParseFS(fsys, BaseLayout)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", BaseLayout, err)
	}
	partials, err := fs.Glob(fsys, path.Join(partialsDir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to list partials: %w", err)
	}
	if len(partials) > 0 {
		if base, err = base.ParseFS(fsys, partials...); err != nil {
			return nil, fmt.Errorf("failed to parse partials: %w", err)
		}
	}

	pages, err := fs.Glob(fsys, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list layouts: %w", err)
	}
	for _, name := range pages {
		if name == BaseLayout {
			continue
		}
		set, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone base layout for %s: %w", name, err)
		}
		if _, err := set.ParseFS(fsys, name); err != nil {
			return nil, fmt.Errorf("failed to parse layout %s: %w", name, err)
		}
		r.layouts[name] = set
	}

	for _, required := range []string{HomeLayout, PostLayout} {
		if _, ok := r.layouts[required]; !ok {
			return nil, fmt.Errorf("layout %s not found", required)
		}
	}
	return r, nil
}

// Layouts lists the page layouts that were loaded.
func (r *Renderer) Layouts() []string {
	names := make([]string, 0, len(r.layouts))
	for name := range r.layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Home renders one page of the home listing.
func (r *Renderer) Home(w io.Writer, site *model.SiteData, pg *model.Paginator) error {
	title := ""
	if pg.Page > 1 {
		title = fmt.Sprintf("Page %d", pg.Page)
	}
	return r.execute(w, HomeLayout, &model.PageData{Site: site, PageTitle: title, Paginator: pg})
}

// Post renders a single post with its own layout when the frontmatter names
// one that exists, else post.html. home.html needs a paginator and is never
// used for a post.
func (r *Renderer) Post(w io.Writer, site *model.SiteData, post *model.Post) error {
	layout := PostLayout
	if post.Layout != "" {
		name := post.Layout
		if !strings.HasSuffix(name, ".html") {
			name += ".html"
		}
		_, ok := r.layouts[name]
		switch {
		case name == HomeLayout:
			logging.L().Warn().Str("layout", post.Layout).Str("post", post.Title).Msgf("home layout cannot render a post, using %s", PostLayout)
		case !ok:
			logging.L().Warn().Str("layout", post.Layout).Str("post", post.Title).Msgf("layout not found, using %s", PostLayout)
		default:
			layout = name
		}
	}
	return r.execute(w, layout, &model.PageData{Site: site, PageTitle: post.Title, Post: post})
}

func (r *Renderer) execute(w io.Writer, layout string, data *model.PageData) error {
	if err := r.layouts[layout].ExecuteTemplate(w, BaseLayout, data); err != nil {
		return fmt.Errorf("failed to execute layout %s: %w", layout, err)
	}
	return nil
}

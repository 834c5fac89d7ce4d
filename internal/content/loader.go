// Package content loads markdown posts with frontmatter from disk.
package content

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Bitlatte/pinpage/internal/logging"
	"github.com/Bitlatte/pinpage/internal/markdown"
	"github.com/Bitlatte/pinpage/internal/model"
)

var dateFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05 -0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Jekyll style "2024-01-31-title.md".
var datedName = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-(.+)$`)

// Loader reads posts from a content directory.
type Loader struct {
	Dir      string
	Renderer markdown.Renderer
	Drafts   bool
}

// Load walks the content directory and returns every post, newest first.
func (l *Loader) Load(ctx context.Context) ([]*model.Post, error) {
	if _, err := os.Stat(l.Dir); err != nil {
		return nil, fmt.Errorf("content directory %q: %w", l.Dir, err)
	}

	var posts []*model.Post
	err := filepath.WalkDir(l.Dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("error accessing path %q during walk: %w", path, walkErr)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file %q: %w", path, err)
		}
		rel, err := filepath.Rel(l.Dir, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path for %q: %w", path, err)
		}

		post, err := l.Parse(rel, src)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		post.SourcePath = path
		if boolField(post.Frontmatter, "draft") && !l.Drafts {
			logging.L().Debug().Str("path", path).Msg("skipping draft")
			return nil
		}
		posts = append(posts, post)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error during content walk: %w", err)
	}

	SortPosts(posts)
	return posts, nil
}

// Parse builds a post from a file's bytes. rel is the path relative to the
// content directory and drives the slug and permalink.
func (l *Loader) Parse(rel string, src []byte) (*model.Post, error) {
	var fm map[string]interface{}
	body, err := frontmatter.Parse(bytes.NewReader(src), &fm)
	if err != nil {
		logging.L().Warn().Err(err).Str("path", rel).Msg("could not parse frontmatter, treating as pure markdown")
		body = src
		fm = nil
	}
	if fm == nil {
		fm = make(map[string]interface{})
	}

	html, err := l.Renderer.Render(body)
	if err != nil {
		return nil, fmt.Errorf("failed to convert markdown: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))
	slug := base
	var nameDate time.Time
	if m := datedName.FindStringSubmatch(base); m != nil {
		if t, err := time.Parse("2006-01-02", m[1]); err == nil {
			nameDate = t
			slug = m[2]
		}
	}

	post := &model.Post{
		Title:       stringField(fm, "title"),
		Slug:        slug,
		Content:     string(body),
		ContentHTML: html,
		Image:       stringField(fm, "image"),
		Pin:         boolField(fm, "pin"),
		Summary:     stringField(fm, "summary"),
		Layout:      stringField(fm, "layout"),
		WordCount:   CountWords(markdown.PlainText(html)),
		Frontmatter: fm,
	}
	if post.Title == "" {
		post.Title = titleFromSlug(slug)
	}

	post.Date = nameDate
	if d, ok := dateField(fm, "date"); ok {
		post.Date = d
	} else if raw, present := fm["date"]; present {
		logging.L().Warn().Str("path", rel).Interface("date", raw).Msg("could not parse date, use YYYY-MM-DD or RFC3339")
	}

	post.URL = permalink(rel, slug, stringField(fm, "permalink"))
	return post, nil
}

// SortPosts orders posts newest first. Undated posts go last; ties fall back
// to the title so output is stable between builds.
func SortPosts(posts []*model.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		if a.Date.IsZero() != b.Date.IsZero() {
			return b.Date.IsZero()
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.Title < b.Title
	})
}

func permalink(rel, slug, override string) string {
	p := override
	if p == "" {
		dir := filepath.ToSlash(filepath.Dir(rel))
		if dir == "." {
			dir = ""
		}
		p = dir + "/" + slug
	}
	p = "/" + strings.Trim(filepath.ToSlash(p), "/") + "/"
	if p == "//" {
		return "/"
	}
	return p
}

func titleFromSlug(slug string) string {
	s := strings.ReplaceAll(strings.ReplaceAll(slug, "-", " "), "_", " ")
	return cases.Title(language.English).String(s)
}

func stringField(fm map[string]interface{}, key string) string {
	s, _ := fm[key].(string)
	return strings.TrimSpace(s)
}

func boolField(fm map[string]interface{}, key string) bool {
	switch v := fm[key].(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "on", "1":
			return true
		}
	}
	return false
}

// YAML decodes unquoted timestamps to time.Time; quoted ones stay strings.
func dateField(fm map[string]interface{}, key string) (time.Time, bool) {
	switch v := fm[key].(type) {
	case time.Time:
		return v, true
	case string:
		for _, format := range dateFormats {
			if t, err := time.Parse(format, strings.TrimSpace(v)); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

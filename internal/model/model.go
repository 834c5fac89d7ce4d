package model

import (
	"html/template"
	"time"
)

// Post is a single blog post loaded from a markdown file.
type Post struct {
	Title       string
	Date        time.Time
	Slug        string
	URL         string
	SourcePath  string
	Content     string
	ContentHTML template.HTML
	Image       string
	Pin         bool
	Summary     string
	Layout      string
	WordCount   int
	Frontmatter map[string]interface{}
}

// HasImage reports whether the post carries a cover image.
func (p *Post) HasImage() bool {
	return p.Image != ""
}

// SiteData holds all site-wide data, including configuration and posts.
type SiteData struct {
	Title   string
	BaseURL string

	// Posts is every loaded post in site order (newest first).
	Posts    []*Post
	Pinned   []*Post
	Defaults []*Post
}

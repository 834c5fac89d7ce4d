package render

import (
	"fmt"
	"html"
	"html/template"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/Bitlatte/pinpage/internal/markdown"
	"github.com/Bitlatte/pinpage/internal/model"
)

const wordsPerMinute = 300

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"excerpt":         r.excerpt,
		"timeago":         r.timeAgo,
		"readingTime":     ReadingTime,
		"pageViews":       r.pageViews,
		"pageViewsScript": r.pageViewsScript,
		"absURL":          r.absURL,
	}
}

// excerpt prefers the frontmatter summary over the post body.
func (r *Renderer) excerpt(p *model.Post) string {
	text := p.Summary
	if text == "" {
		text = markdown.PlainText(p.ContentHTML)
	}
	return Truncate(text, r.cfg.ExcerptLength)
}

// Truncate cuts s to at most n runes, marking the cut with an ellipsis.
// n <= 0 disables truncation.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n])) + "…"
}

func (r *Renderer) timeAgo(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.RelTime(t, r.now(), "ago", "from now")
}

// ReadingTime estimates minutes to read words, never less than one.
func ReadingTime(words int) int {
	return max(1, (words+wordsPerMinute-1)/wordsPerMinute)
}

func (r *Renderer) pageViews(url string) template.HTML {
	if !r.cfg.PageViews.Active() {
		return ""
	}
	return template.HTML(fmt.Sprintf(`<span class="page-views" data-path="%s"></span>`, html.EscapeString(url)))
}

func (r *Renderer) pageViewsScript() template.HTML {
	if !r.cfg.PageViews.Active() {
		return ""
	}
	return template.HTML(fmt.Sprintf(`<script async src="%s"></script>`, html.EscapeString(r.cfg.PageViews.Script)))
}

func (r *Renderer) absURL(p string) string {
	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") || strings.HasPrefix(p, "//") {
		return p
	}
	return strings.TrimRight(r.cfg.BaseURL, "/") + "/" + strings.TrimLeft(p, "/")
}

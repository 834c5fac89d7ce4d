// Package markdown converts post bodies to sanitised HTML using the engine
// selected by the "markdown" config key.
package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"html/template"
	"strings"

	gm "github.com/gomarkdown/markdown"
	gmdhtml "github.com/gomarkdown/markdown/html"
	gmdparser "github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Engines selectable with the "markdown" config key.
const (
	EngineGoldmark   = "goldmark"
	EngineGomarkdown = "gomarkdown"
)

var ErrUnknownEngine = errors.New("unknown markdown engine")

// Known reports whether engine names a supported engine. Empty means goldmark.
func Known(engine string) bool {
	switch engine {
	case "", EngineGoldmark, EngineGomarkdown:
		return true
	}
	return false
}

// Renderer converts markdown source to HTML.
type Renderer interface {
	Render(src []byte) (template.HTML, error)
}

// New returns the renderer for engine.
func New(engine string) (Renderer, error) {
	switch engine {
	case "", EngineGoldmark:
		return newGoldmark(), nil
	case EngineGomarkdown:
		return &gomarkdownRenderer{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, engine)
	}
}

var sanitizer = bluemonday.UGCPolicy()

type goldmarkRenderer struct {
	md goldmark.Markdown
}

func newGoldmark() *goldmarkRenderer {
	return &goldmarkRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				gmhtml.WithHardWraps(),
				gmhtml.WithUnsafe(),
			),
		),
	}
}

func (r *goldmarkRenderer) Render(src []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("goldmark: %w", err)
	}
	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes())), nil
}

type gomarkdownRenderer struct{}

// A gomarkdown parser holds per-document state, so one is made per call.
func (r *gomarkdownRenderer) Render(src []byte) (template.HTML, error) {
	p := gmdparser.NewWithExtensions(gmdparser.CommonExtensions | gmdparser.AutoHeadingIDs | gmdparser.NoEmptyLineBeforeBlock)
	doc := p.Parse(src)
	renderer := gmdhtml.NewRenderer(gmdhtml.RendererOptions{Flags: gmdhtml.CommonFlags})
	unsafe := gm.Render(doc, renderer)
	return template.HTML(sanitizer.SanitizeBytes(unsafe)), nil
}

var stripper = func() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.AddSpaceWhenStrippingTag(true)
	return p
}()

// PlainText strips every tag from rendered HTML and collapses whitespace.
func PlainText(h template.HTML) string {
	text := html.UnescapeString(stripper.Sanitize(string(h)))
	return strings.Join(strings.Fields(text), " ")
}

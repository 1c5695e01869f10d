package web

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"aula/internal/dom/htmldoc"
	"aula/internal/domain/sitepath"
)

// ErrPageNotFound is returned when a path names no page or asset.
var ErrPageNotFound = errors.New("page not found")

// LayoutFile wraps Markdown pages. Its #content element receives the
// rendered Markdown.
const LayoutFile = "_layout.html"

const fallbackLayout = `<!DOCTYPE html>
<html lang="es"><head><meta charset="utf-8"><title></title>
<link rel="stylesheet" href="/assets/css/site.css"></head>
<body><main id="content"></main></body></html>`

// Kind classifies what a request path resolves to.
type Kind int

const (
	KindAsset Kind = iota
	KindHTML
	KindMarkdown
)

// String returns the metrics label of the kind.
func (k Kind) String() string {
	switch k {
	case KindHTML:
		return "html"
	case KindMarkdown:
		return "markdown"
	default:
		return "asset"
	}
}

// Site serves the pages of a site directory.
type Site struct {
	fsys fs.FS
	md   goldmark.Markdown
}

// NewSite serves pages from fsys.
func NewSite(fsys fs.FS) *Site {
	return &Site{
		fsys: fsys,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(goldmarkHTML.WithHardWraps()),
		),
	}
}

// FS returns the site's file system.
func (s *Site) FS() fs.FS { return s.fsys }

// Resolve maps a URL path to a file in the site.
// POST: a directory path resolves to its index page; an .html path with no
// file falls back to the .md file of the same name
func (s *Site) Resolve(urlPath string) (string, Kind, error) {
	clean := path.Clean("/" + urlPath)
	if strings.HasSuffix(urlPath, "/") || clean == "/" {
		clean = path.Join(clean, sitepath.EntryPage)
	}
	name := strings.TrimPrefix(clean, "/")
	if strings.HasPrefix(path.Base(name), "_") {
		return "", KindAsset, ErrPageNotFound
	}

	if strings.HasSuffix(name, ".html") {
		if s.exists(name) {
			return name, KindHTML, nil
		}
		md := strings.TrimSuffix(name, ".html") + ".md"
		if s.exists(md) {
			return md, KindMarkdown, nil
		}
		return "", KindHTML, ErrPageNotFound
	}
	if s.exists(name) {
		return name, KindAsset, nil
	}
	return "", KindAsset, ErrPageNotFound
}

func (s *Site) exists(name string) bool {
	info, err := fs.Stat(s.fsys, name)
	return err == nil && !info.IsDir()
}

// Load parses the page at name as a document served from urlPath.
// PRE: name and kind come from Resolve; kind is not KindAsset
func (s *Site) Load(name string, kind Kind, urlPath string) (*htmldoc.Document, error) {
	raw, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read page %s: %w", name, err)
	}
	if kind == KindHTML {
		return htmldoc.Parse(bytes.NewReader(raw), urlPath)
	}
	return s.renderMarkdown(raw, urlPath)
}

func (s *Site) renderMarkdown(src []byte, urlPath string) (*htmldoc.Document, error) {
	var body bytes.Buffer
	if err := s.md.Convert(src, &body); err != nil {
		return nil, fmt.Errorf("render markdown %s: %w", urlPath, err)
	}
	layout, err := fs.ReadFile(s.fsys, LayoutFile)
	if err != nil {
		layout = []byte(fallbackLayout)
	}
	doc, err := htmldoc.Parse(bytes.NewReader(layout), urlPath)
	if err != nil {
		return nil, err
	}
	sel := doc.Selection()
	content := sel.Find("#content")
	if content.Length() == 0 {
		content = sel.Find("body")
	}
	content.SetHtml(body.String())
	if title := strings.TrimSpace(content.Find("h1").First().Text()); title != "" {
		sel.Find("title").SetText(title)
	}
	return doc, nil
}

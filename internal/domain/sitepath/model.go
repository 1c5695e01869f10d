// Package sitepath computes relative links for the site's two-level folder layout.
//
// Site targets are written root-relative ("pages/dashboard.html", "index.html")
// and resolved against the location of the page that links to them, so the
// static pages keep working when opened from disk or behind a path prefix.
package sitepath

import (
	"path"
	"strings"
)

// Location is the folder depth of a page.
type Location uint8

const (
	// TopLevel pages live next to index.html.
	TopLevel Location = iota
	// InPages pages live under pages/, next to the dashboards and login.
	InPages
	// InSection pages live one level deep in a content folder (docs/, classes/).
	InSection
)

// PagesDir holds login and dashboard pages.
const PagesDir = "pages"

// EntryPage is the site's top-level entry page.
const EntryPage = "index.html"

// SectionDirs are the content folders that sit beside pages/.
var SectionDirs = []string{"docs", "classes"}

// Locate classifies a page by the folders in its URL path.
// PRE: pagePath is a URL path such as "/pages/login.html" or "pages/login.html"
// POST: returns TopLevel unless a known folder appears in the path
func Locate(pagePath string) Location {
	p := "/" + strings.TrimPrefix(pagePath, "/")
	if strings.Contains(p, "/"+PagesDir+"/") {
		return InPages
	}
	for _, dir := range SectionDirs {
		if strings.Contains(p, "/"+dir+"/") {
			return InSection
		}
	}
	return TopLevel
}

// Resolve returns the href that reaches target from the page at pagePath.
// PRE: target is root-relative without a leading slash
// POST: result is a relative path; only its prefix depends on pagePath
func Resolve(pagePath, target string) string {
	target = strings.TrimPrefix(target, "/")
	switch Locate(pagePath) {
	case InPages:
		if rest, ok := strings.CutPrefix(target, PagesDir+"/"); ok {
			return rest
		}
		return "../" + target
	case InSection:
		return "../" + target
	default:
		return target
	}
}

// Join resolves a relative href against the directory of pagePath and returns
// an absolute URL path. Used to turn navigation targets into redirects.
// PRE: pagePath is an absolute URL path
// POST: result starts with "/"
func Join(pagePath, href string) string {
	if strings.HasPrefix(href, "/") {
		return path.Clean(href)
	}
	dir := path.Dir("/" + strings.TrimPrefix(pagePath, "/"))
	return path.Join(dir, href)
}

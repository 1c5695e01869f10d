package web

import (
	"html"

	"github.com/PuerkitoBio/goquery"

	"aula/internal/application/accessibility"
	"aula/internal/application/page"
	"aula/internal/application/speech"
	"aula/internal/dom/htmldoc"
)

// Form fields and attributes shared with the client shim.
const (
	ActionFormID  = "aula-action"
	TargetField   = "aula-target"
	ProfileField  = "aula-profile"
	SpeakAttr     = "data-speak"
	SpeakLangAttr = "data-speak-lang"
	ShimScript    = "/assets/js/aula.js"
)

// clickTargets become submit buttons of the page's action form.
var clickTargets = []string{
	accessibility.ContrastToggleID,
	accessibility.FontToggleID,
	accessibility.ReaderToggleID,
	page.LogoutButtonID,
}

// formTargets post themselves.
var formTargets = []string{
	page.StudentLoginFormID,
	page.TeacherLoginFormID,
}

// decoration is what the server adds to a page before writing it.
type decoration struct {
	csrfField string // hidden input markup, empty without CSRF protection
	utterance speech.Utterance
	speaking  bool
}

// decorate turns the page's controls into form posts and hands the current
// utterance to the client shim. Controls absent from the page are skipped.
func decorate(doc *htmldoc.Document, d decoration) {
	sel := doc.Selection()
	body := sel.Find("body")

	body.AppendHtml(`<form id="` + ActionFormID + `" method="post" hidden>` + d.csrfField + `</form>`)

	for _, id := range clickTargets {
		byID(sel, id).
			SetAttr("form", ActionFormID).
			SetAttr("type", "submit").
			SetAttr("name", TargetField).
			SetAttr("value", id)
	}
	sel.Find(page.ProfileButtonSel).Each(func(_ int, btn *goquery.Selection) {
		value, _ := btn.Attr(page.ProfileAttr)
		btn.SetAttr("form", ActionFormID).
			SetAttr("type", "submit").
			SetAttr("name", ProfileField).
			SetAttr("value", value)
	})
	for _, id := range formTargets {
		form := byID(sel, id)
		if form.Length() == 0 {
			continue
		}
		form.SetAttr("method", "post").RemoveAttr("action")
		form.AppendHtml(`<input type="hidden" name="` + TargetField + `" value="` + html.EscapeString(id) + `">` + d.csrfField)
	}

	if d.speaking {
		body.SetAttr(SpeakAttr, d.utterance.Text)
		body.SetAttr(SpeakLangAttr, d.utterance.Locale)
	} else {
		body.RemoveAttr(SpeakAttr)
		body.RemoveAttr(SpeakLangAttr)
	}

	head := sel.Find("head")
	if head.Find(`script[src="`+ShimScript+`"]`).Length() == 0 {
		head.AppendHtml(`<script src="` + ShimScript + `" defer></script>`)
	}
}

// byID matches on the attribute value so ids need no selector escaping.
func byID(sel *goquery.Selection, id string) *goquery.Selection {
	return sel.Find("[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		v, _ := s.Attr("id")
		return v == id
	}).First()
}

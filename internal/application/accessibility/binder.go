package accessibility

import (
	"strings"

	"aula/internal/application/speech"
	"aula/internal/dom"
)

// InteractiveSelector matches every element that announces itself on focus.
const InteractiveSelector = `a:not(.disabled), button:not(.disabled), [role="button"], input[type="submit"]`

// DescriptionConnector joins an element's label and its linked description.
const DescriptionConnector = ". Información adicional: "

// AnnounceAttr publishes the bound announcement on the element so the
// browser-side shim can replay the subscription.
const AnnounceAttr = "data-announce"

type binding struct {
	el    dom.Element
	focus dom.ListenerID
	blur  dom.ListenerID
}

// Binder owns the focus-announcement subscription of one page.
// INVARIANT: each interactive element carries at most one focus and one blur
// listener from this binder, no matter how often TTS is toggled.
type Binder struct {
	doc       dom.Document
	announcer *speech.Announcer
	bindings  []binding
	attached  bool
}

// NewBinder returns a detached binder for doc.
func NewBinder(doc dom.Document, announcer *speech.Announcer) *Binder {
	return &Binder{doc: doc, announcer: announcer}
}

// Attached reports whether the subscription is active.
func (b *Binder) Attached() bool {
	return b.attached
}

// Attach subscribes every interactive element present on the page.
// PRE: none
// POST: focus announces the element, blur cancels; calling Attach again while
// attached changes nothing
func (b *Binder) Attach() int {
	if b.attached {
		return len(b.bindings)
	}
	for _, el := range b.doc.QueryAll(InteractiveSelector) {
		bnd := binding{el: el}
		bnd.focus = el.AddListener(dom.EventFocus, func() {
			b.announcer.Speak(AnnouncementText(b.doc, el))
		})
		bnd.blur = el.AddListener(dom.EventBlur, func() {
			b.announcer.CancelIfSpeaking()
		})
		if text := AnnouncementText(b.doc, el); text != "" {
			el.SetAttr(AnnounceAttr, text)
		}
		b.bindings = append(b.bindings, bnd)
	}
	b.attached = true
	return len(b.bindings)
}

// Detach removes every listener and published announcement.
// POST: focus events produce no announcements until the next Attach
func (b *Binder) Detach() {
	for _, bnd := range b.bindings {
		bnd.el.RemoveListener(bnd.focus)
		bnd.el.RemoveListener(bnd.blur)
		bnd.el.RemoveAttr(AnnounceAttr)
	}
	b.bindings = nil
	b.attached = false
}

// Refresh republishes the announcement of every bound element from its
// current label and text. A detached binder publishes nothing.
// POST: each bound element's data-announce matches what focusing it speaks
func (b *Binder) Refresh() {
	for _, bnd := range b.bindings {
		if text := AnnouncementText(b.doc, bnd.el); text != "" {
			bnd.el.SetAttr(AnnounceAttr, text)
		} else {
			bnd.el.RemoveAttr(AnnounceAttr)
		}
	}
}

// AnnouncementText is what focusing el announces: its aria-label, or its text
// when unlabelled, followed by the text of the element its aria-describedby
// points at.
// PRE: el belongs to doc
// POST: result is trimmed; empty when the element has nothing to say
func AnnouncementText(doc dom.Document, el dom.Element) string {
	text := ""
	if label, ok := el.Attr("aria-label"); ok && strings.TrimSpace(label) != "" {
		text = strings.TrimSpace(label)
	} else {
		text = collapse(el.Text())
	}
	if ref, ok := el.Attr("aria-describedby"); ok {
		if desc, found := doc.ByID(strings.TrimSpace(ref)); found {
			text += DescriptionConnector + collapse(desc.Text())
		}
	}
	return strings.TrimSpace(text)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

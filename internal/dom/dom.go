// Package dom defines the narrow document surface the page logic runs against.
//
// The page logic never touches markup directly: it looks elements up by id or
// selector, flips classes and inline styles, and registers listeners for the
// handful of events the site reacts to. Implementations live in subpackages.
package dom

// Event names the interactions the site binds to.
type Event string

const (
	EventClick  Event = "click"
	EventSubmit Event = "submit"
	EventFocus  Event = "focus"
	EventBlur   Event = "blur"
)

// Listener is invoked synchronously when its event is dispatched.
type Listener func()

// ListenerID identifies a registered listener for removal.
type ListenerID uint64

// Element is a single node of the document.
type Element interface {
	ID() string
	Attr(name string) (string, bool)
	SetAttr(name, value string)
	RemoveAttr(name string)
	Text() string
	SetText(text string)
	AddClass(name string)
	RemoveClass(name string)
	HasClass(name string) bool
	Style(prop string) string
	SetStyle(prop, value string)
	Find(selector string) []Element

	AddListener(ev Event, fn Listener) ListenerID
	RemoveListener(id ListenerID)
	// Dispatch runs the listeners registered for ev in registration order
	// and returns how many ran.
	Dispatch(ev Event) int
}

// Document is one loaded page.
type Document interface {
	// Path is the URL path the page was loaded from.
	Path() string
	Root() Element
	Body() Element
	ByID(id string) (Element, bool)
	QueryAll(selector string) []Element
}

// Display values used to show and hide navigation entries.
const (
	DisplayNone     = "none"
	DisplayListItem = "list-item"
)

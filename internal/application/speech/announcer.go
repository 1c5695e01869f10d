package speech

import (
	"log/slog"
	"strings"
)

// DefaultLocale is the single locale the site speaks.
const DefaultLocale = "es-ES"

// Engine is the speech synthesis capability.
// Speak starts an utterance without waiting for it to finish.
type Engine interface {
	Speak(text, locale string)
	Cancel()
	Speaking() bool
}

// Announcer speaks page announcements.
// INVARIANT: at most one utterance is audible; a new announcement pre-empts
// the previous one instead of queueing behind it.
type Announcer struct {
	engine  Engine
	locale  string
	enabled func() bool
}

// NewAnnouncer wraps engine. enabled is consulted on every call so the
// announcer follows the live TTS state of the page.
// PRE: enabled is non-nil; engine may be nil when speech is unavailable
// POST: returns an announcer; with a nil engine every call is a no-op
func NewAnnouncer(engine Engine, locale string, enabled func() bool) *Announcer {
	if locale == "" {
		locale = DefaultLocale
	}
	return &Announcer{engine: engine, locale: locale, enabled: enabled}
}

// Available reports whether a speech engine is present.
func (a *Announcer) Available() bool {
	return a != nil && a.engine != nil
}

// Speak announces text.
// PRE: none
// POST: no-op when TTS is disabled, the engine is missing or text is blank;
// otherwise any utterance in progress is cancelled and text is started
func (a *Announcer) Speak(text string) {
	if !a.Available() || !a.enabled() {
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if a.engine.Speaking() {
		a.engine.Cancel()
	}
	a.engine.Speak(text, a.locale)
	slog.Debug("speech_event", "event", "speak", "locale", a.locale, "chars", len(text))
}

// CancelIfSpeaking stops the utterance in progress, if any.
func (a *Announcer) CancelIfSpeaking() {
	if !a.Available() {
		return
	}
	if a.engine.Speaking() {
		a.engine.Cancel()
	}
}

package accessibility

import (
	"log/slog"
	"time"

	"aula/internal/application/speech"
	"aula/internal/dom"
	"aula/internal/domain/profile"
)

// Page element ids and classes the controller drives.
const (
	ContrastToggleID = "contrast-toggle"
	FontToggleID     = "font-toggle"
	ReaderToggleID   = "reader-toggle"
	WelcomeBannerID  = "welcome-banner"

	ClassHighContrast = "high-contrast"
	ClassReaderActive = "reader-active"
	ClassBannerActive = "active"
)

// Fixed spoken phrases and toggle labels.
const (
	PhraseReaderOn    = "Lector de pantalla activado."
	PhraseWelcome     = "¡Bienvenido/a! Tu sesión adaptada está lista."
	ReaderLabelActive = "Lector 🔇"
	ReaderLabelIdle   = "Lector 🔊"
)

// DefaultWelcomeDelay is how long the welcome banner waits after load.
const DefaultWelcomeDelay = 100 * time.Millisecond

// Deps holds dependencies for a Controller.
type Deps struct {
	Prefs        profile.KeyValue
	Engine       speech.Engine // nil when the page has no speech support
	Scheduler    Scheduler
	Locale       string
	WelcomeDelay time.Duration
}

// Controller applies and toggles the accessibility preferences of one page.
// INVARIANT: state mirrors the last values applied to the document.
type Controller struct {
	doc          dom.Document
	prefs        profile.KeyValue
	sched        Scheduler
	welcomeDelay time.Duration
	announcer    *speech.Announcer
	binder       *Binder
	state        profile.AccessibilityProfile
}

// NewController binds a controller to doc.
// PRE: doc and deps.Prefs are non-nil
// POST: nothing is applied until ApplyOnLoad
func NewController(doc dom.Document, deps Deps) *Controller {
	c := &Controller{
		doc:          doc,
		prefs:        deps.Prefs,
		sched:        deps.Scheduler,
		welcomeDelay: deps.WelcomeDelay,
		state:        profile.Default(),
	}
	if c.sched == nil {
		c.sched = &Deferred{}
	}
	if c.welcomeDelay <= 0 {
		c.welcomeDelay = DefaultWelcomeDelay
	}
	c.announcer = speech.NewAnnouncer(deps.Engine, deps.Locale, c.TTSEnabled)
	c.binder = NewBinder(doc, c.announcer)
	return c
}

// TTSEnabled reports the live text-to-speech state of the page.
func (c *Controller) TTSEnabled() bool {
	return c.state.TTSEnabled
}

// State returns the accessibility values currently applied.
func (c *Controller) State() profile.AccessibilityProfile {
	return c.state
}

// Announcer returns the page's announcer.
func (c *Controller) Announcer() *speech.Announcer {
	return c.announcer
}

// Binder returns the page's focus-announcement binder.
func (c *Controller) Binder() *Binder {
	return c.binder
}

// ApplyOnLoad applies the persisted preferences to the page and consumes the
// one-shot welcome flag.
// PRE: none
// POST: body/root reflect the persisted contrast, font and TTS state; the
// welcome flag is removed from the store
// INVARIANT: calling it again yields the same page and audio state
func (c *Controller) ApplyOnLoad() {
	p := profile.Load(c.prefs)
	c.ApplyVisuals(p)
	switch {
	case p.TTSEnabled:
		c.applyTTS(true)
	case c.state.TTSEnabled || c.bodyHasClass(ClassReaderActive):
		c.applyTTS(false)
	}
	if p.ShowWelcome {
		c.prefs.Remove(profile.KeyShowWelcome)
		if banner, ok := c.doc.ByID(WelcomeBannerID); ok {
			c.sched.AfterFunc(c.welcomeDelay, func() {
				banner.AddClass(ClassBannerActive)
				c.announcer.Speak(PhraseWelcome)
			})
		}
	}
}

// ApplyVisuals applies p's contrast and font scale to the page without
// persisting anything.
// POST: state.HighContrast and state.FontScale equal p's
func (c *Controller) ApplyVisuals(p profile.AccessibilityProfile) {
	c.state.HighContrast = p.HighContrast
	c.state.FontScale = p.FontScale
	if body := c.doc.Body(); body != nil {
		if p.HighContrast {
			body.AddClass(ClassHighContrast)
		} else {
			body.RemoveClass(ClassHighContrast)
		}
	}
	if root := c.doc.Root(); root != nil {
		root.SetStyle("font-size", profile.FontSizeCSS(p.FontScale))
	}
}

// ToggleContrast flips high contrast, applies it and persists it.
func (c *Controller) ToggleContrast() {
	next := c.state
	next.HighContrast = !c.state.HighContrast
	c.ApplyVisuals(next)
	c.prefs.Set(profile.KeyContrastMode, profile.ContrastValue(next.HighContrast))
	slog.Info("a11y_event", "event", "contrast_toggled", "active", next.HighContrast)
}

// ToggleFont steps the font scale by 10%, wrapping from 150% to 100%, applies
// it and persists it.
func (c *Controller) ToggleFont() {
	next := c.state
	next.FontScale = profile.NextFontScale(c.state.FontScale)
	c.ApplyVisuals(next)
	c.prefs.Set(profile.KeyFontSize, profile.FontScaleValue(next.FontScale))
	slog.Info("a11y_event", "event", "font_toggled", "scale", next.FontScale)
}

// ToggleTTS flips text-to-speech and persists it. Turning it on subscribes
// focus announcements and confirms aloud; turning it off silences the page.
// POST: when disabled, no announcement can be produced by this page
func (c *Controller) ToggleTTS() {
	enabled := !c.state.TTSEnabled
	c.prefs.Set(profile.KeyTTSActive, profile.FlagValue(enabled))
	c.applyTTS(enabled)
	if enabled {
		c.announcer.Speak(PhraseReaderOn)
	}
	slog.Info("a11y_event", "event", "tts_toggled", "enabled", enabled)
}

func (c *Controller) applyTTS(enabled bool) {
	if !enabled {
		c.announcer.CancelIfSpeaking()
	}
	c.state.TTSEnabled = enabled
	if body := c.doc.Body(); body != nil {
		if enabled {
			body.AddClass(ClassReaderActive)
		} else {
			body.RemoveClass(ClassReaderActive)
		}
	}
	if toggle, ok := c.doc.ByID(ReaderToggleID); ok {
		if enabled {
			toggle.SetText(ReaderLabelActive)
		} else {
			toggle.SetText(ReaderLabelIdle)
		}
	}
	if enabled {
		c.binder.Attach()
	} else {
		c.binder.Detach()
	}
}

func (c *Controller) bodyHasClass(name string) bool {
	body := c.doc.Body()
	return body != nil && body.HasClass(name)
}

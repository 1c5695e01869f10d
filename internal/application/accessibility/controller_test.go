package accessibility

import (
	"bytes"
	"testing"

	"aula/internal/application/speech"
	"aula/internal/dom"
	"aula/internal/dom/htmldoc"
	"aula/internal/domain/profile"
)

// mockPrefs implements profile.KeyValue for testing.
type mockPrefs struct {
	values map[string]string
	writes []string
}

func newMockPrefs(kv map[string]string) *mockPrefs {
	if kv == nil {
		kv = map[string]string{}
	}
	return &mockPrefs{values: kv}
}

// Get implements profile.KeyValue.
func (m *mockPrefs) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Set implements profile.KeyValue.
func (m *mockPrefs) Set(key, value string) {
	m.values[key] = value
	m.writes = append(m.writes, key+"="+value)
}

// Remove implements profile.KeyValue.
func (m *mockPrefs) Remove(key string) {
	delete(m.values, key)
	m.writes = append(m.writes, key+"-")
}

const controllerPage = `<html><head></head><body>
<button id="contrast-toggle">Contraste</button>
<button id="font-toggle">A+</button>
<button id="reader-toggle">Lector 🔊</button>
<div id="welcome-banner">Hola</div>
<a href="clase.html" aria-describedby="clase-desc">Clase 1</a>
<p id="clase-desc">Introducción al curso</p>
</body></html>`

type fixture struct {
	doc   *htmldoc.Document
	prefs *mockPrefs
	rec   *speech.Recorder
	sched *Deferred
	ctl   *Controller
}

func newFixture(t *testing.T, kv map[string]string) *fixture {
	t.Helper()
	doc, err := htmldoc.ParseString(controllerPage, "/pages/dashboard.html")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	f := &fixture{doc: doc, prefs: newMockPrefs(kv), rec: speech.NewRecorder(), sched: &Deferred{}}
	f.ctl = NewController(doc, Deps{Prefs: f.prefs, Engine: f.rec, Scheduler: f.sched})
	return f
}

func render(t *testing.T, doc *htmldoc.Document) string {
	t.Helper()
	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

// TestApplyOnLoad_Defaults tests a fresh profile.
func TestApplyOnLoad_Defaults(t *testing.T) {
	f := newFixture(t, nil)
	f.ctl.ApplyOnLoad()
	if f.doc.Body().HasClass(ClassHighContrast) {
		t.Error("contrast should be off")
	}
	if got := f.doc.Root().Style("font-size"); got != "100%" {
		t.Errorf("font-size = %q, want 100%%", got)
	}
	if f.ctl.Binder().Attached() {
		t.Error("binder should be detached")
	}
}

// TestApplyOnLoad_Persisted tests that all three flags are applied.
func TestApplyOnLoad_Persisted(t *testing.T) {
	f := newFixture(t, map[string]string{
		profile.KeyContrastMode: "active",
		profile.KeyFontSize:     "140",
		profile.KeyTTSActive:    "true",
	})
	f.ctl.ApplyOnLoad()
	if !f.doc.Body().HasClass(ClassHighContrast) {
		t.Error("expected high contrast")
	}
	if got := f.doc.Root().Style("font-size"); got != "140%" {
		t.Errorf("font-size = %q", got)
	}
	if !f.ctl.TTSEnabled() || !f.ctl.Binder().Attached() {
		t.Error("expected TTS active with binder attached")
	}
	toggle, _ := f.doc.ByID(ReaderToggleID)
	if toggle.Text() != ReaderLabelActive {
		t.Errorf("reader label = %q", toggle.Text())
	}
}

// TestApplyOnLoad_MalformedFont tests the font fallback.
func TestApplyOnLoad_MalformedFont(t *testing.T) {
	f := newFixture(t, map[string]string{profile.KeyFontSize: "enorme"})
	f.ctl.ApplyOnLoad()
	if got := f.doc.Root().Style("font-size"); got != "100%" {
		t.Errorf("font-size = %q, want 100%%", got)
	}
}

// TestApplyOnLoad_Idempotent tests that applying twice equals applying once.
func TestApplyOnLoad_Idempotent(t *testing.T) {
	kv := map[string]string{
		profile.KeyContrastMode: "active",
		profile.KeyFontSize:     "120",
		profile.KeyTTSActive:    "true",
	}
	once := newFixture(t, copyMap(kv))
	once.ctl.ApplyOnLoad()

	twice := newFixture(t, copyMap(kv))
	twice.ctl.ApplyOnLoad()
	twice.ctl.ApplyOnLoad()

	if render(t, once.doc) != render(t, twice.doc) {
		t.Error("second ApplyOnLoad changed the page")
	}
	if once.doc.ListenerCount(dom.EventFocus) != twice.doc.ListenerCount(dom.EventFocus) {
		t.Error("second ApplyOnLoad duplicated focus listeners")
	}
	if len(twice.rec.Started()) != len(once.rec.Started()) {
		t.Error("second ApplyOnLoad produced extra speech")
	}
}

// TestToggleContrast tests flip, apply and persist.
func TestToggleContrast(t *testing.T) {
	f := newFixture(t, nil)
	f.ctl.ApplyOnLoad()
	f.ctl.ToggleContrast()
	if !f.doc.Body().HasClass(ClassHighContrast) || f.prefs.values[profile.KeyContrastMode] != "active" {
		t.Errorf("contrast not on: stored=%q", f.prefs.values[profile.KeyContrastMode])
	}
	f.ctl.ToggleContrast()
	if f.doc.Body().HasClass(ClassHighContrast) || f.prefs.values[profile.KeyContrastMode] != "inactive" {
		t.Errorf("contrast not off: stored=%q", f.prefs.values[profile.KeyContrastMode])
	}
}

// TestToggleFont_Cycle tests the full cycle back to 100%.
func TestToggleFont_Cycle(t *testing.T) {
	f := newFixture(t, nil)
	f.ctl.ApplyOnLoad()
	want := []string{"110", "120", "130", "140", "150", "100"}
	for _, w := range want {
		f.ctl.ToggleFont()
		if got := f.prefs.values[profile.KeyFontSize]; got != w {
			t.Fatalf("stored font = %q, want %q", got, w)
		}
		if got := f.doc.Root().Style("font-size"); got != w+"%" {
			t.Fatalf("applied font = %q, want %s%%", got, w)
		}
	}
}

// TestToggleTTS_OnOff tests confirmation speech and suppression after disable.
func TestToggleTTS_OnOff(t *testing.T) {
	f := newFixture(t, nil)
	f.ctl.ApplyOnLoad()

	f.ctl.ToggleTTS()
	cur, ok := f.rec.Current()
	if !ok || cur.Text != PhraseReaderOn {
		t.Fatalf("current = %+v, want reader-on phrase", cur)
	}
	if f.prefs.values[profile.KeyTTSActive] != "true" {
		t.Error("tts not persisted")
	}
	if !f.doc.Body().HasClass(ClassReaderActive) {
		t.Error("expected reader-active class")
	}

	f.ctl.ToggleTTS()
	if f.rec.Speaking() {
		t.Error("disabling TTS should cancel the utterance in progress")
	}
	if f.prefs.values[profile.KeyTTSActive] != "false" {
		t.Error("tts off not persisted")
	}
	before := len(f.rec.Started())
	for _, el := range f.doc.QueryAll(InteractiveSelector) {
		el.Dispatch(dom.EventFocus)
	}
	if len(f.rec.Started()) != before {
		t.Error("focus produced an announcement with TTS disabled")
	}
	toggle, _ := f.doc.ByID(ReaderToggleID)
	if toggle.Text() != ReaderLabelIdle {
		t.Errorf("reader label = %q", toggle.Text())
	}
}

// TestToggleTTS_Repeated tests that toggling never accumulates listeners.
func TestToggleTTS_Repeated(t *testing.T) {
	f := newFixture(t, nil)
	f.ctl.ApplyOnLoad()
	f.ctl.ToggleTTS()
	first := f.doc.ListenerCount(dom.EventFocus)
	for i := 0; i < 6; i++ {
		f.ctl.ToggleTTS()
	}
	if got := f.doc.ListenerCount(dom.EventFocus); got != first {
		t.Errorf("focus listeners = %d, want %d", got, first)
	}
}

// TestWelcome_OneShot tests the banner, the delayed phrase and flag consumption.
func TestWelcome_OneShot(t *testing.T) {
	kv := map[string]string{profile.KeyTTSActive: "true", profile.KeyShowWelcome: "true"}
	f := newFixture(t, kv)
	f.ctl.ApplyOnLoad()

	if _, ok := f.prefs.values[profile.KeyShowWelcome]; ok {
		t.Error("welcome flag should be cleared immediately")
	}
	banner, _ := f.doc.ByID(WelcomeBannerID)
	if banner.HasClass(ClassBannerActive) {
		t.Error("banner should wait for the delay")
	}
	if f.sched.Flush() != 1 {
		t.Fatal("expected one deferred task")
	}
	if !banner.HasClass(ClassBannerActive) {
		t.Error("banner should be visible after the delay")
	}
	if cur, _ := f.rec.Current(); cur.Text != PhraseWelcome {
		t.Errorf("current = %q, want welcome", cur.Text)
	}

	again := newFixture(t, f.prefs.values)
	again.ctl.ApplyOnLoad()
	if again.sched.Pending() != 0 {
		t.Error("second load must not schedule the welcome again")
	}
}

// TestWelcome_NoBanner tests that a page without the banner still consumes the flag.
func TestWelcome_NoBanner(t *testing.T) {
	doc, _ := htmldoc.ParseString(`<html><body><p>x</p></body></html>`, "/index.html")
	prefs := newMockPrefs(map[string]string{profile.KeyShowWelcome: "true"})
	sched := &Deferred{}
	ctl := NewController(doc, Deps{Prefs: prefs, Scheduler: sched})
	ctl.ApplyOnLoad()
	if sched.Pending() != 0 {
		t.Error("no banner, nothing to schedule")
	}
	if _, ok := prefs.values[profile.KeyShowWelcome]; ok {
		t.Error("flag should not survive an unrelated page view")
	}
}

// TestNoEngine tests that a page without speech support still toggles.
func TestNoEngine(t *testing.T) {
	doc, _ := htmldoc.ParseString(controllerPage, "/index.html")
	prefs := newMockPrefs(nil)
	ctl := NewController(doc, Deps{Prefs: prefs})
	ctl.ApplyOnLoad()
	ctl.ToggleTTS()
	if prefs.values[profile.KeyTTSActive] != "true" {
		t.Error("tts flag should persist without an engine")
	}
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

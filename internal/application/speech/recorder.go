package speech

import "sync"

// Utterance is one started announcement.
type Utterance struct {
	Text   string
	Locale string
}

// Recorder is an Engine that keeps the utterance a browser would currently be
// speaking. The HTTP adapter hands Current to the client shim after a request
// has been handled.
type Recorder struct {
	mu       sync.Mutex
	current  *Utterance
	started  []Utterance
	canceled int
}

var _ Engine = (*Recorder)(nil)

// NewRecorder returns an idle recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Speak implements Engine.
func (r *Recorder) Speak(text, locale string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := Utterance{Text: text, Locale: locale}
	r.current = &u
	r.started = append(r.started, u)
}

// Cancel implements Engine.
func (r *Recorder) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current != nil {
		r.canceled++
	}
	r.current = nil
}

// Speaking implements Engine.
func (r *Recorder) Speaking() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current != nil
}

// Current returns the utterance still in progress.
func (r *Recorder) Current() (Utterance, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return Utterance{}, false
	}
	return *r.current, true
}

// Started returns every utterance started so far, oldest first.
func (r *Recorder) Started() []Utterance {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Utterance, len(r.started))
	copy(out, r.started)
	return out
}

// Canceled returns how many in-progress utterances were cut off.
func (r *Recorder) Canceled() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.canceled
}

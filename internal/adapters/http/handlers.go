package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/csrf"

	"aula/internal/adapters/http/middleware"
	"aula/internal/adapters/metrics"
	"aula/internal/adapters/storage/preference"
	"aula/internal/application/accessibility"
	"aula/internal/application/page"
	"aula/internal/application/speech"
	"aula/internal/domain/sitepath"
)

// maxFormBytes bounds action posts; login forms carry a few short fields.
const maxFormBytes = 16 << 10

// knownActions bounds the metrics label set of dispatched targets.
var knownActions = map[string]bool{
	accessibility.ContrastToggleID: true,
	accessibility.FontToggleID:     true,
	accessibility.ReaderToggleID:   true,
	page.LogoutButtonID:            true,
	page.StudentLoginFormID:        true,
	page.TeacherLoginFormID:        true,
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// handlePage serves GET and POST on every site path. Pages are mounted and
// loaded; a POST then dispatches the event its form names. A navigation
// answers 303 to the resolved location, anything else renders the page.
func (s *server) handlePage(w http.ResponseWriter, r *http.Request) {
	name, kind, err := s.site.Resolve(r.URL.Path)
	if errors.Is(err, ErrPageNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	if kind == KindAsset {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		http.ServeFileFS(w, r, s.site.FS(), name)
		return
	}

	doc, err := s.site.Load(name, kind, r.URL.Path)
	if err != nil {
		internalError(w, err)
		return
	}

	ctx := r.Context()
	profileID, _ := middleware.ProfileFromContext(ctx)
	prefs, err := s.bindPrefs(r, profileID)
	if err != nil {
		slog.Warn("pref_load_failed", "profile", profileID, "error", err.Error())
	}

	rec := speech.NewRecorder()
	deferred := &accessibility.Deferred{}
	pg := page.Mount(ctx, doc, page.Deps{
		Prefs:        prefs,
		Engine:       rec,
		Scheduler:    deferred,
		Locale:       s.opts.Locale,
		WelcomeDelay: s.opts.WelcomeDelay,
	})
	pg.Load()

	if r.Method == http.MethodPost {
		r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		s.dispatch(pg, r)
	}
	s.countFailures(prefs)

	if target, ok := pg.Navigated(); ok {
		http.Redirect(w, r, sitepath.Join(doc.Path(), target), http.StatusSeeOther)
		return
	}

	deferred.Flush()
	pg.Controller().Binder().Refresh()
	u, speaking := rec.Current()
	if speaking {
		metrics.AnnouncementsTotal.Inc()
	}
	decorate(doc, decoration{
		csrfField: string(csrf.TemplateField(r)),
		utterance: u,
		speaking:  speaking,
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := doc.Render(w); err != nil {
		slog.Error("render_failed", "path", r.URL.Path, "error", err.Error())
		return
	}
	metrics.PageRendersTotal.WithLabelValues(kind.String()).Inc()
}

// bindPrefs returns the request's preference binding. Without a profile the
// page runs on a throwaway in-memory profile.
func (s *server) bindPrefs(r *http.Request, profileID string) (*preference.Bound, error) {
	if profileID == "" {
		return preference.Bind(r.Context(), preference.NewMemoryStore(), "anonymous")
	}
	return preference.Bind(r.Context(), s.opts.Store, profileID)
}

func (s *server) countFailures(prefs *preference.Bound) {
	if n := prefs.Failures(); n > 0 {
		metrics.PrefWriteFailuresTotal.Add(float64(n))
	}
}

// dispatch fires the event named by the posted form.
func (s *server) dispatch(pg *page.Page, r *http.Request) {
	if role := r.PostForm.Get(ProfileField); role != "" {
		handled := pg.ChooseProfile(role)
		metrics.ObserveAction("select-role", handled)
		slog.Debug("page_action", "action", "select-role", "value", role, "handled", handled)
		return
	}
	target := r.PostForm.Get(TargetField)
	if target == "" {
		metrics.ObserveAction("none", false)
		return
	}
	handled := pg.Click(target) || pg.Submit(target)
	label := target
	if !knownActions[label] {
		label = "other"
	}
	metrics.ObserveAction(label, handled)
	slog.Debug("page_action", "action", target, "handled", handled)
}

// handleHealth reports whether the preference backend answers.
func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := map[string]string{"status": "ok"}
	if s.opts.Health != nil {
		if err := s.opts.Health(r.Context()); err != nil {
			slog.Warn("health_check_failed", "error", err.Error())
			status = http.StatusServiceUnavailable
			body["status"] = "unavailable"
		}
	}
	writeJSON(w, status, body)
}

// handlePerf returns the perf collector's snapshot of the last hour.
func (s *server) handlePerf(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.opts.Collector.Snapshot(time.Now().Add(-time.Hour), 10))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json_encode_failed", "error", err.Error())
	}
}

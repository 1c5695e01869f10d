// Package page mounts the site's behavior on one loaded document: it binds
// the accessibility widget, the role selector, the login forms and the logout
// button, and runs the load-time pipeline.
package page

import (
	"context"
	"log/slog"
	"time"

	"aula/internal/application/accessibility"
	"aula/internal/application/orchestrators"
	"aula/internal/application/speech"
	"aula/internal/dom"
	"aula/internal/domain/profile"
	"aula/internal/domain/role"
)

// Element ids and selectors of the session controls.
const (
	LogoutButtonID     = "logout-button"
	StudentLoginFormID = "student-login-form"
	TeacherLoginFormID = "teacher-login-form"
	ProfileButtonSel   = ".profile-selector button[data-profile]"
	ProfileAttr        = "data-profile"
)

// Deps holds the capabilities a page runs against.
type Deps struct {
	Prefs        profile.KeyValue
	Engine       speech.Engine           // optional
	Navigator    orchestrators.Navigator // optional
	Scheduler    accessibility.Scheduler // optional
	Locale       string
	WelcomeDelay time.Duration
}

// Page is a document with every control bound.
// INVARIANT: once a navigation happened the page is unloaded and ignores
// further events.
type Page struct {
	ctx   context.Context
	doc   dom.Document
	prefs profile.KeyValue
	ctl   *accessibility.Controller
	nav   *guardedNavigator
	bound int
}

// guardedNavigator records the first navigation and forwards it.
type guardedNavigator struct {
	next   orchestrators.Navigator
	target string
	done   bool
}

// Navigate implements orchestrators.Navigator.
func (g *guardedNavigator) Navigate(href string) {
	if g.done {
		return
	}
	g.done = true
	g.target = href
	if g.next != nil {
		g.next.Navigate(href)
	}
}

// Mount binds the site's controls on doc. Controls missing from the page are
// skipped.
// PRE: doc and deps.Prefs are non-nil
// POST: listeners are registered; nothing is applied until Load
func Mount(ctx context.Context, doc dom.Document, deps Deps) *Page {
	p := &Page{
		ctx:   ctx,
		doc:   doc,
		prefs: deps.Prefs,
		nav:   &guardedNavigator{next: deps.Navigator},
	}
	p.ctl = accessibility.NewController(doc, accessibility.Deps{
		Prefs:        deps.Prefs,
		Engine:       deps.Engine,
		Scheduler:    deps.Scheduler,
		Locale:       deps.Locale,
		WelcomeDelay: deps.WelcomeDelay,
	})

	p.on(accessibility.ContrastToggleID, dom.EventClick, p.ctl.ToggleContrast)
	p.on(accessibility.FontToggleID, dom.EventClick, p.ctl.ToggleFont)
	p.on(accessibility.ReaderToggleID, dom.EventClick, p.ctl.ToggleTTS)
	p.on(LogoutButtonID, dom.EventClick, p.logout)
	p.on(StudentLoginFormID, dom.EventSubmit, func() { p.classicLogin(role.NewStudent()) })
	p.on(TeacherLoginFormID, dom.EventSubmit, func() { p.classicLogin(role.NewTeacher()) })

	for _, btn := range doc.QueryAll(ProfileButtonSel) {
		value, _ := btn.Attr(ProfileAttr)
		btn.AddListener(dom.EventClick, func() { p.selectRole(value) })
		p.bound++
	}
	return p
}

// Load runs the load-time pipeline: navigation first, so the announcements
// published by the accessibility pass read the final labels.
func (p *Page) Load() {
	p.RenderNav()
	p.ctl.ApplyOnLoad()
}

// Controller returns the page's accessibility controller.
func (p *Page) Controller() *accessibility.Controller {
	return p.ctl
}

// Bound returns how many controls were found and bound.
func (p *Page) Bound() int {
	return p.bound
}

// Navigated returns the navigation target, if the page has navigated away.
func (p *Page) Navigated() (string, bool) {
	return p.nav.target, p.nav.done
}

// Click dispatches a click on the element with the given id.
// POST: returns false when the page has navigated or nothing handled the click
func (p *Page) Click(id string) bool {
	return p.dispatch(id, dom.EventClick)
}

// Submit dispatches a submit on the form with the given id.
func (p *Page) Submit(id string) bool {
	return p.dispatch(id, dom.EventSubmit)
}

// ChooseProfile clicks the profile-selector button carrying value.
func (p *Page) ChooseProfile(value string) bool {
	if p.nav.done {
		return false
	}
	for _, btn := range p.doc.QueryAll(ProfileButtonSel) {
		if v, _ := btn.Attr(ProfileAttr); v == value {
			return btn.Dispatch(dom.EventClick) > 0
		}
	}
	return false
}

func (p *Page) dispatch(id string, ev dom.Event) bool {
	if p.nav.done {
		return false
	}
	el, ok := p.doc.ByID(id)
	if !ok {
		return false
	}
	return el.Dispatch(ev) > 0
}

func (p *Page) on(id string, ev dom.Event, fn dom.Listener) {
	el, ok := p.doc.ByID(id)
	if !ok {
		return
	}
	el.AddListener(ev, fn)
	p.bound++
}

func (p *Page) selectRole(value string) {
	_, err := orchestrators.ExecuteSelectRole(p.ctx, orchestrators.SelectRoleInput{
		Profile:  value,
		PagePath: p.doc.Path(),
	}, orchestrators.SelectRoleDeps{Prefs: p.prefs, Page: p.ctl, Navigator: p.nav})
	if err != nil {
		slog.Warn("session_event", "event", "select_role_failed", "error", err.Error())
	}
}

func (p *Page) classicLogin(r role.Role) {
	_, err := orchestrators.ExecuteClassicLogin(p.ctx, orchestrators.ClassicLoginInput{
		Role:     r,
		PagePath: p.doc.Path(),
	}, orchestrators.ClassicLoginDeps{Prefs: p.prefs, Navigator: p.nav})
	if err != nil {
		slog.Warn("session_event", "event", "classic_login_failed", "error", err.Error())
	}
}

func (p *Page) logout() {
	_, err := orchestrators.ExecuteLogout(p.ctx, orchestrators.LogoutInput{
		PagePath: p.doc.Path(),
	}, orchestrators.LogoutDeps{Prefs: p.prefs, Navigator: p.nav})
	if err != nil {
		slog.Warn("session_event", "event", "logout_failed", "error", err.Error())
	}
}

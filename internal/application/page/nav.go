package page

import (
	"aula/internal/application/projections"
	"aula/internal/dom"
)

// Navigation entry ids.
const (
	NavDashboardID = "nav-dashboard-link"
	NavLoginID     = "nav-login-link"
	NavLogoutID    = "nav-logout-link"
)

// RenderNav shows the navigation entries for the current session.
func (p *Page) RenderNav() {
	ApplyNav(p.doc, projections.QueryGetNavState(
		projections.GetNavStateQuery{PagePath: p.doc.Path()},
		projections.GetNavStateDeps{Prefs: p.prefs},
	))
}

// ApplyNav writes a navigation state into the document. Entries missing from
// the page are skipped.
func ApplyNav(doc dom.Document, st projections.NavState) {
	if li, ok := doc.ByID(NavLoginID); ok {
		if st.ShowLogin {
			li.SetStyle("display", "")
		} else {
			li.SetStyle("display", dom.DisplayNone)
		}
	}
	if li, ok := doc.ByID(NavLogoutID); ok {
		if st.ShowLogout {
			li.SetStyle("display", dom.DisplayListItem)
		} else {
			li.SetStyle("display", dom.DisplayNone)
		}
	}
	li, ok := doc.ByID(NavDashboardID)
	if !ok {
		return
	}
	links := li.Find("a")
	if len(links) == 0 {
		return
	}
	a := links[0]
	if st.DashboardLabel != "" {
		a.SetText(st.DashboardLabel)
	}
	a.SetAttr("href", st.DashboardHref)
}

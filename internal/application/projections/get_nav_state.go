package projections

import (
	"aula/internal/domain/profile"
	"aula/internal/domain/role"
	"aula/internal/domain/sitepath"
)

// GetNavStateQuery carries input for the navigation projection.
type GetNavStateQuery struct {
	PagePath string
}

// GetNavStateDeps holds dependencies for the navigation projection.
type GetNavStateDeps struct {
	Prefs profile.KeyValue
}

// NavState is what the navigation bar shows for the current session.
type NavState struct {
	SignedIn       bool
	Role           role.Role
	ShowLogin      bool
	ShowLogout     bool
	DashboardLabel string // empty keeps the page's own label
	DashboardHref  string
}

// QueryGetNavState derives the navigation bar from the persisted role.
// PRE: query.PagePath is the URL path of the page being rendered
// POST: anonymous visitors get the login entry and a dashboard link to the
// login page; signed-in visitors get logout and their family's dashboard;
// hrefs are relative to the page's folder depth
func QueryGetNavState(query GetNavStateQuery, deps GetNavStateDeps) NavState {
	p := profile.Load(deps.Prefs)
	if !p.SignedIn {
		return NavState{
			ShowLogin:     true,
			DashboardHref: sitepath.Resolve(query.PagePath, role.LoginTarget),
		}
	}
	return NavState{
		SignedIn:       true,
		Role:           p.Role,
		ShowLogout:     true,
		DashboardLabel: p.Role.DashboardLabel(),
		DashboardHref:  sitepath.Resolve(query.PagePath, p.Role.DashboardTarget()),
	}
}

package orchestrators

import (
	"context"
	"log/slog"

	"aula/internal/domain/profile"
	"aula/internal/domain/role"
	"aula/internal/domain/sitepath"
)

// SelectRoleInput carries input for the adapted-login orchestrator.
type SelectRoleInput struct {
	Profile  string // raw data-profile value of the clicked button
	PagePath string // URL path of the page the selection happened on
}

// SelectRoleResult carries the committed role and where the visitor was sent.
type SelectRoleResult struct {
	Role   role.Role
	Target string
}

// SelectRoleDeps holds dependencies for SelectRole.
type SelectRoleDeps struct {
	Prefs     profile.KeyValue
	Page      PageVisuals // optional
	Navigator Navigator   // optional
}

// ExecuteSelectRole signs the visitor in with a chosen role and the
// accessibility bundle that role implies.
// PRE: input.Profile is a non-empty role value
// POST: store holds contrast, font, TTS, role and the welcome flag for the
// role; the page was reset to default visuals; navigation happened after the
// last write
// INVARIANT: nothing is written when the role is rejected
func ExecuteSelectRole(ctx context.Context, input SelectRoleInput, deps SelectRoleDeps) (SelectRoleResult, error) {
	if err := ctx.Err(); err != nil {
		return SelectRoleResult{}, err
	}
	r, err := role.Classify(input.Profile)
	if err != nil {
		slog.Info("session_event", "event", "role_rejected", "profile", input.Profile)
		return SelectRoleResult{}, err
	}

	// Reset first and show it right away; the visual variant then overrides.
	bundle := profile.Default()
	bundle.SaveAccessibility(deps.Prefs)
	if deps.Page != nil {
		deps.Page.ApplyVisuals(bundle)
	}
	if r.IsVisual() {
		bundle = bundle.WithVisualDefaults()
		bundle.SaveAccessibility(deps.Prefs)
	}

	deps.Prefs.Set(profile.KeyUserProfile, r.String())
	deps.Prefs.Set(profile.KeyShowWelcome, profile.FlagValue(true))

	target := sitepath.Resolve(input.PagePath, r.DashboardTarget())
	slog.Info("session_event", "event", "role_selected", "role", r.String(), "target", target)
	if deps.Navigator != nil {
		deps.Navigator.Navigate(target)
	}
	return SelectRoleResult{Role: r, Target: target}, nil
}

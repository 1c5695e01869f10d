package orchestrators

import (
	"context"
	"log/slog"

	"aula/internal/domain/profile"
	"aula/internal/domain/sitepath"
)

// LogoutInput carries input for the logout orchestrator.
type LogoutInput struct {
	PagePath string
}

// LogoutDeps holds dependencies for Logout.
type LogoutDeps struct {
	Prefs     profile.KeyValue
	Navigator Navigator // optional; nil resets without leaving the page
}

// ExecuteLogout signs the visitor out and restores default accessibility.
// PRE: none
// POST: store holds no role and no welcome flag, contrast inactive, font 100
// and TTS off; then the visitor is sent to the site entry page
func ExecuteLogout(ctx context.Context, input LogoutInput, deps LogoutDeps) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	deps.Prefs.Remove(profile.KeyUserProfile)
	profile.Default().SaveAccessibility(deps.Prefs)
	deps.Prefs.Remove(profile.KeyShowWelcome)

	target := sitepath.Resolve(input.PagePath, sitepath.EntryPage)
	slog.Info("session_event", "event", "logout", "target", target)
	if deps.Navigator != nil {
		deps.Navigator.Navigate(target)
	}
	return target, nil
}

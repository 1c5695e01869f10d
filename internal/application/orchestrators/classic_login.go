package orchestrators

import (
	"context"
	"log/slog"

	"aula/internal/domain/profile"
	"aula/internal/domain/role"
	"aula/internal/domain/sitepath"
)

// ClassicLoginInput carries input for the plain student/teacher login.
type ClassicLoginInput struct {
	Role     role.Role
	PagePath string
}

// ClassicLoginDeps holds dependencies for ClassicLogin.
type ClassicLoginDeps struct {
	Prefs     profile.KeyValue
	Navigator Navigator // optional
}

// ExecuteClassicLogin signs the visitor in without touching their
// accessibility preferences.
// PRE: input.Role was built by the role package
// POST: role and welcome flag are stored, then the visitor is sent to the
// role's dashboard
// INVARIANT: contrast, font and TTS keys are not written
func ExecuteClassicLogin(ctx context.Context, input ClassicLoginInput, deps ClassicLoginDeps) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	deps.Prefs.Set(profile.KeyUserProfile, input.Role.String())
	deps.Prefs.Set(profile.KeyShowWelcome, profile.FlagValue(true))

	target := sitepath.Resolve(input.PagePath, input.Role.DashboardTarget())
	slog.Info("session_event", "event", "classic_login", "role", input.Role.String(), "target", target)
	if deps.Navigator != nil {
		deps.Navigator.Navigate(target)
	}
	return target, nil
}

package orchestrators

import "aula/internal/domain/profile"

// Navigator is the navigation capability: it replaces the current location
// with a path relative to the current page. Navigation may unload the page,
// so every orchestrator here calls it last.
type Navigator interface {
	Navigate(href string)
}

// PageVisuals applies accessibility visuals to the page currently shown.
type PageVisuals interface {
	ApplyVisuals(p profile.AccessibilityProfile)
}

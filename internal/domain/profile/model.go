package profile

import (
	"strconv"
	"strings"

	"aula/internal/domain/role"
)

// Persisted preference keys. Values are strings as written by the site's
// earlier client-side script, so existing browser profiles stay readable.
const (
	KeyUserProfile  = "userProfile"
	KeyContrastMode = "contrastMode"
	KeyFontSize     = "fontSize"
	KeyTTSActive    = "ttsActive"
	KeyShowWelcome  = "showWelcome"
)

// Contrast mode values.
const (
	ContrastActive   = "active"
	ContrastInactive = "inactive"
)

// Font scale domain, in percent of the default page font size.
const (
	FontScaleDefault = 100
	FontScaleMax     = 150
	FontScaleStep    = 10
	FontScaleVisual  = 120
)

const (
	flagTrue  = "true"
	flagFalse = "false"
)

// KeyValue is the per-browser-profile preference store as seen by the core.
// All operations are synchronous and total: implementations swallow storage
// failures and report a missing key instead.
type KeyValue interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
}

// AccessibilityProfile is the committed preference bundle of one browser profile.
// INVARIANT: FontScale is a multiple of FontScaleStep in [FontScaleDefault, FontScaleMax].
// INVARIANT: Role is meaningful only when SignedIn is true.
type AccessibilityProfile struct {
	HighContrast bool
	FontScale    int
	TTSEnabled   bool
	SignedIn     bool
	Role         role.Role
	ShowWelcome  bool
}

// Default returns the profile of a fresh browser profile.
func Default() AccessibilityProfile {
	return AccessibilityProfile{FontScale: FontScaleDefault}
}

// Load reads a full snapshot from kv, substituting defaults for absent or
// malformed values.
// PRE: kv is non-nil
// POST: returned profile satisfies the type invariants
func Load(kv KeyValue) AccessibilityProfile {
	p := Default()
	if v, ok := kv.Get(KeyContrastMode); ok {
		p.HighContrast = v == ContrastActive
	}
	if v, ok := kv.Get(KeyFontSize); ok {
		p.FontScale = ParseFontScale(v)
	}
	if v, ok := kv.Get(KeyTTSActive); ok {
		p.TTSEnabled = v == flagTrue
	}
	if v, ok := kv.Get(KeyUserProfile); ok {
		if r, err := role.Classify(v); err == nil {
			p.Role = r
			p.SignedIn = true
		}
	}
	if v, ok := kv.Get(KeyShowWelcome); ok {
		p.ShowWelcome = v == flagTrue
	}
	return p
}

// ParseFontScale decodes a persisted font size.
// POST: returns FontScaleDefault unless s is a valid in-domain scale
func ParseFontScale(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%")))
	if err != nil || !ValidFontScale(n) {
		return FontScaleDefault
	}
	return n
}

// ValidFontScale reports whether n lies in the font scale domain.
func ValidFontScale(n int) bool {
	return n >= FontScaleDefault && n <= FontScaleMax && n%FontScaleStep == 0
}

// NextFontScale returns the scale after one font toggle: +10, wrapping 150 to 100.
// PRE: s is any int; out-of-domain values restart the cycle
// POST: result is in the font scale domain
func NextFontScale(s int) int {
	if !ValidFontScale(s) || s >= FontScaleMax {
		return FontScaleDefault
	}
	return s + FontScaleStep
}

// ContrastValue encodes the contrast flag for storage.
func ContrastValue(active bool) string {
	if active {
		return ContrastActive
	}
	return ContrastInactive
}

// FlagValue encodes a boolean flag for storage.
func FlagValue(b bool) string {
	if b {
		return flagTrue
	}
	return flagFalse
}

// FontScaleValue encodes a font scale for storage.
func FontScaleValue(n int) string {
	return strconv.Itoa(n)
}

// FontSizeCSS returns the CSS font-size declaration value for a scale.
func FontSizeCSS(n int) string {
	return strconv.Itoa(n) + "%"
}

// ResetAccessibility returns p with contrast, font and TTS at their defaults.
// INVARIANT: role and welcome fields are untouched
func (p AccessibilityProfile) ResetAccessibility() AccessibilityProfile {
	p.HighContrast = false
	p.FontScale = FontScaleDefault
	p.TTSEnabled = false
	return p
}

// WithVisualDefaults returns p with the visual-impairment accessibility bundle.
func (p AccessibilityProfile) WithVisualDefaults() AccessibilityProfile {
	p.HighContrast = true
	p.FontScale = FontScaleVisual
	p.TTSEnabled = true
	return p
}

// SaveAccessibility writes contrast, font and TTS in that fixed order.
// PRE: kv is non-nil
// POST: the three accessibility keys reflect p
func (p AccessibilityProfile) SaveAccessibility(kv KeyValue) {
	kv.Set(KeyContrastMode, ContrastValue(p.HighContrast))
	kv.Set(KeyFontSize, FontScaleValue(p.FontScale))
	kv.Set(KeyTTSActive, FlagValue(p.TTSEnabled))
}

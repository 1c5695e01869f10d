package middleware

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"golang.org/x/crypto/hkdf"
)

// ProfileCookieName carries the signed browser profile id.
const ProfileCookieName = "aula_profile"

// ProfileCookieMaxAge keeps a browser's preferences for a year.
const ProfileCookieMaxAge = 365 * 24 * 60 * 60

type contextKey string

const profileContextKey contextKey = "profile"

// DeriveKey derives an n-byte key for one purpose from the server secret.
// PRE: secret is non-empty
func DeriveKey(secret []byte, purpose string, n int) ([]byte, error) {
	key := make([]byte, n)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(purpose)), key); err != nil {
		return nil, fmt.Errorf("derive %s key: %w", purpose, err)
	}
	return key, nil
}

// ProfileCookie issues and verifies the browser profile cookie. The profile
// id keys the visitor's stored preferences; it is not an account.
type ProfileCookie struct {
	codec  *securecookie.SecureCookie
	secure bool
}

// NewProfileCookie builds a cookie codec from the server secret.
// PRE: secret is non-empty
// POST: cookies are signed and encrypted with keys derived from secret
func NewProfileCookie(secret []byte, secure bool) (*ProfileCookie, error) {
	hashKey, err := DeriveKey(secret, "profile-cookie-hash", 32)
	if err != nil {
		return nil, err
	}
	blockKey, err := DeriveKey(secret, "profile-cookie-block", 32)
	if err != nil {
		return nil, err
	}
	codec := securecookie.New(hashKey, blockKey).MaxAge(ProfileCookieMaxAge)
	return &ProfileCookie{codec: codec, secure: secure}, nil
}

// Read returns the profile id carried by the request, if the cookie is
// present and verifies.
func (p *ProfileCookie) Read(r *http.Request) (string, bool) {
	c, err := r.Cookie(ProfileCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	var id string
	if err := p.codec.Decode(ProfileCookieName, c.Value, &id); err != nil {
		slog.Debug("profile_cookie_rejected", "error", err.Error())
		return "", false
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// Write sets the cookie for id.
func (p *ProfileCookie) Write(w http.ResponseWriter, id string) error {
	value, err := p.codec.Encode(ProfileCookieName, id)
	if err != nil {
		return fmt.Errorf("encode profile cookie: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     ProfileCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   ProfileCookieMaxAge,
		HttpOnly: true,
		Secure:   p.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Middleware puts the browser's profile id in the request context, issuing a
// fresh one when the request carries none.
// POST: ProfileFromContext succeeds for every request reaching next
func (p *ProfileCookie) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := p.Read(r)
		if !ok {
			id = uuid.NewString()
			if err := p.Write(w, id); err != nil {
				slog.Error("profile_event", "event", "cookie_failed", "error", err.Error())
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			slog.Debug("profile_event", "event", "issued", "profile", id)
		}
		next.ServeHTTP(w, r.WithContext(ContextWithProfile(r.Context(), id)))
	})
}

// ProfileFromContext returns the browser profile id of the request.
func ProfileFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(profileContextKey).(string)
	return id, ok && id != ""
}

// ContextWithProfile returns a context carrying id.
func ContextWithProfile(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, profileContextKey, id)
}

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/securecookie"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const markerContextKey contextKey = "marker"

// CookieName is the cookie holding the session marker.
const CookieName = "steward_session"

// Marker errors
var (
	ErrNoMarker        = errors.New("no session marker")
	ErrMalformedMarker = errors.New("malformed session marker")
)

// Marker is the minimal record proving a user logged in.
// A marker with an empty ID is not a session.
type Marker struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Valid reports whether the marker identifies a user.
func (m Marker) Valid() bool {
	return m.ID != ""
}

// MarkerStore reads and writes the session marker of a request.
type MarkerStore interface {
	// Get returns ErrNoMarker when nothing is stored and an error wrapping
	// ErrMalformedMarker when the stored value cannot be decoded.
	Get(r *http.Request) (Marker, error)
	Set(w http.ResponseWriter, m Marker) error
	Clear(w http.ResponseWriter)
}

// CookieMarkerStore keeps the marker client-side in one signed and
// encrypted cookie. The cookie carries no expiry.
type CookieMarkerStore struct {
	codec  *securecookie.SecureCookie
	secure bool
}

// NewCookieMarkerStore builds a store from a hash key (32 or 64 bytes) and a
// block key (16, 24 or 32 bytes). secure marks the cookie HTTPS-only.
func NewCookieMarkerStore(hashKey, blockKey []byte, secure bool) *CookieMarkerStore {
	codec := securecookie.New(hashKey, blockKey)
	codec.SetSerializer(securecookie.JSONEncoder{})
	codec.MaxAge(0)
	return &CookieMarkerStore{codec: codec, secure: secure}
}

// Get decodes the marker cookie.
// POST: a returned marker is always Valid
func (s *CookieMarkerStore) Get(r *http.Request) (Marker, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return Marker{}, ErrNoMarker
	}
	var m Marker
	if err := s.codec.Decode(CookieName, cookie.Value, &m); err != nil {
		return Marker{}, fmt.Errorf("%w: %w", ErrMalformedMarker, err)
	}
	if !m.Valid() {
		return Marker{}, fmt.Errorf("%w: missing id", ErrMalformedMarker)
	}
	return m, nil
}

// Set writes the marker cookie.
// PRE: m.Valid()
func (s *CookieMarkerStore) Set(w http.ResponseWriter, m Marker) error {
	if !m.Valid() {
		return fmt.Errorf("%w: missing id", ErrMalformedMarker)
	}
	value, err := s.codec.Encode(CookieName, m)
	if err != nil {
		return fmt.Errorf("encode session marker: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})
	return nil
}

// Clear removes the marker cookie.
func (s *CookieMarkerStore) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

// SessionGate admits requests carrying a valid marker and puts it in the
// request context. Anything else is sent to /login, or gets 401 when the
// client did not ask for HTML. A malformed marker is cleared first.
func SessionGate(store MarkerStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m, err := store.Get(r)
			if err == nil {
				next.ServeHTTP(w, r.WithContext(ContextWithMarker(r.Context(), m)))
				return
			}
			if errors.Is(err, ErrMalformedMarker) {
				slog.Warn("auth_event", "event", "malformed_marker", "path", r.URL.Path, "error", err)
				store.Clear(w)
			}
			denyAccess(w, r)
		})
	}
}

// RequireRole blocks sessions without one of the given roles.
// It must run inside SessionGate.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m, ok := MarkerFromContext(r.Context())
			if !ok {
				denyAccess(w, r)
				return
			}
			if !roleSet[m.Role] {
				slog.Warn("auth_event", "event", "forbidden", "path", r.URL.Path, "role", m.Role)
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// MarkerFromContext extracts the session marker from the request context.
func MarkerFromContext(ctx context.Context) (Marker, bool) {
	m, ok := ctx.Value(markerContextKey).(Marker)
	return m, ok && m.Valid()
}

// ContextWithMarker returns a context carrying m.
func ContextWithMarker(ctx context.Context, m Marker) context.Context {
	return context.WithValue(ctx, markerContextKey, m)
}

// HasRole checks if the current session has one of the given roles.
func HasRole(ctx context.Context, roles ...string) bool {
	m, ok := MarkerFromContext(ctx)
	if !ok {
		return false
	}
	for _, r := range roles {
		if m.Role == r {
			return true
		}
	}
	return false
}

// WantsHTML reports whether the client asked for an HTML page.
func WantsHTML(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return false
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}

func denyAccess(w http.ResponseWriter, r *http.Request) {
	if WantsHTML(r) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "authentication required"})
}

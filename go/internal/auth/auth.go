// Package auth checks optional HS256 bearer tokens on the draft APIs.
//
// A nil *Verifier means auth is disabled: its middleware passes every request
// through and no identity is attached.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// RoleCommissioner may run the draft lifecycle and pick for any team.
const RoleCommissioner = "commissioner"

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
	ErrForbidden    = errors.New("forbidden")
)

// Claims is the token body.
type Claims struct {
	TeamID string `json:"team_id,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Identity is the caller attached to a request context.
type Identity struct {
	Subject string
	TeamID  uuid.UUID
	Role    string
	// Token is the raw bearer token, forwarded on calls to other services.
	Token string
}

func (i *Identity) IsCommissioner() bool {
	return i != nil && i.Role == RoleCommissioner
}

type Verifier struct {
	secret []byte
}

// NewVerifier returns nil for an empty secret, which disables auth.
func NewVerifier(secret string) *Verifier {
	if secret == "" {
		return nil
	}
	return &Verifier{secret: []byte(secret)}
}

// Enabled reports whether tokens are checked.
func (v *Verifier) Enabled() bool {
	return v != nil
}

// Issue signs a token for a team. Used by tooling and tests.
func (v *Verifier) Issue(subject string, teamID uuid.UUID, role string, ttl time.Duration) (string, error) {
	if v == nil {
		return "", errors.New("auth disabled")
	}
	now := time.Now().UTC()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if teamID != uuid.Nil {
		claims.TeamID = teamID.String()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// Parse validates a raw token and returns its identity.
func (v *Verifier) Parse(raw string) (*Identity, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	ident := &Identity{Subject: claims.Subject, Role: claims.Role, Token: raw}
	if claims.TeamID != "" {
		teamID, err := uuid.Parse(claims.TeamID)
		if err != nil {
			return nil, fmt.Errorf("%w: bad team_id claim", ErrInvalidToken)
		}
		ident.TeamID = teamID
	}
	return ident, nil
}

type contextKey struct{}

// WithIdentity returns a context carrying ident.
func WithIdentity(ctx context.Context, ident *Identity) context.Context {
	if ident == nil {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, ident)
}

// FromContext returns the caller, if one was authenticated.
func FromContext(ctx context.Context) (*Identity, bool) {
	ident, ok := ctx.Value(contextKey{}).(*Identity)
	return ident, ok
}

// bearer reads the Authorization header, falling back to the access_token
// query parameter since browsers cannot set headers on a WebSocket upgrade.
func bearer(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.URL.Query().Get("access_token")
}

// Authenticate rejects requests without a valid token and attaches the
// identity to the request context.
func (v *Verifier) Authenticate(next http.Handler) http.Handler {
	if v == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearer(r)
		if raw == "" {
			writeError(w, http.StatusUnauthorized, ErrMissingToken)
			return
		}
		ident, err := v.Parse(raw)
		if err != nil {
			writeError(w, http.StatusUnauthorized, ErrInvalidToken)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), ident)))
	})
}

// RequireCommissioner allows only commissioner tokens through. It must run
// after Authenticate.
func (v *Verifier) RequireCommissioner(next http.Handler) http.Handler {
	if v == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, _ := FromContext(r.Context())
		if !ident.IsCommissioner() {
			writeError(w, http.StatusForbidden, ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CheckTeam reports whether the caller in ctx may pick for teamID. Contexts
// without an identity are allowed, since auth is then disabled.
func CheckTeam(ctx context.Context, teamID uuid.UUID) error {
	ident, ok := FromContext(ctx)
	if !ok || ident.IsCommissioner() {
		return nil
	}
	if ident.TeamID != teamID {
		return fmt.Errorf("%w: token is not for team %s", ErrForbidden, teamID)
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

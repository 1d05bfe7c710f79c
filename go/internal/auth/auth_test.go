package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVerifierDisabled(t *testing.T) {
	v := NewVerifier("")
	assert.Nil(t, v)
	assert.False(t, v.Enabled())

	called := false
	h := v.RequireCommissioner(v.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		_, ok := FromContext(r.Context())
		assert.False(t, ok)
	})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil))
	assert.True(t, called)
}

func TestIssueAndParse(t *testing.T) {
	v := NewVerifier("s3cret")
	team := uuid.New()

	raw, err := v.Issue("user-1", team, "manager", time.Minute)
	require.NoError(t, err)

	ident, err := v.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", ident.Subject)
	assert.Equal(t, team, ident.TeamID)
	assert.Equal(t, "manager", ident.Role)
	assert.Equal(t, raw, ident.Token)
	assert.False(t, ident.IsCommissioner())
}

func TestParseRejects(t *testing.T) {
	v := NewVerifier("s3cret")

	expired, err := v.Issue("u", uuid.New(), "", -time.Minute)
	require.NoError(t, err)
	_, err = v.Parse(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other, err := NewVerifier("other").Issue("u", uuid.New(), "", time.Minute)
	require.NoError(t, err)
	_, err = v.Parse(other)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Role: RoleCommissioner}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = v.Parse(none)
	assert.ErrorIs(t, err, ErrInvalidToken)

	badTeam, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{TeamID: "nope"}).SignedString([]byte("s3cret"))
	require.NoError(t, err)
	_, err = v.Parse(badTeam)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticate(t *testing.T) {
	v := NewVerifier("s3cret")
	team := uuid.New()
	raw, err := v.Issue("u", team, "", time.Minute)
	require.NoError(t, err)

	var got *Identity
	h := v.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = FromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing bearer token")

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, team, got.TeamID)

	got = nil
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws/draft?access_token="+raw, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
}

func TestRequireCommissioner(t *testing.T) {
	v := NewVerifier("s3cret")
	manager, err := v.Issue("m", uuid.New(), "manager", time.Minute)
	require.NoError(t, err)
	commish, err := v.Issue("c", uuid.Nil, RoleCommissioner, time.Minute)
	require.NoError(t, err)

	h := v.Authenticate(v.RequireCommissioner(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	for token, want := range map[string]int{manager: http.StatusForbidden, commish: http.StatusNoContent} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		h.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code)
	}
}

func TestCheckTeam(t *testing.T) {
	team, other := uuid.New(), uuid.New()

	assert.NoError(t, CheckTeam(context.Background(), team))

	ctx := WithIdentity(context.Background(), &Identity{TeamID: team})
	assert.NoError(t, CheckTeam(ctx, team))
	assert.ErrorIs(t, CheckTeam(ctx, other), ErrForbidden)

	ctx = WithIdentity(context.Background(), &Identity{Role: RoleCommissioner})
	assert.NoError(t, CheckTeam(ctx, other))
}

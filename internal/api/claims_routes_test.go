package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clubhouse-backend/internal/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *testServer) bearer(subject, email, givenName string) *credential {
	s.t.Helper()
	token, err := auth.SignClaims("test-shared-secret", &auth.Claims{
		Email:     email,
		GivenName: givenName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	require.NoError(s.t, err)
	return &credential{bearer: token}
}

func TestClaimsModeProvisionsMembers(t *testing.T) {
	s := newTestServer(t, auth.ModeClaims)
	cred := s.bearer("idp|42", "Coach@Example.com", "Pat")

	rec := s.doJSON(http.MethodGet, "/api/auth/user", nil, cred)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	user := decode[map[string]any](t, rec)
	assert.Equal(t, "idp|42", user["id"])
	assert.Equal(t, "coach@example.com", user["email"])
	assert.Equal(t, "Pat", user["firstName"])

	// A later assertion refreshes the stored profile.
	rec = s.doJSON(http.MethodGet, "/api/auth/user", nil, s.bearer("idp|42", "coach@example.com", "Patricia"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Patricia", decode[map[string]any](t, rec)["firstName"])

	created := s.createEvent(cred, "Coaching clinic", "2026-04-11")
	assert.Equal(t, "idp|42", created["createdBy"])
}

func TestClaimsModeRejectsBadTokens(t *testing.T) {
	s := newTestServer(t, auth.ModeClaims)

	expired, err := auth.SignClaims("test-shared-secret", &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "idp|1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	require.NoError(t, err)

	wrongKey, err := auth.SignClaims("some-other-secret", &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "idp|1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	require.NoError(t, err)

	for name, cred := range map[string]*credential{
		"anonymous": nil,
		"expired":   {bearer: expired},
		"wrong key": {bearer: wrongKey},
		"garbage":   {bearer: "not.a.token"},
	} {
		rec := s.doJSON(http.MethodGet, "/api/events", nil, cred)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
	}
}

func TestClaimsModeHasNoLocalLogin(t *testing.T) {
	s := newTestServer(t, auth.ModeClaims)

	for _, path := range []string{"/api/auth/login", "/api/auth/register", "/api/auth/logout"} {
		rec := s.doJSON(http.MethodPost, path, map[string]string{
			"email":    "someone@example.com",
			"password": "correct horse battery",
		}, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestPublicEndpoints(t *testing.T) {
	s := newTestServer(t, auth.ModeSession)

	rec := s.do(http.MethodGet, "/health", nil, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, body["time"])

	rec = s.do(http.MethodGet, "/metrics", nil, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "clubhouse_http_requests_total")
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, auth.ModeSession)

	req := httptest.NewRequest(http.MethodOptions, "/api/events", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clubhouse-backend/internal/api/handlers"
	"clubhouse-backend/internal/auth"
	"clubhouse-backend/internal/config"
	"clubhouse-backend/internal/database"
	"clubhouse-backend/internal/storage"
	"clubhouse-backend/internal/testdb"
	"clubhouse-backend/internal/uploads"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	db     *gorm.DB
	store  *storage.Store
	files  *uploads.LocalStorage
}

func testConfig(mode string) *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Port: 8080, Env: "test"},
		Database: config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: ":memory:"},
		Auth: config.AuthConfig{
			Mode:          mode,
			SessionCookie: "club_sid",
			SessionTTL:    time.Hour,
			ClaimsSecret:  "test-shared-secret",
		},
		Uploads: config.UploadsConfig{MaxBytes: 64 << 10},
		CORS:    config.CORSConfig{AllowOrigins: []string{"http://localhost:5173"}},
	}
}

func newTestServer(t *testing.T, mode string) *testServer {
	t.Helper()

	cfg := testConfig(mode)
	db := testdb.Open(t)
	store := storage.New(db)
	files, err := uploads.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	var provider auth.Provider
	var sessions *auth.SessionProvider
	switch mode {
	case auth.ModeSession:
		sessions = auth.NewSessionProvider(store.Sessions, auth.CookieConfig{
			Name: cfg.Auth.SessionCookie,
			TTL:  cfg.Auth.SessionTTL,
		})
		provider = sessions
	case auth.ModeClaims:
		provider = auth.NewClaimsProvider(store.Users, auth.ClaimsConfig{Secret: cfg.Auth.ClaimsSecret})
	}

	h := handlers.New(handlers.Deps{
		Store:          store,
		Files:          files,
		Sessions:       sessions,
		MaxUploadBytes: cfg.Uploads.MaxBytes,
		Logger:         zap.NewNop(),
		Ping: func(ctx context.Context) error {
			return database.Ping(ctx, db)
		},
	})

	return &testServer{
		t:      t,
		router: NewRouter(cfg, zap.NewNop(), h, provider),
		db:     db,
		store:  store,
		files:  files,
	}
}

// credential is either a session cookie or a bearer token.
type credential struct {
	cookie *http.Cookie
	bearer string
}

func (s *testServer) do(method, path string, body io.Reader, contentType string, cred *credential) *httptest.ResponseRecorder {
	s.t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if cred != nil {
		if cred.cookie != nil {
			req.AddCookie(cred.cookie)
		}
		if cred.bearer != "" {
			req.Header.Set("Authorization", "Bearer "+cred.bearer)
		}
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) doJSON(method, path string, payload any, cred *credential) *httptest.ResponseRecorder {
	s.t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(s.t, err)
		body = bytes.NewReader(raw)
	}
	return s.do(method, path, body, "application/json", cred)
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "club_sid" && c.Value != "" {
			return c
		}
	}
	t.Fatalf("no session cookie in response (status %d)", rec.Code)
	return nil
}

// register signs a member up and returns the session credential.
func (s *testServer) register(email string) (*credential, map[string]any) {
	s.t.Helper()
	rec := s.doJSON(http.MethodPost, "/api/auth/register", map[string]string{
		"email":     email,
		"password":  "correct horse battery",
		"firstName": "Test",
	}, nil)
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	return &credential{cookie: sessionCookie(s.t, rec)}, decode[map[string]any](s.t, rec)
}

func (s *testServer) createEvent(cred *credential, title, date string) map[string]any {
	s.t.Helper()
	rec := s.doJSON(http.MethodPost, "/api/events", map[string]string{
		"title":       title,
		"description": "Bring boots",
		"location":    "Main pitch",
		"date":        date,
		"startTime":   "18:00",
		"endTime":     "20:00",
	}, cred)
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[map[string]any](s.t, rec)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

// multipartUpload builds a form with an optional "photo" file and a title.
func multipartUpload(t *testing.T, filename string, content []byte, title string) (io.Reader, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if filename != "" {
		part, err := w.CreateFormFile("photo", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	if title != "" {
		require.NoError(t, w.WriteField("title", title))
	}
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func (s *testServer) upload(cred *credential, filename string, content []byte, title string) *httptest.ResponseRecorder {
	s.t.Helper()
	body, contentType := multipartUpload(s.t, filename, content, title)
	return s.do(http.MethodPost, "/api/photos", body, contentType, cred)
}

func idOf(t *testing.T, obj map[string]any) int {
	t.Helper()
	id, ok := obj["id"].(float64)
	require.True(t, ok, "object has no numeric id: %v", obj)
	return int(id)
}

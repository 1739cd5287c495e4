package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apphttp "tutorhub/internal/http"
	"tutorhub/internal/repository/sqlite"
	"tutorhub/internal/service"
	"tutorhub/internal/storage"
)

type testServer struct {
	*httptest.Server
	store     *sqlite.Store
	uploadDir string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	dir := t.TempDir()
	store, err := sqlite.NewStore(filepath.Join(dir, "test.db"), logger)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })

	local, err := storage.NewLocalStore(filepath.Join(dir, "uploads"), "/uploads")
	require.NoError(t, err)

	sessions := service.NewSessionManager("test-secret", time.Hour)
	subjects := service.NewSubjectService(store.Subjects(), logger)
	_, err = subjects.Seed(context.Background(), []string{"Math", "Mathematics", "Biology"})
	require.NoError(t, err)

	handler := apphttp.NewHandler(apphttp.Deps{
		Auth: service.NewAuthService(store.Users(), sessions, service.AuthOptions{
			EmailDomain: "@sfsu.edu",
			BcryptCost:  bcrypt.MinCost,
		}, logger),
		Sessions:       sessions,
		Subjects:       subjects,
		Posts:          service.NewTutorPostService(store.TutorPosts(), logger),
		Messages:       service.NewMessageService(store.Messages()),
		Drafts:         service.NewDraftService(store.Drafts(), 30*time.Minute),
		Storage:        local,
		Logger:         logger,
		MaxUploadBytes: 1024,
		LocalUploads:   local,
	})

	srv := httptest.NewServer(apphttp.NewRouter(handler, logger, []string{"http://localhost:3000"}))
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, store: store, uploadDir: local.Dir()}
}

// client returns an HTTP client with its own cookie jar.
func (s *testServer) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func (s *testServer) cookie(t *testing.T, c *http.Client, name string) *http.Cookie {
	t.Helper()
	u, err := url.Parse(s.URL)
	require.NoError(t, err)
	for _, ck := range c.Jar.Cookies(u) {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func doJSON(t *testing.T, c *http.Client, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

func (s *testServer) registerClient(t *testing.T, email string) (*http.Client, int64) {
	t.Helper()
	c := s.client(t)
	resp, body := doJSON(t, c, http.MethodPost, s.URL+"/api/auth/register", map[string]any{
		"email":           email,
		"password":        "password123",
		"confirmPassword": "password123",
		"acceptTerms":     true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	user := body["user"].(map[string]any)
	return c, int64(user["id"].(float64))
}

func (s *testServer) subjectID(t *testing.T, name string) int64 {
	t.Helper()
	subjects, err := s.store.Subjects().List(context.Background())
	require.NoError(t, err)
	for _, sub := range subjects {
		if sub.Name == name {
			return sub.ID
		}
	}
	t.Fatalf("unknown subject %q", name)
	return 0
}

func (s *testServer) createPost(t *testing.T, c *http.Client, subjectID any, rate float64) int64 {
	t.Helper()
	resp, body := doJSON(t, c, http.MethodPost, s.URL+"/api/tutors/create", map[string]any{
		"bio":          strings.Repeat("Patient tutor. ", 5),
		"hourlyRate":   rate,
		"contactInfo":  "me@sfsu.edu",
		"subjectId":    subjectID,
		"availability": map[string]bool{"monday": true, "tuesday": false},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	post := body["post"].(map[string]any)
	return int64(post["id"].(float64))
}

func getArray(t *testing.T, c *http.Client, url string) []any {
	t.Helper()
	resp, err := c.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out []any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

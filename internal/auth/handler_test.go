package auth

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rentfolio/rentfolio/internal/shared"
	"github.com/rentfolio/rentfolio/internal/users"
)

type stubRepo struct {
	user      *users.User
	lastLogin time.Time
}

func (s *stubRepo) FindByUsernameOrEmail(_ context.Context, identifier string) (*users.User, error) {
	if s.user != nil && (s.user.Username == identifier || s.user.Email == identifier) {
		u := *s.user
		return &u, nil
	}
	return nil, ErrNotFound
}

func (s *stubRepo) FindByID(_ context.Context, id int64) (*users.User, error) {
	if s.user != nil && s.user.ID == id {
		u := *s.user
		return &u, nil
	}
	return nil, ErrNotFound
}

func (s *stubRepo) TouchLastLogin(_ context.Context, _ int64, at time.Time) error {
	s.lastLogin = at
	return nil
}

type commitWriter struct {
	http.ResponseWriter
	commit func()
	done   bool
}

func (w *commitWriter) WriteHeader(code int) {
	if !w.done {
		w.done = true
		w.commit()
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *commitWriter) Write(data []byte) (int, error) {
	if !w.done {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(data)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRouter(t *testing.T, repo Repository) *chi.Mux {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	sessions := shared.NewSessionManager(client, "rf_session", "test-secret", time.Hour, false)
	csrf := shared.NewCSRFManager("test-csrf-secret")
	handler := NewHandler(testLogger(), NewService(repo), sessions, csrf)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sess, err := sessions.Load(req.Context(), req)
			require.NoError(t, err)
			ctx := shared.ContextWithSession(req.Context(), sess)
			// Commit before the first body write so the recorder sees the
			// session cookie, the same ordering the server middleware uses.
			next.ServeHTTP(&commitWriter{
				ResponseWriter: w,
				commit:         func() { require.NoError(t, sessions.Commit(ctx, w, req, sess)) },
			}, req.WithContext(ctx))
		})
	})
	r.Route("/auth", handler.MountRoutes)
	return r
}

func activeUser(t *testing.T) *users.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pw"), bcrypt.MinCost)
	require.NoError(t, err)
	return &users.User{
		ID:           7,
		Username:     "lena",
		Email:        "lena@example.com",
		PasswordHash: string(hash),
		Role:         shared.RoleManager,
		IsActive:     true,
	}
}

func TestLoginSuccessSetsSessionCookie(t *testing.T) {
	repo := &stubRepo{user: activeUser(t)}
	router := testRouter(t, repo)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"identifier":"lena","password":"s3cret-pw"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"csrf_token"`)
	require.NotContains(t, rec.Body.String(), "password_hash")
	require.False(t, repo.lastLogin.IsZero())

	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "rf_session" && c.Value != "" {
			found = true
		}
	}
	require.True(t, found, "expected session cookie to be set")
}

func TestLoginWrongPassword(t *testing.T) {
	router := testRouter(t, &stubRepo{user: activeUser(t)})

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"identifier":"lena","password":"nope"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginUnknownAccountSameStatus(t *testing.T) {
	router := testRouter(t, &stubRepo{})

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"identifier":"ghost","password":"whatever"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginInactiveAccount(t *testing.T) {
	u := activeUser(t)
	u.IsActive = false
	router := testRouter(t, &stubRepo{user: u})

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"identifier":"lena","password":"s3cret-pw"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMeRequiresSession(t *testing.T) {
	router := testRouter(t, &stubRepo{user: activeUser(t)})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeAfterLogin(t *testing.T) {
	router := testRouter(t, &stubRepo{user: activeUser(t)})

	login := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"identifier":"lena@example.com","password":"s3cret-pw"}`))
	loginRec := httptest.NewRecorder()
	router.ServeHTTP(loginRec, login)
	require.Equal(t, http.StatusOK, loginRec.Code)

	me := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	for _, c := range loginRec.Result().Cookies() {
		me.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, me)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"username":"lena"`)
}

func TestLogoutClearsSession(t *testing.T) {
	router := testRouter(t, &stubRepo{user: activeUser(t)})

	login := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"identifier":"lena","password":"s3cret-pw"}`))
	loginRec := httptest.NewRecorder()
	router.ServeHTTP(loginRec, login)
	require.Equal(t, http.StatusOK, loginRec.Code)

	logout := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	for _, c := range loginRec.Result().Cookies() {
		logout.AddCookie(c)
	}
	logoutRec := httptest.NewRecorder()
	router.ServeHTTP(logoutRec, logout)
	require.Equal(t, http.StatusNoContent, logoutRec.Code)

	me := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	for _, c := range loginRec.Result().Cookies() {
		me.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, me)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

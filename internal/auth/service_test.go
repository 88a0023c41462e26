// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ewastex/marketplace-api/internal/access"
	"github.com/ewastex/marketplace-api/internal/config"
	"github.com/ewastex/marketplace-api/internal/core"
	"github.com/ewastex/marketplace-api/internal/middleware"
)

type fakeUsers struct {
	mu    sync.Mutex
	byID  map[string]*UserInfo
	next  int
	calls int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[string]*UserInfo{}}
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := f.GetByEmail(ctx, email)
	return err == nil, nil
}

func (f *fakeUsers) Create(
	_ context.Context,
	name, email, passwordHash string,
	role access.Role,
) (*UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	f.calls++
	u := &UserInfo{
		ID:           "user-" + string(rune('0'+f.next)),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         string(role),
		CreatedAt:    time.Now(),
	}
	f.byID[u.ID] = u
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, userID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[userID]; ok {
		u.PasswordHash = hash
	}
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeUsers) {
	t.Helper()
	users := newFakeUsers()
	return NewService(newTestJWTManager(t), users, nil), users
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterRequest{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "correct horse",
		Role:     "seller",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.User.Role != "seller" || reg.token == "" {
		t.Fatalf("unexpected register response: %+v", reg)
	}

	login, err := svc.Login(ctx, LoginRequest{
		Email:    "ada@example.com",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	id, err := svc.VerifySession(ctx, login.token)
	if err != nil {
		t.Fatalf("VerifySession: %v", err)
	}
	if id.UserID != reg.User.ID || id.Role != access.RoleSeller {
		t.Errorf("identity = %+v", id)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, users := newTestService(t)
	ctx := context.Background()
	req := RegisterRequest{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "correct horse",
		Role:     "buyer",
	}

	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, err := svc.Register(ctx, req)
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("err = %v, want ErrEmailExists", err)
	}
	if users.calls != 1 {
		t.Errorf("Create called %d times, want 1", users.calls)
	}
}

func TestLoginFailures(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "correct horse", Role: "buyer",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	tests := []struct {
		name  string
		email string
		pass  string
	}{
		{"unknown email", "nobody@example.com", "correct horse"},
		{"wrong password", "ada@example.com", "wrong horse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, LoginRequest{Email: tt.email, Password: tt.pass})
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("err = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestLogoutWithoutRedisIsNoop(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Logout(context.Background(), &access.Identity{
		UserID:    "user-1",
		TokenID:   "jti",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("Logout: %v", err)
	}
}

func TestRegisterHandlerSetsSessionCookie(t *testing.T) {
	svc, _ := newTestService(t)
	cookie := config.CookieConfig{Name: "token"}
	h := NewHandler(svc, cookie, time.Hour)

	r := chi.NewRouter()
	h.RegisterRoutes(r, func(next http.Handler) http.Handler { return next })

	body := `{"name":"Ada","email":"ADA@example.com","password":"correct horse","role":"seller"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}
	c := cookies[0]
	if c.Name != "token" || !c.HttpOnly || c.SameSite != http.SameSiteStrictMode {
		t.Errorf("cookie = %+v", c)
	}
	if c.MaxAge != 3600 {
		t.Errorf("MaxAge = %d, want 3600", c.MaxAge)
	}

	dup := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, dup)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "user already exists") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestRegisterHandlerRejectsAdminRole(t *testing.T) {
	svc, _ := newTestService(t)
	h := NewHandler(svc, config.CookieConfig{Name: "token"}, time.Hour)

	r := chi.NewRouter()
	h.RegisterRoutes(r, func(next http.Handler) http.Handler { return next })

	body := `{"name":"Eve","email":"eve@example.com","password":"correct horse","role":"admin"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestMeAndLogoutWithSessionCookie(t *testing.T) {
	svc, users := newTestService(t)
	h := NewHandler(svc, config.CookieConfig{Name: "token"}, time.Hour)

	reg, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Bea",
		Email:    "bea@example.com",
		Password: "correct horse",
		Role:     "buyer",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	r := chi.NewRouter()
	h.RegisterRoutes(r, middleware.Authenticator(svc, "token"))

	call := func(method, path string, withCookie bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		if withCookie {
			req.AddCookie(&http.Cookie{Name: "token", Value: reg.token})
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	if rec := call(http.MethodGet, "/auth/me", false); rec.Code != http.StatusUnauthorized {
		t.Errorf("me without cookie = %d, want 401", rec.Code)
	}

	rec := call(http.MethodGet, "/auth/me", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("me = %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "bea@example.com") {
		t.Errorf("me body = %s", rec.Body.String())
	}

	rec = call(http.MethodPost, "/auth/logout", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout = %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Errorf("logout cookies = %+v", cookies)
	}

	users.mu.Lock()
	delete(users.byID, reg.User.ID)
	users.mu.Unlock()

	if rec := call(http.MethodGet, "/auth/me", true); rec.Code != http.StatusNotFound {
		t.Errorf("me for deleted user = %d, want 404", rec.Code)
	}
}

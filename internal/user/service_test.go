// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ewastex/marketplace-api/internal/access"
	"github.com/ewastex/marketplace-api/internal/core"
)

type memRepo struct {
	mu    sync.Mutex
	users map[string]*User
}

func newMemRepo(users ...*User) *memRepo {
	m := &memRepo{users: map[string]*User{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *memRepo) Create(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email && existing.DeletedAt == nil {
			return core.ErrDuplicateKey
		}
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok || u.DeletedAt != nil {
		return nil, core.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email && u.DeletedAt == nil {
			cp := *u
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memRepo) Update(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return core.ErrNotFound
	}
	u.UpdatedAt = time.Now()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memRepo) UpdatePassword(_ context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return core.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (m *memRepo) SoftDelete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok || u.DeletedAt != nil {
		return core.ErrNotFound
	}
	now := time.Now()
	u.DeletedAt = &now
	return nil
}

func (m *memRepo) List(_ context.Context, p ListUsersParams) ([]User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.Normalize()
	var out []User
	for _, u := range m.users {
		if u.DeletedAt != nil {
			continue
		}
		if p.Role != "" && u.Role != p.Role {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, len(out), nil
}

func (m *memRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	return err == nil, nil
}

func seedUsers() *memRepo {
	return newMemRepo(
		&User{
			ID: "seller-1", Name: "Sam", Email: "sam@example.com", Role: "seller",
			Phone: "555-0100", Website: "https://sam.example.com", Bio: "recycler",
		},
		&User{ID: "buyer-1", Name: "Bo", Email: "bo@example.com", Role: "buyer"},
		&User{ID: "admin-1", Name: "Ada", Email: "ada@example.com", Role: "admin"},
	)
}

func TestGetProfileMasksContactForOthers(t *testing.T) {
	svc := NewService(seedUsers())
	ctx := context.Background()

	viewers := []*access.Identity{
		{UserID: "buyer-1", Role: access.RoleBuyer},
		{UserID: "admin-1", Role: access.RoleAdmin},
	}

	for _, viewer := range viewers {
		p, err := svc.GetProfile(ctx, viewer, "seller-1")
		if err != nil {
			t.Fatalf("GetProfile as %s: %v", viewer.Role, err)
		}
		if p.Email != ContactPlaceholder || p.Phone != ContactPlaceholder ||
			p.Website != ContactPlaceholder {
			t.Errorf("viewer %s saw contact fields: %+v", viewer.Role, p)
		}
		if p.Name != "Sam" || p.Bio != "recycler" || p.Role != "seller" {
			t.Errorf("public fields missing: %+v", p)
		}
	}
}

func TestGetProfileOwnIsUnfiltered(t *testing.T) {
	svc := NewService(seedUsers())
	caller := &access.Identity{UserID: "seller-1", Role: access.RoleSeller}

	for _, target := range []string{"", "seller-1"} {
		p, err := svc.GetProfile(context.Background(), caller, target)
		if err != nil {
			t.Fatalf("GetProfile(%q): %v", target, err)
		}
		if p.Email != "sam@example.com" || p.Phone != "555-0100" {
			t.Errorf("own profile masked: %+v", p)
		}
	}
}

func TestGetProfileMissingUser(t *testing.T) {
	svc := NewService(seedUsers())
	caller := &access.Identity{UserID: "buyer-1", Role: access.RoleBuyer}

	_, err := svc.GetProfile(context.Background(), caller, "ghost")
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateProfileKeepsRoleAndEmail(t *testing.T) {
	repo := seedUsers()
	svc := NewService(repo)
	caller := &access.Identity{UserID: "buyer-1", Role: access.RoleBuyer}
	company := "Acme Recycling"

	p, err := svc.UpdateProfile(context.Background(), caller, UpdateProfileRequest{
		Company: &company,
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if p.Company != company || p.Role != "buyer" || p.Email != "bo@example.com" {
		t.Errorf("profile = %+v", p)
	}
}

func TestCreateRejectsAdminRole(t *testing.T) {
	svc := NewService(newMemRepo())

	_, err := svc.Create(context.Background(), "Eve", "eve@example.com", "hash", access.RoleAdmin)
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestDeleteUserRules(t *testing.T) {
	admin := &access.Identity{UserID: "admin-1", Role: access.RoleAdmin}

	tests := []struct {
		name    string
		caller  *access.Identity
		target  string
		wantErr error
	}{
		{"admin deletes buyer", admin, "buyer-1", nil},
		{"self delete", admin, "admin-1", core.ErrInvalidInput},
		{"non admin", &access.Identity{UserID: "seller-1", Role: access.RoleSeller}, "buyer-1", core.ErrForbidden},
		{"missing", admin, "ghost", core.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(seedUsers())
			err := svc.DeleteUser(context.Background(), tt.caller, tt.target)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("DeleteUser: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDeleteUserCannotRemoveOtherAdmin(t *testing.T) {
	repo := seedUsers()
	repo.users["admin-2"] = &User{ID: "admin-2", Name: "Al", Email: "al@example.com", Role: "admin"}
	svc := NewService(repo)

	err := svc.DeleteUser(context.Background(),
		&access.Identity{UserID: "admin-1", Role: access.RoleAdmin}, "admin-2")
	if !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestUpdateUserRoleRequiresAdmin(t *testing.T) {
	svc := NewService(seedUsers())
	ctx := context.Background()

	_, err := svc.UpdateUserRole(ctx,
		&access.Identity{UserID: "seller-1", Role: access.RoleSeller},
		"buyer-1", access.RoleAdmin)
	if !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}

	u, err := svc.UpdateUserRole(ctx,
		&access.Identity{UserID: "admin-1", Role: access.RoleAdmin},
		"buyer-1", access.RoleSeller)
	if err != nil {
		t.Fatalf("UpdateUserRole: %v", err)
	}
	if u.Role != "seller" {
		t.Errorf("role = %q, want seller", u.Role)
	}
}

func withIdentity(id *access.Identity) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(access.WithIdentity(r.Context(), id)))
		})
	}
}

func TestProfileHandlerMasksOtherUser(t *testing.T) {
	h := NewHandler(NewService(seedUsers()))
	r := chi.NewRouter()
	h.RegisterRoutes(r, withIdentity(&access.Identity{UserID: "buyer-1", Role: access.RoleBuyer}))

	req := httptest.NewRequest(http.MethodGet, "/profile?userId=seller-1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data ProfileResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Phone != ContactPlaceholder {
		t.Errorf("phone = %q", body.Data.Phone)
	}
	if strings.Contains(rec.Body.String(), "555-0100") {
		t.Error("response leaked phone number")
	}
}

func TestAdminUserListShowsContactFields(t *testing.T) {
	h := NewHandler(NewService(seedUsers()))
	r := chi.NewRouter()
	pass := func(next http.Handler) http.Handler { return next }
	h.RegisterAdminRoutes(r, withIdentity(&access.Identity{UserID: "admin-1", Role: access.RoleAdmin}), pass)

	req := httptest.NewRequest(http.MethodGet, "/admin/users?role=seller", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data []UserResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) != 1 {
		t.Fatalf("got %d users, want 1", len(body.Data))
	}
	got := body.Data[0]
	if got.Phone != "555-0100" || got.Website != "https://sam.example.com" || got.Bio != "recycler" {
		t.Errorf("admin view = %+v, want real contact fields", got)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("admin view exposes password field")
	}
}

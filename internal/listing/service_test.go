// AngelaMos | 2026
// service_test.go

package listing

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

const (
	sellerID = "11111111-1111-1111-1111-111111111111"
	otherID  = "22222222-2222-2222-2222-222222222222"
	buyerID  = "33333333-3333-3333-3333-333333333333"
	adminID  = "44444444-4444-4444-4444-444444444444"
)

var (
	seller      = &access.Identity{UserID: sellerID, Role: access.RoleSeller}
	otherSeller = &access.Identity{UserID: otherID, Role: access.RoleSeller}
	buyer       = &access.Identity{UserID: buyerID, Role: access.RoleBuyer}
	admin       = &access.Identity{UserID: adminID, Role: access.RoleAdmin}
)

type memRepo struct {
	mu       sync.Mutex
	listings map[string]*Listing
	seq      int
}

func newMemRepo() *memRepo {
	return &memRepo{listings: map[string]*Listing{}}
}

func (m *memRepo) Create(_ context.Context, l *Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	l.CreatedAt = time.Unix(int64(m.seq), 0)
	l.UpdatedAt = l.CreatedAt
	cp := *l
	cp.SellerName = "Seller " + l.SellerID[:4]
	m.listings[l.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (m *memRepo) List(_ context.Context, p ListParams) ([]Listing, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.Normalize()
	var out []Listing
	for _, l := range m.listings {
		if p.Status != "all" && string(l.Status) != p.Status {
			continue
		}
		if p.Category != "" && string(l.Category) != p.Category {
			continue
		}
		if p.HazardLevel != "" && string(l.HazardLevel) != p.HazardLevel {
			continue
		}
		if p.SellerID != "" && l.SellerID != p.SellerID {
			continue
		}
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, len(out), nil
}

func (m *memRepo) Update(_ context.Context, l *Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.listings[l.ID]; !ok {
		return core.ErrNotFound
	}
	cp := *l
	m.listings[l.ID] = &cp
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.listings[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.listings, id)
	return nil
}

func (m *memRepo) setStatus(id string, s Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listings[id].Status = s
}

func strPtr(s string) *string { return &s }

func createListing(t *testing.T, svc *Service, category string) *ListingResponse {
	t.Helper()
	lat, lng := 12.97, 77.59
	resp, err := svc.Create(context.Background(), seller, CreateListingRequest{
		Title:       "Old laptops",
		Description: "Ten units, working",
		Category:    category,
		Condition:   "used",
		Location:    "Bengaluru",
		PreciseLocation: &PreciseLocation{
			Lat:     &lat,
			Lng:     &lng,
			Address: strPtr("12 MG Road"),
			City:    strPtr("Bengaluru"),
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return resp
}

func TestCreateDerivesHazardAndForcesPending(t *testing.T) {
	svc := NewService(newMemRepo())

	resp := createListing(t, svc, "Batteries")
	if resp.HazardLevel != HazardHigh {
		t.Errorf("hazard = %s, want High", resp.HazardLevel)
	}
	if resp.Status != StatusPending {
		t.Errorf("status = %s, want pending", resp.Status)
	}
	if resp.Seller.ID != sellerID {
		t.Errorf("seller = %s", resp.Seller.ID)
	}
}

func TestCreateRequiresSeller(t *testing.T) {
	svc := NewService(newMemRepo())

	for _, caller := range []*access.Identity{buyer, admin} {
		_, err := svc.Create(context.Background(), caller, CreateListingRequest{
			Title: "x", Description: "y", Category: "Laptops", Condition: "used", Location: "z",
		})
		if !errors.Is(err, core.ErrForbidden) {
			t.Errorf("%s: err = %v, want ErrForbidden", caller.Role, err)
		}
	}
}

func TestSellerEditAlwaysReturnsToPending(t *testing.T) {
	for _, prior := range Statuses {
		t.Run(string(prior), func(t *testing.T) {
			repo := newMemRepo()
			svc := NewService(repo)
			created := createListing(t, svc, "Laptops")
			repo.setStatus(created.ID, prior)

			resp, err := svc.Update(context.Background(), seller, created.ID, UpdateListingRequest{
				Description: "Now with chargers",
			})
			if err != nil {
				t.Fatalf("Update: %v", err)
			}
			if resp.Status != StatusPending {
				t.Errorf("status = %s, want pending", resp.Status)
			}
			if resp.Description != "Now with chargers" {
				t.Errorf("description = %q", resp.Description)
			}
		})
	}
}

func TestSellerCannotSetStatus(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	created := createListing(t, svc, "Laptops")

	resp, err := svc.Update(context.Background(), seller, created.ID, UpdateListingRequest{
		Status: "approved",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if resp.Status != StatusPending {
		t.Errorf("status = %s, want pending", resp.Status)
	}
}

func TestAdminModeration(t *testing.T) {
	tests := []struct {
		name    string
		prior   Status
		target  string
		want    Status
		wantErr error
	}{
		{"approve pending", StatusPending, "approved", StatusApproved, nil},
		{"reject pending", StatusPending, "rejected", StatusRejected, nil},
		{"approve approved", StatusApproved, "approved", "", core.ErrInvalidTransition},
		{"set sold", StatusApproved, "sold", "", core.ErrInvalidTransition},
		{"set pending", StatusRejected, "pending", "", core.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemRepo()
			svc := NewService(repo)
			created := createListing(t, svc, "Monitors")
			repo.setStatus(created.ID, tt.prior)

			resp, err := svc.Update(context.Background(), admin, created.ID, UpdateListingRequest{
				Status: tt.target,
				Title:  "admin cannot retitle",
			})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Update: %v", err)
			}
			if resp.Status != tt.want {
				t.Errorf("status = %s, want %s", resp.Status, tt.want)
			}
			if resp.Title != "Old laptops" {
				t.Errorf("admin changed title to %q", resp.Title)
			}
		})
	}
}

func TestUpdateForbidden(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	created := createListing(t, svc, "Laptops")

	for _, caller := range []*access.Identity{otherSeller, buyer} {
		_, err := svc.Update(context.Background(), caller, created.ID, UpdateListingRequest{
			Title: "mine now",
		})
		if !errors.Is(err, core.ErrForbidden) {
			t.Errorf("%s: err = %v, want ErrForbidden", caller.UserID, err)
		}
	}

	l, _ := repo.GetByID(context.Background(), created.ID)
	if l.Title != "Old laptops" {
		t.Errorf("forbidden update mutated title to %q", l.Title)
	}
}

func TestListRedactsAddressForOthers(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	created := createListing(t, svc, "Laptops")
	repo.setStatus(created.ID, StatusApproved)

	viewers := []struct {
		caller *access.Identity
		sees   bool
	}{
		{nil, false},
		{buyer, false},
		{otherSeller, false},
		{seller, true},
		{admin, true},
	}

	for _, v := range viewers {
		out, _, err := svc.List(context.Background(), v.caller, ListParams{})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(out) != 1 {
			t.Fatalf("got %d listings, want 1", len(out))
		}
		loc := out[0].PreciseLocation
		if loc == nil {
			t.Fatal("precise location dropped entirely")
		}
		if got := loc.Address != nil; got != v.sees {
			t.Errorf("viewer %+v sees address = %v, want %v", v.caller, got, v.sees)
		}
		if loc.City == nil || *loc.City != "Bengaluru" {
			t.Errorf("city missing for viewer %+v", v.caller)
		}
	}
}

func TestListDefaultsToApproved(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	a := createListing(t, svc, "Laptops")
	createListing(t, svc, "Batteries")
	repo.setStatus(a.ID, StatusApproved)

	out, total, err := svc.List(context.Background(), nil, ListParams{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || out[0].ID != a.ID {
		t.Fatalf("got %d listings, want only the approved one", total)
	}

	_, total, err = svc.List(context.Background(), admin, ListParams{Status: "all"})
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if total != 2 {
		t.Errorf("status=all returned %d, want 2", total)
	}
}

func TestListScopesUnmoderatedStatuses(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()
	pending := createListing(t, svc, "Laptops")
	sold := createListing(t, svc, "Monitors")
	repo.setStatus(sold.ID, StatusSold)

	denied := []struct {
		name   string
		caller *access.Identity
		params ListParams
		want   error
	}{
		{"anonymous pending", nil, ListParams{Status: "pending"}, core.ErrUnauthorized},
		{"anonymous all", nil, ListParams{Status: "all"}, core.ErrUnauthorized},
		{"buyer naming seller", buyer, ListParams{Status: "pending", SellerID: sellerID}, core.ErrForbidden},
		{"other seller rejected", otherSeller, ListParams{Status: "rejected", SellerID: sellerID}, core.ErrForbidden},
	}
	for _, tc := range denied {
		t.Run(tc.name, func(t *testing.T) {
			out, _, err := svc.List(ctx, tc.caller, tc.params)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			if len(out) != 0 {
				t.Errorf("leaked %d listings", len(out))
			}
		})
	}

	out, _, err := svc.List(ctx, otherSeller, ListParams{Status: "pending"})
	if err != nil {
		t.Fatalf("other seller own pending: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("other seller sees %d pending listings, want 0", len(out))
	}

	out, _, err = svc.List(ctx, seller, ListParams{Status: "pending"})
	if err != nil {
		t.Fatalf("owner pending: %v", err)
	}
	if len(out) != 1 || out[0].ID != pending.ID {
		t.Errorf("owner pending = %+v, want %s", out, pending.ID)
	}

	out, _, err = svc.List(ctx, admin, ListParams{Status: "pending"})
	if err != nil || len(out) != 1 {
		t.Errorf("admin pending: n=%d err=%v", len(out), err)
	}

	out, _, err = svc.List(ctx, nil, ListParams{Status: "sold"})
	if err != nil || len(out) != 1 || out[0].ID != sold.ID {
		t.Errorf("anonymous sold: n=%d err=%v", len(out), err)
	}
}

func TestListRejectsUnknownFilters(t *testing.T) {
	svc := NewService(newMemRepo())

	bad := []ListParams{
		{Status: "archived"},
		{Category: "Toasters"},
		{HazardLevel: "Extreme"},
		{SellerID: "not-a-uuid"},
	}
	for _, p := range bad {
		if _, _, err := svc.List(context.Background(), nil, p); !errors.Is(err, core.ErrInvalidInput) {
			t.Errorf("List(%+v) err = %v, want ErrInvalidInput", p, err)
		}
	}
}

func TestGetHidesUnmoderatedListings(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	created := createListing(t, svc, "Laptops")

	if _, err := svc.Get(context.Background(), buyer, created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("buyer err = %v, want ErrNotFound", err)
	}
	if _, err := svc.Get(context.Background(), seller, created.ID); err != nil {
		t.Fatalf("owner Get: %v", err)
	}
}

func TestDeletePermissions(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()

	a := createListing(t, svc, "Laptops")
	if err := svc.Delete(ctx, otherSeller, a.ID); !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("other seller err = %v, want ErrForbidden", err)
	}
	if err := svc.Delete(ctx, seller, a.ID); err != nil {
		t.Fatalf("owner Delete: %v", err)
	}

	b := createListing(t, svc, "Laptops")
	if err := svc.Delete(ctx, admin, b.ID); err != nil {
		t.Fatalf("admin Delete: %v", err)
	}
	if err := svc.Delete(ctx, admin, b.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestListHandlerOmitsAddressForAnonymous(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	created := createListing(t, svc, "Laptops")
	repo.setStatus(created.ID, StatusApproved)

	pass := func(next http.Handler) http.Handler { return next }
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, pass, pass, pass)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/listings", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "12 MG Road") {
		t.Fatal("anonymous response leaked precise address")
	}

	var body struct {
		Data []ListingResponse `json:"data"`
		Meta struct {
			Total int `json:"total"`
		} `json:"meta"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Meta.Total != 1 || len(body.Data) != 1 {
		t.Fatalf("body = %+v", body)
	}
}

func TestListHandlerBadStatusIs400(t *testing.T) {
	pass := func(next http.Handler) http.Handler { return next }
	r := chi.NewRouter()
	NewHandler(NewService(newMemRepo())).RegisterRoutes(r, pass, pass, pass)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/listings?status=bogus", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestListHandlerAnonymousPendingIs401(t *testing.T) {
	pass := func(next http.Handler) http.Handler { return next }
	repo := newMemRepo()
	svc := NewService(repo)
	createListing(t, svc, "Laptops")

	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, pass, pass, pass)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/listings?status=pending", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "Old laptops") {
		t.Error("pending listing leaked to anonymous caller")
	}
}

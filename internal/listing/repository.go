// AngelaMos | 2026
// repository.go

package listing

import (
	"context"
	"fmt"
	"strings"

	"github.com/ewastex/marketplace-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, l *Listing) error
	GetByID(ctx context.Context, id string) (*Listing, error)
	List(ctx context.Context, params ListParams) ([]Listing, int, error)
	Update(ctx context.Context, l *Listing) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const listingColumns = `l.id, l.title, l.description, l.category, l.condition,
		       l.hazard_level, l.status, l.seller_id, u.name AS seller_name,
		       l.images, l.location, l.precise_lat, l.precise_lng,
		       l.precise_address, l.precise_city, l.precise_area,
		       l.created_at, l.updated_at`

const listingFrom = `FROM listings l JOIN users u ON u.id = l.seller_id`

func (r *repository) Create(ctx context.Context, l *Listing) error {
	query := `
		INSERT INTO listings (id, title, description, category, condition,
		                      hazard_level, status, seller_id, images, location,
		                      precise_lat, precise_lng, precise_address,
		                      precise_city, precise_area)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at`

	images := []string(l.Images)
	if images == nil {
		images = []string{}
	}

	err := r.db.QueryRowxContext(ctx, query,
		l.ID,
		l.Title,
		l.Description,
		string(l.Category),
		l.Condition,
		string(l.HazardLevel),
		string(l.Status),
		l.SellerID,
		images,
		l.Location,
		l.PreciseLat,
		l.PreciseLng,
		l.Address,
		l.City,
		l.Area,
	).Scan(&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return core.MapWriteError("create listing", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Listing, error) {
	query := `SELECT ` + listingColumns + ` ` + listingFrom + `
		WHERE l.id = $1`

	var l Listing
	if err := r.db.GetContext(ctx, &l, query, id); err != nil {
		return nil, core.MapReadError("get listing", err)
	}

	return &l, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListParams,
) ([]Listing, int, error) {
	params.Normalize()

	whereClause, args := params.where()
	argIdx := len(args) + 1

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", listingFrom, whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count listings: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		%s
		WHERE %s
		ORDER BY l.created_at DESC
		LIMIT $%d OFFSET $%d`,
		listingColumns, listingFrom, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var listings []Listing
	if err := r.db.SelectContext(ctx, &listings, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list listings: %w", err)
	}

	return listings, total, nil
}

// where renders the filter as a WHERE clause over listingFrom. "all"
// disables the status filter.
func (p ListParams) where() (string, []any) {
	var conditions []string
	var args []any

	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if p.Status != "all" {
		add("l.status", p.Status)
	}
	add("l.category", p.Category)
	add("l.hazard_level", p.HazardLevel)
	add("l.seller_id", p.SellerID)

	if len(conditions) == 0 {
		return "TRUE", nil
	}
	return strings.Join(conditions, " AND "), args
}

func (r *repository) Update(ctx context.Context, l *Listing) error {
	query := `
		UPDATE listings
		SET title = $2, description = $3, condition = $4, location = $5,
		    status = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &l.UpdatedAt, query,
		l.ID,
		l.Title,
		l.Description,
		l.Condition,
		l.Location,
		string(l.Status),
	)
	if err != nil {
		return core.MapWriteError("update listing", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return core.MapWriteError("delete listing", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete listing: %w", core.ErrNotFound)
	}

	return nil
}

// SetStatus writes a status computed by the lifecycle. It accepts any
// DBTX so callers can run it inside a transaction.
func SetStatus(ctx context.Context, db core.DBTX, id string, status Status) error {
	result, err := db.ExecContext(ctx,
		`UPDATE listings SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, string(status),
	)
	if err != nil {
		return fmt.Errorf("set listing status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set listing status: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("set listing status: %w", core.ErrNotFound)
	}

	return nil
}

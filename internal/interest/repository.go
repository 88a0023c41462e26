// AngelaMos | 2026
// repository.go

package interest

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/ewastex/marketplace-api/internal/core"
	"github.com/ewastex/marketplace-api/internal/listing"
)

type Repository interface {
	Create(ctx context.Context, i *Interest) error
	GetByID(ctx context.Context, id string) (*Interest, error)
	Exists(ctx context.Context, listingID, buyerID string) (bool, error)
	List(ctx context.Context, filter Filter) ([]Interest, error)
	// UpdateStatus moves the interest only if it is still in from.
	UpdateStatus(ctx context.Context, id string, from, to Status) error
	// Complete marks an accepted interest completed and its listing sold
	// in one transaction.
	Complete(ctx context.Context, id, listingID string) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const interestColumns = `i.id, i.listing_id, i.buyer_id, i.seller_id, i.status,
		       i.message, i.created_at, i.updated_at,
		       l.title AS listing_title, l.category AS listing_category,
		       l.hazard_level AS listing_hazard_level,
		       l.status AS listing_status, l.location AS listing_location,
		       b.name AS buyer_name, s.name AS seller_name`

const interestFrom = `FROM interests i
		JOIN listings l ON l.id = i.listing_id
		JOIN users b ON b.id = i.buyer_id
		JOIN users s ON s.id = i.seller_id`

func (r *repository) Create(ctx context.Context, i *Interest) error {
	query := `
		INSERT INTO interests (id, listing_id, buyer_id, seller_id, status, message)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		i.ID,
		i.ListingID,
		i.BuyerID,
		i.SellerID,
		string(i.Status),
		i.Message,
	).Scan(&i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return core.MapWriteError("create interest", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Interest, error) {
	query := `SELECT ` + interestColumns + ` ` + interestFrom + `
		WHERE i.id = $1`

	var i Interest
	if err := r.db.GetContext(ctx, &i, query, id); err != nil {
		return nil, core.MapReadError("get interest", err)
	}

	return &i, nil
}

func (r *repository) Exists(
	ctx context.Context,
	listingID, buyerID string,
) (bool, error) {
	query := `SELECT EXISTS(
		SELECT 1 FROM interests WHERE listing_id = $1 AND buyer_id = $2)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, listingID, buyerID); err != nil {
		return false, fmt.Errorf("check interest exists: %w", err)
	}

	return exists, nil
}

func (r *repository) List(ctx context.Context, filter Filter) ([]Interest, error) {
	whereClause, args := filter.where()

	query := fmt.Sprintf(`
		SELECT %s
		%s
		WHERE %s
		ORDER BY i.created_at DESC`,
		interestColumns, interestFrom, whereClause)

	var items []Interest
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, core.MapReadError("list interests", err)
	}

	return items, nil
}

// where renders the filter as a WHERE clause over interestFrom. Empty
// fields do not filter.
func (f Filter) where() (string, []any) {
	var conditions []string
	var args []any

	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	add("i.listing_id", f.ListingID)
	add("i.buyer_id", f.BuyerID)
	add("i.seller_id", f.SellerID)
	add("i.status", f.Status)

	if len(conditions) == 0 {
		return "TRUE", nil
	}
	return strings.Join(conditions, " AND "), args
}

func (r *repository) UpdateStatus(
	ctx context.Context,
	id string,
	from, to Status,
) error {
	return updateStatus(ctx, r.db, id, from, to)
}

func (r *repository) Complete(ctx context.Context, id, listingID string) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := updateStatus(ctx, tx, id, StatusAccepted, StatusCompleted); err != nil {
			return err
		}
		return listing.SetStatus(ctx, tx, listingID, listing.StatusSold)
	})
}

func updateStatus(
	ctx context.Context,
	db core.DBTX,
	id string,
	from, to Status,
) error {
	result, err := db.ExecContext(ctx, `
		UPDATE interests
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2`,
		id, string(from), string(to),
	)
	if err != nil {
		return core.MapWriteError("update interest status", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update interest status: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf(
			"update interest status: no longer %s: %w",
			from,
			core.ErrConflict,
		)
	}

	return nil
}

// AngelaMos | 2026
// repository.go

package stats

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ewastex/marketplace-api/internal/core"
)

type Repository interface {
	Count(ctx context.Context, scope Scope) (int64, error)
	Categories(ctx context.Context, scope Scope) ([]CategoryCount, error)
	Daily(ctx context.Context, scope Scope, since time.Time) ([]DayCount, error)
}

// table describes how each filter of a Scope maps onto one source. An
// empty column means the source cannot be filtered that way.
type table struct {
	from     string
	base     string
	seller   string
	buyer    string
	role     string
	status   string
	category string
	created  string
	updated  string
}

var tables = [...]table{
	SourceUsers: {
		from:    "users u",
		base:    "u.deleted_at IS NULL",
		role:    "u.role",
		created: "u.created_at",
		updated: "u.updated_at",
	},
	SourceListings: {
		from:     "listings l",
		seller:   "l.seller_id",
		status:   "l.status",
		category: "l.category",
		created:  "l.created_at",
		updated:  "l.updated_at",
	},
	SourceInterests: {
		from:     "interests i JOIN listings l ON l.id = i.listing_id",
		seller:   "i.seller_id",
		buyer:    "i.buyer_id",
		status:   "i.status",
		category: "l.category",
		created:  "i.created_at",
		updated:  "i.updated_at",
	},
	SourceMessages: {
		from:    "messages m",
		created: "m.created_at",
	},
}

var _ [int(sourceCount) - len(tables)]struct{}
var _ [len(tables) - int(sourceCount)]struct{}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// where renders the scope as a WHERE clause with positional arguments.
func (s Scope) where(t table) (string, []any, error) {
	conditions := []string{"TRUE"}
	if t.base != "" {
		conditions = append(conditions, t.base)
	}
	var args []any

	add := func(column, field, value string) error {
		if value == "" {
			return nil
		}
		if column == "" {
			return fmt.Errorf("%s cannot filter by %s: %w", s.Source, field, core.ErrInvalidInput)
		}
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
		return nil
	}

	if err := add(t.seller, "seller", s.SellerID); err != nil {
		return "", nil, err
	}
	if err := add(t.buyer, "buyer", s.BuyerID); err != nil {
		return "", nil, err
	}
	if err := add(t.role, "role", s.Role); err != nil {
		return "", nil, err
	}

	if len(s.Statuses) > 0 {
		if t.status == "" {
			return "", nil, fmt.Errorf("%s cannot filter by status: %w", s.Source, core.ErrInvalidInput)
		}
		placeholders := make([]string, len(s.Statuses))
		for i, st := range s.Statuses {
			args = append(args, st)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conditions = append(conditions, fmt.Sprintf(
			"%s IN (%s)", t.status, strings.Join(placeholders, ", ")))
	}

	return strings.Join(conditions, " AND "), args, nil
}

func (s Scope) table() (table, error) {
	if s.Source < 0 || s.Source >= sourceCount {
		return table{}, fmt.Errorf("stats source %d: %w", s.Source, core.ErrInvalidInput)
	}
	return tables[s.Source], nil
}

func (r *repository) Count(ctx context.Context, scope Scope) (int64, error) {
	t, err := scope.table()
	if err != nil {
		return 0, err
	}
	where, args, err := scope.where(t)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, t.from, where)

	var n int64
	if err := r.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, fmt.Errorf("count %s: %w", scope.Source, err)
	}

	return n, nil
}

func (r *repository) Categories(ctx context.Context, scope Scope) ([]CategoryCount, error) {
	t, err := scope.table()
	if err != nil {
		return nil, err
	}
	if t.category == "" {
		return nil, fmt.Errorf("%s has no category: %w", scope.Source, core.ErrInvalidInput)
	}
	where, args, err := scope.where(t)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT %[1]s AS category, COUNT(*) AS count
		FROM %[2]s
		WHERE %[3]s
		GROUP BY %[1]s
		ORDER BY count DESC, category ASC`,
		t.category, t.from, where)

	var out []CategoryCount
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("category breakdown %s: %w", scope.Source, err)
	}

	return out, nil
}

func (r *repository) Daily(
	ctx context.Context,
	scope Scope,
	since time.Time,
) ([]DayCount, error) {
	t, err := scope.table()
	if err != nil {
		return nil, err
	}
	where, args, err := scope.where(t)
	if err != nil {
		return nil, err
	}

	at := t.created
	if scope.ByUpdate {
		at = t.updated
	}
	if at == "" {
		return nil, fmt.Errorf("%s has no timestamp: %w", scope.Source, core.ErrInvalidInput)
	}

	args = append(args, since)
	query := fmt.Sprintf(`
		SELECT to_char(%[1]s AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day,
		       COUNT(*) AS count
		FROM %[2]s
		WHERE %[3]s AND %[1]s >= $%[4]d
		GROUP BY day
		ORDER BY day ASC`,
		at, t.from, where, len(args))

	var out []DayCount
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("daily %s: %w", scope.Source, err)
	}

	return out, nil
}

// AngelaMos | 2026
// entity.go

package listing

import (
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

type Listing struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Category    Category  `db:"category"`
	Condition   string    `db:"condition"`
	HazardLevel Hazard    `db:"hazard_level"`
	Status      Status    `db:"status"`
	SellerID    string    `db:"seller_id"`
	SellerName  string    `db:"seller_name"`
	Images      Images    `db:"images"`
	Location    string    `db:"location"`
	PreciseLat  *float64  `db:"precise_lat"`
	PreciseLng  *float64  `db:"precise_lng"`
	Address     *string   `db:"precise_address"`
	City        *string   `db:"precise_city"`
	Area        *string   `db:"precise_area"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (l *Listing) OwnedBy(userID string) bool {
	return userID != "" && l.SellerID == userID
}

func (l *Listing) HasPreciseLocation() bool {
	return l.PreciseLat != nil || l.PreciseLng != nil || l.Address != nil ||
		l.City != nil || l.Area != nil
}

// Images scans a Postgres TEXT[] column. Writes pass []string directly,
// which pgx encodes natively.
type Images []string

// pgtype.Map caches scan plans and is not safe for concurrent use.
var typeMaps = sync.Pool{
	New: func() any { return pgtype.NewMap() },
}

func (i *Images) Scan(src any) error {
	m, _ := typeMaps.Get().(*pgtype.Map)
	defer typeMaps.Put(m)

	var out []string
	if err := m.SQLScanner(&out).Scan(src); err != nil {
		return fmt.Errorf("scan images: %w", err)
	}
	*i = out
	return nil
}

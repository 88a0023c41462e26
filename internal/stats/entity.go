// AngelaMos | 2026
// entity.go

package stats

// Source is the table a count or series is taken from.
type Source int

const (
	SourceUsers Source = iota
	SourceListings
	SourceInterests
	SourceMessages
	sourceCount
)

var sourceNames = [...]string{
	SourceUsers:     "users",
	SourceListings:  "listings",
	SourceInterests: "interests",
	SourceMessages:  "messages",
}

var _ [int(sourceCount) - len(sourceNames)]struct{}
var _ [len(sourceNames) - int(sourceCount)]struct{}

func (s Source) String() string {
	if s < 0 || s >= sourceCount {
		return "unknown"
	}
	return sourceNames[s]
}

// Scope narrows a count, breakdown or series to a subset of one source.
// Empty fields do not filter. ByUpdate buckets series by the last update
// time instead of creation time.
type Scope struct {
	Source   Source
	SellerID string
	BuyerID  string
	Role     string
	Statuses []string
	ByUpdate bool
}

type DayCount struct {
	Day   string `db:"day"   json:"date"`
	Count int64  `db:"count" json:"count"`
}

type CategoryCount struct {
	Category string `db:"category" json:"category"`
	Count    int64  `db:"count"    json:"count"`
}

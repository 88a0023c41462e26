// AngelaMos | 2026
// dto.go

package stats

type PublicStats struct {
	Listings  int64 `json:"listings"`
	Recyclers int64 `json:"recyclers"`
	Matches   int64 `json:"matches"`
}

type Counters struct {
	ActiveCount    int64 `json:"activeCount"`
	MessageCount   int64 `json:"messageCount"`
	CompletedCount int64 `json:"completedCount"`
	ImpactScore    int64 `json:"impactScore"`
}

type Impact struct {
	EWasteDiverted    int64   `json:"eWasteDiverted"`
	CarbonSaved       float64 `json:"carbonSaved"`
	MineralsRecovered float64 `json:"mineralsRecovered"`
}

type ActivityPoint struct {
	Name      string `json:"name"`
	Date      string `json:"date"`
	Active    int64  `json:"active"`
	Completed int64  `json:"completed"`
}

type UserStats struct {
	Stats         Counters        `json:"stats"`
	Impact        Impact          `json:"impact"`
	CategoryStats []CategoryCount `json:"categoryStats"`
	ActivityData  []ActivityPoint `json:"activityData"`
}

type Charts struct {
	Registrations []DayCount `json:"registrations"`
	Listings      []DayCount `json:"listings"`
}

type AdminStats struct {
	Pending  int64  `json:"pending"`
	Approved int64  `json:"approved"`
	Total    int64  `json:"total"`
	Impact   int64  `json:"impact"`
	Users    int64  `json:"users"`
	Messages int64  `json:"messages"`
	Charts   Charts `json:"charts"`
}

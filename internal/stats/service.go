// AngelaMos | 2026
// service.go

package stats

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ewastex/marketplace-api/internal/access"
	"github.com/ewastex/marketplace-api/internal/core"
	"github.com/ewastex/marketplace-api/internal/interest"
	"github.com/ewastex/marketplace-api/internal/listing"
)

const (
	publicCacheKey = "stats:public"
	chartDays      = 7
	dayLayout      = "2006-01-02"
)

// Dashboard impact weights.
const (
	impactPerCompleted = 15
	impactPerActive    = 5
	impactCap          = 100
	kgPerCompleted     = 50
	carbonPerCompleted = 0.1
	mineralsPerDeal    = 5.8
)

type Service struct {
	repo      Repository
	cache     *core.Cache
	publicTTL time.Duration
	now       func() time.Time
}

func NewService(repo Repository, cache *core.Cache, publicTTL time.Duration) *Service {
	return &Service{
		repo:      repo,
		cache:     cache,
		publicTTL: publicTTL,
		now:       time.Now,
	}
}

// Public returns the landing page counters. Results are cached and
// concurrent misses share one load.
func (s *Service) Public(ctx context.Context) (*PublicStats, error) {
	return core.GetOrLoadJSON(ctx, s.cache, publicCacheKey, s.publicTTL, s.loadPublic)
}

func (s *Service) loadPublic(ctx context.Context) (*PublicStats, error) {
	var out PublicStats
	g, ctx := errgroup.WithContext(ctx)

	s.count(ctx, g, &out.Listings, Scope{
		Source:   SourceListings,
		Statuses: []string{string(listing.StatusApproved), string(listing.StatusSold)},
	})
	s.count(ctx, g, &out.Recyclers, Scope{
		Source: SourceUsers,
		Role:   string(access.RoleBuyer),
	})
	s.count(ctx, g, &out.Matches, Scope{
		Source:   SourceInterests,
		Statuses: []string{string(interest.StatusAccepted)},
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("public stats: %w", err)
	}
	return &out, nil
}

// ForUser builds the dashboard of the caller. Sellers are measured by
// their listings, everyone else by the interests they sent.
func (s *Service) ForUser(ctx context.Context, caller *access.Identity) (*UserStats, error) {
	if caller == nil {
		return nil, fmt.Errorf("user stats: %w", core.ErrUnauthorized)
	}

	var (
		active, messages, completed Scope
		breakdown                   Scope
		created, finished           Scope
	)

	if caller.Role == access.RoleSeller {
		active = Scope{Source: SourceListings, SellerID: caller.UserID,
			Statuses: []string{string(listing.StatusApproved)}}
		completed = Scope{Source: SourceListings, SellerID: caller.UserID,
			Statuses: []string{string(listing.StatusSold)}}
		messages = Scope{Source: SourceInterests, SellerID: caller.UserID,
			Statuses: []string{string(interest.StatusPending)}}
		breakdown = Scope{Source: SourceListings, SellerID: caller.UserID}
		created = Scope{Source: SourceListings, SellerID: caller.UserID}
		finished = Scope{Source: SourceListings, SellerID: caller.UserID,
			Statuses: []string{string(listing.StatusSold)}, ByUpdate: true}
	} else {
		active = Scope{Source: SourceInterests, BuyerID: caller.UserID,
			Statuses: []string{string(interest.StatusPending)}}
		completed = Scope{Source: SourceInterests, BuyerID: caller.UserID,
			Statuses: []string{string(interest.StatusCompleted)}}
		messages = Scope{Source: SourceInterests, BuyerID: caller.UserID,
			Statuses: []string{string(interest.StatusAccepted)}}
		breakdown = Scope{Source: SourceInterests, BuyerID: caller.UserID}
		created = Scope{Source: SourceInterests, BuyerID: caller.UserID}
		finished = Scope{Source: SourceInterests, BuyerID: caller.UserID,
			Statuses: []string{string(interest.StatusCompleted)}, ByUpdate: true}
	}

	var (
		out                   UserStats
		createdDays, doneDays []DayCount
	)
	days := s.lastDays(chartDays)
	since := days[0]

	g, gctx := errgroup.WithContext(ctx)
	s.count(gctx, g, &out.Stats.ActiveCount, active)
	s.count(gctx, g, &out.Stats.MessageCount, messages)
	s.count(gctx, g, &out.Stats.CompletedCount, completed)
	g.Go(func() error {
		cats, err := s.repo.Categories(gctx, breakdown)
		out.CategoryStats = cats
		return err
	})
	g.Go(func() error {
		series, err := s.repo.Daily(gctx, created, since)
		createdDays = series
		return err
	})
	g.Go(func() error {
		series, err := s.repo.Daily(gctx, finished, since)
		doneDays = series
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}

	if out.CategoryStats == nil {
		out.CategoryStats = []CategoryCount{}
	}

	c := out.Stats.CompletedCount
	out.Stats.ImpactScore = min(impactCap,
		c*impactPerCompleted+out.Stats.ActiveCount*impactPerActive)
	out.Impact = Impact{
		EWasteDiverted:    c * kgPerCompleted,
		CarbonSaved:       roundTenth(float64(c) * carbonPerCompleted),
		MineralsRecovered: roundTenth(float64(c) * mineralsPerDeal),
	}

	createdBy := byDay(createdDays)
	doneBy := byDay(doneDays)
	out.ActivityData = make([]ActivityPoint, 0, len(days))
	for _, d := range days {
		key := d.Format(dayLayout)
		out.ActivityData = append(out.ActivityData, ActivityPoint{
			Name:      d.Format("Mon"),
			Date:      key,
			Active:    createdBy[key],
			Completed: doneBy[key],
		})
	}

	return &out, nil
}

// Admin aggregates the moderation console counters and the seven day
// registration and listing charts.
func (s *Service) Admin(ctx context.Context) (*AdminStats, error) {
	var (
		out                     AdminStats
		registrations, listings []DayCount
	)
	days := s.lastDays(chartDays)
	since := days[0]

	g, gctx := errgroup.WithContext(ctx)
	s.count(gctx, g, &out.Pending, Scope{Source: SourceListings,
		Statuses: []string{string(listing.StatusPending)}})
	s.count(gctx, g, &out.Approved, Scope{Source: SourceListings,
		Statuses: []string{string(listing.StatusApproved)}})
	s.count(gctx, g, &out.Impact, Scope{Source: SourceInterests})
	s.count(gctx, g, &out.Users, Scope{Source: SourceUsers})
	s.count(gctx, g, &out.Messages, Scope{Source: SourceMessages})
	g.Go(func() error {
		series, err := s.repo.Daily(gctx, Scope{Source: SourceUsers}, since)
		registrations = series
		return err
	})
	g.Go(func() error {
		series, err := s.repo.Daily(gctx, Scope{Source: SourceListings}, since)
		listings = series
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("admin stats: %w", err)
	}

	out.Total = out.Pending + out.Approved
	out.Charts = Charts{
		Registrations: fillDays(days, registrations),
		Listings:      fillDays(days, listings),
	}

	return &out, nil
}

func (s *Service) count(ctx context.Context, g *errgroup.Group, dst *int64, scope Scope) {
	g.Go(func() error {
		n, err := s.repo.Count(ctx, scope)
		if err != nil {
			return err
		}
		*dst = n
		return nil
	})
}

// lastDays returns UTC midnights for the n days ending today, oldest first.
func (s *Service) lastDays(n int) []time.Time {
	today := s.now().UTC().Truncate(24 * time.Hour)
	days := make([]time.Time, n)
	for i := range n {
		days[i] = today.AddDate(0, 0, i-(n-1))
	}
	return days
}

func byDay(series []DayCount) map[string]int64 {
	m := make(map[string]int64, len(series))
	for _, d := range series {
		m[d.Day] = d.Count
	}
	return m
}

func fillDays(days []time.Time, series []DayCount) []DayCount {
	counts := byDay(series)
	out := make([]DayCount, 0, len(days))
	for _, d := range days {
		key := d.Format(dayLayout)
		out = append(out, DayCount{Day: key, Count: counts[key]})
	}
	return out
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

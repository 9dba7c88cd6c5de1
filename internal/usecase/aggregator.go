// Package usecase contains the business logic of the application: the
// aggregation pipelines that turn raw API responses into derived statistics.
package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gopherstats/readme-stats/internal/cache"
	"github.com/gopherstats/readme-stats/internal/domain"
	"github.com/gopherstats/readme-stats/internal/gateway"
)

// Aggregator is the use case for aggregating GitHub statistics. It checks the
// per-resource caches first and only goes upstream on a miss; the gateway's
// in-flight deduplication keeps concurrent misses for the same key down to
// one call.
type Aggregator struct {
	fetcher  gateway.Fetcher
	stats    *cache.Cache[domain.UserStats]
	langs    *cache.Cache[[]domain.LanguageStat]
	contribs *cache.Cache[domain.ContributionData]
	logger   *log.Logger
	now      func() time.Time
}

// NewAggregator creates a new Aggregator instance. The registry may be nil,
// in which case caching is disabled and every request goes upstream.
func NewAggregator(fetcher gateway.Fetcher, caches *cache.Registry, ttl time.Duration, maxSize int, logger *log.Logger) *Aggregator {
	a := &Aggregator{
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
	}
	if caches != nil {
		a.stats = cache.For[domain.UserStats](caches, "stats", ttl, maxSize)
		a.langs = cache.For[[]domain.LanguageStat](caches, "languages", ttl, maxSize)
		a.contribs = cache.For[domain.ContributionData](caches, "contributions", ttl, maxSize)
	}
	return a
}

// UserStats produces the headline stats and rank for a username. The star
// total pages through the repository list; because repositories arrive
// ordered by stars descending, paging stops as soon as a page ends in a
// zero-star repository, since every repository after it contributes nothing.
func (a *Aggregator) UserStats(ctx context.Context, username string) (domain.UserStats, error) {
	key := strings.ToLower(username)
	if a.stats != nil {
		if cached, ok := a.stats.Get(key); ok {
			a.logger.Printf("Cache hit for stats/%s", key)
			return cached, nil
		}
	}

	page, err := a.fetcher.FetchStatsPage(ctx, username, "")
	if err != nil {
		return domain.UserStats{}, err
	}

	totalStars := sum(page.RepoStars)
	cur := page
	for cur.HasNextPage && !endsInZero(cur.RepoStars) {
		next, err := a.fetcher.FetchStatsPage(ctx, username, cur.EndCursor)
		if err != nil {
			return domain.UserStats{}, err
		}
		totalStars += sum(next.RepoStars)
		cur = next
	}

	result := domain.UserStats{
		Username:           page.Login,
		TotalStars:         totalStars,
		TotalCommits:       page.TotalCommits,
		TotalPRs:           page.TotalPRs,
		TotalIssues:        page.TotalIssues,
		TotalContributions: page.PRContributions + page.IssueContributions + page.RestrictedContributions,
	}
	result.Rank = calculateRank(rankInput{
		commits:       result.TotalCommits,
		prs:           result.TotalPRs,
		issues:        result.TotalIssues,
		stars:         result.TotalStars,
		contributions: result.TotalContributions,
	})

	if a.stats != nil {
		a.stats.Set(key, result)
	}
	return result, nil
}

// Profile fetches all three aggregations for a username concurrently.
func (a *Aggregator) Profile(ctx context.Context, username string, days int, exclude []string) (domain.Profile, error) {
	var p domain.Profile

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		p.Stats, err = a.UserStats(egCtx, username)
		return err
	})
	eg.Go(func() error {
		var err error
		p.Languages, err = a.TopLanguages(egCtx, username, exclude)
		return err
	})
	eg.Go(func() error {
		var err error
		p.Contributions, err = a.ContributionWindow(egCtx, username, days)
		return err
	})
	if err := eg.Wait(); err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}

func endsInZero(stars []int) bool {
	return len(stars) > 0 && stars[len(stars)-1] == 0
}

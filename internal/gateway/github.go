// Package gateway provides a gateway to the GitHub GraphQL API, exposing the
// typed fetch operations the aggregation pipelines consume.
package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/gopherstats/readme-stats/internal/inflight"
)

// StatsPage is one page of a user's stats query: the stargazer counts of up
// to 100 owned non-fork repositories ordered by stars descending, plus the
// aggregate counters that only matter on the first page.
type StatsPage struct {
	Login                   string
	TotalRepos              int
	RepoStars               []int
	HasNextPage             bool
	EndCursor               string
	TotalPRs                int
	TotalIssues             int
	TotalCommits            int
	PRContributions         int
	IssueContributions      int
	RestrictedContributions int
}

// LanguageUsage is one language slice of one repository.
type LanguageUsage struct {
	Name  string
	Color string
	Bytes int
}

// CalendarDay is a raw day cell of the contribution calendar.
type CalendarDay struct {
	Date    string
	Count   int
	Weekday int
}

// CalendarWeek groups the day cells the way upstream does.
type CalendarWeek struct {
	Days []CalendarDay
}

// Calendar is a user's contribution calendar over a requested date range.
type Calendar struct {
	Login string
	Total int
	Weeks []CalendarWeek
}

// Fetcher defines the behavior of a gateway for fetching information from
// GitHub.
type Fetcher interface {
	FetchStatsPage(ctx context.Context, login string, cursor string) (*StatsPage, error)
	FetchLanguages(ctx context.Context, login string) ([]LanguageUsage, error)
	FetchCalendar(ctx context.Context, login string, from, to time.Time) (*Calendar, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
// Every fetch runs through an in-flight group keyed on the operation and its
// variables, so concurrent structurally identical requests observe exactly
// one upstream call.
type GitHubGateway struct {
	client  *githubv4.Client
	flights *inflight.Group
	logger  *log.Logger
}

// userStatsQuery fetches one page of repository stargazer counts together
// with the aggregate PR/issue/contribution counters.
type userStatsQuery struct {
	User struct {
		Login        string
		Repositories struct {
			TotalCount int
			PageInfo   struct {
				HasNextPage bool
				EndCursor   githubv4.String
			}
			Nodes []struct {
				StargazerCount int
			}
		} `graphql:"repositories(first: 100, ownerAffiliations: OWNER, isFork: false, orderBy: {field: STARGAZERS, direction: DESC}, after: $cursor)"`
		PullRequests struct {
			TotalCount int
		} `graphql:"pullRequests(first: 1)"`
		Issues struct {
			TotalCount int
		} `graphql:"issues(first: 1)"`
		ContributionsCollection struct {
			TotalCommitContributions      int
			TotalPullRequestContributions int
			TotalIssueContributions       int
			RestrictedContributionsCount  int
		}
	} `graphql:"user(login: $login)"`
}

// userLanguagesQuery fetches each owned non-fork repository's top 10
// languages by byte size. A single page; language totals beyond 100
// repositories are not pursued.
type userLanguagesQuery struct {
	User struct {
		Repositories struct {
			Nodes []struct {
				Languages struct {
					Edges []struct {
						Size int
						Node struct {
							Name  string
							Color string
						}
					}
				} `graphql:"languages(first: 10, orderBy: {field: SIZE, direction: DESC})"`
			}
		} `graphql:"repositories(first: 100, ownerAffiliations: OWNER, isFork: false)"`
	} `graphql:"user(login: $login)"`
}

// contributionCalendarQuery fetches the contribution calendar for a date
// range, already grouped into weeks of day cells.
type contributionCalendarQuery struct {
	User struct {
		Login                   string
		ContributionsCollection struct {
			ContributionCalendar struct {
				TotalContributions int
				Weeks              []struct {
					ContributionDays []struct {
						Date              string
						ContributionCount int
						Weekday           int
					}
				}
			}
		} `graphql:"contributionsCollection(from: $from, to: $to)"`
	} `graphql:"user(login: $login)"`
}

// NewGitHubGateway is a constructor that creates a new instance of
// GitHubGateway authenticated with the given token.
func NewGitHubGateway(token string, flights *inflight.Group, logger *log.Logger) (Fetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		client:  githubv4.NewClient(httpClient),
		flights: flights,
		logger:  logger,
	}, nil
}

// FetchStatsPage fetches one stats page for login. An empty cursor requests
// the first page; pass the previous page's EndCursor to continue.
func (g *GitHubGateway) FetchStatsPage(ctx context.Context, login string, cursor string) (*StatsPage, error) {
	key := inflight.Key("stats", map[string]any{"login": login, "cursor": cursor})
	return inflight.Do(g.flights, key, func() (*StatsPage, error) {
		g.logger.Printf("Fetching stats page for %s (cursor=%q)...", login, cursor)

		variables := map[string]interface{}{
			"login":  githubv4.String(login),
			"cursor": (*githubv4.String)(nil),
		}
		if cursor != "" {
			variables["cursor"] = githubv4.NewString(githubv4.String(cursor))
		}

		var q userStatsQuery
		if err := g.client.Query(ctx, &q, variables); err != nil {
			return nil, classify(err)
		}
		if q.User.Login == "" {
			return nil, &APIError{Kind: KindUnknown, Messages: []string{"upstream response is missing the user object"}}
		}

		page := &StatsPage{
			Login:                   q.User.Login,
			TotalRepos:              q.User.Repositories.TotalCount,
			HasNextPage:             q.User.Repositories.PageInfo.HasNextPage,
			EndCursor:               string(q.User.Repositories.PageInfo.EndCursor),
			TotalPRs:                q.User.PullRequests.TotalCount,
			TotalIssues:             q.User.Issues.TotalCount,
			TotalCommits:            q.User.ContributionsCollection.TotalCommitContributions,
			PRContributions:         q.User.ContributionsCollection.TotalPullRequestContributions,
			IssueContributions:      q.User.ContributionsCollection.TotalIssueContributions,
			RestrictedContributions: q.User.ContributionsCollection.RestrictedContributionsCount,
		}
		for _, node := range q.User.Repositories.Nodes {
			page.RepoStars = append(page.RepoStars, node.StargazerCount)
		}
		return page, nil
	})
}

// FetchLanguages fetches the per-repository language slices for login,
// flattened into a single list. Grouping by name is the aggregator's job.
func (g *GitHubGateway) FetchLanguages(ctx context.Context, login string) ([]LanguageUsage, error) {
	key := inflight.Key("languages", map[string]any{"login": login})
	return inflight.Do(g.flights, key, func() ([]LanguageUsage, error) {
		g.logger.Printf("Fetching languages for %s...", login)

		variables := map[string]interface{}{
			"login": githubv4.String(login),
		}

		var q userLanguagesQuery
		if err := g.client.Query(ctx, &q, variables); err != nil {
			return nil, classify(err)
		}

		var usages []LanguageUsage
		for _, repo := range q.User.Repositories.Nodes {
			for _, edge := range repo.Languages.Edges {
				usages = append(usages, LanguageUsage{
					Name:  edge.Node.Name,
					Color: edge.Node.Color,
					Bytes: edge.Size,
				})
			}
		}
		return usages, nil
	})
}

// FetchCalendar fetches the contribution calendar for login between from and
// to, inclusive.
func (g *GitHubGateway) FetchCalendar(ctx context.Context, login string, from, to time.Time) (*Calendar, error) {
	key := inflight.Key("calendar", map[string]any{
		"login": login,
		"from":  from.Format(time.RFC3339),
		"to":    to.Format(time.RFC3339),
	})
	return inflight.Do(g.flights, key, func() (*Calendar, error) {
		g.logger.Printf("Fetching contribution calendar for %s...", login)

		variables := map[string]interface{}{
			"login": githubv4.String(login),
			"from":  githubv4.DateTime{Time: from},
			"to":    githubv4.DateTime{Time: to},
		}

		var q contributionCalendarQuery
		if err := g.client.Query(ctx, &q, variables); err != nil {
			return nil, classify(err)
		}
		if q.User.Login == "" {
			return nil, &APIError{Kind: KindUnknown, Messages: []string{"upstream response is missing the user object"}}
		}

		cal := &Calendar{
			Login: q.User.Login,
			Total: q.User.ContributionsCollection.ContributionCalendar.TotalContributions,
		}
		for _, week := range q.User.ContributionsCollection.ContributionCalendar.Weeks {
			var w CalendarWeek
			for _, day := range week.ContributionDays {
				w.Days = append(w.Days, CalendarDay{
					Date:    day.Date,
					Count:   day.ContributionCount,
					Weekday: day.Weekday,
				})
			}
			cal.Weeks = append(cal.Weeks, w)
		}
		return cal, nil
	})
}

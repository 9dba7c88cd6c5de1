// Package domain contains the core data structures for the aggregated
// statistics the application produces.
package domain

// Rank grades a user's overall activity.
type Rank struct {
	Level      string `json:"level"`
	Percentile int    `json:"percentile"`
}

// UserStats holds the headline numbers for a user plus their computed rank.
type UserStats struct {
	Username           string `json:"username"`
	TotalStars         int    `json:"total_stars"`
	TotalCommits       int    `json:"total_commits"`
	TotalPRs           int    `json:"total_prs"`
	TotalIssues        int    `json:"total_issues"`
	TotalContributions int    `json:"total_contributions"`
	Rank               Rank   `json:"rank"`
}

// LanguageStat is one language's share of a user's owned repositories,
// ordered most-used first.
type LanguageStat struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color"`
}

// ContributionDay is a single day cell of the contribution calendar. Level is
// the 0-4 intensity bucket relative to the busiest day in the window.
type ContributionDay struct {
	Date    string `json:"date"`
	Count   int    `json:"count"`
	Weekday int    `json:"weekday"`
	Level   int    `json:"level"`
}

// ContributionWeek preserves the upstream week grouping of day cells.
type ContributionWeek struct {
	Days []ContributionDay `json:"days"`
}

// ContributionData is the full contribution window for a user: the leveled
// calendar plus streak and volume summaries.
type ContributionData struct {
	Username           string             `json:"username"`
	TotalContributions int                `json:"total_contributions"`
	CurrentStreak      int                `json:"current_streak"`
	LongestStreak      int                `json:"longest_streak"`
	AverageDaily       float64            `json:"average_daily"`
	Weeks              []ContributionWeek `json:"weeks"`
}

// Profile bundles all three aggregations for a user.
type Profile struct {
	Stats         UserStats        `json:"stats"`
	Languages     []LanguageStat   `json:"languages"`
	Contributions ContributionData `json:"contributions"`
}

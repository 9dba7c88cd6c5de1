package usecase

import "github.com/gopherstats/readme-stats/internal/domain"

type rankInput struct {
	commits       int
	prs           int
	issues        int
	stars         int
	contributions int
}

// calculateRank grades overall activity. Scoring weights and thresholds
// follow the scheme popularized by github-readme-stats.
func calculateRank(in rankInput) domain.Rank {
	score := float64(in.commits)*1 +
		float64(in.prs)*3 +
		float64(in.issues)*2 +
		float64(in.stars)*5 +
		float64(in.contributions)*0.5

	switch {
	case score >= 10000:
		return domain.Rank{Level: "S", Percentile: 99}
	case score >= 5000:
		return domain.Rank{Level: "A++", Percentile: 95}
	case score >= 2500:
		return domain.Rank{Level: "A+", Percentile: 90}
	case score >= 1000:
		return domain.Rank{Level: "A", Percentile: 80}
	case score >= 500:
		return domain.Rank{Level: "B+", Percentile: 70}
	case score >= 250:
		return domain.Rank{Level: "B", Percentile: 60}
	case score >= 100:
		return domain.Rank{Level: "C+", Percentile: 50}
	default:
		return domain.Rank{Level: "C", Percentile: 40}
	}
}

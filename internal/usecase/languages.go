package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/gopherstats/readme-stats/internal/domain"
	"github.com/gopherstats/readme-stats/internal/gateway"
)

// defaultColors is the fallback palette for well-known languages when
// upstream does not supply a color.
var defaultColors = map[string]string{
	"TypeScript": "#3178c6",
	"JavaScript": "#f1e05a",
	"Python":     "#3572A5",
	"Rust":       "#dea584",
	"Go":         "#00ADD8",
	"Java":       "#b07219",
	"C++":        "#f34b7d",
	"C":          "#555555",
	"Ruby":       "#701516",
	"PHP":        "#4F5D95",
}

const fallbackColor = "#858585"

// TopLanguages produces the byte-weighted language breakdown of a user's
// owned non-fork repositories, most-used first. Languages in exclude are
// matched case-insensitively and removed before percentages are computed, so
// they do not count toward the denominator.
func (a *Aggregator) TopLanguages(ctx context.Context, username string, exclude []string) ([]domain.LanguageStat, error) {
	key := strings.ToLower(username)
	if a.langs != nil {
		if cached, ok := a.langs.Get(key); ok {
			a.logger.Printf("Cache hit for languages/%s", key)
			return cached, nil
		}
	}

	usages, err := a.fetcher.FetchLanguages(ctx, username)
	if err != nil {
		return nil, err
	}

	result := aggregateLanguages(usages, exclude)
	if a.langs != nil {
		a.langs.Set(key, result)
	}
	return result, nil
}

func aggregateLanguages(usages []gateway.LanguageUsage, exclude []string) []domain.LanguageStat {
	excluded := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		excluded[strings.ToLower(name)] = struct{}{}
	}

	type total struct {
		bytes int
		color string
	}
	totals := make(map[string]*total)

	for _, u := range usages {
		if _, skip := excluded[strings.ToLower(u.Name)]; skip {
			continue
		}
		t, ok := totals[u.Name]
		if !ok {
			color := u.Color
			if color == "" {
				color = defaultColors[u.Name]
			}
			if color == "" {
				color = fallbackColor
			}
			t = &total{color: color}
			totals[u.Name] = t
		}
		t.bytes += u.Bytes
	}

	names := make([]string, 0, len(totals))
	totalBytes := 0
	for name, t := range totals {
		names = append(names, name)
		totalBytes += t.bytes
	}
	if totalBytes == 0 {
		return []domain.LanguageStat{}
	}

	sort.Slice(names, func(i, j int) bool {
		a, b := totals[names[i]], totals[names[j]]
		if a.bytes != b.bytes {
			return a.bytes > b.bytes
		}
		return names[i] < names[j]
	})

	result := make([]domain.LanguageStat, 0, len(names))
	for _, name := range names {
		t := totals[name]
		result = append(result, domain.LanguageStat{
			Name:       name,
			Percentage: float64(t.bytes) / float64(totalBytes) * 100,
			Color:      t.color,
		})
	}
	return result
}

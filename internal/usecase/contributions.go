package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	mstats "github.com/montanaflynn/stats"

	"github.com/gopherstats/readme-stats/internal/domain"
)

const (
	maxWindowDays     = 365
	defaultWindowDays = 365
	dateLayout        = "2006-01-02"
)

// ContributionWindow produces the leveled contribution calendar for the
// trailing window of the given number of days, together with streak and
// volume summaries. Day counts outside [1, 365] fall back to the full year.
func (a *Aggregator) ContributionWindow(ctx context.Context, username string, days int) (domain.ContributionData, error) {
	if days < 1 {
		days = defaultWindowDays
	}
	if days > maxWindowDays {
		days = maxWindowDays
	}

	key := fmt.Sprintf("%s:%d", strings.ToLower(username), days)
	if a.contribs != nil {
		if cached, ok := a.contribs.Get(key); ok {
			a.logger.Printf("Cache hit for contributions/%s", key)
			return cached, nil
		}
	}

	to := a.now()
	today := midnight(to)
	from := today.AddDate(0, 0, -(days - 1))

	cal, err := a.fetcher.FetchCalendar(ctx, username, from, to)
	if err != nil {
		return domain.ContributionData{}, err
	}

	counts := make([]float64, 0, days)
	for _, week := range cal.Weeks {
		for _, day := range week.Days {
			counts = append(counts, float64(day.Count))
		}
	}

	maxCount := 1
	if len(counts) > 0 {
		if m, err := mstats.Max(counts); err == nil && m > 1 {
			maxCount = int(m)
		}
	}

	data := domain.ContributionData{
		Username:           cal.Login,
		TotalContributions: cal.Total,
	}
	if len(counts) > 0 {
		if mean, err := mstats.Mean(counts); err == nil {
			data.AverageDaily = math.Round(mean*100) / 100
		}
	}

	var flat []domain.ContributionDay
	for _, week := range cal.Weeks {
		var w domain.ContributionWeek
		for _, day := range week.Days {
			d := domain.ContributionDay{
				Date:    day.Date,
				Count:   day.Count,
				Weekday: day.Weekday,
				Level:   levelFor(day.Count, maxCount),
			}
			w.Days = append(w.Days, d)
			flat = append(flat, d)
		}
		data.Weeks = append(data.Weeks, w)
	}

	data.CurrentStreak, data.LongestStreak = computeStreaks(flat, today)

	if a.contribs != nil {
		a.contribs.Set(key, data)
	}
	return data, nil
}

// levelFor buckets a day's count into intensity levels 0-4 relative to the
// busiest day of the window.
func levelFor(count, maxCount int) int {
	if count == 0 {
		return 0
	}
	ratio := float64(count) / float64(maxCount)
	switch {
	case ratio <= 0.25:
		return 1
	case ratio <= 0.5:
		return 2
	case ratio <= 0.75:
		return 3
	default:
		return 4
	}
}

// computeStreaks scans the window's days for the longest run of consecutive
// active days and for the streak still running as of today. The current
// streak is zero unless today or yesterday is active; it then counts backward
// through strictly consecutive active dates. The reference date is explicit
// so the scan does not depend on the system clock.
func computeStreaks(days []domain.ContributionDay, today time.Time) (current, longest int) {
	run := 0
	for _, d := range days {
		if d.Count > 0 {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}

	byDate := make(map[string]int, len(days))
	for _, d := range days {
		byDate[d.Date] = d.Count
	}

	start := today
	if byDate[today.Format(dateLayout)] == 0 {
		yesterday := today.AddDate(0, 0, -1)
		if byDate[yesterday.Format(dateLayout)] == 0 {
			return 0, longest
		}
		start = yesterday
	}
	for d := start; ; d = d.AddDate(0, 0, -1) {
		count, ok := byDate[d.Format(dateLayout)]
		if !ok || count == 0 {
			break
		}
		current++
	}
	return current, longest
}

// midnight strips the time of day, keeping the location.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

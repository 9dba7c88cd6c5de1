package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gopherstats/readme-stats/internal/domain"
	"github.com/gopherstats/readme-stats/internal/gateway"
)

// testToday is testNow with the time of day stripped.
var testToday = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

// contributionDays builds consecutive day cells ending the day before
// start+len(counts).
func contributionDays(start time.Time, counts []int) []domain.ContributionDay {
	days := make([]domain.ContributionDay, len(counts))
	for i, count := range counts {
		date := start.AddDate(0, 0, i)
		days[i] = domain.ContributionDay{
			Date:    date.Format(dateLayout),
			Count:   count,
			Weekday: int(date.Weekday()),
		}
	}
	return days
}

func calendarDays(start time.Time, counts []int) []gateway.CalendarDay {
	days := make([]gateway.CalendarDay, len(counts))
	for i, count := range counts {
		date := start.AddDate(0, 0, i)
		days[i] = gateway.CalendarDay{
			Date:    date.Format(dateLayout),
			Count:   count,
			Weekday: int(date.Weekday()),
		}
	}
	return days
}

func TestLevelFor(t *testing.T) {
	// Counts [0,2,5,8,10] against a window max of 10.
	counts := []int{0, 2, 5, 8, 10}
	expected := []int{0, 1, 2, 4, 4}

	for i, count := range counts {
		assert.Equal(t, expected[i], levelFor(count, 10), "count %d", count)
	}
}

func TestLevelFor_MaxCountFloor(t *testing.T) {
	// A window of all-zero days uses a max of 1; any nonzero count in that
	// situation would be the max itself.
	assert.Equal(t, 0, levelFor(0, 1))
	assert.Equal(t, 4, levelFor(1, 1))
}

func TestComputeStreaks_Longest(t *testing.T) {
	testCases := []struct {
		name    string
		counts  []int
		longest int
	}{
		{name: "runs separated by gaps", counts: []int{1, 1, 0, 1, 1, 1, 0}, longest: 3},
		{name: "no zero day spans the window", counts: []int{2, 1, 3, 1, 1}, longest: 5},
		{name: "all zeros", counts: []int{0, 0, 0}, longest: 0},
		{name: "single active day", counts: []int{0, 4, 0}, longest: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			start := testToday.AddDate(0, 0, -(len(tc.counts) - 1))
			_, longest := computeStreaks(contributionDays(start, tc.counts), testToday)
			assert.Equal(t, tc.longest, longest)
		})
	}
}

func TestComputeStreaks_Current(t *testing.T) {
	testCases := []struct {
		name    string
		counts  []int // chronological, last element is today
		current int
	}{
		{name: "active today counts back through the run", counts: []int{0, 1, 1, 1}, current: 3},
		{name: "idle today but active yesterday keeps the streak", counts: []int{1, 1, 1, 0}, current: 3},
		{name: "idle today and yesterday breaks the streak", counts: []int{1, 1, 0, 0}, current: 0},
		{name: "gap inside the run stops the backward walk", counts: []int{1, 0, 1, 1}, current: 2},
		{name: "window boundary stops the walk", counts: []int{1, 1}, current: 2},
		{name: "completely idle window", counts: []int{0, 0, 0}, current: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			start := testToday.AddDate(0, 0, -(len(tc.counts) - 1))
			current, _ := computeStreaks(contributionDays(start, tc.counts), testToday)
			assert.Equal(t, tc.current, current)
		})
	}
}

func TestAggregator_ContributionWindow(t *testing.T) {
	start := testToday.AddDate(0, 0, -4)
	fetcher := new(mockFetcher)
	fetcher.On("FetchCalendar", mock.Anything, "alice", start, testNow).
		Return(&gateway.Calendar{
			Login: "alice",
			Total: 25,
			Weeks: []gateway.CalendarWeek{{Days: calendarDays(start, []int{0, 2, 5, 8, 10})}},
		}, nil)

	aggregator := newTestAggregator(fetcher, false)
	data, err := aggregator.ContributionWindow(context.Background(), "alice", 5)

	require.NoError(t, err)
	assert.Equal(t, "alice", data.Username)
	assert.Equal(t, 25, data.TotalContributions)
	assert.Equal(t, 4, data.CurrentStreak)
	assert.Equal(t, 4, data.LongestStreak)
	assert.Equal(t, 5.0, data.AverageDaily)

	require.Len(t, data.Weeks, 1)
	require.Len(t, data.Weeks[0].Days, 5)
	levels := make([]int, 5)
	for i, d := range data.Weeks[0].Days {
		levels[i] = d.Level
	}
	assert.Equal(t, []int{0, 1, 2, 4, 4}, levels)
	fetcher.AssertExpectations(t)
}

func TestAggregator_ContributionWindow_ClampsDays(t *testing.T) {
	fullYearFrom := testToday.AddDate(0, 0, -364)

	testCases := []struct {
		name string
		days int
	}{
		{name: "zero falls back to a full year", days: 0},
		{name: "negative falls back to a full year", days: -7},
		{name: "above the maximum is capped", days: 999},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fetcher := new(mockFetcher)
			fetcher.On("FetchCalendar", mock.Anything, "alice", fullYearFrom, testNow).
				Return(&gateway.Calendar{Login: "alice"}, nil)

			aggregator := newTestAggregator(fetcher, false)
			_, err := aggregator.ContributionWindow(context.Background(), "alice", tc.days)

			require.NoError(t, err)
			fetcher.AssertExpectations(t)
		})
	}
}

func TestAggregator_ContributionWindow_CacheKeyIncludesDays(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("FetchCalendar", mock.Anything, "alice", mock.Anything, mock.Anything).
		Return(&gateway.Calendar{Login: "alice"}, nil)

	aggregator := newTestAggregator(fetcher, true)

	_, err := aggregator.ContributionWindow(context.Background(), "alice", 30)
	require.NoError(t, err)
	_, err = aggregator.ContributionWindow(context.Background(), "alice", 30)
	require.NoError(t, err)
	fetcher.AssertNumberOfCalls(t, "FetchCalendar", 1)

	// A different window length for the same user is a distinct cache entry.
	_, err = aggregator.ContributionWindow(context.Background(), "alice", 90)
	require.NoError(t, err)
	fetcher.AssertNumberOfCalls(t, "FetchCalendar", 2)
}

func TestAggregator_ContributionWindow_PropagatesUpstreamError(t *testing.T) {
	wantErr := &gateway.APIError{Kind: gateway.KindNotFound, Messages: []string{"Could not resolve to a User"}}

	fetcher := new(mockFetcher)
	fetcher.On("FetchCalendar", mock.Anything, "ghost", mock.Anything, mock.Anything).
		Return(nil, wantErr)

	aggregator := newTestAggregator(fetcher, false)
	_, err := aggregator.ContributionWindow(context.Background(), "ghost", 365)

	require.Error(t, err)
	assert.True(t, gateway.IsNotFound(err))
}

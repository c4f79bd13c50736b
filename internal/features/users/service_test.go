package users

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNextStreakFirstActivity(t *testing.T) {
	streak := NextStreak(Streak{}, day("2025-06-10"))
	require.Equal(t, 1, streak.Current)
	require.Equal(t, 1, streak.Longest)
	require.NotNil(t, streak.LastActivityDate)
}

func TestNextStreakSameDayKeeps(t *testing.T) {
	last := day("2025-06-10")
	streak := NextStreak(Streak{Current: 4, Longest: 6, LastActivityDate: &last}, last.Add(8*time.Hour))
	require.Equal(t, 4, streak.Current)
	require.Equal(t, 6, streak.Longest)
}

func TestNextStreakNextDayExtends(t *testing.T) {
	last := day("2025-06-10")
	streak := NextStreak(Streak{Current: 6, Longest: 6, LastActivityDate: &last}, day("2025-06-11"))
	require.Equal(t, 7, streak.Current)
	require.Equal(t, 7, streak.Longest)
}

func TestNextStreakGapResets(t *testing.T) {
	last := day("2025-06-10")
	streak := NextStreak(Streak{Current: 12, Longest: 12, LastActivityDate: &last}, day("2025-06-13"))
	require.Equal(t, 1, streak.Current)
	require.Equal(t, 12, streak.Longest)
}

func TestLevelForPoints(t *testing.T) {
	tests := []struct {
		points   int
		expected int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{250, 3},
		{999, 4},
		{1000, 5},
		{2000, 6},
		{3500, 7},
		{5500, 8},
		{8000, 9},
		{12000, 10},
		{50000, 10},
	}

	for _, tt := range tests {
		require.Equal(t, tt.expected, LevelForPoints(tt.points), "points %d", tt.points)
	}
}

func TestEligibleBadges(t *testing.T) {
	user := &User{
		ReviewCount:      10,
		ReviewedGenres:   []string{"drama", "comedy", "horror", "sci-fi", "action", "romance", "thriller", "animation", "war", "crime"},
		ReviewedFormats:  []string{"movie", "tv"},
		HelpfulnessRatio: 0.9,
		Streak:           Streak{Current: 7},
	}

	badges := EligibleBadges(user)
	require.ElementsMatch(t, []string{
		BadgeFirstReview,
		BadgeCritic,
		BadgeGenreExplorer,
		BadgeFormatHopper,
		BadgeWeekStreak,
		BadgeHelpfulVoice,
	}, badges)
}

func TestEligibleBadgesSkipsEarned(t *testing.T) {
	user := &User{
		ReviewCount: 1,
		Badges:      []string{BadgeFirstReview},
	}
	require.Empty(t, EligibleBadges(user))
}

func TestEligibleBadgesHelpfulVoiceNeedsBoth(t *testing.T) {
	user := &User{ReviewCount: 5, HelpfulnessRatio: 0.95}
	require.NotContains(t, EligibleBadges(user), BadgeHelpfulVoice)

	user = &User{ReviewCount: 15, HelpfulnessRatio: 0.5}
	require.NotContains(t, EligibleBadges(user), BadgeHelpfulVoice)
}

func TestHasReviewedBothFormats(t *testing.T) {
	require.False(t, (&User{ReviewedFormats: []string{"movie"}}).HasReviewedBothFormats())
	require.False(t, (&User{ReviewedFormats: []string{"tv"}}).HasReviewedBothFormats())
	require.True(t, (&User{ReviewedFormats: []string{"movie", "tv"}}).HasReviewedBothFormats())
}

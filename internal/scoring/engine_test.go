package scoring

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func reviewOfLength(n int) ReviewInput {
	return ReviewInput{Content: strings.Repeat("a", n), Rating: 7}
}

func TestHeuristicStrategyLengthTiers(t *testing.T) {
	tests := []struct {
		length   int
		expected int
	}{
		{10, 5},
		{99, 5},
		{100, 15},
		{299, 15},
		{300, 30},
		{499, 30},
		{500, 50},
		{2000, 50},
	}

	s := HeuristicStrategy{}
	for _, tt := range tests {
		score := s.ScoreBase(reviewOfLength(tt.length))
		require.Equal(t, tt.expected, score.Details["length"], "length %d", tt.length)
	}
}

func TestAIAugmentedStrategyLengthTiers(t *testing.T) {
	tests := []struct {
		length   int
		expected int
	}{
		{10, 10},
		{99, 10},
		{100, 25},
		{299, 25},
		{300, 40},
		{499, 40},
		{500, 60},
		{2000, 60},
	}

	s := AIAugmentedStrategy{}
	for _, tt := range tests {
		score := s.ScoreBase(reviewOfLength(tt.length))
		require.Equal(t, tt.expected, score.Details["length"], "length %d", tt.length)
	}
}

func TestBaseScoreLongerNeverScoresLess(t *testing.T) {
	strategies := []Strategy{HeuristicStrategy{}, AIAugmentedStrategy{}}

	for _, s := range strategies {
		previous := -1
		for _, length := range []int{1, 50, 99, 100, 200, 299, 300, 400, 499, 500, 1000} {
			total := s.ScoreBase(reviewOfLength(length)).Total
			require.GreaterOrEqual(t, total, previous, "%s at length %d", s.Name(), length)
			previous = total
		}
	}
}

func TestHeuristicStrategyBonuses(t *testing.T) {
	s := HeuristicStrategy{}

	withTitle := ReviewInput{Content: strings.Repeat("a", 200), Title: "A thoughtful headline", Rating: 7}
	score := s.ScoreBase(withTitle)
	require.Equal(t, 5, score.Details["title"])
	require.Equal(t, 8, score.Details["authenticRating"])
	require.Equal(t, 28, score.Total)

	shortTitle := ReviewInput{Content: strings.Repeat("a", 200), Title: "Short", Rating: 7}
	require.Zero(t, s.ScoreBase(shortTitle).Details["title"])

	extremeLow := ReviewInput{Content: strings.Repeat("a", 200), Rating: 1}
	require.Zero(t, s.ScoreBase(extremeLow).Details["authenticRating"])

	extremeHigh := ReviewInput{Content: strings.Repeat("a", 200), Rating: 10}
	require.Zero(t, s.ScoreBase(extremeHigh).Details["authenticRating"])
}

func TestAIAugmentedStrategyHasNoRatingBonus(t *testing.T) {
	s := AIAugmentedStrategy{}
	score := s.ScoreBase(ReviewInput{Content: strings.Repeat("a", 200), Rating: 7})
	require.Zero(t, score.Details["authenticRating"])
	require.Equal(t, 25, score.Total)
}

func TestScoreEngagementHelpfulness(t *testing.T) {
	tests := []struct {
		name     string
		likes    int
		dislikes int
		expected int
	}{
		{"net positive", 10, 3, 14},
		{"net negative floors at zero", 2, 8, 0},
		{"capped at 100", 80, 0, 100},
		{"no votes", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := ScoreEngagement(ReviewInput{Likes: tt.likes, Dislikes: tt.dislikes})
			require.Equal(t, tt.expected, score.Details["helpfulness"])
		})
	}
}

func TestScoreEngagementDiscussionTiers(t *testing.T) {
	tests := []struct {
		replies  int
		expected int
	}{
		{0, 0},
		{1, 10},
		{5, 10},
		{6, 20},
		{10, 20},
		{11, 30},
		{40, 30},
	}

	for _, tt := range tests {
		score := ScoreEngagement(ReviewInput{ReplyCount: tt.replies})
		require.Equal(t, tt.expected, score.Details["discussionStarter"], "%d replies", tt.replies)
	}
}

func TestScoreTimingEarlyReviewer(t *testing.T) {
	now := time.Now()
	tests := []struct {
		rank     int
		expected int
	}{
		{1, 25},
		{10, 25},
		{11, 15},
		{50, 15},
		{51, 10},
		{100, 10},
		{101, 0},
		{0, 0},
	}

	for _, tt := range tests {
		score := ScoreTiming(ReviewInput{CreatedAt: now}, Context{ReviewRank: tt.rank, Now: now})
		require.Equal(t, tt.expected, score.Details["earlyReviewer"], "rank %d", tt.rank)
	}
}

func TestScoreTimingLongevity(t *testing.T) {
	now := time.Now()

	old := ReviewInput{CreatedAt: now.AddDate(0, 0, -100), Likes: 25}
	score := ScoreTiming(old, Context{Now: now})
	require.Equal(t, 50, score.Details["longevity"])

	monthOld := ReviewInput{CreatedAt: now.AddDate(0, 0, -40), Likes: 12}
	score = ScoreTiming(monthOld, Context{Now: now})
	require.Equal(t, 20, score.Details["longevity"])

	// old but unpopular earns nothing
	unpopular := ReviewInput{CreatedAt: now.AddDate(0, 0, -100), Likes: 3}
	score = ScoreTiming(unpopular, Context{Now: now})
	require.Zero(t, score.Details["longevity"])
}

func TestScoreDiversity(t *testing.T) {
	tests := []struct {
		genres   int
		both     bool
		expected int
	}{
		{0, false, 0},
		{4, false, 0},
		{5, false, 30},
		{10, false, 75},
		{20, false, 150},
		{10, true, 100},
		{20, true, 175},
	}

	for _, tt := range tests {
		score := ScoreDiversity(UserInput{GenreCount: tt.genres, BothFormats: tt.both})
		require.Equal(t, tt.expected, score.Total, "genres=%d both=%v", tt.genres, tt.both)
	}
}

func TestScorePenaltiesAreNotClamped(t *testing.T) {
	review := ReviewInput{Content: "meh", Likes: 1, Dislikes: 5}
	user := UserInput{HasDuplicateContent: true}

	score := ScorePenalties(review, user)
	require.Equal(t, -20, score.Details["tooShort"])
	require.Equal(t, -10, score.Details["dislikeMajority"])
	require.Equal(t, -30, score.Details["duplicateContent"])
	require.Equal(t, -60, score.Total)
}

func TestScorePenaltiesCleanReview(t *testing.T) {
	review := ReviewInput{Content: strings.Repeat("a", 100), Likes: 5, Dislikes: 1}
	require.Zero(t, ScorePenalties(review, UserInput{}).Total)
}

package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStreakMultiplier(t *testing.T) {
	tests := []struct {
		days     int
		expected float64
	}{
		{0, 1.0},
		{2, 1.0},
		{3, 1.1},
		{6, 1.1},
		{7, 1.25},
		{29, 1.25},
		{30, 1.5},
		{100, 1.5},
	}

	for _, tt := range tests {
		require.Equal(t, tt.expected, StreakMultiplier(tt.days), "days %d", tt.days)
	}
}

func TestStreakBonus(t *testing.T) {
	tests := []struct {
		days     int
		expected int
	}{
		{0, 0},
		{2, 0},
		{3, 20},
		{7, 50},
		{30, 200},
	}

	for _, tt := range tests {
		require.Equal(t, tt.expected, StreakBonus(tt.days), "days %d", tt.days)
	}
}

// A 450-character titled review with four likes, the seventh review of its
// title, from a neutral-credibility author with ten genres and both formats:
// base (40+5)*0.7 + authenticity 40 + helpfulness 8 + early 25 + diversity
// 100, rounding the half up to 205.
func TestFinalScoreWorkedExample(t *testing.T) {
	s := AIAugmentedStrategy{}
	review := ReviewInput{
		Content: strings.Repeat("a", 450),
		Title:   "A worthy adaptation",
		Rating:  8,
		Likes:   4,
	}
	user := UserInput{GenreCount: 10, BothFormats: true, AccountAgeDays: 100}

	base := s.ScoreBase(review)
	require.Equal(t, 45, base.Total)

	contentPoints := ScoreEngagement(review).Total +
		ScoreTiming(review, Context{ReviewRank: 7}).Total +
		ScoreDiversity(user).Total
	require.Equal(t, 133, contentPoints)

	credibility := ComputeCredibility(user)
	require.Equal(t, 1.0, credibility.Score)

	total := FinalScore(FinalScoreInput{
		Base:             base,
		AIQualityScore:   0.7,
		AuthenticityPts:  40,
		ContentPoints:    contentPoints,
		ContentPenalties: ScorePenalties(review, user).Total,
		CredibilityScore: credibility.Score,
	})
	require.Equal(t, 205, total)
}

func TestFinalScoreCredibilityScalesOnlyEngagementTerms(t *testing.T) {
	in := FinalScoreInput{
		Base:             Score{Total: 100},
		AIQualityScore:   1.0,
		EngagementPoints: 50,
		AuthenticityPts:  40,
		ContentPoints:    30,
		CredibilityScore: 0.5,
	}

	// 100 + (50+40)*0.5 + 30 = 175
	require.Equal(t, 175, FinalScore(in))
}

func TestFinalScoreStreakOrdering(t *testing.T) {
	in := FinalScoreInput{
		Base:             Score{Total: 40},
		AIQualityScore:   1.0,
		CredibilityScore: 1.0,
		ContentPoints:    60,
		ReviewStreakDays: 7,
	}

	// multiplier applies to the subtotal, the flat bonus after it
	require.Equal(t, 175, FinalScore(in))
}

func TestFinalScoreMayBeNegative(t *testing.T) {
	in := FinalScoreInput{
		Base:             Score{Total: 5},
		AIQualityScore:   1.0,
		CredibilityScore: 1.0,
		ContentPenalties: -60,
	}

	require.Equal(t, -55, FinalScore(in))
}

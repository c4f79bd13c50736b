package scoring

import "math"

// FinalScoreInput names every term of the aggregation formula. Operator
// placement below is deliberate: the AI quality multiplies only the base,
// credibility multiplies only the engagement and authenticity contributions,
// content points and penalties add in untouched. Reordering changes totals.
type FinalScoreInput struct {
	Base              Score
	AIQualityScore    float64 // 0..1 multiplier on the base
	EngagementPoints  int     // AI reply-engagement points
	AuthenticityPts   int     // AI rating/text alignment points
	ContentPoints     int     // deterministic engagement + timing + diversity
	ContentPenalties  int     // deterministic penalties, negative
	CredibilityScore  float64
	ReviewStreakDays  int
}

// FinalScore combines the deterministic engine, AI signals and credibility
// into one point delta. The result may be negative; the single clamp to
// non-negative is the caller's job, right before persisting.
func FinalScore(in FinalScoreInput) int {
	basePoints := float64(in.Base.Total) * in.AIQualityScore
	engagementPoints := float64(in.EngagementPoints) * in.CredibilityScore
	authenticityPoints := float64(in.AuthenticityPts) * in.CredibilityScore

	subtotal := basePoints + engagementPoints + authenticityPoints +
		float64(in.ContentPoints) + float64(in.ContentPenalties)

	final := math.Round(subtotal * StreakMultiplier(in.ReviewStreakDays))
	return int(final) + StreakBonus(in.ReviewStreakDays)
}

// StreakMultiplier scales the subtotal for consecutive-day reviewers.
func StreakMultiplier(streakDays int) float64 {
	switch {
	case streakDays >= 30:
		return 1.5
	case streakDays >= 7:
		return 1.25
	case streakDays >= 3:
		return 1.1
	default:
		return 1.0
	}
}

// StreakBonus is the flat bonus added after the multiplier.
func StreakBonus(streakDays int) int {
	switch {
	case streakDays >= 30:
		return 200
	case streakDays >= 7:
		return 50
	case streakDays >= 3:
		return 20
	default:
		return 0
	}
}

package scoring

// Credibility bounds. A user can at worst halve-and-some their engagement
// contribution, at best amplify it by half.
const (
	credibilityFloor = 0.3
	credibilityCeil  = 1.5
)

// Credibility is the per-user trust multiplier with the factors that
// produced it.
type Credibility struct {
	Score   float64
	Factors map[string]float64
}

// ComputeCredibility derives the trust multiplier from historical behavior.
// Factors multiply a base of 1.0; all qualifying factors apply (the rating
// ratio tiers are mutually exclusive, the rest are independent) and the
// product is clamped to [0.3, 1.5].
func ComputeCredibility(user UserInput) Credibility {
	cred := Credibility{
		Score:   1.0,
		Factors: make(map[string]float64),
	}

	apply := func(name string, factor float64) {
		cred.Factors[name] = factor
		cred.Score *= factor
	}

	if user.ExtremeRatingRatio > 0.7 {
		apply("extremeRatings", 0.7)
	} else if user.ExtremeRatingRatio > 0.5 {
		apply("extremeRatings", 0.85)
	}

	if user.RecentReviewCount > 20 {
		apply("reviewBurst", 0.6)
	}

	if user.AverageQuality > 0.85 {
		apply("highQualityHistory", 1.2)
	}

	if user.AccountAgeDays < 7 {
		apply("newAccount", 0.8)
	} else if user.AccountAgeDays > 365 {
		apply("establishedAccount", 1.1)
	}

	if cred.Score < credibilityFloor {
		cred.Score = credibilityFloor
	}
	if cred.Score > credibilityCeil {
		cred.Score = credibilityCeil
	}

	return cred
}

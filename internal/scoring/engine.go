// Package scoring holds the deterministic half of the review points system:
// pure functions from review/user snapshots to point breakdowns, the per-user
// credibility multiplier and the final aggregation formula. Nothing in this
// package touches the network or the database.
package scoring

import "time"

// ReviewInput is the snapshot of a review the engine scores. It is built by
// the caller so the engine stays independent of persistence types.
type ReviewInput struct {
	Content    string
	Title      string
	Rating     int
	Likes      int
	Dislikes   int
	ReplyCount int
	CreatedAt  time.Time
}

// UserInput is the snapshot of the author's history.
type UserInput struct {
	GenreCount          int
	BothFormats         bool
	HasDuplicateContent bool
	ReviewStreak        int
	ExtremeRatingRatio  float64
	RecentReviewCount   int
	AccountAgeDays      int
	AverageQuality      float64
}

// Context carries per-invocation data that is computed fresh each time and
// never stored.
type Context struct {
	ReviewRank     int
	GlobalAvgLikes float64
	Now            time.Time
}

// Score is a sub-score with the terms that produced it, kept for audit logs
// and tests.
type Score struct {
	Total   int
	Details map[string]int
}

func newScore() Score {
	return Score{Details: make(map[string]int)}
}

func (s *Score) add(name string, points int) {
	if points == 0 {
		return
	}
	s.Details[name] = points
	s.Total += points
}

// Strategy computes the content-length base score. Two variants exist and
// both are kept: the plain heuristic one and the AI-augmented one, with
// different length tiers. Which one runs is a configuration choice.
type Strategy interface {
	Name() string
	ScoreBase(review ReviewInput) Score
}

// HeuristicStrategy uses the conservative length tiers and rewards
// non-extreme ratings.
type HeuristicStrategy struct{}

func (HeuristicStrategy) Name() string { return "heuristic" }

func (HeuristicStrategy) ScoreBase(review ReviewInput) Score {
	score := newScore()

	length := len(review.Content)
	switch {
	case length < 100:
		score.add("length", 5)
	case length < 300:
		score.add("length", 15)
	case length < 500:
		score.add("length", 30)
	default:
		score.add("length", 50)
	}

	if review.Title != "" && len(review.Title) > 10 {
		score.add("title", 5)
	}

	// 1s and 10s are the signature of drive-by rating spam
	if review.Rating > 2 && review.Rating < 10 {
		score.add("authenticRating", 8)
	}

	return score
}

// AIAugmentedStrategy uses the higher length tiers; the AI quality multiplier
// applied later compensates for the larger base.
type AIAugmentedStrategy struct{}

func (AIAugmentedStrategy) Name() string { return "ai" }

func (AIAugmentedStrategy) ScoreBase(review ReviewInput) Score {
	score := newScore()

	length := len(review.Content)
	switch {
	case length < 100:
		score.add("length", 10)
	case length < 300:
		score.add("length", 25)
	case length < 500:
		score.add("length", 40)
	default:
		score.add("length", 60)
	}

	if review.Title != "" && len(review.Title) > 10 {
		score.add("title", 5)
	}

	return score
}

// ScoreEngagement scores votes and discussion activity on the review.
func ScoreEngagement(review ReviewInput) Score {
	score := newScore()

	helpfulness := (review.Likes - review.Dislikes) * 2
	if helpfulness < 0 {
		helpfulness = 0
	}
	if helpfulness > 100 {
		helpfulness = 100
	}
	score.add("helpfulness", helpfulness)

	switch {
	case review.ReplyCount >= 11:
		score.add("discussionStarter", 30)
	case review.ReplyCount >= 6:
		score.add("discussionStarter", 20)
	case review.ReplyCount >= 1:
		score.add("discussionStarter", 10)
	}

	return score
}

// ScoreTiming rewards early reviewers and reviews that stay liked over time.
func ScoreTiming(review ReviewInput, ctx Context) Score {
	score := newScore()

	switch {
	case ctx.ReviewRank >= 1 && ctx.ReviewRank <= 10:
		score.add("earlyReviewer", 25)
	case ctx.ReviewRank <= 50 && ctx.ReviewRank > 0:
		score.add("earlyReviewer", 15)
	case ctx.ReviewRank <= 100 && ctx.ReviewRank > 0:
		score.add("earlyReviewer", 10)
	}

	ageDays := int(ctx.Now.Sub(review.CreatedAt).Hours() / 24)
	if ageDays >= 90 && review.Likes >= 20 {
		score.add("longevity", 50)
	} else if ageDays >= 30 && review.Likes >= 10 {
		score.add("longevity", 20)
	}

	return score
}

// ScoreDiversity rewards range across genres and formats.
func ScoreDiversity(user UserInput) Score {
	score := newScore()

	switch {
	case user.GenreCount >= 20:
		score.add("genreVariety", 150)
	case user.GenreCount >= 10:
		score.add("genreVariety", 75)
	case user.GenreCount >= 5:
		score.add("genreVariety", 30)
	}

	if user.BothFormats {
		score.add("formatVariety", 25)
	}

	return score
}

// ScorePenalties returns the negative terms. The result is not clamped here:
// clamping to zero happens once, after full aggregation, so penalties can
// still cancel against bonuses.
func ScorePenalties(review ReviewInput, user UserInput) Score {
	score := newScore()

	if len(review.Content) < 20 {
		score.add("tooShort", -20)
	}

	votes := review.Likes + review.Dislikes
	if review.Dislikes > 0 && votes > 0 && float64(review.Likes)/float64(votes) < 0.5 {
		score.add("dislikeMajority", -10)
	}

	if user.HasDuplicateContent {
		score.add("duplicateContent", -30)
	}

	return score
}

package moderation

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/adist/cinecircle/internal/ai"
	"github.com/adist/cinecircle/internal/features/reviews"
	"github.com/adist/cinecircle/internal/features/users"
	"github.com/adist/cinecircle/internal/pkg/textsim"
	"github.com/adist/cinecircle/internal/scoring"
)

// ModeratedBy value stamped on every bot decision.
const botModerator = "points-bot"

// Similarity above this against the author's own recent reviews flags the
// new one as duplicate content. The pre-submission gate uses a stricter 0.7
// threshold and rejects outright; this post-hoc check only flags+penalizes.
const duplicateThreshold = 0.8

// burstWindow bounds the credibility burst factor: only submissions inside
// this window count toward its >20 threshold.
const burstWindow = 24 * time.Hour

// Point adjustments applied by the decision pass.
const (
	spamPenalty      = -50
	offensivePenalty = -30
	duplicatePenalty = -20
	spoilerPenalty   = -15
	lowEffortPenalty = -15

	constructiveBonus = 15
	insightfulBonus   = 20

	replySpamPenalty      = -20
	replyOffensivePenalty = -15
	replyLengthBonus      = 5

	spamScoreBump = 25
)

// SignalProvider is the AI analysis seam. *ai.Analyzer implements it.
type SignalProvider interface {
	AnalyzeQuality(ctx context.Context, content string) ai.QualityAnalysis
	AnalyzeAuthenticity(ctx context.Context, content string, rating int) ai.AuthenticityAnalysis
	AnalyzeEngagement(ctx context.Context, replies []string) ai.EngagementAnalysis
	AnalyzeContent(ctx context.Context, content string) ai.ContentAnalysis
	GenerateFeedback(ctx context.Context, content string) string
}

// Outcome is the result of one moderation pass over a review or reply.
type Outcome struct {
	Removed       bool
	Flagged       bool
	Reason        string
	Warnings      []string
	PointsAwarded int
	Feedback      string
	Analysis      ai.ContentAnalysis
}

// Service runs the moderation decision pipeline and the points aggregation
// behind it.
type Service struct {
	reviews  ReviewStore
	users    UserStore
	provider SignalProvider
	strategy scoring.Strategy
	audit    *Auditor

	batchDelay time.Duration
	running    atomic.Bool
	now        func() time.Time
}

func NewService(reviewStore ReviewStore, userStore UserStore, provider SignalProvider, strategy scoring.Strategy, audit *Auditor, batchDelay time.Duration) *Service {
	return &Service{
		reviews:    reviewStore,
		users:      userStore,
		provider:   provider,
		strategy:   strategy,
		audit:      audit,
		batchDelay: batchDelay,
		now:        time.Now,
	}
}

// decision is the intermediate verdict before persistence.
type decision struct {
	shouldRemove bool
	shouldFlag   bool
	reason       string
	warnings     []string
	adjustment   int
	dupDetected  bool
	spamDetected bool
	analysis     ai.ContentAnalysis
}

// decide runs the ordered rule set over one review. Removal checks fire
// first-match-wins on the remove decision but keep accumulating point
// adjustments; the reason is overwritten by later, more specific rules while
// warnings only ever append.
func (s *Service) decide(ctx context.Context, review *reviews.Review) decision {
	var d decision

	// AI analysis and the regex detectors both always run: with the model
	// down the analysis is a neutral fallback and the patterns carry the
	// whole signal.
	d.analysis = s.provider.AnalyzeContent(ctx, review.Content)
	patternSpam := DetectSpam(review.Content)
	patternOffensive := DetectOffensive(review.Content)

	if d.analysis.IsSpam || patternSpam {
		d.shouldRemove = true
		d.spamDetected = true
		d.adjustment += spamPenalty
		d.reason = "Spam detected"
		d.warnings = append(d.warnings, "Spam detected")
	}

	if d.analysis.IsOffensive || patternOffensive {
		d.shouldRemove = true
		d.adjustment += offensivePenalty
		d.reason = "Offensive content detected"
		d.warnings = append(d.warnings, "Offensive content detected")
	}

	if s.isDuplicateOfOwn(ctx, review) {
		d.shouldFlag = true
		d.dupDetected = true
		d.adjustment += duplicatePenalty
		d.warnings = append(d.warnings, "Duplicate content detected")
	}

	if !d.shouldRemove {
		switch q := d.analysis.QualityScore; {
		case q >= 90:
			d.adjustment += 30
		case q >= 75:
			d.adjustment += 20
		case q >= 60:
			d.adjustment += 10
		}
	}

	if !d.shouldRemove && d.analysis.IsConstructive {
		d.adjustment += constructiveBonus
	}

	// Correctly tagged spoilers are neutral: no penalty, no bonus.
	if d.analysis.HasSpoiler && !review.Spoiler {
		d.shouldFlag = true
		d.adjustment += spoilerPenalty
		d.warnings = append(d.warnings, "Unmarked spoiler detected")
	}

	if !d.shouldRemove && d.analysis.IsInsightful {
		d.adjustment += insightfulBonus
	}

	if !d.shouldRemove && d.analysis.IsLowEffort {
		d.adjustment += lowEffortPenalty
	}

	return d
}

// isDuplicateOfOwn compares the review's word set against the author's last
// ten reviews.
func (s *Service) isDuplicateOfOwn(ctx context.Context, review *reviews.Review) bool {
	recent, err := s.reviews.GetRecentByAuthor(ctx, review.AuthorID, 10)
	if err != nil {
		return false
	}
	for i := range recent {
		if recent[i].ID == review.ID {
			continue
		}
		if textsim.Jaccard(review.Content, recent[i].Content) > duplicateThreshold {
			return true
		}
	}
	return false
}

// ModerateReview runs the decision pass over one review and persists the
// verdict and point adjustment. This is the pass the batch job re-runs; a
// provider failure is absorbed by the analyzer fallbacks, not surfaced here.
func (s *Service) ModerateReview(ctx context.Context, review *reviews.Review) (*Outcome, error) {
	d := s.decide(ctx, review)
	outcome, err := s.applyDecision(ctx, review, d, d.adjustment)
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

// ProcessSubmission is the full submission-time pass: the decision pipeline
// plus the points aggregation for an accepted review. The returned
// PointsAwarded is already clamped to be non-negative; this is the single
// clamp point of the scoring path.
func (s *Service) ProcessSubmission(ctx context.Context, review *reviews.Review) (*Outcome, error) {
	user, err := s.users.GetByID(ctx, review.AuthorID)
	if err != nil {
		return nil, err
	}

	// Streak folds in first so the multiplier sees today's activity.
	streak := users.NextStreak(user.Streak, s.now())
	if err := s.users.SetStreak(ctx, review.AuthorID, streak); err != nil {
		return nil, err
	}
	user.Streak = streak

	d := s.decide(ctx, review)

	// A removed review earns nothing and just eats the penalty. An accepted
	// one gets the aggregated score plus the decision adjustments, clamped
	// to non-negative here and only here.
	delta := d.adjustment
	if !d.shouldRemove {
		delta += s.scoreReview(ctx, review, user)
		if delta < 0 {
			delta = 0
		}
	}

	outcome, err := s.applyDecision(ctx, review, d, delta)
	if err != nil {
		return nil, err
	}

	if !d.shouldRemove {
		outcome.Feedback = s.provider.GenerateFeedback(ctx, review.Content)
	}

	s.updateProgress(ctx, review.AuthorID)

	return outcome, nil
}

// scoreReview runs engine + AI signals + credibility through the aggregator.
func (s *Service) scoreReview(ctx context.Context, review *reviews.Review, user *users.User) int {
	reviewIn := scoring.ReviewInput{
		Content:    review.Content,
		Title:      review.Title,
		Rating:     review.Rating,
		Likes:      len(review.Likes),
		Dislikes:   len(review.Dislikes),
		ReplyCount: len(review.Replies),
		CreatedAt:  review.CreatedAt,
	}
	burstCount, err := s.reviews.CountByAuthorSince(ctx, review.AuthorID, s.now().Add(-burstWindow))
	if err != nil {
		burstCount = 0
	}

	userIn := scoring.UserInput{
		GenreCount:          len(user.ReviewedGenres),
		BothFormats:         user.HasReviewedBothFormats(),
		HasDuplicateContent: user.HasDuplicateContent,
		ReviewStreak:        user.Streak.Current,
		ExtremeRatingRatio:  user.ExtremeRatingRatio,
		RecentReviewCount:   burstCount,
		AccountAgeDays:      user.AccountAgeDays(s.now()),
		AverageQuality:      user.AverageQuality,
	}

	rank, err := s.reviews.ReviewRank(ctx, review.MediaID, review.MediaType, review.CreatedAt)
	if err != nil {
		rank = 0
	}
	sctx := scoring.Context{ReviewRank: rank, Now: s.now()}

	base := s.strategy.ScoreBase(reviewIn)
	quality := s.provider.AnalyzeQuality(ctx, review.Content)
	authenticity := s.provider.AnalyzeAuthenticity(ctx, review.Content, review.Rating)

	var replyTexts []string
	for _, reply := range review.Replies {
		replyTexts = append(replyTexts, reply.Content)
	}
	engagement := s.provider.AnalyzeEngagement(ctx, replyTexts)

	credibility := scoring.ComputeCredibility(userIn)

	contentPoints := scoring.ScoreEngagement(reviewIn).Total +
		scoring.ScoreTiming(reviewIn, sctx).Total +
		scoring.ScoreDiversity(userIn).Total
	penalties := scoring.ScorePenalties(reviewIn, userIn).Total

	return scoring.FinalScore(scoring.FinalScoreInput{
		Base:             base,
		AIQualityScore:   quality.Score,
		EngagementPoints: engagement.Points,
		AuthenticityPts:  authenticity.Points,
		ContentPoints:    contentPoints,
		ContentPenalties: penalties,
		CredibilityScore: credibility.Score,
		ReviewStreakDays: user.Streak.Current,
	})
}

// applyDecision persists the verdict, applies the point delta and emits the
// audit record.
func (s *Service) applyDecision(ctx context.Context, review *reviews.Review, d decision, delta int) (*Outcome, error) {
	flagReason := strings.Join(d.warnings, "; ")

	if err := s.reviews.SetModerationOutcome(ctx, review.ID,
		d.shouldRemove, d.reason,
		!d.shouldRemove && d.shouldFlag, flagReason,
		botModerator,
	); err != nil {
		return nil, err
	}

	if delta != 0 {
		// The user repository clamps points at zero after the write, so a
		// penalty can never drive totals negative.
		if err := s.users.ApplyPointsDelta(ctx, review.AuthorID, delta); err != nil {
			return nil, err
		}
	}

	if d.dupDetected {
		_ = s.users.SetDuplicateContent(ctx, review.AuthorID)
	}
	if d.spamDetected {
		_ = s.users.BumpSpamScore(ctx, review.AuthorID, spamScoreBump)
	}

	action := "allowed"
	if d.shouldRemove {
		action = "removed"
	} else if d.shouldFlag {
		action = "flagged"
	}

	s.audit.Record(ctx, AuditEntry{
		Timestamp: s.now(),
		ReviewID:  review.ID,
		UserID:    review.AuthorID,
		Action:    action,
		Reason:    firstNonEmpty(d.reason, flagReason),
		Delta:     delta,
		Analysis:  d.analysis,
	})

	return &Outcome{
		Removed:       d.shouldRemove,
		Flagged:       !d.shouldRemove && d.shouldFlag,
		Reason:        firstNonEmpty(d.reason, flagReason),
		Warnings:      d.warnings,
		PointsAwarded: delta,
		Analysis:      d.analysis,
	}, nil
}

// updateProgress refreshes level and badges from the post-adjustment state.
// Levels only ever move up; badges are granted at most once each.
func (s *Service) updateProgress(ctx context.Context, userID primitive.ObjectID) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return
	}

	level := users.LevelForPoints(user.Points.Total)
	if level > user.Level {
		_ = s.users.SetLevel(ctx, userID, level)
	}

	if badges := users.EligibleBadges(user); len(badges) > 0 {
		_ = s.users.AddBadges(ctx, userID, badges)
	}
}

// ModerateReply runs the reduced pipeline over a reply: pattern checks only,
// no AI analyses. Removal pulls the reply out of the parent review.
func (s *Service) ModerateReply(ctx context.Context, review *reviews.Review, reply *reviews.Reply) (*Outcome, error) {
	var (
		remove     bool
		reason     string
		adjustment int
	)

	if DetectSpam(reply.Content) {
		remove = true
		adjustment += replySpamPenalty
		reason = "Spam detected"
	}
	if DetectOffensive(reply.Content) {
		remove = true
		adjustment += replyOffensivePenalty
		reason = "Offensive content detected"
	}

	if !remove && len(reply.Content) > 100 {
		adjustment += replyLengthBonus
	}

	if remove {
		if err := s.reviews.RemoveReply(ctx, review.ID, reply.ID); err != nil {
			return nil, err
		}
	}

	if adjustment != 0 {
		if err := s.users.ApplyPointsDelta(ctx, reply.AuthorID, adjustment); err != nil {
			return nil, err
		}
	}

	action := "allowed"
	if remove {
		action = "removed"
	}
	s.audit.Record(ctx, AuditEntry{
		Timestamp: s.now(),
		ReviewID:  review.ID,
		UserID:    reply.AuthorID,
		Action:    action,
		Reason:    reason,
		Delta:     adjustment,
	})

	return &Outcome{
		Removed:       remove,
		Reason:        reason,
		PointsAwarded: adjustment,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

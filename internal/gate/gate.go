package gate

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/adist/cinecircle/internal/pkg/ratelimit"
	"github.com/adist/cinecircle/internal/pkg/textsim"
)

// Submission limits. Review and reply traffic count against separate
// windows; a burst of replies never locks a user out of reviewing.
const (
	reviewsPerHour = 10
	repliesPerHour = 30

	reviewSpacing = 30 * time.Second
	replySpacing  = 10 * time.Second

	// Word-set similarity against the author's own recent reviews above
	// which a submission is rejected outright. The post-hoc moderation pass
	// uses a looser 0.8 and only flags.
	copyPasteThreshold = 0.7
	copyPasteHistory   = 5

	// Spam score above which all submissions are blocked until the score
	// decays or a moderator clears it.
	spamScoreCutoff = 80
)

// Rejection codes, for the handler to map onto HTTP statuses.
const (
	CodeRateLimited      = "RATE_LIMITED"
	CodeDuplicateContent = "DUPLICATE_CONTENT"
	CodeSpamRestricted   = "SPAM_RESTRICTED"
)

// Result is the gate verdict for one submission attempt. Wait is non-zero
// only for timing rejections and feeds the Retry-After header.
type Result struct {
	Allowed bool
	Reason  string
	Code    string
	Wait    time.Duration
}

func allowed() Result {
	return Result{Allowed: true}
}

func rejected(code, reason string, wait time.Duration) Result {
	return Result{Reason: reason, Code: code, Wait: wait}
}

// HistoryStore supplies the recent content the similarity checks compare
// against. Implemented by the reviews repository.
type HistoryStore interface {
	RecentReviewContents(ctx context.Context, authorID primitive.ObjectID, limit int) ([]string, error)
	ReplyContents(ctx context.Context, reviewID primitive.ObjectID) ([]string, error)
}

// Service is the pre-submission gate: cheap checks that run before anything
// is persisted or scored. All state is in-memory and per-instance except the
// content history, which comes from the store.
type Service struct {
	history HistoryStore

	reviewLimiter *ratelimit.RateLimiter
	replyLimiter  *ratelimit.RateLimiter
	lastReview    *ratelimit.ActionCache
	lastReply     *ratelimit.ActionCache
}

func NewService(history HistoryStore) *Service {
	s := &Service{
		history:       history,
		reviewLimiter: ratelimit.New(reviewsPerHour, time.Hour),
		replyLimiter:  ratelimit.New(repliesPerHour, time.Hour),
		lastReview:    ratelimit.NewActionCache(10000, time.Hour),
		lastReply:     ratelimit.NewActionCache(10000, time.Hour),
	}
	s.reviewLimiter.StartCleanup(10 * time.Minute)
	s.replyLimiter.StartCleanup(10 * time.Minute)
	return s
}

// CheckReview runs all review gate checks in cheapest-first order. It does
// not record the attempt; call RecordReview once the submission is accepted
// so rejected attempts don't eat quota.
func (s *Service) CheckReview(ctx context.Context, userID primitive.ObjectID, spamScore int, content string) Result {
	if spamScore > spamScoreCutoff {
		return rejected(CodeSpamRestricted, "Account is restricted from submitting due to spam activity", 0)
	}

	key := userID.Hex()

	if since, seen := s.lastReview.SinceLast(key); seen && since < reviewSpacing {
		return rejected(CodeRateLimited, "You are submitting too quickly", reviewSpacing-since)
	}

	if s.reviewLimiter.GetRemaining(key) == 0 {
		return rejected(CodeRateLimited, "Review limit reached, try again later", time.Until(s.reviewLimiter.GetResetTime(key)))
	}

	recent, err := s.history.RecentReviewContents(ctx, userID, copyPasteHistory)
	if err == nil {
		for _, previous := range recent {
			if textsim.Jaccard(content, previous) > copyPasteThreshold {
				return rejected(CodeDuplicateContent, "This review is too similar to one you already posted", 0)
			}
		}
	}

	return allowed()
}

// RecordReview counts an accepted review against the quota and spacing.
func (s *Service) RecordReview(userID primitive.ObjectID) {
	key := userID.Hex()
	s.reviewLimiter.Allow(key)
	s.lastReview.Record(key)
}

// CheckReply runs the reply gate checks: spam breaker, spacing, hourly quota
// and an exact (case-insensitive) duplicate check within the same thread.
func (s *Service) CheckReply(ctx context.Context, userID, reviewID primitive.ObjectID, spamScore int, content string) Result {
	if spamScore > spamScoreCutoff {
		return rejected(CodeSpamRestricted, "Account is restricted from submitting due to spam activity", 0)
	}

	key := userID.Hex()

	if since, seen := s.lastReply.SinceLast(key); seen && since < replySpacing {
		return rejected(CodeRateLimited, "You are replying too quickly", replySpacing-since)
	}

	if s.replyLimiter.GetRemaining(key) == 0 {
		return rejected(CodeRateLimited, "Reply limit reached, try again later", time.Until(s.replyLimiter.GetResetTime(key)))
	}

	existing, err := s.history.ReplyContents(ctx, reviewID)
	if err == nil {
		normalized := strings.ToLower(strings.TrimSpace(content))
		for _, previous := range existing {
			if strings.ToLower(strings.TrimSpace(previous)) == normalized {
				return rejected(CodeDuplicateContent, "An identical reply already exists on this review", 0)
			}
		}
	}

	return allowed()
}

// RecordReply counts an accepted reply against the quota and spacing.
func (s *Service) RecordReply(userID primitive.ObjectID) {
	key := userID.Hex()
	s.replyLimiter.Allow(key)
	s.lastReply.Record(key)
}

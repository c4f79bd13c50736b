package moderation

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/adist/cinecircle/internal/ai"
	"github.com/adist/cinecircle/internal/features/reviews"
	"github.com/adist/cinecircle/internal/features/users"
	"github.com/adist/cinecircle/internal/scoring"
)

// fakeReviewStore keeps reviews in memory and mirrors the repository's
// moderation semantics: SetModerationOutcome stamps moderatedAt, removed
// reviews are excluded from FindUnmoderated.
type fakeReviewStore struct {
	mu          sync.Mutex
	reviews     map[primitive.ObjectID]*reviews.Review
	rank        int
	recentCount int

	removedReplies []primitive.ObjectID
}

func newFakeReviewStore() *fakeReviewStore {
	return &fakeReviewStore{reviews: make(map[primitive.ObjectID]*reviews.Review), rank: 1}
}

func (s *fakeReviewStore) put(r *reviews.Review) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews[r.ID] = r
}

func (s *fakeReviewStore) GetByID(ctx context.Context, reviewID primitive.ObjectID) (*reviews.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := *s.reviews[reviewID]
	return &r, nil
}

func (s *fakeReviewStore) GetRecentByAuthor(ctx context.Context, authorID primitive.ObjectID, limit int) ([]reviews.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []reviews.Review
	for _, r := range s.reviews {
		if r.AuthorID == authorID && len(result) < limit {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (s *fakeReviewStore) SetModerationOutcome(ctx context.Context, reviewID primitive.ObjectID, removed bool, removalReason string, flagged bool, flagReason string, moderatedBy string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.reviews[reviewID]
	now := time.Now()
	r.IsRemoved = removed
	r.RemovalReason = removalReason
	r.IsFlagged = flagged
	r.FlagReason = flagReason
	r.ModeratedAt = &now
	r.ModeratedBy = moderatedBy
	return nil
}

func (s *fakeReviewStore) RemoveReply(ctx context.Context, reviewID, replyID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removedReplies = append(s.removedReplies, replyID)
	return nil
}

func (s *fakeReviewStore) FindUnmoderated(ctx context.Context, limit int) ([]reviews.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []reviews.Review
	for _, r := range s.reviews {
		if r.ModeratedAt == nil && !r.IsRemoved && len(result) < limit {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (s *fakeReviewStore) ReviewRank(ctx context.Context, mediaID int64, mediaType string, createdAt time.Time) (int, error) {
	return s.rank, nil
}

func (s *fakeReviewStore) CountByAuthorSince(ctx context.Context, authorID primitive.ObjectID, since time.Time) (int, error) {
	return s.recentCount, nil
}

// fakeUserStore mirrors the repository's clamp: points never go negative.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*users.User

	duplicateFlagged []primitive.ObjectID
	spamBumps        int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[primitive.ObjectID]*users.User)}
}

func (s *fakeUserStore) put(u *users.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *fakeUserStore) get(id primitive.ObjectID) users.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.users[id]
}

func (s *fakeUserStore) GetByID(ctx context.Context, userID primitive.ObjectID) (*users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := *s.users[userID]
	return &u, nil
}

func (s *fakeUserStore) ApplyPointsDelta(ctx context.Context, userID primitive.ObjectID, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[userID]
	u.Points.Total += delta
	u.Points.Available += delta
	if u.Points.Total < 0 {
		u.Points.Total = 0
	}
	if u.Points.Available < 0 {
		u.Points.Available = 0
	}
	return nil
}

func (s *fakeUserStore) SetLevel(ctx context.Context, userID primitive.ObjectID, level int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if level > s.users[userID].Level {
		s.users[userID].Level = level
	}
	return nil
}

func (s *fakeUserStore) AddBadges(ctx context.Context, userID primitive.ObjectID, badges []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[userID]
	for _, b := range badges {
		if !u.HasBadge(b) {
			u.Badges = append(u.Badges, b)
		}
	}
	return nil
}

func (s *fakeUserStore) SetStreak(ctx context.Context, userID primitive.ObjectID, streak users.Streak) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[userID].Streak = streak
	return nil
}

func (s *fakeUserStore) SetDuplicateContent(ctx context.Context, userID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[userID].HasDuplicateContent = true
	s.duplicateFlagged = append(s.duplicateFlagged, userID)
	return nil
}

func (s *fakeUserStore) BumpSpamScore(ctx context.Context, userID primitive.ObjectID, by int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[userID]
	u.SpamScore += by
	if u.SpamScore > 100 {
		u.SpamScore = 100
	}
	s.spamBumps++
	return nil
}

// fakeProvider returns fixed analyses; block, when set, stalls AnalyzeContent
// until released so tests can hold a batch mid-flight.
type fakeProvider struct {
	content      ai.ContentAnalysis
	quality      ai.QualityAnalysis
	authenticity ai.AuthenticityAnalysis
	engagement   ai.EngagementAnalysis
	feedback     string

	block   chan struct{}
	started chan struct{}
}

func (p *fakeProvider) AnalyzeQuality(ctx context.Context, content string) ai.QualityAnalysis {
	return p.quality
}

func (p *fakeProvider) AnalyzeAuthenticity(ctx context.Context, content string, rating int) ai.AuthenticityAnalysis {
	return p.authenticity
}

func (p *fakeProvider) AnalyzeEngagement(ctx context.Context, replies []string) ai.EngagementAnalysis {
	return p.engagement
}

func (p *fakeProvider) AnalyzeContent(ctx context.Context, content string) ai.ContentAnalysis {
	if p.started != nil {
		select {
		case p.started <- struct{}{}:
		default:
		}
	}
	if p.block != nil {
		<-p.block
	}
	return p.content
}

func (p *fakeProvider) GenerateFeedback(ctx context.Context, content string) string {
	return p.feedback
}

func newTestService(reviewStore *fakeReviewStore, userStore *fakeUserStore, provider *fakeProvider) *Service {
	return NewService(
		reviewStore,
		userStore,
		provider,
		scoring.AIAugmentedStrategy{},
		NewAuditor(zap.NewNop(), nil),
		0,
	)
}

func seedUser(userStore *fakeUserStore) *users.User {
	user := &users.User{
		ID:        primitive.NewObjectID(),
		Username:  "reviewer",
		CreatedAt: time.Now().AddDate(0, -6, 0),
		Level:     1,
	}
	userStore.put(user)
	return user
}

func seedReview(reviewStore *fakeReviewStore, authorID primitive.ObjectID, content string) *reviews.Review {
	review := &reviews.Review{
		ID:        primitive.NewObjectID(),
		MediaID:   603,
		MediaType: reviews.MediaTypeMovie,
		AuthorID:  authorID,
		Content:   content,
		Rating:    7,
		CreatedAt: time.Now(),
	}
	reviewStore.put(review)
	return review
}

func TestSpamReviewIsRemovedAndPenalized(t *testing.T) {
	reviewStore := newFakeReviewStore()
	userStore := newFakeUserStore()
	provider := &fakeProvider{}

	user := seedUser(userStore)
	userStore.users[user.ID].Points = users.Points{Total: 300, Available: 300}
	review := seedReview(reviewStore, user.ID, "BUY NOW!!!! amazing deal, click here http://spam.example cheap today")

	svc := newTestService(reviewStore, userStore, provider)
	outcome, err := svc.ProcessSubmission(context.Background(), review)
	require.NoError(t, err)

	require.True(t, outcome.Removed)
	require.Equal(t, "Spam detected", outcome.Reason)
	require.Equal(t, -50, outcome.PointsAwarded)
	require.Empty(t, outcome.Feedback)

	stored, _ := reviewStore.GetByID(context.Background(), review.ID)
	require.True(t, stored.IsRemoved)
	require.Equal(t, "Spam detected", stored.RemovalReason)
	require.Equal(t, "points-bot", stored.ModeratedBy)
	require.NotNil(t, stored.ModeratedAt)

	after := userStore.get(user.ID)
	require.Equal(t, 250, after.Points.Total)
	require.Equal(t, 25, after.SpamScore)
}

func TestRemovalPenaltyNeverDrivesPointsNegative(t *testing.T) {
	reviewStore := newFakeReviewStore()
	userStore := newFakeUserStore()
	provider := &fakeProvider{}

	user := seedUser(userStore)
	userStore.users[user.ID].Points = users.Points{Total: 10, Available: 10}
	review := seedReview(reviewStore, user.ID, "kill yourself")

	svc := newTestService(reviewStore, userStore, provider)
	outcome, err := svc.ProcessSubmission(context.Background(), review)
	require.NoError(t, err)

	require.True(t, outcome.Removed)
	require.Negative(t, outcome.PointsAwarded)

	after := userStore.get(user.ID)
	require.Zero(t, after.Points.Total)
	require.Zero(t, after.Points.Available)
}

func TestAcceptedReviewAwardIsClampedAtZero(t *testing.T) {
	reviewStore := newFakeReviewStore()
	userStore := newFakeUserStore()
	// low-effort penalty, no quality bonus, and a tiny base: the negative
	// adjustment outweighs the score but the award floors at zero
	provider := &fakeProvider{content: ai.ContentAnalysis{IsLowEffort: true, QualityScore: 10}}

	user := seedUser(userStore)
	review := seedReview(reviewStore, user.ID, "it was fine i guess but")
	review.Rating = 10
	reviewStore.rank = 500

	svc := newTestService(reviewStore, userStore, provider)
	outcome, err := svc.ProcessSubmission(context.Background(), review)
	require.NoError(t, err)

	require.False(t, outcome.Removed)
	require.GreaterOrEqual(t, outcome.PointsAwarded, 0)
}

func TestUnmarkedSpoilerIsFlaggedAndPenalized(t *testing.T) {
	reviewStore := newFakeReviewStore()
	userStore := newFakeUserStore()
	provider := &fakeProvider{content: ai.ContentAnalysis{HasSpoiler: true}}

	user := seedUser(userStore)
	review := seedReview(reviewStore, user.ID, "And then the main character dies at the end, what a twist that was to see")
	review.Spoiler = false

	svc := newTestService(reviewStore, userStore, provider)
	outcome, err := svc.ModerateReview(context.Background(), review)
	require.NoError(t, err)

	require.False(t, outcome.Removed)
	require.True(t, outcome.Flagged)
	require.Contains(t, outcome.Warnings, "Unmarked spoiler detected")
	require.Equal(t, -15, outcome.PointsAwarded)

	stored, _ := reviewStore.GetByID(context.Background(), review.ID)
	require.True(t, stored.IsFlagged)
	require.False(t, stored.IsRemoved)
}

func TestMarkedSpoilerIsNeutral(t *testing.T) {
	reviewStore := newFakeReviewStore()
	userStore := newFakeUserStore()
	provider := &fakeProvider{content: ai.ContentAnalysis{HasSpoiler: true}}

	user := seedUser(userStore)
	review := seedReview(reviewStore, user.ID, "And then the main character dies at the end, what a twist that was to see")
	review.Spoiler = true

	svc := newTestService(reviewStore, userStore, provider)
	outcome, err := svc.ModerateReview(context.Background(), review)
	require.NoError(t, err)

	require.False(t, outcome.Flagged)
	require.Zero(t, outcome.PointsAwarded)
}

func TestQualityBonusTiers(t *testing.T) {
	tests := []struct {
		quality  int
		expected int
	}{
		{50, 0},
		{60, 10},
		{75, 20},
		{90, 30},
	}

	for _, tt := range tests {
		reviewStore := newFakeReviewStore()
		userStore := newFakeUserStore()
		provider := &fakeProvider{content: ai.ContentAnalysis{QualityScore: tt.quality}}

		user := seedUser(userStore)
		review := seedReview(reviewStore, user.ID, "A perfectly reasonable review body with enough text to pass checks")

		svc := newTestService(reviewStore, userStore, provider)
		outcome, err := svc.ModerateReview(context.Background(), review)
		require.NoError(t, err)
		require.Equal(t, tt.expected, outcome.PointsAwarded, "quality %d", tt.quality)
	}
}

func TestDuplicateContentFlagIsPermanent(t *testing.T) {
	reviewStore := newFakeReviewStore()
	userStore := newFakeUserStore()
	provider := &fakeProvider{}

	user := seedUser(userStore)
	original := seedReview(reviewStore, user.ID, "This movie was absolutely fantastic and the cinematography really stunned me throughout")
	_ = original

	duplicate := seedReview(reviewStore, user.ID, "This movie was absolutely fantastic and the cinematography really stunned me throughout!")

	svc := newTestService(reviewStore, userStore, provider)
	outcome, err := svc.ModerateReview(context.Background(), duplicate)
	require.NoError(t, err)

	require.True(t, outcome.Flagged)
	require.Contains(t, outcome.Warnings, "Duplicate content detected")
	require.True(t, userStore.get(user.ID).HasDuplicateContent)

	// a later clean review does not clear the flag
	clean := seedReview(reviewStore, user.ID, "An entirely different take on an entirely different film with new words")
	_, err = svc.ModerateReview(context.Background(), clean)
	require.NoError(t, err)
	require.True(t, userStore.get(user.ID).HasDuplicateContent)
}

func TestProcessSubmissionStartsStreakAndProgress(t *testing.T) {
	reviewStore := newFakeReviewStore()
	userStore := newFakeUserStore()
	provider := &fakeProvider{
		content:      ai.ContentAnalysis{QualityScore: 80, IsConstructive: true},
		quality:      ai.QualityAnalysis{Score: 0.9, Points: 85},
		authenticity: ai.AuthenticityAnalysis{Alignment: 0.9, Points: 60, Authentic: true},
		feedback:     "Nice write-up.",
	}

	user := seedUser(userStore)
	userStore.users[user.ID].ReviewCount = 1
	review := seedReview(reviewStore, user.ID, strings.Repeat("An engaging and detailed analysis. ", 15))

	svc := newTestService(reviewStore, userStore, provider)
	outcome, err := svc.ProcessSubmission(context.Background(), review)
	require.NoError(t, err)

	require.False(t, outcome.Removed)
	require.Positive(t, outcome.PointsAwarded)
	require.Equal(t, "Nice write-up.", outcome.Feedback)

	after := userStore.get(user.ID)
	require.Equal(t, 1, after.Streak.Current)
	require.Contains(t, after.Badges, users.BadgeFirstReview)
	require.Equal(t, after.Points.Total, outcome.PointsAwarded)
	require.Equal(t, users.LevelForPoints(after.Points.Total), after.Level)
}

func TestBurstFactorIgnoresLifetimeReviewCount(t *testing.T) {
	reviewStore := newFakeReviewStore()
	userStore := newFakeUserStore()
	provider := &fakeProvider{
		quality:      ai.QualityAnalysis{Score: 1.0, Points: 100},
		authenticity: ai.AuthenticityAnalysis{Alignment: 1.0, Points: 100, Authentic: true},
	}

	// prolific but not bursting: 25 lifetime reviews, none in the window
	user := seedUser(userStore)
	userStore.users[user.ID].ReviewCount = 25
	review := seedReview(reviewStore, user.ID, "A measured take on the pacing and the lead performance overall")

	svc := newTestService(reviewStore, userStore, provider)
	outcome, err := svc.ProcessSubmission(context.Background(), review)
	require.NoError(t, err)

	// base 10 + authenticity 100 at full credibility + early reviewer 25
	require.Equal(t, 135, outcome.PointsAwarded)
}

func TestBurstFactorAppliesOnRecentSpike(t *testing.T) {
	reviewStore := newFakeReviewStore()
	userStore := newFakeUserStore()
	provider := &fakeProvider{
		quality:      ai.QualityAnalysis{Score: 1.0, Points: 100},
		authenticity: ai.AuthenticityAnalysis{Alignment: 1.0, Points: 100, Authentic: true},
	}

	user := seedUser(userStore)
	review := seedReview(reviewStore, user.ID, "A measured take on the pacing and the lead performance overall")
	reviewStore.recentCount = 25

	svc := newTestService(reviewStore, userStore, provider)
	outcome, err := svc.ProcessSubmission(context.Background(), review)
	require.NoError(t, err)

	// authenticity scaled 100 -> 60 by the burst factor
	require.Equal(t, 95, outcome.PointsAwarded)
}

func TestModerateReplySpamIsRemoved(t *testing.T) {
	reviewStore := newFakeReviewStore()
	userStore := newFakeUserStore()
	provider := &fakeProvider{}

	author := seedUser(userStore)
	replier := seedUser(userStore)
	userStore.users[replier.ID].Points = users.Points{Total: 100, Available: 100}
	review := seedReview(reviewStore, author.ID, "A normal review with plenty of words in it for everyone to read")

	reply := &reviews.Reply{
		ID:       primitive.NewObjectID(),
		AuthorID: replier.ID,
		Content:  "check out my channel http://spam.example",
	}

	svc := newTestService(reviewStore, userStore, provider)
	outcome, err := svc.ModerateReply(context.Background(), review, reply)
	require.NoError(t, err)

	require.True(t, outcome.Removed)
	require.Equal(t, -20, outcome.PointsAwarded)
	require.Contains(t, reviewStore.removedReplies, reply.ID)
	require.Equal(t, 80, userStore.get(replier.ID).Points.Total)
}

func TestModerateReplyLengthBonus(t *testing.T) {
	reviewStore := newFakeReviewStore()
	userStore := newFakeUserStore()
	provider := &fakeProvider{}

	author := seedUser(userStore)
	replier := seedUser(userStore)
	review := seedReview(reviewStore, author.ID, "A normal review with plenty of words in it for everyone to read")

	reply := &reviews.Reply{
		ID:       primitive.NewObjectID(),
		AuthorID: replier.ID,
		Content:  strings.Repeat("A thoughtful point about the pacing. ", 4),
	}

	svc := newTestService(reviewStore, userStore, provider)
	outcome, err := svc.ModerateReply(context.Background(), review, reply)
	require.NoError(t, err)

	require.False(t, outcome.Removed)
	require.Equal(t, 5, outcome.PointsAwarded)
	require.Empty(t, reviewStore.removedReplies)
}

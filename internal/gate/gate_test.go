package gate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeHistory struct {
	reviewContents []string
	replyContents  []string
}

func (f *fakeHistory) RecentReviewContents(ctx context.Context, authorID primitive.ObjectID, limit int) ([]string, error) {
	if limit < len(f.reviewContents) {
		return f.reviewContents[:limit], nil
	}
	return f.reviewContents, nil
}

func (f *fakeHistory) ReplyContents(ctx context.Context, reviewID primitive.ObjectID) ([]string, error) {
	return f.replyContents, nil
}

func TestCheckReviewAllowsCleanSubmission(t *testing.T) {
	svc := NewService(&fakeHistory{})
	result := svc.CheckReview(context.Background(), primitive.NewObjectID(), 0, "A perfectly ordinary review about an ordinary film")
	require.True(t, result.Allowed)
}

func TestCheckReviewRejectsCopyPaste(t *testing.T) {
	history := &fakeHistory{reviewContents: []string{
		"This movie was absolutely fantastic and the cinematography really stunned me throughout",
	}}
	svc := NewService(history)

	result := svc.CheckReview(context.Background(), primitive.NewObjectID(), 0,
		"This movie was absolutely fantastic and the cinematography really stunned me throughout!!")
	require.False(t, result.Allowed)
	require.Equal(t, CodeDuplicateContent, result.Code)
	require.Zero(t, result.Wait)
}

func TestCheckReviewAllowsDifferentContent(t *testing.T) {
	history := &fakeHistory{reviewContents: []string{
		"This movie was absolutely fantastic and the cinematography really stunned me throughout",
	}}
	svc := NewService(history)

	result := svc.CheckReview(context.Background(), primitive.NewObjectID(), 0,
		"A slow burn character study that rewards patience with a devastating final act")
	require.True(t, result.Allowed)
}

func TestCheckReviewHourlyQuota(t *testing.T) {
	svc := NewService(&fakeHistory{})
	userID := primitive.NewObjectID()

	// exhaust the quota without tripping the spacing check
	for i := 0; i < reviewsPerHour; i++ {
		svc.reviewLimiter.Allow(userID.Hex())
	}

	result := svc.CheckReview(context.Background(), userID, 0, "The eleventh review within the hour should not pass")
	require.False(t, result.Allowed)
	require.Equal(t, CodeRateLimited, result.Code)
	require.Positive(t, result.Wait)
}

func TestCheckReviewSpacing(t *testing.T) {
	svc := NewService(&fakeHistory{})
	userID := primitive.NewObjectID()

	svc.RecordReview(userID)

	result := svc.CheckReview(context.Background(), userID, 0, "An immediate follow-up review fired right after the first one")
	require.False(t, result.Allowed)
	require.Equal(t, CodeRateLimited, result.Code)
	require.Positive(t, result.Wait)
	require.LessOrEqual(t, result.Wait, reviewSpacing)
}

func TestCheckReviewSpamScoreBreaker(t *testing.T) {
	svc := NewService(&fakeHistory{})

	result := svc.CheckReview(context.Background(), primitive.NewObjectID(), 81, "Any content at all is blocked for restricted accounts")
	require.False(t, result.Allowed)
	require.Equal(t, CodeSpamRestricted, result.Code)

	// at the threshold the account still passes
	result = svc.CheckReview(context.Background(), primitive.NewObjectID(), 80, "Borderline accounts are still allowed to submit reviews")
	require.True(t, result.Allowed)
}

func TestRejectedAttemptsDoNotConsumeQuota(t *testing.T) {
	svc := NewService(&fakeHistory{})
	userID := primitive.NewObjectID()

	for i := 0; i < 5; i++ {
		result := svc.CheckReview(context.Background(), userID, 100, "blocked")
		require.False(t, result.Allowed)
	}

	require.Equal(t, reviewsPerHour, svc.reviewLimiter.GetRemaining(userID.Hex()))
}

func TestCheckReplyExactDuplicate(t *testing.T) {
	history := &fakeHistory{replyContents: []string{"Totally agree with this take"}}
	svc := NewService(history)

	result := svc.CheckReply(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), 0, "  totally AGREE with this take ")
	require.False(t, result.Allowed)
	require.Equal(t, CodeDuplicateContent, result.Code)

	result = svc.CheckReply(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), 0, "Totally agree, and the score deserves a mention too")
	require.True(t, result.Allowed)
}

func TestCheckReplySpacing(t *testing.T) {
	svc := NewService(&fakeHistory{})
	userID := primitive.NewObjectID()

	svc.RecordReply(userID)

	result := svc.CheckReply(context.Background(), userID, primitive.NewObjectID(), 0, "Another reply straight away")
	require.False(t, result.Allowed)
	require.Equal(t, CodeRateLimited, result.Code)
}

func TestReviewAndReplyQuotasAreIndependent(t *testing.T) {
	svc := NewService(&fakeHistory{})
	userID := primitive.NewObjectID()

	for i := 0; i < reviewsPerHour; i++ {
		svc.reviewLimiter.Allow(userID.Hex())
	}

	result := svc.CheckReply(context.Background(), userID, primitive.NewObjectID(), 0, "Replies still flow when reviews are exhausted")
	require.True(t, result.Allowed)
}

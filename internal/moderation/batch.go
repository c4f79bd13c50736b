package moderation

import (
	"context"
	"time"

	"github.com/adist/cinecircle/internal/pkg/logger"
	pkgerrors "github.com/adist/cinecircle/pkg/errors"
)

// BatchSummary reports what one batch run did.
type BatchSummary struct {
	Processed      int `json:"processed"`
	Removed        int `json:"removed"`
	Flagged        int `json:"flagged"`
	PointsAdjusted int `json:"pointsAdjusted"`
}

// RunBatch moderates up to limit of the oldest still-unmoderated, non-removed
// reviews, sequentially, sleeping batchDelay between items to stay friendly
// to the provider's rate limits. Overlapping invocations are skipped and
// return ErrBatchBusy immediately without querying anything.
func (s *Service) RunBatch(ctx context.Context, limit int) (*BatchSummary, error) {
	if !s.running.CompareAndSwap(false, true) {
		logger.Warn("moderation batch tick skipped: previous run still in progress")
		return nil, pkgerrors.ErrBatchBusy
	}
	defer s.running.Store(false)

	if limit <= 0 {
		limit = 50
	}

	// moderatedAt-set reviews are excluded by the query, which is what makes
	// repeated runs safe.
	pending, err := s.reviews.FindUnmoderated(ctx, limit)
	if err != nil {
		return nil, err
	}

	summary := &BatchSummary{}
	for i := range pending {
		review := pending[i]

		outcome, err := s.ModerateReview(ctx, &review)
		if err != nil {
			logger.Error("batch moderation failed for review %s: %v", review.ID.Hex(), err)
			continue
		}

		summary.Processed++
		if outcome.Removed {
			summary.Removed++
		}
		if outcome.Flagged {
			summary.Flagged++
		}
		if outcome.PointsAwarded != 0 {
			summary.PointsAdjusted++
		}

		if i < len(pending)-1 && s.batchDelay > 0 {
			select {
			case <-ctx.Done():
				return summary, ctx.Err()
			case <-time.After(s.batchDelay):
			}
		}
	}

	logger.Info("moderation batch done: processed=%d removed=%d flagged=%d adjusted=%d",
		summary.Processed, summary.Removed, summary.Flagged, summary.PointsAdjusted)

	return summary, nil
}

// RunOnce is the manual/admin trigger: one batch run with the default limit.
func (s *Service) RunOnce(ctx context.Context) (*BatchSummary, error) {
	return s.RunBatch(ctx, 50)
}

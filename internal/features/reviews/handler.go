package reviews

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/adist/cinecircle/internal/features/users"
	"github.com/adist/cinecircle/internal/gate"
	"github.com/adist/cinecircle/internal/pkg/response"
	pkgerrors "github.com/adist/cinecircle/pkg/errors"
)

type Handler struct {
	repo      *Repository
	usersRepo *users.Repository
	gate      *gate.Service
	moderator Moderator
}

func NewHandler(repo *Repository, usersRepo *users.Repository, gateService *gate.Service, moderator Moderator) *Handler {
	return &Handler{
		repo:      repo,
		usersRepo: usersRepo,
		gate:      gateService,
		moderator: moderator,
	}
}

// SubmitReview godoc
// @Summary Submit a review
// @Description Submit a review for a movie or TV show; runs the moderation pipeline and awards points synchronously
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateReviewRequest true "Review"
// @Success 201 {object} response.SuccessResponse{data=SubmitReviewResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 429 {object} response.ErrorResponse
// @Router /reviews [post]
func (h *Handler) SubmitReview(c *gin.Context) {
	usr, exists := c.Get("user")
	if !exists {
		response.Unauthorized(c, "Authentication required", "UNAUTHORIZED")
		return
	}
	currentUser := usr.(*users.User)

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format", "INVALID_REQUEST")
		return
	}

	if err := ValidateCreateReviewRequest(&req); err != nil {
		response.BadRequest(c, err.Error(), "VALIDATION_FAILED")
		return
	}

	result := h.gate.CheckReview(c.Request.Context(), currentUser.ID, currentUser.SpamScore, req.Content)
	if !result.Allowed {
		h.respondGateRejection(c, result)
		return
	}

	review := &Review{
		MediaID:   req.MediaID,
		MediaType: req.MediaType,
		Genres:    req.Genres,
		AuthorID:  currentUser.ID,
		Title:     req.Title,
		Content:   req.Content,
		Rating:    req.Rating,
		Spoiler:   req.Spoiler,
	}

	if err := h.repo.Create(c.Request.Context(), review); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicate) {
			response.Conflict(c, "You already reviewed this title", "ALREADY_REVIEWED")
			return
		}
		response.DatabaseError(c, "Failed to create review")
		return
	}

	h.gate.RecordReview(currentUser.ID)

	// History aggregates feed the diversity and credibility scoring, so
	// they fold in before the pipeline runs.
	_ = h.usersRepo.RecordReviewActivity(c.Request.Context(), currentUser.ID, req.Genres, req.MediaType, len(req.Content))

	outcome, err := h.moderator.ProcessSubmission(c.Request.Context(), review)
	if err != nil {
		response.InternalServerError(c, "Failed to process review", "MODERATION_FAILED")
		return
	}

	stored, err := h.repo.GetByID(c.Request.Context(), review.ID)
	if err != nil {
		stored = review
	}

	response.Created(c, SubmitReviewResponse{
		Review:        buildReviewResponse(stored),
		PointsAwarded: outcome.PointsAwarded,
		Removed:       outcome.Removed,
		Flagged:       outcome.Flagged,
		Reason:        outcome.Reason,
	})
}

// ListReviews godoc
// @Summary List reviews for a media item
// @Description Get paginated reviews for one movie or TV show; removed reviews are excluded
// @Tags reviews
// @Produce json
// @Param mediaType path string true "Media type: movie or tv"
// @Param mediaId path int true "Media ID"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Items per page (default 20, max 50)"
// @Param sort query string false "Sort: newest, oldest, top (default newest)"
// @Success 200 {object} response.PaginatedResponse{data=[]ReviewResponse}
// @Failure 400 {object} response.ErrorResponse
// @Router /media/{mediaType}/{mediaId}/reviews [get]
func (h *Handler) ListReviews(c *gin.Context) {
	mediaType := c.Param("mediaType")
	if mediaType != MediaTypeMovie && mediaType != MediaTypeTV {
		response.BadRequest(c, "mediaType must be 'movie' or 'tv'", "INVALID_MEDIA_TYPE")
		return
	}

	mediaID, err := strconv.ParseInt(c.Param("mediaId"), 10, 64)
	if err != nil || mediaID <= 0 {
		response.BadRequest(c, "Invalid media ID", "INVALID_ID")
		return
	}

	var query ReviewListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters", "INVALID_QUERY")
		return
	}

	if err := ValidateReviewListQuery(&query); err != nil {
		response.BadRequest(c, err.Error(), "INVALID_QUERY")
		return
	}

	result, total, err := h.repo.GetByMedia(c.Request.Context(), mediaID, mediaType, query.Sort, query.Page, query.Limit)
	if err != nil {
		response.DatabaseError(c, "Failed to fetch reviews")
		return
	}

	responses := make([]ReviewResponse, len(result))
	for i := range result {
		responses[i] = buildReviewResponse(&result[i])
	}

	response.Paginated(c, responses, total, query.Limit, query.Page)
}

// GetReview godoc
// @Summary Get single review
// @Description Get review by ID
// @Tags reviews
// @Produce json
// @Param id path string true "Review ID"
// @Success 200 {object} response.SuccessResponse{data=ReviewResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /reviews/{id} [get]
func (h *Handler) GetReview(c *gin.Context) {
	reviewID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid review ID", "INVALID_ID")
		return
	}

	review, err := h.repo.GetByID(c.Request.Context(), reviewID)
	if err != nil || review.IsRemoved {
		response.NotFound(c, "Review not found", "REVIEW_NOT_FOUND")
		return
	}

	response.Success(c, buildReviewResponse(review))
}

// DeleteReview godoc
// @Summary Delete own review
// @Description Permanently delete a review; author only
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /reviews/{id} [delete]
func (h *Handler) DeleteReview(c *gin.Context) {
	usr, exists := c.Get("user")
	if !exists {
		response.Unauthorized(c, "Authentication required", "UNAUTHORIZED")
		return
	}
	currentUser := usr.(*users.User)

	reviewID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid review ID", "INVALID_ID")
		return
	}

	review, err := h.repo.GetByID(c.Request.Context(), reviewID)
	if err != nil {
		response.NotFound(c, "Review not found", "REVIEW_NOT_FOUND")
		return
	}

	if review.AuthorID != currentUser.ID {
		response.Forbidden(c, "Cannot delete others' reviews", "FORBIDDEN")
		return
	}

	if err := h.repo.Delete(c.Request.Context(), reviewID); err != nil {
		response.DatabaseError(c, "Failed to delete review")
		return
	}

	response.Success(c, gin.H{"message": "Review deleted successfully"})
}

// Vote godoc
// @Summary Vote on a review
// @Description Like, dislike or clear your vote on a review
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Param request body VoteRequest true "Vote action"
// @Success 200 {object} response.SuccessResponse{data=ReviewResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /reviews/{id}/vote [post]
func (h *Handler) Vote(c *gin.Context) {
	usr, exists := c.Get("user")
	if !exists {
		response.Unauthorized(c, "Authentication required", "UNAUTHORIZED")
		return
	}
	currentUser := usr.(*users.User)

	reviewID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid review ID", "INVALID_ID")
		return
	}

	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format", "INVALID_REQUEST")
		return
	}

	if err := ValidateVoteRequest(&req); err != nil {
		response.BadRequest(c, err.Error(), "INVALID_ACTION")
		return
	}

	review, err := h.repo.GetByID(c.Request.Context(), reviewID)
	if err != nil || review.IsRemoved {
		response.NotFound(c, "Review not found", "REVIEW_NOT_FOUND")
		return
	}

	if review.AuthorID == currentUser.ID {
		response.Forbidden(c, "Cannot vote on your own review", "SELF_VOTE")
		return
	}

	if err := h.repo.Vote(c.Request.Context(), reviewID, currentUser.ID, req.Action); err != nil {
		response.DatabaseError(c, "Failed to record vote")
		return
	}

	updated, err := h.repo.GetByID(c.Request.Context(), reviewID)
	if err != nil {
		response.DatabaseError(c, "Failed to fetch review")
		return
	}

	response.Success(c, buildReviewResponse(updated))
}

// AddReply godoc
// @Summary Reply to a review
// @Description Add a reply to a review; replies pass the reduced moderation pipeline
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Param request body CreateReplyRequest true "Reply content"
// @Success 201 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 429 {object} response.ErrorResponse
// @Router /reviews/{id}/replies [post]
func (h *Handler) AddReply(c *gin.Context) {
	usr, exists := c.Get("user")
	if !exists {
		response.Unauthorized(c, "Authentication required", "UNAUTHORIZED")
		return
	}
	currentUser := usr.(*users.User)

	reviewID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid review ID", "INVALID_ID")
		return
	}

	var req CreateReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format", "INVALID_REQUEST")
		return
	}

	if err := ValidateCreateReplyRequest(&req); err != nil {
		response.BadRequest(c, err.Error(), "VALIDATION_FAILED")
		return
	}

	review, err := h.repo.GetByID(c.Request.Context(), reviewID)
	if err != nil || review.IsRemoved {
		response.NotFound(c, "Review not found", "REVIEW_NOT_FOUND")
		return
	}

	result := h.gate.CheckReply(c.Request.Context(), currentUser.ID, reviewID, currentUser.SpamScore, req.Content)
	if !result.Allowed {
		h.respondGateRejection(c, result)
		return
	}

	reply := &Reply{
		AuthorID: currentUser.ID,
		Content:  req.Content,
	}

	if err := h.repo.AddReply(c.Request.Context(), reviewID, reply); err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			response.NotFound(c, "Review not found", "REVIEW_NOT_FOUND")
			return
		}
		response.DatabaseError(c, "Failed to add reply")
		return
	}

	h.gate.RecordReply(currentUser.ID)

	outcome, err := h.moderator.ProcessReply(c.Request.Context(), review, reply)
	if err != nil {
		response.InternalServerError(c, "Failed to process reply", "MODERATION_FAILED")
		return
	}

	response.Created(c, gin.H{
		"reply":         reply,
		"removed":       outcome.Removed,
		"reason":        outcome.Reason,
		"pointsAwarded": outcome.PointsAwarded,
	})
}

func (h *Handler) respondGateRejection(c *gin.Context, result gate.Result) {
	switch result.Code {
	case gate.CodeSpamRestricted:
		response.Forbidden(c, result.Reason, gate.CodeSpamRestricted)
	case gate.CodeDuplicateContent:
		response.Conflict(c, result.Reason, gate.CodeDuplicateContent)
	default:
		retryAfter := ""
		if result.Wait > 0 {
			retryAfter = strconv.Itoa(int(result.Wait.Seconds()) + 1)
		}
		response.TooManyRequests(c, result.Reason, retryAfter)
	}
}

func buildReviewResponse(review *Review) ReviewResponse {
	replies := review.Replies
	if replies == nil {
		replies = []Reply{}
	}
	return ReviewResponse{
		ID:           review.ID,
		MediaID:      review.MediaID,
		MediaType:    review.MediaType,
		AuthorID:     review.AuthorID,
		Title:        review.Title,
		Content:      review.Content,
		Rating:       review.Rating,
		Spoiler:      review.Spoiler,
		LikeCount:    len(review.Likes),
		DislikeCount: len(review.Dislikes),
		Replies:      replies,
		IsFlagged:    review.IsFlagged,
		CreatedAt:    review.CreatedAt,
	}
}

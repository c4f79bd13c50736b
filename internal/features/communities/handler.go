package communities

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/adist/cinecircle/internal/features/users"
	"github.com/adist/cinecircle/internal/pkg/response"
	pkgerrors "github.com/adist/cinecircle/pkg/errors"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// CreateCommunity godoc
// @Summary Create a community
// @Description Create a topic community; the creator joins automatically
// @Tags communities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCommunityRequest true "Community"
// @Success 201 {object} response.SuccessResponse{data=CommunityResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /communities [post]
func (h *Handler) CreateCommunity(c *gin.Context) {
	usr, exists := c.Get("user")
	if !exists {
		response.Unauthorized(c, "Authentication required", "UNAUTHORIZED")
		return
	}
	currentUser := usr.(*users.User)

	var req CreateCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format", "INVALID_REQUEST")
		return
	}

	if err := ValidateCreateCommunityRequest(&req); err != nil {
		response.BadRequest(c, err.Error(), "VALIDATION_FAILED")
		return
	}

	community := &Community{
		Name:        req.Name,
		Description: req.Description,
		CreatorID:   currentUser.ID,
	}

	if err := h.repo.Create(c.Request.Context(), community); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicate) {
			response.Conflict(c, "A community with this name already exists", "NAME_TAKEN")
			return
		}
		response.DatabaseError(c, "Failed to create community")
		return
	}

	response.Created(c, buildCommunityResponse(community, true))
}

// ListCommunities godoc
// @Summary List communities
// @Description Get paginated communities ordered by member count
// @Tags communities
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Items per page (default 20, max 50)"
// @Success 200 {object} response.PaginatedResponse{data=[]CommunityResponse}
// @Router /communities [get]
func (h *Handler) ListCommunities(c *gin.Context) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters", "INVALID_QUERY")
		return
	}
	_ = ValidateListQuery(&query)

	var currentUserID *primitive.ObjectID
	if usr, exists := c.Get("user"); exists {
		if user, ok := usr.(*users.User); ok {
			currentUserID = &user.ID
		}
	}

	result, total, err := h.repo.List(c.Request.Context(), query.Page, query.Limit)
	if err != nil {
		response.DatabaseError(c, "Failed to fetch communities")
		return
	}

	responses := make([]CommunityResponse, len(result))
	for i := range result {
		isMember := false
		if currentUserID != nil {
			for _, member := range result[i].Members {
				if member == *currentUserID {
					isMember = true
					break
				}
			}
		}
		responses[i] = buildCommunityResponse(&result[i], isMember)
	}

	response.Paginated(c, responses, total, query.Limit, query.Page)
}

// GetCommunity godoc
// @Summary Get community
// @Description Get community by ID
// @Tags communities
// @Produce json
// @Param id path string true "Community ID"
// @Success 200 {object} response.SuccessResponse{data=CommunityResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /communities/{id} [get]
func (h *Handler) GetCommunity(c *gin.Context) {
	communityID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid community ID", "INVALID_ID")
		return
	}

	community, err := h.repo.GetByID(c.Request.Context(), communityID)
	if err != nil {
		response.NotFound(c, "Community not found", "COMMUNITY_NOT_FOUND")
		return
	}

	isMember := false
	if usr, exists := c.Get("user"); exists {
		if user, ok := usr.(*users.User); ok {
			for _, member := range community.Members {
				if member == user.ID {
					isMember = true
					break
				}
			}
		}
	}

	response.Success(c, buildCommunityResponse(community, isMember))
}

// JoinCommunity godoc
// @Summary Join community
// @Description Join a community; idempotent
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param id path string true "Community ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /communities/{id}/join [post]
func (h *Handler) JoinCommunity(c *gin.Context) {
	h.membershipAction(c, h.repo.Join, "Joined community")
}

// LeaveCommunity godoc
// @Summary Leave community
// @Description Leave a community; idempotent
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param id path string true "Community ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /communities/{id}/leave [post]
func (h *Handler) LeaveCommunity(c *gin.Context) {
	h.membershipAction(c, h.repo.Leave, "Left community")
}

// CreatePost godoc
// @Summary Create community post
// @Description Post in a community; members only
// @Tags communities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Community ID"
// @Param request body CreatePostRequest true "Post"
// @Success 201 {object} response.SuccessResponse{data=Post}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /communities/{id}/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	usr, exists := c.Get("user")
	if !exists {
		response.Unauthorized(c, "Authentication required", "UNAUTHORIZED")
		return
	}
	currentUser := usr.(*users.User)

	communityID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid community ID", "INVALID_ID")
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format", "INVALID_REQUEST")
		return
	}

	if err := ValidateCreatePostRequest(&req); err != nil {
		response.BadRequest(c, err.Error(), "VALIDATION_FAILED")
		return
	}

	if _, err := h.repo.GetByID(c.Request.Context(), communityID); err != nil {
		response.NotFound(c, "Community not found", "COMMUNITY_NOT_FOUND")
		return
	}

	isMember, err := h.repo.IsMember(c.Request.Context(), communityID, currentUser.ID)
	if err != nil {
		response.DatabaseError(c, "Failed to check membership")
		return
	}
	if !isMember {
		response.Forbidden(c, "Join the community before posting", "NOT_A_MEMBER")
		return
	}

	post := &Post{
		CommunityID: communityID,
		AuthorID:    currentUser.ID,
		Title:       req.Title,
		Content:     req.Content,
	}

	if err := h.repo.CreatePost(c.Request.Context(), post); err != nil {
		response.DatabaseError(c, "Failed to create post")
		return
	}

	response.Created(c, post)
}

// ListPosts godoc
// @Summary List community posts
// @Description Get paginated posts of a community, newest first
// @Tags communities
// @Produce json
// @Param id path string true "Community ID"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Items per page (default 20, max 50)"
// @Success 200 {object} response.PaginatedResponse{data=[]Post}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /communities/{id}/posts [get]
func (h *Handler) ListPosts(c *gin.Context) {
	communityID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid community ID", "INVALID_ID")
		return
	}

	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters", "INVALID_QUERY")
		return
	}
	_ = ValidateListQuery(&query)

	if _, err := h.repo.GetByID(c.Request.Context(), communityID); err != nil {
		response.NotFound(c, "Community not found", "COMMUNITY_NOT_FOUND")
		return
	}

	result, total, err := h.repo.GetPostsByCommunity(c.Request.Context(), communityID, query.Page, query.Limit)
	if err != nil {
		response.DatabaseError(c, "Failed to fetch posts")
		return
	}

	response.Paginated(c, result, total, query.Limit, query.Page)
}

// AddPostComment godoc
// @Summary Comment on a post
// @Description Add a comment to a community post
// @Tags communities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param request body CreatePostCommentRequest true "Comment"
// @Success 201 {object} response.SuccessResponse{data=PostComment}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /posts/{id}/comments [post]
func (h *Handler) AddPostComment(c *gin.Context) {
	usr, exists := c.Get("user")
	if !exists {
		response.Unauthorized(c, "Authentication required", "UNAUTHORIZED")
		return
	}
	currentUser := usr.(*users.User)

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid post ID", "INVALID_ID")
		return
	}

	var req CreatePostCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format", "INVALID_REQUEST")
		return
	}

	if err := ValidateCreatePostCommentRequest(&req); err != nil {
		response.BadRequest(c, err.Error(), "VALIDATION_FAILED")
		return
	}

	comment := &PostComment{
		AuthorID: currentUser.ID,
		Content:  req.Content,
	}

	if err := h.repo.AddPostComment(c.Request.Context(), postID, comment); err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			response.NotFound(c, "Post not found", "POST_NOT_FOUND")
			return
		}
		response.DatabaseError(c, "Failed to add comment")
		return
	}

	response.Created(c, comment)
}

type membershipFunc func(ctx context.Context, communityID, userID primitive.ObjectID) error

func (h *Handler) membershipAction(c *gin.Context, action membershipFunc, message string) {
	usr, exists := c.Get("user")
	if !exists {
		response.Unauthorized(c, "Authentication required", "UNAUTHORIZED")
		return
	}
	currentUser := usr.(*users.User)

	communityID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid community ID", "INVALID_ID")
		return
	}

	if err := action(c.Request.Context(), communityID, currentUser.ID); err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			response.NotFound(c, "Community not found", "COMMUNITY_NOT_FOUND")
			return
		}
		response.DatabaseError(c, "Failed to update membership")
		return
	}

	response.Success(c, gin.H{"message": message})
}

func buildCommunityResponse(community *Community, isMember bool) CommunityResponse {
	return CommunityResponse{
		ID:          community.ID,
		Name:        community.Name,
		Description: community.Description,
		CreatorID:   community.CreatorID,
		MemberCount: community.MemberCount,
		IsMember:    isMember,
		CreatedAt:   community.CreatedAt,
	}
}

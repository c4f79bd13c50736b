package reviews

import (
	"errors"
	"strings"
)

func ValidateCreateReviewRequest(req *CreateReviewRequest) error {
	req.Content = strings.TrimSpace(req.Content)
	req.Title = strings.TrimSpace(req.Title)

	if req.Content == "" {
		return errors.New("content is required")
	}

	if len(req.Content) > 10000 {
		return errors.New("content must be 10000 characters or less")
	}

	if len(req.Title) > 200 {
		return errors.New("title must be 200 characters or less")
	}

	if req.MediaType != MediaTypeMovie && req.MediaType != MediaTypeTV {
		return errors.New("mediaType must be 'movie' or 'tv'")
	}

	if req.MediaID <= 0 {
		return errors.New("mediaId is required")
	}

	if req.Rating < 1 || req.Rating > 10 {
		return errors.New("rating must be between 1 and 10")
	}

	return nil
}

func ValidateCreateReplyRequest(req *CreateReplyRequest) error {
	req.Content = strings.TrimSpace(req.Content)

	if req.Content == "" {
		return errors.New("content is required")
	}

	if len(req.Content) > 2000 {
		return errors.New("content must be 2000 characters or less")
	}

	return nil
}

func ValidateVoteRequest(req *VoteRequest) error {
	if req.Action != "like" && req.Action != "dislike" && req.Action != "clear" {
		return errors.New("action must be 'like', 'dislike' or 'clear'")
	}
	return nil
}

func ValidateReviewListQuery(query *ReviewListQuery) error {
	if query.Page < 1 {
		query.Page = 1
	}

	if query.Limit < 1 {
		query.Limit = 20
	}
	if query.Limit > 50 {
		query.Limit = 50
	}

	if query.Sort == "" {
		query.Sort = SortNewest
	}

	if query.Sort != SortNewest && query.Sort != SortOldest && query.Sort != SortTop {
		return errors.New("sort must be: newest, oldest, or top")
	}

	return nil
}

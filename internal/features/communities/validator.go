package communities

import (
	"errors"
	"strings"
)

func ValidateCreateCommunityRequest(req *CreateCommunityRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)

	if len(req.Name) < 3 {
		return errors.New("name must be at least 3 characters")
	}
	if len(req.Name) > 60 {
		return errors.New("name must be 60 characters or less")
	}
	if len(req.Description) > 500 {
		return errors.New("description must be 500 characters or less")
	}

	return nil
}

func ValidateCreatePostRequest(req *CreatePostRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)

	if req.Title == "" {
		return errors.New("title is required")
	}
	if len(req.Title) > 200 {
		return errors.New("title must be 200 characters or less")
	}
	if req.Content == "" {
		return errors.New("content is required")
	}
	if len(req.Content) > 5000 {
		return errors.New("content must be 5000 characters or less")
	}

	return nil
}

func ValidateCreatePostCommentRequest(req *CreatePostCommentRequest) error {
	req.Content = strings.TrimSpace(req.Content)

	if req.Content == "" {
		return errors.New("content is required")
	}
	if len(req.Content) > 1000 {
		return errors.New("content must be 1000 characters or less")
	}

	return nil
}

func ValidateListQuery(query *ListQuery) error {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit < 1 {
		query.Limit = 20
	}
	if query.Limit > 50 {
		query.Limit = 50
	}
	return nil
}

package service

import (
	"context"
	"strings"

	"minisocial/internal/models"
	"minisocial/internal/observability"
	"minisocial/internal/repository"
)

const maxCommentLen = 1000

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	postService *PostService
}

type CreateCommentInput struct {
	UserID uint
	PostID uint
	Text   string
}

type DeleteCommentInput struct {
	UserID    uint
	CommentID uint
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	postService *PostService,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		postService: postService,
	}
}

// CreateComment adds a comment to a post the user can see and bumps the
// post's denormalized comment counter.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if _, err := s.postService.GetPost(ctx, in.PostID, in.UserID); err != nil {
		return nil, err
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, models.NewValidationError("Comment text is required")
	}
	if len(text) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 1000 characters)")
	}

	comment := &models.Comment{
		PostID: in.PostID,
		UserID: in.UserID,
		Text:   text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	if err := s.postRepo.AddToCommentsCount(ctx, in.PostID, 1); err != nil {
		return nil, err
	}
	observability.CommentsTotal.WithLabelValues("created").Inc()

	return comment, nil
}

// ListComments returns the comments of a post the user can see.
func (s *CommentService) ListComments(ctx context.Context, postID, viewerID uint, page, limit int) ([]*models.Comment, int64, error) {
	if _, err := s.postService.GetPost(ctx, postID, viewerID); err != nil {
		return nil, 0, err
	}
	return s.commentRepo.ListByPost(ctx, postID, clampPage(page), clampLimit(limit))
}

// DeleteComment soft-deletes the user's own comment. The counter is only
// decremented when a live row was actually removed, so a repeated delete
// cannot drive the counter negative.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return err
	}
	if comment.UserID != in.UserID {
		return models.NewForbiddenError("You can only delete your own comments")
	}

	affected, err := s.commentRepo.Delete(ctx, in.CommentID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return nil
	}

	if err := s.postRepo.AddToCommentsCount(ctx, comment.PostID, -1); err != nil {
		return err
	}
	observability.CommentsTotal.WithLabelValues("deleted").Inc()
	return nil
}

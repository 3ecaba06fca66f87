// Package service implements the application's business logic on top of the
// repository layer.
package service

import (
	"context"
	"strings"

	"minisocial/internal/models"
	"minisocial/internal/observability"
	"minisocial/internal/repository"
)

// Feed paging and trending window bounds.
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 50

	DefaultTrendingDays  = 7
	MaxTrendingDays      = 365
	DefaultTrendingLimit = 20

	MaxTagsPerPost = 10

	maxTitleLen   = 120
	maxContentLen = 5000
)

type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

type CreatePostInput struct {
	AuthorID uint
	Title    string
	Content  string
	Status   string
	Tags     []string
}

type UpdatePostInput struct {
	UserID  uint
	PostID  uint
	Title   *string
	Content *string
	Status  *string
	Tags    []string // nil means leave tags unchanged
}

type FeedInput struct {
	Search   string
	Tag      string
	AuthorID uint
	Sort     string
	Page     int
	Limit    int
}

type TrendingInput struct {
	Days   int
	Limit  int
	Tag    string
	Search string
}

// LikeResult reports the outcome of a like or unlike call. Changed is false
// when the operation was an idempotent repeat (already liked, or unliking a
// post that was never liked).
type LikeResult struct {
	Changed    bool
	LikesCount int
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository) *PostService {
	return &PostService{postRepo: postRepo, userRepo: userRepo}
}

// normalizeTags trims, lowercases, and deduplicates tag names, dropping
// empties. Order of first occurrence is preserved.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, raw := range tags {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

func clampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func clampLimit(limit int) int {
	if limit < 1 {
		return DefaultPageLimit
	}
	if limit > MaxPageLimit {
		return MaxPageLimit
	}
	return limit
}

func validatePostFields(title, content string) error {
	if strings.TrimSpace(title) == "" {
		return models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return models.NewValidationError("Title too long (max 120 characters)")
	}
	if strings.TrimSpace(content) == "" {
		return models.NewValidationError("Content is required")
	}
	if len(content) > maxContentLen {
		return models.NewValidationError("Content too long (max 5000 characters)")
	}
	return nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validatePostFields(in.Title, in.Content); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = models.PostStatusPublished
	}
	if status != models.PostStatusPublished && status != models.PostStatusDraft {
		return nil, models.NewValidationError("Status must be published or draft")
	}

	names := normalizeTags(in.Tags)
	if len(names) > MaxTagsPerPost {
		return nil, models.NewValidationError("Too many tags (max 10)")
	}
	tags, err := s.postRepo.ResolveTags(ctx, names)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		AuthorID: in.AuthorID,
		Title:    strings.TrimSpace(in.Title),
		Content:  in.Content,
		Status:   status,
		Tags:     tags,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	if err := s.userRepo.AddToPostsCount(ctx, in.AuthorID, 1); err != nil {
		observability.CounterDrift.WithLabelValues("posts_count").Inc()
	}

	return s.postRepo.GetByID(ctx, post.ID)
}

// GetPost returns the post if the viewer is allowed to see it. Drafts are
// visible only to their author; everyone else gets a forbidden error even
// when authenticated, and a not found falls through from the repository.
func (s *PostService) GetPost(ctx context.Context, postID, viewerID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Status == models.PostStatusDraft && post.AuthorID != viewerID {
		return nil, models.NewForbiddenError("This draft is not yours to view")
	}
	return post, nil
}

func (s *PostService) Feed(ctx context.Context, in FeedInput) ([]*models.Post, int64, error) {
	filter := repository.PostFilter{
		Search:   strings.TrimSpace(in.Search),
		Tag:      strings.ToLower(strings.TrimSpace(in.Tag)),
		AuthorID: in.AuthorID,
		Sort:     in.Sort,
		Page:     clampPage(in.Page),
		Limit:    clampLimit(in.Limit),
	}
	return s.postRepo.Feed(ctx, filter)
}

// MyPosts lists all of the user's posts regardless of status.
func (s *PostService) MyPosts(ctx context.Context, userID uint, page, limit int) ([]*models.Post, int64, error) {
	return s.postRepo.ListByAuthor(ctx, userID, "", clampPage(page), clampLimit(limit))
}

// MyDrafts lists only the user's draft posts.
func (s *PostService) MyDrafts(ctx context.Context, userID uint, page, limit int) ([]*models.Post, int64, error) {
	return s.postRepo.ListByAuthor(ctx, userID, models.PostStatusDraft, clampPage(page), clampLimit(limit))
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("You can only edit your own posts")
	}

	if in.Title != nil {
		post.Title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		post.Content = *in.Content
	}
	if err := validatePostFields(post.Title, post.Content); err != nil {
		return nil, err
	}

	if in.Status != nil {
		if *in.Status != models.PostStatusPublished && *in.Status != models.PostStatusDraft {
			return nil, models.NewValidationError("Status must be published or draft")
		}
		post.Status = *in.Status
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	if in.Tags != nil {
		names := normalizeTags(in.Tags)
		if len(names) > MaxTagsPerPost {
			return nil, models.NewValidationError("Too many tags (max 10)")
		}
		tags, err := s.postRepo.ResolveTags(ctx, names)
		if err != nil {
			return nil, err
		}
		if err := s.postRepo.ReplaceTags(ctx, post, tags); err != nil {
			return nil, err
		}
	}

	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return models.NewForbiddenError("You can only delete your own posts")
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	if err := s.userRepo.AddToPostsCount(ctx, post.AuthorID, -1); err != nil {
		observability.CounterDrift.WithLabelValues("posts_count").Inc()
	}
	return nil
}

// LikePost records the user's like. Liking a post twice is not an error;
// the second call reports Changed=false and leaves the counter alone.
func (s *PostService) LikePost(ctx context.Context, userID, postID uint) (*LikeResult, error) {
	post, err := s.GetPost(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if post.Status == models.PostStatusDraft {
		return nil, models.NewValidationError("Drafts cannot be liked")
	}

	inserted, err := s.postRepo.Like(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	if inserted {
		observability.LikesTotal.WithLabelValues("liked").Inc()
	} else {
		observability.LikesTotal.WithLabelValues("already_liked").Inc()
	}

	fresh, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Changed: inserted, LikesCount: fresh.LikesCount}, nil
}

// UnlikePost removes the user's like. Unliking a post that was never liked
// reports Changed=false and leaves the counter alone.
func (s *PostService) UnlikePost(ctx context.Context, userID, postID uint) (*LikeResult, error) {
	if _, err := s.GetPost(ctx, postID, userID); err != nil {
		return nil, err
	}

	deleted, err := s.postRepo.Unlike(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	if deleted {
		observability.LikesTotal.WithLabelValues("unliked").Inc()
	} else {
		observability.LikesTotal.WithLabelValues("noop_unlike").Inc()
	}

	fresh, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Changed: deleted, LikesCount: fresh.LikesCount}, nil
}

// Trending returns the top published posts from the recent window ranked by
// likes_count*2 + comments_count*3, newest first among ties. Days defaults
// to 7 and is clamped to [1, 365]; limit defaults to 20 and is clamped to
// [1, 50].
func (s *PostService) Trending(ctx context.Context, in TrendingInput) ([]*models.Post, error) {
	days := in.Days
	if days < 1 {
		days = DefaultTrendingDays
	}
	if days > MaxTrendingDays {
		days = MaxTrendingDays
	}

	limit := in.Limit
	if limit < 1 {
		limit = DefaultTrendingLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	filter := repository.TrendingFilter{
		Days:   days,
		Limit:  limit,
		Tag:    strings.ToLower(strings.TrimSpace(in.Tag)),
		Search: strings.TrimSpace(in.Search),
	}
	return s.postRepo.Trending(ctx, filter)
}

package service

import (
	"context"
	"testing"

	"minisocial/internal/models"
	"minisocial/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn             func(context.Context, *models.Post) error
	getByIDFn            func(context.Context, uint) (*models.Post, error)
	feedFn               func(context.Context, repository.PostFilter) ([]*models.Post, int64, error)
	listByAuthorFn       func(context.Context, uint, string, int, int) ([]*models.Post, int64, error)
	updateFn             func(context.Context, *models.Post) error
	replaceTagsFn        func(context.Context, *models.Post, []models.Tag) error
	resolveTagsFn        func(context.Context, []string) ([]models.Tag, error)
	deleteFn             func(context.Context, uint) error
	isLikedFn            func(context.Context, uint, uint) (bool, error)
	likeFn               func(context.Context, uint, uint) (bool, error)
	unlikeFn             func(context.Context, uint, uint) (bool, error)
	addToCommentsCountFn func(context.Context, uint, int) error
	trendingFn           func(context.Context, repository.TrendingFilter) ([]*models.Post, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) Feed(ctx context.Context, f repository.PostFilter) ([]*models.Post, int64, error) {
	return s.feedFn(ctx, f)
}
func (s *postRepoStub) ListByAuthor(ctx context.Context, authorID uint, status string, page, limit int) ([]*models.Post, int64, error) {
	return s.listByAuthorFn(ctx, authorID, status, page, limit)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) ReplaceTags(ctx context.Context, post *models.Post, tags []models.Tag) error {
	return s.replaceTagsFn(ctx, post, tags)
}
func (s *postRepoStub) ResolveTags(ctx context.Context, names []string) ([]models.Tag, error) {
	return s.resolveTagsFn(ctx, names)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, postID)
}
func (s *postRepoStub) Like(ctx context.Context, userID, postID uint) (bool, error) {
	return s.likeFn(ctx, userID, postID)
}
func (s *postRepoStub) Unlike(ctx context.Context, userID, postID uint) (bool, error) {
	return s.unlikeFn(ctx, userID, postID)
}
func (s *postRepoStub) AddToCommentsCount(ctx context.Context, postID uint, delta int) error {
	return s.addToCommentsCountFn(ctx, postID, delta)
}
func (s *postRepoStub) Trending(ctx context.Context, f repository.TrendingFilter) ([]*models.Post, error) {
	return s.trendingFn(ctx, f)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, p *models.Post) error { p.ID = 1; return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: 1, Status: models.PostStatusPublished}, nil
		},
		feedFn: func(_ context.Context, _ repository.PostFilter) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		listByAuthorFn: func(_ context.Context, _ uint, _ string, _, _ int) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		updateFn:      func(_ context.Context, _ *models.Post) error { return nil },
		replaceTagsFn: func(_ context.Context, _ *models.Post, _ []models.Tag) error { return nil },
		resolveTagsFn: func(_ context.Context, names []string) ([]models.Tag, error) {
			tags := make([]models.Tag, len(names))
			for i, n := range names {
				tags[i] = models.Tag{ID: uint(i + 1), Name: n}
			}
			return tags, nil
		},
		deleteFn:             func(_ context.Context, _ uint) error { return nil },
		isLikedFn:            func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		likeFn:               func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		unlikeFn:             func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		addToCommentsCountFn: func(_ context.Context, _ uint, _ int) error { return nil },
		trendingFn: func(_ context.Context, _ repository.TrendingFilter) ([]*models.Post, error) {
			return nil, nil
		},
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn         func(context.Context, uint) (*models.User, error)
	getByEmailFn      func(context.Context, string) (*models.User, error)
	getByUsernameFn   func(context.Context, string) (*models.User, error)
	createFn          func(context.Context, *models.User) error
	updateFn          func(context.Context, *models.User) error
	addToPostsCountFn func(context.Context, uint, int) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) AddToPostsCount(ctx context.Context, userID uint, delta int) error {
	return s.addToPostsCountFn(ctx, userID, delta)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "user"}, nil
		},
		getByEmailFn:      func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn:   func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:          func(_ context.Context, _ *models.User) error { return nil },
		updateFn:          func(_ context.Context, _ *models.User) error { return nil },
		addToPostsCountFn: func(_ context.Context, _ uint, _ int) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint, int, int) ([]*models.Comment, int64, error)
	deleteFn     func(context.Context, uint) (int64, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint, page, limit int) ([]*models.Comment, int64, error) {
	return s.listByPostFn(ctx, postID, page, limit)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) (int64, error) {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, c *models.Comment) error { c.ID = 1; return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: 1, PostID: 1, Text: "hi"}, nil
		},
		listByPostFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Comment, int64, error) {
			return nil, 0, nil
		},
		deleteFn: func(_ context.Context, _ uint) (int64, error) { return 1, nil },
	}
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

package repository

import (
	"context"
	"errors"
	"time"

	"minisocial/internal/cache"
	"minisocial/internal/models"
	"minisocial/internal/observability"

	"gorm.io/gorm"
)

// PostFilter captures the feed query parameters.
type PostFilter struct {
	Search   string
	Tag      string
	AuthorID uint
	Sort     string // "latest" (default) or "top"
	Page     int
	Limit    int
}

// TrendingFilter captures the trending query parameters. Days and Limit
// are expected to be clamped by the service layer before they get here.
type TrendingFilter struct {
	Days   int
	Limit  int
	Tag    string
	Search string
}

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Feed(ctx context.Context, filter PostFilter) ([]*models.Post, int64, error)
	ListByAuthor(ctx context.Context, authorID uint, status string, page, limit int) ([]*models.Post, int64, error)
	Update(ctx context.Context, post *models.Post) error
	ReplaceTags(ctx context.Context, post *models.Post, tags []models.Tag) error
	ResolveTags(ctx context.Context, names []string) ([]models.Tag, error)
	Delete(ctx context.Context, id uint) error
	IsLiked(ctx context.Context, userID, postID uint) (bool, error)
	Like(ctx context.Context, userID, postID uint) (bool, error)
	Unlike(ctx context.Context, userID, postID uint) (bool, error)
	AddToCommentsCount(ctx context.Context, postID uint, delta int) error
	Trending(ctx context.Context, filter TrendingFilter) ([]*models.Post, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	post.SyncDerived()
	cache.Invalidate(ctx, cache.FeedKey)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	key := cache.PostKey(id)

	err := cache.Aside(ctx, key, &post, cache.PostTTL, func() error {
		if err := readDB(r.db).WithContext(ctx).
			Preload("Author").
			Preload("Tags").
			First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post not found")
			}
			return models.NewInternalError(err)
		}
		post.SyncDerived()
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &post, nil
}

// applyFeedFilters narrows the query to published posts matching the filter.
// Search uses LOWER LIKE rather than ILIKE so the same query plan works on
// both PostgreSQL and the SQLite test database.
func applyFeedFilters(db *gorm.DB, filter PostFilter) *gorm.DB {
	db = db.Model(&models.Post{}).Where("posts.status = ?", models.PostStatusPublished)

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		db = db.Where("LOWER(posts.title) LIKE LOWER(?) OR LOWER(posts.content) LIKE LOWER(?)", like, like)
	}
	if filter.Tag != "" {
		db = db.
			Joins("JOIN post_tags ON post_tags.post_id = posts.id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.name = ?", filter.Tag)
	}
	if filter.AuthorID != 0 {
		db = db.Where("posts.author_id = ?", filter.AuthorID)
	}
	return db
}

func applyFeedSort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case "top":
		return db.Order("posts.likes_count DESC, posts.comments_count DESC, posts.created_at DESC")
	default: // "latest" and anything unrecognized
		return db.Order("posts.created_at DESC")
	}
}

func (r *postRepository) Feed(ctx context.Context, filter PostFilter) ([]*models.Post, int64, error) {
	db := readDB(r.db).WithContext(ctx)

	var total int64
	if err := applyFeedFilters(db, filter).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var posts []*models.Post
	query := applyFeedSort(applyFeedFilters(db, filter), filter.Sort).
		Preload("Author").
		Preload("Tags").
		Limit(filter.Limit).
		Offset((filter.Page - 1) * filter.Limit)
	if err := query.Find(&posts).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	for _, p := range posts {
		p.SyncDerived()
	}
	return posts, total, nil
}

// ListByAuthor returns the author's own posts, newest first. An empty status
// matches all statuses; otherwise only posts in that status are returned.
func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint, status string, page, limit int) ([]*models.Post, int64, error) {
	db := readDB(r.db).WithContext(ctx).Model(&models.Post{}).Where("author_id = ?", authorID)
	if status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var posts []*models.Post
	err := db.
		Preload("Author").
		Preload("Tags").
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	for _, p := range posts {
		p.SyncDerived()
	}
	return posts, total, nil
}

// Update persists the author-editable columns only. The like and comment
// counters are touched exclusively by the atomic arithmetic updates, so a
// like landing between the caller's read and this write survives the edit.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	updates := map[string]any{
		"title":   post.Title,
		"content": post.Content,
		"status":  post.Status,
	}
	if err := r.db.WithContext(ctx).Model(post).Updates(updates).Error; err != nil {
		return models.NewInternalError(err)
	}
	post.SyncDerived()
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

// ReplaceTags swaps the post's tag set for the given tags.
func (r *postRepository) ReplaceTags(ctx context.Context, post *models.Post, tags []models.Tag) error {
	if err := r.db.WithContext(ctx).Model(post).Association("Tags").Replace(tags); err != nil {
		return models.NewInternalError(err)
	}
	post.Tags = tags
	post.SyncDerived()
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

// ResolveTags maps normalized tag names to Tag rows, creating missing ones.
func (r *postRepository) ResolveTags(ctx context.Context, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		var tag models.Tag
		err := r.db.WithContext(ctx).Where("name = ?", name).FirstOrCreate(&tag, models.Tag{Name: name}).Error
		if err != nil {
			// Concurrent creation of the same tag loses the race on the
			// unique index; retry the lookup once.
			if isUniqueConstraintError(err) {
				if retryErr := r.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error; retryErr != nil {
					return nil, models.NewInternalError(retryErr)
				}
			} else {
				return nil, models.NewInternalError(err)
			}
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

func (r *postRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// Like inserts the (user, post) like row and bumps the denormalized counter.
// A duplicate like hits the unique index and reports inserted=false with no
// error and no counter change, so repeated likes stay idempotent.
func (r *postRepository) Like(ctx context.Context, userID, postID uint) (bool, error) {
	like := models.Like{UserID: userID, PostID: postID}
	if err := r.db.WithContext(ctx).Create(&like).Error; err != nil {
		if isUniqueConstraintError(err) {
			return false, nil
		}
		return false, models.NewInternalError(err)
	}

	if err := r.addToLikesCount(ctx, postID, 1); err != nil {
		observability.CounterDrift.WithLabelValues("likes_count").Inc()
		return true, err
	}
	cache.InvalidatePost(ctx, postID)
	return true, nil
}

// Unlike removes the like row if present. The counter is only decremented
// when a row was actually deleted, so unliking a never-liked post is a no-op.
func (r *postRepository) Unlike(ctx context.Context, userID, postID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	if err := r.addToLikesCount(ctx, postID, -1); err != nil {
		observability.CounterDrift.WithLabelValues("likes_count").Inc()
		return true, err
	}
	cache.InvalidatePost(ctx, postID)
	return true, nil
}

func (r *postRepository) addToLikesCount(ctx context.Context, postID uint, delta int) error {
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", postID).
		Update("likes_count", gorm.Expr("CASE WHEN likes_count + ? < 0 THEN 0 ELSE likes_count + ? END", delta, delta)).
		Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// AddToCommentsCount adjusts the denormalized comments counter by delta in a
// single atomic column update. The counter never drops below zero.
func (r *postRepository) AddToCommentsCount(ctx context.Context, postID uint, delta int) error {
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", postID).
		Update("comments_count", gorm.Expr("CASE WHEN comments_count + ? < 0 THEN 0 ELSE comments_count + ? END", delta, delta)).
		Error
	if err != nil {
		observability.CounterDrift.WithLabelValues("comments_count").Inc()
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

// Trending returns published posts from the window ordered by engagement
// score, ties broken by recency. The score is computed in SQL from the
// denormalized counters; it is never stored.
func (r *postRepository) Trending(ctx context.Context, filter TrendingFilter) ([]*models.Post, error) {
	start := time.Now()
	defer observability.ObserveTrendingQuery(start)

	cutoff := time.Now().AddDate(0, 0, -filter.Days)

	db := readDB(r.db).WithContext(ctx).
		Model(&models.Post{}).
		Where("posts.status = ?", models.PostStatusPublished).
		Where("posts.created_at >= ?", cutoff)

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		db = db.Where("LOWER(posts.title) LIKE LOWER(?) OR LOWER(posts.content) LIKE LOWER(?)", like, like)
	}
	if filter.Tag != "" {
		db = db.
			Joins("JOIN post_tags ON post_tags.post_id = posts.id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.name = ?", filter.Tag)
	}

	var posts []*models.Post
	err := db.
		Preload("Author").
		Preload("Tags").
		Order("(posts.likes_count * 2 + posts.comments_count * 3) DESC, posts.created_at DESC").
		Limit(filter.Limit).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	for _, p := range posts {
		p.SyncDerived()
	}
	return posts, nil
}

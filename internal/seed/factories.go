package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"minisocial/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

var tagPool = []string{
	"golang", "programming", "webdev", "databases", "devops", "linux",
	"music", "movies", "gaming", "fitness", "travel", "food", "books",
	"science", "startups", "ai", "homelab", "photography",
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	rand *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	if opts.MaxDays <= 0 {
		opts.MaxDays = 30
	}
	return &Factory{
		db:   db,
		opts: opts,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUsers persists n users with a shared demo password.
func (f *Factory) CreateUsers(n int) ([]*models.User, error) {
	hashed, err := HashPassword("password123")
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		username := fmt.Sprintf("%s%d", strings.ToLower(gofakeit.Username()), i)
		if len(username) > 30 {
			username = username[:30]
		}
		users = append(users, &models.User{
			Username:  username,
			Email:     fmt.Sprintf("%d_%s", i, gofakeit.Email()),
			Password:  hashed,
			Bio:       gofakeit.Sentence(8),
			AvatarURL: fmt.Sprintf("https://picsum.photos/seed/%s/200/200", gofakeit.UUID()),
		})
	}
	if err := f.db.Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// BuildPost constructs a post with a realistic created_at spread but does
// not persist it.
func (f *Factory) BuildPost(author *models.User) *models.Post {
	post := &models.Post{
		AuthorID: author.ID,
		Title:    gofakeit.Sentence(5),
		Content:  gofakeit.Paragraph(1, 3, 5, "\n"),
		Status:   models.PostStatusPublished,
	}
	if f.rand.Intn(10) == 0 {
		post.Status = models.PostStatusDraft
	}

	daysBack := f.rand.Intn(f.opts.MaxDays)
	hoursBack := f.rand.Intn(24)
	minsBack := f.rand.Intn(60)
	post.CreatedAt = time.Now().
		Add(-time.Duration(daysBack)*24*time.Hour -
			time.Duration(hoursBack)*time.Hour -
			time.Duration(minsBack)*time.Minute)

	return post
}

// CreatePosts persists n posts spread across the given users, each with a
// small random tag set.
func (f *Factory) CreatePosts(users []*models.User, n int) ([]*models.Post, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to attach posts to")
	}

	tags, err := f.resolveTagPool()
	if err != nil {
		return nil, err
	}

	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		post := f.BuildPost(pick(f.rand, users))
		for _, idx := range f.rand.Perm(len(tags))[:f.rand.Intn(4)] {
			post.Tags = append(post.Tags, tags[idx])
		}
		posts = append(posts, post)
	}
	if err := f.db.Create(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (f *Factory) resolveTagPool() ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(tagPool))
	for _, name := range tagPool {
		var tag models.Tag
		if err := f.db.Where("name = ?", name).FirstOrCreate(&tag, models.Tag{Name: name}).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// CreateLikes gives each published post a random set of likers. Returns the
// number of like rows written.
func (f *Factory) CreateLikes(users []*models.User, posts []*models.Post) (int, error) {
	var likes []*models.Like
	for _, post := range posts {
		if post.Status != models.PostStatusPublished {
			continue
		}
		count := f.rand.Intn(len(users) + 1)
		for _, idx := range f.rand.Perm(len(users))[:count] {
			likes = append(likes, &models.Like{
				UserID:    users[idx].ID,
				PostID:    post.ID,
				CreatedAt: post.CreatedAt.Add(time.Duration(f.rand.Intn(72)) * time.Hour),
			})
		}
	}
	if len(likes) == 0 {
		return 0, nil
	}
	if err := f.db.Create(&likes).Error; err != nil {
		return 0, err
	}
	return len(likes), nil
}

// CreateComments writes short comments on random published posts. Returns
// the number of comment rows written.
func (f *Factory) CreateComments(users []*models.User, posts []*models.Post) (int, error) {
	var comments []*models.Comment
	for _, post := range posts {
		if post.Status != models.PostStatusPublished {
			continue
		}
		count := f.rand.Intn(6)
		for i := 0; i < count; i++ {
			comments = append(comments, &models.Comment{
				PostID:    post.ID,
				UserID:    pick(f.rand, users).ID,
				Text:      gofakeit.Sentence(10),
				CreatedAt: post.CreatedAt.Add(time.Duration(f.rand.Intn(96)) * time.Hour),
			})
		}
	}
	if len(comments) == 0 {
		return 0, nil
	}
	if err := f.db.Create(&comments).Error; err != nil {
		return 0, err
	}
	return len(comments), nil
}

// SyncCounters recomputes the denormalized counters from the ground truth
// tables so seeded data starts out consistent.
func (f *Factory) SyncCounters() error {
	if err := f.db.Exec(`
		UPDATE posts SET likes_count = (
			SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id
		)`).Error; err != nil {
		return err
	}
	if err := f.db.Exec(`
		UPDATE posts SET comments_count = (
			SELECT COUNT(*) FROM comments
			WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL
		)`).Error; err != nil {
		return err
	}
	return f.db.Exec(`
		UPDATE users SET posts_count = (
			SELECT COUNT(*) FROM posts
			WHERE posts.author_id = users.id AND posts.deleted_at IS NULL
		)`).Error
}

package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"simmr/internal/cache"
	"simmr/internal/models"
	"simmr/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, viewerID uint) (*models.Post, error)
	ListFeed(ctx context.Context, viewerID uint, before *time.Time, limit int) ([]models.Post, error)
	ListByUsername(ctx context.Context, username string, viewerID uint, limit int) ([]models.Post, error)
	Delete(ctx context.Context, id uint, ownerID uint) error
	IsLiked(ctx context.Context, userID, postID uint) (bool, error)
	Like(ctx context.Context, userID, postID uint) error
	Unlike(ctx context.Context, userID, postID uint) error
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
	defer observability.TrackQuery("create", "posts")()
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Post, error) {
	defer observability.TrackQuery("get", "posts")()

	var post models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), viewerID).
		InnerJoins("Author").
		First(&post, "posts.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// ListFeed returns the newest posts before the cursor, newest first.
// Posts whose author row is missing are excluded by the inner join.
func (r *postRepository) ListFeed(ctx context.Context, viewerID uint, before *time.Time, limit int) ([]models.Post, error) {
	defer observability.TrackQuery("list_feed", "posts")()

	q := r.applyPostDetails(r.db.WithContext(ctx), viewerID).
		InnerJoins("Author")
	if before != nil {
		q = q.Where("posts.created_at < ?", *before)
	}

	var posts []models.Post
	err := q.
		Order("posts.created_at DESC, posts.id DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListByUsername(ctx context.Context, username string, viewerID uint, limit int) ([]models.Post, error) {
	defer observability.TrackQuery("list_by_user", "posts")()

	var posts []models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), viewerID).
		InnerJoins("Author").
		Where(authorUsername(username)).
		Order("posts.created_at DESC, posts.id DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// authorUsername filters on the Author join alias. GORM renders the alias
// quoted, so the filter goes through the dialect quoter as well; a raw
// "Author.username" fragment would be case-folded by postgres and fail to
// resolve against the quoted alias.
func authorUsername(username string) clause.Expression {
	return clause.Eq{
		Column: clause.Column{Table: "Author", Name: "username"},
		Value:  strings.ToLower(username),
	}
}

// applyPostDetails adds subqueries to fetch the like count and liked status in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB, viewerID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) as like_count"

	if viewerID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) as is_liked", viewerID)
	}

	return db.Select(selectQuery + ", false as is_liked")
}

// Delete removes the post only when ownerID matches. Deleting someone else's
// post or a missing post is a silent no-op.
func (r *postRepository) Delete(ctx context.Context, id uint, ownerID uint) error {
	defer observability.TrackQuery("delete", "posts")()

	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&models.Post{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected > 0 {
		cache.InvalidatePost(ctx, id)
	}
	return nil
}

func (r *postRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *postRepository) Like(ctx context.Context, userID, postID uint) error {
	// ON CONFLICT DO NOTHING makes concurrent toggles converge on one row
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
			DoNothing: true,
		}).
		Create(&models.Like{UserID: userID, PostID: postID}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

func (r *postRepository) Unlike(ctx context.Context, userID, postID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

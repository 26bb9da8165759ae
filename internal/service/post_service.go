package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"simmr/internal/ai"
	"simmr/internal/cache"
	"simmr/internal/middleware"
	"simmr/internal/models"
	"simmr/internal/observability"
	"simmr/internal/repository"
	"simmr/internal/validation"
)

// FeedPageSize is the default and maximum-respected feed page size.
const (
	DefaultFeedLimit = 10
	MaxFeedLimit     = 50
)

type PostService struct {
	postRepo repository.PostRepository
	ai       ai.Generator
}

type CreatePostInput struct {
	UserID      uint
	Title       string
	Description string
	RecipeNotes string
	ImageURL    string
	ImageKey    string
	Tags        string // comma-separated, normalized here
	CookTime    *int
	Difficulty  string
	Servings    *int
	Ingredients []models.Ingredient
}

// FeedPage is one page of the reverse-chronological feed.
type FeedPage struct {
	Posts      []models.Post `json:"posts"`
	NextCursor string        `json:"nextCursor,omitempty"`
}

func NewPostService(postRepo repository.PostRepository, generator ai.Generator) *PostService {
	return &PostService{postRepo: postRepo, ai: generator}
}

// CreatePost validates and stores a dish, with a best-effort AI tip.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	span, ctx := observability.NewSpan(ctx, "PostService.CreatePost")
	defer span.End()

	title := strings.TrimSpace(in.Title)
	if err := validation.PostTitle(title); err != nil {
		return nil, err
	}
	if err := validation.Difficulty(in.Difficulty); err != nil {
		return nil, err
	}
	if err := validation.PositiveInt("Cook time", in.CookTime); err != nil {
		return nil, err
	}
	if err := validation.PositiveInt("Servings", in.Servings); err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID:      in.UserID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		RecipeNotes: strings.TrimSpace(in.RecipeNotes),
		ImageURL:    strings.TrimSpace(in.ImageURL),
		ImageKey:    strings.TrimSpace(in.ImageKey),
		Tags:        validation.NormalizeTags(in.Tags),
		CookTime:    in.CookTime,
		Difficulty:  in.Difficulty,
		Servings:    in.Servings,
		Ingredients: in.Ingredients,
	}

	// Tip generation is best-effort: a failure posts the dish without one.
	if tip, err := s.ai.CookingTip(ctx, post.Title, post.Description); err != nil {
		middleware.Logger.WarnContext(ctx, "AI tip generation failed", "error", err)
	} else {
		post.AITip = tip
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		span.SetError(err)
		return nil, err
	}
	observability.PostsCreatedTotal.Inc()

	created, err := s.postRepo.GetByID(ctx, post.ID, in.UserID)
	if err != nil {
		return nil, err
	}
	// The author's cached profile holds a post_count aggregate.
	cache.InvalidateProfile(ctx, created.Author.Username)
	return created, nil
}

func (s *PostService) GetPost(ctx context.Context, id uint, viewerID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id, viewerID)
}

// Feed returns one page of the feed. cursor is the created_at of the last
// item of the previous page in RFC3339Nano, or empty for the first page.
func (s *PostService) Feed(ctx context.Context, viewerID uint, cursor string, limit int) (*FeedPage, error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	if limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}

	var before *time.Time
	if cursor != "" {
		t, err := time.Parse(time.RFC3339Nano, cursor)
		if err != nil {
			return nil, models.NewValidationError("Invalid cursor")
		}
		before = &t
	}

	posts, err := s.postRepo.ListFeed(ctx, viewerID, before, limit)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.Post{}
	}

	page := &FeedPage{Posts: posts}
	if len(posts) == limit {
		page.NextCursor = posts[len(posts)-1].CreatedAt.Format(time.RFC3339Nano)
	}
	return page, nil
}

func (s *PostService) UserPosts(ctx context.Context, username string, viewerID uint) ([]models.Post, error) {
	return s.postRepo.ListByUsername(ctx, username, viewerID, MaxFeedLimit)
}

// DeletePost removes the post when ownerID owns it, and silently does
// nothing otherwise.
func (s *PostService) DeletePost(ctx context.Context, postID, ownerID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, ownerID)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "NOT_FOUND" {
			return nil
		}
		return err
	}

	if err := s.postRepo.Delete(ctx, postID, ownerID); err != nil {
		return err
	}
	if post.UserID == ownerID {
		cache.InvalidateProfile(ctx, post.Author.Username)
	}
	return nil
}

// ToggleLike flips the viewer's like on the post and returns the refreshed
// post.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (*models.Post, error) {
	// Confirm the post exists so a toggle on a missing post is a 404.
	if _, err := s.postRepo.GetByID(ctx, postID, userID); err != nil {
		return nil, err
	}

	isLiked, err := s.postRepo.IsLiked(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	if isLiked {
		if err := s.postRepo.Unlike(ctx, userID, postID); err != nil {
			return nil, err
		}
		observability.LikeTogglesTotal.WithLabelValues("unliked").Inc()
	} else {
		if err := s.postRepo.Like(ctx, userID, postID); err != nil {
			return nil, err
		}
		observability.LikeTogglesTotal.WithLabelValues("liked").Inc()
	}

	refreshed, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	// The author's cached profile holds a total_likes aggregate.
	cache.InvalidateProfile(ctx, refreshed.Author.Username)
	return refreshed, nil
}

// GenerateIngredients asks the AI for an ingredient list. Provider failures
// are logged and surfaced as one generic user-facing message.
func (s *PostService) GenerateIngredients(ctx context.Context, dishName string, servings int) ([]models.Ingredient, error) {
	if strings.TrimSpace(dishName) == "" {
		return nil, models.NewValidationError("Please enter a dish name first")
	}
	if servings < 1 {
		return nil, models.NewValidationError("Please enter the number of servings")
	}

	ingredients, err := s.ai.Ingredients(ctx, strings.TrimSpace(dishName), servings)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "AI ingredient generation failed", "error", err)
		return nil, models.NewValidationError("Failed to generate ingredients. Please try again.")
	}
	return ingredients, nil
}

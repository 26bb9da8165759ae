package server

import (
	"simmr/internal/models"
	"simmr/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetFeed handles GET /api/feed?cursor=...&limit=...
func (s *Server) GetFeed(c *fiber.Ctx) error {
	user, err := s.requireUser(c)
	if err != nil {
		return nil
	}

	limit := c.QueryInt("limit", service.DefaultFeedLimit)
	page, err := s.postService.Feed(c.UserContext(), user.ID, c.Query("cursor"), limit)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(page)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	user, err := s.requireUser(c)
	if err != nil {
		return nil
	}
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), postID, user.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(post)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	user, err := s.requireUser(c)
	if err != nil {
		return nil
	}

	var req struct {
		Title       string              `json:"title"`
		Description string              `json:"description"`
		RecipeNotes string              `json:"recipe_notes"`
		ImageURL    string              `json:"image_url"`
		ImageKey    string              `json:"image_key"`
		Tags        string              `json:"tags"`
		CookTime    *int                `json:"cook_time"`
		Difficulty  string              `json:"difficulty"`
		Servings    *int                `json:"servings"`
		Ingredients []models.Ingredient `json:"ingredients"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:      user.ID,
		Title:       req.Title,
		Description: req.Description,
		RecipeNotes: req.RecipeNotes,
		ImageURL:    req.ImageURL,
		ImageKey:    req.ImageKey,
		Tags:        req.Tags,
		CookTime:    req.CookTime,
		Difficulty:  req.Difficulty,
		Servings:    req.Servings,
		Ingredients: req.Ingredients,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
// Deleting someone else's post is a silent no-op, never an oracle for
// which post ids exist.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	user, err := s.requireUser(c)
	if err != nil {
		return nil
	}
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), postID, user.ID); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleLike handles POST /api/posts/:id/like
// This endpoint toggles the like status - if already liked, it unlikes; if
// not liked, it likes.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	user, err := s.requireUser(c)
	if err != nil {
		return nil
	}
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.ToggleLike(c.UserContext(), user.ID, postID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(post)
}

// GenerateIngredients handles POST /api/ingredients/generate
func (s *Server) GenerateIngredients(c *fiber.Ctx) error {
	if _, err := s.requireUser(c); err != nil {
		return nil
	}

	var req struct {
		DishName string `json:"dish_name"`
		Servings int    `json:"servings"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	ingredients, err := s.postService.GenerateIngredients(c.UserContext(), req.DishName, req.Servings)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"ingredients": ingredients})
}

package server

import (
	"simmr/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SearchUsers handles GET /api/users/search?q=...
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	if _, err := s.requireUser(c); err != nil {
		return nil
	}

	limit := c.QueryInt("limit", 20)
	users, err := s.userService.SearchUsers(c.UserContext(), c.Query("q"), limit)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(users)
}

// GetUserProfile handles GET /api/users/:username
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	if _, err := s.requireUser(c); err != nil {
		return nil
	}

	profile, err := s.userService.GetProfile(c.UserContext(), c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(profile)
}

// GetUserPosts handles GET /api/users/:username/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	user, err := s.requireUser(c)
	if err != nil {
		return nil
	}

	posts, err := s.postService.UserPosts(c.UserContext(), c.Params("username"), user.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(posts)
}

// GetMe handles GET /api/me
func (s *Server) GetMe(c *fiber.Ctx) error {
	user, err := s.requireUser(c)
	if err != nil {
		return nil
	}
	return c.JSON(user)
}

// UpdateAvatar handles PUT /api/me/avatar
// The row to update is always the acting user's own; no target id is
// accepted from the caller.
func (s *Server) UpdateAvatar(c *fiber.Ctx) error {
	user, err := s.requireUser(c)
	if err != nil {
		return nil
	}

	var req struct {
		AvatarURL string `json:"avatar_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	updated, err := s.userService.UpdateAvatar(c.UserContext(), user.ID, req.AvatarURL)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(updated)
}

// UpdateKitchen handles PUT /api/me/kitchen
func (s *Server) UpdateKitchen(c *fiber.Ctx) error {
	user, err := s.requireUser(c)
	if err != nil {
		return nil
	}

	var req models.KitchenInventory
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	updated, err := s.userService.UpdateKitchen(c.UserContext(), user.ID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(updated)
}

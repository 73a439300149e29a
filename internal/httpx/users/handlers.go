package users

import (
	"github.com/gofiber/fiber/v2"

	"hello-users-api/internal/httpx/kit"
)

// CreateUserHandler echoes the submitted username with the placeholder id.
//
//	@Summary      Create user
//	@Description  Decodes {username} and returns it with id 1337; nothing is persisted
//	@Tags         users
//	@Accept       json
//	@Produce      json
//	@Param        user  body      users.CreateUserRequest  true  "{username}"
//	@Success      201   {object}  users.UserResponse       "created"
//	@Failure      400   {object}  kit.APIError             "malformed JSON or invalid UTF-8 (error envelope)"
//	@Failure      415   {object}  kit.APIError             "not a JSON request (error envelope)"
//	@Failure      422   {object}  kit.APIError             "missing or mistyped username (error envelope)"
//	@Router       /users [post]
func CreateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateUserRequest
		if err := kit.ParseJSON(c, &body); err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(UserResponse{
			ID:       PlaceholderID,
			Username: body.Username,
		})
	}
}

package httpx

import (
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"

	"hello-users-api/internal/httpx/kit"
	"hello-users-api/internal/httpx/users"
)

// AppName is reported in the Fiber config.
const AppName = "hello-users-api"

// NewApp builds the Fiber app with the unified error handler and the goccy
// JSON codec. HTML characters are not escaped so echoed strings round-trip
// byte for byte.
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               AppName,
		ErrorHandler:          kit.ErrorHandler(),
		JSONEncoder:           kit.MarshalJSON,
		JSONDecoder:           json.Unmarshal,
		DisableStartupMessage: true,
	})
}

// Register mounts the public routes. Anything else falls through to Fiber's
// 404/405 handling.
func Register(app *fiber.App) {
	app.Get("/", RootHandler)
	app.Post("/users", users.CreateUserHandler())
}

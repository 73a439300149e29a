package testutil

import (
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"

	"hello-users-api/internal/httpx/kit"
)

// NewApp creates a Fiber app with the standard error handler and JSON codec
// and applies the given mount functions to register selective routes. Useful for tests.
func NewApp(mounts ...func(*fiber.App)) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler:          kit.ErrorHandler(),
		JSONEncoder:           kit.MarshalJSON,
		JSONDecoder:           json.Unmarshal,
		DisableStartupMessage: true,
	})
	for _, m := range mounts {
		if m != nil {
			m(app)
		}
	}
	return app
}

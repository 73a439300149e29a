package httpx

import "github.com/gofiber/fiber/v2"

// Greeting is the body of GET /.
const Greeting = "Hello, world!"

// RootHandler answers with a fixed plain-text greeting.
//
//	@Summary	Greeting
//	@Tags		root
//	@Produce	plain
//	@Success	200	{string}	string	"Hello, world!"
//	@Router		/ [get]
func RootHandler(c *fiber.Ctx) error {
	return c.SendString(Greeting)
}

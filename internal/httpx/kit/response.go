package kit

import (
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

// HeaderRequestID carries the per-request id set by the requestid middleware.
const HeaderRequestID = fiber.HeaderXRequestID

// RequestID extracts request id from headers
func RequestID(c *fiber.Ctx) string {
	rid := c.GetRespHeader(HeaderRequestID)
	return lo.Ternary(rid != "", rid, c.Get(HeaderRequestID))
}

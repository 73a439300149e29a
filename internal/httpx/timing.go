package httpx

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Timing sets X-Response-Time and Server-Timing on every response.
func Timing() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		d := time.Since(start)
		c.Set("X-Response-Time", FormatDuration(d))
		c.Set("Server-Timing", "app;dur="+strconv.FormatFloat(float64(d.Microseconds())/1000, 'f', 3, 64))
		return err
	}
}

var durationUnits = []struct {
	short string
	value time.Duration
}{
	{"d", 24 * time.Hour},
	{"h", time.Hour},
	{"m", time.Minute},
	{"s", time.Second},
	{"ms", time.Millisecond},
	{"us", time.Microsecond},
	{"ns", time.Nanosecond},
}

// FormatDuration renders d compactly in ASCII: a single sub-second unit below one
// second, otherwise at most the two largest non-zero units (e.g. "1m30s").
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "0"
	}
	if d < time.Second {
		switch {
		case d >= time.Millisecond:
			return strconv.FormatInt(d.Milliseconds(), 10) + "ms"
		case d >= time.Microsecond:
			return strconv.FormatInt(d.Microseconds(), 10) + "us"
		default:
			return strconv.FormatInt(d.Nanoseconds(), 10) + "ns"
		}
	}

	var b strings.Builder
	parts := 0
	for _, u := range durationUnits {
		if d < u.value {
			continue
		}
		b.WriteString(strconv.FormatInt(int64(d/u.value), 10))
		b.WriteString(u.short)
		d %= u.value
		parts++
		if parts == 2 || d == 0 {
			break
		}
	}
	return b.String()
}

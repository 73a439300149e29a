package kit

import (
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
)

// MarshalJSON is the app-wide response encoder. HTML characters are left
// unescaped so echoed strings come back byte for byte.
func MarshalJSON(v any) ([]byte, error) {
	return json.MarshalWithOption(v, json.DisableHTMLEscape())
}

// IsJSON reports whether the request declares a JSON body: media type
// application/json or any application/*+json, parameters ignored.
func IsJSON(c *fiber.Ctx) bool {
	ct := strings.ToLower(c.Get(fiber.HeaderContentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	ct = strings.TrimSpace(ct)
	if ct == fiber.MIMEApplicationJSON {
		return true
	}
	return strings.HasPrefix(ct, "application/") && strings.HasSuffix(ct, "+json")
}

// ParseJSON decodes the request body into out with the app's JSON decoder.
//
// A missing JSON content type yields 415. A body that is not well-formed
// JSON (including invalid UTF-8 and unpaired surrogate escapes) yields 400.
// Well-formed JSON that out refuses yields 422.
func ParseJSON(c *fiber.Ctx, out any) error {
	if !IsJSON(c) {
		return UnsupportedMediaType("expected request with `Content-Type: application/json`")
	}
	body := c.Body()
	if !utf8.Valid(body) {
		return BadRequest("failed to parse the request body as JSON", "invalid UTF-8")
	}
	if hasLoneSurrogate(body) {
		return BadRequest("failed to parse the request body as JSON", "lone surrogate in \\u escape")
	}
	decode := c.App().Config().JSONDecoder
	if decode == nil {
		decode = json.Unmarshal
	}
	if err := decode(body, out); err != nil {
		if json.Valid(body) {
			return Unprocessable("failed to deserialize the JSON body into the target type", err.Error())
		}
		return BadRequest("failed to parse the request body as JSON", err.Error())
	}
	return nil
}

// hasLoneSurrogate reports whether b contains a \uD800-\uDFFF escape that is
// not part of a high+low pair. Escaped backslashes are skipped.
func hasLoneSurrogate(b []byte) bool {
	for i := 0; i < len(b); i++ {
		if b[i] != '\\' {
			continue
		}
		if i+1 >= len(b) {
			return false
		}
		if b[i+1] != 'u' {
			i++
			continue
		}
		r, ok := hex4(b, i+2)
		if !ok {
			return false
		}
		switch {
		case r >= 0xDC00 && r <= 0xDFFF:
			return true
		case r >= 0xD800 && r <= 0xDBFF:
			if i+7 >= len(b) || b[i+6] != '\\' || b[i+7] != 'u' {
				return true
			}
			lo, ok := hex4(b, i+8)
			if !ok || lo < 0xDC00 || lo > 0xDFFF {
				return true
			}
			i += 11
		default:
			i += 5
		}
	}
	return false
}

func hex4(b []byte, at int) (rune, bool) {
	if at+4 > len(b) {
		return 0, false
	}
	var r rune
	for _, c := range b[at : at+4] {
		r <<= 4
		switch {
		case c >= '0' && c <= '9':
			r |= rune(c - '0')
		case c >= 'a' && c <= 'f':
			r |= rune(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			r |= rune(c - 'A' + 10)
		default:
			return 0, false
		}
	}
	return r, true
}

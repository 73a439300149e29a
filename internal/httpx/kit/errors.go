package kit

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// APIError is a structured application error with code and message.
type APIError struct {
	HTTPStatus int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

func (e *APIError) Error() string { return e.Message }

func NewAPIError(httpStatus int, code, msg string, details any) *APIError {
	return &APIError{HTTPStatus: httpStatus, Code: code, Message: msg, Details: details}
}

// Error codes emitted in the error envelope.
const (
	CodeInvalidJSON          = "E_INVALID_JSON"
	CodeInvalidBody          = "E_INVALID_BODY"
	CodeUnsupportedMediaType = "E_UNSUPPORTED_MEDIA_TYPE"
	CodeNotFound             = "E_NOT_FOUND"
	CodeMethodNotAllowed     = "E_METHOD_NOT_ALLOWED"
	CodeTooManyRequests      = "E_TOO_MANY_REQUESTS"
	CodeInternal             = "E_INTERNAL"
)

// BadRequest reports a body that is not syntactically valid JSON.
func BadRequest(msg string, details any) error {
	return NewAPIError(http.StatusBadRequest, CodeInvalidJSON, msg, details)
}

// UnsupportedMediaType reports a request without a JSON content type.
func UnsupportedMediaType(msg string) error {
	return NewAPIError(http.StatusUnsupportedMediaType, CodeUnsupportedMediaType, msg, nil)
}

// Unprocessable reports well-formed JSON that does not fit the expected shape.
func Unprocessable(msg string, details any) error {
	return NewAPIError(http.StatusUnprocessableEntity, CodeInvalidBody, msg, details)
}

// ErrorHandler returns a Fiber error handler that emits unified error responses.
// Every failure, including Fiber's own 404/405, is rendered as
// {code, message, details?, request_id}; there is no per-route error body.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{
				"code":       httpStatusToCode(fe.Code),
				"message":    fe.Message,
				"request_id": RequestID(c),
			})
		}

		var ae *APIError
		if errors.As(err, &ae) {
			return c.Status(ae.HTTPStatus).JSON(fiber.Map{
				"code":       ae.Code,
				"message":    ae.Message,
				"details":    ae.Details,
				"request_id": RequestID(c),
			})
		}

		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"code":       CodeInternal,
			"message":    "Internal Server Error",
			"request_id": RequestID(c),
		})
	}
}

func httpStatusToCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return CodeInvalidJSON
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusMethodNotAllowed:
		return CodeMethodNotAllowed
	case http.StatusUnsupportedMediaType:
		return CodeUnsupportedMediaType
	case http.StatusUnprocessableEntity:
		return CodeInvalidBody
	case http.StatusTooManyRequests:
		return CodeTooManyRequests
	default:
		if status >= 500 {
			return CodeInternal
		}
		return "E_UNKNOWN"
	}
}

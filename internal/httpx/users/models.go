package users

import (
	"errors"

	"github.com/goccy/go-json"
)

// PlaceholderID is returned for every created user; nothing is stored, so
// there is no real identifier to hand out.
const PlaceholderID uint64 = 1337

// ErrMissingUsername is returned when the body has no exact "username" key.
var ErrMissingUsername = errors.New("missing field `username`")

// CreateUserRequest represents the POST /users body.
// swagger:model CreateUserRequest
type CreateUserRequest struct {
	Username string `json:"username" example:"alice"`
}

// UnmarshalJSON requires an object with the exact key "username" holding a
// string. Keys are matched case-sensitively; other keys are ignored.
func (r *CreateUserRequest) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	raw, ok := fields["username"]
	if !ok {
		return ErrMissingUsername
	}
	var name *string
	if err := json.Unmarshal(raw, &name); err != nil {
		return err
	}
	if name == nil {
		return errors.New("invalid type: null, expected a string for `username`")
	}
	r.Username = *name
	return nil
}

// UserResponse is the body returned by POST /users.
// swagger:model UserResponse
type UserResponse struct {
	ID       uint64 `json:"id" example:"1337"`
	Username string `json:"username" example:"alice"`
}

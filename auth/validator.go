package auth

import (
	"channel-gate/errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var socketIDPattern = regexp.MustCompile(`^\d+\.\d+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("socketid", func(fl validator.FieldLevel) bool {
		return socketIDPattern.MatchString(fl.Field().String())
	})
	return v
}

// UserAuthRequest is the body of a user authentication call.
type UserAuthRequest struct {
	User     string `form:"user" json:"user" validate:"required,max=128"`
	SocketID string `form:"socket_id" json:"socket_id" validate:"required,socketid"`
}

// ChannelAuthRequest is the body of a channel subscription authorization call.
type ChannelAuthRequest struct {
	SocketID    string `form:"socket_id" json:"socket_id" validate:"required,socketid"`
	ChannelName string `form:"channel_name" json:"channel_name" validate:"required,max=200"`
}

// EventRequest is the body of a publish call.
type EventRequest struct {
	Channel string `json:"channel" validate:"required,max=200"`
	Event   string `json:"event" validate:"required,max=200"`
	Data    any    `json:"data"`
}

// Validate checks the struct tags of a request and wraps failures into ErrInvalidRequest.
func Validate(req any) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidRequest, err)
	}
	return nil
}

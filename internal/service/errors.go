package service

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the parent of every validation failure; callers map it to a 400.
var ErrInvalidInput = errors.New("invalid input")

var (
	ErrUsernameRequired       = fmt.Errorf("%w: username is required", ErrInvalidInput)
	ErrPasswordRequired       = fmt.Errorf("%w: password is required", ErrInvalidInput)
	ErrPasswordTooLong        = fmt.Errorf("%w: password is too long", ErrInvalidInput)
	ErrNameRequired           = fmt.Errorf("%w: name is required", ErrInvalidInput)
	ErrMembershipTypeRequired = fmt.Errorf("%w: membershipType is required", ErrInvalidInput)
)

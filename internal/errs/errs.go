package errs

import "errors"

var (
	ErrTicketNotFound    = errors.New("ticket not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrForbidden         = errors.New("forbidden")
	ErrActiveTicketLimit = errors.New("active ticket limit reached")
	ErrInvalidCode       = errors.New("invalid code")
	ErrCodeExpired       = errors.New("code expired")
	ErrInvalidRole       = errors.New("invalid role")
)

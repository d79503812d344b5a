package mail

import "errors"

var (
	ErrNoRecipients = errors.New("message has no recipients")
	ErrEmptyBody    = errors.New("message body is empty")
)

package tracker

import "errors"

var (
	ErrNotTracked     = errors.New("document is not tracked")
	ErrAlreadyTracked = errors.New("document is already tracked")
	ErrEmptyID        = errors.New("document id is empty")
)

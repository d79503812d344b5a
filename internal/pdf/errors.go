package pdf

import "errors"

var (
	ErrEmptyDocument = errors.New("document contains no data")
	ErrNoText        = errors.New("document contains no extractable text")
)

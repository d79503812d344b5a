package signing

import "errors"

var (
	ErrProcessing      = errors.New("document is still processing")
	ErrDocumentMissing = errors.New("document not found")
	ErrEmptyDocumentID = errors.New("document id is empty")
)

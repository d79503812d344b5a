package intake

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"countersign/internal/pdf"
	"countersign/internal/recipients"
	"countersign/pkg/pipeline"
)

// Input is the document a run operates on.
type Input struct {
	Path string
	Name string
	Data []byte
}

// NewInput reads a document from disk. The document name is the file name
// without its extension.
func NewInput(path string) (Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Input{}, fmt.Errorf("read document: %w", err)
	}

	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	return Input{Path: path, Name: name, Data: data}, nil
}

// State is the shared value one intake run flows through. Every stage
// owns exactly one result slot plus the payload fields listed under it;
// no stage writes another stage's fields.
type State struct {
	Input Input

	// extract
	Extract    pipeline.StageResult
	Text       string
	Recipients []recipients.Recipient

	// validate
	Validate   pipeline.StageResult
	Violations []string

	// add-fields
	AddFields pipeline.StageResult
	Anchor    pdf.Anchor
	Annotated []byte

	// upload
	Upload       pipeline.StageResult
	DocumentID   string
	RemoteState  string
	PollAttempts int

	// assign-fields
	AssignFields   pipeline.StageResult
	FieldsAssigned int
	FieldsSkipped  []string

	// send
	Send     pipeline.StageResult
	SentAt   time.Time
	Tracked  bool
	Archived bool
}

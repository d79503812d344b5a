// Package signing drives the remote signing service's REST API: document
// upload, processing status, field assignment, send, and per-recipient
// completion details.
package signing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"countersign/internal/recipients"
	"countersign/pkg/polling"
)

// System manages signing service operations.
type System interface {
	// Create uploads document bytes with its recipient roster and
	// returns the remote document record.
	Create(ctx context.Context, name string, data []byte, rs []recipients.Recipient) (*Document, error)
	// Status returns the remote processing state of a document.
	Status(ctx context.Context, documentID string) (string, error)
	// Details returns document state including per-recipient completion.
	// Returns ErrProcessing while the remote service is still indexing
	// the document.
	Details(ctx context.Context, documentID string) (*Details, error)
	// CreateFields assigns signature fields to an uploaded document.
	CreateFields(ctx context.Context, documentID string, fields []Field) error
	// Send dispatches a draft document to its recipients.
	Send(ctx context.Context, documentID, message string) error
	// DocumentURL returns the browser URL for a remote document.
	DocumentURL(documentID string) string
}

// Classify maps a remote document state onto the readiness poller's
// vocabulary: drafts are ready to send, upload states are still working,
// anything else is unexpected.
func Classify(state string) polling.Classification {
	switch state {
	case StateDraft:
		return polling.Ready
	case StateUploaded, StateProcessing:
		return polling.Working
	default:
		return polling.Unexpected
	}
}

type client struct {
	http    *http.Client
	baseURL string
	appURL  string
	apiKey  string
	logger  *slog.Logger
}

// New creates a signing system from the given configuration.
func New(cfg *Config, logger *slog.Logger) System {
	return &client{
		http: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		baseURL: cfg.BaseURL,
		appURL:  cfg.AppURL,
		apiKey:  cfg.APIKey,
		logger:  logger.With("system", "signing"),
	}
}

type createRequest struct {
	Name            string                 `json:"name"`
	Recipients      []recipients.Recipient `json:"recipients"`
	ParseFormFields bool                   `json:"parse_form_fields"`
}

func (c *client) Create(ctx context.Context, name string, data []byte, rs []recipients.Recipient) (*Document, error) {
	meta, err := json.Marshal(createRequest{
		Name:            name,
		Recipients:      rs,
		ParseFormFields: false,
	})
	if err != nil {
		return nil, fmt.Errorf("encode create request: %w", err)
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	file, err := form.CreateFormFile("file", name+".pdf")
	if err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}
	if err := form.WriteField("data", string(meta)); err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/documents", &body)
	if err != nil {
		return nil, fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Authorization", "API-Key "+c.apiKey)
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, remoteError("upload document", resp)
	}

	var doc Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}

	c.logger.InfoContext(ctx, "document uploaded",
		"document_id", doc.ID,
		"status", doc.Status,
	)

	return &doc, nil
}

func (c *client) Status(ctx context.Context, documentID string) (string, error) {
	if documentID == "" {
		return "", ErrEmptyDocumentID
	}

	resp, err := c.get(ctx, "/documents/"+documentID)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusConflict:
		return StateProcessing, nil
	case http.StatusNotFound:
		return "", ErrDocumentMissing
	default:
		return "", remoteError("check document status", resp)
	}

	var doc Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return "", fmt.Errorf("decode status response: %w", err)
	}

	return doc.Status, nil
}

func (c *client) Details(ctx context.Context, documentID string) (*Details, error) {
	if documentID == "" {
		return nil, ErrEmptyDocumentID
	}

	resp, err := c.get(ctx, "/documents/"+documentID+"/details")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusConflict:
		return nil, ErrProcessing
	case http.StatusNotFound:
		return nil, ErrDocumentMissing
	default:
		return nil, remoteError("fetch document details", resp)
	}

	var details Details
	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		return nil, fmt.Errorf("decode details response: %w", err)
	}

	return &details, nil
}

type createFieldsRequest struct {
	Fields []Field `json:"fields"`
}

func (c *client) CreateFields(ctx context.Context, documentID string, fields []Field) error {
	if documentID == "" {
		return ErrEmptyDocumentID
	}

	resp, err := c.post(ctx, "/documents/"+documentID+"/fields", createFieldsRequest{Fields: fields})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return remoteError("assign fields", resp)
	}

	c.logger.InfoContext(ctx, "fields assigned",
		"document_id", documentID,
		"count", len(fields),
	)

	return nil
}

type sendRequest struct {
	Message string `json:"message"`
	Silent  bool   `json:"silent"`
}

func (c *client) Send(ctx context.Context, documentID, message string) error {
	if documentID == "" {
		return ErrEmptyDocumentID
	}

	resp, err := c.post(ctx, "/documents/"+documentID+"/send", sendRequest{
		Message: message,
		Silent:  false,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return remoteError("send document", resp)
	}

	c.logger.InfoContext(ctx, "document sent", "document_id", documentID)

	return nil
}

func (c *client) DocumentURL(documentID string) string {
	return c.appURL + "/documents/" + documentID
}

func (c *client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "API-Key "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("signing service request: %w", err)
	}
	return resp, nil
}

func (c *client) post(ctx context.Context, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "API-Key "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("signing service request: %w", err)
	}
	return resp, nil
}

func remoteError(op string, resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%s: unexpected response %d: %s", op, resp.StatusCode, bytes.TrimSpace(snippet))
}

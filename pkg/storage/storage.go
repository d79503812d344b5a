// Package storage archives annotated documents to blob storage. Intake
// keeps a copy of each document exactly as it was submitted to the signing
// service, so a dispute over what recipients were asked to sign can be
// answered without the remote service's cooperation.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"countersign/pkg/lifecycle"
)

const pdfContentType = "application/pdf"

// System manages archive operations and lifecycle coordination.
type System interface {
	// Start registers a startup hook that initializes the archive container.
	Start(lc *lifecycle.Coordinator) error
	// Archive stores the annotated document bytes under the remote document ID.
	Archive(ctx context.Context, documentID string, data []byte) error
	// Retrieve returns the archived bytes for a document.
	// Returns ErrNotFound if no archive entry exists.
	Retrieve(ctx context.Context, documentID string) ([]byte, error)
	// Exists reports whether an archive entry exists for a document.
	Exists(ctx context.Context, documentID string) (bool, error)
}

type azure struct {
	client    *azblob.Client
	container string
	logger    *slog.Logger
}

// New creates an archive system from the given configuration.
// It validates the connection string and creates the Azure client
// but does not establish a connection until Start is called.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("create archive client: %w", err)
	}

	return &azure{
		client:    client,
		container: cfg.ContainerName,
		logger:    logger.With("system", "archive"),
	}, nil
}

func (a *azure) Start(lc *lifecycle.Coordinator) error {
	a.logger.Info("starting archive system")

	lc.OnStartup(func() {
		_, err := a.client.CreateContainer(lc.Context(), a.container, nil)
		if err != nil {
			if !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
				a.logger.Error("archive container initialization failed", "error", err)
				return
			}
		}

		a.logger.Info("archive container ready", "container", a.container)
	})

	return nil
}

func (a *azure) Archive(ctx context.Context, documentID string, data []byte) error {
	key, err := archiveKey(documentID)
	if err != nil {
		return err
	}

	contentType := pdfContentType
	opts := &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: &contentType,
		},
	}

	if _, err := a.client.UploadStream(ctx, a.container, key, bytes.NewReader(data), opts); err != nil {
		return fmt.Errorf("archive document %s: %w", documentID, err)
	}

	return nil
}

func (a *azure) Retrieve(ctx context.Context, documentID string) ([]byte, error) {
	key, err := archiveKey(documentID)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.DownloadStream(ctx, a.container, key, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("retrieve document %s: %w", documentID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read archived document %s: %w", documentID, err)
	}

	return data, nil
}

func (a *azure) Exists(ctx context.Context, documentID string) (bool, error) {
	key, err := archiveKey(documentID)
	if err != nil {
		return false, err
	}

	blobClient := a.client.
		ServiceClient().
		NewContainerClient(a.container).
		NewBlobClient(key)

	if _, err := blobClient.GetProperties(ctx, nil); err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("check archive entry %s: %w", documentID, err)
	}

	return true, nil
}

func archiveKey(documentID string) (string, error) {
	if documentID == "" {
		return "", ErrEmptyKey
	}
	if strings.Contains(documentID, "..") || strings.Contains(documentID, "/") {
		return "", ErrInvalidKey
	}
	return documentID + ".pdf", nil
}

// Package blob is the client side of the attachment upload phase. Raw
// bytes go to the external file service; the returned metadata is what the
// linker associates with a ticket.
package blob

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// UploadResult is the blob store's receipt for an uploaded file.
type UploadResult struct {
	FileID      string `json:"file_id"`
	Filename    string `json:"filename"`
	SizeBytes   int64  `json:"size_bytes"`
	ContentType string `json:"content_type"`
}

// Client talks to the file service.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// NewClient builds a file-service client. baseURL comes from configuration.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{baseURL: baseURL, timeout: timeout, http: &http.Client{}}
}

// Upload sends raw bytes to the blob store and returns the stored file's
// metadata. Failure here aborts the whole attach operation; nothing has
// been linked yet.
func (c *Client) Upload(ctx context.Context, filename, contentType string, content io.Reader) (*UploadResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/files/upload", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if contentType != "" {
		req.Header.Set("X-Upload-Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return nil, apperrors.NewUpstreamTimeout("file-service", err)
		}
		return nil, apperrors.NewUpstreamError("file-service", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, apperrors.NewUpstreamError("file-service",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apperrors.NewUpstreamError("file-service", err)
	}
	if result.FileID == "" {
		return nil, apperrors.NewUpstreamError("file-service", errors.New("upload response missing file id"))
	}
	return &result, nil
}

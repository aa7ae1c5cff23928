package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// IdentityClient performs batch directory reads against the identity
// service. Every call carries the configured timeout; deadline errors are
// surfaced as UPSTREAM_TIMEOUT so callers can tell them apart from
// validation failures.
type IdentityClient struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// NewIdentityClient builds the client. baseURL comes from configuration.
func NewIdentityClient(baseURL string, timeout time.Duration) *IdentityClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &IdentityClient{
		baseURL: baseURL,
		timeout: timeout,
		http:    &http.Client{},
	}
}

type batchRequest struct {
	IDs []string `json:"ids"`
}

type directoryRecord struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	DisplayName string `json:"display_name"`
}

type batchResponse struct {
	Data []directoryRecord `json:"data"`
}

// Departments resolves department ids in one round trip.
func (c *IdentityClient) Departments(ctx context.Context, ids []string) (map[string]domain.Department, error) {
	records, err := c.batch(ctx, "/api/v1/directory/departments/resolve", ids)
	if err != nil {
		return nil, err
	}
	result := make(map[string]domain.Department, len(records))
	for _, rec := range records {
		result[rec.ID] = domain.Department{ID: rec.ID, Code: rec.Code, DisplayName: rec.DisplayName}
	}
	return result, nil
}

// Employees resolves employee ids in one round trip.
func (c *IdentityClient) Employees(ctx context.Context, ids []string) (map[string]domain.Employee, error) {
	records, err := c.batch(ctx, "/api/v1/directory/employees/resolve", ids)
	if err != nil {
		return nil, err
	}
	result := make(map[string]domain.Employee, len(records))
	for _, rec := range records {
		result[rec.ID] = domain.Employee{ID: rec.ID, Code: rec.Code, DisplayName: rec.DisplayName}
	}
	return result, nil
}

func (c *IdentityClient) batch(ctx context.Context, path string, ids []string) ([]directoryRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	body, err := json.Marshal(batchRequest{IDs: ids})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return nil, apperrors.NewUpstreamTimeout("identity-service", err)
		}
		return nil, apperrors.NewUpstreamError("identity-service", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewUpstreamError("identity-service",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var parsed batchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, apperrors.NewUpstreamError("identity-service", err)
	}
	return parsed.Data, nil
}

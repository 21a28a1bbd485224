package hubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/enrollment-sync/pkg/apperrors"
	"github.com/ekaya-inc/enrollment-sync/pkg/logging"
)

// DefaultBaseURL is the public CRM API host.
const DefaultBaseURL = "https://api.hubapi.com"

// Client is a thin HTTP client for the CRM's batch and association
// endpoints. All calls are blocking; pacing between calls is the
// caller's responsibility.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a CRM client authenticating with a static private
// app token.
func NewClient(baseURL, token string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.Named("hubspot"),
	}
}

// BatchRead looks up existing records of the given object type by a
// unique property value. Keys the CRM does not know come back in the
// response's error list under the not-found category, not as a call
// failure.
func (c *Client) BatchRead(ctx context.Context, objectType string, req *BatchReadRequest) (*BatchResponse, error) {
	endpoint := fmt.Sprintf("%s/crm/v3/objects/%s/batch/read", c.baseURL, url.PathEscape(objectType))

	var resp BatchResponse
	if err := c.post(ctx, endpoint, req, &resp); err != nil {
		return nil, fmt.Errorf("batch read %s: %w", objectType, err)
	}
	return &resp, nil
}

// BatchUpdate updates existing records in bulk.
func (c *Client) BatchUpdate(ctx context.Context, objectType string, inputs []UpdateInput) (*BatchResponse, error) {
	endpoint := fmt.Sprintf("%s/crm/v3/objects/%s/batch/update", c.baseURL, url.PathEscape(objectType))

	var resp BatchResponse
	if err := c.post(ctx, endpoint, map[string]any{"inputs": inputs}, &resp); err != nil {
		return nil, fmt.Errorf("batch update %s: %w", objectType, err)
	}
	return &resp, nil
}

// BatchCreate creates new records in bulk.
func (c *Client) BatchCreate(ctx context.Context, objectType string, inputs []CreateInput) (*BatchResponse, error) {
	endpoint := fmt.Sprintf("%s/crm/v3/objects/%s/batch/create", c.baseURL, url.PathEscape(objectType))

	var resp BatchResponse
	if err := c.post(ctx, endpoint, map[string]any{"inputs": inputs}, &resp); err != nil {
		return nil, fmt.Errorf("batch create %s: %w", objectType, err)
	}
	return &resp, nil
}

// ReadAssociations returns the associations of one record towards the
// given object type, e.g. the contacts already linked to an application.
func (c *Client) ReadAssociations(ctx context.Context, objectType, objectID, toObjectType string) ([]AssociationEdge, error) {
	endpoint := fmt.Sprintf("%s/crm/v3/objects/%s/%s?associations=%s",
		c.baseURL, url.PathEscape(objectType), url.PathEscape(objectID), url.QueryEscape(toObjectType))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("read associations: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("read associations %s/%s: %w", objectType, objectID, apperrors.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("read associations %s/%s: status %d", objectType, objectID, resp.StatusCode)
	}

	var obj objectWithAssociations
	if err := json.NewDecoder(resp.Body).Decode(&obj); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	// The association key is the plural object name ("contacts"), but be
	// lenient about the singular the docs sometimes show.
	for _, key := range []string{toObjectType, toObjectType + "s"} {
		if assoc, ok := obj.Associations[key]; ok {
			return assoc.Results, nil
		}
	}
	return nil, nil
}

// CreateAssociation links fromID to toID with the fixed user-defined
// association type.
func (c *Client) CreateAssociation(ctx context.Context, fromType, fromID, toType, toID string, typeID int) error {
	endpoint := fmt.Sprintf("%s/crm/v4/objects/%s/%s/associations/%s/%s",
		c.baseURL, url.PathEscape(fromType), url.PathEscape(fromID), url.PathEscape(toType), url.PathEscape(toID))

	body, err := json.Marshal([]associationSpec{{
		AssociationCategory: AssociationCategoryUserDefined,
		AssociationTypeID:   typeID,
	}})
	if err != nil {
		return fmt.Errorf("marshal association: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("create association: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("create association %s/%s -> %s/%s: status %d",
			fromType, fromID, toType, toID, resp.StatusCode)
	}
	return nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %s", logging.SanitizeError(err))
	}
	defer resp.Body.Close()

	// Batch reads answer 207 when some inputs are missing; that is still
	// a successful call with a populated error list.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusMultiStatus {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Debug("CRM call rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(snippet)))
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	req.Header.Set("Content-Type", "application/json")
}

package aha

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dt-pm-tools/aha-cli/internal/config"
)

const (
	pageSize       = 200
	requestTimeout = 50 * time.Second
	userAgent      = "aha-cli (github.com/dt-pm-tools/aha-cli)"
)

// Client is an Aha! REST API v1 client.
type Client struct {
	baseURL    string
	authHeader string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new client from the given config. Request and
// response bodies are logged at debug level.
func NewClient(cfg config.AhaConfig, logger *slog.Logger) *Client {
	return NewClientWithBaseURL(fmt.Sprintf("https://%s.aha.io/api/v1", cfg.Domain), cfg.Token, logger)
}

// NewClientWithBaseURL creates a client against an explicit API root.
func NewClientWithBaseURL(baseURL, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		authHeader: "Bearer " + token,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
}

// ListProjects returns every product visible to the token.
func (c *Client) ListProjects(ctx context.Context) ([]Record, error) {
	path := fmt.Sprintf("/products?per_page=%d", pageSize)
	return c.list(ctx, path, KindProject)
}

// ListReleases returns the unshipped releases of a product.
func (c *Client) ListReleases(ctx context.Context, projectID string) ([]Record, error) {
	path := fmt.Sprintf("/products/%s/releases?exclude_shipped=true&per_page=%d", url.PathEscape(projectID), pageSize)
	return c.list(ctx, path, KindRelease)
}

// ListFeatures returns the features of a release with their requirements.
func (c *Client) ListFeatures(ctx context.Context, releaseID string) ([]Record, error) {
	path := fmt.Sprintf("/releases/%s/features?per_page=%d&fields=*", url.PathEscape(releaseID), pageSize)
	return c.list(ctx, path, KindFeature)
}

// FetchRecord fetches a single feature or requirement by reference key.
func (c *Client) FetchRecord(ctx context.Context, kind Kind, key string) (*Record, error) {
	path := fmt.Sprintf("/%s/%s", kind.collection(), url.PathEscape(key))
	return c.single(ctx, http.MethodGet, path, kind, nil)
}

// UpdateRecord applies a sparse update and returns the record as stored.
func (c *Client) UpdateRecord(ctx context.Context, kind Kind, key string, update FieldUpdate) (*Record, error) {
	path := fmt.Sprintf("/%s/%s", kind.collection(), url.PathEscape(key))
	body := map[string]FieldUpdate{kind.envelope(): update}
	record, err := c.single(ctx, http.MethodPut, path, kind, body)
	if errors.Is(err, ErrIncompleteRecord) {
		// The write went through; only the echoed record is short of fields.
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return record, err
}

// CreateFeature creates a feature in the given release.
func (c *Client) CreateFeature(ctx context.Context, releaseID string, draft FeatureDraft) (*Record, error) {
	draft.ReleaseID = releaseID
	path := fmt.Sprintf("/releases/%s/features", url.PathEscape(releaseID))
	body := map[string]FeatureDraft{"feature": draft}
	return c.single(ctx, http.MethodPost, path, KindFeature, body)
}

// CreateRequirement creates a requirement on the feature with the given
// reference key.
func (c *Client) CreateRequirement(ctx context.Context, featureRef string, draft RequirementDraft) (*Record, error) {
	path := fmt.Sprintf("/features/%s/requirements", url.PathEscape(featureRef))
	body := map[string]RequirementDraft{"requirement": draft}
	return c.single(ctx, http.MethodPost, path, KindRequirement, body)
}

func (c *Client) list(ctx context.Context, path string, kind Kind) ([]Record, error) {
	var envelope map[string]json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, &envelope); err != nil {
		return nil, err
	}
	raw, ok := envelope[kind.collection()]
	if !ok {
		return nil, fmt.Errorf("response has no %q member: %w", kind.collection(), ErrDecode)
	}
	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", kind.collection(), ErrDecode, err)
	}
	return c.keepComplete(records, kind), nil
}

// keepComplete drops the records, and the requirements of features, that
// lack required fields. Each dropped record is logged at warn level.
func (c *Client) keepComplete(records []Record, kind Kind) []Record {
	valid := records[:0]
	for _, record := range records {
		if kind == KindFeature {
			record.Requirements = c.keepComplete(record.Requirements, KindRequirement)
		}
		if err := record.Validate(kind); err != nil {
			c.logger.Warn("skipping incomplete record", "kind", kind, "error", err)
			continue
		}
		valid = append(valid, record)
	}
	return valid
}

func (c *Client) single(ctx context.Context, method, path string, kind Kind, payload any) (*Record, error) {
	var envelope map[string]json.RawMessage
	if err := c.do(ctx, method, path, payload, &envelope); err != nil {
		return nil, err
	}
	raw, ok := envelope[kind.envelope()]
	if !ok {
		return nil, fmt.Errorf("response has no %q member: %w", kind.envelope(), ErrDecode)
	}
	var record Record
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", kind, ErrDecode, err)
	}
	if err := record.Validate(kind); err != nil {
		return nil, err
	}
	return &record, nil
}

// do performs one request. There are no retries.
func (c *Client) do(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshalling payload: %w", err)
		}
		c.logger.Debug("aha request body", "method", method, "path", path, "body", string(data))
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	c.logger.Debug("aha request", "method", method, "url", req.URL.String())
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("aha API returned %d: %s", resp.StatusCode, string(data))
	}
	c.logger.Debug("aha response", "status", resp.StatusCode, "bytes", len(data))

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}

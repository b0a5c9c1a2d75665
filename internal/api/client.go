// Package api is the HTTP client for the AutoBacklog backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/autobacklog/internal/domain"
	"github.com/google/uuid"
)

// RequestIDHeader carries a per-request id the backend can log.
const RequestIDHeader = "X-Request-ID"

// Config holds the backend connection settings.
type Config struct {
	BaseURL       string
	Timeout       time.Duration
	UploadTimeout time.Duration
}

// DefaultConfig returns the settings for a backend on localhost.
func DefaultConfig() Config {
	return Config{
		BaseURL:       "http://localhost:8080",
		Timeout:       30 * time.Second,
		UploadTimeout: 5 * time.Minute,
	}
}

// Client talks to the backend REST API. It does not retry.
type Client struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewClient creates a Client for the backend at cfg.BaseURL.
func NewClient(cfg Config, observer Observer) *Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.UploadTimeout <= 0 {
		cfg.UploadTimeout = def.UploadTimeout
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

// BaseURL returns the backend address the client was configured with.
func (c *Client) BaseURL() string {
	return c.cfg.BaseURL
}

// ListProjects returns the summary of every project.
func (c *Client) ListProjects(ctx context.Context) ([]domain.Project, error) {
	var dtos []projectDTO
	if err := c.doJSON(ctx, http.MethodGet, "/api/projects/listProjects", nil, &dtos); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	out := make([]domain.Project, len(dtos))
	for i, d := range dtos {
		out[i] = d.toDomain()
	}
	return out, nil
}

// GetProject returns a project with its full backlog, assignments and plan.
func (c *Client) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	var dto projectDTO
	if err := c.doJSON(ctx, http.MethodGet, "/api/projects/"+url.PathEscape(id), nil, &dto); err != nil {
		return nil, fmt.Errorf("get project %s: %w", id, err)
	}
	p := dto.toDomain()
	if p.ID == "" {
		p.ID = id
	}
	return &p, nil
}

// AnalyzePDF uploads a requirements document and returns the backlog the
// backend generated from it. Nothing is persisted by this call.
func (c *Client) AnalyzePDF(ctx context.Context, filename string, r io.Reader) (*domain.ProjectBacklog, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(filename)))
	hdr.Set("Content-Type", "application/pdf")
	part, err := mw.CreatePart(hdr)
	if err != nil {
		return nil, fmt.Errorf("analyze pdf: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("analyze pdf: reading %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("analyze pdf: %w", err)
	}

	var dto analysisDTO
	req := request{
		method:      http.MethodPost,
		path:        "/api/backlog/uploadpdf",
		body:        &body,
		contentType: mw.FormDataContentType(),
		timeout:     c.cfg.UploadTimeout,
	}
	if err := c.do(ctx, req, &dto); err != nil {
		return nil, fmt.Errorf("analyze pdf: %w", err)
	}
	b := dto.toDomain()
	return &b, nil
}

// SaveProject creates the project when it has no id and replaces it
// otherwise. The stored project is returned.
func (c *Client) SaveProject(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	method, path := http.MethodPost, "/api/projects"
	if p.ID != "" {
		method, path = http.MethodPut, "/api/projects/"+url.PathEscape(p.ID)
	}
	var dto projectDTO
	if err := c.doJSON(ctx, method, path, newSaveProjectRequest(p), &dto); err != nil {
		return nil, fmt.Errorf("save project: %w", err)
	}
	saved := dto.toDomain()
	if saved.ID == "" {
		saved.ID = p.ID
	}
	return &saved, nil
}

// ListSprints returns the sprints planned for a project.
func (c *Client) ListSprints(ctx context.Context, projectID string) ([]domain.Sprint, error) {
	var dtos []sprintDTO
	if err := c.doJSON(ctx, http.MethodGet, "/api/projects/"+url.PathEscape(projectID)+"/sprints", nil, &dtos); err != nil {
		return nil, fmt.Errorf("list sprints: %w", err)
	}
	out := make([]domain.Sprint, len(dtos))
	for i, d := range dtos {
		out[i] = d.toDomain()
	}
	return out, nil
}

// CreateItem adds a backlog item to a project and returns it with the id
// the backend assigned.
func (c *Client) CreateItem(ctx context.Context, projectID string, item domain.BacklogItem) (*domain.BacklogItem, error) {
	var out domain.BacklogItem
	path := "/api/projects/" + url.PathEscape(projectID) + "/backlog-items"
	if err := c.doJSON(ctx, http.MethodPost, path, item, &out); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return &out, nil
}

// UpdateItem replaces a backlog item.
func (c *Client) UpdateItem(ctx context.Context, item domain.BacklogItem) (*domain.BacklogItem, error) {
	var out domain.BacklogItem
	path := "/api/backlog-items/" + url.PathEscape(item.ID.String())
	if err := c.doJSON(ctx, http.MethodPut, path, item, &out); err != nil {
		return nil, fmt.Errorf("update item %s: %w", item.ID, err)
	}
	if out.ID.IsZero() {
		out = item
	}
	return &out, nil
}

// DeleteItem removes a backlog item.
func (c *Client) DeleteItem(ctx context.Context, id domain.ItemID) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/api/backlog-items/"+url.PathEscape(id.String()), nil, nil); err != nil {
		return fmt.Errorf("delete item %s: %w", id, err)
	}
	return nil
}

type request struct {
	method      string
	path        string
	body        io.Reader
	contentType string
	timeout     time.Duration
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	req := request{method: method, path: path, timeout: c.cfg.Timeout}
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		req.body = bytes.NewReader(data)
		req.contentType = "application/json"
	}
	return c.do(ctx, req, out)
}

func (c *Client) do(ctx context.Context, req request, out any) error {
	start := time.Now()
	requestID := uuid.NewString()

	status, err := c.roundTrip(ctx, req, requestID, out)

	c.observer.OnCallComplete(CallEvent{
		Method:    req.method,
		Path:      req.path,
		Status:    status,
		RequestID: requestID,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
	return err
}

func (c *Client) roundTrip(ctx context.Context, req request, requestID string, out any) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, req.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.cfg.BaseURL+req.path, req.body)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(RequestIDHeader, requestID)
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return 0, transportError(ctx, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return httpResp.StatusCode, transportError(ctx, err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return httpResp.StatusCode, &StatusError{StatusCode: httpResp.StatusCode, Message: errorMessage(respBody)}
	}
	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return httpResp.StatusCode, nil
	}
	if err := decodeJSON(respBody, out); err != nil {
		return httpResp.StatusCode, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return httpResp.StatusCode, nil
}

// transportError classifies a failure that happened before a complete
// response was read.
func transportError(ctx context.Context, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return ErrTimeout
	case errors.Is(ctx.Err(), context.Canceled):
		return ctx.Err()
	case isConnectionError(err):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		return err
	}
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	if errors.As(err, &netErr) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func errorCode(err error) string {
	var statusErr *StatusError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidResponse):
		return "INVALID_RESPONSE"
	case errors.As(err, &statusErr):
		return fmt.Sprintf("HTTP_%d", statusErr.StatusCode)
	case errors.Is(err, context.Canceled):
		return "CANCELED"
	default:
		return "UNKNOWN"
	}
}

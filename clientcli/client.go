package clientcli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tollgate/tollgate"
)

// DefaultTimeout bounds the control-plane requests (sign, list, delete,
// multipart control). Byte transfers run without a client timeout; they are
// cancelled through their context instead.
const DefaultTimeout = 30 * time.Second

// Client performs operations against a tollgate gateway. Control requests
// carry the admin credential headers; issued capability URLs are used as-is.
type Client struct {
	config     *Config
	httpClient *http.Client
	transfer   *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client for control requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the control-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// New creates a new Client with the given config and options.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	cfg = cfg.WithDefaults()

	c := &Client{
		config: &Config{
			Endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
			Username: cfg.Username,
			Password: cfg.Password,
		},
		httpClient: &http.Client{Timeout: DefaultTimeout},
		transfer:   &http.Client{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Endpoint returns the normalized gateway endpoint.
func (c *Client) Endpoint() string {
	return c.config.Endpoint
}

// resolve turns a server-issued URL into an absolute one. Issued write URLs
// are relative to the gateway root; download links come back absolute.
func (c *Client) resolve(issued string) string {
	if strings.HasPrefix(issued, "http://") || strings.HasPrefix(issued, "https://") {
		return issued
	}
	return c.config.Endpoint + issued
}

func (c *Client) authorize(req *http.Request) {
	if c.config.Password != "" {
		req.Header.Set("X-Admin-Username", c.config.Username)
		req.Header.Set("X-Admin-Password", c.config.Password)
	}
}

// doJSON performs an authorized control request and decodes the JSON
// response into out (when out is non-nil).
func (c *Client) doJSON(ctx context.Context, method, path string, reqBody, out any) error {
	var body io.Reader = http.NoBody
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.Endpoint+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseServerError(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// CheckAuth probes the gateway's credential guard.
func (c *Client) CheckAuth(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/api/auth", nil, nil)
}

// List fetches the gateway's folder-tree listing.
func (c *Client) List(ctx context.Context) (*ListResult, error) {
	var resp filesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/files", nil, &resp); err != nil {
		return nil, err
	}
	return &ListResult{Files: resp.Files}, nil
}

// Link requests a tokenized, shareable object URL.
func (c *Client) Link(ctx context.Context, opts LinkOptions) (*LinkResult, error) {
	if opts.Key == "" {
		return nil, fmt.Errorf("link: %w", ErrEmptyKey)
	}

	q := url.Values{}
	q.Set("key", opts.Key)
	if opts.Download {
		q.Set("download", "1")
	}
	if opts.Filename != "" {
		q.Set("filename", opts.Filename)
	}

	var resp signResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/download?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &LinkResult{Key: opts.Key, URL: resp.URL}, nil
}

// SignUpload requests a tokenized direct-write URL for key.
func (c *Client) SignUpload(ctx context.Context, key, contentType string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("sign upload: %w", ErrEmptyKey)
	}
	var resp signResponse
	body := map[string]string{"key": key, "contentType": contentType}
	if err := c.doJSON(ctx, http.MethodPost, "/api/upload", body, &resp); err != nil {
		return "", err
	}
	return c.resolve(resp.URL), nil
}

// MultipartCreate opens a multipart session for key.
func (c *Client) MultipartCreate(ctx context.Context, key, contentType string) (string, error) {
	var resp createResponse
	body := map[string]string{"action": "create", "key": key, "contentType": contentType}
	if err := c.doJSON(ctx, http.MethodPost, "/api/multipart", body, &resp); err != nil {
		return "", err
	}
	return resp.UploadID, nil
}

// MultipartSignPart requests a tokenized part-write URL.
func (c *Client) MultipartSignPart(ctx context.Context, key, uploadID string, partNumber int) (string, error) {
	var resp signResponse
	body := map[string]any{"action": "signPart", "key": key, "uploadId": uploadID, "partNumber": partNumber}
	if err := c.doJSON(ctx, http.MethodPost, "/api/multipart", body, &resp); err != nil {
		return "", err
	}
	return c.resolve(resp.URL), nil
}

// MultipartComplete finalizes a session from the ordered part list.
func (c *Client) MultipartComplete(ctx context.Context, key, uploadID string, parts []tollgate.Part) error {
	body := map[string]any{"action": "complete", "key": key, "uploadId": uploadID, "parts": parts}
	return c.doJSON(ctx, http.MethodPost, "/api/multipart", body, nil)
}

// MultipartAbort cancels a session.
func (c *Client) MultipartAbort(ctx context.Context, key, uploadID string) error {
	body := map[string]any{"action": "abort", "key": key, "uploadId": uploadID}
	return c.doJSON(ctx, http.MethodPost, "/api/multipart", body, nil)
}

// Download fetches an object through an issued download link.
// If opts.LocalPath is "-", the content is returned via the io.ReadCloser
// and must be closed by the caller. Otherwise, the content is written to
// the file and the io.ReadCloser is nil.
func (c *Client) Download(ctx context.Context, opts DownloadOptions) (*DownloadResult, io.ReadCloser, error) {
	if opts.Key == "" {
		return nil, nil, fmt.Errorf("download: %w", ErrEmptyPath)
	}

	link, err := c.Link(ctx, LinkOptions{Key: opts.Key, Download: true})
	if err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(link.URL), http.NoBody)
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.transfer.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, nil, parseServerError(resp.StatusCode, body)
	}

	result := &DownloadResult{
		Key:         opts.Key,
		ETag:        strings.Trim(resp.Header.Get("ETag"), `"`),
		ContentType: resp.Header.Get("Content-Type"),
		Size:        resp.ContentLength,
	}

	if opts.LocalPath == "-" {
		result.LocalPath = "-"
		return result, resp.Body, nil
	}

	localPath := opts.LocalPath
	if localPath == "" {
		localPath = filepath.Base(opts.Key)
	}
	result.LocalPath = localPath

	dir := filepath.Dir(localPath)
	if dir != "" && dir != "." {
		if mkdirErr := os.MkdirAll(dir, 0o750); mkdirErr != nil {
			_ = resp.Body.Close()
			return nil, nil, fmt.Errorf("create directory: %w", mkdirErr)
		}
	}

	file, createErr := os.Create(localPath) //#nosec G304 -- localPath is user-provided input
	if createErr != nil {
		_ = resp.Body.Close()
		return nil, nil, fmt.Errorf("create file: %w", createErr)
	}

	written, copyErr := io.Copy(file, resp.Body)
	_ = resp.Body.Close()
	if copyErr != nil {
		_ = file.Close()
		return nil, nil, fmt.Errorf("write file: %w", copyErr)
	}

	if closeErr := file.Close(); closeErr != nil {
		return nil, nil, fmt.Errorf("close file: %w", closeErr)
	}

	result.Size = written
	return result, nil, nil
}

// Delete deletes one or more objects from the gateway.
// Continues on error, collecting results for all keys.
func (c *Client) Delete(ctx context.Context, opts DeleteOptions) ([]DeleteResult, error) {
	if len(opts.Keys) == 0 {
		return nil, ErrNoPaths
	}

	results := make([]DeleteResult, 0, len(opts.Keys))
	for _, key := range opts.Keys {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		q := url.Values{}
		q.Set("key", key)
		err := c.doJSON(ctx, http.MethodDelete, "/api/object?"+q.Encode(), nil, nil)
		results = append(results, DeleteResult{Key: key, Deleted: err == nil, Err: err})
	}

	return results, nil
}

// HasDeleteErrors returns true if any delete operation failed.
func HasDeleteErrors(results []DeleteResult) bool {
	for _, r := range results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

// detectContentType returns a MIME type based on file extension.
func detectContentType(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return "application/octet-stream"
	}

	mimeType := mime.TypeByExtension(ext)
	if mimeType == "" {
		return "application/octet-stream"
	}

	return mimeType
}

// NormalizeKey converts a local path into a clean object key: forward
// slashes, no leading "./" or "/", traversal segments stripped.
func NormalizeKey(localPath string) string {
	key := filepath.ToSlash(filepath.Clean(filepath.ToSlash(localPath)))
	key = strings.TrimPrefix(key, "./")
	key = strings.TrimPrefix(key, "/")
	for strings.HasPrefix(key, "../") {
		key = strings.TrimPrefix(key, "../")
	}
	if key == ".." || key == "." {
		return ""
	}
	return key
}

// parseServerError extracts the error message from a gateway response.
func parseServerError(statusCode int, body []byte) error {
	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err == nil && resp.Error != "" {
		return &APIError{StatusCode: statusCode, Message: resp.Error}
	}
	return &APIError{StatusCode: statusCode, Message: strings.TrimSpace(string(body))}
}

// APIError represents an error response from the gateway.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return "server error: " + strconv.Itoa(e.StatusCode) + " - " + e.Message
}

// Is reports whether target matches this error.
// It matches if target is an *APIError with the same StatusCode.
func (e *APIError) Is(target error) bool {
	var t *APIError
	if !errors.As(target, &t) {
		return false
	}
	return t.StatusCode == e.StatusCode
}

// Sentinel errors for common API error conditions.
// Use errors.Is() to check for these conditions.
var (
	// ErrNotFound is returned when the requested object does not exist (404).
	ErrNotFound = &APIError{StatusCode: http.StatusNotFound}

	// ErrUnauthorized is returned when a token or credential check fails (401).
	ErrUnauthorized = &APIError{StatusCode: http.StatusUnauthorized}
)

// Package registry is a minimal Docker Registry HTTP API v2 client.
// The pipeline uses it for two things: an auth preflight before any
// push (so credential problems fail fast, before images leave the
// host) and a best-effort check that pushed tags actually landed.
package registry

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client

	// Services
	Tags TagsService
}

// Error represents an error response from the registry API.
type Error struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *Error) Error() string {
	return fmt.Sprintf("registry API error (%d): %s -- %s", e.StatusCode, e.Message, string(e.Body))
}

// IsAuthFailure reports whether the error is a 401/403 from the
// registry.
func IsAuthFailure(err error) bool {
	var regErr *Error
	if !errors.As(err, &regErr) {
		return false
	}
	return regErr.StatusCode == http.StatusUnauthorized || regErr.StatusCode == http.StatusForbidden
}

// Options configures a Client. Host is the registry host
// (e.g. "registry.example.com"); credentials may be empty for
// anonymous pulls but pushes will want them.
type Options struct {
	Host           string
	Username       string
	Password       string
	TimeoutSeconds int
	Insecure       bool // plain http, for local test registries
}

// NewClient builds a registry client. The host must be non-empty.
func NewClient(opts Options) (*Client, error) {
	host := strings.TrimSpace(opts.Host)
	if host == "" {
		return nil, fmt.Errorf("registry host must be set")
	}

	scheme := "https"
	if opts.Insecure {
		scheme = "http"
	}
	baseURL := scheme + "://" + strings.TrimRight(host, "/")
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid registry host %q: %w", opts.Host, err)
	}

	timeout := 10 * time.Second
	if opts.TimeoutSeconds > 0 {
		timeout = time.Duration(opts.TimeoutSeconds) * time.Second
	}

	c := &Client{
		baseURL:  baseURL,
		username: opts.Username,
		password: opts.Password,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}

	c.Tags = &tagsService{client: c}

	return c, nil
}

// Ping performs the API version check (GET /v2/). A 401 here with
// credentials supplied means the credentials are bad.
func (c *Client) Ping() error {
	_, err := c.doRequest(http.MethodGet, "/")
	return err
}

// doRequest sends a request to the registry and returns the response
// body. The path is relative to the /v2 endpoint.
func (c *Client) doRequest(method, path string) ([]byte, error) {
	fullURL := c.baseURL + "/v2" + path
	req, err := http.NewRequest(method, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request [%s %s]: %w", method, fullURL, err)
	}

	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed [%s %s]: %w", method, fullURL, err)
	}
	defer resp.Body.Close()

	respData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &Error{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       respData,
		}
	}

	return respData, nil
}

// pathEncode keeps repository names (e.g. "acme/jenkins-base") intact
// while escaping anything else unusual.
func pathEncode(s string) string {
	parts := strings.Split(s, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

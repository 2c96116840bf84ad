// Copyright © 2025 Meroxa, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dropbox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

var (
	ErrEmptyAccessToken = errors.New("access token is required")
	ErrExpiredCursor    = errors.New("dropbox: expired cursor")
	ErrDropboxAPI       = errors.New("dropbox API error")
	ErrNotAFolder       = errors.New("path must point to a directory, not a file")
	ErrPathNotFound     = errors.New("path not found")
	ErrConflict         = errors.New("path already exists")
)

const (
	apiURL         = "https://api.dropboxapi.com/2"
	contentURL     = "https://content.dropboxapi.com/2"
	notifyURL      = "https://notify.dropboxapi.com/2"
	defaultTimeout = 5 * time.Minute

	minLongpollSeconds = 30
	maxLongpollSeconds = 480

	headerAPIArg    = "Dropbox-API-Arg"
	headerAPIResult = "Dropbox-API-Result"
)

// Endpoints holds the base URLs of the RPC, content and notification hosts.
type Endpoints struct {
	API     string
	Content string
	Notify  string
}

type HTTPClient struct {
	accessToken string
	endpoints   Endpoints
	httpClient  *http.Client
	limiter     *rate.Limiter
}

type Option func(*HTTPClient)

// WithTimeout bounds every request including reading the response body.
func WithTimeout(timeout time.Duration) Option {
	return func(c *HTTPClient) {
		c.httpClient.Timeout = timeout
	}
}

// WithRateLimit limits outgoing requests to r per second with the given burst.
// A non-positive r disables limiting.
func WithRateLimit(r float64, burst int) Option {
	return func(c *HTTPClient) {
		if r <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(r), burst)
	}
}

// WithEndpoints overrides the Dropbox hosts, used to point the client at a test server.
func WithEndpoints(e Endpoints) Option {
	return func(c *HTTPClient) {
		c.endpoints = e
	}
}

// NewHTTPClient creates a new Dropbox client authenticated with the given access token.
func NewHTTPClient(accessToken string, opts ...Option) (*HTTPClient, error) {
	if accessToken == "" {
		return nil, ErrEmptyAccessToken
	}

	c := &HTTPClient{
		accessToken: accessToken,
		endpoints:   Endpoints{API: apiURL, Content: contentURL, Notify: notifyURL},
		httpClient:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *HTTPClient) List(ctx context.Context, path string, recursive bool, limit int) ([]Entry, string, bool, error) {
	reqBody := struct {
		Path      string `json:"path"`
		Recursive bool   `json:"recursive"`
		Limit     int    `json:"limit,omitempty"`
	}{path, recursive, limit}

	var parsed struct {
		Entries []Entry `json:"entries"`
		Cursor  string  `json:"cursor"`
		HasMore bool    `json:"has_more"`
	}
	if err := c.rpc(ctx, "/files/list_folder", reqBody, &parsed); err != nil {
		return nil, "", false, err
	}

	return parsed.Entries, parsed.Cursor, parsed.HasMore, nil
}

func (c *HTTPClient) ListContinue(ctx context.Context, cursor string) ([]Entry, string, bool, error) {
	reqBody := struct {
		Cursor string `json:"cursor"`
	}{cursor}

	var parsed struct {
		Entries []Entry `json:"entries"`
		Cursor  string  `json:"cursor"`
		HasMore bool    `json:"has_more"`
	}
	if err := c.rpc(ctx, "/files/list_folder/continue", reqBody, &parsed); err != nil {
		return nil, "", false, err
	}

	return parsed.Entries, parsed.Cursor, parsed.HasMore, nil
}

func (c *HTTPClient) LatestCursor(ctx context.Context, path string, recursive bool) (string, error) {
	reqBody := struct {
		Path      string `json:"path"`
		Recursive bool   `json:"recursive"`
	}{path, recursive}

	var parsed struct {
		Cursor string `json:"cursor"`
	}
	if err := c.rpc(ctx, "/files/list_folder/get_latest_cursor", reqBody, &parsed); err != nil {
		return "", err
	}

	return parsed.Cursor, nil
}

func (c *HTTPClient) Longpoll(ctx context.Context, cursor string, timeout time.Duration) (LongpollResult, error) {
	// Dropbox accepts 30 to 480 seconds.
	seconds := int(timeout / time.Second)
	seconds = max(minLongpollSeconds, min(seconds, maxLongpollSeconds))

	body, err := json.Marshal(struct {
		Cursor  string `json:"cursor"`
		Timeout int    `json:"timeout"`
	}{cursor, seconds})
	if err != nil {
		return LongpollResult{}, fmt.Errorf("marshal request failed: %w", err)
	}

	// The notify host takes no Authorization header.
	headers := map[string]string{"Content-Type": "application/json"}
	resp, err := c.makeRequest(ctx, c.endpoints.Notify+"/files/list_folder/longpoll", headers, bytes.NewReader(body))
	if err != nil {
		return LongpollResult{}, err
	}
	defer resp.Body.Close()

	var parsed struct {
		Changes bool `json:"changes"`
		Backoff int  `json:"backoff"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return LongpollResult{}, fmt.Errorf("decode response failed: %w", err)
	}

	return LongpollResult{
		Changes: parsed.Changes,
		Backoff: time.Duration(parsed.Backoff) * time.Second,
	}, nil
}

func (c *HTTPClient) Download(ctx context.Context, path string) (*FileMetadata, io.ReadCloser, error) {
	arg, err := apiArg(struct {
		Path string `json:"path"`
	}{path})
	if err != nil {
		return nil, nil, err
	}

	headers := map[string]string{
		"Authorization": "Bearer " + c.accessToken,
		headerAPIArg:    arg,
	}

	resp, err := c.makeRequest(ctx, c.endpoints.Content+"/files/download", headers, nil)
	if err != nil {
		return nil, nil, err
	}

	var md FileMetadata
	if result := resp.Header.Get(headerAPIResult); result != "" {
		if err := json.Unmarshal([]byte(result), &md); err != nil {
			resp.Body.Close()
			return nil, nil, fmt.Errorf("decode %s header failed: %w", headerAPIResult, err)
		}
	}

	return &md, resp.Body, nil
}

func (c *HTTPClient) UploadFile(ctx context.Context, path string, content []byte, opts UploadOptions) (*FileMetadata, error) {
	arg, err := apiArg(newCommitInfo(path, opts))
	if err != nil {
		return nil, err
	}

	var md FileMetadata
	if err := c.content(ctx, "/files/upload", arg, content, &md); err != nil {
		return nil, err
	}

	return &md, nil
}

func (c *HTTPClient) CreateSession(ctx context.Context, content []byte) (*SessionResponse, error) {
	arg, err := apiArg(struct {
		Close bool `json:"close"`
	}{false})
	if err != nil {
		return nil, err
	}

	var parsed SessionResponse
	if err := c.content(ctx, "/files/upload_session/start", arg, content, &parsed); err != nil {
		return nil, err
	}

	return &parsed, nil
}

func (c *HTTPClient) UploadChunk(ctx context.Context, sessionID string, content []byte, offset uint64) error {
	arg, err := apiArg(struct {
		Cursor sessionCursor `json:"cursor"`
		Close  bool          `json:"close"`
	}{sessionCursor{sessionID, offset}, false})
	if err != nil {
		return err
	}

	// append_v2 answers with an empty "null" body
	return c.content(ctx, "/files/upload_session/append_v2", arg, content, nil)
}

func (c *HTTPClient) CloseSession(ctx context.Context, path, sessionID string, offset uint64, opts UploadOptions) (*FileMetadata, error) {
	arg, err := apiArg(struct {
		Cursor sessionCursor `json:"cursor"`
		Commit commitInfo    `json:"commit"`
	}{sessionCursor{sessionID, offset}, newCommitInfo(path, opts)})
	if err != nil {
		return nil, err
	}

	var md FileMetadata
	if err := c.content(ctx, "/files/upload_session/finish", arg, nil, &md); err != nil {
		return nil, err
	}

	return &md, nil
}

func (c *HTTPClient) VerifyPath(ctx context.Context, path string) (bool, error) {
	reqBody := struct {
		Path string `json:"path"`
	}{path}

	var parsed struct {
		Tag string `json:".tag"`
	}
	if err := c.rpc(ctx, "/files/get_metadata", reqBody, &parsed); err != nil {
		return false, err
	}

	if parsed.Tag != TagFolder {
		return false, ErrNotAFolder
	}

	return true, nil
}

func (c *HTTPClient) DeleteFile(ctx context.Context, path string) error {
	reqBody := struct {
		Path string `json:"path"`
	}{path}

	var parsed struct {
		Metadata json.RawMessage `json:"metadata"`
	}

	return c.rpc(ctx, "/files/delete_v2", reqBody, &parsed)
}

type sessionCursor struct {
	SessionID string `json:"session_id"`
	Offset    uint64 `json:"offset"`
}

type commitInfo struct {
	Path           string `json:"path"`
	Mode           string `json:"mode"`
	Autorename     bool   `json:"autorename"`
	ClientModified string `json:"client_modified,omitempty"`
	Mute           bool   `json:"mute"`
}

func newCommitInfo(path string, opts UploadOptions) commitInfo {
	mode := opts.Mode
	if mode == "" {
		mode = WriteModeAdd
	}

	ci := commitInfo{
		Path: path,
		Mode: string(mode),
		Mute: opts.Mute,
	}
	if !opts.ClientModified.IsZero() {
		ci.ClientModified = opts.ClientModified.UTC().Format(time.RFC3339)
	}
	return ci
}

// rpc performs a call against an RPC endpoint: JSON request body, JSON response body.
func (c *HTTPClient) rpc(ctx context.Context, endpoint string, reqBody, respBody any) error {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request failed: %w", err)
	}

	headers := map[string]string{
		"Authorization": "Bearer " + c.accessToken,
		"Content-Type":  "application/json",
	}

	resp, err := c.makeRequest(ctx, c.endpoints.API+endpoint, headers, bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
		return fmt.Errorf("decode response failed: %w", err)
	}

	return nil
}

// content performs a call against a content-upload endpoint: arguments in the
// Dropbox-API-Arg header, raw bytes in the body, JSON response body.
func (c *HTTPClient) content(ctx context.Context, endpoint, arg string, content []byte, respBody any) error {
	headers := map[string]string{
		"Authorization": "Bearer " + c.accessToken,
		"Content-Type":  "application/octet-stream",
		headerAPIArg:    arg,
	}

	resp, err := c.makeRequest(ctx, c.endpoints.Content+endpoint, headers, bytes.NewReader(content))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if respBody == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
		return fmt.Errorf("decode response failed: %w", err)
	}

	return nil
}

func (c *HTTPClient) makeRequest(ctx context.Context, url string, headers map[string]string, reqBody io.Reader) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait failed: %w", err)
		}
	}

	// Every Dropbox endpoint is a POST.
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	for header, value := range headers {
		req.Header.Set(header, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, parseError(resp)
	}

	return resp, nil
}

func parseError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read error response: %w", err)
	}

	var jsonErr struct {
		ErrorSummary string `json:"error_summary"`
	}
	if err := json.Unmarshal(body, &jsonErr); err == nil && jsonErr.ErrorSummary != "" {
		summary := jsonErr.ErrorSummary
		switch {
		case strings.HasPrefix(summary, "reset/"):
			return ErrExpiredCursor
		case strings.Contains(summary, "not_found"):
			return fmt.Errorf("%w: %w: %s", ErrDropboxAPI, ErrPathNotFound, summary)
		case strings.Contains(summary, "/conflict"):
			return fmt.Errorf("%w: %w: %s", ErrDropboxAPI, ErrConflict, summary)
		default:
			return fmt.Errorf("%w: %s", ErrDropboxAPI, summary)
		}
	}

	return fmt.Errorf("%w (status %d): %s", ErrDropboxAPI, resp.StatusCode, string(body))
}

// apiArg encodes v for the Dropbox-API-Arg header. HTTP headers must stay
// ASCII, so 0x7F and every non-ASCII code point is escaped as \uXXXX.
func apiArg(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal %s failed: %w", headerAPIArg, err)
	}

	var sb strings.Builder
	for _, r := range string(raw) {
		switch {
		case r < 0x7F:
			sb.WriteRune(r)
		case r <= 0xFFFF:
			fmt.Fprintf(&sb, `\u%04x`, r)
		default:
			r -= 0x10000
			fmt.Fprintf(&sb, `\u%04x\u%04x`, 0xD800+(r>>10), 0xDC00+(r&0x3FF))
		}
	}
	return sb.String(), nil
}

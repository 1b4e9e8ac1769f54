package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Options configures the Client.
type Options struct {
	// Timeout bounds a whole request, including reading the body.
	// Zero means no timeout.
	Timeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string

	// AppToken is sent as X-App-Token when not empty.
	AppToken string

	// Transport overrides the default transport. Used by tests.
	Transport http.RoundTripper
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Timeout:   5 * time.Minute,
		UserAgent: "socrata-downloader",
	}
}

// Client wraps HTTP operations with Socrata-specific configuration.
//
// Client is safe for concurrent use by multiple goroutines.
type Client struct {
	httpClient *http.Client
	userAgent  string
	appToken   string
}

// NewClient creates a new HTTP client.
func NewClient(opts Options) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: opts.Transport,
		},
		userAgent: opts.UserAgent,
		appToken:  opts.AppToken,
	}
}

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %s", e.URL, e.Status)
}

// FileError is returned when the destination file cannot be created,
// written or closed.
type FileError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// ProgressWriter wraps a writer to track download progress.
//
// Use this to monitor large downloads by providing an OnUpdate callback
// that receives the current bytes written and total expected bytes.
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header).
	// -1 when unknown.
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	OnUpdate func(written, total int64)

	// err keeps the first error returned by Writer so a failed copy can be
	// attributed to the destination rather than the response body.
	err error
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if err != nil && pw.err == nil {
		pw.err = err
	}
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// Get performs a GET request and returns the response body as bytes.
//
// Returns a *StatusError if the response status is not 2xx.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// DownloadFile streams the body of url into destPath and returns the
// number of bytes written.
//
// The file is only created once the server answered with a 2xx status, so
// an HTTP error never leaves an empty file behind. If the copy fails the
// partial file is removed. onProgress may be nil.
func (c *Client) DownloadFile(ctx context.Context, url, destPath string, onProgress func(written, total int64)) (written int64, err error) {
	resp, err := c.get(ctx, url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	file, err := os.Create(destPath)
	if err != nil {
		return 0, &FileError{Op: "create", Path: destPath, Err: err}
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = &FileError{Op: "close", Path: destPath, Err: cerr}
		}
		if err != nil {
			os.Remove(destPath)
		}
	}()

	pw := &ProgressWriter{
		Writer:   file,
		Total:    resp.ContentLength,
		OnUpdate: onProgress,
	}

	if _, err = io.Copy(pw, resp.Body); err != nil {
		if pw.err != nil {
			return pw.Written, &FileError{Op: "write", Path: destPath, Err: pw.err}
		}
		return pw.Written, fmt.Errorf("read body of %s: %w", url, err)
	}

	return pw.Written, nil
}

// get issues a GET and returns the response when its status is 2xx.
// The caller owns the response body.
func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.appToken != "" {
		req.Header.Set("X-App-Token", c.appToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	return resp, nil
}

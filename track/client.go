package track

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/YuminosukeSato/runtrack/pkg/errors"
)

// RemoteBackend is a Backend speaking a small JSON-over-HTTP protocol to a
// tracking service. Every operation is one request; nothing is buffered,
// so a failed write surfaces immediately at the call site in the training
// loop. Artifact uploads stream the request body, the file is never held
// in memory as a whole.
type RemoteBackend struct {
	cfg    RemoteConfig
	base   *url.URL
	client *http.Client
	closed bool
}

// NewRemoteBackend validates cfg and builds the HTTP client.
func NewRemoteBackend(cfg RemoteConfig) (*RemoteBackend, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	base, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, errors.Wrapf(err, "track: invalid endpoint %q", cfg.Endpoint)
	}
	return &RemoteBackend{
		cfg:    cfg,
		base:   base,
		client: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Name implements Backend.
func (rb *RemoteBackend) Name() string { return "remote" }

func (rb *RemoteBackend) endpoint(segments ...string) string {
	u := *rb.base
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.Join(segments, "/")
	return u.String()
}

func (rb *RemoteBackend) do(method, endpoint string, contentType string, body io.Reader) (*http.Response, error) {
	if rb.closed {
		return nil, errors.NewValueError(method, "backend is closed")
	}
	req, err := http.NewRequest(method, endpoint, body)
	if err != nil {
		return nil, errors.Wrap(err, "track: building request")
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if rb.cfg.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+rb.cfg.APIToken)
	}
	if rb.cfg.Project != "" {
		req.Header.Set("X-Runtrack-Project", rb.cfg.Project)
	}
	resp, err := rb.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "track: %s %s", method, endpoint)
	}
	return resp, nil
}

func checkStatus(resp *http.Response, op, path string) error {
	defer resp.Body.Close()
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return errors.Newf("track: remote sink rejected %s %q: %s: %s",
		op, path, resp.Status, strings.TrimSpace(string(msg)))
}

type valuePayload struct {
	Path  string `json:"path"`
	Value any    `json:"value"`
}

type seriesPayload struct {
	Path  string  `json:"path"`
	Value float64 `json:"value"`
}

// Set implements Backend.
func (rb *RemoteBackend) Set(path string, value any) error {
	body, err := json.Marshal(valuePayload{Path: path, Value: value})
	if err != nil {
		return errors.Wrapf(err, "track: encoding value for %q", path)
	}
	resp, err := rb.do(http.MethodPut, rb.endpoint("api", "values"), "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	return checkStatus(resp, "set", path)
}

// Append implements Backend.
func (rb *RemoteBackend) Append(path string, value float64) error {
	body, err := json.Marshal(seriesPayload{Path: path, Value: value})
	if err != nil {
		return errors.Wrapf(err, "track: encoding point for %q", path)
	}
	resp, err := rb.do(http.MethodPost, rb.endpoint("api", "series"), "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	return checkStatus(resp, "append", path)
}

// Upload implements Backend. The reader is used as the request body, so the
// transport streams the artifact without loading it whole.
func (rb *RemoteBackend) Upload(path string, r io.Reader) error {
	endpoint := rb.endpoint("api", "files") + "?path=" + url.QueryEscape(path)
	resp, err := rb.do(http.MethodPut, endpoint, "application/octet-stream", r)
	if err != nil {
		return err
	}
	return checkStatus(resp, "upload", path)
}

// Exists implements Backend. Missing paths answer 404.
func (rb *RemoteBackend) Exists(path string) (bool, error) {
	endpoint := rb.endpoint("api", "paths") + "?path=" + url.QueryEscape(path)
	resp, err := rb.do(http.MethodGet, endpoint, "", nil)
	if err != nil {
		return false, err
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return false, nil
	}
	if err := checkStatus(resp, "exists", path); err != nil {
		return false, err
	}
	return true, nil
}

// Flush implements Backend. Writes are synchronous, so flush only asks the
// service to commit what it has accepted.
func (rb *RemoteBackend) Flush() error {
	if rb.closed {
		return nil
	}
	resp, err := rb.do(http.MethodPost, rb.endpoint("api", "sync"), "", nil)
	if err != nil {
		return err
	}
	return checkStatus(resp, "sync", "")
}

// Close implements Backend.
func (rb *RemoteBackend) Close() error {
	if rb.closed {
		return nil
	}
	rb.closed = true
	rb.client.CloseIdleConnections()
	return nil
}

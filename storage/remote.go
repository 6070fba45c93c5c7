package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/AgentFS/fserr"
	"github.com/GriffinCanCode/AgentFS/resilience"
	"github.com/GriffinCanCode/AgentFS/types"
)

// Remote serves a read-only HTTP mirror of a file tree. A path under the
// configured root maps to the same relative path beneath the base URL.
// Directories are exposed through a JSON index (nginx autoindex format);
// when a direct request misses, the index is probed before reporting
// NotFound. All mutations fail with UNSUPPORTED_TYPE.
type Remote struct {
	base    string
	root    string
	client  *resty.Client
	limiter *rate.Limiter
	breaker *resilience.Breaker
}

// RemoteOption tunes a Remote backend.
type RemoteOption func(*Remote)

// WithRateLimit caps mirror requests per second. rps <= 0 removes the cap.
func WithRateLimit(rps float64) RemoteOption {
	return func(r *Remote) {
		if rps <= 0 {
			r.limiter = rate.NewLimiter(rate.Inf, 0)
		} else {
			r.limiter = rate.NewLimiter(rate.Limit(rps), int(rps))
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) RemoteOption {
	return func(r *Remote) {
		r.client.SetTimeout(d)
	}
}

// WithRetry configures transport retry behavior.
func WithRetry(maxRetries int, minWait, maxWait time.Duration) RemoteOption {
	return func(r *Remote) {
		r.client.SetRetryCount(maxRetries).
			SetRetryWaitTime(minWait).
			SetRetryMaxWaitTime(maxWait)
	}
}

// NewRemote creates a mirror backend rooted at root and served from
// baseURL.
func NewRemote(baseURL, root string, opts ...RemoteOption) *Remote {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 30 * time.Second
	retryClient.Logger = nil

	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(30*time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1*time.Second).
		SetRetryMaxWaitTime(30*time.Second).
		SetHeader("User-Agent", "AgentFS-Mirror/1.0")
	client.SetTransport(retryClient.HTTPClient.Transport)

	r := &Remote{
		base:    strings.TrimRight(baseURL, "/"),
		root:    filepath.Clean(root),
		client:  client,
		limiter: rate.NewLimiter(rate.Inf, 0),
		breaker: resilience.New("storage-mirror", resilience.Settings{
			Probes:   5,
			Window:   60 * time.Second,
			Cooldown: 30 * time.Second,
			Trip: func(c resilience.Counts) bool {
				return c.ConsecutiveFailures >= 5
			},
		}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Origin labels mirror content as remote-sourced.
func (r *Remote) Origin() types.Source { return types.SourceRemote }

// BreakerState exposes the mirror breaker's admission mode.
func (r *Remote) BreakerState() resilience.State { return r.breaker.State() }

func (r *Remote) ReadBytes(ctx context.Context, path string) ([]byte, error) {
	u, err := r.urlFor(path)
	if err != nil {
		return nil, fserr.Wrap(err, path)
	}
	resp, err := r.do(ctx, http.MethodGet, u)
	if err != nil {
		return nil, fserr.Wrap(err, path)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, r.httpError(resp.StatusCode(), path)
	}
	return resp.Body(), nil
}

func (r *Remote) Stat(ctx context.Context, path string) (Info, error) {
	u, err := r.urlFor(path)
	if err != nil {
		return Info{}, fserr.Wrap(err, path)
	}
	resp, err := r.do(ctx, http.MethodHead, u)
	if err != nil {
		return Info{}, fserr.Wrap(err, path)
	}
	switch resp.StatusCode() {
	case http.StatusOK:
		var size int64
		if cl := resp.Header().Get("Content-Length"); cl != "" {
			size, _ = strconv.ParseInt(cl, 10, 64)
		}
		var mod time.Time
		if lm := resp.Header().Get("Last-Modified"); lm != "" {
			if t, perr := http.ParseTime(lm); perr == nil {
				mod = t
			}
		}
		return Info{Size: size, Mode: 0o444, ModTime: mod}, nil
	case http.StatusNotFound:
		if _, ierr := r.index(ctx, path, u); ierr == nil {
			return Info{Mode: fs.ModeDir | 0o555}, nil
		}
		return Info{}, fserr.NewNotFound(fmt.Sprintf("Path not found: %s", path), path)
	default:
		return Info{}, r.httpError(resp.StatusCode(), path)
	}
}

func (r *Remote) Listdir(ctx context.Context, path string) ([]string, error) {
	u, err := r.urlFor(path)
	if err != nil {
		return nil, fserr.Wrap(err, path)
	}
	entries, err := r.index(ctx, path, u)
	if err != nil {
		return nil, fserr.Wrap(err, path)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names, nil
}

func (r *Remote) Exists(ctx context.Context, path string) (bool, error) {
	_, err := r.Stat(ctx, path)
	if err == nil {
		return true, nil
	}
	if fserr.IsNotFound(err) {
		return false, nil
	}
	return false, err
}

func (r *Remote) WriteBytes(ctx context.Context, path string, data []byte, overwrite bool) error {
	return r.readOnly(path)
}

func (r *Remote) Mkdir(ctx context.Context, path string, parents bool) error {
	return r.readOnly(path)
}

func (r *Remote) Remove(ctx context.Context, path string) error {
	return r.readOnly(path)
}

func (r *Remote) Rename(ctx context.Context, oldPath, newPath string) error {
	return r.readOnly(oldPath)
}

func (r *Remote) Rmtree(ctx context.Context, path string) error {
	return r.readOnly(path)
}

func (r *Remote) Chmod(ctx context.Context, path string, mode fs.FileMode) error {
	return r.readOnly(path)
}

func (r *Remote) Copy(ctx context.Context, src, dst string) error {
	return r.readOnly(dst)
}

func (r *Remote) readOnly(path string) error {
	return fserr.NewUnsupportedType(fmt.Sprintf("Remote mirror is read-only: %s", path), path)
}

// do issues one rate-limited request through the circuit breaker.
// Transport failures count against the breaker; HTTP error statuses do not.
func (r *Remote) do(ctx context.Context, method, u string) (*resty.Response, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	var resp *resty.Response
	err := r.breaker.Do(func() error {
		var derr error
		resp, derr = r.client.R().SetContext(ctx).Execute(method, u)
		return derr
	})
	return resp, err
}

type mirrorEntry struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func (r *Remote) index(ctx context.Context, path, u string) ([]mirrorEntry, error) {
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	var resp *resty.Response
	err := r.breaker.Do(func() error {
		var derr error
		resp, derr = r.client.R().SetContext(ctx).SetHeader("Accept", "application/json").Get(u)
		return derr
	})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, r.httpError(resp.StatusCode(), path)
	}
	var entries []mirrorEntry
	if err := json.Unmarshal(resp.Body(), &entries); err != nil {
		return nil, fserr.NewStorage(fmt.Sprintf("Mirror index is not JSON: %s", path), path, err)
	}
	return entries, nil
}

func (r *Remote) urlFor(path string) (string, error) {
	rel, err := filepath.Rel(r.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fserr.NewStorage(fmt.Sprintf("Path outside mirror root: %s", path), path, nil)
	}
	if rel == "." {
		rel = ""
	}
	return url.JoinPath(r.base, filepath.ToSlash(rel))
}

func (r *Remote) httpError(status int, path string) *fserr.Error {
	switch status {
	case http.StatusNotFound:
		return fserr.NewNotFound(fmt.Sprintf("Path not found: %s", path), path)
	case http.StatusForbidden, http.StatusUnauthorized:
		return fserr.NewPermissionDenied(fmt.Sprintf("Permission denied: %s", path), path)
	default:
		return fserr.NewStorage(fmt.Sprintf("Mirror returned status %d for %s", status, path), path, nil)
	}
}

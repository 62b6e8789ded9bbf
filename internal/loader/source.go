package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// DefaultTimeout bounds a single HTTP fetch when HTTPSource.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// MemorySource serves a document already held in memory.
type MemorySource []byte

func (m MemorySource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// FileSource reads a document from a billy filesystem.
type FileSource struct {
	FS   billy.Filesystem
	Path string
}

func (f FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := util.ReadFile(f.FS, f.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Path, err)
	}
	return data, nil
}

// Query narrows what an HTTP data endpoint returns.
// Query and Fields are sent JSON-encoded; Start and Limit as decimal strings.
type Query struct {
	Query  map[string]any
	Fields []string
	Start  int
	Limit  int
}

// Values encodes q as URL parameters. Zero-valued parts are omitted.
func (q Query) Values() (url.Values, error) {
	v := url.Values{}
	if len(q.Query) > 0 {
		b, err := json.Marshal(q.Query)
		if err != nil {
			return nil, fmt.Errorf("encode query: %w", err)
		}
		v.Set("query", string(b))
	}
	if len(q.Fields) > 0 {
		b, err := json.Marshal(q.Fields)
		if err != nil {
			return nil, fmt.Errorf("encode fields: %w", err)
		}
		v.Set("fields", string(b))
	}
	if q.Start > 0 {
		v.Set("start", strconv.Itoa(q.Start))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v, nil
}

// HTTPSource fetches a document with a GET request.
type HTTPSource struct {
	URL     string
	Query   Query
	Timeout time.Duration
	Client  *http.Client
}

func (h HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	u, err := url.Parse(h.URL)
	if err != nil {
		return nil, fmt.Errorf("parse url %s: %w", h.URL, err)
	}
	params, err := h.Query.Values()
	if err != nil {
		return nil, err
	}
	if len(params) > 0 {
		q := u.Query()
		for k, vs := range params {
			q[k] = vs
		}
		u.RawQuery = q.Encode()
	}

	timeout := h.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", h.URL, err)
	}
	defer func() { _ = resp.Body.Close() }() // safe to ignore

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", h.URL, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response from %s: %w", h.URL, err)
	}
	return data, nil
}

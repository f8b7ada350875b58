package asset

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"
)

// Dir returns a source reading models from a local directory.
func Dir(root string) fs.FS {
	return os.DirFS(root)
}

// HTTP returns a source fetching models relative to the given base url.
func HTTP(base *url.URL, client *http.Client) fs.FS {
	if client == nil {
		client = http.DefaultClient
	}

	return &httpFS{base: base, client: client}
}

func isRemote(base string) bool {
	return strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://")
}

// contextFS is implemented by sources that can abort opening a file.
type contextFS interface {
	OpenContext(ctx context.Context, name string) (fs.File, error)
}

type httpFS struct {
	base   *url.URL
	client *http.Client
}

func (h *httpFS) Open(name string) (fs.File, error) {
	return h.OpenContext(context.Background(), name)
}

// OpenContext starts a request for the file. Canceling ctx aborts the
// request, including reading its body.
func (h *httpFS) OpenContext(ctx context.Context, name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	target := h.base.JoinPath(name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_ = resp.Body.Close()
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}

	case resp.StatusCode != http.StatusOK:
		_ = resp.Body.Close()
		err := fmt.Errorf("unexpected status %q from %s", resp.Status, target)
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}

	return &httpFile{name: name, body: resp.Body, size: resp.ContentLength}, nil
}

type httpFile struct {
	name string
	body io.ReadCloser
	size int64
}

func (f *httpFile) Stat() (fs.FileInfo, error) {
	return httpFileInfo{name: path.Base(f.name), size: f.size}, nil
}

func (f *httpFile) Read(buf []byte) (int, error) {
	return f.body.Read(buf)
}

func (f *httpFile) Close() error {
	return f.body.Close()
}

type httpFileInfo struct {
	name string
	size int64
}

func (i httpFileInfo) Name() string       { return i.name }
func (i httpFileInfo) Size() int64        { return i.size }
func (i httpFileInfo) Mode() fs.FileMode  { return 0o444 }
func (i httpFileInfo) ModTime() time.Time { return time.Time{} }
func (i httpFileInfo) IsDir() bool        { return false }
func (i httpFileInfo) Sys() any           { return nil }

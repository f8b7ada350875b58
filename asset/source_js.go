package asset

import (
	"fmt"
	"io/fs"
	"net/url"
	"syscall/js"
)

// NewSource returns a remote source. Relative bases are resolved against
// the location of the current page.
func NewSource(base string) (fs.FS, error) {
	page, err := url.Parse(js.Global().Get("location").Get("href").String())
	if err != nil {
		return nil, fmt.Errorf("parse page location: %w", err)
	}

	ref, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse asset url: %w", err)
	}

	return HTTP(page.ResolveReference(ref), nil), nil
}

//go:build !js

package asset

import (
	"fmt"
	"io/fs"
	"net/url"
)

// NewSource returns a remote source for http and https urls and a
// local directory source for everything else.
func NewSource(base string) (fs.FS, error) {
	if !isRemote(base) {
		return Dir(base), nil
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse asset url: %w", err)
	}

	return HTTP(baseURL, nil), nil
}

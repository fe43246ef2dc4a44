// Package sources resolves visualization names to fragment shader source.
package sources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/stewi1014/glbackdrop/programs"
)

// Store resolves a visualization name to its fragment shader source.
type Store interface {
	Source(ctx context.Context, name string) (string, error)
}

// FetchError reports a name that could not be resolved.
type FetchError struct {
	Name string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %q: %v", e.Name, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// checkName keeps names usable as bare path and URL segments.
func checkName(name string) error {
	if name == "" {
		return errors.New("empty name")
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return fmt.Errorf("name %q contains %q", name, r)
		}
	}
	return nil
}

// EmbedStore serves the sources compiled into the catalogue.
type EmbedStore struct {
	Catalogue *programs.Catalogue
}

func (s EmbedStore) Source(_ context.Context, name string) (string, error) {
	frag, ok := s.Catalogue.Fragment(name)
	if !ok {
		return "", &FetchError{Name: name, Err: errors.New("no embedded source")}
	}
	return frag, nil
}

// DirStore serves <dir>/<name>.frag from the local filesystem.
type DirStore struct {
	Dir string
}

func (s DirStore) Source(_ context.Context, name string) (string, error) {
	if err := checkName(name); err != nil {
		return "", &FetchError{Name: name, Err: err}
	}

	b, err := os.ReadFile(filepath.Join(s.Dir, name+".frag"))
	if err != nil {
		return "", &FetchError{Name: name, Err: err}
	}
	return string(b), nil
}

var defaultClient = &http.Client{Timeout: 10 * time.Second}

// HTTPStore fetches <base>/shaders/<name>.frag. Every request carries a
// fresh v= query parameter so intermediate caches never serve stale
// source after a deploy.
type HTTPStore struct {
	Base   string
	Client *http.Client
}

func (s HTTPStore) Source(ctx context.Context, name string) (string, error) {
	if err := checkName(name); err != nil {
		return "", &FetchError{Name: name, Err: err}
	}

	url := fmt.Sprintf(
		"%s/shaders/%s.frag?v=%d",
		strings.TrimRight(s.Base, "/"), name, time.Now().UnixMilli(),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{Name: name, Err: err}
	}

	client := s.Client
	if client == nil {
		client = defaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", &FetchError{Name: name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &FetchError{Name: name, Err: fmt.Errorf("GET %v: %v", url, resp.Status)}
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{Name: name, Err: err}
	}
	return string(b), nil
}

package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	contentDomain "github.com/eduvault/eduvault/internal/content/domain"
	apperrors "github.com/eduvault/eduvault/internal/errors"
)

// ContentSource fetches the plaintext bytes of a resource from its origin.
type ContentSource interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// OriginContentSource resolves resource URLs against either the local content
// directory or an upstream HTTP origin. Relative URLs are read from baseDir;
// absolute http(s) URLs are fetched over the network.
type OriginContentSource struct {
	baseDir string
	client  *http.Client
}

// NewOriginContentSource creates a content source rooted at baseDir.
func NewOriginContentSource(baseDir string) *OriginContentSource {
	return &OriginContentSource{
		baseDir: baseDir,
		client:  &http.Client{},
	}
}

// Fetch returns the plaintext bytes behind the given URL.
func (o *OriginContentSource) Fetch(ctx context.Context, url string) ([]byte, error) {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return o.fetchHTTP(ctx, url)
	}
	return o.fetchFile(url)
}

func (o *OriginContentSource) fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to build origin request")
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(contentDomain.ErrContentUnavailable, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Wrap(
			contentDomain.ErrContentUnavailable,
			fmt.Sprintf("origin returned status %d", resp.StatusCode),
		)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(contentDomain.ErrContentUnavailable, err.Error())
	}
	return data, nil
}

func (o *OriginContentSource) fetchFile(url string) ([]byte, error) {
	// Reject paths escaping the content directory.
	cleaned := filepath.Clean("/" + url)
	path := filepath.Join(o.baseDir, cleaned)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(contentDomain.ErrContentUnavailable, err.Error())
	}
	return data, nil
}

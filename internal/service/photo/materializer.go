package photo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/konalla/appadhesionudrgv3-sub000/internal/domain"
)

var httpURLRe = regexp.MustCompile(`^https?://`)

// Materialize downloads an externally hosted image seen during bulk
// import and stores it under a deterministic, business-key-derived
// name. On any failure the caller keeps the original URL string as the
// reference; one bad row never aborts an import batch.
//
// The timestamp suffix is intentionally unstable across repeated
// imports of the same key; the resolver's pattern search absorbs the
// drift.
func (s *service) Materialize(ctx context.Context, rawURL, businessKey string) (string, error) {
	if !httpURLRe.MatchString(rawURL) {
		return "", fmt.Errorf("not an http(s) url: %q", rawURL)
	}
	if businessKey == "" {
		return "", fmt.Errorf("business key is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := s.fetch.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", domain.ErrNotImage
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.cfg.MaxPhotoBytes+1))
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	if int64(len(body)) > s.cfg.MaxPhotoBytes {
		return "", domain.ErrTooLarge
	}

	name := fmt.Sprintf("imported_%s_%d.%s", businessKey, time.Now().UnixMilli(), domain.ExtForContentType(contentType))
	if err := s.store.Write(ctx, name, bytes.NewReader(body), int64(len(body)), contentType); err != nil {
		return "", err
	}
	return name, nil
}

package photo

import (
	"context"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/konalla/appadhesionudrgv3-sub000/internal/domain"
)

// resolve runs the lookup cascade for a normalized identifier,
// short-circuiting on the first hit. Every step is read-only; a hit
// found anywhere past the direct lookup is flagged Discovered so the
// caller may persist the corrected reference.
//
// External URLs are never fetched here. Cache miss is terminal:
// materialization only happens at import time.
func (s *service) resolve(ctx context.Context, id domain.PhotoID, preferUploaded bool) (domain.Resolution, error) {
	switch id.Kind {
	case domain.PhotoAbsent:
		return domain.NotFoundResolution, nil

	case domain.PhotoExternalURL:
		return s.resolveExternalURL(ctx, id.Value, preferUploaded)

	case domain.PhotoCorruptedProxy:
		// No filename could be extracted from the wrapped URL; the
		// raw string matches nothing in the store.
		return domain.NotFoundResolution, nil
	}

	// Direct hit: the canonical filename exists verbatim.
	ok, err := s.store.Exists(ctx, id.Value)
	if err != nil {
		return domain.NotFoundResolution, err
	}
	if ok {
		return domain.FoundResolution(id.Value, false), nil
	}

	// Import-derived names drift: re-imports re-derive the timestamp
	// suffix. Match on the business key alone.
	if key := id.ImportKey(); key != "" {
		name, err := s.findByPattern(ctx, domain.ImportedNamePattern(key))
		if err != nil {
			return domain.NotFoundResolution, err
		}
		if name != "" {
			return domain.FoundResolution(name, true), nil
		}
	}

	// Prefix search covers extension-less identifiers, including the
	// 24-hex ids handed out by the old external image host.
	name, err := s.findByPrefix(ctx, id.Value)
	if err != nil {
		return domain.NotFoundResolution, err
	}
	if name != "" {
		return domain.FoundResolution(name, true), nil
	}

	return s.resolveBackReference(ctx, id)
}

// resolveExternalURL probes the known cache-naming conventions for a
// previously materialized copy of the URL. With preferUploaded set, a
// genuinely uploaded asset matching the URL's basename wins over any
// URL-derived cached copy.
func (s *service) resolveExternalURL(ctx context.Context, rawURL string, preferUploaded bool) (domain.Resolution, error) {
	if preferUploaded {
		if base := urlBasename(rawURL); base != "" {
			name, err := s.findByPrefix(ctx, base)
			if err != nil {
				return domain.NotFoundResolution, err
			}
			if name != "" {
				return domain.FoundResolution(name, true), nil
			}
		}
	}

	for _, prefix := range domain.URLCacheNames(rawURL) {
		name, err := s.findByPrefix(ctx, prefix)
		if err != nil {
			return domain.NotFoundResolution, err
		}
		if name != "" {
			return domain.FoundResolution(name, true), nil
		}
	}
	return domain.NotFoundResolution, nil
}

// resolveBackReference consults the member whose business key is
// embedded in the identifier: after repeated normalization passes the
// stored reference may denote the same asset under a different
// representation.
func (s *service) resolveBackReference(ctx context.Context, id domain.PhotoID) (domain.Resolution, error) {
	key := id.ImportKey()
	if key == "" {
		return domain.NotFoundResolution, nil
	}

	member, err := s.memberRepo.GetByMembershipID(ctx, key)
	if err != nil || member == nil {
		return domain.NotFoundResolution, err
	}

	current := domain.NormalizePhotoID(member.PhotoID)
	if current.Absent() || current.Value == id.Value {
		return domain.NotFoundResolution, nil
	}
	switch current.Kind {
	case domain.PhotoExternalURL, domain.PhotoCorruptedProxy:
		return domain.NotFoundResolution, nil
	}

	ok, err := s.store.Exists(ctx, current.Value)
	if err != nil {
		return domain.NotFoundResolution, err
	}
	if ok {
		return domain.FoundResolution(current.Value, true), nil
	}
	return domain.NotFoundResolution, nil
}

func (s *service) findByPrefix(ctx context.Context, prefix string) (string, error) {
	assets, err := s.store.List(ctx)
	if err != nil {
		return "", err
	}
	for _, a := range assets {
		if strings.HasPrefix(a.Name, prefix) {
			return a.Name, nil
		}
	}
	return "", nil
}

func (s *service) findByPattern(ctx context.Context, re *regexp.Regexp) (string, error) {
	assets, err := s.store.List(ctx)
	if err != nil {
		return "", err
	}
	for _, a := range assets {
		if re.MatchString(a.Name) {
			return a.Name, nil
		}
	}
	return "", nil
}

func urlBasename(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" {
		return ""
	}
	return base
}

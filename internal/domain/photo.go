package domain

import (
	"crypto/md5"
	"encoding/hex"
	"path"
	"regexp"
	"strings"
)

// PhotoKind classifies a normalized photo identifier. The set is closed:
// every identifier stored on a member maps to exactly one kind.
type PhotoKind string

const (
	PhotoAbsent           PhotoKind = "ABSENT"
	PhotoLocalFile        PhotoKind = "LOCAL_FILE"
	PhotoImportDerived    PhotoKind = "IMPORT_DERIVED"
	PhotoLegacyCapture    PhotoKind = "LEGACY_CAPTURE"
	PhotoOpaqueExternalID PhotoKind = "OPAQUE_EXTERNAL_ID"
	PhotoExternalURL      PhotoKind = "EXTERNAL_URL"
	PhotoCorruptedProxy   PhotoKind = "CORRUPTED_PROXY"
)

// PhotoID is the normalized form of a raw photo identifier string.
// Value holds the canonical local filename, or the full URL for
// EXTERNAL_URL, or the raw string for CORRUPTED_PROXY when no embedded
// filename could be extracted.
type PhotoID struct {
	Kind  PhotoKind `json:"kind"`
	Value string    `json:"value"`
}

func (p PhotoID) Absent() bool {
	return p.Kind == PhotoAbsent
}

// proxySignature is the host of a defunct image proxy that rewrapped
// photo URLs during a legacy migration. Identifiers containing it are
// corrupted and carry the real filename somewhere inside.
const proxySignature = "images.weserv.nl"

var (
	uuidFileRe     = regexp.MustCompile(`(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.(?:jpg|jpeg|png|gif|webp)`)
	importedFileRe = regexp.MustCompile(`imported_[0-9A-Za-z]+_\d+\.(?:jpg|jpeg|png|gif|webp)`)
	importedKeyRe  = regexp.MustCompile(`^imported_([0-9A-Za-z]+)_\d+\.(?:jpg|jpeg|png|gif|webp)$`)
	opaqueHexRe    = regexp.MustCompile(`^[0-9a-f]{24}$`)
	bareKeyFileRe  = regexp.MustCompile(`^([0-9]+)\.(?:jpg|jpeg|png|gif|webp)$`)
)

// NormalizePhotoID maps a raw identifier string, in any of the legacy or
// modern formats, to its canonical form. It is pure, total and
// idempotent: normalizing an already-normalized value changes nothing.
func NormalizePhotoID(raw string) PhotoID {
	s := strings.TrimSpace(raw)
	if s == "" {
		return PhotoID{Kind: PhotoAbsent}
	}

	if strings.Contains(s, proxySignature) {
		if m := uuidFileRe.FindString(s); m != "" {
			return classifyFilename(strings.ToLower(m))
		}
		if m := importedFileRe.FindString(s); m != "" {
			return classifyFilename(m)
		}
		return PhotoID{Kind: PhotoCorruptedProxy, Value: s}
	}

	// Migrations stacked the prefix on some records; strip until
	// stable so normalization stays idempotent.
	for {
		stripped := strings.TrimPrefix(strings.TrimPrefix(s, "/uploads/"), "uploads/")
		if stripped == s {
			break
		}
		s = stripped
	}

	if strings.HasPrefix(s, "http") {
		return PhotoID{Kind: PhotoExternalURL, Value: s}
	}

	return classifyFilename(s)
}

func classifyFilename(name string) PhotoID {
	switch {
	case name == "":
		return PhotoID{Kind: PhotoAbsent}
	case importedKeyRe.MatchString(name):
		return PhotoID{Kind: PhotoImportDerived, Value: name}
	case strings.HasPrefix(name, "IMG_"):
		return PhotoID{Kind: PhotoLegacyCapture, Value: name}
	case opaqueHexRe.MatchString(name):
		return PhotoID{Kind: PhotoOpaqueExternalID, Value: name}
	default:
		return PhotoID{Kind: PhotoLocalFile, Value: name}
	}
}

// ImportKey returns the business key embedded in an import-derived
// filename, or "" when the identifier carries none.
func (p PhotoID) ImportKey() string {
	if m := importedKeyRe.FindStringSubmatch(p.Value); m != nil {
		return m[1]
	}
	if m := bareKeyFileRe.FindStringSubmatch(p.Value); m != nil {
		return m[1]
	}
	return ""
}

// URLCacheNames returns the candidate filename prefixes under which a
// previously materialized copy of an external URL may be stored. Two
// conventions exist because two import generations wrote the cache.
func URLCacheNames(url string) []string {
	sum := md5.Sum([]byte(url))
	h := hex.EncodeToString(sum[:])
	return []string{"external_" + h, "wp_cached_" + h}
}

// ImportedNamePattern matches any import-derived filename for the given
// business key regardless of its timestamp suffix. Repeated import
// passes re-derive different suffixes for the same key. The extension
// set must cover everything the materializer and duplicate repair can
// emit, webp included, or their output becomes invisible to the drift
// search and to orphan protection.
func ImportedNamePattern(businessKey string) *regexp.Regexp {
	return regexp.MustCompile(`^imported_` + regexp.QuoteMeta(businessKey) + `_\d+\.(?:jpg|jpeg|png|gif|webp)$`)
}

var photoContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// PhotoContentType infers the MIME type of a stored asset from its
// filename extension. Unknown extensions stream as octet-stream.
func PhotoContentType(filename string) string {
	if ct, ok := photoContentTypes[strings.ToLower(path.Ext(filename))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// ExtForContentType picks the canonical extension for an image MIME
// type, defaulting to jpg.
func ExtForContentType(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/png"):
		return "png"
	case strings.HasPrefix(contentType, "image/gif"):
		return "gif"
	case strings.HasPrefix(contentType, "image/webp"):
		return "webp"
	default:
		return "jpg"
	}
}

// Resolution is the outcome of resolving a photo identifier against the
// asset store. Discovered is set when the serving filename differs from
// the identifier as stored, so the caller may persist the correction.
type Resolution struct {
	Found      bool   `json:"found"`
	Filename   string `json:"filename,omitempty"`
	Discovered bool   `json:"discovered,omitempty"`
}

func FoundResolution(filename string, discovered bool) Resolution {
	return Resolution{Found: true, Filename: filename, Discovered: discovered}
}

var NotFoundResolution = Resolution{}

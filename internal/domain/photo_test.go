package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhotoID(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want PhotoID
	}{
		{"empty", "", PhotoID{Kind: PhotoAbsent}},
		{"whitespace", "   ", PhotoID{Kind: PhotoAbsent}},
		{"plain filename", "portrait.jpg", PhotoID{Kind: PhotoLocalFile, Value: "portrait.jpg"}},
		{"uploads path", "/uploads/portrait.jpg", PhotoID{Kind: PhotoLocalFile, Value: "portrait.jpg"}},
		{"uploads path no slash", "uploads/portrait.jpg", PhotoID{Kind: PhotoLocalFile, Value: "portrait.jpg"}},
		{"doubled uploads prefix", "uploads/uploads/portrait.jpg", PhotoID{Kind: PhotoLocalFile, Value: "portrait.jpg"}},
		{"doubled uploads prefix with slash", "/uploads/uploads/portrait.jpg", PhotoID{Kind: PhotoLocalFile, Value: "portrait.jpg"}},
		{"external url", "https://example.com/a.png", PhotoID{Kind: PhotoExternalURL, Value: "https://example.com/a.png"}},
		{"import derived", "imported_00099_1722211200000.jpg", PhotoID{Kind: PhotoImportDerived, Value: "imported_00099_1722211200000.jpg"}},
		{"legacy capture", "IMG_20190412_103355", PhotoID{Kind: PhotoLegacyCapture, Value: "IMG_20190412_103355"}},
		{"opaque external id", "5f2a9c01d4e8b7a6c3f01923", PhotoID{Kind: PhotoOpaqueExternalID, Value: "5f2a9c01d4e8b7a6c3f01923"}},
		{
			"proxy wrapped uuid filename",
			"https://images.weserv.nl/?url=cdn.example.com%2Fuploads%2F3f8e2a94-1c6b-4f0d-9a21-7b5e8c4d2f10.jpg",
			PhotoID{Kind: PhotoLocalFile, Value: "3f8e2a94-1c6b-4f0d-9a21-7b5e8c4d2f10.jpg"},
		},
		{
			"proxy wrapped import filename",
			"https://images.weserv.nl/?url=old-host.example.com/imported_00481_1650000000000.png",
			PhotoID{Kind: PhotoImportDerived, Value: "imported_00481_1650000000000.png"},
		},
		{
			"proxy wrapped, nothing extractable",
			"https://images.weserv.nl/?url=gone.example.com/whatever",
			PhotoID{Kind: PhotoCorruptedProxy, Value: "https://images.weserv.nl/?url=gone.example.com/whatever"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhotoID(tt.raw))
		})
	}
}

func TestNormalizePhotoID_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"portrait.jpg",
		"/uploads/portrait.jpg",
		"uploads/uploads/portrait.jpg",
		"/uploads/uploads/uploads/portrait.jpg",
		"uploads/imported_123_456.png",
		"https://example.com/a.png",
		"IMG_0042.JPG",
		"5f2a9c01d4e8b7a6c3f01923",
		"https://images.weserv.nl/?url=x%2F3f8e2a94-1c6b-4f0d-9a21-7b5e8c4d2f10.jpg",
		"https://images.weserv.nl/?url=gone.example.com/whatever",
		"no-extension-token",
	}

	for _, raw := range inputs {
		once := NormalizePhotoID(raw)
		twice := NormalizePhotoID(once.Value)
		if once.Absent() {
			assert.True(t, twice.Absent())
			continue
		}
		assert.Equal(t, once, twice, "normalize(normalize(%q)) must be stable", raw)
	}
}

func TestPhotoID_ImportKey(t *testing.T) {
	assert.Equal(t, "00099", NormalizePhotoID("imported_00099_123.jpg").ImportKey())
	assert.Equal(t, "00112233", NormalizePhotoID("00112233.jpg").ImportKey())
	assert.Equal(t, "", NormalizePhotoID("portrait.jpg").ImportKey())
	assert.Equal(t, "", NormalizePhotoID("IMG_1234").ImportKey())
}

func TestURLCacheNames(t *testing.T) {
	names := URLCacheNames("https://example.com/a.png")
	assert.Len(t, names, 2)
	assert.Regexp(t, `^external_[0-9a-f]{32}$`, names[0])
	assert.Regexp(t, `^wp_cached_[0-9a-f]{32}$`, names[1])

	again := URLCacheNames("https://example.com/a.png")
	assert.Equal(t, names, again)

	other := URLCacheNames("https://example.com/b.png")
	assert.NotEqual(t, names[0], other[0])
}

func TestImportedNamePattern(t *testing.T) {
	re := ImportedNamePattern("00099")
	assert.True(t, re.MatchString("imported_00099_1722211200000.jpg"))
	assert.True(t, re.MatchString("imported_00099_1.png"))
	assert.True(t, re.MatchString("imported_00099_1.webp"))
	assert.False(t, re.MatchString("imported_000991_1.jpg"))
	assert.False(t, re.MatchString("imported_00099_1.bmp"))
}

func TestPhotoContentType(t *testing.T) {
	assert.Equal(t, "image/jpeg", PhotoContentType("a.jpg"))
	assert.Equal(t, "image/jpeg", PhotoContentType("a.JPEG"))
	assert.Equal(t, "image/png", PhotoContentType("a.png"))
	assert.Equal(t, "image/webp", PhotoContentType("a.webp"))
	assert.Equal(t, "application/octet-stream", PhotoContentType("a"))
}

func TestExtForContentType(t *testing.T) {
	assert.Equal(t, "png", ExtForContentType("image/png"))
	assert.Equal(t, "gif", ExtForContentType("image/gif"))
	assert.Equal(t, "jpg", ExtForContentType("image/jpeg"))
	assert.Equal(t, "jpg", ExtForContentType("image/unknown"))
}

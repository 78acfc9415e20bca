package tollgate

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	// MultipartThreshold is the size at or above which uploads switch from a
	// single direct write to the multipart protocol.
	MultipartThreshold = 70 << 20

	// PartSize is the fixed chunk size multipart uploads are split into.
	// Every part except the last is exactly this size.
	PartSize = 70 << 20
)

// ObjectInfo describes one stored object as reported by a listing.
type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	ETag         string    `json:"etag,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// ObjectMeta is the metadata a head lookup returns.
type ObjectMeta struct {
	Size        int64
	ETag        string
	ContentType string
}

// Part identifies one uploaded multipart chunk by its sequence number and
// the integrity tag the backing store returned for it.
type Part struct {
	PartNumber int    `json:"partNumber"`
	ETag       string `json:"etag"`
}

// IsValidKey validates an object key. It rejects:
//   - empty keys, "/", and "."
//   - absolute keys (leading "/") and trailing "/"
//   - ".." (traversal) and "//" (empty segments)
//   - backslashes, "?", "#"
//   - invalid UTF-8
//   - null bytes and other control characters
func IsValidKey(key string) bool {
	if key == "" || key == "/" || key == "." {
		return false
	}

	if key[0] == '/' || strings.HasSuffix(key, "/") {
		return false
	}

	if strings.Contains(key, "..") || strings.Contains(key, "//") {
		return false
	}

	if strings.ContainsAny(key, "\\?#") {
		return false
	}

	if !utf8.ValidString(key) {
		return false
	}

	for _, r := range key {
		if r < 0x20 || r == 0x7f || (unicode.IsSpace(r) && r != ' ') {
			return false
		}
	}

	return true
}

// BaseName returns the last segment of a key, for filename suggestions.
func BaseName(key string) string {
	if i := strings.LastIndexByte(key, '/'); i >= 0 {
		return key[i+1:]
	}
	return key
}

package tollgate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tollgate/tollgate"
)

func TestSafeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "report.pdf", want: "report.pdf"},
		{name: "empty falls back", in: "", want: "download"},
		{name: "newlines stripped", in: "a\nb\rc.txt", want: "a b c.txt"},
		{name: "quotes swapped", in: `my "file".txt`, want: "my 'file'.txt"},
		{name: "truncated", in: strings.Repeat("x", 400), want: strings.Repeat("x", 180)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tollgate.SafeFilename(tt.in))
		})
	}
}

func TestContentDisposition(t *testing.T) {
	got := tollgate.ContentDisposition("attachment", "report.pdf")
	assert.Equal(t, `attachment; filename="report.pdf"; filename*=UTF-8''report.pdf`, got)

	got = tollgate.ContentDisposition("inline", "preview.pdf")
	assert.True(t, strings.HasPrefix(got, "inline; "))
}

func TestContentDisposition_NonASCII(t *testing.T) {
	got := tollgate.ContentDisposition("attachment", "résumé.pdf")

	// Quoted fallback must be pure ASCII.
	assert.Contains(t, got, `filename="r_sum_.pdf"`)
	// Extended parameter carries the percent-encoded UTF-8 original.
	assert.Contains(t, got, "filename*=UTF-8''r%C3%A9sum%C3%A9.pdf")
}

func TestContentDisposition_ReservedCharacters(t *testing.T) {
	got := tollgate.ContentDisposition("attachment", "a&b=c;d.txt")

	// RFC 5987 ext-value must not contain bare sub-delims.
	_, ext, found := strings.Cut(got, "filename*=UTF-8''")
	assert.True(t, found)
	assert.NotContains(t, ext, "&")
	assert.NotContains(t, ext, "=")
	assert.NotContains(t, ext, ";")
}

func TestPreviewable(t *testing.T) {
	assert.True(t, tollgate.Previewable("application/pdf"))
	assert.False(t, tollgate.Previewable("application/zip"))
	assert.False(t, tollgate.Previewable(""))
}

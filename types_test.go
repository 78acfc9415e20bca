package tollgate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tollgate/tollgate"
)

func TestIsValidKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want bool
	}{
		{name: "simple", key: "file.txt", want: true},
		{name: "nested", key: "a/b/c.txt", want: true},
		{name: "spaces allowed", key: "my file.txt", want: true},
		{name: "unicode", key: "docs/résumé.pdf", want: true},
		{name: "empty", key: "", want: false},
		{name: "root", key: "/", want: false},
		{name: "dot", key: ".", want: false},
		{name: "absolute", key: "/a/b.txt", want: false},
		{name: "trailing slash", key: "a/b/", want: false},
		{name: "traversal", key: "a/../b.txt", want: false},
		{name: "double slash", key: "a//b.txt", want: false},
		{name: "backslash", key: `a\b.txt`, want: false},
		{name: "question mark", key: "a?b.txt", want: false},
		{name: "fragment", key: "a#b.txt", want: false},
		{name: "control character", key: "a\x01b.txt", want: false},
		{name: "null byte", key: "a\x00b.txt", want: false},
		{name: "tab", key: "a\tb.txt", want: false},
		{name: "invalid utf8", key: "a\xffb.txt", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tollgate.IsValidKey(tt.key))
		})
	}
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "c.txt", tollgate.BaseName("a/b/c.txt"))
	assert.Equal(t, "file.txt", tollgate.BaseName("file.txt"))
	assert.Equal(t, "", tollgate.BaseName("a/b/"))
}

package tollgate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tollgate/tollgate"
)

func TestBuildTree(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	objects := []tollgate.ObjectInfo{
		{Key: "readme.md", Size: 10, LastModified: base},
		{Key: "docs/guide.pdf", Size: 100, LastModified: base.Add(time.Hour)},
		{Key: "docs/img/logo.png", Size: 50, LastModified: base.Add(2 * time.Hour)},
		{Key: "archive.zip", Size: 999, LastModified: base},
	}

	tree := tollgate.BuildTree(objects)
	require.Len(t, tree, 3)

	// Folders sort first, then files by name.
	assert.Equal(t, "docs", tree[0].Name)
	assert.Equal(t, tollgate.FolderType, tree[0].Type)
	assert.Equal(t, "archive.zip", tree[1].Name)
	assert.Equal(t, "readme.md", tree[2].Name)

	docs := tree[0]
	require.Len(t, docs.Children, 2)
	assert.Equal(t, "img", docs.Children[0].Name)
	assert.Equal(t, "guide.pdf", docs.Children[1].Name)
	assert.Equal(t, "docs/guide.pdf", docs.Children[1].Key)
	assert.Equal(t, "application/pdf", docs.Children[1].Type)

	// Folder timestamps bubble up from the newest child.
	assert.Equal(t, base.Add(2*time.Hour), docs.LastModified)
	assert.Equal(t, base.Add(2*time.Hour), docs.Children[0].LastModified)
}

func TestBuildTree_Empty(t *testing.T) {
	assert.Empty(t, tollgate.BuildTree(nil))
	assert.Empty(t, tollgate.BuildTree([]tollgate.ObjectInfo{{Key: ""}}))
}

func TestGuessContentType(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{key: "a.pdf", want: "application/pdf"},
		{key: "a/b.png", want: "image/png"},
		{key: "noext", want: "application/octet-stream"},
		{key: "weird.zzz9", want: "application/octet-stream"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tollgate.GuessContentType(tt.key), tt.key)
	}
}

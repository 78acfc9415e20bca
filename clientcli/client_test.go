package clientcli_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tollgate/tollgate"
	"github.com/tollgate/tollgate/clientcli"
)

func TestClient_New(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := clientcli.New(nil)
		assert.ErrorIs(t, err, clientcli.ErrConfigRequired)
	})

	t.Run("trailing slash trimmed", func(t *testing.T) {
		c, err := clientcli.New(&clientcli.Config{Endpoint: "http://example.com/"})
		require.NoError(t, err)
		assert.Equal(t, "http://example.com", c.Endpoint())
	})

	t.Run("default endpoint", func(t *testing.T) {
		c, err := clientcli.New(&clientcli.Config{})
		require.NoError(t, err)
		assert.Equal(t, clientcli.DefaultEndpoint, c.Endpoint())
	})
}

func TestClient_CheckAuth(t *testing.T) {
	st := newGateStore()
	srv := startGateway(t, st)

	t.Run("valid credentials", func(t *testing.T) {
		c := newTestClient(t, srv)
		assert.NoError(t, c.CheckAuth(context.Background()))
	})

	t.Run("bad credentials", func(t *testing.T) {
		c, err := clientcli.New(&clientcli.Config{Endpoint: srv.URL, Username: gwUser, Password: "wrong"})
		require.NoError(t, err)
		assert.ErrorIs(t, c.CheckAuth(context.Background()), clientcli.ErrUnauthorized)
	})
}

func TestClient_List(t *testing.T) {
	st := newGateStore()
	st.objects["docs/a.txt"] = []byte("aa")
	st.objects["b.bin"] = []byte("bbb")
	srv := startGateway(t, st)
	c := newTestClient(t, srv)

	result, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Files, 2)
	assert.Equal(t, tollgate.FolderType, result.Files[0].Type)
	assert.Equal(t, 2, result.Count())
	assert.Equal(t, int64(5), result.TotalSize())
}

func TestClient_LinkAndDownload(t *testing.T) {
	st := newGateStore()
	st.objects["share/report.pdf"] = []byte("pdf bytes")
	srv := startGateway(t, st)
	c := newTestClient(t, srv)

	t.Run("link is absolute and tokenized", func(t *testing.T) {
		link, err := c.Link(context.Background(), clientcli.LinkOptions{Key: "share/report.pdf", Download: true})
		require.NoError(t, err)
		assert.Contains(t, link.URL, srv.URL)
		assert.Contains(t, link.URL, "token=")
	})

	t.Run("empty key", func(t *testing.T) {
		_, err := c.Link(context.Background(), clientcli.LinkOptions{})
		assert.ErrorIs(t, err, clientcli.ErrEmptyKey)
	})

	t.Run("download to file", func(t *testing.T) {
		localPath := filepath.Join(t.TempDir(), "out", "report.pdf")
		result, body, err := c.Download(context.Background(), clientcli.DownloadOptions{
			Key:       "share/report.pdf",
			LocalPath: localPath,
		})
		require.NoError(t, err)
		require.Nil(t, body)
		assert.Equal(t, int64(9), result.Size)

		data, err := os.ReadFile(localPath)
		require.NoError(t, err)
		assert.Equal(t, "pdf bytes", string(data))
	})

	t.Run("download to stdout stream", func(t *testing.T) {
		result, body, err := c.Download(context.Background(), clientcli.DownloadOptions{
			Key:       "share/report.pdf",
			LocalPath: "-",
		})
		require.NoError(t, err)
		require.NotNil(t, body)
		defer func() { _ = body.Close() }()

		data, err := io.ReadAll(body)
		require.NoError(t, err)
		assert.Equal(t, "pdf bytes", string(data))
		assert.Equal(t, "-", result.LocalPath)
	})

	t.Run("absent object", func(t *testing.T) {
		_, _, err := c.Download(context.Background(), clientcli.DownloadOptions{Key: "missing.bin", LocalPath: "-"})
		assert.ErrorIs(t, err, clientcli.ErrNotFound)
	})
}

func TestClient_Delete(t *testing.T) {
	st := newGateStore()
	st.objects["keep.txt"] = []byte("k")
	st.objects["drop.txt"] = []byte("d")
	srv := startGateway(t, st)
	c := newTestClient(t, srv)

	t.Run("no keys", func(t *testing.T) {
		_, err := c.Delete(context.Background(), clientcli.DeleteOptions{})
		assert.ErrorIs(t, err, clientcli.ErrNoPaths)
	})

	t.Run("mixed results", func(t *testing.T) {
		results, err := c.Delete(context.Background(), clientcli.DeleteOptions{
			Keys: []string{"drop.txt", "absent.txt"},
		})
		require.NoError(t, err)
		require.Len(t, results, 2)

		assert.True(t, results[0].Deleted)
		assert.NoError(t, results[0].Err)

		assert.False(t, results[1].Deleted)
		assert.ErrorIs(t, results[1].Err, clientcli.ErrNotFound)

		assert.True(t, clientcli.HasDeleteErrors(results))
		assert.Contains(t, st.objects, "keep.txt")
	})
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"foo/bar.txt", "foo/bar.txt"},
		{"./foo/bar.txt", "foo/bar.txt"},
		{"/abs/path.txt", "abs/path.txt"},
		{"../sibling/file.txt", "sibling/file.txt"},
		{"a//b.txt", "a/b.txt"},
		{"..", ""},
		{".", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, clientcli.NormalizeKey(tt.in))
		})
	}
}

func TestAPIError(t *testing.T) {
	err := &clientcli.APIError{StatusCode: 404, Message: "object not found"}
	assert.ErrorIs(t, err, clientcli.ErrNotFound)
	assert.NotErrorIs(t, err, clientcli.ErrUnauthorized)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "object not found")
}

package clientcli_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tollgate/tollgate"
	"github.com/tollgate/tollgate/clientcli"
)

func TestHumanFormatter_Upload(t *testing.T) {
	f := clientcli.NewFormatter(false, false)

	tasks := []clientcli.TaskInfo{
		{ID: uuid.New(), Key: "ok.bin", LocalPath: "./ok.bin", Size: 2048, Status: clientcli.StatusSuccess, Progress: 100},
		{ID: uuid.New(), Key: "bad.bin", LocalPath: "./bad.bin", Status: clientcli.StatusError, Message: "server error: 502 - backing store request failed"},
	}

	var buf bytes.Buffer
	require.NoError(t, f.FormatUpload(&buf, tasks))

	out := buf.String()
	assert.Contains(t, out, "Uploaded: ok.bin (2.0 KB)")
	assert.Contains(t, out, "Error: ./bad.bin - server error: 502")
}

func TestHumanFormatter_List(t *testing.T) {
	f := clientcli.NewFormatter(false, false)
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	result := &clientcli.ListResult{Files: []tollgate.TreeNode{
		{
			Name: "docs", Type: tollgate.FolderType, LastModified: now,
			Children: []tollgate.TreeNode{
				{Name: "a.txt", Key: "docs/a.txt", Type: "text/plain; charset=utf-8", Size: 1024, LastModified: now},
			},
		},
		{Name: "b.bin", Key: "b.bin", Type: "application/octet-stream", Size: 3, LastModified: now},
	}}

	var buf bytes.Buffer
	require.NoError(t, f.FormatList(&buf, result))

	out := buf.String()
	assert.Contains(t, out, "docs/")
	assert.Contains(t, out, "a.txt")
	assert.Contains(t, out, "1.0 KB")
	assert.Contains(t, out, "2 object(s)")
}

func TestHumanFormatter_ListEmpty(t *testing.T) {
	f := clientcli.NewFormatter(false, false)
	var buf bytes.Buffer
	require.NoError(t, f.FormatList(&buf, &clientcli.ListResult{}))
	assert.Contains(t, buf.String(), "No objects found")
}

func TestHumanFormatter_LinkQuiet(t *testing.T) {
	f := clientcli.NewFormatter(false, true)
	var buf bytes.Buffer
	require.NoError(t, f.FormatLink(&buf, &clientcli.LinkResult{Key: "k", URL: "http://x/api/object?key=k&token=t"}))
	assert.Equal(t, "http://x/api/object?key=k&token=t\n", buf.String())
}

func TestJSONFormatter_Upload(t *testing.T) {
	f := clientcli.NewFormatter(true, false)

	id := uuid.New()
	tasks := []clientcli.TaskInfo{
		{ID: id, Key: "x.bin", LocalPath: "./x.bin", Size: 5, Status: clientcli.StatusError, Message: "boom"},
	}

	var buf bytes.Buffer
	require.NoError(t, f.FormatUpload(&buf, tasks))

	var out []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, id.String(), out[0]["id"])
	assert.Equal(t, "error", out[0]["status"])
	assert.Equal(t, "boom", out[0]["error"])
}

func TestJSONFormatter_Delete(t *testing.T) {
	f := clientcli.NewFormatter(true, false)

	var buf bytes.Buffer
	require.NoError(t, f.FormatDelete(&buf, []clientcli.DeleteResult{
		{Key: "ok.txt", Deleted: true},
		{Key: "bad.txt", Err: errors.New("denied")},
	}))

	var out struct {
		Results []struct {
			Key     string `json:"key"`
			Deleted bool   `json:"deleted"`
			Error   string `json:"error"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out.Results, 2)
	assert.True(t, out.Results[0].Deleted)
	assert.Equal(t, "denied", out.Results[1].Error)
}

func TestFormatProfiles(t *testing.T) {
	profiles := []clientcli.Profile{
		{Name: "dev", Endpoint: "http://localhost:5710", Username: "admin", Password: "supersecretvalue"},
	}

	t.Run("human masks password", func(t *testing.T) {
		f := clientcli.NewFormatter(false, false)
		var buf bytes.Buffer
		require.NoError(t, f.FormatProfileShow(&buf, profiles[0], true, false))
		out := buf.String()
		assert.Contains(t, out, "(default)")
		assert.NotContains(t, out, "supersecretvalue")
		assert.Contains(t, out, "supe...alue")
	})

	t.Run("human shows secrets when asked", func(t *testing.T) {
		f := clientcli.NewFormatter(false, false)
		var buf bytes.Buffer
		require.NoError(t, f.FormatProfileShow(&buf, profiles[0], false, true))
		assert.Contains(t, buf.String(), "supersecretvalue")
	})

	t.Run("json list", func(t *testing.T) {
		f := clientcli.NewFormatter(true, false)
		var buf bytes.Buffer
		require.NoError(t, f.FormatProfileList(&buf, profiles, "dev", false))

		var out struct {
			Profiles []struct {
				Name    string `json:"name"`
				Default bool   `json:"default"`
			} `json:"profiles"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
		require.Len(t, out.Profiles, 1)
		assert.True(t, out.Profiles[0].Default)
	})
}

package clientcli

import (
	"github.com/tollgate/tollgate"
)

// DownloadOptions configures a download operation.
type DownloadOptions struct {
	Key       string
	LocalPath string // empty = derive from key, "-" = stdout
}

// DownloadResult represents the result of downloading a file.
type DownloadResult struct {
	Key         string `json:"key"`
	LocalPath   string `json:"local_path"`
	ETag        string `json:"etag"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size_bytes"`
}

// DeleteOptions configures a delete operation.
type DeleteOptions struct {
	Keys []string
}

// DeleteResult represents the result of deleting a single object.
type DeleteResult struct {
	Key     string `json:"key"`
	Deleted bool   `json:"deleted"`
	Err     error  `json:"-"` // nil on success
}

// LinkOptions configures a shareable-link request.
type LinkOptions struct {
	Key      string
	Download bool
	Filename string
}

// LinkResult is an issued tokenized object URL.
type LinkResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// ListResult is the gateway's folder-tree listing.
type ListResult struct {
	Files []tollgate.TreeNode `json:"files"`
}

// TotalSize sums the sizes of all file nodes in the tree.
func (r *ListResult) TotalSize() int64 {
	var walk func(nodes []tollgate.TreeNode) int64
	walk = func(nodes []tollgate.TreeNode) int64 {
		var total int64
		for i := range nodes {
			total += nodes[i].Size
			total += walk(nodes[i].Children)
		}
		return total
	}
	return walk(r.Files)
}

// Count returns the number of file nodes in the tree.
func (r *ListResult) Count() int {
	var walk func(nodes []tollgate.TreeNode) int
	walk = func(nodes []tollgate.TreeNode) int {
		n := 0
		for i := range nodes {
			if nodes[i].Type != tollgate.FolderType {
				n++
			}
			n += walk(nodes[i].Children)
		}
		return n
	}
	return walk(r.Files)
}

// Server response bodies.

type signResponse struct {
	URL string `json:"url"`
}

type createResponse struct {
	UploadID string `json:"uploadId"`
}

type filesResponse struct {
	Files []tollgate.TreeNode `json:"files"`
}

type errorResponse struct {
	Error string `json:"error"`
}

package tollgate

import (
	"mime"
	"path"
	"sort"
	"strings"
	"time"
)

// TreeNode is one entry in the browsable listing tree. Folders carry
// children and no key; files carry the object key, size, and a guessed
// content type. A folder's timestamp is its newest child's.
type TreeNode struct {
	Name         string     `json:"name"`
	Key          string     `json:"key,omitempty"`
	Type         string     `json:"type"`
	Size         int64      `json:"size,omitempty"`
	LastModified time.Time  `json:"lastModified"`
	Children     []TreeNode `json:"children,omitempty"`
}

// FolderType marks folder nodes; file nodes carry their guessed MIME type.
const FolderType = "folder"

// GuessContentType returns a MIME type from a key's extension, falling back
// to application/octet-stream.
func GuessContentType(key string) string {
	if ext := path.Ext(key); ext != "" {
		if mt := mime.TypeByExtension(ext); mt != "" {
			return mt
		}
	}
	return "application/octet-stream"
}

type treeFolder struct {
	folders map[string]*treeFolder
	files   []TreeNode
	order   []string
}

func newTreeFolder() *treeFolder {
	return &treeFolder{folders: map[string]*treeFolder{}}
}

func (f *treeFolder) child(name string) *treeFolder {
	if c, ok := f.folders[name]; ok {
		return c
	}
	c := newTreeFolder()
	f.folders[name] = c
	f.order = append(f.order, name)
	return c
}

// BuildTree folds a flat object listing into a folder tree. Keys are split
// on "/"; empty segments are skipped. Within each folder, folders sort
// before files and both sort by name; folder timestamps are the maximum of
// their children's.
func BuildTree(objects []ObjectInfo) []TreeNode {
	root := newTreeFolder()

	for _, obj := range objects {
		segments := splitKey(obj.Key)
		if len(segments) == 0 {
			continue
		}

		folder := root
		for _, seg := range segments[:len(segments)-1] {
			folder = folder.child(seg)
		}

		modified := obj.LastModified
		if modified.IsZero() {
			modified = time.Now()
		}
		folder.files = append(folder.files, TreeNode{
			Name:         segments[len(segments)-1],
			Key:          obj.Key,
			Type:         GuessContentType(obj.Key),
			Size:         obj.Size,
			LastModified: modified,
		})
	}

	return root.materialize()
}

func (f *treeFolder) materialize() []TreeNode {
	nodes := make([]TreeNode, 0, len(f.order)+len(f.files))

	for _, name := range f.order {
		children := f.folders[name].materialize()
		modified := time.Now()
		if len(children) > 0 {
			modified = children[0].LastModified
			for _, c := range children[1:] {
				if c.LastModified.After(modified) {
					modified = c.LastModified
				}
			}
		}
		nodes = append(nodes, TreeNode{
			Name:         name,
			Type:         FolderType,
			LastModified: modified,
			Children:     children,
		})
	}

	nodes = append(nodes, f.files...)

	sort.SliceStable(nodes, func(i, j int) bool {
		iFolder := nodes[i].Type == FolderType
		jFolder := nodes[j].Type == FolderType
		if iFolder != jFolder {
			return iFolder
		}
		return nodes[i].Name < nodes[j].Name
	})

	return nodes
}

func splitKey(key string) []string {
	parts := strings.Split(key, "/")
	segments := parts[:0]
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

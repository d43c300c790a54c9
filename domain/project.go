package domain

import "time"

// a project is the unit of work in the IDE: one named directory under the
// projects root holding a single contract source tree
type Project struct {
	Name        string    `json:"name"`
	IsDirectory bool      `json:"isDirectory"`
	CreatedAt   time.Time `json:"createdAt"`
	ModifiedAt  time.Time `json:"modifiedAt"`
}

type NodeType string

const (
	NodeTypeFile      NodeType = "file"
	NodeTypeDirectory NodeType = "directory"
)

// FileNode is one node of a project's directory tree. Path is always the
// slash-joined sequence of ancestor names relative to the project root.
// Trees are rebuilt in full from the filesystem on every query; a snapshot
// is an immutable value, never a live view.
type FileNode struct {
	Name       string     `json:"name"`
	Path       string     `json:"path"`
	Type       NodeType   `json:"type"`
	Size       int64      `json:"size,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	ModifiedAt time.Time  `json:"modifiedAt"`
	Children   []FileNode `json:"children,omitempty"`
}

// Walk visits the node and all of its descendants in depth-first order.
func (n FileNode) Walk(visit func(FileNode)) {
	visit(n)
	for _, child := range n.Children {
		child.Walk(visit)
	}
}

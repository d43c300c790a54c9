package domain

// WorkspaceEvent is one message on the per-project websocket stream: either
// a tree-change notification or a line of toolchain output.
type WorkspaceEvent struct {
	Type    string      `json:"type"` // "tree_changed" or "toolchain_output"
	Project string      `json:"project"`
	Output  *OutputLine `json:"output,omitempty"`
}

package domain

import "time"

// BuildResult is the ephemeral outcome of a compile invocation: never
// persisted, only displayed and optionally forwarded to the agent as error
// context.
type BuildResult struct {
	Success        bool   `json:"success"`
	BuildOutput    string `json:"buildOutput"`
	OptimizeOutput string `json:"optimizeOutput,omitempty"`
	Error          string `json:"error,omitempty"`
}

// DeployResult is the outcome of a deploy invocation. ContractId is nil when
// the toolchain output contained no parseable contract identifier; callers
// must treat that as "unknown", not as failure.
type DeployResult struct {
	Success    bool    `json:"success"`
	Output     string  `json:"output"`
	ContractId *string `json:"contractId"`
}

// DeployRecord is a persisted row of deploy history for a project.
type DeployRecord struct {
	Id          string    `json:"id"`
	ProjectName string    `json:"projectName"`
	Network     string    `json:"network"`
	Source      string    `json:"source"`
	ContractId  *string   `json:"contractId"`
	Created     time.Time `json:"created"`
}

// OutputLine is a single line of toolchain output, streamed to the terminal
// pane while a command runs.
type OutputLine struct {
	Stream string    `json:"stream"` // "stdout" or "stderr"
	Line   string    `json:"line"`
	Time   time.Time `json:"time"`
}

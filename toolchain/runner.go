package toolchain

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"solder/common"
	"solder/domain"

	zlog "github.com/rs/zerolog/log"
)

// ErrBusy is returned when a build, deploy or scaffold is already running
// for the same project. Toolchain invocations are serialized per project;
// concurrent requests are rejected rather than queued.
var ErrBusy = errors.New("toolchain invocation already in progress for this project")

// CommandError carries the failure of an external toolchain command. The
// captured stderr is surfaced verbatim to the caller.
type CommandError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = fmt.Sprintf("command %q exited with code %d", e.Command, e.ExitCode)
	}
	return msg
}

var contractIdPattern = regexp.MustCompile(`Contract ID:\s*([A-Za-z0-9]+)`)

// OutputSink receives toolchain output lines as they are produced, feeding
// the terminal pane. May be nil.
type OutputSink func(domain.OutputLine)

// Runner invokes the external contract CLI for scaffolding, builds,
// optimization and deploys.
type Runner struct {
	Config common.ToolchainConfig

	mu   sync.Mutex
	busy map[string]bool
}

func NewRunner(config common.ToolchainConfig) *Runner {
	return &Runner{
		Config: config,
		busy:   make(map[string]bool),
	}
}

func (r *Runner) acquire(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.busy[key] {
		return ErrBusy
	}
	r.busy[key] = true
	return nil
}

func (r *Runner) release(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.busy, key)
}

func (r *Runner) timeout() time.Duration {
	seconds := r.Config.TimeoutSeconds
	if seconds <= 0 {
		seconds = common.DefaultTimeoutSeconds
	}
	return time.Duration(seconds) * time.Second
}

// run executes one toolchain command in dir, streaming output line by line
// to sink and returning the captured stdout.
func (r *Runner) run(ctx context.Context, dir string, sink OutputSink, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout())
	defer cancel()

	cmd := exec.CommandContext(ctx, r.Config.Command, args...)
	cmd.Dir = dir

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("failed to open stdout pipe: %w", err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return "", fmt.Errorf("failed to open stderr pipe: %w", err)
	}

	commandLine := r.Config.Command + " " + strings.Join(args, " ")
	zlog.Debug().Str("command", commandLine).Str("dir", dir).Msg("Running toolchain command")

	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("failed to start %q: %w", commandLine, err)
	}

	var stdout, stderr bytes.Buffer
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		collectLines(stdoutPipe, &stdout, "stdout", sink)
	}()
	go func() {
		defer wg.Done()
		collectLines(stderrPipe, &stderr, "stderr", sink)
	}()
	wg.Wait()

	err = cmd.Wait()
	if ctx.Err() == context.DeadlineExceeded {
		return stdout.String(), &CommandError{
			Command:  commandLine,
			ExitCode: -1,
			Stderr:   fmt.Sprintf("command timed out after %s", r.timeout()),
		}
	}
	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return stdout.String(), &CommandError{
			Command:  commandLine,
			ExitCode: exitCode,
			Stderr:   stderr.String(),
		}
	}

	return stdout.String(), nil
}

func collectLines(pipe io.Reader, buf *bytes.Buffer, stream string, sink OutputSink) {
	scanner := bufio.NewScanner(pipe)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		buf.WriteString(line)
		buf.WriteByte('\n')
		if sink != nil {
			sink(domain.OutputLine{Stream: stream, Line: line, Time: time.Now()})
		}
	}
}

// Scaffold runs the project-initialization command with projectsRoot as the
// working directory, populating projectsRoot/name.
func (r *Runner) Scaffold(ctx context.Context, projectsRoot, name string, sink OutputSink) (string, error) {
	if err := r.acquire(name); err != nil {
		return "", err
	}
	defer r.release(name)

	return r.run(ctx, projectsRoot, sink, "contract", "init", name)
}

// Build runs a build, then on success an optimize step against the artifact
// at the conventional target path. An absent artifact makes the optimize
// step fail, and that failure is surfaced, not swallowed.
func (r *Runner) Build(ctx context.Context, projectDir, name string, sink OutputSink) (buildOutput, optimizeOutput string, err error) {
	if err := r.acquire(name); err != nil {
		return "", "", err
	}
	defer r.release(name)

	buildOutput, err = r.run(ctx, projectDir, sink, "contract", "build")
	if err != nil {
		return buildOutput, "", err
	}

	wasmPath := r.artifactPath(name)
	optimizeOutput, err = r.run(ctx, projectDir, sink, "contract", "optimize", "--wasm", wasmPath)
	return buildOutput, optimizeOutput, err
}

// Deploy runs the deploy command and extracts the contract identifier from
// stdout. A missing identifier yields a nil ContractId with Success still
// true: the deploy may have partially succeeded without a parseable ID.
func (r *Runner) Deploy(ctx context.Context, projectDir, source, network, name string, sink OutputSink) (domain.DeployResult, error) {
	if err := r.acquire(name); err != nil {
		return domain.DeployResult{}, err
	}
	defer r.release(name)

	output, err := r.run(ctx, projectDir, sink,
		"contract", "deploy",
		"--wasm", r.artifactPath(name),
		"--source", source,
		"--network", network,
	)
	if err != nil {
		return domain.DeployResult{Output: output}, err
	}

	result := domain.DeployResult{Success: true, Output: output}
	if match := contractIdPattern.FindStringSubmatch(output); match != nil {
		result.ContractId = &match[1]
	}
	return result, nil
}

func (r *Runner) artifactPath(name string) string {
	// cargo produces underscores where the crate name has dashes
	artifact := strings.ReplaceAll(name, "-", "_") + ".wasm"
	return filepath.Join("target", r.Config.Target, "release", artifact)
}

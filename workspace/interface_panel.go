package workspace

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"
	"sync"

	"solder/domain"
)

var ErrNoContractSource = errors.New("no contract source files in project")

// Agent is the slice of the agent client the panel needs. Satisfied by
// *agent.Client.
type Agent interface {
	InferInterface(ctx context.Context, source string) (domain.ContractInterface, error)
	DebugAssist(ctx context.Context, source, buildError string) (string, error)
}

// InterfacePanel derives a callable function list for the active project by
// sending its source to the agent collaborator. The inferred interface is
// advisory: it drives the call form, it is not an authoritative ABI.
type InterfacePanel struct {
	state *State
	agent Agent

	mu      sync.Mutex
	project string
	iface   *domain.ContractInterface
}

func NewInterfacePanel(state *State, agent Agent) *InterfacePanel {
	return &InterfacePanel{state: state, agent: agent}
}

// ContractSource concatenates the active project's .rs files from the
// cached tree snapshot, in path order.
func (p *InterfacePanel) ContractSource() (string, error) {
	var paths []string
	for _, node := range p.state.Tree() {
		node.Walk(func(n domain.FileNode) {
			if n.Type == domain.NodeTypeFile && strings.HasSuffix(n.Path, ".rs") {
				paths = append(paths, n.Path)
			}
		})
	}
	if len(paths) == 0 {
		return "", ErrNoContractSource
	}
	sort.Strings(paths)

	var builder strings.Builder
	for _, path := range paths {
		content, err := p.state.ReadFile(path)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&builder, "// %s\n%s\n", path, content)
	}
	return builder.String(), nil
}

// Refresh re-infers the interface for the active project. A result arriving
// after the active project changed is discarded.
func (p *InterfacePanel) Refresh(ctx context.Context) error {
	project := p.state.ActiveProject()
	if project == "" {
		return ErrNoActiveProject
	}

	source, err := p.ContractSource()
	if err != nil {
		return err
	}

	iface, err := p.agent.InferInterface(ctx, source)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state.ActiveProject() != project {
		return nil
	}
	p.project = project
	p.iface = &iface
	return nil
}

// Interface returns the last inferred interface and the project it was
// inferred for. ok is false when no interface has been inferred yet or the
// active project changed since.
func (p *InterfacePanel) Interface() (iface domain.ContractInterface, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.iface == nil || p.project != p.state.ActiveProject() {
		return domain.ContractInterface{}, false
	}
	return *p.iface, true
}

// DebugAssist forwards a failed build's source and error text to the agent
// and returns its advice.
func (p *InterfacePanel) DebugAssist(ctx context.Context, buildError string) (string, error) {
	source, err := p.ContractSource()
	if err != nil {
		return "", err
	}
	return p.agent.DebugAssist(ctx, source, buildError)
}

// ValidateCallArgs checks the call form's string arguments against a
// function's declared parameters before any invocation is attempted.
func ValidateCallArgs(fn domain.ContractFunction, args []string) error {
	if len(args) != len(fn.Params) {
		return fmt.Errorf("%s expects %d arguments, got %d", fn.Name, len(fn.Params), len(args))
	}
	for i, param := range fn.Params {
		if err := validateArg(param.Type, args[i]); err != nil {
			return fmt.Errorf("argument %q: %w", param.Name, err)
		}
	}
	return nil
}

func validateArg(t domain.ParamType, value string) error {
	switch t {
	case domain.ParamU32:
		if _, err := strconv.ParseUint(value, 10, 32); err != nil {
			return fmt.Errorf("expected unsigned integer, got %q", value)
		}
	case domain.ParamU64:
		if _, err := strconv.ParseUint(value, 10, 64); err != nil {
			return fmt.Errorf("expected unsigned integer, got %q", value)
		}
	case domain.ParamI32:
		if _, err := strconv.ParseInt(value, 10, 32); err != nil {
			return fmt.Errorf("expected integer, got %q", value)
		}
	case domain.ParamI64:
		if _, err := strconv.ParseInt(value, 10, 64); err != nil {
			return fmt.Errorf("expected integer, got %q", value)
		}
	case domain.ParamU128, domain.ParamI128:
		n, ok := new(big.Int).SetString(value, 10)
		if !ok {
			return fmt.Errorf("expected integer, got %q", value)
		}
		if t == domain.ParamU128 && n.Sign() < 0 {
			return fmt.Errorf("expected unsigned integer, got %q", value)
		}
	case domain.ParamBool:
		if value != "true" && value != "false" {
			return fmt.Errorf("expected true or false, got %q", value)
		}
	case domain.ParamVoid:
		return fmt.Errorf("void is not a parameter type")
	default:
		if value == "" {
			return errors.New("value is required")
		}
	}
	return nil
}

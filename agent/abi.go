package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"solder/domain"
)

// ErrInvalidInterface indicates the agent returned something that does not
// validate as a contract interface. The agent is an untrusted collaborator:
// nothing it returns is rendered as a call form without passing validation.
var ErrInvalidInterface = errors.New("agent returned an invalid contract interface")

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// InferInterface asks the agent to derive the callable function list for the
// given contract source and validates the returned shape.
func (c *Client) InferInterface(ctx context.Context, source string) (domain.ContractInterface, error) {
	text, err := c.Query(ctx, source, "", "infer_interface")
	if err != nil {
		return domain.ContractInterface{}, err
	}

	iface, err := ParseInterface(text)
	if err != nil {
		return domain.ContractInterface{}, err
	}
	return iface, nil
}

// ParseInterface parses agent response text into a validated contract
// interface. Markdown code fences around the JSON are tolerated.
func ParseInterface(text string) (domain.ContractInterface, error) {
	text = stripCodeFences(text)

	var iface domain.ContractInterface
	if err := json.Unmarshal([]byte(text), &iface); err != nil {
		return domain.ContractInterface{}, fmt.Errorf("%w: %v", ErrInvalidInterface, err)
	}
	if err := validateInterface(iface); err != nil {
		return domain.ContractInterface{}, err
	}
	return iface, nil
}

func validateInterface(iface domain.ContractInterface) error {
	if len(iface.Functions) == 0 {
		return fmt.Errorf("%w: empty function list", ErrInvalidInterface)
	}
	for _, fn := range iface.Functions {
		if !identifierPattern.MatchString(fn.Name) {
			return fmt.Errorf("%w: function name %q", ErrInvalidInterface, fn.Name)
		}
		if fn.Returns != "" && !domain.ValidParamType(fn.Returns) {
			return fmt.Errorf("%w: function %s returns unknown type %q", ErrInvalidInterface, fn.Name, fn.Returns)
		}
		for _, param := range fn.Params {
			if !identifierPattern.MatchString(param.Name) {
				return fmt.Errorf("%w: function %s has invalid parameter name %q", ErrInvalidInterface, fn.Name, param.Name)
			}
			if !domain.ValidParamType(param.Type) {
				return fmt.Errorf("%w: function %s parameter %s has unknown type %q", ErrInvalidInterface, fn.Name, param.Name, param.Type)
			}
		}
	}
	return nil
}

func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return text
	}
	// drop the opening fence (with optional language tag) and closing fence
	lines = lines[1:]
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) == "```" {
			lines = lines[:i]
			break
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

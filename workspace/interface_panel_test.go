package workspace

import (
	"context"
	"testing"
	"time"

	"solder/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAgent struct {
	iface  domain.ContractInterface
	delay  time.Duration
	advice string
}

func (a *fakeAgent) InferInterface(ctx context.Context, source string) (domain.ContractInterface, error) {
	time.Sleep(a.delay)
	return a.iface, nil
}

func (a *fakeAgent) DebugAssist(ctx context.Context, source, buildError string) (string, error) {
	return a.advice, nil
}

func newPanelFixture(t *testing.T) (*State, *fakeAPI, *fakeAgent, *InterfacePanel) {
	t.Helper()
	api := newFakeAPI("alpha", "beta")
	api.files["alpha/alpha.rs"] = "pub fn hello() {}"
	api.files["beta/beta.rs"] = "pub fn other() {}"

	s := NewState(api)
	_, err := s.ListProjects()
	require.NoError(t, err)

	ag := &fakeAgent{
		iface: domain.ContractInterface{Functions: []domain.ContractFunction{
			{Name: "hello", Returns: domain.ParamVoid},
		}},
	}
	return s, api, ag, NewInterfacePanel(s, ag)
}

func TestPanelRefreshInfersInterface(t *testing.T) {
	t.Parallel()
	_, _, _, panel := newPanelFixture(t)

	require.NoError(t, panel.Refresh(context.Background()))
	iface, ok := panel.Interface()
	require.True(t, ok)
	require.Len(t, iface.Functions, 1)
	assert.Equal(t, "hello", iface.Functions[0].Name)
}

func TestPanelContractSourceConcatenatesRustFiles(t *testing.T) {
	t.Parallel()
	_, _, _, panel := newPanelFixture(t)

	source, err := panel.ContractSource()
	require.NoError(t, err)
	assert.Contains(t, source, "alpha.rs")
	assert.Contains(t, source, "pub fn hello() {}")
}

func TestPanelStaleInferenceIsDiscarded(t *testing.T) {
	t.Parallel()
	s, _, ag, panel := newPanelFixture(t)
	ag.delay = 200 * time.Millisecond

	done := make(chan error, 1)
	go func() { done <- panel.Refresh(context.Background()) }()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, s.SwitchProject("beta"))
	require.NoError(t, <-done)

	_, ok := panel.Interface()
	assert.False(t, ok, "interface inferred for the previous project must not be shown")
}

func TestPanelNoSourceFiles(t *testing.T) {
	t.Parallel()
	api := newFakeAPI("empty")
	api.trees["empty"] = []domain.FileNode{
		{Name: "Cargo.toml", Path: "Cargo.toml", Type: domain.NodeTypeFile},
	}
	s := NewState(api)
	_, err := s.ListProjects()
	require.NoError(t, err)

	panel := NewInterfacePanel(s, &fakeAgent{})
	assert.ErrorIs(t, panel.Refresh(context.Background()), ErrNoContractSource)
}

func TestPanelDebugAssist(t *testing.T) {
	t.Parallel()
	_, _, ag, panel := newPanelFixture(t)
	ag.advice = "missing semicolon on line 3"

	advice, err := panel.DebugAssist(context.Background(), "error: expected `;`")
	require.NoError(t, err)
	assert.Equal(t, "missing semicolon on line 3", advice)
}

func TestValidateCallArgs(t *testing.T) {
	t.Parallel()
	fn := domain.ContractFunction{
		Name: "transfer",
		Params: []domain.ContractParam{
			{Name: "to", Type: domain.ParamAddress},
			{Name: "amount", Type: domain.ParamI128},
		},
		Returns: domain.ParamBool,
	}

	assert.NoError(t, ValidateCallArgs(fn, []string{"GABC", "170141183460469231731687303715884105727"}))
	assert.Error(t, ValidateCallArgs(fn, []string{"GABC"}), "arity mismatch")
	assert.Error(t, ValidateCallArgs(fn, []string{"GABC", "not-a-number"}))
	assert.Error(t, ValidateCallArgs(fn, []string{"", "1"}), "empty address")

	boolFn := domain.ContractFunction{
		Name:   "set",
		Params: []domain.ContractParam{{Name: "flag", Type: domain.ParamBool}},
	}
	assert.NoError(t, ValidateCallArgs(boolFn, []string{"true"}))
	assert.Error(t, ValidateCallArgs(boolFn, []string{"yes"}))

	uintFn := domain.ContractFunction{
		Name:   "bump",
		Params: []domain.ContractParam{{Name: "n", Type: domain.ParamU32}},
	}
	assert.NoError(t, ValidateCallArgs(uintFn, []string{"42"}))
	assert.Error(t, ValidateCallArgs(uintFn, []string{"-1"}))
}

package registry_test

import (
	"context"
	"testing"

	"github.com/specialistvlad/burstmatrix/internal/action"
	"github.com/specialistvlad/burstmatrix/internal/config"
	"github.com/specialistvlad/burstmatrix/internal/registry"
	"github.com/specialistvlad/burstmatrix/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModule struct{ names []string }

func (m *fakeModule) Register(r *registry.Registry) {
	for _, n := range m.names {
		r.RegisterAction(n, action.Func(func(context.Context, *action.Request) error { return nil }))
	}
}

func TestNew_RegistersModules(t *testing.T) {
	r := registry.New(&fakeModule{names: []string{"cross", "checkout"}}, &fakeModule{names: []string{"shell"}})

	assert.Equal(t, []string{"checkout", "cross", "shell"}, r.Names())
	_, ok := r.Action("cross")
	assert.True(t, ok)
	_, ok = r.Action("cargo")
	assert.False(t, ok)
}

func TestRegisterAction_DuplicatePanics(t *testing.T) {
	assert.PanicsWithValue(t, "action with name 'cross' already registered", func() {
		registry.New(&fakeModule{names: []string{"cross", "cross"}})
	})
}

func TestValidateWorkflow(t *testing.T) {
	ctx, _ := testutil.NewContext(t)
	r := registry.New(&fakeModule{names: []string{"checkout", "cross"}})

	valid := &config.Workflow{
		Name:     "ci",
		Checkout: &config.Step{Name: config.StepCheckout, Action: "checkout"},
		Build:    &config.Step{Name: config.StepBuild, Action: "cross"},
		Test:     &config.Step{Name: config.StepTest, Action: "cross"},
	}
	require.NoError(t, r.ValidateWorkflow(ctx, valid))

	invalid := &config.Workflow{
		Name:     "ci",
		Checkout: &config.Step{Name: config.StepCheckout, Action: "git"},
		Test:     &config.Step{Name: config.StepTest, Action: "cargo"},
	}
	err := r.ValidateWorkflow(ctx, invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing 'build' step")
	assert.Contains(t, err.Error(), "step 'checkout': unknown action 'git'")
	assert.Contains(t, err.Error(), "step 'test': unknown action 'cargo' (available: checkout, cross)")
}

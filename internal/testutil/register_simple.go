package testutil

import (
	"github.com/specialistvlad/burstmatrix/internal/action"
	"github.com/specialistvlad/burstmatrix/internal/registry"
)

// SimpleModule is a test helper for easily creating a mock module that
// registers a single action.
type SimpleModule struct {
	ActionName string
	Action     action.Action
}

// Register implements the registry.Module interface.
func (m *SimpleModule) Register(r *registry.Registry) {
	if m.ActionName != "" && m.Action != nil {
		r.RegisterAction(m.ActionName, m.Action)
	}
}

package nodes

import (
	"github.com/kingrea/switchscan/internal/platform"
)

func init() {
	registerBuilder(20, Builder{
		Name: "modal-dialog",
		Match: func(_ *Runtime, node platform.Node) bool {
			switch node.Role() {
			case platform.RoleDialog, platform.RoleAlertDialog:
				return node.State().Has(platform.StateModal)
			}
			return false
		},
		Build: func(rt *Runtime, node platform.Node) (Group, error) {
			g := NewModalDialogGroup(rt, node)
			if err := g.populate(); err != nil {
				return nil, err
			}
			return g, nil
		},
	})
}

// ModalDialogGroup closes its dialog when exited. Modal dialogs expose no
// close command, so escape is sent instead.
type ModalDialogGroup struct {
	BasicGroup
}

// NewModalDialogGroup returns an empty modal dialog group.
func NewModalDialogGroup(rt *Runtime, node platform.Node) *ModalDialogGroup {
	g := &ModalDialogGroup{}
	g.initBasic(rt, g, KindModalDialogGroup, node)
	return g
}

func (g *ModalDialogGroup) OnExit() {
	g.rt.Host.SendKeyPress(platform.KeyEscape, 0)
}

package nodes

import (
	"github.com/kingrea/switchscan/internal/platform"
)

func init() {
	registerBuilder(30, Builder{
		Name: "window",
		Match: func(_ *Runtime, node platform.Node) bool {
			return node.Role() == platform.RoleWindow
		},
		Build: func(rt *Runtime, node platform.Node) (Group, error) {
			g := NewWindowGroup(rt, node)
			if err := g.populate(); err != nil {
				return nil, err
			}
			return g, nil
		},
	})
}

// WindowGroup gives the window platform focus when it is entered.
type WindowGroup struct {
	BasicGroup
}

// NewWindowGroup returns an empty window group.
func NewWindowGroup(rt *Runtime, node platform.Node) *WindowGroup {
	g := &WindowGroup{}
	g.initBasic(rt, g, KindWindowGroup, node)
	return g
}

// OnFocus focuses the outermost window enclosing the group.
func (g *WindowGroup) OnFocus() {
	g.BasicGroup.OnFocus()
	target := g.node
	for p := target.Parent(); p != nil && p.Role() == platform.RoleWindow; p = p.Parent() {
		target = p
	}
	target.Focus()
}

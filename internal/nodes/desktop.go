package nodes

import (
	"github.com/kingrea/switchscan/internal/platform"
)

func init() {
	registerBuilder(40, Builder{
		Name: "desktop",
		Match: func(_ *Runtime, node platform.Node) bool {
			return node.Role() == platform.RoleDesktop
		},
		Build: func(rt *Runtime, node platform.Node) (Group, error) {
			g := NewDesktopGroup(rt, node)
			if err := g.populate(); err != nil {
				return nil, err
			}
			return g, nil
		},
	})
}

// DesktopGroup is the root of the whole navigation tree. It is always a valid
// group; an empty desktop is fatal because nothing above it can recover.
type DesktopGroup struct {
	BasicGroup
}

// NewDesktopGroup returns an empty desktop group.
func NewDesktopGroup(rt *Runtime, node platform.Node) *DesktopGroup {
	g := &DesktopGroup{}
	g.initBasic(rt, g, KindDesktopGroup, node)
	g.populate = func() error {
		children, err := collectChildren(rt, g, g.defaultFactory())
		if err != nil {
			return newError(ErrMalformedDesktop, false, "desktop %s: %v", node.ID(), err)
		}
		g.SetChildren(append(children, NewBackButtonLeaf(rt, g)))
		return nil
	}
	return g
}

func (g *DesktopGroup) IsValidGroup() bool { return true }

package nodes

import (
	"github.com/kingrea/switchscan/internal/action"
	"github.com/kingrea/switchscan/internal/platform"
)

func init() {
	registerCreator(30, Creator{
		Name: "slider",
		Match: func(_ *Runtime, node platform.Node, _ Group) bool {
			return node.Role() == platform.RoleSlider
		},
		Create: func(rt *Runtime, node platform.Node, parent Group) Leaf {
			return NewSliderLeaf(rt, node, parent)
		},
	})
}

// SliderLeaf offers increment and decrement instead of select. Without native
// support it falls back to arrow key presses.
type SliderLeaf struct {
	BasicLeaf
}

// NewSliderLeaf wraps a slider node.
func NewSliderLeaf(rt *Runtime, node platform.Node, parent Group) *SliderLeaf {
	l := &SliderLeaf{}
	l.init(rt, l, KindSlider, node, parent)
	return l
}

func (l *SliderLeaf) Actions() []action.Kind {
	set := l.actionSet()
	set.Remove(action.Select)
	set.Add(action.Increment, action.Decrement)
	return set.Slice()
}

func (l *SliderLeaf) PerformAction(kind action.Kind) action.Response {
	switch kind {
	case action.Increment:
		l.adjust(kind, platform.KeyRight)
		return action.RemainOpen
	case action.Decrement:
		l.adjust(kind, platform.KeyLeft)
		return action.RemainOpen
	case action.Select:
		return action.NoActionTaken
	}
	return l.BasicLeaf.PerformAction(kind)
}

func (l *SliderLeaf) adjust(kind action.Kind, fallback platform.Key) {
	if hasStandardAction(l.node, kind) {
		l.node.PerformStandardAction(platform.StandardAction(kind))
		return
	}
	l.node.Focus()
	l.rt.Host.SendKeyPress(fallback, 0)
}

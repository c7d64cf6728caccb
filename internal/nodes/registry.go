package nodes

import (
	"fmt"
	"sort"

	"github.com/kingrea/switchscan/internal/platform"
)

// Creator decides which leaf variant wraps a platform node.
type Creator struct {
	Name   string
	Match  func(rt *Runtime, node platform.Node, parent Group) bool
	Create func(rt *Runtime, node platform.Node, parent Group) Leaf
	// order positions built-in rules; lower runs first.
	order int
}

// Builder decides which group variant a platform node materializes into.
type Builder struct {
	Name  string
	Match func(rt *Runtime, node platform.Node) bool
	Build func(rt *Runtime, node platform.Node) (Group, error)
	order int
}

// Registry holds ordered creator and builder rules. The first matching rule
// wins; nodes no rule matches become a BasicLeaf or BasicGroup.
type Registry struct {
	creators []Creator
	builders []Builder
}

var (
	builtinCreators []Creator
	builtinBuilders []Builder
)

// registerCreator is called from variant init functions.
func registerCreator(order int, c Creator) {
	c.order = order
	builtinCreators = append(builtinCreators, c)
}

func registerBuilder(order int, b Builder) {
	b.order = order
	builtinBuilders = append(builtinBuilders, b)
}

// NewRegistry returns a registry with no rules.
func NewRegistry() *Registry {
	return &Registry{}
}

// DefaultRegistry returns a fresh registry seeded with the built-in variants.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	creators := append([]Creator(nil), builtinCreators...)
	sort.SliceStable(creators, func(i, j int) bool { return creators[i].order < creators[j].order })
	builders := append([]Builder(nil), builtinBuilders...)
	sort.SliceStable(builders, func(i, j int) bool { return builders[i].order < builders[j].order })
	r.creators = creators
	r.builders = builders
	return r
}

func validateCreator(c Creator) error {
	if c.Name == "" {
		return fmt.Errorf("nodes: creator name is required")
	}
	if c.Match == nil || c.Create == nil {
		return fmt.Errorf("nodes: creator %s needs match and create functions", c.Name)
	}
	return nil
}

func validateBuilder(b Builder) error {
	if b.Name == "" {
		return fmt.Errorf("nodes: builder name is required")
	}
	if b.Match == nil || b.Build == nil {
		return fmt.Errorf("nodes: builder %s needs match and build functions", b.Name)
	}
	return nil
}

// AddCreator appends a creator rule.
func (r *Registry) AddCreator(c Creator) error {
	if err := validateCreator(c); err != nil {
		return err
	}
	r.creators = append(r.creators, c)
	return nil
}

// PrependCreator installs a creator rule ahead of every existing rule.
func (r *Registry) PrependCreator(c Creator) error {
	if err := validateCreator(c); err != nil {
		return err
	}
	r.creators = append([]Creator{c}, r.creators...)
	return nil
}

// AddBuilder appends a builder rule.
func (r *Registry) AddBuilder(b Builder) error {
	if err := validateBuilder(b); err != nil {
		return err
	}
	r.builders = append(r.builders, b)
	return nil
}

// PrependBuilder installs a builder rule ahead of every existing rule.
func (r *Registry) PrependBuilder(b Builder) error {
	if err := validateBuilder(b); err != nil {
		return err
	}
	r.builders = append([]Builder{b}, r.builders...)
	return nil
}

// CreatorNames lists creator rules in match order.
func (r *Registry) CreatorNames() []string {
	names := make([]string, len(r.creators))
	for i, c := range r.creators {
		names[i] = c.Name
	}
	return names
}

// BuilderNames lists builder rules in match order.
func (r *Registry) BuilderNames() []string {
	names := make([]string, len(r.builders))
	for i, b := range r.builders {
		names[i] = b.Name
	}
	return names
}

func (r *Registry) creatorFor(rt *Runtime, node platform.Node, parent Group) (Creator, bool) {
	if r == nil {
		return Creator{}, false
	}
	for _, c := range r.creators {
		if c.Match(rt, node, parent) {
			return c, true
		}
	}
	return Creator{}, false
}

func (r *Registry) builderFor(rt *Runtime, node platform.Node) (Builder, bool) {
	if r == nil {
		return Builder{}, false
	}
	for _, b := range r.builders {
		if b.Match(rt, node) {
			return b, true
		}
	}
	return Builder{}, false
}

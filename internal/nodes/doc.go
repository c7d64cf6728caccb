// Package nodes turns a live platform accessibility tree into scannable
// groups of items.
//
// A Group owns an ordered ring of Leaf values. Leaves are rebuilt from scratch
// whenever the platform tree changes; they are never patched in place, so a
// Leaf from a previous build is only ever compared (Equals, IsEquivalentTo)
// against its replacement. Which concrete variant wraps a platform node is
// decided by the ordered rules of a Registry, first match wins.
//
// Everything that would otherwise be process-wide state (the cached keyboard
// node, the back button lookup, collaborator handles) lives on a Runtime so
// tests stay hermetic.
package nodes

package router

import (
	"strings"

	"github.com/roomnav-dev/roomnav/internal/errors"
	"github.com/roomnav-dev/roomnav/pkg/page"
	"github.com/roomnav-dev/roomnav/pkg/routepath"
)

// routeNode is a node in the route trie.
type routeNode struct {
	// segment is the path segment this node matches
	segment string

	// isParam indicates this is a parameter segment (:id)
	isParam bool

	// isWildcard indicates this is a terminal wildcard segment (*)
	isWildcard bool

	// paramName is the parameter name (without :)
	paramName string

	// factory is bound only when some registration terminates exactly here
	factory page.Factory

	// pattern is the canonical registered pattern for a bound node; it
	// becomes the fixed path of every match reaching this node
	pattern string

	// children are static segment children
	children []*routeNode

	// paramChild is the dynamic parameter child (:id)
	paramChild *routeNode

	// wildcardChild is the terminal wildcard child (*)
	wildcardChild *routeNode
}

// newRouteNode creates a new route node.
func newRouteNode(segment string) *routeNode {
	return &routeNode{segment: segment}
}

// findChild finds a child node with an exact segment match.
func (n *routeNode) findChild(segment string) *routeNode {
	for _, child := range n.children {
		if child.segment == segment {
			return child
		}
	}
	return nil
}

// addChild adds or retrieves a child node for the given segment.
func (n *routeNode) addChild(segment string) *routeNode {
	if child := n.findChild(segment); child != nil {
		return child
	}
	child := newRouteNode(segment)
	n.children = append(n.children, child)
	return child
}

// addParamChild sets the parameter child node.
func (n *routeNode) addParamChild(name string) *routeNode {
	if n.paramChild != nil {
		return n.paramChild
	}
	child := newRouteNode("")
	child.isParam = true
	child.paramName = name
	n.paramChild = child
	return child
}

// addWildcardChild sets the wildcard child node.
func (n *routeNode) addWildcardChild() *routeNode {
	if n.wildcardChild != nil {
		return n.wildcardChild
	}
	child := newRouteNode("")
	child.isWildcard = true
	child.paramName = WildcardKey
	n.wildcardChild = child
	return child
}

// insertRoute walks the canonical pattern segment-by-segment, creating
// nodes on demand, and returns the terminal node. A wildcard segment
// terminates insertion immediately; nothing may be registered past it.
func (n *routeNode) insertRoute(pattern string) *routeNode {
	current := n
	for _, seg := range routepath.Split(pattern) {
		if seg == WildcardKey {
			return current.addWildcardChild()
		}
		if strings.HasPrefix(seg, ":") {
			current = current.addParamChild(seg[1:])
			continue
		}
		current = current.addChild(seg)
	}
	return current
}

// bind attaches a factory to a terminal node. Each leaf binds at most
// one factory.
func (n *routeNode) bind(pattern string, factory page.Factory) error {
	if n.factory != nil {
		return errors.Newf("E002", "pattern %q", pattern)
	}
	n.factory = factory
	n.pattern = pattern
	return nil
}

// match walks the trie over the given segments. At every step the first
// applicable edge wins: literal, then parameter, then wildcard. There is
// no backtracking across sibling branches; this is a deliberate
// simplification, not a general matcher.
func (n *routeNode) match(segments []string, params map[string]string) (*routeNode, bool) {
	if len(segments) == 0 {
		if n.factory == nil {
			return nil, false
		}
		return n, true
	}

	segment := segments[0]
	remaining := segments[1:]

	if child := n.findChild(segment); child != nil {
		return child.match(remaining, params)
	}

	if n.paramChild != nil {
		params[n.paramChild.paramName] = segment
		return n.paramChild.match(remaining, params)
	}

	if n.wildcardChild != nil {
		params[WildcardKey] = strings.Join(segments, "/")
		if n.wildcardChild.factory == nil {
			return nil, false
		}
		return n.wildcardChild, true
	}

	return nil, false
}

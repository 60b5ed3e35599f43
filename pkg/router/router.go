// Package router maps navigation paths to page-controller factories.
//
// A Registry owns a trie over slash-separated pattern segments (literal,
// :param, terminal *) plus a separate name-keyed table of special pages
// (notfound, error, ...) that are never reached by path matching.
//
// The registry is built once at startup and is read-only afterwards; the
// navigator is its only runtime consumer.
package router

import (
	"github.com/roomnav-dev/roomnav/pkg/page"
	"github.com/roomnav-dev/roomnav/pkg/routepath"
)

// WildcardKey is the params key holding a wildcard's captured remainder.
const WildcardKey = "*"

// Names of the special pages the navigator depends on. The registry
// itself guarantees nothing about which special names exist.
const (
	SpecialNotFound = "notfound"
	SpecialError    = "error"
)

// Match is the result of resolving a concrete path.
type Match struct {
	// Factory produces the controller for the matched route.
	Factory page.Factory

	// FixedPath is the registered pattern with parameter placeholders
	// left symbolic (e.g. "enter/:roomid"). It is the identity key of
	// the in-page transition tier.
	FixedPath string

	// Params maps parameter names to matched values; a wildcard's
	// remainder is stored under WildcardKey.
	Params map[string]string
}

// Registry owns the route trie and the special-page table.
type Registry struct {
	root     *routeNode
	specials map[string]page.Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		root:     newRouteNode(""),
		specials: make(map[string]page.Factory),
	}
}

// Register binds a factory to a route pattern. The pattern is
// canonicalized exactly like navigation paths are. Registering two
// patterns that compile to the same trie leaf is an error.
func (r *Registry) Register(pattern string, factory page.Factory) error {
	res, err := routepath.Canonicalize(pattern)
	if err != nil {
		return wrapPattern(pattern, err)
	}
	return r.root.insertRoute(res.Path).bind(res.Path, factory)
}

// MustRegister is Register for static route tables built at startup.
func (r *Registry) MustRegister(pattern string, factory page.Factory) {
	if err := r.Register(pattern, factory); err != nil {
		panic(err)
	}
}

// Match resolves a canonical path against the trie.
func (r *Registry) Match(path string) (Match, bool) {
	params := make(map[string]string)
	node, ok := r.root.match(routepath.Split(path), params)
	if !ok {
		return Match{}, false
	}
	return Match{
		Factory:   node.factory,
		FixedPath: node.pattern,
		Params:    params,
	}, true
}

// RegisterSpecial binds a factory under a special-page name. Calling it
// twice with the same name silently overwrites; last write wins.
func (r *Registry) RegisterSpecial(name string, factory page.Factory) {
	r.specials[name] = factory
}

// Special looks up a special-page factory by name.
func (r *Registry) Special(name string) (page.Factory, bool) {
	f, ok := r.specials[name]
	return f, ok
}

// Package discovery locates the host tracking service across an ordered chain
// of execution contexts.
package discovery

import (
	"github.com/mind-engage/mindengage-courseware/internal/datamodel"
)

// Exposure names, current generation first.
const (
	Name2004   = "API_1484_11"
	NameLegacy = "API"
)

// DefaultMaxDepth bounds the walk when callers pass a non-positive depth.
const DefaultMaxDepth = 7

// Context is one execution context in the chain. Lookup returns a non-nil
// error when the context refuses inspection (cross-boundary denial).
type Context interface {
	Lookup(name string) (datamodel.Handle, bool, error)
}

// Accessor yields the ordered chain: current context first, then each
// enclosing context, then any opener context.
type Accessor func() []Context

type Reason string

const (
	ReasonFound      Reason = "found"
	ReasonExhausted  Reason = "exhausted"
	ReasonDenied     Reason = "denied"
	ReasonDepthLimit Reason = "depth_limit"
)

type Result struct {
	Handle  datamodel.Handle
	Version datamodel.Version
	Depth   int // hops from the current context to the one that exposed Handle
	Found   bool
	Reason  Reason
}

var candidates = []struct {
	name    string
	version datamodel.Version
}{
	{Name2004, datamodel.Version2004},
	{NameLegacy, datamodel.Version12},
}

// Discover inspects chain[0] (the current context) and at most maxDepth
// further hops. It never mutates a context.
func Discover(chain []Context, maxDepth int) Result {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	for depth, c := range chain {
		if depth > maxDepth {
			return Result{Depth: depth - 1, Reason: ReasonDepthLimit}
		}
		if c == nil {
			continue
		}
		for _, p := range candidates {
			h, ok, err := c.Lookup(p.name)
			if err != nil {
				return Result{Depth: depth, Reason: ReasonDenied}
			}
			if ok && h != nil {
				return Result{Handle: h, Version: p.version, Depth: depth, Found: true, Reason: ReasonFound}
			}
		}
	}
	return Result{Depth: len(chain) - 1, Reason: ReasonExhausted}
}

// Run resolves the chain through acc and discovers over it. A nil accessor
// is treated as an empty chain.
func Run(acc Accessor, maxDepth int) Result {
	if acc == nil {
		return Result{Depth: -1, Reason: ReasonExhausted}
	}
	return Discover(acc(), maxDepth)
}

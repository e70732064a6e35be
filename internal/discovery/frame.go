package discovery

import (
	"errors"

	"github.com/mind-engage/mindengage-courseware/internal/datamodel"
)

var ErrAccessDenied = errors.New("context access denied")

// Frame is a map-backed Context.
type Frame struct {
	Name    string
	Exposed map[string]datamodel.Handle
	Denied  bool
}

// Lookup on a nil Frame finds nothing.
func (f *Frame) Lookup(name string) (datamodel.Handle, bool, error) {
	if f == nil {
		return nil, false, nil
	}
	if f.Denied {
		return nil, false, ErrAccessDenied
	}
	h, ok := f.Exposed[name]
	return h, ok, nil
}

// Chain returns an Accessor over a fixed list of frames.
func Chain(frames ...*Frame) Accessor {
	return func() []Context {
		out := make([]Context, 0, len(frames))
		for _, f := range frames {
			out = append(out, f)
		}
		return out
	}
}

// Nested builds a chain of depth+1 empty frames with h exposed under name in
// the outermost one.
func Nested(depth int, name string, h datamodel.Handle) Accessor {
	frames := make([]*Frame, depth+1)
	for i := range frames {
		frames[i] = &Frame{}
	}
	frames[depth].Exposed = map[string]datamodel.Handle{name: h}
	return Chain(frames...)
}

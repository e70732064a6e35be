package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-courseware/internal/datamodel"
)

func TestDiscover_CurrentContext(t *testing.T) {
	h := datamodel.NewMemoryHandle()
	res := Run(Nested(0, Name2004, h), 0)

	require.True(t, res.Found)
	assert.Same(t, h, res.Handle)
	assert.Equal(t, datamodel.Version2004, res.Version)
	assert.Equal(t, 0, res.Depth)
	assert.Equal(t, ReasonFound, res.Reason)
}

func TestDiscover_PrefersCurrentGeneration(t *testing.T) {
	legacy := datamodel.NewMemoryHandle()
	current := datamodel.NewMemoryHandle()
	f := &Frame{Exposed: map[string]datamodel.Handle{NameLegacy: legacy, Name2004: current}}

	res := Discover([]Context{f}, 0)
	require.True(t, res.Found)
	assert.Same(t, current, res.Handle)
}

func TestDiscover_LegacyInEnclosingContext(t *testing.T) {
	h := datamodel.NewMemoryHandle()
	res := Run(Nested(3, NameLegacy, h), 0)

	require.True(t, res.Found)
	assert.Equal(t, datamodel.Version12, res.Version)
	assert.Equal(t, 3, res.Depth)
}

func TestDiscover_FirstMatchWins(t *testing.T) {
	inner := datamodel.NewMemoryHandle()
	outer := datamodel.NewMemoryHandle()
	res := Run(Chain(
		&Frame{},
		&Frame{Exposed: map[string]datamodel.Handle{NameLegacy: inner}},
		&Frame{Exposed: map[string]datamodel.Handle{Name2004: outer}},
	), 0)

	require.True(t, res.Found)
	assert.Same(t, inner, res.Handle)
}

func TestDiscover_DepthLimit(t *testing.T) {
	h := datamodel.NewMemoryHandle()

	res := Run(Nested(DefaultMaxDepth, Name2004, h), 0)
	assert.True(t, res.Found, "handle exactly at the default bound is reachable")

	res = Run(Nested(DefaultMaxDepth+1, Name2004, h), 0)
	assert.False(t, res.Found)
	assert.Equal(t, ReasonDepthLimit, res.Reason)

	res = Run(Nested(2, Name2004, h), 1)
	assert.False(t, res.Found)
	assert.Equal(t, ReasonDepthLimit, res.Reason)
}

func TestDiscover_DeniedHopStopsWalk(t *testing.T) {
	h := datamodel.NewMemoryHandle()
	res := Run(Chain(
		&Frame{},
		&Frame{Denied: true},
		&Frame{Exposed: map[string]datamodel.Handle{Name2004: h}},
	), 0)

	assert.False(t, res.Found)
	assert.Equal(t, ReasonDenied, res.Reason)
	assert.Equal(t, 1, res.Depth)
}

func TestDiscover_Exhausted(t *testing.T) {
	res := Run(Chain(&Frame{}, &Frame{}), 0)
	assert.False(t, res.Found)
	assert.Equal(t, ReasonExhausted, res.Reason)

	res = Run(nil, 0)
	assert.False(t, res.Found)
	assert.Nil(t, res.Handle)
}

func TestDiscover_NilFrameInChain(t *testing.T) {
	h := datamodel.NewMemoryHandle()
	var missing *Frame

	res := Run(Chain(&Frame{}, missing), DefaultMaxDepth)
	assert.False(t, res.Found)
	assert.Equal(t, ReasonExhausted, res.Reason)

	res = Run(Chain(missing, &Frame{Exposed: map[string]datamodel.Handle{Name2004: h}}), DefaultMaxDepth)
	require.True(t, res.Found)
	assert.Equal(t, 1, res.Depth)
}

package datamodel

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Handle is the host-provided tracking service. Implementations are local and
// synchronous; a false return means the host rejected the call.
type Handle interface {
	Initialize() bool
	Terminate() bool
	GetValue(name string) (string, bool)
	SetValue(name, value string) bool
	Commit() bool
}

// Diagnoser is implemented by handles that can explain their last failure.
type Diagnoser interface {
	LastError() (code int, msg string)
}

type Option func(*Bridge)

func WithLogger(l *zap.Logger) Option {
	return func(b *Bridge) {
		if l != nil {
			b.log = l
		}
	}
}

// Bridge is the typed view over a Handle. Without a handle it runs detached:
// reads miss, writes and commits succeed as no-ops. Host failures, including
// panics, surface as false and are never propagated.
type Bridge struct {
	h       Handle
	version Version
	log     *zap.Logger

	mu       sync.Mutex
	initDone bool
	initOK   bool
	termDone bool
	termOK   bool
}

// New wraps h. A nil h yields a detached bridge.
func New(h Handle, v Version, opts ...Option) *Bridge {
	if v == "" {
		v = Version2004
	}
	b := &Bridge{h: h, version: v, log: zap.NewNop()}
	for _, o := range opts {
		o(b)
	}
	b.log = b.log.With(zap.String("component", "datamodel"), zap.String("version", string(v)))
	return b
}

// Detached returns a bridge for standalone/preview operation.
func Detached(opts ...Option) *Bridge { return New(nil, Version2004, opts...) }

// HasHandle reports whether a real host handle backs the bridge.
func (b *Bridge) HasHandle() bool { return b.h != nil }

func (b *Bridge) Version() Version { return b.version }

// Supports reports whether f can be written. Detached bridges accept every field.
func (b *Bridge) Supports(f Field) bool {
	return b.h == nil || f.Name(b.version) != ""
}

// Initialize starts the host session. Only the first call reaches the host.
func (b *Bridge) Initialize() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.initDone {
		return b.initOK
	}
	b.initDone = true
	if b.h == nil {
		b.initOK = true
		return true
	}
	b.initOK = b.call("initialize", b.h.Initialize)
	return b.initOK
}

// Terminate ends the host session. Only the first call reaches the host.
func (b *Bridge) Terminate() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.termDone {
		return b.termOK
	}
	b.termDone = true
	if b.h == nil {
		b.termOK = true
		return true
	}
	b.termOK = b.call("terminate", b.h.Terminate)
	return b.termOK
}

// GetField reads f. The second return is false when detached, when the field
// does not exist in this version, or when the host call fails.
func (b *Bridge) GetField(f Field) (string, bool) {
	if b.h == nil {
		return "", false
	}
	name := f.Name(b.version)
	if name == "" {
		return "", false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	var (
		val string
		ok  bool
	)
	b.call("get "+name, func() bool {
		val, ok = b.h.GetValue(name)
		return true
	})
	return val, ok
}

// SetField writes f. Detached writes are no-ops that succeed; fields absent
// from the handle's version are skipped and report false.
func (b *Bridge) SetField(f Field, value string) bool {
	if b.h == nil {
		b.log.Debug("no handle, write skipped", zap.Stringer("field", f), zap.String("value", value))
		return true
	}
	name := f.Name(b.version)
	if name == "" {
		b.log.Debug("field not in data model", zap.Stringer("field", f))
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.call("set "+name, func() bool { return b.h.SetValue(name, value) })
}

// Commit asks the host to persist pending writes.
func (b *Bridge) Commit() bool {
	if b.h == nil {
		return true
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.call("commit", b.h.Commit)
}

// call runs fn against the host and turns panics and false returns into false.
func (b *Bridge) call(op string, fn func() bool) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Warn("host call panicked", zap.String("op", op), zap.String("panic", fmt.Sprint(r)))
			ok = false
		}
	}()
	ok = fn()
	if !ok {
		fields := []zap.Field{zap.String("op", op)}
		if d, isDiag := b.h.(Diagnoser); isDiag {
			code, msg := d.LastError()
			fields = append(fields, zap.Int("code", code), zap.String("msg", msg))
		}
		b.log.Warn("host call failed", fields...)
	}
	return ok
}

// Package http is the preview surface: it stands in for the page UI so that
// content can be exercised against a real or simulated host.
package http

import (
	"go.uber.org/zap"

	"github.com/mind-engage/mindengage-courseware/internal/auth"
	"github.com/mind-engage/mindengage-courseware/internal/journal"
	"github.com/mind-engage/mindengage-courseware/internal/session"
	"github.com/mind-engage/mindengage-courseware/internal/storage"
)

// Deps are shared by every handler.
type Deps struct {
	Sessions *session.Registry
	Auth     *auth.AuthService
	Local    *storage.Local // standalone persistence; nil keeps nothing
	Journal  journal.Recorder
	Log      *zap.Logger
	MaxDepth int
}

func (d Deps) logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}

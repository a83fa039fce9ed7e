package service

import (
	"context"
	"strings"
	"sync"

	"aircare/internal/domain"

	"github.com/rs/zerolog"
)

// ScopeGuard watches navigation paths and discards the session draft the
// moment the user leaves the booking or partner funnel. Moving between two
// in-scope paths never resets; the very first observation counts too, so a
// session that starts outside the funnel begins with a clean draft.
type ScopeGuard struct {
	prefixes []string
	drafts   domain.DraftManager
	logger   *zerolog.Logger
	states   sync.Map // sessionID -> bool (in scope)
}

func NewScopeGuard(prefixes []string, drafts domain.DraftManager, logger *zerolog.Logger) *ScopeGuard {
	return &ScopeGuard{
		prefixes: append([]string(nil), prefixes...),
		drafts:   drafts,
		logger:   logger,
	}
}

// InScope reports whether a path belongs to the recognized funnel prefixes.
func (g *ScopeGuard) InScope(path string) bool {
	for _, prefix := range g.prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Observe evaluates a navigation event for the session and resets the draft
// on every transition out of scope.
func (g *ScopeGuard) Observe(ctx context.Context, sessionID, path string) {
	inScope := g.InScope(path)
	prev, seen := g.states.Load(sessionID)
	g.states.Store(sessionID, inScope)

	if inScope {
		return
	}
	if seen && prev.(bool) == false {
		// already out of scope, draft is already gone
		return
	}

	g.logger.Debug().Str("session_id", sessionID).Str("path", path).Msg("navigation left booking scope, resetting draft")
	g.drafts.Reset(ctx, sessionID)
}

// Forget drops the tracked scope state for a session.
func (g *ScopeGuard) Forget(sessionID string) {
	g.states.Delete(sessionID)
}

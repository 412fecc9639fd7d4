package session

import (
	"context"

	"github.com/claude/repquest/internal/models"
	"github.com/claude/repquest/internal/storage"
)

// Gateway is the slice of the persistence layer the tracker needs to
// finish a session: the current profile and one atomic write covering
// the session record, its sets, and the updated aggregates.
type Gateway interface {
	GetUserProfile(ctx context.Context) (*models.UserProfile, error)
	SaveSession(ctx context.Context, fs storage.FinishedSession) (string, error)
}

// Compile-time check: *storage.DB satisfies Gateway.
var _ Gateway = (*storage.DB)(nil)

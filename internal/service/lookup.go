package service

import (
	"context"
	"log/slog"

	"github.com/splitpal/splitpal/internal/models"
	"github.com/splitpal/splitpal/internal/storage"
)

const (
	unknownName     = "Unknown"
	unknownUserName = "Unknown User"
)

// lookup resolves display names for one request. Results, including misses,
// are memoized so a page of transactions costs one query per distinct id.
// Failures are logged and reported as absent, never returned.
type lookup struct {
	store  storage.Store
	logger *slog.Logger
	users  map[string]*models.User
	groups map[string]*models.Group
}

func newLookup(store storage.Store, logger *slog.Logger) *lookup {
	return &lookup{
		store:  store,
		logger: logger,
		users:  make(map[string]*models.User),
		groups: make(map[string]*models.Group),
	}
}

func (l *lookup) user(ctx context.Context, id string) *models.User {
	if id == "" {
		return nil
	}
	if u, ok := l.users[id]; ok {
		return u
	}
	u, err := l.store.GetUserByID(ctx, id)
	if err != nil {
		l.logger.Warn("user lookup failed", "user_id", id, "error", err)
		u = nil
	}
	l.users[id] = u
	return u
}

// userName returns the user's name, or fallback when the user cannot be resolved.
func (l *lookup) userName(ctx context.Context, id, fallback string) string {
	if u := l.user(ctx, id); u != nil {
		return u.Name
	}
	return fallback
}

func (l *lookup) group(ctx context.Context, id string) *models.Group {
	if id == "" {
		return nil
	}
	if g, ok := l.groups[id]; ok {
		return g
	}
	g, err := l.store.GetGroup(ctx, id)
	if err != nil {
		l.logger.Warn("group lookup failed", "group_id", id, "error", err)
		g = nil
	}
	l.groups[id] = g
	return g
}

// groupName returns "" for direct transactions and unresolvable groups.
func (l *lookup) groupName(ctx context.Context, id string) string {
	if g := l.group(ctx, id); g != nil {
		return g.Name
	}
	return ""
}

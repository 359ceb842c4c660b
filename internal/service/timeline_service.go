package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/splitpal/splitpal/internal/ledger"
	"github.com/splitpal/splitpal/internal/models"
	"github.com/splitpal/splitpal/internal/storage"
)

// TimelineService builds the history between two users or within a group,
// seen from one viewer's side.
type TimelineService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewTimelineService creates a new TimelineService with the given storage backend.
func NewTimelineService(store storage.Store, opts ...Option) *TimelineService {
	s := newSettings(opts)
	return &TimelineService{store: store, logger: s.logger}
}

// Timeline returns the full history between viewerID and otherID, newest first.
// Direct transactions and shared group transactions are merged and deduplicated.
func (s *TimelineService) Timeline(ctx context.Context, viewerID, otherID string) ([]models.TimelineEntry, error) {
	if err := ledger.ValidateID("user", otherID); err != nil {
		return nil, err
	}
	s.logger.Info("Timeline request received", "user_id", viewerID, "target_user_id", otherID)

	direct, err := s.store.ListDirectTransactions(ctx, viewerID, otherID)
	if err != nil {
		s.logger.Error("Timeline direct query failed", "error", err)
		return nil, err
	}
	shared, err := s.store.ListSharedTransactions(ctx, viewerID, otherID)
	if err != nil {
		s.logger.Error("Timeline shared query failed", "error", err)
		return nil, err
	}

	merged := ledger.MergeNewestFirst(direct, shared)
	return s.entries(ctx, merged, viewerID), nil
}

// TimelinePage returns one page of the history between viewerID and otherID.
func (s *TimelineService) TimelinePage(ctx context.Context, viewerID, otherID string, req storage.PageRequest) (*models.TimelinePage, error) {
	if err := ledger.ValidateID("user", otherID); err != nil {
		return nil, err
	}
	s.logger.Info("TimelinePage request received",
		"user_id", viewerID,
		"target_user_id", otherID,
		"page", req.Page,
		"size", req.Size,
	)

	page, err := s.store.ListTimelineTransactions(ctx, viewerID, otherID, req)
	if err != nil {
		s.logger.Error("TimelinePage failed", "error", err)
		return nil, err
	}
	return s.toPage(ctx, page, viewerID), nil
}

// GroupTimelinePage returns one page of a group's transactions as seen by viewerID.
func (s *TimelineService) GroupTimelinePage(ctx context.Context, groupID, viewerID string, req storage.PageRequest) (*models.TimelinePage, error) {
	if err := ledger.ValidateID("group", groupID); err != nil {
		return nil, err
	}
	s.logger.Info("GroupTimelinePage request received",
		"group_id", groupID,
		"user_id", viewerID,
		"page", req.Page,
		"size", req.Size,
	)

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, fmt.Errorf("%w: group %s", ledger.ErrNotFound, groupID)
	}

	page, err := s.store.ListGroupTransactions(ctx, groupID, req)
	if err != nil {
		s.logger.Error("GroupTimelinePage failed", "group_id", groupID, "error", err)
		return nil, err
	}
	return s.toPage(ctx, page, viewerID), nil
}

func (s *TimelineService) toPage(ctx context.Context, page *storage.Page[*models.Transaction], viewerID string) *models.TimelinePage {
	return &models.TimelinePage{
		Content:     s.entries(ctx, page.Items, viewerID),
		CurrentPage: page.PageIndex,
		TotalPages:  page.TotalPages,
		TotalItems:  page.TotalItems,
		HasMore:     ledger.HasMore(page.PageIndex, page.TotalPages),
	}
}

func (s *TimelineService) entries(ctx context.Context, txs []*models.Transaction, viewerID string) []models.TimelineEntry {
	names := newLookup(s.store, s.logger)
	entries := make([]models.TimelineEntry, 0, len(txs))
	for _, tx := range txs {
		entries = append(entries, timelineEntry(ctx, names, tx, viewerID))
	}
	return entries
}

func timelineEntry(ctx context.Context, names *lookup, tx *models.Transaction, viewerID string) models.TimelineEntry {
	view := ledger.ViewFor(tx, viewerID)
	entry := models.TimelineEntry{
		ID:          tx.ID,
		TotalAmount: tx.Amount,
		OwedAmount:  view.OwedAmount,
		Settled:     view.Settled,
		GroupID:     tx.GroupID,
		GroupName:   names.groupName(ctx, tx.GroupID),
		PayedBy:     tx.UserID,
		CreatedAt:   tx.CreatedAt,
	}
	if payer := names.user(ctx, tx.UserID); payer != nil {
		entry.PayerPhoneNumber = payer.PhoneNumber
		entry.PayerName = payer.Name
	}
	return entry
}

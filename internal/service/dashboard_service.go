package service

import (
	"context"
	"log/slog"

	"github.com/splitpal/splitpal/internal/ledger"
	"github.com/splitpal/splitpal/internal/models"
	"github.com/splitpal/splitpal/internal/storage"
)

const (
	flatCardLimit    = 5
	recentGroupLimit = 3
	individualLimit  = 4
	recentLimit      = 5
)

// DashboardService builds the per-user home screen.
type DashboardService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewDashboardService creates a new DashboardService with the given storage backend.
func NewDashboardService(store storage.Store, opts ...Option) *DashboardService {
	s := newSettings(opts)
	return &DashboardService{store: store, logger: s.logger}
}

// Dashboard returns outstanding debts, recent groups, frequent counterparties
// and recent activity for viewerID. phoneNumber selects the viewer's groups.
func (s *DashboardService) Dashboard(ctx context.Context, viewerID, phoneNumber string) (*models.Dashboard, error) {
	s.logger.Info("Dashboard request received", "user_id", viewerID)

	names := newLookup(s.store, s.logger)

	flatCards, err := s.flatCards(ctx, names, viewerID)
	if err != nil {
		return nil, err
	}
	groups, err := s.recentGroups(ctx, phoneNumber)
	if err != nil {
		return nil, err
	}

	involving, err := s.store.ListTransactionsInvolving(ctx, viewerID)
	if err != nil {
		s.logger.Error("Dashboard involving query failed", "user_id", viewerID, "error", err)
		return nil, err
	}

	return &models.Dashboard{
		FlatCards:          flatCards,
		Groups:             groups,
		Individuals:        individuals(ctx, names, involving, viewerID),
		RecentTransactions: recentTransactions(ctx, names, involving, viewerID),
	}, nil
}

func (s *DashboardService) flatCards(ctx context.Context, names *lookup, viewerID string) ([]models.FlatCard, error) {
	owed, err := s.store.ListTransactionsOwedBy(ctx, viewerID)
	if err != nil {
		s.logger.Error("Dashboard owed query failed", "user_id", viewerID, "error", err)
		return nil, err
	}
	if len(owed) > flatCardLimit {
		owed = owed[:flatCardLimit]
	}

	cards := make([]models.FlatCard, 0, len(owed))
	for _, tx := range owed {
		split, ok := unsettledSplitOwedBy(tx, viewerID)
		if !ok {
			continue
		}
		cards = append(cards, models.FlatCard{
			TransactionID: tx.ID,
			GroupName:     names.groupName(ctx, tx.GroupID),
			InitiatorName: names.userName(ctx, tx.UserID, unknownName),
			Amount:        split.Amount,
		})
	}
	return cards, nil
}

func unsettledSplitOwedBy(tx *models.Transaction, userID string) (models.Split, bool) {
	for _, sp := range tx.Splits {
		if sp.OwedBy == userID && !sp.Settled {
			return sp, true
		}
	}
	return models.Split{}, false
}

func (s *DashboardService) recentGroups(ctx context.Context, phoneNumber string) ([]models.GroupSummary, error) {
	groups, err := s.store.ListGroupsByMember(ctx, phoneNumber)
	if err != nil {
		s.logger.Error("Dashboard group query failed", "error", err)
		return nil, err
	}
	if len(groups) > recentGroupLimit {
		groups = groups[:recentGroupLimit]
	}

	summaries := make([]models.GroupSummary, 0, len(groups))
	for _, g := range groups {
		summaries = append(summaries, models.GroupSummary{ID: g.ID, Name: g.Name})
	}
	return summaries, nil
}

// individuals ranks counterparties first and resolves names after, so an
// unresolvable user still takes one of the slots.
func individuals(ctx context.Context, names *lookup, txs []*models.Transaction, viewerID string) []models.Individual {
	top := ledger.TopCounterparties(txs, viewerID, individualLimit)

	people := make([]models.Individual, 0, len(top))
	for _, c := range top {
		u := names.user(ctx, c.UserID)
		if u == nil {
			names.logger.Debug("dropping unresolvable counterparty", "user_id", c.UserID)
			continue
		}
		people = append(people, models.Individual{UserID: c.UserID, Name: u.Name})
	}
	return people
}

func recentTransactions(ctx context.Context, names *lookup, txs []*models.Transaction, viewerID string) []models.RecentTransaction {
	if len(txs) > recentLimit {
		txs = txs[:recentLimit]
	}

	recent := make([]models.RecentTransaction, 0, len(txs))
	for _, tx := range txs {
		name := tx.PayedTo.Name
		if tx.UserID != viewerID {
			name = names.userName(ctx, tx.UserID, unknownName)
		}
		recent = append(recent, models.RecentTransaction{
			TransactionID: tx.ID,
			PayedToName:   name,
			GroupName:     names.groupName(ctx, tx.GroupID),
			Amount:        tx.Amount,
			Status:        ledger.Classify(tx, viewerID),
		})
	}
	return recent
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/splitpal/splitpal/internal/ledger"
	"github.com/splitpal/splitpal/internal/models"
	"github.com/splitpal/splitpal/internal/storage"
)

// TransactionService creates and edits transactions and their splits.
type TransactionService struct {
	store  storage.Store
	now    func() time.Time
	policy ledger.Policy
	logger *slog.Logger
}

// NewTransactionService creates a new TransactionService with the given storage backend.
func NewTransactionService(store storage.Store, opts ...Option) *TransactionService {
	s := newSettings(opts)
	return &TransactionService{
		store:  store,
		now:    s.now,
		policy: s.policy,
		logger: s.logger,
	}
}

// CreateTransactionRequest describes a new expense. Amount is taken as given.
type CreateTransactionRequest struct {
	Amount      int64          `json:"amount"`
	Description string         `json:"description,omitempty"`
	PayedTo     models.PayedTo `json:"payed_to"`
	GroupID     string         `json:"group_id,omitempty"`

	// Splits is accepted for wire compatibility only. Group transactions get
	// computed splits and direct transactions carry none.
	Splits []models.Split `json:"splits,omitempty"`
}

// EditTransactionRequest is a partial update; nil fields keep their value.
type EditTransactionRequest struct {
	TransactionID string          `json:"transaction_id"`
	Amount        *int64          `json:"amount,omitempty"`
	Description   *string         `json:"description,omitempty"`
	PayedTo       *models.PayedTo `json:"payed_to,omitempty"`

	// GroupID moves the transaction to another group. Existing splits are
	// kept; a transaction without any is split evenly across the group.
	// An empty string counts as absent.
	GroupID *string `json:"group_id,omitempty"`

	// Splits replaces the split list when non-nil. Ids must be empty or
	// belong to this transaction.
	Splits []models.Split `json:"splits,omitempty"`
}

// EditSplitRequest changes one split of a transaction.
type EditSplitRequest struct {
	TransactionID string `json:"transaction_id"`
	SplitID       string `json:"split_id"`
	Amount        *int64 `json:"amount,omitempty"`
	Status        *bool  `json:"status,omitempty"`
}

// Create records a new transaction paid by creatorID. When a group is given
// the amount is split evenly across its members.
func (s *TransactionService) Create(ctx context.Context, creatorID string, req *CreateTransactionRequest) (*models.Transaction, error) {
	s.logger.Info("CreateTransaction request received",
		"user_id", creatorID,
		"group_id", req.GroupID,
		"amount", req.Amount,
	)

	now := s.now()
	tx := &models.Transaction{
		GroupID:     req.GroupID,
		UserID:      creatorID,
		Amount:      req.Amount,
		Description: req.Description,
		PayedTo:     req.PayedTo,
		CreatedAt:   now,
	}

	if req.GroupID != "" {
		if err := ledger.ValidateID("group", req.GroupID); err != nil {
			return nil, err
		}
		splits, err := s.allocate(ctx, req.GroupID, creatorID, req.Amount, now)
		if err != nil {
			s.logger.Error("CreateTransaction split allocation failed", "group_id", req.GroupID, "error", err)
			return nil, err
		}
		tx.Splits = splits
	}

	// Save to storage (generates ID)
	if err := s.store.SaveTransaction(ctx, tx); err != nil {
		s.logger.Error("CreateTransaction failed", "error", err)
		return nil, err
	}

	s.logger.Info("Transaction created", "transaction_id", tx.ID, "splits", len(tx.Splits))
	return tx, nil
}

func (s *TransactionService) allocate(ctx context.Context, groupID, creatorID string, amount int64, now time.Time) ([]models.Split, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, fmt.Errorf("%w: group %s", ledger.ErrNotFound, groupID)
	}

	users, err := s.store.GetUsersByPhones(ctx, group.Members)
	if err != nil {
		return nil, err
	}
	members, err := ledger.ResolveMembers(group.Members, users)
	if err != nil {
		return nil, err
	}
	return ledger.AllocateEven(members, creatorID, amount, now)
}

// Edit applies a partial update to a transaction.
func (s *TransactionService) Edit(ctx context.Context, editorID string, req *EditTransactionRequest) (*models.Transaction, error) {
	s.logger.Info("EditTransaction request received", "user_id", editorID, "transaction_id", req.TransactionID)

	existing, err := s.load(ctx, req.TransactionID)
	if err != nil {
		return nil, err
	}
	if !s.policy(existing, editorID, ledger.Action{Op: ledger.OpEditTransaction}) {
		s.logger.Warn("EditTransaction denied", "user_id", editorID, "transaction_id", existing.ID)
		return nil, fmt.Errorf("%w: user %s may not edit transaction %s", ledger.ErrNotAuthorized, editorID, existing.ID)
	}

	updated := *existing
	if req.Amount != nil {
		updated.Amount = *req.Amount
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}
	if req.PayedTo != nil {
		updated.PayedTo = *req.PayedTo
	}
	if req.GroupID != nil && *req.GroupID != "" {
		groupID := *req.GroupID
		if err := ledger.ValidateID("group", groupID); err != nil {
			return nil, err
		}
		group, err := s.store.GetGroup(ctx, groupID)
		if err != nil {
			return nil, err
		}
		if group == nil {
			return nil, fmt.Errorf("%w: group %s", ledger.ErrNotFound, groupID)
		}
		updated.GroupID = groupID
	}
	if req.Splits != nil {
		splits, err := ledger.ReplacementSplits(existing.Splits, req.Splits)
		if err != nil {
			return nil, err
		}
		updated.Splits = splits
	}

	// A group transaction always carries splits.
	if updated.GroupID != "" && len(updated.Splits) == 0 {
		splits, err := s.allocate(ctx, updated.GroupID, updated.UserID, updated.Amount, s.now())
		if err != nil {
			s.logger.Error("EditTransaction split allocation failed", "group_id", updated.GroupID, "error", err)
			return nil, err
		}
		updated.Splits = splits
	}

	if err := s.store.SaveTransaction(ctx, &updated); err != nil {
		s.logger.Error("EditTransaction failed", "transaction_id", updated.ID, "error", err)
		return nil, err
	}

	return &updated, nil
}

// EditSplit changes the amount and/or settlement status of one split.
// Settling stamps the settlement time; un-settling clears it.
func (s *TransactionService) EditSplit(ctx context.Context, editorID string, req *EditSplitRequest) (*models.Transaction, error) {
	s.logger.Info("EditSplit request received",
		"user_id", editorID,
		"transaction_id", req.TransactionID,
		"split_id", req.SplitID,
	)

	existing, err := s.load(ctx, req.TransactionID)
	if err != nil {
		return nil, err
	}
	if err := ledger.ValidateID("split", req.SplitID); err != nil {
		return nil, err
	}

	action := ledger.Action{
		Op:            ledger.OpEditSplit,
		SplitID:       req.SplitID,
		ChangesAmount: req.Amount != nil,
		ChangesStatus: req.Status != nil,
	}
	if !s.policy(existing, editorID, action) {
		s.logger.Warn("EditSplit denied", "user_id", editorID, "transaction_id", existing.ID)
		return nil, fmt.Errorf("%w: user %s may not edit splits of transaction %s", ledger.ErrNotAuthorized, editorID, existing.ID)
	}

	split, ok := existing.FindSplit(req.SplitID)
	if !ok {
		return nil, fmt.Errorf("%w: split %s in transaction %s", ledger.ErrNotFound, req.SplitID, existing.ID)
	}
	if req.Status != nil && !*req.Status && split.OwedBy == split.PayedBy {
		return nil, fmt.Errorf("%w: the payer's own split is always settled", ledger.ErrValidation)
	}

	now := s.now()
	splits, _ := ledger.ReplaceSplit(existing.Splits, req.SplitID, func(sp models.Split) models.Split {
		if req.Amount != nil {
			sp.Amount = *req.Amount
		}
		if req.Status != nil {
			sp.Settled = *req.Status
			switch {
			case !sp.Settled:
				sp.SettledAt = nil
			case sp.SettledAt == nil:
				settledAt := now
				sp.SettledAt = &settledAt
			}
		}
		return sp
	})

	updated := *existing
	updated.Splits = splits
	if err := s.store.SaveTransaction(ctx, &updated); err != nil {
		s.logger.Error("EditSplit failed", "transaction_id", updated.ID, "error", err)
		return nil, err
	}

	return &updated, nil
}

// Details returns the full view of a transaction with names resolved.
func (s *TransactionService) Details(ctx context.Context, transactionID string) (*models.TransactionDetail, error) {
	tx, err := s.load(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	names := newLookup(s.store, s.logger)

	payerName := unknownName
	if tx.PayedTo.Name != "" {
		payerName = tx.PayedTo.Name
	}
	payerName = names.userName(ctx, tx.UserID, payerName)

	splits := make([]models.SplitDetail, 0, len(tx.Splits))
	for _, sp := range tx.Splits {
		detail := models.SplitDetail{
			SplitID:   sp.ID,
			UserID:    sp.OwedBy,
			UserName:  unknownUserName,
			Amount:    sp.Amount,
			Settled:   sp.Settled,
			SettledAt: sp.SettledAt,
		}
		if u := names.user(ctx, sp.OwedBy); u != nil {
			detail.UserName = u.Name
			detail.PhoneNumber = u.PhoneNumber
		}
		splits = append(splits, detail)
	}
	sort.SliceStable(splits, func(i, j int) bool {
		return splits[i].Amount > splits[j].Amount
	})

	return &models.TransactionDetail{
		ID:          tx.ID,
		Amount:      tx.Amount,
		Description: tx.Description,
		PayedBy: models.PayerInfo{
			ID:          tx.UserID,
			Name:        payerName,
			PhoneNumber: tx.PayedTo.PhoneNumber,
		},
		Date:      tx.CreatedAt,
		GroupName: names.groupName(ctx, tx.GroupID),
		Splits:    splits,
	}, nil
}

// load validates the id and fetches the transaction, mapping absence to ErrNotFound.
func (s *TransactionService) load(ctx context.Context, transactionID string) (*models.Transaction, error) {
	if err := ledger.ValidateID("transaction", transactionID); err != nil {
		return nil, err
	}
	tx, err := s.store.GetTransaction(ctx, transactionID)
	if err != nil {
		s.logger.Error("failed to get transaction", "transaction_id", transactionID, "error", err)
		return nil, err
	}
	if tx == nil {
		return nil, fmt.Errorf("%w: transaction %s", ledger.ErrNotFound, transactionID)
	}
	return tx, nil
}

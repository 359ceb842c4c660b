package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/splitpal/splitpal/internal/models"
	"github.com/splitpal/splitpal/internal/storage"
)

const transactionColumns = `t.id, t.group_id, t.user_id, t.amount, t.description,
	t.payed_to_name, t.payed_to_id, t.payed_to_phone, t.created_at`

const newestFirst = ` ORDER BY t.created_at DESC, t.id DESC`

// owesSplit matches transactions with a split owed by the bound user.
const owesSplit = `EXISTS (SELECT 1 FROM splits s WHERE s.transaction_id = t.id AND s.owed_by = ?)`

// SaveTransaction upserts a transaction and replaces its split list atomically.
func (s *SQLiteStore) SaveTransaction(ctx context.Context, txn *models.Transaction) error {
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now().UTC()
	}
	for i := range txn.Splits {
		if txn.Splits[i].ID == "" {
			txn.Splits[i].ID = uuid.New().String()
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO transactions (id, group_id, user_id, amount, description, payed_to_name, payed_to_id, payed_to_phone, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		     group_id = excluded.group_id,
		     user_id = excluded.user_id,
		     amount = excluded.amount,
		     description = excluded.description,
		     payed_to_name = excluded.payed_to_name,
		     payed_to_id = excluded.payed_to_id,
		     payed_to_phone = excluded.payed_to_phone`,
		txn.ID,
		nullString(txn.GroupID),
		txn.UserID,
		txn.Amount,
		nullString(txn.Description),
		txn.PayedTo.Name,
		nullString(txn.PayedTo.UserID),
		txn.PayedTo.PhoneNumber,
		toNanos(txn.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM splits WHERE transaction_id = ?`, txn.ID); err != nil {
		return fmt.Errorf("failed to clear splits: %w", err)
	}

	for i, split := range txn.Splits {
		var settledAt interface{}
		if split.SettledAt != nil {
			settledAt = toNanos(*split.SettledAt)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO splits (id, transaction_id, position, amount, payed_by, owed_by, status, settled_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			split.ID, txn.ID, i, split.Amount, split.PayedBy, split.OwedBy, split.Settled, settledAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetTransaction retrieves a transaction by ID, including its splits.
func (s *SQLiteStore) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	txns, err := s.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions t WHERE t.id = ?`,
		id,
	)
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return nil, nil // Transaction not found
	}
	return txns[0], nil
}

// ListDirectTransactions retrieves non-group transactions between two users.
func (s *SQLiteStore) ListDirectTransactions(ctx context.Context, userA, userB string) ([]*models.Transaction, error) {
	return s.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions t
		 WHERE t.group_id IS NULL
		   AND ((t.user_id = ? AND t.payed_to_id = ?) OR (t.user_id = ? AND t.payed_to_id = ?))`+newestFirst,
		userA, userB, userB, userA,
	)
}

// ListSharedTransactions retrieves transactions one user created and the other owes a split in.
func (s *SQLiteStore) ListSharedTransactions(ctx context.Context, userA, userB string) ([]*models.Transaction, error) {
	return s.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions t
		 WHERE (t.user_id = ? AND `+owesSplit+`) OR (t.user_id = ? AND `+owesSplit+`)`+newestFirst,
		userA, userB, userB, userA,
	)
}

// timelineFilter is the four-way predicate between two users: creator and
// nominal counterparty or creator and split participant, in either direction.
const timelineFilter = `
	(t.user_id = ? AND t.payed_to_id = ?) OR (t.user_id = ? AND t.payed_to_id = ?)
	OR (t.user_id = ? AND ` + owesSplit + `) OR (t.user_id = ? AND ` + owesSplit + `)`

// ListTimelineTransactions retrieves one page of the transactions between two users.
func (s *SQLiteStore) ListTimelineTransactions(ctx context.Context, userA, userB string, req storage.PageRequest) (*storage.Page[*models.Transaction], error) {
	args := []interface{}{userA, userB, userB, userA, userA, userB, userB, userA}
	return s.pageTransactions(ctx, timelineFilter, args, req)
}

// ListGroupTransactions retrieves one page of a group's transactions.
func (s *SQLiteStore) ListGroupTransactions(ctx context.Context, groupID string, req storage.PageRequest) (*storage.Page[*models.Transaction], error) {
	return s.pageTransactions(ctx, `t.group_id = ?`, []interface{}{groupID}, req)
}

// ListTransactionsOwedBy retrieves transactions where the user still owes a split.
func (s *SQLiteStore) ListTransactionsOwedBy(ctx context.Context, userID string) ([]*models.Transaction, error) {
	return s.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions t
		 WHERE EXISTS (SELECT 1 FROM splits s WHERE s.transaction_id = t.id AND s.owed_by = ? AND s.status = 0)`+newestFirst,
		userID,
	)
}

// ListTransactionsInvolving retrieves transactions where the user is creator,
// nominal counterparty or split participant.
func (s *SQLiteStore) ListTransactionsInvolving(ctx context.Context, userID string) ([]*models.Transaction, error) {
	return s.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions t
		 WHERE t.user_id = ? OR t.payed_to_id = ? OR `+owesSplit+newestFirst,
		userID, userID, userID,
	)
}

func (s *SQLiteStore) pageTransactions(ctx context.Context, filter string, args []interface{}, req storage.PageRequest) (*storage.Page[*models.Transaction], error) {
	var total int64
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions t WHERE `+filter,
		args...,
	).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	pageArgs := append(append([]interface{}{}, args...), req.Size, req.Offset())
	txns, err := s.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions t WHERE `+filter+newestFirst+` LIMIT ? OFFSET ?`,
		pageArgs...,
	)
	if err != nil {
		return nil, err
	}

	return storage.NewPage(txns, req, total), nil
}

// queryTransactions runs query and loads the splits of every returned transaction.
func (s *SQLiteStore) queryTransactions(ctx context.Context, query string, args ...interface{}) ([]*models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txns []*models.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	rows.Close()

	if err := s.loadSplits(ctx, txns); err != nil {
		return nil, err
	}
	return txns, nil
}

// splitBatchSize bounds the IN list of one split query, well under SQLite's
// host parameter limit.
var splitBatchSize = 500

// loadSplits fills the split lists of txns in stored order.
func (s *SQLiteStore) loadSplits(ctx context.Context, txns []*models.Transaction) error {
	byID := make(map[string]*models.Transaction, len(txns))
	ids := make([]string, 0, len(txns))
	for _, t := range txns {
		byID[t.ID] = t
		ids = append(ids, t.ID)
	}

	for len(ids) > 0 {
		n := min(len(ids), splitBatchSize)
		if err := s.loadSplitBatch(ctx, byID, ids[:n]); err != nil {
			return err
		}
		ids = ids[n:]
	}
	return nil
}

func (s *SQLiteStore) loadSplitBatch(ctx context.Context, byID map[string]*models.Transaction, ids []string) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT transaction_id, id, amount, payed_by, owed_by, status, settled_at
		 FROM splits WHERE transaction_id IN (`+placeholders(len(ids))+`)
		 ORDER BY transaction_id, position`,
		stringArgs(ids)...,
	)
	if err != nil {
		return fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var transactionID string
		var split models.Split
		var settledAt sql.NullInt64
		if err := rows.Scan(&transactionID, &split.ID, &split.Amount, &split.PayedBy, &split.OwedBy, &split.Settled, &settledAt); err != nil {
			return fmt.Errorf("failed to scan split: %w", err)
		}
		if settledAt.Valid {
			t := fromNanos(settledAt.Int64)
			split.SettledAt = &t
		}
		txn := byID[transactionID]
		txn.Splits = append(txn.Splits, split)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate splits: %w", err)
	}
	return nil
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	txn := &models.Transaction{}
	var groupID, description, payedToID sql.NullString
	var createdAt int64

	if err := row.Scan(
		&txn.ID,
		&groupID,
		&txn.UserID,
		&txn.Amount,
		&description,
		&txn.PayedTo.Name,
		&payedToID,
		&txn.PayedTo.PhoneNumber,
		&createdAt,
	); err != nil {
		return nil, err
	}

	txn.GroupID = groupID.String
	txn.Description = description.String
	txn.PayedTo.UserID = payedToID.String
	txn.CreatedAt = fromNanos(createdAt)
	return txn, nil
}

// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"math"

	"github.com/splitpal/splitpal/internal/models"
)

// Store defines the record store used by the service layer.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// Lookups by id or unique field return (nil, nil) when the record is absent.
// Any other error is a storage failure.
type Store interface {
	UserStore
	GroupStore
	TransactionStore

	// Close releases any resources held by the store.
	Close() error
}

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser inserts a new user. user.ID is generated when empty.
	CreateUser(ctx context.Context, user *models.User) error

	// UpdateUser overwrites an existing user.
	UpdateUser(ctx context.Context, user *models.User) error

	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByPhone(ctx context.Context, phoneNumber string) (*models.User, error)

	// GetUsersByPhones returns the users whose phone number is in phoneNumbers,
	// in no particular order. Unknown numbers are skipped.
	GetUsersByPhones(ctx context.Context, phoneNumbers []string) ([]*models.User, error)
}

// GroupStore persists groups and their member lists.
type GroupStore interface {
	// CreateGroup inserts a new group. group.ID and CreatedAt are filled when unset.
	CreateGroup(ctx context.Context, group *models.Group) error

	// UpdateGroup overwrites name, description and the member list of a group.
	UpdateGroup(ctx context.Context, group *models.Group) error

	GetGroup(ctx context.Context, id string) (*models.Group, error)

	// ListGroupsByMember returns groups whose member list contains phoneNumber,
	// newest first.
	ListGroupsByMember(ctx context.Context, phoneNumber string) ([]*models.Group, error)

	// ListGroupsByMemberPage is ListGroupsByMember with pagination.
	ListGroupsByMemberPage(ctx context.Context, phoneNumber string, req PageRequest) (*Page[*models.Group], error)
}

// TransactionStore persists transactions together with their splits.
// Every list is ordered by creation time, newest first.
type TransactionStore interface {
	// SaveTransaction upserts tx and replaces its split list.
	// tx.ID and CreatedAt are filled when unset.
	SaveTransaction(ctx context.Context, tx *models.Transaction) error

	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)

	// ListDirectTransactions returns non-group transactions where one user
	// created and the other is the nominal counterparty, in either direction.
	ListDirectTransactions(ctx context.Context, userA, userB string) ([]*models.Transaction, error)

	// ListSharedTransactions returns transactions where one user created and
	// the other owes a split, in either direction.
	ListSharedTransactions(ctx context.Context, userA, userB string) ([]*models.Transaction, error)

	// ListTimelineTransactions returns a page of transactions between two users:
	// creator and nominal counterparty, or creator and split participant, in
	// either direction.
	ListTimelineTransactions(ctx context.Context, userA, userB string, req PageRequest) (*Page[*models.Transaction], error)

	// ListGroupTransactions returns a page of the transactions of one group.
	ListGroupTransactions(ctx context.Context, groupID string, req PageRequest) (*Page[*models.Transaction], error)

	// ListTransactionsOwedBy returns transactions with an unsettled split owed by userID.
	ListTransactionsOwedBy(ctx context.Context, userID string) ([]*models.Transaction, error)

	// ListTransactionsInvolving returns transactions where userID is the
	// creator, the nominal counterparty or a split participant.
	ListTransactionsInvolving(ctx context.Context, userID string) ([]*models.Transaction, error)
}

// PageRequest selects a zero-based page of the given size.
type PageRequest struct {
	Page int
	Size int
}

// Offset is the number of records before the requested page. It saturates
// at math.MaxInt so a huge page index lands past the last row.
func (r PageRequest) Offset() int {
	if r.Page <= 0 || r.Size <= 0 {
		return 0
	}
	if r.Page > math.MaxInt/r.Size {
		return math.MaxInt
	}
	return r.Page * r.Size
}

// Page is one page of results plus totals across all pages.
type Page[T any] struct {
	Items      []T
	PageIndex  int
	TotalPages int
	TotalItems int64
}

// NewPage wraps one page of items with totals for req.
func NewPage[T any](items []T, req PageRequest, total int64) *Page[T] {
	return &Page[T]{
		Items:      items,
		PageIndex:  req.Page,
		TotalPages: TotalPages(total, req.Size),
		TotalItems: total,
	}
}

// TotalPages is the number of pages of size needed for total items.
func TotalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

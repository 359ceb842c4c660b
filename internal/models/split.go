package models

import "time"

// Transaction represents a single recorded expense.
//
// A group transaction carries one Split per resolved group member. A direct
// transaction has no splits and its only counterparty is PayedTo.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string `json:"id"`

	// GroupID is empty for direct (non-group) transactions.
	GroupID string `json:"group_id,omitempty"`

	// UserID is the creator, who is also the payer.
	UserID string `json:"user_id"`

	// Amount is the total in the smallest currency unit.
	Amount int64 `json:"amount"`

	Description string `json:"description,omitempty"`

	// PayedTo is the nominal counterparty.
	PayedTo PayedTo `json:"payed_to"`

	// Splits are owned by the transaction and saved with it.
	Splits []Split `json:"splits,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// PayedTo describes who the money went to. UserID is set only when the
// counterparty has an account.
type PayedTo struct {
	Name        string `json:"name"`
	UserID      string `json:"user_id,omitempty"`
	PhoneNumber string `json:"phone_number"`
}

// Split is the portion of a transaction one member owes the payer.
type Split struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`

	// PayedBy is the transaction creator.
	PayedBy string `json:"payed_by"`

	// OwedBy is the member who owes this portion.
	OwedBy string `json:"owed_by"`

	// Settled is true once the portion has been paid back.
	// A split owed by its own payer is always settled.
	Settled bool `json:"status"`

	SettledAt *time.Time `json:"settled_date,omitempty"`
}

// FindSplit returns the split with the given id.
func (t *Transaction) FindSplit(splitID string) (Split, bool) {
	for _, s := range t.Splits {
		if s.ID == splitID {
			return s, true
		}
	}
	return Split{}, false
}

// SplitOwedBy returns the first split owed by userID.
func (t *Transaction) SplitOwedBy(userID string) (Split, bool) {
	for _, s := range t.Splits {
		if s.OwedBy == userID {
			return s, true
		}
	}
	return Split{}, false
}

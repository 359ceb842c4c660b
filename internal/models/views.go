package models

import "time"

// TimelineEntry is a transaction seen from one viewer's side.
type TimelineEntry struct {
	ID          string `json:"id"`
	TotalAmount int64  `json:"total_amount"`

	// OwedAmount is the full amount when the viewer paid, otherwise the
	// viewer's split amount (0 when the viewer has no split).
	OwedAmount int64 `json:"owed_amount"`

	// Settled is always true for the payer.
	Settled bool `json:"status"`

	GroupID   string `json:"group_id,omitempty"`
	GroupName string `json:"group_name,omitempty"`

	PayedBy          string `json:"payed_by"`
	PayerPhoneNumber string `json:"payer_phone_number,omitempty"`
	PayerName        string `json:"payer_name,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// TimelinePage is one page of a timeline.
type TimelinePage struct {
	Content     []TimelineEntry `json:"content"`
	CurrentPage int             `json:"current_page"`
	TotalPages  int             `json:"total_pages"`
	TotalItems  int64           `json:"total_items"`
	HasMore     bool            `json:"has_more"`
}

// GroupPage is one page of a user's groups.
type GroupPage struct {
	Content     []*Group `json:"content"`
	CurrentPage int      `json:"current_page"`
	TotalPages  int      `json:"total_pages"`
	TotalItems  int64    `json:"total_items"`
	HasMore     bool     `json:"has_more"`
}

// TransactionDetail is the full view of a single transaction.
type TransactionDetail struct {
	ID          string        `json:"id"`
	Amount      int64         `json:"amount"`
	Description string        `json:"description,omitempty"`
	PayedBy     PayerInfo     `json:"payed_by"`
	Date        time.Time     `json:"date"`
	GroupName   string        `json:"group_name,omitempty"`
	Splits      []SplitDetail `json:"splits"`
}

// PayerInfo identifies the payer of a transaction.
type PayerInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// SplitDetail is a split with the owing member's name resolved.
type SplitDetail struct {
	SplitID     string     `json:"split_id"`
	UserID      string     `json:"user_id"`
	UserName    string     `json:"user_name"`
	PhoneNumber string     `json:"phone_number,omitempty"`
	Amount      int64      `json:"amount"`
	Settled     bool       `json:"status"`
	SettledAt   *time.Time `json:"settled_date,omitempty"`
}

// Direction tells whether money left or reached the viewer.
type Direction string

const (
	Debited  Direction = "DEBITED"
	Credited Direction = "CREDITED"
)

// Dashboard is the per-user home screen summary.
type Dashboard struct {
	FlatCards          []FlatCard          `json:"flat_cards"`
	Groups             []GroupSummary      `json:"groups"`
	Individuals        []Individual        `json:"individuals"`
	RecentTransactions []RecentTransaction `json:"recent_transactions"`
}

// FlatCard is an outstanding debt of the viewer.
type FlatCard struct {
	TransactionID string `json:"transaction_id"`
	GroupName     string `json:"group_name,omitempty"`
	InitiatorName string `json:"initiator_name"`
	Amount        int64  `json:"amount"`
}

// Individual is a frequent counterparty of the viewer.
type Individual struct {
	UserID string `json:"target_user"`
	Name   string `json:"target_user_name"`
}

// RecentTransaction is one line of the viewer's recent activity.
type RecentTransaction struct {
	TransactionID string    `json:"transaction_id"`
	PayedToName   string    `json:"payed_to_name"`
	GroupName     string    `json:"group_name,omitempty"`
	Amount        int64     `json:"amount"`
	Status        Direction `json:"status"`
}

package ledger

import "github.com/splitpal/splitpal/internal/models"

// Operation names an edit that needs authorization.
type Operation int

const (
	OpEditTransaction Operation = iota
	OpEditSplit
)

// Action is what the actor is trying to do to a transaction.
type Action struct {
	Op Operation

	// SplitID and the Changes* flags are set for OpEditSplit.
	SplitID       string
	ChangesAmount bool
	ChangesStatus bool
}

// Policy decides whether actorID may perform action on tx.
type Policy func(tx *models.Transaction, actorID string, action Action) bool

// CreatorOnly allows every edit to the transaction creator and nothing to anyone else,
// including members who own a split.
func CreatorOnly(tx *models.Transaction, actorID string, _ Action) bool {
	return tx.UserID == actorID
}

// CreatorOrSplitOwner is CreatorOnly, relaxed so that a member may change the
// settlement status of their own split. Amounts stay creator-only.
func CreatorOrSplitOwner(tx *models.Transaction, actorID string, action Action) bool {
	if CreatorOnly(tx, actorID, action) {
		return true
	}
	if action.Op != OpEditSplit || action.ChangesAmount {
		return false
	}
	split, ok := tx.FindSplit(action.SplitID)
	return ok && split.OwedBy == actorID
}

package ledger

import (
	"sort"

	"github.com/splitpal/splitpal/internal/models"
)

// View is the viewer-relative state of a transaction.
type View struct {
	Settled    bool
	OwedAmount int64
}

// ViewFor derives the settlement flag and owed amount of tx for viewer.
//
// The payer is always settled and is shown the full amount. Anyone else sees
// their own split's status and amount, or (false, 0) without a split.
func ViewFor(tx *models.Transaction, viewerID string) View {
	if tx.UserID == viewerID {
		return View{Settled: true, OwedAmount: tx.Amount}
	}
	split, ok := tx.SplitOwedBy(viewerID)
	if !ok {
		return View{}
	}
	return View{Settled: split.Settled, OwedAmount: split.Amount}
}

// MergeNewestFirst unions the given transaction lists, keeps the first
// occurrence of each id and orders the result by creation time, newest first.
func MergeNewestFirst(sources ...[]*models.Transaction) []*models.Transaction {
	seen := make(map[string]bool)
	var merged []*models.Transaction
	for _, src := range sources {
		for _, tx := range src {
			if seen[tx.ID] {
				continue
			}
			seen[tx.ID] = true
			merged = append(merged, tx)
		}
	}
	SortNewestFirst(merged)
	return merged
}

// SortNewestFirst orders txs by creation time descending. Equal timestamps
// keep their relative order.
func SortNewestFirst(txs []*models.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].CreatedAt.After(txs[j].CreatedAt)
	})
}

// HasMore reports whether pages follow currentPage.
func HasMore(currentPage, totalPages int) bool {
	return currentPage < totalPages-1
}

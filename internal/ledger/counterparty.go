package ledger

import (
	"sort"

	"github.com/splitpal/splitpal/internal/models"
)

// Counterparty returns the user on the other side of tx from viewer's point of view:
//   - viewer created tx: the nominal counterparty (PayedTo.UserID, may be empty)
//   - viewer is the nominal counterparty: the creator
//   - otherwise (viewer is a split participant): the creator
//
// An empty result means there is no account on the other side.
func Counterparty(tx *models.Transaction, viewerID string) string {
	switch {
	case tx.UserID == viewerID:
		return tx.PayedTo.UserID
	case tx.PayedTo.UserID == viewerID:
		return tx.UserID
	default:
		return tx.UserID
	}
}

// Classify reports whether tx debited or credited viewer. The viewer is
// credited only when named as the nominal counterparty of someone else's
// transaction; paying or owing a split is a debit.
func Classify(tx *models.Transaction, viewerID string) models.Direction {
	if tx.UserID != viewerID && tx.PayedTo.UserID == viewerID {
		return models.Credited
	}
	return models.Debited
}

// CounterpartyCount is how often a counterparty appeared.
type CounterpartyCount struct {
	UserID string
	Count  int
}

// TopCounterparties counts the counterparty of each transaction and returns
// the limit most frequent ones, highest count first. Self and empty
// counterparties are skipped. Ties keep first-seen order, so the result is
// deterministic for a given transaction order.
func TopCounterparties(txs []*models.Transaction, viewerID string, limit int) []CounterpartyCount {
	var counts []CounterpartyCount
	index := make(map[string]int)

	for _, tx := range txs {
		other := Counterparty(tx, viewerID)
		if other == "" || other == viewerID {
			continue
		}
		if i, ok := index[other]; ok {
			counts[i].Count++
			continue
		}
		index[other] = len(counts)
		counts = append(counts, CounterpartyCount{UserID: other, Count: 1})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	if limit >= 0 && len(counts) > limit {
		counts = counts[:limit]
	}
	return counts
}

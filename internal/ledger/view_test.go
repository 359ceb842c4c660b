package ledger

import (
	"testing"
	"time"

	"github.com/splitpal/splitpal/internal/models"
)

func groupTx() *models.Transaction {
	return &models.Transaction{
		ID:     "tx1",
		UserID: "alice",
		Amount: 300,
		Splits: []models.Split{
			{ID: "s1", Amount: 100, PayedBy: "alice", OwedBy: "alice", Settled: true},
			{ID: "s2", Amount: 100, PayedBy: "alice", OwedBy: "bob", Settled: false},
			{ID: "s3", Amount: 100, PayedBy: "alice", OwedBy: "charlie", Settled: true},
		},
	}
}

func TestViewFor(t *testing.T) {
	tests := []struct {
		name   string
		tx     *models.Transaction
		viewer string
		want   View
	}{
		{"payer sees full amount settled", groupTx(), "alice", View{Settled: true, OwedAmount: 300}},
		{"unsettled member", groupTx(), "bob", View{Settled: false, OwedAmount: 100}},
		{"settled member", groupTx(), "charlie", View{Settled: true, OwedAmount: 100}},
		{"outsider sees nothing owed", groupTx(), "dave", View{Settled: false, OwedAmount: 0}},
		{
			name: "payer is settled even with an unsettled own split",
			tx: &models.Transaction{UserID: "alice", Amount: 50, Splits: []models.Split{
				{ID: "s1", Amount: 50, OwedBy: "alice", Settled: false},
			}},
			viewer: "alice",
			want:   View{Settled: true, OwedAmount: 50},
		},
		{
			name:   "direct transaction counterparty",
			tx:     &models.Transaction{UserID: "alice", Amount: 70, PayedTo: models.PayedTo{UserID: "bob"}},
			viewer: "bob",
			want:   View{Settled: false, OwedAmount: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ViewFor(tt.tx, tt.viewer); got != tt.want {
				t.Errorf("ViewFor() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMergeNewestFirst(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	t1 := &models.Transaction{ID: "t1", CreatedAt: base}
	t2 := &models.Transaction{ID: "t2", CreatedAt: base.Add(time.Hour)}
	t3 := &models.Transaction{ID: "t3", CreatedAt: base.Add(2 * time.Hour)}
	t2dup := &models.Transaction{ID: "t2", CreatedAt: base.Add(time.Hour), Amount: 999}

	merged := MergeNewestFirst([]*models.Transaction{t1, t2}, []*models.Transaction{t2dup, t3})

	wantIDs := []string{"t3", "t2", "t1"}
	if len(merged) != len(wantIDs) {
		t.Fatalf("got %d transactions, want %d", len(merged), len(wantIDs))
	}
	for i, id := range wantIDs {
		if merged[i].ID != id {
			t.Errorf("position %d = %s, want %s", i, merged[i].ID, id)
		}
	}
	if merged[1] != t2 {
		t.Error("duplicate should keep the first occurrence")
	}
}

func TestHasMore(t *testing.T) {
	tests := []struct {
		page       int
		totalPages int
		want       bool
	}{
		{page: 0, totalPages: 0, want: false},
		{page: 0, totalPages: 1, want: false},
		{page: 0, totalPages: 2, want: true},
		{page: 1, totalPages: 2, want: false},
		{page: 3, totalPages: 5, want: true},
		{page: 9, totalPages: 5, want: false},
	}

	for _, tt := range tests {
		if got := HasMore(tt.page, tt.totalPages); got != tt.want {
			t.Errorf("HasMore(%d, %d) = %v, want %v", tt.page, tt.totalPages, got, tt.want)
		}
	}
}

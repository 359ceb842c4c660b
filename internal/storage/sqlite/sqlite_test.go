package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/splitpal/splitpal/internal/models"
	"github.com/splitpal/splitpal/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "splitpal-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateUser generates ID and timestamps", func(t *testing.T) {
		user := models.NewUser("Alice", "+1-5550000001", "hash")
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if user.ID == "" {
			t.Error("Expected user ID to be generated")
		}
		if user.CreatedAt.IsZero() {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("GetUserByPhone round trip", func(t *testing.T) {
		got, err := store.GetUserByPhone(ctx, "+1-5550000001")
		if err != nil {
			t.Fatalf("GetUserByPhone failed: %v", err)
		}
		if got == nil {
			t.Fatal("Expected user, got nil")
		}
		if got.Name != "Alice" || got.GroupCredits != models.DefaultGroupCredits {
			t.Errorf("Unexpected user: %+v", got)
		}

		byID, err := store.GetUserByID(ctx, got.ID)
		if err != nil || byID == nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if byID.PhoneNumber != got.PhoneNumber {
			t.Errorf("Phone mismatch: got %s, want %s", byID.PhoneNumber, got.PhoneNumber)
		}
	})

	t.Run("duplicate phone is rejected", func(t *testing.T) {
		dup := models.NewUser("Other", "+1-5550000001", "hash")
		if err := store.CreateUser(ctx, dup); err == nil {
			t.Error("Expected error for duplicate phone number, got nil")
		}
	})

	t.Run("UpdateUser persists credits and refresh hash", func(t *testing.T) {
		user, _ := store.GetUserByPhone(ctx, "+1-5550000001")
		user.GroupCredits = 1
		user.RefreshTokenHash = "abc"
		if err := store.UpdateUser(ctx, user); err != nil {
			t.Fatalf("UpdateUser failed: %v", err)
		}

		got, _ := store.GetUserByID(ctx, user.ID)
		if got.GroupCredits != 1 || got.RefreshTokenHash != "abc" {
			t.Errorf("Update not persisted: %+v", got)
		}
	})

	t.Run("missing user returns nil", func(t *testing.T) {
		got, err := store.GetUserByID(ctx, "nonexistent-id")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if got != nil {
			t.Errorf("Expected nil, got %+v", got)
		}
	})

	t.Run("GetUsersByPhones skips unknown numbers", func(t *testing.T) {
		store.CreateUser(ctx, models.NewUser("Bob", "+1-5550000002", "hash"))

		users, err := store.GetUsersByPhones(ctx, []string{"+1-5550000001", "+1-5550000002", "+1-5559999999"})
		if err != nil {
			t.Fatalf("GetUsersByPhones failed: %v", err)
		}
		if len(users) != 2 {
			t.Errorf("Expected 2 users, got %d", len(users))
		}

		users, err = store.GetUsersByPhones(ctx, nil)
		if err != nil || len(users) != 0 {
			t.Errorf("Expected no users for empty input, got %d (err %v)", len(users), err)
		}
	})
}

func TestGroups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	members := []string{"+1-5550000003", "+1-5550000001", "+1-5550000002"}
	for i := 0; i < 3; i++ {
		g := &models.Group{
			Name:      "Trip",
			AdminID:   "admin",
			Members:   members,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := store.CreateGroup(ctx, g); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
	}

	groups, err := store.ListGroupsByMember(ctx, "+1-5550000001")
	if err != nil {
		t.Fatalf("ListGroupsByMember failed: %v", err)
	}
	if len(groups) != 3 {
		t.Fatalf("Expected 3 groups, got %d", len(groups))
	}
	if !groups[0].CreatedAt.After(groups[1].CreatedAt) {
		t.Error("Expected newest group first")
	}
	for i, phone := range members {
		if groups[0].Members[i] != phone {
			t.Errorf("Member %d = %s, want %s", i, groups[0].Members[i], phone)
		}
	}

	t.Run("UpdateGroup replaces member list", func(t *testing.T) {
		g := groups[0]
		g.Members = append(g.Members, "+1-5550000004")
		if err := store.UpdateGroup(ctx, g); err != nil {
			t.Fatalf("UpdateGroup failed: %v", err)
		}
		got, _ := store.GetGroup(ctx, g.ID)
		if len(got.Members) != 4 || got.Members[3] != "+1-5550000004" {
			t.Errorf("Unexpected members: %v", got.Members)
		}
	})

	t.Run("paged listing", func(t *testing.T) {
		tests := []struct {
			req       storage.PageRequest
			wantItems int
		}{
			{storage.PageRequest{Page: 0, Size: 2}, 2},
			{storage.PageRequest{Page: 1, Size: 2}, 1},
			{storage.PageRequest{Page: 5, Size: 2}, 0},
		}
		for _, tt := range tests {
			page, err := store.ListGroupsByMemberPage(ctx, "+1-5550000001", tt.req)
			if err != nil {
				t.Fatalf("ListGroupsByMemberPage failed: %v", err)
			}
			if len(page.Items) != tt.wantItems {
				t.Errorf("page %d: got %d items, want %d", tt.req.Page, len(page.Items), tt.wantItems)
			}
			if page.TotalItems != 3 || page.TotalPages != 2 {
				t.Errorf("page %d: totals = (%d, %d), want (3, 2)", tt.req.Page, page.TotalItems, page.TotalPages)
			}
		}
	})

	t.Run("missing group returns nil", func(t *testing.T) {
		got, err := store.GetGroup(ctx, "nonexistent-id")
		if err != nil || got != nil {
			t.Errorf("Expected (nil, nil), got (%v, %v)", got, err)
		}
	})
}

func TestTransactions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	settled := base.Add(time.Minute)

	group := &models.Transaction{
		GroupID: "g1",
		UserID:  "alice",
		Amount:  300,
		PayedTo: models.PayedTo{Name: "Dinner Place", PhoneNumber: "+1-5550000009"},
		Splits: []models.Split{
			{Amount: 100, PayedBy: "alice", OwedBy: "alice", Settled: true, SettledAt: &settled},
			{Amount: 100, PayedBy: "alice", OwedBy: "bob"},
			{Amount: 100, PayedBy: "alice", OwedBy: "charlie"},
		},
		CreatedAt: base,
	}
	direct := &models.Transaction{
		UserID:    "bob",
		Amount:    50,
		PayedTo:   models.PayedTo{Name: "Alice", UserID: "alice", PhoneNumber: "+1-5550000001"},
		CreatedAt: base.Add(time.Hour),
	}
	unrelated := &models.Transaction{
		UserID:    "charlie",
		Amount:    10,
		PayedTo:   models.PayedTo{Name: "Dave", UserID: "dave", PhoneNumber: "+1-5550000005"},
		CreatedAt: base.Add(2 * time.Hour),
	}
	for _, txn := range []*models.Transaction{group, direct, unrelated} {
		if err := store.SaveTransaction(ctx, txn); err != nil {
			t.Fatalf("SaveTransaction failed: %v", err)
		}
	}

	t.Run("GetTransaction returns splits in order", func(t *testing.T) {
		got, err := store.GetTransaction(ctx, group.ID)
		if err != nil || got == nil {
			t.Fatalf("GetTransaction failed: %v", err)
		}
		if len(got.Splits) != 3 {
			t.Fatalf("Expected 3 splits, got %d", len(got.Splits))
		}
		if got.Splits[1].OwedBy != "bob" || got.Splits[1].Settled {
			t.Errorf("Unexpected split: %+v", got.Splits[1])
		}
		if got.Splits[0].SettledAt == nil || !got.Splits[0].SettledAt.Equal(settled) {
			t.Errorf("SettledAt mismatch: got %v, want %v", got.Splits[0].SettledAt, settled)
		}
		if got.GroupID != "g1" || !got.CreatedAt.Equal(base) {
			t.Errorf("Unexpected transaction: %+v", got)
		}
	})

	t.Run("SaveTransaction replaces splits", func(t *testing.T) {
		group.Splits[1].Settled = true
		group.Splits[1].SettledAt = &settled
		if err := store.SaveTransaction(ctx, group); err != nil {
			t.Fatalf("SaveTransaction failed: %v", err)
		}
		got, _ := store.GetTransaction(ctx, group.ID)
		if !got.Splits[1].Settled || len(got.Splits) != 3 {
			t.Errorf("Split update not persisted: %+v", got.Splits)
		}
		group.Splits[1].Settled = false
		group.Splits[1].SettledAt = nil
		store.SaveTransaction(ctx, group)
	})

	t.Run("missing transaction returns nil", func(t *testing.T) {
		got, err := store.GetTransaction(ctx, "nonexistent-id")
		if err != nil || got != nil {
			t.Errorf("Expected (nil, nil), got (%v, %v)", got, err)
		}
	})

	tests := []struct {
		name    string
		list    func() ([]*models.Transaction, error)
		wantIDs []string
	}{
		{
			name:    "direct between alice and bob",
			list:    func() ([]*models.Transaction, error) { return store.ListDirectTransactions(ctx, "alice", "bob") },
			wantIDs: []string{direct.ID},
		},
		{
			name:    "shared between alice and bob",
			list:    func() ([]*models.Transaction, error) { return store.ListSharedTransactions(ctx, "alice", "bob") },
			wantIDs: []string{group.ID},
		},
		{
			name:    "owed by bob",
			list:    func() ([]*models.Transaction, error) { return store.ListTransactionsOwedBy(ctx, "bob") },
			wantIDs: []string{group.ID},
		},
		{
			name:    "owed by alice excludes settled own split",
			list:    func() ([]*models.Transaction, error) { return store.ListTransactionsOwedBy(ctx, "alice") },
			wantIDs: nil,
		},
		{
			name:    "involving alice",
			list:    func() ([]*models.Transaction, error) { return store.ListTransactionsInvolving(ctx, "alice") },
			wantIDs: []string{direct.ID, group.ID},
		},
		{
			name:    "involving dave",
			list:    func() ([]*models.Transaction, error) { return store.ListTransactionsInvolving(ctx, "dave") },
			wantIDs: []string{unrelated.ID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.list()
			if err != nil {
				t.Fatalf("list failed: %v", err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d transactions, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("position %d = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}

	t.Run("timeline page between alice and bob", func(t *testing.T) {
		page, err := store.ListTimelineTransactions(ctx, "alice", "bob", storage.PageRequest{Page: 0, Size: 1})
		if err != nil {
			t.Fatalf("ListTimelineTransactions failed: %v", err)
		}
		if page.TotalItems != 2 || page.TotalPages != 2 {
			t.Errorf("totals = (%d, %d), want (2, 2)", page.TotalItems, page.TotalPages)
		}
		if len(page.Items) != 1 || page.Items[0].ID != direct.ID {
			t.Errorf("Expected newest transaction first, got %+v", page.Items)
		}
	})

	t.Run("group page", func(t *testing.T) {
		page, err := store.ListGroupTransactions(ctx, "g1", storage.PageRequest{Page: 0, Size: 10})
		if err != nil {
			t.Fatalf("ListGroupTransactions failed: %v", err)
		}
		if len(page.Items) != 1 || len(page.Items[0].Splits) != 3 {
			t.Errorf("Unexpected group page: %+v", page.Items)
		}
	})
}

func TestLoadSplitsInBatches(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	saved := splitBatchSize
	splitBatchSize = 2
	t.Cleanup(func() { splitBatchSize = saved })

	const count = 5
	for i := 0; i < count; i++ {
		txn := &models.Transaction{
			GroupID: "g1",
			UserID:  "alice",
			Amount:  int64(100 * (i + 1)),
			PayedTo: models.PayedTo{Name: "Shop"},
			Splits: []models.Split{
				{Amount: int64(50 * (i + 1)), PayedBy: "alice", OwedBy: "alice", Settled: true},
				{Amount: int64(50 * (i + 1)), PayedBy: "alice", OwedBy: "bob"},
			},
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.SaveTransaction(ctx, txn); err != nil {
			t.Fatalf("SaveTransaction failed: %v", err)
		}
	}

	got, err := store.ListTransactionsInvolving(ctx, "alice")
	if err != nil {
		t.Fatalf("ListTransactionsInvolving failed: %v", err)
	}
	if len(got) != count {
		t.Fatalf("expected %d transactions, got %d", count, len(got))
	}
	for i, txn := range got {
		if len(txn.Splits) != 2 {
			t.Fatalf("transaction %d has %d splits, want 2", i, len(txn.Splits))
		}
		if txn.Splits[0].OwedBy != "alice" || txn.Splits[1].OwedBy != "bob" {
			t.Errorf("transaction %d splits out of order: %+v", i, txn.Splits)
		}
		if txn.Splits[0].Amount*2 != txn.Amount {
			t.Errorf("transaction %d got splits of another transaction: %+v", i, txn.Splits)
		}
	}
}

package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/splitpal/splitpal/internal/models"
	"github.com/splitpal/splitpal/internal/storage/sqlite"
)

// clock is a manual clock; every call advances it by one second so creation
// order is strict.
type clock struct {
	t time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

type fixture struct {
	ctx    context.Context
	store  *sqlite.SQLiteStore
	clock  *clock
	opts   []Option
	users  map[string]*models.User
	tx     *TransactionService
	groups *GroupService
	times  *TimelineService
	dash   *DashboardService
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	c := newClock()
	all := append([]Option{
		WithClock(c.Now),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, opts...)

	return &fixture{
		ctx:    context.Background(),
		store:  store,
		clock:  c,
		opts:   all,
		users:  make(map[string]*models.User),
		tx:     NewTransactionService(store, all...),
		groups: NewGroupService(store, all...),
		times:  NewTimelineService(store, all...),
		dash:   NewDashboardService(store, all...),
	}
}

// user creates an account named name with a phone number derived from n.
func (f *fixture) user(t *testing.T, name, phone string) *models.User {
	t.Helper()
	u := models.NewUser(name, phone, "hash")
	require.NoError(t, f.store.CreateUser(f.ctx, u))
	f.users[name] = u
	return u
}

// group creates a group administered by admin with the given members.
func (f *fixture) group(t *testing.T, admin *models.User, name string, members ...*models.User) *models.Group {
	t.Helper()
	phones := make([]string, 0, len(members))
	for _, m := range members {
		phones = append(phones, m.PhoneNumber)
	}
	res, err := f.groups.CreateGroup(f.ctx, admin.ID, &CreateGroupRequest{Name: name, Members: phones})
	require.NoError(t, err)
	return res.Group
}

// direct records a non-group transaction from payer to counterparty.
func (f *fixture) direct(t *testing.T, payer, to *models.User, amount int64) *models.Transaction {
	t.Helper()
	tx, err := f.tx.Create(f.ctx, payer.ID, &CreateTransactionRequest{
		Amount:  amount,
		PayedTo: models.PayedTo{Name: to.Name, UserID: to.ID, PhoneNumber: to.PhoneNumber},
	})
	require.NoError(t, err)
	return tx
}

func (f *fixture) inGroup(t *testing.T, payer *models.User, g *models.Group, amount int64) *models.Transaction {
	t.Helper()
	tx, err := f.tx.Create(f.ctx, payer.ID, &CreateTransactionRequest{
		Amount:  amount,
		GroupID: g.ID,
		PayedTo: models.PayedTo{Name: g.Name, PhoneNumber: payer.PhoneNumber},
	})
	require.NoError(t, err)
	return tx
}

func splitOf(t *testing.T, tx *models.Transaction, userID string) models.Split {
	t.Helper()
	sp, ok := tx.SplitOwedBy(userID)
	require.True(t, ok, "no split owed by %s", userID)
	return sp
}

func boolPtr(b bool) *bool       { return &b }
func int64Ptr(n int64) *int64    { return &n }
func stringPtr(s string) *string { return &s }

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splitpal/splitpal/internal/models"
)

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	me := f.user(t, "Me", "+1-5550000001")
	u1 := f.user(t, "U1", "+1-5550000011")
	u2 := f.user(t, "U2", "+1-5550000012")
	u3 := f.user(t, "U3", "+1-5550000013")
	u4 := f.user(t, "U4", "+1-5550000014")
	u5 := f.user(t, "U5", "+1-5550000015")

	// other-party frequencies: U1 x5, U2 x3, U3 x3, U4 x1, U5 x1.
	// Ties go to the counterparty seen first walking newest to oldest.
	for i := 0; i < 3; i++ {
		f.direct(t, me, u3, 1)
	}
	for i := 0; i < 5; i++ {
		f.direct(t, u1, me, 1)
	}
	for i := 0; i < 3; i++ {
		f.direct(t, me, u2, 1)
	}
	f.direct(t, u4, me, 1)
	f.direct(t, me, u5, 1)

	// payee without an account
	_, err := f.tx.Create(f.ctx, me.ID, &CreateTransactionRequest{
		Amount:  7,
		PayedTo: models.PayedTo{Name: "Corner Shop", PhoneNumber: "+1-5550000099"},
	})
	require.NoError(t, err)

	dash, err := f.dash.Dashboard(f.ctx, me.ID, me.PhoneNumber)
	require.NoError(t, err)

	t.Run("individuals", func(t *testing.T) {
		var got []string
		for _, p := range dash.Individuals {
			got = append(got, p.Name)
		}
		assert.Equal(t, []string{"U1", "U2", "U3", "U5"}, got)
	})

	t.Run("recent transactions", func(t *testing.T) {
		require.Len(t, dash.RecentTransactions, 5)
		newest := dash.RecentTransactions[0]
		assert.Equal(t, "Corner Shop", newest.PayedToName)
		assert.Equal(t, models.Debited, newest.Status)
		assert.Equal(t, int64(7), newest.Amount)

		assert.Equal(t, "U5", dash.RecentTransactions[1].PayedToName)
		assert.Equal(t, models.Debited, dash.RecentTransactions[1].Status)

		assert.Equal(t, "U4", dash.RecentTransactions[2].PayedToName)
		assert.Equal(t, models.Credited, dash.RecentTransactions[2].Status)
	})

	t.Run("no groups and nothing owed", func(t *testing.T) {
		assert.Empty(t, dash.Groups)
		assert.Empty(t, dash.FlatCards)
	})
}

func TestDashboardGroupsAndFlatCards(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "A", "+1-5550000001")
	b := f.user(t, "B", "+1-5550000002")
	c := f.user(t, "C", "+1-5550000003")

	// A has three credits, C creates the fourth group
	g1 := f.group(t, a, "G1", b)
	g2 := f.group(t, a, "G2", b)
	g3 := f.group(t, a, "G3", b)
	g4 := f.group(t, c, "G4", b)

	var owed []*models.Transaction
	for _, g := range []*models.Group{g1, g2, g3, g1, g2, g3} {
		owed = append(owed, f.inGroup(t, a, g, 200))
	}
	settled := f.inGroup(t, c, g4, 60)
	_, err := f.tx.EditSplit(f.ctx, c.ID, &EditSplitRequest{
		TransactionID: settled.ID,
		SplitID:       splitOf(t, settled, b.ID).ID,
		Status:        boolPtr(true),
	})
	require.NoError(t, err)

	dash, err := f.dash.Dashboard(f.ctx, b.ID, b.PhoneNumber)
	require.NoError(t, err)

	var groupNames []string
	for _, g := range dash.Groups {
		groupNames = append(groupNames, g.Name)
	}
	assert.Equal(t, []string{"G4", "G3", "G2"}, groupNames)

	require.Len(t, dash.FlatCards, 5)
	for i, card := range dash.FlatCards {
		want := owed[len(owed)-1-i]
		assert.Equal(t, want.ID, card.TransactionID)
		assert.Equal(t, int64(100), card.Amount)
		assert.Equal(t, "A", card.InitiatorName)
	}
	assert.Equal(t, "G3", dash.FlatCards[0].GroupName)

	// B's only counterparties are the payers
	var people []string
	for _, p := range dash.Individuals {
		people = append(people, p.Name)
	}
	assert.Equal(t, []string{"A", "C"}, people)
}

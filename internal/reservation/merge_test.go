package reservation

import (
	"testing"
	"time"

	"github.com/robertarktes/campus-reservations/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeApprovalsSortsNewestFirst(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	equipment := []domain.Approval{
		{ID: "e2", CreatedAt: base.Add(3 * time.Minute)},
		{ID: "e1", CreatedAt: base},
	}
	classrooms := []domain.Approval{
		{ID: "c2", CreatedAt: base.Add(5 * time.Minute)},
		{ID: "c1", CreatedAt: base.Add(time.Minute)},
	}

	merged := MergeApprovals(equipment, classrooms)
	ids := make([]string, len(merged))
	for i, a := range merged {
		ids[i] = a.ID
	}
	assert.Equal(t, []string{"c2", "e2", "c1", "e1"}, ids)
	assert.Equal(t, "e2", equipment[0].ID, "inputs untouched")
}

func TestMergeApprovalsDoesNotAlias(t *testing.T) {
	in := []domain.Approval{{ID: "a", Items: []domain.CartEntry{{ItemID: 1, Quantity: 1}}}}
	merged := MergeApprovals(in, nil)
	merged[0].Items[0].Quantity = 9
	assert.Equal(t, 1, in[0].Items[0].Quantity)
}

func TestMergeCarts(t *testing.T) {
	eq := []domain.CartEntry{{ItemID: 1, Kind: domain.KindEquipment}}
	cl := []domain.CartEntry{{ItemID: 1, Kind: domain.KindClassroom}}

	merged := MergeCarts(eq, cl)
	require.Len(t, merged, 2)
	assert.NotEqual(t, merged[0].Key(), merged[1].Key())
	assert.Empty(t, MergeCarts(nil, nil))
}

func TestSummarize(t *testing.T) {
	a := domain.Approval{Items: []domain.CartEntry{
		{Kind: domain.KindEquipment}, {Kind: domain.KindEquipment}, {Kind: domain.KindClassroom},
	}}
	b := Summarize(a)
	assert.Equal(t, 2, b.EquipmentCount)
	assert.Equal(t, 1, b.ClassroomCount)
	assert.True(t, b.Mixed())
	assert.False(t, b.OnlyEquipment())

	only := Summarize(domain.Approval{Items: []domain.CartEntry{{Kind: domain.KindClassroom}}})
	assert.True(t, only.OnlyClassrooms())
}

func TestMergeReservationsOrdersByApproval(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	at := func(m int) *time.Time {
		v := base.Add(time.Duration(m) * time.Minute)
		return &v
	}
	equipment := []domain.Approval{
		{ID: "e1", CreatedAt: base, ApprovedAt: at(10)},
	}
	classrooms := []domain.Approval{
		{ID: "c2", CreatedAt: base.Add(2 * time.Minute), ApprovedAt: at(12)},
		{ID: "c1", CreatedAt: base.Add(time.Minute), ApprovedAt: at(5)},
	}

	merged := MergeReservations(equipment, classrooms)
	ids := make([]string, len(merged))
	for i, a := range merged {
		ids[i] = a.ID
	}
	assert.Equal(t, []string{"c2", "e1", "c1"}, ids)
}

func TestActiveLoansGroupsByRequester(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	in36h := now.Add(36 * time.Hour)
	yesterday := now.Add(-24 * time.Hour)

	reservations := []domain.Approval{
		{
			ID: "r1", Status: domain.StatusApproved, UserID: "u7", UserName: "Ana",
			Items: []domain.CartEntry{
				{ItemID: 1, Kind: domain.KindEquipment, Quantity: 2, ReturnDate: &in36h},
				{ItemID: 3, Kind: domain.KindEquipment, Quantity: 1, ReturnDate: &yesterday},
			},
		},
		{
			ID: "r2", Status: domain.StatusApproved,
			Items: []domain.CartEntry{{ItemID: 2, Kind: domain.KindClassroom, Quantity: 1}},
		},
		{
			ID: "r3", Status: domain.StatusApproved, UserID: "u7",
			Items: []domain.CartEntry{{ItemID: 4, Kind: domain.KindEquipment, Quantity: 3}},
		},
		{ID: "r4", Status: domain.StatusRejected, UserID: "u9"},
	}

	loans := ActiveLoans(reservations, now)
	require.Len(t, loans, 2)

	ana := loans[0]
	assert.Equal(t, "u7", ana.UserID)
	assert.Equal(t, "Ana", ana.Name)
	assert.Equal(t, "u7@universidad.edu", ana.Email)
	assert.Equal(t, 6, ana.TotalItems)
	assert.Len(t, ana.Reservations, 2)
	require.Len(t, ana.Items, 3)
	require.NotNil(t, ana.Items[0].DaysRemaining)
	assert.Equal(t, 2, *ana.Items[0].DaysRemaining, "partial days round up")
	require.NotNil(t, ana.Items[1].DaysRemaining)
	assert.Equal(t, 0, *ana.Items[1].DaysRemaining, "overdue clamps to zero")
	assert.Nil(t, ana.Items[2].DaysRemaining)

	student := loans[1]
	assert.Equal(t, domain.PlaceholderRequester.ID, student.UserID)
	assert.Equal(t, domain.PlaceholderRequester.Name, student.Name)
	assert.Equal(t, 1, student.TotalItems)
}

func TestActiveLoansEmpty(t *testing.T) {
	assert.Empty(t, ActiveLoans(nil, time.Now()))
}

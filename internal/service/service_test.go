package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/robertarktes/campus-reservations/internal/domain"
	"github.com/robertarktes/campus-reservations/internal/observability"
	"github.com/robertarktes/campus-reservations/internal/outbox"
	"github.com/robertarktes/campus-reservations/internal/reservation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capture struct {
	mu      sync.Mutex
	records []outbox.Record
}

func (c *capture) Enqueue(rec outbox.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, rec)
}

func (c *capture) types() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.records))
	for _, r := range c.records {
		out = append(out, r.Type)
	}
	return out
}

func newService(t *testing.T) (*Reservations, *capture) {
	t.Helper()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		now = now.Add(time.Minute)
		return now
	}
	events := &capture{}
	svc := NewFromFixtures(events, observability.Discard(),
		reservation.WithIDGenerator(&reservation.SequenceGenerator{Prefix: "req"}),
		reservation.WithClock(clock),
	)
	return svc, events
}

func validDraft() domain.ItemDraft {
	return domain.ItemDraft{
		Name:        "  Gimbal DJI RS3 ",
		Category:    "Accesorios",
		Description: "Estabilizador de tres ejes",
		Image:       "gimbal.jpg",
		Quantity:    "2",
	}
}

func TestAddEquipmentValidation(t *testing.T) {
	cases := map[string]func(d *domain.ItemDraft){
		"blank name":        func(d *domain.ItemDraft) { d.Name = "   " },
		"missing category":  func(d *domain.ItemDraft) { d.Category = "" },
		"unknown category":  func(d *domain.ItemDraft) { d.Category = "Vehículos" },
		"blank description": func(d *domain.ItemDraft) { d.Description = "" },
		"blank image":       func(d *domain.ItemDraft) { d.Image = " " },
		"zero quantity":     func(d *domain.ItemDraft) { d.Quantity = "0" },
		"text quantity":     func(d *domain.ItemDraft) { d.Quantity = "many" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			svc, events := newService(t)
			before, err := svc.Catalog(context.Background(), domain.KindEquipment, reservation.Filter{})
			require.NoError(t, err)

			d := validDraft()
			mutate(&d)
			_, err = svc.AddEquipment(context.Background(), d)
			require.True(t, errors.Is(err, domain.ErrInvalidInput), "got %v", err)

			after, err := svc.Catalog(context.Background(), domain.KindEquipment, reservation.Filter{})
			require.NoError(t, err)
			assert.Len(t, after, len(before))
			assert.Empty(t, events.types())
		})
	}
}

func TestAddEquipmentAppendsAndEmits(t *testing.T) {
	svc, events := newService(t)

	item, err := svc.AddEquipment(context.Background(), validDraft())
	require.NoError(t, err)
	assert.Equal(t, int64(7), item.ID)
	assert.Equal(t, "Gimbal DJI RS3", item.Name)
	assert.Equal(t, 2, item.Quantity)
	assert.True(t, item.Available)
	assert.Equal(t, []string{outbox.EventItemAdded}, events.types())

	got, err := svc.Item(context.Background(), domain.KindEquipment, 7)
	require.NoError(t, err)
	assert.Equal(t, item, got)
}

func TestAddToCartQuantityBounds(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, domain.KindEquipment, 1, 0, nil, nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	// item 1 has three units
	_, err = svc.AddToCart(ctx, domain.KindEquipment, 1, 4, nil, nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = svc.AddToCart(ctx, domain.KindClassroom, 1, 2, nil, nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = svc.AddToCart(ctx, domain.KindEquipment, 99, 1, nil, nil)
	assert.True(t, errors.Is(err, domain.ErrItemNotFound))

	assert.Empty(t, svc.Cart())

	entry, err := svc.AddToCart(ctx, domain.KindEquipment, 1, 3, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, entry.Quantity)
}

func TestAddToCartRejectsInvertedDates(t *testing.T) {
	svc, _ := newService(t)
	start := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	ret := start.AddDate(0, 0, -1)

	_, err := svc.AddToCart(context.Background(), domain.KindEquipment, 2, 1, &start, &ret)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestUnknownKind(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Catalog(context.Background(), domain.Kind("vehicle"), reservation.Filter{})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestCartMergesEquipmentFirst(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, domain.KindClassroom, 2, 1, nil, nil)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, domain.KindEquipment, 3, 1, nil, nil)
	require.NoError(t, err)

	cart := svc.Cart()
	require.Len(t, cart, 2)
	assert.Equal(t, domain.KindEquipment, cart[0].Kind)
	assert.Equal(t, domain.KindClassroom, cart[1].Kind)

	require.NoError(t, svc.ClearCart(domain.KindClassroom))
	assert.Len(t, svc.Cart(), 1)
	svc.ClearAll()
	assert.Empty(t, svc.Cart())
}

func TestCheckoutSubmitsBothCarts(t *testing.T) {
	svc, events := newService(t)
	ctx := context.Background()

	_, err := svc.Checkout(ctx)
	require.True(t, errors.Is(err, domain.ErrEmptyCart))

	_, err = svc.AddToCart(ctx, domain.KindEquipment, 1, 1, nil, nil)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, domain.KindClassroom, 1, 1, nil, nil)
	require.NoError(t, err)

	created, err := svc.Checkout(ctx)
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, domain.KindEquipment, created[0].Kind)
	assert.Equal(t, domain.KindClassroom, created[1].Kind)
	assert.Empty(t, svc.Cart())
	assert.Len(t, svc.PendingApprovals(), 2)
	assert.Equal(t, []string{outbox.EventApprovalSubmitted, outbox.EventApprovalSubmitted}, events.types())
}

func TestCheckoutSingleDomain(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, domain.KindClassroom, 4, 1, nil, nil)
	require.NoError(t, err)

	created, err := svc.Checkout(ctx)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, domain.KindClassroom, created[0].Kind)
}

func TestApproveAndRejectRouteByID(t *testing.T) {
	svc, events := newService(t)
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, domain.KindEquipment, 2, 1, nil, nil)
	require.NoError(t, err)
	eq, err := svc.Submit(ctx, domain.KindEquipment)
	require.NoError(t, err)

	_, err = svc.AddToCart(ctx, domain.KindClassroom, 3, 1, nil, nil)
	require.NoError(t, err)
	cl, err := svc.Submit(ctx, domain.KindClassroom)
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, cl.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, approved.Status)
	assert.Equal(t, domain.KindClassroom, approved.Kind)

	rejected, err := svc.Reject(ctx, eq.ID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, rejected.Status)
	assert.Equal(t, domain.DefaultRejectionReason, rejected.RejectionReason)

	assert.Empty(t, svc.PendingApprovals())
	assert.Len(t, svc.Notifications(), 2)
	reservations := svc.Reservations()
	require.Len(t, reservations, 1)
	assert.Equal(t, cl.ID, reservations[0].ID)

	_, err = svc.Approve(ctx, eq.ID)
	assert.True(t, errors.Is(err, domain.ErrApprovalNotFound))
	_, err = svc.Reject(ctx, "missing", "x")
	assert.True(t, errors.Is(err, domain.ErrApprovalNotFound))

	assert.Equal(t, []string{
		outbox.EventApprovalSubmitted,
		outbox.EventApprovalSubmitted,
		outbox.EventApprovalApproved,
		outbox.EventApprovalRejected,
	}, events.types())
}

func TestNilPublisher(t *testing.T) {
	svc := NewFromFixtures(nil, observability.Discard())
	_, err := svc.AddToCart(context.Background(), domain.KindEquipment, 1, 1, nil, nil)
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), domain.KindEquipment)
	require.NoError(t, err)
}

func TestReservationsOrderedByApproval(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, domain.KindEquipment, 1, 1, nil, nil)
	require.NoError(t, err)
	first, err := svc.Submit(ctx, domain.KindEquipment)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, domain.KindClassroom, 2, 1, nil, nil)
	require.NoError(t, err)
	second, err := svc.Submit(ctx, domain.KindClassroom)
	require.NoError(t, err)

	_, err = svc.Approve(ctx, second.ID)
	require.NoError(t, err)
	_, err = svc.Approve(ctx, first.ID)
	require.NoError(t, err)

	res := svc.Reservations()
	require.Len(t, res, 2)
	assert.Equal(t, first.ID, res[0].ID, "latest approval leads even though it was submitted first")
	assert.Equal(t, second.ID, res[1].ID)
}

func TestAddToCartCountsQuantityAlreadyInCart(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, domain.KindClassroom, 1, 1, nil, nil)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, domain.KindClassroom, 1, 1, nil, nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	// item 3 has two units
	_, err = svc.AddToCart(ctx, domain.KindEquipment, 3, 1, nil, nil)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, domain.KindEquipment, 3, 1, nil, nil)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, domain.KindEquipment, 3, 1, nil, nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	cart := svc.Cart()
	require.Len(t, cart, 2)
	assert.Equal(t, 2, cart[0].Quantity)
	assert.Equal(t, 1, cart[1].Quantity)
}

func TestActiveLoans(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	start := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	_, err := svc.AddToCart(ctx, domain.KindEquipment, 2, 3, &start, nil)
	require.NoError(t, err)
	eq, err := svc.Submit(ctx, domain.KindEquipment)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, domain.KindClassroom, 1, 1, &start, nil)
	require.NoError(t, err)
	cl, err := svc.Submit(ctx, domain.KindClassroom)
	require.NoError(t, err)

	_, err = svc.Approve(ctx, eq.ID)
	require.NoError(t, err)
	assert.Len(t, svc.ActiveLoans(start), 1)

	_, err = svc.Approve(ctx, cl.ID)
	require.NoError(t, err)

	loans := svc.ActiveLoans(start)
	require.Len(t, loans, 1)
	assert.Equal(t, domain.PlaceholderRequester.ID, loans[0].UserID)
	assert.Equal(t, 4, loans[0].TotalItems)
	assert.Len(t, loans[0].Reservations, 2)
	require.Len(t, loans[0].Items, 2)
}

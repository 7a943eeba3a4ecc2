package service

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/robertarktes/campus-reservations/internal/domain"
	"github.com/robertarktes/campus-reservations/internal/fixtures"
	"github.com/robertarktes/campus-reservations/internal/observability"
	"github.com/robertarktes/campus-reservations/internal/outbox"
	"github.com/robertarktes/campus-reservations/internal/reservation"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Publisher accepts lifecycle records; *outbox.Dispatcher satisfies it.
type Publisher interface {
	Enqueue(rec outbox.Record)
}

// Reservations coordinates the equipment and classroom stores. It performs the
// checks the stores leave to their caller and reports every transition.
type Reservations struct {
	equipment  *reservation.Store
	classrooms *reservation.Store
	events     Publisher
	logger     observability.Logger
	tracer     trace.Tracer
}

func New(equipment, classrooms *reservation.Store, events Publisher, logger observability.Logger) *Reservations {
	return &Reservations{
		equipment:  equipment,
		classrooms: classrooms,
		events:     events,
		logger:     logger,
		tracer:     observability.Tracer("service"),
	}
}

// NewFromFixtures builds both stores from the static catalogs.
func NewFromFixtures(events Publisher, logger observability.Logger, opts ...reservation.Option) *Reservations {
	return New(
		reservation.NewStore(domain.KindEquipment, fixtures.Equipment(), opts...),
		reservation.NewStore(domain.KindClassroom, fixtures.Classrooms(), opts...),
		events, logger,
	)
}

func (s *Reservations) store(kind domain.Kind) (*reservation.Store, error) {
	switch kind {
	case domain.KindEquipment:
		return s.equipment, nil
	case domain.KindClassroom:
		return s.classrooms, nil
	}
	return nil, errors.WithDetailf(domain.ErrInvalidInput, "unknown kind %q", kind)
}

func (s *Reservations) span(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Reservations) Catalog(ctx context.Context, kind domain.Kind, f reservation.Filter) ([]domain.Item, error) {
	_, span := s.span(ctx, "Catalog", attribute.String("kind", string(kind)))
	defer span.End()

	st, err := s.store(kind)
	if err != nil {
		return nil, err
	}
	return st.Search(f), nil
}

func (s *Reservations) Item(ctx context.Context, kind domain.Kind, id int64) (domain.Item, error) {
	_, span := s.span(ctx, "Item", attribute.String("kind", string(kind)), attribute.Int64("item_id", id))
	defer span.End()

	st, err := s.store(kind)
	if err != nil {
		return domain.Item{}, err
	}
	return st.Item(id)
}

func (s *Reservations) Categories(kind domain.Kind) ([]string, error) {
	st, err := s.store(kind)
	if err != nil {
		return nil, err
	}
	return st.Categories(), nil
}

// AddEquipment validates the add-to-inventory form and appends the item.
func (s *Reservations) AddEquipment(ctx context.Context, draft domain.ItemDraft) (domain.Item, error) {
	ctx, span := s.span(ctx, "AddEquipment")
	defer span.End()

	draft.Name = strings.TrimSpace(draft.Name)
	draft.Description = strings.TrimSpace(draft.Description)
	draft.Image = strings.TrimSpace(draft.Image)
	if err := validateDraft(draft); err != nil {
		return domain.Item{}, err
	}

	item := s.equipment.AddItem(draft)
	s.logger.WithFields(map[string]interface{}{"item_id": item.ID, "name": item.Name}).Info("equipment added")
	s.emit(ctx, func() (outbox.Record, error) { return outbox.ItemRecord(item) })
	return item, nil
}

func validateDraft(d domain.ItemDraft) error {
	switch {
	case d.Name == "":
		return errors.WithDetail(domain.ErrInvalidInput, "name is required")
	case d.Category == "":
		return errors.WithDetail(domain.ErrInvalidInput, "category is required")
	case !slices.Contains(fixtures.EquipmentCategories, d.Category):
		return errors.WithDetailf(domain.ErrInvalidInput, "unknown category %q", d.Category)
	case d.Description == "":
		return errors.WithDetail(domain.ErrInvalidInput, "description is required")
	case d.Image == "":
		return errors.WithDetail(domain.ErrInvalidInput, "image is required")
	}
	if n, err := strconv.Atoi(strings.TrimSpace(d.Quantity)); err != nil || n < 1 {
		return errors.WithDetail(domain.ErrInvalidInput, "quantity must be a whole number of at least 1")
	}
	return nil
}

// AddToCart bounds the resulting cart line by the item: equipment up to its
// stock, classrooms exactly one.
func (s *Reservations) AddToCart(ctx context.Context, kind domain.Kind, itemID int64, quantity int, start, ret *time.Time) (domain.CartEntry, error) {
	_, span := s.span(ctx, "AddToCart", attribute.String("kind", string(kind)), attribute.Int64("item_id", itemID))
	defer span.End()

	st, err := s.store(kind)
	if err != nil {
		return domain.CartEntry{}, err
	}
	if start != nil && ret != nil && ret.Before(*start) {
		return domain.CartEntry{}, errors.WithDetail(domain.ErrInvalidInput, "return date precedes start date")
	}

	entry, err := st.AddToCartBounded(itemID, quantity, start, ret, checkQuantity)
	if err != nil {
		return domain.CartEntry{}, err
	}
	observability.CartAdditions.WithLabelValues(string(kind)).Inc()
	return entry, nil
}

// checkQuantity bounds the cart line after the addition, so repeated adds cannot
// exceed the stock or book a classroom more than once.
func checkQuantity(item domain.Item, inCart, quantity int) error {
	if quantity < 1 {
		return errors.WithDetail(domain.ErrInvalidInput, "quantity must be at least 1")
	}
	limit := item.Quantity
	if item.Kind == domain.KindClassroom {
		limit = 1
	}
	if inCart+quantity > limit {
		return errors.WithDetailf(domain.ErrInvalidInput,
			"quantity %d with %d already in the cart exceeds the %d available", quantity, inCart, limit)
	}
	return nil
}

func (s *Reservations) RemoveFromCart(kind domain.Kind, itemID int64) error {
	st, err := s.store(kind)
	if err != nil {
		return err
	}
	return st.RemoveFromCart(itemID)
}

func (s *Reservations) ClearCart(kind domain.Kind) error {
	st, err := s.store(kind)
	if err != nil {
		return err
	}
	st.ClearCart()
	return nil
}

func (s *Reservations) ClearAll() {
	s.equipment.ClearCart()
	s.classrooms.ClearCart()
}

func (s *Reservations) DomainCart(kind domain.Kind) ([]domain.CartEntry, error) {
	st, err := s.store(kind)
	if err != nil {
		return nil, err
	}
	return st.Cart(), nil
}

// Cart is the merged view of both carts, equipment first.
func (s *Reservations) Cart() []domain.CartEntry {
	return reservation.MergeCarts(s.equipment.Cart(), s.classrooms.Cart())
}

func (s *Reservations) Submit(ctx context.Context, kind domain.Kind) (domain.Approval, error) {
	ctx, span := s.span(ctx, "Submit", attribute.String("kind", string(kind)))
	defer span.End()

	st, err := s.store(kind)
	if err != nil {
		return domain.Approval{}, err
	}
	a, err := st.SubmitForApproval()
	if err != nil {
		return domain.Approval{}, err
	}
	s.transitioned(ctx, a)
	return a, nil
}

// Checkout submits every non-empty cart, equipment first.
func (s *Reservations) Checkout(ctx context.Context) ([]domain.Approval, error) {
	ctx, span := s.span(ctx, "Checkout")
	defer span.End()

	var out []domain.Approval
	for _, st := range []*reservation.Store{s.equipment, s.classrooms} {
		a, err := st.SubmitForApproval()
		if errors.Is(err, domain.ErrEmptyCart) {
			continue
		}
		if err != nil {
			return out, err
		}
		s.transitioned(ctx, a)
		out = append(out, a)
	}
	if len(out) == 0 {
		return nil, errors.Wrap(domain.ErrEmptyCart, "checkout")
	}
	return out, nil
}

// Approve decides a pending request of either kind.
func (s *Reservations) Approve(ctx context.Context, id string) (domain.Approval, error) {
	ctx, span := s.span(ctx, "Approve", attribute.String("approval_id", id))
	defer span.End()

	st, err := s.owner(id)
	if err != nil {
		return domain.Approval{}, err
	}
	a, err := st.ApproveReservation(id)
	if err != nil {
		return domain.Approval{}, err
	}
	s.transitioned(ctx, a)
	return a, nil
}

func (s *Reservations) Reject(ctx context.Context, id, reason string) (domain.Approval, error) {
	ctx, span := s.span(ctx, "Reject", attribute.String("approval_id", id))
	defer span.End()

	st, err := s.owner(id)
	if err != nil {
		return domain.Approval{}, err
	}
	a, err := st.RejectReservation(id, reason)
	if err != nil {
		return domain.Approval{}, err
	}
	s.transitioned(ctx, a)
	return a, nil
}

func (s *Reservations) owner(id string) (*reservation.Store, error) {
	for _, st := range []*reservation.Store{s.equipment, s.classrooms} {
		if st.HasPending(id) {
			return st, nil
		}
	}
	return nil, errors.Wrapf(domain.ErrApprovalNotFound, "approval %s", id)
}

func (s *Reservations) PendingApprovals() []domain.Approval {
	return reservation.MergeApprovals(s.equipment.PendingApprovals(), s.classrooms.PendingApprovals())
}

func (s *Reservations) Notifications() []domain.Approval {
	return reservation.MergeApprovals(s.equipment.Notifications(), s.classrooms.Notifications())
}

// Reservations lists approved requests of both kinds, latest approval first.
func (s *Reservations) Reservations() []domain.Approval {
	return reservation.MergeReservations(s.equipment.Reservations(), s.classrooms.Reservations())
}

// ActiveLoans groups the approved reservations of both kinds by requester.
func (s *Reservations) ActiveLoans(now time.Time) []reservation.UserLoans {
	return reservation.ActiveLoans(s.Reservations(), now)
}

func (s *Reservations) transitioned(ctx context.Context, a domain.Approval) {
	kind := string(a.Kind)
	observability.Decisions.WithLabelValues(kind, string(a.Status)).Inc()
	st, _ := s.store(a.Kind)
	observability.PendingApprovals.WithLabelValues(kind).Set(float64(len(st.PendingApprovals())))

	s.logger.WithFields(map[string]interface{}{
		"approval_id": a.ID,
		"kind":        kind,
		"status":      a.Status,
		"items":       len(a.Items),
	}).Info("approval transitioned")
	s.emit(ctx, func() (outbox.Record, error) { return outbox.ApprovalRecord(a) })
}

func (s *Reservations) emit(ctx context.Context, build func() (outbox.Record, error)) {
	if s.events == nil {
		return
	}
	rec, err := build()
	if err != nil {
		observability.LoggerFrom(ctx, s.logger).Error("failed to build event: ", err)
		return
	}
	s.events.Enqueue(rec)
}

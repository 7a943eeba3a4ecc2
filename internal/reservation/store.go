package reservation

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/robertarktes/campus-reservations/internal/domain"
)

// Store owns the catalog, cart and approval lifecycle of one kind. Every method
// runs under the store lock, so each operation is applied atomically and in the
// order callers acquire it.
type Store struct {
	kind      domain.Kind
	ids       IDGenerator
	now       Clock
	requester domain.Requester

	mu    sync.Mutex
	items []domain.Item
	cart  []domain.CartEntry

	// records holds each approval exactly once; the slices below are id indexes
	// ordered newest first.
	records      map[string]*domain.Approval
	pending      []string
	log          []string
	reservations []string
}

type Option func(*Store)

func WithIDGenerator(g IDGenerator) Option {
	return func(s *Store) { s.ids = g }
}

func WithClock(c Clock) Option {
	return func(s *Store) { s.now = c }
}

func WithRequester(r domain.Requester) Option {
	return func(s *Store) { s.requester = r }
}

// NewStore seeds a store with items. Items are copied and stamped with kind.
func NewStore(kind domain.Kind, items []domain.Item, opts ...Option) *Store {
	s := &Store{
		kind:      kind,
		ids:       UUIDGenerator{},
		now:       time.Now,
		requester: domain.PlaceholderRequester,
		records:   make(map[string]*domain.Approval),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.items = make([]domain.Item, 0, len(items))
	for _, it := range items {
		it = it.Clone()
		it.Kind = kind
		s.items = append(s.items, it)
	}
	return s
}

func (s *Store) Kind() domain.Kind {
	return s.kind
}

func (s *Store) ListItems() []domain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Item, len(s.items))
	for i, it := range s.items {
		out[i] = it.Clone()
	}
	return out
}

func (s *Store) Item(id int64) (domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.findItem(id)
	if !ok {
		return domain.Item{}, errors.Wrapf(domain.ErrItemNotFound, "%s %d", s.kind, id)
	}
	return it.Clone(), nil
}

// AddItem appends a new item built from draft. The id is one past the largest
// id in the catalog, so it never collides with fixtures or earlier additions.
func (s *Store) AddItem(draft domain.ItemDraft) domain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	var maxID int64
	for _, it := range s.items {
		if it.ID > maxID {
			maxID = it.ID
		}
	}
	item := domain.Item{
		ID:          maxID + 1,
		Kind:        s.kind,
		Name:        draft.Name,
		Category:    draft.Category,
		Description: draft.Description,
		Image:       draft.Image,
		Quantity:    domain.CoerceQuantity(draft.Quantity),
		Available:   true,
	}
	s.items = append(s.items, item)
	return item.Clone()
}

// Bound vets an addition under the store lock. inCart is the quantity of the
// item already in the cart.
type Bound func(item domain.Item, inCart, quantity int) error

// AddToCart merges into an existing line for the same item or appends a new one.
// Dates always take the values of the latest call.
func (s *Store) AddToCart(itemID int64, quantity int, start, ret *time.Time) (domain.CartEntry, error) {
	return s.AddToCartBounded(itemID, quantity, start, ret, nil)
}

// AddToCartBounded is AddToCart with bound checked first. A bound error leaves
// the cart unchanged.
func (s *Store) AddToCartBounded(itemID int64, quantity int, start, ret *time.Time, bound Bound) (domain.CartEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.findItem(itemID)
	if !ok {
		return domain.CartEntry{}, errors.Wrapf(domain.ErrItemNotFound, "%s %d", s.kind, itemID)
	}

	key := domain.CartKey{ItemID: itemID, Kind: s.kind}
	existing := -1
	for i := range s.cart {
		if s.cart[i].Key() == key {
			existing = i
			break
		}
	}
	if bound != nil {
		inCart := 0
		if existing >= 0 {
			inCart = s.cart[existing].Quantity
		}
		if err := bound(item.Clone(), inCart, quantity); err != nil {
			return domain.CartEntry{}, err
		}
	}

	if i := existing; i >= 0 {
		s.cart[i].Quantity += quantity
		s.cart[i].StartDate = start
		s.cart[i].ReturnDate = ret
		if ret == nil {
			s.cart[i].ReturnDate = domain.ReturnDate(start, s.cart[i].RentalDays)
		}
		s.cart[i] = s.cart[i].Clone()
		return s.cart[i].Clone(), nil
	}

	entry := domain.NewCartEntry(item, quantity, start, ret)
	s.cart = append(s.cart, entry)
	return entry.Clone(), nil
}

func (s *Store) RemoveFromCart(itemID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := domain.CartKey{ItemID: itemID, Kind: s.kind}
	for i := range s.cart {
		if s.cart[i].Key() == key {
			s.cart = append(s.cart[:i:i], s.cart[i+1:]...)
			return nil
		}
	}
	return errors.Wrapf(domain.ErrCartEntryNotFound, "%s %d", s.kind, itemID)
}

func (s *Store) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = nil
}

func (s *Store) Cart() []domain.CartEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneCart(s.cart)
}

// SubmitForApproval turns the whole cart into one pending record, indexes it at
// the head of the pending queue and the notification log, and empties the cart.
func (s *Store) SubmitForApproval() (domain.Approval, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.cart) == 0 {
		return domain.Approval{}, errors.Wrapf(domain.ErrEmptyCart, "%s", s.kind)
	}

	a := domain.NewApproval(s.ids.NewID(), s.kind, domain.CloneEntries(s.cart), s.requester, s.now())
	s.records[a.ID] = &a
	s.pending = prepend(s.pending, a.ID)
	s.log = prepend(s.log, a.ID)
	s.cart = nil
	return a.Clone(), nil
}

func (s *Store) ApproveReservation(id string) (domain.Approval, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.pendingRecord(id)
	if err != nil {
		return domain.Approval{}, err
	}
	approved, _ := rec.Approve(s.now())
	*rec = approved
	s.pending = without(s.pending, id)
	s.reservations = prepend(s.reservations, id)
	return rec.Clone(), nil
}

func (s *Store) RejectReservation(id, reason string) (domain.Approval, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.pendingRecord(id)
	if err != nil {
		return domain.Approval{}, err
	}
	rejected, _ := rec.Reject(s.now(), reason)
	*rec = rejected
	s.pending = without(s.pending, id)
	return rec.Clone(), nil
}

// HasPending reports whether id is waiting for a decision in this store.
func (s *Store) HasPending(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.pendingRecord(id)
	return err == nil
}

func (s *Store) PendingApprovals() []domain.Approval {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(s.pending)
}

func (s *Store) Notifications() []domain.Approval {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(s.log)
}

func (s *Store) Reservations() []domain.Approval {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(s.reservations)
}

func (s *Store) findItem(id int64) (domain.Item, bool) {
	for _, it := range s.items {
		if it.ID == id {
			return it, true
		}
	}
	return domain.Item{}, false
}

func (s *Store) pendingRecord(id string) (*domain.Approval, error) {
	rec, ok := s.records[id]
	if !ok || rec.Status != domain.StatusPending {
		return nil, errors.Wrapf(domain.ErrApprovalNotFound, "%s approval %s", s.kind, id)
	}
	return rec, nil
}

func (s *Store) view(ids []string) []domain.Approval {
	out := make([]domain.Approval, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.records[id].Clone())
	}
	return out
}

func cloneCart(cart []domain.CartEntry) []domain.CartEntry {
	out := domain.CloneEntries(cart)
	if out == nil {
		out = []domain.CartEntry{}
	}
	return out
}

func prepend(ids []string, id string) []string {
	return append([]string{id}, ids...)
}

func without(ids []string, id string) []string {
	out := ids[:0:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

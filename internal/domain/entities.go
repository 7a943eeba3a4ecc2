package domain

import (
	"time"

	"github.com/cockroachdb/errors"
)

// Kind tags which of the two reservable-resource domains a record belongs to.
type Kind string

const (
	KindEquipment Kind = "equipment"
	KindClassroom Kind = "classroom"
)

// ParseKind accepts the singular kind as well as the plural path segments used by the API.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "equipment":
		return KindEquipment, nil
	case "classroom", "classrooms":
		return KindClassroom, nil
	}
	return "", errors.WithDetailf(ErrInvalidInput, "unknown kind %q", s)
}

type Item struct {
	ID          int64  `json:"id"`
	Kind        Kind   `json:"type"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Quantity    int    `json:"quantity"`
	Available   bool   `json:"available"`

	// Classroom-only attributes.
	Capacity  int      `json:"capacity,omitempty"`
	Location  string   `json:"location,omitempty"`
	Equipment []string `json:"equipment,omitempty"`
}

// ItemDraft is the add-to-inventory form. Quantity stays textual so the store can coerce it.
type ItemDraft struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Quantity    string `json:"quantity"`
}

type CartEntry struct {
	ItemID     int64      `json:"id"`
	Kind       Kind       `json:"type"`
	Quantity   int        `json:"quantity"`
	RentalDays int        `json:"rental_days"`
	StartDate  *time.Time `json:"start_date"`
	ReturnDate *time.Time `json:"return_date"`

	// Snapshot of the item taken when the entry was created.
	Name        string `json:"name"`
	Category    string `json:"category"`
	Image       string `json:"image"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	Capacity    int    `json:"capacity,omitempty"`
	Location    string `json:"location,omitempty"`
}

// CartKey is the uniqueness key of a cart entry; ids collide across kinds.
type CartKey struct {
	ItemID int64
	Kind   Kind
}

func (e CartEntry) Key() CartKey {
	return CartKey{ItemID: e.ItemID, Kind: e.Kind}
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Approval is the single record behind a pending approval, its notification and,
// once approved, its reservation.
type Approval struct {
	ID        string      `json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	Date      string      `json:"date"`
	Items     []CartEntry `json:"items"`
	Status    Status      `json:"status"`
	UserID    string      `json:"user_id"`
	UserName  string      `json:"user_name"`
	Kind      Kind        `json:"type"`

	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	ApprovedBy string     `json:"approved_by,omitempty"`

	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	RejectedBy      string     `json:"rejected_by,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
}

type Requester struct {
	ID   string
	Name string
}

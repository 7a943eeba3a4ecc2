package outbox

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/robertarktes/campus-reservations/internal/domain"
)

// Event types published for lifecycle transitions.
const (
	EventApprovalSubmitted = "approval.submitted"
	EventApprovalApproved  = "approval.approved"
	EventApprovalRejected  = "approval.rejected"
	EventItemAdded         = "inventory.item_added"
)

type Record struct {
	ID          uuid.UUID       `json:"id"`
	Type        string          `json:"type"`
	Kind        domain.Kind     `json:"kind"`
	AggregateID string          `json:"aggregate_id"`
	Payload     json.RawMessage `json:"payload"`
	CreatedAt   time.Time       `json:"created_at"`
	DedupeKey   string          `json:"dedupe_key"`
}

// NewRecord marshals payload into a fresh record.
func NewRecord(eventType string, kind domain.Kind, aggregateID string, payload any) (Record, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Record{}, errors.Wrapf(err, "marshal %s payload", eventType)
	}
	id := uuid.New()
	return Record{
		ID:          id,
		Type:        eventType,
		Kind:        kind,
		AggregateID: aggregateID,
		Payload:     data,
		CreatedAt:   time.Now(),
		DedupeKey:   id.String(),
	}, nil
}

// ApprovalRecord maps an approval's current status to its event.
func ApprovalRecord(a domain.Approval) (Record, error) {
	eventType := EventApprovalSubmitted
	switch a.Status {
	case domain.StatusApproved:
		eventType = EventApprovalApproved
	case domain.StatusRejected:
		eventType = EventApprovalRejected
	}
	return NewRecord(eventType, a.Kind, a.ID, a)
}

func ItemRecord(it domain.Item) (Record, error) {
	return NewRecord(EventItemAdded, it.Kind, strconv.FormatInt(it.ID, 10), it)
}

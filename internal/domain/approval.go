package domain

import (
	"strconv"
	"strings"
	"time"
)

const (
	StandardRentalDays = 7
	ScarceRentalDays   = 1

	// Approver is the fixed identity recorded on every decision; there is no auth.
	Approver = "admin"

	DefaultRejectionReason = "unspecified"
)

// PlaceholderRequester stands in for the student submitting requests.
var PlaceholderRequester = Requester{ID: "user123", Name: "Estudiante Universitario"}

// RentalDays applies the scarcity rule: a single-unit item (every classroom included)
// gets a one-day window, everything else a week.
func RentalDays(totalQuantity int) int {
	if totalQuantity == 1 {
		return ScarceRentalDays
	}
	return StandardRentalDays
}

// ReturnDate is start plus the rental window, or nil without a start.
func ReturnDate(start *time.Time, rentalDays int) *time.Time {
	if start == nil {
		return nil
	}
	ret := start.AddDate(0, 0, rentalDays)
	return &ret
}

// CoerceQuantity parses a draft quantity, falling back to 1 for anything
// absent, unparsable or non-positive.
func CoerceQuantity(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// HumanDate renders the creation timestamp the way the request cards show it.
func HumanDate(t time.Time) string {
	return t.Format("2 January 2006, 15:04")
}

func NewApproval(id string, kind Kind, items []CartEntry, requester Requester, now time.Time) Approval {
	return Approval{
		ID:        id,
		CreatedAt: now,
		Date:      HumanDate(now),
		Items:     items,
		Status:    StatusPending,
		UserID:    requester.ID,
		UserName:  requester.Name,
		Kind:      kind,
	}
}

// Approve returns the approved copy of a pending record. ok is false when the
// record is already terminal.
func (a Approval) Approve(now time.Time) (Approval, bool) {
	if a.Status.Terminal() {
		return a, false
	}
	a.Status = StatusApproved
	a.ApprovedAt = &now
	a.ApprovedBy = Approver
	return a, true
}

// Reject returns the rejected copy of a pending record. An empty reason is recorded as unspecified.
func (a Approval) Reject(now time.Time, reason string) (Approval, bool) {
	if a.Status.Terminal() {
		return a, false
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultRejectionReason
	}
	a.Status = StatusRejected
	a.RejectedAt = &now
	a.RejectedBy = Approver
	a.RejectionReason = reason
	return a, true
}

// Clone deep-copies the record so callers can never reach store-owned memory.
func (a Approval) Clone() Approval {
	a.Items = CloneEntries(a.Items)
	a.ApprovedAt = cloneTime(a.ApprovedAt)
	a.RejectedAt = cloneTime(a.RejectedAt)
	return a
}

func (e CartEntry) Clone() CartEntry {
	e.StartDate = cloneTime(e.StartDate)
	e.ReturnDate = cloneTime(e.ReturnDate)
	return e
}

func CloneEntries(entries []CartEntry) []CartEntry {
	if entries == nil {
		return nil
	}
	out := make([]CartEntry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}

func (it Item) Clone() Item {
	if it.Equipment != nil {
		it.Equipment = append([]string(nil), it.Equipment...)
	}
	return it
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// NewCartEntry snapshots item into a cart line. A missing return date is derived
// from the start date and the rental window.
func NewCartEntry(item Item, quantity int, start, ret *time.Time) CartEntry {
	days := RentalDays(item.Quantity)
	if ret == nil {
		ret = ReturnDate(start, days)
	}
	return CartEntry{
		ItemID:      item.ID,
		Kind:        item.Kind,
		Quantity:    quantity,
		RentalDays:  days,
		StartDate:   cloneTime(start),
		ReturnDate:  cloneTime(ret),
		Name:        item.Name,
		Category:    item.Category,
		Image:       item.Image,
		Description: item.Description,
		Available:   item.Available,
		Capacity:    item.Capacity,
		Location:    item.Location,
	}
}

package reservation

import (
	"math"
	"sort"
	"time"

	"github.com/robertarktes/campus-reservations/internal/domain"
)

// MergeCarts concatenates the carts of both kinds into a fresh slice.
func MergeCarts(a, b []domain.CartEntry) []domain.CartEntry {
	out := make([]domain.CartEntry, 0, len(a)+len(b))
	out = append(out, domain.CloneEntries(a)...)
	out = append(out, domain.CloneEntries(b)...)
	return out
}

// MergeApprovals concatenates both lists and orders them newest first. Ties keep
// their input order.
func MergeApprovals(a, b []domain.Approval) []domain.Approval {
	out := make([]domain.Approval, 0, len(a)+len(b))
	for _, r := range a {
		out = append(out, r.Clone())
	}
	for _, r := range b {
		out = append(out, r.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// MergeReservations concatenates both reservation lists and orders them by
// approval time, newest first, so the latest decision leads just as it does
// within one store. Ties keep their input order.
func MergeReservations(a, b []domain.Approval) []domain.Approval {
	out := make([]domain.Approval, 0, len(a)+len(b))
	for _, r := range a {
		out = append(out, r.Clone())
	}
	for _, r := range b {
		out = append(out, r.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		return approvedAt(out[i]).After(approvedAt(out[j]))
	})
	return out
}

func approvedAt(a domain.Approval) time.Time {
	if a.ApprovedAt == nil {
		return time.Time{}
	}
	return *a.ApprovedAt
}

type Breakdown struct {
	EquipmentCount int `json:"equipment_count"`
	ClassroomCount int `json:"classroom_count"`
}

func (b Breakdown) OnlyEquipment() bool  { return b.EquipmentCount > 0 && b.ClassroomCount == 0 }
func (b Breakdown) OnlyClassrooms() bool { return b.ClassroomCount > 0 && b.EquipmentCount == 0 }
func (b Breakdown) Mixed() bool          { return b.EquipmentCount > 0 && b.ClassroomCount > 0 }

// Summarize counts the lines of a record per kind.
func Summarize(a domain.Approval) Breakdown {
	var b Breakdown
	for _, e := range a.Items {
		switch e.Kind {
		case domain.KindEquipment:
			b.EquipmentCount++
		case domain.KindClassroom:
			b.ClassroomCount++
		}
	}
	return b
}

// LoanItem is one borrowed line of an approved reservation.
type LoanItem struct {
	ApprovalID string      `json:"approval_id"`
	ItemID     int64       `json:"id"`
	Kind       domain.Kind `json:"type"`
	Name       string      `json:"name"`
	Quantity   int         `json:"quantity"`
	StartDate  *time.Time  `json:"start_date"`
	ReturnDate *time.Time  `json:"return_date"`
	// DaysRemaining is nil when the line has no return date.
	DaysRemaining *int `json:"days_remaining"`
}

// UserLoans groups the approved reservations of one requester.
type UserLoans struct {
	UserID       string            `json:"id"`
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	Reservations []domain.Approval `json:"reservations"`
	Items        []LoanItem        `json:"items"`
	TotalItems   int               `json:"total_items"`
}

// ActiveLoans groups approved reservations by requester in first-seen order.
// Records without a requester are filed under the placeholder student.
// TotalItems sums line quantities.
func ActiveLoans(reservations []domain.Approval, now time.Time) []UserLoans {
	out := []UserLoans{}
	index := map[string]int{}
	for _, r := range reservations {
		if r.Status != domain.StatusApproved {
			continue
		}
		userID := r.UserID
		if userID == "" {
			userID = domain.PlaceholderRequester.ID
		}
		i, ok := index[userID]
		if !ok {
			name := r.UserName
			if name == "" {
				name = domain.PlaceholderRequester.Name
			}
			out = append(out, UserLoans{
				UserID:       userID,
				Name:         name,
				Email:        userID + "@universidad.edu",
				Reservations: []domain.Approval{},
				Items:        []LoanItem{},
			})
			i = len(out) - 1
			index[userID] = i
		}
		u := &out[i]
		u.Reservations = append(u.Reservations, r.Clone())
		for _, e := range r.Items {
			u.TotalItems += e.Quantity
			u.Items = append(u.Items, LoanItem{
				ApprovalID:    r.ID,
				ItemID:        e.ItemID,
				Kind:          e.Kind,
				Name:          e.Name,
				Quantity:      e.Quantity,
				StartDate:     cloneTime(e.StartDate),
				ReturnDate:    cloneTime(e.ReturnDate),
				DaysRemaining: DaysRemaining(e.ReturnDate, now),
			})
		}
	}
	return out
}

// DaysRemaining counts started days until ret, never below zero. A nil ret yields nil.
func DaysRemaining(ret *time.Time, now time.Time) *int {
	if ret == nil {
		return nil
	}
	days := int(math.Ceil(ret.Sub(now).Hours() / 24))
	if days < 0 {
		days = 0
	}
	return &days
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

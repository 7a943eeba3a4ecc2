package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/robertarktes/campus-reservations/internal/adapters/mongo"
	"github.com/robertarktes/campus-reservations/internal/domain"
	"github.com/robertarktes/campus-reservations/internal/observability"
	"github.com/robertarktes/campus-reservations/internal/reservation"
	"github.com/robertarktes/campus-reservations/internal/service"
)

// AuditReader serves the audit trail; *mongo.AuditLogger satisfies it.
type AuditReader interface {
	Recent(ctx context.Context, aggregateID string, limit int64) ([]mongo.AuditLog, error)
}

// Check is a readiness probe for one backing service.
type Check func(ctx context.Context) error

type Handlers struct {
	svc    *service.Reservations
	audit  AuditReader
	checks map[string]Check
	logger observability.Logger
}

func NewHandlers(svc *service.Reservations, audit AuditReader, checks map[string]Check, logger observability.Logger) *Handlers {
	return &Handlers{
		svc:    svc,
		audit:  audit,
		checks: checks,
		logger: logger,
	}
}

func (h *Handlers) ListItems(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	f := reservation.Filter{
		Query:      q.Get("q"),
		Categories: q["category"],
	}
	if v := q.Get("available"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			h.fail(w, r, errors.WithDetailf(domain.ErrInvalidInput, "available must be a boolean, got %q", v))
			return
		}
		f.AvailableOnly = b
	}
	items, err := h.svc.Catalog(r.Context(), kind, f)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handlers) GetItem(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}
	item, err := h.svc.Item(r.Context(), kind, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handlers) Categories(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}
	cats, err := h.svc.Categories(kind)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// AddEquipment serves POST /v1/equipment/items. Classrooms cannot be added.
func (h *Handlers) AddEquipment(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}
	if kind != domain.KindEquipment {
		writeError(w, http.StatusMethodNotAllowed, "only equipment can be added to the inventory")
		return
	}
	var req struct {
		Name        string          `json:"name"`
		Category    string          `json:"category"`
		Description string          `json:"description"`
		Image       string          `json:"image"`
		Quantity    json.RawMessage `json:"quantity"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	item, err := h.svc.AddEquipment(r.Context(), domain.ItemDraft{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Image:       req.Image,
		Quantity:    rawQuantity(req.Quantity),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// rawQuantity accepts the form quantity either as a JSON number or as a string.
func rawQuantity(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

func (h *Handlers) DomainCart(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}
	cart, err := h.svc.DomainCart(kind)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}
	var req struct {
		ItemID     int64  `json:"item_id"`
		Quantity   *int   `json:"quantity"`
		StartDate  string `json:"start_date"`
		ReturnDate string `json:"return_date"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ret, err := parseDate(req.ReturnDate)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	entry, err := h.svc.AddToCart(r.Context(), kind, req.ItemID, qty, start, ret)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *Handlers) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}
	if err := h.svc.RemoveFromCart(kind, id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ClearDomainCart(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}
	if err := h.svc.ClearCart(kind); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) Submit(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}
	a, err := h.svc.Submit(r.Context(), kind)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *Handlers) Cart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Cart())
}

func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.svc.ClearAll()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	created, err := h.svc.Checkout(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handlers) PendingApprovals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.PendingApprovals())
}

func (h *Handlers) Approve(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *Handlers) Reject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason string `json:"reason"`
	}
	// the reason is optional, so an empty body is fine
	if r.ContentLength != 0 && !h.decode(w, r, &req) {
		return
	}
	a, err := h.svc.Reject(r.Context(), chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

type notification struct {
	domain.Approval
	Breakdown reservation.Breakdown `json:"breakdown"`
}

func (h *Handlers) Notifications(w http.ResponseWriter, r *http.Request) {
	log := h.svc.Notifications()
	out := make([]notification, 0, len(log))
	for _, a := range log {
		out = append(out, notification{Approval: a, Breakdown: reservation.Summarize(a)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) Reservations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Reservations())
}

// ActiveLoans lists requesters holding approved reservations, with days left per line.
func (h *Handlers) ActiveLoans(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.ActiveLoans(time.Now()))
}

func (h *Handlers) Audit(w http.ResponseWriter, r *http.Request) {
	if h.audit == nil {
		writeError(w, http.StatusServiceUnavailable, "audit log disabled")
		return
	}
	limit := int64(50)
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 1 {
			h.fail(w, r, errors.WithDetailf(domain.ErrInvalidInput, "limit must be a positive integer, got %q", v))
			return
		}
		limit = n
	}
	logs, err := h.audit.Recent(r.Context(), r.URL.Query().Get("aggregate_id"), limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if logs == nil {
		logs = []mongo.AuditLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}

func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// Readyz runs every configured probe and reports the ones that failed.
func (h *Handlers) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	failed := map[string]string{}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			failed[name] = err.Error()
		}
	}
	if len(failed) > 0 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{"failed": failed})
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ready"))
}

func (h *Handlers) kind(w http.ResponseWriter, r *http.Request) (domain.Kind, bool) {
	kind, err := domain.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		h.fail(w, r, err)
		return "", false
	}
	return kind, true
}

func (h *Handlers) itemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.fail(w, r, errors.WithDetailf(domain.ErrInvalidInput, "invalid item id %q", raw))
		return 0, false
	}
	return id, true
}

func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.fail(w, r, errors.WithDetail(domain.ErrInvalidInput, "malformed JSON body"))
		return false
	}
	return true
}

// parseDate accepts YYYY-MM-DD or RFC3339. An empty value is no date.
func parseDate(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t, nil
		}
	}
	return nil, errors.WithDetailf(domain.ErrInvalidInput, "invalid date %q", v)
}

func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if d := errors.FlattenDetails(err); d != "" {
		msg += ": " + d
	}
	log := observability.LoggerFrom(r.Context(), h.logger).WithField("status", status)
	if status >= http.StatusInternalServerError {
		log.Error("request failed: ", err)
		msg = "internal error"
	} else {
		log.Debug("request rejected: ", msg)
	}
	writeError(w, status, msg)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEmptyCart):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encode response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	data, _ := json.Marshal(map[string]string{"error": msg})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

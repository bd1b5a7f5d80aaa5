package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/menu-cart/internal/cart-service/core/domain"
	"github.com/jcmexdev/menu-cart/internal/cart-service/core/ports"
	"github.com/jcmexdev/menu-cart/internal/cart-service/core/service"
	"github.com/jcmexdev/menu-cart/internal/cart-service/infra/catalog"
	"github.com/jcmexdev/menu-cart/internal/cart-service/infra/httpx/middlewares"
	"github.com/jcmexdev/menu-cart/internal/dispatchlog"
)

// CartService is the session API the handlers drive.
type CartService interface {
	CreateSession(ctx context.Context) (string, service.Result, error)
	View(ctx context.Context, id string) (service.Result, error)
	Dispatch(ctx context.Context, id string, in service.Intent) (service.Result, error)
	EndSession(ctx context.Context, id string) error
}

// Handler turns HTTP requests into cart intents and answers with the render model.
type Handler struct {
	carts      CartService
	menu       *catalog.Menu
	formatter  domain.CurrencyFormatter
	dispatches dispatchlog.Reader // nil when the dispatch log is disabled
}

func NewHandler(carts CartService, menu *catalog.Menu, f domain.CurrencyFormatter) *Handler {
	return &Handler{
		carts:     carts,
		menu:      menu,
		formatter: f,
	}
}

// WithDispatchLog exposes the read side of the dispatch log.
func (h *Handler) WithDispatchLog(r dispatchlog.Reader) *Handler {
	h.dispatches = r
	return h
}

// Menu lists the catalog, optionally filtered by ?category=.
func (h *Handler) Menu(w http.ResponseWriter, r *http.Request) {
	sections := h.menu.Filter(r.URL.Query().Get("category"))

	resp := MenuResponse{
		Categories: h.menu.Categories(),
		Sections:   make([]SectionResponse, 0, len(sections)),
	}
	for _, s := range sections {
		sec := SectionResponse{Category: s.Category, Title: s.Title, Dishes: make([]DishResponse, 0, len(s.Dishes))}
		for _, d := range s.Dishes {
			sec.Dishes = append(sec.Dishes, DishResponse{
				ID:           d.ID,
				Name:         d.Name,
				Description:  d.Description,
				Price:        d.Price,
				PriceLabel:   h.formatter.FormatCurrency(d.Price),
				Customizable: !d.Simple,
			})
		}
		resp.Sections = append(resp.Sections, sec)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	id, res, err := h.carts.CreateSession(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.mapResult(id, res))
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := h.carts.View(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.mapResult(id, res))
}

// AddItem adds a catalog dish (opening its customization when it has one) or a
// free-form {name, price} item. Unusable input is a silent no-op.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if !decode(w, r, &req) {
		return
	}

	var in service.Intent
	switch {
	case req.DishID != "":
		if item, ok := h.menu.Lookup(req.DishID); ok {
			if item.Simple {
				in = service.AddItem{Name: item.Name, Price: item.Price}
			} else {
				in = service.StartCustomization{Dish: item.Dish()}
			}
		}
	case req.Name != "":
		if price, ok := parsePrice(req.Price); ok {
			in = service.AddItem{Name: req.Name, Price: price, Options: req.Options}
		}
	}

	h.dispatch(w, r, in)
}

// EndSession forgets the session. Unknown ids are accepted.
func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.EndSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LatestDispatch returns the last order the session handed off.
func (h *Handler) LatestDispatch(w http.ResponseWriter, r *http.Request) {
	if h.dispatches == nil {
		writeError(w, http.StatusNotFound, "dispatch_log_disabled", "")
		return
	}

	id := chi.URLParam(r, "id")
	entry, err := h.dispatches.GetLatest(r.Context(), id)
	if errors.Is(err, dispatchlog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "dispatch_not_found", "")
		return
	}
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	count, err := h.dispatches.CountBySession(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, DispatchResponse{
		ID:            entry.ID,
		SessionID:     entry.SessionID,
		Channel:       string(entry.Channel),
		Message:       entry.Message,
		Link:          entry.Link,
		TotalQuantity: entry.TotalQuantity,
		Total:         entry.TotalPrice,
		TotalLabel:    h.formatter.FormatCurrency(entry.TotalPrice),
		TraceID:       entry.TraceID,
		CreatedAt:     entry.CreatedAt,
		Count:         count,
	})
}

func (h *Handler) SubmitCustomization(w http.ResponseWriter, r *http.Request) {
	var req CustomizationRequest
	if !decode(w, r, &req) {
		return
	}
	h.dispatch(w, r, service.SubmitCustomization{Selection: domain.Selection{
		Style:       req.Style,
		Rice:        req.Rice,
		NoSalad:     req.NoSalad,
		NoPatacones: req.NoPatacones,
		ExtraLime:   req.ExtraLime,
		Notes:       req.Notes,
		Cut:         req.Cut,
	}})
}

func (h *Handler) CancelCustomization(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, service.CancelCustomization{})
}

func (h *Handler) ChangeQuantity(w http.ResponseWriter, r *http.Request) {
	var req QuantityRequest
	if !decode(w, r, &req) {
		return
	}

	var in service.Intent
	switch req.Direction {
	case "increment":
		in = service.ChangeQuantity{Key: req.Key, Delta: 1}
	case "decrement":
		in = service.ChangeQuantity{Key: req.Key, Delta: -1}
	}
	h.dispatch(w, r, in)
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, service.Checkout{})
}

// ConfirmOrder clears the cart and returns the summary; in message mode the
// client opens summary.link in a new browsing context.
func (h *Handler) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, service.ConfirmOrder{})
}

// dispatch sends in to the session. A nil intent answers with the current view.
func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request, in service.Intent) {
	id := chi.URLParam(r, "id")

	var (
		res service.Result
		err error
	)
	if in == nil {
		res, err = h.carts.View(r.Context(), id)
	} else {
		res, err = h.carts.Dispatch(r.Context(), id, in)
	}
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.mapResult(id, res))
}

func (h *Handler) mapResult(id string, res service.Result) CartResponse {
	v := res.View
	resp := CartResponse{
		SessionID:     id,
		Applied:       res.Applied,
		Lines:         make([]LineResponse, 0, len(v.Lines)),
		TotalQuantity: v.TotalQuantity,
		TotalPrice:    v.TotalPrice,
		TotalLabel:    h.formatter.FormatCurrency(v.TotalPrice),
		CountLabel:    v.CountLabel,
		IsEmpty:       v.IsEmpty,
		Toasts:        res.Toasts,
	}
	for _, l := range v.Lines {
		resp.Lines = append(resp.Lines, LineResponse{
			Key:            l.Key,
			Name:           l.Name,
			Options:        l.Options,
			Quantity:       l.Quantity,
			UnitPrice:      l.UnitPrice,
			UnitPriceLabel: h.formatter.FormatCurrency(l.UnitPrice),
			LineTotal:      l.LineTotal,
			LineTotalLabel: h.formatter.FormatCurrency(l.LineTotal),
		})
	}
	if p := res.Pending; p != nil {
		resp.Pending = &PendingResponse{
			Name:             p.Dish.Name,
			BasePrice:        p.Dish.BasePrice,
			RiceApplicable:   p.Dish.RiceApplicable,
			StyleApplicable:  p.Dish.StyleApplicable,
			CutApplicable:    p.Dish.CutApplicable(),
			CoconutSurcharge: p.Dish.CoconutSurcharge,
			SurchargeNote:    p.SurchargeNote,
		}
	}
	if s := res.Summary; s != nil {
		resp.Summary = &SummaryResponse{
			Mode:          string(s.Mode),
			Text:          s.Text,
			Link:          s.Link,
			TotalQuantity: s.TotalQuantity,
			Total:         s.Total,
			TotalLabel:    h.formatter.FormatCurrency(s.Total),
		}
	}
	return resp
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ports.ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, "session_not_found", "")
		return
	}
	slog.ErrorContext(r.Context(), "cart service failure",
		"request_id", middlewares.RequestID(r.Context()),
		"error", err,
	)
	writeError(w, http.StatusInternalServerError, "internal_error", "")
}

// parsePrice accepts a JSON integer. Strings, fractions and null are rejected.
func parsePrice(raw json.RawMessage) (int64, bool) {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return 0, false
	}
	var price int64
	if err := json.Unmarshal(raw, &price); err != nil {
		return 0, false
	}
	return price, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}

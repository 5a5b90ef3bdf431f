package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/doyeonstory/backend/internal/model/design"
	"github.com/doyeonstory/backend/internal/model/order"
	"github.com/doyeonstory/backend/pkg/utils"
)

const maxQuoteQuantity = 1000

// Quoter prices an order form without placing it.
type Quoter interface {
	Quote(in order.Input) int
}

// Handler serves the read-only design catalog and price quotes.
type Handler struct {
	catalog design.Catalog
	quoter  Quoter
}

// New creates the catalog handler.
func New(catalog design.Catalog, quoter Quoter) *Handler {
	return &Handler{catalog: catalog, quoter: quoter}
}

// RegisterRoutes mounts the catalog routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/designs", h.handleListDesigns)
	r.Get("/designs/standard", h.handleListStandard)
	r.Get("/designs/filters", h.handleFilters)
	r.Post("/orders/quote", h.handleQuote)
}

func (h *Handler) handleListDesigns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	criteria := design.Criteria{
		Style: q.Get("style"),
		Theme: q.Get("theme"),
		Color: q.Get("color"),
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"criteria": criteria,
		"designs":  design.Filter(h.catalog.List(design.SourceGallery), criteria),
	})
}

func (h *Handler) handleListStandard(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"designs": h.catalog.List(design.SourceStandard),
	})
}

func (h *Handler) handleFilters(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, design.Options())
}

func (h *Handler) handleQuote(w http.ResponseWriter, r *http.Request) {
	var in order.Input
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	in = in.Normalized()
	if in.Quantity < 1 || in.Quantity > maxQuoteQuantity {
		utils.RespondError(w, http.StatusUnprocessableEntity, "quantity must be between 1 and 1000")
		return
	}
	if in.Options.Envelope != order.EnvelopeNone && in.Options.Envelope != order.EnvelopeBasic && in.Options.Envelope != order.EnvelopePremium {
		utils.RespondError(w, http.StatusUnprocessableEntity, "unknown envelope option")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"quantity": in.Quantity,
		"total":    h.quoter.Quote(in),
	})
}

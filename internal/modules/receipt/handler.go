package receipt

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/comandero/pos-core/internal/modules/catalog"
	"github.com/comandero/pos-core/internal/modules/dispatch"
	"github.com/comandero/pos-core/internal/modules/settings"
	"github.com/comandero/pos-core/internal/modules/table"
)

// Handler exposes print-payload HTTP endpoints. Responses are the raw command
// byte streams handed to the device-transport collaborator; the connection
// lifecycle is not managed here.
type Handler struct {
	tables   table.Service
	dispatch dispatch.Service
	catalog  catalog.Service
	settings settings.Service
}

func NewHandler(tables table.Service, disp dispatch.Service, cat catalog.Service, cfg settings.Service) *Handler {
	return &Handler{tables: tables, dispatch: disp, catalog: cat, settings: cfg}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/print", func(r chi.Router) {
		r.Get("/test", h.testPrint)                          // GET /api/v1/print/test
		r.Get("/tables/{number}/receipt", h.receipt)         // GET /api/v1/print/tables/{number}/receipt?method=&waiter=
		r.Get("/tables/{number}/comanda", h.comanda)         // GET /api/v1/print/tables/{number}/comanda?waiter=&copy=1
		r.Get("/tables/{number}/ticket", h.kitchenTicket)    // GET /api/v1/print/tables/{number}/ticket?waiter=
	})
}

func (h *Handler) codec(r *http.Request) (*Codec, error) {
	profile, err := h.catalog.Profile(r.Context())
	if err != nil {
		return nil, err
	}
	cfg, err := h.settings.Get(r.Context())
	if err != nil {
		return nil, err
	}
	return NewCodec(profile.Name, string(cfg.PrinterPaperWidth)), nil
}

func (h *Handler) testPrint(w http.ResponseWriter, r *http.Request) {
	c, err := h.codec(r)
	if err != nil {
		respondErr(w, http.StatusInternalServerError, err)
		return
	}
	respondBytes(w, c.TestPrint())
}

func (h *Handler) receipt(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		respondErr(w, http.StatusBadRequest, err)
		return
	}
	t, err := h.tables.Get(r.Context(), number)
	if err != nil {
		respondErr(w, statusFor(err), err)
		return
	}
	c, err := h.codec(r)
	if err != nil {
		respondErr(w, http.StatusInternalServerError, err)
		return
	}
	q := r.URL.Query()
	respondBytes(w, c.Receipt(t.Order, t.CustomerName, q.Get("method"), t.Observations, q.Get("waiter")))
}

func (h *Handler) comanda(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		respondErr(w, http.StatusBadRequest, err)
		return
	}
	t, err := h.tables.Get(r.Context(), number)
	if err != nil {
		respondErr(w, statusFor(err), err)
		return
	}
	c, err := h.codec(r)
	if err != nil {
		respondErr(w, http.StatusInternalServerError, err)
		return
	}
	printType := PrintOriginal
	if r.URL.Query().Get("copy") != "" {
		printType = PrintCopy
	}
	respondBytes(w, c.Comanda(t, r.URL.Query().Get("waiter"), printType))
}

// kitchenTicket renders the pending dispatch delta as a printable ticket
// without advancing the snapshot; the send action owns that.
func (h *Handler) kitchenTicket(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		respondErr(w, http.StatusBadRequest, err)
		return
	}
	d, err := h.dispatch.Preview(r.Context(), number, r.URL.Query().Get("waiter"))
	if err != nil {
		respondErr(w, statusFor(err), err)
		return
	}
	c, err := h.codec(r)
	if err != nil {
		respondErr(w, http.StatusInternalServerError, err)
		return
	}
	respondBytes(w, c.KitchenTicket(d.Table, r.URL.Query().Get("waiter"), d.Action, d.Items))
}

func statusFor(err error) int {
	if errors.Is(err, table.ErrTableNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func respondBytes(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func respondErr(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

package httpx

import (
	"net/http"
	"time"

	"github.com/ariefcatur/go-pizzaria-orders/internal/feedback"
	"github.com/ariefcatur/go-pizzaria-orders/internal/identity"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type FeedbackHandler struct {
	Ledger  *feedback.Ledger
	Timeout time.Duration
	Log     *zap.Logger
}

type addFeedbackReq struct {
	Name    string `json:"name"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *FeedbackHandler) Register(r chi.Router) {
	r.Get("/feedbacks", h.list)
	r.Post("/feedbacks", h.add)
}

func (h *FeedbackHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r, h.Timeout)
	defer cancel()

	list, err := h.Ledger.List(ctx)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	s := feedback.Summarize(list)
	writeJSON(w, http.StatusOK, feedbackListView{Feedbacks: list, Count: s.Count, Average: s.Display})
}

func (h *FeedbackHandler) add(w http.ResponseWriter, r *http.Request) {
	var req addFeedbackReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	if req.Name == "" {
		req.Name = identity.FromContext(r.Context()).Name
	}

	ctx, cancel := withTimeout(r, h.Timeout)
	defer cancel()

	f, err := h.Ledger.Add(ctx, req.Name, req.Rating, req.Comment)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

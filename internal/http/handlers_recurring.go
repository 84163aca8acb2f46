package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	applog "financas/internal/log"
)

func (s *Server) handleListRecurring(w http.ResponseWriter, r *http.Request) {
	views, err := s.svc.Recurring.List(r.Context(), ownerID(r))
	if err != nil {
		handleError(w, r, applog.OpList, err)
		return
	}
	out := make([]recurringResponse, len(views))
	for i, v := range views {
		out[i] = toRecurringView(v)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateRecurring(w http.ResponseWriter, r *http.Request) {
	var req createRecurringRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	rec, err := s.svc.Recurring.Create(r.Context(), req.recurring(ownerID(r)))
	if err != nil {
		handleError(w, r, applog.OpCreate, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRecurringResponse(rec))
}

func (s *Server) handleToggleRecurring(w http.ResponseWriter, r *http.Request) {
	rec, err := s.svc.Recurring.Toggle(r.Context(), ownerID(r), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, applog.OpUpdate, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecurringResponse(rec))
}

func (s *Server) handleDeleteRecurring(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Recurring.Delete(r.Context(), ownerID(r), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, applog.OpDelete, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	applog "financas/internal/log"
)

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Cards.List(r.Context(), ownerID(r))
	if err != nil {
		handleError(w, r, applog.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, toCardListResponse(list))
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	c, err := s.svc.Cards.Create(r.Context(), req.card(ownerID(r)))
	if err != nil {
		handleError(w, r, applog.OpCreate, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCardResponse(c))
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	c, err := s.svc.Cards.Update(r.Context(), ownerID(r), chi.URLParam(r, "id"), req.patch())
	if err != nil {
		handleError(w, r, applog.OpUpdate, err)
		return
	}
	writeJSON(w, http.StatusOK, toCardResponse(c))
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Cards.Delete(r.Context(), ownerID(r), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, applog.OpDelete, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

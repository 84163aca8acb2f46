package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"financas/internal/identity"
	applog "financas/internal/log"
)

func ownerID(r *http.Request) string {
	return identity.OwnerID(r.Context())
}

// handleListTransactions returns every transaction of the owner, or the
// monthly view when a period is given.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	period, search := q.Get("period"), q.Get("q")

	if period == "" && search == "" {
		txs, err := s.svc.Transactions.List(r.Context(), ownerID(r))
		if err != nil {
			handleError(w, r, applog.OpList, err)
			return
		}
		writeJSON(w, http.StatusOK, toTransactionResponses(txs))
		return
	}

	view, err := s.svc.Transactions.MonthView(r.Context(), ownerID(r), period, search)
	if err != nil {
		handleError(w, r, applog.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, toMonthViewResponse(view))
}

func (s *Server) handlePeriods(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"periods": s.svc.Transactions.Periods()})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	t, err := s.svc.Transactions.Create(r.Context(), req.transaction(ownerID(r)))
	if err != nil {
		handleError(w, r, applog.OpCreate, err)
		return
	}
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Transaction created",
		applog.NewFields().WithOwner(t.OwnerID).WithTransaction(t.ID, t.Period(), t.Amount.Cents, t.Category).ToSlice()...)
	writeJSON(w, http.StatusCreated, toTransactionResponse(t))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req updateTransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	t, err := s.svc.Transactions.Update(r.Context(), ownerID(r), chi.URLParam(r, "id"), req.patch())
	if err != nil {
		handleError(w, r, applog.OpUpdate, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponse(t))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Transactions.Delete(r.Context(), ownerID(r), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, applog.OpDelete, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

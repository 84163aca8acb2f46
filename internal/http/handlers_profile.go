package http

import (
	"net/http"

	"financas/internal/core"
	"financas/internal/identity"
	applog "financas/internal/log"
)

func claims(r *http.Request) core.Profile {
	id, _ := identity.FromContext(r.Context())
	return id.Profile()
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Profiles.Get(r.Context(), claims(r))
	if err != nil {
		handleError(w, r, "get_profile", err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(p))
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	p, err := s.svc.Profiles.Update(r.Context(), claims(r), req.Name, req.Picture)
	if err != nil {
		handleError(w, r, applog.OpUpdate, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(p))
}

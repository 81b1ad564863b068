package adapthttp

import "net/http"

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	user, err := s.accounts.Profile(r.Context(), p.UserID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	items, err := s.accounts.History(r.Context(), p.UserID, intQuery(r, "limit", 50))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

package adapthttp

import (
	"net/http"
)

type createBookingRequest struct {
	ClassID string `json:"classId" validate:"required"`
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	var req createBookingRequest
	if err := s.bind(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	booking, err := s.bookings.CreateBooking(r.Context(), p.UserID, req.ClassID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	items, err := s.bookings.ListBookings(r.Context(), p.UserID, intQuery(r, "limit", 50))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

package adapthttp

import (
	"net/http"

	"classbook/internal/app"

	"github.com/go-chi/chi/v5"
)

type classRequest struct {
	Title            string `json:"title" validate:"required,max=200"`
	Date             string `json:"date" validate:"required"`
	StartTime        string `json:"startTime" validate:"required"`
	EndTime          string `json:"endTime" validate:"required"`
	IsRecurringClass bool   `json:"isRecurringClass"`
	Frequency        string `json:"frequency" validate:"required_if=IsRecurringClass true"`
	EndDate          string `json:"endDate" validate:"required_if=IsRecurringClass true"`
	MaxCapacity      int    `json:"maxCapacity" validate:"required,gt=0"`
}

func (c classRequest) input() app.ClassInput {
	return app.ClassInput{
		Title:            c.Title,
		Date:             c.Date,
		StartTime:        c.StartTime,
		EndTime:          c.EndTime,
		IsRecurringClass: c.IsRecurringClass,
		Frequency:        c.Frequency,
		EndDate:          c.EndDate,
		MaxCapacity:      c.MaxCapacity,
	}
}

func (s *Server) handleListClasses(w http.ResponseWriter, r *http.Request) {
	items, err := s.classes.ListClasses(r.Context(), intQuery(r, "limit", 100))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleGetClass(w http.ResponseWriter, r *http.Request) {
	c, err := s.classes.GetClass(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleCreateClass(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	var req classRequest
	if err := s.bind(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := s.classes.CreateClass(r.Context(), p.UserID, p.Role, req.input())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleUpdateClass(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	var req classRequest
	if err := s.bind(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := s.classes.UpdateClass(r.Context(), p.UserID, p.Role, chi.URLParam(r, "id"), req.input())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

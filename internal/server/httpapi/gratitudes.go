package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/leeya018/gratitudes/internal/common"
	"github.com/leeya018/gratitudes/internal/server/models"
	"github.com/leeya018/gratitudes/internal/server/services"
)

type gratitudeDTO struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type addGratitudeRequest struct {
	Gratitude *string `json:"gratitude"`
}

type addGratitudeResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

type countResponse struct {
	Count int `json:"count"`
}

type todayResponse struct {
	Date       string         `json:"date"`
	Gratitudes []gratitudeDTO `json:"gratitudes"`
	Count      int            `json:"count"`
	Limit      int            `json:"limit"`
	Complete   bool           `json:"complete"`
}

type dayResponse struct {
	Date       string         `json:"date"`
	Gratitudes []gratitudeDTO `json:"gratitudes"`
}

type datesResponse struct {
	Dates []string `json:"dates"`
}

func toGratitudeDTOs(list []*models.Gratitude) []gratitudeDTO {
	out := make([]gratitudeDTO, 0, len(list))
	for _, g := range list {
		out = append(out, gratitudeDTO{ID: g.ID, Text: g.Text, CreatedAt: g.CreatedAt.UTC()})
	}
	return out
}

func userID(r *http.Request) string {
	id, _ := UserIDFromContext(r.Context())
	return id
}

func (s *Server) gratitudeCount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, countResponse{Count: s.gratitudes.CountToday(r.Context(), userID(r))})
}

func (s *Server) addGratitude(w http.ResponseWriter, r *http.Request) {
	var req addGratitudeRequest
	if !decodeJSON(w, r, maxJSONBody, &req) {
		return
	}
	if req.Gratitude == nil {
		writeError(w, http.StatusBadRequest, "Gratitude is required")
		return
	}

	count, err := s.gratitudes.Add(r.Context(), userID(r), *req.Gratitude)
	if err != nil {
		if errors.Is(err, common.ErrLimitReached) {
			s.metrics.LimitRejections.Inc()
		}
		s.writeServiceError(w, r, err)
		return
	}

	s.metrics.GratitudesAdded.Inc()
	writeJSON(w, http.StatusOK, addGratitudeResponse{Message: "Gratitude added successfully", Count: count})
}

func (s *Server) gratitudesToday(w http.ResponseWriter, r *http.Request) {
	day, list := s.gratitudes.Today(r.Context(), userID(r))
	limit := s.gratitudes.Limit()

	writeJSON(w, http.StatusOK, todayResponse{
		Date:       day.Format(common.DateLayout),
		Gratitudes: toGratitudeDTOs(list),
		Count:      len(list),
		Limit:      limit,
		Complete:   len(list) >= limit,
	})
}

func (s *Server) gratitudeDates(w http.ResponseWriter, r *http.Request) {
	dates := s.gratitudes.Dates(r.Context(), userID(r))
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Format(common.DateLayout))
	}
	writeJSON(w, http.StatusOK, datesResponse{Dates: out})
}

func (s *Server) gratitudesForDate(w http.ResponseWriter, r *http.Request) {
	day, err := services.ParseDay(chi.URLParam(r, "date"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	list := s.gratitudes.ForDate(r.Context(), userID(r), day)
	writeJSON(w, http.StatusOK, dayResponse{Date: day.Format(common.DateLayout), Gratitudes: toGratitudeDTOs(list)})
}

package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/leeya018/gratitudes/internal/server/models"
	"github.com/leeya018/gratitudes/internal/server/services"
)

type sentenceDTO struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	HasAudio  bool      `json:"hasAudio"`
	AudioURL  string    `json:"audioUrl,omitempty"`
}

type sentencesResponse struct {
	Sentences []sentenceDTO `json:"sentences"`
}

type createSentenceRequest struct {
	Text       string `json:"text"`
	Target     string `json:"target"`
	Emotions   string `json:"emotions"`
	Characters string `json:"characters"`
}

type updateSentenceRequest struct {
	Text string `json:"text"`
}

type audioRequest struct {
	AudioData string `json:"audioData"`
}

// toSentenceDTO attaches a presigned audio URL when one can be produced;
// a presign failure only drops the URL.
func (s *Server) toSentenceDTO(r *http.Request, m *models.Sentence) sentenceDTO {
	dto := sentenceDTO{ID: m.ID, Text: m.Text, CreatedAt: m.CreatedAt.UTC(), HasAudio: m.HasAudio()}
	if m.HasAudio() {
		url, err := s.sentences.AudioURL(r.Context(), m)
		if err != nil {
			s.logger.Warn(r.Context(), "presign audio url failed", "sentence_id", m.ID, "error", err)
		} else {
			dto.AudioURL = url
		}
	}
	return dto
}

func (s *Server) listSentences(w http.ResponseWriter, r *http.Request) {
	list, err := s.sentences.List(r.Context(), userID(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	out := make([]sentenceDTO, 0, len(list))
	for _, m := range list {
		out = append(out, s.toSentenceDTO(r, m))
	}
	writeJSON(w, http.StatusOK, sentencesResponse{Sentences: out})
}

func (s *Server) createSentence(w http.ResponseWriter, r *http.Request) {
	var req createSentenceRequest
	if !decodeJSON(w, r, maxJSONBody, &req) {
		return
	}

	text := req.Text
	if text == "" {
		composed, err := services.Compose(req.Target, req.Emotions, req.Characters)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		text = composed
	}

	created, err := s.sentences.Create(r.Context(), userID(r), text)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.metrics.SentencesCreated.Inc()
	writeJSON(w, http.StatusCreated, s.toSentenceDTO(r, created))
}

func (s *Server) updateSentence(w http.ResponseWriter, r *http.Request) {
	var req updateSentenceRequest
	if !decodeJSON(w, r, maxJSONBody, &req) {
		return
	}

	updated, err := s.sentences.UpdateText(r.Context(), userID(r), chi.URLParam(r, "id"), req.Text)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toSentenceDTO(r, updated))
}

func (s *Server) deleteSentence(w http.ResponseWriter, r *http.Request) {
	if err := s.sentences.Delete(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// audioBodyLimit allows for base64 expansion and a data URL header.
func (s *Server) audioBodyLimit() int64 {
	if s.opts.MaxAudioBytes <= 0 {
		return maxJSONBody
	}
	return s.opts.MaxAudioBytes/3*4 + 4 + maxJSONBody
}

func (s *Server) putSentenceAudio(w http.ResponseWriter, r *http.Request) {
	var req audioRequest
	if !decodeJSON(w, r, s.audioBodyLimit(), &req) {
		return
	}

	updated, err := s.sentences.AttachAudio(r.Context(), userID(r), chi.URLParam(r, "id"), req.AudioData)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.metrics.AudioUploads.Inc()
	writeJSON(w, http.StatusOK, s.toSentenceDTO(r, updated))
}

func (s *Server) getSentenceAudio(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := s.sentences.Audio(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

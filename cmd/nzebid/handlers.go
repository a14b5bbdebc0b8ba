package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/nzebi/dico/pkg/conjugate"
	"github.com/nzebi/dico/pkg/lexicon"
	"github.com/nzebi/dico/pkg/word"
)

const maxBodySize = 1 << 20

type ErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

type WordResponse struct {
	Word         *word.Word                   `json:"word"`
	Category     string                       `json:"category,omitempty"`
	Conjugations map[conjugate.Tense][]string `json:"conjugations,omitempty"`
	Favorite     bool                         `json:"favorite"`
	// Warning is set when the local change was saved but the remote
	// database did not accept it.
	Warning string `json:"warning,omitempty"`
}

type CategoryResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Depth    int    `json:"depth"`
	Count    int    `json:"count"`
	ParentID string `json:"parent_id,omitempty"`
}

// respondError maps the service errors to HTTP statuses.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	var verr *word.ValidationError
	switch {
	case errors.As(err, &verr):
		s.respondJSON(w, &ErrorResponse{Error: "validation failed", Fields: verr.Fields}, http.StatusBadRequest)
	case errors.Is(err, lexicon.ErrNotFound):
		s.respondJSON(w, &ErrorResponse{Error: "word not found"}, http.StatusNotFound)
	default:
		s.logger.Error("Request failed", zap.Error(err))
		s.respondJSON(w, &ErrorResponse{Error: err.Error()}, http.StatusInternalServerError)
	}
}

func (s *Server) wordResponse(w *word.Word, err error) *WordResponse {
	response := &WordResponse{
		Word:     w,
		Category: s.service.Categories().Name(w.PartOfSpeech),
	}
	if errors.Is(err, lexicon.ErrRemoteWrite) {
		response.Warning = err.Error()
	}
	return response
}

func (s *Server) handleBrowse() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		offset, err := intParam(query.Get("offset"), 0)
		if err != nil {
			s.respondJSON(w, &ErrorResponse{Error: "invalid offset"}, http.StatusBadRequest)
			return
		}
		limit, err := intParam(query.Get("limit"), s.pageLimit)
		if err != nil {
			s.respondJSON(w, &ErrorResponse{Error: "invalid limit"}, http.StatusBadRequest)
			return
		}
		page := s.service.Browse(r.Context(), query.Get("q"), query.Get("category"), offset, limit)
		s.respondJSON(w, &page, http.StatusOK)
	}
}

func (s *Server) handleGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenses := conjugate.Tenses()
		if name := r.URL.Query().Get("tense"); name != "" {
			tense, err := conjugate.ParseTense(name)
			if err != nil {
				s.respondJSON(w, &ErrorResponse{Error: err.Error(), Fields: []string{"tense"}}, http.StatusBadRequest)
				return
			}
			tenses = []conjugate.Tense{tense}
		}
		found, err := s.service.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			s.respondError(w, err)
			return
		}
		response := s.wordResponse(found, nil)
		if response.Favorite, err = s.service.IsFavorite(r.Context(), found.ID); err != nil {
			s.respondError(w, err)
			return
		}
		if found.IsVerb.Value() || found.PartOfSpeech == "verb" {
			response.Conjugations = conjugations(found.Translation, tenses)
		}
		s.respondJSON(w, response, http.StatusOK)
	}
}

func (s *Server) handleAdd() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, ok := s.decodeForm(w, r)
		if !ok {
			return
		}
		form.ID = ""
		added, err := s.service.Add(r.Context(), *form)
		if added == nil {
			s.respondError(w, err)
			return
		}
		s.respondJSON(w, s.wordResponse(added, err), http.StatusCreated)
	}
}

func (s *Server) handleEdit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, ok := s.decodeForm(w, r)
		if !ok {
			return
		}
		form.ID = chi.URLParam(r, "id")
		edited, err := s.service.Edit(r.Context(), *form)
		if edited == nil {
			s.respondError(w, err)
			return
		}
		s.respondJSON(w, s.wordResponse(edited, err), http.StatusOK)
	}
}

func (s *Server) handleDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deleted, err := s.service.Delete(r.Context(), chi.URLParam(r, "id"))
		if !deleted {
			s.respondError(w, err)
			return
		}
		response := struct {
			Deleted bool   `json:"deleted"`
			Warning string `json:"warning,omitempty"`
		}{Deleted: true}
		if err != nil {
			response.Warning = err.Error()
		}
		s.respondJSON(w, &response, http.StatusOK)
	}
}

func (s *Server) handleCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts := s.service.CategoryCounts(r.Context())
		categories := []CategoryResponse{}
		var parents []string
		s.service.Categories().Walk(func(c *word.Category, depth int) bool {
			parents = append(parents[:depth], c.ID)
			response := CategoryResponse{
				ID:    c.ID,
				Name:  c.Name,
				Depth: depth,
				Count: counts[c.ID],
			}
			if depth > 0 {
				response.ParentID = parents[depth-1]
			}
			categories = append(categories, response)
			return true
		})
		s.respondJSON(w, &categories, http.StatusOK)
	}
}

func (s *Server) handleFavorites() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		favorites, err := s.service.Favorites(r.Context())
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondJSON(w, &favorites, http.StatusOK)
	}
}

func (s *Server) handleToggleFavorite() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		on, err := s.service.ToggleFavorite(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondJSON(w, &struct {
			Favorite bool `json:"favorite"`
		}{Favorite: on}, http.StatusOK)
	}
}

func (s *Server) handleGetState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var state json.RawMessage
		ok, err := s.service.LoadState(r.Context(), chi.URLParam(r, "name"), &state)
		if err != nil {
			s.respondError(w, err)
			return
		}
		if !ok {
			s.respondJSON(w, &ErrorResponse{Error: "no saved state"}, http.StatusNotFound)
			return
		}
		s.respondJSON(w, state, http.StatusOK)
	}
}

func (s *Server) handlePutState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var state json.RawMessage
		decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
		if err := decoder.Decode(&state); err != nil {
			s.respondJSON(w, &ErrorResponse{Error: "invalid body: " + err.Error()}, http.StatusBadRequest)
			return
		}
		if err := s.service.SaveState(r.Context(), chi.URLParam(r, "name"), state); err != nil {
			s.respondError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleInvalidate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.service.Invalidate()
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) decodeForm(w http.ResponseWriter, r *http.Request) (*word.FormValues, bool) {
	var form word.FormValues
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := decoder.Decode(&form); err != nil {
		s.respondJSON(w, &ErrorResponse{Error: "invalid body: " + err.Error()}, http.StatusBadRequest)
		return nil, false
	}
	return &form, true
}

func intParam(value string, fallback int) (int, error) {
	if value == "" {
		return fallback, nil
	}
	return strconv.Atoi(value)
}

// conjugations is nil when the verb has no supported group.
func conjugations(verb string, tenses []conjugate.Tense) map[conjugate.Tense][]string {
	tables := make(map[conjugate.Tense][]string)
	for _, tense := range tenses {
		forms, err := conjugate.Conjugate(verb, tense)
		if err != nil {
			return nil
		}
		tables[tense] = forms
	}
	return tables
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	ierrors "github.com/Jboschlagos/Emmet-Cloude/internal/errors"
	"github.com/Jboschlagos/Emmet-Cloude/pkg/emmet"
	"github.com/Jboschlagos/Emmet-Cloude/pkg/middleware"
	"github.com/Jboschlagos/Emmet-Cloude/pkg/snippets"
)

type expandRequest struct {
	Abbreviation string `json:"abbreviation"`
}

type expandResponse struct {
	Markup string `json:"markup"`
}

type loremResponse struct {
	Words int    `json:"words"`
	Text  string `json:"text"`
}

type snippetList struct {
	Snippets []*snippets.Snippet `json:"snippets"`
}

type errorResponse struct {
	Error any    `json:"error"`
	Hint  string `json:"hint,omitempty"`
}

// expand runs one traced and counted expansion. Blank input yields empty
// markup without touching the expander.
func (s *Server) expand(ctx context.Context, abbr string) (string, error) {
	if strings.TrimSpace(abbr) == "" {
		middleware.RecordExpansion(middleware.OutcomeEmpty, len(abbr))
		return "", nil
	}

	_, span := middleware.StartExpandSpan(ctx, abbr)
	markup, err := s.expander.Expand(abbr)
	middleware.FinishExpandSpan(span, len(markup), err)

	switch {
	case err == nil:
		middleware.RecordExpansion(middleware.OutcomeOK, len(abbr))
	case errors.Is(err, emmet.ErrUnrecognized):
		middleware.RecordExpansion(middleware.OutcomeFailed, len(abbr))
		s.logger.Warn("expansion failed", "error", err)
	default:
		middleware.RecordExpansion(middleware.OutcomeRejected, len(abbr))
	}
	return markup, err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleExpandQuery(w http.ResponseWriter, r *http.Request) {
	s.respondExpand(w, r, r.URL.Query().Get("abbr"))
}

func (s *Server) handleExpandBody(w http.ResponseWriter, r *http.Request) {
	var req expandRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.respondExpand(w, r, req.Abbreviation)
}

func (s *Server) respondExpand(w http.ResponseWriter, r *http.Request, abbr string) {
	markup, err := s.expand(r.Context(), abbr)
	if err != nil {
		s.writeExpandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expandResponse{Markup: markup})
}

func (s *Server) handleLorem(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "n")
	n, err := strconv.Atoi(raw)
	limit := s.expander.Options().MaxLoremWords
	if err != nil || n < 0 || (limit > 0 && n > limit) {
		detail := fmt.Sprintf("Word count %q is not a non-negative integer.", raw)
		if limit > 0 {
			detail = fmt.Sprintf("Word count %q must be an integer between 0 and %d.", raw, limit)
		}
		writeError(w, http.StatusBadRequest, ierrors.New("E142").WithDetail(detail), "")
		return
	}
	writeJSON(w, http.StatusOK, loremResponse{Words: n, Text: emmet.PlaceholderText(n)})
}

func (s *Server) handleListSnippets(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if list == nil {
		list = []*snippets.Snippet{}
	}
	writeJSON(w, http.StatusOK, snippetList{Snippets: list})
}

func (s *Server) handleCreateSnippet(w http.ResponseWriter, r *http.Request) {
	var req expandRequest
	if !s.decode(w, r, &req) {
		return
	}
	abbr := strings.TrimSpace(req.Abbreviation)
	if abbr == "" {
		writeError(w, http.StatusBadRequest, ierrors.New("E061").
			WithDetail("A snippet needs a non-empty abbreviation."), "")
		return
	}

	markup, err := s.expand(r.Context(), abbr)
	if err != nil {
		s.writeExpandError(w, err)
		return
	}

	sn := &snippets.Snippet{Abbreviation: abbr, Markup: markup}
	if _, err := s.store.Save(r.Context(), sn); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.logger.Debug("snippet saved", "id", sn.ID)
	writeJSON(w, http.StatusCreated, sn)
}

func (s *Server) handleGetSnippet(w http.ResponseWriter, r *http.Request) {
	sn, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sn)
}

func (s *Server) handleDeleteSnippet(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decode reads a size-limited JSON body into v. It writes the error
// response itself and reports whether decoding succeeded.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeError(w, status, ierrors.New("E061").WithDetail(err.Error()).Wrap(err), "")
		return false
	}
	return true
}

func (s *Server) writeExpandError(w http.ResponseWriter, err error) {
	ee := ierrors.FromError(err, "E003")
	status := http.StatusUnprocessableEntity
	if errors.Is(err, emmet.ErrInputTooLong) {
		status = http.StatusRequestEntityTooLarge
	}
	writeError(w, status, ee, emmet.UnrecognizedHint)
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, snippets.ErrNotFound) {
		writeError(w, http.StatusNotFound, ierrors.New("E080"), "")
		return
	}
	if errors.Is(err, snippets.ErrInvalid) {
		writeError(w, http.StatusBadRequest, ierrors.New("E061").WithDetail(err.Error()), "")
		return
	}
	s.logger.Error("snippet store failure", "error", err)
	writeError(w, http.StatusInternalServerError, ierrors.New("E081").Wrap(err), "")
}

func writeError(w http.ResponseWriter, status int, err *ierrors.EmmetError, hint string) {
	writeJSON(w, status, errorResponse{Error: err.JSON(), Hint: hint})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

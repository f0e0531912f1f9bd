package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/seqline/pkg/buildinfo"
	"github.com/matzehuels/seqline/pkg/diagram"
	"github.com/matzehuels/seqline/pkg/engine"
	apperrors "github.com/matzehuels/seqline/pkg/errors"
	"github.com/matzehuels/seqline/pkg/layout"
)

// layoutResponse carries the scene plus the document the pass actually laid
// out, which differs from the request body when repair fired.
type layoutResponse struct {
	Scene    *layout.Scene     `json:"scene"`
	Document *diagram.Document `json:"document"`
	Repaired bool              `json:"repaired"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var doc diagram.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode document"))
		return
	}

	repaired := false
	eng := engine.New(&doc, s.theme, s.logger)
	eng.SetOnDocumentChange(func(*diagram.Document) { repaired = true })
	scene := eng.Layout(r.Context())

	s.writeJSON(w, http.StatusOK, layoutResponse{
		Scene:    scene,
		Document: &doc,
		Repaired: repaired,
	})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeStore, err, "list documents"))
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"ids": ids})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeStore, err, "load document %s", id))
		return
	}
	if doc == nil {
		s.writeError(w, r, apperrors.New(apperrors.ErrCodeDocumentNotFound, "document %s not found", id))
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var doc diagram.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode document"))
		return
	}
	// The URL is authoritative for the ID.
	doc.ID = id

	if err := doc.Validate(); err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeInvalidDocument, err, "document %s invalid", id))
		return
	}
	if err := s.store.Put(r.Context(), &doc); err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeStore, err, "save document %s", id))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeStore, err, "delete document %s", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
	})
}

// =============================================================================
// Response helpers
// =============================================================================

type errorBody struct {
	Error struct {
		Code    apperrors.Code `json:"code"`
		Message string         `json:"message"`
	} `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperrors.GetCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}

	var body errorBody
	body.Error.Code = code
	body.Error.Message = apperrors.UserMessage(err)
	s.writeJSON(w, status, body)
}

func statusFor(code apperrors.Code) int {
	switch code {
	case apperrors.ErrCodeInvalidInput,
		apperrors.ErrCodeInvalidDocument,
		apperrors.ErrCodeInvalidLifeline,
		apperrors.ErrCodeInvalidNode,
		apperrors.ErrCodeInvalidProcess,
		apperrors.ErrCodeInvalidTheme,
		apperrors.ErrCodeInvalidDrag:
		return http.StatusBadRequest
	case apperrors.ErrCodeNotFound,
		apperrors.ErrCodeDocumentNotFound,
		apperrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

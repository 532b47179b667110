package web

import (
	"encoding/json"
	"errors"
	"net/http"
)

const maxCompareBody = 1 << 20

// handleCompareSmartphones accepts a JSON array of ids and returns the
// smartphones that exist among them.
func (s *Server) handleCompareSmartphones(w http.ResponseWriter, r *http.Request) {
	var ids []int64
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCompareBody))
	if err := dec.Decode(&ids); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeBodyError(w, err)
			return
		}
		s.writeError(w, http.StatusBadRequest, "body must be a JSON array of smartphone ids")
		return
	}
	if ids == nil {
		s.writeError(w, http.StatusBadRequest, "body must be a JSON array of smartphone ids")
		return
	}

	phones, err := s.service.Compare(r.Context(), ids)
	if err != nil {
		s.writeServiceError(w, "compare smartphones", err)
		return
	}
	s.writeJSON(w, http.StatusOK, phones)
}

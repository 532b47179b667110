package web

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gabriel-vasile/mimetype"
)

func (s *Server) handleGetImage(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid smartphone id")
		return
	}

	rc, name, err := s.service.OpenImage(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, "open image", err)
		return
	}
	defer closeWithLog(rc, "image reader", s.logger)

	data, err := io.ReadAll(rc)
	if err != nil {
		s.logger.Error("read image failed", "id", id, "image", name, "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	// Extensions are only checked at upload time; serve what the bytes are.
	w.Header().Set("Content-Type", mimetype.Detect(data).String())
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if _, err := w.Write(data); err != nil {
		s.logger.Error("write image failed", "id", id, "error", err)
	}
}

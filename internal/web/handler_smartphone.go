package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/vbonduro/phonecat/internal/domain"
)

func (s *Server) handleListSmartphones(w http.ResponseWriter, r *http.Request) {
	phones, err := s.service.List(r.Context())
	if err != nil {
		s.writeServiceError(w, "list smartphones", err)
		return
	}
	s.writeJSON(w, http.StatusOK, phones)
}

func (s *Server) handleGetSmartphone(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid smartphone id")
		return
	}

	phone, err := s.service.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, "get smartphone", err)
		return
	}
	s.writeJSON(w, http.StatusOK, phone)
}

func (s *Server) handleCreateSmartphone(w http.ResponseWriter, r *http.Request) {
	form, err := s.parseSmartphoneForm(w, r)
	if err != nil {
		s.writeFormError(w, err)
		return
	}
	defer form.close(s, r)

	phone, err := s.service.Create(r.Context(), form.fields, form.image)
	if err != nil {
		s.writeServiceError(w, "create smartphone", err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/smartphones/%d", phone.ID))
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleUpdateSmartphone(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid smartphone id")
		return
	}

	// An unknown id is a 404 whatever the body holds.
	if _, err := s.service.Get(r.Context(), id); err != nil {
		s.writeServiceError(w, "update smartphone", err)
		return
	}

	form, err := s.parseSmartphoneForm(w, r)
	if err != nil {
		s.writeFormError(w, err)
		return
	}
	defer form.close(s, r)

	if err := s.service.Update(r.Context(), id, form.fields, form.image); err != nil {
		s.writeServiceError(w, "update smartphone", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteSmartphone(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid smartphone id")
		return
	}

	if err := s.service.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, "delete smartphone", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeFormError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		s.writeServiceError(w, "parse form", err)
		return
	}
	s.writeBodyError(w, err)
}

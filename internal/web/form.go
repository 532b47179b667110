package web

import (
	"errors"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/vbonduro/phonecat/internal/domain"
	"github.com/vbonduro/phonecat/internal/service"
)

const multipartMemory = 8 << 20 // 8 MB, larger parts spill to temp files

// smartphoneForm is a parsed create or update request.
type smartphoneForm struct {
	fields domain.SmartphoneFields
	image  *service.Upload
	file   multipart.File
}

// parseSmartphoneForm reads a multipart or urlencoded body. Only the fields
// present in the body are set. A numeric value that does not parse yields a
// *domain.ValidationError; other failures are body errors.
func (s *Server) parseSmartphoneForm(w http.ResponseWriter, r *http.Request) (*smartphoneForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	if err := r.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, err
	}

	form := &smartphoneForm{}
	values := r.PostForm
	invalid := map[string]string{}

	if v, ok := formValue(values, "name"); ok {
		form.fields.Name = &v
	}
	if v, ok := formValue(values, "brand"); ok {
		form.fields.Brand = &v
	}
	if v, ok := formValue(values, "price"); ok {
		if f, err := parseFloat(v); err != nil {
			invalid["price"] = "must be a number"
		} else {
			form.fields.Price = &f
		}
	}
	if v, ok := formValue(values, "screen_diagonal"); ok {
		if f, err := parseFloat(v); err != nil {
			invalid["screen_diagonal"] = "must be a number"
		} else {
			form.fields.ScreenDiagonal = &f
		}
	}
	if v, ok := formValue(values, "cameras_amount"); ok {
		if n, err := strconv.Atoi(v); err != nil {
			invalid["cameras_amount"] = "must be an integer"
		} else {
			form.fields.CamerasAmount = &n
		}
	}

	if len(invalid) > 0 {
		return nil, &domain.ValidationError{Fields: invalid}
	}

	file, header, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	case err != nil:
		return nil, err
	default:
		form.file = file
		form.image = &service.Upload{Filename: header.Filename, Body: file}
	}

	return form, nil
}

// close releases the uploaded file and any temp files of the multipart form.
func (f *smartphoneForm) close(s *Server, r *http.Request) {
	if f.file != nil {
		closeWithLog(f.file, "upload file", s.logger)
	}
	if r.MultipartForm != nil {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			s.logger.Error("failed to remove multipart temp files", "error", err)
		}
	}
}

func formValue(values map[string][]string, key string) (string, bool) {
	vs, ok := values[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return strings.TrimSpace(vs[0]), true
}

func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, strconv.ErrSyntax
	}
	return f, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vbonduro/phonecat/internal/domain"
	"github.com/vbonduro/phonecat/internal/imagestore"
)

// smartphoneRepository is the subset of store.SmartphoneStore that CatalogService requires.
type smartphoneRepository interface {
	Create(ctx context.Context, fields domain.SmartphoneFields) (*domain.Smartphone, error)
	GetByID(ctx context.Context, id int64) (*domain.Smartphone, error)
	List(ctx context.Context) ([]*domain.Smartphone, error)
	ListByIDs(ctx context.Context, ids []int64) ([]*domain.Smartphone, error)
	Update(ctx context.Context, id int64, fields domain.SmartphoneFields) error
	Delete(ctx context.Context, id int64) error
}

// imageSaver is the subset of upload.Helper that CatalogService requires.
type imageSaver interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, bool, error)
}

// Upload is an image file received alongside a create or update request.
type Upload struct {
	Filename string
	Body     io.Reader
}

// newSmartphone mirrors domain.SmartphoneFields with the rules for creation,
// where every attribute except the image is mandatory.
type newSmartphone struct {
	Name           *string  `json:"name" validate:"required,min=1,max=50"`
	Image          *string  `json:"image"`
	Brand          *string  `json:"brand" validate:"required,min=1,max=50"`
	Price          *float64 `json:"price" validate:"required,gte=0"`
	ScreenDiagonal *float64 `json:"screen_diagonal" validate:"required,gte=0"`
	CamerasAmount  *int     `json:"cameras_amount" validate:"required,gte=0"`
}

type CatalogService struct {
	phones   smartphoneRepository
	uploads  imageSaver
	images   imagestore.ImageStore
	validate *validator.Validate
	logger   *slog.Logger
}

func NewCatalogService(
	phones smartphoneRepository,
	uploads imageSaver,
	images imagestore.ImageStore,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		phones:   phones,
		uploads:  uploads,
		images:   images,
		validate: newValidator(),
		logger:   logger,
	}
}

func (s *CatalogService) List(ctx context.Context) ([]*domain.Smartphone, error) {
	return s.phones.List(ctx)
}

func (s *CatalogService) Get(ctx context.Context, id int64) (*domain.Smartphone, error) {
	return s.phones.GetByID(ctx, id)
}

// Compare returns the smartphones among ids that exist.
func (s *CatalogService) Compare(ctx context.Context, ids []int64) ([]*domain.Smartphone, error) {
	return s.phones.ListByIDs(ctx, ids)
}

// Create validates fields, stores the image when one with an accepted
// extension is supplied, and inserts the smartphone. Validation runs before
// the image is written so rejected requests leave nothing on disk.
func (s *CatalogService) Create(ctx context.Context, fields domain.SmartphoneFields, image *Upload) (*domain.Smartphone, error) {
	fields.Image = nil
	if err := s.check(newSmartphone(fields)); err != nil {
		return nil, err
	}

	if err := s.attachImage(ctx, &fields, image); err != nil {
		return nil, err
	}

	phone, err := s.phones.Create(ctx, fields)
	if err != nil {
		return nil, err
	}
	s.logger.Info("smartphone created", "id", phone.ID, "image", phone.Image)
	return phone, nil
}

// Update applies the supplied fields to smartphone id. A rejected image keeps
// the current one.
func (s *CatalogService) Update(ctx context.Context, id int64, fields domain.SmartphoneFields, image *Upload) error {
	if _, err := s.phones.GetByID(ctx, id); err != nil {
		return err
	}

	fields.Image = nil
	if err := s.check(fields); err != nil {
		return err
	}

	if err := s.attachImage(ctx, &fields, image); err != nil {
		return err
	}

	if err := s.phones.Update(ctx, id, fields); err != nil {
		return err
	}
	s.logger.Info("smartphone updated", "id", id)
	return nil
}

// Delete removes smartphone id. Its image file stays in the upload directory
// since other records may reference the same name.
func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	if err := s.phones.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("smartphone deleted", "id", id)
	return nil
}

// OpenImage opens the stored image of smartphone id. It returns
// domain.ErrNotFound when the smartphone has no image or the file is gone.
func (s *CatalogService) OpenImage(ctx context.Context, id int64) (io.ReadCloser, string, error) {
	phone, err := s.phones.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if phone.Image == "" {
		return nil, "", domain.ErrNotFound
	}

	rc, err := s.images.Open(ctx, phone.Image)
	if errors.Is(err, imagestore.ErrNotFound) {
		s.logger.Warn("image file missing", "id", id, "image", phone.Image)
		return nil, "", domain.ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to open image: %w", err)
	}
	return rc, phone.Image, nil
}

func (s *CatalogService) attachImage(ctx context.Context, fields *domain.SmartphoneFields, image *Upload) error {
	if image == nil {
		return nil
	}

	name, ok, err := s.uploads.Save(ctx, image.Filename, image.Body)
	if err != nil {
		return err
	}
	if ok {
		fields.Image = &name
	}
	return nil
}

func (s *CatalogService) check(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate smartphone: %w", err)
	}

	fields := make(map[string]string, len(verrs))
	for _, e := range verrs {
		switch e.Tag() {
		case "required":
			fields[e.Field()] = "is required"
		case "min":
			fields[e.Field()] = "must not be empty"
		case "max":
			fields[e.Field()] = "exceeds maximum length"
		case "gte":
			fields[e.Field()] = "must not be negative"
		default:
			fields[e.Field()] = "invalid value"
		}
	}
	return &domain.ValidationError{Fields: fields}
}

// newValidator reports fields by their JSON name.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

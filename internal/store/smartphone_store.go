package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/vbonduro/phonecat/internal/domain"
)

const smartphoneColumns = `id, name, image, brand, price, screen_diagonal, cameras_amount`

type SmartphoneStore struct {
	db *sql.DB
}

func NewSmartphoneStore(db *sql.DB) *SmartphoneStore {
	return &SmartphoneStore{db: db}
}

// Create inserts a smartphone from fields. Unset fields fall back to their
// column defaults, so callers are expected to validate required fields first.
func (s *SmartphoneStore) Create(ctx context.Context, fields domain.SmartphoneFields) (*domain.Smartphone, error) {
	image := ""
	if fields.Image != nil {
		image = *fields.Image
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO smartphones (name, image, brand, price, screen_diagonal, cameras_amount)
		VALUES (?, ?, ?, ?, ?, ?)
	`, deref(fields.Name), image, deref(fields.Brand),
		deref(fields.Price), deref(fields.ScreenDiagonal), deref(fields.CamerasAmount))
	if err != nil {
		return nil, fmt.Errorf("failed to create smartphone: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *SmartphoneStore) GetByID(ctx context.Context, id int64) (*domain.Smartphone, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+smartphoneColumns+` FROM smartphones WHERE id = ?
	`, id)

	phone, err := scanSmartphone(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get smartphone: %w", err)
	}

	return phone, nil
}

// List returns every smartphone in insertion order.
func (s *SmartphoneStore) List(ctx context.Context) ([]*domain.Smartphone, error) {
	return s.query(ctx, `SELECT `+smartphoneColumns+` FROM smartphones ORDER BY id ASC`)
}

// ListByIDs returns the smartphones whose id is in ids. Unknown ids are
// skipped; an empty ids slice yields an empty result. The ids travel as one
// JSON array parameter, so their number is not bound by sqlite's variable limit.
func (s *SmartphoneStore) ListByIDs(ctx context.Context, ids []int64) ([]*domain.Smartphone, error) {
	if len(ids) == 0 {
		return []*domain.Smartphone{}, nil
	}

	idList, err := json.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to encode smartphone ids: %w", err)
	}

	return s.query(ctx, `
		SELECT `+smartphoneColumns+` FROM smartphones
		WHERE id IN (SELECT value FROM json_each(?)) ORDER BY id ASC
	`, string(idList))
}

// Update overwrites the supplied fields of smartphone id and leaves the rest
// unchanged. It returns domain.ErrNotFound when id does not exist.
func (s *SmartphoneStore) Update(ctx context.Context, id int64, fields domain.SmartphoneFields) error {
	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if fields.Name != nil {
		set("name", *fields.Name)
	}
	if fields.Image != nil {
		set("image", *fields.Image)
	}
	if fields.Brand != nil {
		set("brand", *fields.Brand)
	}
	if fields.Price != nil {
		set("price", *fields.Price)
	}
	if fields.ScreenDiagonal != nil {
		set("screen_diagonal", *fields.ScreenDiagonal)
	}
	if fields.CamerasAmount != nil {
		set("cameras_amount", *fields.CamerasAmount)
	}

	if len(sets) == 0 {
		_, err := s.GetByID(ctx, id)
		return err
	}

	args = append(args, id)
	result, err := s.db.ExecContext(ctx, `
		UPDATE smartphones SET `+strings.Join(sets, ", ")+` WHERE id = ?
	`, args...)
	if err != nil {
		return fmt.Errorf("failed to update smartphone: %w", err)
	}

	return checkAffected(result)
}

func (s *SmartphoneStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM smartphones WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete smartphone: %w", err)
	}

	return checkAffected(result)
}

func (s *SmartphoneStore) query(ctx context.Context, query string, args ...any) ([]*domain.Smartphone, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list smartphones: %w", err)
	}
	defer rows.Close()

	phones := []*domain.Smartphone{}
	for rows.Next() {
		phone, err := scanSmartphone(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan smartphone: %w", err)
		}
		phones = append(phones, phone)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating smartphones: %w", err)
	}

	return phones, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSmartphone(row scanner) (*domain.Smartphone, error) {
	phone := &domain.Smartphone{}
	err := row.Scan(&phone.ID, &phone.Name, &phone.Image, &phone.Brand,
		&phone.Price, &phone.ScreenDiagonal, &phone.CamerasAmount)
	if err != nil {
		return nil, err
	}
	return phone, nil
}

func checkAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

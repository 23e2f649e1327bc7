package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/shopspring/decimal"
)

var _ port.ShippingReader = (*ShippingRepository)(nil)

const methodColumns = `
	id, zone_id, name, description, price, free_threshold, min_days, max_days`

type ShippingRepository struct {
	sqldb sqldb
}

func NewShippingRepository(sqldb sqldb) ShippingRepository {
	return ShippingRepository{sqldb}
}

func (r ShippingRepository) ReadZoneByCountry(
	ctx context.Context, country string,
) (domain.ShippingZone, error) {
	const op = "ShippingRepository.ReadZoneByCountry"

	if err := ctx.Err(); err != nil {
		return domain.ShippingZone{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT id, name, countries::text
		FROM shipping_zones
		WHERE $1 = ANY(countries) ORDER BY id ASC LIMIT 1;`

	var (
		z         domain.ShippingZone
		countries string
	)
	err := r.sqldb.QueryRowContext(ctx, query, country).Scan(&z.ID, &z.Name, &countries)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ShippingZone{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return domain.ShippingZone{}, fmt.Errorf("%s: %w", op, err)
	}
	z.Countries = parseTextArray(countries)
	return z, nil
}

func (r ShippingRepository) ReadMethods(
	ctx context.Context, zoneID int64,
) ([]domain.ShippingMethod, error) {
	const op = "ShippingRepository.ReadMethods"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT` + methodColumns + `
		FROM shipping_methods WHERE zone_id = $1 ORDER BY id ASC;`

	rows, err := r.sqldb.QueryContext(ctx, query, zoneID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	ms := []domain.ShippingMethod{}
	for rows.Next() {
		m, err := scanMethod(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ms, nil
}

func (r ShippingRepository) ReadMethod(
	ctx context.Context, id string,
) (domain.ShippingMethod, error) {
	const op = "ShippingRepository.ReadMethod"

	if err := ctx.Err(); err != nil {
		return domain.ShippingMethod{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT` + methodColumns + ` FROM shipping_methods WHERE id = $1;`

	m, err := scanMethod(r.sqldb.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ShippingMethod{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return domain.ShippingMethod{}, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMethod(s scanner) (domain.ShippingMethod, error) {
	var (
		m    domain.ShippingMethod
		free decimal.NullDecimal
	)
	err := s.Scan(
		&m.ID, &m.ZoneID, &m.Name, &m.Description,
		&m.Price, &free, &m.MinDays, &m.MaxDays,
	)
	if err != nil {
		return domain.ShippingMethod{}, err
	}
	if free.Valid {
		m.FreeThreshold = &free.Decimal
	}
	return m, nil
}

// StoreZone upserts the zone by name and returns it with its id.
func (r ShippingRepository) StoreZone(
	ctx context.Context, z domain.ShippingZone,
) (domain.ShippingZone, error) {
	const op = "ShippingRepository.StoreZone"

	if err := ctx.Err(); err != nil {
		return domain.ShippingZone{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		INSERT INTO shipping_zones (name, countries)
		VALUES ($1, $2::text[])
		ON CONFLICT (name) DO UPDATE SET countries = EXCLUDED.countries
		RETURNING id;`

	err := r.sqldb.QueryRowContext(ctx, query, z.Name, textArray(z.Countries)).Scan(&z.ID)
	if err != nil {
		return domain.ShippingZone{}, fmt.Errorf("%s: %w", op, err)
	}
	return z, nil
}

func (r ShippingRepository) StoreMethods(
	ctx context.Context, ms []domain.ShippingMethod,
) error {
	const op = "ShippingRepository.StoreMethods"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
		INSERT INTO shipping_methods (` + methodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			zone_id = EXCLUDED.zone_id,
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			free_threshold = EXCLUDED.free_threshold,
			min_days = EXCLUDED.min_days,
			max_days = EXCLUDED.max_days;`

	err := inTx(ctx, r.sqldb, op, func(tx *sql.Tx) error {
		return execEach(ctx, tx, query, ms, func(m domain.ShippingMethod) []any {
			free := decimal.NullDecimal{}
			if m.FreeThreshold != nil {
				free = decimal.NewNullDecimal(*m.FreeThreshold)
			}
			return []any{
				m.ID, m.ZoneID, m.Name, m.Description,
				m.Price, free, m.MinDays, m.MaxDays,
			}
		})
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

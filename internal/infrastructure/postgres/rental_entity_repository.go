package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/storage-manager/internal/domain/entity"
	"github.com/jhoicas/storage-manager/internal/domain/repository"
)

var _ repository.RentalEntityRepository = (*RentalEntityRepo)(nil)

// RentalEntityRepo lectura de storage_units o storage_pallets; ambas tablas comparten
// las columnas de período y contactos, solo cambia la del nombre.
type RentalEntityRepo struct {
	q          Querier
	entityType string
	table      string
	nameColumn string
}

// NewUnitRepository adaptador de solo lectura sobre storage_units.
func NewUnitRepository(q Querier) *RentalEntityRepo {
	return &RentalEntityRepo{q: q, entityType: entity.EntityTypeUnit, table: "storage_units", nameColumn: "unit_name"}
}

// NewPalletRepository adaptador de solo lectura sobre storage_pallets.
func NewPalletRepository(q Querier) *RentalEntityRepo {
	return &RentalEntityRepo{q: q, entityType: entity.EntityTypePallet, table: "storage_pallets", nameColumn: "pallet_name"}
}

func (r *RentalEntityRepo) selectSQL() string {
	return fmt.Sprintf(`
		SELECT id, %s, COALESCE(monthly_price, 0), COALESCE(is_occupied, 0) <> 0,
			period_from, period_until, COALESCE(payment_status, ''),
			COALESCE(primary_contact_name, ''), COALESCE(primary_contact_email, ''),
			COALESCE(primary_contact_phone, ''), COALESCE(primary_contact_whatsapp, ''),
			COALESCE(secondary_contact_name, ''), COALESCE(secondary_contact_email, ''),
			COALESCE(secondary_contact_phone, ''), COALESCE(secondary_contact_whatsapp, ''),
			COALESCE(updated_at, CURRENT_TIMESTAMP)
		FROM %s`, r.nameColumn, r.table)
}

// ListAll todas las filas ordenadas por nombre.
func (r *RentalEntityRepo) ListAll(ctx context.Context) ([]*entity.RentalEntity, error) {
	query := r.selectSQL() + fmt.Sprintf(` ORDER BY %s, id`, r.nameColumn)
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table, err)
	}
	defer rows.Close()
	var list []*entity.RentalEntity
	for rows.Next() {
		e, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.entityType, err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// GetByID obtiene una fila por ID; (nil, nil) si no existe.
func (r *RentalEntityRepo) GetByID(ctx context.Context, id int64) (*entity.RentalEntity, error) {
	e, err := r.scan(r.q.QueryRow(ctx, r.selectSQL()+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", r.entityType, err)
	}
	return e, nil
}

func (r *RentalEntityRepo) scan(row pgx.Row) (*entity.RentalEntity, error) {
	e := entity.RentalEntity{Type: r.entityType}
	err := row.Scan(
		&e.ID, &e.Name, &e.MonthlyPrice, &e.IsOccupied,
		&e.PeriodFrom, &e.PeriodUntil, &e.PaymentStatus,
		&e.Primary.Name, &e.Primary.Email, &e.Primary.Phone, &e.Primary.WhatsApp,
		&e.Secondary.Name, &e.Secondary.Email, &e.Secondary.Phone, &e.Secondary.WhatsApp,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

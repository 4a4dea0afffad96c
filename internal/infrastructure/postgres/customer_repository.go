package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/storage-manager/internal/domain"
	"github.com/jhoicas/storage-manager/internal/domain/entity"
	"github.com/jhoicas/storage-manager/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

const customerColumns = `
	id, display_name, email, email_norm, phone, phone_norm, whatsapp,
	COALESCE(address, ''), COALESCE(notes, ''), status,
	entity_type, COALESCE(entity_id, 0), contact_role, is_active, created_at, updated_at`

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// FindByEmailNorm primer cliente con ese email normalizado. Bloquea la fila si se usa dentro de una tx.
func (r *CustomerRepo) FindByEmailNorm(ctx context.Context, emailNorm string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + `
		FROM storage_customers WHERE email_norm = $1
		ORDER BY created_at, id LIMIT 1 FOR UPDATE`
	c, err := r.scanOne(ctx, query, emailNorm)
	if err != nil {
		return nil, fmt.Errorf("get customer by email_norm: %w", err)
	}
	return c, nil
}

// FindByPhoneNorm primer cliente con ese teléfono normalizado. Bloquea la fila si se usa dentro de una tx.
func (r *CustomerRepo) FindByPhoneNorm(ctx context.Context, phoneNorm string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + `
		FROM storage_customers WHERE phone_norm = $1
		ORDER BY created_at, id LIMIT 1 FOR UPDATE`
	c, err := r.scanOne(ctx, query, phoneNorm)
	if err != nil {
		return nil, fmt.Errorf("get customer by phone_norm: %w", err)
	}
	return c, nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM storage_customers WHERE id = $1`
	c, err := r.scanOne(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// Create persiste un nuevo cliente.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	query := `
		INSERT INTO storage_customers (
			id, display_name, email, email_norm, phone, phone_norm, whatsapp, address, notes,
			status, entity_type, entity_id, contact_role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.DisplayName, c.Email, c.EmailNorm, c.Phone, c.PhoneNorm, c.WhatsApp, c.Address, c.Notes,
		c.Status, c.EntityType, c.EntityID, c.ContactRole, c.IsActive, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// Update reescribe todos los campos mutables; ID y created_at no cambian.
func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	query := `
		UPDATE storage_customers SET
			display_name = $2, email = $3, email_norm = $4, phone = $5, phone_norm = $6,
			whatsapp = $7, address = $8, notes = $9, status = $10, entity_type = $11,
			entity_id = $12, contact_role = $13, is_active = $14, updated_at = $15
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.DisplayName, c.Email, c.EmailNorm, c.Phone, c.PhoneNorm,
		c.WhatsApp, c.Address, c.Notes, c.Status, c.EntityType,
		c.EntityID, c.ContactRole, c.IsActive, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List clientes por estado y búsqueda (ILIKE en nombre, email y teléfono), ordenados por nombre.
func (r *CustomerRepo) List(ctx context.Context, filter repository.CustomerFilter) ([]*entity.Customer, error) {
	var where []string
	var args []any
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(display_name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d)", n, n, n))
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = repository.DefaultCustomerListLimit
	}
	args = append(args, limit)

	query := `SELECT ` + customerColumns + ` FROM storage_customers`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(` ORDER BY display_name ASC LIMIT $%d`, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *CustomerRepo) scanOne(ctx context.Context, query string, args ...any) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(
		&c.ID, &c.DisplayName, &c.Email, &c.EmailNorm, &c.Phone, &c.PhoneNorm, &c.WhatsApp,
		&c.Address, &c.Notes, &c.Status,
		&c.EntityType, &c.EntityID, &c.ContactRole, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

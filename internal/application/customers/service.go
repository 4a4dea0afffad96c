// Package customers resuelve contactos de unidades y pallets en un registro de clientes
// sin duplicados: busca por email normalizado y luego por teléfono normalizado, y fusiona
// los campos sin pisar datos existentes con valores vacíos.
package customers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/storage-manager/internal/domain"
	"github.com/jhoicas/storage-manager/internal/domain/entity"
	"github.com/jhoicas/storage-manager/internal/domain/identity"
	"github.com/jhoicas/storage-manager/internal/domain/repository"
	"github.com/jhoicas/storage-manager/pkg/logger"
)

// UpsertResult cliente resultante (post-fusión) y cómo se resolvió.
type UpsertResult struct {
	Customer *entity.Customer
	Created  bool
	// ConflictID cliente que coincidía por teléfono pero no es el elegido por email.
	// No se modifica; vacío si no hubo conflicto.
	ConflictID string
}

// Option ajusta el Service.
type Option func(*Service)

// WithClock reemplaza time.Now (tests, zona horaria de la instalación).
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator reemplaza la generación de IDs (tests).
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// Service motor de resolución/upsert. Es el único que escribe clientes.
type Service struct {
	tx    TxRunner
	log   *logger.Logger
	now   func() time.Time
	newID func() string
}

// NewService construye el motor con el runner transaccional inyectado.
func NewService(tx TxRunner, log *logger.Logger, opts ...Option) *Service {
	if log == nil {
		log = logger.Nop()
	}
	s := &Service{
		tx:    tx,
		log:   log.Component("customers"),
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upsert inserta o fusiona el contacto. Idempotente por identidad.
//
//  1. Normaliza email y teléfono.
//  2. Busca por email_norm; si no hay, por phone_norm. Con ambos en filas distintas gana el email
//     y la fila del teléfono no se toca (se reporta en ConflictID).
//  3. Fusiona: el valor entrante gana si no está vacío.
//  4. Actualiza la fila encontrada o inserta una nueva.
//
// Un contacto sin email ni teléfono crea siempre un cliente nuevo.
// Los errores del almacenamiento se devuelven sin cambios.
func (s *Service) Upsert(ctx context.Context, rec entity.ContactRecord) (*UpsertResult, error) {
	rec = sanitize(rec)
	keys := identity.KeysOf(rec.Email, rec.Phone)

	var res *UpsertResult
	err := s.tx.RunCustomer(ctx, keys.LockKeys(), func(repo repository.CustomerRepository) error {
		existing, conflictID, err := lookup(ctx, repo, keys)
		if err != nil {
			return err
		}

		now := s.now()
		merged := merge(existing, rec)
		merged.UpdatedAt = now

		if existing == nil {
			merged.ID = s.newID()
			merged.CreatedAt = now
			if err := repo.Create(ctx, merged); err != nil {
				return err
			}
		} else if err := repo.Update(ctx, merged); err != nil {
			return err
		}

		res = &UpsertResult{Customer: merged, Created: existing == nil, ConflictID: conflictID}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if res.ConflictID != "" {
		s.log.Warn().
			Err(domain.ErrIdentityConflict).
			Str("customer_id", res.Customer.ID).
			Str("conflict_id", res.ConflictID).
			Str("entity_type", rec.EntityType).
			Int64("entity_id", rec.EntityID).
			Msg("email y teléfono coinciden con clientes distintos; se usa la coincidencia por email")
	}
	s.log.Debug().
		Str("customer_id", res.Customer.ID).
		Bool("created", res.Created).
		Str("status", res.Customer.Status).
		Msg("cliente sincronizado")
	return res, nil
}

// UpsertFromEntity upsert del contacto primario o secundario de una unidad/pallet.
// El estado se deriva del período de alquiler con la fecha de hoy del Service.
func (s *Service) UpsertFromEntity(ctx context.Context, e *entity.RentalEntity, role string) (*UpsertResult, error) {
	return s.Upsert(ctx, ContactFromEntity(e, role, s.now()))
}

// lookup aplica la precedencia email → teléfono.
func lookup(ctx context.Context, repo repository.CustomerRepository, keys identity.Keys) (*entity.Customer, string, error) {
	var byEmail *entity.Customer
	if keys.Email != "" {
		c, err := repo.FindByEmailNorm(ctx, keys.Email)
		if err != nil {
			return nil, "", err
		}
		byEmail = c
	}

	var byPhone *entity.Customer
	if keys.Phone != "" {
		c, err := repo.FindByPhoneNorm(ctx, keys.Phone)
		if err != nil {
			return nil, "", err
		}
		byPhone = c
	}

	switch {
	case byEmail != nil && byPhone != nil && byPhone.ID != byEmail.ID:
		return byEmail, byPhone.ID, nil
	case byEmail != nil:
		return byEmail, "", nil
	default:
		return byPhone, "", nil
	}
}

// merge aplica la política de fusión sobre una copia de existing (puede ser nil).
func merge(existing *entity.Customer, rec entity.ContactRecord) *entity.Customer {
	var out entity.Customer
	if existing != nil {
		out = *existing
	}

	out.DisplayName = pick(rec.DisplayName, out.DisplayName)
	out.Email = pick(rec.Email, out.Email)
	out.Phone = pick(rec.Phone, out.Phone)
	out.WhatsApp = pick(rec.WhatsApp, out.WhatsApp)
	out.Address = pick(rec.Address, out.Address)
	out.Notes = pick(rec.Notes, out.Notes)
	out.Status = pick(rec.Status, pick(out.Status, entity.CustomerStatusProspective))

	// Las claves se derivan siempre de los valores fusionados.
	out.EmailNorm = identity.NormalizeEmail(out.Email)
	out.PhoneNorm = identity.NormalizePhone(out.Phone)

	// Dónde se vio por última vez: siempre lo entrante.
	out.EntityType = rec.EntityType
	out.EntityID = rec.EntityID
	out.ContactRole = rec.ContactRole
	out.IsActive = true
	return &out
}

func pick(incoming, current string) string {
	if incoming != "" {
		return incoming
	}
	return current
}

// sanitize limpia el registro; lo inválido queda vacío.
func sanitize(rec entity.ContactRecord) entity.ContactRecord {
	rec.DisplayName = identity.Clean(rec.DisplayName)
	rec.Email = identity.Clean(rec.Email)
	rec.Phone = identity.Clean(rec.Phone)
	rec.WhatsApp = identity.Clean(rec.WhatsApp)
	rec.Address = identity.CleanMultiline(rec.Address)
	rec.Notes = identity.CleanMultiline(rec.Notes)

	rec.Status = identity.Clean(rec.Status)
	if !entity.IsValidCustomerStatus(rec.Status) {
		rec.Status = ""
	}
	rec.EntityType = identity.Clean(rec.EntityType)
	if !entity.IsValidEntityType(rec.EntityType) {
		rec.EntityType = ""
	}
	if rec.EntityID < 0 {
		rec.EntityID = 0
	}
	if identity.Clean(rec.ContactRole) != entity.ContactRoleSecondary {
		rec.ContactRole = entity.ContactRolePrimary
	} else {
		rec.ContactRole = entity.ContactRoleSecondary
	}
	return rec
}

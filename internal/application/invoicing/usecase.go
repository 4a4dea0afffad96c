package invoicing

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/storage-manager/internal/domain"
	"github.com/jhoicas/storage-manager/internal/domain/entity"
	"github.com/jhoicas/storage-manager/internal/domain/repository"
)

// UseCase carga la unidad/pallet y arma su factura.
type UseCase struct {
	units    repository.RentalEntityRepository
	pallets  repository.RentalEntityRepository
	settings Settings
	now      func() time.Time
}

// NewUseCase construye el caso de uso inyectando repositorios y configuración.
func NewUseCase(units, pallets repository.RentalEntityRepository, settings Settings) *UseCase {
	return &UseCase{units: units, pallets: pallets, settings: settings, now: time.Now}
}

// WithClock reemplaza time.Now (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// Build factura de la entidad entityType/id.
//
// Retorna:
//   - domain.ErrInvalidInput si entityType no es unit ni pallet.
//   - domain.ErrNotFound si la entidad no existe.
//   - los errores de billing (período abierto/inválido, precio ausente).
func (uc *UseCase) Build(ctx context.Context, entityType string, id int64) (*Invoice, error) {
	var repo repository.RentalEntityRepository
	switch entityType {
	case entity.EntityTypeUnit:
		repo = uc.units
	case entity.EntityTypePallet:
		repo = uc.pallets
	default:
		return nil, fmt.Errorf("%w: tipo de entidad %q", domain.ErrInvalidInput, entityType)
	}
	if repo == nil {
		return nil, domain.ErrNotFound
	}

	e, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("invoice: obtener %s: %w", entityType, err)
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	return BuildInvoice(e, uc.settings, uc.now())
}

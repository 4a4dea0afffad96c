package repository

import (
	"context"

	"github.com/jhoicas/storage-manager/internal/domain/entity"
)

// RentalEntityRepository puerto de solo lectura sobre unidades o pallets.
// ListAll devuelve las filas en el orden del almacenamiento (por nombre).
type RentalEntityRepository interface {
	ListAll(ctx context.Context) ([]*entity.RentalEntity, error)
	GetByID(ctx context.Context, id int64) (*entity.RentalEntity, error)
}

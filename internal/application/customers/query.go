package customers

import (
	"context"
	"strings"

	"github.com/jhoicas/storage-manager/internal/domain"
	"github.com/jhoicas/storage-manager/internal/domain/entity"
	"github.com/jhoicas/storage-manager/internal/domain/repository"
)

// QueryUseCase consultas de solo lectura sobre el registro de clientes.
type QueryUseCase struct {
	repo repository.CustomerRepository
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(repo repository.CustomerRepository) *QueryUseCase {
	return &QueryUseCase{repo: repo}
}

// List clientes filtrados por estado y búsqueda, ordenados por nombre.
func (uc *QueryUseCase) List(ctx context.Context, filter repository.CustomerFilter) ([]*entity.Customer, error) {
	filter.Status = strings.TrimSpace(filter.Status)
	if filter.Status != "" && !entity.IsValidCustomerStatus(filter.Status) {
		return nil, domain.ErrInvalidInput
	}
	filter.Search = strings.TrimSpace(filter.Search)
	if filter.Limit <= 0 || filter.Limit > repository.DefaultCustomerListLimit {
		filter.Limit = repository.DefaultCustomerListLimit
	}
	return uc.repo.List(ctx, filter)
}

// GetByID devuelve domain.ErrNotFound si el cliente no existe.
func (uc *QueryUseCase) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

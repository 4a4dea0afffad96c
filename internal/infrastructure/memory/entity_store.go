package memory

import (
	"context"

	"github.com/jhoicas/storage-manager/internal/domain/entity"
	"github.com/jhoicas/storage-manager/internal/domain/repository"
)

var _ repository.RentalEntityRepository = (*EntityStore)(nil)

// EntityStore unidades o pallets fijos, en el orden dado.
type EntityStore struct {
	items   []*entity.RentalEntity
	listErr error
}

// NewEntityStore store con las entidades dadas.
func NewEntityStore(items ...*entity.RentalEntity) *EntityStore {
	return &EntityStore{items: items}
}

// FailList hace que ListAll devuelva err.
func (s *EntityStore) FailList(err error) { s.listErr = err }

func (s *EntityStore) ListAll(_ context.Context) ([]*entity.RentalEntity, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]*entity.RentalEntity, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *EntityStore) GetByID(_ context.Context, id int64) (*entity.RentalEntity, error) {
	for _, e := range s.items {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

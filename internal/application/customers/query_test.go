package customers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storage-manager/internal/application/customers"
	"github.com/jhoicas/storage-manager/internal/domain"
	"github.com/jhoicas/storage-manager/internal/domain/entity"
	"github.com/jhoicas/storage-manager/internal/domain/repository"
	"github.com/jhoicas/storage-manager/internal/infrastructure/memory"
)

func seededQuery(t *testing.T) (*customers.QueryUseCase, *memory.CustomerStore) {
	t.Helper()
	store := memory.NewCustomerStore()
	svc := newService(t, store)
	ctx := context.Background()

	for _, r := range []entity.ContactRecord{
		record("Carla", "carla@example.com", ""),
		record("Ana", "ana@example.com", "111"),
		{DisplayName: "Bruno", Email: "bruno@example.com", Status: entity.CustomerStatusPast},
	} {
		_, err := svc.Upsert(ctx, r)
		require.NoError(t, err)
	}
	return customers.NewQueryUseCase(store), store
}

func TestQueryList_OrdenadoPorNombre(t *testing.T) {
	uc, _ := seededQuery(t)

	list, err := uc.List(context.Background(), repository.CustomerFilter{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Ana", list[0].DisplayName)
	assert.Equal(t, "Bruno", list[1].DisplayName)
	assert.Equal(t, "Carla", list[2].DisplayName)
}

func TestQueryList_FiltraEstadoYBusqueda(t *testing.T) {
	uc, _ := seededQuery(t)
	ctx := context.Background()

	list, err := uc.List(ctx, repository.CustomerFilter{Status: " past "})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Bruno", list[0].DisplayName)

	list, err = uc.List(ctx, repository.CustomerFilter{Search: "  CARLA@ "})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Carla", list[0].DisplayName)

	list, err = uc.List(ctx, repository.CustomerFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestQueryList_EstadoInvalido(t *testing.T) {
	uc, _ := seededQuery(t)
	_, err := uc.List(context.Background(), repository.CustomerFilter{Status: "vip"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestQueryGetByID(t *testing.T) {
	uc, store := seededQuery(t)
	ctx := context.Background()

	found, err := store.FindByEmailNorm(ctx, "ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)

	c, err := uc.GetByID(ctx, found.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", c.DisplayName)

	_, err = uc.GetByID(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

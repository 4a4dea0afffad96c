package customers_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storage-manager/internal/application/customers"
	"github.com/jhoicas/storage-manager/internal/domain/entity"
	"github.com/jhoicas/storage-manager/internal/infrastructure/memory"
	"github.com/jhoicas/storage-manager/pkg/logger"
)

var today = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

func newService(t *testing.T, store *memory.CustomerStore, opts ...customers.Option) *customers.Service {
	t.Helper()
	seq := 0
	base := []customers.Option{
		customers.WithClock(func() time.Time { return today }),
		customers.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("c-%d", seq)
		}),
	}
	return customers.NewService(store, nil, append(base, opts...)...)
}

func record(name, email, phone string) entity.ContactRecord {
	return entity.ContactRecord{
		DisplayName: name,
		Email:       email,
		Phone:       phone,
		Status:      entity.CustomerStatusActive,
		EntityType:  entity.EntityTypeUnit,
		EntityID:    7,
		ContactRole: entity.ContactRolePrimary,
	}
}

// ── Creación e idempotencia ──────────────────────────────────────────────────

func TestUpsert_CreaClienteNuevo(t *testing.T) {
	store := memory.NewCustomerStore()
	svc := newService(t, store)

	res, err := svc.Upsert(context.Background(), record("Ana Pérez", "  Ana@Example.COM ", "+357 99-123456"))
	require.NoError(t, err)

	assert.True(t, res.Created)
	assert.Empty(t, res.ConflictID)
	c := res.Customer
	assert.Equal(t, "c-1", c.ID)
	assert.Equal(t, "Ana@Example.COM", c.Email, "se guarda tal cual, recortado")
	assert.Equal(t, "ana@example.com", c.EmailNorm)
	assert.Equal(t, "35799123456", c.PhoneNorm)
	assert.Equal(t, entity.CustomerStatusActive, c.Status)
	assert.True(t, c.IsActive)
	assert.Equal(t, today, c.CreatedAt)
	assert.Equal(t, today, c.UpdatedAt)
	assert.Equal(t, 1, store.Len())
}

func TestUpsert_EsIdempotente(t *testing.T) {
	store := memory.NewCustomerStore()
	svc := newService(t, store)
	ctx := context.Background()
	rec := record("Ana", "ana@example.com", "99123456")

	first, err := svc.Upsert(ctx, rec)
	require.NoError(t, err)
	second, err := svc.Upsert(ctx, rec)
	require.NoError(t, err)

	assert.False(t, second.Created)
	assert.Equal(t, first.Customer.ID, second.Customer.ID)
	assert.Equal(t, 1, store.Len())

	stored, err := store.GetByID(ctx, first.Customer.ID)
	require.NoError(t, err)
	assert.Equal(t, *first.Customer, *stored, "repetir el upsert no cambia la fila")

	creates, updates := store.Counts()
	assert.Equal(t, 1, creates)
	assert.Equal(t, 1, updates)
}

func TestUpsert_EmailSinDistinguirMayusculas(t *testing.T) {
	store := memory.NewCustomerStore()
	svc := newService(t, store)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, record("Ana", "ana@example.com", ""))
	require.NoError(t, err)
	res, err := svc.Upsert(ctx, record("", "ANA@EXAMPLE.COM", ""))
	require.NoError(t, err)

	assert.False(t, res.Created)
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, "ANA@EXAMPLE.COM", res.Customer.Email, "el email entrante no vacío gana")
	assert.Equal(t, "Ana", res.Customer.DisplayName, "el nombre vacío no pisa el existente")
}

// ── Fusión ───────────────────────────────────────────────────────────────────

func TestUpsert_FusionNoPisaConVacios(t *testing.T) {
	store := memory.NewCustomerStore()
	svc := newService(t, store)
	ctx := context.Background()

	rec := record("Ana", "ana@example.com", "99123456")
	rec.Address = "Makariou 12\nNicosia"
	rec.Notes = "Llamar por la tarde"
	rec.WhatsApp = "+35799123456"
	_, err := svc.Upsert(ctx, rec)
	require.NoError(t, err)

	res, err := svc.Upsert(ctx, entity.ContactRecord{
		DisplayName: "Ana María",
		Email:       "ana@example.com",
		EntityType:  entity.EntityTypePallet,
		EntityID:    3,
		ContactRole: entity.ContactRoleSecondary,
	})
	require.NoError(t, err)

	c := res.Customer
	assert.Equal(t, "Ana María", c.DisplayName)
	assert.Equal(t, "99123456", c.Phone)
	assert.Equal(t, "Makariou 12\nNicosia", c.Address)
	assert.Equal(t, "Llamar por la tarde", c.Notes)
	assert.Equal(t, "+35799123456", c.WhatsApp)
	assert.Equal(t, entity.CustomerStatusActive, c.Status, "sin estado entrante se conserva el actual")

	// Dónde se vio por última vez se reemplaza siempre.
	assert.Equal(t, entity.EntityTypePallet, c.EntityType)
	assert.Equal(t, int64(3), c.EntityID)
	assert.Equal(t, entity.ContactRoleSecondary, c.ContactRole)
}

func TestUpsert_CoincidenciaPorTelefonoActualizaEmail(t *testing.T) {
	store := memory.NewCustomerStore()
	svc := newService(t, store)
	ctx := context.Background()

	first, err := svc.Upsert(ctx, record("Ana", "ana@old.com", "+357 99 123456"))
	require.NoError(t, err)

	res, err := svc.Upsert(ctx, record("Ana", "ana@new.com", "35799123456"))
	require.NoError(t, err)

	assert.False(t, res.Created)
	assert.Equal(t, first.Customer.ID, res.Customer.ID)
	assert.Equal(t, "ana@new.com", res.Customer.Email)
	assert.Equal(t, "ana@new.com", res.Customer.EmailNorm, "la clave se recalcula del valor fusionado")
	assert.Equal(t, 1, store.Len())

	found, err := store.FindByEmailNorm(ctx, "ana@new.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, first.Customer.ID, found.ID)
}

func TestUpsert_EstadoInvalidoSeDescarta(t *testing.T) {
	store := memory.NewCustomerStore()
	svc := newService(t, store)

	rec := record("Ana", "ana@example.com", "")
	rec.Status = "vip"
	rec.EntityType = "locker"
	rec.EntityID = -4
	rec.ContactRole = " secondary "
	res, err := svc.Upsert(context.Background(), rec)
	require.NoError(t, err)

	assert.Equal(t, entity.CustomerStatusProspective, res.Customer.Status)
	assert.Empty(t, res.Customer.EntityType)
	assert.Zero(t, res.Customer.EntityID)
	assert.Equal(t, entity.ContactRoleSecondary, res.Customer.ContactRole)
}

// ── Conflictos ───────────────────────────────────────────────────────────────

func TestUpsert_ConflictoEmailYTelefonoGanaEmail(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "warn", Output: &buf})
	store := memory.NewCustomerStore()
	seq := 0
	svc := customers.NewService(store, log,
		customers.WithClock(func() time.Time { return today }),
		customers.WithIDGenerator(func() string { seq++; return fmt.Sprintf("c-%d", seq) }),
	)
	ctx := context.Background()

	a, err := svc.Upsert(ctx, record("Ana", "ana@example.com", "111"))
	require.NoError(t, err)
	b, err := svc.Upsert(ctx, record("Bea", "bea@example.com", "222"))
	require.NoError(t, err)

	res, err := svc.Upsert(ctx, record("Ana", "ana@example.com", "222"))
	require.NoError(t, err)

	assert.False(t, res.Created)
	assert.Equal(t, a.Customer.ID, res.Customer.ID)
	assert.Equal(t, b.Customer.ID, res.ConflictID)
	assert.Equal(t, "222", res.Customer.Phone)
	assert.Equal(t, 2, store.Len())

	untouched, err := store.GetByID(ctx, b.Customer.ID)
	require.NoError(t, err)
	assert.Equal(t, *b.Customer, *untouched, "la fila del teléfono no se modifica")

	assert.Contains(t, buf.String(), `"conflict_id":"c-2"`)
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "conflicto de identidad")
}

// ── Sin identidad ────────────────────────────────────────────────────────────

func TestUpsert_SinEmailNiTelefonoCreaSiempre(t *testing.T) {
	store := memory.NewCustomerStore()
	svc := newService(t, store)
	ctx := context.Background()

	r1, err := svc.Upsert(ctx, record("Sin datos", "  ", "n/a"))
	require.NoError(t, err)
	r2, err := svc.Upsert(ctx, record("Sin datos", "", ""))
	require.NoError(t, err)

	assert.True(t, r1.Created)
	assert.True(t, r2.Created)
	assert.NotEqual(t, r1.Customer.ID, r2.Customer.ID)
	assert.Equal(t, 2, store.Len())
}

// ── Atomicidad y concurrencia ────────────────────────────────────────────────

func TestUpsert_ErrorDeEscrituraNoDejaCambios(t *testing.T) {
	store := memory.NewCustomerStore()
	svc := newService(t, store)
	ctx := context.Background()

	orig, err := svc.Upsert(ctx, record("Ana", "ana@example.com", ""))
	require.NoError(t, err)

	errBoom := errors.New("disco lleno")
	store.FailWrites(errBoom)
	_, err = svc.Upsert(ctx, record("Ana Nueva", "ana@example.com", "555"))
	assert.ErrorIs(t, err, errBoom)

	_, err = svc.Upsert(ctx, record("Otra", "otra@example.com", ""))
	assert.ErrorIs(t, err, errBoom)

	store.FailWrites(nil)
	stored, err := store.GetByID(ctx, orig.Customer.ID)
	require.NoError(t, err)
	assert.Equal(t, *orig.Customer, *stored)
	assert.Equal(t, 1, store.Len())
}

func TestUpsert_ContextoCanceladoNoEscribe(t *testing.T) {
	store := memory.NewCustomerStore()
	svc := newService(t, store)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Upsert(ctx, record("Ana", "ana@example.com", ""))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, store.Len())
}

func TestUpsert_ConcurrenteMismaIdentidadUnaFila(t *testing.T) {
	store := memory.NewCustomerStore()
	var mu sync.Mutex
	seq := 0
	svc := customers.NewService(store, nil,
		customers.WithIDGenerator(func() string {
			mu.Lock()
			defer mu.Unlock()
			seq++
			return fmt.Sprintf("c-%d", seq)
		}),
	)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Upsert(context.Background(), record(fmt.Sprintf("Ana %d", i), "ana@example.com", "99123456"))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, store.Len())
	creates, updates := store.Counts()
	assert.Equal(t, 1, creates)
	assert.Equal(t, 19, updates)
}

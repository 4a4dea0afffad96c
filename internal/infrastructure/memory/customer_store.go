// Package memory implementaciones en memoria de los puertos de almacenamiento (tests / dev).
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/storage-manager/internal/application/customers"
	"github.com/jhoicas/storage-manager/internal/domain"
	"github.com/jhoicas/storage-manager/internal/domain/entity"
	"github.com/jhoicas/storage-manager/internal/domain/repository"
)

var (
	_ repository.CustomerRepository = (*CustomerStore)(nil)
	_ customers.TxRunner            = (*CustomerStore)(nil)
)

// CustomerStore registro de clientes en memoria.
// RunCustomer serializa todas las transacciones y trabaja sobre una copia: si fn falla,
// el estado no cambia.
type CustomerStore struct {
	mu       sync.RWMutex
	rows     []entity.Customer // orden de inserción
	writeErr error
	creates  int
	updates  int
}

// NewCustomerStore store vacío.
func NewCustomerStore() *CustomerStore {
	return &CustomerStore{}
}

// FailWrites hace que Create/Update devuelvan err (nil lo desactiva).
func (s *CustomerStore) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeErr = err
}

// Counts cantidad de Create y Update confirmados.
func (s *CustomerStore) Counts() (creates, updates int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creates, s.updates
}

// Len cantidad de clientes.
func (s *CustomerStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// RunCustomer ejecuta fn con exclusión total; los locks por clave quedan cubiertos.
func (s *CustomerStore) RunCustomer(ctx context.Context, _ []string, fn func(repo repository.CustomerRepository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	view := &customerView{rows: append([]entity.Customer(nil), s.rows...), writeErr: s.writeErr}
	if err := fn(view); err != nil {
		return err
	}
	s.rows = view.rows
	s.creates += view.creates
	s.updates += view.updates
	return nil
}

func (s *CustomerStore) FindByEmailNorm(ctx context.Context, emailNorm string) (*entity.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view().FindByEmailNorm(ctx, emailNorm)
}

func (s *CustomerStore) FindByPhoneNorm(ctx context.Context, phoneNorm string) (*entity.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view().FindByPhoneNorm(ctx, phoneNorm)
}

func (s *CustomerStore) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view().GetByID(ctx, id)
}

func (s *CustomerStore) List(ctx context.Context, filter repository.CustomerFilter) ([]*entity.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view().List(ctx, filter)
}

// Create inserta fuera de una transacción explícita.
func (s *CustomerStore) Create(ctx context.Context, c *entity.Customer) error {
	return s.RunCustomer(ctx, nil, func(repo repository.CustomerRepository) error {
		return repo.Create(ctx, c)
	})
}

// Update actualiza fuera de una transacción explícita.
func (s *CustomerStore) Update(ctx context.Context, c *entity.Customer) error {
	return s.RunCustomer(ctx, nil, func(repo repository.CustomerRepository) error {
		return repo.Update(ctx, c)
	})
}

// view de solo lectura sobre las filas confirmadas; llamar con mu tomado.
func (s *CustomerStore) view() *customerView {
	return &customerView{rows: s.rows}
}

// customerView repositorio sobre una copia de las filas.
type customerView struct {
	rows     []entity.Customer
	writeErr error
	creates  int
	updates  int
}

func (v *customerView) FindByEmailNorm(_ context.Context, emailNorm string) (*entity.Customer, error) {
	return v.first(func(c *entity.Customer) bool { return emailNorm != "" && c.EmailNorm == emailNorm }), nil
}

func (v *customerView) FindByPhoneNorm(_ context.Context, phoneNorm string) (*entity.Customer, error) {
	return v.first(func(c *entity.Customer) bool { return phoneNorm != "" && c.PhoneNorm == phoneNorm }), nil
}

func (v *customerView) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	return v.first(func(c *entity.Customer) bool { return c.ID == id }), nil
}

func (v *customerView) Create(_ context.Context, c *entity.Customer) error {
	if v.writeErr != nil {
		return v.writeErr
	}
	if v.indexOf(c.ID) >= 0 {
		return domain.ErrDuplicate
	}
	v.rows = append(v.rows, *c)
	v.creates++
	return nil
}

func (v *customerView) Update(_ context.Context, c *entity.Customer) error {
	if v.writeErr != nil {
		return v.writeErr
	}
	i := v.indexOf(c.ID)
	if i < 0 {
		return domain.ErrNotFound
	}
	v.rows[i] = *c
	v.updates++
	return nil
}

func (v *customerView) List(_ context.Context, filter repository.CustomerFilter) ([]*entity.Customer, error) {
	search := strings.ToLower(filter.Search)
	var out []*entity.Customer
	for i := range v.rows {
		c := v.rows[i]
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(c.DisplayName), search) &&
			!strings.Contains(strings.ToLower(c.Email), search) &&
			!strings.Contains(strings.ToLower(c.Phone), search) {
			continue
		}
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DisplayName < out[j].DisplayName })
	limit := filter.Limit
	if limit <= 0 {
		limit = repository.DefaultCustomerListLimit
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (v *customerView) first(match func(c *entity.Customer) bool) *entity.Customer {
	for i := range v.rows {
		if match(&v.rows[i]) {
			c := v.rows[i]
			return &c
		}
	}
	return nil
}

func (v *customerView) indexOf(id string) int {
	for i := range v.rows {
		if v.rows[i].ID == id {
			return i
		}
	}
	return -1
}

package repository

import (
	"context"

	"github.com/jhoicas/storage-manager/internal/domain/entity"
)

// DefaultCustomerListLimit tope de filas cuando el filtro no indica límite.
const DefaultCustomerListLimit = 500

// CustomerFilter criterios de listado de clientes.
type CustomerFilter struct {
	Status string // vacío = todos
	Search string // coincidencia parcial, sin distinguir mayúsculas, en nombre/email/teléfono
	Limit  int
}

// CustomerRepository define el puerto de persistencia para Customer.
// Los métodos Find*/Get* devuelven (nil, nil) si no hay fila.
type CustomerRepository interface {
	FindByEmailNorm(ctx context.Context, emailNorm string) (*entity.Customer, error)
	FindByPhoneNorm(ctx context.Context, phoneNorm string) (*entity.Customer, error)
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	Create(ctx context.Context, customer *entity.Customer) error
	Update(ctx context.Context, customer *entity.Customer) error
	List(ctx context.Context, filter CustomerFilter) ([]*entity.Customer, error)
}

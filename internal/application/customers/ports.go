package customers

import (
	"context"

	"github.com/jhoicas/storage-manager/internal/domain/repository"
)

// TxRunner ejecuta fn como una sola lectura-modificación-escritura atómica.
// lockKeys son claves de identidad (ej. "email:ana@x.com"); la implementación debe
// garantizar exclusión mutua entre llamadas que compartan alguna clave durante toda fn.
// Si fn devuelve error no se aplica ningún cambio.
type TxRunner interface {
	RunCustomer(ctx context.Context, lockKeys []string, fn func(repo repository.CustomerRepository) error) error
}

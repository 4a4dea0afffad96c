package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound      = errors.New("recurso no encontrado")
	ErrInvalidInput  = errors.New("entrada inválida")
	ErrDuplicate     = errors.New("recurso duplicado")
	ErrInvalidPeriod = errors.New("período de alquiler inválido: la fecha inicial es posterior a la final")
	ErrOpenPeriod    = errors.New("período de alquiler abierto: se requieren fecha inicial y final")
	ErrMissingPrice  = errors.New("precio mensual ausente o no positivo")

	// ErrIdentityConflict: email y teléfono apuntan a clientes distintos.
	// Upsert no lo devuelve (gana el email); solo se registra en el log.
	ErrIdentityConflict = errors.New("conflicto de identidad entre email y teléfono")
)

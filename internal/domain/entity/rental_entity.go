package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de entidad alquilable.
const (
	EntityTypeUnit   = "unit"
	EntityTypePallet = "pallet"
)

// Contact datos de contacto guardados en la unidad/pallet.
type Contact struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	WhatsApp string `json:"whatsapp,omitempty"`
}

// HasIdentity nombre, email o teléfono no vacíos (WhatsApp solo no cuenta).
func (c Contact) HasIdentity() bool {
	return strings.TrimSpace(c.Name) != "" ||
		strings.TrimSpace(c.Email) != "" ||
		strings.TrimSpace(c.Phone) != ""
}

// RentalEntity unidad o pallet tal como la entrega el almacenamiento de unidades/pallets.
// El núcleo solo lee estos campos.
type RentalEntity struct {
	ID            int64
	Type          string // unit | pallet
	Name          string
	MonthlyPrice  decimal.Decimal
	IsOccupied    bool
	PeriodFrom    *time.Time
	PeriodUntil   *time.Time
	PaymentStatus string
	Primary       Contact
	Secondary     Contact
	UpdatedAt     time.Time
}

// ContactFor devuelve el contacto del rol pedido; cualquier rol distinto de secondary es primary.
func (e *RentalEntity) ContactFor(role string) Contact {
	if role == ContactRoleSecondary {
		return e.Secondary
	}
	return e.Primary
}

// IsValidEntityType indica si s es unit o pallet.
func IsValidEntityType(s string) bool {
	return s == EntityTypeUnit || s == EntityTypePallet
}

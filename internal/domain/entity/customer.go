package entity

import "time"

// Estados de la relación con el cliente.
const (
	CustomerStatusProspective = "prospective" // aún sin período de alquiler
	CustomerStatusActive      = "active"      // alquiler vigente o abierto
	CustomerStatusPast        = "past"        // el alquiler terminó
)

// Roles del contacto dentro de la unidad/pallet.
const (
	ContactRolePrimary   = "primary"
	ContactRoleSecondary = "secondary"
)

// Customer identidad persistida de un contacto (email/teléfono normalizados).
// EmailNorm y PhoneNorm se derivan siempre de Email y Phone.
type Customer struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	EmailNorm   string    `json:"-"`
	Phone       string    `json:"phone"`
	PhoneNorm   string    `json:"-"`
	WhatsApp    string    `json:"whatsapp"`
	Address     string    `json:"address"`
	Notes       string    `json:"notes"`
	Status      string    `json:"status"`
	EntityType  string    `json:"entity_type"` // dónde se vio el contacto por última vez
	EntityID    int64     `json:"entity_id"`
	ContactRole string    `json:"contact_role"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ContactRecord contacto crudo proveniente de una unidad o pallet (transitorio).
type ContactRecord struct {
	DisplayName string
	Email       string
	Phone       string
	WhatsApp    string
	Address     string
	Notes       string
	Status      string
	EntityType  string
	EntityID    int64
	ContactRole string
}

// IsValidCustomerStatus indica si s es un estado conocido.
func IsValidCustomerStatus(s string) bool {
	switch s {
	case CustomerStatusProspective, CustomerStatusActive, CustomerStatusPast:
		return true
	}
	return false
}

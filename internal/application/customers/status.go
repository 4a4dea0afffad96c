package customers

import (
	"time"

	"github.com/jhoicas/storage-manager/internal/domain/entity"
	"github.com/jhoicas/storage-manager/internal/domain/period"
)

// DeriveStatus estado de la relación a partir del período de alquiler:
// active si Until >= hoy o si solo hay From; past si Until < hoy; prospective sin límites.
func DeriveStatus(p period.RentalPeriod, today time.Time) string {
	switch {
	case p.Until != nil:
		if period.Truncate(*p.Until).Before(period.Truncate(today)) {
			return entity.CustomerStatusPast
		}
		return entity.CustomerStatusActive
	case p.From != nil:
		return entity.CustomerStatusActive
	default:
		return entity.CustomerStatusProspective
	}
}

// ContactFromEntity arma el ContactRecord del rol pedido de una unidad/pallet.
func ContactFromEntity(e *entity.RentalEntity, role string, today time.Time) entity.ContactRecord {
	if role != entity.ContactRoleSecondary {
		role = entity.ContactRolePrimary
	}
	c := e.ContactFor(role)
	return entity.ContactRecord{
		DisplayName: c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		WhatsApp:    c.WhatsApp,
		Status:      DeriveStatus(period.New(e.PeriodFrom, e.PeriodUntil), today),
		EntityType:  e.Type,
		EntityID:    e.ID,
		ContactRole: role,
	}
}

// Package billing traduce un período de alquiler en el desglose mensual que se factura.
//
// Política de cobro: todo mes calendario con al menos un día ocupado cuenta como un mes
// completo facturable. Los días ocupados se conservan en el desglose solo para mostrarlos.
package billing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/storage-manager/internal/domain"
	"github.com/jhoicas/storage-manager/internal/domain/period"
)

// Month un mes calendario intersectado con el período de alquiler.
// Invariante: 0 <= OccupiedDays <= DaysInMonth.
type Month struct {
	Label           string          `json:"label"`
	DaysInMonth     int             `json:"days_in_month"`
	OccupiedDays    int             `json:"occupied_days"`
	IsFullyOccupied bool            `json:"is_fully_occupied"`
	Amount          decimal.Decimal `json:"amount"` // precio mensual si hubo ocupación, 0 si no
}

// Result desglose calculado para una factura. Nunca se persiste.
type Result struct {
	Months         []Month         `json:"months"`
	OccupiedMonths decimal.Decimal `json:"occupied_months"`
	MonthlyPrice   decimal.Decimal `json:"monthly_price"`
	Subtotal       decimal.Decimal `json:"subtotal"` // MonthlyPrice × OccupiedMonths, sin impuestos
}

// OccupiedDays suma de días ocupados de todos los meses.
func (r *Result) OccupiedDays() int {
	total := 0
	for _, m := range r.Months {
		total += m.OccupiedDays
	}
	return total
}

// Calculate produce el desglose mes a mes del período.
//
// Errores:
//   - domain.ErrInvalidPeriod si From > Until.
//   - domain.ErrOpenPeriod si falta algún límite.
//   - domain.ErrMissingPrice si monthlyPrice <= 0.
func Calculate(p period.RentalPeriod, monthlyPrice decimal.Decimal) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	months, err := period.IterateMonths(p)
	if err != nil {
		return nil, err
	}
	if !monthlyPrice.IsPositive() {
		return nil, domain.ErrMissingPrice
	}

	res := &Result{
		Months:       make([]Month, 0, len(months)),
		MonthlyPrice: monthlyPrice,
	}
	occupied := int64(0)
	for _, ym := range months {
		days := ym.Days()
		occ := period.Clip(p, ym.Start(), ym.End())
		m := Month{
			Label:           ym.Label(),
			DaysInMonth:     days,
			OccupiedDays:    occ,
			IsFullyOccupied: occ == days,
			Amount:          decimal.Zero,
		}
		if occ > 0 {
			occupied++
			m.Amount = monthlyPrice
		}
		res.Months = append(res.Months, m)
	}
	res.OccupiedMonths = decimal.NewFromInt(occupied)
	res.Subtotal = monthlyPrice.Mul(res.OccupiedMonths)
	return res, nil
}

// Package invoicing arma el documento de factura de una unidad o pallet a partir del
// desglose mensual de billing. El documento es estructurado: el maquetado/PDF lo hace
// el colaborador de renderizado.
package invoicing

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/storage-manager/internal/domain"
	"github.com/jhoicas/storage-manager/internal/domain/billing"
	"github.com/jhoicas/storage-manager/internal/domain/entity"
	"github.com/jhoicas/storage-manager/internal/domain/period"
)

var hundred = decimal.NewFromInt(100)

// CompanyProfile datos del emisor.
type CompanyProfile struct {
	Name      string `json:"name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	VATNumber string `json:"vat_number,omitempty"`
}

// Settings configuración de precio/IVA que recibe la factura (no el calculador).
type Settings struct {
	Currency   string
	VATEnabled bool
	VATRate    decimal.Decimal // porcentaje, ej. 19
	DueDays    int
	Company    CompanyProfile
}

// Line una fila del detalle: un mes con ocupación.
type Line struct {
	Period      string          `json:"period"` // "2024-03"
	Description string          `json:"description"`
	Days        string          `json:"days"` // "12 of 31 days"
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// Invoice documento listo para renderizar.
type Invoice struct {
	Number         string          `json:"number"`
	IssueDate      time.Time       `json:"issue_date"`
	DueDate        time.Time       `json:"due_date"`
	Company        CompanyProfile  `json:"company"`
	BillTo         entity.Contact  `json:"bill_to"`
	EntityType     string          `json:"entity_type"`
	EntityID       int64           `json:"entity_id"`
	EntityName     string          `json:"entity_name"`
	PeriodFrom     string          `json:"period_from"`
	PeriodUntil    string          `json:"period_until"`
	Currency       string          `json:"currency"`
	CurrencySymbol string          `json:"currency_symbol"`
	Billing        *billing.Result `json:"billing"`
	Lines          []Line          `json:"lines"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	VATEnabled     bool            `json:"vat_enabled"`
	VATRate        decimal.Decimal `json:"vat_rate"`
	VATAmount      decimal.Decimal `json:"vat_amount"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
}

// BuildInvoice arma la factura de la entidad. El período debe estar cerrado y el precio ser positivo.
func BuildInvoice(e *entity.RentalEntity, s Settings, now time.Time) (*Invoice, error) {
	if e == nil {
		return nil, domain.ErrInvalidInput
	}
	p := period.New(e.PeriodFrom, e.PeriodUntil)
	result, err := billing.Calculate(p, e.MonthlyPrice)
	if err != nil {
		return nil, fmt.Errorf("factura %s %d: %w", e.Type, e.ID, err)
	}

	issue := period.Truncate(now)
	inv := &Invoice{
		Number:         Number(e.Type, e.ID, issue),
		IssueDate:      issue,
		DueDate:        issue.AddDate(0, 0, s.DueDays),
		Company:        s.Company,
		BillTo:         e.Primary,
		EntityType:     e.Type,
		EntityID:       e.ID,
		EntityName:     e.Name,
		PeriodFrom:     p.From.Format(period.DateLayout),
		PeriodUntil:    p.Until.Format(period.DateLayout),
		Currency:       strings.ToUpper(s.Currency),
		CurrencySymbol: CurrencySymbol(s.Currency),
		Billing:        result,
		Lines:          lines(e, result),
		Subtotal:       result.Subtotal,
		VATEnabled:     s.VATEnabled,
		VATRate:        s.VATRate,
		VATAmount:      decimal.Zero,
	}
	if s.VATEnabled {
		inv.VATAmount = inv.Subtotal.Mul(s.VATRate).Div(hundred).Round(2)
	}
	inv.GrandTotal = inv.Subtotal.Add(inv.VATAmount).Round(2)
	return inv, nil
}

// lines solo meses con al menos un día ocupado; cada uno cobra el precio mensual completo.
func lines(e *entity.RentalEntity, r *billing.Result) []Line {
	out := make([]Line, 0, len(r.Months))
	label := "Storage"
	if e.Type == entity.EntityTypePallet {
		label = "Pallet storage"
	}
	for _, m := range r.Months {
		if m.OccupiedDays == 0 {
			continue
		}
		out = append(out, Line{
			Period:      m.Label,
			Description: fmt.Sprintf("%s - %s", label, e.Name),
			Days:        fmt.Sprintf("%d of %d days", m.OccupiedDays, m.DaysInMonth),
			Rate:        r.MonthlyPrice,
			Amount:      m.Amount,
		})
	}
	return out
}

// Number "UNIT-<id>-YYYYMMDD" o "PAL-<id>-YYYYMMDD".
func Number(entityType string, id int64, issue time.Time) string {
	prefix := "UNIT"
	if entityType == entity.EntityTypePallet {
		prefix = "PAL"
	}
	return fmt.Sprintf("%s-%d-%s", prefix, id, issue.Format("20060102"))
}

// CurrencySymbol $ para USD, £ para GBP, € para el resto.
func CurrencySymbol(currency string) string {
	switch strings.ToUpper(currency) {
	case "USD":
		return "$"
	case "GBP":
		return "£"
	default:
		return "€"
	}
}

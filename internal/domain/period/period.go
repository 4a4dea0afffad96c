// Package period contiene la aritmética de fechas usada por la facturación:
// días por mes, intersección de un período de alquiler con un mes y recorrido
// de los meses calendario que toca un período.
//
// Todas las fechas se manejan con granularidad de día, normalizadas a medianoche UTC.
package period

import (
	"fmt"
	"time"

	"github.com/jhoicas/storage-manager/internal/domain"
)

// DateLayout formato de fecha usado por las tablas de unidades y pallets.
const DateLayout = "2006-01-02"

// Date construye una fecha (medianoche UTC).
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate descarta la hora y la zona: conserva año, mes y día tal como se ven en t.
func Truncate(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// Parse interpreta "YYYY-MM-DD". Cadena vacía => nil (límite ausente).
func Parse(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha %q", domain.ErrInvalidInput, s)
	}
	return &t, nil
}

// DaysInMonth devuelve la cantidad de días del mes (incluye años bisiestos).
func DaysInMonth(year int, month time.Month) int {
	// El día 0 del mes siguiente es el último día del mes pedido.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DaysInclusive cuenta los días de [from, until], ambos incluidos. 0 si until < from.
func DaysInclusive(from, until time.Time) int {
	from, until = Truncate(from), Truncate(until)
	if until.Before(from) {
		return 0
	}
	return int(until.Sub(from).Hours()/24) + 1
}

// ── YearMonth ────────────────────────────────────────────────────────────────

// YearMonth identifica un mes calendario.
type YearMonth struct {
	Year  int
	Month time.Month
}

// MonthOf devuelve el mes calendario de t.
func MonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// Label ej. "2024-03".
func (ym YearMonth) Label() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// Start primer día del mes.
func (ym YearMonth) Start() time.Time { return Date(ym.Year, ym.Month, 1) }

// End último día del mes.
func (ym YearMonth) End() time.Time { return Date(ym.Year, ym.Month, ym.Days()) }

// Days días del mes.
func (ym YearMonth) Days() int { return DaysInMonth(ym.Year, ym.Month) }

// Next mes siguiente.
func (ym YearMonth) Next() YearMonth {
	if ym.Month == time.December {
		return YearMonth{Year: ym.Year + 1, Month: time.January}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}

// After indica si ym es posterior a other.
func (ym YearMonth) After(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year > other.Year
	}
	return ym.Month > other.Month
}

// ── RentalPeriod ─────────────────────────────────────────────────────────────

// RentalPeriod intervalo de alquiler [From, Until]. Cualquiera de los dos límites puede faltar:
// sin From la unidad nunca se ocupó; sin Until el alquiler sigue abierto.
type RentalPeriod struct {
	From  *time.Time
	Until *time.Time
}

// New construye el período normalizando las fechas a día.
func New(from, until *time.Time) RentalPeriod {
	return RentalPeriod{From: truncatePtr(from), Until: truncatePtr(until)}
}

// Closed período con ambos límites.
func Closed(from, until time.Time) RentalPeriod {
	return New(&from, &until)
}

// HasFrom indica si el período tiene fecha inicial.
func (p RentalPeriod) HasFrom() bool { return p.From != nil }

// HasUntil indica si el período tiene fecha final.
func (p RentalPeriod) HasUntil() bool { return p.Until != nil }

// Validate exige From <= Until cuando ambos existen.
func (p RentalPeriod) Validate() error {
	if p.From != nil && p.Until != nil && Truncate(*p.From).After(Truncate(*p.Until)) {
		return fmt.Errorf("%w: %s > %s", domain.ErrInvalidPeriod,
			p.From.Format(DateLayout), p.Until.Format(DateLayout))
	}
	return nil
}

// String representación "[from, until]"; "…" para un límite ausente.
func (p RentalPeriod) String() string {
	return "[" + formatPtr(p.From) + ", " + formatPtr(p.Until) + "]"
}

// Clip cuenta los días del período que caen dentro de [monthStart, monthEnd], extremos incluidos.
// Un límite ausente deja el período abierto de ese lado. Devuelve 0 si no hay solapamiento.
func Clip(p RentalPeriod, monthStart, monthEnd time.Time) int {
	start, end := Truncate(monthStart), Truncate(monthEnd)
	if p.From != nil && Truncate(*p.From).After(start) {
		start = Truncate(*p.From)
	}
	if p.Until != nil && Truncate(*p.Until).Before(end) {
		end = Truncate(*p.Until)
	}
	return DaysInclusive(start, end)
}

// IterateMonths devuelve, en orden cronológico, cada mes calendario tocado por el período.
// Ambos límites son obligatorios: un período abierto no tiene fin que recorrer.
func IterateMonths(p RentalPeriod) ([]YearMonth, error) {
	if p.From == nil || p.Until == nil {
		return nil, domain.ErrOpenPeriod
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	first, last := MonthOf(*p.From), MonthOf(*p.Until)
	var months []YearMonth
	for ym := first; !ym.After(last); ym = ym.Next() {
		months = append(months, ym)
	}
	return months, nil
}

func truncatePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := Truncate(*t)
	return &d
}

func formatPtr(t *time.Time) string {
	if t == nil {
		return "…"
	}
	return t.Format(DateLayout)
}

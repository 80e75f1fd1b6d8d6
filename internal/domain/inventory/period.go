package inventory

import (
	"fmt"
	"time"
)

var monthNames = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// Period mes calendario de un año.
type Period struct {
	Year  int
	Month time.Month
}

// NewPeriod valida el mes (1..12) y el año (> 0).
func NewPeriod(year int, month time.Month) (Period, error) {
	if month < time.January || month > time.December {
		return Period{}, fmt.Errorf("mes fuera de rango: %d", month)
	}
	if year <= 0 {
		return Period{}, fmt.Errorf("año inválido: %d", year)
	}
	return Period{Year: year, Month: month}, nil
}

// PeriodOf devuelve el período que contiene t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// Contains indica si el día calendario d cae dentro del período (primer y último día inclusive).
func (p Period) Contains(d time.Time) bool {
	return d.Year() == p.Year && d.Month() == p.Month
}

// String formato "2006-01".
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Label etiqueta legible del mes, ej: "Febrero 2026".
func (p Period) Label() string {
	if p.Month < time.January || p.Month > time.December {
		return p.String()
	}
	return fmt.Sprintf("%s %d", monthNames[p.Month-1], p.Year)
}

// MonthName nombre del mes en español.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m-1]
}

package entity

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout formato de fecha calendario usado en el contrato remoto.
const DateLayout = "2006-01-02"

// CalendarDate normaliza t al día calendario que representa (00:00 UTC del mismo año/mes/día,
// tomados en la zona horaria propia de t).
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate acepta "2006-01-02", "2006-1-2" o un timestamp RFC3339; en este último caso
// conserva el día tal como fue escrito (sin convertir de zona horaria).
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("fecha vacía")
	}
	for _, layout := range []string{DateLayout, "2006-1-2"} {
		if t, err := time.Parse(layout, s); err == nil {
			return CalendarDate(t), nil
		}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha inválida %q, formato esperado %q", s, DateLayout)
	}
	return CalendarDate(t), nil
}

// Today devuelve el día calendario actual en la zona horaria local.
func Today() time.Time {
	return CalendarDate(time.Now())
}

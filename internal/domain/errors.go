package domain

import (
	"errors"
	"sort"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrRemote            = errors.New("fallo del servicio remoto")
)

// ValidationError entrada inválida con el detalle por campo (campo → regla incumplida).
// errors.Is(err, ErrInvalidInput) es verdadero.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError construye el error para un único campo.
func NewValidationError(field, rule string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: rule}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrInvalidInput.Error()
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return ErrInvalidInput.Error() + " (" + strings.Join(parts, ", ") + ")"
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

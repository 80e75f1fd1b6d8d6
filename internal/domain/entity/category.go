package entity

import "time"

// Category representa una categoría de mercadería definida por el usuario (ej. un tipo de prenda).
// El nombre se espera único por convención; no se impone.
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

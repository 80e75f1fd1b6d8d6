package usecase

import (
	"time"

	"github.com/google/uuid"
)

// Reloj e identificadores del servicio de ledger; reemplazables en tests.
type ids struct {
	now   func() time.Time
	newID func() string
}

func defaultIDs() ids {
	return ids{
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.New().String() },
	}
}

// Option ajusta el reloj o el generador de IDs de un caso de uso del ledger.
type Option func(*ids)

// WithClock fija el reloj usado para createdAt y la fecha por defecto.
func WithClock(now func() time.Time) Option {
	return func(i *ids) { i.now = now }
}

// WithIDGenerator reemplaza uuid.New.
func WithIDGenerator(newID func() string) Option {
	return func(i *ids) { i.newID = newID }
}

func buildIDs(opts []Option) ids {
	i := defaultIDs()
	for _, opt := range opts {
		opt(&i)
	}
	return i
}

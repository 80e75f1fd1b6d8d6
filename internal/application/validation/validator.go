// Package validation envuelve go-playground/validator con las reglas comunes del POS
// y del ledger: nombres de campo según el tag json y soporte de decimal.Decimal y NullDecimal.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-bale/internal/domain"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator devuelve la instancia compartida (validator.Validate es seguro para uso concurrente
// y cachea la metadata de cada struct).
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		// min/max/gt sobre importes se evalúan con su valor float64.
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})
		// Un NullDecimal sin valor se ve como ausente y falla required. Con valor se entrega
		// como *float64 para que un 0 explícito cuente como presente.
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.NullDecimal); ok && d.Valid {
				f, _ := d.Decimal.Float64()
				return &f
			}
			return nil
		}, decimal.NullDecimal{})
		instance = v
	})
	return instance
}

// Struct valida s y traduce las fallas a *domain.ValidationError.
func Struct(s interface{}) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validación: %w", err)
	}
	out := &domain.ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields[fe.Field()] = fe.Tag()
	}
	return out
}

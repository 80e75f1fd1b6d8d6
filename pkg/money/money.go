// Package money formatea importes para mostrar: prefijo fijo "LKR", separador de miles ","
// y dos decimales. Los cálculos nunca pasan por aquí; solo la presentación.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency prefijo de moneda de la tienda.
const Currency = "LKR"

// Format devuelve "LKR 1,234.56" (negativos como "LKR -1,234.56").
func Format(d decimal.Decimal) string {
	return Currency + " " + Amount(d)
}

// FormatAbs formatea el valor absoluto; las vistas indican el signo con la etiqueta.
func FormatAbs(d decimal.Decimal) string {
	return Format(d.Abs())
}

// Amount devuelve el número con miles agrupados y dos decimales, sin moneda.
func Amount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	if s == "0.00" {
		neg = false
	}

	intPart, frac, _ := strings.Cut(s, ".")
	out := groupThousands(intPart) + "." + frac
	if neg {
		return "-" + out
	}
	return out
}

// Percent redondea a un decimal: "12.5%".
func Percent(d decimal.Decimal) string {
	return d.StringFixed(1) + "%"
}

// groupThousands inserta "," cada tres dígitos desde la derecha.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	return string(buf)
}

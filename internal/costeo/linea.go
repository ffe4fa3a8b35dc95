package costeo

import "github.com/shopspring/decimal"

var cien = decimal.NewFromInt(100)

// LineaCalculada carries the derived values of one document line.
type LineaCalculada struct {
	DescuentoMonto decimal.Decimal
	Subtotal       decimal.Decimal
}

// CalcularLinea validates and computes one line. Preconditions are checked
// in a fixed order — quantity, then price, then discount — so callers always
// see the first violated one:
//
//	bruto     = cantidad * precioUnitario
//	descuento = round(bruto * descuentoPct / 100, 2)
//	subtotal  = round(bruto - descuento, 2)
//
// Pure function: the caller persists the result onto the DocumentoLinea.
func CalcularLinea(cantidad, precioUnitario, descuentoPct decimal.Decimal) (LineaCalculada, error) {
	if cantidad.LessThanOrEqual(decimal.Zero) {
		return LineaCalculada{}, &CantidadNoPositivaError{Cantidad: cantidad}
	}
	if precioUnitario.IsNegative() {
		return LineaCalculada{}, &PrecioUnitarioNegativoError{Precio: precioUnitario}
	}
	if descuentoPct.IsNegative() || descuentoPct.GreaterThan(cien) {
		return LineaCalculada{}, &DescuentoFueraDeRangoError{Descuento: descuentoPct}
	}

	bruto := cantidad.Mul(precioUnitario)
	// Shift(-2) divides by 100 exactly (decimal exponent shift, no rounding).
	descuento := bruto.Mul(descuentoPct).Shift(-2).Round(2)
	subtotal := bruto.Sub(descuento).Round(2)

	return LineaCalculada{DescuentoMonto: descuento, Subtotal: subtotal}, nil
}

// PrecioUnitarioEfectivo is the per-unit price after discount. Defined as 0
// when cantidad is zero: a zero-quantity line is rejected upstream, but the
// accessor stays total instead of dividing by zero.
func PrecioUnitarioEfectivo(subtotal, cantidad decimal.Decimal) decimal.Decimal {
	if cantidad.IsZero() {
		return decimal.Zero
	}
	return subtotal.DivRound(cantidad, 2)
}

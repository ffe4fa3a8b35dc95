package costeo

import "github.com/shopspring/decimal"

// TotalesDocumento carries the document-level figures.
// TotalMonedaBase is nil when no exchange rate was supplied.
type TotalesDocumento struct {
	Subtotal        decimal.Decimal
	MontoImpuesto   decimal.Decimal
	Total           decimal.Decimal
	TotalMonedaBase *decimal.Decimal
}

// TotalizarDocumento aggregates already-rounded line subtotals:
//
//	subtotal = round(sum(subtotales), 2)        // empty input → 0
//	impuesto = round(subtotal * pct / 100, 2)
//	total    = subtotal + impuesto
//
// Summing the per-line rounded values (never the raw cantidad*precio
// products) keeps the result independent of line order. tipoCambio, when
// given, is units of the home currency per document-currency unit.
func TotalizarDocumento(subtotales []decimal.Decimal, impuestoPct decimal.Decimal, tipoCambio *decimal.Decimal) (TotalesDocumento, error) {
	if impuestoPct.IsNegative() || impuestoPct.GreaterThan(cien) {
		return TotalesDocumento{}, &ImpuestoFueraDeRangoError{Impuesto: impuestoPct}
	}

	subtotal := decimal.Zero
	for _, s := range subtotales {
		subtotal = subtotal.Add(s)
	}
	subtotal = subtotal.Round(2)

	impuesto := subtotal.Mul(impuestoPct).Shift(-2).Round(2)
	total := subtotal.Add(impuesto)

	t := TotalesDocumento{Subtotal: subtotal, MontoImpuesto: impuesto, Total: total}
	if tipoCambio != nil {
		conv := total.Mul(*tipoCambio).Round(2)
		t.TotalMonedaBase = &conv
	}
	return t, nil
}

package costeo

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCalcularLinea_ConDescuento(t *testing.T) {
	l, err := CalcularLinea(dec("3"), dec("100.00"), dec("10"))
	require.NoError(t, err)

	assert.Equal(t, "30.00", l.DescuentoMonto.StringFixed(2))
	assert.Equal(t, "270.00", l.Subtotal.StringFixed(2))
	assert.Equal(t, "90.00", PrecioUnitarioEfectivo(l.Subtotal, dec("3")).StringFixed(2))
}

func TestCalcularLinea_SinDescuento(t *testing.T) {
	l, err := CalcularLinea(dec("2.500"), dec("19.90"), decimal.Zero)
	require.NoError(t, err)

	assert.Equal(t, "0.00", l.DescuentoMonto.StringFixed(2))
	assert.Equal(t, "49.75", l.Subtotal.StringFixed(2))
}

func TestCalcularLinea_RedondeoHalfUp(t *testing.T) {
	// bruto = 0.333 * 10.00 = 3.33; descuento 5% = 0.1665 → 0.17
	l, err := CalcularLinea(dec("0.333"), dec("10.00"), dec("5"))
	require.NoError(t, err)

	assert.Equal(t, "0.17", l.DescuentoMonto.StringFixed(2))
	assert.Equal(t, "3.16", l.Subtotal.StringFixed(2))
}

func TestCalcularLinea_OrdenDeValidacion(t *testing.T) {
	// Los tres precondiciones violadas a la vez: gana la primera (cantidad).
	_, err := CalcularLinea(decimal.Zero, dec("-5"), dec("200"))
	var cant *CantidadNoPositivaError
	require.ErrorAs(t, err, &cant)
	assert.Equal(t, "0", cant.Cantidad.String())
}

func TestCalcularLinea_PrecioNegativo(t *testing.T) {
	_, err := CalcularLinea(dec("1"), dec("-0.01"), decimal.Zero)
	var precio *PrecioUnitarioNegativoError
	require.ErrorAs(t, err, &precio)
	assert.Equal(t, "-0.01", precio.Precio.StringFixed(2))
}

func TestCalcularLinea_DescuentoFueraDeRango(t *testing.T) {
	_, err := CalcularLinea(dec("1"), dec("10.00"), dec("100.01"))
	var desc *DescuentoFueraDeRangoError
	require.ErrorAs(t, err, &desc)

	_, err = CalcularLinea(dec("1"), dec("10.00"), dec("-1"))
	require.ErrorAs(t, err, &desc)
}

func TestCalcularLinea_DescuentoLimites(t *testing.T) {
	// 0 y 100 son válidos
	l, err := CalcularLinea(dec("2"), dec("50.00"), dec("100"))
	require.NoError(t, err)
	assert.Equal(t, "100.00", l.DescuentoMonto.StringFixed(2))
	assert.Equal(t, "0.00", l.Subtotal.StringFixed(2))
}

func TestPrecioUnitarioEfectivo_CantidadCero(t *testing.T) {
	assert.True(t, PrecioUnitarioEfectivo(dec("100.00"), decimal.Zero).IsZero())
}

package costeo

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func articulo(costo string) Producto {
	return Producto{ID: uuid.New(), CostoUnitario: decimal.RequireFromString(costo)}
}

func nomenclatura() Producto {
	return Producto{ID: uuid.New(), EsNomenclatura: true}
}

func edge(padre, hijo Producto, cantidad string) Componente {
	return Componente{PadreID: padre.ID, HijoID: hijo.ID, Cantidad: decimal.RequireFromString(cantidad)}
}

func TestCostoUnitario_Articulo(t *testing.T) {
	c := articulo("12.50")
	cat := NewCatalogo([]Producto{c}, nil)

	costo, err := cat.CostoUnitario(c.ID)
	require.NoError(t, err)
	assert.Equal(t, "12.50", costo.StringFixed(2))
}

func TestCostoUnitario_TresNiveles(t *testing.T) {
	// A contiene 2×B, B contiene 3×C (articulo a 5.00) → 2*3*5 = 30.00
	a, b := nomenclatura(), nomenclatura()
	c := articulo("5.00")
	cat := NewCatalogo(
		[]Producto{a, b, c},
		[]Componente{edge(a, b, "2"), edge(b, c, "3")},
	)

	costo, err := cat.CostoUnitario(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "30.00", costo.StringFixed(2))
}

func TestCostoUnitario_RedondeoFinal(t *testing.T) {
	// 0.5 × 1.11 = 0.555 — se redondea half-up solo al final
	a := nomenclatura()
	c := articulo("1.11")
	cat := NewCatalogo([]Producto{a, c}, []Componente{edge(a, c, "0.5")})

	costo, err := cat.CostoUnitario(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "0.56", costo.StringFixed(2))
}

func TestCostoUnitario_Memoizacion(t *testing.T) {
	// Chain of 40 nomenclaturas where every level references the next one
	// twice. Without memoization this is 2^40 resolutions and the test never
	// finishes; with it, each product is resolved once.
	productos := make([]Producto, 0, 41)
	for i := 0; i < 40; i++ {
		productos = append(productos, nomenclatura())
	}
	hoja := articulo("1.00")
	productos = append(productos, hoja)

	var edges []Componente
	for i := 0; i < 40; i++ {
		edges = append(edges,
			edge(productos[i], productos[i+1], "1"),
			edge(productos[i], productos[i+1], "1"),
		)
	}

	cat := NewCatalogo(productos, edges)
	costo, err := cat.CostoUnitario(productos[0].ID)
	require.NoError(t, err)

	esperado := decimal.NewFromInt(2).Pow(decimal.NewFromInt(40))
	assert.True(t, costo.Equal(esperado), "esperado %s, recibido %s", esperado, costo)
}

func TestCostoUnitario_CicloDirecto(t *testing.T) {
	a, b := nomenclatura(), nomenclatura()
	cat := NewCatalogo([]Producto{a, b}, []Componente{edge(a, b, "1"), edge(b, a, "1")})

	_, err := cat.CostoUnitario(a.ID)
	var ciclo *CicloBOMError
	require.ErrorAs(t, err, &ciclo)
	assert.Equal(t, a.ID, ciclo.ProductoID)
	assert.Equal(t, b.ID, ciclo.DesdeID)
}

func TestCostoUnitario_AutoReferencia(t *testing.T) {
	a := nomenclatura()
	cat := NewCatalogo([]Producto{a}, []Componente{edge(a, a, "1")})

	_, err := cat.CostoUnitario(a.ID)
	var ciclo *CicloBOMError
	require.ErrorAs(t, err, &ciclo)
	assert.Equal(t, a.ID, ciclo.ProductoID)
	assert.Equal(t, a.ID, ciclo.DesdeID)
}

func TestCostoUnitario_DiamanteNoEsCiclo(t *testing.T) {
	// A→B, A→C, B→D, C→D: D aparece dos veces pero nunca en el mismo camino.
	a, b, c := nomenclatura(), nomenclatura(), nomenclatura()
	d := articulo("10.00")
	cat := NewCatalogo(
		[]Producto{a, b, c, d},
		[]Componente{edge(a, b, "1"), edge(a, c, "1"), edge(b, d, "2"), edge(c, d, "3")},
	)

	costo, err := cat.CostoUnitario(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "50.00", costo.StringFixed(2))
}

func TestCostoUnitario_ProductoDesconocido(t *testing.T) {
	cat := NewCatalogo(nil, nil)
	desconocido := uuid.New()

	_, err := cat.CostoUnitario(desconocido)
	var nf *ProductoNoEncontradoError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, desconocido, nf.ProductoID)
}

func TestCostoUnitario_ArticuloConComponentes(t *testing.T) {
	a := articulo("5.00")
	h := articulo("1.00")
	cat := NewCatalogo([]Producto{a, h}, []Componente{edge(a, h, "1")})

	_, err := cat.CostoUnitario(a.ID)
	var inv *EstructuraBOMInvalidaError
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, a.ID, inv.ProductoID)
}

func TestCostoUnitario_EdgeHaciaProductoInexistente(t *testing.T) {
	a := nomenclatura()
	fantasma := uuid.New()
	cat := NewCatalogo([]Producto{a}, []Componente{{PadreID: a.ID, HijoID: fantasma, Cantidad: decimal.NewFromInt(1)}})

	_, err := cat.CostoUnitario(a.ID)
	var nf *ProductoNoEncontradoError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, fantasma, nf.ProductoID)
}

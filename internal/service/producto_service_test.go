package service

import (
	"context"
	"testing"

	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/costeo"
	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/dto"
	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func crearArticulo(t *testing.T, svc ProductoService, codigo, costo string) uuid.UUID {
	t.Helper()
	c := dec(t, costo)
	resp, err := svc.Crear(context.Background(), dto.CrearProductoRequest{
		Codigo: codigo, Nombre: "Articulo " + codigo, Tipo: model.TipoArticulo,
		CostoUnitario: &c, PrecioVenta: dec(t, "10"),
	})
	require.NoError(t, err)
	return uuid.MustParse(resp.ID)
}

func crearNomenclatura(t *testing.T, svc ProductoService, codigo string) uuid.UUID {
	t.Helper()
	resp, err := svc.Crear(context.Background(), dto.CrearProductoRequest{
		Codigo: codigo, Nombre: "Nomenclatura " + codigo, Tipo: model.TipoNomenclatura,
		PrecioVenta: dec(t, "10"),
	})
	require.NoError(t, err)
	return uuid.MustParse(resp.ID)
}

func TestCrearProducto_CodigoDuplicado(t *testing.T) {
	svc := NewProductoService(newStubProductoRepo(), nil)
	crearArticulo(t, svc, "DUP-1", "5")

	c := dec(t, "5")
	_, err := svc.Crear(context.Background(), dto.CrearProductoRequest{
		Codigo: "DUP-1", Nombre: "Otro", Tipo: model.TipoArticulo,
		CostoUnitario: &c, PrecioVenta: dec(t, "10"),
	})
	require.Error(t, err)
}

func TestCrearProducto_NomenclaturaNoLlevaCosto(t *testing.T) {
	svc := NewProductoService(newStubProductoRepo(), nil)

	c := dec(t, "5")
	_, err := svc.Crear(context.Background(), dto.CrearProductoRequest{
		Codigo: "NOM-1", Nombre: "Kit", Tipo: model.TipoNomenclatura,
		CostoUnitario: &c, PrecioVenta: dec(t, "10"),
	})
	require.Error(t, err)
}

func TestCrearComponente_PadreDebeSerNomenclatura(t *testing.T) {
	repo := newStubProductoRepo()
	svc := NewProductoService(repo, nil)

	articulo := crearArticulo(t, svc, "ART-1", "5")
	hijo := crearArticulo(t, svc, "ART-2", "3")

	_, err := svc.CrearComponente(context.Background(), articulo, dto.CrearComponenteRequest{
		ProductoHijoID:    hijo.String(),
		CantidadPorUnidad: dec(t, "2"),
	})
	var estructura *costeo.EstructuraBOMInvalidaError
	require.ErrorAs(t, err, &estructura)
	assert.Empty(t, repo.componentes)
}

func TestCrearComponente_CantidadNoPositiva(t *testing.T) {
	svc := NewProductoService(newStubProductoRepo(), nil)

	padre := crearNomenclatura(t, svc, "NOM-1")
	hijo := crearArticulo(t, svc, "ART-1", "5")

	_, err := svc.CrearComponente(context.Background(), padre, dto.CrearComponenteRequest{
		ProductoHijoID:    hijo.String(),
		CantidadPorUnidad: dec(t, "0"),
	})
	var cant *costeo.CantidadNoPositivaError
	require.ErrorAs(t, err, &cant)
}

func TestCrearComponente_CicloRechazadoAntesDePersistir(t *testing.T) {
	repo := newStubProductoRepo()
	svc := NewProductoService(repo, nil)
	ctx := context.Background()

	a := crearNomenclatura(t, svc, "NOM-A")
	b := crearNomenclatura(t, svc, "NOM-B")

	_, err := svc.CrearComponente(ctx, a, dto.CrearComponenteRequest{
		ProductoHijoID: b.String(), CantidadPorUnidad: dec(t, "1"),
	})
	require.NoError(t, err)

	// b → a cerraria el ciclo a → b → a
	_, err = svc.CrearComponente(ctx, b, dto.CrearComponenteRequest{
		ProductoHijoID: a.String(), CantidadPorUnidad: dec(t, "1"),
	})
	var ciclo *costeo.CicloBOMError
	require.ErrorAs(t, err, &ciclo)
	assert.Len(t, repo.componentes, 1)
}

func TestCostoUnitario_ArticuloDevuelveCostoDeclarado(t *testing.T) {
	svc := NewProductoService(newStubProductoRepo(), nil)

	articulo := crearArticulo(t, svc, "ART-1", "7.50")
	resp, err := svc.CostoUnitario(context.Background(), articulo)
	require.NoError(t, err)
	assert.True(t, resp.CostoUnitario.Equal(dec(t, "7.50")))
}

func TestCostoUnitario_RollupMultinivel(t *testing.T) {
	svc := NewProductoService(newStubProductoRepo(), nil)
	ctx := context.Background()

	pieza := crearArticulo(t, svc, "PZ-1", "5.00")
	sub := crearNomenclatura(t, svc, "SUB-1")
	kit := crearNomenclatura(t, svc, "KIT-1")

	_, err := svc.CrearComponente(ctx, sub, dto.CrearComponenteRequest{
		ProductoHijoID: pieza.String(), CantidadPorUnidad: dec(t, "3"),
	})
	require.NoError(t, err)
	_, err = svc.CrearComponente(ctx, kit, dto.CrearComponenteRequest{
		ProductoHijoID: sub.String(), CantidadPorUnidad: dec(t, "2"),
	})
	require.NoError(t, err)

	resp, err := svc.CostoUnitario(ctx, kit)
	require.NoError(t, err)
	assert.True(t, resp.CostoUnitario.Equal(dec(t, "30.00")), "costo %s", resp.CostoUnitario)
}

func TestCostoUnitario_ProductoDesconocido(t *testing.T) {
	svc := NewProductoService(newStubProductoRepo(), nil)

	_, err := svc.CostoUnitario(context.Background(), uuid.New())
	var noEnc *costeo.ProductoNoEncontradoError
	require.ErrorAs(t, err, &noEnc)
}

func TestActualizar_CambioDePrecioGeneraHistorial(t *testing.T) {
	repo := newStubProductoRepo()
	svc := NewProductoService(repo, nil)
	ctx := context.Background()

	articulo := crearArticulo(t, svc, "ART-1", "5.00")

	nuevoCosto := dec(t, "6.25")
	motivo := "alza proveedor"
	_, err := svc.Actualizar(ctx, articulo, dto.ActualizarProductoRequest{
		CostoUnitario: &nuevoCosto,
		MotivoCambio:  &motivo,
	})
	require.NoError(t, err)

	hist, err := svc.ListarHistorial(ctx, articulo)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.True(t, hist[0].CostoAnterior.Equal(dec(t, "5.00")))
	assert.True(t, hist[0].CostoNuevo.Equal(dec(t, "6.25")))
	assert.Equal(t, &motivo, hist[0].Motivo)
}

func TestActualizar_SinCambioMonetarioNoGeneraHistorial(t *testing.T) {
	repo := newStubProductoRepo()
	svc := NewProductoService(repo, nil)
	ctx := context.Background()

	articulo := crearArticulo(t, svc, "ART-1", "5.00")

	nombre := "Nombre nuevo"
	_, err := svc.Actualizar(ctx, articulo, dto.ActualizarProductoRequest{Nombre: &nombre})
	require.NoError(t, err)

	hist, err := svc.ListarHistorial(ctx, articulo)
	require.NoError(t, err)
	assert.Empty(t, hist)
}

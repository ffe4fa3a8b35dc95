package service

import (
	"context"
	"testing"

	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/costeo"
	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/dto"
	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

// docEnv wires a DocumentoService over in-memory stubs, with one empresa, one
// moneda and one vendible articulo pre-created, plus a borrador documento.
type docEnv struct {
	svc        DocumentoService
	docRepo    *stubDocumentoRepo
	prodRepo   *stubProductoRepo
	documento  *model.Documento
	productoID uuid.UUID
}

func newDocEnv(t *testing.T) *docEnv {
	t.Helper()
	ctx := context.Background()

	prodRepo := newStubProductoRepo()
	docRepo := newStubDocumentoRepo()
	empRepo := newStubEmpresaRepo()
	monRepo := newStubMonedaRepo()

	producto := &model.Producto{
		Codigo: "ART-1", Nombre: "Articulo", Tipo: model.TipoArticulo,
		CostoUnitario: dec(t, "60"), PrecioVenta: dec(t, "100"), Activo: true,
	}
	require.NoError(t, prodRepo.Create(ctx, producto))

	empresa := &model.Empresa{RazonSocial: "Cliente SpA", RUT: "76.000.111-2", Activo: true}
	require.NoError(t, empRepo.Create(ctx, empresa))
	moneda := &model.Moneda{Codigo: "CLP", Nombre: "Peso chileno"}
	require.NoError(t, monRepo.Create(ctx, moneda))

	doc := &model.Documento{
		Tipo: model.DocCotizacion, Numero: 1,
		EmpresaID: empresa.ID, MonedaID: moneda.ID,
		TipoCambio: decimal.NewFromInt(1), ImpuestoPct: dec(t, "19"),
		Estado: model.EstadoBorrador, EnvioEstado: model.EnvioNoSolicitado,
	}
	require.NoError(t, docRepo.Create(ctx, nil, doc))

	svc := NewDocumentoService(docRepo, prodRepo, empRepo, monRepo, nil, dec(t, "19"))
	return &docEnv{svc: svc, docRepo: docRepo, prodRepo: prodRepo, documento: doc, productoID: producto.ID}
}

func (e *docEnv) agregarLinea(t *testing.T, req dto.AgregarLineaRequest) *dto.DocumentoResponse {
	t.Helper()
	resp, err := e.svc.AgregarLinea(context.Background(), e.documento.ID, req)
	require.NoError(t, err)
	return resp
}

func TestAgregarLinea_RecalculaTotales(t *testing.T) {
	env := newDocEnv(t)

	// 2 × 100 → 200.00
	resp := env.agregarLinea(t, dto.AgregarLineaRequest{
		ProductoID: env.productoID.String(),
		Cantidad:   dec(t, "2"),
	})
	assert.True(t, resp.Subtotal.Equal(dec(t, "200")), "subtotal %s", resp.Subtotal)

	// + 1 × 150 al 10% → 135.00; total documento 335.00 / 63.65 / 398.65
	precio := dec(t, "150")
	resp = env.agregarLinea(t, dto.AgregarLineaRequest{
		ProductoID:     env.productoID.String(),
		Cantidad:       dec(t, "1"),
		PrecioUnitario: &precio,
		DescuentoPct:   dec(t, "10"),
	})
	assert.True(t, resp.Subtotal.Equal(dec(t, "335")), "subtotal %s", resp.Subtotal)
	assert.True(t, resp.MontoImpuesto.Equal(dec(t, "63.65")), "impuesto %s", resp.MontoImpuesto)
	assert.True(t, resp.Total.Equal(dec(t, "398.65")), "total %s", resp.Total)
	require.Len(t, resp.Lineas, 2)
	assert.Equal(t, 2, resp.Lineas[1].Posicion)
}

func TestAgregarLinea_PrecioPorDefecto(t *testing.T) {
	env := newDocEnv(t)

	// Sin precio explicito toma el precio de venta vigente del producto.
	resp := env.agregarLinea(t, dto.AgregarLineaRequest{
		ProductoID: env.productoID.String(),
		Cantidad:   dec(t, "3"),
	})
	require.Len(t, resp.Lineas, 1)
	assert.True(t, resp.Lineas[0].PrecioUnitario.Equal(dec(t, "100")))
	assert.True(t, resp.Lineas[0].Subtotal.Equal(dec(t, "300")))
}

func TestAgregarLinea_ValidacionEnOrden(t *testing.T) {
	env := newDocEnv(t)
	ctx := context.Background()

	precio := dec(t, "-5")
	_, err := env.svc.AgregarLinea(ctx, env.documento.ID, dto.AgregarLineaRequest{
		ProductoID:     env.productoID.String(),
		Cantidad:       dec(t, "0"),
		PrecioUnitario: &precio,
		DescuentoPct:   dec(t, "200"),
	})
	// Cantidad se valida antes que precio y descuento.
	var cantErr *costeo.CantidadNoPositivaError
	require.ErrorAs(t, err, &cantErr)
}

func TestAgregarLinea_SoloEnBorrador(t *testing.T) {
	env := newDocEnv(t)
	env.documento.Estado = model.EstadoEmitido

	_, err := env.svc.AgregarLinea(context.Background(), env.documento.ID, dto.AgregarLineaRequest{
		ProductoID: env.productoID.String(),
		Cantidad:   dec(t, "1"),
	})
	require.Error(t, err)
}

func TestActualizarLinea_Recalcula(t *testing.T) {
	env := newDocEnv(t)

	resp := env.agregarLinea(t, dto.AgregarLineaRequest{
		ProductoID: env.productoID.String(),
		Cantidad:   dec(t, "2"),
	})
	lineaID := uuid.MustParse(resp.Lineas[0].ID)

	nuevaCantidad := dec(t, "5")
	resp2, err := env.svc.ActualizarLinea(context.Background(), env.documento.ID, lineaID, dto.ActualizarLineaRequest{
		Cantidad: &nuevaCantidad,
	})
	require.NoError(t, err)
	assert.True(t, resp2.Subtotal.Equal(dec(t, "500")), "subtotal %s", resp2.Subtotal)
}

func TestEliminarLinea_DocumentoVacioQuedaEnCero(t *testing.T) {
	env := newDocEnv(t)

	resp := env.agregarLinea(t, dto.AgregarLineaRequest{
		ProductoID: env.productoID.String(),
		Cantidad:   dec(t, "2"),
	})
	lineaID := uuid.MustParse(resp.Lineas[0].ID)

	resp2, err := env.svc.EliminarLinea(context.Background(), env.documento.ID, lineaID)
	require.NoError(t, err)
	assert.Empty(t, resp2.Lineas)
	assert.True(t, resp2.Subtotal.IsZero())
	assert.True(t, resp2.MontoImpuesto.IsZero())
	assert.True(t, resp2.Total.IsZero())
}

func TestEmitir_SinLineas(t *testing.T) {
	env := newDocEnv(t)

	_, err := env.svc.Emitir(context.Background(), env.documento.ID)
	require.Error(t, err)
	assert.Equal(t, model.EstadoBorrador, env.docRepo.docs[env.documento.ID].Estado)
}

func TestEmitir_LineaInvalidaAbortaSinTotalesParciales(t *testing.T) {
	env := newDocEnv(t)
	ctx := context.Background()

	env.agregarLinea(t, dto.AgregarLineaRequest{
		ProductoID: env.productoID.String(),
		Cantidad:   dec(t, "2"),
	})
	// Una linea corrupta entra directo al repo, sin pasar por el servicio.
	require.NoError(t, env.docRepo.CreateLinea(ctx, nil, &model.DocumentoLinea{
		DocumentoID:    env.documento.ID,
		ProductoID:     env.productoID,
		Posicion:       2,
		Cantidad:       dec(t, "0"),
		PrecioUnitario: dec(t, "100"),
	}))

	_, err := env.svc.Emitir(ctx, env.documento.ID)
	require.Error(t, err)

	doc := env.docRepo.docs[env.documento.ID]
	assert.Equal(t, model.EstadoBorrador, doc.Estado)
	// Los totales previos no fueron tocados por la emision fallida.
	assert.True(t, doc.Subtotal.Equal(dec(t, "200")))
}

func TestEmitir_OK(t *testing.T) {
	env := newDocEnv(t)

	env.agregarLinea(t, dto.AgregarLineaRequest{
		ProductoID: env.productoID.String(),
		Cantidad:   dec(t, "2"),
	})
	resp, err := env.svc.Emitir(context.Background(), env.documento.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EstadoEmitido, resp.Estado)
	assert.True(t, resp.Total.Equal(dec(t, "238")), "total %s", resp.Total) // 200 + 19%
}

func TestCambiarEstado_Transiciones(t *testing.T) {
	env := newDocEnv(t)
	ctx := context.Background()

	// borrador → aceptado no es valido
	_, err := env.svc.CambiarEstado(ctx, env.documento.ID, dto.CambiarEstadoRequest{Estado: model.EstadoAceptado})
	require.Error(t, err)

	// borrador → anulado si
	resp, err := env.svc.CambiarEstado(ctx, env.documento.ID, dto.CambiarEstadoRequest{Estado: model.EstadoAnulado})
	require.NoError(t, err)
	assert.Equal(t, model.EstadoAnulado, resp.Estado)

	// anulado es terminal
	_, err = env.svc.CambiarEstado(ctx, env.documento.ID, dto.CambiarEstadoRequest{Estado: model.EstadoAceptado})
	require.Error(t, err)
}

func TestCambiarEstado_EmitidoAceptado(t *testing.T) {
	env := newDocEnv(t)
	env.documento.Estado = model.EstadoEmitido

	resp, err := env.svc.CambiarEstado(context.Background(), env.documento.ID, dto.CambiarEstadoRequest{Estado: model.EstadoAceptado})
	require.NoError(t, err)
	assert.Equal(t, model.EstadoAceptado, resp.Estado)
}

func TestEnviar_BorradorRechazado(t *testing.T) {
	env := newDocEnv(t)

	err := env.svc.Enviar(context.Background(), env.documento.ID, dto.EnviarDocumentoRequest{Email: "cliente@test.cl"})
	require.Error(t, err)
}

func TestEnviar_MarcaPendiente(t *testing.T) {
	env := newDocEnv(t)
	env.documento.Estado = model.EstadoEmitido

	err := env.svc.Enviar(context.Background(), env.documento.ID, dto.EnviarDocumentoRequest{Email: "cliente@test.cl"})
	require.NoError(t, err)

	doc := env.docRepo.docs[env.documento.ID]
	assert.Equal(t, model.EnvioPendiente, doc.EnvioEstado)
	require.NotNil(t, doc.EnvioEmail)
	assert.Equal(t, "cliente@test.cl", *doc.EnvioEmail)
}

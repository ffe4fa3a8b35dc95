package infra

// pdf.go — A4 document rendering using go-pdf/fpdf.
// Layout:
//   - Document type + folio header
//   - Empresa block (razon social, RUT, contact)
//   - Line table (codigo, producto, cantidad, precio, descuento, subtotal)
//   - Totals block (subtotal, impuesto, total, home-currency total)
//
// The output file is saved to storagePath/{tipo}_{numero}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

var uno = decimal.NewFromInt(1)

var tipoTitulo = map[string]string{
	model.DocCotizacion: "COTIZACION",
	model.DocPedido:     "PEDIDO",
	model.DocFactura:    "FACTURA",
}

// GenerateDocumentoPDF renders a document (with preloaded Empresa, Moneda and
// Lineas) to an A4 PDF. storagePath is created if needed. Returns the path of
// the generated file.
func GenerateDocumentoPDF(doc *model.Documento, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("%s_%06d.pdf", doc.Tipo, doc.Numero)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	titulo := tipoTitulo[doc.Tipo]
	if titulo == "" {
		titulo = strings.ToUpper(doc.Tipo)
	}
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW*0.6, 9, titulo, "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.4, 9, fmt.Sprintf("N° %06d", doc.Numero), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, doc.CreatedAt.Format("02/01/2006"), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// ── Empresa block ─────────────────────────────────────────────────────────
	if doc.Empresa != nil {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(contentW, 5, doc.Empresa.RazonSocial, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(contentW, 5, "RUT: "+doc.Empresa.RUT, "", 1, "L", false, 0, "")
		if doc.Empresa.Direccion != nil {
			pdf.CellFormat(contentW, 5, *doc.Empresa.Direccion, "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(4)

	// ── Line table header ─────────────────────────────────────────────────────
	colCodigo := contentW * 0.14
	colNombre := contentW * 0.34
	colCant := contentW * 0.12
	colPrecio := contentW * 0.14
	colDesc := contentW * 0.10
	colSub := contentW * 0.16

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(colCodigo, 6, "Codigo", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colNombre, 6, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colCant, 6, "Cant.", "B", 0, "R", false, 0, "")
	pdf.CellFormat(colPrecio, 6, "Precio", "B", 0, "R", false, 0, "")
	pdf.CellFormat(colDesc, 6, "Desc.", "B", 0, "R", false, 0, "")
	pdf.CellFormat(colSub, 6, "Subtotal", "B", 1, "R", false, 0, "")

	// ── Line rows ─────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	for _, linea := range doc.Lineas {
		codigo, nombre := "", ""
		if linea.Producto != nil {
			codigo = linea.Producto.Codigo
			nombre = linea.Producto.Nombre
		}
		if len(nombre) > 38 {
			nombre = nombre[:37] + "…"
		}
		pdf.CellFormat(colCodigo, 5, codigo, "", 0, "L", false, 0, "")
		pdf.CellFormat(colNombre, 5, nombre, "", 0, "L", false, 0, "")
		pdf.CellFormat(colCant, 5, linea.Cantidad.StringFixed(3), "", 0, "R", false, 0, "")
		pdf.CellFormat(colPrecio, 5, linea.PrecioUnitario.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(colDesc, 5, linea.DescuentoPct.StringFixed(1)+"%", "", 0, "R", false, 0, "")
		pdf.CellFormat(colSub, 5, linea.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ────────────────────────────────────────────────────────────────
	moneda := ""
	if doc.Moneda != nil {
		moneda = doc.Moneda.Codigo + " "
	}
	labelW := contentW - colSub

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(labelW, 5, "Subtotal:", "", 0, "R", false, 0, "")
	pdf.CellFormat(colSub, 5, moneda+doc.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.CellFormat(labelW, 5, fmt.Sprintf("Impuesto (%s%%):", doc.ImpuestoPct.StringFixed(1)), "", 0, "R", false, 0, "")
	pdf.CellFormat(colSub, 5, moneda+doc.MontoImpuesto.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(labelW, 7, "TOTAL:", "", 0, "R", false, 0, "")
	pdf.CellFormat(colSub, 7, moneda+doc.Total.StringFixed(2), "", 1, "R", false, 0, "")

	// Home-currency equivalent, shown only for foreign-currency documents
	if !doc.TipoCambio.Equal(uno) {
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(labelW, 5, fmt.Sprintf("Equivalente (T.C. %s):", doc.TipoCambio.StringFixed(4)), "", 0, "R", false, 0, "")
		pdf.CellFormat(colSub, 5, doc.TotalMonedaBase.StringFixed(2), "", 1, "R", false, 0, "")
	}

	// ── Footer ────────────────────────────────────────────────────────────────
	if doc.Observaciones != nil && *doc.Observaciones != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.MultiCell(contentW, 4, *doc.Observaciones, "", "L", false)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}

// Package costeo implements the calculation core shared by cotizaciones,
// pedidos y facturas: BOM cost rollup, line-item subtotals, and document
// totals. Every function is a pure computation over an immutable snapshot —
// no I/O, no shared state — so concurrent invocations need no coordination.
// Monetary math uses shopspring/decimal exclusively; results are rounded
// half-up to 2 decimals at the boundaries defined by each function.
package costeo

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is the slice of the catalog the calculator needs.
// EsNomenclatura=false means the product is an articulo whose CostoUnitario
// is authoritative; nomenclaturas derive their cost from components.
type Producto struct {
	ID             uuid.UUID
	EsNomenclatura bool
	CostoUnitario  decimal.Decimal
}

// Componente is one parent→child BOM edge: one unit of PadreID consumes
// Cantidad units of HijoID.
type Componente struct {
	PadreID  uuid.UUID
	HijoID   uuid.UUID
	Cantidad decimal.Decimal
}

// Catalogo is an immutable snapshot of products plus BOM edges, taken once
// per rollup. Callers must not feed it a graph that mutates mid-computation;
// the repository builds a fresh snapshot per request.
type Catalogo struct {
	productos map[uuid.UUID]Producto
	hijos     map[uuid.UUID][]Componente
}

// NewCatalogo indexes the given products and edges into a snapshot.
func NewCatalogo(productos []Producto, componentes []Componente) *Catalogo {
	c := &Catalogo{
		productos: make(map[uuid.UUID]Producto, len(productos)),
		hijos:     make(map[uuid.UUID][]Componente),
	}
	for _, p := range productos {
		c.productos[p.ID] = p
	}
	for _, comp := range componentes {
		c.hijos[comp.PadreID] = append(c.hijos[comp.PadreID], comp)
	}
	return c
}

// Producto looks up a product by ID.
func (c *Catalogo) Producto(id uuid.UUID) (Producto, bool) {
	p, ok := c.productos[id]
	return p, ok
}

// Componentes returns the outgoing BOM edges of a product (nil for leaves).
func (c *Catalogo) Componentes(id uuid.UUID) []Componente {
	return c.hijos[id]
}

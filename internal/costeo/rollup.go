package costeo

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CostoUnitario computes the effective unit cost of a product against the
// snapshot: the declared cost for an articulo, the recursive component sum
// for a nomenclatura. Intermediate sums stay exact; only the returned value
// is rounded to 2 decimals.
//
// Each product is resolved at most once per call — a sub-assembly referenced
// by several parents contributes its memoized cost to every edge. A revisit
// while the product is still on the active path is a CicloBOMError, so the
// recursion depth is bounded by the catalog size.
func (c *Catalogo) CostoUnitario(id uuid.UUID) (decimal.Decimal, error) {
	r := &rollup{
		cat:     c,
		memo:    make(map[uuid.UUID]decimal.Decimal),
		enCurso: make(map[uuid.UUID]bool),
	}
	costo, err := r.resolver(id)
	if err != nil {
		return decimal.Zero, err
	}
	return costo.Round(2), nil
}

// rollup holds the per-invocation traversal state: resolved costs (unrounded)
// and the set of products on the active recursion path.
type rollup struct {
	cat     *Catalogo
	memo    map[uuid.UUID]decimal.Decimal
	enCurso map[uuid.UUID]bool
}

func (r *rollup) resolver(id uuid.UUID) (decimal.Decimal, error) {
	if costo, ok := r.memo[id]; ok {
		return costo, nil
	}

	p, ok := r.cat.productos[id]
	if !ok {
		return decimal.Zero, &ProductoNoEncontradoError{ProductoID: id}
	}

	comps := r.cat.hijos[id]
	if !p.EsNomenclatura {
		if len(comps) > 0 {
			return decimal.Zero, &EstructuraBOMInvalidaError{ProductoID: id}
		}
		r.memo[id] = p.CostoUnitario
		return p.CostoUnitario, nil
	}

	r.enCurso[id] = true
	total := decimal.Zero
	for _, comp := range comps {
		if r.enCurso[comp.HijoID] {
			return decimal.Zero, &CicloBOMError{ProductoID: comp.HijoID, DesdeID: id}
		}
		costoHijo, err := r.resolver(comp.HijoID)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(comp.Cantidad.Mul(costoHijo))
	}
	delete(r.enCurso, id)

	r.memo[id] = total
	return total, nil
}

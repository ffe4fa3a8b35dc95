package costeo

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Every fault in this package is immediate and non-retryable: the error is
// returned at the point of detection and no partial result is produced.
// Handlers map each type to an HTTP status (see handler helpers).

// ProductoNoEncontradoError: the referenced product does not exist in the
// catalog snapshot.
type ProductoNoEncontradoError struct {
	ProductoID uuid.UUID
}

func (e *ProductoNoEncontradoError) Error() string {
	return fmt.Sprintf("producto %s no encontrado en el catalogo", e.ProductoID)
}

// CicloBOMError: the BOM traversal revisited a product already on the active
// resolution path. DesdeID is the parent whose edge closed the cycle.
type CicloBOMError struct {
	ProductoID uuid.UUID
	DesdeID    uuid.UUID
}

func (e *CicloBOMError) Error() string {
	return fmt.Sprintf("ciclo en la lista de materiales: %s vuelve a aparecer como componente de %s", e.ProductoID, e.DesdeID)
}

// EstructuraBOMInvalidaError: an articulo has outgoing component edges.
// Defensive — write-time checks should make this unreachable.
type EstructuraBOMInvalidaError struct {
	ProductoID uuid.UUID
}

func (e *EstructuraBOMInvalidaError) Error() string {
	return fmt.Sprintf("producto %s es un articulo pero tiene componentes", e.ProductoID)
}

// CantidadNoPositivaError: line quantity must be > 0.
type CantidadNoPositivaError struct {
	Cantidad decimal.Decimal
}

func (e *CantidadNoPositivaError) Error() string {
	return fmt.Sprintf("cantidad debe ser mayor que cero, recibido %s", e.Cantidad)
}

// PrecioUnitarioNegativoError: line unit price must be >= 0.
type PrecioUnitarioNegativoError struct {
	Precio decimal.Decimal
}

func (e *PrecioUnitarioNegativoError) Error() string {
	return fmt.Sprintf("precio unitario no puede ser negativo, recibido %s", e.Precio)
}

// DescuentoFueraDeRangoError: line discount must be within [0, 100].
type DescuentoFueraDeRangoError struct {
	Descuento decimal.Decimal
}

func (e *DescuentoFueraDeRangoError) Error() string {
	return fmt.Sprintf("descuento debe estar entre 0 y 100, recibido %s", e.Descuento)
}

// ImpuestoFueraDeRangoError: document tax percentage must be within [0, 100].
type ImpuestoFueraDeRangoError struct {
	Impuesto decimal.Decimal
}

func (e *ImpuestoFueraDeRangoError) Error() string {
	return fmt.Sprintf("impuesto debe estar entre 0 y 100, recibido %s", e.Impuesto)
}

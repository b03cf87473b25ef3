// Package inventory contiene el protocolo de reserva de stock de una venta (servicio de dominio).
package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// Item cantidad a reservar o devolver de un producto físico.
type Item struct {
	ProductID string
	Quantity  int
}

// ItemsForSale convierte las líneas de la venta en movimientos de stock, un ítem por
// producto con las cantidades sumadas y ordenados por ProductID. Dos emisiones
// concurrentes bloquean así las filas de productos en el mismo orden.
// Los productos digitales no afectan inventario y se omiten. products debe contener
// cada producto referenciado por las líneas.
func ItemsForSale(lines []entity.SaleLine, products map[string]*entity.Product) ([]Item, error) {
	qty := make(map[string]int, len(lines))
	for _, l := range lines {
		p, ok := products[l.ProductID]
		if !ok {
			return nil, fmt.Errorf("inventario: producto %s no cargado", l.ProductID)
		}
		if !p.TracksInventory() {
			continue
		}
		qty[l.ProductID] += l.Quantity
	}
	items := make([]Item, 0, len(qty))
	for id, n := range qty {
		items = append(items, Item{ProductID: id, Quantity: n})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })
	return items, nil
}

// ReserveAll reserva cada ítem en el orden recibido. Ante el primer fallo devuelve las reservas ya
// tomadas y retorna el error del ledger (ej. *domain.InsufficientStockError).
// Dentro de una transacción la compensación queda además cubierta por el rollback.
func ReserveAll(ctx context.Context, ledger repository.StockLedger, items []Item) error {
	for i, it := range items {
		if err := ledger.Reserve(ctx, it.ProductID, it.Quantity); err != nil {
			if cerr := ReleaseAll(ctx, ledger, items[:i]); cerr != nil {
				return fmt.Errorf("%w (compensación fallida: %v)", err, cerr)
			}
			return err
		}
	}
	return nil
}

// ReleaseAll devuelve sin condiciones el stock de cada ítem.
func ReleaseAll(ctx context.Context, ledger repository.StockLedger, items []Item) error {
	for _, it := range items {
		if err := ledger.Release(ctx, it.ProductID, it.Quantity); err != nil {
			return fmt.Errorf("inventario: devolver %d de %s: %w", it.Quantity, it.ProductID, err)
		}
	}
	return nil
}

// Package memory implementa los puertos de repositorio en memoria.
// Una transacción toma el lock del store y restaura una copia del estado si falla,
// de modo que las reglas de atomicidad se pueden probar sin PostgreSQL.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

type seqKey struct {
	establishment string
	emissionPoint string
}

type state struct {
	products  map[string]entity.Product
	customers map[string]entity.Customer
	sales     map[string]entity.Sale
	invoices  map[string]entity.Invoice
	sequences map[seqKey]int64
}

func newState() *state {
	return &state{
		products:  make(map[string]entity.Product),
		customers: make(map[string]entity.Customer),
		sales:     make(map[string]entity.Sale),
		invoices:  make(map[string]entity.Invoice),
		sequences: make(map[seqKey]int64),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.products {
		c.products[k] = copyProduct(v)
	}
	for k, v := range s.customers {
		c.customers[k] = copyCustomer(v)
	}
	for k, v := range s.sales {
		c.sales[k] = copySale(v)
	}
	for k, v := range s.invoices {
		c.invoices[k] = copyInvoice(v)
	}
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	return c
}

// Store base de datos en memoria segura para uso concurrente.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Repos devuelve repositorios fuera de transacción (cada operación toma el lock).
func (s *Store) Repos() repository.Repos {
	return s.repos(handle{store: s})
}

// Run ejecuta fn de forma exclusiva; si fn devuelve error el estado vuelve al previo.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(s.repos(handle{store: s, tx: s.st})); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

func (s *Store) repos(h handle) repository.Repos {
	return repository.Repos{
		Sales:     &SaleRepo{h: h},
		Invoices:  &InvoiceRepo{h: h},
		Products:  &ProductRepo{h: h},
		Customers: &CustomerRepo{h: h},
		Ledger:    &StockLedger{h: h},
		Sequencer: &Sequencer{h: h},
	}
}

// handle resuelve el estado: el de la transacción en curso o el del store con lock.
type handle struct {
	store *Store
	tx    *state
}

func (h handle) do(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if h.tx != nil {
		return fn(h.tx)
	}
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	return fn(h.store.st)
}

// ── copias profundas ──

func copyProduct(p entity.Product) entity.Product {
	if p.Physical != nil {
		v := *p.Physical
		p.Physical = &v
	}
	if p.Digital != nil {
		v := *p.Digital
		p.Digital = &v
	}
	return p
}

func copyCustomer(c entity.Customer) entity.Customer {
	if c.Natural != nil {
		v := *c.Natural
		c.Natural = &v
	}
	if c.Juridica != nil {
		v := *c.Juridica
		c.Juridica = &v
	}
	return c
}

func copySale(s entity.Sale) entity.Sale {
	s.Lines = append([]entity.SaleLine(nil), s.Lines...)
	if s.Lines == nil {
		s.Lines = []entity.SaleLine{}
	}
	s.EmittedAt = copyTime(s.EmittedAt)
	s.CancelledAt = copyTime(s.CancelledAt)
	return s
}

func copyInvoice(i entity.Invoice) entity.Invoice {
	i.AuthorizedAt = copyTime(i.AuthorizedAt)
	i.CancelledAt = copyTime(i.CancelledAt)
	return i
}

package repository

// Repos agrupa los repositorios atados a una misma unidad de trabajo (transacción).
type Repos struct {
	Sales     SaleRepository
	Invoices  InvoiceRepository
	Products  ProductRepository
	Customers CustomerRepository
	Ledger    StockLedger
	Sequencer InvoiceSequencer
}

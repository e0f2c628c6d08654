// Package memory guarda todo en mapas dentro del proceso.
// Sirve para pruebas y para levantar la API sin PostgreSQL.
package memory

import (
	"context"
	"sync"

	"github.com/margiesol/mew-bad/internal/application/billing"
	"github.com/margiesol/mew-bad/internal/domain/entity"
)

var _ billing.BillingTxRunner = (*Store)(nil)

// tables estado completo del store. Los valores se guardan por copia.
type tables struct {
	users     map[string]entity.User
	customers map[string]entity.Customer
	agents    map[string]entity.Agent
	banks     map[string]entity.Bank
	products  map[string]entity.Product
	invoices  map[string]entity.Invoice
	orders    map[string]entity.LineRecord
	returns   map[string]entity.LineRecord
	payments  map[string]entity.PaymentRecord // sin Cheque; ver cheques
	cheques   map[string]entity.ChequePayment // por PaymentID
}

func newTables() *tables {
	return &tables{
		users:     map[string]entity.User{},
		customers: map[string]entity.Customer{},
		agents:    map[string]entity.Agent{},
		banks:     map[string]entity.Bank{},
		products:  map[string]entity.Product{},
		invoices:  map[string]entity.Invoice{},
		orders:    map[string]entity.LineRecord{},
		returns:   map[string]entity.LineRecord{},
		payments:  map[string]entity.PaymentRecord{},
		cheques:   map[string]entity.ChequePayment{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (t *tables) clone() *tables {
	return &tables{
		users:     cloneMap(t.users),
		customers: cloneMap(t.customers),
		agents:    cloneMap(t.agents),
		banks:     cloneMap(t.banks),
		products:  cloneMap(t.products),
		invoices:  cloneMap(t.invoices),
		orders:    cloneMap(t.orders),
		returns:   cloneMap(t.returns),
		payments:  cloneMap(t.payments),
		cheques:   cloneMap(t.cheques),
	}
}

// Store implementa todos los repositorios y el runner de transacciones.
type Store struct {
	mu   sync.RWMutex // protege data
	txMu sync.Mutex   // una transacción a la vez
	data *tables
}

// New crea un store vacío.
func New() *Store {
	return &Store{data: newTables()}
}

// RunBilling ejecuta fn sobre una copia de las tablas de facturación.
// Si fn termina sin error la copia reemplaza al estado; si no, se descarta.
// Las transacciones se serializan, así que leer la factura equivale a bloquearla.
func (s *Store) RunBilling(ctx context.Context, fn func(repos billing.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	work := s.data.clone()
	s.mu.RUnlock()

	if err := fn(billingRepos(view{s: s, tx: work})); err != nil {
		return err
	}

	s.mu.Lock()
	s.data.invoices = work.invoices
	s.data.orders = work.orders
	s.data.returns = work.returns
	s.data.payments = work.payments
	s.data.cheques = work.cheques
	s.mu.Unlock()
	return nil
}

// Billing repos de facturación fuera de transacción.
func (s *Store) Billing() billing.Repos {
	return billingRepos(view{s: s})
}

func billingRepos(v view) billing.Repos {
	return billing.Repos{
		Invoices: &invoiceRepo{v: v},
		Orders:   &lineRepo{v: v, kind: entity.LineKindOrder},
		Returns:  &lineRepo{v: v, kind: entity.LineKindReturn},
		Payments: &paymentRepo{v: v},
	}
}

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{v: view{s: s}} }

// Customers repositorio de clientes.
func (s *Store) Customers() *CustomerRepo { return &CustomerRepo{v: view{s: s}} }

// Agents repositorio de agentes.
func (s *Store) Agents() *AgentRepo { return &AgentRepo{v: view{s: s}} }

// Banks repositorio de bancos.
func (s *Store) Banks() *BankRepo { return &BankRepo{v: view{s: s}} }

// Products repositorio de productos.
func (s *Store) Products() *ProductRepo { return &ProductRepo{v: view{s: s}} }

// Dashboard consultas del tablero.
func (s *Store) Dashboard() *DashboardRepo { return &DashboardRepo{v: view{s: s}} }

// view apunta al estado del store o a la copia de una transacción en curso.
type view struct {
	s  *Store
	tx *tables
}

func (v view) read(fn func(t *tables) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return fn(v.s.data)
}

func (v view) write(fn func(t *tables) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return fn(v.s.data)
}

// page recorta list a la ventana limit/offset.
func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

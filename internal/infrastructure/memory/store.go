// Package memory implementa los puertos de persistencia en memoria. Se usa en
// desarrollo (STORE_DRIVER=memory) y en las pruebas de casos de uso y handlers.
//
// Las transacciones trabajan sobre una copia del estado y la publican al confirmar;
// un error descarta la copia. Solo corre una transacción a la vez.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jhoicas/boutique-api/internal/domain/entity"
	"github.com/jhoicas/boutique-api/internal/domain/repository"
)

type state struct {
	products   map[string]entity.Product
	categories map[string]entity.Category
	promotions map[string]entity.Promotion
	customers  map[string]entity.Customer
	orders     map[string]entity.Order
	sales      map[string]entity.Sale
	payments   map[string]entity.Payment
	loyalty    []entity.LoyaltyEvent
	reversals  map[string]entity.Reversal
	users      map[string]entity.AdminUser
}

func newState() *state {
	return &state{
		products:   map[string]entity.Product{},
		categories: map[string]entity.Category{},
		promotions: map[string]entity.Promotion{},
		customers:  map[string]entity.Customer{},
		orders:     map[string]entity.Order{},
		sales:      map[string]entity.Sale{},
		payments:   map[string]entity.Payment{},
		reversals:  map[string]entity.Reversal{},
		users:      map[string]entity.AdminUser{},
	}
}

// clone copia los mapas. Las líneas de las órdenes se copian al escribir y al leer,
// por lo que compartir el slice entre copias es seguro.
func (s *state) clone() *state {
	c := &state{
		products:   cloneMap(s.products),
		categories: cloneMap(s.categories),
		promotions: cloneMap(s.promotions),
		customers:  cloneMap(s.customers),
		orders:     cloneMap(s.orders),
		sales:      cloneMap(s.sales),
		payments:   cloneMap(s.payments),
		loyalty:    append([]entity.LoyaltyEvent(nil), s.loyalty...),
		reversals:  cloneMap(s.reversals),
		users:      cloneMap(s.users),
	}
	return c
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Store almacenamiento en memoria seguro para uso concurrente.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un almacenamiento vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn dentro de una transacción. Implementa ports.TxRunner.
func (s *Store) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.st.clone()
	v := view{store: s, tx: tx}
	if err := fn(repository.TxRepos{
		Orders:    &OrderRepo{v},
		Sales:     &SaleRepo{v},
		Payments:  &PaymentRepo{v},
		Products:  &ProductRepo{v},
		Customers: &CustomerRepo{v},
		Loyalty:   &LoyaltyRepo{v},
		Reversals: &ReversalRepo{v},
	}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	s.st = tx
	return nil
}

// Repositorios fuera de transacción (cada llamada es atómica por sí sola).

func (s *Store) Products() *ProductRepo     { return &ProductRepo{view{store: s}} }
func (s *Store) Categories() *CategoryRepo  { return &CategoryRepo{view{store: s}} }
func (s *Store) Promotions() *PromotionRepo { return &PromotionRepo{view{store: s}} }
func (s *Store) Customers() *CustomerRepo   { return &CustomerRepo{view{store: s}} }
func (s *Store) Orders() *OrderRepo         { return &OrderRepo{view{store: s}} }
func (s *Store) Sales() *SaleRepo           { return &SaleRepo{view{store: s}} }
func (s *Store) Payments() *PaymentRepo     { return &PaymentRepo{view{store: s}} }
func (s *Store) Loyalty() *LoyaltyRepo      { return &LoyaltyRepo{view{store: s}} }
func (s *Store) Reversals() *ReversalRepo   { return &ReversalRepo{view{store: s}} }
func (s *Store) Users() *UserRepo           { return &UserRepo{view{store: s}} }
func (s *Store) Analytics() *AnalyticsRepo  { return &AnalyticsRepo{view{store: s}} }

// view liga un repositorio al estado publicado o a la copia de una transacción.
type view struct {
	store *Store
	tx    *state
}

func (v view) do(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(v.store.st)
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

func copyItems(items []entity.OrderItem) []entity.OrderItem {
	return append([]entity.OrderItem(nil), items...)
}

func sortByName[T any](list []T, name func(T) string) {
	sort.SliceStable(list, func(i, j int) bool { return name(list[i]) < name(list[j]) })
}

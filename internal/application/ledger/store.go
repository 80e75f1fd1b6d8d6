// Package ledger mantiene la réplica local de las tres colecciones del ledger remoto
// (categorías, compras, ventas) con su estado de carga. No guarda estado derivado:
// stock y reportes se recalculan desde Snapshot().
package ledger

import (
	"context"
	"sync"

	"github.com/jhoicas/pos-bale/internal/application/dto"
	"github.com/jhoicas/pos-bale/internal/domain/entity"
	"github.com/jhoicas/pos-bale/internal/domain/inventory"
	"github.com/jhoicas/pos-bale/pkg/logger"
)

// Status estado de carga de una colección.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Nombres de colección usados en logs, métricas y State().
const (
	CollectionCategories = "categories"
	CollectionPurchases  = "purchases"
	CollectionSales      = "sales"
)

// Mensajes por defecto si el error remoto no trae texto.
const (
	defaultCategoriesError = "Failed to load categories"
	defaultPurchasesError  = "Failed to load purchases"
	defaultSalesError      = "Failed to load sales"
)

type collection[T any] struct {
	items  []T
	status Status
	err    string
	cause  error         // error de la última carga fallida
	done   chan struct{} // se cierra al terminar la carga en curso
}

// CollectionState vista pública de una colección.
type CollectionState struct {
	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`
	Count  int    `json:"count"`
}

// State estado de las tres colecciones.
type State struct {
	Categories CollectionState `json:"categories"`
	Purchases  CollectionState `json:"purchases"`
	Sales      CollectionState `json:"sales"`
}

// Loaded indica que las tres colecciones se cargaron al menos una vez con éxito.
func (s State) Loaded() bool {
	return s.Categories.Status == StatusSucceeded &&
		s.Purchases.Status == StatusSucceeded &&
		s.Sales.Status == StatusSucceeded
}

// Observer recibe el tamaño de cada colección tras un cambio (métricas).
type Observer interface {
	SetCollectionSize(collection string, n int)
}

// Store réplica en memoria de las colecciones remotas.
//
// Cada operación remota aplica su resultado de forma independiente bajo el mutex; las
// cargas solapadas no se combinan ni se cancelan (gana la última respuesta).
type Store struct {
	remote   Remote
	log      *logger.Logger
	observer Observer

	mu         sync.RWMutex
	categories collection[entity.Category]
	purchases  collection[entity.Purchase]
	sales      collection[entity.Sale]
}

// NewStore construye el store con las tres colecciones en idle. observer puede ser nil.
func NewStore(remote Remote, log *logger.Logger, observer Observer) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{
		remote:     remote,
		log:        log.Component("store"),
		observer:   observer,
		categories: collection[entity.Category]{status: StatusIdle},
		purchases:  collection[entity.Purchase]{status: StatusIdle},
		sales:      collection[entity.Sale]{status: StatusIdle},
	}
}

// ── Carga ──

// FetchCategories reemplaza la colección de categorías con la lista remota.
func (s *Store) FetchCategories(ctx context.Context) error {
	return fetch(ctx, s, &s.categories, CollectionCategories, defaultCategoriesError, s.remote.ListCategories)
}

// FetchPurchases reemplaza la colección de compras con la lista remota.
func (s *Store) FetchPurchases(ctx context.Context) error {
	return fetch(ctx, s, &s.purchases, CollectionPurchases, defaultPurchasesError, s.remote.ListPurchases)
}

// FetchSales reemplaza la colección de ventas con la lista remota.
func (s *Store) FetchSales(ctx context.Context) error {
	return fetch(ctx, s, &s.sales, CollectionSales, defaultSalesError, s.remote.ListSales)
}

// fetch: loading → (succeeded, items reemplazados) | (failed, items previos intactos).
func fetch[T any](ctx context.Context, s *Store, col *collection[T], name, fallback string, list func(context.Context) ([]T, error)) error {
	s.mu.Lock()
	done := begin(col)
	s.mu.Unlock()
	return complete(ctx, s, col, done, name, fallback, list)
}

// begin marca la colección en loading. Requiere s.mu tomado para escritura.
func begin[T any](col *collection[T]) chan struct{} {
	col.status = StatusLoading
	col.err = ""
	col.cause = nil
	col.done = make(chan struct{})
	return col.done
}

func complete[T any](ctx context.Context, s *Store, col *collection[T], done chan struct{}, name, fallback string, list func(context.Context) ([]T, error)) error {
	items, err := list(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer close(done)
	if err != nil {
		col.status = StatusFailed
		col.err = err.Error()
		if col.err == "" {
			col.err = fallback
		}
		col.cause = err
		s.log.Warn().Str("collection", name).Err(err).Msg("carga fallida")
		return err
	}
	if items == nil {
		items = []T{}
	}
	col.items = items
	col.status = StatusSucceeded
	s.observe(name, len(items))
	s.log.Debug().Str("collection", name).Int("count", len(items)).Msg("colección cargada")
	return nil
}

// ensure devuelve el trabajo pendiente de una colección: cargarla si está en idle, esperar la
// carga en curso si está en loading, nada si ya terminó. Requiere s.mu tomado para escritura.
func ensure[T any](s *Store, col *collection[T], name, fallback string, list func(context.Context) ([]T, error)) func(context.Context) error {
	switch col.status {
	case StatusIdle:
		done := begin(col)
		return func(ctx context.Context) error {
			return complete(ctx, s, col, done, name, fallback, list)
		}
	case StatusLoading:
		done := col.done
		return func(ctx context.Context) error {
			select {
			case <-done:
			case <-ctx.Done():
				return ctx.Err()
			}
			s.mu.RLock()
			defer s.mu.RUnlock()
			if col.status == StatusFailed {
				return col.cause
			}
			return nil
		}
	default:
		return nil
	}
}

// EnsureLoaded carga en paralelo las colecciones que siguen en idle y espera las que ya se
// están cargando. Devuelve el primer error, pero cada colección aplica su resultado por separado.
func (s *Store) EnsureLoaded(ctx context.Context) error {
	s.mu.Lock()
	var jobs []func(context.Context) error
	for _, job := range []func(context.Context) error{
		ensure(s, &s.categories, CollectionCategories, defaultCategoriesError, s.remote.ListCategories),
		ensure(s, &s.purchases, CollectionPurchases, defaultPurchasesError, s.remote.ListPurchases),
		ensure(s, &s.sales, CollectionSales, defaultSalesError, s.remote.ListSales),
	} {
		if job != nil {
			jobs = append(jobs, job)
		}
	}
	s.mu.Unlock()
	return runConcurrently(ctx, jobs)
}

// Refresh recarga las tres colecciones sin importar su estado.
func (s *Store) Refresh(ctx context.Context) error {
	return runConcurrently(ctx, []func(context.Context) error{s.FetchCategories, s.FetchPurchases, s.FetchSales})
}

func runConcurrently(ctx context.Context, jobs []func(context.Context) error) error {
	if len(jobs) == 0 {
		return nil
	}
	errCh := make(chan error, len(jobs))
	for _, job := range jobs {
		go func(job func(context.Context) error) {
			errCh <- job(ctx)
		}(job)
	}
	var first error
	for range jobs {
		if err := <-errCh; err != nil && first == nil {
			first = err
		}
	}
	return first
}

// ── Categorías ──

// CreateCategory crea en remoto y antepone el registro devuelto.
func (s *Store) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (entity.Category, error) {
	created, err := s.remote.CreateCategory(ctx, req)
	if err != nil {
		return entity.Category{}, err
	}
	s.mu.Lock()
	s.categories.items = prepend(s.categories.items, created)
	s.observe(CollectionCategories, len(s.categories.items))
	s.mu.Unlock()
	return created, nil
}

// DeleteCategory elimina en remoto y luego localmente. No elimina en cascada.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	if err := s.remote.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	s.categories.items = removeByID(s.categories.items, id, func(c entity.Category) string { return c.ID })
	s.observe(CollectionCategories, len(s.categories.items))
	s.mu.Unlock()
	return nil
}

// ── Compras ──

// CreatePurchase crea en remoto y antepone el registro devuelto.
func (s *Store) CreatePurchase(ctx context.Context, req dto.CreatePurchaseRequest) (entity.Purchase, error) {
	created, err := s.remote.CreatePurchase(ctx, req)
	if err != nil {
		return entity.Purchase{}, err
	}
	s.mu.Lock()
	s.purchases.items = prepend(s.purchases.items, created)
	s.observe(CollectionPurchases, len(s.purchases.items))
	s.mu.Unlock()
	return created, nil
}

// DeletePurchase elimina en remoto y luego localmente.
func (s *Store) DeletePurchase(ctx context.Context, id string) error {
	if err := s.remote.DeletePurchase(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	s.purchases.items = removeByID(s.purchases.items, id, func(p entity.Purchase) string { return p.ID })
	s.observe(CollectionPurchases, len(s.purchases.items))
	s.mu.Unlock()
	return nil
}

// ── Ventas ──

// CreateSale crea en remoto y antepone el registro devuelto.
func (s *Store) CreateSale(ctx context.Context, req dto.CreateSaleRequest) (entity.Sale, error) {
	created, err := s.remote.CreateSale(ctx, req)
	if err != nil {
		return entity.Sale{}, err
	}
	s.mu.Lock()
	s.sales.items = prepend(s.sales.items, created)
	s.observe(CollectionSales, len(s.sales.items))
	s.mu.Unlock()
	return created, nil
}

// DeleteSale elimina en remoto y luego localmente.
func (s *Store) DeleteSale(ctx context.Context, id string) error {
	if err := s.remote.DeleteSale(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	s.sales.items = removeByID(s.sales.items, id, func(v entity.Sale) string { return v.ID })
	s.observe(CollectionSales, len(s.sales.items))
	s.mu.Unlock()
	return nil
}

// ── Lectura ──

// Snapshot copia las tres colecciones; el llamador puede usarla sin bloquear el store.
func (s *Store) Snapshot() inventory.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return inventory.Snapshot{
		Categories: clone(s.categories.items),
		Purchases:  clone(s.purchases.items),
		Sales:      clone(s.sales.items),
	}
}

// State estado de carga de cada colección.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		Categories: stateOf(s.categories),
		Purchases:  stateOf(s.purchases),
		Sales:      stateOf(s.sales),
	}
}

func stateOf[T any](c collection[T]) CollectionState {
	return CollectionState{Status: c.status, Error: c.err, Count: len(c.items)}
}

// observe se llama con s.mu tomado.
func (s *Store) observe(name string, n int) {
	if s.observer != nil {
		s.observer.SetCollectionSize(name, n)
	}
}

func prepend[T any](items []T, v T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, v)
	return append(out, items...)
}

func removeByID[T any](items []T, id string, key func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if key(it) != id {
			out = append(out, it)
		}
	}
	return out
}

func clone[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}

package ledger_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-bale/internal/application/dto"
	"github.com/jhoicas/pos-bale/internal/application/ledger"
	"github.com/jhoicas/pos-bale/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Remote falso
// ──────────────────────────────────────────────────────────────────────────────

type fakeRemote struct {
	mu         sync.Mutex
	categories []entity.Category
	purchases  []entity.Purchase
	sales      []entity.Sale

	failCategories error
	failPurchases  error
	failSales      error
	failWrite      error

	// categoriesGate, si no es nil, retiene ListCategories hasta cerrarse.
	categoriesGate   chan struct{}
	categoriesCalled chan struct{}

	listCalls atomic.Int32
}

func (f *fakeRemote) ListCategories(context.Context) ([]entity.Category, error) {
	f.listCalls.Add(1)
	if f.categoriesGate != nil {
		close(f.categoriesCalled)
		<-f.categoriesGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCategories != nil {
		return nil, f.failCategories
	}
	return append([]entity.Category(nil), f.categories...), nil
}

func (f *fakeRemote) CreateCategory(_ context.Context, req dto.CreateCategoryRequest) (entity.Category, error) {
	if f.failWrite != nil {
		return entity.Category{}, f.failWrite
	}
	return entity.Category{ID: "new-" + req.Name, Name: req.Name}, nil
}

func (f *fakeRemote) DeleteCategory(context.Context, string) error { return f.failWrite }

func (f *fakeRemote) ListPurchases(context.Context) ([]entity.Purchase, error) {
	f.listCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPurchases != nil {
		return nil, f.failPurchases
	}
	return append([]entity.Purchase(nil), f.purchases...), nil
}

func (f *fakeRemote) CreatePurchase(_ context.Context, req dto.CreatePurchaseRequest) (entity.Purchase, error) {
	if f.failWrite != nil {
		return entity.Purchase{}, f.failWrite
	}
	return entity.Purchase{ID: "p-new", CategoryID: req.CategoryID, Quantity: req.Quantity, TotalCost: req.TotalCost}, nil
}

func (f *fakeRemote) DeletePurchase(context.Context, string) error { return f.failWrite }

func (f *fakeRemote) ListSales(context.Context) ([]entity.Sale, error) {
	f.listCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSales != nil {
		return nil, f.failSales
	}
	return append([]entity.Sale(nil), f.sales...), nil
}

func (f *fakeRemote) CreateSale(_ context.Context, req dto.CreateSaleRequest) (entity.Sale, error) {
	if f.failWrite != nil {
		return entity.Sale{}, f.failWrite
	}
	return entity.Sale{ID: "s-new", CategoryID: req.CategoryID, Quantity: req.Quantity}, nil
}

func (f *fakeRemote) DeleteSale(context.Context, string) error { return f.failWrite }

type sizeRecorder struct {
	mu    sync.Mutex
	sizes map[string]int
}

func (r *sizeRecorder) SetCollectionSize(name string, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sizes == nil {
		r.sizes = map[string]int{}
	}
	r.sizes[name] = n
}

func seededRemote() *fakeRemote {
	return &fakeRemote{
		categories: []entity.Category{{ID: "c1", Name: "Jeans"}},
		purchases: []entity.Purchase{
			{ID: "p2", CategoryID: "c1", Quantity: 5, TotalCost: decimal.NewFromInt(50)},
			{ID: "p1", CategoryID: "c1", Quantity: 10, TotalCost: decimal.NewFromInt(100)},
		},
		sales: []entity.Sale{{ID: "s1", CategoryID: "c1", Quantity: 3}},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Carga
// ──────────────────────────────────────────────────────────────────────────────

func TestStore_StartsIdle(t *testing.T) {
	store := ledger.NewStore(seededRemote(), nil, nil)
	state := store.State()
	assert.Equal(t, ledger.StatusIdle, state.Categories.Status)
	assert.Equal(t, ledger.StatusIdle, state.Sales.Status)
	assert.False(t, state.Loaded())
}

func TestStore_EnsureLoadedFetchesOnlyIdle(t *testing.T) {
	remote := seededRemote()
	rec := &sizeRecorder{}
	store := ledger.NewStore(remote, nil, rec)

	require.NoError(t, store.EnsureLoaded(context.Background()))
	assert.True(t, store.State().Loaded())
	assert.EqualValues(t, 3, remote.listCalls.Load())
	assert.Equal(t, 2, rec.sizes[ledger.CollectionPurchases])

	require.NoError(t, store.EnsureLoaded(context.Background()))
	assert.EqualValues(t, 3, remote.listCalls.Load(), "las colecciones ya cargadas no se vuelven a pedir")

	require.NoError(t, store.Refresh(context.Background()))
	assert.EqualValues(t, 6, remote.listCalls.Load(), "Refresh recarga todo")
}

func TestStore_FailureIsolatedPerCollection(t *testing.T) {
	remote := seededRemote()
	remote.failSales = errors.New("Request failed with status 503")
	store := ledger.NewStore(remote, nil, nil)

	err := store.EnsureLoaded(context.Background())
	require.Error(t, err)

	state := store.State()
	assert.Equal(t, ledger.StatusSucceeded, state.Categories.Status)
	assert.Equal(t, ledger.StatusSucceeded, state.Purchases.Status)
	assert.Equal(t, ledger.StatusFailed, state.Sales.Status)
	assert.Equal(t, "Request failed with status 503", state.Sales.Error)

	snap := store.Snapshot()
	assert.Len(t, snap.Purchases, 2)
	assert.Empty(t, snap.Sales)

	// Una colección fallida no vuelve a idle: EnsureLoaded no la reintenta.
	calls := remote.listCalls.Load()
	_ = store.EnsureLoaded(context.Background())
	assert.Equal(t, calls, remote.listCalls.Load())
}

func TestStore_EnsureLoadedWaitsForLoadInFlight(t *testing.T) {
	remote := seededRemote()
	remote.categoriesGate = make(chan struct{})
	remote.categoriesCalled = make(chan struct{})
	store := ledger.NewStore(remote, nil, nil)

	first := make(chan error, 1)
	go func() { first <- store.EnsureLoaded(context.Background()) }()
	<-remote.categoriesCalled
	assert.Equal(t, ledger.StatusLoading, store.State().Categories.Status)

	second := make(chan error, 1)
	go func() { second <- store.EnsureLoaded(context.Background()) }()

	select {
	case err := <-second:
		t.Fatalf("EnsureLoaded volvió con la carga en curso: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(remote.categoriesGate)
	require.NoError(t, <-second)
	require.NoError(t, <-first)
	assert.True(t, store.State().Loaded())
	assert.Len(t, store.Snapshot().Categories, 1)
	assert.EqualValues(t, 3, remote.listCalls.Load(), "la segunda llamada no repite la carga")
}

func TestStore_EnsureLoadedWaitReportsFailure(t *testing.T) {
	remote := seededRemote()
	remote.failCategories = errors.New("Request failed with status 502")
	remote.categoriesGate = make(chan struct{})
	remote.categoriesCalled = make(chan struct{})
	store := ledger.NewStore(remote, nil, nil)

	go func() { _ = store.EnsureLoaded(context.Background()) }()
	<-remote.categoriesCalled

	second := make(chan error, 1)
	go func() { second <- store.EnsureLoaded(context.Background()) }()
	close(remote.categoriesGate)

	err := <-second
	require.Error(t, err)
	assert.Equal(t, "Request failed with status 502", err.Error())
}

func TestStore_EnsureLoadedWaitHonorsContext(t *testing.T) {
	remote := seededRemote()
	remote.categoriesGate = make(chan struct{})
	remote.categoriesCalled = make(chan struct{})
	defer close(remote.categoriesGate)
	store := ledger.NewStore(remote, nil, nil)

	go func() { _ = store.EnsureLoaded(context.Background()) }()
	<-remote.categoriesCalled

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, store.EnsureLoaded(ctx), context.DeadlineExceeded)
}

func TestStore_FailedRefreshKeepsPreviousItems(t *testing.T) {
	remote := seededRemote()
	store := ledger.NewStore(remote, nil, nil)
	require.NoError(t, store.Refresh(context.Background()))

	remote.mu.Lock()
	remote.failPurchases = errors.New("timeout")
	remote.mu.Unlock()

	require.Error(t, store.FetchPurchases(context.Background()))
	assert.Equal(t, ledger.StatusFailed, store.State().Purchases.Status)
	assert.Len(t, store.Snapshot().Purchases, 2, "los registros previos se conservan")

	remote.mu.Lock()
	remote.failPurchases = nil
	remote.mu.Unlock()
	require.NoError(t, store.FetchPurchases(context.Background()))
	state := store.State().Purchases
	assert.Equal(t, ledger.StatusSucceeded, state.Status)
	assert.Empty(t, state.Error)
}

// ──────────────────────────────────────────────────────────────────────────────
// Escrituras
// ──────────────────────────────────────────────────────────────────────────────

func TestStore_CreatePrependsAndDeleteRemoves(t *testing.T) {
	store := ledger.NewStore(seededRemote(), nil, nil)
	require.NoError(t, store.Refresh(context.Background()))

	created, err := store.CreatePurchase(context.Background(), dto.CreatePurchaseRequest{CategoryID: "c1", Quantity: 7})
	require.NoError(t, err)
	assert.Equal(t, "p-new", created.ID)

	snap := store.Snapshot()
	require.Len(t, snap.Purchases, 3)
	assert.Equal(t, "p-new", snap.Purchases[0].ID, "el registro nuevo va primero")

	require.NoError(t, store.DeletePurchase(context.Background(), "p2"))
	snap = store.Snapshot()
	require.Len(t, snap.Purchases, 2)
	assert.Equal(t, "p-new", snap.Purchases[0].ID)
	assert.Equal(t, "p1", snap.Purchases[1].ID)
}

func TestStore_FailedWritesLeaveCollectionsUnchanged(t *testing.T) {
	remote := seededRemote()
	store := ledger.NewStore(remote, nil, nil)
	require.NoError(t, store.Refresh(context.Background()))
	before := store.Snapshot()

	remote.failWrite = errors.New("boom")
	_, err := store.CreateSale(context.Background(), dto.CreateSaleRequest{CategoryID: "c1", Quantity: 1})
	assert.Error(t, err)
	assert.Error(t, store.DeleteSale(context.Background(), "s1"))
	assert.Error(t, store.DeleteCategory(context.Background(), "c1"))
	_, err = store.CreateCategory(context.Background(), dto.CreateCategoryRequest{Name: "x"})
	assert.Error(t, err)

	assert.Equal(t, before, store.Snapshot())
}

func TestStore_DeleteCategoryKeepsOrphans(t *testing.T) {
	store := ledger.NewStore(seededRemote(), nil, nil)
	require.NoError(t, store.Refresh(context.Background()))

	require.NoError(t, store.DeleteCategory(context.Background(), "c1"))
	snap := store.Snapshot()
	assert.Empty(t, snap.Categories)
	assert.Len(t, snap.Purchases, 2, "sin borrado en cascada")
	assert.Equal(t, 12, snap.StockLevel("c1"))
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	store := ledger.NewStore(seededRemote(), nil, nil)
	require.NoError(t, store.Refresh(context.Background()))

	snap := store.Snapshot()
	snap.Purchases[0].Quantity = 999
	assert.Equal(t, 5, store.Snapshot().Purchases[0].Quantity)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := ledger.NewStore(seededRemote(), nil, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Refresh(ctx)
		}()
		go func() {
			defer wg.Done()
			_, _ = store.CreateSale(ctx, dto.CreateSaleRequest{CategoryID: "c1", Quantity: 1})
			_ = store.Snapshot().StockLevel("c1")
		}()
	}
	wg.Wait()
	assert.Equal(t, ledger.StatusSucceeded, store.State().Sales.Status)
}

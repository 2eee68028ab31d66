package ledger_test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-ledger/internal/application/ledger"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para los casos de uso del motor. El memTxRunner serializa
// las transacciones con un mutex (modela el lock de fila de PostgreSQL) y
// restaura el estado previo si el callback falla (modela el rollback), de modo
// que "rechazado deja los saldos intactos" se verifica de verdad.
// ──────────────────────────────────────────────────────────────────────────────

type balKey struct{ itemID, locID string }

type memStore struct {
	mu        sync.Mutex
	movements []*entity.MovementEntry
	balances  map[balKey]*entity.BalanceSnapshot
	requests  map[string]*entity.StockRequest
}

func newMemStore() *memStore {
	return &memStore{
		balances: make(map[balKey]*entity.BalanceSnapshot),
		requests: make(map[string]*entity.StockRequest),
	}
}

type memBackup struct {
	movements []*entity.MovementEntry
	balances  map[balKey]*entity.BalanceSnapshot
	requests  map[string]*entity.StockRequest
}

func (s *memStore) backup() memBackup {
	b := memBackup{
		movements: append([]*entity.MovementEntry(nil), s.movements...),
		balances:  make(map[balKey]*entity.BalanceSnapshot, len(s.balances)),
		requests:  make(map[string]*entity.StockRequest, len(s.requests)),
	}
	for k, v := range s.balances {
		cp := *v
		b.balances[k] = &cp
	}
	for k, v := range s.requests {
		cp := *v
		b.requests[k] = &cp
	}
	return b
}

func (s *memStore) restore(b memBackup) {
	s.movements = b.movements
	s.balances = b.balances
	s.requests = b.requests
}

type memTxRunner struct{ store *memStore }

func (r *memTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	balRepo repository.BalanceRepository,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	bk := r.store.backup()
	if err := fn(&memMovementRepo{s: r.store}, &memBalanceRepo{s: r.store}); err != nil {
		r.store.restore(bk)
		return err
	}
	return nil
}

func (r *memTxRunner) RunRequest(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	balRepo repository.BalanceRepository,
	reqRepo repository.StockRequestRepository,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	bk := r.store.backup()
	if err := fn(&memMovementRepo{s: r.store}, &memBalanceRepo{s: r.store}, &memRequestRepo{s: r.store}); err != nil {
		r.store.restore(bk)
		return err
	}
	return nil
}

// ── Libro ────────────────────────────────────────────────────────────────────

type memMovementRepo struct{ s *memStore }

func (r *memMovementRepo) Append(entry *entity.MovementEntry) error {
	cp := *entry
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *memMovementRepo) GetByProposalID(proposalID string) ([]*entity.MovementEntry, error) {
	var out []*entity.MovementEntry
	for _, m := range r.s.movements {
		if m.ProposalID == proposalID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMovementRepo) GetByID(id string) (*entity.MovementEntry, error) {
	for _, m := range r.s.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (r *memMovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.MovementEntry, error) {
	var out []*entity.MovementEntry
	for _, m := range r.s.movements {
		if f.ItemID != "" && m.ItemID != f.ItemID {
			continue
		}
		if f.Kind != "" && m.Kind != f.Kind {
			continue
		}
		if f.ActorID != "" && m.ActorID != f.ActorID {
			continue
		}
		if f.LocationID != "" && m.SourceLocationID != f.LocationID && m.DestLocationID != f.LocationID {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *memMovementRepo) ReplayAscending(_ context.Context, fn func(*entity.MovementEntry) error) error {
	// El slice ya está en orden de inserción == orden de timestamp.
	for _, m := range r.s.movements {
		if err := fn(m); err != nil {
			return err
		}
	}
	return nil
}

// ── Saldos ───────────────────────────────────────────────────────────────────

type memBalanceRepo struct{ s *memStore }

func (r *memBalanceRepo) Get(itemID, locationID string) (*entity.BalanceSnapshot, error) {
	if b, ok := r.s.balances[balKey{itemID, locationID}]; ok {
		cp := *b
		return &cp, nil
	}
	return &entity.BalanceSnapshot{
		ItemID:     itemID,
		LocationID: locationID,
		OnHand:     decimal.Zero,
		Reserved:   decimal.Zero,
	}, nil
}

func (r *memBalanceRepo) GetForUpdate(itemID, locationID string) (*entity.BalanceSnapshot, error) {
	return r.Get(itemID, locationID)
}

func (r *memBalanceRepo) Upsert(b *entity.BalanceSnapshot) error {
	cp := *b
	r.s.balances[balKey{b.ItemID, b.LocationID}] = &cp
	return nil
}

func (r *memBalanceRepo) ListByLocation(_ context.Context, locationID string) ([]*entity.BalanceSnapshot, error) {
	var out []*entity.BalanceSnapshot
	for k, b := range r.s.balances {
		if k.locID == locationID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memBalanceRepo) DeleteAll() error {
	r.s.balances = make(map[balKey]*entity.BalanceSnapshot)
	return nil
}

// ── Solicitudes ──────────────────────────────────────────────────────────────

type memRequestRepo struct{ s *memStore }

func (r *memRequestRepo) Create(req *entity.StockRequest) error {
	cp := *req
	r.s.requests[req.ID] = &cp
	return nil
}

func (r *memRequestRepo) GetByID(id string) (*entity.StockRequest, error) {
	if req, ok := r.s.requests[id]; ok {
		cp := *req
		return &cp, nil
	}
	return nil, nil
}

func (r *memRequestRepo) GetForUpdate(id string) (*entity.StockRequest, error) {
	return r.GetByID(id)
}

func (r *memRequestRepo) Update(req *entity.StockRequest) error {
	cp := *req
	r.s.requests[req.ID] = &cp
	return nil
}

func (r *memRequestRepo) ListByStatus(_ context.Context, status string, limit, offset int) ([]*entity.StockRequest, error) {
	var out []*entity.StockRequest
	for _, req := range r.s.requests {
		if status == "" || req.Status == status {
			cp := *req
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ── Catálogo ─────────────────────────────────────────────────────────────────

type memItemRepo struct{ items map[string]*entity.Item }

func (r *memItemRepo) GetByID(id string) (*entity.Item, error) {
	return r.items[id], nil
}

func (r *memItemRepo) List(_ context.Context, limit, offset int) ([]*entity.Item, error) {
	var out []*entity.Item
	for _, it := range r.items {
		out = append(out, it)
	}
	return out, nil
}

type memLocationRepo struct{ locations map[string]*entity.Location }

func (r *memLocationRepo) GetByID(id string) (*entity.Location, error) {
	return r.locations[id], nil
}

func (r *memLocationRepo) List(_ context.Context) ([]*entity.Location, error) {
	var out []*entity.Location
	for _, l := range r.locations {
		out = append(out, l)
	}
	return out, nil
}

func (r *memLocationRepo) ListChildren(_ context.Context, parentID string) ([]*entity.Location, error) {
	var out []*entity.Location
	for _, l := range r.locations {
		if l.ParentID == parentID {
			out = append(out, l)
		}
	}
	return out, nil
}

// ── Armado del entorno de prueba ─────────────────────────────────────────────

type testEnv struct {
	store      *memStore
	txRunner   *memTxRunner
	proposeUC  *ledger.ProposeMovementUseCase
	balanceUC  *ledger.BalanceUseCase
	approvalUC *ledger.ApprovalUseCase
	notifier   *captureNotifier
}

// captureNotifier acumula los eventos emitidos para verificarlos en tests.
type captureNotifier struct {
	mu        sync.Mutex
	committed []ledger.MovementCommittedEvent
	lowStock  []ledger.LowStockEvent
}

func (n *captureNotifier) MovementCommitted(_ context.Context, ev ledger.MovementCommittedEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.committed = append(n.committed, ev)
}

func (n *captureNotifier) LowStock(_ context.Context, ev ledger.LowStockEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.lowStock = append(n.lowStock, ev)
}

func newTestEnv(items map[string]*entity.Item, locations map[string]*entity.Location) *testEnv {
	store := newMemStore()
	txRunner := &memTxRunner{store: store}
	notifier := &captureNotifier{}
	itemRepo := &memItemRepo{items: items}
	locRepo := &memLocationRepo{locations: locations}
	proposeUC := ledger.NewProposeMovementUseCase(txRunner, itemRepo, locRepo, notifier)
	balanceUC := ledger.NewBalanceUseCase(txRunner, &memBalanceRepo{s: store}, &memMovementRepo{s: store})
	approvalUC := ledger.NewApprovalUseCase(txRunner, proposeUC, &memRequestRepo{s: store})
	return &testEnv{
		store:      store,
		txRunner:   txRunner,
		proposeUC:  proposeUC,
		balanceUC:  balanceUC,
		approvalUC: approvalUC,
		notifier:   notifier,
	}
}

// defaultCatalog catálogo mínimo: un artículo discreto, uno flexi y un árbol
// sitio → bodega W, camioneta V, obra B.
func defaultCatalog() (map[string]*entity.Item, map[string]*entity.Location) {
	now := time.Now().UTC()
	items := map[string]*entity.Item{
		"item-x": {
			ID: "item-x", SKU: "X-001", Name: "Tornillo 8mm",
			UnitType:     entity.UnitTypeUnit,
			MinimumLevel: decimal.Zero,
			CreatedAt:    now, UpdatedAt: now,
		},
		"item-min": {
			ID: "item-min", SKU: "M-001", Name: "Cable 2.5mm",
			UnitType:     entity.UnitTypeLength,
			MinimumLevel: decimal.NewFromInt(20),
			CreatedAt:    now, UpdatedAt: now,
		},
		"item-flexi": {
			ID: "item-flexi", SKU: "F-001", Name: "Tambor de solvente",
			UnitType:          entity.UnitTypeFlexi,
			ContainerCapacity: decimal.NewFromInt(200), // litros por tambor
			CreatedAt:         now, UpdatedAt: now,
		},
	}
	locations := map[string]*entity.Location{
		"site": {ID: "site", Kind: entity.LocationKindSite, Name: "Sede principal", CreatedAt: now},
		"W":    {ID: "W", ParentID: "site", Kind: entity.LocationKindWarehouse, Name: "Bodega central", CreatedAt: now},
		"V":    {ID: "V", ParentID: "site", Kind: entity.LocationKindVan, Name: "Camioneta 1", CreatedAt: now},
		"B":    {ID: "B", ParentID: "site", Kind: entity.LocationKindBin, Name: "Obra norte", CreatedAt: now},
	}
	return items, locations
}

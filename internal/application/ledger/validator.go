package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	domledger "github.com/tu-usuario/stock-ledger/internal/domain/ledger"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// ProposeMovementUseCase es el Validator: único camino por el que se crea
// una entrada del libro. Valida forma y disponibilidad bajo lock de fila
// (SELECT FOR UPDATE), resuelve estimaciones flexi a cifra concreta y
// escribe entrada + proyección de saldo en una sola transacción.
type ProposeMovementUseCase struct {
	txRunner     TxRunner
	itemRepo     repository.ItemRepository
	locationRepo repository.LocationRepository
	notifier     Notifier
}

// NewProposeMovementUseCase construye el caso de uso.
func NewProposeMovementUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	locationRepo repository.LocationRepository,
	notifier Notifier,
) *ProposeMovementUseCase {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &ProposeMovementUseCase{
		txRunner:     txRunner,
		itemRepo:     itemRepo,
		locationRepo: locationRepo,
		notifier:     notifier,
	}
}

// MovementInput entrada para proponer un movimiento.
// Quantity se ignora cuando Estimate está presente (artículos flexi):
// la estimación se resuelve a cifra concreta aquí, una sola vez.
type MovementInput struct {
	// ProposalID clave de idempotencia del caller; vacío genera una nueva.
	// Reintentar con el mismo id tras un ErrPersistenceFailure es seguro.
	ProposalID       string
	ItemID           string
	Kind             string
	Quantity         decimal.Decimal
	SourceLocationID string
	DestLocationID   string
	Unit             string
	Estimate         *domledger.Estimate
	// CorrectionForDiscrepancy permite que un ADJUST a la baja deje
	// existencias negativas (discrepancia física conocida).
	CorrectionForDiscrepancy bool
	JobRef                   string
	ActorID                  string
	Note                     string
}

// locRequirement exigencia de una ubicación según el tipo de movimiento.
type locRequirement int

const (
	locForbidden locRequirement = iota
	locRequired
	locOptional
)

// movementShape reglas de forma por tipo (despacho por tabla, conjunto cerrado).
type movementShape struct {
	source     locRequirement
	dest       locRequirement
	exactlyOne bool // ADJUST: exactamente una de las dos ubicaciones
	distinct   bool // origen y destino deben diferir
	jobRef     bool // JobRef obligatorio
}

var movementShapes = map[string]movementShape{
	entity.MovementKindReceive:  {source: locForbidden, dest: locRequired},
	entity.MovementKindIssue:    {source: locRequired, dest: locForbidden},
	entity.MovementKindReserve:  {source: locRequired, dest: locForbidden},
	entity.MovementKindRelease:  {source: locRequired, dest: locForbidden},
	entity.MovementKindAdjust:   {source: locOptional, dest: locOptional, exactlyOne: true},
	entity.MovementKindTransfer: {source: locRequired, dest: locRequired, distinct: true},
	entity.MovementKindReturn:   {source: locRequired, dest: locRequired, distinct: true, jobRef: true},
}

// checkShape valida la combinación de ubicaciones contra la tabla de formas.
func checkShape(in MovementInput) error {
	shape, ok := movementShapes[in.Kind]
	if !ok {
		return domain.ErrInvalidInput
	}
	hasSource := in.SourceLocationID != ""
	hasDest := in.DestLocationID != ""

	if shape.exactlyOne {
		if hasSource == hasDest {
			return domain.ErrInvalidMovementShape
		}
	} else {
		if shape.source == locRequired && !hasSource || shape.source == locForbidden && hasSource {
			return domain.ErrInvalidMovementShape
		}
		if shape.dest == locRequired && !hasDest || shape.dest == locForbidden && hasDest {
			return domain.ErrInvalidMovementShape
		}
	}
	if shape.distinct && in.SourceLocationID == in.DestLocationID {
		return domain.ErrInvalidMovementShape
	}
	if shape.jobRef && in.JobRef == "" {
		return domain.ErrInvalidMovementShape
	}
	return nil
}

// ProposeMovement valida y confirma un movimiento. Devuelve la entrada
// escrita (o la ya existente si la propuesta es un replay). Nunca recorta
// cantidades en silencio: toda violación se devuelve como error tipado.
func (uc *ProposeMovementUseCase) ProposeMovement(ctx context.Context, input MovementInput) (*entity.MovementEntry, error) {
	item, entry, err := uc.prepare(input)
	if err != nil {
		return nil, err
	}

	var (
		replayed  bool
		crossings []LowStockEvent
	)
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		balRepo repository.BalanceRepository,
	) error {
		entry, crossings, replayed, err = commitEntry(movRepo, balRepo, item, entry, input.CorrectionForDiscrepancy)
		return err
	})
	if err != nil {
		return nil, err
	}

	if !replayed {
		uc.Publish(ctx, entry, crossings)
	}
	return entry, nil
}

// ProposeMovementInTx ejecuta la propuesta con los repositorios del caller
// (misma transacción). Lo usa el Translator para decidir la solicitud y mover
// stock atómicamente. Los eventos devueltos deben publicarse con Publish
// DESPUÉS del commit del caller; replayed=true indica que la propuesta ya
// estaba aplicada y el caller no debe re-publicar.
func (uc *ProposeMovementUseCase) ProposeMovementInTx(
	movRepo repository.MovementRepository,
	balRepo repository.BalanceRepository,
	input MovementInput,
) (*entity.MovementEntry, []LowStockEvent, bool, error) {
	item, entry, err := uc.prepare(input)
	if err != nil {
		return nil, nil, false, err
	}
	entry, crossings, replayed, err := commitEntry(movRepo, balRepo, item, entry, input.CorrectionForDiscrepancy)
	if err != nil {
		return nil, nil, false, err
	}
	if replayed {
		return entry, nil, true, nil
	}
	return entry, crossings, false, nil
}

// prepare ejecuta la validación que no requiere transacción: forma, artículo,
// unidad, existencia de ubicaciones y resolución de cantidad. Construye la
// entrada candidata sin persistirla.
func (uc *ProposeMovementUseCase) prepare(input MovementInput) (*entity.Item, *entity.MovementEntry, error) {
	if err := checkShape(input); err != nil {
		return nil, nil, err
	}

	item, err := uc.itemRepo.GetByID(input.ItemID)
	if err != nil {
		return nil, nil, err
	}
	if item == nil {
		return nil, nil, domain.ErrNotFound
	}
	// La unidad debe coincidir con la configurada del artículo; las tablas
	// de conversión entre unidades viven fuera de este módulo.
	if input.Unit != "" && input.Unit != item.UnitType {
		return nil, nil, domain.ErrUnitMismatch
	}

	if err := uc.checkLocations(input); err != nil {
		return nil, nil, err
	}

	qty, approximate, err := resolveQuantity(item, input)
	if err != nil {
		return nil, nil, err
	}

	proposalID := input.ProposalID
	if proposalID == "" {
		proposalID = uuid.New().String()
	}
	entry := &entity.MovementEntry{
		ID:               uuid.New().String(),
		ProposalID:       proposalID,
		ItemID:           input.ItemID,
		SourceLocationID: input.SourceLocationID,
		DestLocationID:   input.DestLocationID,
		Kind:             input.Kind,
		Quantity:         qty,
		Unit:             item.UnitType,
		Approximate:      approximate,
		JobRef:           input.JobRef,
		ActorID:          input.ActorID,
		Note:             input.Note,
		CreatedAt:        time.Now().UTC(),
	}
	return item, entry, nil
}

// commitEntry detecta replays de la misma propuesta y aplica la entrada.
func commitEntry(
	movRepo repository.MovementRepository,
	balRepo repository.BalanceRepository,
	item *entity.Item,
	entry *entity.MovementEntry,
	correction bool,
) (*entity.MovementEntry, []LowStockEvent, bool, error) {
	existing, err := movRepo.GetByProposalID(entry.ProposalID)
	if err != nil {
		return nil, nil, false, err
	}
	if len(existing) > 0 {
		// Replay de una propuesta ya aplicada: ignorar sin re-aplicar.
		return existing[0], nil, true, nil
	}
	crossings, err := applyEntry(movRepo, balRepo, item, entry, correction)
	if err != nil {
		return nil, nil, false, err
	}
	return entry, crossings, false, nil
}

// checkLocations verifica que las ubicaciones referenciadas existan en el árbol.
func (uc *ProposeMovementUseCase) checkLocations(input MovementInput) error {
	for _, id := range []string{input.SourceLocationID, input.DestLocationID} {
		if id == "" {
			continue
		}
		loc, err := uc.locationRepo.GetByID(id)
		if err != nil {
			return err
		}
		if loc == nil {
			return domain.ErrNotFound
		}
	}
	return nil
}

// resolveQuantity determina la cantidad concreta del movimiento.
// Con Estimate presente se resuelve la estimación flexi contra los parámetros
// del artículo; la entrada resultante guarda cifra concreta + bandera approximate.
func resolveQuantity(item *entity.Item, input MovementInput) (decimal.Decimal, bool, error) {
	if input.Estimate != nil {
		qty, err := domledger.ResolveEstimate(item, *input.Estimate)
		if err != nil {
			return decimal.Zero, false, err
		}
		if qty.LessThanOrEqual(decimal.Zero) {
			return decimal.Zero, false, domain.ErrInvalidInput
		}
		return qty, true, nil
	}
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return decimal.Zero, false, domain.ErrInvalidInput
	}
	return input.Quantity, false, nil
}

// applyEntry ejecuta, dentro de la transacción, la parte sensible a carreras:
// bloquea las filas de saldo afectadas en orden lexicográfico fijo (evita
// deadlocks entre transfers opuestos), re-verifica disponibilidad con el lock
// tomado y escribe entrada + saldos. Devuelve los cruces de nivel mínimo
// detectados para emitirlos tras el commit.
func applyEntry(
	movRepo repository.MovementRepository,
	balRepo repository.BalanceRepository,
	item *entity.Item,
	entry *entity.MovementEntry,
	correction bool,
) ([]LowStockEvent, error) {
	deltas := entry.BalanceDeltas()

	locIDs := make([]string, 0, len(deltas))
	for _, d := range deltas {
		locIDs = append(locIDs, d.LocationID)
	}
	sort.Strings(locIDs)

	snaps := make(map[string]*entity.BalanceSnapshot, len(locIDs))
	for _, id := range locIDs {
		snap, err := balRepo.GetForUpdate(item.ID, id)
		if err != nil {
			return nil, err
		}
		snaps[id] = snap
	}

	if err := checkBalances(entry, snaps, correction); err != nil {
		return nil, err
	}

	if err := movRepo.Append(entry); err != nil {
		return nil, err
	}

	var crossings []LowStockEvent
	for _, d := range deltas {
		snap := snaps[d.LocationID]
		prevAvailable := snap.Available()
		snap.Apply(d, entry.ID, entry.CreatedAt)
		if err := balRepo.Upsert(snap); err != nil {
			return nil, err
		}
		if crossedMinimum(item, prevAvailable, snap.Available()) {
			crossings = append(crossings, LowStockEvent{
				ItemID:       item.ID,
				LocationID:   d.LocationID,
				Available:    snap.Available(),
				MinimumLevel: item.MinimumLevel,
				OccurredAt:   entry.CreatedAt,
			})
		}
	}
	return crossings, nil
}

// checkBalances reglas de validación por tipo con los locks ya tomados.
func checkBalances(entry *entity.MovementEntry, snaps map[string]*entity.BalanceSnapshot, correction bool) error {
	q := entry.Quantity
	switch entry.Kind {
	case entity.MovementKindIssue, entity.MovementKindReserve, entity.MovementKindTransfer:
		if snaps[entry.SourceLocationID].Available().LessThan(q) {
			return domain.ErrInsufficientAvailable
		}
	case entity.MovementKindRelease:
		if snaps[entry.SourceLocationID].Reserved.LessThan(q) {
			return domain.ErrInvalidReservationRelease
		}
	case entity.MovementKindAdjust:
		// Un ajuste a la baja sin bandera de corrección no puede dejar
		// onHand debajo de lo reservado (ni negativo): se valida contra
		// el disponible, igual que un despacho.
		if entry.HasSource() && !correction {
			if snaps[entry.SourceLocationID].Available().LessThan(q) {
				return domain.ErrNegativeOnHandRejected
			}
		}
	case entity.MovementKindReceive, entity.MovementKindReturn:
		// Entrada incondicional al destino.
	}
	return nil
}

// crossedMinimum detecta el cruce hacia abajo del nivel mínimo del artículo.
func crossedMinimum(item *entity.Item, prev, curr decimal.Decimal) bool {
	if item.MinimumLevel.LessThanOrEqual(decimal.Zero) {
		return false
	}
	return prev.GreaterThanOrEqual(item.MinimumLevel) && curr.LessThan(item.MinimumLevel)
}

// Publish emite los eventos post-commit (fire-and-forget, fuera del lock).
func (uc *ProposeMovementUseCase) Publish(ctx context.Context, entry *entity.MovementEntry, crossings []LowStockEvent) {
	uc.notifier.MovementCommitted(ctx, MovementCommittedEvent{
		EntryID:          entry.ID,
		ProposalID:       entry.ProposalID,
		ItemID:           entry.ItemID,
		Kind:             entry.Kind,
		Quantity:         entry.Quantity,
		SourceLocationID: entry.SourceLocationID,
		DestLocationID:   entry.DestLocationID,
		ActorID:          entry.ActorID,
		OccurredAt:       entry.CreatedAt,
	})
	for _, ev := range crossings {
		uc.notifier.LowStock(ctx, ev)
	}
}

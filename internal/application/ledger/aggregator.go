package ledger

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	domledger "github.com/tu-usuario/stock-ledger/internal/domain/ledger"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// BalanceUseCase es el Aggregator: sirve saldos actuales sin reproducir el
// libro en cada lectura y reconstruye la proyección completa cuando el
// snapshot store se pierde o se sospecha inconsistente.
type BalanceUseCase struct {
	txRunner TxRunner
	balRepo  repository.BalanceRepository
	movRepo  repository.MovementRepository
}

// NewBalanceUseCase construye el caso de uso con repositorios atados al pool
// (lecturas) y el TxRunner para la reconstrucción transaccional.
func NewBalanceUseCase(txRunner TxRunner, balRepo repository.BalanceRepository, movRepo repository.MovementRepository) *BalanceUseCase {
	return &BalanceUseCase{txRunner: txRunner, balRepo: balRepo, movRepo: movRepo}
}

// CurrentBalance devuelve el snapshot vigente; todo-cero si el par
// (artículo, ubicación) nunca ha tenido movimientos. Leer no crea filas.
func (uc *BalanceUseCase) CurrentBalance(ctx context.Context, itemID, locationID string) (*entity.BalanceSnapshot, error) {
	return uc.balRepo.Get(itemID, locationID)
}

// LocationBalances lista los saldos de una ubicación (consulta puntual de reportes).
func (uc *BalanceUseCase) LocationBalances(ctx context.Context, locationID string) ([]*entity.BalanceSnapshot, error) {
	return uc.balRepo.ListByLocation(ctx, locationID)
}

// Movements consulta de rango sobre el libro por fecha/artículo/ubicación/actor/tipo.
func (uc *BalanceUseCase) Movements(ctx context.Context, filter repository.MovementFilter) ([]*entity.MovementEntry, error) {
	return uc.movRepo.List(ctx, filter)
}

// Rebuild reconstruye la proyección completa reproduciendo el libro en orden
// ascendente de timestamp, en una sola transacción: vacía los snapshots,
// re-deriva cada uno desde cero y los persiste. Deja la proyección idéntica
// a la que habría producido el mantenimiento incremental.
func (uc *BalanceUseCase) Rebuild(ctx context.Context) (int, error) {
	var rebuilt int
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		balRepo repository.BalanceRepository,
	) error {
		if err := balRepo.DeleteAll(); err != nil {
			return err
		}
		balances := make(map[domledger.BalanceKey]*entity.BalanceSnapshot)
		if err := movRepo.ReplayAscending(ctx, func(e *entity.MovementEntry) error {
			domledger.ApplyToProjection(balances, e)
			return nil
		}); err != nil {
			return err
		}
		for _, snap := range balances {
			if err := balRepo.Upsert(snap); err != nil {
				return err
			}
		}
		rebuilt = len(balances)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return rebuilt, nil
}

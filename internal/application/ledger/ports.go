package ledger

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad entre la entrada del
// libro y la actualización de la proyección de saldos: o persisten ambas,
// o ninguna.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		balRepo repository.BalanceRepository,
	) error) error

	// RunRequest igual que Run pero con el repositorio de solicitudes,
	// para que el Translator decida la solicitud y mueva stock en una
	// sola transacción.
	RunRequest(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		balRepo repository.BalanceRepository,
		reqRepo repository.StockRequestRepository,
	) error) error
}

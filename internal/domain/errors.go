package domain

import "errors"

// Errores de dominio (sin dependencias externas). Todos son recuperables
// por el caller: corrige la entrada o reconsulta el saldo.
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// Taxonomía del motor de movimientos.
	ErrInsufficientAvailable     = errors.New("disponibilidad insuficiente")
	ErrInvalidReservationRelease = errors.New("liberación mayor que la reserva vigente")
	ErrNegativeOnHandRejected    = errors.New("el ajuste dejaría existencias negativas o debajo de lo reservado")
	ErrApprovalExceedsRequest    = errors.New("la cantidad aprobada excede la solicitada")
	ErrInvalidMovementShape      = errors.New("combinación de ubicaciones inválida para el tipo de movimiento")
	ErrUnitMismatch              = errors.New("la unidad no corresponde a la configurada del artículo")

	// ErrPersistenceFailure envuelve fallas de la capa de persistencia
	// (timeout de lock, pérdida de conexión). La escritura es todo-o-nada:
	// un reintento con el mismo proposal_id es seguro.
	ErrPersistenceFailure = errors.New("falla de persistencia")
)

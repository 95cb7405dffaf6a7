package orders

import (
	"time"

	"github.com/firmarollers/b2b-backend/pkg/db/models"
	"github.com/firmarollers/b2b-backend/pkg/enums"
	pkgerrors "github.com/firmarollers/b2b-backend/pkg/errors"
)

// allowedTransitions is the directed edge set of the order lifecycle.
// enviado and cancelado are terminal.
var allowedTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusDraft:      {enums.OrderStatusConfirmado, enums.OrderStatusCancelado},
	enums.OrderStatusConfirmado: {enums.OrderStatusProduccion, enums.OrderStatusCancelado},
	enums.OrderStatusProduccion: {enums.OrderStatusListoEnvio, enums.OrderStatusCancelado},
	enums.OrderStatusListoEnvio: {enums.OrderStatusEnviado, enums.OrderStatusCancelado},
}

// CanTransition reports whether the edge from → to exists.
func CanTransition(from, to enums.OrderStatus) bool {
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// ApplyTransition mutates the order in memory if the requested edge is
// allowed. Moving to enviado stamps SentAt; no other edge has side effects
// here. The order is left untouched on a rejected edge.
func ApplyTransition(order *models.Order, requested enums.OrderStatus, now time.Time) error {
	if !requested.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown order status "+requested.String())
	}
	if !CanTransition(order.Status, requested) {
		return pkgerrors.InvalidTransition(order.Status.String(), requested.String())
	}

	order.Status = requested
	if requested == enums.OrderStatusEnviado && order.SentAt == nil {
		stamp := now.UTC()
		order.SentAt = &stamp
	}
	return nil
}

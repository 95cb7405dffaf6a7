package enums

import "fmt"

// OrderStatus tracks the lifecycle of a confirmed order.
type OrderStatus string

const (
	OrderStatusDraft      OrderStatus = "draft"
	OrderStatusConfirmado OrderStatus = "confirmado"
	OrderStatusProduccion OrderStatus = "produccion"
	OrderStatusListoEnvio OrderStatus = "listo_envio"
	OrderStatusEnviado    OrderStatus = "enviado"
	OrderStatusCancelado  OrderStatus = "cancelado"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusDraft,
	OrderStatusConfirmado,
	OrderStatusProduccion,
	OrderStatusListoEnvio,
	OrderStatusEnviado,
	OrderStatusCancelado,
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status has no outbound transitions.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusEnviado || s == OrderStatusCancelado
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}

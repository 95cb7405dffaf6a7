package packlink

// WebhookEvent is the payload Packlink posts on tracking updates.
type WebhookEvent struct {
	Name string      `json:"name"`
	Data WebhookData `json:"data"`
}

// WebhookData carries the shipment reference and its carrier state.
type WebhookData struct {
	ShipmentReference string `json:"shipment_reference"`
	Status            string `json:"status"`
	TrackingURL       string `json:"tracking_url,omitempty"`
}

// Carrier states that mean the parcel has left the warehouse.
const (
	StatusInTransit      = "IN_TRANSIT"
	StatusOutForDelivery = "OUT_FOR_DELIVERY"
	StatusReadyForPickup = "READY_FOR_PICKUP"
	StatusDelivered      = "DELIVERED"
)

// IsShippedStatus reports whether the carrier state means the parcel is on its way.
func IsShippedStatus(status string) bool {
	switch status {
	case StatusInTransit, StatusOutForDelivery, StatusReadyForPickup, StatusDelivered:
		return true
	}
	return false
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/firmarollers/b2b-backend/pkg/enums"
)

// Order is a confirmed transaction. Totals and per-line prices/weights are a
// point-in-time snapshot frozen at creation and never recomputed, even when
// the customer's tarifa changes later.
type Order struct {
	ID                 uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CustomerID         uuid.UUID         `gorm:"column:customer_id;type:uuid;not null;index" json:"customer_id"`
	Status             enums.OrderStatus `gorm:"column:status;not null;default:'confirmado'" json:"status"`
	TotalProductos     decimal.Decimal   `gorm:"column:total_productos;type:numeric(12,2);not null" json:"total_productos"`
	PesoTotal          decimal.Decimal   `gorm:"column:peso_total;type:numeric(12,3);not null" json:"peso_total"`
	CosteEnvioEstimado *decimal.Decimal  `gorm:"column:coste_envio_estimado;type:numeric(12,2)" json:"coste_envio_estimado,omitempty"`
	CosteEnvioFinal    *decimal.Decimal  `gorm:"column:coste_envio_final;type:numeric(12,2)" json:"coste_envio_final,omitempty"`
	ShipmentReference  *string           `gorm:"column:packlink_shipment_id" json:"packlink_shipment_id,omitempty"`
	TrackingURL        *string           `gorm:"column:tracking_url" json:"tracking_url,omitempty"`
	PaqueteAncho       *int              `gorm:"column:paquete_ancho" json:"paquete_ancho,omitempty"`
	PaqueteAlto        *int              `gorm:"column:paquete_alto" json:"paquete_alto,omitempty"`
	PaqueteLargo       *int              `gorm:"column:paquete_largo" json:"paquete_largo,omitempty"`
	SentAt             *time.Time        `gorm:"column:sent_at" json:"sent_at,omitempty"`
	Customer           *Customer         `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items              []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"`
	CreatedAt          time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

// TableName keeps the hosted schema's table name.
func (Order) TableName() string {
	return "orders"
}

// OrderItem is one frozen line of an order; immutable after creation.
type OrderItem struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID        uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index" json:"order_id"`
	SKU            string          `gorm:"column:sku;not null" json:"sku"`
	NombreProducto string          `gorm:"column:nombre_producto;not null" json:"nombre_producto"`
	Cantidad       int             `gorm:"column:cantidad;not null" json:"cantidad"`
	PrecioUnitario decimal.Decimal `gorm:"column:precio_unitario;type:numeric(12,2);not null" json:"precio_unitario"`
	PesoUnitario   decimal.Decimal `gorm:"column:peso_unitario;type:numeric(12,3);not null" json:"peso_unitario"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime" json:"-"`
}

// TableName keeps the hosted schema's table name.
func (OrderItem) TableName() string {
	return "order_items"
}

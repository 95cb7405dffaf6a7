package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Tarifa is a price list assignable to customers. Per-SKU overrides live in
// TarifaPrecio rows; everything else prices through the multiplier.
type Tarifa struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Nombre            string          `gorm:"column:nombre;not null" json:"nombre"`
	Descripcion       *string         `gorm:"column:descripcion" json:"descripcion,omitempty"`
	Multiplicador     decimal.Decimal `gorm:"column:multiplicador;type:numeric(10,4);not null;default:1" json:"multiplicador"`
	Activo            bool            `gorm:"column:activo;not null;default:true" json:"activo"`
	MinimumOrderValue decimal.Decimal `gorm:"column:minimum_order_value;type:numeric(12,2);not null;default:0" json:"minimum_order_value"`
	PackSize          int             `gorm:"column:pack_size;not null;default:1" json:"pack_size"`
	HiddenProducts    pq.StringArray  `gorm:"column:hidden_products;type:text[];default:'{}'" json:"hidden_products"`
	Precios           []TarifaPrecio  `gorm:"foreignKey:TarifaID;constraint:OnDelete:CASCADE" json:"precios,omitempty"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

// TableName keeps the hosted schema's table name.
func (Tarifa) TableName() string {
	return "tarifas"
}

// TarifaPrecio is an absolute per-SKU override for one tarifa. A price of
// zero is a valid override; presence of the row, not the value, decides.
type TarifaPrecio struct {
	TarifaID uuid.UUID       `gorm:"column:tarifa_id;type:uuid;primaryKey" json:"tarifa_id"`
	SKU      string          `gorm:"column:sku;primaryKey" json:"sku"`
	Precio   decimal.Decimal `gorm:"column:precio;type:numeric(12,2);not null" json:"precio"`
}

// TableName keeps the hosted schema's table name.
func (TarifaPrecio) TableName() string {
	return "tarifas_precios"
}

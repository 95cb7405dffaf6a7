package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/firmarollers/b2b-backend/pkg/enums"
	"github.com/firmarollers/b2b-backend/pkg/types"
)

// Customer is a business buyer with an account on the portal. The row keeps
// its Spanish column names so it stays compatible with the hosted schema.
type Customer struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AuthUserID      uuid.UUID             `gorm:"column:auth_user_id;type:uuid;not null" json:"auth_user_id"`
	CompanyName     string                `gorm:"column:company_name;not null" json:"company_name"`
	NombreComercial *string               `gorm:"column:nombre_comercial" json:"nombre_comercial,omitempty"`
	NifCif          string                `gorm:"column:nif_cif;not null" json:"nif_cif"`
	ContactoNombre  string                `gorm:"column:contacto_nombre;not null" json:"contacto_nombre"`
	Email           string                `gorm:"column:email;not null;uniqueIndex" json:"email"`
	Telefono        *string               `gorm:"column:telefono" json:"telefono,omitempty"`
	DireccionEnvio  types.ShippingAddress `gorm:"column:direccion_envio;type:jsonb;serializer:json" json:"direccion_envio"`
	Estado          enums.CustomerEstado  `gorm:"column:estado;not null;default:'active'" json:"estado"`
	TarifaID        *uuid.UUID            `gorm:"column:tarifa_id;type:uuid" json:"tarifa_id,omitempty"`
	DescuentoPct    decimal.Decimal       `gorm:"column:descuento_pct;type:numeric(5,2);not null;default:0" json:"descuento_pct"`
	Tarifa          *Tarifa               `gorm:"foreignKey:TarifaID" json:"tarifa,omitempty"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

// TableName keeps the hosted schema's table name.
func (Customer) TableName() string {
	return "customers"
}

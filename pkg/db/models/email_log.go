package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/firmarollers/b2b-backend/pkg/enums"
)

// EmailLog records every transactional email attempt, sent or failed.
type EmailLog struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CustomerID *uuid.UUID        `gorm:"column:customer_id;type:uuid;index" json:"customer_id,omitempty"`
	OrderID    *uuid.UUID        `gorm:"column:order_id;type:uuid;index" json:"order_id,omitempty"`
	Tipo       enums.EmailType   `gorm:"column:tipo;not null" json:"tipo"`
	Destino    string            `gorm:"column:destino;not null" json:"destino"`
	Asunto     string            `gorm:"column:asunto;not null" json:"asunto"`
	Status     enums.EmailStatus `gorm:"column:status;not null" json:"status"`
	ErrorMsg   *string           `gorm:"column:error_msg" json:"error_msg,omitempty"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName keeps the hosted schema's table name.
func (EmailLog) TableName() string {
	return "email_logs"
}

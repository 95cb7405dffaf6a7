package emails

import (
	"context"

	"gorm.io/gorm"

	"github.com/firmarollers/b2b-backend/pkg/db/models"
)

// Repository persists email_logs rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Insert(ctx context.Context, log *models.EmailLog) error
	List(ctx context.Context, limit int) ([]models.EmailLog, error)
}

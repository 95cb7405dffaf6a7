package tariffs

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/firmarollers/b2b-backend/pkg/db/models"
)

// Repository defines persistence operations for tarifas and their overrides.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, tarifa *models.Tarifa) (*models.Tarifa, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Tarifa, error)
	List(ctx context.Context) ([]models.Tarifa, error)
	DeletePrecios(ctx context.Context, tarifaID uuid.UUID) error
	InsertPrecios(ctx context.Context, precios []models.TarifaPrecio) error
}

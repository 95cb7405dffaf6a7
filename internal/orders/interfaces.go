package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/firmarollers/b2b-backend/pkg/db/models"
	"github.com/firmarollers/b2b-backend/pkg/pagination"
)

// ListFilter narrows a cursor-paginated orders listing. A nil CustomerID
// lists across all customers (back office); portal requests always set it.
type ListFilter struct {
	CustomerID *uuid.UUID
	Status     *string
	Pagination pagination.Params
}

// Repository persists orders and their immutable item rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByShipmentReference(ctx context.Context, reference string) (*models.Order, error)
	List(ctx context.Context, filter ListFilter) ([]models.Order, error)
}

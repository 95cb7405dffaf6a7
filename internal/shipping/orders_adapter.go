package shipping

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	ordersvc "github.com/firmarollers/b2b-backend/internal/orders"
	"github.com/firmarollers/b2b-backend/pkg/db/models"
	"github.com/firmarollers/b2b-backend/pkg/enums"
)

// OrderGateway bridges the shipping service to the order lifecycle. Status
// moves go through the orders service so transition rules and emails apply;
// shipment bookkeeping fields write straight through the repository.
type OrderGateway struct {
	svc  ordersvc.Service
	repo ordersvc.Repository
}

func NewOrderGateway(svc ordersvc.Service, repo ordersvc.Repository) (*OrderGateway, error) {
	if svc == nil {
		return nil, fmt.Errorf("orders service required")
	}
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &OrderGateway{svc: svc, repo: repo}, nil
}

func (g *OrderGateway) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return g.svc.Get(ctx, id)
}

func (g *OrderGateway) ChangeStatus(ctx context.Context, id uuid.UUID, requested enums.OrderStatus) (*models.Order, error) {
	return g.svc.ChangeStatus(ctx, id, requested)
}

func (g *OrderGateway) FindByShipmentReference(ctx context.Context, reference string) (*models.Order, error) {
	return g.repo.FindByShipmentReference(ctx, reference)
}

func (g *OrderGateway) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return g.repo.Update(ctx, id, updates)
}

package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/firmarollers/b2b-backend/internal/pricing"
	"github.com/firmarollers/b2b-backend/pkg/db/models"
	"github.com/firmarollers/b2b-backend/pkg/enums"
	pkgerrors "github.com/firmarollers/b2b-backend/pkg/errors"
	"github.com/firmarollers/b2b-backend/pkg/logger"
	"github.com/firmarollers/b2b-backend/pkg/metrics"
	"github.com/firmarollers/b2b-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type customerFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
}

type orderNotifier interface {
	NotifyOrderCreated(ctx context.Context, order *models.Order, customer *models.Customer) error
	SendOrderShipped(ctx context.Context, order *models.Order, customer *models.Customer) error
}

// Service owns the order lifecycle.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Order, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, requested enums.OrderStatus) (*models.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetForCustomer(ctx context.Context, id, customerID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, filter ListFilter) ([]models.Order, string, error)
}

type service struct {
	repo          Repository
	customers     customerFinder
	tx            txRunner
	notifier      orderNotifier
	metrics       *metrics.OrderMetrics
	logg          *logger.Logger
	enforceTarifa bool
	now           func() time.Time
}

// ItemInput is one order line as confirmed by the back office. Prices and
// weights arrive already resolved; they become the frozen snapshot.
type ItemInput struct {
	SKU            string
	NombreProducto string
	Cantidad       int
	PrecioUnitario decimal.Decimal
	PesoUnitario   decimal.Decimal
}

// CreateInput carries a draft order to be confirmed and persisted.
type CreateInput struct {
	CustomerID         uuid.UUID
	Items              []ItemInput
	CosteEnvioEstimado *decimal.Decimal
	PaqueteAncho       *int
	PaqueteAlto        *int
	PaqueteLargo       *int
}

// NewService builds an orders service with the required dependencies.
func NewService(
	repo Repository,
	customers customerFinder,
	tx txRunner,
	notifier orderNotifier,
	om *metrics.OrderMetrics,
	logg *logger.Logger,
	enforceTarifa bool,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if customers == nil {
		return nil, fmt.Errorf("customer finder required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("order notifier required")
	}
	if om == nil {
		return nil, fmt.Errorf("order metrics required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:          repo,
		customers:     customers,
		tx:            tx,
		notifier:      notifier,
		metrics:       om,
		logg:          logg,
		enforceTarifa: enforceTarifa,
		now:           time.Now,
	}, nil
}

// Create confirms a draft into a persisted order. Totals are computed once
// here and frozen; later catalog or tarifa changes never touch them.
func (s *service) Create(ctx context.Context, input CreateInput) (*models.Order, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "an order needs at least one item")
	}

	customer, err := s.customers.FindByID(ctx, input.CustomerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	if customer.Estado != enums.CustomerEstadoActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer is not active")
	}

	items, totalProductos, pesoTotal, err := s.buildItems(input.Items, customer.Tarifa)
	if err != nil {
		return nil, err
	}
	if s.enforceTarifa && !pricing.IsOrderAdmissible(customer.Tarifa, totalProductos) {
		return nil, pkgerrors.New(
			pkgerrors.CodeValidation,
			fmt.Sprintf("order total %s is below the tarifa minimum of %s",
				totalProductos.StringFixed(2), customer.Tarifa.MinimumOrderValue.StringFixed(2)),
		)
	}

	order := &models.Order{
		CustomerID:         input.CustomerID,
		Status:             enums.OrderStatusConfirmado,
		TotalProductos:     totalProductos,
		PesoTotal:          pesoTotal,
		CosteEnvioEstimado: input.CosteEnvioEstimado,
		PaqueteAncho:       input.PaqueteAncho,
		PaqueteAlto:        input.PaqueteAlto,
		PaqueteLargo:       input.PaqueteLargo,
		Items:              items,
	}

	// header and items land together or not at all
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		created, txErr := s.repo.WithTx(tx).Create(ctx, order)
		if txErr != nil {
			return txErr
		}
		order = created
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	s.metrics.IncCreated(order.Status.String())
	s.notifyCreated(ctx, order, customer)
	return order, nil
}

func (s *service) buildItems(inputs []ItemInput, tarifa *models.Tarifa) ([]models.OrderItem, decimal.Decimal, decimal.Decimal, error) {
	items := make([]models.OrderItem, 0, len(inputs))
	totalProductos := decimal.Zero
	pesoTotal := decimal.Zero

	for i, item := range inputs {
		if strings.TrimSpace(item.SKU) == "" {
			return nil, decimal.Zero, decimal.Zero, pkgerrors.New(
				pkgerrors.CodeValidation, fmt.Sprintf("item %d is missing a sku", i))
		}
		if item.Cantidad <= 0 {
			return nil, decimal.Zero, decimal.Zero, pkgerrors.New(
				pkgerrors.CodeValidation, fmt.Sprintf("item %s needs a positive quantity", item.SKU))
		}
		if item.PrecioUnitario.IsNegative() || item.PesoUnitario.IsNegative() {
			return nil, decimal.Zero, decimal.Zero, pkgerrors.New(
				pkgerrors.CodeValidation, fmt.Sprintf("item %s has a negative price or weight", item.SKU))
		}
		if s.enforceTarifa && tarifa != nil {
			if result := pricing.QuantizeQuantity(item.Cantidad, tarifa.PackSize); !result.Valid {
				return nil, decimal.Zero, decimal.Zero, pkgerrors.New(
					pkgerrors.CodeValidation,
					fmt.Sprintf("item %s must be ordered in packs of %d (nearest: %d)",
						item.SKU, tarifa.PackSize, result.NearestQty),
				)
			}
		}

		qty := decimal.NewFromInt(int64(item.Cantidad))
		totalProductos = totalProductos.Add(item.PrecioUnitario.Mul(qty))
		pesoTotal = pesoTotal.Add(item.PesoUnitario.Mul(qty))

		items = append(items, models.OrderItem{
			SKU:            strings.TrimSpace(item.SKU),
			NombreProducto: item.NombreProducto,
			Cantidad:       item.Cantidad,
			PrecioUnitario: item.PrecioUnitario.Round(2),
			PesoUnitario:   item.PesoUnitario.Round(3),
		})
	}

	return items, totalProductos.Round(2), pesoTotal.Round(3), nil
}

func (s *service) notifyCreated(ctx context.Context, order *models.Order, customer *models.Customer) {
	lc := s.logg.WithOrderID(ctx, order.ID.String())
	if err := s.notifier.NotifyOrderCreated(lc, order, customer); err != nil {
		s.logg.Error(lc, "order creation emails failed", err)
	}
}

// ChangeStatus applies one edge of the lifecycle and persists the result.
func (s *service) ChangeStatus(ctx context.Context, id uuid.UUID, requested enums.OrderStatus) (*models.Order, error) {
	order, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}

	from := order.Status
	if err := ApplyTransition(order, requested, s.now()); err != nil {
		return nil, err
	}

	updates := map[string]any{"status": order.Status}
	if order.Status == enums.OrderStatusEnviado && order.SentAt != nil {
		updates["sent_at"] = *order.SentAt
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	s.metrics.IncTransition(from.String(), order.Status.String())

	if order.Status == enums.OrderStatusEnviado && order.Customer != nil {
		lc := s.logg.WithOrderID(ctx, order.ID.String())
		if err := s.notifier.SendOrderShipped(lc, order, order.Customer); err != nil {
			s.logg.Error(lc, "order shipped email failed", err)
		}
	}
	return order, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	return s.mustFind(ctx, id)
}

// GetForCustomer loads an order only if it belongs to the given customer.
// Other customers' orders surface as not found, never as forbidden, so the
// portal does not leak which ids exist.
func (s *service) GetForCustomer(ctx context.Context, id, customerID uuid.UUID) (*models.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

// List returns one page plus the cursor for the next, empty when exhausted.
func (s *service) List(ctx context.Context, filter ListFilter) ([]models.Order, string, error) {
	if filter.Status != nil {
		if _, err := enums.ParseOrderStatus(*filter.Status); err != nil {
			return nil, "", pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
	}

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	limit := pagination.NormalizeLimit(filter.Pagination.Limit)
	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, next, nil
}

func (s *service) mustFind(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

package shipping

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/firmarollers/b2b-backend/pkg/config"
	"github.com/firmarollers/b2b-backend/pkg/db/models"
	"github.com/firmarollers/b2b-backend/pkg/enums"
	pkgerrors "github.com/firmarollers/b2b-backend/pkg/errors"
	"github.com/firmarollers/b2b-backend/pkg/logger"
	"github.com/firmarollers/b2b-backend/pkg/packlink"
)

// fallbackWeightKg is quoted when an order somehow has no recorded weight,
// so a quote is always possible from the dashboard.
const fallbackWeightKg = 1.0

// Default box when the order has no recorded dimensions, in centimeters.
const (
	defaultWidthCm  = 30
	defaultHeightCm = 20
	defaultLengthCm = 40
)

type carrier interface {
	Quote(ctx context.Context, req packlink.QuoteRequest) ([]packlink.ServiceOption, error)
	CreateShipment(ctx context.Context, req packlink.ShipmentRequest) (*packlink.Shipment, error)
	GetShipment(ctx context.Context, reference string) (*packlink.ShipmentStatus, error)
}

type orderStore interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, requested enums.OrderStatus) (*models.Order, error)
	FindByShipmentReference(ctx context.Context, reference string) (*models.Order, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

// QuoteResult is one bookable carrier service for an order.
type QuoteResult struct {
	ServiceID     int64   `json:"service_id"`
	Carrier       string  `json:"carrier"`
	ServiceName   string  `json:"service_name"`
	Price         float64 `json:"price"`
	EstimatedDays string  `json:"estimated_days"`
}

// BookInput picks a quoted service for an order. Price is the quote the
// back office accepted; it becomes the order's final shipping cost.
type BookInput struct {
	ServiceID int64
	Price     *decimal.Decimal
}

// TrackingInfo is the carrier state of a shipped order.
type TrackingInfo struct {
	TrackingURL    *string `json:"tracking_url,omitempty"`
	ShipmentStatus string  `json:"shipment_status,omitempty"`
}

// WebhookResult summarizes one processed webhook batch.
type WebhookResult struct {
	Processed int
	Skipped   int
}

// Service books shipments and digests carrier tracking updates.
type Service interface {
	Quote(ctx context.Context, orderID uuid.UUID) ([]QuoteResult, error)
	BookShipment(ctx context.Context, orderID uuid.UUID, input BookInput) (*models.Order, error)
	RefreshTracking(ctx context.Context, orderID uuid.UUID) (*TrackingInfo, error)
	HandleWebhook(ctx context.Context, events []packlink.WebhookEvent) (*WebhookResult, error)
}

type service struct {
	carrier   carrier
	orders    orderStore
	warehouse config.WarehouseConfig
	logg      *logger.Logger
}

// NewService builds a shipping service with the required dependencies.
func NewService(c carrier, orders orderStore, warehouse config.WarehouseConfig, logg *logger.Logger) (Service, error) {
	if c == nil {
		return nil, fmt.Errorf("carrier client required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order store required")
	}
	if warehouse.PostalCode == "" {
		return nil, fmt.Errorf("warehouse postal code required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{carrier: c, orders: orders, warehouse: warehouse, logg: logg}, nil
}

// Quote lists carrier services for an order using its frozen weight, its
// package dimensions, and the customer's shipping address.
func (s *service) Quote(ctx context.Context, orderID uuid.UUID) ([]QuoteResult, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Customer == nil || !order.Customer.DireccionEnvio.Complete() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer shipping address is incomplete")
	}

	options, err := s.carrier.Quote(ctx, packlink.QuoteRequest{
		FromCountry: s.warehouse.Country,
		FromZip:     s.warehouse.PostalCode,
		ToCountry:   order.Customer.DireccionEnvio.Country,
		ToZip:       order.Customer.DireccionEnvio.PostalCode,
		Packages:    []packlink.Package{buildPackage(order)},
	})
	if err != nil {
		return nil, err
	}

	results := make([]QuoteResult, 0, len(options))
	for _, opt := range options {
		results = append(results, QuoteResult{
			ServiceID:     opt.ID,
			Carrier:       opt.CarrierName,
			ServiceName:   opt.Name,
			Price:         opt.TotalPrice,
			EstimatedDays: opt.TransitDays,
		})
	}
	return results, nil
}

// BookShipment creates the carrier shipment for an order in listo_envio and
// moves it to enviado. The booking uses the order's frozen snapshot; totals
// are never recomputed here.
func (s *service) BookShipment(ctx context.Context, orderID uuid.UUID, input BookInput) (*models.Order, error) {
	if input.ServiceID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service id required")
	}

	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != enums.OrderStatusListoEnvio {
		return nil, pkgerrors.InvalidTransition(order.Status.String(), enums.OrderStatusEnviado.String())
	}
	if order.Customer == nil || !order.Customer.DireccionEnvio.Complete() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer shipping address is incomplete")
	}

	contentValue, _ := order.TotalProductos.Float64()
	shipment, err := s.carrier.CreateShipment(ctx, packlink.ShipmentRequest{
		ServiceID: input.ServiceID,
		From: packlink.ShipmentAddress{
			Name:    s.warehouse.Name,
			Surname: s.warehouse.Surname,
			Street:  s.warehouse.Street,
			City:    s.warehouse.City,
			ZipCode: s.warehouse.PostalCode,
			Country: s.warehouse.Country,
			Phone:   s.warehouse.Phone,
			Email:   s.warehouse.Email,
		},
		To:           customerAddress(order.Customer),
		Packages:     []packlink.Package{buildPackage(order)},
		Content:      orderContent(order),
		ContentValue: contentValue,
	})
	if err != nil {
		return nil, err
	}

	updates := map[string]any{
		"packlink_shipment_id": shipment.Reference,
	}
	if shipment.TrackingURL != "" {
		updates["tracking_url"] = shipment.TrackingURL
	}
	if input.Price != nil {
		updates["coste_envio_final"] = input.Price.Round(2)
	}
	if err := s.orders.Update(ctx, order.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist shipment reference")
	}

	return s.orders.ChangeStatus(ctx, order.ID, enums.OrderStatusEnviado)
}

// RefreshTracking asks the carrier for the live state of an order's shipment
// and persists the tracking link. Only shipped orders carry a shipment worth
// refreshing.
func (s *service) RefreshTracking(ctx context.Context, orderID uuid.UUID) (*TrackingInfo, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != enums.OrderStatusEnviado {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order is %s, tracking is only available after shipping", order.Status))
	}
	if order.ShipmentReference == nil || strings.TrimSpace(*order.ShipmentReference) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order has no booked shipment")
	}

	status, err := s.carrier.GetShipment(ctx, *order.ShipmentReference)
	if err != nil {
		return nil, err
	}

	info := &TrackingInfo{ShipmentStatus: status.State}
	trackingURL := status.TrackingURL
	if trackingURL == "" {
		trackingURL = status.CarrierTrackingURL
	}
	if trackingURL == "" {
		info.TrackingURL = order.TrackingURL
		return info, nil
	}

	info.TrackingURL = &trackingURL
	if order.TrackingURL == nil || *order.TrackingURL != trackingURL {
		if err := s.orders.Update(ctx, order.ID, map[string]any{"tracking_url": trackingURL}); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist tracking url")
		}
	}
	return info, nil
}

// HandleWebhook digests a batch of carrier tracking events. Unknown shipment
// references are logged and skipped, never an error, so Packlink does not
// retry the whole batch forever.
func (s *service) HandleWebhook(ctx context.Context, events []packlink.WebhookEvent) (*WebhookResult, error) {
	result := &WebhookResult{}
	for _, event := range events {
		reference := strings.TrimSpace(event.Data.ShipmentReference)
		if reference == "" {
			result.Skipped++
			continue
		}

		order, err := s.orders.FindByShipmentReference(ctx, reference)
		if err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "shipment_reference", reference),
				"tracking event for unknown shipment")
			result.Skipped++
			continue
		}

		lc := s.logg.WithOrderID(ctx, order.ID.String())
		if event.Data.TrackingURL != "" {
			if err := s.orders.Update(lc, order.ID, map[string]any{"tracking_url": event.Data.TrackingURL}); err != nil {
				s.logg.Error(lc, "persist tracking url", err)
				result.Skipped++
				continue
			}
		}

		if packlink.IsShippedStatus(event.Data.Status) && order.Status != enums.OrderStatusEnviado {
			if _, err := s.orders.ChangeStatus(lc, order.ID, enums.OrderStatusEnviado); err != nil {
				s.logg.Error(lc, "apply tracking transition", err)
				result.Skipped++
				continue
			}
		}
		result.Processed++
	}
	return result, nil
}

func buildPackage(order *models.Order) packlink.Package {
	weight, _ := order.PesoTotal.Float64()
	if weight <= 0 {
		weight = fallbackWeightKg
	}
	pkg := packlink.Package{Weight: weight, Width: defaultWidthCm, Height: defaultHeightCm, Length: defaultLengthCm}
	if order.PaqueteAncho != nil {
		pkg.Width = *order.PaqueteAncho
	}
	if order.PaqueteAlto != nil {
		pkg.Height = *order.PaqueteAlto
	}
	if order.PaqueteLargo != nil {
		pkg.Length = *order.PaqueteLargo
	}
	return pkg
}

func customerAddress(customer *models.Customer) packlink.ShipmentAddress {
	addr := packlink.ShipmentAddress{
		Name:    customer.ContactoNombre,
		Street:  customer.DireccionEnvio.Street,
		City:    customer.DireccionEnvio.City,
		ZipCode: customer.DireccionEnvio.PostalCode,
		Country: customer.DireccionEnvio.Country,
		Company: customer.CompanyName,
		Email:   customer.Email,
	}
	if customer.Telefono != nil {
		addr.Phone = *customer.Telefono
	}
	if customer.DireccionEnvio.State != nil {
		addr.State = *customer.DireccionEnvio.State
	}
	return addr
}

func orderContent(order *models.Order) string {
	units := 0
	for _, item := range order.Items {
		units += item.Cantidad
	}
	return fmt.Sprintf("Pedido B2B (%d uds)", units)
}

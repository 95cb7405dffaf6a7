package shipping

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/firmarollers/b2b-backend/pkg/config"
	"github.com/firmarollers/b2b-backend/pkg/db/models"
	"github.com/firmarollers/b2b-backend/pkg/enums"
	pkgerrors "github.com/firmarollers/b2b-backend/pkg/errors"
	"github.com/firmarollers/b2b-backend/pkg/logger"
	"github.com/firmarollers/b2b-backend/pkg/packlink"
	"github.com/firmarollers/b2b-backend/pkg/types"
)

type stubCarrier struct {
	quoteReq    packlink.QuoteRequest
	quoteOut    []packlink.ServiceOption
	quoteErr    error
	shipmentReq packlink.ShipmentRequest
	shipment    *packlink.Shipment
	shipmentErr error
	statusRef   string
	status      *packlink.ShipmentStatus
	statusErr   error
}

func (s *stubCarrier) Quote(ctx context.Context, req packlink.QuoteRequest) ([]packlink.ServiceOption, error) {
	s.quoteReq = req
	if s.quoteErr != nil {
		return nil, s.quoteErr
	}
	return s.quoteOut, nil
}

func (s *stubCarrier) CreateShipment(ctx context.Context, req packlink.ShipmentRequest) (*packlink.Shipment, error) {
	s.shipmentReq = req
	if s.shipmentErr != nil {
		return nil, s.shipmentErr
	}
	return s.shipment, nil
}

func (s *stubCarrier) GetShipment(ctx context.Context, reference string) (*packlink.ShipmentStatus, error) {
	s.statusRef = reference
	if s.statusErr != nil {
		return nil, s.statusErr
	}
	return s.status, nil
}

type stubOrderStore struct {
	orders      map[uuid.UUID]*models.Order
	byReference map[string]*models.Order
	updates     map[string]any
	transitions []enums.OrderStatus
	changeErr   error
}

func newStubOrderStore(orders ...*models.Order) *stubOrderStore {
	s := &stubOrderStore{
		orders:      map[uuid.UUID]*models.Order{},
		byReference: map[string]*models.Order{},
	}
	for _, o := range orders {
		s.orders[o.ID] = o
	}
	return s
}

func (s *stubOrderStore) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *stubOrderStore) ChangeStatus(ctx context.Context, id uuid.UUID, requested enums.OrderStatus) (*models.Order, error) {
	if s.changeErr != nil {
		return nil, s.changeErr
	}
	s.transitions = append(s.transitions, requested)
	order := s.orders[id]
	order.Status = requested
	return order, nil
}

func (s *stubOrderStore) FindByShipmentReference(ctx context.Context, reference string) (*models.Order, error) {
	order, ok := s.byReference[reference]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *stubOrderStore) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if s.updates == nil {
		s.updates = map[string]any{}
	}
	for k, v := range updates {
		s.updates[k] = v
	}
	return nil
}

func dec(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}

func shippableOrder(status enums.OrderStatus) *models.Order {
	state := "Bizkaia"
	return &models.Order{
		ID:             uuid.New(),
		CustomerID:     uuid.New(),
		Status:         status,
		TotalProductos: dec("240.50"),
		PesoTotal:      dec("4.250"),
		Items: []models.OrderItem{
			{SKU: "PB-100", Cantidad: 10},
			{SKU: "PB-200", Cantidad: 2},
		},
		Customer: &models.Customer{
			ID:             uuid.New(),
			CompanyName:    "Norte SL",
			ContactoNombre: "Laura Pérez",
			Email:          "laura@norte.example",
			DireccionEnvio: types.ShippingAddress{
				Street:     "Calle Mayor 1",
				City:       "Bilbao",
				State:      &state,
				PostalCode: "48001",
				Country:    "ES",
			},
		},
	}
}

func testWarehouse() config.WarehouseConfig {
	return config.WarehouseConfig{
		Name:       "Almacén",
		Street:     "Pol. Ind. Sur 4",
		City:       "Barakaldo",
		PostalCode: "48901",
		Country:    "ES",
	}
}

func newTestShippingService(t *testing.T, c *stubCarrier, store *stubOrderStore) Service {
	t.Helper()
	svc, err := NewService(c, store, testWarehouse(), logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestQuoteMapsCarrierServices(t *testing.T) {
	order := shippableOrder(enums.OrderStatusConfirmado)
	c := &stubCarrier{quoteOut: []packlink.ServiceOption{
		{ID: 101, CarrierName: "SEUR", Name: "SEUR 24", TotalPrice: 8.45, TransitDays: "1 DAYS"},
	}}
	svc := newTestShippingService(t, c, newStubOrderStore(order))

	results, err := svc.Quote(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if len(results) != 1 || results[0].ServiceID != 101 || results[0].Carrier != "SEUR" {
		t.Fatalf("unexpected quote mapping: %+v", results)
	}
	if c.quoteReq.FromZip != "48901" || c.quoteReq.ToZip != "48001" {
		t.Fatalf("unexpected quote route: %+v", c.quoteReq)
	}
	if got := c.quoteReq.Packages[0].Weight; got != 4.25 {
		t.Fatalf("expected frozen order weight quoted, got %v", got)
	}
}

func TestQuoteUsesFallbackWeightAndDims(t *testing.T) {
	order := shippableOrder(enums.OrderStatusConfirmado)
	order.PesoTotal = decimal.Zero
	width, height, length := 25, 15, 35
	order.PaqueteAncho, order.PaqueteAlto, order.PaqueteLargo = &width, &height, &length

	c := &stubCarrier{}
	svc := newTestShippingService(t, c, newStubOrderStore(order))

	if _, err := svc.Quote(context.Background(), order.ID); err != nil {
		t.Fatalf("Quote: %v", err)
	}
	pkg := c.quoteReq.Packages[0]
	if pkg.Weight != fallbackWeightKg {
		t.Fatalf("expected fallback weight, got %v", pkg.Weight)
	}
	if pkg.Width != 25 || pkg.Height != 15 || pkg.Length != 35 {
		t.Fatalf("expected stored dimensions, got %+v", pkg)
	}
}

func TestQuoteRejectsIncompleteAddress(t *testing.T) {
	order := shippableOrder(enums.OrderStatusConfirmado)
	order.Customer.DireccionEnvio.PostalCode = ""
	svc := newTestShippingService(t, &stubCarrier{}, newStubOrderStore(order))

	_, err := svc.Quote(context.Background(), order.ID)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestBookShipmentRequiresListoEnvio(t *testing.T) {
	order := shippableOrder(enums.OrderStatusConfirmado)
	svc := newTestShippingService(t, &stubCarrier{}, newStubOrderStore(order))

	_, err := svc.BookShipment(context.Background(), order.ID, BookInput{ServiceID: 101})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestBookShipmentPersistsReferenceAndTransitions(t *testing.T) {
	order := shippableOrder(enums.OrderStatusListoEnvio)
	store := newStubOrderStore(order)
	c := &stubCarrier{shipment: &packlink.Shipment{
		Reference:   "ES-2026-000123",
		TrackingURL: "https://packlink.example/t/ES-2026-000123",
	}}
	svc := newTestShippingService(t, c, store)

	price := decimal.RequireFromString("8.955")
	updated, err := svc.BookShipment(context.Background(), order.ID, BookInput{ServiceID: 101, Price: &price})
	if err != nil {
		t.Fatalf("BookShipment: %v", err)
	}
	if updated.Status != enums.OrderStatusEnviado {
		t.Fatalf("expected enviado after booking, got %s", updated.Status)
	}
	if store.updates["packlink_shipment_id"] != "ES-2026-000123" {
		t.Fatalf("expected shipment reference persisted, got %v", store.updates)
	}
	if final, ok := store.updates["coste_envio_final"].(decimal.Decimal); !ok || !final.Equal(decimal.RequireFromString("8.96")) {
		t.Fatalf("expected final cost rounded to cents, got %v", store.updates["coste_envio_final"])
	}
	if c.shipmentReq.To.ZipCode != "48001" || c.shipmentReq.To.Company != "Norte SL" {
		t.Fatalf("unexpected recipient: %+v", c.shipmentReq.To)
	}
	if c.shipmentReq.ContentValue != 240.5 {
		t.Fatalf("expected declared value from frozen total, got %v", c.shipmentReq.ContentValue)
	}
}

func TestBookShipmentCarrierFailureLeavesOrderUntouched(t *testing.T) {
	order := shippableOrder(enums.OrderStatusListoEnvio)
	store := newStubOrderStore(order)
	c := &stubCarrier{shipmentErr: errors.New("carrier down")}
	svc := newTestShippingService(t, c, store)

	_, err := svc.BookShipment(context.Background(), order.ID, BookInput{ServiceID: 101})
	if err == nil {
		t.Fatal("expected booking failure")
	}
	if order.Status != enums.OrderStatusListoEnvio {
		t.Fatalf("order must stay in listo_envio, got %s", order.Status)
	}
	if store.updates != nil {
		t.Fatalf("no updates expected on failure, got %v", store.updates)
	}
}

func TestRefreshTrackingPersistsCarrierLink(t *testing.T) {
	order := shippableOrder(enums.OrderStatusEnviado)
	reference := "ES-2026-000123"
	order.ShipmentReference = &reference
	store := newStubOrderStore(order)
	c := &stubCarrier{status: &packlink.ShipmentStatus{
		Reference:          reference,
		State:              "DELIVERED",
		CarrierTrackingURL: "https://seur.example/t/ES-2026-000123",
	}}
	svc := newTestShippingService(t, c, store)

	info, err := svc.RefreshTracking(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("RefreshTracking: %v", err)
	}
	if c.statusRef != reference {
		t.Fatalf("expected lookup by shipment reference, got %q", c.statusRef)
	}
	if info.ShipmentStatus != "DELIVERED" {
		t.Fatalf("expected carrier state surfaced, got %+v", info)
	}
	if info.TrackingURL == nil || *info.TrackingURL != "https://seur.example/t/ES-2026-000123" {
		t.Fatalf("expected carrier tracking url, got %+v", info)
	}
	if store.updates["tracking_url"] != "https://seur.example/t/ES-2026-000123" {
		t.Fatalf("expected tracking url persisted, got %v", store.updates)
	}
}

func TestRefreshTrackingRequiresEnviado(t *testing.T) {
	order := shippableOrder(enums.OrderStatusListoEnvio)
	reference := "ES-2026-000123"
	order.ShipmentReference = &reference
	c := &stubCarrier{}
	svc := newTestShippingService(t, c, newStubOrderStore(order))

	_, err := svc.RefreshTracking(context.Background(), order.ID)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if c.statusRef != "" {
		t.Fatal("carrier must not be queried before the order ships")
	}
}

func TestRefreshTrackingWithoutShipmentReference(t *testing.T) {
	order := shippableOrder(enums.OrderStatusEnviado)
	svc := newTestShippingService(t, &stubCarrier{}, newStubOrderStore(order))

	_, err := svc.RefreshTracking(context.Background(), order.ID)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestHandleWebhookTransitionsOnShippedStates(t *testing.T) {
	order := shippableOrder(enums.OrderStatusListoEnvio)
	store := newStubOrderStore(order)
	store.byReference["ES-2026-000123"] = order
	svc := newTestShippingService(t, &stubCarrier{}, store)

	result, err := svc.HandleWebhook(context.Background(), []packlink.WebhookEvent{
		{Name: "shipment.carrier.tracking", Data: packlink.WebhookData{
			ShipmentReference: "ES-2026-000123",
			Status:            packlink.StatusInTransit,
			TrackingURL:       "https://packlink.example/t/ES-2026-000123",
		}},
	})
	if err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}
	if result.Processed != 1 || result.Skipped != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if order.Status != enums.OrderStatusEnviado {
		t.Fatalf("expected enviado after tracking event, got %s", order.Status)
	}
	if store.updates["tracking_url"] != "https://packlink.example/t/ES-2026-000123" {
		t.Fatalf("expected tracking url persisted, got %v", store.updates)
	}
}

func TestHandleWebhookSkipsUnknownReferences(t *testing.T) {
	svc := newTestShippingService(t, &stubCarrier{}, newStubOrderStore())

	result, err := svc.HandleWebhook(context.Background(), []packlink.WebhookEvent{
		{Data: packlink.WebhookData{ShipmentReference: "missing", Status: packlink.StatusDelivered}},
		{Data: packlink.WebhookData{ShipmentReference: "", Status: packlink.StatusDelivered}},
	})
	if err != nil {
		t.Fatalf("unknown references must not fail the batch, got %v", err)
	}
	if result.Processed != 0 || result.Skipped != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestHandleWebhookIgnoresNonShippedStates(t *testing.T) {
	order := shippableOrder(enums.OrderStatusListoEnvio)
	store := newStubOrderStore(order)
	store.byReference["ES-2026-000123"] = order
	svc := newTestShippingService(t, &stubCarrier{}, store)

	result, err := svc.HandleWebhook(context.Background(), []packlink.WebhookEvent{
		{Data: packlink.WebhookData{ShipmentReference: "ES-2026-000123", Status: "LABEL_CREATED"}},
	})
	if err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}
	if result.Processed != 1 {
		t.Fatalf("event should still count as processed, got %+v", result)
	}
	if order.Status != enums.OrderStatusListoEnvio {
		t.Fatalf("status must be unchanged, got %s", order.Status)
	}
	if len(store.transitions) != 0 {
		t.Fatalf("no transition expected, got %v", store.transitions)
	}
}

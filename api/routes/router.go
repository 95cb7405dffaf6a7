package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/firmarollers/b2b-backend/api/controllers"
	"github.com/firmarollers/b2b-backend/api/middleware"
	"github.com/firmarollers/b2b-backend/internal/catalog"
	customersvc "github.com/firmarollers/b2b-backend/internal/customers"
	emailsvc "github.com/firmarollers/b2b-backend/internal/emails"
	ordersvc "github.com/firmarollers/b2b-backend/internal/orders"
	shippingsvc "github.com/firmarollers/b2b-backend/internal/shipping"
	tariffsvc "github.com/firmarollers/b2b-backend/internal/tariffs"
	"github.com/firmarollers/b2b-backend/pkg/config"
	"github.com/firmarollers/b2b-backend/pkg/enums"
	"github.com/firmarollers/b2b-backend/pkg/logger"
	"github.com/firmarollers/b2b-backend/pkg/metrics"
	pkgredis "github.com/firmarollers/b2b-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	DB              controllers.Pinger
	Redis           *pkgredis.Client
	HTTPMetrics     *metrics.HTTPMetrics
	MetricsGatherer prometheus.Gatherer
	Catalog         catalog.Service
	Customers       customersvc.Service
	Tariffs         tariffsvc.Service
	Orders          ordersvc.Service
	Shipping        shippingsvc.Service
	Emails          emailsvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(deps.HTTPMetrics),
	)

	// interface nil checks downstream cannot see a typed-nil client
	pingers := map[string]controllers.Pinger{"database": deps.DB}
	var idemStore pkgredis.IdempotencyStore
	if deps.Redis != nil {
		pingers["redis"] = deps.Redis
		idemStore = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, pingers))
	})

	if deps.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsGatherer, promhttp.HandlerOpts{}))
	}

	// Carrier callbacks authenticate by shipment reference, not by token.
	r.Route("/api/v1/webhooks/packlink", func(r chi.Router) {
		r.Get("/", controllers.PacklinkWebhookProbe())
		r.Post("/", controllers.PacklinkWebhook(deps.Shipping, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/v1", func(r chi.Router) {
			r.Get("/products", controllers.ListProducts(deps.Catalog, deps.Customers, logg))

			// Back-office surface.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.UserRoleAdmin.String(), logg))
				r.Use(middleware.Idempotency(idemStore, logg))

				r.Route("/customers", func(r chi.Router) {
					r.Get("/", controllers.ListCustomers(deps.Customers, logg))
					r.Post("/", controllers.CreateCustomer(deps.Customers, logg))
					r.Get("/{customerID}", controllers.GetCustomer(deps.Customers, logg))
					r.Put("/{customerID}", controllers.UpdateCustomer(deps.Customers, logg))
					r.Delete("/{customerID}", controllers.DeactivateCustomer(deps.Customers, logg))
				})

				r.Route("/tarifas", func(r chi.Router) {
					r.Get("/", controllers.ListTarifas(deps.Tariffs, logg))
					r.Post("/", controllers.CreateTarifa(deps.Tariffs, logg))
					r.Get("/{tarifaID}", controllers.GetTarifa(deps.Tariffs, logg))
					r.Put("/{tarifaID}", controllers.UpdateTarifa(deps.Tariffs, logg))
					r.Put("/{tarifaID}/precios", controllers.ReplaceTarifaPrices(deps.Tariffs, logg))
				})

				r.Route("/orders", func(r chi.Router) {
					r.Get("/", controllers.ListOrders(deps.Orders, logg))
					r.Post("/", controllers.CreateOrder(deps.Orders, logg))
					r.Get("/{orderID}", controllers.GetOrder(deps.Orders, logg))
					r.Post("/{orderID}/status", controllers.ChangeOrderStatus(deps.Orders, logg))
					r.Post("/{orderID}/shipment", controllers.BookShipment(deps.Shipping, logg))
					r.Post("/{orderID}/tracking", controllers.RefreshOrderTracking(deps.Shipping, logg))
				})

				r.Post("/quotes", controllers.RequestShippingQuotes(deps.Shipping, logg))
				r.Get("/emails", controllers.ListEmailLogs(deps.Emails, logg))
			})

			// Customer portal surface.
			r.Route("/portal", func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.UserRoleCustomer.String(), logg))

				r.Get("/profile", controllers.PortalProfile(deps.Customers, logg))
				r.Get("/orders", controllers.PortalListOrders(deps.Orders, deps.Customers, logg))
				r.Get("/orders/{orderID}", controllers.PortalGetOrder(deps.Orders, deps.Customers, logg))
			})
		})
	})

	return r
}

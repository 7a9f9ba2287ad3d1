package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/retailops/arledger/api/controllers"
	"github.com/retailops/arledger/api/middleware"
	"github.com/retailops/arledger/internal/customers"
	"github.com/retailops/arledger/internal/items"
	"github.com/retailops/arledger/internal/ledger"
	"github.com/retailops/arledger/internal/orders"
	"github.com/retailops/arledger/internal/payments"
	"github.com/retailops/arledger/pkg/clock"
	"github.com/retailops/arledger/pkg/config"
	"github.com/retailops/arledger/pkg/logger"
	"github.com/retailops/arledger/pkg/metrics"
	"github.com/retailops/arledger/pkg/redis"
)

// NewRouter wires every HTTP endpoint. redisClient and registry may be
// nil; readiness then skips the cache check and /metrics is not mounted.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.DBPinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	clk clock.Clock,
	customerService customers.Service,
	itemService items.Service,
	orderService orders.Service,
	paymentService payments.Service,
	ledgerService ledger.Service,
) http.Handler {
	if clk == nil {
		clk = clock.System{}
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, httpMetrics),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/customers", func(r chi.Router) {
			r.Post("/", controllers.CustomerCreate(customerService, logg))
			r.Get("/", controllers.CustomerList(customerService, logg))
			r.Get("/{customerID}", controllers.CustomerGet(customerService, logg))
			r.Patch("/{customerID}", controllers.CustomerUpdate(customerService, logg))
			r.Delete("/{customerID}", controllers.CustomerDelete(customerService, logg))
			r.Get("/{customerID}/statement", controllers.CustomerStatement(ledgerService, logg))
		})

		r.Route("/items", func(r chi.Router) {
			r.Post("/", controllers.ItemCreate(itemService, logg))
			r.Get("/", controllers.ItemList(itemService, logg))
			r.Get("/top-selling", controllers.ItemsTopSelling(ledgerService, clk, logg))
			r.Get("/{itemID}", controllers.ItemGet(itemService, logg))
			r.Patch("/{itemID}", controllers.ItemUpdate(itemService, logg))
			r.Delete("/{itemID}", controllers.ItemDelete(itemService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderCreate(orderService, logg))
			r.Get("/", controllers.OrderList(orderService, logg))
			r.Get("/{orderID}", controllers.OrderGet(orderService, logg))
			r.Delete("/{orderID}", controllers.OrderDelete(orderService, logg))
			r.Get("/{orderID}/summary", controllers.OrderSummary(ledgerService, logg))
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/", controllers.PaymentCreate(paymentService, logg))
			r.Get("/", controllers.PaymentList(paymentService, logg))
			r.Get("/{paymentID}", controllers.PaymentGet(paymentService, logg))
			r.Delete("/{paymentID}", controllers.PaymentDelete(paymentService, logg))
		})

		r.Get("/dashboard", controllers.Dashboard(ledgerService, logg))
		r.Get("/reports/sales", controllers.SalesReport(ledgerService, clk, logg))
	})

	return r
}

package router

import (
	"net/http"

	"github.com/Harsh-n409/bhookie-pos-system/internal/config"
	"github.com/Harsh-n409/bhookie-pos-system/internal/database"
	"github.com/Harsh-n409/bhookie-pos-system/internal/draft"
	"github.com/Harsh-n409/bhookie-pos-system/internal/handler"
	mw "github.com/Harsh-n409/bhookie-pos-system/internal/middleware"
	"github.com/Harsh-n409/bhookie-pos-system/internal/service"
	"github.com/Harsh-n409/bhookie-pos-system/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// New creates a Chi router with all application routes wired up.
// Applies authentication and role-based middleware as needed.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool, hub *ws.Hub, drafts *draft.Registry, logger *zap.Logger) chi.Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Services
	customers := service.NewCustomerService(pool, pool, func(db database.DBTX) service.CustomerStore {
		return database.New(db)
	}, cfg.ShopLocation)
	cashiers := service.NewCashierService(queries, cfg.ShopLocation)
	inventory := service.NewInventoryService(queries)
	orders := service.NewOrderService(service.OrderServiceDeps{
		Pool: pool,
		DB:   pool,
		NewStore: func(db database.DBTX) service.OrderStore {
			return database.New(db)
		},
		Drafts:     drafts,
		Catalog:    service.NewCatalogService(queries),
		Parties:    customers,
		Sessions:   cashiers,
		Publisher:  hub,
		Logger:     logger.Named("orders"),
		Location:   cfg.ShopLocation,
		PendingTTL: cfg.PendingOrderTTL,
	})
	refunds := service.NewRefundService(pool, pool, func(db database.DBTX) service.RefundStore {
		return database.New(db)
	}, hub, logger.Named("refunds"))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret, logger)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/{topic}", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		authHandler.RegisterProtectedRoutes(r)

		draftHandler := handler.NewDraftHandler(orders, logger)
		r.Route("/drafts", draftHandler.RegisterRoutes)
		r.Route("/pending-orders", draftHandler.RegisterPendingRoutes)

		orderHandler := handler.NewOrderHandler(orders, refunds, logger)
		r.Route("/orders", orderHandler.RegisterRoutes)

		customerHandler := handler.NewCustomerHandler(customers, queries, logger)
		r.Route("/customers", customerHandler.RegisterRoutes)
		r.Route("/employees", customerHandler.RegisterEmployeeRoutes)

		cashierHandler := handler.NewCashierHandler(cashiers, logger)
		r.Route("/cashier", cashierHandler.RegisterRoutes)

		inventoryHandler := handler.NewInventoryHandler(inventory, logger)
		r.Route("/inventory", inventoryHandler.RegisterRoutes)
	})

	return r
}

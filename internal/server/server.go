package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bartolomema-prog/listasbebe/internal/backup"
	"github.com/bartolomema-prog/listasbebe/internal/config"
	"github.com/bartolomema-prog/listasbebe/internal/feed"
	"github.com/bartolomema-prog/listasbebe/internal/handler"
	"github.com/bartolomema-prog/listasbebe/internal/metrics"
	"github.com/bartolomema-prog/listasbebe/internal/middleware"
	"github.com/bartolomema-prog/listasbebe/internal/notify"
	"github.com/bartolomema-prog/listasbebe/internal/store"
	ws "github.com/bartolomema-prog/listasbebe/internal/websocket"
)

type Server struct {
	db  *sql.DB
	hub *ws.Hub

	authH    *handler.AuthHandler
	listH    *handler.ListHandler
	itemH    *handler.ItemHandler
	publicH  *handler.PublicHandler
	productH *handler.ProductHandler
	encargoH *handler.EncargoHandler
	entregaH *handler.EntregaHandler
	exportH  *handler.ExportHandler
	pushH    *handler.PushHandler
	backupH  *handler.BackupHandler
	wsH      *handler.WSHandler

	sessionStore  *store.SessionStore
	rateLimiter   *middleware.RateLimiter
	backupManager *backup.Manager
	logger        *slog.Logger
}

func New(db *sql.DB, cfg *config.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	// The broker fans item events out to in-process feed sessions; its sink
	// bridges the same events onto the WebSocket rooms.
	broker := feed.NewBroker(func(ev feed.Event) {
		metrics.BroadcastsTotal.Inc()
		hub.BroadcastEvent(ev)
	}, logger.With("component", "feed"))

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	listStore := store.NewListStore(db)
	itemStore := store.NewItemStore(db)
	productStore := store.NewProductStore(db)
	encargoStore := store.NewEncargoStore(db)
	entregaStore := store.NewEntregaStore(db)
	pushStore := store.NewPushStore(db)
	backupStore := store.NewBackupStore(db)

	var notifier *notify.Service
	if cfg.PushEnabled() {
		notifier = notify.NewService(
			cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey, cfg.VAPIDSubscriber,
			pushStore, logger.With("component", "push"),
		)
	}

	backupMgr := backup.NewManager(
		backup.Config{
			S3: backup.S3Config{
				Endpoint:  cfg.S3Endpoint,
				Bucket:    cfg.S3Bucket,
				Region:    cfg.S3Region,
				AccessKey: cfg.S3AccessKey,
				SecretKey: cfg.S3SecretKey,
			},
			DBPath:   cfg.DBPath,
			Interval: cfg.BackupInterval,
		},
		db, backupStore, logger.With("component", "backup"),
		func(s backup.Status) {
			hub.BroadcastAll(ws.Message{
				Type:   "backup_status",
				Entity: "backup",
				Action: string(s.State),
			})
		},
	)

	return &Server{
		db:            db,
		hub:           hub,
		authH:         handler.NewAuthHandler(userStore, sessionStore, logger.With("component", "auth")),
		listH:         handler.NewListHandler(listStore, itemStore, broker, logger.With("component", "list")),
		itemH:         handler.NewItemHandler(itemStore, listStore, productStore, broker, logger.With("component", "item")),
		publicH:       handler.NewPublicHandler(listStore, itemStore, broker, notifier, logger.With("component", "public")),
		productH:      handler.NewProductHandler(productStore, logger.With("component", "product")),
		encargoH:      handler.NewEncargoHandler(encargoStore, logger.With("component", "encargo")),
		entregaH:      handler.NewEntregaHandler(entregaStore, logger.With("component", "entrega")),
		exportH:       handler.NewExportHandler(listStore, itemStore, logger.With("component", "export")),
		pushH:         handler.NewPushHandler(pushStore, notifier, logger.With("component", "push_handler")),
		backupH:       handler.NewBackupHandler(backupMgr, backupStore, logger.With("component", "backup_handler")),
		wsH:           handler.NewWSHandler(hub, listStore, logger.With("component", "ws_handler")),
		sessionStore:  sessionStore,
		rateLimiter:   middleware.NewRateLimiter(),
		backupManager: backupMgr,
		logger:        logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// BackupManager returns the backup manager.
func (s *Server) BackupManager() *backup.Manager {
	return s.backupManager
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /api/auth/register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("POST /api/auth/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)
	outerMux.Handle("GET /metrics", promhttp.Handler())

	// Share-code access path
	outerMux.HandleFunc("GET /api/public/lists/{code}", s.publicH.GetList)
	outerMux.HandleFunc("GET /api/public/lists/{code}/items", s.publicH.GetItems)
	outerMux.HandleFunc("POST /api/public/lists/{code}/items/{id}/purchased", s.publicH.SetPurchased)
	outerMux.HandleFunc("POST /api/public/lists/{code}/items/{id}/reserved", s.publicH.SetReserved)
	outerMux.HandleFunc("GET /ws/public/{code}", s.wsH.PublicList)

	// Protected routes — wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore)
	outerMux.Handle("/api/", authMiddleware(protectedMux))
	outerMux.Handle("/ws/lists/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/logout", s.authH.Logout)
	mux.HandleFunc("GET /api/auth/me", s.authH.Me)

	// List API routes
	mux.HandleFunc("POST /api/lists", s.listH.Create)
	mux.HandleFunc("GET /api/lists", s.listH.List)
	mux.HandleFunc("GET /api/lists/{id}", s.listH.Get)
	mux.HandleFunc("PUT /api/lists/{id}", s.listH.Update)
	mux.HandleFunc("POST /api/lists/{id}/archive", s.listH.SetArchived)
	mux.HandleFunc("DELETE /api/lists/{id}", s.listH.Delete)
	mux.HandleFunc("GET /api/lists/{id}/totals", s.listH.Totals)

	// Item API routes
	mux.HandleFunc("GET /api/lists/{id}/items", s.itemH.ListItems)
	mux.HandleFunc("POST /api/lists/{id}/items", s.itemH.CreateItem)
	mux.HandleFunc("POST /api/lists/{id}/items/bulk-purchased", s.itemH.BulkSetPurchased)
	mux.HandleFunc("PUT /api/items/{id}", s.itemH.UpdateItem)
	mux.HandleFunc("DELETE /api/items/{id}", s.itemH.DeleteItem)
	mux.HandleFunc("POST /api/items/{id}/purchased", s.itemH.SetPurchased)
	mux.HandleFunc("POST /api/items/{id}/reserved", s.itemH.SetReserved)
	mux.HandleFunc("POST /api/items/{id}/color", s.itemH.CycleColor)

	// Saved product API routes
	mux.HandleFunc("GET /api/products", s.productH.List)
	mux.HandleFunc("GET /api/products/suggest", s.productH.Suggest)
	mux.HandleFunc("POST /api/products", s.productH.Save)
	mux.HandleFunc("DELETE /api/products/{id}", s.productH.Delete)

	// Encargo API routes
	mux.HandleFunc("POST /api/encargos", s.encargoH.Create)
	mux.HandleFunc("GET /api/encargos", s.encargoH.List)
	mux.HandleFunc("PUT /api/encargos/{id}", s.encargoH.Update)
	mux.HandleFunc("DELETE /api/encargos/{id}", s.encargoH.Delete)

	// Entrega API routes
	mux.HandleFunc("POST /api/entregas", s.entregaH.Create)
	mux.HandleFunc("GET /api/entregas", s.entregaH.List)
	mux.HandleFunc("PUT /api/entregas/{id}", s.entregaH.Update)
	mux.HandleFunc("DELETE /api/entregas/{id}", s.entregaH.Delete)
	mux.HandleFunc("POST /api/entregas/{id}/payments", s.entregaH.AddPayment)
	mux.HandleFunc("DELETE /api/entregas/{id}/payments/{payment_id}", s.entregaH.DeletePayment)

	// Export
	mux.HandleFunc("GET /api/export/csv", s.exportH.CSV)

	// Push notification API routes
	mux.HandleFunc("GET /api/push/vapid-key", s.pushH.VAPIDKey)
	mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
	mux.HandleFunc("GET /api/push/subscriptions", s.pushH.List)
	mux.HandleFunc("DELETE /api/push/subscriptions/{id}", s.pushH.Unsubscribe)

	// Backup API routes
	mux.HandleFunc("GET /api/backup/status", s.backupH.Status)
	mux.HandleFunc("GET /api/backup/records", s.backupH.List)
	mux.HandleFunc("POST /api/backup/run", s.backupH.RunNow)

	// Owner real-time feed
	mux.HandleFunc("GET /ws/lists/{id}", s.wsH.OwnerList)
}

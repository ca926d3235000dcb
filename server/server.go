package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pantryshop/storefront/config"
	"github.com/pantryshop/storefront/constants"
	"github.com/pantryshop/storefront/event"
	"github.com/pantryshop/storefront/gateway"
	"github.com/pantryshop/storefront/storage"
	"github.com/pantryshop/storefront/telemetry"
	"github.com/pantryshop/storefront/utils"
)

// App is the storefront API. It serves requests both as a plain
// http.Handler and as a gateway.AsyncHandler.
type App struct {
	cfg     *config.Config
	store   storage.Storage
	bus     event.EventBus
	router  *mux.Router
	handler http.Handler
	async   gateway.AsyncHandler

	shutdownTracing func(context.Context) error
}

var (
	_ http.Handler         = (*App)(nil)
	_ gateway.AsyncHandler = (*App)(nil)
)

// Option overrides a dependency New would otherwise build from config.
type Option func(*App)

func WithStorage(s storage.Storage) Option {
	return func(a *App) {
		a.store = s
	}
}

func WithEventBus(b event.EventBus) Option {
	return func(a *App) {
		a.bus = b
	}
}

// Load reads configuration from configPath and the environment and builds
// the App. Missing database settings surface as *config.MissingError.
func Load(ctx context.Context, configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return New(ctx, cfg)
}

// New builds the App from cfg, connecting storage and the event bus unless
// supplied through options.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, errors.New("server: nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Log.Level != "" {
		if err := utils.SetLevel(cfg.Log.Level); err != nil {
			utils.Warn("%v, keeping level %s", err, utils.Level())
		}
	}

	a := &App{cfg: cfg}
	for _, opt := range opts {
		opt(a)
	}

	if a.store == nil {
		store, err := storage.NewStorageFromURL(ctx, cfg.MongoURL, cfg.DBName)
		if err != nil {
			return nil, utils.Errorf("failed to initialize storage: %w", err)
		}
		a.store = store
	}
	if a.bus == nil {
		bus, err := event.NewEventBusFromConfig(&cfg.Event)
		if err != nil {
			_ = a.store.Close(ctx)
			return nil, utils.Errorf("failed to initialize event bus: %w", err)
		}
		a.bus = bus
	}

	shutdown, err := telemetry.Init(ctx, cfg)
	if err != nil {
		utils.Warn("tracing disabled: %v", err)
	}
	a.shutdownTracing = shutdown

	a.router = a.routes()
	a.handler = chain(a.router,
		telemetryMiddleware,
		requestIDMiddleware,
		corsMiddleware(cfg.CORSOrigins),
	)
	a.async = gateway.Async(a.handler)

	utils.Info("storefront api ready (db=%s, events=%s)", cfg.DBName, cfg.Event.Driver)
	return a, nil
}

func (a *App) routes() *mux.Router {
	r := mux.NewRouter()
	r.Handle(constants.RouteMetrics, telemetry.MetricsHandler()).Methods(http.MethodGet)

	api := r.PathPrefix(constants.APIPrefix).Subrouter()
	api.HandleFunc(constants.RouteRoot, a.rootHandler).Methods(http.MethodGet)
	api.HandleFunc(constants.RouteStatus, a.createStatusCheckHandler).Methods(http.MethodPost)
	api.HandleFunc(constants.RouteStatus, a.listStatusChecksHandler).Methods(http.MethodGet)
	api.HandleFunc(constants.RouteHealthz, a.healthHandler).Methods(http.MethodGet)
	return r
}

func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

func (a *App) ServeAsync(ctx context.Context, r *http.Request) <-chan *gateway.Reply {
	return a.async.ServeAsync(ctx, r)
}

// Config returns the configuration the App was built with.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Close releases the event bus and storage and flushes pending spans.
func (a *App) Close(ctx context.Context) error {
	return errors.Join(a.bus.Close(), a.store.Close(ctx), a.shutdownTracing(ctx))
}

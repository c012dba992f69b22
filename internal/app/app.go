package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/santhosharam/kottravai-backend/internal/config"
	appmiddleware "github.com/santhosharam/kottravai-backend/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type application struct {
	logger *slog.Logger

	api     chi.Router
	httpSrv *http.Server
	workers []Worker
	closers []io.Closer
	drain   func()
}

func New(logger *slog.Logger, cfg config.Config, verifier appmiddleware.Verifier) *application {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(appmiddleware.Logger(logger))
	router.Use(appmiddleware.Metrics)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Cors.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", appmiddleware.AdminSecretHeader},
	}))

	router.Handle("/metrics", promhttp.Handler())
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	var api chi.Router
	router.Route("/api", func(r chi.Router) {
		r.Use(appmiddleware.Authenticate(logger, verifier))
		api = r
	})

	httpSrv := &http.Server{
		Handler: router,
		Addr:    net.JoinHostPort(cfg.Http.Host, cfg.Http.Port),
	}

	return &application{
		logger:  logger,
		httpSrv: httpSrv,
		api:     api,
	}
}

type HTTPHandler interface {
	Init(r chi.Router)
}

// SetHTTPHandlers mounts handlers under the /api prefix.
func (a *application) SetHTTPHandlers(handlers ...HTTPHandler) {
	for _, h := range handlers {
		h.Init(a.api)
	}
}

type Worker interface {
	Run(ctx context.Context)
}

func (a *application) SetWorkers(workers ...Worker) {
	a.workers = workers
}

func (a *application) SetClosers(closers ...io.Closer) {
	a.closers = closers
}

// SetDrain registers a hook that blocks until in-flight background
// work (order fan-out) has finished. Called during Stop before the
// http server shuts down connections.
func (a *application) SetDrain(drain func()) {
	a.drain = drain
}

func (a *application) Start(ctx context.Context) {
	for _, w := range a.workers {
		go w.Run(ctx)
	}

	go a.startServer()

	a.logger.Info("application started")
}

func (a *application) startServer() {
	a.logger.Info("starting http server", slog.String("addr", a.httpSrv.Addr))
	if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.logger.Error("failed to start http server", slog.Any("error", err))
		os.Exit(1)
	}
}

const gracefulShutdownTimeout = 10 * time.Second

func (a *application) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	if err := a.httpSrv.Shutdown(ctx); err != nil {
		a.logger.Error("failed to shutdown http server", slog.Any("error", err))
	}

	if a.drain != nil {
		a.drain()
	}

	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Error("failed to close resource", slog.Any("error", err))
		}
	}

	a.logger.Info("application stopped")
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/feedbackmail/handler"
	"github.com/dmitrymomot/feedbackmail/modules"
	"github.com/dmitrymomot/feedbackmail/modules/dispatch"
	"github.com/dmitrymomot/feedbackmail/modules/feedback"
	"github.com/dmitrymomot/feedbackmail/pkg/config"
	"github.com/dmitrymomot/feedbackmail/pkg/email"
	"github.com/dmitrymomot/feedbackmail/pkg/email/templates"
	"github.com/dmitrymomot/feedbackmail/pkg/environment"
	"github.com/dmitrymomot/feedbackmail/pkg/httpserver"
	"github.com/dmitrymomot/feedbackmail/pkg/logger"
	"github.com/dmitrymomot/feedbackmail/pkg/mongo"
	"github.com/dmitrymomot/feedbackmail/pkg/ratelimiter"
)

type appConfig struct {
	Env       environment.Environment `env:"APP_ENV" envDefault:"development"`
	Service   string                  `env:"SERVICE_NAME" envDefault:"feedbackmail"`
	HTTP      httpserver.Config
	Mongo     mongo.Config
	Templates templates.Config
	Email     email.VendorsConfig
	Feedback  feedback.Config
	RateLimit ratelimiter.Config
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(
		logger.WithEnvironment(cfg.Env, cfg.Service),
		logger.WithContextExtractors(requestID),
	)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	renderer := templates.New(os.DirFS(cfg.Templates.Dir), templates.WithCache(cfg.Templates.Cache))

	registry := email.NewRegistry(renderer)
	email.RegisterBuiltins(registry)
	vendors, err := cfg.Email.Configs()
	if err != nil {
		return err
	}
	registry.Configure(vendors)
	if !registry.Configured(cfg.Feedback.Vendor) {
		log.Warn("feedback notification vendor is not configured, notifications will fail",
			logger.Vendor(cfg.Feedback.Vendor),
		)
	}
	mailer := email.NewService(registry, email.WithLogger(log))

	storage, checks, closeStorage, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStorage()

	feedbackSvc := feedback.NewService(storage, mailer, cfg.Feedback, feedback.WithLogger(log))
	errs := handler.NewErrorHandler(log, feedback.ErrorMapper, dispatch.ErrorMapper)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = handler.Fail(http.StatusNotFound, "not_found", "Route not found").Render(w, r)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = handler.Fail(http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed").Render(w, r)
	})

	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(log, checks...))
	var api http.Handler = modules.Router(modules.RouterOptions{
		Feedback: feedback.NewHTTPHandler(feedbackSvc, errs),
		Email:    dispatch.NewHandler(mailer, registry, errs),
	})
	if cfg.RateLimit.Enabled {
		store := ratelimiter.NewMemoryStore()
		defer store.Close()

		limiter, err := ratelimiter.NewBucket(store, cfg.RateLimit)
		if err != nil {
			return err
		}
		api = ratelimiter.Middleware(limiter, ratelimiter.ByIP, log)(api)
	}
	r.Mount("/api", api)

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
	return srv.Run(ctx, r)
}

// openStorage connects to MongoDB when configured and falls back to memory.
func openStorage(ctx context.Context, cfg appConfig, log *slog.Logger) (feedback.Storage, []httpserver.Check, func(), error) {
	if !cfg.Mongo.Enabled() {
		log.Warn("MONGODB_URL is empty, feedback is kept in memory")
		return feedback.NewMemoryStorage(), nil, func() {}, nil
	}

	db, err := mongo.NewWithDatabase(ctx, cfg.Mongo)
	if err != nil {
		return nil, nil, nil, err
	}
	client := db.Client()
	closeFn := func() {
		if err := client.Disconnect(context.WithoutCancel(ctx)); err != nil {
			log.Error("failed to disconnect from mongodb", logger.Error(err))
		}
	}

	storage := feedback.NewMongoStorage(db, cfg.Feedback.Collection)
	if err := storage.EnsureIndexes(ctx); err != nil {
		closeFn()
		return nil, nil, nil, errors.Join(errors.New("prepare feedback collection"), err)
	}

	checks := []httpserver.Check{{Name: "mongodb", Fn: mongo.Healthcheck(client)}}
	return storage, checks, closeFn, nil
}

func requestID(ctx context.Context) (slog.Attr, bool) {
	id := middleware.GetReqID(ctx)
	if id == "" {
		return slog.Attr{}, false
	}
	return logger.RequestID(id), true
}

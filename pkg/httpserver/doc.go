// Package httpserver wraps net/http with timeouts, graceful shutdown and
// health probe handlers.
//
// Run blocks until its context is cancelled, then calls http.Server.Shutdown
// with the configured deadline. Signal handling belongs to the caller:
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server failed", logger.Error(err))
//	}
//
// LivenessHandler and ReadinessHandler answer health probes with a small JSON
// document; readiness runs each named Check against the request context.
package httpserver

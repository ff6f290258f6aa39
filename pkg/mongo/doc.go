// Package mongo connects to MongoDB using environment-driven settings.
//
// New applies pool and retry options from Config, pings the server and
// retries failed attempts with a fixed interval. Healthcheck wraps Ping for
// readiness probes.
//
//	var cfg mongo.Config
//	config.MustLoad(&cfg)
//	if cfg.Enabled() {
//		db, err := mongo.NewWithDatabase(ctx, cfg)
//		// ...
//	}
package mongo

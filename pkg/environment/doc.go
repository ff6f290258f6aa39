// Package environment defines the deployment environments the service knows
// about (development, staging, production).
//
// The same enumeration is used to pick logger defaults at startup and to
// validate the optional environment reported by feedback submissions.
//
//	env, _ := environment.Parse(os.Getenv("APP_ENV"))
//	log := logger.New(logger.WithEnvironment(env, "feedbackmail"))
package environment

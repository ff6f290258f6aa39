// Package config loads application configuration from the environment and
// from JSON/YAML files.
//
// Load reads the default `.env` file once (via github.com/joho/godotenv) and
// parses the environment into a struct annotated with
// github.com/caarlos0/env/v11 tags. There is no process-wide cache: the bootstrap
// code loads each configuration struct once and hands it to the components
// that need it.
//
// LoadFile decodes structured files, used for credential sets that are
// awkward to express as flat variables (for example several email vendors).
//
// # Usage
//
//	type AppConfig struct {
//		Env  string `env:"APP_ENV" envDefault:"development"`
//		Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	var cfg AppConfig
//	config.MustLoad(&cfg)
//
//	var vendors email.VendorsConfig
//	if err := config.LoadFile("vendors.yaml", &vendors); err != nil {
//		// Handle error
//	}
package config

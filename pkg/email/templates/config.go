package templates

// Config holds template loading settings.
type Config struct {
	Dir   string `env:"TEMPLATES_DIR" envDefault:"templates"`
	Cache bool   `env:"TEMPLATES_CACHE" envDefault:"true"`
}

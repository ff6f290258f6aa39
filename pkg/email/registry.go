package email

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Registry maps vendor identifiers to constructors and settings.
// Identifiers are case-insensitive. Register and SetConfig are meant for
// startup; reads afterwards are safe from any goroutine.
type Registry struct {
	renderer     Renderer
	constructors map[string]Constructor
	configs      map[string]ProviderConfig
}

// NewRegistry returns a registry with the resend and smtp vendors registered.
func NewRegistry(renderer Renderer) *Registry {
	r := &Registry{
		renderer:     renderer,
		constructors: make(map[string]Constructor),
		configs:      make(map[string]ProviderConfig),
	}
	r.Register(VendorResend, NewResendProvider)
	r.Register(VendorSMTP, NewSMTPProvider)
	return r
}

func normalize(vendor string) string {
	return strings.ToLower(strings.TrimSpace(vendor))
}

// Register adds or replaces the constructor for vendor.
func (r *Registry) Register(vendor string, c Constructor) {
	if c == nil {
		panic(fmt.Sprintf("email: nil constructor for vendor %q", vendor))
	}
	r.constructors[normalize(vendor)] = c
}

// SetConfig stores the settings used when creating vendor providers.
func (r *Registry) SetConfig(vendor string, cfg ProviderConfig) {
	r.configs[normalize(vendor)] = maps.Clone(cfg)
}

// Configure calls SetConfig for every entry.
func (r *Registry) Configure(cfgs map[string]ProviderConfig) {
	for vendor, cfg := range cfgs {
		r.SetConfig(vendor, cfg)
	}
}

// Supports reports whether vendor has a registered constructor.
func (r *Registry) Supports(vendor string) bool {
	_, ok := r.constructors[normalize(vendor)]
	return ok
}

// Configured reports whether vendor has settings.
func (r *Registry) Configured(vendor string) bool {
	_, ok := r.configs[normalize(vendor)]
	return ok
}

// Vendors lists registered identifiers in sorted order.
func (r *Registry) Vendors() []string {
	return slices.Sorted(maps.Keys(r.constructors))
}

// Create builds a new provider instance for vendor.
func (r *Registry) Create(vendor string) (Provider, error) {
	id := normalize(vendor)

	construct, ok := r.constructors[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVendor, vendor)
	}
	cfg, ok := r.configs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingConfiguration, vendor)
	}

	p, err := construct(maps.Clone(cfg), r.renderer)
	if err != nil {
		return nil, err
	}
	return p, nil
}

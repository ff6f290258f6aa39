package templates

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"io"
	"io/fs"
	"maps"
	"path"
	"strings"
	"sync"
	texttemplate "text/template"

	"github.com/yuin/goldmark"
	"golang.org/x/sync/singleflight"
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithCache toggles the compiled template cache. Enabled by default.
func WithCache(enabled bool) Option {
	return func(r *Renderer) { r.cache = enabled }
}

// WithFuncs adds helpers on top of the defaults. Same-named helpers override.
func WithFuncs(funcs map[string]any) Option {
	return func(r *Renderer) { maps.Copy(r.funcs, funcs) }
}

// Renderer loads templates from a filesystem, executes them with named
// variables and returns HTML. Files ending in .md are executed as text
// templates and then converted from markdown.
type Renderer struct {
	fs    fs.FS
	md    goldmark.Markdown
	funcs map[string]any
	cache bool

	mu        sync.RWMutex
	compiled  map[string]*compiled
	loadGroup singleflight.Group
}

type compiled struct {
	exec     func(w io.Writer, data any) error
	markdown bool
}

// New creates a renderer reading templates from fsys.
func New(fsys fs.FS, opts ...Option) *Renderer {
	r := &Renderer{
		fs:       fsys,
		md:       goldmark.New(),
		funcs:    Funcs(),
		cache:    true,
		compiled: make(map[string]*compiled),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render executes the template at ref with data.
// ref is a slash separated path relative to the renderer filesystem root.
func (r *Renderer) Render(ref string, data any) (string, error) {
	name, err := cleanRef(ref)
	if err != nil {
		return "", err
	}

	tmpl, err := r.lookup(name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.exec(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrRenderFailed, name, err)
	}

	if !tmpl.markdown {
		return buf.String(), nil
	}

	var out bytes.Buffer
	if err := r.md.Convert(buf.Bytes(), &out); err != nil {
		return "", fmt.Errorf("%w: %s: convert markdown: %v", ErrRenderFailed, name, err)
	}
	return out.String(), nil
}

// Cached reports how many compiled templates are held.
func (r *Renderer) Cached() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.compiled)
}

func (r *Renderer) lookup(name string) (*compiled, error) {
	if !r.cache {
		return r.load(name)
	}

	r.mu.RLock()
	tmpl, ok := r.compiled[name]
	r.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	// Concurrent first renders of one path share a single read and parse.
	v, err, _ := r.loadGroup.Do(name, func() (any, error) {
		tmpl, err := r.load(name)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.compiled[name] = tmpl
		r.mu.Unlock()
		return tmpl, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*compiled), nil
}

func (r *Renderer) load(name string) (*compiled, error) {
	content, err := fs.ReadFile(r.fs, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, name, err)
	}

	if strings.EqualFold(path.Ext(name), ".md") {
		t, err := texttemplate.New(name).Funcs(r.funcs).Parse(string(content))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, name, err)
		}
		return &compiled{exec: t.Execute, markdown: true}, nil
	}

	t, err := htmltemplate.New(name).Funcs(r.funcs).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, name, err)
	}
	return &compiled{exec: t.Execute}, nil
}

func cleanRef(ref string) (string, error) {
	name := strings.TrimSpace(ref)
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	if name == "" || name == "." || !fs.ValidPath(name) {
		return "", fmt.Errorf("%w: invalid reference %q", ErrTemplateNotFound, ref)
	}
	return name, nil
}

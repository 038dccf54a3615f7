// Package engine renders named Handlebars templates from a directory or an
// fs.FS, compiling each template once and registering partials found under
// a partials directory.
package engine

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"reflect"
	"strings"
	"sync"

	handlebars "github.com/goliatone/go-handlebars"
	"github.com/goliatone/go-handlebars/pkg/access"
	"github.com/goliatone/go-handlebars/pkg/runtime"
)

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	baseDir     string
	templates   fs.FS
	extension   string
	helpers     map[string]any
	globalData  map[string]any
	partialsDir string
	compile     runtime.CompileOptions
	access      access.Config
}

// WithBaseDir loads templates from a directory on disk.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from an fs.FS.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension overrides the template extension, ".hbs" by default.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// WithHelpers registers helpers when the engine loads.
func WithHelpers(helpers map[string]any) Option {
	return func(cfg *config) {
		if len(helpers) == 0 {
			return
		}
		if cfg.helpers == nil {
			cfg.helpers = make(map[string]any, len(helpers))
		}
		for name, fn := range helpers {
			cfg.helpers[strings.TrimSpace(name)] = fn
		}
	}
}

// WithGlobalData seeds private data available to every template as @name.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[strings.TrimSpace(key)] = value
		}
	}
}

// WithPartialsDir registers every template under dir as a partial named by
// its path relative to dir, without the extension.
func WithPartialsDir(dir string) Option {
	return func(cfg *config) {
		cfg.partialsDir = strings.Trim(strings.TrimSpace(dir), "/")
	}
}

// WithCompileOptions sets the options every template is compiled with.
func WithCompileOptions(opts runtime.CompileOptions) Option {
	return func(cfg *config) {
		cfg.compile = opts
	}
}

// WithAccess sets the inherited-member policy used for every render.
func WithAccess(cfg access.Config) Option {
	return func(c *config) {
		c.access = cfg
	}
}

// Engine satisfies TemplateRenderer with a Handlebars instance of its own.
type Engine struct {
	mu sync.RWMutex

	hb        *handlebars.Handlebars
	sources   []fs.FS
	templates map[string]*handlebars.Template
	tplExt    string
	compile   runtime.CompileOptions
	access    access.Config
	globals   map[string]any
}

// Ensure Engine implements the TemplateRenderer interface.
var _ TemplateRenderer = (*Engine)(nil)

// New constructs an Engine using the provided configuration options.
func New(options ...Option) (*Engine, error) {
	cfg := &config{
		extension: ".hbs",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	if cfg.baseDir == "" && cfg.templates == nil {
		return nil, errors.New("engine: need to provide either base dir or fs.FS")
	}

	var sources []fs.FS
	if cfg.baseDir != "" {
		info, err := os.Stat(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("engine: base dir: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("engine: base dir %q is not a directory", cfg.baseDir)
		}
		sources = append(sources, os.DirFS(cfg.baseDir))
	}
	if cfg.templates != nil {
		sources = append(sources, cfg.templates)
	}

	hb, err := handlebars.New()
	if err != nil {
		return nil, fmt.Errorf("engine: create instance: %w", err)
	}
	engine := &Engine{
		hb:        hb,
		sources:   sources,
		templates: make(map[string]*handlebars.Template),
		tplExt:    cfg.extension,
		compile:   cfg.compile,
		access:    cfg.access,
		globals:   make(map[string]any),
	}
	registerDefaultFilters(engine)

	if err := engine.GlobalContext(cfg.globalData); err != nil {
		return nil, fmt.Errorf("engine: apply global data: %w", err)
	}
	for name, fn := range cfg.helpers {
		if err := hb.RegisterHelper(name, fn); err != nil {
			return nil, fmt.Errorf("engine: register helper %q: %w", name, err)
		}
	}
	if cfg.partialsDir != "" {
		if err := engine.loadPartials(cfg.partialsDir); err != nil {
			return nil, err
		}
	}

	return engine, nil
}

// Handlebars exposes the engine's instance for registering partials or
// decorators directly.
func (e *Engine) Handlebars() *handlebars.Handlebars {
	return e.hb
}

// Render renders a named template, or name itself when it looks like
// template source.
func (e *Engine) Render(name string, data any, out ...io.Writer) (string, error) {
	if isTemplateContent(name) {
		return e.RenderString(name, data, out...)
	}
	return e.RenderTemplate(name, data, out...)
}

// RenderTemplate renders the template stored at name plus the extension.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.hb == nil {
		return "", errors.New("engine: engine is nil")
	}
	templatePath := name
	if !strings.HasSuffix(templatePath, e.tplExt) {
		templatePath += e.tplExt
	}

	tmpl, err := e.getTemplate(templatePath)
	if err != nil {
		return "", err
	}
	rendered, err := tmpl.Render(data, e.runtimeOptions())
	if err != nil {
		return "", fmt.Errorf("engine: execute template %q: %w", templatePath, err)
	}
	return rendered, write(rendered, out)
}

// RenderString compiles and renders templateContent without caching it.
func (e *Engine) RenderString(templateContent string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.hb == nil {
		return "", errors.New("engine: engine is nil")
	}

	tmpl, err := e.hb.Compile(templateContent, e.compile)
	if err != nil {
		return "", fmt.Errorf("engine: parse template string: %w", err)
	}
	rendered, err := tmpl.Render(data, e.runtimeOptions())
	if err != nil {
		return "", fmt.Errorf("engine: execute template string: %w", err)
	}
	return rendered, write(rendered, out)
}

// RegisterFilter exposes fn as a helper called with the value and an
// optional parameter: `{{name value param}}`.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	if strings.TrimSpace(name) == "" || fn == nil {
		return errors.New("engine: filter name and function required")
	}
	if e.hb.IsHelper(name) {
		return fmt.Errorf("engine: filter %q already exists", name)
	}

	filter := runtime.HelperFunc(func(args []any, _ *runtime.Options) (any, error) {
		var input, param any
		if len(args) > 0 {
			input = args[0]
		}
		if len(args) > 1 {
			param = args[1]
		}
		return fn(input, param)
	})
	return e.hb.RegisterHelper(name, filter)
}

// GlobalContext merges the own members of data into the private data every
// render starts with.
func (e *Engine) GlobalContext(data any) error {
	if e == nil || e.hb == nil {
		return errors.New("engine: engine is nil")
	}
	if data == nil {
		return nil
	}

	if !isRecord(data) {
		return fmt.Errorf("engine: global context must be a map or struct, got %T", data)
	}
	values := access.OwnProperties(data)

	e.mu.Lock()
	defer e.mu.Unlock()
	for key, value := range values {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		e.globals[key] = value
	}
	return nil
}

func (e *Engine) runtimeOptions() runtime.RuntimeOptions {
	e.mu.RLock()
	defer e.mu.RUnlock()

	data := make(map[string]any, len(e.globals))
	for key, value := range e.globals {
		data[key] = value
	}
	return runtime.RuntimeOptions{Data: data, Config: e.access}
}

func (e *Engine) getTemplate(path string) (*handlebars.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.templates[path]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}

	source, err := e.readFile(path)
	if err != nil {
		return nil, fmt.Errorf("engine: load template %q: %w", path, err)
	}
	tmpl, err := e.hb.CompileNamed(path, source, e.compile)
	if err != nil {
		return nil, fmt.Errorf("engine: compile template %q: %w", path, err)
	}
	if _, err := tmpl.Program(); err != nil {
		return nil, fmt.Errorf("engine: parse template %q: %w", path, err)
	}

	e.templates[path] = tmpl
	return tmpl, nil
}

func (e *Engine) readFile(name string) (string, error) {
	var lastErr error = fs.ErrNotExist
	for _, source := range e.sources {
		data, err := fs.ReadFile(source, name)
		if err == nil {
			return string(data), nil
		}
		lastErr = err
	}
	return "", lastErr
}

func (e *Engine) loadPartials(dir string) error {
	for _, source := range e.sources {
		err := fs.WalkDir(source, dir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || path.Ext(p) != e.tplExt {
				return nil
			}
			data, err := fs.ReadFile(source, p)
			if err != nil {
				return err
			}
			name := strings.TrimSuffix(strings.TrimPrefix(p, dir+"/"), e.tplExt)
			if e.hasPartial(name) {
				return nil
			}
			tmpl, err := e.hb.CompileNamed(p, string(data), e.compile)
			if err != nil {
				return err
			}
			return e.hb.RegisterPartial(name, tmpl)
		})
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("engine: load partials from %q: %w", dir, err)
		}
	}
	return nil
}

func (e *Engine) hasPartial(name string) bool {
	for _, registered := range e.hb.Partials() {
		if registered == name {
			return true
		}
	}
	return false
}

func write(rendered string, out []io.Writer) error {
	for _, w := range out {
		if w == nil {
			continue
		}
		if _, err := io.WriteString(w, rendered); err != nil {
			return err
		}
	}
	return nil
}

func isRecord(v any) bool {
	rv := reflect.Indirect(reflect.ValueOf(v))
	return rv.Kind() == reflect.Map || rv.Kind() == reflect.Struct
}

func isTemplateContent(s string) bool {
	return strings.Contains(s, "{{")
}

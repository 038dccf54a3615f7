// Command hbs renders a Handlebars template file against a JSON, YAML or
// TOML data file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	handlebars "github.com/goliatone/go-handlebars"
	"github.com/goliatone/go-handlebars/pkg/config"
	"github.com/goliatone/go-handlebars/pkg/engine"
	"github.com/goliatone/go-handlebars/pkg/precompile"
)

var logger = commonlog.GetLogger("hbs")

type options struct {
	template    string
	data        string
	options     string
	partials    string
	extension   string
	output      string
	precompile  bool
	spec        string
	interactive bool
	verbosity   int
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		log.Fatalf("hbs: %v", err)
	}
	commonlog.Configure(opts.verbosity, nil)

	var prompter Prompter
	if opts.interactive {
		prompter = surveyPrompter{}
	}
	if err := run(context.Background(), opts, prompter, os.Stdout); err != nil {
		log.Fatalf("hbs: %v", err)
	}
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("hbs", flag.ContinueOnError)
	fs.StringVar(&opts.template, "template", "", "template file to render")
	fs.StringVar(&opts.data, "data", "", "data file (.json, .yaml, .yml or .toml)")
	fs.StringVar(&opts.options, "options", "", "compile and runtime options file")
	fs.StringVar(&opts.partials, "partials", "", "directory of partial templates")
	fs.StringVar(&opts.extension, "ext", ".hbs", "partial template extension")
	fs.StringVar(&opts.output, "output", "", "output file (stdout if empty)")
	fs.BoolVar(&opts.precompile, "precompile", false, "write a precompiled spec instead of rendering")
	fs.StringVar(&opts.spec, "spec", "", "render a precompiled spec instead of a template")
	fs.BoolVar(&opts.interactive, "interactive", false, "prompt for missing inputs")
	fs.IntVar(&opts.verbosity, "v", 0, "log verbosity")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.precompile && opts.spec != "" {
		return options{}, errors.New("-precompile and -spec are mutually exclusive")
	}
	return opts, nil
}

func run(ctx context.Context, opts options, prompter Prompter, stdout io.Writer) error {
	if prompter != nil {
		if err := ask(ctx, &opts, prompter); err != nil {
			return err
		}
	}
	if opts.template == "" && opts.spec == "" {
		return errors.New("either -template or -spec is required")
	}

	settings, err := loadSettings(opts.options)
	if err != nil {
		return err
	}

	hb, err := newInstance(opts, settings)
	if err != nil {
		return err
	}

	if opts.precompile {
		return writePrecompiled(hb, opts, settings, stdout)
	}

	tmpl, err := loadTemplate(hb, opts, settings)
	if err != nil {
		return err
	}

	var data any
	if opts.data != "" {
		data, err = config.LoadData(opts.data)
		if err != nil {
			return err
		}
	}

	logger.Infof("rendering %s", firstNonEmpty(opts.template, opts.spec))
	out, err := tmpl.Render(data, settings.Runtime)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return emit(opts.output, []byte(out), stdout)
}

func ask(ctx context.Context, opts *options, prompter Prompter) error {
	if opts.template == "" && opts.spec == "" {
		path, err := prompter.Input(ctx, InputConfig{
			Message:   "Template file",
			Help:      "Path to the Handlebars template to render",
			Validator: fileExists,
		})
		if err != nil {
			return err
		}
		opts.template = strings.TrimSpace(path)
	}
	if opts.data == "" && !opts.precompile {
		path, err := prompter.Input(ctx, InputConfig{
			Message: "Data file (optional)",
			Help:    "JSON, YAML or TOML document used as the render context",
			Validator: func(s string) error {
				if strings.TrimSpace(s) == "" {
					return nil
				}
				return fileExists(s)
			},
		})
		if err != nil {
			return err
		}
		opts.data = strings.TrimSpace(path)
	}
	if opts.output != "" {
		if _, err := os.Stat(opts.output); err == nil {
			ok, err := prompter.Confirm(ctx, ConfirmConfig{
				Message: fmt.Sprintf("Overwrite %s?", opts.output),
			})
			if err != nil {
				return err
			}
			if !ok {
				return ErrAborted
			}
		}
	}
	return nil
}

func loadSettings(path string) (config.Options, error) {
	if path == "" {
		return config.Options{}, nil
	}
	return config.LoadOptions(path)
}

// newInstance returns the Handlebars instance templates compile against,
// with the engine's filters registered and the partials directory loaded
// when one is given.
func newInstance(opts options, settings config.Options) (*handlebars.Handlebars, error) {
	engineOpts := []engine.Option{
		engine.WithBaseDir("."),
		engine.WithCompileOptions(settings.Compile),
	}
	if opts.partials != "" {
		engineOpts = append(engineOpts,
			engine.WithBaseDir(opts.partials),
			engine.WithPartialsDir("."),
			engine.WithExtension(opts.extension),
		)
	}
	eng, err := engine.New(engineOpts...)
	if err != nil {
		return nil, err
	}
	logger.Debugf("registered partials: %s", strings.Join(eng.Handlebars().Partials(), ", "))
	return eng.Handlebars(), nil
}

func loadTemplate(hb *handlebars.Handlebars, opts options, settings config.Options) (*handlebars.Template, error) {
	if opts.spec != "" {
		raw, err := os.ReadFile(opts.spec)
		if err != nil {
			return nil, fmt.Errorf("read spec: %w", err)
		}
		spec, err := precompile.Decode(raw)
		if err != nil {
			return nil, err
		}
		return hb.Template(spec)
	}

	source, err := os.ReadFile(opts.template)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	return hb.CompileNamed(filepath.Base(opts.template), string(source), settings.Compile)
}

func writePrecompiled(hb *handlebars.Handlebars, opts options, settings config.Options, stdout io.Writer) error {
	if opts.template == "" {
		return errors.New("-precompile requires -template")
	}
	source, err := os.ReadFile(opts.template)
	if err != nil {
		return fmt.Errorf("read template: %w", err)
	}
	spec, err := hb.Precompile(string(source), settings.Compile)
	if err != nil {
		return err
	}
	encoded, err := precompile.Encode(spec)
	if err != nil {
		return err
	}
	logger.Infof("precompiled %s (%d bytes)", opts.template, len(encoded))
	return emit(opts.output, encoded, stdout)
}

func emit(path string, payload []byte, stdout io.Writer) error {
	if path == "" {
		_, err := stdout.Write(payload)
		return err
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func fileExists(path string) error {
	info, err := os.Stat(strings.TrimSpace(path))
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

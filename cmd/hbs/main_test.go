package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

type fakePrompter struct {
	inputs   []string
	confirm  bool
	messages []string
}

func (f *fakePrompter) Input(_ context.Context, cfg InputConfig) (string, error) {
	f.messages = append(f.messages, cfg.Message)
	if len(f.inputs) == 0 {
		return "", errors.New("no input queued")
	}
	in := f.inputs[0]
	f.inputs = f.inputs[1:]
	if cfg.Validator != nil {
		if err := cfg.Validator(in); err != nil {
			return "", err
		}
	}
	return in, nil
}

func (f *fakePrompter) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	f.messages = append(f.messages, cfg.Message)
	return f.confirm, nil
}

func TestRunRendersTemplate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	opts := options{
		template: writeFile(t, dir, "page.hbs", "{{> header}}{{#each tags}}[{{trim this}}]{{/each}}"),
		data:     writeFile(t, dir, "data.toml", "title = \"Docs\"\ntags = [\" go \", \"hbs\"]\n"),
		partials: filepath.Join(dir, "partials"),
		options:  writeFile(t, dir, "options.yaml", "compile:\n  noEscape: true\n"),
	}
	writeFile(t, dir, "partials/header.hbs", "<h1>{{title}}</h1>")
	opts.extension = ".hbs"

	var out bytes.Buffer
	if err := run(context.Background(), opts, nil, &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if diff := cmp.Diff("<h1>Docs</h1>[go][hbs]", out.String()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRunPrecompileThenSpec(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	specPath := filepath.Join(dir, "page.spec")
	err := run(context.Background(), options{
		template:   writeFile(t, dir, "page.hbs", "{{#if ok}}yes {{name}}{{else}}no{{/if}}"),
		output:     specPath,
		precompile: true,
	}, nil, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("precompile run() error = %v", err)
	}

	var out bytes.Buffer
	err = run(context.Background(), options{
		spec: specPath,
		data: writeFile(t, dir, "data.json", `{"ok": true, "name": "<me>"}`),
	}, nil, &out)
	if err != nil {
		t.Fatalf("spec run() error = %v", err)
	}
	if diff := cmp.Diff("yes &lt;me&gt;", out.String()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRunInteractive(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tpl := writeFile(t, dir, "hello.hbs", "Hello {{who}}")
	data := writeFile(t, dir, "data.yaml", "who: world\n")
	output := writeFile(t, dir, "out.txt", "old")

	prompter := &fakePrompter{inputs: []string{tpl, data}, confirm: true}
	if err := run(context.Background(), options{output: output}, prompter, &bytes.Buffer{}); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	got, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if diff := cmp.Diff("Hello world", string(got)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	want := []string{"Template file", "Data file (optional)", "Overwrite " + output + "?"}
	if diff := cmp.Diff(want, prompter.messages); diff != "" {
		t.Fatalf("prompts mismatch (-want +got):\n%s", diff)
	}

	prompter = &fakePrompter{inputs: []string{tpl, ""}, confirm: false}
	err = run(context.Background(), options{output: output}, prompter, &bytes.Buffer{})
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("run() error = %v, want ErrAborted", err)
	}
}

func TestRunErrors(t *testing.T) {
	t.Parallel()

	if err := run(context.Background(), options{}, nil, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error without template")
	}

	dir := t.TempDir()
	err := run(context.Background(), options{
		template: writeFile(t, dir, "bad.hbs", "{{missing 1}}"),
	}, nil, &bytes.Buffer{})
	if err == nil {
		t.Fatalf("expected render error")
	}
}

func TestParseFlags(t *testing.T) {
	t.Parallel()

	opts, err := parseFlags([]string{"-template", "a.hbs", "-data", "d.json", "-v", "2"})
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}
	if opts.template != "a.hbs" || opts.data != "d.json" || opts.verbosity != 2 || opts.extension != ".hbs" {
		t.Fatalf("parseFlags() = %+v", opts)
	}
	if _, err := parseFlags([]string{"-precompile", "-spec", "x"}); err == nil {
		t.Fatalf("expected error for -precompile with -spec")
	}
}

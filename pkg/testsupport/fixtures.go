// Package testsupport holds fixture and golden-file helpers shared by the
// module's tests.
package testsupport

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	handlebars "github.com/goliatone/go-handlebars"
	"github.com/goliatone/go-handlebars/pkg/config"
	"github.com/goliatone/go-handlebars/pkg/runtime"
)

// Case is one table-driven render: Template is compiled on a fresh instance
// carrying Helpers and Partials, then rendered against Context.
type Case struct {
	Name     string
	Template string
	Context  any
	Helpers  map[string]any
	Partials map[string]string
	Compile  runtime.CompileOptions
	Runtime  runtime.RuntimeOptions
	Want     string
	// WantErr, when set, must be a substring of the render error.
	WantErr string
}

// RunCases renders every case as a parallel subtest.
func RunCases(t *testing.T, cases []Case) {
	t.Helper()

	for _, tc := range cases {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			t.Parallel()
			got, err := RenderCase(tc)
			if tc.WantErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got output %q", tc.WantErr, got)
				}
				if !strings.Contains(err.Error(), tc.WantErr) {
					t.Fatalf("error = %q, want substring %q", err.Error(), tc.WantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if diff := cmp.Diff(tc.Want, got); diff != "" {
				t.Fatalf("render mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// RenderCase renders one case without requiring testing.T.
func RenderCase(tc Case) (string, error) {
	hb, err := handlebars.New(
		handlebars.WithHelpers(tc.Helpers),
		handlebars.WithPartials(tc.Partials),
	)
	if err != nil {
		return "", err
	}
	tmpl, err := hb.CompileNamed(tc.Name, tc.Template, tc.Compile)
	if err != nil {
		return "", err
	}
	return tmpl.Render(tc.Context, tc.Runtime)
}

// MustLoadData reads a JSON, YAML or TOML fixture into a render context.
func MustLoadData(t *testing.T, path string) any {
	t.Helper()

	data, err := config.LoadData(path)
	if err != nil {
		t.Fatalf("load data: %v", err)
	}
	return data
}

// MustLoadOptions reads a compile and runtime options fixture.
func MustLoadOptions(t *testing.T, path string) config.Options {
	t.Helper()

	opts, err := config.LoadOptions(path)
	if err != nil {
		t.Fatalf("load options: %v", err)
	}
	return opts
}

// WriteGolden writes arbitrary data to a golden file as JSON when
// UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	WriteMaybeGolden(t, path, payload)
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// CaptureTemplateOutput executes a render function that writes to an
// io.Writer, returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}

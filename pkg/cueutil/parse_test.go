// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

const testSchema = `
#Module: {
	name:        string & != ""
	source_dir:  string
	opts?:       [...string]
}
#Settings: {
	threshold?: number & >0 & <=1
	verbose?:   bool
}
`

type (
	testModule struct {
		Name      string   `json:"name"`
		SourceDir string   `json:"source_dir"`
		Opts      []string `json:"opts,omitempty"`
	}

	testSettings struct {
		Threshold *float64 `json:"threshold,omitempty"`
		Verbose   bool     `json:"verbose,omitempty"`
	}
)

func TestParseAndDecode(t *testing.T) {
	t.Parallel()

	t.Run("cue input", func(t *testing.T) {
		t.Parallel()

		data := []byte(`
name:       "bimodal"
source_dir: "branch/bimodal"
opts: ["-O3"]
`)
		result, err := ParseAndDecode[testModule]([]byte(testSchema), data, "#Module")
		if err != nil {
			t.Fatalf("ParseAndDecode() error = %v", err)
		}
		if result.Value.Name != "bimodal" || result.Value.SourceDir != "branch/bimodal" {
			t.Errorf("decoded %+v", result.Value)
		}
		if len(result.Value.Opts) != 1 || result.Value.Opts[0] != "-O3" {
			t.Errorf("Opts = %v, want [-O3]", result.Value.Opts)
		}
	})

	t.Run("json input", func(t *testing.T) {
		t.Parallel()

		data := []byte(`{"name": "lru", "source_dir": "replacement/lru"}`)
		result, err := ParseAndDecode[testModule]([]byte(testSchema), data, "#Module", WithFilename("lru.json"))
		if err != nil {
			t.Fatalf("ParseAndDecode() error = %v", err)
		}
		if result.Value.Name != "lru" {
			t.Errorf("Name = %q, want lru", result.Value.Name)
		}
	})

	t.Run("missing required field", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAndDecode[testModule]([]byte(testSchema), []byte(`name: "x"`), "#Module", WithFilename("m.cue"))
		if err == nil {
			t.Fatal("expected an error for a missing source_dir")
		}
		if !strings.Contains(err.Error(), "m.cue") {
			t.Errorf("error does not name the file: %v", err)
		}
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		t.Parallel()

		data := []byte(`name: "x", source_dir: "d", extra: 1`)
		if _, err := ParseAndDecode[testModule]([]byte(testSchema), data, "#Module"); err == nil {
			t.Fatal("expected closed definition to reject an unknown field")
		}
	})

	t.Run("constraint violation carries the path", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAndDecode[testSettings]([]byte(testSchema), []byte(`threshold: 2`), "#Settings",
			WithConcrete(false), WithFilename("config.cue"))
		if err == nil {
			t.Fatal("expected an out-of-bound threshold to fail")
		}
		if !strings.Contains(err.Error(), "threshold") {
			t.Errorf("error does not name the field: %v", err)
		}
	})

	t.Run("syntax error", func(t *testing.T) {
		t.Parallel()

		if _, err := ParseAndDecode[testModule]([]byte(testSchema), []byte(`name: {`), "#Module"); err == nil {
			t.Fatal("expected a syntax error")
		}
	})

	t.Run("file too large", func(t *testing.T) {
		t.Parallel()

		data := []byte(`name: "x", source_dir: "d"`)
		_, err := ParseAndDecode[testModule]([]byte(testSchema), data, "#Module", WithMaxFileSize(4))
		if err == nil || !strings.Contains(err.Error(), "exceeds maximum") {
			t.Fatalf("ParseAndDecode() error = %v, want size error", err)
		}
	})

	t.Run("unknown definition", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAndDecode[testModule]([]byte(testSchema), []byte(`name: "x"`), "#Missing")
		if err == nil || !strings.Contains(err.Error(), "internal error") {
			t.Fatalf("ParseAndDecode() error = %v, want internal error", err)
		}
	})
}

func TestFormatError(t *testing.T) {
	t.Parallel()

	if FormatError(nil, "x.cue") != nil {
		t.Error("FormatError(nil) != nil")
	}

	orig := errors.New("boom")
	err := FormatError(orig, "x.cue")
	if !errors.Is(err, orig) || !strings.HasPrefix(err.Error(), "x.cue: ") {
		t.Errorf("FormatError(non-CUE) = %v", err)
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path []string
		want string
	}{
		{path: nil, want: ""},
		{path: []string{"modules"}, want: "modules"},
		{path: []string{"modules", "branch", "bimodal"}, want: "modules.branch.bimodal"},
		{path: []string{"elements", "cores", "0", "name"}, want: "elements.cores[0].name"},
		{path: []string{"src_dirs", "1"}, want: "src_dirs[1]"},
		{path: []string{"0"}, want: "0"},
	}

	for _, tt := range tests {
		if got := formatPath(tt.path); got != tt.want {
			t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

// SPDX-License-Identifier: MPL-2.0

package fspath_test

import (
	"path/filepath"
	"slices"
	"testing"

	"github.com/champsim/configure/pkg/fspath"
	"github.com/champsim/configure/pkg/types"
)

func TestJoin(t *testing.T) {
	t.Parallel()

	got := fspath.Join(types.FilesystemPath(".csconfig"), types.FilesystemPath("1a2b3c4d"))
	want := types.FilesystemPath(filepath.Join(".csconfig", "1a2b3c4d"))
	if got != want {
		t.Errorf("Join() = %q, want %q", got, want)
	}
}

func TestJoinStr_Normalizes(t *testing.T) {
	t.Parallel()

	got := fspath.JoinStr(types.FilesystemPath("obj//"), "..", "obj", "id", "inc")
	want := types.FilesystemPath(filepath.Join("obj", "id", "inc"))
	if got != want {
		t.Errorf("JoinStr() = %q, want %q", got, want)
	}
}

func TestDirAndExt(t *testing.T) {
	t.Parallel()

	p := types.FilesystemPath(filepath.Join("obj", "id", "inc", "champsim_constants.h"))
	if got, want := fspath.Dir(p), types.FilesystemPath(filepath.Join("obj", "id", "inc")); got != want {
		t.Errorf("Dir() = %q, want %q", got, want)
	}
	if got := fspath.Ext(p); got != ".h" {
		t.Errorf("Ext() = %q, want %q", got, ".h")
	}
}

func TestAncestors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "make variable prefix", in: "$(objdir)/1a2b3c4d/m1", want: []string{"$(objdir)", "$(objdir)/1a2b3c4d", "$(objdir)/1a2b3c4d/m1"}},
		{name: "single segment", in: "bin", want: []string{"bin"}},
		{name: "absolute stops at root", in: "/opt/bin", want: []string{"/opt", "/opt/bin"}},
		{name: "redundant separators", in: "bin//x/", want: []string{"bin", "bin/x"}},
		{name: "dot", in: ".", want: nil},
		{name: "empty", in: "", want: nil},
		{name: "root", in: "/", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fspath.Ancestors(tt.in); !slices.Equal(got, tt.want) {
				t.Errorf("Ancestors(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

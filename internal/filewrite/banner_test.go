// SPDX-License-Identifier: MPL-2.0

package filewrite

import (
	"strings"
	"testing"

	"github.com/champsim/configure/pkg/types"
)

func TestBanner(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path      types.FilesystemPath
		wantFirst string
	}{
		{"obj/id/inc/champsim_constants.h", "/***"},
		{"obj/id/inc/core_inst.inc", "/***"},
		{"src/generated.cc", "/***"},
		{"_configuration.mk", "###"},
		{"notes.txt", ""},
		{"Makefile", ""},
	}
	for _, tt := range tests {
		b := Banner(tt.path)
		if tt.wantFirst == "" {
			if b != nil {
				t.Errorf("Banner(%s) = %q, want none", tt.path, b)
			}
			continue
		}
		if len(b) != 5 || b[0] != tt.wantFirst || b[4] != "" {
			t.Errorf("Banner(%s) = %q", tt.path, b)
		}
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	got := Render("x.mk", []string{"A", "B"})
	want := strings.Join(makeBanner, "\n") + "\nA\nB"
	if got != want {
		t.Errorf("Render() =\n%q\nwant\n%q", got, want)
	}
	if got := Render("x.txt", []string{"A", "B"}); got != "A\nB" {
		t.Errorf("Render(no banner) = %q", got)
	}
}

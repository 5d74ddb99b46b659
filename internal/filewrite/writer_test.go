// SPDX-License-Identifier: MPL-2.0

package filewrite

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/champsim/configure/pkg/types"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

func newMemWriter(t *testing.T, opts Options) (*Writer, afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	w, err := New(opts, WithFs(fsys), WithLogger(log.New(io.Discard)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return w, fsys
}

func mustWrite(t *testing.T, w *Writer, path types.FilesystemPath, content string) Result {
	t.Helper()
	res, err := w.WriteIfChanged(path, content)
	if err != nil {
		t.Fatalf("WriteIfChanged(%s) error = %v", path, err)
	}
	return res
}

func TestWriteIfChanged_CreatesParents(t *testing.T) {
	t.Parallel()

	w, fsys := newMemWriter(t, DefaultOptions())
	path := types.FilesystemPath(filepath.Join("obj", "1a2b3c4d", "inc", "core_inst.inc"))

	if res := mustWrite(t, w, path, "a\nb\n"); res != Written {
		t.Fatalf("first write = %s, want %s", res, Written)
	}
	got, err := afero.ReadFile(fsys, string(path))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != "a\nb\n" {
		t.Errorf("content = %q", got)
	}
}

func TestWriteIfChanged_Idempotent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := New(DefaultOptions(), WithLogger(log.New(io.Discard)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	path := types.FilesystemPath(filepath.Join(dir, "inc", "champsim_constants.h"))
	content := "#define BLOCK_SIZE 64\n#define PAGE_SIZE 4096\n"

	if res := mustWrite(t, w, path, content); res != Written {
		t.Fatalf("first write = %s, want %s", res, Written)
	}

	// Push the mtime into the past so a rewrite would be observable.
	past := time.Now().Add(-time.Hour).Truncate(time.Second)
	if err := os.Chtimes(string(path), past, past); err != nil {
		t.Fatalf("Chtimes() error = %v", err)
	}

	if res := mustWrite(t, w, path, content); res != Skipped {
		t.Fatalf("second write = %s, want %s", res, Skipped)
	}
	info, err := os.Stat(string(path))
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if !info.ModTime().Equal(past) {
		t.Errorf("mtime changed on skipped write: %v != %v", info.ModTime(), past)
	}
}

func TestWriteIfChanged_WhitespaceOnlyChangeSkipped(t *testing.T) {
	t.Parallel()

	w, fsys := newMemWriter(t, DefaultOptions())
	path := types.FilesystemPath("_configuration.mk")
	original := "executable_name += bin/champsim\n\tbin/champsim: CXX = g++\n"

	mustWrite(t, w, path, original)
	if res := mustWrite(t, w, path, "  executable_name += bin/champsim   \nbin/champsim: CXX = g++\r\n"); res != Skipped {
		t.Fatalf("whitespace-only change = %s, want %s", res, Skipped)
	}
	got, _ := afero.ReadFile(fsys, string(path))
	if string(got) != original {
		t.Errorf("file was modified: %q", got)
	}
}

func TestWriteIfChanged_NonWhitespaceChangeWritten(t *testing.T) {
	t.Parallel()

	w, fsys := newMemWriter(t, DefaultOptions())
	path := types.FilesystemPath("_configuration.mk")

	mustWrite(t, w, path, "bin/champsim: CXX = g++\n")
	if res := mustWrite(t, w, path, "bin/champsim: CXX = g+-\n"); res != Written {
		t.Fatalf("one-character change = %s, want %s", res, Written)
	}
	got, _ := afero.ReadFile(fsys, string(path))
	if string(got) != "bin/champsim: CXX = g+-\n" {
		t.Errorf("content = %q", got)
	}
}

func TestWriteIfChanged_UntrimmedComparison(t *testing.T) {
	t.Parallel()

	w, _ := newMemWriter(t, Options{Threshold: 1, TrimLines: false})
	path := types.FilesystemPath("x.inc")

	mustWrite(t, w, path, "a\n")
	if res := mustWrite(t, w, path, "a \n"); res != Written {
		t.Errorf("trailing space with TrimLines=false = %s, want %s", res, Written)
	}
}

func TestWriteIfChanged_LooserThreshold(t *testing.T) {
	t.Parallel()

	w, _ := newMemWriter(t, Options{Threshold: 0.5, TrimLines: true})
	path := types.FilesystemPath("x.inc")

	mustWrite(t, w, path, "a\nb\nc\nd\n")
	// 3 of 4 lines match: ratio 0.75 >= 0.5.
	if res := mustWrite(t, w, path, "a\nb\nc\nX\n"); res != Skipped {
		t.Errorf("write at ratio 0.75 with threshold 0.5 = %s, want %s", res, Skipped)
	}
}

func TestWouldWrite(t *testing.T) {
	t.Parallel()

	w, _ := newMemWriter(t, DefaultOptions())
	path := types.FilesystemPath("x.h")

	if ok, err := w.WouldWrite(path, "a"); err != nil || !ok {
		t.Fatalf("WouldWrite(missing) = %v, %v; want true", ok, err)
	}
	mustWrite(t, w, path, "a")
	if ok, err := w.WouldWrite(path, "a"); err != nil || ok {
		t.Errorf("WouldWrite(same) = %v, %v; want false", ok, err)
	}
}

func TestNew_RejectsThreshold(t *testing.T) {
	t.Parallel()

	for _, th := range []float64{0, -0.1, 1.01} {
		if _, err := New(Options{Threshold: th}); !errors.Is(err, ErrInvalidThreshold) {
			t.Errorf("New(threshold=%v) error = %v, want ErrInvalidThreshold", th, err)
		}
	}
}

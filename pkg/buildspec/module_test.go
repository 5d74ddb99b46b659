// SPDX-License-Identifier: MPL-2.0

package buildspec

import (
	"errors"
	"testing"
)

func sampleModules() ModuleInfo {
	return ModuleInfo{
		KindBranch: {
			"gshare":  {Name: "gshare", SourceDir: "branch/gshare"},
			"bimodal": {Name: "bimodal", SourceDir: "branch/bimodal", Opts: []string{"-O2"}},
		},
		KindBTB:         {"basic_btb": {Name: "basic_btb", SourceDir: "btb/basic_btb"}},
		KindReplacement: {"lru": {Name: "lru", SourceDir: "replacement/lru"}},
		KindPrefetcher:  {"no": {Name: "no", SourceDir: "prefetcher/no"}},
	}
}

func TestFlatten_Order(t *testing.T) {
	t.Parallel()

	flat, err := sampleModules().Flatten(RejectShadowing)
	if err != nil {
		t.Fatalf("Flatten() error = %v", err)
	}

	want := []struct {
		kind ModuleKind
		name ModuleName
	}{
		{KindBranch, "bimodal"},
		{KindBranch, "gshare"},
		{KindBTB, "basic_btb"},
		{KindReplacement, "lru"},
		{KindPrefetcher, "no"},
	}
	if len(flat) != len(want) {
		t.Fatalf("Flatten() returned %d modules, want %d", len(flat), len(want))
	}
	for i, w := range want {
		if flat[i].Kind != w.kind || flat[i].Spec.Name != w.name {
			t.Errorf("flat[%d] = %s/%s, want %s/%s", i, flat[i].Kind, flat[i].Spec.Name, w.kind, w.name)
		}
	}
}

func TestFlatten_CollisionRejected(t *testing.T) {
	t.Parallel()

	mods := sampleModules()
	mods[KindPrefetcher]["lru"] = ModuleSpec{Name: "lru", SourceDir: "prefetcher/lru"}

	_, err := mods.Flatten(RejectShadowing)
	if !errors.Is(err, ErrModuleNameCollision) {
		t.Fatalf("Flatten() error = %v, want ErrModuleNameCollision", err)
	}

	var collision *ModuleNameCollisionError
	if !errors.As(err, &collision) {
		t.Fatalf("error is not *ModuleNameCollisionError: %T", err)
	}
	if collision.FirstKind != KindReplacement || collision.SecondKind != KindPrefetcher {
		t.Errorf("collision kinds = %s, %s; want repl, pref", collision.FirstKind, collision.SecondKind)
	}
}

func TestFlatten_ShadowingLastWriteWins(t *testing.T) {
	t.Parallel()

	mods := sampleModules()
	mods[KindPrefetcher]["lru"] = ModuleSpec{Name: "lru", SourceDir: "prefetcher/lru"}

	flat, err := mods.Flatten(AllowShadowing)
	if err != nil {
		t.Fatalf("Flatten() error = %v", err)
	}
	if len(flat) != 5 {
		t.Fatalf("Flatten() returned %d modules, want 5", len(flat))
	}
	// The shadowed entry keeps the position of the first declaration.
	if flat[3].Spec.Name != "lru" || flat[3].Kind != KindPrefetcher || flat[3].Spec.SourceDir != "prefetcher/lru" {
		t.Errorf("flat[3] = %+v, want prefetcher lru in replacement slot", flat[3])
	}
}

func TestModuleNameIsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name ModuleName
		want bool
	}{
		{"bimodal", true},
		{"ip_stride", true},
		{"spp-dev", true},
		{"", false},
		{"..", false},
		{"a/b", false},
		{"has space", false},
		{"$(evil)", false},
		{"a:b", false},
	}
	for _, tt := range tests {
		valid, errs := tt.name.IsValid()
		if valid != tt.want {
			t.Errorf("ModuleName(%q).IsValid() = %v, want %v", tt.name, valid, tt.want)
		}
		if !valid && !errors.Is(errs[0], ErrInvalidModuleName) {
			t.Errorf("ModuleName(%q) error does not wrap ErrInvalidModuleName", tt.name)
		}
	}
}

func TestModuleKindIsValid(t *testing.T) {
	t.Parallel()

	for _, k := range Kinds() {
		if valid, _ := k.IsValid(); !valid {
			t.Errorf("ModuleKind(%q).IsValid() = false", k)
		}
	}
	valid, errs := ModuleKind("l2c").IsValid()
	if valid || !errors.Is(errs[0], ErrInvalidModuleKind) {
		t.Errorf("ModuleKind(l2c).IsValid() = %v, %v", valid, errs)
	}
}

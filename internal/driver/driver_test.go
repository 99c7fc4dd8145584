package driver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tswinrt/tswinrt/internal/policy"
	"github.com/tswinrt/tswinrt/internal/testutil"
)

func TestRun_NoPathsErrors(t *testing.T) {
	_, err := Run(nil, Options{})
	if err == nil {
		t.Fatalf("expected an error when no metadata files are given")
	}
}

func TestRun_MissingFileErrors(t *testing.T) {
	_, err := Run([]string{"/nonexistent/does-not-exist.winmd"}, Options{})
	if err == nil {
		t.Fatalf("expected an error for a nonexistent metadata file")
	}
}

// TestRun_EndToEnd drives the whole pipeline against testutil's synthetic
// .winmd: one projectable class, one namespace, output rooted at
// <cwd>/<assembly-name> with a per-type file and the module index.
func TestRun_EndToEnd(t *testing.T) {
	work := t.TempDir()
	winmd := filepath.Join(work, "Contoso.Widgets.winmd")
	if err := os.WriteFile(winmd, testutil.SyntheticWinmd(), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.Chdir(work); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer os.Chdir(prev)
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sum, err := Run([]string{winmd}, Options{
		Policy: policy.Default(),
		Now:    time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if sum.FilesWritten != 1 {
		t.Errorf("FilesWritten = %d, want 1", sum.FilesWritten)
	}
	if want := filepath.Join(cwd, "Contoso.Widgets"); sum.OutDir != want {
		t.Errorf("OutDir = %q, want %q", sum.OutDir, want)
	}

	typeFile := filepath.Join(sum.OutDir, "Contoso", "Widgets", "Gizmo.ts")
	contents, err := os.ReadFile(typeFile)
	if err != nil {
		t.Fatalf("expected %s to exist: %v", typeFile, err)
	}
	got := string(contents)
	if !strings.HasPrefix(got, "//") {
		t.Errorf("expected a generated-header type file, got:\n%s", got)
	}
	if !strings.Contains(got, "export class Gizmo") {
		t.Errorf("expected a class declaration, got:\n%s", got)
	}

	index, err := os.ReadFile(filepath.Join(sum.OutDir, "index.ts"))
	if err != nil {
		t.Fatalf("expected the module index to exist: %v", err)
	}
	idx := string(index)
	for _, want := range []string{
		"import { Gizmo as Contoso_Widgets_Gizmo } from \"./Contoso/Widgets/Gizmo\";",
		"export namespace Contoso {",
		"export namespace Widgets {",
		"export const Gizmo = Contoso_Widgets_Gizmo;",
		"globalThis['Contoso.Widgets'] = Contoso.Widgets;",
	} {
		if !strings.Contains(idx, want) {
			t.Errorf("expected %q in the module index, got:\n%s", want, idx)
		}
	}
}

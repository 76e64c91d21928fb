package coeff

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaultTablesValid(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if c.Version != "v2" {
		t.Fatalf("version = %q, want v2", c.Version)
	}
	if c.Pass.Mode != PassModeCoefficient {
		t.Fatalf("pass.mode = %q, want %q", c.Pass.Mode, PassModeCoefficient)
	}
	if c.Shot.Band.MinProb != 0.15 || c.Shot.Band.MaxProb != 0.65 {
		t.Fatalf("shot band = %+v", c.Shot.Band)
	}
	if c.Decision.Tendencies.For("C").Three != 0.3 {
		t.Fatalf("center three tendency = %v", c.Decision.Tendencies.For("C").Three)
	}
}

func TestMissingCoefficientIsReported(t *testing.T) {
	tree, err := decodeTree(defaultsYAML)
	if err != nil {
		t.Fatal(err)
	}
	delete(tree["shot"].(map[string]any)["band"].(map[string]any), "max_prob")
	delete(tree["openness"].(map[string]any), "speed")
	delete(tree, "notes") // optional

	_, err = build(tree)
	if !errors.Is(err, ErrMissingCoefficient) {
		t.Fatalf("build error = %v, want %v", err, ErrMissingCoefficient)
	}
	for _, path := range []string{"shot.band.max_prob", "openness.speed"} {
		if !strings.Contains(err.Error(), path) {
			t.Fatalf("error %q does not name %s", err, path)
		}
	}
	if strings.Contains(err.Error(), "notes") {
		t.Fatalf("optional key reported missing: %v", err)
	}
}

func TestParseRejectsUnknownAndInvalid(t *testing.T) {
	if _, err := Parse([]byte("shot:\n  skil: 0.5\n")); !errors.Is(err, ErrInvalidCoefficient) {
		t.Fatalf("typo key error = %v, want %v", err, ErrInvalidCoefficient)
	}
	if _, err := Parse([]byte("shot:\n  caps:\n    success: {min: 15, max: 20}\n    failure: {min: 7, max: 17}\n")); !errors.Is(err, ErrInvalidCoefficient) {
		t.Fatalf("infeasible caps error = %v, want %v", err, ErrInvalidCoefficient)
	}
	if _, err := Parse([]byte("pass:\n  mode: lucky\n")); !errors.Is(err, ErrInvalidCoefficient) {
		t.Fatalf("bad pass mode error = %v, want %v", err, ErrInvalidCoefficient)
	}
	if _, err := Parse([]byte("clock:\n  offensive_reset: 30\n")); err == nil {
		t.Fatalf("offensive reset above shot clock must error")
	}
}

func TestLoaderMergesOverlay(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "coefficients", "default.yaml"), "decision:\n  forced_shot_threshold: 3\n")
	writeFile(t, filepath.Join(dir, "coefficients", "v9.yaml"), "pass:\n  mode: flat\nshot:\n  skill: 0.6\n")

	l := NewLoader(dir)
	base, err := l.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if base.Decision.ForcedShotThreshold != 3 {
		t.Fatalf("default.yaml not applied: %d", base.Decision.ForcedShotThreshold)
	}

	v9, err := l.Load("v9")
	if err != nil {
		t.Fatal(err)
	}
	if v9.Version != "v9" {
		t.Fatalf("version = %q, want v9 (implied by file name)", v9.Version)
	}
	if v9.Pass.Mode != PassModeFlat || v9.Shot.Skill != 0.6 {
		t.Fatalf("overlay not applied: mode=%q skill=%v", v9.Pass.Mode, v9.Shot.Skill)
	}
	if v9.Shot.Openness != base.Shot.Openness || v9.Decision.ForcedShotThreshold != 3 {
		t.Fatalf("untouched keys must come from lower layers")
	}

	again, _ := l.Load("v9")
	if again != v9 {
		t.Fatalf("second load should hit the cache")
	}
	l.Invalidate()
	fresh, _ := l.Load("v9")
	if fresh == v9 {
		t.Fatalf("Invalidate should drop cached tables")
	}

	if _, err := l.Load("v404"); !errors.Is(err, ErrUnknownVersion) {
		t.Fatalf("unknown version error = %v, want %v", err, ErrUnknownVersion)
	}
}

func TestShippedOverlayLoads(t *testing.T) {
	l := NewLoader(filepath.Join("..", "..", "config"))
	c, err := l.Load("v1")
	if err != nil {
		t.Fatalf("Load(v1) error = %v", err)
	}
	if c.Pass.Mode != PassModeFlat {
		t.Fatalf("v1 pass mode = %q, want flat", c.Pass.Mode)
	}
}

func TestResolveOverrides(t *testing.T) {
	base := MustDefault()
	flat := PassModeFlat
	c, err := Static{C: base}.Resolve(Overrides{PassMode: &flat})
	if err != nil {
		t.Fatal(err)
	}
	if c.Pass.Mode != PassModeFlat || base.Pass.Mode != PassModeCoefficient {
		t.Fatalf("override must apply to a copy: got %q base %q", c.Pass.Mode, base.Pass.Mode)
	}
	bad := "coin-flip"
	if _, err := (Static{C: base}).Resolve(Overrides{PassMode: &bad}); !errors.Is(err, ErrInvalidCoefficient) {
		t.Fatalf("bad override error = %v", err)
	}
	other := "v7"
	if _, err := (Static{C: base}).Resolve(Overrides{Version: &other}); !errors.Is(err, ErrUnknownVersion) {
		t.Fatalf("version mismatch error = %v", err)
	}
}

func TestBandMapClamps(t *testing.T) {
	b := Band{RawMin: 0, RawMax: 80, MinProb: 0.15, MaxProb: 0.65}
	if got := b.Map(-10); got != 0.15 {
		t.Fatalf("below band = %v", got)
	}
	if got := b.Map(1000); got != 0.65 {
		t.Fatalf("above band = %v", got)
	}
	if got := b.Map(40); got < 0.3999 || got > 0.4001 {
		t.Fatalf("midpoint = %v, want 0.40", got)
	}
}

func TestDirWatcherScan(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	writeFile(t, a, "x: 1\n")
	w := NewDirWatcher(dir, time.Second, nil)
	if got := w.scan(); len(got) != 1 || got[0] != a {
		t.Fatalf("priming scan = %v", got)
	}
	if got := w.scan(); len(got) != 0 {
		t.Fatalf("unchanged scan = %v", got)
	}
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(a, future, future); err != nil {
		t.Fatal(err)
	}
	b := filepath.Join(dir, "b.yaml")
	writeFile(t, b, "y: 2\n")
	if got := w.scan(); len(got) != 2 {
		t.Fatalf("modified+added scan = %v", got)
	}
	if err := os.Remove(a); err != nil {
		t.Fatal(err)
	}
	if got := w.scan(); len(got) != 1 || got[0] != a {
		t.Fatalf("removed scan = %v", got)
	}
}

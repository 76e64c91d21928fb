package coeff

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

var (
	ErrMissingCoefficient = errors.New("missing coefficient")
	ErrUnknownVersion     = errors.New("unknown coefficient version")
)

// Default returns the embedded baseline tables.
func Default() (*Coefficients, error) {
	return Parse(defaultsYAML)
}

// MustDefault is Default for callers that cannot proceed without the embedded tables.
func MustDefault() *Coefficients {
	c, err := Default()
	if err != nil {
		panic(fmt.Sprintf("coeff: embedded defaults invalid: %v", err))
	}
	return c
}

// Parse merges YAML layers left to right over the embedded defaults, then
// decodes and validates the result.
func Parse(layers ...[]byte) (*Coefficients, error) {
	tree, err := decodeTree(defaultsYAML)
	if err != nil {
		return nil, fmt.Errorf("embedded defaults: %w", err)
	}
	for i, layer := range layers {
		t, err := decodeTree(layer)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		tree = mergeTree(tree, t)
	}
	return build(tree)
}

// Paths helper for coefficient files.
type Paths struct {
	BaseDir string // e.g. /etc/hoops; tables live in BaseDir/coefficients
}

func (p Paths) Dir() string {
	return filepath.Join(p.BaseDir, "coefficients")
}
func (p Paths) DefaultPath() string {
	return filepath.Join(p.Dir(), "default.yaml")
}
func (p Paths) VersionPath(version string) string {
	return filepath.Join(p.Dir(), version+".yaml")
}

// Loader reads coefficient overlays and merges embedded → default.yaml → <version>.yaml.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache map[string]*Coefficients // key: version, "$default" for the base tables
}

// NewLoader creates a loader rooted at baseDir. An empty baseDir serves only
// the embedded tables.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		cache: make(map[string]*Coefficients),
	}
}

func (l *Loader) Paths() Paths { return l.paths }

// Load returns the merged, validated tables for version ("" = base tables).
func (l *Loader) Load(version string) (*Coefficients, error) {
	key := version
	if key == "" {
		key = "$default"
	}
	l.mu.RLock()
	if c, ok := l.cache[key]; ok {
		l.mu.RUnlock()
		return c, nil
	}
	l.mu.RUnlock()

	tree, err := decodeTree(defaultsYAML)
	if err != nil {
		return nil, fmt.Errorf("embedded defaults: %w", err)
	}
	if l.paths.BaseDir != "" {
		def, err := readTree(l.paths.DefaultPath())
		if err != nil {
			return nil, fmt.Errorf("read default: %w", err)
		}
		tree = mergeTree(tree, def)
	}
	if version != "" && version != tree["version"] {
		if l.paths.BaseDir == "" {
			return nil, fmt.Errorf("%w: %q", ErrUnknownVersion, version)
		}
		path := l.paths.VersionPath(version)
		overlay, err := readTree(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if overlay == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownVersion, version)
		}
		if _, ok := overlay["version"]; !ok {
			overlay["version"] = version
		}
		tree = mergeTree(tree, overlay)
	}

	c, err := build(tree)
	if err != nil {
		return nil, fmt.Errorf("coefficients %q: %w", version, err)
	}

	l.mu.Lock()
	l.cache[key] = c
	l.mu.Unlock()
	return c, nil
}

// Invalidate clears loader's cache. Call after the watcher reports a change.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]*Coefficients)
}

// readTree loads a YAML file as a generic tree. Missing files return nil, no error.
func readTree(path string) (map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return decodeTree(b)
}

func decodeTree(b []byte) (map[string]any, error) {
	tree := map[string]any{}
	if err := yaml.Unmarshal(b, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// mergeTree deep-merges b over a: mappings merge key by key, anything else in b replaces a.
func mergeTree(a, b map[string]any) map[string]any {
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		if bm, ok := v.(map[string]any); ok {
			if am, ok := out[k].(map[string]any); ok {
				out[k] = mergeTree(am, bm)
				continue
			}
		}
		out[k] = v
	}
	return out
}

// build decodes a merged tree strictly and validates it.
func build(tree map[string]any) (*Coefficients, error) {
	if missing := missingKeys(reflect.TypeOf(Coefficients{}), tree, ""); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingCoefficient, strings.Join(missing, ", "))
	}
	b, err := yaml.Marshal(tree)
	if err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	var c Coefficients
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCoefficient, err)
	}
	if err := Validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// missingKeys lists every required yaml path of t absent from node.
// Fields tagged omitempty are optional.
func missingKeys(t reflect.Type, node map[string]any, prefix string) []string {
	var out []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, opts, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			continue
		}
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		v, ok := node[name]
		if !ok || v == nil {
			if opts != "omitempty" {
				out = append(out, path)
			}
			continue
		}
		if f.Type.Kind() != reflect.Struct {
			continue
		}
		child, ok := v.(map[string]any)
		if !ok {
			out = append(out, path)
			continue
		}
		out = append(out, missingKeys(f.Type, child, path)...)
	}
	return out
}

package coeff

import "fmt"

// Overrides carries per-request selections layered over a loaded table set.
type Overrides struct {
	Version  *string
	PassMode *string
}

type Resolver interface {
	// Returns the validated tables for the request.
	Resolve(o Overrides) (*Coefficients, error)
}

// Resolve loads the requested version and applies the overrides on a copy.
func (l *Loader) Resolve(o Overrides) (*Coefficients, error) {
	version := ""
	if o.Version != nil {
		version = *o.Version
	}
	c, err := l.Load(version)
	if err != nil {
		return nil, err
	}
	return applyOverrides(c, o)
}

// Static resolves every request against one fixed table set.
type Static struct {
	C *Coefficients
}

func (s Static) Resolve(o Overrides) (*Coefficients, error) {
	if o.Version != nil && *o.Version != "" && *o.Version != s.C.Version {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVersion, *o.Version)
	}
	return applyOverrides(s.C, o)
}

func applyOverrides(c *Coefficients, o Overrides) (*Coefficients, error) {
	if o.PassMode == nil || *o.PassMode == "" || *o.PassMode == c.Pass.Mode {
		return c, nil
	}
	cp := *c
	cp.Pass.Mode = *o.PassMode
	if err := Validate(&cp); err != nil {
		return nil, err
	}
	return &cp, nil
}

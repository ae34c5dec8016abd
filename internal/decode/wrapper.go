// Package decode maps raw profile sub-objects from the upstream API into
// typed wrappers. Decoders are selected through an explicit registration
// table built once at startup; each wrapper type fixes which of its members
// is the canonical scalar form.
package decode

import (
	"fmt"

	"github.com/osgood/armorytrack/internal/domain"
)

// Wrapper is a decoded profile sub-object that can reduce to a single
// scalar representation.
type Wrapper interface {
	// CanonicalValue returns the wrapper's canonical scalar form, or an
	// ambiguous-field error when the type declares no canonical member.
	CanonicalValue() (string, error)
}

// Decoder turns one raw JSON sub-object into a typed wrapper.
// Decoders never perform network calls; resolving a reference href for more
// detail is a separate, explicit client operation.
type Decoder interface {
	Decode(obj map[string]any) (Wrapper, error)
}

// NamedValue wraps a sub-object whose canonical member is its localized name
// (gender, race, faction, class, spec, realm, guild).
type NamedValue struct {
	Name string `json:"name"`
	ID   int    `json:"id,omitempty"`
	Href string `json:"href,omitempty"` // reference URL for lazy detail lookup
}

// CanonicalValue returns the localized name
func (v NamedValue) CanonicalValue() (string, error) {
	return v.Name, nil
}

// GenderPair wraps a sub-object carrying separate male and female names
// (e.g. a race's gender_name field). It has no single canonical member.
type GenderPair struct {
	Male   NamedValue `json:"male"`
	Female NamedValue `json:"female"`
}

// CanonicalValue always fails: neither gendered name is canonical
func (p GenderPair) CanonicalValue() (string, error) {
	return "", fmt.Errorf("%w: GenderPair carries two names", domain.ErrAmbiguousField)
}

// PowerType wraps a class resource sub-object (mana, rage, focus, ...)
type PowerType struct {
	Name string `json:"name"`
	ID   int    `json:"id"`
}

// CanonicalValue returns the localized resource name
func (p PowerType) CanonicalValue() (string, error) {
	return p.Name, nil
}

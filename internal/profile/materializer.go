// Package profile turns a raw character profile document into a typed
// in-memory record via the decoder registry.
package profile

import (
	"context"
	"errors"

	"github.com/osgood/armorytrack/internal/decode"
	"github.com/osgood/armorytrack/internal/domain"
	"github.com/osgood/armorytrack/internal/logger"
)

// Profile is a materialized character profile: decoded wrappers for the
// registered fields, verbatim scalars for the rest, and the raw payload for
// callers that need unprocessed fields.
type Profile struct {
	Fields  map[string]decode.Wrapper
	Scalars map[string]any
	Raw     map[string]any
}

// Materializer applies the decoder registry field by field
type Materializer struct {
	registry *decode.Registry
}

func NewMaterializer(registry *decode.Registry) *Materializer {
	return &Materializer{registry: registry}
}

// Materialize processes every key of a parsed profile document. Registered
// fields decode or fail the whole call (a registered decoder failing means
// our schema assumptions are wrong, which must surface). Unregistered
// scalars pass through unchanged; unregistered maps and collections are
// dropped silently since the upstream schema grows fields we cannot guess.
// No network or persistence side effects.
func (m *Materializer) Materialize(ctx context.Context, raw map[string]any) (*Profile, error) {
	log := logger.FromContext(ctx)

	p := &Profile{
		Fields:  make(map[string]decode.Wrapper),
		Scalars: make(map[string]any),
		Raw:     raw,
	}

	for key, value := range raw {
		wrapper, err := m.registry.Resolve(key, value)
		if err == nil {
			p.Fields[key] = wrapper
			continue
		}

		if !errors.Is(err, domain.ErrNoDecoder) {
			return nil, err
		}

		switch value.(type) {
		case map[string]any, []any:
			log.Debug("Dropping unrecognized composite field", "field", key)
		default:
			p.Scalars[key] = value
		}
	}

	return p, nil
}

// Field returns the decoded wrapper for a registered field
func (p *Profile) Field(name string) (decode.Wrapper, bool) {
	w, ok := p.Fields[name]
	return w, ok
}

// CanonicalField reduces a decoded field to its scalar form
func (p *Profile) CanonicalField(name string) (string, bool) {
	w, ok := p.Fields[name]
	if !ok {
		return "", false
	}
	value, err := w.CanonicalValue()
	if err != nil {
		return "", false
	}
	return value, true
}

// Name returns the character's display name scalar when present
func (p *Profile) Name() (string, bool) {
	s, ok := p.Scalars["name"].(string)
	return s, ok
}

// Level returns the character level scalar when present
func (p *Profile) Level() (int, bool) {
	switch v := p.Scalars["level"].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}

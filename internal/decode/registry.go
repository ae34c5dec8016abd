package decode

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/osgood/armorytrack/internal/domain"
)

// DefaultLocale is used when the registry is built without an explicit locale
const DefaultLocale = "en_US"

// Profile fields with registered decoders
const (
	FieldGender         = "gender"
	FieldRace           = "race"
	FieldFaction        = "faction"
	FieldCharacterClass = "character_class"
	FieldActiveSpec     = "active_spec"
	FieldRealm          = "realm"
	FieldGuild          = "guild"
	FieldGenderName     = "gender_name"
	FieldPowerType      = "power_type"
)

// Registry resolves profile field names to their decoders. The table is
// built once at construction; resolution is a plain map lookup, so the
// field-to-decoder mapping is statically verifiable.
type Registry struct {
	locale   string
	decoders map[string]Decoder
}

// NewRegistry builds the decoder table for the given locale. The locale may
// be given in API form ("en_US") or BCP 47 form ("en-US"); anything
// unparseable falls back to the default.
func NewRegistry(locale string) *Registry {
	named := &namedDecoder{locale: NormalizeLocale(locale)}

	return &Registry{
		locale: named.locale,
		decoders: map[string]Decoder{
			FieldGender:         named,
			FieldRace:           named,
			FieldFaction:        named,
			FieldCharacterClass: named,
			FieldActiveSpec:     named,
			FieldRealm:          named,
			FieldGuild:          named,
			FieldGenderName:     &genderPairDecoder{named: named},
			FieldPowerType:      &powerTypeDecoder{locale: named.locale},
		},
	}
}

// Locale returns the normalized locale the registry extracts
func (r *Registry) Locale() string {
	return r.locale
}

// Has reports whether a decoder is registered for the field
func (r *Registry) Has(field string) bool {
	_, ok := r.decoders[field]
	return ok
}

// Resolve decodes the raw value for field. When no decoder is registered it
// returns domain.ErrNoDecoder, which callers treat as a fallthrough signal
// rather than a failure.
func (r *Registry) Resolve(field string, raw any) (Wrapper, error) {
	decoder, ok := r.decoders[field]
	if !ok {
		return nil, fmt.Errorf("%w: field %q", domain.ErrNoDecoder, field)
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: field %q is %s, decoders expect an object",
			domain.ErrUnsupportedShape, field, typeName(raw))
	}

	wrapper, err := decoder.Decode(obj)
	if err != nil {
		return nil, fmt.Errorf("decoding field %q: %w", field, err)
	}
	return wrapper, nil
}

// NormalizeLocale canonicalizes a locale tag to the API's underscore form.
// Unparseable input falls back to DefaultLocale.
func NormalizeLocale(locale string) string {
	if locale == "" {
		return DefaultLocale
	}
	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return DefaultLocale
	}
	return strings.ReplaceAll(tag.String(), "-", "_")
}

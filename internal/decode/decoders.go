package decode

import (
	"fmt"

	"github.com/osgood/armorytrack/internal/domain"
)

// canonicalField is the default extraction field shared by all named decoders
const canonicalField = "name"

// namedDecoder handles the common sub-object shape: a `name` member holding
// either a locale-keyed map or a plain string (the API returns the former
// without a locale query parameter and the latter with one), plus optional
// `id` and `key.href` members.
type namedDecoder struct {
	locale string
}

func (d *namedDecoder) Decode(obj map[string]any) (Wrapper, error) {
	name, err := d.localizedString(obj, canonicalField)
	if err != nil {
		return nil, err
	}

	value := NamedValue{Name: name}

	if _, ok := obj["id"]; ok {
		id, err := intKey(obj, "id")
		if err != nil {
			return nil, err
		}
		value.ID = id
	}

	// key.href is the reference URL for a follow-up detail fetch. Its absence
	// is fine; resolving it is never done here.
	if keyObj, ok := obj["key"].(map[string]any); ok {
		if href, ok := keyObj["href"].(string); ok {
			value.Href = href
		}
	}

	return value, nil
}

// localizedString extracts obj[key] as either a locale map entry or a plain string
func (d *namedDecoder) localizedString(obj map[string]any, key string) (string, error) {
	raw, ok := obj[key]
	if !ok {
		return "", &KeyNotFoundError{Key: key, Available: sortedKeys(obj)}
	}

	switch v := raw.(type) {
	case map[string]any:
		localized, ok := v[d.locale]
		if !ok {
			return "", fmt.Errorf("locale %q missing from %q map: %w",
				d.locale, key, &KeyNotFoundError{Key: d.locale, Available: sortedKeys(v)})
		}
		s, ok := localized.(string)
		if !ok {
			return "", &TypeMismatchError{Key: d.locale, Expected: "string", Actual: typeName(localized)}
		}
		return s, nil
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("%w: key %q is %s, expected object or string",
			domain.ErrUnsupportedShape, key, typeName(raw))
	}
}

// genderPairDecoder decodes sub-objects carrying male/female name variants,
// delegating each side to the named decoder.
type genderPairDecoder struct {
	named *namedDecoder
}

func (d *genderPairDecoder) Decode(obj map[string]any) (Wrapper, error) {
	maleObj, err := mapKey(obj, "male")
	if err != nil {
		return nil, err
	}
	male, err := d.named.Decode(maleObj)
	if err != nil {
		return nil, fmt.Errorf("decoding male variant: %w", err)
	}

	femaleObj, err := mapKey(obj, "female")
	if err != nil {
		return nil, err
	}
	female, err := d.named.Decode(femaleObj)
	if err != nil {
		return nil, fmt.Errorf("decoding female variant: %w", err)
	}

	return GenderPair{
		Male:   male.(NamedValue),
		Female: female.(NamedValue),
	}, nil
}

// powerTypeDecoder decodes class resource sub-objects. Unlike the lenient
// named shape, both the locale-mapped name and the numeric id are required.
type powerTypeDecoder struct {
	locale string
}

func (d *powerTypeDecoder) Decode(obj map[string]any) (Wrapper, error) {
	nameObj, err := mapKey(obj, canonicalField)
	if err != nil {
		return nil, err
	}
	name, err := stringKey(nameObj, d.locale)
	if err != nil {
		return nil, err
	}
	id, err := intKey(obj, "id")
	if err != nil {
		return nil, err
	}

	return PowerType{Name: name, ID: id}, nil
}

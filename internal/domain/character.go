package domain

import (
	"fmt"
	"strings"
)

// KeySeparator joins the region, realm and name components of a character key.
// The resulting format is a uniqueness constraint in storage and must not change.
const KeySeparator = "|"

// KnownRegions lists the API regions a character may belong to
var KnownRegions = []string{"us", "eu", "kr", "tw", "cn"}

// Character is the long-lived root entity. Gear and progress records hang off
// its key and are invalid without it.
type Character struct {
	ID     int    `json:"character_id" db:"character_id"`
	Key    string `json:"key" db:"key"`
	Region string `json:"region" db:"region"`
	Realm  string `json:"realm" db:"realm"`
	Name   string `json:"name" db:"name"`
	Level  *int   `json:"level,omitempty" db:"level"` // nil until first refresh
}

// CharacterKey builds the canonical storage key region|realm|name, lowercased.
func CharacterKey(region, realm, name string) string {
	return strings.ToLower(strings.Join([]string{region, realm, name}, KeySeparator))
}

// ParseCharacterKey splits a canonical key back into its components.
func ParseCharacterKey(key string) (region, realm, name string, err error) {
	parts := strings.Split(key, KeySeparator)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", fmt.Errorf("%w: key %q must be region%srealm%sname", ErrMalformedKey, key, KeySeparator, KeySeparator)
	}
	return strings.ToLower(parts[0]), strings.ToLower(parts[1]), strings.ToLower(parts[2]), nil
}

// NewCharacter constructs a character from a key, verifying any explicitly
// supplied components against those embedded in the key. A mismatch is an
// identity conflict and is never resolved silently in favor of either side.
func NewCharacter(key, region, realm, name string) (*Character, error) {
	keyRegion, keyRealm, keyName, err := ParseCharacterKey(key)
	if err != nil {
		return nil, err
	}

	if region != "" && !strings.EqualFold(region, keyRegion) {
		return nil, fmt.Errorf("%w: region %q conflicts with key %q", ErrIdentityConflict, region, key)
	}
	if realm != "" && !strings.EqualFold(realm, keyRealm) {
		return nil, fmt.Errorf("%w: realm %q conflicts with key %q", ErrIdentityConflict, realm, key)
	}
	if name != "" && !strings.EqualFold(name, keyName) {
		return nil, fmt.Errorf("%w: name %q conflicts with key %q", ErrIdentityConflict, name, key)
	}

	if !IsKnownRegion(keyRegion) {
		return nil, fmt.Errorf("%w: %q (known regions: %s)", ErrUnknownRegion, keyRegion, strings.Join(KnownRegions, ", "))
	}

	return &Character{
		Key:    strings.ToLower(key),
		Region: keyRegion,
		Realm:  keyRealm,
		Name:   keyName,
	}, nil
}

// IsKnownRegion reports whether region is one of the supported API regions
func IsKnownRegion(region string) bool {
	for _, r := range KnownRegions {
		if strings.EqualFold(region, r) {
			return true
		}
	}
	return false
}

func (c *Character) String() string {
	return fmt.Sprintf("Character(key=%s, region=%s, realm=%s, name=%s)", c.Key, c.Region, c.Realm, c.Name)
}

package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Identity errors
	ErrMsgIdentityConflict = "identity conflict"
	ErrMsgMalformedKey     = "malformed character key"
	ErrMsgUnknownRegion    = "unknown region"

	// Lookup errors
	ErrMsgCharacterNotFound = "character not found"

	// Decode errors
	ErrMsgNoDecoder        = "no decoder registered"
	ErrMsgUnsupportedShape = "unsupported field shape"
	ErrMsgAmbiguousField   = "ambiguous canonical field"

	// Gear errors
	ErrMsgUnknownSlot = "unknown equipment slot"

	// Upstream API errors
	ErrMsgUnknownRealm   = "unknown realm"
	ErrMsgAmbiguousRealm = "ambiguous realm"
	ErrMsgMissingToken   = "missing oauth token"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Identity errors
	ErrIdentityConflict = errors.New(ErrMsgIdentityConflict)
	ErrMalformedKey     = errors.New(ErrMsgMalformedKey)
	ErrUnknownRegion    = errors.New(ErrMsgUnknownRegion)

	// Lookup errors
	ErrCharacterNotFound = errors.New(ErrMsgCharacterNotFound)

	// Decode errors
	// ErrNoDecoder is a sentinel, not a failure: the materializer falls back
	// to scalar passthrough or composite drop when it is returned.
	ErrNoDecoder        = errors.New(ErrMsgNoDecoder)
	ErrUnsupportedShape = errors.New(ErrMsgUnsupportedShape)
	ErrAmbiguousField   = errors.New(ErrMsgAmbiguousField)

	// Gear errors
	ErrUnknownSlot = errors.New(ErrMsgUnknownSlot)

	// Upstream API errors
	ErrUnknownRealm   = errors.New(ErrMsgUnknownRealm)
	ErrAmbiguousRealm = errors.New(ErrMsgAmbiguousRealm)
	ErrMissingToken   = errors.New(ErrMsgMissingToken)
)

package sessionstore

import "errors"

var (
	// ErrTierUnavailable indicates the tier backend could not be reached
	ErrTierUnavailable = errors.New("sessionstore.tier_unavailable")

	// ErrMalformedRecord indicates a stored record that cannot be decoded.
	// The store handles this internally by discarding the record; the
	// sentinel exists for tier implementations and tests.
	ErrMalformedRecord = errors.New("sessionstore.malformed_record")

	// ErrInvalidRecord indicates an attempt to write a partially populated session
	ErrInvalidRecord = errors.New("sessionstore.invalid_record")

	// ErrUnknownTier indicates a write to a tier kind the store does not know
	ErrUnknownTier = errors.New("sessionstore.unknown_tier")
)

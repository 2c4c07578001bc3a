package fit

import "errors"

// Sentinel errors, plain wrapped stdlib errors rather than a code-registry
// renderer.
var (
	// ErrAttributeNotFound is returned by Holder.Get when an attribute has
	// neither a static base value nor any affector contributing to it.
	ErrAttributeNotFound = errors.New("fit: attribute not found")

	// ErrInvalidState is returned when a caller tries to raise a holder
	// above its type's max_state.
	ErrInvalidState = errors.New("fit: invalid state for holder")

	// ErrAlreadyInFit is returned by Fit.Add when the holder is already a
	// member of a fit.
	ErrAlreadyInFit = errors.New("fit: holder already belongs to a fit")

	// ErrNotInFit is returned by Fit.Remove / pairing operations when the
	// holder is not a member of this fit.
	ErrNotInFit = errors.New("fit: holder does not belong to this fit")

	// ErrShipAlreadySet / ErrCharacterAlreadySet guard the fit-wide
	// singleton roles referenced by domain=ship / domain=character
	// resolution.
	ErrShipAlreadySet      = errors.New("fit: ship already set")
	ErrCharacterAlreadySet = errors.New("fit: character already set")

	// ErrNotSkillHolder is returned by SetSkillLevel on a non-skill holder.
	ErrNotSkillHolder = errors.New("fit: holder is not a skill")
)

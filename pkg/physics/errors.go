package physics

import (
	errorsmod "cosmossdk.io/errors"
)

// Codespace is the error codespace for the physics package.
const Codespace = "physics"

var (
	ErrInvalidMass      = errorsmod.Register(Codespace, 2, "invalid mass")
	ErrInvalidRadius    = errorsmod.Register(Codespace, 3, "invalid radius")
	ErrInvalidVelocity  = errorsmod.Register(Codespace, 4, "invalid velocity")
	ErrInvalidGamma     = errorsmod.Register(Codespace, 5, "invalid lorentz factor")
	ErrTargetOutOfRange = errorsmod.Register(Codespace, 6, "target dilation factor out of range")
	ErrNotBracketed     = errorsmod.Register(Codespace, 7, "target dilation factor could not be bracketed")
	ErrInvalidPosition  = errorsmod.Register(Codespace, 8, "invalid observer position")
	ErrBodyOutOfRange   = errorsmod.Register(Codespace, 9, "body outside the representable range")
)

package catalog

import (
	errorsmod "cosmossdk.io/errors"
)

const Codespace = "catalog"

var (
	ErrUnknownBody   = errorsmod.Register(Codespace, 2, "unknown body")
	ErrDuplicateBody = errorsmod.Register(Codespace, 3, "body already exists")
	ErrInvalidBody   = errorsmod.Register(Codespace, 4, "invalid body")
	ErrUnknownKind   = errorsmod.Register(Codespace, 5, "unknown body kind")
	ErrUnknownPreset = errorsmod.Register(Codespace, 6, "unknown preset")
	ErrEmptyCatalog  = errorsmod.Register(Codespace, 7, "no candidate bodies")
	ErrReadOnlyBody  = errorsmod.Register(Codespace, 8, "reference bodies cannot be modified")
)

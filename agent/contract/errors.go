package contract

import "errors"

var (
	ErrModelInvoke  = errors.New("model invoke failed")
	ErrValidation   = errors.New("validation failed")
	ErrLeadNotFound = errors.New("lead not found")
	ErrSlotTaken    = errors.New("slot already taken")
)

package queue

import "seat-queue/internal/pkg/errs"

var (
	ErrEmptyName     = errs.Wrap(errs.ErrValidation, "name cannot be empty")
	ErrNameTooLong   = errs.Wrapf(errs.ErrValidation, "name is too long (max %d characters)", MaxNameLength)
	ErrUnknownStatus = errs.Wrap(errs.ErrValidation, "unknown reservation status")

	ErrNotFound = errs.Wrap(errs.ErrNotFound, "reservation not found")

	ErrInvalidTransition = errs.Wrap(errs.ErrInvalidTransition, "invalid status transition")
	ErrCapacityExceeded  = errs.Wrap(ErrInvalidTransition, "no seat available")
)

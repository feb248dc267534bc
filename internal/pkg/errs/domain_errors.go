package errs

// Error kinds shared by every layer. Concrete errors wrap one of these so handlers
// can map them to a status without knowing the concrete cause.
var (
	// Malformed input rejected before any state change
	ErrValidation = New("validation error")

	// Unknown queue number
	ErrNotFound = New("not found")

	// Illegal state change, including admission while every seat is taken
	ErrInvalidTransition = New("invalid transition")
)

package portal

import "errors"

// Sentinel errors for portal operations.
//
// Programmer misuse (nil controllers, double Sync, malformed identifiers)
// is not represented here; those are integration bugs and panic instead.
var (
	// ErrOwnerTimeout is reported by RequireOwner when no live instance of
	// the identifier appeared within the bounded wait.
	ErrOwnerTimeout = errors.New("portal: owner lookup timed out")

	// ErrInvalidDirective is returned when an action directive token cannot
	// be parsed.
	ErrInvalidDirective = errors.New("portal: invalid action directive")

	// ErrNoAction is reported when a routed directive names a method the
	// resolved instance has not registered.
	ErrNoAction = errors.New("portal: no action registered for method")
)

// IsOwnerTimeout checks if err is an owner-lookup timeout.
func IsOwnerTimeout(err error) bool {
	return errors.Is(err, ErrOwnerTimeout)
}

// IsInvalidDirective checks if err is a directive parse failure.
func IsInvalidDirective(err error) bool {
	return errors.Is(err, ErrInvalidDirective)
}

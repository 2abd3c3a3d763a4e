// Package tenant resolves the tenant behind a request to a live database
// handle. It composes a credential provider with the connection cache and
// classifies failures so HTTP layers can answer with the right status.
package tenant

import (
	"errors"

	"github.com/eatwithme/etm-core/sdk/pkg/tenant/credentials"
)

var (
	// ErrMissingTenantID means the request carried no tenant id in the body,
	// header or query parameter.
	ErrMissingTenantID = errors.New("missing tenant id")

	// ErrCredentialsNotFound means the tenant id is well-formed but unknown.
	ErrCredentialsNotFound = errors.New("tenant not found")

	// ErrUpstreamUnavailable means the credential source could not be reached.
	ErrUpstreamUnavailable = errors.New("tenant credential source unavailable")

	// ErrConnectionFailed means credentials resolved but the tenant database
	// could not be opened or validated.
	ErrConnectionFailed = errors.New("tenant database connection failed")
)

// Classify maps a resolution error onto the package taxonomy, preserving the
// original as the wrapped cause.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, credentials.ErrInvalidTenantID):
		return wrapped{ErrMissingTenantID, err}
	case errors.Is(err, credentials.ErrNotFound):
		return wrapped{ErrCredentialsNotFound, err}
	case errors.Is(err, credentials.ErrUnavailable):
		return wrapped{ErrUpstreamUnavailable, err}
	default:
		return wrapped{ErrConnectionFailed, err}
	}
}

// wrapped pairs a taxonomy sentinel with the underlying cause so both are
// matchable with errors.Is.
type wrapped struct {
	kind  error
	cause error
}

func (w wrapped) Error() string { return w.kind.Error() + ": " + w.cause.Error() }

func (w wrapped) Is(target error) bool { return target == w.kind }

func (w wrapped) Unwrap() error { return w.cause }

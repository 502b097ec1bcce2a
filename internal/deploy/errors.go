package deploy

import (
	"errors"
	"fmt"
)

// Sentinel errors for deploy configuration misuse. They are always wrapped
// in a *ConfigurationError and can be matched with errors.Is.
var (
	// ErrGlobalsNotAllowed indicates a namespaced deploy was asked to manage
	// cluster-scoped resources.
	ErrGlobalsNotAllowed = errors.New("global resources are not allowed in a namespaced deploy")

	// ErrNamespaceRequired indicates a namespaced deploy without a namespace.
	ErrNamespaceRequired = errors.New("namespace is required")

	// ErrProtectedNamespace indicates a pruning deploy into a protected
	// namespace without an explicit override.
	ErrProtectedNamespace = errors.New("namespace is protected")

	// ErrNamespaceNotFound indicates the target namespace does not exist.
	ErrNamespaceNotFound = errors.New("namespace not found")

	// ErrSelectorRequired indicates a global deploy without a selector.
	ErrSelectorRequired = errors.New("selector is required")

	// ErrNoManifests indicates a deploy without manifest paths.
	ErrNoManifests = errors.New("no manifest paths given")
)

// ConfigurationError reports a deploy that was set up incorrectly. It is
// returned before any cluster I/O is attempted.
type ConfigurationError struct {
	// Reason is a message for the person running the deploy.
	Reason string
	// Err is the sentinel describing the kind of misuse.
	Err error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid deploy configuration: %s", e.Reason)
}

// Unwrap returns the sentinel error for use with errors.Is().
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// UserFacingError returns the message to show on the command line.
func (e *ConfigurationError) UserFacingError() string {
	return e.Reason
}

// IsConfigurationError reports whether err is or wraps a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

func configurationError(sentinel error, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...), Err: sentinel}
}

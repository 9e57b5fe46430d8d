package contract

import (
	"fmt"

	"winsfinder/schema"
)

// ConfigurationError indicates a missing credential or setting for a
// service. It is surfaced to the caller as a descriptive message and
// never retried automatically.
type ConfigurationError struct {
	Service schema.Service
	EnvVar  string
	Help    string
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("%s credentials not configured: set %s", e.Service, e.EnvVar)
	if e.Help != "" {
		msg += ". " + e.Help
	}
	return msg
}

// RemoteServiceError indicates an HTTP failure, rate limit, or malformed
// response from an external API.
type RemoteServiceError struct {
	Service schema.Service
	Op      string
	Err     error
}

func (e *RemoteServiceError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Service, e.Op, e.Err)
}

func (e *RemoteServiceError) Unwrap() error {
	return e.Err
}

// Package errs provides the error types the web handlers respond with.
package errs

import "errors"

// Response is the shape every API failure is reported in.
type Response struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Trusted wraps an error whose message is safe to show the client,
// together with the HTTP status to respond with. Handlers use it for
// expected failures; anything else is reported as a bare 500.
type Trusted struct {
	Err    error
	Status int
}

// NewTrusted wraps the provided error with an HTTP status code.
func NewTrusted(err error, status int) error {
	return &Trusted{err, status}
}

// Error implements the error interface using the wrapped error's message.
func (t *Trusted) Error() string {
	return t.Err.Error()
}

// IsTrusted reports whether a Trusted error exists in the chain.
func IsTrusted(err error) bool {
	var t *Trusted
	return errors.As(err, &t)
}

// GetTrusted extracts the Trusted error from the chain, or nil.
func GetTrusted(err error) *Trusted {
	var t *Trusted
	if !errors.As(err, &t) {
		return nil
	}
	return t
}

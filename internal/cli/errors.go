package cli

import "errors"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// runtimeError marks a failure after arguments were accepted. Anything else
// cobra returns is a usage error.
func runtimeError(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	return &ExitError{Code: 1, Message: err.Error()}
}

func usageError(err error) *ExitError {
	return &ExitError{Code: 2, Message: err.Error()}
}

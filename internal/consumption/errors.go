package consumption

import "errors"

// ErrInvalidParameter matches every *ParamError via errors.Is.
var ErrInvalidParameter = errors.New("invalid parameter")

// ParamError reports a request parameter that failed validation. It is
// returned before the executor is contacted.
type ParamError struct {
	Field  string
	Reason string
}

func (e *ParamError) Error() string {
	return e.Field + ": " + e.Reason
}

// Is makes errors.Is(err, ErrInvalidParameter) true.
func (e *ParamError) Is(target error) bool {
	return target == ErrInvalidParameter
}

func invalid(field, reason string) error {
	return &ParamError{Field: field, Reason: reason}
}

// ExecutionError wraps a failure returned by the Executor. The original
// error is kept intact and reachable through Unwrap.
type ExecutionError struct {
	Endpoint string
	Err      error
}

func (e *ExecutionError) Error() string {
	return "execute " + e.Endpoint + ": " + e.Err.Error()
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

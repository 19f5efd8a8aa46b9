package ops

import "fmt"

// ValidationError reports a caller-supplied argument that failed a declared
// constraint. Field and Constraint are stable strings the API layer forwards
// to the client so it can point at the offending parameter.
type ValidationError struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Field, e.Constraint)
}

// UnresolvedError reports an operation identifier with no registry entry.
type UnresolvedError struct {
	Name string `json:"operation"`
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("unknown operation %q", e.Name)
}

// BuildError reports that a filter graph could not be constructed from
// otherwise-valid arguments (for example a transition with a single clip).
type BuildError struct {
	Op     string `json:"operation"`
	Reason string `json:"reason"`
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("cannot build %s: %s", e.Op, e.Reason)
}

func buildErr(op, format string, args ...any) *BuildError {
	return &BuildError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

package common

import "fmt"

// ResourceCreationError reports a GPU or program resource that could not be created.
// It is fatal at startup: callers abort rather than retry.
type ResourceCreationError struct {
	// Resource names what was being created, e.g. "gbuffer albedo attachment".
	Resource string
	// Err is the underlying backend or validation error.
	Err error
}

func (e *ResourceCreationError) Error() string {
	return fmt.Sprintf("failed to create %s: %v", e.Resource, e.Err)
}

func (e *ResourceCreationError) Unwrap() error {
	return e.Err
}

// NewResourceCreationError wraps err for resource. Returns nil when err is nil.
func NewResourceCreationError(resource string, err error) error {
	if err == nil {
		return nil
	}
	return &ResourceCreationError{Resource: resource, Err: err}
}

package internal

import "github.com/pkg/errors"

// Threading errors through every flip and split would bury the mesh
// operations in bookkeeping. Instead, contract violations panic with a
// MeshError, and the public API recovers to convert to an error.

type MeshError struct {
	err error
}

func (e *MeshError) Error() string {
	return e.err.Error()
}

func (e *MeshError) Unwrap() error {
	return e.err
}

func (e *MeshError) Cause() error {
	return e.err
}

// Panic with a MeshError.
func fatalf(format string, args ...interface{}) {
	panic(&MeshError{errors.Errorf(format, args...)})
}

// Panic with a MeshError wrapping err.
func fatalWrap(err error, format string, args ...interface{}) {
	panic(&MeshError{errors.Wrapf(err, format, args...)})
}

// Convert a recovered MeshError into an error. Any other panic value is
// re-raised, since it means something other than a broken mesh contract went
// wrong.
func HandleMeshPanicRecover(r interface{}) error {
	if r != nil {
		if meshError, ok := r.(*MeshError); ok {
			return meshError
		}
		panic(r)
	}
	return nil
}

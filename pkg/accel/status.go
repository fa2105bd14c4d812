package accel

import (
	"errors"
	"fmt"

	"github.com/Faultbox/physical-layout/pkg/geometry"
	"github.com/Faultbox/physical-layout/pkg/instancer"
	"github.com/Faultbox/physical-layout/pkg/record"
)

// Status is the result code of a C ABI call.
type Status int32

const (
	StatusOK Status = iota
	StatusInvalidGeometry
	StatusIndexOutOfBounds
	StatusCountMismatch
	StatusInvalidInstanceID
	StatusInvalidMatrix
	StatusEmptyMasterMesh
	StatusInvalidHandle
	StatusInvalidRecord
	StatusInternal Status = 99
)

var statusErrors = []struct {
	status Status
	err    error
}{
	{StatusInvalidGeometry, geometry.ErrInvalidGeometry},
	{StatusIndexOutOfBounds, geometry.ErrIndexOutOfBounds},
	{StatusCountMismatch, geometry.ErrCountMismatch},
	{StatusInvalidInstanceID, instancer.ErrInvalidInstanceID},
	{StatusInvalidMatrix, instancer.ErrInvalidMatrix},
	{StatusEmptyMasterMesh, instancer.ErrEmptyMasterMesh},
	{StatusInvalidHandle, ErrInvalidHandle},
	{StatusInvalidRecord, record.ErrInvalidRecord},
}

// StatusOf maps an error to the code reported across the C ABI.
func StatusOf(err error) Status {
	if err == nil {
		return StatusOK
	}
	for _, se := range statusErrors {
		if errors.Is(err, se.err) {
			return se.status
		}
	}
	return StatusInternal
}

// Err maps a code back to its sentinel error, nil for StatusOK.
func (s Status) Err() error {
	if s == StatusOK {
		return nil
	}
	for _, se := range statusErrors {
		if se.status == s {
			return se.err
		}
	}
	return fmt.Errorf("native call failed with status %d", int32(s))
}

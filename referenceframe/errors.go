package referenceframe

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrModelNotFinalized is returned by queries made before Finalize has succeeded.
	ErrModelNotFinalized = errors.New("model has not been finalized")
	// ErrModelFinalized is returned by attempts to change the attachment graph of a finalized model.
	ErrModelFinalized = errors.New("model is finalized and its frames can no longer change")
	// ErrNoModelInformation is used when there is no model information.
	ErrNoModelInformation = errors.New("no model information")
)

// InvalidStateError is returned when a transform is requested from a state that has not been realized far enough.
// The query fails rather than answering from coordinates that may be stale.
type InvalidStateError struct {
	Frame    string
	Stage    Stage
	Required Stage
}

// NewInvalidStateError returns an error indicating that a state is realized to stage but required is needed.
func NewInvalidStateError(frame string, stage, required Stage) error {
	return &InvalidStateError{Frame: frame, Stage: stage, Required: required}
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot compute transform of frame %q: state is realized to stage %s, need at least %s",
		e.Frame, e.Stage, e.Required)
}

// ModelAssemblyError reports a malformed attachment graph found while finalizing a model. Chain holds the names of
// the frames visited from Frame before the defect was found.
type ModelAssemblyError struct {
	Frame  string
	Chain  []string
	Reason string
}

// NewModelAssemblyError returns an error describing why the ancestry of frame, walked as far as chain, is invalid.
func NewModelAssemblyError(frame string, chain []string, reason string) error {
	return &ModelAssemblyError{Frame: frame, Chain: chain, Reason: reason}
}

func (e *ModelAssemblyError) Error() string {
	return fmt.Sprintf("cannot assemble frame %q (ancestry %s): %s", e.Frame, strings.Join(e.Chain, " -> "), e.Reason)
}

// NullReferenceError is returned when a query names a frame that is nil or that the queried model does not own.
type NullReferenceError struct {
	Frame string
	Model string
}

// NewNullReferenceError returns an error indicating frame is not a member of model. An empty frame means nil.
func NewNullReferenceError(frame, model string) error {
	return &NullReferenceError{Frame: frame, Model: model}
}

func (e *NullReferenceError) Error() string {
	if e.Frame == "" {
		return fmt.Sprintf("nil frame reference given to model %q", e.Model)
	}
	return fmt.Sprintf("frame %q does not belong to model %q", e.Frame, e.Model)
}

// NewParentFrameMissingError returns an error indicating that a frame is missing a parent.
func NewParentFrameMissingError(frame string) error {
	return errors.Errorf("offset frame %q must name a parent frame", frame)
}

// NewFrameMissingError returns an error indicating that the given frame is missing from the model.
func NewFrameMissingError(frameName string) error {
	return errors.Errorf("frame with name %q not in model", frameName)
}

// NewDuplicateFrameError returns an error indicating that a frame name is already taken.
func NewDuplicateFrameError(frameName string) error {
	return errors.Errorf("frame with name %q already in model", frameName)
}

// NewReservedWordError returns an error indicating that the name of a config item is reserved.
func NewReservedWordError(configType, reservedWord string) error {
	return errors.Errorf("reserved word: cannot name a %s '%s'", configType, reservedWord)
}

// NewDifferentBaseError returns an error indicating that two frames do not ride on the same rigid body.
func NewDifferentBaseError(frame, other, frameBase, otherBase string) error {
	return errors.Errorf("frames %q and %q do not share a base frame (%q and %q)", frame, other, frameBase, otherBase)
}

// NewFrameNotPointerError returns an error indicating that a frame is not a pointer and so has no identity of its own.
func NewFrameNotPointerError(frameName, kind string) error {
	return errors.Errorf("frame %q is a %s, frames must be pointers", frameName, kind)
}

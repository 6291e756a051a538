// Package referenceframe defines the api and does the math of translating between reference frames attached to an
// articulated rigid body model. Useful when a muscle attachment point is defined on an anatomical landmark that is
// itself placed on a bone, and a force computed in one frame has to be applied in another, or when two points must
// be recognized as riding on the same bone.
package referenceframe

import (
	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"github.com/musculo/kinframe/spatialmath"
)

// Ground is the name of the fixed frame every model is rooted at.
const Ground = "ground"

// Frame represents a right-handed orthonormal coordinate system attached to a model, e.g. a bone, a joint
// location, a muscle attachment or a contact surface. Concrete frames supply their ground transform and their
// ancestry link; the owning Model builds every other query on top of these methods.
//
// Implementations must be comparable, in practice pointers, since frames are identified by reference.
type Frame interface {
	// Name returns the name of the frame, unique within its model.
	Name() string

	// CalcGroundTransform returns X_GF, the transform re-expressing quantities given in this frame in ground, at the
	// given state. Callers should use GroundTransform, which checks the state's stage and caches the result.
	CalcGroundTransform(s State) (spatialmath.Pose, error)

	// ExtendFindBaseFrame returns the next frame in this frame's ancestry chain. A frame that is itself a base
	// returns itself.
	ExtendFindBaseFrame() Frame

	// ExtendFindTransformInBaseFrame returns the fixed transform from this frame to the frame returned by
	// ExtendFindBaseFrame, X_NF. A frame that is itself a base returns the identity.
	ExtendFindTransformInBaseFrame() spatialmath.Pose
}

// Connector is implemented by frames that refer to other frames by name. The model calls ConnectFrames once, while
// finalizing, before any ancestry or transform query is made.
type Connector interface {
	ConnectFrames(lookup func(name string) (Frame, bool)) error
}

// groundFrame is the fixed frame of the model. Its ground transform is the identity and it is its own base.
type groundFrame struct{}

// NewGroundFrame returns a ground frame. Every Model creates its own.
func NewGroundFrame() Frame {
	return &groundFrame{}
}

func (gf *groundFrame) Name() string {
	return Ground
}

func (gf *groundFrame) CalcGroundTransform(s State) (spatialmath.Pose, error) {
	return spatialmath.NewZeroPose(), nil
}

func (gf *groundFrame) ExtendFindBaseFrame() Frame {
	return gf
}

func (gf *groundFrame) ExtendFindTransformInBaseFrame() spatialmath.Pose {
	return spatialmath.NewZeroPose()
}

// a bodyFrame is fixed to a moving rigid body. Its pose is read from the state and it always terminates an
// ancestry chain.
type bodyFrame struct {
	ownership
	name string
}

// NewBodyFrame creates the frame of the rigid body with the given name. Its ground transform is the body's pose in
// whatever state it is queried at.
func NewBodyFrame(name string) (Frame, error) {
	if name == "" {
		return nil, errors.New("body frame must have a name")
	}
	return &bodyFrame{name: name}, nil
}

func (bf *bodyFrame) Name() string {
	return bf.name
}

func (bf *bodyFrame) CalcGroundTransform(s State) (spatialmath.Pose, error) {
	return s.BodyTransform(bf.name)
}

func (bf *bodyFrame) ExtendFindBaseFrame() Frame {
	return bf
}

func (bf *bodyFrame) ExtendFindTransformInBaseFrame() spatialmath.Pose {
	return spatialmath.NewZeroPose()
}

// an offsetFrame is rigidly fixed to a parent frame by a constant transform. It is the only kind of frame that
// appears in the middle of an ancestry chain.
type offsetFrame struct {
	ownership
	name       string
	parentName string
	offset     spatialmath.Pose

	// resolved by ConnectFrames; not owned.
	parent Frame
}

// NewOffsetFrame creates a frame whose pose relative to the named parent frame, X_PF, is fixed for all time.
// The parent is looked up when the owning model is finalized. Offset is not allowed to be nil.
func NewOffsetFrame(name, parentName string, offset spatialmath.Pose) (Frame, error) {
	if name == "" {
		return nil, errors.New("offset frame must have a name")
	}
	if parentName == "" {
		return nil, NewParentFrameMissingError(name)
	}
	if offset == nil {
		return nil, errors.New("offset is not allowed to be nil")
	}
	return &offsetFrame{name: name, parentName: parentName, offset: offset}, nil
}

func (of *offsetFrame) Name() string {
	return of.name
}

// ConnectFrames resolves the parent frame by name.
func (of *offsetFrame) ConnectFrames(lookup func(name string) (Frame, bool)) error {
	if of.parentName == of.name {
		return NewModelAssemblyError(of.name, []string{of.name, of.name}, "ancestry chain is cyclic")
	}
	parent, ok := lookup(of.parentName)
	if !ok {
		return NewModelAssemblyError(of.name, []string{of.name, of.parentName}, "parent frame not found in model")
	}
	if of.parent != nil && of.parent != parent {
		return NewModelAssemblyError(of.name, []string{of.name, of.parentName},
			"frame is already connected to another parent")
	}
	of.parent = parent
	return nil
}

// CalcGroundTransform composes the parent's ground transform with the fixed offset: X_GF = X_GP * X_PF.
func (of *offsetFrame) CalcGroundTransform(s State) (spatialmath.Pose, error) {
	if of.parent == nil {
		return nil, NewModelAssemblyError(of.name, []string{of.name}, "parent frame has not been connected")
	}
	parentInGround, err := GroundTransform(s, of.parent)
	if err != nil {
		return nil, err
	}
	return spatialmath.Compose(parentInGround, of.offset), nil
}

func (of *offsetFrame) ExtendFindBaseFrame() Frame {
	return of.parent
}

func (of *offsetFrame) ExtendFindTransformInBaseFrame() spatialmath.Pose {
	return of.offset
}

// disconnect forgets the resolved parent, used when finalization of the owning model fails.
func (of *offsetFrame) disconnect() {
	of.parent = nil
}

// disconnector is implemented by the frames of this package that hold resolved references.
type disconnector interface {
	disconnect()
}

// ownedFrame is implemented by the frames of this package, each of which belongs to at most one model.
type ownedFrame interface {
	claim(m *Model) bool
	release(m *Model)
}

type ownership struct {
	owner atomic.Pointer[Model]
}

// claim makes m the owner of the frame. It fails if another model already owns it.
func (o *ownership) claim(m *Model) bool {
	return o.owner.CompareAndSwap(nil, m) || o.owner.Load() == m
}

func (o *ownership) release(m *Model) {
	o.owner.CompareAndSwap(m, nil)
}

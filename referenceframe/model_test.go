package referenceframe

import (
	"math"
	"strings"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/test"

	"github.com/musculo/kinframe/logging"
	"github.com/musculo/kinframe/spatialmath"
)

var (
	humerusPose = spatialmath.NewPoseFromAxisAngle(r3.Vector{X: 0.3, Y: -1.2, Z: 2}, r3.Vector{X: 1, Y: 2, Z: -0.5}, 1.1)
	radiusPose  = spatialmath.NewPoseFromAxisAngle(r3.Vector{X: -4, Y: 0.25, Z: 1}, r3.Vector{X: 0.2, Y: -1, Z: 1}, -2.4)
)

func TestIdentityTransform(t *testing.T) {
	m := newArmModel(t)
	s := newArmState(t, humerusPose, radiusPose)
	for _, name := range m.FrameNames() {
		f := m.Frame(name)
		pose, err := m.FindTransformBetween(s, f, f)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, spatialmath.IsIdentityPose(pose), test.ShouldBeTrue)
	}
}

func TestInversePairLaw(t *testing.T) {
	m := newArmModel(t)
	s := newArmState(t, humerusPose, radiusPose)
	names := m.FrameNames()
	for _, fName := range names {
		for _, aName := range names {
			f, a := m.Frame(fName), m.Frame(aName)
			frameInOther, err := m.FindTransformBetween(s, f, a)
			test.That(t, err, test.ShouldBeNil)
			otherInFrame, err := m.FindTransformBetween(s, a, f)
			test.That(t, err, test.ShouldBeNil)

			roundTrip := spatialmath.Compose(otherInFrame, frameInOther)
			test.That(t, roundTrip.Point().Norm(), test.ShouldBeLessThan, 1e-10)
			rm := roundTrip.Orientation().RotationMatrix()
			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					want := 0.
					if i == j {
						want = 1
					}
					test.That(t, rm.At(i, j), test.ShouldAlmostEqual, want, 1e-10)
				}
			}
			test.That(t, rm.OrthogonalityError(), test.ShouldBeLessThan, 1e-10)
		}
	}
}

func TestVectorVersusPoint(t *testing.T) {
	m := newArmModel(t)
	s := newArmState(t, humerusPose, radiusPose)
	humerus, elbow := m.Frame("humerus"), m.Frame("elbow")
	v := r3.Vector{X: 1, Y: 2, Z: 3}

	// humerus and elbow share an orientation but not an origin
	vec, err := m.ExpressVectorInAnotherFrame(s, v, elbow, humerus)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(vec, v, 1e-10), test.ShouldBeTrue)

	pt, err := m.FindLocationInAnotherFrame(s, v, elbow, humerus)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(pt, v.Add(r3.Vector{Y: 1}), 1e-10), test.ShouldBeTrue)

	// across bodies the vector result equals the rotated point minus the transformed origin
	wrist, marker := m.Frame("wrist"), m.Frame("marker")
	vec, err = m.ExpressVectorInAnotherFrame(s, v, wrist, marker)
	test.That(t, err, test.ShouldBeNil)
	pt, err = m.FindLocationInAnotherFrame(s, v, wrist, marker)
	test.That(t, err, test.ShouldBeNil)
	origin, err := m.FindLocationInAnotherFrame(s, r3.Vector{}, wrist, marker)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(vec, pt.Sub(origin), 1e-9), test.ShouldBeTrue)
	test.That(t, spatialmath.R3VectorAlmostEqual(vec, pt, 1e-3), test.ShouldBeFalse)
	test.That(t, vec.Norm(), test.ShouldAlmostEqual, v.Norm(), 1e-10)
}

func TestMarkerInGround(t *testing.T) {
	m := newArmModel(t)
	s := newArmState(t, spatialmath.NewPoseFromPoint(r3.Vector{X: 1}), radiusPose)

	pose, err := m.GroundTransform(s, m.Frame("marker"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(pose.Point(), r3.Vector{X: 1.5, Y: 1}, 1e-12), test.ShouldBeTrue)

	// the marker x axis points along ground y
	x, err := m.ExpressVectorInAnotherFrame(s, r3.Vector{X: 1}, m.Frame("marker"), m.Ground())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(x, r3.Vector{Y: 1}, 1e-12), test.ShouldBeTrue)
}

func TestBaseFrameIdempotence(t *testing.T) {
	m := newArmModel(t)
	for _, name := range m.FrameNames() {
		f := m.Frame(name)
		base, err := m.FindBaseFrame(f)
		test.That(t, err, test.ShouldBeNil)
		baseOfBase, err := m.FindBaseFrame(base)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, baseOfBase, test.ShouldEqual, base)

		baseInBase, err := m.FindTransformInBaseFrame(base)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, spatialmath.IsIdentityPose(baseInBase), test.ShouldBeTrue)
	}

	markerBase, err := m.FindBaseFrame(m.Frame("marker"))
	test.That(t, err, test.ShouldBeNil)
	elbowBase, err := m.FindBaseFrame(m.Frame("elbow"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, markerBase, test.ShouldEqual, m.Frame("humerus"))
	test.That(t, elbowBase, test.ShouldEqual, markerBase)

	groundBase, err := m.FindBaseFrame(m.Ground())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, groundBase, test.ShouldEqual, m.Ground())
}

func TestAncestryChain(t *testing.T) {
	m := newArmModel(t)
	chain, err := m.AncestryChain(m.Frame("marker"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(chain), test.ShouldEqual, 3)
	test.That(t, chain[0].Name(), test.ShouldEqual, "marker")
	test.That(t, chain[1].Name(), test.ShouldEqual, "elbow")
	test.That(t, chain[2].Name(), test.ShouldEqual, "humerus")

	// callers cannot change the memoized chain
	chain[2] = nil
	again, err := m.AncestryChain(m.Frame("marker"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, again[2], test.ShouldEqual, m.Frame("humerus"))

	markerInBase, err := m.FindTransformInBaseFrame(m.Frame("marker"))
	test.That(t, err, test.ShouldBeNil)
	expected := spatialmath.NewPoseFromAxisAngle(r3.Vector{X: 0.5, Y: 1}, r3.Vector{Z: 1}, math.Pi/2)
	test.That(t, spatialmath.PoseAlmostEqualEps(markerInBase, expected, 1e-12), test.ShouldBeTrue)
}

func TestSameBaseShortcut(t *testing.T) {
	m := newArmModel(t)
	marker, elbow, humerus, wrist := m.Frame("marker"), m.Frame("elbow"), m.Frame("humerus"), m.Frame("wrist")

	same, err := m.SameBase(marker, elbow)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, same, test.ShouldBeTrue)
	same, err = m.SameBase(marker, wrist)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, same, test.ShouldBeFalse)

	shortcut, err := m.FindTransformBetweenInBase(marker, elbow)
	test.That(t, err, test.ShouldBeNil)
	for _, pose := range []spatialmath.Pose{humerusPose, radiusPose, spatialmath.NewZeroPose()} {
		s := newArmState(t, pose, radiusPose)
		full, err := m.FindTransformBetween(s, marker, elbow)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, spatialmath.PoseAlmostEqualEps(shortcut, full, 1e-10), test.ShouldBeTrue)

		full, err = m.FindTransformBetween(s, elbow, humerus)
		test.That(t, err, test.ShouldBeNil)
		elbowInHumerus, err := m.FindTransformBetweenInBase(elbow, humerus)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, spatialmath.PoseAlmostEqualEps(elbowInHumerus, full, 1e-10), test.ShouldBeTrue)
	}

	_, err = m.FindTransformBetweenInBase(marker, wrist)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "do not share a base frame")
}

func TestTransformPose(t *testing.T) {
	m := newArmModel(t)
	s := newArmState(t, spatialmath.NewPoseFromPoint(r3.Vector{X: 1}), radiusPose)

	pif, err := m.TransformPose(s, NewZeroPoseInFrame("elbow"), Ground)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pif.FrameName(), test.ShouldEqual, Ground)
	test.That(t, spatialmath.R3VectorAlmostEqual(pif.Pose().Point(), r3.Vector{X: 1, Y: 1}, 1e-12), test.ShouldBeTrue)

	back, err := m.TransformPose(s, pif, "elbow")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, back.AlmostEqual(NewZeroPoseInFrame("elbow")), test.ShouldBeTrue)

	_, err = m.TransformPose(s, NewZeroPoseInFrame("shoulder"), Ground)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "shoulder")
	_, err = m.TransformPose(s, pif, "shoulder")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestCycleRejection(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	m := NewModel("cyclic", logger)
	a, err := NewOffsetFrame("a", "b", spatialmath.NewPoseFromPoint(r3.Vector{X: 1}))
	mustAdd(t, m, a, err)
	b, err := NewOffsetFrame("b", "a", spatialmath.NewPoseFromPoint(r3.Vector{Y: 1}))
	mustAdd(t, m, b, err)

	err = m.Finalize()
	test.That(t, err, test.ShouldNotBeNil)
	errs := multierr.Errors(err)
	test.That(t, len(errs), test.ShouldEqual, 2)
	for _, e := range errs {
		var assemblyErr *ModelAssemblyError
		test.That(t, errors.As(e, &assemblyErr), test.ShouldBeTrue)
		test.That(t, assemblyErr.Reason, test.ShouldEqual, "ancestry chain is cyclic")
		test.That(t, len(assemblyErr.Chain), test.ShouldEqual, 3)
		test.That(t, assemblyErr.Chain[0], test.ShouldEqual, assemblyErr.Frame)
		test.That(t, assemblyErr.Chain[2], test.ShouldEqual, assemblyErr.Frame)
	}
	test.That(t, m.Finalized(), test.ShouldBeFalse)
	test.That(t, logs.FilterMessage("model assembly failed").Len(), test.ShouldEqual, 1)

	// a failed model answers no queries and does not leave frames linked to each other
	_, err = m.FindBaseFrame(a)
	test.That(t, errors.Is(err, ErrModelNotFinalized), test.ShouldBeTrue)
	test.That(t, a.ExtendFindBaseFrame(), test.ShouldBeNil)
	s := NewSimState()
	s.RealizePosition()
	_, err = m.GroundTransform(s, a)
	test.That(t, errors.Is(err, ErrModelNotFinalized), test.ShouldBeTrue)
}

func TestSelfParentRejection(t *testing.T) {
	m := NewModel("loop", logging.NewTestLogger(t))
	c, err := NewOffsetFrame("c", "c", spatialmath.NewZeroPose())
	mustAdd(t, m, c, err)
	err = m.Finalize()
	var assemblyErr *ModelAssemblyError
	test.That(t, errors.As(err, &assemblyErr), test.ShouldBeTrue)
	test.That(t, assemblyErr.Frame, test.ShouldEqual, "c")
	test.That(t, assemblyErr.Error(), test.ShouldContainSubstring, "c -> c")
}

func TestFinalizeErrors(t *testing.T) {
	t.Run("missing parent", func(t *testing.T) {
		m := NewModel("m", logging.NewTestLogger(t))
		f, err := NewOffsetFrame("elbow", "humerus", spatialmath.NewZeroPose())
		mustAdd(t, m, f, err)
		err = m.Finalize()
		var assemblyErr *ModelAssemblyError
		test.That(t, errors.As(err, &assemblyErr), test.ShouldBeTrue)
		test.That(t, assemblyErr.Reason, test.ShouldContainSubstring, "parent frame not found")
		test.That(t, assemblyErr.Chain, test.ShouldResemble, []string{"elbow", "humerus"})
	})

	t.Run("foreign frame", func(t *testing.T) {
		m := NewModel("m", logging.NewTestLogger(t))
		stranger, err := NewBodyFrame("stranger")
		test.That(t, err, test.ShouldBeNil)
		mustAdd(t, m, &testFrame{name: "f", next: stranger, offset: spatialmath.NewZeroPose()}, nil)
		err = m.Finalize()
		var assemblyErr *ModelAssemblyError
		test.That(t, errors.As(err, &assemblyErr), test.ShouldBeTrue)
		test.That(t, assemblyErr.Reason, test.ShouldContainSubstring, "is not part of model")
		test.That(t, assemblyErr.Chain, test.ShouldResemble, []string{"f", "stranger"})
	})

	t.Run("same name different frame", func(t *testing.T) {
		m := NewModel("m", logging.NewTestLogger(t))
		body, err := NewBodyFrame("body")
		mustAdd(t, m, body, err)
		impostor, err := NewBodyFrame("body")
		test.That(t, err, test.ShouldBeNil)
		mustAdd(t, m, &testFrame{name: "f", next: impostor, offset: spatialmath.NewZeroPose()}, nil)
		err = m.Finalize()
		var assemblyErr *ModelAssemblyError
		test.That(t, errors.As(err, &assemblyErr), test.ShouldBeTrue)
		test.That(t, assemblyErr.Reason, test.ShouldContainSubstring, "is not part of model")
	})

	t.Run("nil base", func(t *testing.T) {
		m := NewModel("m", logging.NewTestLogger(t))
		mustAdd(t, m, &testFrame{name: "f"}, nil)
		err := m.Finalize()
		var assemblyErr *ModelAssemblyError
		test.That(t, errors.As(err, &assemblyErr), test.ShouldBeTrue)
		test.That(t, assemblyErr.Reason, test.ShouldContainSubstring, "does not name a base frame")
	})

	t.Run("nil offset", func(t *testing.T) {
		m := NewModel("m", logging.NewTestLogger(t))
		body, err := NewBodyFrame("body")
		mustAdd(t, m, body, err)
		mustAdd(t, m, &testFrame{name: "f", next: body}, nil)
		err = m.Finalize()
		var assemblyErr *ModelAssemblyError
		test.That(t, errors.As(err, &assemblyErr), test.ShouldBeTrue)
		test.That(t, assemblyErr.Reason, test.ShouldContainSubstring, "has no transform")
	})

	t.Run("all errors reported", func(t *testing.T) {
		m := NewModel("m", logging.NewTestLogger(t))
		f, err := NewOffsetFrame("one", "nowhere", spatialmath.NewZeroPose())
		mustAdd(t, m, f, err)
		f, err = NewOffsetFrame("two", "elsewhere", spatialmath.NewZeroPose())
		mustAdd(t, m, f, err)
		err = m.Finalize()
		test.That(t, len(multierr.Errors(err)), test.ShouldEqual, 2)
		test.That(t, err.Error(), test.ShouldContainSubstring, "nowhere")
		test.That(t, err.Error(), test.ShouldContainSubstring, "elsewhere")
	})
}

func TestFinalizeCustomFrame(t *testing.T) {
	m := NewModel("m", logging.NewTestLogger(t))
	body, err := NewBodyFrame("body")
	mustAdd(t, m, body, err)
	offset := spatialmath.NewPoseFromPoint(r3.Vector{Z: 3})
	custom := mustAdd(t, m, &testFrame{name: "custom", next: body, offset: offset}, nil)
	tip, err := NewOffsetFrame("tip", "custom", spatialmath.NewPoseFromPoint(r3.Vector{X: 1}))
	mustAdd(t, m, tip, err)
	test.That(t, m.Finalize(), test.ShouldBeNil)

	base, err := m.FindBaseFrame(tip)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, base, test.ShouldEqual, body)
	tipInBase, err := m.FindTransformInBaseFrame(tip)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, tipInBase.Point(), test.ShouldResemble, r3.Vector{X: 1, Z: 3})
	customInBase, err := m.FindTransformInBaseFrame(custom)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, customInBase, test.ShouldEqual, offset)
}

func TestModelMembership(t *testing.T) {
	m := newArmModel(t)
	s := newArmState(t, humerusPose, radiusPose)
	other := newArmModel(t)

	var nullErr *NullReferenceError
	_, err := m.GroundTransform(s, other.Frame("elbow"))
	test.That(t, errors.As(err, &nullErr), test.ShouldBeTrue)
	test.That(t, nullErr.Frame, test.ShouldEqual, "elbow")
	test.That(t, nullErr.Model, test.ShouldEqual, "arm")

	_, err = m.FindTransformBetween(s, m.Frame("elbow"), nil)
	test.That(t, errors.As(err, &nullErr), test.ShouldBeTrue)
	test.That(t, nullErr.Frame, test.ShouldEqual, "")
	test.That(t, err.Error(), test.ShouldContainSubstring, "nil frame")

	_, err = m.FindBaseFrame(nil)
	test.That(t, errors.As(err, &nullErr), test.ShouldBeTrue)
	_, err = m.SameBase(m.Frame("elbow"), other.Frame("wrist"))
	test.That(t, errors.As(err, &nullErr), test.ShouldBeTrue)
	_, err = m.ExpressVectorInAnotherFrame(s, r3.Vector{X: 1}, other.Ground(), m.Ground())
	test.That(t, errors.As(err, &nullErr), test.ShouldBeTrue)
	_, err = m.FindLocationInAnotherFrame(s, r3.Vector{X: 1}, m.Ground(), other.Ground())
	test.That(t, errors.As(err, &nullErr), test.ShouldBeTrue)

	test.That(t, m.Frame("shoulder"), test.ShouldBeNil)
}

func TestUnrealizedState(t *testing.T) {
	m := newArmModel(t)
	elbow := m.Frame("elbow")

	var stateErr *InvalidStateError
	_, err := m.GroundTransform(nil, elbow)
	test.That(t, errors.As(err, &stateErr), test.ShouldBeTrue)
	test.That(t, stateErr.Stage, test.ShouldEqual, StageEmpty)

	_, err = m.FindTransformBetween(nil, elbow, elbow)
	test.That(t, errors.As(err, &stateErr), test.ShouldBeTrue)

	s := NewSimState()
	test.That(t, s.SetBodyTransform("humerus", humerusPose), test.ShouldBeNil)
	test.That(t, s.SetBodyTransform("radius", radiusPose), test.ShouldBeNil)
	_, err = m.FindTransformBetween(s, elbow, m.Frame("wrist"))
	test.That(t, errors.As(err, &stateErr), test.ShouldBeTrue)
	test.That(t, stateErr.Frame, test.ShouldEqual, "elbow")
	test.That(t, stateErr.Stage, test.ShouldEqual, StageTime)
	test.That(t, stateErr.Required, test.ShouldEqual, StagePosition)
	test.That(t, err.Error(), test.ShouldContainSubstring, "time")

	// even the identity needs a realized state
	_, err = m.FindTransformBetween(s, elbow, elbow)
	test.That(t, errors.As(err, &stateErr), test.ShouldBeTrue)
	_, err = m.ExpressVectorInAnotherFrame(s, r3.Vector{X: 1}, elbow, m.Ground())
	test.That(t, errors.As(err, &stateErr), test.ShouldBeTrue)
	_, err = m.FindLocationInAnotherFrame(s, r3.Vector{X: 1}, elbow, m.Ground())
	test.That(t, errors.As(err, &stateErr), test.ShouldBeTrue)

	// ancestry queries never need a state
	_, err = m.FindTransformInBaseFrame(elbow)
	test.That(t, err, test.ShouldBeNil)

	s.RealizePosition()
	_, err = m.FindTransformBetween(s, elbow, m.Frame("wrist"))
	test.That(t, err, test.ShouldBeNil)
}

func TestMissingBodyCoordinates(t *testing.T) {
	m := newArmModel(t)
	s := NewSimState()
	test.That(t, s.SetBodyTransform("humerus", humerusPose), test.ShouldBeNil)
	s.RealizePosition()
	_, err := m.GroundTransform(s, m.Frame("wrist"))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "radius")
	_, err = m.GroundTransform(s, m.Frame("marker"))
	test.That(t, err, test.ShouldBeNil)
}

func TestModelLifecycle(t *testing.T) {
	m := NewModel("lifecycle", nil)
	test.That(t, m.Name(), test.ShouldEqual, "lifecycle")
	test.That(t, m.FrameNames(), test.ShouldResemble, []string{Ground})

	_, err := m.FindBaseFrame(m.Ground())
	test.That(t, errors.Is(err, ErrModelNotFinalized), test.ShouldBeTrue)

	test.That(t, m.AddFrame(nil), test.ShouldNotBeNil)
	body, err := NewBodyFrame(Ground)
	test.That(t, err, test.ShouldBeNil)
	err = m.AddFrame(body)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "reserved word")

	body, err = NewBodyFrame("pelvis")
	mustAdd(t, m, body, err)
	dup, err := NewBodyFrame("pelvis")
	test.That(t, err, test.ShouldBeNil)
	err = m.AddFrame(dup)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "already in model")

	scratch, err := NewBodyFrame("scratch")
	mustAdd(t, m, scratch, err)
	test.That(t, m.RemoveFrame("scratch"), test.ShouldBeNil)
	test.That(t, m.RemoveFrame("scratch"), test.ShouldNotBeNil)
	test.That(t, m.RemoveFrame(Ground), test.ShouldNotBeNil)
	test.That(t, m.FrameNames(), test.ShouldResemble, []string{Ground, "pelvis"})

	test.That(t, m.Finalize(), test.ShouldBeNil)
	test.That(t, m.Finalized(), test.ShouldBeTrue)
	test.That(t, m.Finalize(), test.ShouldBeNil)

	late, err := NewBodyFrame("late")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, errors.Is(m.AddFrame(late), ErrModelFinalized), test.ShouldBeTrue)
	test.That(t, errors.Is(m.RemoveFrame("pelvis"), ErrModelFinalized), test.ShouldBeTrue)
}

func TestModelString(t *testing.T) {
	m := newArmModel(t)
	out := m.String()
	for _, name := range m.FrameNames() {
		test.That(t, out, test.ShouldContainSubstring, name)
	}
	test.That(t, out, test.ShouldContainSubstring, "offset")
	test.That(t, out, test.ShouldContainSubstring, "90.00 deg")
	test.That(t, strings.Count(out, "humerus"), test.ShouldBeGreaterThanOrEqualTo, 4)

	unfinished := NewModel("unfinished", logging.NewTestLogger(t))
	test.That(t, unfinished.String(), test.ShouldContainSubstring, Ground)
}

// valueFrame is a frame passed by value, which has no identity of its own.
type valueFrame struct {
	name string
	tags []string
}

func (vf valueFrame) Name() string {
	return vf.name
}

func (vf valueFrame) CalcGroundTransform(s State) (spatialmath.Pose, error) {
	return spatialmath.NewZeroPose(), nil
}

func (vf valueFrame) ExtendFindBaseFrame() Frame {
	return vf
}

func (vf valueFrame) ExtendFindTransformInBaseFrame() spatialmath.Pose {
	return spatialmath.NewZeroPose()
}

func TestAddFrameNotPointer(t *testing.T) {
	m := NewModel("m", logging.NewTestLogger(t))
	err := m.AddFrame(valueFrame{name: "tagged", tags: []string{"bone"}})
	test.That(t, err, test.ShouldBeError, NewFrameNotPointerError("tagged", "struct"))
	test.That(t, m.FrameNames(), test.ShouldResemble, []string{Ground})
	test.That(t, m.Finalize(), test.ShouldBeNil)
}

func TestFrameBelongsToOneModel(t *testing.T) {
	first := NewModel("first", logging.NewTestLogger(t))
	humerus, err := NewBodyFrame("humerus")
	mustAdd(t, first, humerus, err)
	elbow, err := NewOffsetFrame("elbow", "humerus", spatialmath.NewPoseFromPoint(r3.Vector{Y: 1}))
	mustAdd(t, first, elbow, err)
	test.That(t, first.Finalize(), test.ShouldBeNil)

	second := NewModel("second", logging.NewTestLogger(t))
	var assemblyErr *ModelAssemblyError
	test.That(t, errors.As(second.AddFrame(elbow), &assemblyErr), test.ShouldBeTrue)
	test.That(t, assemblyErr.Frame, test.ShouldEqual, "elbow")
	test.That(t, assemblyErr.Reason, test.ShouldContainSubstring, "already belongs to another model")
	test.That(t, errors.As(second.AddFrame(humerus), &assemblyErr), test.ShouldBeTrue)
	test.That(t, second.FrameNames(), test.ShouldResemble, []string{Ground})

	// a failed assembly elsewhere leaves the finalized model untouched
	orphan, err := NewOffsetFrame("orphan", "humerus", spatialmath.NewZeroPose())
	mustAdd(t, second, orphan, err)
	test.That(t, second.Finalize(), test.ShouldNotBeNil)

	s := NewSimState()
	test.That(t, s.SetBodyTransform("humerus", spatialmath.NewPoseFromPoint(r3.Vector{X: 1})), test.ShouldBeNil)
	s.RealizePosition()
	pose, err := first.GroundTransform(s, elbow)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pose.Point(), test.ShouldResemble, r3.Vector{X: 1, Y: 1})

	// removing a frame hands it back
	test.That(t, second.RemoveFrame("orphan"), test.ShouldBeNil)
	third := NewModel("third", logging.NewTestLogger(t))
	test.That(t, third.AddFrame(orphan), test.ShouldBeNil)
}

func TestModelGlobalLogger(t *testing.T) {
	orig := logging.Global()
	defer logging.ReplaceGlobal(orig)
	logger, logs := logging.NewObservedTestLogger(t)
	logging.ReplaceGlobal(logger)

	m := NewModel("leg", nil)
	femur, err := NewBodyFrame("femur")
	mustAdd(t, m, femur, err)
	test.That(t, m.Finalize(), test.ShouldBeNil)

	added := logs.FilterMessage("added frame").All()
	test.That(t, len(added), test.ShouldEqual, 1)
	test.That(t, added[0].LoggerName, test.ShouldEqual, "leg")
	test.That(t, logs.FilterMessage("finalized model").Len(), test.ShouldEqual, 1)
}

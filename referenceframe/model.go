package referenceframe

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"github.com/musculo/kinframe/logging"
	"github.com/musculo/kinframe/spatialmath"
	"github.com/musculo/kinframe/utils"
)

// Model owns a set of frames rooted at a ground frame. Frames are added while the model is being assembled; Finalize
// connects and validates the attachment graph, after which the graph is immutable and every query may be made
// concurrently.
type Model struct {
	name   string
	logger logging.Logger
	ground Frame

	mu        sync.Mutex
	finalized *atomic.Bool
	frames    map[string]Frame

	// written once by Finalize, read only afterwards.
	bases          map[Frame]Frame
	baseTransforms map[Frame]spatialmath.Pose
	chains         map[Frame][]Frame
}

// NewModel creates an empty model containing only its ground frame. A nil logger means the global logger.
func NewModel(name string, logger logging.Logger) *Model {
	if logger == nil {
		logger = logging.Global().Sublogger(name)
	}
	ground := NewGroundFrame()
	return &Model{
		name:      name,
		logger:    logger,
		ground:    ground,
		finalized: atomic.NewBool(false),
		frames:    map[string]Frame{Ground: ground},
	}
}

// Name returns the name of the model.
func (m *Model) Name() string {
	return m.name
}

// Ground returns the model's ground frame.
func (m *Model) Ground() Frame {
	return m.ground
}

// Finalized reports whether Finalize has succeeded.
func (m *Model) Finalized() bool {
	return m.finalized.Load()
}

// AddFrame registers a frame with the model. Frames can only be added before the model is finalized, must be
// pointers, and belong to one model only.
func (m *Model) AddFrame(f Frame) error {
	if f == nil {
		return NewNullReferenceError("", m.name)
	}
	if kind := reflect.TypeOf(f).Kind(); kind != reflect.Pointer {
		return NewFrameNotPointerError(f.Name(), kind.String())
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.finalized.Load() {
		return ErrModelFinalized
	}
	name := f.Name()
	if name == Ground {
		return NewReservedWordError("frame", Ground)
	}
	if _, ok := m.frames[name]; ok {
		return NewDuplicateFrameError(name)
	}
	if owned, ok := f.(ownedFrame); ok && !owned.claim(m) {
		return NewModelAssemblyError(name, []string{name},
			fmt.Sprintf("frame cannot join model %q, it already belongs to another model", m.name))
	}
	m.frames[name] = f
	m.logger.Debugw("added frame", "model", m.name, "frame", name)
	return nil
}

// RemoveFrame removes a frame from a model that has not been finalized yet.
func (m *Model) RemoveFrame(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.finalized.Load() {
		return ErrModelFinalized
	}
	if name == Ground {
		return NewReservedWordError("frame to remove", Ground)
	}
	f, ok := m.frames[name]
	if !ok {
		return NewFrameMissingError(name)
	}
	if owned, ok := f.(ownedFrame); ok {
		owned.release(m)
	}
	delete(m.frames, name)
	return nil
}

// Frame returns the frame with the given name, or nil if the model has no such frame.
func (m *Model) Frame(name string) Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frames[name]
}

// FrameNames returns the sorted names of every frame in the model, ground included.
func (m *Model) FrameNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sortedNames()
}

func (m *Model) sortedNames() []string {
	names := lo.Keys(m.frames)
	sort.Strings(names)
	return names
}

func (m *Model) lookup(name string) (Frame, bool) {
	f, ok := m.frames[name]
	return f, ok
}

// Finalize connects every frame to the frames it names, checks that every ancestry chain ends at a base frame
// without revisiting a frame, and memoizes each frame's base frame and transform in that base. All defects found are
// returned together as ModelAssemblyErrors. Finalizing an already finalized model does nothing.
func (m *Model) Finalize() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.finalized.Load() {
		return nil
	}
	names := m.sortedNames()

	var errAll error
	var connected []Frame
	for _, name := range names {
		if c, ok := m.frames[name].(Connector); ok {
			if err := c.ConnectFrames(m.lookup); err != nil {
				multierr.AppendInto(&errAll, err)
				continue
			}
			connected = append(connected, m.frames[name])
		}
	}

	bases := make(map[Frame]Frame, len(names))
	baseTransforms := make(map[Frame]spatialmath.Pose, len(names))
	chains := make(map[Frame][]Frame, len(names))
	if errAll == nil {
		for _, name := range names {
			f := m.frames[name]
			chain, baseTransform, err := m.resolveAncestry(f)
			if err != nil {
				multierr.AppendInto(&errAll, err)
				continue
			}
			bases[f] = chain[len(chain)-1]
			baseTransforms[f] = baseTransform
			chains[f] = chain
		}
	}

	if errAll != nil {
		for _, f := range connected {
			if d, ok := f.(disconnector); ok {
				d.disconnect()
			}
		}
		m.logger.Warnw("model assembly failed", "model", m.name, "errors", len(multierr.Errors(errAll)))
		return errAll
	}

	m.bases = bases
	m.baseTransforms = baseTransforms
	m.chains = chains
	m.finalized.Store(true)
	m.logger.Debugw("finalized model", "model", m.name, "frames", len(names), "bases", len(lo.Uniq(lo.Values(bases))))
	return nil
}

// resolveAncestry walks the static ancestry chain of f until it reaches a frame that declares itself a base. It
// returns the chain, f first and base last, and X_BF. The walk visits each frame at most once, so a cyclic graph is
// reported instead of followed forever.
func (m *Model) resolveAncestry(f Frame) ([]Frame, spatialmath.Pose, error) {
	chain := []Frame{f}
	visited := map[Frame]bool{f: true}
	chainNames := func() []string {
		return lo.Map(chain, func(c Frame, _ int) string { return c.Name() })
	}

	// nil until the first offset so that a base frame gets the exact identity back.
	var baseTransform spatialmath.Pose
	cur := f
	for {
		next := cur.ExtendFindBaseFrame()
		if next == nil {
			return nil, nil, NewModelAssemblyError(f.Name(), chainNames(),
				fmt.Sprintf("frame %q of type %T does not name a base frame", cur.Name(), cur))
		}
		if next == cur {
			break
		}
		if owned, ok := m.frames[next.Name()]; !ok || owned != next {
			chain = append(chain, next)
			return nil, nil, NewModelAssemblyError(f.Name(), chainNames(),
				fmt.Sprintf("frame %q is not part of model %q", next.Name(), m.name))
		}
		offset := cur.ExtendFindTransformInBaseFrame()
		if offset == nil {
			return nil, nil, NewModelAssemblyError(f.Name(), chainNames(),
				fmt.Sprintf("frame %q of type %T has no transform to its parent", cur.Name(), cur))
		}
		chain = append(chain, next)
		if visited[next] {
			return nil, nil, NewModelAssemblyError(f.Name(), chainNames(), "ancestry chain is cyclic")
		}
		visited[next] = true

		// X_NF = X_NC * X_CF: the offset closer to f is applied first.
		if baseTransform == nil {
			baseTransform = offset
		} else {
			baseTransform = spatialmath.Compose(offset, baseTransform)
		}
		cur = next
	}
	if baseTransform == nil {
		baseTransform = spatialmath.NewZeroPose()
	}
	return chain, baseTransform, nil
}

// checkFrames verifies that the model is finalized and owns every given frame.
func (m *Model) checkFrames(frames ...Frame) error {
	if !m.finalized.Load() {
		return ErrModelNotFinalized
	}
	for _, f := range frames {
		if f == nil {
			return NewNullReferenceError("", m.name)
		}
		if owned, ok := m.frames[f.Name()]; !ok || owned != f {
			return NewNullReferenceError(f.Name(), m.name)
		}
	}
	return nil
}

// GroundTransform returns X_GF, the transform of f relative to ground at state s.
func (m *Model) GroundTransform(s State, f Frame) (spatialmath.Pose, error) {
	if err := m.checkFrames(f); err != nil {
		return nil, err
	}
	return GroundTransform(s, f)
}

// FindTransformBetween returns X_AF, which re-expresses quantities given in f in other (A), at state s.
// It is computed as X_AF = inverse(X_GA) * X_GF. A frame asked for its transform to itself gets the exact identity.
func (m *Model) FindTransformBetween(s State, f, other Frame) (spatialmath.Pose, error) {
	if err := m.checkFrames(f, other); err != nil {
		return nil, err
	}
	if s == nil {
		return nil, NewInvalidStateError(f.Name(), StageEmpty, StagePosition)
	}
	if stage := s.Stage(); stage < StagePosition {
		return nil, NewInvalidStateError(f.Name(), stage, StagePosition)
	}
	if f == other {
		return spatialmath.NewZeroPose(), nil
	}
	frameInGround, err := GroundTransform(s, f)
	if err != nil {
		return nil, err
	}
	otherInGround, err := GroundTransform(s, other)
	if err != nil {
		return nil, err
	}
	return spatialmath.Compose(spatialmath.PoseInverse(otherInGround), frameInGround), nil
}

// ExpressVectorInAnotherFrame re-expresses a free vector given in f in other: vec_A = R_AF * vec.
// Only the rotation between the frames is applied; the offset between their origins never affects the result. Use it
// for directions and angular velocities, never for points.
func (m *Model) ExpressVectorInAnotherFrame(s State, vec r3.Vector, f, other Frame) (r3.Vector, error) {
	transform, err := m.FindTransformBetween(s, f, other)
	if err != nil {
		return r3.Vector{}, err
	}
	return spatialmath.RotateVector(transform.Orientation(), vec), nil
}

// FindLocationInAnotherFrame re-expresses a point located and given in f in other using the homogeneous transform:
// point_A = X_AF * point.
func (m *Model) FindLocationInAnotherFrame(s State, point r3.Vector, f, other Frame) (r3.Vector, error) {
	transform, err := m.FindTransformBetween(s, f, other)
	if err != nil {
		return r3.Vector{}, err
	}
	return spatialmath.TransformPoint(transform, point), nil
}

// TransformPose re-expresses a pose observed in one frame of the model in the frame named dst.
func (m *Model) TransformPose(s State, pif *PoseInFrame, dst string) (*PoseInFrame, error) {
	if !m.finalized.Load() {
		return nil, ErrModelNotFinalized
	}
	src, ok := m.frames[pif.FrameName()]
	if !ok {
		return nil, NewFrameMissingError(pif.FrameName())
	}
	dstFrame, ok := m.frames[dst]
	if !ok {
		return nil, NewFrameMissingError(dst)
	}
	transform, err := m.FindTransformBetween(s, src, dstFrame)
	if err != nil {
		return nil, err
	}
	return NewPoseInFrame(dst, spatialmath.Compose(transform, pif.Pose())), nil
}

// FindBaseFrame returns the base frame of f: the last frame of its ancestry chain, which moves rigidly with f.
// Every frame sharing a base gets the same Frame back, so bases can be compared with ==. The answer does not depend
// on any state.
func (m *Model) FindBaseFrame(f Frame) (Frame, error) {
	if err := m.checkFrames(f); err != nil {
		return nil, err
	}
	return m.bases[f], nil
}

// FindTransformInBaseFrame returns X_BF, the fixed transform of f in its base frame B. A base frame gets the exact
// identity.
func (m *Model) FindTransformInBaseFrame(f Frame) (spatialmath.Pose, error) {
	if err := m.checkFrames(f); err != nil {
		return nil, err
	}
	return m.baseTransforms[f], nil
}

// AncestryChain returns the frames visited resolving the base of f, f first and its base last.
func (m *Model) AncestryChain(f Frame) ([]Frame, error) {
	if err := m.checkFrames(f); err != nil {
		return nil, err
	}
	chain := m.chains[f]
	out := make([]Frame, len(chain))
	copy(out, chain)
	return out, nil
}

// SameBase reports whether two frames ride on the same base frame.
func (m *Model) SameBase(f, other Frame) (bool, error) {
	if err := m.checkFrames(f, other); err != nil {
		return false, err
	}
	return m.bases[f] == m.bases[other], nil
}

// FindTransformBetweenInBase returns X_AF for two frames that share a base, using only their fixed transforms in that
// base. No state is needed, and the result agrees with FindTransformBetween at every state.
func (m *Model) FindTransformBetweenInBase(f, other Frame) (spatialmath.Pose, error) {
	if err := m.checkFrames(f, other); err != nil {
		return nil, err
	}
	if f == other {
		return spatialmath.NewZeroPose(), nil
	}
	if m.bases[f] != m.bases[other] {
		return nil, NewDifferentBaseError(f.Name(), other.Name(), m.bases[f].Name(), m.bases[other].Name())
	}
	return spatialmath.Compose(spatialmath.PoseInverse(m.baseTransforms[other]), m.baseTransforms[f]), nil
}

// String prints out a table of each frame in the model, with columns of name, kind, parent, base and the
// transform in that base.
func (m *Model) String() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := table.NewWriter()
	t.SetTitle(m.name)
	t.AppendHeader(table.Row{"#", "Name", "Kind", "Parent", "Base", "Translation", "Rotation"})
	for i, name := range m.sortedNames() {
		f := m.frames[name]
		kind, parent := describeFrame(f)
		base, translation, rotation := "", "", ""
		if m.finalized.Load() {
			base = m.bases[f].Name()
			pose := m.baseTransforms[f]
			tra := pose.Point()
			aa := pose.Orientation().AxisAngles()
			translation = fmt.Sprintf("X:%.3f, Y:%.3f, Z:%.3f", tra.X, tra.Y, tra.Z)
			rotation = fmt.Sprintf("%.2f deg about (%.3f, %.3f, %.3f)", utils.RadToDeg(aa.Theta), aa.RX, aa.RY, aa.RZ)
		}
		t.AppendRow(table.Row{i, name, kind, parent, base, translation, rotation})
	}
	return t.Render()
}

func describeFrame(f Frame) (string, string) {
	switch typed := f.(type) {
	case *groundFrame:
		return "ground", ""
	case *bodyFrame:
		return "body", ""
	case *offsetFrame:
		return "offset", typed.parentName
	default:
		return fmt.Sprintf("%T", f), ""
	}
}

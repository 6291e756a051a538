package referenceframe

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/musculo/kinframe/spatialmath"
)

// Stage is how far a state has been realized. Stages are ordered; a state realized to a stage has also realized
// every earlier one.
type Stage int

// The realization stages a state passes through. Transform queries need StagePosition.
const (
	StageEmpty Stage = iota
	StageTopology
	StageModel
	StageInstance
	StageTime
	StagePosition
	StageVelocity
	StageDynamics
	StageAcceleration
	StageReport
)

var stageNames = []string{
	"empty", "topology", "model", "instance", "time", "position", "velocity", "dynamics", "acceleration", "report",
}

func (s Stage) String() string {
	if s < StageEmpty || int(s) >= len(stageNames) {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

// State is a snapshot of the generalized coordinates of a simulation. Frames only ever read it.
type State interface {
	// Stage reports how far the state has been realized.
	Stage() Stage
	// BodyTransform returns X_GB, the pose of the named rigid body in ground.
	BodyTransform(body string) (spatialmath.Pose, error)
}

// GroundTransformCache is implemented by states that memoize ground transforms per frame. Entries are tagged with
// the version of the coordinates they were computed from; a store for a version that is no longer current is dropped.
type GroundTransformCache interface {
	Version() uint64
	LookupGroundTransform(f Frame) (spatialmath.Pose, bool)
	StoreGroundTransform(f Frame, version uint64, pose spatialmath.Pose)
}

type cachedPose struct {
	version uint64
	pose    spatialmath.Pose
}

// SimState is an in memory State holding one pose per rigid body. Changing any body pose bumps the version,
// drops the realization back to StageTime and empties the ground transform cache. It is safe for concurrent use.
type SimState struct {
	mu      sync.RWMutex
	stage   Stage
	version uint64
	bodies  map[string]spatialmath.Pose
	cache   map[Frame]cachedPose
}

// NewSimState returns an empty state realized to StageTime.
func NewSimState() *SimState {
	return &SimState{
		stage:  StageTime,
		bodies: map[string]spatialmath.Pose{},
		cache:  map[Frame]cachedPose{},
	}
}

// Stage reports how far the state has been realized.
func (s *SimState) Stage() Stage {
	if s == nil {
		return StageEmpty
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stage
}

// Version returns a counter that changes every time a body pose changes.
func (s *SimState) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// SetBodyTransform sets X_GB for the named body and invalidates everything realized from the old coordinates.
func (s *SimState) SetBodyTransform(body string, pose spatialmath.Pose) error {
	if pose == nil {
		return errors.Errorf("pose of body %q is not allowed to be nil", body)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bodies[body] = pose
	s.version++
	if s.stage > StageTime {
		s.stage = StageTime
	}
	s.cache = map[Frame]cachedPose{}
	return nil
}

// BodyTransform returns X_GB for the named body.
func (s *SimState) BodyTransform(body string) (spatialmath.Pose, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pose, ok := s.bodies[body]
	if !ok {
		return nil, errors.Errorf("body %q has no coordinates in state", body)
	}
	return pose, nil
}

// Realize advances the state to at least the given stage. It never moves a state backwards.
func (s *SimState) Realize(stage Stage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stage > s.stage {
		s.stage = stage
	}
}

// RealizePosition advances the state to StagePosition.
func (s *SimState) RealizePosition() {
	s.Realize(StagePosition)
}

// LookupGroundTransform returns the cached ground transform of f if it was computed from the current coordinates.
func (s *SimState) LookupGroundTransform(f Frame) (spatialmath.Pose, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.cache[f]
	if !ok || entry.version != s.version {
		return nil, false
	}
	return entry.pose, true
}

// StoreGroundTransform caches the ground transform of f computed from coordinates at version.
func (s *SimState) StoreGroundTransform(f Frame, version uint64, pose spatialmath.Pose) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if version != s.version {
		return
	}
	s.cache[f] = cachedPose{version: version, pose: pose}
}

// GroundTransform returns X_GF for f at state s, consulting the state's own cache when it has one.
// The state must be realized to at least StagePosition.
func GroundTransform(s State, f Frame) (spatialmath.Pose, error) {
	if s == nil {
		return nil, NewInvalidStateError(f.Name(), StageEmpty, StagePosition)
	}
	if stage := s.Stage(); stage < StagePosition {
		return nil, NewInvalidStateError(f.Name(), stage, StagePosition)
	}
	cache, cached := s.(GroundTransformCache)
	var version uint64
	if cached {
		if pose, ok := cache.LookupGroundTransform(f); ok {
			return pose, nil
		}
		version = cache.Version()
	}
	pose, err := f.CalcGroundTransform(s)
	if err != nil {
		return nil, err
	}
	if pose == nil {
		return nil, errors.Errorf("frame %q computed a nil ground transform", f.Name())
	}
	if cached {
		cache.StoreGroundTransform(f, version, pose)
	}
	return pose, nil
}

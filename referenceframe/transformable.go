package referenceframe

import (
	"github.com/musculo/kinframe/spatialmath"
)

// PoseInFrame is a data structure that packages a pose with the name of the
// frame in which it was observed.
type PoseInFrame struct {
	frame string
	pose  spatialmath.Pose
}

// NewPoseInFrame generates a new PoseInFrame.
func NewPoseInFrame(frame string, pose spatialmath.Pose) *PoseInFrame {
	return &PoseInFrame{
		frame: frame,
		pose:  pose,
	}
}

// NewZeroPoseInFrame returns the origin of the named frame.
func NewZeroPoseInFrame(frame string) *PoseInFrame {
	return NewPoseInFrame(frame, spatialmath.NewZeroPose())
}

// FrameName returns the name of the frame in which the pose was observed.
func (pF *PoseInFrame) FrameName() string {
	return pF.frame
}

// Pose returns the pose that was observed.
func (pF *PoseInFrame) Pose() spatialmath.Pose {
	return pF.pose
}

// AlmostEqual reports whether two poses were observed in the same frame and are approximately the same.
func (pF *PoseInFrame) AlmostEqual(other *PoseInFrame) bool {
	return pF.FrameName() == other.FrameName() && spatialmath.PoseAlmostEqual(pF.Pose(), other.Pose())
}

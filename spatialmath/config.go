package spatialmath

import (
	"github.com/go-viper/mapstructure/v2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/musculo/kinframe/utils"
)

// OrientationType defines what orientation representations are known.
type OrientationType string

// The set of allowed representations for orientation.
const (
	NoOrientation      = OrientationType("")
	NoOrientationName  = OrientationType("none")
	AxisAnglesType     = OrientationType("axis_angles")
	QuaternionType     = OrientationType("quaternion")
	RotationMatrixType = OrientationType("rotation_matrix")
)

// TranslationConfig is the json configuration of a translation.
type TranslationConfig struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// NewTranslationConfig creates a new TranslationConfig from the given vector.
func NewTranslationConfig(vec r3.Vector) *TranslationConfig {
	return &TranslationConfig{X: vec.X, Y: vec.Y, Z: vec.Z}
}

// ParseConfig converts a TranslationConfig into a vector.
func (t *TranslationConfig) ParseConfig() r3.Vector {
	if t == nil {
		return r3.Vector{}
	}
	return r3.Vector{X: t.X, Y: t.Y, Z: t.Z}
}

// OrientationConfig holds the underlying type of orientation, and the value.
// Axis angles are configured in degrees; quaternions as w, x, y, z; rotation matrices as 9 row-major elements.
type OrientationConfig struct {
	Type  OrientationType        `json:"type"`
	Value map[string]interface{} `json:"value,omitempty"`
}

type axisAngleDegrees struct {
	Theta float64 `mapstructure:"th"`
	RX    float64 `mapstructure:"x"`
	RY    float64 `mapstructure:"y"`
	RZ    float64 `mapstructure:"z"`
}

type quaternionConfig struct {
	W float64 `mapstructure:"w"`
	X float64 `mapstructure:"x"`
	Y float64 `mapstructure:"y"`
	Z float64 `mapstructure:"z"`
}

type rotationMatrixConfig struct {
	Mat []float64 `mapstructure:"mat"`
}

// NewOrientationConfig encodes an orientation as an axis angle config in degrees.
func NewOrientationConfig(o Orientation) *OrientationConfig {
	aa := o.AxisAngles()
	return &OrientationConfig{
		Type: AxisAnglesType,
		Value: map[string]interface{}{
			"th": utils.RadToDeg(aa.Theta),
			"x":  aa.RX,
			"y":  aa.RY,
			"z":  aa.RZ,
		},
	}
}

// ParseConfig will use the Type in OrientationConfig and convert into the correct struct that implements Orientation.
func (config *OrientationConfig) ParseConfig() (Orientation, error) {
	if config == nil {
		return NewZeroOrientation(), nil
	}
	switch config.Type {
	case NoOrientation, NoOrientationName:
		return NewZeroOrientation(), nil
	case AxisAnglesType:
		var aa axisAngleDegrees
		if err := decodeOrientationValue(config.Value, &aa); err != nil {
			return nil, err
		}
		return &R4AA{Theta: utils.DegToRad(aa.Theta), RX: aa.RX, RY: aa.RY, RZ: aa.RZ}, nil
	case QuaternionType:
		var q quaternionConfig
		if err := decodeOrientationValue(config.Value, &q); err != nil {
			return nil, err
		}
		return NewQuaternion(q.W, q.X, q.Y, q.Z), nil
	case RotationMatrixType:
		var rm rotationMatrixConfig
		if err := decodeOrientationValue(config.Value, &rm); err != nil {
			return nil, err
		}
		return NewRotationMatrix(rm.Mat)
	default:
		return nil, newOrientationTypeUnsupportedError(string(config.Type))
	}
}

func decodeOrientationValue(value map[string]interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return errors.Wrap(decoder.Decode(value), "cannot decode orientation value")
}

func newOrientationTypeUnsupportedError(orientationType string) error {
	return errors.Errorf("orientation type %q not supported", orientationType)
}

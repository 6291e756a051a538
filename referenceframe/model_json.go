package referenceframe

import (
	"os"

	"github.com/pkg/errors"
	"github.com/yosuke-furukawa/json5/encoding/json5"

	"github.com/musculo/kinframe/logging"
	"github.com/musculo/kinframe/spatialmath"
)

// ModelConfigJSON represents all supported fields in a model JSON file.
type ModelConfigJSON struct {
	Name   string              `json:"name"`
	Bodies []BodyConfig        `json:"bodies,omitempty"`
	Frames []OffsetFrameConfig `json:"frames,omitempty"`
}

// BodyConfig names a rigid body whose pose is supplied by the simulation state.
type BodyConfig struct {
	Name string `json:"name"`
}

// OffsetFrameConfig describes a frame fixed relative to a parent frame.
type OffsetFrameConfig struct {
	Name        string                         `json:"name"`
	Parent      string                         `json:"parent"`
	Translation *spatialmath.TranslationConfig `json:"translation,omitempty"`
	Orientation *spatialmath.OrientationConfig `json:"orientation,omitempty"`
}

// PoseConfig is the json configuration of a pose.
type PoseConfig struct {
	Translation *spatialmath.TranslationConfig `json:"translation,omitempty"`
	Orientation *spatialmath.OrientationConfig `json:"orientation,omitempty"`
}

// StateConfigJSON holds the pose of each rigid body of a model at one instant.
type StateConfigJSON struct {
	Bodies map[string]PoseConfig `json:"bodies"`
}

// Pose converts a PoseConfig into a Pose.
func (cfg *PoseConfig) Pose() (spatialmath.Pose, error) {
	orient, err := cfg.Orientation.ParseConfig()
	if err != nil {
		return nil, err
	}
	return spatialmath.NewPoseFromOrientation(cfg.Translation.ParseConfig(), orient), nil
}

// ParseConfig converts an OffsetFrameConfig into an offset frame.
func (cfg *OffsetFrameConfig) ParseConfig() (Frame, error) {
	pose, err := (&PoseConfig{Translation: cfg.Translation, Orientation: cfg.Orientation}).Pose()
	if err != nil {
		return nil, errors.Wrapf(err, "cannot parse offset of frame %q", cfg.Name)
	}
	return NewOffsetFrame(cfg.Name, cfg.Parent, pose)
}

// UnmarshalModelJSON will parse the given JSON data into a finalized model. modelName sets the name of the model,
// will use the name from the JSON if string is empty. The data may be JSON5, so model files can carry comments.
func UnmarshalModelJSON(jsonData []byte, modelName string, logger logging.Logger) (*Model, error) {
	// empty data probably means that the caller has no model information
	if len(jsonData) == 0 {
		return nil, ErrNoModelInformation
	}
	cfg := &ModelConfigJSON{}
	if err := json5.Unmarshal(jsonData, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal json file")
	}
	return cfg.ParseConfig(modelName, logger)
}

// ParseConfig converts the ModelConfigJSON struct into a finalized Model with the name modelName.
func (cfg *ModelConfigJSON) ParseConfig(modelName string, logger logging.Logger) (*Model, error) {
	if modelName == "" {
		modelName = cfg.Name
	}
	model := NewModel(modelName, logger)
	for _, body := range cfg.Bodies {
		if body.Name == Ground {
			return nil, NewReservedWordError("body", Ground)
		}
		f, err := NewBodyFrame(body.Name)
		if err != nil {
			return nil, err
		}
		if err := model.AddFrame(f); err != nil {
			return nil, err
		}
	}
	for i := range cfg.Frames {
		if cfg.Frames[i].Name == Ground {
			return nil, NewReservedWordError("frame", Ground)
		}
		f, err := cfg.Frames[i].ParseConfig()
		if err != nil {
			return nil, err
		}
		if err := model.AddFrame(f); err != nil {
			return nil, err
		}
	}
	if err := model.Finalize(); err != nil {
		return nil, err
	}
	return model, nil
}

// ParseModelJSONFile will read a given file and then parse the contained JSON data.
func ParseModelJSONFile(filename, modelName string, logger logging.Logger) (*Model, error) {
	//nolint:gosec
	jsonData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read json file")
	}
	return UnmarshalModelJSON(jsonData, modelName, logger)
}

// UnmarshalStateJSON parses body poses, given as JSON or JSON5, into a SimState realized to StagePosition.
func UnmarshalStateJSON(jsonData []byte) (*SimState, error) {
	cfg := &StateConfigJSON{}
	if err := json5.Unmarshal(jsonData, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal json file")
	}
	state := NewSimState()
	for body, poseCfg := range cfg.Bodies {
		pose, err := poseCfg.Pose()
		if err != nil {
			return nil, errors.Wrapf(err, "cannot parse pose of body %q", body)
		}
		if err := state.SetBodyTransform(body, pose); err != nil {
			return nil, err
		}
	}
	state.RealizePosition()
	return state, nil
}

// ParseStateJSONFile will read a given file and then parse the contained body poses.
func ParseStateJSONFile(filename string) (*SimState, error) {
	//nolint:gosec
	jsonData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read json file")
	}
	return UnmarshalStateJSON(jsonData)
}

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"github.com/musculo/kinframe/logging"
	"github.com/musculo/kinframe/referenceframe"
	"github.com/musculo/kinframe/spatialmath"
	"github.com/musculo/kinframe/utils"
)

// newLogger builds the command's logger and installs it as the global logger.
func newLogger(c *cli.Context) logging.Logger {
	logger := logging.NewLogger("frameinspect")
	if c.Bool(flagDebug) {
		logger = logging.NewDebugLogger("frameinspect")
	}
	logging.ReplaceGlobal(logger)
	return logger
}

func loadModel(c *cli.Context, logger logging.Logger) (*referenceframe.Model, error) {
	model, err := referenceframe.ParseModelJSONFile(c.Path(flagModel), "", logger)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot load model from %q", c.Path(flagModel))
	}
	return model, nil
}

// AncestryAction prints, for every frame of a model, its base frame, the chain leading to it and its fixed transform
// in that base.
func AncestryAction(c *cli.Context) error {
	logger := newLogger(c)
	model, err := loadModel(c, logger)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetTitle(model.Name())
	t.AppendHeader(table.Row{"Frame", "Base", "Chain", "Translation", "Rotation"})
	for _, name := range model.FrameNames() {
		f := model.Frame(name)
		chain, err := model.AncestryChain(f)
		if err != nil {
			return err
		}
		inBase, err := model.FindTransformInBaseFrame(f)
		if err != nil {
			return err
		}
		chainNames := lo.Map(chain, func(fr referenceframe.Frame, _ int) string { return fr.Name() })
		t.AppendRow(table.Row{
			name,
			chainNames[len(chainNames)-1],
			strings.Join(chainNames, " -> "),
			formatVector(inBase.Point()),
			formatOrientation(inBase.Orientation()),
		})
	}
	printf(c.App.Writer, "%s", t.Render())
	return nil
}

// TransformAction prints the transform of one frame in another at the state read from a file, and optionally
// re-expresses a point and a free vector given in the frame.
func TransformAction(c *cli.Context) error {
	logger := newLogger(c)
	model, err := loadModel(c, logger)
	if err != nil {
		return err
	}
	state, err := referenceframe.ParseStateJSONFile(c.Path(flagState))
	if err != nil {
		return errors.Wrapf(err, "cannot load state from %q", c.Path(flagState))
	}
	f, err := lookupFrame(model, c.String(flagFrame))
	if err != nil {
		return err
	}
	in, err := lookupFrame(model, c.String(flagIn))
	if err != nil {
		return err
	}

	transform, err := model.FindTransformBetween(state, f, in)
	if err != nil {
		return err
	}
	logger.Debugw("computed transform", "frame", f.Name(), "in", in.Name())

	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("%s in %s", f.Name(), in.Name()))
	t.AppendRow(table.Row{"Translation", formatVector(transform.Point())})
	t.AppendRow(table.Row{"Rotation", formatOrientation(transform.Orientation())})
	q := transform.Orientation().Quaternion()
	t.AppendRow(table.Row{"Quaternion", fmt.Sprintf("W:%.6f, X:%.6f, Y:%.6f, Z:%.6f", q.Real, q.Imag, q.Jmag, q.Kmag)})

	if c.IsSet(flagPoint) {
		pt, err := parseVector(c, flagPoint)
		if err != nil {
			return err
		}
		located, err := model.FindLocationInAnotherFrame(state, pt, f, in)
		if err != nil {
			return err
		}
		t.AppendRow(table.Row{"Point", fmt.Sprintf("%s -> %s", formatVector(pt), formatVector(located))})
	}
	if c.IsSet(flagVector) {
		vec, err := parseVector(c, flagVector)
		if err != nil {
			return err
		}
		expressed, err := model.ExpressVectorInAnotherFrame(state, vec, f, in)
		if err != nil {
			return err
		}
		t.AppendRow(table.Row{"Vector", fmt.Sprintf("%s -> %s", formatVector(vec), formatVector(expressed))})
	}
	printf(c.App.Writer, "%s", t.Render())
	return nil
}

func lookupFrame(model *referenceframe.Model, name string) (referenceframe.Frame, error) {
	f := model.Frame(name)
	if f == nil {
		return nil, referenceframe.NewFrameMissingError(name)
	}
	return f, nil
}

func parseVector(c *cli.Context, flag string) (r3.Vector, error) {
	values := c.Float64Slice(flag)
	if len(values) != 3 {
		return r3.Vector{}, errors.Errorf("--%s needs exactly 3 values, got %d", flag, len(values))
	}
	return r3.Vector{X: values[0], Y: values[1], Z: values[2]}, nil
}

func formatVector(v r3.Vector) string {
	return fmt.Sprintf("X:%.6f, Y:%.6f, Z:%.6f", v.X, v.Y, v.Z)
}

func formatOrientation(o spatialmath.Orientation) string {
	aa := o.AxisAngles()
	return fmt.Sprintf("%.4f deg about (%.4f, %.4f, %.4f)", utils.RadToDeg(aa.Theta), aa.RX, aa.RY, aa.RZ)
}

// printf prints a message with a newline to the given writer.
func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}

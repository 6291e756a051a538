// Package cli contains the frameinspect command line tool's commands.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	flagModel  = "model"
	flagState  = "state"
	flagFrame  = "frame"
	flagIn     = "in"
	flagPoint  = "point"
	flagVector = "vector"
	flagDebug  = "debug"
)

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	modelFlag := &cli.PathFlag{
		Name:     flagModel,
		Aliases:  []string{"m"},
		Usage:    "load the frame model from JSON `FILE`",
		Required: true,
	}
	return &cli.App{
		Name:            "frameinspect",
		Usage:           "inspect the frames of a kinematic model",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "ancestry",
				Usage:  "print the base frame and fixed transform in that base of every frame",
				Flags:  []cli.Flag{modelFlag},
				Action: AncestryAction,
			},
			{
				Name:      "transform",
				Usage:     "print the transform of a frame in another frame at a state",
				UsageText: "frameinspect transform --model <FILE> --state <FILE> --frame <name> [--in <name>] [other options]",
				Flags: []cli.Flag{
					modelFlag,
					&cli.PathFlag{
						Name:     flagState,
						Aliases:  []string{"s"},
						Usage:    "load the body poses from JSON `FILE`",
						Required: true,
					},
					&cli.StringFlag{
						Name:     flagFrame,
						Aliases:  []string{"f"},
						Usage:    "frame whose transform is printed",
						Required: true,
					},
					&cli.StringFlag{
						Name:  flagIn,
						Usage: "frame the result is expressed in",
						Value: "ground",
					},
					&cli.Float64SliceFlag{
						Name:  flagPoint,
						Usage: "also re-express this point (x,y,z) given in the frame",
					},
					&cli.Float64SliceFlag{
						Name:  flagVector,
						Usage: "also re-express this free vector (x,y,z) given in the frame",
					},
				},
				Action: TransformAction,
			},
		},
	}
}

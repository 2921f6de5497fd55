// Package cli contains the ptgtool command line interface for building and querying PTGs.
package cli

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"go.viam.com/ptgnav/motionplan/tpspace"
)

const (
	// Flags.
	generalFlagConfig   = "config"
	generalFlagDebug    = "debug"
	generalFlagLogLevel = "log-level"

	ptgFlagName      = "ptg"
	ptgFlagX         = "x"
	ptgFlagY         = "y"
	ptgFlagTolerance = "tolerance"
	ptgFlagK         = "k"
	ptgFlagTime      = "t"
	ptgFlagObstacle  = "obstacle"
	ptgFlagOut       = "out"
	ptgFlagMaxDist   = "max-dist"
	ptgFlagDecimate  = "decimate"
)

var ptgNameFlag = &cli.StringFlag{
	Name:  ptgFlagName,
	Usage: "only use the PTG with this name",
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:            "ptgtool",
		Usage:           "build, inspect and query parameterized trajectory generators",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    generalFlagConfig,
				Aliases: []string{"c"},
				Usage:   "load PTG configuration from `FILE` (yaml or json)",
			},
			&cli.BoolFlag{
				Name:    generalFlagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.StringFlag{
				Name:  generalFlagLogLevel,
				Value: "info",
				Usage: "log level: debug, info, warn or error",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "families",
				Usage:  "list the registered PTG families",
				Action: FamiliesAction,
			},
			{
				Name:   "describe",
				Usage:  "describe every configured PTG",
				Flags:  []cli.Flag{ptgNameFlag},
				Action: DescribeAction,
			},
			{
				Name:      "inverse",
				Usage:     "map a workspace point into TP-space",
				UsageText: fmt.Sprintf("ptgtool -c <config> inverse --%s <x> --%s <y> [other options]", ptgFlagX, ptgFlagY),
				Flags: []cli.Flag{
					&cli.Float64Flag{Name: ptgFlagX, Required: true, Usage: "workspace x, meters"},
					&cli.Float64Flag{Name: ptgFlagY, Required: true, Usage: "workspace y, meters"},
					&cli.Float64Flag{
						Name:  ptgFlagTolerance,
						Value: tpspace.DefaultInverseMapTolerance,
						Usage: "distance, in meters, within which the point is on a trajectory",
					},
					ptgNameFlag,
				},
				Action: InverseAction,
			},
			{
				Name:  "command",
				Usage: "print the motion command along a trajectory",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: ptgFlagK, Required: true, Usage: "trajectory index"},
					&cli.Float64Flag{Name: ptgFlagTime, Usage: "elapsed time along the trajectory, seconds"},
					ptgNameFlag,
				},
				Action: CommandAction,
			},
			{
				Name:  "obstacles",
				Usage: "project obstacle points into TP-space",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: ptgFlagObstacle, Required: true, Usage: "obstacle point as x:y; may be repeated"},
					ptgNameFlag,
				},
				Action: ObstaclesAction,
			},
			{
				Name:  "dump",
				Usage: "write every trajectory table to text files",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: ptgFlagOut, Usage: "output `DIR`, overriding the config's dump_dir"},
					ptgNameFlag,
				},
				Action: DumpAction,
			},
			{
				Name:  "plot",
				Usage: "render trajectories of one PTG to an image",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: ptgFlagName, Required: true, Usage: "PTG to plot"},
					&cli.StringFlag{Name: ptgFlagOut, Required: true, Usage: "output `FILE`, .png or .svg"},
					&cli.IntSliceFlag{Name: ptgFlagK, Usage: "trajectory indices to draw; all when omitted"},
					&cli.Float64Flag{Name: ptgFlagMaxDist, Usage: "cut every path at this many meters"},
					&cli.Float64Flag{Name: ptgFlagDecimate, Usage: "minimum spacing between drawn points, meters"},
					&cli.StringSliceFlag{Name: ptgFlagObstacle, Usage: "obstacle point as x:y; may be repeated"},
				},
				Action: PlotAction,
			},
		},
	}
}

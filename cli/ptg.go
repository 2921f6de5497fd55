package cli

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/ptgnav/logging"
	"go.viam.com/ptgnav/motionplan/tpspace"
	"go.viam.com/ptgnav/motionplan/tpspace/ptgio"
	"go.viam.com/ptgnav/motionplan/tpspace/ptgstore"
	"go.viam.com/ptgnav/utils"
)

const (
	defaultDumpDir = "."
	// past this many trajectories per PTG, table simulation takes noticeably long.
	slowAlphaCnt = 1000
)

// FamiliesAction lists the registered PTG families.
func FamiliesAction(cCtx *cli.Context) error {
	for _, family := range tpspace.RegisteredFamilies() {
		printf(cCtx.App.Writer, "%s", family)
	}
	return nil
}

// DescribeAction prints a summary of every configured PTG.
func DescribeAction(cCtx *cli.Context) error {
	return withGroup(cCtx, cCtx.String(ptgFlagName), func(entries []tpspace.GroupEntry, ptgs []tpspace.PTG) error {
		for i, ptg := range ptgs {
			printf(cCtx.App.Writer, "%s: %s, %d paths, ref_distance=%g m, persistent=%t, attributes: %s",
				entries[i].Name, ptg.Description(), ptg.AlphaCount(), ptg.RefDistance(), ptg.NeedsPersistentStorage(),
				formatAttributes(entries[i].Attributes))
		}
		return nil
	})
}

// InverseAction maps a workspace point into the TP-space of the configured PTGs.
func InverseAction(cCtx *cli.Context) error {
	x, y := cCtx.Float64(ptgFlagX), cCtx.Float64(ptgFlagY)
	tolerance := cCtx.Float64(ptgFlagTolerance)
	return withGroup(cCtx, cCtx.String(ptgFlagName), func(entries []tpspace.GroupEntry, ptgs []tpspace.PTG) error {
		for i, ptg := range ptgs {
			k, d, hit := ptg.WorldSpaceToTP(x, y, tolerance)
			alpha, err := ptg.Index2Alpha(k)
			if err != nil {
				return err
			}
			printf(cCtx.App.Writer, "%s: k=%d alpha=%.4f d=%.4f hit=%t in_domain=%t",
				entries[i].Name, k, alpha, d, hit, ptg.IsIntoDomain(x, y))
		}
		return nil
	})
}

// CommandAction prints the (v, w) command along trajectory k.
func CommandAction(cCtx *cli.Context) error {
	k := cCtx.Uint(ptgFlagK)
	t := cCtx.Float64(ptgFlagTime)
	return withGroup(cCtx, cCtx.String(ptgFlagName), func(entries []tpspace.GroupEntry, ptgs []tpspace.PTG) error {
		for i, ptg := range ptgs {
			var cmd []float64
			var err error
			if diffDrive, ok := ptg.(tpspace.DiffDrivePTG); ok && t > 0 {
				var v, w float64
				v, w, err = diffDrive.Velocities(k, t)
				cmd = []float64{v, w}
			} else {
				cmd, err = ptg.DirectionToMotionCommand(k)
			}
			if err != nil {
				return errors.Wrapf(err, "ptg %q", entries[i].Name)
			}
			printf(cCtx.App.Writer, "%s: v=%.4f m/s w=%.4f rad/s", entries[i].Name, cmd[0], cmd[1])
		}
		return nil
	})
}

// ObstaclesAction prints, per trajectory, the normalized free distance left by the given obstacles.
func ObstaclesAction(cCtx *cli.Context) error {
	obstacles, err := parsePoints(cCtx.StringSlice(ptgFlagObstacle))
	if err != nil {
		return err
	}
	return withGroup(cCtx, cCtx.String(ptgFlagName), func(entries []tpspace.GroupEntry, ptgs []tpspace.PTG) error {
		for i, ptg := range ptgs {
			tp := tpspace.TPObstacles(ptg, obstacles)
			blocked := make([]string, 0, len(tp))
			for k, d := range tp {
				if d < 1 {
					blocked = append(blocked, formatBlocked(k, d))
				}
			}
			if len(blocked) == 0 {
				printf(cCtx.App.Writer, "%s: all %d paths free", entries[i].Name, len(tp))
				continue
			}
			printf(cCtx.App.Writer, "%s: %s", entries[i].Name, strings.Join(blocked, " "))
		}
		return nil
	})
}

func formatAttributes(attrs utils.AttributeMap) string {
	parts := make([]string, 0, len(attrs))
	for _, key := range attrs.Keys() {
		parts = append(parts, fmt.Sprintf("%s=%v", key, attrs[key]))
	}
	return strings.Join(parts, " ")
}

func formatBlocked(k int, d float64) string {
	return fmt.Sprintf("k=%d:%.3f", k, d)
}

// DumpAction writes the trajectory tables of every configured PTG as text files.
func DumpAction(cCtx *cli.Context) error {
	return withGroup(cCtx, cCtx.String(ptgFlagName), func(entries []tpspace.GroupEntry, ptgs []tpspace.PTG) error {
		var failed []string
		for i, ptg := range ptgs {
			if !ptg.DebugDumpInFiles(entries[i].Name) {
				failed = append(failed, entries[i].Name)
			}
		}
		if len(failed) > 0 {
			return errors.Errorf("failed to dump %s", strings.Join(failed, ", "))
		}
		infof(cCtx.App.Writer, "dumped %d PTGs", len(ptgs))
		return nil
	})
}

// PlotAction renders trajectories of one PTG.
func PlotAction(cCtx *cli.Context) error {
	obstacles, err := parsePoints(cCtx.StringSlice(ptgFlagObstacle))
	if err != nil {
		return err
	}
	var indices []uint
	for _, k := range cCtx.IntSlice(ptgFlagK) {
		if k < 0 {
			return errors.Errorf("trajectory index %d must not be negative", k)
		}
		indices = append(indices, uint(k))
	}
	out := cCtx.String(ptgFlagOut)
	return withGroup(cCtx, cCtx.String(ptgFlagName), func(entries []tpspace.GroupEntry, ptgs []tpspace.PTG) error {
		err := ptgio.PlotPaths(ptgs[0], out, ptgio.PlotOptions{
			Title:        entries[0].Name + ": " + ptgs[0].Description(),
			Indices:      indices,
			DecimateDist: cCtx.Float64(ptgFlagDecimate),
			MaxDist:      cCtx.Float64(ptgFlagMaxDist),
			Obstacles:    obstacles,
		})
		if err != nil {
			return err
		}
		infof(cCtx.App.Writer, "wrote %s", out)
		return nil
	})
}

// withGroup loads the config, builds its PTGs and runs f on them, restricted to the PTG called only when set.
func withGroup(cCtx *cli.Context, only string, f func(entries []tpspace.GroupEntry, ptgs []tpspace.PTG) error) (err error) {
	logger, err := newLogger(cCtx)
	if err != nil {
		return err
	}
	configPath := cCtx.String(generalFlagConfig)
	if configPath == "" {
		return errors.Errorf("no config given, use --%s", generalFlagConfig)
	}
	conf, err := ConfigFromFile(configPath)
	if err != nil {
		return err
	}

	dumpDir := conf.DumpDir
	if out := cCtx.String(ptgFlagOut); out != "" && cCtx.Command.Name == "dump" {
		dumpDir = out
	}
	if dumpDir == "" {
		dumpDir = defaultDumpDir
	}
	opts := []tpspace.Option{tpspace.WithExporter(ptgio.NewDumper(dumpDir))}
	if conf.Store != "" {
		store, storeErr := ptgstore.NewStore(conf.Store)
		if storeErr != nil {
			return storeErr
		}
		defer func() {
			err = multierr.Combine(err, store.Close())
		}()
		opts = append(opts, tpspace.WithTableStore(store))
	}

	entries := conf.GroupEntries()
	if only != "" {
		var found bool
		for _, entry := range entries {
			if entry.Name == only {
				entries = []tpspace.GroupEntry{entry}
				found = true
				break
			}
		}
		if !found {
			return errors.Errorf("no PTG named %q in %s", only, configPath)
		}
	}

	for _, entry := range entries {
		if entry.Attributes.Has("num_paths") {
			if n := entry.Attributes.Float64("num_paths", 0); n > slowAlphaCnt {
				warningf(cCtx.App.ErrWriter, "PTG %q simulates %.0f trajectories, building it may take a while", entry.Name, n)
			}
		}
	}

	group, err := tpspace.NewGroup(entries, logger, opts...)
	if err != nil {
		return err
	}
	return f(entries, group.PTGs())
}

func newLogger(cCtx *cli.Context) (logging.Logger, error) {
	level, err := logging.LevelFromString(cCtx.String(generalFlagLogLevel))
	if err != nil {
		return nil, err
	}
	if cCtx.Bool(generalFlagDebug) {
		level = logging.DEBUG
	}
	logger := logging.NewBlankLogger("ptgtool")
	logger.AddAppender(logging.NewWriterAppender(cCtx.App.ErrWriter))
	logger.SetLevel(level)
	logging.ReplaceGlobal(logger)
	return logger, nil
}

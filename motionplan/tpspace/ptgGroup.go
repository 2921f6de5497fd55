package tpspace

import (
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"

	"go.viam.com/ptgnav/logging"
	"go.viam.com/ptgnav/utils"
)

// GroupEntry names one member of a Group and the attributes to build it from.
type GroupEntry struct {
	Name       string             `json:"name"`
	Family     string             `json:"family"`
	Attributes utils.AttributeMap `json:"attributes"`
}

// Group is an ordered set of PTGs a navigator chooses between.
type Group struct {
	names []string
	ptgs  []PTG
}

type ptgAndError struct {
	idx int
	ptg PTG
	err error
}

// NewGroup builds every entry's PTG concurrently. All construction errors are combined, a panicking constructor
// included; on any error no group is returned.
func NewGroup(entries []GroupEntry, logger logging.Logger, opts ...Option) (*Group, error) {
	if logger == nil {
		logger = logging.NewBlankLogger("tpspace")
	}
	ptgs := make([]PTG, len(entries))
	ptgChan := make(chan *ptgAndError, len(entries))
	for i, entry := range entries {
		goutils.PanicCapturingGoWithCallback(func() {
			ptg, err := NewPTG(entry.Family, entry.Attributes, logger.Sublogger(entry.Name), opts...)
			ptgChan <- &ptgAndError{i, ptg, err}
		}, func(panicErr interface{}) {
			ptgChan <- &ptgAndError{idx: i, err: errors.Errorf("panic while building PTG: %v", panicErr)}
		})
	}

	var allErr error
	for range entries {
		ptgReturn := <-ptgChan
		if ptgReturn.err != nil {
			allErr = multierr.Combine(allErr, errors.Wrapf(ptgReturn.err, "ptg %q", entries[ptgReturn.idx].Name))
			continue
		}
		// Consistent ordering, so that a PTG index means the same thing across runs
		ptgs[ptgReturn.idx] = ptgReturn.ptg
	}
	if allErr != nil {
		return nil, allErr
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name)
	}
	logger.Debugw("built PTG group", "members", names)
	return &Group{names: names, ptgs: ptgs}, nil
}

// PTGs returns the members of the group in entry order.
func (g *Group) PTGs() []PTG {
	return g.ptgs
}

// Names returns the member names in entry order.
func (g *Group) Names() []string {
	return g.names
}

// Lookup returns the member with the given name.
func (g *Group) Lookup(name string) (PTG, bool) {
	for i, n := range g.names {
		if n == name {
			return g.ptgs[i], true
		}
	}
	return nil, false
}

// TPObstacles projects obstacles into the TP-space of every member, in entry order.
func (g *Group) TPObstacles(obstacles []r2.Point) [][]float64 {
	out := make([][]float64, 0, len(g.ptgs))
	for _, ptg := range g.ptgs {
		out = append(out, TPObstacles(ptg, obstacles))
	}
	return out
}

// TPObstacles returns, for every trajectory index, the normalized distance at which the robot first comes within
// DefaultInverseMapTolerance of an obstacle while following that trajectory. Trajectories with no obstacle are free up
// to their reference distance, i.e. 1. One obstacle may block several trajectories.
func TPObstacles(ptg PTG, obstacles []r2.Point) []float64 {
	tpObstacles := make([]float64, ptg.AlphaCount())
	for k := range tpObstacles {
		tpObstacles[k] = 1.
	}
	if len(obstacles) == 0 {
		return tpObstacles
	}
	refDist := ptg.RefDistance()
	for k := range tpObstacles {
		traj, err := ptg.Trajectory(uint(k), 0)
		if err != nil {
			continue
		}
		for _, node := range traj {
			d := node.Dist / refDist
			if d >= tpObstacles[k] {
				break
			}
			if nearAny(node.Point(), obstacles, DefaultInverseMapTolerance) {
				tpObstacles[k] = d
				break
			}
		}
	}
	return tpObstacles
}

func nearAny(pt r2.Point, obstacles []r2.Point, tolerance float64) bool {
	for _, obs := range obstacles {
		if pt.Sub(obs).Norm() <= tolerance {
			return true
		}
	}
	return false
}

package tpspace

import (
	"github.com/golang/geo/r2"
)

// SimplePath returns the workspace polyline of trajectory k, cut at maxPathDist meters when > 0. Consecutive points are
// at least decimateDist meters apart, except that the final point is always included.
func SimplePath(ptg PTG, k uint, decimateDist, maxPathDist float64) ([]r2.Point, error) {
	traj, err := ptg.Trajectory(k, maxPathDist)
	if err != nil {
		return nil, err
	}
	if len(traj) == 0 {
		return nil, nil
	}

	path := []r2.Point{traj[0].Point()}
	last := traj[0].Point()
	for _, node := range traj[1:] {
		pt := node.Point()
		if pt.Sub(last).Norm() >= decimateDist {
			path = append(path, pt)
			last = pt
		}
	}
	if final := traj[len(traj)-1].Point(); final != last {
		path = append(path, final)
	}
	return path, nil
}

package tpspace

import (
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/kdtree"

	"go.viam.com/ptgnav/logging"
	"go.viam.com/ptgnav/utils"
)

// ptgGridSim will take a steering law, and simulate out a number of trajectories through some requested distance for
// speed of lookup later. It stores every simulated node in a k-d tree, which answers the inverse TP-space mapping.
// Families embed it and may override IsIntoDomain with a closed form test.
type ptgGridSim struct {
	steer    Steerer
	conf     DiffDriveConfig
	numPaths uint
	logger   logging.Logger
	store    TableStore
	exporter TrajectoryExporter

	rebuildMu sync.Mutex // serializes SetRefDistance calls

	mu    sync.RWMutex
	table *trajTable
}

// trajTable is immutable once built.
type trajTable struct {
	refDist float64
	trajs   [][]*TrajNode
	tree    *kdtree.Tree
}

func newPTGGridSim(steer Steerer, conf DiffDriveConfig, logger logging.Logger, opts ...Option) (*ptgGridSim, error) {
	if logger == nil {
		logger = logging.NewBlankLogger("tpspace")
	}
	conf = conf.withDefaults()
	if err := conf.validate("", false); err != nil {
		return nil, err
	}
	options := newPTGOptions(opts)
	ptg := &ptgGridSim{
		steer:    steer,
		conf:     conf,
		numPaths: uint(conf.NumPaths),
		logger:   logger,
		store:    options.store,
		exporter: options.exporter,
	}

	table, err := ptg.buildTable(ptg.conf.RefDistance)
	if err != nil {
		return nil, err
	}
	ptg.table = table
	return ptg, nil
}

func (ptg *ptgGridSim) Description() string {
	return ptg.steer.Description()
}

func (ptg *ptgGridSim) NeedsPersistentStorage() bool {
	return true
}

func (ptg *ptgGridSim) AlphaCount() uint {
	return ptg.numPaths
}

func (ptg *ptgGridSim) Index2Alpha(k uint) (float64, error) {
	return index2alpha(k, ptg.numPaths)
}

func (ptg *ptgGridSim) Alpha2Index(alpha float64) uint {
	return alpha2index(alpha, ptg.numPaths)
}

func (ptg *ptgGridSim) RefDistance() float64 {
	return ptg.currentTable().refDist
}

// SetRefDistance simulates a fresh table out to refDist and swaps it in. Queries running concurrently see either the
// old or the new table, never a mix.
func (ptg *ptgGridSim) SetRefDistance(refDist float64) error {
	if err := positive("ref_distance", refDist, true); err != nil {
		return utils.NewConfigValidationError("", err)
	}
	ptg.rebuildMu.Lock()
	defer ptg.rebuildMu.Unlock()

	table, err := ptg.buildTable(refDist)
	if err != nil {
		return err
	}
	ptg.mu.Lock()
	ptg.table = table
	ptg.mu.Unlock()
	return nil
}

func (ptg *ptgGridSim) currentTable() *trajTable {
	ptg.mu.RLock()
	defer ptg.mu.RUnlock()
	return ptg.table
}

func (ptg *ptgGridSim) WorldSpaceToTP(x, y, tolerance float64) (uint, float64, bool) {
	if !utils.IsFinite(x) || !utils.IsFinite(y) {
		return 0, math.Inf(1), false
	}
	table := ptg.currentTable()

	best, distSq := table.tree.Nearest(trajPoint{&TrajNode{X: x, Y: y}})
	if best != nil && math.Sqrt(distSq) <= tolerance {
		node := best.(trajPoint).node
		return node.K, node.Dist / table.refDist, true
	}

	// Given a point (x,y), compute the "k_closest" whose extrapolation is closest to the point, and the associated
	// "d_closest" distance, which can be normalized by "1/refDistance" to get TP-Space distances.
	bestDist := math.Inf(1)
	var bestNode *TrajNode
	for _, traj := range table.trajs {
		end := traj[len(traj)-1]
		distToPoint := math.Hypot(x-end.X, y-end.Y)
		if distToPoint < bestDist {
			bestDist = distToPoint
			bestNode = end
		}
	}
	return bestNode.K, (bestNode.Dist + bestDist) / table.refDist, false
}

func (ptg *ptgGridSim) IsIntoDomain(x, y float64) bool {
	_, _, hit := ptg.WorldSpaceToTP(x, y, DefaultInverseMapTolerance)
	return hit
}

// DirectionToMotionCommand returns the (v, w) pair commanded at the start of trajectory k.
func (ptg *ptgGridSim) DirectionToMotionCommand(k uint) ([]float64, error) {
	v, w, err := ptg.Velocities(k, 0)
	if err != nil {
		return nil, err
	}
	return []float64{v, w}, nil
}

func (ptg *ptgGridSim) Velocities(k uint, t float64) (float64, float64, error) {
	alpha, err := ptg.Index2Alpha(k)
	if err != nil {
		return 0, 0, err
	}
	if !utils.IsFinite(t) || t < 0 {
		return 0, 0, errors.Errorf("elapsed time must be a non-negative number, got %v", t)
	}
	node := ptg.stateAt(k, t)
	v, w := ptg.steer.PTGVelocities(alpha, t, node.X, node.Y, node.Phi)
	return v, w, nil
}

// stateAt returns the last stored node of trajectory k reached at or before time t.
func (ptg *ptgGridSim) stateAt(k uint, t float64) *TrajNode {
	traj := ptg.currentTable().trajs[k]
	i := sort.Search(len(traj), func(i int) bool { return traj[i].Time > t }) - 1
	if i < 0 {
		i = 0
	}
	return traj[i]
}

func (ptg *ptgGridSim) Trajectory(k uint, maxDist float64) ([]*TrajNode, error) {
	if k >= ptg.numPaths {
		return nil, NewAlphaIndexOutOfRangeError(k, ptg.numPaths)
	}
	traj := ptg.currentTable().trajs[k]
	out := make([]*TrajNode, 0, len(traj))
	for i, node := range traj {
		if maxDist > 0 && node.Dist > maxDist {
			if i > 0 {
				out = append(out, interpolateNode(traj[i-1], node, maxDist))
			}
			break
		}
		nodeCopy := *node
		out = append(out, &nodeCopy)
	}
	return out, nil
}

// Trajectories returns the whole precomputed table. Callers must not modify it.
func (ptg *ptgGridSim) Trajectories() [][]*TrajNode {
	return ptg.currentTable().trajs
}

func (ptg *ptgGridSim) DebugDumpInFiles(name string) bool {
	if ptg.exporter == nil {
		return true
	}
	if err := ptg.exporter.ExportTrajectories(name, ptg.Trajectories()); err != nil {
		ptg.logger.Warnw("failed to dump PTG trajectories", "name", name, "error", err)
		return false
	}
	return true
}

// tableKey identifies a precomputed table: two PTGs with equal keys simulate identical trajectories.
func (ptg *ptgGridSim) tableKey(refDist float64) string {
	return fmt.Sprintf("%s|ref_distance=%g|num_paths=%d|resolution=%g|sim_time_step=%g|max_sim_time=%g|turning_radius_reference=%g",
		ptg.Description(),
		refDist,
		ptg.numPaths,
		ptg.conf.Resolution,
		ptg.conf.SimTimeStep,
		ptg.conf.MaxSimTime,
		ptg.conf.TurningRadiusReference,
	)
}

func (ptg *ptgGridSim) buildTable(refDist float64) (*trajTable, error) {
	key := ptg.tableKey(refDist)
	if ptg.store != nil {
		trajs, ok, err := ptg.store.LoadTable(key)
		switch {
		case err != nil:
			ptg.logger.Warnw("failed to load precomputed PTG table, simulating instead", "key", key, "error", err)
		case ok && ptg.validTable(trajs):
			ptg.logger.Debugw("loaded precomputed PTG table", "key", key)
			return newTrajTable(refDist, trajs), nil
		case ok:
			ptg.logger.Warnw("stored PTG table does not match configuration, simulating instead", "key", key)
		}
	}

	trajs, err := ptg.simulateTrajectories(refDist)
	if err != nil {
		return nil, err
	}
	ptg.logger.Debugw("simulated PTG table", "description", ptg.Description(), "refDistance", refDist, "numPaths", len(trajs))

	if ptg.store != nil {
		if err := ptg.store.SaveTable(key, trajs); err != nil {
			ptg.logger.Warnw("failed to save precomputed PTG table", "key", key, "error", err)
		}
	}
	return newTrajTable(refDist, trajs), nil
}

func (ptg *ptgGridSim) validTable(trajs [][]*TrajNode) bool {
	if uint(len(trajs)) != ptg.numPaths {
		return false
	}
	for k, traj := range trajs {
		if len(traj) == 0 || traj[0].K != uint(k) {
			return false
		}
	}
	return true
}

func (ptg *ptgGridSim) simulateTrajectories(refDist float64) ([][]*TrajNode, error) {
	// C-space path structure
	allTraj := make([][]*TrajNode, ptg.numPaths)

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for k := uint(0); k < ptg.numPaths; k++ {
		g.Go(func() error {
			alpha, err := index2alpha(k, ptg.numPaths)
			if err != nil {
				return err
			}
			allTraj[k] = ptg.simulateTrajectory(k, alpha, refDist)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return allTraj, nil
}

// simulateTrajectory integrates the steering law for a single alpha until the path is refDist long, the law commands
// a stop, or the simulation time runs out. A node is kept every Resolution meters, plus the final state.
func (ptg *ptgGridSim) simulateTrajectory(k uint, alpha, refDist float64) []*TrajNode {
	dt := ptg.conf.SimTimeStep
	var x, y, phi, t, dist float64

	v, w := ptg.steer.PTGVelocities(alpha, 0, 0, 0, 0)
	traj := []*TrajNode{{K: k, Alpha: alpha, V: v, W: w}}
	lastStored := 0.

	for t < ptg.conf.MaxSimTime && dist < refDist {
		v, w = ptg.steer.PTGVelocities(alpha, t, x, y, phi)
		if v == 0 && w == 0 {
			break
		}

		ds := math.Abs(v) * dt
		if v == 0 {
			ds = math.Abs(w) * ptg.conf.TurningRadiusReference * dt
		}
		// midpoint heading over the step
		x += v * math.Cos(phi+0.5*w*dt) * dt
		y += v * math.Sin(phi+0.5*w*dt) * dt
		phi = utils.WrapToPi(phi + w*dt)
		t += dt
		dist += ds

		if dist-lastStored >= ptg.conf.Resolution {
			traj = append(traj, &TrajNode{K: k, Alpha: alpha, X: x, Y: y, Phi: phi, Time: t, Dist: dist, V: v, W: w})
			lastStored = dist
		}
	}
	if dist > lastStored {
		traj = append(traj, &TrajNode{K: k, Alpha: alpha, X: x, Y: y, Phi: phi, Time: t, Dist: dist, V: v, W: w})
	}
	return traj
}

func newTrajTable(refDist float64, trajs [][]*TrajNode) *trajTable {
	var points trajPoints
	for _, traj := range trajs {
		for _, node := range traj {
			points = append(points, trajPoint{node})
		}
	}
	return &trajTable{
		refDist: refDist,
		trajs:   trajs,
		tree:    kdtree.New(points, false),
	}
}

// interpolateNode returns the state at distance dist between two consecutive nodes.
func interpolateNode(from, to *TrajNode, dist float64) *TrajNode {
	frac := 0.
	if to.Dist > from.Dist {
		frac = (dist - from.Dist) / (to.Dist - from.Dist)
	}
	lerp := func(a, b float64) float64 { return a + frac*(b-a) }
	return &TrajNode{
		K:     from.K,
		Alpha: from.Alpha,
		X:     lerp(from.X, to.X),
		Y:     lerp(from.Y, to.Y),
		Phi:   from.Phi + frac*utils.WrapToPi(to.Phi-from.Phi),
		Time:  lerp(from.Time, to.Time),
		Dist:  dist,
		V:     from.V,
		W:     from.W,
	}
}

// trajPoint is a kdtree.Comparable view of a trajectory node.
type trajPoint struct {
	node *TrajNode
}

func (p trajPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(trajPoint)
	switch d {
	case 0:
		return p.node.X - q.node.X
	case 1:
		return p.node.Y - q.node.Y
	default:
		panic("illegal dimension")
	}
}

func (p trajPoint) Dims() int { return 2 }

// Distance returns the squared euclidean distance.
func (p trajPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(trajPoint)
	return utils.Square(p.node.X-q.node.X) + utils.Square(p.node.Y-q.node.Y)
}

type trajPoints []trajPoint

func (p trajPoints) Index(i int) kdtree.Comparable         { return p[i] }
func (p trajPoints) Len() int                              { return len(p) }
func (p trajPoints) Pivot(d kdtree.Dim) int                { return trajPlane{trajPoints: p, Dim: d}.Pivot() }
func (p trajPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// trajPlane allows trajPoints to be pivoted on a dimension.
type trajPlane struct {
	kdtree.Dim
	trajPoints
}

func (p trajPlane) Less(i, j int) bool {
	return p.trajPoints[i].Compare(p.trajPoints[j], p.Dim) < 0
}
func (p trajPlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p trajPlane) Slice(start, end int) kdtree.SortSlicer {
	p.trajPoints = p.trajPoints[start:end]
	return p
}

func (p trajPlane) Swap(i, j int) {
	p.trajPoints[i], p.trajPoints[j] = p.trajPoints[j], p.trajPoints[i]
}

// Package tpspace defines an assortment of precomputable trajectories which can be used to navigate nonholonomic 2d motion.
//
// A PTG (Parameterized Trajectory Generator) is a family of candidate paths indexed by a discrete heading parameter
// alpha. Workspace points are mapped into TP-space, (alpha index k, normalized distance d), so that a reactive navigator
// can reason about obstacles per candidate trajectory and then ask the PTG for the velocity command along the chosen one.
package tpspace

import (
	"github.com/golang/geo/r2"
)

const (
	defaultAlphaCnt uint = 91 // When precomputing arcs, use this many different, equally-spaced alpha values

	// DefaultInverseMapTolerance is the distance, in meters, within which a workspace point is considered to lie on a
	// trajectory.
	DefaultInverseMapTolerance = 0.10
)

// PTG is a Parameterized Trajectory Generator, which defines how to map back and forth from cartesian space to TP (alpha, d)
// One of these is needed for each sort of motion that can be done.
type PTG interface {
	// Description returns a short textual description of the PTG and its parameters.
	Description() string

	// NeedsPersistentStorage returns true if the PTG is not based on closed-form equations and answers queries from
	// precomputed tables which may be worth saving and loading.
	NeedsPersistentStorage() bool

	// WorldSpaceToTP converts an x, y workspace coord to a k, d (alpha index plus normalized distance) TP-space coord.
	// hit is true only if the distance between (x, y) and the matched trajectory point is within tolerance meters.
	// On a miss, k and d extrapolate from the trajectory end closest to the point and d may exceed 1.
	WorldSpaceToTP(x, y, tolerance float64) (k uint, d float64, hit bool)

	// IsIntoDomain returns whether (x, y) is reachable by some trajectory of this PTG.
	IsIntoDomain(x, y float64) bool

	// DirectionToMotionCommand converts a trajectory index into the command for the robot actuation interface.
	DirectionToMotionCommand(k uint) ([]float64, error)

	// Trajectory returns the trajectory nodes for alpha index k. If maxDist > 0 the path is cut at that many meters.
	Trajectory(k uint, maxDist float64) ([]*TrajNode, error)

	// DebugDumpInFiles hands every trajectory to the configured exporter under the given name. Failure to write is
	// reported as false and never affects the PTG itself.
	DebugDumpInFiles(name string) bool

	// RefDistance returns the distance, in meters, that normalized distances are relative to.
	RefDistance() float64

	// SetRefDistance changes the reference distance.
	SetRefDistance(refDist float64) error

	// AlphaCount returns the number of discrete alpha values.
	AlphaCount() uint

	// Index2Alpha returns the alpha value at the center of bucket k.
	Index2Alpha(k uint) (float64, error)

	// Alpha2Index returns the bucket containing alpha.
	Alpha2Index(alpha float64) uint
}

// DiffDrivePTG is a PTG for a differential drive robot, whose motion commands are a linear and angular velocity pair.
type DiffDrivePTG interface {
	PTG

	// Velocities returns the linear (m/s) and angular (rad/s) velocity at time t seconds along trajectory k.
	Velocities(k uint, t float64) (float64, float64, error)

	// Trajectories returns every precomputed trajectory, indexed by k.
	Trajectories() [][]*TrajNode
}

// PTGProvider is something able to provide a set of PTGs associsated with it.
type PTGProvider interface {
	// PTGs returns the list of PTGs associated with this provider
	PTGs() []PTG
}

// Steerer is a closed form differential drive steering law.
type Steerer interface {
	// PTGVelocities returns the linear and angular velocity at a specific point along a trajectory.
	PTGVelocities(alpha, t, x, y, phi float64) (float64, float64)

	// Description returns a short textual description of the steering law and its parameters.
	Description() string
}

// TrajNode is a snapshot of a single point in time along a PTG trajectory, including the distance along that trajectory,
// the elapsed time along the trajectory, and the linear and angular velocity at that point.
type TrajNode struct {
	K     uint    // alpha k-value at this node
	Alpha float64 // alpha value of the trajectory
	X     float64 // meters
	Y     float64 // meters
	Phi   float64 // heading, radians
	Time  float64 // elapsed time on trajectory
	Dist  float64 // distance travelled down trajectory, meters
	V     float64 // linvel at this node
	W     float64 // angvel at this node
}

// Point returns the workspace position of the node.
func (n *TrajNode) Point() r2.Point {
	return r2.Point{X: n.X, Y: n.Y}
}

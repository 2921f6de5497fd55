package tpspace

import (
	"fmt"
	"math"

	"go.viam.com/ptgnav/logging"
	"go.viam.com/ptgnav/utils"
)

// ptgDiffDriveC defines a PTG family composed of circular arcs. Alpha scales the angular velocity linearly, so alpha=0
// is a straight line and alpha=+/-pi is the tightest turn.
type ptgDiffDriveC struct {
	*ptgGridSim
	maxMPS float64 // meters per second velocity to target
	maxRPS float64 // radians per second of rotation when driving at maxMPS and turning at max turning radius
	k      float64 // k = +1 for forwards, -1 for backwards
}

// NewCirclePTG creates a new PTG of type ptgDiffDriveC.
func NewCirclePTG(conf DiffDriveConfig, logger logging.Logger, opts ...Option) (DiffDrivePTG, error) {
	if err := conf.Validate(""); err != nil {
		return nil, err
	}
	ptg := &ptgDiffDriveC{
		maxMPS: conf.VMaxMPS,
		maxRPS: utils.DegToRad(conf.WMaxDPS),
		k:      conf.K,
	}
	sim, err := newPTGGridSim(ptg, conf, logger, opts...)
	if err != nil {
		return nil, err
	}
	ptg.ptgGridSim = sim
	return ptg, nil
}

// PTGVelocities returns a constant (v, w) pair for the whole trajectory.
func (ptg *ptgDiffDriveC) PTGVelocities(alpha, t, x, y, phi float64) (float64, float64) {
	v := ptg.maxMPS * ptg.k
	// Use a linear mapping:  (Old was: w = tan( alpha/2 ) * W_MAX * sign(K))
	w := (alpha / math.Pi) * ptg.maxRPS * ptg.k
	return v, w
}

func (ptg *ptgDiffDriveC) Description() string {
	return fmt.Sprintf("C PTG (v_max=%.3f m/s, w_max=%.3f deg/s, K=%.3f)", ptg.maxMPS, utils.RadToDeg(ptg.maxRPS), ptg.k)
}

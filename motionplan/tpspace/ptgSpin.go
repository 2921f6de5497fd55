package tpspace

import (
	"fmt"
	"math"

	"go.viam.com/ptgnav/logging"
	"go.viam.com/ptgnav/utils"
)

// ptgDiffDriveSpin defines a PTG family composed of a spin in place followed by a straight line.
// Alpha is the heading to spin to before driving.
type ptgDiffDriveSpin struct {
	*ptgGridSim
	maxMPS float64 // meters per second velocity to target
	maxRPS float64 // radians per second of rotation when spinning in place
	k      float64 // k = +1 for forwards, -1 for backwards
}

// NewSpinPTG creates a new PTG of type ptgDiffDriveSpin.
func NewSpinPTG(conf DiffDriveConfig, logger logging.Logger, opts ...Option) (DiffDrivePTG, error) {
	if err := conf.Validate(""); err != nil {
		return nil, err
	}
	ptg := &ptgDiffDriveSpin{
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

// PTGVelocities turns at the max rotation in the direction specified, then drives straight.
func (ptg *ptgDiffDriveSpin) PTGVelocities(alpha, t, x, y, phi float64) (float64, float64) {
	// rotate this long before going straight
	turnTime := math.Abs(alpha) / ptg.maxRPS

	v := ptg.maxMPS
	w := 0.

	if t < turnTime {
		v = 0
		w = math.Copysign(ptg.maxRPS, alpha)
	}
	return v * ptg.k, w * ptg.k
}

func (ptg *ptgDiffDriveSpin) Description() string {
	return fmt.Sprintf("spin PTG (v_max=%.3f m/s, w_max=%.3f deg/s, K=%.3f)", ptg.maxMPS, utils.RadToDeg(ptg.maxRPS), ptg.k)
}

package tpspace

import (
	"fmt"
	"math"

	"go.viam.com/ptgnav/logging"
	"go.viam.com/ptgnav/utils"
)

// ptgDiffDriveCCS defines a PTG family combining the CC and CS trajectories, essentially executing the CC trajectory
// followed by a straight line.
type ptgDiffDriveCCS struct {
	*ptgGridSim
	maxMPS float64 // meters per second velocity to target
	maxRPS float64 // radians per second of rotation when driving at maxMPS and turning at max turning radius
	k      float64 // k = +1 for forwards, -1 for backwards
	r      float64
}

// NewCCSPTG creates a new PTG of type ptgDiffDriveCCS.
func NewCCSPTG(conf DiffDriveConfig, logger logging.Logger, opts ...Option) (DiffDrivePTG, error) {
	if err := conf.Validate(""); err != nil {
		return nil, err
	}
	ptg := &ptgDiffDriveCCS{
		maxMPS: conf.VMaxMPS,
		maxRPS: utils.DegToRad(conf.WMaxDPS),
		k:      conf.K,
	}
	ptg.r = ptg.maxMPS / ptg.maxRPS

	sim, err := newPTGGridSim(ptg, conf, logger, opts...)
	if err != nil {
		return nil, err
	}
	ptg.ptgGridSim = sim
	return ptg, nil
}

// PTGVelocities reverses along an arc, drives forward along the same arc for a quarter turn, then goes straight.
func (ptg *ptgDiffDriveCCS) PTGVelocities(alpha, t, x, y, phi float64) (float64, float64) {
	u := math.Abs(alpha) * 0.5

	v := ptg.maxMPS
	w := 0.

	if t < u*ptg.r/ptg.maxMPS {
		// l-
		v = -ptg.maxMPS
		w = ptg.maxRPS
	} else if t < (u+math.Pi/2)*ptg.r/ptg.maxMPS {
		// l+ pi/2
		w = ptg.maxRPS
	}

	// Turn in the opposite direction
	if alpha < 0 {
		w *= -1
	}

	return v * ptg.k, w * ptg.k
}

func (ptg *ptgDiffDriveCCS) Description() string {
	return fmt.Sprintf("C|C|S PTG (v_max=%.3f m/s, w_max=%.3f deg/s, K=%.3f)", ptg.maxMPS, utils.RadToDeg(ptg.maxRPS), ptg.k)
}

package tpspace

import (
	"fmt"
	"math"

	"go.viam.com/ptgnav/logging"
	"go.viam.com/ptgnav/utils"
)

// ptgDiffDriveCS defines a PTG family combined of two stages; first driving forwards while turning at radius, going straight.
// Alpha determines how far to turn before going straight.
type ptgDiffDriveCS struct {
	*ptgGridSim
	maxMPS float64 // meters per second velocity to target
	maxRPS float64 // radians per second of rotation when driving at maxMPS and turning at max turning radius
	k      float64 // k = +1 for forwards, -1 for backwards
	r      float64
}

// NewCSPTG creates a new PTG of type ptgDiffDriveCS.
func NewCSPTG(conf DiffDriveConfig, logger logging.Logger, opts ...Option) (DiffDrivePTG, error) {
	if err := conf.Validate(""); err != nil {
		return nil, err
	}
	ptg := &ptgDiffDriveCS{
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

// PTGVelocities turns alpha into a linear + angular velocity. Linear is just max * fwd/back.
func (ptg *ptgDiffDriveCS) PTGVelocities(alpha, t, x, y, phi float64) (float64, float64) {
	// Magic number; rotate this much before going straight
	// Bigger value = more rotation
	turnStraight := 1.2 * math.Sqrt(math.Abs(alpha)) * ptg.r / ptg.maxMPS

	v := ptg.maxMPS
	w := 0.

	if t < turnStraight {
		// l+
		w = ptg.maxRPS * math.Min(1.0, 1.0-math.Exp(-1*alpha*alpha))
	}

	// Turn in the opposite direction
	if alpha < 0 {
		w *= -1
	}

	return v * ptg.k, w * ptg.k
}

func (ptg *ptgDiffDriveCS) Description() string {
	return fmt.Sprintf("CS PTG (v_max=%.3f m/s, w_max=%.3f deg/s, K=%.3f)", ptg.maxMPS, utils.RadToDeg(ptg.maxRPS), ptg.k)
}

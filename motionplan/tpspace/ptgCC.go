package tpspace

import (
	"fmt"
	"math"

	"go.viam.com/ptgnav/logging"
	"go.viam.com/ptgnav/utils"
)

// ptgDiffDriveCC defines a PTG family combined of two stages; first reversing while turning at radius, then moving forwards while turning
// at radius, resulting in a path that looks like a "3"
// Alpha determines how far to reverse before moving forwards.
type ptgDiffDriveCC struct {
	*ptgGridSim
	maxMPS float64 // meters per second velocity to target
	maxRPS float64 // radians per second of rotation when driving at maxMPS and turning at max turning radius
	k      float64 // k = +1 for forwards, -1 for backwards
	r      float64 // turning radius, meters
}

// NewCCPTG creates a new PTG of type ptgDiffDriveCC.
func NewCCPTG(conf DiffDriveConfig, logger logging.Logger, opts ...Option) (DiffDrivePTG, error) {
	if err := conf.Validate(""); err != nil {
		return nil, err
	}
	ptg := &ptgDiffDriveCC{
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
// Note that this will NOT work as-is for 0-radius turning. Robots capable of turning in place will need to be special-cased
// because they will have zero linear velocity through their turns, not max.
func (ptg *ptgDiffDriveCC) PTGVelocities(alpha, t, x, y, phi float64) (float64, float64) {
	u := math.Abs(alpha) * 0.5

	v := 0.
	w := 0.

	if t < u*ptg.r/ptg.maxMPS {
		// l-
		v = -ptg.maxMPS
		w = ptg.maxRPS
	} else if t < (u+math.Pi*0.5)*ptg.r/ptg.maxMPS {
		// l+
		v = ptg.maxMPS
		w = ptg.maxRPS
	}

	// Turn in the opposite direction
	if alpha < 0 {
		w *= -1
	}

	return v * ptg.k, w * ptg.k
}

// IsIntoDomain is true for points inside either of the two circles of radius r tangent to the x axis at the origin.
func (ptg *ptgDiffDriveCC) IsIntoDomain(x, y float64) bool {
	return x*x+utils.Square(math.Abs(y)-ptg.r) <= ptg.r*ptg.r
}

func (ptg *ptgDiffDriveCC) Description() string {
	return fmt.Sprintf("C|C PTG (v_max=%.3f m/s, w_max=%.3f deg/s, K=%.3f)", ptg.maxMPS, utils.RadToDeg(ptg.maxRPS), ptg.k)
}

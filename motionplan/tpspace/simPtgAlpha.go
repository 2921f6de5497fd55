package tpspace

import (
	"fmt"
	"math"

	"go.viam.com/ptgnav/logging"
	"go.viam.com/ptgnav/utils"
)

// Pi / 4 (45 degrees), used as a default alpha constant
// This controls how tightly our parabolas arc
// 57 degrees is also sometimes used by the reference.
const defaultAlphaCteDeg = 45.

// simPTGAlpha defines a PTG family which follows a parabolic path.
type simPTGAlpha struct {
	*ptgGridSim
	maxMPS float64 // meters per second velocity to target
	maxRPS float64 // radians per second of rotation when driving at maxMPS and turning at max turning radius
	a0v    float64 // radians
	a0w    float64 // radians
}

// NewAlphaPTG creates a new PTG of type simPTGAlpha. Alpha PTGs have no K gain; they always drive forwards.
func NewAlphaPTG(conf AlphaConfig, logger logging.Logger, opts ...Option) (DiffDrivePTG, error) {
	if err := conf.Validate(""); err != nil {
		return nil, err
	}
	if conf.A0VDeg == 0 {
		conf.A0VDeg = defaultAlphaCteDeg
	}
	if conf.A0WDeg == 0 {
		conf.A0WDeg = defaultAlphaCteDeg
	}
	ptg := &simPTGAlpha{
		maxMPS: conf.VMaxMPS,
		maxRPS: utils.DegToRad(conf.WMaxDPS),
		a0v:    utils.DegToRad(conf.A0VDeg),
		a0w:    utils.DegToRad(conf.A0WDeg),
	}
	sim, err := newPTGGridSim(ptg, conf.DiffDriveConfig, logger, opts...)
	if err != nil {
		return nil, err
	}
	ptg.ptgGridSim = sim
	return ptg, nil
}

// PTGVelocities steers towards heading alpha, slowing down while the heading error is large.
func (ptg *simPTGAlpha) PTGVelocities(alpha, t, x, y, phi float64) (float64, float64) {
	// In order to know what to set our angvel at, we need to know how far into the path we are
	atA := utils.WrapToPi(alpha - phi)

	v := ptg.maxMPS * math.Exp(-1.*math.Pow(atA/ptg.a0v, 2))
	w := ptg.maxRPS * (-0.5 + (1. / (1. + math.Exp(-atA/ptg.a0w))))

	return v, w
}

func (ptg *simPTGAlpha) Description() string {
	return fmt.Sprintf("alpha-A PTG (v_max=%.3f m/s, w_max=%.3f deg/s, a0v=%.1f deg, a0w=%.1f deg)",
		ptg.maxMPS, utils.RadToDeg(ptg.maxRPS), utils.RadToDeg(ptg.a0v), utils.RadToDeg(ptg.a0w))
}

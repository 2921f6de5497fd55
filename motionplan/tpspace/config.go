package tpspace

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/ptgnav/utils"
)

const (
	defaultSimulationResolution float64 = 0.02  // meters between stored trajectory nodes
	defaultSimTimeStep          float64 = 0.001 // seconds per integration step
	defaultMaxSimTime           float64 = 100.  // seconds before a trajectory simulation gives up
	defaultTurningRadiusRef     float64 = 0.10  // meters; converts pure rotation into path length

	maxAlphaCnt = math.MaxUint16
)

// DiffDriveConfig holds the attributes shared by every differential drive PTG family.
type DiffDriveConfig struct {
	// RefDistance is the maximum distance, in meters, that a trajectory is simulated to. Normalized distances are
	// relative to it.
	RefDistance float64 `json:"ref_distance"`
	// NumPaths is the number of discrete alpha values, at most 65535. Defaults to 91. Signed so that a negative
	// attribute is rejected instead of wrapping around.
	NumPaths int `json:"num_paths"`

	// Resolution is the spacing, in meters, between stored trajectory nodes.
	Resolution float64 `json:"resolution"`
	// SimTimeStep is the integration step, in seconds.
	SimTimeStep float64 `json:"sim_time_step"`
	// MaxSimTime bounds the simulated time of a single trajectory, in seconds.
	MaxSimTime float64 `json:"max_sim_time"`
	// TurningRadiusReference converts rotation in place into path length, in meters.
	TurningRadiusReference float64 `json:"turning_radius_reference"`

	VMaxMPS float64 `json:"v_max_mps"`
	WMaxDPS float64 `json:"w_max_dps"`
	K       float64 `json:"k"` // k = +1 for forwards, -1 for backwards; other values scale the family
}

// Validate ensures all parts of the config are valid.
func (conf *DiffDriveConfig) Validate(path string) error {
	return conf.validate(path, true)
}

func (conf *DiffDriveConfig) validate(path string, requireK bool) error {
	var err error
	err = multierr.Append(err, positive("ref_distance", conf.RefDistance, true))
	if conf.NumPaths < 0 || conf.NumPaths > maxAlphaCnt {
		err = multierr.Append(err, errors.Errorf(`"num_paths" must be between 1 and %d, got %d`, maxAlphaCnt, conf.NumPaths))
	}
	err = multierr.Append(err, positive("v_max_mps", conf.VMaxMPS, true))
	err = multierr.Append(err, positive("w_max_dps", conf.WMaxDPS, true))
	if requireK && conf.K == 0 {
		err = multierr.Append(err, errors.New(`"k" is required`))
	}
	if !utils.IsFinite(conf.K) {
		err = multierr.Append(err, errors.Errorf(`"k" must be finite, got %v`, conf.K))
	}
	err = multierr.Append(err, positive("resolution", conf.Resolution, false))
	err = multierr.Append(err, positive("sim_time_step", conf.SimTimeStep, false))
	err = multierr.Append(err, positive("max_sim_time", conf.MaxSimTime, false))
	err = multierr.Append(err, positive("turning_radius_reference", conf.TurningRadiusReference, false))
	if err != nil {
		return utils.NewConfigValidationError(path, err)
	}
	return nil
}

// withDefaults returns a copy of the config with every optional field filled in.
func (conf DiffDriveConfig) withDefaults() DiffDriveConfig {
	if conf.NumPaths == 0 {
		conf.NumPaths = int(defaultAlphaCnt)
	}
	if conf.Resolution == 0 {
		conf.Resolution = defaultSimulationResolution
	}
	if conf.SimTimeStep == 0 {
		conf.SimTimeStep = defaultSimTimeStep
	}
	if conf.MaxSimTime == 0 {
		conf.MaxSimTime = defaultMaxSimTime
	}
	if conf.TurningRadiusReference == 0 {
		conf.TurningRadiusReference = defaultTurningRadiusRef
	}
	return conf
}

// AlphaConfig configures the alpha-A family, which has no K gain but two shape constants.
type AlphaConfig struct {
	DiffDriveConfig `json:",squash"`

	A0VDeg float64 `json:"cte_a0v_deg"` // how quickly linear velocity decays with heading error
	A0WDeg float64 `json:"cte_a0w_deg"` // how quickly angular velocity saturates with heading error
}

// Validate ensures all parts of the config are valid.
func (conf *AlphaConfig) Validate(path string) error {
	if err := conf.DiffDriveConfig.validate(path, false); err != nil {
		return err
	}
	err := multierr.Combine(
		positive("cte_a0v_deg", conf.A0VDeg, false),
		positive("cte_a0w_deg", conf.A0WDeg, false),
	)
	if err != nil {
		return utils.NewConfigValidationError(path, err)
	}
	return nil
}

// positive checks that a value is a finite number greater than zero. Zero means "unset", which is only an error when
// the field is required.
func positive(field string, val float64, required bool) error {
	switch {
	case !utils.IsFinite(val):
		return errors.Errorf("%q must be finite, got %v", field, val)
	case val == 0 && required:
		return errors.Errorf("%q is required", field)
	case val < 0:
		return errors.Errorf("%q must be positive, got %v", field, val)
	}
	return nil
}
